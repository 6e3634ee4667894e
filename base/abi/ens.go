package abi

import (
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

var (
	ENSRegistryABI abi.ABI
	ENSResolverABI abi.ABI

	// OffchainLookupArgs are the fields of
	// OffchainLookup(address,string[],bytes,bytes4,bytes)
	OffchainLookupArgs abi.Arguments
	// CallbackArgs encode (bytes response, bytes extraData) for the
	// OffchainLookup callback
	CallbackArgs abi.Arguments
	// BytesArgs decode the single bytes return of resolve(bytes,bytes)
	BytesArgs abi.Arguments
)

// OffchainLookupSelector is bytes4(keccak256("OffchainLookup(address,string[],bytes,bytes4,bytes)"))
var OffchainLookupSelector = [4]byte{0x55, 0x6f, 0x18, 0x30}

// ExtendedResolverInterfaceID is the ENSIP-10 interface id of resolve(bytes,bytes)
var ExtendedResolverInterfaceID = [4]byte{0x90, 0x61, 0xb9, 0x23}

func init() {
	_abi, err := abi.JSON(strings.NewReader(ensRegistryABIJson))
	if err != nil {
		panic("Failed to parse ABI")
	}
	ENSRegistryABI = _abi

	_abi, err = abi.JSON(strings.NewReader(ensResolverABIJson))
	if err != nil {
		panic("Failed to parse ABI")
	}
	ENSResolverABI = _abi

	OffchainLookupArgs = abi.Arguments{
		{Name: "sender", Type: mustType("address")},
		{Name: "urls", Type: mustType("string[]")},
		{Name: "callData", Type: mustType("bytes")},
		{Name: "callbackFunction", Type: mustType("bytes4")},
		{Name: "extraData", Type: mustType("bytes")},
	}
	CallbackArgs = abi.Arguments{
		{Name: "response", Type: mustType("bytes")},
		{Name: "extraData", Type: mustType("bytes")},
	}
	BytesArgs = abi.Arguments{
		{Name: "", Type: mustType("bytes")},
	}
}

func mustType(t string) abi.Type {
	typ, err := abi.NewType(t, "", nil)
	if err != nil {
		panic("Failed to parse ABI type " + t)
	}
	return typ
}

var ensRegistryABIJson = `
[
  {
    "inputs": [
      {
        "internalType": "bytes32",
        "name": "node",
        "type": "bytes32"
      }
    ],
    "name": "owner",
    "outputs": [
      {
        "internalType": "address",
        "name": "",
        "type": "address"
      }
    ],
    "stateMutability": "view",
    "type": "function"
  },
  {
    "inputs": [
      {
        "internalType": "bytes32",
        "name": "node",
        "type": "bytes32"
      }
    ],
    "name": "resolver",
    "outputs": [
      {
        "internalType": "address",
        "name": "",
        "type": "address"
      }
    ],
    "stateMutability": "view",
    "type": "function"
  }
]
`

var ensResolverABIJson = `
[
  {
    "inputs": [
      {
        "internalType": "bytes32",
        "name": "node",
        "type": "bytes32"
      }
    ],
    "name": "addr",
    "outputs": [
      {
        "internalType": "address payable",
        "name": "",
        "type": "address"
      }
    ],
    "stateMutability": "view",
    "type": "function"
  },
  {
    "inputs": [
      {
        "internalType": "bytes32",
        "name": "node",
        "type": "bytes32"
      }
    ],
    "name": "name",
    "outputs": [
      {
        "internalType": "string",
        "name": "",
        "type": "string"
      }
    ],
    "stateMutability": "view",
    "type": "function"
  },
  {
    "inputs": [
      {
        "internalType": "bytes",
        "name": "name",
        "type": "bytes"
      },
      {
        "internalType": "bytes",
        "name": "data",
        "type": "bytes"
      }
    ],
    "name": "resolve",
    "outputs": [
      {
        "internalType": "bytes",
        "name": "",
        "type": "bytes"
      }
    ],
    "stateMutability": "view",
    "type": "function"
  },
  {
    "inputs": [
      {
        "internalType": "bytes4",
        "name": "interfaceID",
        "type": "bytes4"
      }
    ],
    "name": "supportsInterface",
    "outputs": [
      {
        "internalType": "bool",
        "name": "",
        "type": "bool"
      }
    ],
    "stateMutability": "view",
    "type": "function"
  }
]
`
