package ens

import (
	"bytes"
	"context"
	"errors"
	"math/big"
	"sync"

	goethereum "github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"

	baseabi "github.com/x-xyz/ensapi/base/abi"
	"github.com/x-xyz/ensapi/service/chain"
)

var (
	registryAddr    = common.HexToAddress("0x00000000000C2E074eC69A0dFb2997BA6C7d2e1e")
	publicResolver  = common.HexToAddress("0x4976fb03C32e5B8cfe2b6cCB31c09Ba78EBaBa41")
	wildcardParent  = common.HexToAddress("0x7Ce0c1c5A7B3B9c3F2e7A8C4bC9b3D2b6a1E2f30")
	reverseResolver = common.HexToAddress("0xA2C122BE93b0074270ebeE7f6b7292C7deB45047")
	offchainRes     = common.HexToAddress("0xC1735677a60884ABbCF72295E88d47764BeDa282")

	alice = common.HexToAddress("0x2D9F0e3C7E2D58a7E9C3C1E7F58A0C2C0A1b9b01")
	bob   = common.HexToAddress("0x8ba1f109551bD432803012645Ac136ddd64DBA72")

	errNodeDown = errors.New("connection refused")

	callbackSelector = [4]byte{0xb4, 0xa8, 0x58, 0x01}
)

func selector(method string) []byte {
	return baseabi.ENSResolverABI.Methods[method].ID
}

// fakeChain answers registry and resolver calls from in-memory records
type fakeChain struct {
	mu sync.Mutex

	resolvers map[common.Hash]common.Address
	owners    map[common.Hash]common.Address
	addrs     map[common.Address]map[common.Hash]common.Address
	names     map[common.Address]map[common.Hash]string
	extended  map[common.Address]bool
	handlers  map[common.Address]func(data []byte) ([]byte, error)

	registryCalls map[common.Hash]int
	resolverCalls int
	registryErr   error
	// block holds every call until ctx is done
	block bool
}

func newFakeChain() *fakeChain {
	return &fakeChain{
		resolvers:     map[common.Hash]common.Address{},
		owners:        map[common.Hash]common.Address{},
		addrs:         map[common.Address]map[common.Hash]common.Address{},
		names:         map[common.Address]map[common.Hash]string{},
		extended:      map[common.Address]bool{},
		handlers:      map[common.Address]func(data []byte) ([]byte, error){},
		registryCalls: map[common.Hash]int{},
	}
}

func (f *fakeChain) setResolver(name string, resolver common.Address) {
	f.resolvers[Namehash(name)] = resolver
}

func (f *fakeChain) setAddr(resolver common.Address, name string, addr common.Address) {
	if f.addrs[resolver] == nil {
		f.addrs[resolver] = map[common.Hash]common.Address{}
	}
	f.addrs[resolver][Namehash(name)] = addr
}

func (f *fakeChain) setName(resolver common.Address, addr common.Address, name string) {
	if f.names[resolver] == nil {
		f.names[resolver] = map[common.Hash]string{}
	}
	f.names[resolver][Namehash(reverseName(lowerHex(addr)))] = name
}

func (f *fakeChain) registryCallsFor(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.registryCalls[Namehash(name)]
}

func (f *fakeChain) totalRegistryCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.registryCalls {
		n += c
	}
	return n
}

func lowerHex(addr common.Address) string {
	return common.Bytes2Hex(addr.Bytes())
}

func (f *fakeChain) CallContract(ctx context.Context, msg goethereum.CallMsg, block *big.Int) ([]byte, error) {
	if f.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	to := *msg.To
	if to == registryAddr {
		return f.registry(msg.Data)
	}

	f.mu.Lock()
	f.resolverCalls++
	handler := f.handlers[to]
	f.mu.Unlock()
	if handler != nil {
		return handler(msg.Data)
	}
	return f.resolver(to, msg.Data)
}

func (f *fakeChain) registry(data []byte) ([]byte, error) {
	node := common.BytesToHash(data[4:36])
	f.mu.Lock()
	f.registryCalls[node]++
	f.mu.Unlock()
	if f.registryErr != nil {
		return nil, f.registryErr
	}
	switch {
	case bytes.Equal(data[:4], baseabi.ENSRegistryABI.Methods["resolver"].ID):
		return baseabi.ENSRegistryABI.Methods["resolver"].Outputs.Pack(f.resolvers[node])
	case bytes.Equal(data[:4], baseabi.ENSRegistryABI.Methods["owner"].ID):
		return baseabi.ENSRegistryABI.Methods["owner"].Outputs.Pack(f.owners[node])
	}
	return nil, &chain.RevertError{}
}

func (f *fakeChain) resolver(to common.Address, data []byte) ([]byte, error) {
	methods := baseabi.ENSResolverABI.Methods
	switch {
	case bytes.Equal(data[:4], selector("supportsInterface")):
		var id [4]byte
		copy(id[:], data[4:8])
		return methods["supportsInterface"].Outputs.Pack(f.extended[to] && id == baseabi.ExtendedResolverInterfaceID)
	case bytes.Equal(data[:4], selector("addr")):
		return methods["addr"].Outputs.Pack(f.addrs[to][common.BytesToHash(data[4:36])])
	case bytes.Equal(data[:4], selector("name")):
		return methods["name"].Outputs.Pack(f.names[to][common.BytesToHash(data[4:36])])
	case bytes.Equal(data[:4], selector("resolve")):
		if !f.extended[to] {
			return nil, &chain.RevertError{}
		}
		args, err := methods["resolve"].Inputs.Unpack(data[4:])
		if err != nil {
			return nil, &chain.RevertError{}
		}
		inner, err := f.resolver(to, args[1].([]byte))
		if err != nil {
			return nil, err
		}
		return baseabi.BytesArgs.Pack(inner)
	}
	return nil, &chain.RevertError{}
}

func offchainLookupRevert(sender common.Address, urls []string, callData, extraData []byte) error {
	args, err := baseabi.OffchainLookupArgs.Pack(sender, urls, callData, callbackSelector, extraData)
	if err != nil {
		panic(err)
	}
	return &chain.RevertError{Data: append(baseabi.OffchainLookupSelector[:], args...)}
}

// unpackCallback returns the gateway response carried by callback calldata
func unpackCallback(data []byte) (response, extraData []byte, ok bool) {
	if len(data) < 4 || !bytes.Equal(data[:4], callbackSelector[:]) {
		return nil, nil, false
	}
	values, err := baseabi.CallbackArgs.Unpack(data[4:])
	if err != nil {
		return nil, nil, false
	}
	return values[0].([]byte), values[1].([]byte), true
}

func packAddr(addr common.Address) []byte {
	b, err := baseabi.ENSResolverABI.Methods["addr"].Outputs.Pack(addr)
	if err != nil {
		panic(err)
	}
	return b
}
