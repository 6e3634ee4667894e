package ens

import (
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// Namehash folds the labels of name from right to left, starting from the
// zero node: node = keccak256(node ‖ keccak256(label)). The empty name is
// the zero node. Labels are hashed as given, see NormalizePolicy.
func Namehash(name string) common.Hash {
	node := common.Hash{}
	if name == "" {
		return node
	}
	labels := strings.Split(name, ".")
	for i := len(labels) - 1; i >= 0; i-- {
		node = crypto.Keccak256Hash(node.Bytes(), LabelHash(labels[i]).Bytes())
	}
	return node
}

// LabelHash is keccak256 of the utf-8 bytes of one label
func LabelHash(label string) common.Hash {
	return crypto.Keccak256Hash([]byte(label))
}

// reverseName is the name holding the reverse record of addr
func reverseName(addrHexNoPrefix string) string {
	return addrHexNoPrefix + ".addr.reverse"
}
