package contract

import (
	ethabi "github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"golang.org/x/xerrors"

	baseabi "github.com/x-xyz/ensapi/base/abi"
	bCtx "github.com/x-xyz/ensapi/base/ctx"
	"github.com/x-xyz/ensapi/service/chain"
)

// EnsRegistryContract reads the ENS registry at a fixed address
type EnsRegistryContract interface {
	Address() common.Address
	Resolver(ctx bCtx.Ctx, node common.Hash) (common.Address, error)
	Owner(ctx bCtx.Ctx, node common.Hash) (common.Address, error)
}

type EnsRegistry struct {
	chainService chain.Client
	abi          ethabi.ABI
	addr         common.Address
}

func NewEnsRegistry(chainService chain.Client, addr common.Address) EnsRegistryContract {
	return &EnsRegistry{
		chainService: chainService,
		abi:          baseabi.ENSRegistryABI,
		addr:         addr,
	}
}

func (e *EnsRegistry) Address() common.Address {
	return e.addr
}

func (e *EnsRegistry) Resolver(ctx bCtx.Ctx, node common.Hash) (common.Address, error) {
	return e.addressCall(ctx, "resolver", node)
}

func (e *EnsRegistry) Owner(ctx bCtx.Ctx, node common.Hash) (common.Address, error) {
	return e.addressCall(ctx, "owner", node)
}

func (e *EnsRegistry) addressCall(ctx bCtx.Ctx, method string, node common.Hash) (common.Address, error) {
	unpacked, err := e.chainService.Call(ctx, e.addr, nil, e.abi, method, node)
	if err != nil {
		return common.Address{}, err
	}
	return unpacked[0].(common.Address), nil
}

// EnsResolverContract is the part of a resolver answered without a name
type EnsResolverContract interface {
	SupportsInterface(ctx bCtx.Ctx, resolver common.Address, id [4]byte) (bool, error)
}

type EnsResolver struct {
	chainService chain.Client
	abi          ethabi.ABI
}

func NewEnsResolver(chainService chain.Client) EnsResolverContract {
	return &EnsResolver{
		chainService: chainService,
		abi:          baseabi.ENSResolverABI,
	}
}

func (e *EnsResolver) SupportsInterface(ctx bCtx.Ctx, resolver common.Address, id [4]byte) (bool, error) {
	unpacked, err := e.chainService.Call(ctx, resolver, nil, e.abi, "supportsInterface", id)
	if err != nil {
		return false, err
	}
	supported, ok := unpacked[0].(bool)
	if !ok {
		return false, xerrors.Errorf("supportsInterface on %s: %w", resolver.Hex(), chain.ErrUnpack)
	}
	return supported, nil
}
