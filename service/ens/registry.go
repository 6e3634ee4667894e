package ens

import (
	"time"

	"github.com/ethereum/go-ethereum/common"
	"golang.org/x/xerrors"

	bCtx "github.com/x-xyz/ensapi/base/ctx"
	"github.com/x-xyz/ensapi/base/ethereum"
	ensdomain "github.com/x-xyz/ensapi/domain/ens"
	"github.com/x-xyz/ensapi/service/chain/contract"
)

// ResolverLookup finds the resolver registered for a node. ok is false when
// the registry holds the zero address.
type ResolverLookup interface {
	ResolverFor(ctx bCtx.Ctx, node common.Hash) (resolver common.Address, ok bool, err error)
}

// Registry reads resolver and owner records. Every failure, a revert
// included, is a transport error. It never retries.
type Registry struct {
	contract contract.EnsRegistryContract
	timeout  time.Duration
}

func NewRegistry(c contract.EnsRegistryContract, timeout time.Duration) *Registry {
	return &Registry{
		contract: c,
		timeout:  timeout,
	}
}

func (r *Registry) Address() common.Address {
	return r.contract.Address()
}

func (r *Registry) ResolverFor(ctx bCtx.Ctx, node common.Hash) (common.Address, bool, error) {
	c, cancel := bCtx.WithTimeout(ctx, r.timeout)
	defer cancel()
	addr, err := r.contract.Resolver(c, node)
	if err != nil {
		return common.Address{}, false, xerrors.Errorf("registry resolver(%s): %v: %w", node.Hex(), err, ensdomain.ErrTransport)
	}
	return addr, !ethereum.IsZero(addr), nil
}

func (r *Registry) OwnerOf(ctx bCtx.Ctx, node common.Hash) (common.Address, bool, error) {
	c, cancel := bCtx.WithTimeout(ctx, r.timeout)
	defer cancel()
	addr, err := r.contract.Owner(c, node)
	if err != nil {
		return common.Address{}, false, xerrors.Errorf("registry owner(%s): %v: %w", node.Hex(), err, ensdomain.ErrTransport)
	}
	return addr, !ethereum.IsZero(addr), nil
}
