package ens

import (
	"github.com/ethereum/go-ethereum/common"
	"golang.org/x/xerrors"

	bCtx "github.com/x-xyz/ensapi/base/ctx"
	"github.com/x-xyz/ensapi/base/ethereum"
	ensdomain "github.com/x-xyz/ensapi/domain/ens"
)

// ResolveForward returns the address name points to
func (e *Engine) ResolveForward(ctx bCtx.Ctx, name string, mode ensdomain.Mode) (common.Address, error) {
	defer e.met.BumpTime("forward.time", "mode", mode.String()).End()
	addr, err := e.resolveForward(ctx, e.registry, name, mode)
	if err != nil {
		e.bumpErr("forward", err)
		return common.Address{}, err
	}
	return addr, nil
}

func (e *Engine) resolveForward(ctx bCtx.Ctx, lookup ResolverLookup, name string, mode ensdomain.Mode) (common.Address, error) {
	normalized, err := e.cfg.Normalize.Apply(name)
	if err != nil {
		return common.Address{}, err
	}
	r, err := discover(ctx, lookup, normalized, mode.AllowWildcard())
	if err != nil {
		return common.Address{}, err
	}
	out, err := e.query(ctx, r, normalized, mode, "addr")
	if err != nil {
		return common.Address{}, err
	}
	addr, ok := out[0].(common.Address)
	if !ok || ethereum.IsZero(addr) {
		return common.Address{}, xerrors.Errorf("%s has no address: %w", name, ensdomain.ErrEnsUnknown)
	}
	return addr, nil
}
