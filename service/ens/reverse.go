package ens

import (
	"errors"

	"github.com/ethereum/go-ethereum/common"
	"golang.org/x/xerrors"

	bCtx "github.com/x-xyz/ensapi/base/ctx"
	"github.com/x-xyz/ensapi/base/ethereum"
	"github.com/x-xyz/ensapi/base/log"
	ensdomain "github.com/x-xyz/ensapi/domain/ens"
)

// ResolveReverse returns the primary name of addr. The name is only returned
// when it resolves forward to addr again.
func (e *Engine) ResolveReverse(ctx bCtx.Ctx, addr common.Address, mode ensdomain.Mode) (string, error) {
	defer e.met.BumpTime("reverse.time", "mode", mode.String()).End()
	name, err := e.resolveReverse(ctx, e.registry, addr, mode)
	if err != nil {
		e.bumpErr("reverse", err)
		return "", err
	}
	return name, nil
}

func (e *Engine) resolveReverse(ctx bCtx.Ctx, lookup ResolverLookup, addr common.Address, mode ensdomain.Mode) (string, error) {
	rname := reverseName(ethereum.LowerHexNoPrefix(addr))
	// reverse records of many deployments are served by a wildcard resolver
	// on addr.reverse, whatever the mode
	r, err := discover(ctx, lookup, rname, true)
	if err != nil {
		return "", err
	}
	out, err := e.query(ctx, r, rname, mode, "name")
	if err != nil {
		return "", err
	}
	name, ok := out[0].(string)
	if !ok || name == "" {
		return "", xerrors.Errorf("%s has no name: %w", addr.Hex(), ensdomain.ErrEnsUnknown)
	}

	fwd, err := e.resolveForward(ctx, lookup, name, mode)
	if err != nil {
		if errors.Is(err, ensdomain.ErrTransport) {
			return "", err
		}
		ctx.WithFields(log.Fields{"addr": addr.Hex(), "name": name, "err": err}).Debug("reverse name does not resolve forward")
		return "", xerrors.Errorf("verify %s: %v: %w", name, err, ensdomain.ErrEnsUnknown)
	}
	if fwd != addr {
		ctx.WithFields(log.Fields{"addr": addr.Hex(), "name": name, "forward": fwd.Hex()}).Debug("reverse name points elsewhere")
		return "", xerrors.Errorf("%s resolves to %s, not %s: %w", name, fwd.Hex(), addr.Hex(), ensdomain.ErrEnsUnknown)
	}
	return name, nil
}
