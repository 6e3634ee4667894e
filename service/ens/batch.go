package ens

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
	"github.com/viney-shih/goroutines"

	bCtx "github.com/x-xyz/ensapi/base/ctx"
	"github.com/x-xyz/ensapi/base/ethereum"
	"github.com/x-xyz/ensapi/base/goroutine"
	"github.com/x-xyz/ensapi/base/log"
	ensdomain "github.com/x-xyz/ensapi/domain/ens"
)

type indexedOutput struct {
	idx int
	out ensdomain.ResolveOutput
}

// ResolveMany resolves every item concurrently. The outputs follow the order
// of items and a failing item never fails the others. Registry answers are
// shared by the items of one call. When ctx is done before every item is
// resolved, the partial outputs are dropped and ctx.Err() is returned.
func (e *Engine) ResolveMany(ctx bCtx.Ctx, items []ensdomain.Item, mode ensdomain.Mode) ([]ensdomain.ResolveOutput, error) {
	outputs := make([]ensdomain.ResolveOutput, len(items))
	if len(items) == 0 {
		return outputs, nil
	}
	defer e.met.BumpTime("batch.time", "mode", mode.String()).End()

	ctx = bCtx.WithValue(ctx, "batchID", uuid.NewString())
	lookup := newMemoLookup(e.registry)

	workers := e.cfg.BatchWorkers
	if workers > len(items) {
		workers = len(items)
	}
	b := goroutines.NewBatch(workers, goroutines.WithBatchSize(len(items)))
	defer b.Close()
	for i := range items {
		idx := i
		b.Queue(func() (res interface{}, err error) {
			defer func() {
				if ev := goroutine.Recover(recover(), ctx.Logger.WithField("idx", idx)); ev != nil {
					res = indexedOutput{idx: idx, out: ensdomain.ResolveOutput{Item: items[idx], Error: ensdomain.KindTransport}}
				}
			}()
			return indexedOutput{idx: idx, out: e.resolveItem(ctx, lookup, items[idx], mode)}, nil
		})
	}
	b.QueueComplete()

	results := b.Results()
	for n := 0; n < len(items); n++ {
		select {
		case <-ctx.Done():
			ctx.WithFields(log.Fields{"done": n, "total": len(items)}).Warn("batch abandoned")
			return nil, ctx.Err()
		case ret, ok := <-results:
			if !ok {
				return nil, ctx.Err()
			}
			r := ret.Value().(indexedOutput)
			outputs[r.idx] = r.out
		}
	}
	// items cut short by a cancellation look like transport failures
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return outputs, nil
}

func (e *Engine) resolveItem(ctx bCtx.Ctx, lookup ResolverLookup, item ensdomain.Item, mode ensdomain.Mode) ensdomain.ResolveOutput {
	out := ensdomain.ResolveOutput{Item: item}
	var err error
	switch item.Direction {
	case ensdomain.DirectionForward:
		var addr common.Address
		if addr, err = e.resolveForward(ctx, lookup, item.Input, mode); err == nil {
			out.Result = addr.Hex()
		}
	case ensdomain.DirectionReverse:
		var addr common.Address
		if addr, err = ethereum.ParseAddress(item.Input); err != nil {
			out.Error = ensdomain.KindInvalidDomainName
			return out
		}
		var name string
		if name, err = e.resolveReverse(ctx, lookup, addr, mode); err == nil {
			out.Result = name
		}
	default:
		out.Error = ensdomain.KindInvalidDomainName
		return out
	}
	if err != nil {
		e.bumpErr("batch", err)
		out.Error = ensdomain.KindOf(err)
	}
	return out
}

// ResolveNames resolves names forward, in order
func (e *Engine) ResolveNames(ctx bCtx.Ctx, names []string, mode ensdomain.Mode) ([]ensdomain.ResolveOutput, error) {
	items := make([]ensdomain.Item, len(names))
	for i, name := range names {
		items[i] = ensdomain.Item{Input: name, Direction: ensdomain.DirectionForward}
	}
	return e.ResolveMany(ctx, items, mode)
}

// ResolveAddresses resolves addrs to their primary names, in order
func (e *Engine) ResolveAddresses(ctx bCtx.Ctx, addrs []common.Address, mode ensdomain.Mode) ([]ensdomain.ResolveOutput, error) {
	items := make([]ensdomain.Item, len(addrs))
	for i, addr := range addrs {
		items[i] = ensdomain.Item{Input: addr.Hex(), Direction: ensdomain.DirectionReverse}
	}
	return e.ResolveMany(ctx, items, mode)
}
