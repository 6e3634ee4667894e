package ens

import (
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"golang.org/x/sync/singleflight"

	bCtx "github.com/x-xyz/ensapi/base/ctx"
)

type memoEntry struct {
	addr common.Address
	ok   bool
}

// memoLookup remembers the registry answers of one batch, so items sharing
// an ancestor issue one registry call per node. Concurrent lookups of the
// same node are collapsed. Failures are not remembered.
type memoLookup struct {
	lookup ResolverLookup
	group  singleflight.Group

	mu    sync.RWMutex
	found map[common.Hash]memoEntry
}

func newMemoLookup(lookup ResolverLookup) *memoLookup {
	return &memoLookup{
		lookup: lookup,
		found:  map[common.Hash]memoEntry{},
	}
}

func (m *memoLookup) ResolverFor(ctx bCtx.Ctx, node common.Hash) (common.Address, bool, error) {
	m.mu.RLock()
	e, hit := m.found[node]
	m.mu.RUnlock()
	if hit {
		return e.addr, e.ok, nil
	}

	v, err, _ := m.group.Do(node.Hex(), func() (interface{}, error) {
		m.mu.RLock()
		e, hit := m.found[node]
		m.mu.RUnlock()
		if hit {
			return e, nil
		}
		addr, ok, err := m.lookup.ResolverFor(ctx, node)
		if err != nil {
			return nil, err
		}
		e = memoEntry{addr: addr, ok: ok}
		m.mu.Lock()
		m.found[node] = e
		m.mu.Unlock()
		return e, nil
	})
	if err != nil {
		return common.Address{}, false, err
	}
	e = v.(memoEntry)
	return e.addr, e.ok, nil
}
