package ens

import (
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"golang.org/x/xerrors"

	bCtx "github.com/x-xyz/ensapi/base/ctx"
	"github.com/x-xyz/ensapi/base/log"
	ensdomain "github.com/x-xyz/ensapi/domain/ens"
)

// Resolver is the outcome of discovery
type Resolver struct {
	Address common.Address
	// Node is the node the resolver is registered for
	Node common.Hash
	// Level is the number of leftmost labels stripped before a resolver was
	// found, 0 for the name itself
	Level int
}

func (r *Resolver) IsWildcard() bool {
	return r.Level > 0
}

// discover looks up the resolver of name, then, when allowWildcard is set,
// the resolvers of its ancestors from the closest one up. The root node is
// never queried.
func discover(ctx bCtx.Ctx, lookup ResolverLookup, name string, allowWildcard bool) (*Resolver, error) {
	node := Namehash(name)
	addr, ok, err := lookup.ResolverFor(ctx, node)
	if err != nil {
		return nil, err
	}
	if ok {
		return &Resolver{Address: addr, Node: node}, nil
	}
	if !allowWildcard {
		return nil, xerrors.Errorf("%s: %w", name, ensdomain.ErrNoResolver)
	}

	labels := strings.Split(name, ".")
	for level := 1; level < len(labels); level++ {
		parent := Namehash(strings.Join(labels[level:], "."))
		addr, ok, err := lookup.ResolverFor(ctx, parent)
		if err != nil {
			return nil, err
		}
		if ok {
			ctx.WithFields(log.Fields{"name": name, "level": level, "resolver": addr.Hex()}).Debug("wildcard resolver found")
			return &Resolver{Address: addr, Node: parent, Level: level}, nil
		}
	}
	return nil, xerrors.Errorf("%s and its ancestors: %w", name, ensdomain.ErrNoResolver)
}
