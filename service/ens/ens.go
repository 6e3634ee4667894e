package ens

import (
	"github.com/x-xyz/ensapi/base/ctx"
	"github.com/x-xyz/ensapi/domain"
	ensdomain "github.com/x-xyz/ensapi/domain/ens"
)

// ENS is the cached resolution service used by the delivery layer
type ENS interface {
	Resolve(ctx ctx.Ctx, name string, mode ensdomain.Mode) (domain.Address, error)
	ReverseResolve(ctx ctx.Ctx, address domain.Address, mode ensdomain.Mode) (string, error)
	ResolveMany(ctx ctx.Ctx, items []ensdomain.Item, mode ensdomain.Mode) ([]ensdomain.ResolveOutput, error)
	Owner(ctx ctx.Ctx, name string) (domain.Address, error)
	// Namehash returns the 0x-prefixed node of name
	Namehash(name string) (string, error)
}
