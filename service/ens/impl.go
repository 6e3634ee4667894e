package ens

import (
	"time"

	"golang.org/x/xerrors"

	"github.com/x-xyz/ensapi/base/ctx"
	"github.com/x-xyz/ensapi/base/ethereum"
	"github.com/x-xyz/ensapi/base/log"
	"github.com/x-xyz/ensapi/domain"
	ensdomain "github.com/x-xyz/ensapi/domain/ens"
	"github.com/x-xyz/ensapi/domain/keys"
	"github.com/x-xyz/ensapi/service/cache"
	compoundcache "github.com/x-xyz/ensapi/service/cache/compoundCache"
	"github.com/x-xyz/ensapi/service/cache/provider/primitive"
	redisCache "github.com/x-xyz/ensapi/service/cache/provider/redis"
	"github.com/x-xyz/ensapi/service/redis"
)

const ensPfx = "ensPfx"

type CacheCfg struct {
	LocalTtl    time.Duration
	RedisTtl    time.Duration
	LocalSizeMB int
}

// cachedResult is what the cache keeps: an answer, or a terminal negative
type cachedResult struct {
	Result string              `json:"result,omitempty"`
	Error  ensdomain.ErrorKind `json:"error,omitempty"`
}

func (r *cachedResult) err(input string) error {
	if r.Error == ensdomain.KindNone {
		return nil
	}
	return xerrors.Errorf("%s (cached): %w", input, r.Error.Err())
}

type impl struct {
	engine *Engine
	cache  cache.Service
}

// New wraps engine with a local cache and, when redis is not nil, a redis
// layer behind it.
func New(engine *Engine, redis redis.Service, cfg CacheCfg) ENS {
	if cfg.LocalTtl <= 0 {
		cfg.LocalTtl = 30 * time.Second
	}
	if cfg.RedisTtl <= 0 {
		cfg.RedisTtl = 24 * time.Hour
	}
	if cfg.LocalSizeMB <= 0 {
		cfg.LocalSizeMB = 512
	}
	layers := []cache.Service{
		cache.New(cache.ServiceConfig{
			Ttl:   cfg.LocalTtl,
			Pfx:   ensPfx,
			Cache: primitive.NewPrimitive("ens", cfg.LocalSizeMB),
		}),
	}
	if redis != nil {
		layers = append(layers, cache.New(cache.ServiceConfig{
			Ttl:   cfg.RedisTtl,
			Pfx:   ensPfx,
			Cache: redisCache.NewRedis(redis),
		}))
	}
	return &impl{
		engine: engine,
		cache:  compoundcache.NewCompoundCache(layers),
	}
}

// toCached keeps answers and terminal negatives, anything else is returned
// as an error so that it is not cached.
func toCached(result string, err error) (*cachedResult, error) {
	if err == nil {
		return &cachedResult{Result: result}, nil
	}
	if kind := ensdomain.KindOf(err); kind.Terminal() {
		return &cachedResult{Error: kind}, nil
	}
	return nil, err
}

func forwardKey(mode ensdomain.Mode, name string) string {
	return keys.RedisKey(keys.PfxEnsResolve, mode.String(), name)
}

func reverseKey(mode ensdomain.Mode, addr string) string {
	return keys.RedisKey(keys.PfxEnsReverse, mode.String(), addr)
}

func (im *impl) Resolve(c ctx.Ctx, name string, mode ensdomain.Mode) (domain.Address, error) {
	res := cachedResult{}
	err := im.cache.GetByFunc(c, forwardKey(mode, name), &res, func() (interface{}, error) {
		addr, err := im.engine.ResolveForward(c, name, mode)
		return toCached(addr.Hex(), err)
	})
	if err != nil {
		c.WithFields(log.Fields{
			"err":  err,
			"name": name,
		}).Warn("failed to resolve")
		return "", err
	}
	if err := res.err(name); err != nil {
		return "", err
	}
	return domain.Address(res.Result), nil
}

func (im *impl) ReverseResolve(c ctx.Ctx, address domain.Address, mode ensdomain.Mode) (string, error) {
	addr, err := ethereum.ParseAddress(string(address))
	if err != nil {
		return "", xerrors.Errorf("%s: %w", address, domain.ErrInvalidAddress)
	}
	res := cachedResult{}
	err = im.cache.GetByFunc(c, reverseKey(mode, address.ToLowerStr()), &res, func() (interface{}, error) {
		return toCached(im.engine.ResolveReverse(c, addr, mode))
	})
	if err != nil {
		c.WithFields(log.Fields{
			"err":     err,
			"address": address,
		}).Warn("failed to reverse resolve")
		return "", err
	}
	if err := res.err(string(address)); err != nil {
		return "", err
	}
	return res.Result, nil
}

// Owner is not cached here, the http layer caches owner responses
func (im *impl) Owner(c ctx.Ctx, name string) (domain.Address, error) {
	owner, err := im.engine.Owner(c, name)
	if err != nil {
		c.WithFields(log.Fields{
			"err":  err,
			"name": name,
		}).Warn("failed to get owner")
		return "", err
	}
	return domain.Address(owner.Hex()), nil
}

func (im *impl) Namehash(name string) (string, error) {
	node, err := im.engine.Namehash(name)
	if err != nil {
		return "", err
	}
	return node.Hex(), nil
}

func itemKey(item ensdomain.Item, mode ensdomain.Mode) string {
	if item.Direction == ensdomain.DirectionReverse {
		return reverseKey(mode, domain.Address(item.Input).ToLowerStr())
	}
	return forwardKey(mode, item.Input)
}

// ResolveMany answers the cached items and sends the others to the engine
// as one batch.
func (im *impl) ResolveMany(c ctx.Ctx, items []ensdomain.Item, mode ensdomain.Mode) ([]ensdomain.ResolveOutput, error) {
	outputs := make([]ensdomain.ResolveOutput, len(items))
	missIdx := []int{}
	misses := []ensdomain.Item{}
	for i, item := range items {
		res := cachedResult{}
		if err := im.cache.Get(c, itemKey(item, mode), &res); err != nil {
			if err != cache.ErrNotFound {
				c.WithFields(log.Fields{"err": err, "input": item.Input}).Warn("cache.Get failed")
			}
			missIdx = append(missIdx, i)
			misses = append(misses, item)
			continue
		}
		outputs[i] = ensdomain.ResolveOutput{Item: item, Result: res.Result, Error: res.Error}
	}
	if len(misses) == 0 {
		return outputs, nil
	}

	resolved, err := im.engine.ResolveMany(c, misses, mode)
	if err != nil {
		c.WithFields(log.Fields{"err": err, "items": len(misses)}).Warn("engine.ResolveMany failed")
		return nil, err
	}
	for j, out := range resolved {
		outputs[missIdx[j]] = out
		if !out.Resolved() && !out.Error.Terminal() {
			continue
		}
		res := &cachedResult{Result: out.Result, Error: out.Error}
		if err := im.cache.Set(c, itemKey(out.Item, mode), res); err != nil {
			c.WithFields(log.Fields{"err": err, "input": out.Item.Input}).Error("cache.Set failed")
		}
	}
	return outputs, nil
}
