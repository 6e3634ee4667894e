package compoundcache

import (
	"reflect"

	"github.com/x-xyz/ensapi/base/ctx"
	"github.com/x-xyz/ensapi/base/log"
	"github.com/x-xyz/ensapi/service/cache"
)

type impl struct {
	layers []cache.Service
}

// NewCompoundCache chains layers from the nearest to the farthest. A hit in
// a far layer is written back to the nearer ones. A broken layer reads as a
// miss, so a redis outage only costs cache hits.
func NewCompoundCache(layers []cache.Service) cache.Service {
	return &impl{
		layers: layers,
	}
}

func (im *impl) GetByFunc(c ctx.Ctx, key string, container interface{}, getter cache.OneTimeGetter) error {
	if err := im.Get(c, key, container); err == nil {
		return nil
	}

	val, err := getter()
	if err != nil {
		return err
	}

	if err := im.Set(c, key, val); err != nil {
		c.WithFields(log.Fields{"key": key, "err": err}).Warn("compound Set failed")
	}

	reflect.ValueOf(container).Elem().Set(reflect.ValueOf(val).Elem())
	return nil
}

// Get returns cache.ErrNotFound unless some layer holds the key
func (im *impl) Get(c ctx.Ctx, key string, container interface{}) error {
	hitIdx := -1
	for idx, lyr := range im.layers {
		err := lyr.Get(c, key, container)
		if err == nil {
			hitIdx = idx
			break
		}
		if err != cache.ErrNotFound {
			c.WithFields(log.Fields{"key": key, "err": err}).WithField("layer", idx).Warn("layer Get failed, skipped")
		}
	}
	if hitIdx == -1 {
		return cache.ErrNotFound
	}

	for idx := 0; idx < hitIdx; idx++ {
		if err := im.layers[idx].Set(c, key, container); err != nil {
			c.WithFields(log.Fields{"key": key, "err": err}).WithField("layer", idx).Warn("layer backfill failed")
		}
	}
	return nil
}

// Set writes every layer and returns the first failure
func (im *impl) Set(c ctx.Ctx, key string, value interface{}) error {
	var first error
	for _, lyr := range im.layers {
		if err := lyr.Set(c, key, value); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Del clears every layer and returns the first failure
func (im *impl) Del(c ctx.Ctx, key string) error {
	var first error
	for _, lyr := range im.layers {
		if err := lyr.Del(c, key); err != nil && first == nil {
			first = err
		}
	}
	return first
}

