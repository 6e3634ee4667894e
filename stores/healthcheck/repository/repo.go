package repository

import (
	"context"
	"time"

	"github.com/x-xyz/ensapi/base/ctx"
	hcdomain "github.com/x-xyz/ensapi/domain/healthcheck"
	"github.com/x-xyz/ensapi/domain/keys"
	"github.com/x-xyz/ensapi/service/redis"
)

const pingTimeout = 2 * time.Second

// BlockNumberer is the part of the rpc client a ping needs
type BlockNumberer interface {
	BlockNumber(ctx context.Context) (uint64, error)
}

type impl struct {
	rpc        BlockNumberer
	redisCache redis.Service
}

// New creates the healthcheck repo. redisCache may be nil when the service
// runs without redis.
func New(
	rpc BlockNumberer,
	redisCache redis.Service,
) hcdomain.HealthCheckRepo {
	return &impl{
		rpc:        rpc,
		redisCache: redisCache,
	}
}

func (im *impl) PingRPC(context ctx.Ctx) error {
	ctx, cancel := ctx.WithTimeout(context, pingTimeout)
	defer cancel()
	blk, err := im.rpc.BlockNumber(ctx)
	if err != nil {
		context.WithField("err", err).Error("rpc BlockNumber failed")
		return err
	}
	context.WithField("block", blk).Debug("rpc ok")
	return nil
}

func (im *impl) PingCache(context ctx.Ctx) error {
	if im.redisCache == nil {
		return hcdomain.ErrDisabled
	}
	ctx, cancel := ctx.WithTimeout(context, pingTimeout)
	defer cancel()
	if err := im.redisCache.Set(ctx, keys.RedisKey(keys.PfxHealthCheck, "testset"), []byte("1"), 30*time.Second); err != nil {
		context.WithField("err", err).Error("test redis set failed")
		return err
	}
	return nil
}
