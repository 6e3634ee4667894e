package redis

import (
	"errors"
	"time"

	"github.com/x-xyz/ensapi/base/ctx"
)

const (
	// Forever stores a key without expiration
	Forever = time.Duration(0)
)

var (
	// ErrNotFound is returned when the key does not exist
	ErrNotFound = errors.New("redis: key not found")
	// ErrNoTTL is returned by TTL when the key exists without expiration
	ErrNoTTL = errors.New("redis: key has no ttl")
	// ErrNoPool is returned when the service was built without a pool
	ErrNoPool = errors.New("redis: no pool")
)

// Service is the subset of redis commands the cache layer and the health
// check rely on
type Service interface {
	Get(context ctx.Ctx, key string) ([]byte, error)
	Set(context ctx.Ctx, key string, val []byte, expire time.Duration) error
	Del(context ctx.Ctx, keys ...string) (int, error)
	Exists(context ctx.Ctx, key string) (bool, error)
	// TTL returns the remaining seconds of key
	TTL(context ctx.Ctx, key string) (int, error)
	Ping(context ctx.Ctx) error
	Name() string
}
