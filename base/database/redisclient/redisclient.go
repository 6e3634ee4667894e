package redisclient

import (
	"context"
	"runtime"
	"time"

	"github.com/gomodule/redigo/redis"

	"github.com/x-xyz/ensapi/base/backoff"
	"github.com/x-xyz/ensapi/base/log"
)

const (
	dialTimeout  = 2 * time.Second
	readTimeout  = 1500 * time.Millisecond
	writeTimeout = 1500 * time.Millisecond
	idleTimeout  = 240 * time.Second

	defaultMaxIdle   = 200
	defaultMaxActive = 1024

	dialAttempts  = 4
	dialWaitStart = time.Second
	dialWaitLimit = 4 * time.Second
)

// RedisParam is the optional param for redis connection
type RedisParam struct {
	// PoolMultiplier sizes the pool per cpu, 0 keeps the defaults
	PoolMultiplier float64
	// Retry redials a pool whose first connection fails
	Retry bool
}

// MustConnectRedis panics when the pool can't be used
func MustConnectRedis(uri, password string, param ...RedisParam) *redis.Pool {
	p, err := ConnectRedis(context.Background(), uri, password, param...)
	if err != nil {
		log.Log().WithFields(log.Fields{"redisURI": uri, "err": err}).Panic("fail to dial Redis")
	}
	return p
}

// ConnectRedis builds a pool and checks it with one PING
func ConnectRedis(ctx context.Context, uri, password string, param ...RedisParam) (*redis.Pool, error) {
	p := newPool(uri, password, param...)

	attempts := 1
	if len(param) > 0 && param[0].Retry {
		// a few pods of a rollout fail the first dial on network hiccups
		attempts = dialAttempts
	}
	err := backoff.Retry(ctx, backoff.NewLinear(dialWaitStart, dialWaitLimit), attempts, func(error) bool { return true }, func() error {
		return ping(p)
	})
	if err != nil {
		log.Log().WithFields(log.Fields{"redisURI": uri, "err": err}).Error("fail to dial Redis")
		return nil, err
	}

	log.Log().WithField("redisURI", uri).Info("redis connected")
	return p, nil
}

func newPool(uri, password string, param ...RedisParam) *redis.Pool {
	maxIdle := defaultMaxIdle
	maxActive := defaultMaxActive
	if len(param) > 0 && param[0].PoolMultiplier > 0 {
		cpu := float64(runtime.NumCPU())
		// 25% of the pool may idle
		maxIdle = int(cpu * param[0].PoolMultiplier / 4)
		maxActive = int(cpu * param[0].PoolMultiplier)
	}

	opts := []redis.DialOption{
		redis.DialConnectTimeout(dialTimeout),
		redis.DialReadTimeout(readTimeout),
		redis.DialWriteTimeout(writeTimeout),
	}
	if password != "" {
		opts = append(opts, redis.DialPassword(password))
	}
	return &redis.Pool{
		MaxIdle:     maxIdle,
		MaxActive:   maxActive,
		Wait:        true,
		IdleTimeout: idleTimeout,
		Dial: func() (redis.Conn, error) {
			return redis.Dial("tcp", uri, opts...)
		},
		TestOnBorrow: testOnBorrow,
	}
}

func testOnBorrow(c redis.Conn, t time.Time) error {
	// recycled within the last second
	if time.Since(t) < time.Second {
		return nil
	}
	_, err := c.Do("PING")
	return err
}

func ping(p *redis.Pool) error {
	c, err := p.Dial()
	if err != nil {
		return err
	}
	defer c.Close()
	_, err = c.Do("PING")
	return err
}
