package cache

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/x-xyz/ensapi/base/ctx"
	"github.com/x-xyz/ensapi/domain/keys"
	"github.com/x-xyz/ensapi/service/cache/provider"
	"github.com/x-xyz/ensapi/service/cache/provider/primitive"
)

var (
	mockCtx = ctx.Background()
)

type resolution struct {
	Result string `json:"result"`
	Error  string `json:"error"`
}

type testsuite struct {
	suite.Suite
	im    *impl
	cache provider.Provider
}

func (ts *testsuite) SetupTest() {
	ts.cache = primitive.NewPrimitive("test", 1)
	ts.im = New(ServiceConfig{
		Ttl:   time.Minute,
		Pfx:   "ensPfx",
		Cache: ts.cache,
	}).(*impl)
}

func Test(t *testing.T) {
	suite.Run(t, new(testsuite))
}

func (ts *testsuite) TestGetMiss() {
	c := &resolution{}
	ts.Equal(ErrNotFound, ts.im.Get(mockCtx, keys.RedisKey("resolve", "onchain", "nobody.eth"), c))
}

func (ts *testsuite) TestSetThenGet() {
	k := keys.RedisKey("resolve", "onchain", "julien.argent.test")
	v := resolution{Result: "0xb0b874220fF95D62a676f58d186c832B3e6529c8"}

	ts.NoError(ts.im.Set(mockCtx, k, v))

	raw, _, err := ts.cache.Get(mockCtx, keys.RedisKey("ensPfx", k))
	ts.NoError(err)
	stored := resolution{}
	ts.NoError(json.Unmarshal(raw, &stored))
	ts.Equal(v, stored)

	c := &resolution{}
	ts.NoError(ts.im.Get(mockCtx, k, c))
	ts.Equal(v, *c)

	ts.NoError(ts.im.Del(mockCtx, k))
	ts.Equal(ErrNotFound, ts.im.Get(mockCtx, k, c))
}

func (ts *testsuite) TestGetByFuncCachesValue() {
	k := keys.RedisKey("reverse", "onchain", "b0b874220ff95d62a676f58d186c832b3e6529c8")
	calls := 0
	getter := func() (interface{}, error) {
		calls++
		return &resolution{Result: "julien.argent.test"}, nil
	}

	c := &resolution{}
	ts.NoError(ts.im.GetByFunc(mockCtx, k, c, getter))
	ts.Equal("julien.argent.test", c.Result)

	c = &resolution{}
	ts.NoError(ts.im.GetByFunc(mockCtx, k, c, getter))
	ts.Equal("julien.argent.test", c.Result)
	ts.Equal(1, calls)
}

func (ts *testsuite) TestGetByFuncErrorNotCached() {
	k := keys.RedisKey("resolve", "offchain", "flaky.eth")
	errRPC := errors.New("rpc down")

	c := &resolution{}
	ts.ErrorIs(ts.im.GetByFunc(mockCtx, k, c, func() (interface{}, error) {
		return nil, errRPC
	}), errRPC)
	ts.Equal(ErrNotFound, ts.im.Get(mockCtx, k, c))
}
