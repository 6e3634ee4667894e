package redis

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/x-xyz/ensapi/base/ctx"
	"github.com/x-xyz/ensapi/service/cache/provider"
	"github.com/x-xyz/ensapi/service/redis"
	mockRedis "github.com/x-xyz/ensapi/service/redis/mocks"
)

var (
	mockCtx = ctx.Background()
)

type testsuite struct {
	suite.Suite
	im    *impl
	redis *mockRedis.Service
}

func (ts *testsuite) SetupTest() {
	ts.redis = &mockRedis.Service{}
	ts.im = NewRedis(ts.redis).(*impl)
}

func (ts *testsuite) TearDownTest() {
	ts.redis.AssertExpectations(ts.T())
}

func Test(t *testing.T) {
	suite.Run(t, new(testsuite))
}

func (ts *testsuite) TestSet() {
	k := "ensPfx:resolve:onchain:julien.argent.test"
	v := []byte(`{"result":"0xb0b874220ff95d62a676f58d186c832b3e6529c8"}`)

	ts.redis.On("Set", mockCtx, k, v, time.Hour).Return(nil).Once()
	ts.NoError(ts.im.Set(mockCtx, k, v, time.Hour))
}

func (ts *testsuite) TestGet() {
	k := "ensPfx:reverse:onchain:b0b874220ff95d62a676f58d186c832b3e6529c8"
	v := []byte(`{"result":"julien.argent.test"}`)

	ts.redis.On("Get", mockCtx, k).Return(nil, redis.ErrNotFound).Once()
	res, _, err := ts.im.Get(mockCtx, k)
	ts.Nil(res)
	ts.Equal(provider.ErrNotFound, err)

	ts.redis.On("Get", mockCtx, k).Return(v, nil).Once()
	ts.redis.On("TTL", mockCtx, k).Return(3600, nil).Once()
	res, ttl, err := ts.im.Get(mockCtx, k)
	ts.NoError(err)
	ts.Equal(v, res)
	ts.Equal(time.Hour, ttl)

	ts.redis.On("Get", mockCtx, k).Return(v, nil).Once()
	ts.redis.On("TTL", mockCtx, k).Return(0, errors.New("i/o timeout")).Once()
	res, ttl, err = ts.im.Get(mockCtx, k)
	ts.NoError(err)
	ts.Equal(v, res)
	ts.Zero(ttl)
}

func (ts *testsuite) TestDel() {
	k := "ensPfx:owner:test"
	ts.redis.On("Del", mockCtx, k).Return(1, nil).Once()
	ts.NoError(ts.im.Del(mockCtx, k))
}
