package ens

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	bCtx "github.com/x-xyz/ensapi/base/ctx"
	"github.com/x-xyz/ensapi/base/metrics"
	"github.com/x-xyz/ensapi/domain"
	ensdomain "github.com/x-xyz/ensapi/domain/ens"
	"github.com/x-xyz/ensapi/domain/keys"
	"github.com/x-xyz/ensapi/service/ccip/mocks"
	"github.com/x-xyz/ensapi/service/chain"
	redissvc "github.com/x-xyz/ensapi/service/redis"
	redismocks "github.com/x-xyz/ensapi/service/redis/mocks"
)

type ServiceTestSuite struct {
	suite.Suite

	ctx   bCtx.Ctx
	chain *fakeChain
	im    ENS
}

func TestServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ServiceTestSuite))
}

func (s *ServiceTestSuite) newEngine() *Engine {
	return NewEngine(chain.NewClient(s.chain), &mocks.Gateway{}, metrics.NewNop(), Config{
		RegistryAddress: registryAddr,
		CallTimeout:     time.Second,
	})
}

func (s *ServiceTestSuite) SetupTest() {
	s.ctx = bCtx.Background()
	s.chain = newFakeChain()
	s.chain.setResolver("vitalik.eth", publicResolver)
	s.chain.setAddr(publicResolver, "vitalik.eth", alice)
	s.chain.setResolver(reverseName(lowerHex(alice)), reverseResolver)
	s.chain.setName(reverseResolver, alice, "vitalik.eth")

	s.im = New(s.newEngine(), nil, CacheCfg{LocalTtl: time.Minute, LocalSizeMB: 1})
}

func (s *ServiceTestSuite) TestResolveIsCached() {
	for i := 0; i < 3; i++ {
		addr, err := s.im.Resolve(s.ctx, "vitalik.eth", ensdomain.ModeOnchain)
		s.Require().NoError(err)
		s.Equal(domain.Address(alice.Hex()), addr)
	}
	s.Equal(1, s.chain.registryCallsFor("vitalik.eth"))

	// modes are cached apart
	_, err := s.im.Resolve(s.ctx, "vitalik.eth", ensdomain.ModeAllowOffchainLookup)
	s.Require().NoError(err)
	s.Equal(2, s.chain.registryCallsFor("vitalik.eth"))
}

func (s *ServiceTestSuite) TestTerminalNegativeIsCached() {
	_, err := s.im.Resolve(s.ctx, "nick.eth", ensdomain.ModeOnchain)
	s.ErrorIs(err, ensdomain.ErrNoResolver)

	s.chain.setResolver("nick.eth", publicResolver)
	s.chain.setAddr(publicResolver, "nick.eth", bob)
	_, err = s.im.Resolve(s.ctx, "nick.eth", ensdomain.ModeOnchain)
	s.ErrorIs(err, ensdomain.ErrNoResolver)
	s.Equal(1, s.chain.registryCallsFor("nick.eth"))
}

func (s *ServiceTestSuite) TestTransportErrorIsNotCached() {
	s.chain.registryErr = errNodeDown
	_, err := s.im.Resolve(s.ctx, "vitalik.eth", ensdomain.ModeOnchain)
	s.ErrorIs(err, ensdomain.ErrTransport)

	s.chain.registryErr = nil
	addr, err := s.im.Resolve(s.ctx, "vitalik.eth", ensdomain.ModeOnchain)
	s.Require().NoError(err)
	s.Equal(domain.Address(alice.Hex()), addr)
}

func (s *ServiceTestSuite) TestReverseResolve() {
	name, err := s.im.ReverseResolve(s.ctx, domain.Address(alice.Hex()), ensdomain.ModeOnchain)
	s.Require().NoError(err)
	s.Equal("vitalik.eth", name)

	// lower case input shares the cache entry
	name, err = s.im.ReverseResolve(s.ctx, domain.Address(alice.Hex()).ToLower(), ensdomain.ModeOnchain)
	s.Require().NoError(err)
	s.Equal("vitalik.eth", name)
	s.Equal(1, s.chain.registryCallsFor(reverseName(lowerHex(alice))))

	_, err = s.im.ReverseResolve(s.ctx, "0x1234", ensdomain.ModeOnchain)
	s.ErrorIs(err, domain.ErrInvalidAddress)
}

func (s *ServiceTestSuite) TestOwner() {
	s.chain.owners[Namehash("vitalik.eth")] = alice
	owner, err := s.im.Owner(s.ctx, "vitalik.eth")
	s.Require().NoError(err)
	s.Equal(domain.Address(alice.Hex()), owner)
}

func (s *ServiceTestSuite) TestNamehash() {
	node, err := s.im.Namehash("argent.test")
	s.Require().NoError(err)
	s.Equal("0x3e58ef7a2e196baf0b9d36a65cc590ac9edafb3395b7cdeb8f39206049b4534c", node)
}

func (s *ServiceTestSuite) TestResolveManyUsesCache() {
	_, err := s.im.Resolve(s.ctx, "vitalik.eth", ensdomain.ModeOnchain)
	s.Require().NoError(err)

	items := []ensdomain.Item{
		{Input: "nick.eth", Direction: ensdomain.DirectionForward},
		{Input: "vitalik.eth", Direction: ensdomain.DirectionForward},
		{Input: alice.Hex(), Direction: ensdomain.DirectionReverse},
	}
	outs, err := s.im.ResolveMany(s.ctx, items, ensdomain.ModeOnchain)
	s.Require().NoError(err)
	s.Require().Len(outs, 3)
	s.Equal(ensdomain.KindNoResolver, outs[0].Error)
	s.Equal(alice.Hex(), outs[1].Result)
	s.Equal("vitalik.eth", outs[2].Result)
	for i, out := range outs {
		s.Equal(items[i], out.Item)
	}
	// vitalik.eth was cached, the reverse verification looks it up once
	s.Equal(2, s.chain.registryCallsFor("vitalik.eth"))

	outs, err = s.im.ResolveMany(s.ctx, items, ensdomain.ModeOnchain)
	s.Require().NoError(err)
	s.Equal("vitalik.eth", outs[2].Result)
	s.Equal(1, s.chain.registryCallsFor("nick.eth"))
	s.Equal(1, s.chain.registryCallsFor(reverseName(lowerHex(alice))))
}

func (s *ServiceTestSuite) TestRedisLayer() {
	redis := &redismocks.Service{}
	key := keys.RedisKey(ensPfx, forwardKey(ensdomain.ModeOnchain, "vitalik.eth"))
	cached, err := json.Marshal(&cachedResult{Result: bob.Hex()})
	s.Require().NoError(err)
	redis.On("Get", mock.Anything, key).Return(cached, nil).Once()
	redis.On("TTL", mock.Anything, key).Return(3600, nil).Once()

	im := New(s.newEngine(), redis, CacheCfg{LocalSizeMB: 1})
	addr, err := im.Resolve(s.ctx, "vitalik.eth", ensdomain.ModeOnchain)
	s.Require().NoError(err)
	s.Equal(domain.Address(bob.Hex()), addr)
	s.Equal(0, s.chain.totalRegistryCalls())

	// written back to the local layer
	addr, err = im.Resolve(s.ctx, "vitalik.eth", ensdomain.ModeOnchain)
	s.Require().NoError(err)
	s.Equal(domain.Address(bob.Hex()), addr)
	redis.AssertExpectations(s.T())
}

func (s *ServiceTestSuite) TestRedisLayerWrite() {
	redis := &redismocks.Service{}
	key := keys.RedisKey(ensPfx, forwardKey(ensdomain.ModeOnchain, "vitalik.eth"))
	redis.On("Get", mock.Anything, key).Return(nil, redissvc.ErrNotFound).Once()
	redis.On("Set", mock.Anything, key, mock.Anything, 24*time.Hour).Return(nil).Once()

	im := New(s.newEngine(), redis, CacheCfg{LocalSizeMB: 1})
	addr, err := im.Resolve(s.ctx, "vitalik.eth", ensdomain.ModeOnchain)
	s.Require().NoError(err)
	s.Equal(domain.Address(alice.Hex()), addr)
	redis.AssertExpectations(s.T())
}
