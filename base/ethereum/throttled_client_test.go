package ethereum

import (
	"context"
	"math/big"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/stretchr/testify/suite"
)

type slowCaller struct {
	inFlight int32
	peak     int32
	delay    time.Duration
}

func (s *slowCaller) CallContract(ctx context.Context, msg ethereum.CallMsg, number *big.Int) ([]byte, error) {
	n := atomic.AddInt32(&s.inFlight, 1)
	defer atomic.AddInt32(&s.inFlight, -1)
	for {
		p := atomic.LoadInt32(&s.peak)
		if n <= p || atomic.CompareAndSwapInt32(&s.peak, p, n) {
			break
		}
	}
	time.Sleep(s.delay)
	return []byte{0x01}, nil
}

func (s *slowCaller) BlockNumber(ctx context.Context) (uint64, error) {
	return 42, nil
}

type ThrottledClientTestSuite struct {
	suite.Suite
}

func TestThrottledClientTestSuite(t *testing.T) {
	suite.Run(t, new(ThrottledClientTestSuite))
}

func (s *ThrottledClientTestSuite) TestLimitsConcurrency() {
	caller := &slowCaller{delay: 20 * time.Millisecond}
	c := NewTrottledClient(caller, 2)

	wg := sync.WaitGroup{}
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := c.CallContract(context.Background(), ethereum.CallMsg{}, nil)
			s.NoError(err)
			s.Equal([]byte{0x01}, res)
		}()
	}
	wg.Wait()
	s.LessOrEqual(atomic.LoadInt32(&caller.peak), int32(2))
}

func (s *ThrottledClientTestSuite) TestCtxDoneWhileWaiting() {
	caller := &slowCaller{delay: 200 * time.Millisecond}
	c := NewTrottledClient(caller, 1)

	go func() {
		_, _ = c.CallContract(context.Background(), ethereum.CallMsg{}, nil)
	}()
	time.Sleep(20 * time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err := c.CallContract(ctx, ethereum.CallMsg{}, nil)
	s.ErrorIs(err, context.DeadlineExceeded)
}

func (s *ThrottledClientTestSuite) TestBlockNumber() {
	c := NewTrottledClient(&slowCaller{}, 1)
	n, err := c.BlockNumber(context.Background())
	s.NoError(err)
	s.Equal(uint64(42), n)
}
