package ethereum

import (
	"context"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/x-xyz/ensapi/base/log"
)

// ContractCaller is the subset of ethclient the resolver needs
type ContractCaller interface {
	CallContract(ctx context.Context, msg ethereum.CallMsg, number *big.Int) ([]byte, error)
	BlockNumber(ctx context.Context) (uint64, error)
}

// ThrottledClient bounds the number of in-flight RPC requests with a token
// channel. A request that cannot get a token before ctx is done fails with
// ctx.Err().
type ThrottledClient struct {
	client ContractCaller
	tokens chan int
	logger log.Logger
}

func NewTrottledClient(client ContractCaller, n int) *ThrottledClient {
	if n <= 0 {
		n = 1
	}
	tokens := make(chan int, n)
	for i := 0; i < n; i++ {
		tokens <- i + 1
	}
	return &ThrottledClient{
		client: client,
		tokens: tokens,
		logger: log.Named("throttle"),
	}
}

// DialThrottled dials rawurl (http, https, ws, wss or ipc path) and limits it
// to n concurrent requests.
func DialThrottled(ctx context.Context, rawurl string, n int) (*ThrottledClient, error) {
	client, err := ethclient.DialContext(ctx, rawurl)
	if err != nil {
		return nil, err
	}
	return NewTrottledClient(client, n), nil
}

func (c *ThrottledClient) BlockNumber(ctx context.Context) (uint64, error) {
	token, err := c.before(ctx)
	if err != nil {
		return 0, err
	}
	defer c.after(token)
	return c.client.BlockNumber(ctx)
}

func (c *ThrottledClient) CallContract(ctx context.Context, msg ethereum.CallMsg, number *big.Int) ([]byte, error) {
	token, err := c.before(ctx)
	if err != nil {
		return nil, err
	}
	defer c.after(token)
	return c.client.CallContract(ctx, msg, number)
}

func (c *ThrottledClient) before(ctx context.Context) (int, error) {
	now := time.Now()
	select {
	case <-ctx.Done():
		c.logger.WithFields(log.Fields{"wait": time.Since(now), "err": ctx.Err()}).Debug("ctx done before token")
		return 0, ctx.Err()
	case token := <-c.tokens:
		c.logger.WithFields(log.Fields{"token": token, "left": len(c.tokens), "wait": time.Since(now)}).Debug("token acquired")
		return token, nil
	}
}

func (c *ThrottledClient) after(token int) {
	if token != 0 {
		c.tokens <- token
	}
}
