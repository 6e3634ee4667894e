package chain

import (
	"context"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum"

	"github.com/x-xyz/ensapi/base/backoff"
	bCtx "github.com/x-xyz/ensapi/base/ctx"
	"github.com/x-xyz/ensapi/base/log"
)

// RetryCfg configures RetryCaller. Attempts <= 1 disables retrying.
type RetryCfg struct {
	Attempts int
	Start    time.Duration
	Limit    time.Duration
}

type retryCaller struct {
	caller Caller
	cfg    RetryCfg
}

// NewRetryCaller retries transport failures of caller with exponential
// backoff. Reverts and context errors are returned at once.
func NewRetryCaller(caller Caller, cfg RetryCfg) Caller {
	if cfg.Attempts <= 1 {
		return caller
	}
	if cfg.Start <= 0 {
		cfg.Start = 100 * time.Millisecond
	}
	return &retryCaller{caller: caller, cfg: cfg}
}

func (c *retryCaller) CallContract(ctx context.Context, msg ethereum.CallMsg, block *big.Int) ([]byte, error) {
	var res []byte
	b := backoff.NewExponential(c.cfg.Start, c.cfg.Limit)
	err := backoff.Retry(ctx, b, c.cfg.Attempts, func(err error) bool {
		if _, ok := AsRevert(err); ok {
			return false
		}
		if ctx.Err() != nil {
			return false
		}
		bCtx.From(ctx).WithFields(log.Fields{"err": err, "attempt": b.Count() + 1}).Warn("retrying contract call")
		return true
	}, func() error {
		var err error
		res, err = c.caller.CallContract(ctx, msg, block)
		return err
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}
