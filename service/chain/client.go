package chain

import (
	"errors"
	"math/big"

	goethereum "github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"golang.org/x/xerrors"

	bCtx "github.com/x-xyz/ensapi/base/ctx"
	"github.com/x-xyz/ensapi/base/ethereum"
	"github.com/x-xyz/ensapi/base/log"
)

var (
	ErrNoRpcUrl = errors.New("no rpc url")
	// ErrUnpack is returned when the call succeeded but its return data does
	// not decode as the method outputs
	ErrUnpack = errors.New("unpack failed")
)

type ClientCfg struct {
	RpcUrl string
	// Concurrency bounds in-flight requests to the node
	Concurrency int
	Retry       RetryCfg
}

// Client packs, calls and unpacks ABI methods on top of a Caller
type Client interface {
	Call(ctx bCtx.Ctx, addr common.Address, blk *big.Int, _abi abi.ABI, method string, params ...interface{}) ([]interface{}, error)
	Caller() Caller
}

type clientImpl struct {
	caller Caller
}

// Dial connects to cfg.RpcUrl. The scheme picks the transport: http(s),
// ws(s) or an ipc path.
func Dial(ctx bCtx.Ctx, cfg *ClientCfg) (Client, *ethereum.ThrottledClient, error) {
	if cfg.RpcUrl == "" {
		return nil, nil, ErrNoRpcUrl
	}
	throttled, err := ethereum.DialThrottled(ctx, cfg.RpcUrl, cfg.Concurrency)
	if err != nil {
		ctx.WithFields(log.Fields{
			"err": err,
			"url": cfg.RpcUrl,
		}).Error("failed to dial rpc")
		return nil, nil, err
	}
	return NewClient(NewRetryCaller(NewCaller(throttled), cfg.Retry)), throttled, nil
}

func NewClient(caller Caller) Client {
	return &clientImpl{caller: caller}
}

func (c *clientImpl) Caller() Caller {
	return c.caller
}

func (c *clientImpl) Call(ctx bCtx.Ctx, addr common.Address, blk *big.Int, _abi abi.ABI, method string, params ...interface{}) ([]interface{}, error) {
	data, err := _abi.Pack(method, params...)
	if err != nil {
		ctx.WithFields(log.Fields{
			"method": method,
			"params": params,
			"err":    err,
		}).Error("abi.Pack failed")
		return nil, err
	}
	msg := goethereum.CallMsg{
		To:   &addr,
		Data: data,
	}
	res, err := c.caller.CallContract(ctx, msg, blk)
	if err != nil {
		ctx.WithFields(log.Fields{"err": err, "method": method, "to": addr.Hex()}).Debug("CallContract failed")
		return nil, err
	}
	unpacked, err := _abi.Unpack(method, res)
	if err != nil {
		ctx.WithFields(log.Fields{"err": err, "method": method, "to": addr.Hex()}).Warn("abi.Unpack failed")
		return nil, xerrors.Errorf("%s on %s: %v: %w", method, addr.Hex(), err, ErrUnpack)
	}
	return unpacked, nil
}
