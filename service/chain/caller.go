package chain

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rpc"
)

// Caller executes read-only contract calls. A call that reverts returns a
// *RevertError, any other error is a transport failure.
type Caller interface {
	CallContract(ctx context.Context, msg ethereum.CallMsg, block *big.Int) ([]byte, error)
}

// RevertError carries the revert payload of a call
type RevertError struct {
	Data   []byte
	Reason string
}

func (e *RevertError) Error() string {
	if e.Reason != "" {
		return "execution reverted: " + e.Reason
	}
	return fmt.Sprintf("execution reverted: %s", hexutil.Encode(e.Data))
}

// Selector returns the first 4 bytes of the revert data, ok is false when
// the payload is shorter.
func (e *RevertError) Selector() (sel [4]byte, ok bool) {
	if len(e.Data) < 4 {
		return sel, false
	}
	copy(sel[:], e.Data[:4])
	return sel, true
}

// AsRevert unwraps a *RevertError from err
func AsRevert(err error) (*RevertError, bool) {
	var rerr *RevertError
	if errors.As(err, &rerr) {
		return rerr, true
	}
	return nil, false
}

type revertCaller struct {
	client ethereum.ContractCaller
}

// NewCaller turns the node's revert responses of client into *RevertError
func NewCaller(client ethereum.ContractCaller) Caller {
	return &revertCaller{client: client}
}

func (c *revertCaller) CallContract(ctx context.Context, msg ethereum.CallMsg, block *big.Int) ([]byte, error) {
	res, err := c.client.CallContract(ctx, msg, block)
	if err == nil {
		return res, nil
	}
	if rerr, ok := revertFromRPC(err); ok {
		return nil, rerr
	}
	return nil, err
}

func revertFromRPC(err error) (*RevertError, bool) {
	var dataErr rpc.DataError
	if errors.As(err, &dataErr) {
		if hexData, ok := dataErr.ErrorData().(string); ok {
			if data, decodeErr := hexutil.Decode(hexData); decodeErr == nil {
				rerr := &RevertError{Data: data}
				if reason, unpackErr := abi.UnpackRevert(data); unpackErr == nil {
					rerr.Reason = reason
				}
				return rerr, true
			}
		}
	}
	// some nodes drop the data field for a bare revert()
	if strings.Contains(err.Error(), "execution reverted") {
		return &RevertError{}, true
	}
	return nil, false
}
