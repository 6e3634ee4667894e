package ens

import (
	"bytes"

	"github.com/ethereum/go-ethereum/common"
	"golang.org/x/xerrors"

	baseabi "github.com/x-xyz/ensapi/base/abi"
	bCtx "github.com/x-xyz/ensapi/base/ctx"
	"github.com/x-xyz/ensapi/base/log"
	"github.com/x-xyz/ensapi/base/metrics"
	ensdomain "github.com/x-xyz/ensapi/domain/ens"
	"github.com/x-xyz/ensapi/service/ccip"
)

// OffchainLookup is the payload of the EIP-3668 revert
type OffchainLookup struct {
	Sender           common.Address
	URLs             []string
	CallData         []byte
	CallbackFunction [4]byte
	ExtraData        []byte
}

func isOffchainLookup(data []byte) bool {
	return len(data) >= 4 && bytes.Equal(data[:4], baseabi.OffchainLookupSelector[:])
}

func decodeOffchainLookup(data []byte) (*OffchainLookup, error) {
	if !isOffchainLookup(data) {
		return nil, xerrors.Errorf("not an OffchainLookup: %w", ensdomain.ErrOffchainLookupInvalid)
	}
	values, err := baseabi.OffchainLookupArgs.Unpack(data[4:])
	if err != nil {
		return nil, xerrors.Errorf("decode OffchainLookup: %v: %w", err, ensdomain.ErrOffchainLookupInvalid)
	}
	lookup := &OffchainLookup{}
	var ok [5]bool
	lookup.Sender, ok[0] = values[0].(common.Address)
	lookup.URLs, ok[1] = values[1].([]string)
	lookup.CallData, ok[2] = values[2].([]byte)
	lookup.CallbackFunction, ok[3] = values[3].([4]byte)
	lookup.ExtraData, ok[4] = values[4].([]byte)
	for _, o := range ok {
		if !o {
			return nil, xerrors.Errorf("OffchainLookup field types: %w", ensdomain.ErrOffchainLookupInvalid)
		}
	}
	return lookup, nil
}

type offchainHandler struct {
	gateway ccip.Gateway
	met     metrics.Service
}

// handle asks the gateways of lookup in order and returns the calldata of
// the callback. The gateway answer is passed through untouched.
func (h *offchainHandler) handle(ctx bCtx.Ctx, resolver common.Address, lookup *OffchainLookup) ([]byte, error) {
	h.met.BumpSum("offchain.lookup", 1)
	if lookup.Sender != resolver {
		ctx.WithFields(log.Fields{
			"sender":   lookup.Sender.Hex(),
			"resolver": resolver.Hex(),
		}).Warn("OffchainLookup sender is not the resolver")
		return nil, xerrors.Errorf("sender %s, resolver %s: %w", lookup.Sender.Hex(), resolver.Hex(), ensdomain.ErrOffchainLookupInvalid)
	}

	for _, url := range lookup.URLs {
		if err := ctx.Err(); err != nil {
			return nil, xerrors.Errorf("offchain lookup: %v: %w", err, ensdomain.ErrTransport)
		}
		response, err := h.gateway.Fetch(ctx, url, lookup.Sender, lookup.CallData)
		if err != nil {
			ctx.WithFields(log.Fields{
				"url": url,
				"err": err,
			}).Warn("gateway.Fetch failed")
			h.met.BumpSum("gateway.err", 1)
			continue
		}
		args, err := baseabi.CallbackArgs.Pack(response, lookup.ExtraData)
		if err != nil {
			return nil, xerrors.Errorf("pack callback: %v: %w", err, ensdomain.ErrOffchainLookupInvalid)
		}
		return append(lookup.CallbackFunction[:], args...), nil
	}
	return nil, xerrors.Errorf("%d gateways: %w", len(lookup.URLs), ensdomain.ErrOffchainLookupExhausted)
}
