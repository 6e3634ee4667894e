package ccip

import (
	"errors"
	"net/http"
	"time"

	"github.com/ethereum/go-ethereum/common"

	bCtx "github.com/x-xyz/ensapi/base/ctx"
)

var (
	ErrStatusCodeNotOk = errors.New("http.status not 2xx")
	ErrInvalidResponse = errors.New("invalid gateway response")
	ErrInvalidUrl      = errors.New("invalid gateway url")
)

// Gateway fetches the answer of an OffchainLookup from one gateway url
// template. The returned bytes are opaque and meant for the callback.
type Gateway interface {
	Fetch(ctx bCtx.Ctx, urlTemplate string, sender common.Address, callData []byte) ([]byte, error)
}

type ClientCfg struct {
	HttpClient http.Client
	// Timeout bounds one request, zero means no own deadline
	Timeout time.Duration
	// MaxResponseBytes caps the body read from a gateway
	MaxResponseBytes int64
}
