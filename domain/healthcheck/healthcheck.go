package healthcheck

import (
	"errors"

	"github.com/x-xyz/ensapi/base/ctx"
)

// ErrDisabled is returned by a ping of a dependency that isn't configured
var ErrDisabled = errors.New("disabled")

type Status string

const (
	StatusOK       Status = "ok"
	StatusDown     Status = "down"
	StatusDisabled Status = "disabled"
)

// Report is the state of every dependency the resolver talks to
type Report struct {
	RPC   Status `json:"rpc"`
	Cache Status `json:"cache"`
}

// Healthy is false when any configured dependency is down
func (r Report) Healthy() bool {
	return r.RPC != StatusDown && r.Cache != StatusDown
}

// HealthCheckUsecase represents the healthCheck's usecases
type HealthCheckUsecase interface {
	// Check pings every dependency. The error is the first failure.
	Check(context ctx.Ctx) (Report, error)
}

// HealthCheckRepo is repository layer of healthCheck
type HealthCheckRepo interface {
	// PingRPC asks the node for its latest block
	PingRPC(context ctx.Ctx) error
	// PingCache writes a short lived key, ErrDisabled without redis
	PingCache(context ctx.Ctx) error
}
