package usecase

import (
	"github.com/x-xyz/ensapi/base/ctx"
	hcdomain "github.com/x-xyz/ensapi/domain/healthcheck"
)

type impl struct {
	repo hcdomain.HealthCheckRepo
}

// New creates new healthCheckUsecase object representation of HealthCheckUsecase interface
func New(repo hcdomain.HealthCheckRepo) hcdomain.HealthCheckUsecase {
	return &impl{
		repo: repo,
	}
}

func (im *impl) Check(context ctx.Ctx) (hcdomain.Report, error) {
	var first error
	status := func(err error) hcdomain.Status {
		switch {
		case err == nil:
			return hcdomain.StatusOK
		case err == hcdomain.ErrDisabled:
			return hcdomain.StatusDisabled
		}
		if first == nil {
			first = err
		}
		return hcdomain.StatusDown
	}

	report := hcdomain.Report{}
	report.RPC = status(im.repo.PingRPC(context))
	report.Cache = status(im.repo.PingCache(context))
	return report, first
}
