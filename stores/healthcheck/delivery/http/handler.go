package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/x-xyz/ensapi/base/ctx"
	"github.com/x-xyz/ensapi/base/delivery"
	hcdomain "github.com/x-xyz/ensapi/domain/healthcheck"
)

type healthCheckHandler struct {
	healthCheck hcdomain.HealthCheckUsecase
}

// New registers GET /healthcheck. It answers 503 with the same report when a
// dependency is down.
func New(e *echo.Echo, us hcdomain.HealthCheckUsecase) {
	handler := &healthCheckHandler{
		healthCheck: us,
	}
	g := e.Group("/healthcheck")
	g.GET("", handler.check)
}

func (h *healthCheckHandler) check(c echo.Context) error {
	context := ctx.From(c.Request().Context())
	if v, ok := c.Get("ctx").(ctx.Ctx); ok {
		context = v
	}

	report, err := h.healthCheck.Check(context)
	if err != nil {
		context.WithField("err", err).Warn("healthcheck failed")
		return c.JSON(http.StatusServiceUnavailable, delivery.JsonResponse{Data: report, Status: delivery.JsonResponseStatusFail})
	}
	return delivery.MakeJsonResp(c, http.StatusOK, report)
}
