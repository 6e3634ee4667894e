package http

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/suite"

	"github.com/x-xyz/ensapi/base/ctx"
	hcdomain "github.com/x-xyz/ensapi/domain/healthcheck"
)

type stubUsecase struct {
	report hcdomain.Report
	err    error
}

func (s stubUsecase) Check(context ctx.Ctx) (hcdomain.Report, error) {
	return s.report, s.err
}

type HandlerTestSuite struct {
	suite.Suite
}

func TestHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(HandlerTestSuite))
}

func (s *HandlerTestSuite) serve(us hcdomain.HealthCheckUsecase) *httptest.ResponseRecorder {
	e := echo.New()
	New(e, us)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthcheck", nil))
	return rec
}

func (s *HandlerTestSuite) TestHealthy() {
	rec := s.serve(stubUsecase{report: hcdomain.Report{RPC: hcdomain.StatusOK, Cache: hcdomain.StatusDisabled}})
	s.Equal(http.StatusOK, rec.Code)
	s.JSONEq(`{"data":{"rpc":"ok","cache":"disabled"},"status":"success"}`, rec.Body.String())
}

func (s *HandlerTestSuite) TestDown() {
	rec := s.serve(stubUsecase{
		report: hcdomain.Report{RPC: hcdomain.StatusDown, Cache: hcdomain.StatusOK},
		err:    errors.New("dial tcp: connection refused"),
	})
	s.Equal(http.StatusServiceUnavailable, rec.Code)
	s.JSONEq(`{"data":{"rpc":"down","cache":"ok"},"status":"fail"}`, rec.Body.String())
}
