package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/x-xyz/ensapi/base/ctx"
	"github.com/x-xyz/ensapi/base/delivery"
	"github.com/x-xyz/ensapi/base/metrics"
)

func TestIsValidAddress(t *testing.T) {
	e := echo.New()
	ok := func(c echo.Context) error { return c.String(http.StatusOK, "ok") }
	e.GET("/reverse/:address", ok, IsValidAddress("address"))

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/reverse/0xd8dA6BF26964aF9D7eEd9e03E53415D37aA96045", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/reverse/0x1234", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := delivery.JsonResponse{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, delivery.JsonResponseStatusFail, resp.Status)
}

func TestAddContext(t *testing.T) {
	m := InitMiddleware(metrics.NewNop())
	e := echo.New()
	e.Use(m.AddContext(), m.ResponseLogger(), m.CORS)
	e.GET("/", func(c echo.Context) error {
		cont, ok := c.Get("ctx").(ctx.Ctx)
		require.True(t, ok)
		return c.String(http.StatusOK, cont.Value("requestID").(string))
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(echo.HeaderXRequestID, "req-1")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, "req-1", rec.Body.String())
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEmpty(t, rec.Body.String())
	assert.Equal(t, rec.Body.String(), rec.Header().Get(echo.HeaderXRequestID))
}
