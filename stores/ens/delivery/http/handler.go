package http

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/xerrors"

	"github.com/x-xyz/ensapi/base/ctx"
	"github.com/x-xyz/ensapi/base/delivery"
	"github.com/x-xyz/ensapi/domain"
	ensdomain "github.com/x-xyz/ensapi/domain/ens"
	"github.com/x-xyz/ensapi/middleware"
	"github.com/x-xyz/ensapi/service/ens"
)

// MaxBatchItems bounds the items of one POST /ens/batch
const MaxBatchItems = 100

type handler struct {
	ens ens.ENS
}

// New registers the ens routes. Owner responses are kept by the http cache
// for ownerTtl, zero disables it.
func New(e *echo.Echo, ens ens.ENS, ownerTtl time.Duration) {
	h := &handler{
		ens,
	}

	g := e.Group("ens")

	g.GET("/namehash/:name", h.Namehash)

	g.GET("/resolve/:name", h.Resolve)

	g.GET("/reverse-resolve/:address", h.ReverseResolve, middleware.IsValidAddress("address"))

	if ownerTtl > 0 {
		g.GET("/owner/:name", h.Owner, middleware.CacheHttp(ownerTtl))
	} else {
		g.GET("/owner/:name", h.Owner)
	}

	g.POST("/batch", h.Batch)
}

func parseMode(raw string) (ensdomain.Mode, error) {
	mode, err := ensdomain.ParseMode(raw)
	if err != nil {
		return "", xerrors.Errorf("%v: %w", err, domain.ErrInvalidMode)
	}
	return mode, nil
}

func (h *handler) Namehash(c echo.Context) error {
	type payload struct {
		Name string `param:"name" validate:"required"`
	}

	p := payload{}
	if err := c.Bind(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	node, err := h.ens.Namehash(p.Name)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}

	return delivery.MakeJsonResp(c, http.StatusOK, node)
}

func (h *handler) Resolve(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	type payload struct {
		Name string `param:"name" validate:"required"`
		Mode string `query:"mode"`
	}

	p := payload{}
	if err := c.Bind(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	mode, err := parseMode(p.Mode)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	address, err := h.ens.Resolve(ctx, p.Name, mode)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}

	return delivery.MakeJsonResp(c, http.StatusOK, address)
}

func (h *handler) ReverseResolve(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	type payload struct {
		Address domain.Address `param:"address" validate:"required"`
		Mode    string         `query:"mode"`
	}

	p := payload{}
	if err := c.Bind(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	mode, err := parseMode(p.Mode)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	name, err := h.ens.ReverseResolve(ctx, p.Address, mode)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}

	return delivery.MakeJsonResp(c, http.StatusOK, name)
}

func (h *handler) Owner(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	type payload struct {
		Name string `param:"name" validate:"required"`
	}

	p := payload{}
	if err := c.Bind(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	owner, err := h.ens.Owner(ctx, p.Name)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}

	return delivery.MakeJsonResp(c, http.StatusOK, owner)
}

type batchItem struct {
	Input     string              `json:"input" validate:"required"`
	Direction ensdomain.Direction `json:"direction" validate:"required,oneof=forward reverse"`
}

type batchPayload struct {
	Mode  string      `json:"mode" validate:"omitempty,oneof=onchain offchain"`
	Items []batchItem `json:"items" validate:"required,min=1,max=100,dive"`
}

func (h *handler) Batch(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	p := batchPayload{}
	if err := c.Bind(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, xerrors.Errorf("%v: %w", err, domain.ErrInvalidJsonFormat))
	}
	if len(p.Items) > MaxBatchItems {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, xerrors.Errorf("%d items: %w", len(p.Items), domain.ErrTooManyItems))
	}
	if err := c.Validate(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, xerrors.Errorf("%v: %w", err, domain.ErrBadParamInput))
	}

	mode, err := parseMode(p.Mode)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	items := make([]ensdomain.Item, len(p.Items))
	for i, item := range p.Items {
		items[i] = ensdomain.Item{Input: item.Input, Direction: item.Direction}
	}

	outputs, err := h.ens.ResolveMany(ctx, items, mode)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}

	return delivery.MakeJsonResp(c, http.StatusOK, outputs)
}
