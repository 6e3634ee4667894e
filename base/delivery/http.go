package delivery

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/x-xyz/ensapi/domain"
	ensdomain "github.com/x-xyz/ensapi/domain/ens"
)

type JsonResponseStatus string

const (
	JsonResponseStatusSuccess JsonResponseStatus = "success"
	JsonResponseStatusFail    JsonResponseStatus = "fail"
)

type JsonResponse struct {
	Data   interface{}        `json:"data"`
	Status JsonResponseStatus `json:"status"`
}

// ErrorJson is the data of a failed response caused by a resolution error
type ErrorJson struct {
	Kind    ensdomain.ErrorKind `json:"kind,omitempty"`
	Message string              `json:"message"`
}

// StatusOf maps an error to the http status it is reported with
func StatusOf(err error, fallback int) int {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrBadParamInput),
		errors.Is(err, domain.ErrInvalidAddress),
		errors.Is(err, domain.ErrInvalidMode),
		errors.Is(err, ensdomain.ErrInvalidMode),
		errors.Is(err, domain.ErrTooManyItems):
		return http.StatusBadRequest
	}
	switch ensdomain.KindOf(err) {
	case ensdomain.KindInvalidDomainName:
		return http.StatusBadRequest
	case ensdomain.KindNoResolver, ensdomain.KindEnsUnknown:
		return http.StatusNotFound
	case ensdomain.KindOffchainLookupInvalid, ensdomain.KindOffchainLookupExhausted, ensdomain.KindOffchainLookupTooDeep:
		return http.StatusBadGateway
	case ensdomain.KindTransport:
		if errors.Is(err, ensdomain.ErrTransport) {
			return http.StatusServiceUnavailable
		}
	}
	return fallback
}

func MakeJsonResp(c echo.Context, status int, data interface{}) error {
	if err, ok := data.(error); ok {
		status = StatusOf(err, status)
		resp := ErrorJson{Message: err.Error()}
		if kind := ensdomain.KindOf(err); errors.Is(err, kind.Err()) {
			resp.Kind = kind
		}
		data = resp
	}

	if status >= 400 {
		return c.JSON(status, JsonResponse{data, JsonResponseStatusFail})
	}

	if status >= 200 && status < 300 {
		return c.JSON(status, JsonResponse{data, JsonResponseStatusSuccess})
	}

	return c.JSON(status, data)
}
