package domain

import "errors"

var (
	// ErrNotFound will throw if the requested item is not exists
	ErrNotFound = errors.New("Your requested Item is not found")
	// ErrBadParamInput will throw if the given request-body or params is not valid
	ErrBadParamInput     = errors.New("Given Param is not valid")
	ErrInvalidJsonFormat = errors.New("invalid JSON format")
	ErrTooManyItems      = errors.New("too many items")

	// request error
	ErrInvalidAddress = errors.New("Invalid address")
	ErrInvalidMode    = errors.New("Invalid mode")
)
