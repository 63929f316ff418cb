package httputil

import "errors"

var (
	ErrInvalidBody      = errors.New("the request body could not be parsed, please check it for errors")
	ErrRequestBodyEmpty = errors.New("the request body must not be empty")
	ErrInvalidUUID      = errors.New("the specified resource ID is not a valid UUID")
)
