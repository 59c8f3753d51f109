package api

import "errors"

var (
	errInvalidParam = errors.New("invalid query parameter")
	errInvalidID    = errors.New("invalid alert id")
)
