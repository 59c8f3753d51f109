package discovery

import "errors"

var (
	ErrQueryFailed     = errors.New("neighbor query failed")
	ErrMalformedOutput = errors.New("malformed neighbor output")
)
