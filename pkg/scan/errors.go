package scan

import "errors"

var (
	errInvalidIP    = errors.New("invalid ip address")
	errSocketFailed = errors.New("failed to open icmp socket")
	errSendFailed   = errors.New("failed to send echo request")
)
