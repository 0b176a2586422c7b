package server

import "errors"

var (
	ErrMalformedFrame = errors.New("malformed frame")
	ErrInvalidFrame   = errors.New("invalid frame fields")
	ErrHubStopped     = errors.New("hub stopped")
	ErrInvalidConfig  = errors.New("invalid configuration")
)
