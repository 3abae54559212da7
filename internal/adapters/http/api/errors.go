package api

import "errors"

// Sentinel kinds for API errors.
var (
	ErrRegister = errors.New("route registration failed")
)
