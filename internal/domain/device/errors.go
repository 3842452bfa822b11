package device

import "errors"

var (
	ErrDeviceNotFound = errors.New("attendance device not found")
	ErrDeviceInactive = errors.New("attendance device is inactive")
	ErrInvalidAPIKey  = errors.New("invalid device API key")
)
