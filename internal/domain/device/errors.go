package device

import "errors"

var (
	ErrDeviceNotFound      = errors.New("device not found")
	ErrDeviceAlreadyExists = errors.New("device already exists")
	ErrNoDeviceAvailable   = errors.New("no device available at this location")
	ErrDeviceInUse         = errors.New("device has an active borrow record")
)
