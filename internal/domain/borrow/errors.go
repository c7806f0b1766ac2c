package borrow

import "errors"

var (
	ErrBorrowNotFound   = errors.New("borrow record not found")
	ErrInvalidStatus    = errors.New("invalid borrow status")
	ErrInvalidCondition = errors.New("invalid device return condition")
	ErrInvalidReason    = errors.New("invalid reason for borrow")

	// ErrDeviceConflict is returned when a device already holds an active
	// borrow at commit time, including the case where a concurrent request
	// claimed it between scan and write.
	ErrDeviceConflict = errors.New("device already has an active borrow")
)
