package borrow

import (
	"time"

	"github.com/google/uuid"

	"device-lending-backend/internal/domain/device"
	"device-lending-backend/internal/domain/user"
)

// Status enumerates the borrow lifecycle states.
type Status string

const (
	StatusSubmitted  Status = "Submitted"
	StatusScheduled  Status = "Scheduled"
	StatusCheckedOut Status = "Checked_out"
	StatusCheckedIn  Status = "Checked_in"
	StatusLate       Status = "Late"
	StatusCancelled  Status = "Cancelled"
)

// Active reports whether the status occupies its device. Late is deliberately
// excluded: an overdue loan does not block a new reservation on the same
// device.
func (s Status) Active() bool {
	return s == StatusSubmitted || s == StatusScheduled || s == StatusCheckedOut
}

// Terminal reports whether the record permits no further transitions.
func (s Status) Terminal() bool {
	return s == StatusCheckedIn || s == StatusCancelled
}

// ActiveStatuses is the set of statuses that occupy a device, in the form the
// store filters on.
func ActiveStatuses() []string {
	return []string{string(StatusSubmitted), string(StatusScheduled), string(StatusCheckedOut)}
}

// ParseStatus rejects anything outside the closed status set.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusSubmitted, StatusScheduled, StatusCheckedOut, StatusCheckedIn, StatusLate, StatusCancelled:
		return Status(s), nil
	}
	return "", ErrInvalidStatus
}

// Condition enumerates the state a device is returned in.
type Condition string

const (
	ConditionGood    Condition = "Good"
	ConditionFair    Condition = "Fair"
	ConditionDamaged Condition = "Damaged"
)

func ParseCondition(s string) (Condition, error) {
	switch Condition(s) {
	case ConditionGood, ConditionFair, ConditionDamaged:
		return Condition(s), nil
	}
	return "", ErrInvalidCondition
}

// Reason enumerates why a device is being borrowed.
type Reason string

const (
	ReasonJobSearch Reason = "Job_Search"
	ReasonSchool    Reason = "School"
	ReasonTraining  Reason = "Training"
	ReasonOther     Reason = "Other"
)

func ParseReason(s string) (Reason, error) {
	switch Reason(s) {
	case ReasonJobSearch, ReasonSchool, ReasonTraining, ReasonOther:
		return Reason(s), nil
	}
	return "", ErrInvalidReason
}

// Borrow links one user to one device for a dated loan.
type Borrow struct {
	ID         uuid.UUID
	UserID     uuid.UUID
	DeviceID   uuid.UUID
	BorrowDate time.Time
	ReturnDate *time.Time
	Status     Status
	Condition  *Condition
	Reason     Reason
	DailyUsage *float64
	CreatedAt  time.Time
	UpdatedAt  time.Time

	User   *user.User
	Device *device.Device
}
