package lifecycle

import (
	"errors"

	"device-lending-backend/internal/domain/borrow"
	"device-lending-backend/internal/domain/user"
)

var (
	ErrInvalidTransition   = errors.New("invalid status transition")
	ErrForbiddenTransition = errors.New("transition not permitted for this role")
)

// Field identifies a mutable borrow attribute. Permits are expressed as
// bitmask sets so the permission matrix stays declarative.
type Field uint8

const (
	FieldBorrowDate Field = 1 << iota
	FieldReturnDate
	FieldCondition
	FieldDailyUsage
	FieldDevice
	FieldReason
)

// Has reports whether f contains the given field.
func (f Field) Has(field Field) bool {
	return f&field != 0
}

// adminFields are the attributes an admin may touch on any permitted
// transition. Condition and daily usage are added only on the edge into
// Checked_in.
const adminFields = FieldBorrowDate | FieldReturnDate | FieldDevice | FieldReason

const checkInFields = adminFields | FieldCondition | FieldDailyUsage

// Transition graph. Checked_in and Cancelled are terminal and have no
// outgoing edges.
var validTransitions = map[borrow.Status][]borrow.Status{
	borrow.StatusSubmitted: {
		borrow.StatusScheduled,
		borrow.StatusCancelled,
	},
	borrow.StatusScheduled: {
		borrow.StatusCheckedOut,
		borrow.StatusCancelled,
	},
	borrow.StatusCheckedOut: {
		borrow.StatusCheckedIn,
		borrow.StatusLate,
	},
	borrow.StatusLate: {
		borrow.StatusCheckedIn,
	},
	borrow.StatusCheckedIn: {},
	borrow.StatusCancelled: {},
}

// CanTransition checks the graph alone, ignoring roles.
func CanTransition(from, to borrow.Status) bool {
	for _, allowed := range validTransitions[from] {
		if to == allowed {
			return true
		}
	}
	return false
}

// AllowedTransitions returns the statuses reachable from the current one.
func AllowedTransitions(from borrow.Status) []borrow.Status {
	return validTransitions[from]
}

type transition struct {
	From borrow.Status
	To   borrow.Status
	Role user.Role
}

// permits is the full permission matrix: (current status, requested status,
// role) → the field set the caller may change alongside the status. A missing
// entry means the caller's role cannot perform the transition at all.
// Same-status entries cover edits that keep the record where it is; terminal
// statuses intentionally have none.
var permits = map[transition]Field{
	// Self-service: edit a pending request, or withdraw it.
	{borrow.StatusSubmitted, borrow.StatusSubmitted, user.RoleUser}: FieldBorrowDate | FieldReason,
	{borrow.StatusSubmitted, borrow.StatusCancelled, user.RoleUser}: 0,

	// Staff: any graph edge, plus in-place edits of non-terminal records.
	{borrow.StatusSubmitted, borrow.StatusSubmitted, user.RoleAdmin}:   adminFields,
	{borrow.StatusSubmitted, borrow.StatusScheduled, user.RoleAdmin}:   adminFields,
	{borrow.StatusSubmitted, borrow.StatusCancelled, user.RoleAdmin}:   adminFields,
	{borrow.StatusScheduled, borrow.StatusScheduled, user.RoleAdmin}:   adminFields,
	{borrow.StatusScheduled, borrow.StatusCheckedOut, user.RoleAdmin}:  adminFields,
	{borrow.StatusScheduled, borrow.StatusCancelled, user.RoleAdmin}:   adminFields,
	{borrow.StatusCheckedOut, borrow.StatusCheckedOut, user.RoleAdmin}: adminFields,
	{borrow.StatusCheckedOut, borrow.StatusCheckedIn, user.RoleAdmin}:  checkInFields,
	{borrow.StatusCheckedOut, borrow.StatusLate, user.RoleAdmin}:       adminFields,
	{borrow.StatusLate, borrow.StatusLate, user.RoleAdmin}:             adminFields,
	{borrow.StatusLate, borrow.StatusCheckedIn, user.RoleAdmin}:        checkInFields,
}

// Permitted resolves the requested transition against the permission matrix.
// An edge missing from the graph is a validation failure; an edge present in
// the graph but not permitted for the role is an authorization failure.
func Permitted(from, to borrow.Status, role user.Role) (Field, error) {
	if from != to && !CanTransition(from, to) {
		return 0, ErrInvalidTransition
	}
	fields, ok := permits[transition{From: from, To: to, Role: role}]
	if !ok {
		return 0, ErrForbiddenTransition
	}
	return fields, nil
}
