package lifecycle

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"device-lending-backend/internal/domain/borrow"
	"device-lending-backend/internal/domain/user"
)

func TestCanTransition(t *testing.T) {
	testCases := []struct {
		name    string
		from    borrow.Status
		to      borrow.Status
		allowed bool
	}{
		{"submitted to scheduled", borrow.StatusSubmitted, borrow.StatusScheduled, true},
		{"submitted to cancelled", borrow.StatusSubmitted, borrow.StatusCancelled, true},
		{"submitted to checked out skips scheduling", borrow.StatusSubmitted, borrow.StatusCheckedOut, false},
		{"scheduled to checked out", borrow.StatusScheduled, borrow.StatusCheckedOut, true},
		{"scheduled to cancelled", borrow.StatusScheduled, borrow.StatusCancelled, true},
		{"scheduled back to submitted", borrow.StatusScheduled, borrow.StatusSubmitted, false},
		{"checked out to checked in", borrow.StatusCheckedOut, borrow.StatusCheckedIn, true},
		{"checked out to late", borrow.StatusCheckedOut, borrow.StatusLate, true},
		{"checked out to cancelled", borrow.StatusCheckedOut, borrow.StatusCancelled, false},
		{"late to checked in", borrow.StatusLate, borrow.StatusCheckedIn, true},
		{"late to cancelled", borrow.StatusLate, borrow.StatusCancelled, false},
		{"checked in is terminal", borrow.StatusCheckedIn, borrow.StatusSubmitted, false},
		{"cancelled is terminal", borrow.StatusCancelled, borrow.StatusSubmitted, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.allowed, CanTransition(tc.from, tc.to))
		})
	}
}

func TestPermitted(t *testing.T) {
	testCases := []struct {
		name    string
		from    borrow.Status
		to      borrow.Status
		role    user.Role
		wantErr error
		want    Field
	}{
		{
			name: "user edits pending request",
			from: borrow.StatusSubmitted, to: borrow.StatusSubmitted, role: user.RoleUser,
			want: FieldBorrowDate | FieldReason,
		},
		{
			name: "user withdraws pending request",
			from: borrow.StatusSubmitted, to: borrow.StatusCancelled, role: user.RoleUser,
			want: 0,
		},
		{
			name: "user cannot schedule",
			from: borrow.StatusSubmitted, to: borrow.StatusScheduled, role: user.RoleUser,
			wantErr: ErrForbiddenTransition,
		},
		{
			name: "user cannot cancel after scheduling",
			from: borrow.StatusScheduled, to: borrow.StatusCancelled, role: user.RoleUser,
			wantErr: ErrForbiddenTransition,
		},
		{
			name: "admin schedules",
			from: borrow.StatusSubmitted, to: borrow.StatusScheduled, role: user.RoleAdmin,
			want: adminFields,
		},
		{
			name: "admin check in unlocks condition and usage",
			from: borrow.StatusCheckedOut, to: borrow.StatusCheckedIn, role: user.RoleAdmin,
			want: checkInFields,
		},
		{
			name: "admin check in from late",
			from: borrow.StatusLate, to: borrow.StatusCheckedIn, role: user.RoleAdmin,
			want: checkInFields,
		},
		{
			name: "admin in-place edit of scheduled record",
			from: borrow.StatusScheduled, to: borrow.StatusScheduled, role: user.RoleAdmin,
			want: adminFields,
		},
		{
			name: "graph rejects skipping checkout",
			from: borrow.StatusSubmitted, to: borrow.StatusCheckedOut, role: user.RoleAdmin,
			wantErr: ErrInvalidTransition,
		},
		{
			name: "admin cannot revive cancelled record",
			from: borrow.StatusCancelled, to: borrow.StatusSubmitted, role: user.RoleAdmin,
			wantErr: ErrInvalidTransition,
		},
		{
			name: "admin cannot edit checked in record",
			from: borrow.StatusCheckedIn, to: borrow.StatusCheckedIn, role: user.RoleAdmin,
			wantErr: ErrForbiddenTransition,
		},
		{
			name: "admin cannot edit cancelled record",
			from: borrow.StatusCancelled, to: borrow.StatusCancelled, role: user.RoleAdmin,
			wantErr: ErrForbiddenTransition,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			fields, err := Permitted(tc.from, tc.to, tc.role)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, fields)
		})
	}
}

func TestFieldHas(t *testing.T) {
	assert.True(t, checkInFields.Has(FieldCondition))
	assert.True(t, checkInFields.Has(FieldDailyUsage))
	assert.False(t, adminFields.Has(FieldCondition))
	assert.False(t, adminFields.Has(FieldDailyUsage))
	assert.True(t, adminFields.Has(FieldDevice))
	assert.False(t, Field(0).Has(FieldBorrowDate))
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2025-03-14")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC), d)

	d, err = ParseDate("2025-03-14T10:30:00Z")
	require.NoError(t, err)
	assert.Equal(t, 10, d.Hour())

	_, err = ParseDate("14/03/2025")
	require.ErrorIs(t, err, ErrUnparseableDate)
}

func TestDeriveReturnDate(t *testing.T) {
	borrowDate := time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, borrowDate.Add(7*24*time.Hour), DeriveReturnDate(borrowDate))
}

func TestWithinGraceWindow(t *testing.T) {
	now := time.Now()

	assert.True(t, WithinGraceWindow(now, now))
	assert.True(t, WithinGraceWindow(now.Add(48*time.Hour), now))
	assert.True(t, WithinGraceWindow(now.Add(-23*time.Hour), now))
	assert.False(t, WithinGraceWindow(now.Add(-25*time.Hour), now))
}
