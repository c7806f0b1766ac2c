package borrow

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	domainBorrow "device-lending-backend/internal/domain/borrow"
	domainDevice "device-lending-backend/internal/domain/device"
	domainLocation "device-lending-backend/internal/domain/location"
	domainUser "device-lending-backend/internal/domain/user"
	"device-lending-backend/internal/infrastructure/database/postgres"
	"device-lending-backend/internal/logger"
	appErrors "device-lending-backend/pkg/errors"
)

type fixtures struct {
	svc        *Service
	borrowRepo domainBorrow.Repository
	deviceRepo domainDevice.Repository
	admin      *domainUser.User
	borrower   *domainUser.User
	location   *domainLocation.Location
}

func newTestService(t *testing.T) *fixtures {
	t.Helper()
	logger.Logger = zap.NewNop()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	gormDB, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := gormDB.DB()
	require.NoError(t, err)
	// sqlite allows one writer; a single connection keeps transactions from
	// tripping over each other.
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, postgres.Migrate(gormDB))

	db := &postgres.DB{DB: gormDB}
	userRepo := postgres.NewUserRepository(db)
	locationRepo := postgres.NewLocationRepository(db)
	deviceRepo := postgres.NewDeviceRepository(db)
	borrowRepo := postgres.NewBorrowRepository(db)

	ctx := context.Background()

	admin := &domainUser.User{
		Email:          "staff@example.org",
		PasswordHashed: "x",
		FirstName:      "Staff",
		LastName:       "Member",
		ZipCode:        "32801",
		Role:           domainUser.RoleAdmin,
		Verified:       true,
	}
	require.NoError(t, userRepo.Create(ctx, admin))

	borrower := &domainUser.User{
		Email:          "borrower@example.org",
		PasswordHashed: "x",
		FirstName:      "Pat",
		LastName:       "Borrower",
		ZipCode:        "32801",
		Role:           domainUser.RoleUser,
	}
	require.NoError(t, userRepo.Create(ctx, borrower))

	loc := &domainLocation.Location{
		StreetAddress: "101 Center St",
		City:          "Orlando",
		State:         "FL",
		ZipCode:       "32801",
	}
	require.NoError(t, locationRepo.Create(ctx, loc))

	return &fixtures{
		svc:        NewService(borrowRepo, deviceRepo, userRepo),
		borrowRepo: borrowRepo,
		deviceRepo: deviceRepo,
		admin:      admin,
		borrower:   borrower,
		location:   loc,
	}
}

func (f *fixtures) addDevice(t *testing.T, serial, deviceType string) *domainDevice.Device {
	t.Helper()
	d := &domainDevice.Device{
		Brand:        "Lenovo",
		DeviceType:   deviceType,
		SerialNumber: serial,
		LocationID:   f.location.ID,
	}
	require.NoError(t, f.deviceRepo.Create(context.Background(), d))
	return d
}

func (f *fixtures) userActor() Actor  { return Actor{ID: f.borrower.ID, Role: domainUser.RoleUser} }
func (f *fixtures) adminActor() Actor { return Actor{ID: f.admin.ID, Role: domainUser.RoleAdmin} }

func strPtr(s string) *string { return &s }

func TestCreateSelfService(t *testing.T) {
	f := newTestService(t)
	dev := f.addDevice(t, "SN-1", "laptop")

	borrowDate := time.Now().Add(24 * time.Hour).UTC().Format(time.RFC3339)
	resp, err := f.svc.Create(context.Background(), f.userActor(), &CreateBorrowRequest{
		LocationID: f.location.ID,
		DeviceType: strPtr("laptop"),
		BorrowDate: borrowDate,
		Reason:     "Job_Search",
	})
	require.NoError(t, err)

	assert.Equal(t, "Submitted", resp.Status)
	assert.Equal(t, f.borrower.ID, resp.UserID)
	assert.Equal(t, dev.ID, resp.DeviceID)
	require.NotNil(t, resp.ReturnDate)
	assert.WithinDuration(t, resp.BorrowDate.Add(7*24*time.Hour), *resp.ReturnDate, time.Second)
}

func TestCreateIgnoresSelfServiceStatus(t *testing.T) {
	f := newTestService(t)
	f.addDevice(t, "SN-1", "laptop")

	resp, err := f.svc.Create(context.Background(), f.userActor(), &CreateBorrowRequest{
		LocationID: f.location.ID,
		BorrowDate: time.Now().UTC().Format(time.RFC3339),
		Reason:     "School",
		Status:     strPtr("Checked_out"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Submitted", resp.Status)
}

func TestCreateNoDeviceAvailable(t *testing.T) {
	f := newTestService(t)
	f.addDevice(t, "SN-1", "laptop")

	ctx := context.Background()
	req := &CreateBorrowRequest{
		LocationID: f.location.ID,
		BorrowDate: time.Now().UTC().Format(time.RFC3339),
		Reason:     "Training",
	}

	_, err := f.svc.Create(ctx, f.userActor(), req)
	require.NoError(t, err)

	// The only device at the location is now occupied.
	_, err = f.svc.Create(ctx, f.adminActor(), req)
	require.Error(t, err)
	assert.Equal(t, appErrors.CodeNotFound, appErrors.CodeOf(err))
}

func TestCreateExplicitDeviceConflict(t *testing.T) {
	f := newTestService(t)
	dev := f.addDevice(t, "SN-1", "laptop")

	ctx := context.Background()
	borrowDate := time.Now().UTC().Format(time.RFC3339)

	_, err := f.svc.Create(ctx, f.adminActor(), &CreateBorrowRequest{
		UserID:     &f.borrower.ID,
		LocationID: f.location.ID,
		DeviceID:   &dev.ID,
		BorrowDate: borrowDate,
		Reason:     "Other",
	})
	require.NoError(t, err)

	_, err = f.svc.Create(ctx, f.adminActor(), &CreateBorrowRequest{
		LocationID: f.location.ID,
		DeviceID:   &dev.ID,
		BorrowDate: borrowDate,
		Reason:     "Other",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.CodeConflict, appErrors.CodeOf(err))
}

func TestCreateHistoricalRecordSkipsClaim(t *testing.T) {
	f := newTestService(t)
	dev := f.addDevice(t, "SN-1", "laptop")

	ctx := context.Background()
	borrowDate := time.Now().UTC().Format(time.RFC3339)

	_, err := f.svc.Create(ctx, f.userActor(), &CreateBorrowRequest{
		LocationID: f.location.ID,
		BorrowDate: borrowDate,
		Reason:     "School",
	})
	require.NoError(t, err)

	// A checked-in record is history; it does not occupy the device.
	resp, err := f.svc.Create(ctx, f.adminActor(), &CreateBorrowRequest{
		UserID:     &f.borrower.ID,
		LocationID: f.location.ID,
		DeviceID:   &dev.ID,
		BorrowDate: "2024-01-02",
		ReturnDate: strPtr("2024-01-09"),
		Status:     strPtr("Checked_in"),
		Condition:  strPtr("Good"),
		Reason:     "School",
	})
	require.NoError(t, err)
	assert.Equal(t, "Checked_in", resp.Status)
}

func TestCreateConcurrentSingleWinner(t *testing.T) {
	f := newTestService(t)
	f.addDevice(t, "SN-1", "laptop")

	const attempts = 8
	var wg sync.WaitGroup
	errs := make([]error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.svc.Create(context.Background(), f.userActor(), &CreateBorrowRequest{
				LocationID: f.location.ID,
				BorrowDate: time.Now().UTC().Format(time.RFC3339),
				Reason:     "Job_Search",
			})
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		code := appErrors.CodeOf(err)
		assert.Contains(t, []string{appErrors.CodeConflict, appErrors.CodeNotFound}, code)
	}
	assert.Equal(t, 1, succeeded)
}

func TestCreateUserCannotPickDevice(t *testing.T) {
	f := newTestService(t)
	dev := f.addDevice(t, "SN-1", "laptop")

	_, err := f.svc.Create(context.Background(), f.userActor(), &CreateBorrowRequest{
		LocationID: f.location.ID,
		DeviceID:   &dev.ID,
		BorrowDate: time.Now().UTC().Format(time.RFC3339),
		Reason:     "School",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.CodeAuthorization, appErrors.CodeOf(err))
}

func TestCreateUserCannotBorrowForAnother(t *testing.T) {
	f := newTestService(t)
	f.addDevice(t, "SN-1", "laptop")

	_, err := f.svc.Create(context.Background(), f.userActor(), &CreateBorrowRequest{
		UserID:     &f.admin.ID,
		LocationID: f.location.ID,
		BorrowDate: time.Now().UTC().Format(time.RFC3339),
		Reason:     "School",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.CodeAuthorization, appErrors.CodeOf(err))
}

func TestCreateStaleBorrowDate(t *testing.T) {
	f := newTestService(t)
	f.addDevice(t, "SN-1", "laptop")

	_, err := f.svc.Create(context.Background(), f.userActor(), &CreateBorrowRequest{
		LocationID: f.location.ID,
		BorrowDate: time.Now().Add(-72 * time.Hour).UTC().Format(time.RFC3339),
		Reason:     "School",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.CodeValidation, appErrors.CodeOf(err))
}

func TestUpdateUserCancel(t *testing.T) {
	f := newTestService(t)
	f.addDevice(t, "SN-1", "laptop")

	ctx := context.Background()
	created, err := f.svc.Create(ctx, f.userActor(), &CreateBorrowRequest{
		LocationID: f.location.ID,
		BorrowDate: time.Now().UTC().Format(time.RFC3339),
		Reason:     "School",
	})
	require.NoError(t, err)

	updated, err := f.svc.Update(ctx, f.userActor(), created.ID, &UpdateBorrowRequest{
		Status: strPtr("Cancelled"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Cancelled", updated.Status)
	assert.Nil(t, updated.ReturnDate)

	// Cancellation frees the device for the next request.
	_, err = f.svc.Create(ctx, f.userActor(), &CreateBorrowRequest{
		LocationID: f.location.ID,
		BorrowDate: time.Now().UTC().Format(time.RFC3339),
		Reason:     "School",
	})
	require.NoError(t, err)
}

func TestUpdateUserCannotSchedule(t *testing.T) {
	f := newTestService(t)
	f.addDevice(t, "SN-1", "laptop")

	ctx := context.Background()
	created, err := f.svc.Create(ctx, f.userActor(), &CreateBorrowRequest{
		LocationID: f.location.ID,
		BorrowDate: time.Now().UTC().Format(time.RFC3339),
		Reason:     "School",
	})
	require.NoError(t, err)

	_, err = f.svc.Update(ctx, f.userActor(), created.ID, &UpdateBorrowRequest{
		Status: strPtr("Scheduled"),
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.CodeAuthorization, appErrors.CodeOf(err))

	updated, err := f.svc.Update(ctx, f.adminActor(), created.ID, &UpdateBorrowRequest{
		Status: strPtr("Scheduled"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Scheduled", updated.Status)
}

func TestUpdateInvalidTransition(t *testing.T) {
	f := newTestService(t)
	f.addDevice(t, "SN-1", "laptop")

	ctx := context.Background()
	created, err := f.svc.Create(ctx, f.userActor(), &CreateBorrowRequest{
		LocationID: f.location.ID,
		BorrowDate: time.Now().UTC().Format(time.RFC3339),
		Reason:     "School",
	})
	require.NoError(t, err)

	_, err = f.svc.Update(ctx, f.adminActor(), created.ID, &UpdateBorrowRequest{
		Status: strPtr("Checked_out"),
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.CodeValidation, appErrors.CodeOf(err))
}

func TestUpdateCheckInRecordsConditionAndUsage(t *testing.T) {
	f := newTestService(t)
	dev := f.addDevice(t, "SN-1", "laptop")

	ctx := context.Background()
	created, err := f.svc.Create(ctx, f.userActor(), &CreateBorrowRequest{
		LocationID: f.location.ID,
		BorrowDate: time.Now().UTC().Format(time.RFC3339),
		Reason:     "School",
	})
	require.NoError(t, err)

	_, err = f.svc.Update(ctx, f.adminActor(), created.ID, &UpdateBorrowRequest{Status: strPtr("Scheduled")})
	require.NoError(t, err)
	_, err = f.svc.Update(ctx, f.adminActor(), created.ID, &UpdateBorrowRequest{Status: strPtr("Checked_out")})
	require.NoError(t, err)

	usage := 3.5
	updated, err := f.svc.Update(ctx, f.adminActor(), created.ID, &UpdateBorrowRequest{
		Status:     strPtr("Checked_in"),
		Condition:  strPtr("Fair"),
		DailyUsage: &usage,
	})
	require.NoError(t, err)
	assert.Equal(t, "Checked_in", updated.Status)
	require.NotNil(t, updated.Condition)
	assert.Equal(t, "Fair", *updated.Condition)
	require.NotNil(t, updated.DailyUsage)
	assert.Equal(t, usage, *updated.DailyUsage)

	// Checked in means the device is free again.
	_, err = f.svc.Create(ctx, f.adminActor(), &CreateBorrowRequest{
		UserID:     &f.borrower.ID,
		LocationID: f.location.ID,
		DeviceID:   &dev.ID,
		BorrowDate: time.Now().UTC().Format(time.RFC3339),
		Reason:     "Other",
	})
	require.NoError(t, err)
}

func TestUpdateUserCannotSetCondition(t *testing.T) {
	f := newTestService(t)
	f.addDevice(t, "SN-1", "laptop")

	ctx := context.Background()
	created, err := f.svc.Create(ctx, f.userActor(), &CreateBorrowRequest{
		LocationID: f.location.ID,
		BorrowDate: time.Now().UTC().Format(time.RFC3339),
		Reason:     "School",
	})
	require.NoError(t, err)

	_, err = f.svc.Update(ctx, f.userActor(), created.ID, &UpdateBorrowRequest{
		Condition: strPtr("Good"),
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.CodeAuthorization, appErrors.CodeOf(err))
}

func TestUpdateTerminalRecordFrozen(t *testing.T) {
	f := newTestService(t)
	f.addDevice(t, "SN-1", "laptop")

	ctx := context.Background()
	created, err := f.svc.Create(ctx, f.userActor(), &CreateBorrowRequest{
		LocationID: f.location.ID,
		BorrowDate: time.Now().UTC().Format(time.RFC3339),
		Reason:     "School",
	})
	require.NoError(t, err)

	_, err = f.svc.Update(ctx, f.userActor(), created.ID, &UpdateBorrowRequest{Status: strPtr("Cancelled")})
	require.NoError(t, err)

	_, err = f.svc.Update(ctx, f.adminActor(), created.ID, &UpdateBorrowRequest{
		Reason: strPtr("Other"),
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.CodeAuthorization, appErrors.CodeOf(err))
}

func TestUpdateNotOwner(t *testing.T) {
	f := newTestService(t)
	f.addDevice(t, "SN-1", "laptop")

	ctx := context.Background()
	created, err := f.svc.Create(ctx, f.adminActor(), &CreateBorrowRequest{
		LocationID: f.location.ID,
		BorrowDate: time.Now().UTC().Format(time.RFC3339),
		Reason:     "Other",
	})
	require.NoError(t, err)

	_, err = f.svc.Update(ctx, f.userActor(), created.ID, &UpdateBorrowRequest{
		Status: strPtr("Cancelled"),
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.CodeAuthorization, appErrors.CodeOf(err))
}

func TestListPinsSelfServiceToOwnRecords(t *testing.T) {
	f := newTestService(t)
	f.addDevice(t, "SN-1", "laptop")
	f.addDevice(t, "SN-2", "tablet")

	ctx := context.Background()
	borrowDate := time.Now().UTC().Format(time.RFC3339)

	_, err := f.svc.Create(ctx, f.userActor(), &CreateBorrowRequest{
		LocationID: f.location.ID,
		DeviceType: strPtr("laptop"),
		BorrowDate: borrowDate,
		Reason:     "School",
	})
	require.NoError(t, err)

	_, err = f.svc.Create(ctx, f.adminActor(), &CreateBorrowRequest{
		LocationID: f.location.ID,
		DeviceType: strPtr("tablet"),
		BorrowDate: borrowDate,
		Reason:     "Other",
	})
	require.NoError(t, err)

	// Even with another user's filter the caller sees only their own.
	list, err := f.svc.List(ctx, f.userActor(), &ListBorrowsRequest{UserID: &f.admin.ID})
	require.NoError(t, err)
	require.Len(t, list.Borrows, 1)
	assert.Equal(t, f.borrower.ID, list.Borrows[0].UserID)

	list, err = f.svc.List(ctx, f.adminActor(), &ListBorrowsRequest{})
	require.NoError(t, err)
	assert.Len(t, list.Borrows, 2)
}

func TestDeleteRequiresTerminalStatus(t *testing.T) {
	f := newTestService(t)
	f.addDevice(t, "SN-1", "laptop")

	ctx := context.Background()
	created, err := f.svc.Create(ctx, f.userActor(), &CreateBorrowRequest{
		LocationID: f.location.ID,
		BorrowDate: time.Now().UTC().Format(time.RFC3339),
		Reason:     "School",
	})
	require.NoError(t, err)

	err = f.svc.Delete(ctx, f.userActor(), created.ID)
	require.Error(t, err)
	assert.Equal(t, appErrors.CodeAuthorization, appErrors.CodeOf(err))

	err = f.svc.Delete(ctx, f.adminActor(), created.ID)
	require.Error(t, err)
	assert.Equal(t, appErrors.CodeValidation, appErrors.CodeOf(err))

	_, err = f.svc.Update(ctx, f.userActor(), created.ID, &UpdateBorrowRequest{Status: strPtr("Cancelled")})
	require.NoError(t, err)

	require.NoError(t, f.svc.Delete(ctx, f.adminActor(), created.ID))

	_, err = f.svc.Get(ctx, f.adminActor(), created.ID)
	require.Error(t, err)
	assert.Equal(t, appErrors.CodeNotFound, appErrors.CodeOf(err))
}

func TestUpdateReassignDevice(t *testing.T) {
	f := newTestService(t)
	f.addDevice(t, "SN-1", "laptop")
	other := f.addDevice(t, "SN-2", "laptop")

	ctx := context.Background()
	created, err := f.svc.Create(ctx, f.userActor(), &CreateBorrowRequest{
		LocationID: f.location.ID,
		BorrowDate: time.Now().UTC().Format(time.RFC3339),
		Reason:     "School",
	})
	require.NoError(t, err)

	updated, err := f.svc.Update(ctx, f.adminActor(), created.ID, &UpdateBorrowRequest{
		DeviceID: &other.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, other.ID, updated.DeviceID)

	// Reassigning onto an occupied device is refused.
	second, err := f.svc.Create(ctx, f.adminActor(), &CreateBorrowRequest{
		LocationID: f.location.ID,
		DeviceType: strPtr("laptop"),
		BorrowDate: time.Now().UTC().Format(time.RFC3339),
		Reason:     "Other",
	})
	require.NoError(t, err)

	_, err = f.svc.Update(ctx, f.adminActor(), second.ID, &UpdateBorrowRequest{
		DeviceID: &other.ID,
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.CodeConflict, appErrors.CodeOf(err))
}
