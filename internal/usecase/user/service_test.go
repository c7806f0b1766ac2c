package user

import (
	"context"
	"fmt"
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
	"device-lending-backend/internal/usecase/eligibility"
	appErrors "device-lending-backend/pkg/errors"
)

type stubEligibility struct {
	eligible bool
}

func (s *stubEligibility) CheckZipCode(_ context.Context, _ string) (*eligibility.Result, error) {
	if s.eligible {
		return &eligibility.Result{Eligible: true}, nil
	}
	return &eligibility.Result{Eligible: false, Reason: "not within an approved area"}, nil
}

type testEnv struct {
	svc        *Service
	userRepo   domainUser.Repository
	borrowRepo domainBorrow.Repository
	db         *postgres.DB
}

func newTestEnv(t *testing.T, eligible bool) *testEnv {
	t.Helper()
	logger.Logger = zap.NewNop()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	gormDB, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := gormDB.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, postgres.Migrate(gormDB))

	db := &postgres.DB{DB: gormDB}
	userRepo := postgres.NewUserRepository(db)
	borrowRepo := postgres.NewBorrowRepository(db)

	svc := NewService(userRepo, borrowRepo, &stubEligibility{eligible: eligible}, "test-secret", time.Hour)

	return &testEnv{svc: svc, userRepo: userRepo, borrowRepo: borrowRepo, db: db}
}

func validRegistration() *RegisterRequest {
	return &RegisterRequest{
		Email:         "pat@example.org",
		Password:      "Sup3rSecret",
		FirstName:     "Pat",
		LastName:      "Doe",
		StreetAddress: "12 Main St",
		City:          "Orlando",
		State:         "FL",
		ZipCode:       "32801",
	}
}

func TestRegister(t *testing.T) {
	env := newTestEnv(t, true)

	resp, err := env.svc.Register(context.Background(), validRegistration())
	require.NoError(t, err)

	assert.Equal(t, "pat@example.org", resp.Email)
	assert.Equal(t, "user", resp.Role)
	assert.False(t, resp.Verified)

	stored, err := env.userRepo.GetByEmail(context.Background(), "pat@example.org")
	require.NoError(t, err)
	assert.NotEqual(t, "Sup3rSecret", stored.PasswordHashed)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	env := newTestEnv(t, true)
	ctx := context.Background()

	_, err := env.svc.Register(ctx, validRegistration())
	require.NoError(t, err)

	_, err = env.svc.Register(ctx, validRegistration())
	require.Error(t, err)
	assert.Equal(t, appErrors.CodeConflict, appErrors.CodeOf(err))
}

func TestRegisterOutsideServiceArea(t *testing.T) {
	env := newTestEnv(t, false)

	_, err := env.svc.Register(context.Background(), validRegistration())
	require.Error(t, err)
	assert.Equal(t, appErrors.CodeValidation, appErrors.CodeOf(err))

	_, err = env.userRepo.GetByEmail(context.Background(), "pat@example.org")
	assert.ErrorIs(t, err, domainUser.ErrUserNotFound)
}

func TestRegisterWeakPassword(t *testing.T) {
	env := newTestEnv(t, true)

	req := validRegistration()
	req.Password = "short"

	_, err := env.svc.Register(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, appErrors.CodeValidation, appErrors.CodeOf(err))
}

func TestLogin(t *testing.T) {
	env := newTestEnv(t, true)
	ctx := context.Background()

	_, err := env.svc.Register(ctx, validRegistration())
	require.NoError(t, err)

	resp, err := env.svc.Login(ctx, &LoginRequest{Email: "pat@example.org", Password: "Sup3rSecret"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "pat@example.org", resp.User.Email)

	_, err = env.svc.Login(ctx, &LoginRequest{Email: "pat@example.org", Password: "WrongPass1"})
	require.Error(t, err)
	assert.Equal(t, appErrors.CodeAuthorization, appErrors.CodeOf(err))

	_, err = env.svc.Login(ctx, &LoginRequest{Email: "nobody@example.org", Password: "Sup3rSecret"})
	require.Error(t, err)
	assert.Equal(t, appErrors.CodeAuthorization, appErrors.CodeOf(err))
}

func TestGetUserOwnership(t *testing.T) {
	env := newTestEnv(t, true)
	ctx := context.Background()

	created, err := env.svc.Register(ctx, validRegistration())
	require.NoError(t, err)

	_, err = env.svc.GetUser(ctx, created.ID, domainUser.RoleUser, created.ID)
	require.NoError(t, err)

	stranger := uuid.New()
	_, err = env.svc.GetUser(ctx, stranger, domainUser.RoleUser, created.ID)
	require.Error(t, err)
	assert.Equal(t, appErrors.CodeAuthorization, appErrors.CodeOf(err))

	_, err = env.svc.GetUser(ctx, stranger, domainUser.RoleAdmin, created.ID)
	require.NoError(t, err)
}

func TestUpdateUserRoleEscalationBlocked(t *testing.T) {
	env := newTestEnv(t, true)
	ctx := context.Background()

	created, err := env.svc.Register(ctx, validRegistration())
	require.NoError(t, err)

	role := "admin"
	_, err = env.svc.UpdateUser(ctx, created.ID, domainUser.RoleUser, created.ID, &UpdateUserRequest{Role: &role})
	require.Error(t, err)
	assert.Equal(t, appErrors.CodeAuthorization, appErrors.CodeOf(err))

	resp, err := env.svc.UpdateUser(ctx, uuid.New(), domainUser.RoleAdmin, created.ID, &UpdateUserRequest{Role: &role})
	require.NoError(t, err)
	assert.Equal(t, "admin", resp.Role)
}

func TestDeleteUserBlockedByActiveBorrow(t *testing.T) {
	env := newTestEnv(t, true)
	ctx := context.Background()

	created, err := env.svc.Register(ctx, validRegistration())
	require.NoError(t, err)

	locationRepo := postgres.NewLocationRepository(env.db)
	deviceRepo := postgres.NewDeviceRepository(env.db)

	loc := &domainLocation.Location{StreetAddress: "101 Center St", City: "Orlando", State: "FL", ZipCode: "32801"}
	require.NoError(t, locationRepo.Create(ctx, loc))

	dev := &domainDevice.Device{Brand: "Lenovo", DeviceType: "laptop", SerialNumber: "SN-1", LocationID: loc.ID}
	require.NoError(t, deviceRepo.Create(ctx, dev))

	b := &domainBorrow.Borrow{
		UserID:     created.ID,
		DeviceID:   dev.ID,
		BorrowDate: time.Now(),
		Status:     domainBorrow.StatusSubmitted,
		Reason:     domainBorrow.ReasonSchool,
	}
	require.NoError(t, env.borrowRepo.ClaimDevice(ctx, b))

	err = env.svc.DeleteUser(ctx, created.ID, domainUser.RoleUser, created.ID)
	require.Error(t, err)
	assert.Equal(t, appErrors.CodeConflict, appErrors.CodeOf(err))

	require.NoError(t, env.borrowRepo.Update(ctx, b.ID, map[string]interface{}{
		"borrow_status": string(domainBorrow.StatusCancelled),
	}))

	require.NoError(t, env.svc.DeleteUser(ctx, created.ID, domainUser.RoleUser, created.ID))
}
