package user

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	domainBorrow "device-lending-backend/internal/domain/borrow"
	domainUser "device-lending-backend/internal/domain/user"
	"device-lending-backend/internal/logger"
	"device-lending-backend/internal/usecase/eligibility"
	appErrors "device-lending-backend/pkg/errors"
	"device-lending-backend/pkg/utils"
)

// EligibilityChecker verifies that an applicant's zip code falls inside the
// program's service area.
type EligibilityChecker interface {
	CheckZipCode(ctx context.Context, zipCode string) (*eligibility.Result, error)
}

// Service implements account registration, authentication and profile
// management.
type Service struct {
	userRepo    domainUser.Repository
	borrowRepo  domainBorrow.Repository
	eligibility EligibilityChecker
	jwtSecret   string
	jwtExpiry   time.Duration
}

func NewService(
	userRepo domainUser.Repository,
	borrowRepo domainBorrow.Repository,
	eligibilityChecker EligibilityChecker,
	jwtSecret string,
	jwtExpiry time.Duration,
) *Service {
	return &Service{
		userRepo:    userRepo,
		borrowRepo:  borrowRepo,
		eligibility: eligibilityChecker,
		jwtSecret:   jwtSecret,
		jwtExpiry:   jwtExpiry,
	}
}

// Register creates a borrower account. The applicant's zip code must pass
// the service-area check before any credentials are stored.
func (s *Service) Register(ctx context.Context, req *RegisterRequest) (*UserResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.Validation("invalid input", err)
	}

	email := utils.SanitizeEmail(req.Email)
	if !utils.IsValidEmail(email) {
		return nil, appErrors.Validation("invalid email address", nil)
	}
	if err := utils.ValidatePassword(req.Password); err != nil {
		return nil, appErrors.Validation(err.Error(), nil)
	}
	if !utils.IsValidZipCode(req.ZipCode) {
		return nil, appErrors.Validation("invalid zip code", nil)
	}

	result, err := s.eligibility.CheckZipCode(ctx, req.ZipCode)
	if err != nil {
		return nil, err
	}
	if !result.Eligible {
		return nil, appErrors.Validation("address is not within the program service area", nil)
	}

	var dateOfBirth *time.Time
	if req.DateOfBirth != nil && *req.DateOfBirth != "" {
		dob, err := time.Parse("2006-01-02", *req.DateOfBirth)
		if err != nil {
			return nil, appErrors.Validation("invalid date of birth", err)
		}
		dateOfBirth = &dob
	}

	hashed, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, appErrors.Store(err)
	}

	u := &domainUser.User{
		Email:          email,
		PasswordHashed: hashed,
		FirstName:      utils.SanitizeString(req.FirstName),
		LastName:       utils.SanitizeString(req.LastName),
		Phone:          utils.SanitizePhone(req.Phone),
		StreetAddress:  utils.SanitizeString(req.StreetAddress),
		City:           utils.SanitizeString(req.City),
		State:          utils.SanitizeString(req.State),
		ZipCode:        req.ZipCode,
		DateOfBirth:    dateOfBirth,
		Role:           domainUser.RoleUser,
		Verified:       false,
	}

	if err := s.userRepo.Create(ctx, u); err != nil {
		if errors.Is(err, domainUser.ErrUserAlreadyExists) {
			return nil, appErrors.Conflict("an account with this email already exists")
		}
		return nil, appErrors.Store(err)
	}

	logger.Info("User registered",
		zap.String("user_id", u.ID.String()),
		zap.String("event", "user_registered"),
	)

	return ToUserResponse(u), nil
}

// Login verifies credentials and issues a signed token.
func (s *Service) Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.Validation("invalid input", err)
	}

	u, err := s.userRepo.GetByEmail(ctx, utils.SanitizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, domainUser.ErrUserNotFound) {
			return nil, appErrors.Authorization("invalid email or password")
		}
		return nil, appErrors.Store(err)
	}

	if !utils.CheckPassword(u.PasswordHashed, req.Password) {
		return nil, appErrors.Authorization("invalid email or password")
	}

	token, err := utils.GenerateToken(u.ID, u.Email, string(u.Role), s.jwtSecret, s.jwtExpiry)
	if err != nil {
		return nil, appErrors.Store(err)
	}

	logger.Info("User logged in",
		zap.String("user_id", u.ID.String()),
		zap.String("event", "user_login"),
	)

	return &LoginResponse{Token: token, User: *ToUserResponse(u)}, nil
}

// GetUser returns a profile. Non-admin callers may only read their own.
func (s *Service) GetUser(ctx context.Context, actorID uuid.UUID, actorRole domainUser.Role, userID uuid.UUID) (*UserResponse, error) {
	if actorRole != domainUser.RoleAdmin && actorID != userID {
		return nil, appErrors.Authorization("you may only view your own profile")
	}

	u, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domainUser.ErrUserNotFound) {
			return nil, appErrors.NotFound("user not found")
		}
		return nil, appErrors.Store(err)
	}

	return ToUserResponse(u), nil
}

// UpdateUser edits a profile. Role and verified flags change only at the
// hands of an administrator.
func (s *Service) UpdateUser(ctx context.Context, actorID uuid.UUID, actorRole domainUser.Role, userID uuid.UUID, req *UpdateUserRequest) (*UserResponse, error) {
	if actorRole != domainUser.RoleAdmin && actorID != userID {
		return nil, appErrors.Authorization("you may only edit your own profile")
	}

	u, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domainUser.ErrUserNotFound) {
			return nil, appErrors.NotFound("user not found")
		}
		return nil, appErrors.Store(err)
	}

	if req.FirstName != nil {
		u.FirstName = utils.SanitizeString(*req.FirstName)
	}
	if req.LastName != nil {
		u.LastName = utils.SanitizeString(*req.LastName)
	}
	if req.Phone != nil {
		u.Phone = utils.SanitizePhone(*req.Phone)
	}
	if req.StreetAddress != nil {
		u.StreetAddress = utils.SanitizeString(*req.StreetAddress)
	}
	if req.City != nil {
		u.City = utils.SanitizeString(*req.City)
	}
	if req.State != nil {
		u.State = utils.SanitizeString(*req.State)
	}
	if req.ZipCode != nil {
		if !utils.IsValidZipCode(*req.ZipCode) {
			return nil, appErrors.Validation("invalid zip code", nil)
		}
		result, err := s.eligibility.CheckZipCode(ctx, *req.ZipCode)
		if err != nil {
			return nil, err
		}
		if !result.Eligible {
			return nil, appErrors.Validation("address is not within the program service area", nil)
		}
		u.ZipCode = *req.ZipCode
	}
	if req.DateOfBirth != nil {
		dob, err := time.Parse("2006-01-02", *req.DateOfBirth)
		if err != nil {
			return nil, appErrors.Validation("invalid date of birth", err)
		}
		u.DateOfBirth = &dob
	}
	if req.Role != nil {
		if actorRole != domainUser.RoleAdmin {
			return nil, appErrors.Authorization("only administrators may change roles")
		}
		role := domainUser.Role(*req.Role)
		if !role.Valid() {
			return nil, appErrors.Validation("invalid role", nil)
		}
		u.Role = role
	}
	if req.Verified != nil {
		if actorRole != domainUser.RoleAdmin {
			return nil, appErrors.Authorization("only administrators may change verification")
		}
		u.Verified = *req.Verified
	}

	if err := s.userRepo.Update(ctx, u); err != nil {
		return nil, appErrors.Store(err)
	}

	return ToUserResponse(u), nil
}

// DeleteUser removes an account. An account holding any borrow record in the
// active status set cannot be deleted.
func (s *Service) DeleteUser(ctx context.Context, actorID uuid.UUID, actorRole domainUser.Role, userID uuid.UUID) error {
	if actorRole != domainUser.RoleAdmin && actorID != userID {
		return appErrors.Authorization("you may only delete your own account")
	}

	n, err := s.borrowRepo.CountActiveByUser(ctx, userID)
	if err != nil {
		return appErrors.Store(err)
	}
	if n > 0 {
		return appErrors.Conflict("user has an active borrow record")
	}

	if err := s.userRepo.Delete(ctx, userID); err != nil {
		if errors.Is(err, domainUser.ErrUserNotFound) {
			return appErrors.NotFound("user not found")
		}
		return appErrors.Store(err)
	}

	logger.Info("User deleted",
		zap.String("user_id", userID.String()),
		zap.String("event", "user_deleted"),
	)

	return nil
}

// ListUsers pages through accounts for administrators.
func (s *Service) ListUsers(ctx context.Context, req *ListUsersRequest) (*UserListResponse, error) {
	if req.Page <= 0 {
		req.Page = 1
	}
	if req.PageSize <= 0 {
		req.PageSize = 20
	}
	if req.PageSize > 100 {
		req.PageSize = 100
	}

	filter := &domainUser.Filter{
		Verified:  req.Verified,
		Search:    req.Search,
		Page:      req.Page,
		PageSize:  req.PageSize,
		SortBy:    req.SortBy,
		SortOrder: req.SortOrder,
	}
	if req.Role != nil {
		role := domainUser.Role(*req.Role)
		if !role.Valid() {
			return nil, appErrors.Validation("invalid role", nil)
		}
		filter.Role = &role
	}

	users, total, err := s.userRepo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Store(err)
	}

	responses := make([]UserResponse, len(users))
	for i, u := range users {
		responses[i] = *ToUserResponse(u)
	}

	totalPages := int(total) / req.PageSize
	if int(total)%req.PageSize > 0 {
		totalPages++
	}

	return &UserListResponse{
		Users:      responses,
		Total:      total,
		Page:       req.Page,
		PageSize:   req.PageSize,
		TotalPages: totalPages,
	}, nil
}
