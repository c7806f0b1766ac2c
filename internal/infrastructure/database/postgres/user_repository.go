package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	domainUser "device-lending-backend/internal/domain/user"
	"device-lending-backend/internal/infrastructure/database/postgres/models"
)

// UserRepository implements the user domain Repository interface.
type UserRepository struct {
	db *DB
}

func NewUserRepository(db *DB) domainUser.Repository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, u *domainUser.User) error {
	u.ID = uuid.New()
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	if u.Role == "" {
		u.Role = domainUser.RoleUser
	}

	dbModel := toUserModel(u)
	if err := r.db.DB.WithContext(ctx).Create(dbModel).Error; err != nil {
		if strings.Contains(err.Error(), "duplicate key value") ||
			strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return domainUser.ErrUserAlreadyExists
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, userID uuid.UUID) (*domainUser.User, error) {
	var dbModel models.UserModel
	err := r.db.DB.WithContext(ctx).
		Where("id = ?", userID).
		First(&dbModel).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domainUser.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return toUserEntity(&dbModel), nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domainUser.User, error) {
	var dbModel models.UserModel
	err := r.db.DB.WithContext(ctx).
		Where("email = ?", email).
		First(&dbModel).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domainUser.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	return toUserEntity(&dbModel), nil
}

func (r *UserRepository) Update(ctx context.Context, u *domainUser.User) error {
	u.UpdatedAt = time.Now()

	result := r.db.DB.WithContext(ctx).
		Model(&models.UserModel{}).
		Where("id = ?", u.ID).
		Updates(map[string]interface{}{
			"email":          u.Email,
			"first_name":     u.FirstName,
			"last_name":      u.LastName,
			"phone":          u.Phone,
			"street_address": u.StreetAddress,
			"city":           u.City,
			"state":          u.State,
			"zip_code":       u.ZipCode,
			"date_of_birth":  u.DateOfBirth,
			"role":           string(u.Role),
			"verified":       u.Verified,
			"updated_at":     u.UpdatedAt,
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update user: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domainUser.ErrUserNotFound
	}

	return nil
}

func (r *UserRepository) Delete(ctx context.Context, userID uuid.UUID) error {
	result := r.db.DB.WithContext(ctx).
		Where("id = ?", userID).
		Delete(&models.UserModel{})

	if result.Error != nil {
		return fmt.Errorf("failed to delete user: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domainUser.ErrUserNotFound
	}

	return nil
}

func (r *UserRepository) List(ctx context.Context, filter *domainUser.Filter) ([]*domainUser.User, int64, error) {
	var dbModels []models.UserModel
	var total int64

	db := r.db.DB.WithContext(ctx).Model(&models.UserModel{})

	if filter.Role != nil {
		db = db.Where("role = ?", string(*filter.Role))
	}
	if filter.Verified != nil {
		db = db.Where("verified = ?", *filter.Verified)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		db = db.Where("email LIKE ? OR first_name LIKE ? OR last_name LIKE ?", pattern, pattern, pattern)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	db = db.Order(orderClause(filter.SortBy, filter.SortOrder, map[string]bool{
		"email": true, "first_name": true, "last_name": true, "created_at": true,
	}))
	db = db.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)

	if err := db.Find(&dbModels).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}

	users := make([]*domainUser.User, len(dbModels))
	for i := range dbModels {
		users[i] = toUserEntity(&dbModels[i])
	}

	return users, total, nil
}

// orderClause builds a safe ORDER BY from caller-supplied sort parameters.
func orderClause(sortBy, sortOrder string, allowed map[string]bool) string {
	if !allowed[sortBy] {
		sortBy = "created_at"
	}
	if sortOrder != "asc" {
		sortOrder = "desc"
	}
	return sortBy + " " + sortOrder
}

func toUserModel(u *domainUser.User) *models.UserModel {
	return &models.UserModel{
		ID:             u.ID,
		Email:          u.Email,
		PasswordHashed: u.PasswordHashed,
		FirstName:      u.FirstName,
		LastName:       u.LastName,
		Phone:          u.Phone,
		StreetAddress:  u.StreetAddress,
		City:           u.City,
		State:          u.State,
		ZipCode:        u.ZipCode,
		DateOfBirth:    u.DateOfBirth,
		Role:           string(u.Role),
		Verified:       u.Verified,
		CreatedAt:      u.CreatedAt,
		UpdatedAt:      u.UpdatedAt,
	}
}

func toUserEntity(m *models.UserModel) *domainUser.User {
	return &domainUser.User{
		ID:             m.ID,
		Email:          m.Email,
		PasswordHashed: m.PasswordHashed,
		FirstName:      m.FirstName,
		LastName:       m.LastName,
		Phone:          m.Phone,
		StreetAddress:  m.StreetAddress,
		City:           m.City,
		State:          m.State,
		ZipCode:        m.ZipCode,
		DateOfBirth:    m.DateOfBirth,
		Role:           domainUser.Role(m.Role),
		Verified:       m.Verified,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}
