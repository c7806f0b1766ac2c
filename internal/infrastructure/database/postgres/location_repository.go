package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	domainLocation "device-lending-backend/internal/domain/location"
	"device-lending-backend/internal/infrastructure/database/postgres/models"
)

// LocationRepository implements the location domain Repository interface.
type LocationRepository struct {
	db *DB
}

func NewLocationRepository(db *DB) domainLocation.Repository {
	return &LocationRepository{db: db}
}

func (r *LocationRepository) Create(ctx context.Context, l *domainLocation.Location) error {
	l.ID = uuid.New()
	l.CreatedAt = time.Now()
	l.UpdatedAt = l.CreatedAt

	if err := r.db.DB.WithContext(ctx).Create(toLocationModel(l)).Error; err != nil {
		return fmt.Errorf("failed to create location: %w", err)
	}
	return nil
}

func (r *LocationRepository) GetByID(ctx context.Context, locationID uuid.UUID) (*domainLocation.Location, error) {
	var dbModel models.LocationModel
	err := r.db.DB.WithContext(ctx).
		Where("id = ?", locationID).
		First(&dbModel).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domainLocation.ErrLocationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get location: %w", err)
	}

	return toLocationEntity(&dbModel), nil
}

func (r *LocationRepository) Update(ctx context.Context, l *domainLocation.Location) error {
	l.UpdatedAt = time.Now()

	result := r.db.DB.WithContext(ctx).
		Model(&models.LocationModel{}).
		Where("id = ?", l.ID).
		Updates(map[string]interface{}{
			"street_address": l.StreetAddress,
			"city":           l.City,
			"state":          l.State,
			"zip_code":       l.ZipCode,
			"nickname":       l.Nickname,
			"updated_at":     l.UpdatedAt,
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update location: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domainLocation.ErrLocationNotFound
	}

	return nil
}

func (r *LocationRepository) Delete(ctx context.Context, locationID uuid.UUID) error {
	result := r.db.DB.WithContext(ctx).
		Where("id = ?", locationID).
		Delete(&models.LocationModel{})

	if result.Error != nil {
		return fmt.Errorf("failed to delete location: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domainLocation.ErrLocationNotFound
	}

	return nil
}

func (r *LocationRepository) List(ctx context.Context, page, pageSize int) ([]*domainLocation.Location, int64, error) {
	var dbModels []models.LocationModel
	var total int64

	db := r.db.DB.WithContext(ctx).Model(&models.LocationModel{})

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count locations: %w", err)
	}

	err := db.Order("created_at desc").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&dbModels).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list locations: %w", err)
	}

	locations := make([]*domainLocation.Location, len(dbModels))
	for i := range dbModels {
		locations[i] = toLocationEntity(&dbModels[i])
	}

	return locations, total, nil
}

func toLocationModel(l *domainLocation.Location) *models.LocationModel {
	return &models.LocationModel{
		ID:            l.ID,
		StreetAddress: l.StreetAddress,
		City:          l.City,
		State:         l.State,
		ZipCode:       l.ZipCode,
		Nickname:      l.Nickname,
		CreatedAt:     l.CreatedAt,
		UpdatedAt:     l.UpdatedAt,
	}
}

func toLocationEntity(m *models.LocationModel) *domainLocation.Location {
	return &domainLocation.Location{
		ID:            m.ID,
		StreetAddress: m.StreetAddress,
		City:          m.City,
		State:         m.State,
		ZipCode:       m.ZipCode,
		Nickname:      m.Nickname,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}
