package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	domainBorrow "device-lending-backend/internal/domain/borrow"
	domainDevice "device-lending-backend/internal/domain/device"
	"device-lending-backend/internal/infrastructure/database/postgres/models"
)

// DeviceRepository implements the device domain Repository interface.
type DeviceRepository struct {
	db *DB
}

func NewDeviceRepository(db *DB) domainDevice.Repository {
	return &DeviceRepository{db: db}
}

func (r *DeviceRepository) Create(ctx context.Context, d *domainDevice.Device) error {
	d.ID = uuid.New()
	d.CreatedAt = time.Now()
	d.UpdatedAt = d.CreatedAt

	if err := r.db.DB.WithContext(ctx).Create(toDeviceModel(d)).Error; err != nil {
		if strings.Contains(err.Error(), "duplicate key value") ||
			strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return domainDevice.ErrDeviceAlreadyExists
		}
		return fmt.Errorf("failed to create device: %w", err)
	}

	return nil
}

func (r *DeviceRepository) GetByID(ctx context.Context, deviceID uuid.UUID) (*domainDevice.Device, error) {
	var dbModel models.DeviceModel
	err := r.db.DB.WithContext(ctx).
		Preload("Location").
		Where("id = ?", deviceID).
		First(&dbModel).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domainDevice.ErrDeviceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get device: %w", err)
	}

	return toDeviceEntity(&dbModel), nil
}

func (r *DeviceRepository) GetBySerialNumber(ctx context.Context, serial string) (*domainDevice.Device, error) {
	var dbModel models.DeviceModel
	err := r.db.DB.WithContext(ctx).
		Preload("Location").
		Where("serial_number = ?", serial).
		First(&dbModel).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domainDevice.ErrDeviceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get device by serial: %w", err)
	}

	return toDeviceEntity(&dbModel), nil
}

func (r *DeviceRepository) Update(ctx context.Context, d *domainDevice.Device) error {
	d.UpdatedAt = time.Now()

	result := r.db.DB.WithContext(ctx).
		Model(&models.DeviceModel{}).
		Where("id = ?", d.ID).
		Updates(map[string]interface{}{
			"brand":       d.Brand,
			"model":       d.Model,
			"device_type": d.DeviceType,
			"location_id": d.LocationID,
			"updated_at":  d.UpdatedAt,
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update device: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domainDevice.ErrDeviceNotFound
	}

	return nil
}

func (r *DeviceRepository) Delete(ctx context.Context, deviceID uuid.UUID) error {
	result := r.db.DB.WithContext(ctx).
		Where("id = ?", deviceID).
		Delete(&models.DeviceModel{})

	if result.Error != nil {
		return fmt.Errorf("failed to delete device: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domainDevice.ErrDeviceNotFound
	}

	return nil
}

func (r *DeviceRepository) List(ctx context.Context, filter *domainDevice.Filter) ([]*domainDevice.Device, int64, error) {
	var dbModels []models.DeviceModel
	var total int64

	db := r.db.DB.WithContext(ctx).Model(&models.DeviceModel{}).Preload("Location")

	if filter.LocationID != nil {
		db = db.Where("location_id = ?", *filter.LocationID)
	}
	if filter.DeviceType != nil {
		db = db.Where("device_type = ?", *filter.DeviceType)
	}
	if filter.Brand != nil {
		db = db.Where("brand = ?", *filter.Brand)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		db = db.Where("serial_number LIKE ? OR brand LIKE ? OR model LIKE ?", pattern, pattern, pattern)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count devices: %w", err)
	}

	db = db.Order(orderClause(filter.SortBy, filter.SortOrder, map[string]bool{
		"brand": true, "device_type": true, "serial_number": true, "created_at": true,
	}))
	db = db.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)

	if err := db.Find(&dbModels).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list devices: %w", err)
	}

	devices := make([]*domainDevice.Device, len(dbModels))
	for i := range dbModels {
		devices[i] = toDeviceEntity(&dbModels[i])
	}

	return devices, total, nil
}

// FindAvailable scans for the first device at the location with no borrow in
// the active status set. The scan is advisory only; ClaimDevice re-validates
// inside the claiming transaction.
func (r *DeviceRepository) FindAvailable(ctx context.Context, locationID uuid.UUID, deviceType *string) (*domainDevice.Device, error) {
	occupied := r.db.DB.
		Model(&models.BorrowModel{}).
		Select("device_id").
		Where("borrow_status IN ?", domainBorrow.ActiveStatuses())

	db := r.db.DB.WithContext(ctx).
		Where("location_id = ?", locationID).
		Where("id NOT IN (?)", occupied)

	if deviceType != nil {
		db = db.Where("device_type = ?", *deviceType)
	}

	var dbModel models.DeviceModel
	err := db.Order("created_at").First(&dbModel).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domainDevice.ErrNoDeviceAvailable
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find available device: %w", err)
	}

	return toDeviceEntity(&dbModel), nil
}

func toDeviceModel(d *domainDevice.Device) *models.DeviceModel {
	return &models.DeviceModel{
		ID:           d.ID,
		Brand:        d.Brand,
		Model:        d.Model,
		DeviceType:   d.DeviceType,
		SerialNumber: d.SerialNumber,
		LocationID:   d.LocationID,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}

func toDeviceEntity(m *models.DeviceModel) *domainDevice.Device {
	d := &domainDevice.Device{
		ID:           m.ID,
		Brand:        m.Brand,
		Model:        m.Model,
		DeviceType:   m.DeviceType,
		SerialNumber: m.SerialNumber,
		LocationID:   m.LocationID,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
	if m.Location != nil {
		d.Location = toLocationEntity(m.Location)
	}
	return d
}
