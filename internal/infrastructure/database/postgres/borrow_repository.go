package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	domainBorrow "device-lending-backend/internal/domain/borrow"
	domainDevice "device-lending-backend/internal/domain/device"
	"device-lending-backend/internal/infrastructure/database/postgres/models"
)

// BorrowRepository implements the borrow domain Repository interface.
type BorrowRepository struct {
	db *DB
}

func NewBorrowRepository(db *DB) domainBorrow.Repository {
	return &BorrowRepository{db: db}
}

func (r *BorrowRepository) Create(ctx context.Context, b *domainBorrow.Borrow) error {
	stamp(b)
	if err := r.db.DB.WithContext(ctx).Create(toBorrowModel(b)).Error; err != nil {
		return fmt.Errorf("failed to create borrow: %w", err)
	}
	return nil
}

// ClaimDevice inserts b only if its device holds no active borrow at write
// time. The conditional update on the device row serializes concurrent claims
// (it takes a row lock in Postgres), so the re-count below observes any claim
// committed between the caller's scan and this transaction.
func (r *BorrowRepository) ClaimDevice(ctx context.Context, b *domainBorrow.Borrow) error {
	stamp(b)
	dbModel := toBorrowModel(b)

	return r.db.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockDeviceRow(tx, b.DeviceID); err != nil {
			return err
		}

		var n int64
		err := tx.Model(&models.BorrowModel{}).
			Where("device_id = ? AND borrow_status IN ?", b.DeviceID, domainBorrow.ActiveStatuses()).
			Count(&n).Error
		if err != nil {
			return fmt.Errorf("failed to count active borrows: %w", err)
		}
		if n > 0 {
			return domainBorrow.ErrDeviceConflict
		}

		if err := tx.Create(dbModel).Error; err != nil {
			return fmt.Errorf("failed to create borrow: %w", err)
		}
		return nil
	})
}

func (r *BorrowRepository) GetByID(ctx context.Context, borrowID uuid.UUID) (*domainBorrow.Borrow, error) {
	var dbModel models.BorrowModel
	err := r.db.DB.WithContext(ctx).
		Preload("User").
		Preload("Device").
		Preload("Device.Location").
		Where("id = ?", borrowID).
		First(&dbModel).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domainBorrow.ErrBorrowNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get borrow: %w", err)
	}

	return toBorrowEntity(&dbModel), nil
}

func (r *BorrowRepository) Update(ctx context.Context, borrowID uuid.UUID, changes map[string]interface{}) error {
	changes["updated_at"] = time.Now()

	result := r.db.DB.WithContext(ctx).
		Model(&models.BorrowModel{}).
		Where("id = ?", borrowID).
		Updates(changes)

	if result.Error != nil {
		return fmt.Errorf("failed to update borrow: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domainBorrow.ErrBorrowNotFound
	}

	return nil
}

// Reassign moves a borrow onto a different device inside one transaction,
// re-running the conflict check against the target device when the record
// will still occupy it.
func (r *BorrowRepository) Reassign(ctx context.Context, borrowID, deviceID uuid.UUID, requireIdle bool, changes map[string]interface{}) error {
	changes["device_id"] = deviceID
	changes["updated_at"] = time.Now()

	return r.db.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockDeviceRow(tx, deviceID); err != nil {
			return err
		}

		if requireIdle {
			var n int64
			err := tx.Model(&models.BorrowModel{}).
				Where("device_id = ? AND id != ? AND borrow_status IN ?",
					deviceID, borrowID, domainBorrow.ActiveStatuses()).
				Count(&n).Error
			if err != nil {
				return fmt.Errorf("failed to count active borrows: %w", err)
			}
			if n > 0 {
				return domainBorrow.ErrDeviceConflict
			}
		}

		result := tx.Model(&models.BorrowModel{}).
			Where("id = ?", borrowID).
			Updates(changes)
		if result.Error != nil {
			return fmt.Errorf("failed to reassign borrow: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return domainBorrow.ErrBorrowNotFound
		}
		return nil
	})
}

func (r *BorrowRepository) Delete(ctx context.Context, borrowID uuid.UUID) error {
	result := r.db.DB.WithContext(ctx).
		Where("id = ?", borrowID).
		Delete(&models.BorrowModel{})

	if result.Error != nil {
		return fmt.Errorf("failed to delete borrow: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domainBorrow.ErrBorrowNotFound
	}

	return nil
}

func (r *BorrowRepository) List(ctx context.Context, filter *domainBorrow.Filter) ([]*domainBorrow.Borrow, int64, error) {
	var dbModels []models.BorrowModel
	var total int64

	db := r.db.DB.WithContext(ctx).Model(&models.BorrowModel{}).
		Preload("User").
		Preload("Device")

	if filter.UserID != nil {
		db = db.Where("user_id = ?", *filter.UserID)
	}
	if filter.DeviceID != nil {
		db = db.Where("device_id = ?", *filter.DeviceID)
	}
	if filter.Status != nil {
		db = db.Where("borrow_status = ?", string(*filter.Status))
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count borrows: %w", err)
	}

	db = db.Order(orderClause(filter.SortBy, filter.SortOrder, map[string]bool{
		"borrow_date": true, "return_date": true, "borrow_status": true, "created_at": true,
	}))
	db = db.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)

	if err := db.Find(&dbModels).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list borrows: %w", err)
	}

	borrows := make([]*domainBorrow.Borrow, len(dbModels))
	for i := range dbModels {
		borrows[i] = toBorrowEntity(&dbModels[i])
	}

	return borrows, total, nil
}

func (r *BorrowRepository) CountActiveByDevice(ctx context.Context, deviceID uuid.UUID) (int64, error) {
	var n int64
	err := r.db.DB.WithContext(ctx).
		Model(&models.BorrowModel{}).
		Where("device_id = ? AND borrow_status IN ?", deviceID, domainBorrow.ActiveStatuses()).
		Count(&n).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count active borrows by device: %w", err)
	}
	return n, nil
}

func (r *BorrowRepository) CountActiveByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	var n int64
	err := r.db.DB.WithContext(ctx).
		Model(&models.BorrowModel{}).
		Where("user_id = ? AND borrow_status IN ?", userID, domainBorrow.ActiveStatuses()).
		Count(&n).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count active borrows by user: %w", err)
	}
	return n, nil
}

// lockDeviceRow takes a write lock on the device row via a conditional
// update. A plain UPDATE is used instead of SELECT FOR UPDATE so the same
// serialization point works across database engines.
func lockDeviceRow(tx *gorm.DB, deviceID uuid.UUID) error {
	result := tx.Model(&models.DeviceModel{}).
		Where("id = ?", deviceID).
		Update("updated_at", time.Now())
	if result.Error != nil {
		return fmt.Errorf("failed to lock device row: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domainDevice.ErrDeviceNotFound
	}
	return nil
}

func stamp(b *domainBorrow.Borrow) {
	b.ID = uuid.New()
	now := time.Now()
	b.CreatedAt = now
	b.UpdatedAt = now
}

func toBorrowModel(b *domainBorrow.Borrow) *models.BorrowModel {
	var condition *string
	if b.Condition != nil {
		s := string(*b.Condition)
		condition = &s
	}
	return &models.BorrowModel{
		ID:              b.ID,
		UserID:          b.UserID,
		DeviceID:        b.DeviceID,
		BorrowDate:      b.BorrowDate,
		ReturnDate:      b.ReturnDate,
		BorrowStatus:    string(b.Status),
		ReturnCondition: condition,
		ReasonForBorrow: string(b.Reason),
		DailyUsage:      b.DailyUsage,
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
	}
}

func toBorrowEntity(m *models.BorrowModel) *domainBorrow.Borrow {
	b := &domainBorrow.Borrow{
		ID:         m.ID,
		UserID:     m.UserID,
		DeviceID:   m.DeviceID,
		BorrowDate: m.BorrowDate,
		ReturnDate: m.ReturnDate,
		Status:     domainBorrow.Status(m.BorrowStatus),
		Reason:     domainBorrow.Reason(m.ReasonForBorrow),
		DailyUsage: m.DailyUsage,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
	if m.ReturnCondition != nil {
		c := domainBorrow.Condition(*m.ReturnCondition)
		b.Condition = &c
	}
	if m.User != nil {
		b.User = toUserEntity(m.User)
	}
	if m.Device != nil {
		b.Device = toDeviceEntity(m.Device)
	}
	return b
}
