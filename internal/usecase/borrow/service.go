package borrow

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"device-lending-backend/internal/borrow/lifecycle"
	domainBorrow "device-lending-backend/internal/domain/borrow"
	domainDevice "device-lending-backend/internal/domain/device"
	domainUser "device-lending-backend/internal/domain/user"
	"device-lending-backend/internal/logger"
	appErrors "device-lending-backend/pkg/errors"
	"device-lending-backend/pkg/utils"
)

// Service is the allocation engine: it composes the device matcher and the
// lifecycle state machine to create and mutate borrow records while keeping
// the single-active-borrow-per-device invariant.
type Service struct {
	borrowRepo domainBorrow.Repository
	deviceRepo domainDevice.Repository
	userRepo   domainUser.Repository
}

func NewService(
	borrowRepo domainBorrow.Repository,
	deviceRepo domainDevice.Repository,
	userRepo domainUser.Repository,
) *Service {
	return &Service{
		borrowRepo: borrowRepo,
		deviceRepo: deviceRepo,
		userRepo:   userRepo,
	}
}

// Create resolves a device for the request and persists the borrow
// atomically. Self-service requests always land in Submitted with a derived
// return date; staff may create directly into any state.
func (s *Service) Create(ctx context.Context, actor Actor, req *CreateBorrowRequest) (*BorrowResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.Validation("invalid input", err)
	}

	reason, err := domainBorrow.ParseReason(req.Reason)
	if err != nil {
		return nil, appErrors.Validation(err.Error(), nil)
	}

	borrowDate, err := lifecycle.ParseDate(req.BorrowDate)
	if err != nil {
		return nil, appErrors.Validation("borrow_date is not a valid date", err)
	}

	b := &domainBorrow.Borrow{
		BorrowDate: borrowDate,
		Reason:     reason,
	}

	switch actor.Role {
	case domainUser.RoleUser:
		if req.UserID != nil && *req.UserID != actor.ID {
			return nil, appErrors.Authorization("cannot create a borrow for another user")
		}
		if req.DeviceID != nil {
			return nil, appErrors.Authorization("device selection requires staff privileges")
		}
		if !lifecycle.WithinGraceWindow(borrowDate, time.Now()) {
			return nil, appErrors.Validation("borrow_date cannot be more than 24 hours in the past", nil)
		}
		// Client-supplied status, condition and return date are ignored:
		// self-service requests always start Submitted with a derived
		// return date.
		b.UserID = actor.ID
		b.Status = domainBorrow.StatusSubmitted
		returnDate := lifecycle.DeriveReturnDate(borrowDate)
		b.ReturnDate = &returnDate

	case domainUser.RoleAdmin:
		b.UserID = actor.ID
		if req.UserID != nil {
			b.UserID = *req.UserID
		}
		b.Status = domainBorrow.StatusSubmitted
		if req.Status != nil {
			status, err := domainBorrow.ParseStatus(*req.Status)
			if err != nil {
				return nil, appErrors.Validation(err.Error(), nil)
			}
			b.Status = status
		}
		if req.Condition != nil {
			condition, err := domainBorrow.ParseCondition(*req.Condition)
			if err != nil {
				return nil, appErrors.Validation(err.Error(), nil)
			}
			b.Condition = &condition
		}
		if req.ReturnDate != nil {
			returnDate, err := lifecycle.ParseDate(*req.ReturnDate)
			if err != nil {
				return nil, appErrors.Validation("return_date is not a valid date", err)
			}
			b.ReturnDate = &returnDate
		}
		if req.DailyUsage != nil && b.Status == domainBorrow.StatusCheckedIn {
			b.DailyUsage = req.DailyUsage
		}
		if b.Status == domainBorrow.StatusCancelled {
			b.ReturnDate = nil
		}

	default:
		return nil, appErrors.Authorization("unknown role")
	}

	if _, err := s.userRepo.GetByID(ctx, b.UserID); err != nil {
		if errors.Is(err, domainUser.ErrUserNotFound) {
			return nil, appErrors.NotFound("user not found")
		}
		return nil, appErrors.Store(err)
	}

	dev, err := s.resolveDevice(ctx, req)
	if err != nil {
		return nil, err
	}
	b.DeviceID = dev.ID

	// Only a record in the active set occupies its device; historical
	// records created by staff skip the claim.
	if b.Status.Active() {
		err = s.borrowRepo.ClaimDevice(ctx, b)
	} else {
		err = s.borrowRepo.Create(ctx, b)
	}
	if err != nil {
		switch {
		case errors.Is(err, domainBorrow.ErrDeviceConflict):
			return nil, appErrors.Conflict("device already reserved")
		case errors.Is(err, domainDevice.ErrDeviceNotFound):
			return nil, appErrors.NotFound("device not found")
		default:
			return nil, appErrors.Store(err)
		}
	}

	created, err := s.borrowRepo.GetByID(ctx, b.ID)
	if err != nil {
		return nil, appErrors.Store(err)
	}

	logger.Info("Borrow created",
		zap.String("borrow_id", created.ID.String()),
		zap.String("user_id", created.UserID.String()),
		zap.String("device_id", created.DeviceID.String()),
		zap.String("status", string(created.Status)),
		zap.String("event", "borrow_created"),
	)

	return ToBorrowResponse(created), nil
}

// resolveDevice runs the device matcher: an explicit device id (staff path)
// is fetched directly, otherwise the first idle device at the location wins.
func (s *Service) resolveDevice(ctx context.Context, req *CreateBorrowRequest) (*domainDevice.Device, error) {
	if req.DeviceID != nil {
		dev, err := s.deviceRepo.GetByID(ctx, *req.DeviceID)
		if err != nil {
			if errors.Is(err, domainDevice.ErrDeviceNotFound) {
				return nil, appErrors.NotFound("device not found")
			}
			return nil, appErrors.Store(err)
		}
		return dev, nil
	}

	dev, err := s.deviceRepo.FindAvailable(ctx, req.LocationID, req.DeviceType)
	if err != nil {
		if errors.Is(err, domainDevice.ErrNoDeviceAvailable) {
			return nil, appErrors.NotFound("no device available at this location")
		}
		return nil, appErrors.Store(err)
	}
	return dev, nil
}

// Update applies a role-gated partial update through the lifecycle table.
// Only the fields the transition permits are written; everything else keeps
// its prior value.
func (s *Service) Update(ctx context.Context, actor Actor, borrowID uuid.UUID, req *UpdateBorrowRequest) (*BorrowResponse, error) {
	current, err := s.getOwned(ctx, actor, borrowID)
	if err != nil {
		return nil, err
	}

	requested := current.Status
	if req.Status != nil {
		requested, err = domainBorrow.ParseStatus(*req.Status)
		if err != nil {
			return nil, appErrors.Validation(err.Error(), nil)
		}
	}

	fields, err := lifecycle.Permitted(current.Status, requested, actor.Role)
	if err != nil {
		if errors.Is(err, lifecycle.ErrForbiddenTransition) {
			return nil, appErrors.Authorization(err.Error())
		}
		return nil, appErrors.Validation(err.Error(), nil)
	}

	changes := map[string]interface{}{}
	if requested != current.Status {
		changes["borrow_status"] = string(requested)
	}

	if req.BorrowDate != nil {
		if !fields.Has(lifecycle.FieldBorrowDate) {
			return nil, appErrors.Authorization("borrow_date may not be changed")
		}
		borrowDate, err := lifecycle.ParseDate(*req.BorrowDate)
		if err != nil {
			return nil, appErrors.Validation("borrow_date is not a valid date", err)
		}
		if actor.Role == domainUser.RoleUser {
			if !lifecycle.WithinGraceWindow(borrowDate, time.Now()) {
				return nil, appErrors.Validation("borrow_date cannot be more than 24 hours in the past", nil)
			}
			changes["return_date"] = lifecycle.DeriveReturnDate(borrowDate)
		}
		changes["borrow_date"] = borrowDate
	}

	if req.ReturnDate != nil {
		if !fields.Has(lifecycle.FieldReturnDate) {
			return nil, appErrors.Authorization("return_date may not be changed")
		}
		returnDate, err := lifecycle.ParseDate(*req.ReturnDate)
		if err != nil {
			return nil, appErrors.Validation("return_date is not a valid date", err)
		}
		changes["return_date"] = returnDate
	}

	if req.Condition != nil {
		if !fields.Has(lifecycle.FieldCondition) {
			return nil, appErrors.Authorization("device_return_condition may not be changed")
		}
		condition, err := domainBorrow.ParseCondition(*req.Condition)
		if err != nil {
			return nil, appErrors.Validation(err.Error(), nil)
		}
		changes["device_return_condition"] = string(condition)
	}

	if req.Reason != nil {
		if !fields.Has(lifecycle.FieldReason) {
			return nil, appErrors.Authorization("reason_for_borrow may not be changed")
		}
		reason, err := domainBorrow.ParseReason(*req.Reason)
		if err != nil {
			return nil, appErrors.Validation(err.Error(), nil)
		}
		changes["reason_for_borrow"] = string(reason)
	}

	// Daily usage only lands when the record is being checked in; anywhere
	// else it is dropped rather than rejected.
	if req.DailyUsage != nil && fields.Has(lifecycle.FieldDailyUsage) {
		changes["daily_usage"] = *req.DailyUsage
	}

	// Cancellation clears the return date for every role.
	if requested == domainBorrow.StatusCancelled {
		changes["return_date"] = nil
	}

	if req.DeviceID != nil && *req.DeviceID != current.DeviceID {
		if !fields.Has(lifecycle.FieldDevice) {
			return nil, appErrors.Authorization("device selection requires staff privileges")
		}
		if _, err := s.deviceRepo.GetByID(ctx, *req.DeviceID); err != nil {
			if errors.Is(err, domainDevice.ErrDeviceNotFound) {
				return nil, appErrors.NotFound("device not found")
			}
			return nil, appErrors.Store(err)
		}
		err = s.borrowRepo.Reassign(ctx, current.ID, *req.DeviceID, requested.Active(), changes)
	} else if len(changes) > 0 {
		err = s.borrowRepo.Update(ctx, current.ID, changes)
	}
	if err != nil {
		switch {
		case errors.Is(err, domainBorrow.ErrDeviceConflict):
			return nil, appErrors.Conflict("device already reserved")
		case errors.Is(err, domainBorrow.ErrBorrowNotFound):
			return nil, appErrors.NotFound("borrow record not found")
		default:
			return nil, appErrors.Store(err)
		}
	}

	updated, err := s.borrowRepo.GetByID(ctx, borrowID)
	if err != nil {
		return nil, appErrors.Store(err)
	}

	logger.Info("Borrow updated",
		zap.String("borrow_id", updated.ID.String()),
		zap.String("status", string(updated.Status)),
		zap.String("role", string(actor.Role)),
		zap.String("event", "borrow_updated"),
	)

	return ToBorrowResponse(updated), nil
}

// Get returns a single borrow, restricted to its owner for self-service
// callers.
func (s *Service) Get(ctx context.Context, actor Actor, borrowID uuid.UUID) (*BorrowResponse, error) {
	b, err := s.getOwned(ctx, actor, borrowID)
	if err != nil {
		return nil, err
	}
	return ToBorrowResponse(b), nil
}

// List pages borrow records. Self-service callers are pinned to their own
// records regardless of the requested filter.
func (s *Service) List(ctx context.Context, actor Actor, req *ListBorrowsRequest) (*BorrowListResponse, error) {
	if req.Page <= 0 {
		req.Page = 1
	}
	if req.PageSize <= 0 {
		req.PageSize = 20
	}
	if req.PageSize > 100 {
		req.PageSize = 100
	}

	filter := &domainBorrow.Filter{
		UserID:    req.UserID,
		DeviceID:  req.DeviceID,
		Page:      req.Page,
		PageSize:  req.PageSize,
		SortBy:    req.SortBy,
		SortOrder: req.SortOrder,
	}
	if req.Status != nil {
		status, err := domainBorrow.ParseStatus(*req.Status)
		if err != nil {
			return nil, appErrors.Validation(err.Error(), nil)
		}
		filter.Status = &status
	}
	if actor.Role != domainUser.RoleAdmin {
		filter.UserID = &actor.ID
	}

	records, total, err := s.borrowRepo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Store(err)
	}

	responses := make([]BorrowResponse, len(records))
	for i, record := range records {
		responses[i] = *ToBorrowResponse(record)
	}

	totalPages := int(total) / req.PageSize
	if int(total)%req.PageSize > 0 {
		totalPages++
	}

	return &BorrowListResponse{
		Borrows:    responses,
		Total:      total,
		Page:       req.Page,
		PageSize:   req.PageSize,
		TotalPages: totalPages,
	}, nil
}

// Delete removes a borrow record. Staff only, and only once the record has
// reached a terminal status.
func (s *Service) Delete(ctx context.Context, actor Actor, borrowID uuid.UUID) error {
	if actor.Role != domainUser.RoleAdmin {
		return appErrors.Authorization("deleting borrow records requires staff privileges")
	}

	b, err := s.borrowRepo.GetByID(ctx, borrowID)
	if err != nil {
		if errors.Is(err, domainBorrow.ErrBorrowNotFound) {
			return appErrors.NotFound("borrow record not found")
		}
		return appErrors.Store(err)
	}

	if !b.Status.Terminal() {
		return appErrors.Validation("borrow record must be Checked_in or Cancelled before deletion", nil)
	}

	if err := s.borrowRepo.Delete(ctx, borrowID); err != nil {
		return appErrors.Store(err)
	}

	logger.Info("Borrow deleted",
		zap.String("borrow_id", borrowID.String()),
		zap.String("event", "borrow_deleted"),
	)

	return nil
}

func (s *Service) getOwned(ctx context.Context, actor Actor, borrowID uuid.UUID) (*domainBorrow.Borrow, error) {
	b, err := s.borrowRepo.GetByID(ctx, borrowID)
	if err != nil {
		if errors.Is(err, domainBorrow.ErrBorrowNotFound) {
			return nil, appErrors.NotFound("borrow record not found")
		}
		return nil, appErrors.Store(err)
	}
	if actor.Role != domainUser.RoleAdmin && b.UserID != actor.ID {
		return nil, appErrors.Authorization("not the owner of this borrow record")
	}
	return b, nil
}
