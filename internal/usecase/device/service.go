package device

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	domainBorrow "device-lending-backend/internal/domain/borrow"
	domainDevice "device-lending-backend/internal/domain/device"
	domainLocation "device-lending-backend/internal/domain/location"
	"device-lending-backend/internal/logger"
	appErrors "device-lending-backend/pkg/errors"
	"device-lending-backend/pkg/utils"
)

// Service implements device administration use cases.
type Service struct {
	deviceRepo   domainDevice.Repository
	locationRepo domainLocation.Repository
	borrowRepo   domainBorrow.Repository
}

func NewService(
	deviceRepo domainDevice.Repository,
	locationRepo domainLocation.Repository,
	borrowRepo domainBorrow.Repository,
) *Service {
	return &Service{
		deviceRepo:   deviceRepo,
		locationRepo: locationRepo,
		borrowRepo:   borrowRepo,
	}
}

func (s *Service) CreateDevice(ctx context.Context, req *CreateDeviceRequest) (*DeviceResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.Validation("invalid input", err)
	}

	if _, err := s.locationRepo.GetByID(ctx, req.LocationID); err != nil {
		if errors.Is(err, domainLocation.ErrLocationNotFound) {
			return nil, appErrors.NotFound("location not found")
		}
		return nil, appErrors.Store(err)
	}

	if existing, _ := s.deviceRepo.GetBySerialNumber(ctx, req.SerialNumber); existing != nil {
		return nil, appErrors.Conflict("a device with this serial number already exists")
	}

	d := &domainDevice.Device{
		Brand:        req.Brand,
		Model:        req.Model,
		DeviceType:   req.DeviceType,
		SerialNumber: req.SerialNumber,
		LocationID:   req.LocationID,
	}

	if err := s.deviceRepo.Create(ctx, d); err != nil {
		if errors.Is(err, domainDevice.ErrDeviceAlreadyExists) {
			return nil, appErrors.Conflict("a device with this serial number already exists")
		}
		return nil, appErrors.Store(err)
	}

	logger.Info("Device created",
		zap.String("device_id", d.ID.String()),
		zap.String("serial_number", d.SerialNumber),
		zap.String("event", "device_created"),
	)

	return ToDeviceResponse(d), nil
}

func (s *Service) GetDevice(ctx context.Context, deviceID uuid.UUID) (*DeviceResponse, error) {
	d, err := s.deviceRepo.GetByID(ctx, deviceID)
	if err != nil {
		if errors.Is(err, domainDevice.ErrDeviceNotFound) {
			return nil, appErrors.NotFound("device not found")
		}
		return nil, appErrors.Store(err)
	}
	return ToDeviceResponse(d), nil
}

func (s *Service) UpdateDevice(ctx context.Context, deviceID uuid.UUID, req *UpdateDeviceRequest) (*DeviceResponse, error) {
	d, err := s.deviceRepo.GetByID(ctx, deviceID)
	if err != nil {
		if errors.Is(err, domainDevice.ErrDeviceNotFound) {
			return nil, appErrors.NotFound("device not found")
		}
		return nil, appErrors.Store(err)
	}

	if req.Brand != nil {
		d.Brand = *req.Brand
	}
	if req.Model != nil {
		d.Model = req.Model
	}
	if req.DeviceType != nil {
		d.DeviceType = *req.DeviceType
	}
	if req.LocationID != nil {
		if _, err := s.locationRepo.GetByID(ctx, *req.LocationID); err != nil {
			if errors.Is(err, domainLocation.ErrLocationNotFound) {
				return nil, appErrors.NotFound("location not found")
			}
			return nil, appErrors.Store(err)
		}
		d.LocationID = *req.LocationID
	}

	if err := s.deviceRepo.Update(ctx, d); err != nil {
		return nil, appErrors.Store(err)
	}

	updated, err := s.deviceRepo.GetByID(ctx, deviceID)
	if err != nil {
		return nil, appErrors.Store(err)
	}

	return ToDeviceResponse(updated), nil
}

// DeleteDevice removes a device unless it still holds an active borrow.
func (s *Service) DeleteDevice(ctx context.Context, deviceID uuid.UUID) error {
	n, err := s.borrowRepo.CountActiveByDevice(ctx, deviceID)
	if err != nil {
		return appErrors.Store(err)
	}
	if n > 0 {
		return appErrors.Conflict("device has an active borrow record")
	}

	if err := s.deviceRepo.Delete(ctx, deviceID); err != nil {
		if errors.Is(err, domainDevice.ErrDeviceNotFound) {
			return appErrors.NotFound("device not found")
		}
		return appErrors.Store(err)
	}

	logger.Info("Device deleted",
		zap.String("device_id", deviceID.String()),
		zap.String("event", "device_deleted"),
	)

	return nil
}

func (s *Service) ListDevices(ctx context.Context, req *DeviceFilterRequest) (*DeviceListResponse, error) {
	if req.Page <= 0 {
		req.Page = 1
	}
	if req.PageSize <= 0 {
		req.PageSize = 20
	}
	if req.PageSize > 100 {
		req.PageSize = 100
	}

	filter := &domainDevice.Filter{
		LocationID: req.LocationID,
		DeviceType: req.DeviceType,
		Brand:      req.Brand,
		Search:     req.Search,
		Page:       req.Page,
		PageSize:   req.PageSize,
		SortBy:     req.SortBy,
		SortOrder:  req.SortOrder,
	}

	devices, total, err := s.deviceRepo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Store(err)
	}

	responses := make([]DeviceResponse, len(devices))
	for i, d := range devices {
		responses[i] = *ToDeviceResponse(d)
	}

	totalPages := int(total) / req.PageSize
	if int(total)%req.PageSize > 0 {
		totalPages++
	}

	return &DeviceListResponse{
		Devices:    responses,
		Total:      total,
		Page:       req.Page,
		PageSize:   req.PageSize,
		TotalPages: totalPages,
	}, nil
}
