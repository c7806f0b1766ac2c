package location

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	domainLocation "device-lending-backend/internal/domain/location"
	"device-lending-backend/internal/logger"
	appErrors "device-lending-backend/pkg/errors"
	"device-lending-backend/pkg/utils"
)

// Service implements pickup location administration use cases.
type Service struct {
	locationRepo domainLocation.Repository
}

func NewService(locationRepo domainLocation.Repository) *Service {
	return &Service{locationRepo: locationRepo}
}

func (s *Service) CreateLocation(ctx context.Context, req *CreateLocationRequest) (*LocationResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.Validation("invalid input", err)
	}
	if !utils.IsValidZipCode(req.ZipCode) {
		return nil, appErrors.Validation("invalid zip code", nil)
	}

	l := &domainLocation.Location{
		StreetAddress: utils.SanitizeString(req.StreetAddress),
		City:          utils.SanitizeString(req.City),
		State:         utils.SanitizeString(req.State),
		ZipCode:       req.ZipCode,
		Nickname:      req.Nickname,
	}

	if err := s.locationRepo.Create(ctx, l); err != nil {
		return nil, appErrors.Store(err)
	}

	logger.Info("Location created",
		zap.String("location_id", l.ID.String()),
		zap.String("event", "location_created"),
	)

	return ToLocationResponse(l), nil
}

func (s *Service) GetLocation(ctx context.Context, locationID uuid.UUID) (*LocationResponse, error) {
	l, err := s.locationRepo.GetByID(ctx, locationID)
	if err != nil {
		if errors.Is(err, domainLocation.ErrLocationNotFound) {
			return nil, appErrors.NotFound("location not found")
		}
		return nil, appErrors.Store(err)
	}
	return ToLocationResponse(l), nil
}

func (s *Service) UpdateLocation(ctx context.Context, locationID uuid.UUID, req *UpdateLocationRequest) (*LocationResponse, error) {
	l, err := s.locationRepo.GetByID(ctx, locationID)
	if err != nil {
		if errors.Is(err, domainLocation.ErrLocationNotFound) {
			return nil, appErrors.NotFound("location not found")
		}
		return nil, appErrors.Store(err)
	}

	if req.StreetAddress != nil {
		l.StreetAddress = utils.SanitizeString(*req.StreetAddress)
	}
	if req.City != nil {
		l.City = utils.SanitizeString(*req.City)
	}
	if req.State != nil {
		l.State = utils.SanitizeString(*req.State)
	}
	if req.ZipCode != nil {
		if !utils.IsValidZipCode(*req.ZipCode) {
			return nil, appErrors.Validation("invalid zip code", nil)
		}
		l.ZipCode = *req.ZipCode
	}
	if req.Nickname != nil {
		l.Nickname = req.Nickname
	}

	if err := s.locationRepo.Update(ctx, l); err != nil {
		return nil, appErrors.Store(err)
	}

	return ToLocationResponse(l), nil
}

func (s *Service) DeleteLocation(ctx context.Context, locationID uuid.UUID) error {
	if err := s.locationRepo.Delete(ctx, locationID); err != nil {
		if errors.Is(err, domainLocation.ErrLocationNotFound) {
			return appErrors.NotFound("location not found")
		}
		return appErrors.Store(err)
	}

	logger.Info("Location deleted",
		zap.String("location_id", locationID.String()),
		zap.String("event", "location_deleted"),
	)

	return nil
}

func (s *Service) ListLocations(ctx context.Context, page, pageSize int) (*LocationListResponse, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}

	locations, total, err := s.locationRepo.List(ctx, page, pageSize)
	if err != nil {
		return nil, appErrors.Store(err)
	}

	responses := make([]LocationResponse, len(locations))
	for i, l := range locations {
		responses[i] = *ToLocationResponse(l)
	}

	totalPages := int(total) / pageSize
	if int(total)%pageSize > 0 {
		totalPages++
	}

	return &LocationListResponse{
		Locations:  responses,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}, nil
}
