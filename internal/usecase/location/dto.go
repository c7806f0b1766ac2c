package location

import (
	"time"

	"github.com/google/uuid"

	domainLocation "device-lending-backend/internal/domain/location"
)

type CreateLocationRequest struct {
	StreetAddress string  `json:"street_address" validate:"required"`
	City          string  `json:"city" validate:"required"`
	State         string  `json:"state" validate:"required"`
	ZipCode       string  `json:"zip_code" validate:"required"`
	Nickname      *string `json:"nickname"`
}

type UpdateLocationRequest struct {
	StreetAddress *string `json:"street_address"`
	City          *string `json:"city"`
	State         *string `json:"state"`
	ZipCode       *string `json:"zip_code"`
	Nickname      *string `json:"nickname"`
}

type LocationResponse struct {
	ID            uuid.UUID `json:"id"`
	StreetAddress string    `json:"street_address"`
	City          string    `json:"city"`
	State         string    `json:"state"`
	ZipCode       string    `json:"zip_code"`
	Nickname      *string   `json:"nickname,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

type LocationListResponse struct {
	Locations  []LocationResponse `json:"locations"`
	Total      int64              `json:"total"`
	Page       int                `json:"page"`
	PageSize   int                `json:"page_size"`
	TotalPages int                `json:"total_pages"`
}

func ToLocationResponse(l *domainLocation.Location) *LocationResponse {
	return &LocationResponse{
		ID:            l.ID,
		StreetAddress: l.StreetAddress,
		City:          l.City,
		State:         l.State,
		ZipCode:       l.ZipCode,
		Nickname:      l.Nickname,
		CreatedAt:     l.CreatedAt,
	}
}
