package device

import (
	"time"

	"github.com/google/uuid"

	domainDevice "device-lending-backend/internal/domain/device"
)

type CreateDeviceRequest struct {
	Brand        string    `json:"brand" validate:"required"`
	Model        *string   `json:"model"`
	DeviceType   string    `json:"device_type" validate:"required"`
	SerialNumber string    `json:"serial_number" validate:"required"`
	LocationID   uuid.UUID `json:"location_id" validate:"required"`
}

type UpdateDeviceRequest struct {
	Brand      *string    `json:"brand"`
	Model      *string    `json:"model"`
	DeviceType *string    `json:"device_type"`
	LocationID *uuid.UUID `json:"location_id"`
}

type DeviceFilterRequest struct {
	LocationID *uuid.UUID `form:"location_id"`
	DeviceType *string    `form:"device_type"`
	Brand      *string    `form:"brand"`
	Search     string     `form:"search"`
	Page       int        `form:"page"`
	PageSize   int        `form:"page_size"`
	SortBy     string     `form:"sort_by"`
	SortOrder  string     `form:"sort_order"`
}

type DeviceResponse struct {
	ID           uuid.UUID `json:"id"`
	Brand        string    `json:"brand"`
	Model        *string   `json:"model,omitempty"`
	DeviceType   string    `json:"device_type"`
	SerialNumber string    `json:"serial_number"`
	LocationID   uuid.UUID `json:"location_id"`
	LocationName *string   `json:"location_name,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

type DeviceListResponse struct {
	Devices    []DeviceResponse `json:"devices"`
	Total      int64            `json:"total"`
	Page       int              `json:"page"`
	PageSize   int              `json:"page_size"`
	TotalPages int              `json:"total_pages"`
}

func ToDeviceResponse(d *domainDevice.Device) *DeviceResponse {
	resp := &DeviceResponse{
		ID:           d.ID,
		Brand:        d.Brand,
		Model:        d.Model,
		DeviceType:   d.DeviceType,
		SerialNumber: d.SerialNumber,
		LocationID:   d.LocationID,
		CreatedAt:    d.CreatedAt,
	}
	if d.Location != nil {
		if d.Location.Nickname != nil {
			resp.LocationName = d.Location.Nickname
		} else {
			name := d.Location.StreetAddress
			resp.LocationName = &name
		}
	}
	return resp
}
