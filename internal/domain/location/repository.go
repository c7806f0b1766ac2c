package location

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines persistence operations for pickup locations.
type Repository interface {
	Create(ctx context.Context, l *Location) error
	GetByID(ctx context.Context, locationID uuid.UUID) (*Location, error)
	Update(ctx context.Context, l *Location) error
	Delete(ctx context.Context, locationID uuid.UUID) error
	List(ctx context.Context, page, pageSize int) ([]*Location, int64, error)
}
