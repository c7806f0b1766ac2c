package eligibility

import (
	"context"
	"math"
	"time"

	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"device-lending-backend/internal/logger"
	appErrors "device-lending-backend/pkg/errors"
	"device-lending-backend/pkg/utils"
)

// Geocoder resolves a US zip code to coordinates.
type Geocoder interface {
	Geocode(ctx context.Context, zipCode string) (lat, lng float64, err error)
}

// Result reports whether a zip code falls inside the service area.
type Result struct {
	Eligible bool   `json:"eligible"`
	Reason   string `json:"reason,omitempty"`
}

// Service answers service-area eligibility checks. Geocoding results are
// cached per zip code since zip centroids do not move.
type Service struct {
	geocoder    Geocoder
	radiusMiles float64
	cache       *cache.Cache
}

func NewService(geocoder Geocoder, radiusMiles float64, cacheTTL time.Duration) *Service {
	if cacheTTL <= 0 {
		cacheTTL = 24 * time.Hour
	}
	return &Service{
		geocoder:    geocoder,
		radiusMiles: radiusMiles,
		cache:       cache.New(cacheTTL, 2*cacheTTL),
	}
}

type coordinates struct {
	lat float64
	lng float64
}

// CheckZipCode geocodes the zip and tests it against every neighborhood
// center. Geocoder failures surface as store errors so callers can tell an
// ineligible address from an unavailable upstream.
func (s *Service) CheckZipCode(ctx context.Context, zipCode string) (*Result, error) {
	if !utils.IsValidZipCode(zipCode) {
		return nil, appErrors.Validation("invalid zip code", nil)
	}

	coords, err := s.locate(ctx, zipCode)
	if err != nil {
		logger.Warn("Zip code lookup failed",
			zap.String("zip_code", zipCode),
			zap.Error(err),
		)
		return nil, appErrors.Store(err)
	}

	for _, center := range neighborhoodCenters {
		if distanceMiles(coords.lat, coords.lng, center.Lat, center.Lng) <= s.radiusMiles {
			return &Result{Eligible: true}, nil
		}
	}

	return &Result{Eligible: false, Reason: "not within an approved area"}, nil
}

func (s *Service) locate(ctx context.Context, zipCode string) (coordinates, error) {
	if cached, ok := s.cache.Get(zipCode); ok {
		return cached.(coordinates), nil
	}

	lat, lng, err := s.geocoder.Geocode(ctx, zipCode)
	if err != nil {
		return coordinates{}, err
	}

	coords := coordinates{lat: lat, lng: lng}
	s.cache.Set(zipCode, coords, cache.DefaultExpiration)
	return coords, nil
}

const earthRadiusMiles = 3958.8

// distanceMiles computes the haversine great-circle distance.
func distanceMiles(lat1, lng1, lat2, lng2 float64) float64 {
	toRad := func(deg float64) float64 { return deg * math.Pi / 180 }

	dLat := toRad(lat2 - lat1)
	dLng := toRad(lng2 - lng1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*
			math.Sin(dLng/2)*math.Sin(dLng/2)

	return earthRadiusMiles * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}
