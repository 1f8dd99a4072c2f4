package editor

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/geojournal/core/internal/models"
	"go.uber.org/zap"
)

var ErrHalfCoordinate = errors.New("latitude and longitude must be provided together")

// Store is the write surface the editor drives. Satisfied by the entry
// service.
type Store interface {
	InsertOrReplace(ctx context.Context, e *models.EntryModel) error
	GetByID(ctx context.Context, id uint) (*models.EntryModel, error)
	Delete(ctx context.Context, id uint) error
}

// Geocoder resolves a coordinate pair to a human-readable place name.
type Geocoder interface {
	ReverseGeocode(ctx context.Context, lat, lon float64) (string, error)
}

// Service implements the editor workflow: resolve a location name and write
// through to the store. Geocoding failures never fail a save; the entry
// falls back to a sentinel location name.
type Service struct {
	store   Store
	geo     Geocoder
	timeout time.Duration
	log     *zap.Logger
}

func NewService(store Store, geo Geocoder, timeout time.Duration, log *zap.Logger) *Service {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &Service{store: store, geo: geo, timeout: timeout, log: log}
}

// SaveInput carries one editor submission. An ID of zero or below means
// "create a new entry".
type SaveInput struct {
	ID          int64
	Title       string
	Description string
	PhotoPath   string
	Latitude    *float64
	Longitude   *float64
	Date        int64
}

// Save resolves the location name and writes the entry. Title and
// description may be blank; only the coordinate pair is validated.
// Returns the stored entry with its assigned id.
func (s *Service) Save(ctx context.Context, in SaveInput) (*models.EntryModel, error) {
	if (in.Latitude == nil) != (in.Longitude == nil) {
		return nil, ErrHalfCoordinate
	}

	e := &models.EntryModel{
		Title:        in.Title,
		Description:  in.Description,
		PhotoPath:    in.PhotoPath,
		Latitude:     in.Latitude,
		Longitude:    in.Longitude,
		LocationName: s.resolveLocation(ctx, in.Latitude, in.Longitude),
		CreatedAt:    in.Date,
	}
	if in.ID > 0 {
		e.ID = uint(in.ID)
	}

	if err := s.store.InsertOrReplace(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

// Load fetches an entry for editing. Non-positive ids are the "new entry"
// sentinel and load nothing.
func (s *Service) Load(ctx context.Context, id int64) (*models.EntryModel, error) {
	if id <= 0 {
		return nil, nil
	}
	return s.store.GetByID(ctx, uint(id))
}

// Delete removes an entry. Unknown ids are a no-op.
func (s *Service) Delete(ctx context.Context, id uint) error {
	return s.store.Delete(ctx, id)
}

func (s *Service) resolveLocation(ctx context.Context, lat, lon *float64) string {
	if lat == nil || lon == nil {
		return models.LocationNone
	}

	gctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	name, err := s.geo.ReverseGeocode(gctx, *lat, *lon)
	if err != nil {
		s.log.Warn("reverse geocode failed",
			zap.Float64("lat", *lat), zap.Float64("lon", *lon), zap.Error(err))
		return models.LocationUnknown
	}
	if strings.TrimSpace(name) == "" {
		return models.LocationUnknown
	}
	return name
}
