package travelmap

import (
	"context"

	"github.com/geojournal/core/internal/models"
)

// Default map center when no entry carries coordinates yet.
const (
	DefaultCenterLat = -2.5489
	DefaultCenterLon = 118.0149
)

// Store is the read surface the travel map aggregates over.
type Store interface {
	Located(ctx context.Context) ([]models.EntryModel, error)
}

type Point struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Marker is one visited place on the map.
type Marker struct {
	ID           uint    `json:"id"`
	Title        string  `json:"title"`
	LocationName string  `json:"locationName"`
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
	Date         int64   `json:"date"`
}

// Map is the aggregated travel view: every located entry as a marker, and a
// center to open the camera on.
type Map struct {
	Center  Point    `json:"center"`
	Markers []Marker `json:"markers"`
}

type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// Build aggregates all located entries. The center follows the newest
// marker; with no markers it falls back to the default center.
func (s *Service) Build(ctx context.Context) (*Map, error) {
	entries, err := s.store.Located(ctx)
	if err != nil {
		return nil, err
	}

	markers := make([]Marker, 0, len(entries))
	for _, e := range entries {
		if !e.HasCoordinates() {
			continue
		}
		markers = append(markers, Marker{
			ID:           e.ID,
			Title:        e.Title,
			LocationName: e.LocationName,
			Latitude:     *e.Latitude,
			Longitude:    *e.Longitude,
			Date:         e.CreatedAt,
		})
	}

	center := Point{Latitude: DefaultCenterLat, Longitude: DefaultCenterLon}
	if len(markers) > 0 {
		// entries arrive newest first
		center = Point{Latitude: markers[0].Latitude, Longitude: markers[0].Longitude}
	}

	return &Map{Center: center, Markers: markers}, nil
}
