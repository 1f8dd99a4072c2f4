package travelmap

import (
	"context"
	"testing"

	"github.com/geojournal/core/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	entries []models.EntryModel
}

func (f *fakeStore) Located(context.Context) ([]models.EntryModel, error) {
	return f.entries, nil
}

func ptr(v float64) *float64 { return &v }

func TestBuildEmptyFallsBackToDefaultCenter(t *testing.T) {
	svc := NewService(&fakeStore{})

	m, err := svc.Build(context.Background())
	require.NoError(t, err)
	assert.Empty(t, m.Markers)
	assert.Equal(t, DefaultCenterLat, m.Center.Latitude)
	assert.Equal(t, DefaultCenterLon, m.Center.Longitude)
}

func TestBuildCentersOnNewestMarker(t *testing.T) {
	svc := NewService(&fakeStore{entries: []models.EntryModel{
		{ID: 2, Title: "Bali beach", LocationName: "Bali",
			Latitude: ptr(-8.65), Longitude: ptr(115.14), CreatedAt: 2000},
		{ID: 1, Title: "Jakarta arrival", LocationName: "Jakarta",
			Latitude: ptr(-6.21), Longitude: ptr(106.85), CreatedAt: 1000},
	}})

	m, err := svc.Build(context.Background())
	require.NoError(t, err)
	require.Len(t, m.Markers, 2)
	assert.Equal(t, -8.65, m.Center.Latitude)
	assert.Equal(t, 115.14, m.Center.Longitude)
	assert.Equal(t, "Bali beach", m.Markers[0].Title)
}
