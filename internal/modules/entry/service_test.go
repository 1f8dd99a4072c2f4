package entry

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/geojournal/core/internal/models"
	"github.com/geojournal/core/internal/pkg/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "entries.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.EntryModel{}))
	return NewService(db, events.NewBus())
}

func ptr(v float64) *float64 { return &v }

func TestInsertAssignsID(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	e := &models.EntryModel{Title: "first", Description: "hello"}
	require.NoError(t, svc.InsertOrReplace(ctx, e))
	assert.NotZero(t, e.ID)
	assert.NotZero(t, e.CreatedAt)

	got, err := svc.GetByID(ctx, e.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "first", got.Title)
}

func TestInsertOrReplaceUpserts(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	e := &models.EntryModel{Title: "before", Description: "old text", CreatedAt: 1000}
	require.NoError(t, svc.InsertOrReplace(ctx, e))

	replacement := &models.EntryModel{
		ID:           e.ID,
		Title:        "after",
		Description:  "new text",
		LocationName: models.LocationNone,
		CreatedAt:    2000,
	}
	require.NoError(t, svc.InsertOrReplace(ctx, replacement))

	n, err := svc.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	got, err := svc.GetByID(ctx, e.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "after", got.Title)
	assert.Equal(t, "new text", got.Description)
	assert.EqualValues(t, 2000, got.CreatedAt)
}

func TestDeleteMissingIsNoop(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	assert.NoError(t, svc.Delete(ctx, 9999))
}

func TestDeleteRemovesRow(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	e := &models.EntryModel{Title: "gone soon"}
	require.NoError(t, svc.InsertOrReplace(ctx, e))
	require.NoError(t, svc.Delete(ctx, e.ID))

	got, err := svc.GetByID(ctx, e.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestGetByIDMissing(t *testing.T) {
	svc := newTestService(t)

	got, err := svc.GetByID(context.Background(), 42)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestAllNewestFirst(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.InsertOrReplace(ctx, &models.EntryModel{Title: "oldest", CreatedAt: 1000}))
	require.NoError(t, svc.InsertOrReplace(ctx, &models.EntryModel{Title: "newest", CreatedAt: 3000}))
	require.NoError(t, svc.InsertOrReplace(ctx, &models.EntryModel{Title: "middle", CreatedAt: 2000}))

	all, err := svc.All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "newest", all[0].Title)
	assert.Equal(t, "middle", all[1].Title)
	assert.Equal(t, "oldest", all[2].Title)
}

func TestSearch(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.InsertOrReplace(ctx, &models.EntryModel{
		Title: "Morning hike", Description: "fog on the trail", CreatedAt: 1000,
	}))
	require.NoError(t, svc.InsertOrReplace(ctx, &models.EntryModel{
		Title: "Harbor walk", Description: "watched the boats", CreatedAt: 2000,
	}))

	tests := []struct {
		name   string
		query  string
		titles []string
	}{
		{"matches title", "hike", []string{"Morning hike"}},
		{"matches description only", "boats", []string{"Harbor walk"}},
		{"case insensitive", "MORNING", []string{"Morning hike"}},
		{"substring across both, newest first", "a", []string{"Harbor walk", "Morning hike"}},
		{"no match", "desert", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.Search(ctx, tt.query)
			require.NoError(t, err)
			titles := make([]string, 0, len(got))
			for _, e := range got {
				titles = append(titles, e.Title)
			}
			if tt.titles == nil {
				assert.Empty(t, titles)
			} else {
				assert.Equal(t, tt.titles, titles)
			}
		})
	}
}

func TestWritesPublishEvents(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	_, ch := svc.Bus().Subscribe(8)

	e := &models.EntryModel{Title: "tracked"}
	require.NoError(t, svc.InsertOrReplace(ctx, e))
	require.NoError(t, svc.InsertOrReplace(ctx, e))
	require.NoError(t, svc.Delete(ctx, e.ID))
	// deleting again affects no rows and must stay silent
	require.NoError(t, svc.Delete(ctx, e.ID))

	names := []string{(<-ch).Name, (<-ch).Name, (<-ch).Name}
	assert.Equal(t, []string{events.EntryCreated, events.EntryUpdated, events.EntryDeleted}, names)
	assert.Empty(t, ch)
}

func TestLocatedFiltersCoordinates(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.InsertOrReplace(ctx, &models.EntryModel{
		Title: "placed", Latitude: ptr(-6.2), Longitude: ptr(106.8), CreatedAt: 2000,
	}))
	require.NoError(t, svc.InsertOrReplace(ctx, &models.EntryModel{
		Title: "nowhere", CreatedAt: 1000,
	}))

	located, err := svc.Located(ctx)
	require.NoError(t, err)
	require.Len(t, located, 1)
	assert.Equal(t, "placed", located[0].Title)
}

func TestPhotoPaths(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.InsertOrReplace(ctx, &models.EntryModel{Title: "a", PhotoPath: "journal_1.jpg"}))
	require.NoError(t, svc.InsertOrReplace(ctx, &models.EntryModel{Title: "b"}))

	paths, err := svc.PhotoPaths(ctx)
	require.NoError(t, err)
	assert.Len(t, paths, 1)
	_, ok := paths["journal_1.jpg"]
	assert.True(t, ok)
}
