package entry

import (
	"context"
	"errors"
	"time"

	"github.com/geojournal/core/internal/models"
	"github.com/geojournal/core/internal/pkg/events"
	"github.com/geojournal/core/internal/pkg/pagination"
	"github.com/geojournal/core/internal/pkg/response"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Service is the journal entry store. Every successful write publishes a
// change notification on the bus, which is how live readers (the pipeline,
// the gateway) learn to re-query.
type Service struct {
	db  *gorm.DB
	bus *events.Bus
}

func NewService(db *gorm.DB, bus *events.Bus) *Service {
	return &Service{db: db, bus: bus}
}

// Bus exposes the change notification bus for live readers.
func (s *Service) Bus() *events.Bus { return s.bus }

// InsertOrReplace writes the entry. A zero ID allocates a new row; a
// non-zero ID fully replaces the existing row with that id (or inserts it
// when absent). CreatedAt defaults to the write time.
func (s *Service) InsertOrReplace(ctx context.Context, e *models.EntryModel) error {
	if e.CreatedAt == 0 {
		e.CreatedAt = time.Now().UnixMilli()
	}

	isNew := e.ID == 0
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(e).Error
	if err != nil {
		return err
	}

	name := events.EntryUpdated
	if isNew {
		name = events.EntryCreated
	}
	s.bus.Publish(events.Event{Name: name, EntryID: e.ID})
	return nil
}

// Delete removes the row with the given id. Deleting an id that does not
// exist affects zero rows and returns success.
func (s *Service) Delete(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&models.EntryModel{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		s.bus.Publish(events.Event{Name: events.EntryDeleted, EntryID: id})
	}
	return nil
}

// GetByID returns the matching entry, or (nil, nil) when not found.
func (s *Service) GetByID(ctx context.Context, id uint) (*models.EntryModel, error) {
	var e models.EntryModel
	if err := s.db.WithContext(ctx).First(&e, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &e, nil
}

// All returns every entry ordered by created_at descending.
func (s *Service) All(ctx context.Context) ([]models.EntryModel, error) {
	var entries []models.EntryModel
	err := s.db.WithContext(ctx).
		Order("created_at DESC, id DESC").
		Find(&entries).Error
	return entries, err
}

// Search returns entries whose title or description contains the substring,
// ordered by created_at descending. Matching is case-insensitive.
func (s *Service) Search(ctx context.Context, q string) ([]models.EntryModel, error) {
	like := "%" + q + "%"
	var entries []models.EntryModel
	err := s.db.WithContext(ctx).
		Where("LOWER(title) LIKE LOWER(?) OR LOWER(description) LIKE LOWER(?)", like, like).
		Order("created_at DESC, id DESC").
		Find(&entries).Error
	return entries, err
}

// List returns a page of entries, optionally filtered by the search substring.
func (s *Service) List(q pagination.Query, search string) ([]models.EntryModel, response.Pagination, error) {
	tx := s.db.Model(&models.EntryModel{}).
		Order("created_at DESC, id DESC")
	if search != "" {
		like := "%" + search + "%"
		tx = tx.Where("LOWER(title) LIKE LOWER(?) OR LOWER(description) LIKE LOWER(?)", like, like)
	}

	var entries []models.EntryModel
	pag, err := pagination.Paginate(tx, q, &entries)
	return entries, pag, err
}

// Located returns entries carrying a coordinate pair, newest first.
func (s *Service) Located(ctx context.Context) ([]models.EntryModel, error) {
	var entries []models.EntryModel
	err := s.db.WithContext(ctx).
		Where("latitude IS NOT NULL AND longitude IS NOT NULL").
		Order("created_at DESC, id DESC").
		Find(&entries).Error
	return entries, err
}

// Count returns the total number of stored entries.
func (s *Service) Count(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.EntryModel{}).Count(&n).Error
	return n, err
}

// PhotoPaths returns the set of photo paths referenced by any entry, used
// by the orphan photo sweep.
func (s *Service) PhotoPaths(ctx context.Context) (map[string]struct{}, error) {
	var paths []string
	err := s.db.WithContext(ctx).Model(&models.EntryModel{}).
		Where("photo_path <> ''").
		Pluck("photo_path", &paths).Error
	if err != nil {
		return nil, err
	}
	set := make(map[string]struct{}, len(paths))
	for _, p := range paths {
		set[p] = struct{}{}
	}
	return set, nil
}
