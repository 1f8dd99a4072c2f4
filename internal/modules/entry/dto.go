package entry

import (
	"github.com/geojournal/core/internal/models"
)

type entryResponse struct {
	ID           uint     `json:"id"`
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	PhotoPath    string   `json:"photoPath"`
	Latitude     *float64 `json:"latitude"`
	Longitude    *float64 `json:"longitude"`
	LocationName string   `json:"locationName"`
	Date         int64    `json:"date"`
}

func toResponse(e *models.EntryModel) entryResponse {
	return entryResponse{
		ID:           e.ID,
		Title:        e.Title,
		Description:  e.Description,
		PhotoPath:    e.PhotoPath,
		Latitude:     e.Latitude,
		Longitude:    e.Longitude,
		LocationName: e.LocationName,
		Date:         e.CreatedAt,
	}
}

func toResponses(entries []models.EntryModel) []entryResponse {
	out := make([]entryResponse, len(entries))
	for i, e := range entries {
		out[i] = toResponse(&e)
	}
	return out
}
