package models

// Location name sentinels stored on entries without a usable geocode result.
const (
	LocationUnknown = "Unknown Location"
	LocationNone    = "No Location"
)

// EntryModel is a single journal entry.
// The integer ID is allocated by the database on first insert; writing a
// non-zero ID fully replaces that row.
type EntryModel struct {
	ID           uint     `json:"id"            gorm:"primaryKey;autoIncrement"`
	Title        string   `json:"title"`
	Description  string   `json:"description"   gorm:"type:longtext"`
	PhotoPath    string   `json:"photo_path"`
	Latitude     *float64 `json:"latitude,omitempty"`
	Longitude    *float64 `json:"longitude,omitempty"`
	LocationName string   `json:"location_name"`
	CreatedAt    int64    `json:"created"       gorm:"autoCreateTime:milli;index"` // epoch milliseconds
}

func (EntryModel) TableName() string { return "journal_entries" }

// HasCoordinates reports whether the entry carries a complete coordinate pair.
// Latitude and Longitude are jointly nil or jointly set; display logic checks
// coordinates, never the location name.
func (e *EntryModel) HasCoordinates() bool {
	return e.Latitude != nil && e.Longitude != nil
}

// HasPhoto reports whether the entry references a persisted photo file.
func (e *EntryModel) HasPhoto() bool { return e.PhotoPath != "" }
