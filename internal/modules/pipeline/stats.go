package pipeline

import (
	"strings"
	"time"

	"github.com/geojournal/core/internal/models"
)

// TotalWords sums the whitespace-separated word counts of all entry
// descriptions. Blank descriptions contribute zero.
func TotalWords(entries []models.EntryModel) int {
	total := 0
	for _, e := range entries {
		total += len(strings.Fields(e.Description))
	}
	return total
}

// DistinctDays counts the number of distinct calendar days, in server local
// time, on which entries were written.
func DistinctDays(entries []models.EntryModel) int {
	days := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		days[dayKey(e.CreatedAt)] = struct{}{}
	}
	return len(days)
}

func dayKey(unixMilli int64) string {
	return time.UnixMilli(unixMilli).Format("20060102")
}
