package pipeline

import (
	"testing"
	"time"

	"github.com/geojournal/core/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestTotalWords(t *testing.T) {
	tests := []struct {
		name         string
		descriptions []string
		want         int
	}{
		{"no entries", nil, 0},
		{"blank description", []string{""}, 0},
		{"whitespace only", []string{"   \t  "}, 0},
		{"padded words", []string{"  hello   world  "}, 2},
		{"summed across entries", []string{"one", "two three", ""}, 3},
		{"newlines separate words", []string{"first line\nsecond line"}, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entries := make([]models.EntryModel, len(tt.descriptions))
			for i, d := range tt.descriptions {
				entries[i].Description = d
			}
			assert.Equal(t, tt.want, TotalWords(entries))
		})
	}
}

func TestDistinctDays(t *testing.T) {
	day := func(y int, m time.Month, d, hour int) int64 {
		return time.Date(y, m, d, hour, 0, 0, 0, time.Local).UnixMilli()
	}

	tests := []struct {
		name   string
		stamps []int64
		want   int
	}{
		{"no entries", nil, 0},
		{"single entry", []int64{day(2024, time.March, 5, 9)}, 1},
		{
			"same day morning and evening",
			[]int64{day(2024, time.March, 5, 9), day(2024, time.March, 5, 22)},
			1,
		},
		{
			"consecutive days",
			[]int64{day(2024, time.March, 5, 23), day(2024, time.March, 6, 1)},
			2,
		},
		{
			"same calendar date across months counts twice",
			[]int64{day(2024, time.March, 5, 12), day(2024, time.April, 5, 12)},
			2,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entries := make([]models.EntryModel, len(tt.stamps))
			for i, ts := range tt.stamps {
				entries[i].CreatedAt = ts
			}
			assert.Equal(t, tt.want, DistinctDays(entries))
		})
	}
}
