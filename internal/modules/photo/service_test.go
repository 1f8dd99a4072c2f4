package photo

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestSaveFromNamesByTimestamp(t *testing.T) {
	svc := NewService(t.TempDir(), zap.NewNop())

	name, err := svc.SaveFrom(strings.NewReader("jpeg bytes"), "IMG_2041.JPG")
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^journal_\d+\.jpg$`), name)

	path, ok := svc.Path(name)
	require.True(t, ok)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "jpeg bytes", string(data))
}

func TestSaveFromDefaultsExtension(t *testing.T) {
	svc := NewService(t.TempDir(), zap.NewNop())

	name, err := svc.SaveFrom(strings.NewReader("x"), "capture")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(name, ".jpg"))
}

func TestSaveFromRejectsUnknownFormat(t *testing.T) {
	svc := NewService(t.TempDir(), zap.NewNop())

	_, err := svc.SaveFrom(strings.NewReader("#!/bin/sh"), "payload.sh")
	assert.Error(t, err)
}

func TestSaveFromAvoidsCollisions(t *testing.T) {
	svc := NewService(t.TempDir(), zap.NewNop())

	a, err := svc.SaveFrom(strings.NewReader("one"), "a.png")
	require.NoError(t, err)
	b, err := svc.SaveFrom(strings.NewReader("two"), "b.png")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestPathRejectsTraversal(t *testing.T) {
	svc := NewService(t.TempDir(), zap.NewNop())

	for _, name := range []string{"", "..", "../secret", "a/b.jpg", ".hidden"} {
		_, ok := svc.Path(name)
		assert.False(t, ok, "name %q must be rejected", name)
	}
}

func TestRemoveMissingIsNoop(t *testing.T) {
	svc := NewService(t.TempDir(), zap.NewNop())

	assert.NoError(t, svc.Remove("journal_1.jpg"))
}

func TestSweepOrphans(t *testing.T) {
	dir := t.TempDir()
	svc := NewService(dir, zap.NewNop())

	old := time.Now().Add(-2 * time.Hour)
	writeAged := func(name string) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644))
		require.NoError(t, os.Chtimes(filepath.Join(dir, name), old, old))
	}

	writeAged("journal_1.jpg") // referenced, must survive
	writeAged("journal_2.jpg") // orphan, must go
	writeAged("unrelated.txt") // not ours, must survive
	require.NoError(t, os.WriteFile(filepath.Join(dir, "journal_3.jpg"), []byte("x"), 0o644)) // fresh upload

	referenced := map[string]struct{}{"journal_1.jpg": {}}
	removed, err := svc.SweepOrphans(context.Background(), referenced)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	assert.FileExists(t, filepath.Join(dir, "journal_1.jpg"))
	assert.NoFileExists(t, filepath.Join(dir, "journal_2.jpg"))
	assert.FileExists(t, filepath.Join(dir, "unrelated.txt"))
	assert.FileExists(t, filepath.Join(dir, "journal_3.jpg"))
}

func TestSweepMissingDirIsNoop(t *testing.T) {
	svc := NewService(filepath.Join(t.TempDir(), "never-created"), zap.NewNop())

	removed, err := svc.SweepOrphans(context.Background(), nil)
	require.NoError(t, err)
	assert.Zero(t, removed)
}
