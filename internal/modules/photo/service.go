package photo

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
)

// filePrefix is the naming scheme for ingested photos: journal_<unix-ms>.<ext>.
const filePrefix = "journal_"

// orphanMinAge guards the sweep against deleting photos that were uploaded
// but whose entry has not been saved yet.
const orphanMinAge = time.Hour

var allowedExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
	".heic": true,
}

// Service copies uploaded photos into the photo directory and sweeps files
// no entry references anymore.
type Service struct {
	dir string
	log *zap.Logger
}

func NewService(dir string, log *zap.Logger) *Service {
	return &Service{dir: dir, log: log}
}

// Ingest stores one multipart upload and returns the assigned file name.
func (s *Service) Ingest(fh *multipart.FileHeader) (string, error) {
	src, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()
	return s.SaveFrom(src, fh.Filename)
}

// SaveFrom copies the photo bytes into the photo directory under a
// timestamped name derived from the original extension.
func (s *Service) SaveFrom(r io.Reader, originalName string) (string, error) {
	ext := strings.ToLower(filepath.Ext(originalName))
	if ext == "" {
		ext = ".jpg"
	}
	if !allowedExts[ext] {
		return "", fmt.Errorf("unsupported photo format %q", ext)
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", err
	}

	// the millisecond timestamp makes collisions rare; bump until free
	ms := time.Now().UnixMilli()
	for {
		name := fmt.Sprintf("%s%d%s", filePrefix, ms, ext)
		dst, err := os.OpenFile(filepath.Join(s.dir, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if err != nil {
			if os.IsExist(err) {
				ms++
				continue
			}
			return "", err
		}

		if _, err := io.Copy(dst, r); err != nil {
			dst.Close()
			os.Remove(dst.Name())
			return "", err
		}
		if err := dst.Close(); err != nil {
			return "", err
		}
		return name, nil
	}
}

// Path resolves a stored photo name to its on-disk path. Returns false for
// names that try to escape the photo directory.
func (s *Service) Path(name string) (string, bool) {
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		return "", false
	}
	return filepath.Join(s.dir, name), true
}

// Remove deletes a stored photo. Missing files are a no-op.
func (s *Service) Remove(name string) error {
	path, ok := s.Path(name)
	if !ok {
		return fmt.Errorf("invalid photo name %q", name)
	}
	err := os.Remove(path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// SweepOrphans removes ingested photos no entry references. Only files
// older than orphanMinAge are considered, so an upload still waiting for
// its entry save survives the sweep.
func (s *Service) SweepOrphans(ctx context.Context, referenced map[string]struct{}) (int, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, err
	}

	removed := 0
	for _, ent := range entries {
		if ctx.Err() != nil {
			return removed, ctx.Err()
		}
		if ent.IsDir() || !strings.HasPrefix(ent.Name(), filePrefix) {
			continue
		}
		if _, ok := referenced[ent.Name()]; ok {
			continue
		}
		info, err := ent.Info()
		if err != nil {
			continue
		}
		if time.Since(info.ModTime()) < orphanMinAge {
			continue
		}
		if err := os.Remove(filepath.Join(s.dir, ent.Name())); err != nil {
			s.log.Warn("failed to remove orphan photo", zap.String("name", ent.Name()), zap.Error(err))
			continue
		}
		removed++
	}
	return removed, nil
}
