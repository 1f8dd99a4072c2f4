package backup

import (
	"archive/zip"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	appcfg "github.com/geojournal/core/internal/config"
	"github.com/geojournal/core/internal/models"
	"github.com/geojournal/core/internal/pkg/taskqueue"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	archiveRootDir   = "geojournal"
	archiveDBDir     = archiveRootDir + "/db"
	archiveManifest  = archiveRootDir + "/manifest.json"
	archiveFormat    = "geojournal-json"
	archiveFormatVer = 1
	taskTypeExport   = "backup_export"
)

type manifest struct {
	Format    string    `json:"format"`
	Version   int       `json:"version"`
	CreatedAt time.Time `json:"createdAt"`
	Entries   int       `json:"entries"`
	Users     int       `json:"users"`
}

// Service exports the journal database into zip archives and manages the
// archive directory. Exports run in the background through the task queue.
type Service struct {
	db    *gorm.DB
	dir   string
	s3cfg appcfg.S3Config
	tasks *taskqueue.Service
	log   *zap.Logger
}

func NewService(db *gorm.DB, dir string, s3cfg appcfg.S3Config, tasks *taskqueue.Service, log *zap.Logger) *Service {
	return &Service{db: db, dir: dir, s3cfg: s3cfg, tasks: tasks, log: log}
}

// Export writes a full archive to the backup directory and returns its file
// name. When S3 is configured the archive is mirrored to the bucket.
func (s *Service) Export(ctx context.Context) (string, error) {
	var entries []models.EntryModel
	if err := s.db.WithContext(ctx).Order("id ASC").Find(&entries).Error; err != nil {
		return "", err
	}
	var users []models.UserModel
	if err := s.db.WithContext(ctx).Find(&users).Error; err != nil {
		return "", err
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", err
	}

	name := fmt.Sprintf("backup-%s.zip", time.Now().Format("20060102-150405"))
	path := filepath.Join(s.dir, name)
	if err := s.writeArchive(path, entries, users); err != nil {
		os.Remove(path)
		return "", err
	}

	if s.s3cfg.Enable {
		if err := s.mirrorToS3(ctx, path, name); err != nil {
			// the local archive is already good; S3 is best effort
			s.log.Warn("backup s3 mirror failed", zap.String("name", name), zap.Error(err))
		}
	}
	return name, nil
}

func (s *Service) writeArchive(path string, entries []models.EntryModel, users []models.UserModel) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	zw := zip.NewWriter(f)

	writeJSON := func(name string, v interface{}) error {
		w, err := zw.Create(name)
		if err != nil {
			return err
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}

	m := manifest{
		Format:    archiveFormat,
		Version:   archiveFormatVer,
		CreatedAt: time.Now().UTC(),
		Entries:   len(entries),
		Users:     len(users),
	}
	if err := writeJSON(archiveManifest, m); err != nil {
		zw.Close()
		return err
	}
	if err := writeJSON(archiveDBDir+"/journal_entries.json", entries); err != nil {
		zw.Close()
		return err
	}
	if err := writeJSON(archiveDBDir+"/users.json", users); err != nil {
		zw.Close()
		return err
	}
	if err := zw.Close(); err != nil {
		return err
	}
	return f.Sync()
}

func (s *Service) mirrorToS3(ctx context.Context, path, name string) error {
	uploader, err := NewS3Uploader(s.s3cfg)
	if err != nil {
		return err
	}
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		return err
	}
	key, err := uploader.Upload(ctx, name, f, info.Size())
	if err != nil {
		return err
	}
	s.log.Info("backup mirrored to s3", zap.String("key", key))
	return nil
}

// ExportAsync registers an export task and runs it in the background.
// Clients poll the returned task id.
func (s *Service) ExportAsync(ctx context.Context) (*taskqueue.Task, error) {
	task, err := s.tasks.Enqueue(ctx, taskTypeExport, nil)
	if err != nil {
		return nil, err
	}

	go func() {
		bg, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()

		_ = s.tasks.UpdateStatus(bg, task.ID, taskqueue.TaskRunning, nil, "")
		name, err := s.Export(bg)
		if err != nil {
			s.log.Error("backup export failed", zap.String("task", task.ID), zap.Error(err))
			_ = s.tasks.UpdateStatus(bg, task.ID, taskqueue.TaskFailed, nil, err.Error())
			return
		}
		_ = s.tasks.UpdateStatus(bg, task.ID, taskqueue.TaskCompleted, map[string]string{"name": name}, "")
	}()

	return task, nil
}

// Archive describes one stored backup file.
type Archive struct {
	Name      string    `json:"name"`
	SizeBytes int64     `json:"sizeBytes"`
	CreatedAt time.Time `json:"createdAt"`
}

// List returns stored archives, newest first.
func (s *Service) List() ([]Archive, error) {
	dirents, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []Archive{}, nil
		}
		return nil, err
	}

	archives := make([]Archive, 0, len(dirents))
	for _, ent := range dirents {
		if ent.IsDir() || !strings.HasSuffix(ent.Name(), ".zip") {
			continue
		}
		info, err := ent.Info()
		if err != nil {
			continue
		}
		archives = append(archives, Archive{
			Name:      ent.Name(),
			SizeBytes: info.Size(),
			CreatedAt: info.ModTime(),
		})
	}
	sort.Slice(archives, func(i, j int) bool {
		return archives[i].CreatedAt.After(archives[j].CreatedAt)
	})
	return archives, nil
}

// Path resolves an archive name to its on-disk path, rejecting traversal.
func (s *Service) Path(name string) (string, bool) {
	if name == "" || name != filepath.Base(name) || !strings.HasSuffix(name, ".zip") {
		return "", false
	}
	path := filepath.Join(s.dir, name)
	if _, err := os.Stat(path); err != nil {
		return "", false
	}
	return path, true
}

// Delete removes a stored archive.
func (s *Service) Delete(name string) error {
	path, ok := s.Path(name)
	if !ok {
		return fmt.Errorf("backup %q not found", name)
	}
	return os.Remove(path)
}
