package app

import (
	"context"
	"fmt"
	"time"

	pkgcron "github.com/geojournal/core/internal/pkg/cron"
	"go.uber.org/zap"
)

// registerCronJobs registers all scheduled background jobs.
func (a *App) registerCronJobs() {
	cronLogger := a.logger.Named("cron")

	a.sched.Register(pkgcron.Job{
		Name:        "sweep_orphan_photos",
		Description: "remove ingested photos no entry references",
		Interval:    24 * time.Hour,
		Fn: func(ctx context.Context) error {
			referenced, err := a.entrySvc.PhotoPaths(ctx)
			if err != nil {
				return err
			}
			removed, err := a.photoSvc.SweepOrphans(ctx, referenced)
			if err != nil {
				cronLogger.Warn("orphan photo sweep failed", zap.Error(err))
				return err
			}
			cronLogger.Info(fmt.Sprintf("orphan photo sweep removed %d files", removed))
			return nil
		},
	})

	a.sched.Register(pkgcron.Job{
		Name:        "auto_backup",
		Description: "export the journal database to the backup directory",
		Interval:    24 * time.Hour,
		Fn: func(ctx context.Context) error {
			name, err := a.backupSvc.Export(ctx)
			if err != nil {
				cronLogger.Warn("scheduled backup failed", zap.Error(err))
				return err
			}
			cronLogger.Info("scheduled backup written", zap.String("name", name))
			return nil
		},
	})
}
