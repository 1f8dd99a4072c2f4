package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/geojournal/core/internal/config"
	"github.com/geojournal/core/internal/database"
	"github.com/geojournal/core/internal/middleware"
	"github.com/geojournal/core/internal/modules/auth"
	"github.com/geojournal/core/internal/modules/backup"
	"github.com/geojournal/core/internal/modules/editor"
	"github.com/geojournal/core/internal/modules/entry"
	"github.com/geojournal/core/internal/modules/gateway"
	"github.com/geojournal/core/internal/modules/geocode"
	"github.com/geojournal/core/internal/modules/photo"
	"github.com/geojournal/core/internal/modules/pipeline"
	"github.com/geojournal/core/internal/modules/travelmap"
	pkgcron "github.com/geojournal/core/internal/pkg/cron"
	"github.com/geojournal/core/internal/pkg/events"
	pkgredis "github.com/geojournal/core/internal/pkg/redis"
	"github.com/geojournal/core/internal/pkg/taskqueue"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// App holds all application dependencies.
type App struct {
	cfg    *config.AppConfig
	router *gin.Engine
	db     *gorm.DB
	hub    *gateway.Hub
	pipe   *pipeline.Pipeline
	logger *zap.Logger
	cancel context.CancelFunc
	sched  *pkgcron.Scheduler

	entrySvc  *entry.Service
	editorSvc *editor.Service
	photoSvc  *photo.Service
	travelSvc *travelmap.Service
	authSvc   *auth.Service
	backupSvc *backup.Service
}

// New wires the application: config → DB → Redis → services → routes.
func New(logger *zap.Logger, cfg *config.AppConfig) (*App, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	applyRuntimeSettings(cfg, logger)

	db, err := database.Connect(cfg, true)
	if err != nil {
		return nil, fmt.Errorf("database: %w", err)
	}

	rc, err := pkgredis.Connect(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("redis: %w", err)
	}

	if cfg.IsDev() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.HandleMethodNotAllowed = true
	router.Use(gin.Recovery())
	router.Use(middleware.Logger(logger))
	router.Use(cors.New(corsConfig(cfg)))

	bus := events.NewBus()
	entrySvc := entry.NewService(db, bus)
	pipe := pipeline.New(entrySvc, bus, cfg.PipelineGrace(), logger)
	geoSvc := geocode.NewService(cfg.Geocoder.Endpoint, cfg.Geocoder.UserAgent, rc, cfg.GeocodeCacheTTL(), logger)
	editorSvc := editor.NewService(entrySvc, geoSvc, cfg.GeocodeTimeout(), logger)
	photoSvc := photo.NewService(cfg.PhotoDir(), logger)
	travelSvc := travelmap.NewService(entrySvc)
	tasks := taskqueue.NewService(rc)
	backupSvc := backup.NewService(db, cfg.BackupDir(), cfg.S3, tasks, logger)

	authSvc := auth.NewService(db, logger)
	if err := authSvc.EnsureOwner(cfg.Owner.Username, cfg.Owner.Password); err != nil {
		return nil, fmt.Errorf("owner bootstrap: %w", err)
	}

	hub := gateway.NewHub(rc, pipe, logger)
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx, bus)

	sched := pkgcron.New()

	app := &App{
		cfg:       cfg,
		router:    router,
		db:        db,
		hub:       hub,
		pipe:      pipe,
		logger:    logger,
		cancel:    cancel,
		sched:     sched,
		entrySvc:  entrySvc,
		editorSvc: editorSvc,
		photoSvc:  photoSvc,
		travelSvc: travelSvc,
		authSvc:   authSvc,
		backupSvc: backupSvc,
	}
	app.registerCronJobs()
	go sched.Start(ctx)
	app.registerRoutes(rc)

	return app, nil
}

func corsConfig(cfg *config.AppConfig) cors.Config {
	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}
	if len(cfg.AllowedOrigins) > 0 && !cfg.IsDev() {
		patterns := cfg.AllowedOrigins
		corsCfg.AllowOriginFunc = func(origin string) bool {
			host := extractOriginHost(origin)
			for _, pattern := range patterns {
				if matchOriginPattern(pattern, host) {
					return true
				}
			}
			return false
		}
	} else {
		corsCfg.AllowOriginFunc = func(origin string) bool { return true }
	}
	return corsCfg
}

// Addr returns the listen address.
func (a *App) Addr() string { return fmt.Sprintf(":%d", a.cfg.Port) }

// Router returns the HTTP handler.
func (a *App) Router() http.Handler { return a.router }

// Shutdown cleans up background goroutines.
func (a *App) Shutdown() { a.cancel() }
