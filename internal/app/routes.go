package app

import (
	"net/http"
	"time"

	"github.com/geojournal/core/internal/middleware"
	"github.com/geojournal/core/internal/modules/auth"
	"github.com/geojournal/core/internal/modules/backup"
	"github.com/geojournal/core/internal/modules/editor"
	"github.com/geojournal/core/internal/modules/entry"
	"github.com/geojournal/core/internal/modules/gateway"
	"github.com/geojournal/core/internal/modules/photo"
	"github.com/geojournal/core/internal/modules/pipeline"
	"github.com/geojournal/core/internal/modules/render"
	"github.com/geojournal/core/internal/modules/travelmap"
	pkgredis "github.com/geojournal/core/internal/pkg/redis"
	"github.com/geojournal/core/internal/pkg/response"
	"github.com/gin-gonic/gin"
)

const apiPrefix = "/api/v1"

func (a *App) registerRoutes(rc *pkgredis.Client) {
	r := a.router
	authMW := middleware.Auth()

	r.NoRoute(func(c *gin.Context) {
		response.NotFound(c)
	})
	r.NoMethod(func(c *gin.Context) {
		response.MethodNotAllowed(c)
	})

	appInfo := gin.H{
		"name":    "geojournal-core",
		"version": "1.0.0",
	}

	// WebSocket gateway and the standalone reading view live at the root.
	root := r.Group("")
	gateway.RegisterRoutes(root, a.hub)
	render.NewHandler(a.entrySvc).RegisterRoutes(root, authMW)

	api := r.Group(apiPrefix)
	api.Use(middleware.OptionalAuth())
	api.Use(middleware.RateLimit(rc.Raw()))

	api.GET("", func(c *gin.Context) { c.PureJSON(http.StatusOK, appInfo) })
	api.GET("/info", func(c *gin.Context) { c.PureJSON(http.StatusOK, appInfo) })
	api.GET("/ping", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"data": "pong"}) })
	api.GET("/uptime", func(c *gin.Context) {
		uptimeMs := time.Since(processStart).Milliseconds()
		c.JSON(http.StatusOK, gin.H{
			"timestamp": uptimeMs,
			"humanize":  humanizeDuration(time.Duration(uptimeMs) * time.Millisecond),
		})
	})

	// Auth
	auth.NewHandler(a.authSvc).RegisterRoutes(api, authMW)

	// Journal
	entry.NewHandler(a.entrySvc).RegisterRoutes(api)
	editor.NewHandler(a.editorSvc).RegisterRoutes(api, authMW)
	pipeline.NewHandler(a.pipe).RegisterRoutes(api)
	travelmap.NewHandler(a.travelSvc).RegisterRoutes(api)

	// Media
	photo.NewHandler(a.photoSvc).RegisterRoutes(api, authMW)

	// Backups
	backup.NewHandler(a.backupSvc).RegisterRoutes(api, authMW)

	// Scheduled job management
	jobs := api.Group("/jobs", authMW)
	jobs.GET("", func(c *gin.Context) {
		response.OK(c, a.sched.List())
	})
	jobs.POST("/:name/run", func(c *gin.Context) {
		if err := a.sched.Run(c.Request.Context(), c.Param("name")); err != nil {
			response.NotFoundMsg(c, err.Error())
			return
		}
		response.OK(c, gin.H{"ok": true})
	})
}
