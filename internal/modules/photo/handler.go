package photo

import (
	"os"

	"github.com/geojournal/core/internal/pkg/response"
	"github.com/gin-gonic/gin"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	photos := rg.Group("/photos")

	photos.POST("", authMW, h.upload)
	photos.GET("/:name", h.get)
	photos.DELETE("/:name", authMW, h.delete)
}

func (h *Handler) upload(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "file is required")
		return
	}

	name, err := h.svc.Ingest(fh)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	response.Created(c, gin.H{
		"name": name,
		"url":  "/api/v1/photos/" + name,
	})
}

func (h *Handler) get(c *gin.Context) {
	path, ok := h.svc.Path(c.Param("name"))
	if !ok {
		response.NotFound(c)
		return
	}
	if _, err := os.Stat(path); err != nil {
		response.NotFound(c)
		return
	}

	// ingested names are timestamped and never reused
	c.Header("Cache-Control", "public, max-age=31536000, immutable")
	c.File(path)
}

func (h *Handler) delete(c *gin.Context) {
	if err := h.svc.Remove(c.Param("name")); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	response.NoContent(c)
}
