package travelmap

import (
	"github.com/geojournal/core/internal/pkg/response"
	"github.com/gin-gonic/gin"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	journal := rg.Group("/journal")

	journal.GET("/map", h.travelMap)
}

func (h *Handler) travelMap(c *gin.Context) {
	m, err := h.svc.Build(c.Request.Context())
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, m)
}
