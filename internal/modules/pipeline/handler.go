package pipeline

import (
	"github.com/geojournal/core/internal/pkg/response"
	"github.com/gin-gonic/gin"
)

type Handler struct {
	p *Pipeline
}

func NewHandler(p *Pipeline) *Handler {
	return &Handler{p: p}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	journal := rg.Group("/journal")

	journal.GET("/stats", h.stats)
}

type statsResponse struct {
	TotalEntries int `json:"totalEntries"`
	TotalWords   int `json:"totalWords"`
	TotalDays    int `json:"totalDays"`
}

func (h *Handler) stats(c *gin.Context) {
	entries, words, days, err := h.p.Stats(c.Request.Context())
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, statsResponse{
		TotalEntries: entries,
		TotalWords:   words,
		TotalDays:    days,
	})
}
