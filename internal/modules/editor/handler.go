package editor

import (
	"errors"
	"strconv"

	"github.com/geojournal/core/internal/pkg/response"
	"github.com/gin-gonic/gin"
)

// Handler serves the write side of the journal: create, replace, delete.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	entries := rg.Group("/entries", authMW)

	entries.POST("", h.create)
	entries.PUT("/:id", h.update)
	entries.DELETE("/:id", h.delete)
}

func (h *Handler) create(c *gin.Context) {
	h.save(c, 0)
}

func (h *Handler) update(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.BadRequest(c, "invalid entry id")
		return
	}
	h.save(c, id)
}

func (h *Handler) save(c *gin.Context, id int64) {
	var dto saveEntryDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	e, err := h.svc.Save(c.Request.Context(), SaveInput{
		ID:          id,
		Title:       dto.Title,
		Description: dto.Description,
		PhotoPath:   dto.PhotoPath,
		Latitude:    dto.Latitude,
		Longitude:   dto.Longitude,
		Date:        dto.Date,
	})
	if err != nil {
		if errors.Is(err, ErrHalfCoordinate) {
			response.UnprocessableEntity(c, err.Error())
			return
		}
		response.InternalError(c, err)
		return
	}

	if id == 0 {
		response.Created(c, toResponse(e))
		return
	}
	response.OK(c, toResponse(e))
}

func (h *Handler) delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "invalid entry id")
		return
	}
	if err := h.svc.Delete(c.Request.Context(), uint(id)); err != nil {
		response.InternalError(c, err)
		return
	}
	response.NoContent(c)
}
