package entry

import (
	"strconv"

	"github.com/geojournal/core/internal/pkg/pagination"
	"github.com/geojournal/core/internal/pkg/response"
	"github.com/gin-gonic/gin"
)

// Handler serves the read side of the entry store. Writes go through the
// editor module.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	entries := rg.Group("/entries")

	entries.GET("", h.list)
	entries.GET("/:id", h.getByID)
}

// list returns a page of entries, newest first. The optional q parameter
// filters by a case-insensitive substring of the title or description.
func (h *Handler) list(c *gin.Context) {
	q := pagination.FromContext(c)
	entries, pag, err := h.svc.List(q, c.Query("q"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Paged(c, toResponses(entries), pag)
}

func (h *Handler) getByID(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "invalid entry id")
		return
	}
	e, err := h.svc.GetByID(c.Request.Context(), uint(id))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if e == nil {
		response.NotFoundMsg(c, "entry not found")
		return
	}
	response.OK(c, toResponse(e))
}
