package render

import (
	"context"
	"html/template"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/geojournal/core/internal/models"
	"github.com/geojournal/core/internal/pkg/response"
	"github.com/gin-gonic/gin"
)

// Store is the read surface the reading view loads entries from.
type Store interface {
	GetByID(ctx context.Context, id uint) (*models.EntryModel, error)
}

type Handler struct {
	store Store
}

func NewHandler(store Store) *Handler { return &Handler{store: store} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	g := rg.Group("/render")

	g.GET("/entry/:id", h.renderEntry)
	g.POST("/markdown", authMW, h.previewMarkdown)
}

// renderEntry serves a standalone HTML reading view of one entry.
func (h *Handler) renderEntry(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		response.NotFound(c)
		return
	}

	e, err := h.store.GetByID(c.Request.Context(), uint(id))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if e == nil {
		response.NotFound(c)
		return
	}

	c.Header("Content-Type", "text/html; charset=utf-8")
	c.String(http.StatusOK, renderHTML(e.Title, entrySubtitle(e), Markdown(e.Description)))
}

type markdownPreviewDTO struct {
	MD    string `json:"md" binding:"required"`
	Title string `json:"title"`
}

func (h *Handler) previewMarkdown(c *gin.Context) {
	var dto markdownPreviewDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	c.Header("Content-Type", "text/html; charset=utf-8")
	c.String(http.StatusOK, renderHTML(dto.Title, "", Markdown(dto.MD)))
}

func entrySubtitle(e *models.EntryModel) string {
	date := time.UnixMilli(e.CreatedAt).Format("January 2, 2006")
	if e.LocationName == "" || e.LocationName == models.LocationNone {
		return date
	}
	return e.LocationName + " · " + date
}

func renderHTML(title, subtitle, body string) string {
	escapedTitle := template.HTMLEscapeString(strings.TrimSpace(title))
	escapedSubtitle := template.HTMLEscapeString(subtitle)
	return `<!doctype html>
<html lang="en">
<head>
  <meta charset="utf-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <title>` + escapedTitle + `</title>
  <style>
    body { margin: 0; padding: 24px; font: 16px/1.7 -apple-system, BlinkMacSystemFont, "Segoe UI", sans-serif; color: #222; background: #fff; }
    main { max-width: 720px; margin: 0 auto; }
    h1 { margin: 0 0 4px; font-size: 28px; }
    .meta { margin: 0 0 24px; color: #777; font-size: 14px; }
    article { word-break: break-word; }
  </style>
</head>
<body>
  <main>
    <h1>` + escapedTitle + `</h1>
    <p class="meta">` + escapedSubtitle + `</p>
    <article>` + body + `</article>
  </main>
</body>
</html>`
}
