package backup

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

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	g := rg.Group("/backups", authMW)

	g.POST("", h.export)
	g.GET("", h.list)
	g.GET("/tasks/:id", h.taskStatus)
	g.GET("/:name", h.download)
	g.DELETE("/:name", h.delete)
}

func (h *Handler) export(c *gin.Context) {
	task, err := h.svc.ExportAsync(c.Request.Context())
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Created(c, task)
}

func (h *Handler) list(c *gin.Context) {
	archives, err := h.svc.List()
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, archives)
}

func (h *Handler) taskStatus(c *gin.Context) {
	task, err := h.svc.tasks.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if task == nil {
		response.NotFoundMsg(c, "task not found")
		return
	}
	response.OK(c, task)
}

func (h *Handler) download(c *gin.Context) {
	path, ok := h.svc.Path(c.Param("name"))
	if !ok {
		response.NotFound(c)
		return
	}
	c.FileAttachment(path, c.Param("name"))
}

func (h *Handler) delete(c *gin.Context) {
	if err := h.svc.Delete(c.Param("name")); err != nil {
		response.NotFoundMsg(c, err.Error())
		return
	}
	response.NoContent(c)
}
