package auth

import (
	"errors"
	"time"

	"github.com/geojournal/core/internal/middleware"
	"github.com/geojournal/core/internal/models"
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
	g := rg.Group("/auth")

	g.POST("/login", h.login)
	g.GET("/check", authMW, h.check)
	g.GET("/profile", authMW, h.profile)
}

type loginDTO struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type profileResponse struct {
	ID            string     `json:"id"`
	Username      string     `json:"username"`
	Name          string     `json:"name"`
	LastLoginTime *time.Time `json:"lastLoginTime"`
	LastLoginIP   string     `json:"lastLoginIp"`
}

func (h *Handler) login(c *gin.Context) {
	var dto loginDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	token, err := h.svc.Login(dto.Username, dto.Password, c.ClientIP())
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			response.Unauthorized(c)
			return
		}
		response.InternalError(c, err)
		return
	}
	response.OK(c, gin.H{"token": token})
}

func (h *Handler) check(c *gin.Context) {
	response.OK(c, gin.H{"ok": true})
}

func (h *Handler) profile(c *gin.Context) {
	u, err := h.svc.Profile(middleware.UserID(c))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if u == nil {
		response.NotFound(c)
		return
	}
	response.OK(c, toProfile(u))
}

func toProfile(u *models.UserModel) profileResponse {
	return profileResponse{
		ID:            u.ID,
		Username:      u.Username,
		Name:          u.Name,
		LastLoginTime: u.LastLoginTime,
		LastLoginIP:   u.LastLoginIP,
	}
}
