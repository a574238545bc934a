package web

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/simaogato/ventureflow/internal/domain"
)

type HealthHandler struct {
	Sessions domain.SessionRepository
}

func (h *HealthHandler) Register(r *gin.Engine) {
	r.GET("/healthz", h.health)
	r.GET("/readyz", h.ready)
}

func (h *HealthHandler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *HealthHandler) ready(c *gin.Context) {
	if h.Sessions == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "sessions_missing"})
		return
	}
	count, err := h.Sessions.Count(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "sessions_error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready", "sessions": count})
}
