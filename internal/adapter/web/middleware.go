package web

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/simaogato/ventureflow/internal/metrics"
	"github.com/simaogato/ventureflow/internal/usecase/portfolio"
)

const sessionKey = "vf.session_id"

// SessionMiddleware binds the request to a session through a cookie
// A missing, malformed or expired cookie starts a fresh session.
func SessionMiddleware(service *portfolio.PortfolioService, cookieName string, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		if raw, err := c.Cookie(cookieName); err == nil {
			if id, err := uuid.Parse(raw); err == nil {
				if _, err := service.GetSession(ctx, id); err == nil {
					c.Set(sessionKey, id)
					c.Next()
					return
				}
			}
		}

		session, err := service.StartSession(ctx)
		if err != nil {
			logger.Error("start session failed", zap.Error(err))
			Error(c, http.StatusInternalServerError, "session unavailable", nil)
			c.Abort()
			return
		}
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(cookieName, session.ID.String(), 0, "/", "", false, true)
		c.Set(sessionKey, session.ID)
		c.Next()
	}
}

func sessionID(c *gin.Context) (uuid.UUID, error) {
	v, ok := c.Get(sessionKey)
	if !ok {
		return uuid.Nil, errors.New("no session bound to request")
	}
	id, ok := v.(uuid.UUID)
	if !ok {
		return uuid.Nil, errors.New("no session bound to request")
	}
	return id, nil
}

// RequestLogger logs one line per request
func RequestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}

		switch {
		case c.Writer.Status() >= http.StatusInternalServerError:
			logger.Error("http request", fields...)
		case c.Writer.Status() >= http.StatusBadRequest:
			logger.Warn("http request", fields...)
		default:
			logger.Info("http request", fields...)
		}
	}
}

// Metrics records request latency by route template
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.HTTPRequestDuration.
			WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).
			Observe(time.Since(start).Seconds())
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET,POST,PATCH,DELETE,OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type,X-Request-Id")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
