package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dtroode/contactkeeper/internal/logger"
	"github.com/dtroode/contactkeeper/pkg/api"
)

// Logging logs every HTTP request and recovers from handler panics.
type Logging struct {
	logger *logger.Logger
}

// NewLogging creates a new Logging middleware.
func NewLogging(logger *logger.Logger) *Logging {
	return &Logging{logger: logger}
}

// HandleHTTP logs method, route, status and duration for each request.
func (l *Logging) HandleHTTP(c *gin.Context) {
	start := time.Now()

	c.Next()

	status := c.Writer.Status()
	args := []any{
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
		"route", c.FullPath(),
		"status", status,
		"duration_ms", time.Since(start).Milliseconds(),
	}

	switch {
	case status >= http.StatusInternalServerError:
		l.logger.Error("HTTP request failed", append(args, "errors", c.Errors.String())...)
	case status >= http.StatusBadRequest:
		l.logger.Warn("HTTP request rejected", args...)
	default:
		l.logger.Info("HTTP request completed", args...)
	}
}

// Recover turns a panic in a handler into a 500 response.
func (l *Logging) Recover(c *gin.Context, recovered any) {
	l.logger.Error("HTTP handler panicked",
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
		"panic", fmt.Sprint(recovered))
	c.AbortWithStatusJSON(http.StatusInternalServerError, api.ErrorResponse{Msg: "Server Error"})
}
