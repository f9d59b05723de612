// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package server

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pdiddy/colab-finder/internal/logging"
)

// RequestIDHeader carries the request id in both directions.
const RequestIDHeader = "X-Request-ID"

// requestID tags the request with an id and stores a logger carrying it in
// the request context. Components name the logger themselves.
func (s *Server) requestID(c *gin.Context) {
	id := c.GetHeader(RequestIDHeader)
	if id == "" || len(id) > 128 {
		id = uuid.NewString()
	}
	c.Header(RequestIDHeader, id)

	logger := s.logger.With(slog.String("request_id", id))
	c.Request = c.Request.WithContext(logging.WithContext(c.Request.Context(), logger))
	c.Next()
}

// recovery turns a panic into a 500 JSON response.
func (s *Server) recovery(c *gin.Context) {
	defer func() {
		if r := recover(); r != nil {
			requestLogger(c).Error("panic while serving request",
				slog.String("error", fmt.Sprint(r)),
				slog.String("stack", string(debug.Stack())))
			c.AbortWithStatusJSON(http.StatusInternalServerError, errorBody{Error: InternalErrorMessage})
		}
	}()
	c.Next()
}

func (s *Server) accessLog(c *gin.Context) {
	startAt := time.Now()
	c.Next()
	requestLogger(c).Debug("request",
		slog.String("method", c.Request.Method),
		slog.String("path", c.Request.URL.Path),
		slog.Int("status", c.Writer.Status()),
		slog.Duration("cost", time.Since(startAt)))
}

func (s *Server) rateLimit(c *gin.Context) {
	if !s.limiter.Allow() {
		requestLogger(c).Warn("rate limited")
		c.AbortWithStatusJSON(http.StatusTooManyRequests, errorBody{Error: RateLimitedMessage})
		return
	}
	c.Next()
}

func requestLogger(c *gin.Context) *slog.Logger {
	return logging.Named(logging.FromContext(c.Request.Context()), "server")
}
