// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"

	"github.com/pdiddy/colab-finder/internal/finder"
)

type errorBody struct {
	Error string `json:"error"`
}

func (s *Server) index(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", gin.H{
		"Title": "Colab Project Finder",
	})
}

func (s *Server) findProject(c *gin.Context) {
	startAt := time.Now()
	ctx := c.Request.Context()
	logger := requestLogger(c)

	res, err := s.finder.FindProject(ctx)
	switch {
	case err == nil:
		logger.Info("successfully found project",
			slog.String("name", res.Name),
			slog.Duration("cost", time.Since(startAt)))
		c.JSON(http.StatusOK, res)
	case errors.Is(err, finder.ErrNotFound):
		c.JSON(http.StatusInternalServerError, errorBody{Error: NotFoundMessage})
	default:
		logger.Error("find project", slog.Any("error", err))
		c.JSON(http.StatusInternalServerError, errorBody{Error: InternalErrorMessage})
	}
}
