package handlers

import (
	"github.com/gin-gonic/gin"

	"inkwell/cmd/devserver/middleware"
	"inkwell/cmd/devserver/services"
	"inkwell/internal/logger"
	"inkwell/dto"
)

// writeError answers with the status and code the service chose and logs the cause.
func writeError(c *gin.Context, err *services.Error) {
	if err.Cause != nil {
		_ = c.Error(err.Cause)
		if err.StatusCode >= 500 {
			logger.ErrorWithFields("request failed", logger.Fields{
				"path":  c.Request.URL.Path,
				"code":  err.ErrorCode,
				"error": err.Cause.Error(),
			})
		}
	}
	c.JSON(err.StatusCode, dto.ErrorResponseDTO{Error: err.ErrorCode})
}

func authorID(c *gin.Context) string {
	a, _ := middleware.AuthorFrom(c)
	return a.ID
}
