package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/top20pulse/internal/domain/dto"
)

// ErrorHandler renders errors attached with c.Error as a 500 dto.ErrorResponse
// when the handler did not write a response itself.
func ErrorHandler(c *gin.Context) {
	c.Next()

	if len(c.Errors) == 0 || c.Writer.Written() {
		return
	}
	last := c.Errors.Last()
	c.JSON(http.StatusInternalServerError, dto.NewErrorResponse("Internal server error", last.Err))
}

// AbortWithError stops the chain and writes status with a standardized body.
func AbortWithError(c *gin.Context, status int, message string, err error) {
	c.AbortWithStatusJSON(status, dto.NewErrorResponse(message, err))
}
