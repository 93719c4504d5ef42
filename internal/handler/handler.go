package handler

import (
	"sabitax/pkg/apperr"
	"sabitax/pkg/response"

	"github.com/gin-gonic/gin"
)

// respondError maps a service error to its HTTP status and writes the
// standard error envelope
func respondError(c *gin.Context, err error) {
	status := apperr.Status(err)
	c.JSON(status, response.Error(status, err.Error()))
}
