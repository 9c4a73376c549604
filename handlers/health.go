package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const version = "1.0.0"

// Health reports that the API is up.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Investment Portfolio API is running",
		"version": version,
	})
}
