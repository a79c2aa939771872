package middlewares

import (
	"log"
	"net/http"

	"CareLink/utils"

	"github.com/gin-gonic/gin"
)

// Pagination is the page descriptor attached to collection responses.
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

// RespondData writes a success envelope with a data payload.
func RespondData(c *gin.Context, status int, data interface{}) {
	c.JSON(status, gin.H{"success": true, "data": data})
}

// RespondList writes a success envelope with a collection payload and its
// pagination descriptor.
func RespondList(c *gin.Context, data interface{}, pagination Pagination) {
	c.JSON(http.StatusOK, gin.H{"success": true, "data": data, "pagination": pagination})
}

// RespondMessage writes a success envelope carrying only a message.
func RespondMessage(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"success": true, "message": message})
}

// RespondError logs the underlying error and writes a failure envelope. The
// raw error never reaches the client.
func RespondError(c *gin.Context, status int, message string, err error) {
	if err != nil {
		log.Printf("HTTP %d - %s: %v", status, message, err)
	}
	c.JSON(status, gin.H{"success": false, "error": message})
}

// RespondValidation writes a 400 failure envelope with a field-level details
// array built from an ozzo validation error.
func RespondValidation(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{
		"success": false,
		"error":   "validation failed",
		"details": utils.ValidationDetails(err),
	})
}
