package handler

import (
	"errors"
	"net/http"
	"strconv"

	"reviewhub/internal/api/models"
	"reviewhub/internal/api/service"
	"reviewhub/internal/api/validation"

	"github.com/gin-gonic/gin"
)

// respondError maps the service error taxonomy onto HTTP. Validation
// failures, including uniqueness conflicts, are 400 with the offending
// field named.
func respondError(c *gin.Context, err error) {
	var v *validation.Violation
	switch {
	case errors.As(err, &v):
		c.JSON(http.StatusBadRequest, gin.H{"error": v.Message, "field": v.Field})
	case errors.Is(err, service.ErrConflict):
		c.JSON(http.StatusBadRequest, gin.H{"error": "already exists"})
	case errors.Is(err, service.ErrInvalidCode):
		c.JSON(http.StatusBadRequest, gin.H{"non_field_errors": []string{"invalid confirmation code"}})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, service.ErrMailDelivery):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "confirmation email could not be sent"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// denyAccess distinguishes a missing login (401) from a real denial
// (403).
func denyAccess(c *gin.Context, actor *models.User) {
	if actor == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
	} else {
		c.JSON(http.StatusForbidden, gin.H{"error": "permission denied"})
	}
	c.Abort()
}

// parsePagination reads page/page_size with the usual defaults and cap.
func parsePagination(c *gin.Context) (page, pageSize int) {
	page = 1
	pageSize = 20

	if p := c.Query("page"); p != "" {
		if parsed, err := strconv.Atoi(p); err == nil && parsed > 0 {
			page = parsed
		}
	}
	if ps := c.Query("page_size"); ps != "" {
		if parsed, err := strconv.Atoi(ps); err == nil && parsed > 0 && parsed <= 100 {
			pageSize = parsed
		}
	}
	return page, pageSize
}
