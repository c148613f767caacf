package utils

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/fixmysite/portal/internal/shared/errors"
)

// ParseUintParam reads a positive integer path parameter.
// entityName is used in error messages (e.g., "ticket", "credential").
func ParseUintParam(c *gin.Context, paramName, entityName string) (uint, error) {
	raw := c.Param(paramName)
	if raw == "" {
		return 0, errors.NewValidationError(entityName + " ID is required")
	}

	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || v == 0 {
		return 0, errors.NewValidationError("invalid " + entityName + " ID")
	}
	return uint(v), nil
}
