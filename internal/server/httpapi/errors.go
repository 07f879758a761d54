package httpapi

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/travelapp/internal/common"
	"github.com/gin-gonic/gin"
)

// writeError maps service errors onto status codes. Provider messages pass
// through verbatim; unexpected errors are logged and hidden.
func (h *handler) writeError(c *gin.Context, err error) {
	var pe *common.ProviderError
	switch {
	case errors.As(err, &pe):
		if pe.Detail != "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": pe.Message, "detail": pe.Detail, "data": pe.Data})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": pe.Message})
	case errors.Is(err, common.ErrorValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, common.ErrorNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, common.ErrorAlreadyExists):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, common.ErrorUnauthorized),
		errors.Is(err, common.ErrInvalidToken),
		errors.Is(err, common.ErrTokenExpired),
		errors.Is(err, common.ErrRefreshTokenExpired):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, common.ErrorForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "you do not have permission to perform this action"})
	default:
		h.logger.Error(c.Request.Context(), "request failed", "path", c.FullPath(), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": common.ErrorInternal.Error()})
	}
}

// bindJSON decodes the body and answers 400 on failure.
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed request body: " + err.Error()})
		return false
	}
	return true
}
