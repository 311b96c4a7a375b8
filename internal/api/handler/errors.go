package handler

import (
	"errors"
	"net/http"

	"github.com/uknown4ever/parking/internal/repository"
	"github.com/uknown4ever/parking/internal/service"

	"github.com/gin-gonic/gin"
)

// respondError maps engine error kinds to status codes; the handlers stay
// pure renderers and never re-interpret business rules.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, repository.ErrSpaceOccupied),
		errors.Is(err, repository.ErrDuplicateKey),
		errors.Is(err, repository.ErrAlreadyClosed),
		errors.Is(err, repository.ErrReferencedByOpenSession):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, repository.ErrInvalidTimeRange),
		errors.Is(err, service.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, repository.ErrStorageUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
