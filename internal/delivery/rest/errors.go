package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yourusername/sheet-store/internal/domain/apperr"
	"github.com/yourusername/sheet-store/pkg/logger"
)

// respondError maps domain errors to status codes. Anything unknown is
// logged and reported as a generic 500.
func respondError(c *gin.Context, err error) {
	switch {
	case apperr.IsValidation(err):
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
	case isInsufficient(err):
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
	case apperr.IsNoData(err):
		c.JSON(http.StatusNotFound, gin.H{"message": "No data found in Google Sheet."})
	case apperr.IsNotFound(err):
		c.JSON(http.StatusNotFound, gin.H{"message": err.Error()})
	default:
		logger.ErrorLogger.Printf("%s %s: %v", c.Request.Method, c.FullPath(), err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server Error"})
	}
}

// respondOrderError an unknown product in an order body is a bad request,
// not a missing resource.
func respondOrderError(c *gin.Context, err error) {
	if nf, ok := apperr.AsNotFound(err); ok && nf.Kind == "product" {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	respondError(c, err)
}

func isInsufficient(err error) bool {
	_, ok := apperr.AsInsufficient(err)
	return ok
}
