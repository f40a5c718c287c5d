package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/agencyops/renewal-engine/internal/api/shared/errors"
	"github.com/agencyops/renewal-engine/internal/logger"
)

// respondBadRequest responds with a bad request error
func respondBadRequest(c *gin.Context, message string, details ...string) {
	c.JSON(http.StatusBadRequest, errors.NewBadRequestError(message, details...))
}

// respondNotFound responds with a not found error
func respondNotFound(c *gin.Context, message string, details ...string) {
	c.JSON(http.StatusNotFound, errors.NewNotFoundError(message, details...))
}

// respondValidationError responds with a validation error
func respondValidationError(c *gin.Context, message string) {
	c.JSON(http.StatusUnprocessableEntity, errors.NewValidationError(message))
}

// respondError responds with the status matching the error code; internal errors are logged
func respondError(c *gin.Context, err error, message string) {
	apiErr := errors.FromError(err, message)
	status := apiErr.StatusCode()
	if status >= http.StatusInternalServerError {
		logger.ErrorCtx(c.Request.Context(), err)
	}
	c.JSON(status, apiErr)
}
