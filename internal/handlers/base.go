package handlers

import (
	"errors"
	"net/http"

	"leadlink/internal/apperr"
	"leadlink/internal/provider"

	"github.com/gin-gonic/gin"
)

// Detail writes the API error body. The dashboard reads the "detail" field
// from every non-2xx response.
func Detail(c *gin.Context, code int, message string) {
	c.JSON(code, gin.H{"detail": message})
}

// AbortError maps a domain error to its HTTP status and writes the error
// body.
func AbortError(c *gin.Context, err error) {
	var (
		validationErr *apperr.ValidationError
		notFoundErr   *apperr.NotFoundError
		conflictErr   *apperr.ConflictError
		providerErr   *provider.Error
	)
	switch {
	case errors.As(err, &validationErr):
		Detail(c, http.StatusBadRequest, validationErr.Error())
	case errors.As(err, &notFoundErr):
		Detail(c, http.StatusNotFound, notFoundErr.Error())
	case errors.As(err, &conflictErr):
		Detail(c, http.StatusConflict, conflictErr.Error())
	case errors.As(err, &providerErr):
		Detail(c, http.StatusBadGateway, providerErr.Error())
	default:
		Detail(c, http.StatusInternalServerError, err.Error())
	}
}
