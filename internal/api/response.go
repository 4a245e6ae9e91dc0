package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"jobagent/internal/apperr"
)

func Error(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"error": msg})
}

func BadRequest(c *gin.Context, msg string) { Error(c, http.StatusBadRequest, msg) }
func NotFound(c *gin.Context, msg string)   { Error(c, http.StatusNotFound, msg) }
func Internal(c *gin.Context, msg string)   { Error(c, http.StatusInternalServerError, msg) }

// RespondError maps the error taxonomy onto HTTP statuses. Anything outside
// the taxonomy is an internal error and the caller-supplied msg is used so
// raw storage errors never leak to clients.
func RespondError(c *gin.Context, err error, msg string) {
	switch {
	case apperr.IsValidation(err):
		BadRequest(c, err.Error())
	case apperr.IsNotFound(err):
		NotFound(c, err.Error())
	case apperr.IsGeneration(err):
		Error(c, http.StatusBadGateway, err.Error())
	default:
		Internal(c, msg)
	}
}
