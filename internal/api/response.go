package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rewired-gh/ppsf/internal/models"
)

// Response represents a standard API response
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// success sends a successful response
func success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

// fail sends an error response
func fail(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, Response{
		Code:    code,
		Message: message,
	})
}

// failWith maps the error taxonomy onto HTTP status codes.
func failWith(c *gin.Context, err error) {
	_ = c.Error(err)
	switch {
	case errors.Is(err, models.ErrInvalidInput):
		fail(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, models.ErrModelUnavailable):
		fail(c, http.StatusServiceUnavailable, err.Error())
	default:
		fail(c, http.StatusInternalServerError, err.Error())
	}
}
