package handler

import (
	"net/http"

	"backend/pkg/apperror"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
)

// respondError maps service error kinds onto HTTP status codes.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch apperror.KindOf(err) {
	case apperror.KindNotFound:
		status = http.StatusNotFound
	case apperror.KindInvalid:
		status = http.StatusBadRequest
	case apperror.KindPermissionDenied:
		status = http.StatusForbidden
	}
	c.JSON(status, response.Error(status, err.Error()))
}
