package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dtroode/contactkeeper/internal/apierror"
	"github.com/dtroode/contactkeeper/internal/logger"
	"github.com/dtroode/contactkeeper/internal/model"
	"github.com/dtroode/contactkeeper/pkg/api"
)

const serverErrorMessage = "Server Error"

// handleError writes err to the response. Errors that do not carry their
// own status are logged and reported as a bare 500.
func handleError(c *gin.Context, lg *logger.Logger, err error) {
	var validationErrs apierror.ValidationErrors
	if errors.As(err, &validationErrs) {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Errors: validationErrs})
		return
	}

	var apiErr *apierror.APIError
	if errors.As(err, &apiErr) {
		c.JSON(apiErr.HTTPCode, api.ErrorResponse{Msg: apiErr.Message})
		return
	}

	if errors.Is(err, model.ErrNotFound) {
		c.JSON(http.StatusNotFound, api.ErrorResponse{Msg: "Not found"})
		return
	}

	_ = c.Error(err)
	lg.Error("HTTP handler: request failed",
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
		"error", err.Error())
	c.JSON(http.StatusInternalServerError, api.ErrorResponse{Msg: serverErrorMessage})
}

// bindJSON decodes the request body into dst, writing a 400 on failure.
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		apiErr := apierror.NewErrInvalidRequestBody()
		c.JSON(apiErr.HTTPCode, api.ErrorResponse{Msg: apiErr.Message})
		return false
	}
	return true
}
