package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/qconnect/clinic-api/internal/constants"
	apperrors "github.com/qconnect/clinic-api/internal/errors"
)

// respondError writes the standard error envelope with the status mapped
// from the domain error.
func respondError(c *gin.Context, err error) {
	c.JSON(
		apperrors.ToHTTPStatus(err),
		constants.BuildErrorResponse(apperrors.GetErrorMessage(err), apperrors.GetErrorCode(err), nil),
	)
}

// respondBindingError reports a 400 with per-field details when the body
// failed validation, and a generic 400 otherwise.
func respondBindingError(c *gin.Context, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		details := make(map[string]string, len(validationErrs))
		for _, fieldErr := range validationErrs {
			details[fieldErr.Field()] = fieldErr.Tag()
		}
		c.JSON(http.StatusBadRequest, constants.BuildErrorResponse(
			apperrors.GetErrorMessage(apperrors.ErrInvalidInput),
			apperrors.GetErrorCode(apperrors.ErrInvalidInput),
			details,
		))
		return
	}

	c.JSON(http.StatusBadRequest, constants.BuildErrorResponse(
		apperrors.GetErrorMessage(apperrors.ErrInvalidInput),
		apperrors.GetErrorCode(apperrors.ErrInvalidInput),
		nil,
	))
}

// paramID parses a numeric :id path parameter. Writes the 400 itself on
// failure and reports ok=false.
func paramID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, constants.BuildErrorResponse("invalid "+name+" parameter", "", nil))
		return 0, false
	}
	return uint(id), true
}

// pageTotal computes the number of pages for a list response.
func pageTotal(total int64, limit int) int {
	if limit <= 0 {
		return 0
	}
	pages := int(total) / limit
	if int(total)%limit != 0 {
		pages++
	}
	return pages
}
