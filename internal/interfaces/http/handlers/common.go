package handlers

import (
	stderrors "errors"

	"github.com/gin-gonic/gin"

	"github.com/legaldefense/plazos/pkg/errors"
)

// ErrorResponse is the standard error body.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

// respondError maps an application error to its HTTP status. Internal errors
// are masked; the original stays in the gin error list for the logger.
func respondError(c *gin.Context, err error) {
	_ = c.Error(err)

	var appErr *errors.AppError
	if !stderrors.As(err, &appErr) {
		c.JSON(500, ErrorResponse{
			Code:    string(errors.ErrCodeInternal),
			Message: "internal server error",
		})
		return
	}

	status := appErr.Code.HTTPStatus()
	body := ErrorResponse{Code: string(appErr.Code), Message: appErr.Message, Detail: appErr.Detail}
	if status >= 500 {
		body = ErrorResponse{Code: string(appErr.Code), Message: "internal server error"}
	}
	c.JSON(status, body)
}
