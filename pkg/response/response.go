package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	appErrors "github.com/annavdbeek/plantportal/pkg/errors"
)

// ErrorInfo holds error details sent to clients.
type ErrorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// OK writes a success envelope. Payload keys are merged at the top level so
// handlers control the response shape ({"success": true, "permissions": ...}).
func OK(c *gin.Context, statusCode int, payload gin.H) {
	body := gin.H{"success": true}
	for k, v := range payload {
		body[k] = v
	}
	c.JSON(statusCode, body)
}

// Error writes a failure envelope derived from an AppError.
func Error(c *gin.Context, err error) {
	ErrorWith(c, err, nil)
}

// ErrorWith writes a failure envelope with extra top-level fields, e.g. the
// list of invalid descriptors accompanying a batch validation failure.
func ErrorWith(c *gin.Context, err error, extra gin.H) {
	appErr := appErrors.FromError(err)
	if appErr == nil {
		appErr = appErrors.ErrInternalServer
	}

	status := appErr.StatusCode
	if status == 0 {
		status = http.StatusInternalServerError
	}

	body := gin.H{
		"success": false,
		"error": ErrorInfo{
			Code:    appErr.Code,
			Message: appErr.Message,
		},
	}
	for k, v := range extra {
		body[k] = v
	}
	c.JSON(status, body)
}
