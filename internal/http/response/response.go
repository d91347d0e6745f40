package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bazaarlane/admin-backend/internal/platform/apierr"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.JSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
		},
	})
}

var errInternal = errors.New("internal server error")

// RespondAPIError renders a classified error with its own status and code;
// anything unclassified becomes an opaque 500. Server-side failures never
// put their detail in the body: the full error is attached to the gin
// context so the request logger records it, and the client gets a generic
// message.
func RespondAPIError(c *gin.Context, err error) {
	status := apierr.StatusOf(err)
	code := apierr.CodeOf(err)
	if code == "" {
		status, code = http.StatusInternalServerError, "internal_error"
	}
	if status >= http.StatusInternalServerError {
		_ = c.Error(err)
		err = errInternal
	}
	RespondError(c, status, code, err)
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

func RespondCreated(c *gin.Context, payload any) {
	c.JSON(http.StatusCreated, payload)
}
