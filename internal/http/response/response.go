package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/coursecards-backend/internal/platform/apierr"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
	Kind    string `json:"kind,omitempty"`
	Service string `json:"service,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

// RespondErr renders err with the status, code and kind it carries. Errors
// outside the apierr taxonomy are reported as internal.
func RespondErr(c *gin.Context, err error) {
	status := apierr.StatusOf(err)
	env := ErrorEnvelope{Error: APIError{
		Message: "unknown error",
		Code:    apierr.CodeOf(err),
		Kind:    string(apierr.KindOf(err)),
	}}
	if err != nil {
		env.Error.Message = err.Error()
	}
	if e, ok := apierr.As(err); ok {
		env.Error.Service = e.Service
	}
	c.JSON(status, env)
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

func RespondCreated(c *gin.Context, payload any) {
	c.JSON(http.StatusCreated, payload)
}
