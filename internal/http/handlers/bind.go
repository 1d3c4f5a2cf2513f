package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/coursecards-backend/internal/platform/apierr"
)

const codeInvalidRequest = "invalid_request"

// bindJSON decodes the body into dst and reports a validation error on failure.
func bindJSON(c *gin.Context, dst any) error {
	if err := c.ShouldBindJSON(dst); err != nil {
		return apierr.Validation(codeInvalidRequest, "invalid request body: %v", err)
	}
	return nil
}
