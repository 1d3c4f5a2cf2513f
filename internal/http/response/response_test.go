package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/coursecards-backend/internal/platform/apierr"
)

func render(t *testing.T, err error) (int, APIError) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	RespondErr(c, err)
	var env ErrorEnvelope
	if uerr := json.Unmarshal(rec.Body.Bytes(), &env); uerr != nil {
		t.Fatalf("decode: %v (%s)", uerr, rec.Body.String())
	}
	return rec.Code, env.Error
}

func TestRespondErrTaxonomy(t *testing.T) {
	cases := []struct {
		name    string
		err     error
		status  int
		code    string
		kind    string
		service string
	}{
		{"validation", apierr.Validation("option_count", "quiz must have 2-4 options, got 5"), http.StatusBadRequest, "option_count", "validation", ""},
		{"upstream", apierr.Upstream("speech", http.StatusInternalServerError, errors.New("HTTP 500: busy")), http.StatusBadGateway, "upstream_error", "upstream", "speech"},
		{"upstream not found", apierr.Upstream("course-api", http.StatusNotFound, errors.New("HTTP 404: no card")), http.StatusNotFound, "upstream_not_found", "upstream", "course-api"},
		{"transformation", apierr.Transformation("image_transform_failed", errors.New("bad png")), http.StatusUnprocessableEntity, "image_transform_failed", "transformation", ""},
		{"plain", errors.New("boom"), http.StatusInternalServerError, "internal_error", "internal", ""},
	}
	for _, tc := range cases {
		status, got := render(t, tc.err)
		if status != tc.status || got.Code != tc.code || got.Kind != tc.kind || got.Service != tc.service {
			t.Fatalf("%s: status=%d body=%+v", tc.name, status, got)
		}
		if got.Message == "" {
			t.Fatalf("%s: message must not be empty", tc.name)
		}
	}
}

func TestUpstreamMessageVerbatim(t *testing.T) {
	_, got := render(t, apierr.Upstream("image", http.StatusTooManyRequests, errors.New("HTTP 429: rate limited")))
	if got.Message != "image: HTTP 429: rate limited" {
		t.Fatalf("message: got=%q", got.Message)
	}
}
