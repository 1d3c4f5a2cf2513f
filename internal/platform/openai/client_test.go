package openai

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/yungbote/coursecards-backend/internal/platform/apierr"
	"github.com/yungbote/coursecards-backend/internal/platform/logger"
)

var pngBytes = []byte("\x89PNG\r\n\x1a\nfake")

func imageResponse(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"data": []map[string]any{{"b64_json": base64.StdEncoding.EncodeToString(pngBytes)}},
	})
}

func TestGenerateImageAzure(t *testing.T) {
	var got imagesGenerationRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/openai/deployments/gpt-image/images/generations" {
			t.Errorf("path: %s", r.URL.Path)
		}
		if r.URL.Query().Get("api-version") != DefaultAzureAPIVersion {
			t.Errorf("api-version: %q", r.URL.Query().Get("api-version"))
		}
		if r.Header.Get("api-key") != "az-key" || r.Header.Get("Authorization") != "" {
			t.Errorf("auth headers: %v", r.Header)
		}
		_ = json.NewDecoder(r.Body).Decode(&got)
		imageResponse(w)
	}))
	defer srv.Close()

	c, err := NewClient(logger.NewNop(), Config{APIKey: "az-key", AzureEndpoint: srv.URL + "/", AzureDeployment: "gpt-image"})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	img, err := c.GenerateImage(context.Background(), "a red fox", "1024x1536", "jpg")
	if err != nil {
		t.Fatalf("GenerateImage: %v", err)
	}
	if string(img) != string(pngBytes) {
		t.Fatalf("bytes: %q", img)
	}
	if got.Prompt != "a red fox" || got.Size != "1024x1536" || got.OutputFormat != "jpeg" {
		t.Fatalf("request: %+v", got)
	}
	if got.Quality != "medium" || got.OutputCompression != 100 || got.N != 1 || got.Model != "" {
		t.Fatalf("fixed params: %+v", got)
	}
}

func TestGenerateImageOpenAI(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/images/generations" {
			t.Errorf("path: %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer sk-test" {
			t.Errorf("authorization: %q", r.Header.Get("Authorization"))
		}
		var body imagesGenerationRequest
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body.Model != DefaultModel || body.OutputFormat != "png" {
			t.Errorf("body: %+v", body)
		}
		imageResponse(w)
	}))
	defer srv.Close()

	c, err := NewClient(logger.NewNop(), Config{APIKey: "sk-test", BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	if _, err := c.GenerateImage(context.Background(), "a fox", "1024x1024", "png"); err != nil {
		t.Fatalf("GenerateImage: %v", err)
	}
}

func TestGenerateImageUpstreamErrors(t *testing.T) {
	cases := []struct {
		name   string
		handle http.HandlerFunc
		status int
		msg    string
	}{
		{"rejected", func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"error":{"message":"content policy violation"}}`, http.StatusBadRequest)
		}, http.StatusBadRequest, "content policy violation"},
		{"server", func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "overloaded", http.StatusServiceUnavailable)
		}, http.StatusBadGateway, "overloaded"},
		{"empty data", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"data":[]}`))
		}, http.StatusBadGateway, "no image data returned"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(tc.handle)
			defer srv.Close()
			c, _ := NewClient(logger.NewNop(), Config{APIKey: "k", BaseURL: srv.URL})
			_, err := c.GenerateImage(context.Background(), "p", "1024x1024", "png")
			if apierr.KindOf(err) != apierr.KindUpstream || apierr.StatusOf(err) != tc.status {
				t.Fatalf("kind=%s status=%d err=%v", apierr.KindOf(err), apierr.StatusOf(err), err)
			}
			if !strings.Contains(err.Error(), tc.msg) {
				t.Fatalf("message: %v", err)
			}
		})
	}
}

func TestGenerateImageTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		imageResponse(w)
	}))
	defer srv.Close()
	c, _ := NewClient(logger.NewNop(), Config{APIKey: "k", BaseURL: srv.URL, Timeout: 20 * time.Millisecond})
	_, err := c.GenerateImage(context.Background(), "p", "1024x1024", "png")
	if apierr.StatusOf(err) != http.StatusGatewayTimeout {
		t.Fatalf("want 504, got %d (%v)", apierr.StatusOf(err), err)
	}
}

func TestConfigValidate(t *testing.T) {
	if _, err := NewClient(logger.NewNop(), Config{}); err == nil {
		t.Fatalf("expected missing key error")
	}
	if _, err := NewClient(logger.NewNop(), Config{APIKey: "k", AzureEndpoint: "https://x.openai.azure.com"}); err == nil {
		t.Fatalf("expected missing deployment error")
	}
	if _, err := NewClient(logger.NewNop(), Config{APIKey: "k", AzureEndpoint: "not a url", AzureDeployment: "d"}); err == nil {
		t.Fatalf("expected invalid endpoint error")
	}
}
