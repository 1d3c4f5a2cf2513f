package openai

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/yungbote/coursecards-backend/internal/platform/apierr"
	"github.com/yungbote/coursecards-backend/internal/platform/httpx"
	"github.com/yungbote/coursecards-backend/internal/platform/logger"
)

const (
	ServiceName = "image"

	DefaultBaseURL         = "https://api.openai.com"
	DefaultModel           = "gpt-image-1"
	DefaultAzureAPIVersion = "2025-04-01-preview"
	DefaultTimeout         = 60 * time.Second

	imageQuality      = "medium"
	imageCompression  = 100
	imagesPerResponse = 1
)

// Config selects between api.openai.com (bearer key) and an Azure OpenAI
// deployment (api-key header). Azure is used when AzureEndpoint is set.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string

	AzureEndpoint   string
	AzureDeployment string
	AzureAPIVersion string

	Timeout time.Duration
}

func (c Config) IsAzure() bool {
	return strings.TrimSpace(c.AzureEndpoint) != ""
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.APIKey) == "" {
		return errors.New("missing image service api key")
	}
	if c.IsAzure() {
		if strings.TrimSpace(c.AzureDeployment) == "" {
			return errors.New("missing azure openai deployment")
		}
		u, err := url.Parse(c.AzureEndpoint)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("invalid azure openai endpoint %q", c.AzureEndpoint)
		}
	}
	return nil
}

// Client generates raster images. It makes exactly one request per call.
type Client struct {
	log        *logger.Logger
	cfg        Config
	httpClient *http.Client
}

func NewClient(log *logger.Logger, cfg Config) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	cfg.AzureEndpoint = strings.TrimRight(strings.TrimSpace(cfg.AzureEndpoint), "/")
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.AzureAPIVersion == "" {
		cfg.AzureAPIVersion = DefaultAzureAPIVersion
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	return &Client{
		log:        log.With("client", "ImageService"),
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}, nil
}

type imagesGenerationRequest struct {
	Model             string `json:"model,omitempty"`
	Prompt            string `json:"prompt"`
	Size              string `json:"size"`
	Quality           string `json:"quality"`
	OutputCompression int    `json:"output_compression"`
	OutputFormat      string `json:"output_format"`
	N                 int    `json:"n"`
}

type imagesGenerationResponse struct {
	Data []struct {
		B64JSON       string `json:"b64_json"`
		RevisedPrompt string `json:"revised_prompt,omitempty"`
	} `json:"data"`
}

// GenerateImage returns the decoded image bytes. size and format are expected
// to be validated by the caller; format is "png" or "jpg".
func (c *Client) GenerateImage(ctx context.Context, prompt, size, format string) ([]byte, error) {
	body := imagesGenerationRequest{
		Prompt:            prompt,
		Size:              size,
		Quality:           imageQuality,
		OutputCompression: imageCompression,
		OutputFormat:      wireFormat(format),
		N:                 imagesPerResponse,
	}
	if !c.cfg.IsAzure() {
		body.Model = c.cfg.Model
	}

	req, err := httpx.NewJSONRequest(ctx, http.MethodPost, c.endpoint(), body)
	if err != nil {
		return nil, err
	}
	if c.cfg.IsAzure() {
		req.Header.Set("api-key", c.cfg.APIKey)
	} else {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}

	start := time.Now()
	raw, err := httpx.Do(c.httpClient, req, httpx.DefaultMaxBody)
	if err != nil {
		c.log.Warn("image generation failed", "size", size, "error", err, "elapsed", time.Since(start))
		return nil, apierr.Upstream(ServiceName, httpx.StatusCodeOf(err), err)
	}
	var resp imagesGenerationResponse
	if err := httpx.DecodeJSON(raw, &resp); err != nil {
		return nil, apierr.Upstream(ServiceName, 0, err)
	}
	if len(resp.Data) == 0 || strings.TrimSpace(resp.Data[0].B64JSON) == "" {
		return nil, apierr.Upstream(ServiceName, 0, errors.New("no image data returned"))
	}
	img, err := base64.StdEncoding.DecodeString(strings.TrimSpace(resp.Data[0].B64JSON))
	if err != nil || len(img) == 0 {
		return nil, apierr.Upstream(ServiceName, 0, fmt.Errorf("decode image base64: %w", err))
	}
	c.log.Debug("image generated", "size", size, "bytes", len(img), "elapsed", time.Since(start))
	return img, nil
}

func (c *Client) endpoint() string {
	if c.cfg.IsAzure() {
		q := url.Values{"api-version": {c.cfg.AzureAPIVersion}}
		return fmt.Sprintf("%s/openai/deployments/%s/images/generations?%s",
			c.cfg.AzureEndpoint, url.PathEscape(c.cfg.AzureDeployment), q.Encode())
	}
	return c.cfg.BaseURL + "/v1/images/generations"
}

// wireFormat maps the accepted "jpg" spelling to the API's "jpeg".
func wireFormat(format string) string {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "jpg", "jpeg":
		return "jpeg"
	case "":
		return "png"
	default:
		return strings.ToLower(strings.TrimSpace(format))
	}
}
