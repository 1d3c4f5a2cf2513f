// Package courseapi is the client for the remote Course API. Every call is a
// single authenticated request; nothing is retried.
package courseapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/yungbote/coursecards-backend/internal/domain"
	"github.com/yungbote/coursecards-backend/internal/platform/apierr"
	"github.com/yungbote/coursecards-backend/internal/platform/ctxutil"
	"github.com/yungbote/coursecards-backend/internal/platform/httpx"
	"github.com/yungbote/coursecards-backend/internal/platform/logger"
)

const (
	ServiceName    = "course-api"
	DefaultTimeout = 30 * time.Second
)

type Config struct {
	BaseURL string
	Token   string
	Timeout time.Duration
}

type Client struct {
	log        *logger.Logger
	baseURL    string
	token      string
	httpClient *http.Client
}

func NewClient(log *logger.Logger, cfg Config) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	u, err := url.Parse(base)
	if base == "" || err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid course api base url %q", cfg.BaseURL)
	}
	if strings.TrimSpace(cfg.Token) == "" {
		return nil, errors.New("missing course api token")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	return &Client{
		log:        log.With("client", "CourseAPI"),
		baseURL:    base,
		token:      cfg.Token,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}, nil
}

func (c *Client) GetCourse(ctx context.Context, id string) (*domain.Course, error) {
	var out domain.Course
	if err := c.do(ctx, http.MethodGet, "/api/course?id="+url.QueryEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateCourse(ctx context.Context, course domain.Course) (*domain.Course, error) {
	var out domain.Course
	if err := c.do(ctx, http.MethodPost, "/api/createCourse", course, &out); err != nil {
		return nil, err
	}
	if out.ID == "" {
		out = course
	}
	return &out, nil
}

func (c *Client) ListCards(ctx context.Context, courseID string) ([]domain.Card, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, "/api/courses/"+url.PathEscape(courseID)+"/cards", nil, &raw); err != nil {
		return nil, err
	}
	cards, err := decodeCardList(raw)
	if err != nil {
		return nil, apierr.Upstream(ServiceName, 0, err)
	}
	return cards, nil
}

func (c *Client) GetCard(ctx context.Context, id string) (*domain.Card, error) {
	var out domain.Card
	if err := c.do(ctx, http.MethodGet, "/api/card/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateCard(ctx context.Context, card domain.CardCreate) (*domain.Card, error) {
	var out domain.Card
	if err := c.do(ctx, http.MethodPost, "/api/createCard", card, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateCard(ctx context.Context, id string, u domain.CardUpdate) (*domain.Card, error) {
	var out domain.Card
	if err := c.do(ctx, http.MethodPut, "/api/card/"+url.PathEscape(id), u, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// decodeCardList accepts a bare array or an object wrapping it under "cards" or "data".
func decodeCardList(raw json.RawMessage) ([]domain.Card, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return []domain.Card{}, nil
	}
	var cards []domain.Card
	if raw[0] == '[' {
		if err := json.Unmarshal(raw, &cards); err != nil {
			return nil, fmt.Errorf("decode cards: %w", err)
		}
		return cards, nil
	}
	var wrapped struct {
		Cards []domain.Card `json:"cards"`
		Data  []domain.Card `json:"data"`
	}
	if err := json.Unmarshal(raw, &wrapped); err != nil {
		return nil, fmt.Errorf("decode cards: %w", err)
	}
	if wrapped.Cards != nil {
		return wrapped.Cards, nil
	}
	if wrapped.Data != nil {
		return wrapped.Data, nil
	}
	return []domain.Card{}, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	req, err := httpx.NewJSONRequest(ctx, method, c.baseURL+path, body)
	if err != nil {
		return apierr.New(http.StatusInternalServerError, "request_build_failed", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	if rid := ctxutil.RequestID(ctx); rid != "" {
		req.Header.Set("X-Request-ID", rid)
	}

	start := time.Now()
	raw, err := httpx.Do(c.httpClient, req, httpx.DefaultMaxBody)
	if err != nil {
		status := httpx.StatusCodeOf(err)
		c.log.Warn("course api request failed",
			"method", method,
			"path", path,
			"status", status,
			"error", err,
			"elapsed", time.Since(start),
		)
		return apierr.Upstream(ServiceName, status, err)
	}
	c.log.Debug("course api request", "method", method, "path", path, "elapsed", time.Since(start))
	// Writes may answer 204; reads must carry the resource.
	if method != http.MethodGet && len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := httpx.DecodeJSON(raw, out); err != nil {
		return apierr.Upstream(ServiceName, 0, err)
	}
	return nil
}
