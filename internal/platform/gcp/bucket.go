// Package gcp stores media objects in a Google Cloud Storage bucket.
package gcp

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"

	"cloud.google.com/go/storage"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/yungbote/coursecards-backend/internal/platform/httpx"
	"github.com/yungbote/coursecards-backend/internal/platform/logger"
)

type BucketConfig struct {
	Bucket string
	// CDNDomain, when set, serves public URLs as https://<domain>/<key>.
	CDNDomain string
	// PublicBaseURL overrides https://storage.googleapis.com for path-style URLs.
	PublicBaseURL string
	Credentials   string
	Mode          ModeConfig
}

// BucketStore writes each object once. Keys are never overwritten.
type BucketStore struct {
	log           *logger.Logger
	client        *storage.Client
	bucket        string
	cdnDomain     string
	publicBaseURL string
	mode          ModeConfig
}

func NewBucketStore(ctx context.Context, log *logger.Logger, cfg BucketConfig) (*BucketStore, error) {
	if strings.TrimSpace(cfg.Bucket) == "" {
		return nil, errors.New("missing GCS bucket name")
	}
	if err := cfg.Mode.Validate(); err != nil {
		return nil, fmt.Errorf("validate gcs mode: %w", err)
	}
	base, baseSource, err := resolvePublicBaseURL(cfg.PublicBaseURL, cfg.Mode)
	if err != nil {
		return nil, err
	}
	client, err := newStorageClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}
	log = log.With("store", "GCSBucket")
	log.Info("object storage initialized",
		"mode", cfg.Mode.Mode,
		"mode_source", cfg.Mode.Source(),
		"bucket", cfg.Bucket,
		"public_base_source", baseSource,
		"public_base_url", base,
	)
	return &BucketStore{
		log:           log,
		client:        client,
		bucket:        cfg.Bucket,
		cdnDomain:     strings.TrimSpace(cfg.CDNDomain),
		publicBaseURL: base,
		mode:          cfg.Mode,
	}, nil
}

func newStorageClient(ctx context.Context, cfg BucketConfig) (*storage.Client, error) {
	if cfg.Mode.IsEmulator() {
		// The storage client only honours the emulator through this variable.
		_ = os.Setenv("STORAGE_EMULATOR_HOST", cfg.Mode.EmulatorHost)
		return storage.NewClient(ctx, option.WithoutAuthentication())
	}
	opts := append(ClientOptions(cfg.Credentials), option.WithScopes(storage.ScopeReadWrite))
	return storage.NewClient(ctx, opts...)
}

func resolvePublicBaseURL(raw string, mode ModeConfig) (baseURL, source string, err error) {
	raw = strings.TrimSpace(raw)
	if raw != "" {
		u, perr := url.Parse(raw)
		if perr != nil || u.Scheme == "" || u.Host == "" {
			return "", "", fmt.Errorf("invalid object storage public base url %q; expected absolute URL like http://localhost:4443", raw)
		}
		return strings.TrimRight(raw, "/"), "object_storage_public_base_url", nil
	}
	if mode.IsEmulator() {
		return mode.EmulatorHost, "storage_emulator_host", nil
	}
	return "", "gcs_default", nil
}

// Put uploads data under key with a does-not-exist precondition.
func (s *BucketStore) Put(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	key = strings.TrimLeft(strings.TrimSpace(key), "/")
	obj := s.client.Bucket(s.bucket).Object(key).If(storage.Conditions{DoesNotExist: true})
	w := obj.NewWriter(ctx)
	w.ContentType = contentType
	if w.ContentType == "" {
		w.ContentType = ContentTypeForKey(key)
	}
	if _, err := io.Copy(w, bytes.NewReader(data)); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("write gcs object %q: %w", key, withStatus(err))
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("close gcs object %q: %w", key, withStatus(err))
	}
	return s.PublicURL(key), nil
}

// withStatus exposes the HTTP status of a googleapi error to httpx.StatusCodeOf.
func withStatus(err error) error {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		return &httpx.StatusError{StatusCode: gerr.Code, Body: gerr.Message}
	}
	return err
}

func (s *BucketStore) PublicURL(key string) string {
	key = strings.TrimLeft(strings.TrimSpace(key), "/")
	if s.cdnDomain != "" {
		return fmt.Sprintf("https://%s/%s", s.cdnDomain, key)
	}
	if s.mode.IsEmulator() {
		base := s.publicBaseURL
		if base == "" {
			base = s.mode.EmulatorHost
		}
		return fmt.Sprintf("%s/storage/v1/b/%s/o/%s?alt=media", base, url.PathEscape(s.bucket), url.PathEscape(key))
	}
	if s.publicBaseURL != "" {
		return fmt.Sprintf("%s/%s/%s", s.publicBaseURL, s.bucket, key)
	}
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", s.bucket, key)
}

func (s *BucketStore) Close() error {
	return s.client.Close()
}

func ContentTypeForKey(key string) string {
	k := strings.ToLower(strings.TrimSpace(key))
	if i := strings.Index(k, "?"); i >= 0 {
		k = k[:i]
	}
	switch {
	case strings.HasSuffix(k, ".mp3"):
		return "audio/mpeg"
	case strings.HasSuffix(k, ".webp"):
		return "image/webp"
	case strings.HasSuffix(k, ".png"):
		return "image/png"
	case strings.HasSuffix(k, ".jpg"), strings.HasSuffix(k, ".jpeg"):
		return "image/jpeg"
	default:
		return "application/octet-stream"
	}
}
