// Package awss3 stores media objects in an S3 (or S3-compatible) bucket.
package awss3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"

	"github.com/yungbote/coursecards-backend/internal/platform/httpx"
	"github.com/yungbote/coursecards-backend/internal/platform/logger"
)

type Config struct {
	Bucket string
	Region string
	// Endpoint points the client at an S3-compatible service such as MinIO.
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	PublicBaseURL   string
	UsePathStyle    bool
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.Bucket) == "" {
		return errors.New("missing S3 bucket name")
	}
	if strings.TrimSpace(c.Region) == "" {
		return errors.New("missing S3 region")
	}
	if (c.AccessKeyID == "") != (c.SecretAccessKey == "") {
		return errors.New("S3 access key id and secret must be set together")
	}
	if err := checkAbsURL("endpoint", c.Endpoint); err != nil {
		return err
	}
	return checkAbsURL("public base url", c.PublicBaseURL)
}

func checkAbsURL(name, raw string) error {
	if raw == "" {
		return nil
	}
	if u, err := url.Parse(raw); err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid S3 %s %q", name, raw)
	}
	return nil
}

type putter interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Store writes each object once; PutObject carries If-None-Match: *.
type Store struct {
	log    *logger.Logger
	client putter
	cfg    Config
}

func NewStore(ctx context.Context, log *logger.Logger, cfg Config) (*Store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	opts := []func(*awsConfig.LoadOptions) error{awsConfig.WithRegion(cfg.Region)}
	if cfg.AccessKeyID != "" {
		opts = append(opts, awsConfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}
	awsCfg, err := awsConfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(strings.TrimRight(cfg.Endpoint, "/"))
		}
		o.UsePathStyle = cfg.UsePathStyle
	})
	log = log.With("store", "S3Bucket")
	log.Info("object storage initialized",
		"bucket", cfg.Bucket,
		"region", cfg.Region,
		"endpoint", cfg.Endpoint,
		"path_style", cfg.UsePathStyle,
	)
	return newStore(log, client, cfg), nil
}

func newStore(log *logger.Logger, client putter, cfg Config) *Store {
	cfg.Endpoint = strings.TrimRight(strings.TrimSpace(cfg.Endpoint), "/")
	cfg.PublicBaseURL = strings.TrimRight(strings.TrimSpace(cfg.PublicBaseURL), "/")
	return &Store{log: log, client: client, cfg: cfg}
}

func (s *Store) Put(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	key = strings.TrimLeft(strings.TrimSpace(key), "/")
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.cfg.Bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String(contentType),
		IfNoneMatch:   aws.String("*"),
	})
	if err != nil {
		return "", fmt.Errorf("put s3 object %q: %w", key, withStatus(err))
	}
	s.log.Debug("object stored", "key", key, "bytes", len(data))
	return s.PublicURL(key), nil
}

// withStatus exposes the HTTP status of an SDK response error to httpx.StatusCodeOf.
func withStatus(err error) error {
	var sc httpx.HTTPStatusCoder
	if !errors.As(err, &sc) {
		return err
	}
	msg := err.Error()
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		msg = apiErr.ErrorCode() + ": " + apiErr.ErrorMessage()
	}
	return &httpx.StatusError{StatusCode: sc.HTTPStatusCode(), Body: msg}
}

func (s *Store) PublicURL(key string) string {
	key = strings.TrimLeft(strings.TrimSpace(key), "/")
	switch {
	case s.cfg.PublicBaseURL != "":
		return fmt.Sprintf("%s/%s", s.cfg.PublicBaseURL, key)
	case s.cfg.Endpoint != "" && s.cfg.UsePathStyle:
		return fmt.Sprintf("%s/%s/%s", s.cfg.Endpoint, s.cfg.Bucket, key)
	case s.cfg.Endpoint != "":
		u, err := url.Parse(s.cfg.Endpoint)
		if err != nil {
			return fmt.Sprintf("%s/%s/%s", s.cfg.Endpoint, s.cfg.Bucket, key)
		}
		return fmt.Sprintf("%s://%s.%s/%s", u.Scheme, s.cfg.Bucket, u.Host, key)
	default:
		return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.cfg.Bucket, s.cfg.Region, key)
	}
}
