package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/yungbote/coursecards-backend/internal/modules/media"
	"github.com/yungbote/coursecards-backend/internal/platform/awss3"
	"github.com/yungbote/coursecards-backend/internal/platform/azblob"
	"github.com/yungbote/coursecards-backend/internal/platform/gcp"
	"github.com/yungbote/coursecards-backend/internal/platform/logger"
)

const (
	BackendNone        = "none"
	BackendGCS         = "gcs"
	BackendGCSEmulator = "gcs_emulator"
	BackendS3          = "s3"
	BackendAzure       = "azure"
)

type StorageProviderBootstrapErrorCode string

const (
	StorageProviderBootstrapErrorInvalidBackend StorageProviderBootstrapErrorCode = "invalid_backend"
	StorageProviderBootstrapErrorInvalidConfig  StorageProviderBootstrapErrorCode = "invalid_config"
	StorageProviderBootstrapErrorConnectFailed  StorageProviderBootstrapErrorCode = "connect_failed"
)

type StorageProviderBootstrapError struct {
	Code    StorageProviderBootstrapErrorCode
	Backend string
	Cause   error
}

func (e *StorageProviderBootstrapError) Error() string {
	if e == nil {
		return "object storage bootstrap failed"
	}
	return fmt.Sprintf("object storage bootstrap failed (code=%s backend=%q): %v", e.Code, e.Backend, e.Cause)
}

func (e *StorageProviderBootstrapError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// resolveBackend picks the backend name. An empty setting selects GCS when a
// bucket is configured and disables uploads otherwise.
func resolveBackend(cfg StorageConfig) string {
	b := strings.ToLower(strings.TrimSpace(cfg.Backend))
	if b != "" {
		return b
	}
	if cfg.GCSBucket != "" {
		return BackendGCS
	}
	return BackendNone
}

type objectStoreCloser interface {
	media.ObjectStore
	Close() error
}

// builders are swapped in tests.
var (
	newGCSStore = func(ctx context.Context, log *logger.Logger, cfg gcp.BucketConfig) (objectStoreCloser, error) {
		return gcp.NewBucketStore(ctx, log, cfg)
	}
	newS3Store = func(ctx context.Context, log *logger.Logger, cfg awss3.Config) (media.ObjectStore, error) {
		return awss3.NewStore(ctx, log, cfg)
	}
	newAzureStore = func(log *logger.Logger, cfg azblob.Config) (media.ObjectStore, error) {
		return azblob.NewStore(log, cfg)
	}
)

// resolveObjectStore builds the configured backend. The returned close func is never nil.
func resolveObjectStore(ctx context.Context, log *logger.Logger, cfg StorageConfig) (media.ObjectStore, string, func() error, error) {
	noop := func() error { return nil }
	backend := resolveBackend(cfg)
	log.Info("Selecting object storage provider", "backend", backend, "configured", cfg.Backend)

	var (
		store media.ObjectStore
		closeFn = noop
		err   error
	)
	switch backend {
	case BackendNone:
		log.Warn("object storage disabled; media store requests will fail")
		return nil, backend, noop, nil
	case BackendGCS, BackendGCSEmulator:
		mode, merr := gcp.ResolveMode(gcsModeFor(cfg, backend), cfg.StorageEmulatorHost)
		if merr != nil {
			err = merr
			break
		}
		if strings.TrimSpace(cfg.GCSBucket) == "" {
			err = invalidConfig(backend, errors.New("missing GCS_BUCKET"))
			break
		}
		var s objectStoreCloser
		s, err = newGCSStore(ctx, log, gcp.BucketConfig{
			Bucket:        cfg.GCSBucket,
			CDNDomain:     cfg.GCSCDNDomain,
			PublicBaseURL: cfg.PublicBaseURL,
			Credentials:   cfg.GCSCredentials,
			Mode:          mode,
		})
		if err == nil {
			store, closeFn = s, s.Close
		}
	case BackendS3:
		s3cfg := awss3.Config{
			Bucket:          cfg.S3Bucket,
			Region:          cfg.S3Region,
			Endpoint:        cfg.S3Endpoint,
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretAccessKey,
			PublicBaseURL:   cfg.PublicBaseURL,
			UsePathStyle:    cfg.S3UsePathStyle,
		}
		if verr := s3cfg.Validate(); verr != nil {
			err = invalidConfig(backend, verr)
			break
		}
		store, err = newS3Store(ctx, log, s3cfg)
	case BackendAzure:
		azcfg := azblob.Config{
			Container:        cfg.AzureContainer,
			ConnectionString: cfg.AzureConnectionString,
			AccountName:      cfg.AzureAccountName,
			AccountKey:       cfg.AzureAccountKey,
			ServiceURL:       cfg.AzureServiceURL,
			PublicBaseURL:    cfg.PublicBaseURL,
		}
		if verr := azcfg.Validate(); verr != nil {
			err = invalidConfig(backend, verr)
			break
		}
		store, err = newAzureStore(log, azcfg)
	default:
		err = &StorageProviderBootstrapError{
			Code:    StorageProviderBootstrapErrorInvalidBackend,
			Backend: backend,
			Cause:   fmt.Errorf("allowed: %s, %s, %s, %s", BackendGCS, BackendGCSEmulator, BackendS3, BackendAzure),
		}
	}
	if err != nil {
		classified := classifyStorageProviderBootstrapError(backend, err)
		log.Error("Object storage provider bootstrap failed", "backend", backend, "error", classified)
		return nil, backend, noop, classified
	}
	return store, backend, closeFn, nil
}

func gcsModeFor(cfg StorageConfig, backend string) string {
	if backend == BackendGCSEmulator {
		return string(gcp.ModeGCSEmulator)
	}
	if strings.TrimSpace(cfg.Backend) == "" {
		// Unset backend keeps the emulator fallback on STORAGE_EMULATOR_HOST.
		return ""
	}
	return string(gcp.ModeGCS)
}

func invalidConfig(backend string, err error) error {
	return &StorageProviderBootstrapError{Code: StorageProviderBootstrapErrorInvalidConfig, Backend: backend, Cause: err}
}

func classifyStorageProviderBootstrapError(backend string, err error) error {
	var already *StorageProviderBootstrapError
	if errors.As(err, &already) {
		return err
	}
	var modeErr *gcp.ModeError
	if errors.As(err, &modeErr) {
		return invalidConfig(backend, err)
	}
	return &StorageProviderBootstrapError{Code: StorageProviderBootstrapErrorConnectFailed, Backend: backend, Cause: err}
}
