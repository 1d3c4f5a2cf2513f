// Package azblob stores media objects in an Azure Blob Storage container.
package azblob

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/blob"

	"github.com/yungbote/coursecards-backend/internal/platform/httpx"
	"github.com/yungbote/coursecards-backend/internal/platform/logger"
)

type Config struct {
	Container string
	// ConnectionString wins over AccountName/AccountKey when set.
	ConnectionString string
	AccountName      string
	AccountKey       string
	// ServiceURL defaults to https://<account>.blob.core.windows.net/.
	ServiceURL    string
	PublicBaseURL string
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.Container) == "" {
		return errors.New("missing Azure blob container")
	}
	if c.ConnectionString == "" && (c.AccountName == "" || c.AccountKey == "") {
		return errors.New("azure blob needs a connection string or account name and key")
	}
	if c.PublicBaseURL != "" {
		if u, err := url.Parse(c.PublicBaseURL); err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("invalid Azure public base url %q", c.PublicBaseURL)
		}
	}
	return nil
}

func (c Config) serviceURL() string {
	if c.ServiceURL != "" {
		return c.ServiceURL
	}
	return fmt.Sprintf("https://%s.blob.core.windows.net/", c.AccountName)
}

type uploader interface {
	UploadBuffer(ctx context.Context, containerName, blobName string, buffer []byte, o *azblob.UploadBufferOptions) (azblob.UploadBufferResponse, error)
	URL() string
}

type Store struct {
	log       *logger.Logger
	client    uploader
	container string
	baseURL   string
}

func NewStore(log *logger.Logger, cfg Config) (*Store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	var (
		client *azblob.Client
		err    error
	)
	if cfg.ConnectionString != "" {
		client, err = azblob.NewClientFromConnectionString(cfg.ConnectionString, nil)
	} else {
		var cred *azblob.SharedKeyCredential
		cred, err = azblob.NewSharedKeyCredential(cfg.AccountName, cfg.AccountKey)
		if err == nil {
			client, err = azblob.NewClientWithSharedKeyCredential(cfg.serviceURL(), cred, nil)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("create azure blob client: %w", err)
	}
	log = log.With("store", "AzureBlob")
	log.Info("object storage initialized", "container", cfg.Container, "service_url", client.URL())
	return newStore(log, client, cfg), nil
}

func newStore(log *logger.Logger, client uploader, cfg Config) *Store {
	base := strings.TrimRight(strings.TrimSpace(cfg.PublicBaseURL), "/")
	if base == "" {
		base = strings.TrimRight(client.URL(), "/") + "/" + url.PathEscape(cfg.Container)
	}
	return &Store{log: log, client: client, container: cfg.Container, baseURL: base}
}

// Put uploads data as a block blob. IfNoneMatch "*" refuses to replace an existing blob.
func (s *Store) Put(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	key = strings.TrimLeft(strings.TrimSpace(key), "/")
	_, err := s.client.UploadBuffer(ctx, s.container, key, data, &azblob.UploadBufferOptions{
		HTTPHeaders: &blob.HTTPHeaders{BlobContentType: to.Ptr(contentType)},
		AccessConditions: &blob.AccessConditions{
			ModifiedAccessConditions: &blob.ModifiedAccessConditions{IfNoneMatch: to.Ptr(azcore.ETagAny)},
		},
	})
	if err != nil {
		return "", fmt.Errorf("upload azure blob %q: %w", key, withStatus(err))
	}
	s.log.Debug("object stored", "key", key, "bytes", len(data))
	return s.PublicURL(key), nil
}

func withStatus(err error) error {
	var re *azcore.ResponseError
	if errors.As(err, &re) {
		return &httpx.StatusError{StatusCode: re.StatusCode, Body: re.Error()}
	}
	return err
}

func (s *Store) PublicURL(key string) string {
	return s.baseURL + "/" + strings.TrimLeft(strings.TrimSpace(key), "/")
}
