package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/yungbote/coursecards-backend/internal/modules/media"
	"github.com/yungbote/coursecards-backend/internal/platform/courseapi"
	"github.com/yungbote/coursecards-backend/internal/platform/elevenlabs"
	"github.com/yungbote/coursecards-backend/internal/platform/logger"
	"github.com/yungbote/coursecards-backend/internal/platform/openai"
)

// Clients are the raw upstream clients. Speech, Images and Store are nil when
// their configuration is absent.
type Clients struct {
	CourseAPI *courseapi.Client
	Speech    media.SpeechSynthesizer
	Images    media.ImageGenerator
	Store     media.ObjectStore
	Backend   string

	closeStore func() error
}

func (c *Clients) Close() error {
	if c == nil || c.closeStore == nil {
		return nil
	}
	return c.closeStore()
}

func wireClients(ctx context.Context, log *logger.Logger, cfg Config) (Clients, error) {
	log.Info("Wiring clients...")

	// Course API
	api, err := courseapi.NewClient(log, cfg.CourseAPI)
	if err != nil {
		return Clients{}, fmt.Errorf("init course api client: %w", err)
	}

	out, err := wireMediaClients(ctx, log, cfg)
	if err != nil {
		return Clients{}, err
	}
	out.CourseAPI = api
	return out, nil
}

// wireMediaClients builds only what the media stages need. The CLI uses it
// without a course api.
func wireMediaClients(ctx context.Context, log *logger.Logger, cfg Config) (Clients, error) {
	var out Clients

	// Speech
	if strings.TrimSpace(cfg.Speech.APIKey) != "" {
		sp, err := elevenlabs.NewClient(log, cfg.Speech)
		if err != nil {
			return Clients{}, fmt.Errorf("init speech client: %w", err)
		}
		out.Speech = sp
	} else {
		log.Warn("ELEVENLABS_API_KEY not set; speech synthesis disabled")
	}

	// Images
	if strings.TrimSpace(cfg.Image.APIKey) != "" {
		im, err := openai.NewClient(log, cfg.Image)
		if err != nil {
			return Clients{}, fmt.Errorf("init image client: %w", err)
		}
		out.Images = im
	} else {
		log.Warn("image api key not set; image synthesis disabled")
	}

	// Object storage
	store, backend, closeStore, err := resolveObjectStore(ctx, log, cfg.Storage)
	if err != nil {
		return Clients{}, err
	}
	out.Store, out.Backend, out.closeStore = store, backend, closeStore
	return out, nil
}

var errNoCourseAPI = errors.New("course api client not wired")
