// Package elevenlabs is a minimal text-to-speech client.
package elevenlabs

import (
	"context"
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
	ServiceName = "speech"

	DefaultBaseURL = "https://api.elevenlabs.io"
	DefaultVoiceID = "21m00Tcm4TlvDq8ikWAM"
	DefaultModelID = "eleven_v3"
	DefaultTimeout = 60 * time.Second
)

// VoiceSettings are fixed for the life of the process.
type VoiceSettings struct {
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarity_boost"`
	Style           float64 `json:"style"`
	UseSpeakerBoost bool    `json:"use_speaker_boost"`
}

func DefaultVoiceSettings() VoiceSettings {
	return VoiceSettings{Stability: 0.5, SimilarityBoost: 0.5, Style: 0.0, UseSpeakerBoost: true}
}

type Config struct {
	APIKey  string
	BaseURL string
	VoiceID string
	ModelID string
	Voice   VoiceSettings
	Timeout time.Duration
}

type Client struct {
	log        *logger.Logger
	cfg        Config
	httpClient *http.Client
}

func NewClient(log *logger.Logger, cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.New("missing elevenlabs api key")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.VoiceID == "" {
		cfg.VoiceID = DefaultVoiceID
	}
	if cfg.ModelID == "" {
		cfg.ModelID = DefaultModelID
	}
	if cfg.Voice == (VoiceSettings{}) {
		cfg.Voice = DefaultVoiceSettings()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	return &Client{
		log:        log.With("client", "SpeechService"),
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}, nil
}

type ttsRequest struct {
	Text          string        `json:"text"`
	ModelID       string        `json:"model_id"`
	VoiceSettings VoiceSettings `json:"voice_settings"`
}

// Synthesize returns mp3 bytes exactly as the service produced them.
func (c *Client) Synthesize(ctx context.Context, text string) ([]byte, error) {
	endpoint := fmt.Sprintf("%s/v1/text-to-speech/%s", c.cfg.BaseURL, url.PathEscape(c.cfg.VoiceID))
	req, err := httpx.NewJSONRequest(ctx, http.MethodPost, endpoint, ttsRequest{
		Text:          text,
		ModelID:       c.cfg.ModelID,
		VoiceSettings: c.cfg.Voice,
	})
	if err != nil {
		return nil, err
	}
	req.Header.Set("xi-api-key", c.cfg.APIKey)
	req.Header.Set("Accept", "audio/mpeg")

	start := time.Now()
	audio, err := httpx.Do(c.httpClient, req, httpx.DefaultMaxBody)
	if err != nil {
		c.log.Warn("text-to-speech failed", "voice_id", c.cfg.VoiceID, "error", err, "elapsed", time.Since(start))
		return nil, apierr.Upstream(ServiceName, httpx.StatusCodeOf(err), err)
	}
	if len(audio) == 0 {
		return nil, apierr.Upstream(ServiceName, 0, errors.New("empty audio response"))
	}
	c.log.Debug("text-to-speech done", "chars", len(text), "bytes", len(audio), "elapsed", time.Since(start))
	return audio, nil
}
