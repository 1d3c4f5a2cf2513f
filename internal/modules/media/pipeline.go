// Package media holds the two independently invoked media stages: synthesis of
// raw bytes and optimize-and-store. No call here chains both.
package media

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/yungbote/coursecards-backend/internal/domain"
	"github.com/yungbote/coursecards-backend/internal/modules/cards/schema"
	"github.com/yungbote/coursecards-backend/internal/pkg/stamp"
	"github.com/yungbote/coursecards-backend/internal/platform/apierr"
	"github.com/yungbote/coursecards-backend/internal/platform/httpx"
	"github.com/yungbote/coursecards-backend/internal/platform/logger"
)

const (
	ServiceSpeech = "speech"
	ServiceImage  = "image"
	ServiceStore  = "object-store"
)

type SpeechSynthesizer interface {
	Synthesize(ctx context.Context, text string) ([]byte, error)
}

type ImageGenerator interface {
	GenerateImage(ctx context.Context, prompt, size, format string) ([]byte, error)
}

// ObjectStore writes data under key without overwriting and returns its public URL.
type ObjectStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)
}

type Config struct {
	WebPQuality   float32
	UploadTimeout time.Duration
}

type Pipeline struct {
	log    *logger.Logger
	speech SpeechSynthesizer
	images ImageGenerator
	store  ObjectStore
	stamp  *stamp.Stamper
	cfg    Config
}

func NewPipeline(log *logger.Logger, speech SpeechSynthesizer, images ImageGenerator, store ObjectStore, st *stamp.Stamper, cfg Config) *Pipeline {
	if cfg.WebPQuality <= 0 {
		cfg.WebPQuality = DefaultWebPQuality
	}
	if cfg.UploadTimeout <= 0 {
		cfg.UploadTimeout = 60 * time.Second
	}
	return &Pipeline{
		log:    log.With("component", "MediaPipeline"),
		speech: speech,
		images: images,
		store:  store,
		stamp:  st,
		cfg:    cfg,
	}
}

// SynthesizeSpeech returns the speech service's audio bytes untouched.
func (p *Pipeline) SynthesizeSpeech(ctx context.Context, text string) ([]byte, error) {
	if strings.TrimSpace(text) == "" {
		return nil, apierr.Validation("missing_text", "text required")
	}
	if p.speech == nil {
		return nil, apierr.New(http.StatusServiceUnavailable, "speech_unconfigured", errNotConfigured(ServiceSpeech))
	}
	start := time.Now()
	audio, err := p.speech.Synthesize(ctx, text)
	if err != nil {
		p.log.Warn("speech synthesis failed", "error", err, "elapsed", time.Since(start))
		return nil, upstream(ServiceSpeech, err)
	}
	p.log.Debug("speech synthesized", "bytes", len(audio), "elapsed", time.Since(start))
	return audio, nil
}

type ImageSpec struct {
	Prompt string             `json:"prompt"`
	Size   string             `json:"size,omitempty"`
	Format domain.ImageFormat `json:"format,omitempty"`
	Aspect domain.AspectRatio `json:"aspect,omitempty"`
}

// Normalize fills defaults and validates. An explicit size wins over Aspect.
func (s ImageSpec) Normalize() (ImageSpec, error) {
	s.Prompt = strings.TrimSpace(s.Prompt)
	if s.Prompt == "" {
		return s, apierr.Validation("missing_prompt", "prompt required")
	}
	s.Size = strings.TrimSpace(s.Size)
	if s.Size == "" {
		switch s.Aspect {
		case "", domain.AspectSquare, domain.AspectPortrait, domain.AspectLandscape:
			s.Size = domain.SizeForAspect(s.Aspect)
		default:
			return s, apierr.Validation(schema.CodeInvalidImageSize, "aspect %q must be square, portrait or landscape", s.Aspect)
		}
	}
	if err := schema.ValidateImageSize(s.Size); err != nil {
		return s, err
	}
	s.Format = domain.ImageFormat(strings.ToLower(strings.TrimSpace(string(s.Format))))
	if s.Format == "" {
		s.Format = domain.DefaultImageFormat
	}
	if err := schema.ValidateImageFormat(s.Format); err != nil {
		return s, err
	}
	return s, nil
}

// BackgroundSpec is the image request for an audio card background. It is
// always portrait.
func BackgroundSpec(prompt string, format domain.ImageFormat) ImageSpec {
	return ImageSpec{Prompt: prompt, Size: domain.AudioBackgroundSize, Format: format}
}

func (p *Pipeline) SynthesizeImage(ctx context.Context, spec ImageSpec) ([]byte, error) {
	spec, err := spec.Normalize()
	if err != nil {
		return nil, err
	}
	if p.images == nil {
		return nil, apierr.New(http.StatusServiceUnavailable, "image_unconfigured", errNotConfigured(ServiceImage))
	}
	start := time.Now()
	img, err := p.images.GenerateImage(ctx, spec.Prompt, spec.Size, string(spec.Format))
	if err != nil {
		p.log.Warn("image synthesis failed", "error", err, "size", spec.Size, "elapsed", time.Since(start))
		return nil, upstream(ServiceImage, err)
	}
	p.log.Debug("image synthesized", "bytes", len(img), "size", spec.Size, "elapsed", time.Since(start))
	return img, nil
}

// OptimizeAndStore transforms data for kind, uploads it under a fresh key and
// returns the URL with the caller's text to carry into card creation. Nothing
// is uploaded when the transformation fails.
func (p *Pipeline) OptimizeAndStore(ctx context.Context, data []byte, kind domain.MediaKind, title, sourceText string) (*Result, error) {
	if len(data) == 0 {
		return nil, apierr.Validation("missing_data", "media data required")
	}
	if strings.TrimSpace(title) == "" {
		return nil, apierr.Validation("missing_title", "title required")
	}
	var (
		body        []byte
		folder, ext string
		contentType string
	)
	switch kind {
	case domain.MediaKindAudio:
		body, folder, ext, contentType = data, FolderAudio, "mp3", "audio/mpeg"
	case domain.MediaKindImage:
		optimized, err := Optimize(data, p.cfg.WebPQuality)
		if err != nil {
			return nil, apierr.Transformation("image_transform_failed", err)
		}
		body, folder, ext, contentType = optimized, FolderImages, "webp", "image/webp"
	default:
		return nil, apierr.Validation("invalid_media_kind", "media kind %q must be audio or image", kind)
	}
	if p.store == nil {
		return nil, apierr.New(http.StatusServiceUnavailable, "store_unconfigured", errNotConfigured(ServiceStore))
	}

	key := ObjectKey(folder, title, p.stamp.Suffix(), ext)
	uctx, cancel := context.WithTimeout(ctx, p.cfg.UploadTimeout)
	defer cancel()
	url, err := p.store.Put(uctx, key, body, contentType)
	if err != nil {
		p.log.Warn("media upload failed", "key", key, "error", err)
		return nil, upstream(ServiceStore, err)
	}
	p.log.Info("media stored", "key", key, "kind", kind, "bytes", len(body))
	return NewResult(kind, url, sourceText), nil
}

func upstream(service string, err error) error {
	if _, ok := apierr.As(err); ok {
		return err
	}
	return apierr.Upstream(service, httpx.StatusCodeOf(err), err)
}
