package services

import (
	"context"

	"github.com/yungbote/coursecards-backend/internal/domain"
	"github.com/yungbote/coursecards-backend/internal/modules/media"
	"github.com/yungbote/coursecards-backend/internal/platform/logger"
)

// MediaService exposes each media stage as its own call. A caller stores the
// bytes returned by a synthesis call with a separate Store call.
type MediaService interface {
	Speech(ctx context.Context, text string) ([]byte, error)
	Image(ctx context.Context, spec media.ImageSpec) ([]byte, error)
	AudioBackground(ctx context.Context, prompt string, format domain.ImageFormat) ([]byte, error)
	Store(ctx context.Context, in StoreInput) (*media.Result, error)
}

type StoreInput struct {
	Data       []byte
	Kind       domain.MediaKind
	Title      string
	SourceText string
}

type mediaService struct {
	log      *logger.Logger
	pipeline *media.Pipeline
}

func NewMediaService(baseLog *logger.Logger, p *media.Pipeline) MediaService {
	return &mediaService{log: baseLog.With("service", "MediaService"), pipeline: p}
}

func (s *mediaService) Speech(ctx context.Context, text string) ([]byte, error) {
	audio, err := s.pipeline.SynthesizeSpeech(ctx, text)
	if err != nil {
		return nil, err
	}
	s.log.For(ctx).Info("speech synthesized", "chars", len(text), "bytes", len(audio))
	return audio, nil
}

func (s *mediaService) Image(ctx context.Context, spec media.ImageSpec) ([]byte, error) {
	img, err := s.pipeline.SynthesizeImage(ctx, spec)
	if err != nil {
		return nil, err
	}
	s.log.For(ctx).Info("image synthesized", "size", spec.Size, "aspect", spec.Aspect, "bytes", len(img))
	return img, nil
}

func (s *mediaService) AudioBackground(ctx context.Context, prompt string, format domain.ImageFormat) ([]byte, error) {
	return s.Image(ctx, media.BackgroundSpec(prompt, format))
}

func (s *mediaService) Store(ctx context.Context, in StoreInput) (*media.Result, error) {
	return s.pipeline.OptimizeAndStore(ctx, in.Data, in.Kind, in.Title, in.SourceText)
}
