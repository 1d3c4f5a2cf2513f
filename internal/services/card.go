package services

import (
	"context"
	"strings"

	"github.com/yungbote/coursecards-backend/internal/domain"
	"github.com/yungbote/coursecards-backend/internal/modules/cards/builder"
	"github.com/yungbote/coursecards-backend/internal/modules/cards/merge"
	"github.com/yungbote/coursecards-backend/internal/platform/apierr"
	"github.com/yungbote/coursecards-backend/internal/platform/logger"
)

type CardService interface {
	// Build validates and assembles a createCard payload without sending it.
	Build(ct domain.CardType, f builder.Fields) (domain.CardCreate, error)
	Create(ctx context.Context, courseID string, ct domain.CardType, f builder.Fields) (*domain.Card, error)
	GetCard(ctx context.Context, id string) (*domain.Card, error)
	// PreviewUpdate returns the merged update that Update would send.
	PreviewUpdate(ctx context.Context, id string, u merge.Update) (domain.CardUpdate, error)
	Update(ctx context.Context, id string, u merge.Update) (*domain.Card, error)
}

type cardService struct {
	log     *logger.Logger
	api     CourseAPI
	builder *builder.Builder
	merge   *merge.Engine
}

func NewCardService(baseLog *logger.Logger, api CourseAPI, b *builder.Builder) CardService {
	return &cardService{
		log:     baseLog.With("service", "CardService"),
		api:     api,
		builder: b,
		merge:   merge.NewEngine(api),
	}
}

func (s *cardService) Build(ct domain.CardType, f builder.Fields) (domain.CardCreate, error) {
	return s.builder.Build(ct, f)
}

func (s *cardService) Create(ctx context.Context, courseID string, ct domain.CardType, f builder.Fields) (*domain.Card, error) {
	if id := strings.TrimSpace(courseID); id != "" {
		f.CourseID = id
	}
	if strings.TrimSpace(f.CourseID) == "" {
		return nil, apierr.Validation("missing_course_id", "course id required")
	}
	payload, err := s.builder.Build(ct, f)
	if err != nil {
		return nil, err
	}
	card, err := s.api.CreateCard(ctx, payload)
	if err != nil {
		return nil, err
	}
	s.log.For(ctx).Info("card created", "course_id", payload.CourseID, "card_id", card.ID, "card_type", ct)
	return card, nil
}

func (s *cardService) GetCard(ctx context.Context, id string) (*domain.Card, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apierr.Validation("missing_card_id", "card id required")
	}
	return s.api.GetCard(ctx, id)
}

func (s *cardService) PreviewUpdate(ctx context.Context, id string, u merge.Update) (domain.CardUpdate, error) {
	return s.merge.Plan(ctx, strings.TrimSpace(id), u)
}

func (s *cardService) Update(ctx context.Context, id string, u merge.Update) (*domain.Card, error) {
	card, sent, err := s.merge.Apply(ctx, strings.TrimSpace(id), u)
	if err != nil {
		return nil, err
	}
	s.log.For(ctx).Info("card updated", "card_id", id, "contents", sent.Contents != nil, "card_type_changed", sent.CardType != nil)
	return card, nil
}
