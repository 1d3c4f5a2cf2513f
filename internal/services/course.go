package services

import (
	"context"
	"sort"
	"strings"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"

	"github.com/yungbote/coursecards-backend/internal/domain"
	"github.com/yungbote/coursecards-backend/internal/pkg/stamp"
	"github.com/yungbote/coursecards-backend/internal/platform/apierr"
	"github.com/yungbote/coursecards-backend/internal/platform/logger"
)

// CourseAPI is the remote course/card store. Every method is one outbound call.
type CourseAPI interface {
	GetCourse(ctx context.Context, id string) (*domain.Course, error)
	CreateCourse(ctx context.Context, course domain.Course) (*domain.Course, error)
	ListCards(ctx context.Context, courseID string) ([]domain.Card, error)
	GetCard(ctx context.Context, id string) (*domain.Card, error)
	CreateCard(ctx context.Context, card domain.CardCreate) (*domain.Card, error)
	UpdateCard(ctx context.Context, id string, u domain.CardUpdate) (*domain.Card, error)
}

// CourseInput is what a caller may set on a new course. ID, companyId and
// createdByAgent are always stamped by the service.
type CourseInput struct {
	Title               string `json:"title"`
	Duration            int    `json:"duration,omitempty"`
	Description         string `json:"description,omitempty"`
	FolderID            string `json:"folderId,omitempty"`
	FinalizedCoursePlan string `json:"finalizedCoursePlan,omitempty"`
	IsPublished         bool   `json:"isPublished,omitempty"`
	IsAutoplay          bool   `json:"isAutoplay,omitempty"`
	IsScorable          bool   `json:"isScorable,omitempty"`
	GradientFromColor   string `json:"gradientFromColor,omitempty"`
	GradientToColor     string `json:"gradientToColor,omitempty"`
	ThemeID             string `json:"themeId,omitempty"`
}

type CourseOverview struct {
	Course *domain.Course `json:"course"`
	Cards  []domain.Card  `json:"cards"`
}

type CourseService interface {
	GetCourse(ctx context.Context, id string) (*domain.Course, error)
	CreateCourse(ctx context.Context, in CourseInput) (*domain.Course, error)
	ListCards(ctx context.Context, courseID string) ([]domain.Card, error)
	// Overview reads the course and its cards concurrently. Both are Course API reads.
	Overview(ctx context.Context, courseID string) (*CourseOverview, error)
}

type courseService struct {
	log       *logger.Logger
	api       CourseAPI
	stamp     *stamp.Stamper
	companyID string
}

func NewCourseService(baseLog *logger.Logger, api CourseAPI, st *stamp.Stamper, companyID string) CourseService {
	return &courseService{
		log:       baseLog.With("service", "CourseService"),
		api:       api,
		stamp:     st,
		companyID: strings.TrimSpace(companyID),
	}
}

func (s *courseService) GetCourse(ctx context.Context, id string) (*domain.Course, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apierr.Validation("missing_course_id", "course id required")
	}
	return s.api.GetCourse(ctx, id)
}

func (s *courseService) CreateCourse(ctx context.Context, in CourseInput) (*domain.Course, error) {
	if err := validateCourseInput(in); err != nil {
		return nil, err
	}
	if s.companyID == "" {
		return nil, apierr.Validation("missing_company_id", "company id is not configured")
	}
	course := domain.Course{
		ID:                  s.stamp.NewID(),
		Title:               strings.TrimSpace(in.Title),
		CompanyID:           s.companyID,
		Duration:            in.Duration,
		Description:         in.Description,
		FolderID:            in.FolderID,
		FinalizedCoursePlan: in.FinalizedCoursePlan,
		IsPublished:         in.IsPublished,
		IsAutoplay:          in.IsAutoplay,
		IsScorable:          in.IsScorable,
		GradientFromColor:   in.GradientFromColor,
		GradientToColor:     in.GradientToColor,
		ThemeID:             in.ThemeID,
		CreatedByAgent:      true,
	}
	created, err := s.api.CreateCourse(ctx, course)
	if err != nil {
		return nil, err
	}
	s.log.For(ctx).Info("course created", "course_id", created.ID, "title", created.Title)
	return created, nil
}

func validateCourseInput(in CourseInput) error {
	title := strings.TrimSpace(in.Title)
	switch {
	case title == "":
		return apierr.Validation("missing_required_field", "course title required")
	case utf8.RuneCountInString(title) > domain.MaxCourseTitleLen:
		return apierr.Validation("field_too_long", "title exceeds %d characters", domain.MaxCourseTitleLen)
	case utf8.RuneCountInString(in.Description) > domain.MaxCourseDescriptionLen:
		return apierr.Validation("field_too_long", "description exceeds %d characters", domain.MaxCourseDescriptionLen)
	case utf8.RuneCountInString(in.FinalizedCoursePlan) > domain.MaxCoursePlanLen:
		return apierr.Validation("field_too_long", "finalizedCoursePlan exceeds %d characters", domain.MaxCoursePlanLen)
	case in.Duration < 0:
		return apierr.Validation("invalid_field", "duration must not be negative")
	}
	return nil
}

func (s *courseService) ListCards(ctx context.Context, courseID string) ([]domain.Card, error) {
	courseID = strings.TrimSpace(courseID)
	if courseID == "" {
		return nil, apierr.Validation("missing_course_id", "course id required")
	}
	cards, err := s.api.ListCards(ctx, courseID)
	if err != nil {
		return nil, err
	}
	sortCards(cards)
	return cards, nil
}

func (s *courseService) Overview(ctx context.Context, courseID string) (*CourseOverview, error) {
	courseID = strings.TrimSpace(courseID)
	if courseID == "" {
		return nil, apierr.Validation("missing_course_id", "course id required")
	}
	var (
		course *domain.Course
		cards  []domain.Card
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		c, err := s.api.GetCourse(gctx, courseID)
		course = c
		return err
	})
	g.Go(func() error {
		cs, err := s.api.ListCards(gctx, courseID)
		cards = cs
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	sortCards(cards)
	if cards == nil {
		cards = []domain.Card{}
	}
	return &CourseOverview{Course: course, Cards: cards}, nil
}

// sortCards orders by sortOrder; cards without one keep their relative order at the end.
func sortCards(cards []domain.Card) {
	sort.SliceStable(cards, func(i, j int) bool {
		a, b := cards[i].SortOrder, cards[j].SortOrder
		if a == 0 || b == 0 {
			return a != 0 && b == 0
		}
		return a < b
	})
}
