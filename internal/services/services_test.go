package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/yungbote/coursecards-backend/internal/domain"
	"github.com/yungbote/coursecards-backend/internal/modules/cards/builder"
	"github.com/yungbote/coursecards-backend/internal/modules/cards/merge"
	"github.com/yungbote/coursecards-backend/internal/modules/media"
	"github.com/yungbote/coursecards-backend/internal/pkg/stamp"
	"github.com/yungbote/coursecards-backend/internal/platform/apierr"
	"github.com/yungbote/coursecards-backend/internal/platform/logger"
)

type fakeAPI struct {
	mu        sync.Mutex
	course    *domain.Course
	cards     []domain.Card
	card      *domain.Card
	created   []domain.Course
	newCards  []domain.CardCreate
	updates   []domain.CardUpdate
	courseErr error
	listErr   error
	getCalls  int
}

func (f *fakeAPI) GetCourse(ctx context.Context, id string) (*domain.Course, error) {
	return f.course, f.courseErr
}

func (f *fakeAPI) CreateCourse(ctx context.Context, c domain.Course) (*domain.Course, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, c)
	return &c, nil
}

func (f *fakeAPI) ListCards(ctx context.Context, courseID string) ([]domain.Card, error) {
	return f.cards, f.listErr
}

func (f *fakeAPI) GetCard(ctx context.Context, id string) (*domain.Card, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.getCalls++
	return f.card, nil
}

func (f *fakeAPI) CreateCard(ctx context.Context, c domain.CardCreate) (*domain.Card, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.newCards = append(f.newCards, c)
	return &domain.Card{ID: "card-1", CourseID: c.CourseID, CardType: c.CardType, Contents: c.Contents}, nil
}

func (f *fakeAPI) UpdateCard(ctx context.Context, id string, u domain.CardUpdate) (*domain.Card, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates = append(f.updates, u)
	return &domain.Card{ID: id, Contents: u.Contents}, nil
}

func testStamper(t *testing.T) *stamp.Stamper {
	t.Helper()
	st, err := stamp.New("", "TEST_AGENT")
	if err != nil {
		t.Fatalf("stamp.New: %v", err)
	}
	return st.WithClock(func() time.Time { return time.Date(2025, 3, 4, 10, 0, 0, 0, time.UTC) })
}

func TestCreateCourseStampsIdentity(t *testing.T) {
	api := &fakeAPI{}
	svc := NewCourseService(logger.NewNop(), api, testStamper(t), "company-7")
	got, err := svc.CreateCourse(context.Background(), CourseInput{Title: "  Onboarding  ", Description: "Intro"})
	if err != nil {
		t.Fatalf("CreateCourse: %v", err)
	}
	if len(api.created) != 1 {
		t.Fatalf("create calls: got=%d", len(api.created))
	}
	sent := api.created[0]
	if sent.ID == "" || sent.CompanyID != "company-7" || !sent.CreatedByAgent {
		t.Fatalf("stamped fields: %+v", sent)
	}
	if sent.Title != "Onboarding" || got.Title != "Onboarding" {
		t.Fatalf("title: got=%q", sent.Title)
	}
}

func TestCreateCourseValidation(t *testing.T) {
	svc := NewCourseService(logger.NewNop(), &fakeAPI{}, testStamper(t), "company-7")
	cases := []struct {
		name string
		in   CourseInput
	}{
		{"missing title", CourseInput{}},
		{"long title", CourseInput{Title: strings.Repeat("a", domain.MaxCourseTitleLen+1)}},
		{"long description", CourseInput{Title: "t", Description: strings.Repeat("d", domain.MaxCourseDescriptionLen+1)}},
		{"long plan", CourseInput{Title: "t", FinalizedCoursePlan: strings.Repeat("p", domain.MaxCoursePlanLen+1)}},
		{"negative duration", CourseInput{Title: "t", Duration: -1}},
	}
	for _, tc := range cases {
		_, err := svc.CreateCourse(context.Background(), tc.in)
		if !apierr.IsValidation(err) {
			t.Fatalf("%s: want validation error, got %v", tc.name, err)
		}
	}
	title := strings.Repeat("é", domain.MaxCourseTitleLen)
	if _, err := svc.CreateCourse(context.Background(), CourseInput{Title: title}); err != nil {
		t.Fatalf("title limit counts characters, not bytes: %v", err)
	}
}

func TestOverviewSortsCards(t *testing.T) {
	api := &fakeAPI{
		course: &domain.Course{ID: "c1", Title: "T"},
		cards: []domain.Card{
			{ID: "c", SortOrder: 0},
			{ID: "b", SortOrder: 2},
			{ID: "a", SortOrder: 1},
		},
	}
	svc := NewCourseService(logger.NewNop(), api, testStamper(t), "x")
	ov, err := svc.Overview(context.Background(), "c1")
	if err != nil {
		t.Fatalf("Overview: %v", err)
	}
	var ids []string
	for _, c := range ov.Cards {
		ids = append(ids, c.ID)
	}
	if strings.Join(ids, ",") != "a,b,c" {
		t.Fatalf("order: got=%v", ids)
	}
	if ov.Course.ID != "c1" {
		t.Fatalf("course: %+v", ov.Course)
	}
}

func TestOverviewFailsFast(t *testing.T) {
	listErr := apierr.Upstream("course-api", 500, errors.New("HTTP 500: boom"))
	api := &fakeAPI{course: &domain.Course{ID: "c1"}, listErr: listErr}
	svc := NewCourseService(logger.NewNop(), api, testStamper(t), "x")
	if _, err := svc.Overview(context.Background(), "c1"); !errors.Is(err, listErr) {
		t.Fatalf("want list error, got %v", err)
	}
}

func TestCardCreateUsesPathCourse(t *testing.T) {
	api := &fakeAPI{}
	svc := NewCardService(logger.NewNop(), api, builder.New(testStamper(t)))
	card, err := svc.Create(context.Background(), "course-9", domain.CardTypeLink, builder.Fields{
		CourseID: "ignored",
		Header1:  "<b>Docs</b>",
		Link:     "https://example.com/docs",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if card.ID != "card-1" || len(api.newCards) != 1 {
		t.Fatalf("create: card=%+v calls=%d", card, len(api.newCards))
	}
	sent := api.newCards[0]
	if sent.CourseID != "course-9" {
		t.Fatalf("courseId: got=%q", sent.CourseID)
	}
	if sent.Contents[domain.KeyHeader1] != "Docs" || sent.Contents[domain.KeyLinkCaption] != domain.DefaultLinkCaption {
		t.Fatalf("contents: %+v", sent.Contents)
	}
}

func TestCardCreateRejectsInvalidWithoutWriting(t *testing.T) {
	api := &fakeAPI{}
	svc := NewCardService(logger.NewNop(), api, builder.New(testStamper(t)))
	_, err := svc.Create(context.Background(), "course-9", domain.CardTypeQuiz, builder.Fields{
		Header1: "Q?",
		Options: []string{"A", "B"},
		Correct: "C",
	})
	if apierr.CodeOf(err) != "correct_not_in_options" {
		t.Fatalf("want correct_not_in_options, got %v", err)
	}
	if len(api.newCards) != 0 {
		t.Fatalf("invalid card must not be sent")
	}
	if _, err := svc.Create(context.Background(), "", domain.CardTypeVideo, builder.Fields{Video: "https://v.example.com/1"}); !apierr.IsValidation(err) {
		t.Fatalf("missing course: got %v", err)
	}
}

func TestCardUpdateMergesAndPreviewDoesNotWrite(t *testing.T) {
	api := &fakeAPI{card: &domain.Card{
		ID:       "k1",
		CardType: domain.CardTypeContent,
		Contents: domain.Contents{
			domain.KeyRichHeader1:    map[string]any{"text": "Hi", "visibility": true, "size": "medium"},
			domain.KeyHeader1:        "Hi",
			domain.KeyImage:          "https://cdn.example.com/a.webp",
			domain.KeyImageGenerated: true,
		},
	}}
	svc := NewCardService(logger.NewNop(), api, builder.New(testStamper(t)))
	u := merge.Update{Contents: domain.Contents{domain.KeyImage: "https://cdn.example.com/b.webp"}}

	planned, err := svc.PreviewUpdate(context.Background(), "k1", u)
	if err != nil {
		t.Fatalf("PreviewUpdate: %v", err)
	}
	if len(api.updates) != 0 {
		t.Fatalf("preview must not write")
	}
	if planned.Contents[domain.KeyImageGenerated] != true || planned.Contents[domain.KeyHeader1] != "Hi" {
		t.Fatalf("merged contents lost keys: %+v", planned.Contents)
	}

	if _, err := svc.Update(context.Background(), "k1", u); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if len(api.updates) != 1 || api.updates[0].Contents[domain.KeyImage] != "https://cdn.example.com/b.webp" {
		t.Fatalf("updates: %+v", api.updates)
	}
}

func TestCardUpdateEmpty(t *testing.T) {
	api := &fakeAPI{}
	svc := NewCardService(logger.NewNop(), api, builder.New(testStamper(t)))
	_, err := svc.Update(context.Background(), "k1", merge.Update{})
	if apierr.CodeOf(err) != merge.CodeNoUpdateData {
		t.Fatalf("want no_update_data, got %v", err)
	}
	if api.getCalls != 0 || len(api.updates) != 0 {
		t.Fatalf("empty update must not call the course api")
	}
}

type fakeImages struct{ size string }

func (f *fakeImages) GenerateImage(ctx context.Context, prompt, size, format string) ([]byte, error) {
	f.size = size
	return []byte("png"), nil
}

func TestAudioBackgroundIsPortrait(t *testing.T) {
	im := &fakeImages{}
	p := media.NewPipeline(logger.NewNop(), nil, im, nil, testStamper(t), media.Config{})
	svc := NewMediaService(logger.NewNop(), p)
	if _, err := svc.AudioBackground(context.Background(), "calm sea", ""); err != nil {
		t.Fatalf("AudioBackground: %v", err)
	}
	if im.size != domain.AudioBackgroundSize {
		t.Fatalf("size: want=%q got=%q", domain.AudioBackgroundSize, im.size)
	}
}
