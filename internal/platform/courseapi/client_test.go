package courseapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/yungbote/coursecards-backend/internal/domain"
	"github.com/yungbote/coursecards-backend/internal/platform/apierr"
	"github.com/yungbote/coursecards-backend/internal/platform/ctxutil"
	"github.com/yungbote/coursecards-backend/internal/platform/logger"
)

type recorded struct {
	method, path, query, auth, requestID string
	body                                 map[string]any
}

func newTestClient(t *testing.T, h func(w http.ResponseWriter, r *http.Request)) (*Client, *recorded) {
	t.Helper()
	rec := &recorded{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec.method, rec.path, rec.query = r.Method, r.URL.Path, r.URL.RawQuery
		rec.auth, rec.requestID = r.Header.Get("Authorization"), r.Header.Get("X-Request-ID")
		rec.body = nil
		if raw, _ := io.ReadAll(r.Body); len(raw) > 0 {
			_ = json.Unmarshal(raw, &rec.body)
		}
		h(w, r)
	}))
	t.Cleanup(srv.Close)
	c, err := NewClient(logger.NewNop(), Config{BaseURL: srv.URL + "/", Token: "tok"})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return c, rec
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func TestGetCourse(t *testing.T) {
	c, rec := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{"id": "c-1", "title": "Intro", "companyId": "co"})
	})
	ctx := ctxutil.WithTraceData(context.Background(), &ctxutil.TraceData{RequestID: "req-9"})
	course, err := c.GetCourse(ctx, "c-1")
	if err != nil {
		t.Fatalf("GetCourse: %v", err)
	}
	if course.Title != "Intro" {
		t.Fatalf("course: %+v", course)
	}
	if rec.method != http.MethodGet || rec.path != "/api/course" || rec.query != "id=c-1" {
		t.Fatalf("request: %+v", rec)
	}
	if rec.auth != "Bearer tok" || rec.requestID != "req-9" {
		t.Fatalf("headers: auth=%q rid=%q", rec.auth, rec.requestID)
	}
}

func TestCreateCourseSendsOptionalFieldsOnlyWhenSet(t *testing.T) {
	c, rec := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{"id": "c-2", "title": "New"})
	})
	_, err := c.CreateCourse(context.Background(), domain.Course{ID: "c-2", Title: "New", CompanyID: "co", CreatedByAgent: true})
	if err != nil {
		t.Fatalf("CreateCourse: %v", err)
	}
	if rec.path != "/api/createCourse" || rec.method != http.MethodPost {
		t.Fatalf("request: %s %s", rec.method, rec.path)
	}
	for _, k := range []string{"description", "folderId", "themeId", "finalizedCoursePlan"} {
		if _, ok := rec.body[k]; ok {
			t.Fatalf("unset %s was sent: %v", k, rec.body)
		}
	}
	if rec.body["createdByAgent"] != true || rec.body["duration"] != float64(0) {
		t.Fatalf("body: %v", rec.body)
	}
}

func TestListCardsShapes(t *testing.T) {
	card := map[string]any{"id": "k1", "cardType": "quiz", "contents": map[string]any{"header1": "Q"}}
	for name, payload := range map[string]any{
		"array":   []any{card},
		"cards":   map[string]any{"cards": []any{card}},
		"data":    map[string]any{"data": []any{card}},
		"nocards": map[string]any{"total": 0},
	} {
		t.Run(name, func(t *testing.T) {
			c, rec := newTestClient(t, func(w http.ResponseWriter, r *http.Request) { writeJSON(w, payload) })
			cards, err := c.ListCards(context.Background(), "c-1")
			if err != nil {
				t.Fatalf("ListCards: %v", err)
			}
			if rec.path != "/api/courses/c-1/cards" {
				t.Fatalf("path: %s", rec.path)
			}
			if name == "nocards" {
				if len(cards) != 0 {
					t.Fatalf("cards: %v", cards)
				}
				return
			}
			if len(cards) != 1 || cards[0].CardType != domain.CardTypeQuiz || cards[0].Contents["header1"] != "Q" {
				t.Fatalf("cards: %+v", cards)
			}
		})
	}
}

func TestGetCardNullContents(t *testing.T) {
	c, rec := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{"id": "k1", "cardType": "video", "contents": nil})
	})
	card, err := c.GetCard(context.Background(), "k1")
	if err != nil {
		t.Fatalf("GetCard: %v", err)
	}
	if rec.path != "/api/card/k1" || card.Contents == nil {
		t.Fatalf("card: %+v", card)
	}
}

func TestCreateAndUpdateCard(t *testing.T) {
	c, rec := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPut {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		writeJSON(w, map[string]any{"id": "k2", "cardType": "video"})
	})
	card, err := c.CreateCard(context.Background(), domain.CardCreate{
		CourseID: "c-1",
		CardType: domain.CardTypeVideo,
		Contents: domain.Contents{"video": "https://v.example.com/a.mp4"},
	})
	if err != nil || card.ID != "k2" {
		t.Fatalf("CreateCard: card=%+v err=%v", card, err)
	}
	if rec.path != "/api/createCard" || rec.body["cardType"] != "video" {
		t.Fatalf("create request: %+v", rec)
	}

	active := false
	if _, err := c.UpdateCard(context.Background(), "k2", domain.CardUpdate{IsActive: &active}); err != nil {
		t.Fatalf("UpdateCard: %v", err)
	}
	if rec.method != http.MethodPut || rec.path != "/api/card/k2" {
		t.Fatalf("update request: %+v", rec)
	}
	if _, ok := rec.body["cardType"]; ok {
		t.Fatalf("cardType sent on update: %v", rec.body)
	}
	if _, ok := rec.body["contents"]; ok {
		t.Fatalf("contents sent on update: %v", rec.body)
	}
}

func TestErrorsAreUpstream(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"Card not found"}`, http.StatusNotFound)
	})
	_, err := c.GetCard(context.Background(), "missing")
	e, ok := apierr.As(err)
	if !ok || e.Kind != apierr.KindUpstream || e.Status != http.StatusNotFound || e.Service != ServiceName {
		t.Fatalf("err: %#v", err)
	}
	if !strings.Contains(err.Error(), "Card not found") {
		t.Fatalf("upstream message lost: %v", err)
	}

	c, _ = newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	if _, err := c.GetCard(context.Background(), "k"); apierr.KindOf(err) != apierr.KindUpstream {
		t.Fatalf("empty read body: %v", err)
	}
}

func TestTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()
	c, _ := NewClient(logger.NewNop(), Config{BaseURL: srv.URL, Token: "t", Timeout: 20 * time.Millisecond})
	_, err := c.GetCourse(context.Background(), "c")
	if apierr.StatusOf(err) != http.StatusGatewayTimeout {
		t.Fatalf("want 504, got %v", err)
	}
	var ae *apierr.Error
	if !errors.As(err, &ae) || ae.UpstreamStatus != 0 {
		t.Fatalf("err: %#v", err)
	}
}

func TestNewClientValidates(t *testing.T) {
	if _, err := NewClient(logger.NewNop(), Config{BaseURL: "api.example.com", Token: "t"}); err == nil {
		t.Fatalf("expected invalid url error")
	}
	if _, err := NewClient(logger.NewNop(), Config{BaseURL: "https://api.example.com"}); err == nil {
		t.Fatalf("expected missing token error")
	}
}
