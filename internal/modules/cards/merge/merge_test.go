package merge

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"testing"

	"github.com/yungbote/coursecards-backend/internal/domain"
	"github.com/yungbote/coursecards-backend/internal/modules/cards/schema"
	"github.com/yungbote/coursecards-backend/internal/platform/apierr"
)

type fakeStore struct {
	card     *domain.Card
	getErr   error
	gets     int
	updates  []domain.CardUpdate
	updateID string
}

func (f *fakeStore) GetCard(ctx context.Context, id string) (*domain.Card, error) {
	f.gets++
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.card, nil
}

func (f *fakeStore) UpdateCard(ctx context.Context, id string, u domain.CardUpdate) (*domain.Card, error) {
	f.updateID = id
	f.updates = append(f.updates, u)
	return &domain.Card{ID: id, Contents: u.Contents}, nil
}

func audioCard() *domain.Card {
	return &domain.Card{
		ID:       "card-1",
		CardType: domain.CardTypeAudio,
		Contents: domain.Contents{
			"_header1":         map[string]any{"text": "Old", "visibility": true, "size": "medium"},
			"header1":          "Old",
			"audio":            "https://cdn.example.com/audio/old_1a2b3c4d.mp3",
			"audioScript":      "S",
			"audioGenerated":   true,
			"audioGeneratedBy": "CLAUDE_MCP_SERVER",
		},
	}
}

func TestContentsPreservesTracking(t *testing.T) {
	existing := audioCard().Contents
	for i, k := range domain.TrackingKeys {
		if _, ok := existing[k]; !ok {
			existing[k] = fmt.Sprintf("tracked-%d", i)
		}
	}
	got := Contents(existing, domain.Contents{"header1": "new"})
	for _, k := range domain.TrackingKeys {
		if !reflect.DeepEqual(got[k], existing[k]) {
			t.Fatalf("%s: want=%v got=%v", k, existing[k], got[k])
		}
	}
	if got["header1"] != "new" {
		t.Fatalf("header1 not replaced: %v", got)
	}
}

func TestContentsIdempotent(t *testing.T) {
	existing := audioCard().Contents
	update := domain.Contents{
		"header1":     "new",
		"audioScript": nil,
		"options":     []any{"a", "b"},
	}
	once := Contents(existing, update)
	twice := Contents(once, update)
	if !reflect.DeepEqual(once, twice) {
		t.Fatalf("not idempotent:\nonce=%v\ntwice=%v", once, twice)
	}
}

func TestContentsNullClears(t *testing.T) {
	got := Contents(audioCard().Contents, domain.Contents{"audioScript": nil, "imagePrompt": nil})
	if _, ok := got["audioScript"]; ok {
		t.Fatalf("audioScript should be cleared: %v", got)
	}
	if got["audioGenerated"] != true {
		t.Fatalf("untouched tracking key changed: %v", got)
	}
}

func TestContentsReplacesNestedWholesale(t *testing.T) {
	got := Contents(audioCard().Contents, domain.Contents{
		"_header1": map[string]any{"text": "<b>New</b>"},
	})
	rich := got["_header1"].(map[string]any)
	if _, ok := rich["visibility"]; ok {
		t.Fatalf("nested value was deep merged: %v", rich)
	}
	if got["header1"] != "New" {
		t.Fatalf("mirror not recomputed: %v", got["header1"])
	}
}

func TestContentsExplicitMirrorWins(t *testing.T) {
	got := Contents(nil, domain.Contents{
		"_header1": map[string]any{"text": "<b>New</b>"},
		"header1":  "custom",
	})
	if got["header1"] != "custom" {
		t.Fatalf("header1: got=%v", got["header1"])
	}
}

func TestContentsDoesNotMutateInputs(t *testing.T) {
	existing := audioCard().Contents
	update := domain.Contents{"audioScript": nil}
	_ = Contents(existing, update)
	if existing["audioScript"] != "S" {
		t.Fatalf("existing mutated")
	}
	if _, ok := update["audioScript"]; !ok {
		t.Fatalf("update mutated")
	}
}

func TestPlanEmptyUpdate(t *testing.T) {
	store := &fakeStore{card: audioCard()}
	_, err := NewEngine(store).Plan(context.Background(), "card-1", Update{})
	if !apierr.IsValidation(err) || apierr.CodeOf(err) != CodeNoUpdateData {
		t.Fatalf("want no_update_data, got %v", err)
	}
	if err.Error() != "no update data provided" {
		t.Fatalf("message: got %q", err.Error())
	}
	if store.gets != 0 {
		t.Fatalf("fetched for empty update")
	}
}

func TestPlanSkipsFetchWithoutContents(t *testing.T) {
	store := &fakeStore{card: audioCard()}
	active := false
	got, err := NewEngine(store).Plan(context.Background(), "card-1", Update{IsActive: &active})
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	if store.gets != 0 {
		t.Fatalf("unexpected fetch")
	}
	if got.Contents != nil || got.CardType != nil || got.IsActive == nil || *got.IsActive {
		t.Fatalf("planned: %+v", got)
	}
}

func TestPlanOmitsCardTypeUnlessRequested(t *testing.T) {
	store := &fakeStore{card: audioCard()}
	got, err := NewEngine(store).Plan(context.Background(), "card-1", Update{Contents: domain.Contents{"header1": "new"}})
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	if got.CardType != nil {
		t.Fatalf("cardType sent without request")
	}
	if got.Contents["audioScript"] != "S" {
		t.Fatalf("tracking lost: %v", got.Contents)
	}
}

func TestPlanValidatesTypeChange(t *testing.T) {
	store := &fakeStore{card: audioCard()}
	video := domain.CardTypeVideo
	_, err := NewEngine(store).Plan(context.Background(), "card-1", Update{
		Contents: domain.Contents{"header1": "new"},
		CardType: &video,
	})
	if apierr.CodeOf(err) != schema.CodeMissingField {
		t.Fatalf("want missing_required_field, got %v", err)
	}

	bogus := domain.CardType("slideshow")
	_, err = NewEngine(store).Plan(context.Background(), "card-1", Update{CardType: &bogus})
	if apierr.CodeOf(err) != schema.CodeUnknownCardType {
		t.Fatalf("want unknown_card_type, got %v", err)
	}
}

func TestApplyAbortsOnFetchFailure(t *testing.T) {
	fetchErr := apierr.Upstream("course-api", 404, errors.New("card not found"))
	store := &fakeStore{getErr: fetchErr}
	_, _, err := NewEngine(store).Apply(context.Background(), "missing", Update{Contents: domain.Contents{"header1": "x"}})
	if err != fetchErr {
		t.Fatalf("fetch error not surfaced unchanged: %v", err)
	}
	if len(store.updates) != 0 {
		t.Fatalf("write attempted after fetch failure")
	}
}

func TestApplyWritesMerged(t *testing.T) {
	store := &fakeStore{card: audioCard()}
	mandatory := true
	card, planned, err := NewEngine(store).Apply(context.Background(), "card-1", Update{
		Contents:    domain.Contents{"header1": "new"},
		IsMandatory: &mandatory,
	})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if store.updateID != "card-1" || len(store.updates) != 1 {
		t.Fatalf("update not sent once: %v", store.updates)
	}
	if card.Contents["audioScript"] != "S" || planned.IsMandatory == nil || !*planned.IsMandatory {
		t.Fatalf("write payload: %+v", planned)
	}
}
