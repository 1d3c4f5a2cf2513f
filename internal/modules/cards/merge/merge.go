// Package merge computes the card update to persist for a partial edit.
package merge

import (
	"context"
	"fmt"

	"github.com/yungbote/coursecards-backend/internal/domain"
	"github.com/yungbote/coursecards-backend/internal/modules/cards/markup"
	"github.com/yungbote/coursecards-backend/internal/modules/cards/schema"
	"github.com/yungbote/coursecards-backend/internal/platform/apierr"
)

const CodeNoUpdateData = "no_update_data"

// Update is a partial card edit. A nil field is not sent. In Contents a key
// mapped to nil clears that key; an absent key is preserved.
type Update struct {
	Contents    domain.Contents  `json:"contents,omitempty"`
	IsMandatory *bool            `json:"isMandatory,omitempty"`
	SortOrder   *int             `json:"sortOrder,omitempty"`
	IsActive    *bool            `json:"isActive,omitempty"`
	CardType    *domain.CardType `json:"cardType,omitempty"`
}

func (u Update) IsEmpty() bool {
	return u.Contents == nil && u.IsMandatory == nil && u.SortOrder == nil && u.IsActive == nil && u.CardType == nil
}

var mirrors = map[string]string{
	domain.KeyRichHeader1: domain.KeyHeader1,
	domain.KeyRichHeader2: domain.KeyHeader2,
}

// Contents overlays update onto existing one top-level key at a time. Nested
// values are replaced wholesale. Neither input is modified.
//
// When a rich header is replaced and the update does not carry its plain
// mirror, the mirror is recomputed from the new text so the two stay in step.
func Contents(existing, update domain.Contents) domain.Contents {
	out := existing.Clone()
	if out == nil {
		out = domain.Contents{}
	}
	for k, v := range update {
		if v == nil {
			delete(out, k)
			continue
		}
		out[k] = v
	}
	for rich, mirror := range mirrors {
		v, replaced := update[rich]
		if !replaced || v == nil {
			continue
		}
		if _, explicit := update[mirror]; explicit {
			continue
		}
		if text, ok := richText(v); ok {
			out[mirror] = markup.Strip(text)
		}
	}
	return out
}

func richText(v any) (string, bool) {
	switch r := v.(type) {
	case map[string]any:
		s, ok := r["text"].(string)
		return s, ok
	case domain.Contents:
		s, ok := r["text"].(string)
		return s, ok
	case domain.RichText:
		return r.Text, true
	case *schema.RichText:
		if r == nil {
			return "", false
		}
		return r.Text, true
	}
	return "", false
}

type CardStore interface {
	GetCard(ctx context.Context, id string) (*domain.Card, error)
	UpdateCard(ctx context.Context, id string, u domain.CardUpdate) (*domain.Card, error)
}

// Engine runs the fetch-merge-write protocol. It holds no lock and no version
// token; a failed write must be retried from Plan.
type Engine struct {
	cards CardStore
}

func NewEngine(cards CardStore) *Engine {
	return &Engine{cards: cards}
}

// Plan builds the outgoing update without writing it. The card is fetched only
// when contents are being edited; a fetch error is returned as is.
func (e *Engine) Plan(ctx context.Context, cardID string, u Update) (domain.CardUpdate, error) {
	if cardID == "" {
		return domain.CardUpdate{}, apierr.Validation("missing_card_id", "card id required")
	}
	if u.IsEmpty() {
		return domain.CardUpdate{}, apierr.Validation(CodeNoUpdateData, "no update data provided")
	}
	if u.CardType != nil {
		if _, err := schema.Decode(*u.CardType, nil); err != nil {
			return domain.CardUpdate{}, err
		}
	}

	out := domain.CardUpdate{
		IsMandatory: u.IsMandatory,
		SortOrder:   u.SortOrder,
		IsActive:    u.IsActive,
		CardType:    u.CardType,
	}
	if u.Contents != nil {
		current, err := e.cards.GetCard(ctx, cardID)
		if err != nil {
			return domain.CardUpdate{}, err
		}
		if current == nil {
			return domain.CardUpdate{}, fmt.Errorf("card %s: empty response", cardID)
		}
		out.Contents = Contents(current.Contents, u.Contents)
		// A type change is checked against the payload it will carry.
		if u.CardType != nil && *u.CardType != current.CardType {
			if err := schema.Validate(*u.CardType, out.Contents); err != nil {
				return domain.CardUpdate{}, err
			}
		}
	}
	return out, nil
}

// Apply plans the update and sends it. It is not transactional.
func (e *Engine) Apply(ctx context.Context, cardID string, u Update) (*domain.Card, domain.CardUpdate, error) {
	planned, err := e.Plan(ctx, cardID, u)
	if err != nil {
		return nil, domain.CardUpdate{}, err
	}
	card, err := e.cards.UpdateCard(ctx, cardID, planned)
	if err != nil {
		return nil, planned, err
	}
	return card, planned, nil
}
