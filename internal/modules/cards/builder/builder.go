// Package builder turns flat caller fields into a validated createCard payload.
package builder

import (
	"net/http"
	"strings"

	"github.com/yungbote/coursecards-backend/internal/domain"
	"github.com/yungbote/coursecards-backend/internal/modules/cards/markup"
	"github.com/yungbote/coursecards-backend/internal/modules/cards/schema"
	"github.com/yungbote/coursecards-backend/internal/pkg/stamp"
	"github.com/yungbote/coursecards-backend/internal/platform/apierr"
)

const (
	minOptions = 2
	maxOptions = 4
)

// Fields is the union of every variant's inputs. Header1 is the question for
// quiz, poll and form cards and the title for audio and link cards. Generation
// timestamps and provenance are never taken from the caller.
type Fields struct {
	CourseID string `json:"courseId"`

	Header1 string `json:"header1"`
	Header2 string `json:"header2,omitempty"`
	Image   string `json:"image,omitempty"`
	Align   string `json:"align,omitempty"`

	Options     []string `json:"options,omitempty"`
	Correct     string   `json:"correct,omitempty"`
	Comment     string   `json:"comment,omitempty"`
	HideResults *bool    `json:"hideResults,omitempty"`

	Video       string `json:"video,omitempty"`
	Audio       string `json:"audio,omitempty"`
	Link        string `json:"link,omitempty"`
	LinkCaption string `json:"linkCaption,omitempty"`

	ImagePrompt    string `json:"imagePrompt,omitempty"`
	ImageGenerated *bool  `json:"imageGenerated,omitempty"`
	AudioScript    string `json:"audioScript,omitempty"`
	AudioGenerated *bool  `json:"audioGenerated,omitempty"`

	IsMandatory *bool `json:"isMandatory,omitempty"`
	SortOrder   *int  `json:"sortOrder,omitempty"`
}

type Builder struct {
	stamp *stamp.Stamper
}

func New(st *stamp.Stamper) *Builder {
	return &Builder{stamp: st}
}

// Build assembles the contents for ct and checks them against the schema
// registry. The result is ready for createCard; nothing is sent.
func (b *Builder) Build(ct domain.CardType, f Fields) (domain.CardCreate, error) {
	out := domain.CardCreate{
		CourseID:    strings.TrimSpace(f.CourseID),
		CardType:    ct,
		IsMandatory: ct == domain.CardTypeQuiz,
	}
	if f.IsMandatory != nil {
		out.IsMandatory = *f.IsMandatory
	}
	if f.SortOrder != nil && *f.SortOrder > 0 {
		so := *f.SortOrder
		out.SortOrder = &so
	}

	var p schema.Payload
	switch ct {
	case domain.CardTypeContent:
		align := f.Align
		if align == "" {
			align = domain.AlignCenter
		}
		if err := schema.ValidateAlign(align); err != nil {
			return domain.CardCreate{}, err
		}
		out.Align = align
		c := &schema.ContentContents{
			RichHeader1: schema.Rich(f.Header1),
			Header1:     markup.Strip(f.Header1),
		}
		if f.Header2 != "" {
			c.RichHeader2 = schema.Rich(f.Header2)
			c.Header2 = markup.Strip(f.Header2)
		}
		if f.Image != "" {
			c.Image = f.Image
			c.Align = align
		}
		c.ImageTracking = b.imageTracking(f)
		p = c
	case domain.CardTypeQuiz:
		if err := checkOptionCount(ct, f.Options); err != nil {
			return domain.CardCreate{}, err
		}
		c := &schema.QuizContents{
			RichHeader1: schema.Rich(f.Header1),
			Header1:     markup.Strip(f.Header1),
			Options:     append([]string(nil), f.Options...),
			Comment:     f.Comment,
		}
		if f.Correct != "" {
			c.Correct = []string{f.Correct}
		}
		p = c
	case domain.CardTypePoll:
		if err := checkOptionCount(ct, f.Options); err != nil {
			return domain.CardCreate{}, err
		}
		p = &schema.PollContents{
			RichHeader1: schema.Rich(f.Header1),
			Header1:     markup.Strip(f.Header1),
			Options:     append([]string(nil), f.Options...),
			HideResults: f.HideResults,
		}
	case domain.CardTypeForm:
		p = &schema.FormContents{
			RichHeader1: schema.Rich(f.Header1),
			Header1:     markup.Strip(f.Header1),
		}
	case domain.CardTypeVideo:
		p = &schema.VideoContents{Video: strings.TrimSpace(f.Video)}
	case domain.CardTypeAudio:
		p = &schema.AudioContents{
			RichHeader1:   schema.Rich(f.Header1),
			Header1:       markup.Strip(f.Header1),
			Audio:         strings.TrimSpace(f.Audio),
			Image:         strings.TrimSpace(f.Image),
			AudioTracking: b.audioTracking(f),
			ImageTracking: b.imageTracking(f),
		}
	case domain.CardTypeLink:
		caption := f.LinkCaption
		if caption == "" {
			caption = domain.DefaultLinkCaption
		}
		p = &schema.LinkContents{
			RichHeader1: schema.Rich(f.Header1),
			Header1:     markup.Strip(f.Header1),
			Link:        strings.TrimSpace(f.Link),
			LinkCaption: caption,
		}
	default:
		_, err := schema.Decode(ct, nil)
		return domain.CardCreate{}, err
	}

	if err := schema.ValidatePayload(p); err != nil {
		return domain.CardCreate{}, err
	}
	contents, err := schema.Encode(p)
	if err != nil {
		return domain.CardCreate{}, apierr.New(http.StatusInternalServerError, "encode_contents", err)
	}
	out.Contents = contents
	return out, nil
}

func checkOptionCount(ct domain.CardType, options []string) error {
	if n := len(options); n < minOptions || n > maxOptions {
		return apierr.Validation(schema.CodeOptionCount, "%s must have %d-%d options, got %d", ct, minOptions, maxOptions, n)
	}
	return nil
}

func (b *Builder) imageTracking(f Fields) schema.ImageTracking {
	t := schema.ImageTracking{ImagePrompt: f.ImagePrompt}
	if f.ImageGenerated != nil {
		gen := *f.ImageGenerated
		t.ImageGenerated = &gen
		if gen {
			t.ImageGeneratedAt = b.stamp.Now()
			t.ImageGeneratedBy = b.stamp.Provenance()
		}
	}
	return t
}

func (b *Builder) audioTracking(f Fields) schema.AudioTracking {
	t := schema.AudioTracking{AudioScript: f.AudioScript}
	if f.AudioGenerated != nil {
		gen := *f.AudioGenerated
		t.AudioGenerated = &gen
		if gen {
			t.AudioGeneratedAt = b.stamp.Now()
			t.AudioGeneratedBy = b.stamp.Provenance()
		}
	}
	return t
}
