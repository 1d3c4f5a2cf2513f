package schema

import "github.com/yungbote/coursecards-backend/internal/domain"

// Payload is one case of the contents union. Each card variant has exactly one
// Payload type; the registry picks it by cardType.
type Payload interface {
	CardType() domain.CardType
}

type RichText struct {
	Text       string `json:"text" validate:"required"`
	Visibility *bool  `json:"visibility,omitempty"`
	Size       string `json:"size,omitempty"`
}

func Rich(text string) *RichText {
	visible := true
	return &RichText{Text: text, Visibility: &visible, Size: domain.DefaultRichSize}
}

// ImageTracking records that an image was machine generated.
type ImageTracking struct {
	ImagePrompt      string `json:"imagePrompt,omitempty"`
	ImageGenerated   *bool  `json:"imageGenerated,omitempty"`
	ImageGeneratedAt string `json:"imageGeneratedAt,omitempty" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	ImageGeneratedBy string `json:"imageGeneratedBy,omitempty"`
}

type AudioTracking struct {
	AudioScript      string `json:"audioScript,omitempty"`
	AudioGenerated   *bool  `json:"audioGenerated,omitempty"`
	AudioGeneratedAt string `json:"audioGeneratedAt,omitempty" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	AudioGeneratedBy string `json:"audioGeneratedBy,omitempty"`
}

type ContentContents struct {
	RichHeader1 *RichText `json:"_header1" validate:"required"`
	Header1     string    `json:"header1" validate:"required"`
	RichHeader2 *RichText `json:"_header2,omitempty"`
	Header2     string    `json:"header2,omitempty"`
	Image       string    `json:"image,omitempty" validate:"omitempty,url"`
	Align       string    `json:"align,omitempty"`
	ImageTracking
}

func (ContentContents) CardType() domain.CardType { return domain.CardTypeContent }

type QuizContents struct {
	RichHeader1 *RichText `json:"_header1" validate:"required"`
	Header1     string    `json:"header1" validate:"required"`
	Options     []string  `json:"options" validate:"required,min=2,max=4,unique,dive,required"`
	Correct     []string  `json:"correct" validate:"required,len=1"`
	Comment     string    `json:"comment,omitempty"`
}

func (QuizContents) CardType() domain.CardType { return domain.CardTypeQuiz }

type PollContents struct {
	RichHeader1 *RichText `json:"_header1" validate:"required"`
	Header1     string    `json:"header1,omitempty"`
	Options     []string  `json:"options" validate:"required,min=2,max=4,unique,dive,required"`
	HideResults *bool     `json:"hideResults,omitempty"`
}

func (PollContents) CardType() domain.CardType { return domain.CardTypePoll }

type FormContents struct {
	RichHeader1 *RichText `json:"_header1" validate:"required"`
	Header1     string    `json:"header1,omitempty"`
}

func (FormContents) CardType() domain.CardType { return domain.CardTypeForm }

type VideoContents struct {
	Video string `json:"video" validate:"required,url"`
}

func (VideoContents) CardType() domain.CardType { return domain.CardTypeVideo }

type AudioContents struct {
	RichHeader1 *RichText `json:"_header1" validate:"required"`
	Header1     string    `json:"header1,omitempty"`
	Audio       string    `json:"audio" validate:"required,url"`
	Image       string    `json:"image,omitempty" validate:"omitempty,url"`
	AudioTracking
	ImageTracking
}

func (AudioContents) CardType() domain.CardType { return domain.CardTypeAudio }

type LinkContents struct {
	RichHeader1 *RichText `json:"_header1" validate:"required"`
	Header1     string    `json:"header1" validate:"required"`
	Link        string    `json:"link" validate:"required,url"`
	LinkCaption string    `json:"linkcaption,omitempty"`
}

func (LinkContents) CardType() domain.CardType { return domain.CardTypeLink }

func newPayload(ct domain.CardType) (Payload, bool) {
	switch ct {
	case domain.CardTypeContent:
		return &ContentContents{}, true
	case domain.CardTypeQuiz:
		return &QuizContents{}, true
	case domain.CardTypePoll:
		return &PollContents{}, true
	case domain.CardTypeForm:
		return &FormContents{}, true
	case domain.CardTypeVideo:
		return &VideoContents{}, true
	case domain.CardTypeAudio:
		return &AudioContents{}, true
	case domain.CardTypeLink:
		return &LinkContents{}, true
	default:
		return nil, false
	}
}
