package domain

import (
	"encoding/json"
	"strings"
)

type CardType string

const (
	CardTypeContent CardType = "content"
	CardTypeQuiz    CardType = "quiz"
	CardTypePoll    CardType = "poll"
	CardTypeForm    CardType = "form"
	CardTypeVideo   CardType = "video"
	CardTypeAudio   CardType = "audio"
	CardTypeLink    CardType = "link"
	// CardTypeFirst is created by the Course API together with its course. It is
	// recognised when read back but never built here.
	CardTypeFirst CardType = "first"
)

var BuildableCardTypes = []CardType{
	CardTypeContent,
	CardTypeQuiz,
	CardTypePoll,
	CardTypeForm,
	CardTypeVideo,
	CardTypeAudio,
	CardTypeLink,
}

func ParseCardType(raw string) (CardType, bool) {
	ct := CardType(strings.ToLower(strings.TrimSpace(raw)))
	for _, known := range BuildableCardTypes {
		if ct == known {
			return ct, true
		}
	}
	if ct == CardTypeFirst {
		return ct, true
	}
	return "", false
}

const (
	AlignCenter = "center center"
	AlignTop    = "top"
	AlignBottom = "bottom"
	AlignBg     = "bg"

	DefaultLinkCaption = "Visit Link"
	DefaultRichSize    = "medium"
)

// Contents keys. Rich text fields are stored under the underscored key, their
// plain-text mirror under the bare key.
const (
	KeyRichHeader1 = "_header1"
	KeyHeader1     = "header1"
	KeyRichHeader2 = "_header2"
	KeyHeader2     = "header2"
	KeyImage       = "image"
	KeyAlign       = "align"
	KeyOptions     = "options"
	KeyCorrect     = "correct"
	KeyComment     = "comment"
	KeyHideResults = "hideResults"
	KeyVideo       = "video"
	KeyAudio       = "audio"
	KeyLink        = "link"
	KeyLinkCaption = "linkcaption"

	KeyImagePrompt      = "imagePrompt"
	KeyImageGenerated   = "imageGenerated"
	KeyImageGeneratedAt = "imageGeneratedAt"
	KeyImageGeneratedBy = "imageGeneratedBy"
	KeyAudioScript      = "audioScript"
	KeyAudioGenerated   = "audioGenerated"
	KeyAudioGeneratedAt = "audioGeneratedAt"
	KeyAudioGeneratedBy = "audioGeneratedBy"
)

// TrackingKeys are the machine-generated provenance fields a merge must carry over.
var TrackingKeys = []string{
	KeyImagePrompt,
	KeyImageGenerated,
	KeyImageGeneratedAt,
	KeyImageGeneratedBy,
	KeyAudioScript,
	KeyAudioGenerated,
	KeyAudioGeneratedAt,
	KeyAudioGeneratedBy,
}

// Contents is the variant-specific payload as it travels on the wire.
type Contents map[string]any

func (c Contents) Clone() Contents {
	if c == nil {
		return nil
	}
	out := make(Contents, len(c))
	for k, v := range c {
		out[k] = v
	}
	return out
}

type RichText struct {
	Text       string `json:"text"`
	Visibility bool   `json:"visibility"`
	Size       string `json:"size"`
}

// Card is the Course API's card resource.
type Card struct {
	ID          string   `json:"id"`
	CourseID    string   `json:"courseId"`
	CardType    CardType `json:"cardType"`
	SortOrder   int      `json:"sortOrder,omitempty"`
	Align       string   `json:"align,omitempty"`
	IsActive    bool     `json:"isActive"`
	IsMandatory bool     `json:"isMandatory"`
	Contents    Contents `json:"contents"`
}

// UnmarshalJSON tolerates a missing or null contents object.
func (c *Card) UnmarshalJSON(b []byte) error {
	type alias Card
	var a alias
	if err := json.Unmarshal(b, &a); err != nil {
		return err
	}
	if a.Contents == nil {
		a.Contents = Contents{}
	}
	*c = Card(a)
	return nil
}

// CardCreate is the createCard payload.
type CardCreate struct {
	CourseID    string   `json:"courseId"`
	CardType    CardType `json:"cardType"`
	Contents    Contents `json:"contents"`
	Align       string   `json:"align,omitempty"`
	IsMandatory bool     `json:"isMandatory"`
	SortOrder   *int     `json:"sortOrder,omitempty"`
}

// CardUpdate is the updateCard payload. Nil fields are not sent.
type CardUpdate struct {
	Contents    Contents  `json:"contents,omitempty"`
	IsMandatory *bool     `json:"isMandatory,omitempty"`
	SortOrder   *int      `json:"sortOrder,omitempty"`
	IsActive    *bool     `json:"isActive,omitempty"`
	CardType    *CardType `json:"cardType,omitempty"`
}
