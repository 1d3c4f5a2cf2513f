package media

import (
	"errors"

	"github.com/yungbote/coursecards-backend/internal/domain"
)

// Result is what every optimize-and-store call hands back. The pipeline keeps
// nothing, so PreservedText and Instruction are always populated for the caller.
type Result struct {
	URL             string           `json:"url"`
	PreservedText   string           `json:"preservedText"`
	Instruction     string           `json:"instruction"`
	Kind            domain.MediaKind `json:"kind"`
	SuggestedFields map[string]any   `json:"suggestedFields"`
}

const (
	audioInstruction = "Pass preservedText as audioScript and url as audio, with audioGenerated true, " +
		"when creating the audio card. The script is not stored anywhere else."
	imageInstruction = "Pass preservedText as imagePrompt and url as image, with imageGenerated true, " +
		"when creating the card. The prompt is not stored anywhere else."
)

func NewResult(kind domain.MediaKind, url, text string) *Result {
	r := &Result{URL: url, PreservedText: text, Kind: kind}
	switch kind {
	case domain.MediaKindAudio:
		r.Instruction = audioInstruction
		r.SuggestedFields = map[string]any{
			"audio":          url,
			"audioScript":    text,
			"audioGenerated": true,
		}
	default:
		r.Instruction = imageInstruction
		r.SuggestedFields = map[string]any{
			"image":          url,
			"imagePrompt":    text,
			"imageGenerated": true,
		}
	}
	return r
}

func errNotConfigured(service string) error {
	return errors.New(service + " is not configured")
}
