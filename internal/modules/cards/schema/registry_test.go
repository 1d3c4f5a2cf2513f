package schema

import (
	"strings"
	"testing"

	"github.com/yungbote/coursecards-backend/internal/domain"
	"github.com/yungbote/coursecards-backend/internal/platform/apierr"
)

func rich(text string) map[string]any {
	return map[string]any{"text": text, "visibility": true, "size": "medium"}
}

func quiz(options []any, correct []any) domain.Contents {
	return domain.Contents{
		"_header1": rich("<b>Capital of France?</b>"),
		"header1":  "Capital of France?",
		"options":  options,
		"correct":  correct,
	}
}

func wantCode(t *testing.T, err error, code string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", code)
	}
	if !apierr.IsValidation(err) {
		t.Fatalf("expected validation error, got %T: %v", err, err)
	}
	if got := apierr.CodeOf(err); got != code {
		t.Fatalf("code: want=%q got=%q (%v)", code, got, err)
	}
}

func TestValidateQuiz(t *testing.T) {
	cases := []struct {
		name    string
		options []any
		correct []any
		code    string
	}{
		{"valid", []any{"Paris", "London"}, []any{"Paris"}, ""},
		{"four options", []any{"A", "B", "C", "D"}, []any{"D"}, ""},
		{"one option", []any{"Paris"}, []any{"Paris"}, CodeOptionCount},
		{"five options", []any{"A", "B", "C", "D", "E"}, []any{"A"}, CodeOptionCount},
		{"duplicate", []any{"A", "A"}, []any{"A"}, CodeDuplicateOption},
		{"correct missing", []any{"Paris", "London"}, []any{"Berlin"}, CodeCorrectNotInOptions},
		{"correct case differs", []any{"Paris", "London"}, []any{"paris"}, CodeCorrectNotInOptions},
		{"two correct", []any{"Paris", "London"}, []any{"Paris", "London"}, CodeCorrectCount},
		{"no correct", []any{"Paris", "London"}, []any{}, CodeCorrectCount},
		{"correct absent", []any{"Paris", "London"}, nil, CodeMissingField},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := Validate(domain.CardTypeQuiz, quiz(tc.options, tc.correct))
			if tc.code == "" {
				if err != nil {
					t.Fatalf("Validate: %v", err)
				}
				return
			}
			wantCode(t, err, tc.code)
		})
	}
}

func TestValidateQuizCorrectMessage(t *testing.T) {
	err := Validate(domain.CardTypeQuiz, quiz([]any{"Paris", "London"}, []any{"Berlin"}))
	if err == nil || !strings.Contains(err.Error(), "correct answer not in options") {
		t.Fatalf("message: got %v", err)
	}
}

func TestValidatePollOptionBounds(t *testing.T) {
	for n := 0; n <= 5; n++ {
		opts := make([]any, 0, n)
		for i := 0; i < n; i++ {
			opts = append(opts, string(rune('A'+i)))
		}
		err := Validate(domain.CardTypePoll, domain.Contents{
			"_header1": rich("Pick one"),
			"options":  opts,
		})
		switch {
		case n >= 2 && n <= 4:
			if err != nil {
				t.Fatalf("%d options: %v", n, err)
			}
		default:
			wantCode(t, err, CodeOptionCount)
		}
	}
}

func TestValidateMissingFields(t *testing.T) {
	cases := []struct {
		ct       domain.CardType
		contents domain.Contents
	}{
		{domain.CardTypeContent, domain.Contents{"header1": "x"}},
		{domain.CardTypeContent, domain.Contents{"_header1": rich("x")}},
		{domain.CardTypeContent, domain.Contents{"_header1": map[string]any{"text": ""}, "header1": ""}},
		{domain.CardTypeForm, domain.Contents{}},
		{domain.CardTypeVideo, domain.Contents{}},
		{domain.CardTypeAudio, domain.Contents{"_header1": rich("Intro")}},
		{domain.CardTypeLink, domain.Contents{"_header1": rich("Docs"), "header1": "Docs"}},
	}
	for _, tc := range cases {
		wantCode(t, Validate(tc.ct, tc.contents), CodeMissingField)
	}
}

func TestValidateURLs(t *testing.T) {
	if err := Validate(domain.CardTypeVideo, domain.Contents{"video": "https://cdn.example.com/v.mp4"}); err != nil {
		t.Fatalf("valid video: %v", err)
	}
	wantCode(t, Validate(domain.CardTypeVideo, domain.Contents{"video": "not a url"}), CodeMalformedURL)
	wantCode(t, Validate(domain.CardTypeAudio, domain.Contents{
		"_header1": rich("Intro"),
		"audio":    "audio/intro.mp3",
	}), CodeMalformedURL)
	wantCode(t, Validate(domain.CardTypeContent, domain.Contents{
		"_header1": rich("Intro"),
		"header1":  "Intro",
		"image":    "nope",
	}), CodeMalformedURL)
}

func TestValidateMirror(t *testing.T) {
	ok := domain.Contents{
		"_header1": rich("<b>Bold</b> and <i>italic</i>"),
		"header1":  "Bold and italic",
	}
	if err := Validate(domain.CardTypeContent, ok); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	bad := ok.Clone()
	bad["header1"] = "<b>Bold</b> and <i>italic</i>"
	wantCode(t, Validate(domain.CardTypeContent, bad), CodeMirrorMismatch)

	withSecond := ok.Clone()
	withSecond["_header2"] = rich("<u>Sub</u>")
	withSecond["header2"] = "Other"
	wantCode(t, Validate(domain.CardTypeContent, withSecond), CodeMirrorMismatch)
}

func TestValidateAlign(t *testing.T) {
	c := domain.Contents{"_header1": rich("x"), "header1": "x", "align": "top"}
	if err := Validate(domain.CardTypeContent, c); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	c["align"] = "left"
	wantCode(t, Validate(domain.CardTypeContent, c), CodeInvalidAlign)
}

func TestValidateTimestamps(t *testing.T) {
	c := domain.Contents{
		"_header1":         rich("x"),
		"header1":          "x",
		"image":            "https://cdn.example.com/images/x_abcd1234.webp",
		"imageGenerated":   true,
		"imageGeneratedAt": "2025-01-02T08:34:05.123+05:30",
		"imageGeneratedBy": "CLAUDE_MCP_SERVER",
	}
	if err := Validate(domain.CardTypeContent, c); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	c["imageGeneratedAt"] = "yesterday"
	wantCode(t, Validate(domain.CardTypeContent, c), CodeMalformedTimestamp)
}

func TestValidateUnknownType(t *testing.T) {
	wantCode(t, Validate("slideshow", domain.Contents{}), CodeUnknownCardType)
	wantCode(t, Validate(domain.CardTypeFirst, domain.Contents{}), CodeUnknownCardType)
}

func TestValidateMalformedShape(t *testing.T) {
	wantCode(t, Validate(domain.CardTypePoll, domain.Contents{
		"_header1": rich("x"),
		"options":  "A,B",
	}), CodeMalformedContents)
}

func TestDecodeEncodeKeepsWireKeys(t *testing.T) {
	in := domain.Contents{
		"_header1":    rich("Docs"),
		"header1":     "Docs",
		"link":        "https://example.com",
		"linkcaption": "Read",
	}
	p, err := Decode(domain.CardTypeLink, in)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	l, ok := p.(*LinkContents)
	if !ok || l.LinkCaption != "Read" || l.RichHeader1.Text != "Docs" {
		t.Fatalf("Decode: got %#v", p)
	}
	out, err := Encode(p)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	for _, k := range []string{"_header1", "header1", "link", "linkcaption"} {
		if _, ok := out[k]; !ok {
			t.Fatalf("Encode dropped %q: %v", k, out)
		}
	}
}

func TestImageParams(t *testing.T) {
	for _, s := range []string{"", "1024x1024", "1024x1536", "1x1"} {
		if err := ValidateImageSize(s); err != nil {
			t.Fatalf("size %q: %v", s, err)
		}
	}
	for _, s := range []string{"1024", "1024×1024", "1024X1024", "big", "1024x"} {
		wantCode(t, ValidateImageSize(s), CodeInvalidImageSize)
	}
	for _, f := range []domain.ImageFormat{"", "png", "jpg"} {
		if err := ValidateImageFormat(f); err != nil {
			t.Fatalf("format %q: %v", f, err)
		}
	}
	wantCode(t, ValidateImageFormat("gif"), CodeInvalidImageFormat)
	wantCode(t, ValidateImageFormat("jpeg"), CodeInvalidImageFormat)
}
