package schema

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/yungbote/coursecards-backend/internal/domain"
	"github.com/yungbote/coursecards-backend/internal/modules/cards/markup"
	"github.com/yungbote/coursecards-backend/internal/platform/apierr"
)

// Violation codes carried by validation errors.
const (
	CodeUnknownCardType     = "unknown_card_type"
	CodeMalformedContents   = "malformed_contents"
	CodeMissingField        = "missing_required_field"
	CodeMalformedURL        = "malformed_url"
	CodeOptionCount         = "option_count"
	CodeDuplicateOption     = "duplicate_option"
	CodeCorrectCount        = "correct_count"
	CodeCorrectNotInOptions = "correct_not_in_options"
	CodeMirrorMismatch      = "mirror_mismatch"
	CodeInvalidAlign        = "invalid_align"
	CodeMalformedTimestamp  = "malformed_timestamp"
	CodeInvalidImageSize    = "invalid_image_size"
	CodeInvalidImageFormat  = "invalid_image_format"
	CodeInvalidField        = "invalid_field"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks contents against the schema of cardType. It is pure and
// reports the first violation found.
func Validate(ct domain.CardType, contents domain.Contents) error {
	p, err := Decode(ct, contents)
	if err != nil {
		return err
	}
	return ValidatePayload(p)
}

// Decode converts a wire payload into the typed case for ct without validating it.
func Decode(ct domain.CardType, contents domain.Contents) (Payload, error) {
	p, ok := newPayload(ct)
	if !ok {
		if ct == domain.CardTypeFirst {
			return nil, apierr.Validation(CodeUnknownCardType, "card type %q is created together with its course and has no buildable schema", ct)
		}
		return nil, apierr.Validation(CodeUnknownCardType, "unknown card type %q", ct)
	}
	if contents == nil {
		contents = domain.Contents{}
	}
	raw, err := json.Marshal(contents)
	if err != nil {
		return nil, apierr.Validation(CodeMalformedContents, "contents are not serialisable: %v", err)
	}
	if err := json.Unmarshal(raw, p); err != nil {
		return nil, apierr.Validation(CodeMalformedContents, "contents do not match %s card shape: %v", ct, err)
	}
	return p, nil
}

// Encode converts a typed payload back into its wire form.
func Encode(p Payload) (domain.Contents, error) {
	raw, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("encode %s contents: %w", p.CardType(), err)
	}
	out := domain.Contents{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("encode %s contents: %w", p.CardType(), err)
	}
	return out, nil
}

func ValidatePayload(p Payload) error {
	if p == nil {
		return apierr.Validation(CodeMalformedContents, "contents required")
	}
	if err := validate.Struct(p); err != nil {
		return translate(p.CardType(), err)
	}
	switch v := p.(type) {
	case *ContentContents:
		if err := checkMirror(v.RichHeader1, v.Header1, "header1"); err != nil {
			return err
		}
		if err := checkMirror(v.RichHeader2, v.Header2, "header2"); err != nil {
			return err
		}
		return ValidateAlign(v.Align)
	case *QuizContents:
		if err := checkMirror(v.RichHeader1, v.Header1, "header1"); err != nil {
			return err
		}
		return checkCorrect(v.Options, v.Correct)
	case *PollContents:
		return checkMirror(v.RichHeader1, v.Header1, "header1")
	case *FormContents:
		return checkMirror(v.RichHeader1, v.Header1, "header1")
	case *AudioContents:
		return checkMirror(v.RichHeader1, v.Header1, "header1")
	case *LinkContents:
		return checkMirror(v.RichHeader1, v.Header1, "header1")
	}
	return nil
}

func checkCorrect(options, correct []string) error {
	for _, opt := range options {
		if opt == correct[0] {
			return nil
		}
	}
	return apierr.Validation(CodeCorrectNotInOptions, "correct answer not in options: %q", correct[0])
}

// checkMirror enforces that a present plain mirror equals its stripped rich text.
func checkMirror(rich *RichText, mirror, field string) error {
	if rich == nil || mirror == "" {
		return nil
	}
	if want := markup.Strip(rich.Text); mirror != want {
		return apierr.Validation(CodeMirrorMismatch, "%s does not match the stripped _%s text", field, field)
	}
	return nil
}

// ValidateAlign accepts the four alignment modes. Empty means default.
func ValidateAlign(align string) error {
	switch align {
	case "", domain.AlignCenter, domain.AlignTop, domain.AlignBottom, domain.AlignBg:
		return nil
	default:
		return apierr.Validation(CodeInvalidAlign, "align %q must be one of %q, %q, %q, %q",
			align, domain.AlignCenter, domain.AlignTop, domain.AlignBottom, domain.AlignBg)
	}
}

func translate(ct domain.CardType, err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return apierr.Validation(CodeMalformedContents, "%s contents: %v", ct, err)
	}
	fe := verrs[0]
	field := fieldPath(fe)
	switch fe.Tag() {
	case "required":
		return apierr.Validation(CodeMissingField, "%s card is missing required field %q", ct, field)
	case "url":
		return apierr.Validation(CodeMalformedURL, "%s card field %q is not a valid URL: %q", ct, field, fe.Value())
	case "min", "max":
		n := reflect.ValueOf(fe.Value()).Len()
		if fe.Field() == "options" {
			return apierr.Validation(CodeOptionCount, "%s card must have 2-4 options, got %d", ct, n)
		}
		return apierr.Validation(CodeInvalidField, "%s card field %q has invalid length %d", ct, field, n)
	case "unique":
		return apierr.Validation(CodeDuplicateOption, "%s card options must be unique", ct)
	case "len":
		n := reflect.ValueOf(fe.Value()).Len()
		return apierr.Validation(CodeCorrectCount, "%s card %q must contain exactly one answer, got %d", ct, field, n)
	case "datetime":
		return apierr.Validation(CodeMalformedTimestamp, "%s card field %q is not an ISO-8601 timestamp: %q", ct, field, fe.Value())
	default:
		return apierr.Validation(CodeInvalidField, "%s card field %q failed %q", ct, field, fe.Tag())
	}
}

// fieldPath drops the struct name from the namespace: "QuizContents.options[0]" -> "options[0]".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}
