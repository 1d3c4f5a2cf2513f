// Package markup produces the plain-text mirror of rich card text.
package markup

import (
	"strings"

	strip "github.com/grokify/html-strip-tags-go"
)

// Strip removes every tag from s. Text between tags, including whitespace and
// entities, is left exactly as written.
func Strip(s string) string {
	if !strings.ContainsRune(s, '<') {
		return s
	}
	return strip.StripTags(s)
}
