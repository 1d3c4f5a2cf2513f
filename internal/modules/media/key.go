package media

import (
	"strings"
)

const (
	FolderAudio  = "audio"
	FolderImages = "images"
)

// NormalizeTitle lowercases title and maps every character outside [a-z0-9] to
// an underscore.
func NormalizeTitle(title string) string {
	title = strings.ToLower(strings.TrimSpace(title))
	if title == "" {
		return "untitled"
	}
	var b strings.Builder
	b.Grow(len(title))
	for _, r := range title {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	return b.String()
}

// ObjectKey is <folder>/<normalized title>_<suffix>.<ext>.
func ObjectKey(folder, title, suffix, ext string) string {
	return folder + "/" + NormalizeTitle(title) + "_" + suffix + "." + ext
}
