// Package author derives author identities from submitted file names and
// deduplicates them within an import run.
package author

import (
	"path/filepath"
	"strings"
	"unicode"
)

const moodleMarker = "_assignsubmission_"

// Resolve extracts an author name and initials from a submitted file path.
//
// Supported conventions, in order:
//
//	Jon Smith_123456_assignsubmission_file_quiz.xlsx  (Moodle bulk download)
//	Jon Smith - networking quiz.xlsx
//	jon_smith.xlsx / jon-smith.xlsx
func Resolve(path string) (name, initials string) {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return ResolveName(base)
}

// ResolveName applies the same conventions to a bare name, such as a
// per-author folder.
func ResolveName(base string) (name, initials string) {
	switch {
	case strings.Contains(base, moodleMarker):
		name, _, _ = strings.Cut(base, "_")
	case strings.Contains(base, " - "):
		name, _, _ = strings.Cut(base, " - ")
	default:
		name = strings.NewReplacer("_", " ", "-", " ").Replace(base)
	}
	name = Normalize(name)
	return name, Initials(name)
}

// Normalize collapses runs of whitespace and trims the ends.
func Normalize(name string) string {
	return strings.Join(strings.Fields(name), " ")
}

// Initials takes the first letter of each capitalised word ("Jan van Berg" ->
// "JB"). Names written all lower case fall back to every word.
func Initials(name string) string {
	words := strings.Fields(name)
	var b strings.Builder
	for _, w := range words {
		r := []rune(w)[0]
		if unicode.IsUpper(r) {
			b.WriteRune(r)
		}
	}
	if b.Len() > 0 {
		return b.String()
	}
	for _, w := range words {
		b.WriteRune(unicode.ToUpper([]rune(w)[0]))
	}
	return b.String()
}
