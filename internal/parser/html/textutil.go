package html

import (
	"strings"
	"unicode"
)

// CollapseWhitespace replaces runs of whitespace (including the non-breaking
// spaces the almanac pads cells with) with a single ASCII space and trims
// both ends.
func CollapseWhitespace(s string) string {
	if s == "" {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))

	seenSpace := false
	for _, r := range s {
		if unicode.IsSpace(r) {
			if !seenSpace {
				b.WriteByte(' ')
				seenSpace = true
			}
			continue
		}
		b.WriteRune(r)
		seenSpace = false
	}

	return strings.TrimSpace(b.String())
}

// FileStem turns a page title into a file name stem: the part before the
// first "|", trimmed, with spaces and slashes replaced by underscores.
//
//	"Career Leaders for Home Runs | Baseball Almanac" -> "Career_Leaders_for_Home_Runs"
func FileStem(title string) string {
	stem, _, _ := strings.Cut(title, "|")
	stem = strings.TrimSpace(stem)
	return strings.NewReplacer(" ", "_", "/", "_").Replace(stem)
}
