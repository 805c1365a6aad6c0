package httpds

import (
	"net/url"
	"path"
	"regexp"
	"strconv"
	"strings"

	"github.com/zeebo/xxh3"
)

// filenameCleaner replaces sequences of non-alphanumeric characters with "_".
var filenameCleaner = regexp.MustCompile(`[^a-zA-Z0-9]+`)

// HashString returns a stable hex digest of s.
func HashString(s string) string {
	return strconv.FormatUint(xxh3.HashString(s), 16)
}

// StemFromURL derives a file stem for a page whose title could not be used:
// the last path segment without extension, cleaned to [A-Za-z0-9_]. It falls
// back to a hash of the whole URL.
//
//	https://www.baseball-almanac.com/pitching/wins.shtml -> "wins"
func StemFromURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return HashString(rawURL)
	}
	base := path.Base(u.Path)
	base = strings.TrimSuffix(base, path.Ext(base))
	clean := strings.Trim(filenameCleaner.ReplaceAllString(base, "_"), "_")
	if clean == "" {
		return HashString(rawURL)
	}
	return clean
}
