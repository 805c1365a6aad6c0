// Package naming derives store identifiers from raw file names and column
// headers.
//
//	"Career Leaders-HR.csv" -> table "career_leaders_hr"
//	" HR/G "                -> column "hr/g"
//
// Only spaces and hyphens are rewritten; other punctuation survives and is
// quoted by the storage layer.
package naming

import (
	"fmt"
	"path/filepath"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var underscore = strings.NewReplacer(" ", "_", "-", "_")

// lower returns the NFC, Unicode lower-cased form of s. A cases.Caser is
// stateful, so one is built per call.
func lower(s string) string {
	return cases.Lower(language.Und).String(norm.NFC.String(s))
}

// TableName returns the identifier for a table loaded from file: base name
// without extension, lower-cased, spaces and hyphens replaced by "_".
func TableName(file string) string {
	base := filepath.Base(file)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return underscore.Replace(lower(base))
}

// ColumnName returns the store identifier for a column header: trimmed,
// lower-cased, spaces and hyphens replaced by "_".
func ColumnName(col string) string {
	return underscore.Replace(lower(strings.TrimSpace(col)))
}

// ColumnNames maps every header through ColumnName and makes the result
// unique: headers that only differed in case ("SO" and "so") would otherwise
// collide in the store. Later duplicates get _2, _3, ...
func ColumnNames(cols []string) []string {
	out := make([]string, len(cols))
	used := make(map[string]bool, len(cols))
	for i, c := range cols {
		out[i] = ColumnName(c)
	}
	for _, n := range out {
		used[n] = true
	}
	seen := make(map[string]bool, len(cols))
	for i, n := range out {
		if !seen[n] {
			seen[n] = true
			continue
		}
		for k := 2; ; k++ {
			cand := fmt.Sprintf("%s_%d", n, k)
			if !used[cand] {
				out[i] = cand
				used[cand] = true
				seen[cand] = true
				break
			}
		}
	}
	return out
}

// ASCII folds name to [a-z0-9_]: accents are stripped (NFD, drop marks,
// NFC), space, dash, dot and slash become "_", anything else is dropped.
// Empty results become "col". Backends whose identifiers are limited to
// plain ASCII use it on top of ColumnName.
func ASCII(name string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, _ := transform.String(t, lower(strings.TrimSpace(name)))

	var b strings.Builder
	prevUnderscore := false
	for _, r := range folded {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			prevUnderscore = false
		case r == '_' || r == ' ' || r == '-' || r == '.' || r == '/':
			if !prevUnderscore {
				b.WriteByte('_')
				prevUnderscore = true
			}
		}
	}
	out := strings.Trim(b.String(), "_")
	if out == "" {
		return "col"
	}
	return out
}

// Truncate shortens name to at most max bytes, keeping the first 10 and the
// last max-10 bytes so that long almanac headers that share a prefix stay
// distinct.
func Truncate(name string, max int) string {
	if max <= 10 || len(name) <= max {
		return name
	}
	return name[:10] + name[len(name)-(max-10):]
}
