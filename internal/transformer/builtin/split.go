package builtin

import (
	"fmt"
	"regexp"
	"strings"

	"statsetl/internal/table"
	"statsetl/internal/transformer"
)

// compositePattern matches "<number> (<number>)", e.g. "700 (0.55)".
var compositePattern = regexp.MustCompile(`^([0-9.\-]+) \(([0-9.\-]+)\)$`)

// rawAltName names the alternate column when the header has no parenthesised
// part to borrow a name from.
const rawAltName = "Raw"

// Split expands composite Text columns into two numeric columns placed where
// the original was. A column is composite when at least one of its values
// matches compositePattern. For header "HR (HR/G)" the derived columns are
// "HR" and "HR/G".
//
// After splitting, duplicate column names are made unique by appending _2,
// _3, ... to later occurrences.
type Split struct{}

// Name implements transformer.Stage.
func (Split) Name() string { return "split" }

// Apply implements transformer.Stage.
func (Split) Apply(t *table.Table, rep *transformer.Report) *table.Table {
	out := make([]table.Column, 0, len(t.Columns))
	for _, c := range t.Columns {
		if c.Kind != table.Text {
			out = append(out, c)
			continue
		}
		matches := make([][]string, len(c.Values))
		hits := 0
		for i, v := range c.Values {
			s, ok := v.(string)
			if !ok {
				continue
			}
			if m := compositePattern.FindStringSubmatch(s); m != nil {
				matches[i] = m
				hits++
			}
		}
		if hits == 0 {
			out = append(out, c)
			continue
		}

		primary, alt := splitNames(c.Name)
		pv := make([]any, len(c.Values))
		av := make([]any, len(c.Values))
		for i, v := range c.Values {
			if v == nil {
				continue
			}
			m := matches[i]
			if m == nil {
				rep.Record(&transformer.PatternMismatch{Column: c.Name, Row: i, Value: v.(string)})
				continue
			}
			if f, ok := parseNumber(m[1]); ok {
				pv[i] = f
			} else {
				rep.Record(&transformer.ConversionFailure{Column: primary, Row: i, Value: m[1]})
			}
			if f, ok := parseNumber(m[2]); ok {
				av[i] = f
			} else {
				rep.Record(&transformer.ConversionFailure{Column: alt, Row: i, Value: m[2]})
			}
		}
		out = append(out, numericColumn(primary, pv), numericColumn(alt, av))
		rep.SplitColumns = append(rep.SplitColumns, c.Name)
	}
	t.Columns = out
	dedupeNames(t, rep)
	return t
}

// splitNames derives the primary and alternate column names from a composite
// header. The primary name is everything before the first "(" trimmed; the
// alternate is the text between the first "(" and the first ")" with spaces
// replaced by underscores, or "Raw" when there is no such text.
func splitNames(header string) (primary, alt string) {
	open := strings.Index(header, "(")
	primary = strings.TrimSpace(header)
	if open >= 0 {
		primary = strings.TrimSpace(header[:open])
	}

	alt = rawAltName
	if open >= 0 {
		if end := strings.Index(header, ")"); end > open+1 {
			alt = header[open+1 : end]
		}
	}
	alt = strings.ReplaceAll(alt, " ", "_")

	if primary == "" {
		primary = alt
		alt = rawAltName
		if primary == rawAltName {
			alt = rawAltName + "_alt"
		}
	}
	return primary, alt
}

// dedupeNames renames the second and later occurrences of a column name to
// name_2, name_3, ... skipping candidates that are already in use anywhere in
// the table.
func dedupeNames(t *table.Table, rep *transformer.Report) {
	used := make(map[string]bool, len(t.Columns))
	for _, c := range t.Columns {
		used[c.Name] = true
	}
	seen := make(map[string]bool, len(t.Columns))
	for i := range t.Columns {
		name := t.Columns[i].Name
		if !seen[name] {
			seen[name] = true
			continue
		}
		for k := 2; ; k++ {
			cand := fmt.Sprintf("%s_%d", name, k)
			if used[cand] {
				continue
			}
			t.Columns[i].Name = cand
			used[cand] = true
			seen[cand] = true
			rep.Warn("renamed duplicate column %q (position %d) to %q", name, i, cand)
			break
		}
	}
}
