package config

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// IssueSeverity represents the severity of a configuration issue.
type IssueSeverity string

const (
	// SeverityError blocks execution.
	SeverityError IssueSeverity = "error"
	// SeverityWarning is surfaced to users but does not block execution.
	SeverityWarning IssueSeverity = "warning"
)

// Issue describes a single validation finding. Path is a dotted path into
// the config (e.g. "sources[1].category").
type Issue struct {
	Severity IssueSeverity
	Path     string
	Message  string
}

// Error implements the error interface.
func (i Issue) Error() string {
	return fmt.Sprintf("%s at %s: %s", i.Severity, i.Path, i.Message)
}

// HasErrors reports whether any issue has SeverityError.
func HasErrors(issues []Issue) bool {
	for _, iss := range issues {
		if iss.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Storage kinds with a registered backend.
var knownStorage = map[string]struct{}{
	"sqlite":   {},
	"postgres": {},
	"mysql":    {},
	"mssql":    {},
}

// ValidatePipeline performs static checks over a decoded Pipeline. It does
// not mutate p; callers decide whether warnings are fatal.
func ValidatePipeline(p Pipeline) []Issue {
	var issues []Issue
	add := func(sev IssueSeverity, path, format string, args ...any) {
		issues = append(issues, Issue{Severity: sev, Path: path, Message: fmt.Sprintf(format, args...)})
	}

	if strings.TrimSpace(p.Job) == "" {
		add(SeverityError, "job", "job must not be empty; it labels logs and metrics")
	}

	if len(p.Sources) == 0 {
		add(SeverityError, "sources", "at least one source is required")
	}
	seen := map[string]int{}
	for i, s := range p.Sources {
		path := fmt.Sprintf("sources[%d]", i)
		if strings.TrimSpace(s.Category) == "" {
			add(SeverityError, path+".category", "category must not be empty; it becomes the provenance tag")
		} else if j, dup := seen[s.Category]; dup {
			add(SeverityWarning, path+".category", "category %q also used by sources[%d]; tables with the same file name will replace each other", s.Category, j)
		} else {
			seen[s.Category] = i
		}
		switch s.Kind {
		case "dir", "file", "":
		default:
			add(SeverityError, path+".kind", "unknown source kind %q (want dir or file)", s.Kind)
		}
		if strings.TrimSpace(s.Path) == "" {
			add(SeverityError, path+".path", "path must not be empty")
		}
	}

	switch p.Parser.Kind {
	case "csv", "":
		if c := p.Parser.Options.String("comma", ","); utf8.RuneCountInString(c) != 1 {
			add(SeverityError, "parser.options.comma", "comma must be a single character, got %q", c)
		}
	case "html":
	default:
		add(SeverityError, "parser.kind", "unknown parser kind %q (want csv or html)", p.Parser.Kind)
	}

	if p.Clean.SampleSize < 0 {
		add(SeverityError, "clean.sample_size", "sample_size must not be negative")
	}

	storageOff := p.Storage.Kind == "" || p.Storage.Kind == "none"
	if storageOff && strings.TrimSpace(p.Output.CleanDir) == "" {
		add(SeverityError, "storage.kind", "no storage and no output.clean_dir configured; the run would discard its results")
	}
	if !storageOff {
		if _, ok := knownStorage[p.Storage.Kind]; !ok {
			add(SeverityError, "storage.kind", "unknown storage kind %q", p.Storage.Kind)
		}
		if strings.TrimSpace(p.Storage.DB.DSN) == "" {
			add(SeverityError, "storage.db.dsn", "storage.db.dsn must not be empty")
		}
		if !p.Storage.DB.Replace {
			add(SeverityWarning, "storage.db.replace", "replace is false; reruns append duplicate rows to existing tables")
		}
	}
	if p.Storage.DB.BatchSize < 0 {
		add(SeverityError, "storage.db.batch_size", "batch_size must not be negative")
	}
	if p.Runtime.Workers < 0 {
		add(SeverityError, "runtime.workers", "workers must not be negative")
	}
	return issues
}
