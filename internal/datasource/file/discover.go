package file

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Source kinds accepted by Discover.
const (
	KindDir  = "dir"
	KindFile = "file"
)

// Discover expands a configured source into the files to process. KindDir
// lists the regular files directly under path whose extension matches one of
// exts (case-insensitive), sorted by name; KindFile returns path itself.
func Discover(kind, path string, exts ...string) ([]*Local, error) {
	switch kind {
	case KindFile:
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", path, err)
		}
		if info.IsDir() {
			return nil, fmt.Errorf("%s is a directory", path)
		}
		return []*Local{NewLocal(path)}, nil
	case KindDir, "":
		entries, err := os.ReadDir(path)
		if err != nil {
			return nil, fmt.Errorf("read dir %s: %w", path, err)
		}
		var names []string
		for _, e := range entries {
			if !e.Type().IsRegular() || !hasExt(e.Name(), exts) {
				continue
			}
			names = append(names, e.Name())
		}
		sort.Strings(names)
		out := make([]*Local, len(names))
		for i, n := range names {
			out[i] = NewLocal(filepath.Join(path, n))
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unknown source kind %q", kind)
	}
}

func hasExt(name string, exts []string) bool {
	if len(exts) == 0 {
		return true
	}
	ext := filepath.Ext(name)
	for _, e := range exts {
		if strings.EqualFold(ext, e) {
			return true
		}
	}
	return false
}
