package report

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/izzyreal/pagehist/internal/protocol"
)

// Discover expands glob patterns (doublestar syntax, relative to root) into a
// sorted, de-duplicated list of regular files, also relative to root.
func Discover(root string, patterns []string) ([]string, error) {
	seen := map[string]struct{}{}
	matched := make([]string, 0)
	for _, pattern := range patterns {
		pattern = strings.TrimSpace(pattern)
		if pattern == "" {
			continue
		}
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("invalid report glob %q", pattern)
		}
		ms, err := doublestar.Glob(os.DirFS(root), pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("glob %q: %w", pattern, err)
		}
		for _, m := range ms {
			m = filepath.ToSlash(filepath.Clean(m))
			if m == "." || strings.HasPrefix(m, "../") || strings.HasPrefix(m, "/") {
				continue
			}
			if _, ok := seen[m]; ok {
				continue
			}
			seen[m] = struct{}{}
			matched = append(matched, m)
		}
	}
	sort.Strings(matched)
	return matched, nil
}

// LoadFiles parses every file under root and concatenates the outcomes in
// file order.
func LoadFiles(root string, files []string, format string) ([]protocol.ChildOutcome, error) {
	outcomes := make([]protocol.ChildOutcome, 0)
	for _, rel := range files {
		full := filepath.Join(root, filepath.FromSlash(rel))
		data, err := os.ReadFile(full)
		if err != nil {
			return nil, fmt.Errorf("read report %q: %w", rel, err)
		}
		parsed, err := Parse(format, data)
		if err != nil {
			return nil, fmt.Errorf("parse report %q: %w", rel, err)
		}
		outcomes = append(outcomes, parsed...)
	}
	return outcomes, nil
}
