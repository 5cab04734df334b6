package report

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
)

// DirSource reads report documents from a local directory, newest
// first by modification time. It stands in for a remote report store
// in development and tests.
type DirSource struct {
	dir     string
	pattern string
}

func NewDirSource(dir, pattern string) *DirSource {
	if pattern == "" {
		pattern = "*"
	}
	return &DirSource{dir: dir, pattern: pattern}
}

func (s *DirSource) Latest(ctx context.Context, limit int) ([]Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	matches, err := filepath.Glob(filepath.Join(s.dir, s.pattern))
	if err != nil {
		return nil, fmt.Errorf("glob reports: %w", err)
	}

	type candidate struct {
		path    string
		modTime int64
	}
	var candidates []candidate
	for _, path := range matches {
		info, err := os.Stat(path)
		if err != nil || info.IsDir() {
			continue
		}
		candidates = append(candidates, candidate{path: path, modTime: info.ModTime().UnixNano()})
	}
	sort.Slice(candidates, func(i, j int) bool { return candidates[i].modTime > candidates[j].modTime })

	if limit > 0 && len(candidates) > limit {
		candidates = candidates[:limit]
	}

	var docs []Document
	for _, c := range candidates {
		raw, err := os.ReadFile(c.path)
		if err != nil {
			slog.Warn("failed to read report file", "path", c.path, "error", err)
			continue
		}
		docs = append(docs, Document{Name: filepath.Base(c.path), Content: string(raw)})
	}
	return docs, nil
}
