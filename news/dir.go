package news

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// DirectorySource reads articles from JSON files in a local directory,
// useful for offline runs and deterministic tests. Each *.json file holds
// either a single article object or an array of them.
type DirectorySource struct {
	dir string
}

func NewDirectorySource(dir string) *DirectorySource {
	return &DirectorySource{dir: dir}
}

// Fetch loads articles from the directory in file-name order so that
// repeated calls against unchanged files return identical results.
func (s *DirectorySource) Fetch(ctx context.Context, topic string, limit int) ([]Article, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("reading article directory: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	if limit <= 0 {
		limit = len(names)
	}

	articles := make([]Article, 0, limit)
	for _, name := range names {
		if len(articles) >= limit {
			break
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		loaded, err := loadArticleFile(filepath.Join(s.dir, name))
		if err != nil {
			return nil, fmt.Errorf("loading %s: %w", name, err)
		}
		for _, article := range loaded {
			if len(articles) >= limit {
				break
			}
			articles = append(articles, article)
		}
	}

	return articles, nil
}

func loadArticleFile(path string) ([]Article, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "[") {
		var articles []Article
		if err := json.Unmarshal(data, &articles); err != nil {
			return nil, err
		}
		return articles, nil
	}

	var article Article
	if err := json.Unmarshal(data, &article); err != nil {
		return nil, err
	}
	return []Article{article}, nil
}
