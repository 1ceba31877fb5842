package post

import (
	"bytes"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/yuin/goldmark"

	"github.com/leofalp/postforge/news"
)

// EnsureFormat normalizes generated text into a canonical markdown line
// structure: heading, list and link lines pass through unchanged, trailing
// whitespace is stripped, and runs of blank lines collapse to a single
// paragraph separator.
func EnsureFormat(text string) string {
	lines := strings.Split(text, "\n")
	formatted := make([]string, 0, len(lines))

	for _, line := range lines {
		line = strings.TrimRight(line, " \t")

		if isMarkerLine(line) {
			formatted = append(formatted, line)
			continue
		}

		if strings.TrimSpace(line) == "" {
			if len(formatted) > 0 && formatted[len(formatted)-1] != "" {
				formatted = append(formatted, "")
			}
			continue
		}

		formatted = append(formatted, line)
	}

	for len(formatted) > 0 && formatted[len(formatted)-1] == "" {
		formatted = formatted[:len(formatted)-1]
	}

	return strings.Join(formatted, "\n")
}

// isMarkerLine reports whether a line starts with a markdown heading, list
// or link marker and should be preserved verbatim.
func isMarkerLine(line string) bool {
	return strings.HasPrefix(line, "#") ||
		strings.HasPrefix(line, "-") ||
		strings.HasPrefix(line, "*") ||
		strings.HasPrefix(line, "[")
}

// RenderHTML converts markdown to an HTML preview of the generated post.
func RenderHTML(markdown string) (string, error) {
	var buffer bytes.Buffer
	if err := goldmark.Convert([]byte(markdown), &buffer); err != nil {
		return "", fmt.Errorf("rendering markdown: %w", err)
	}
	return buffer.String(), nil
}

var citationMarkerPattern = regexp.MustCompile(`\[(\d+)\]`)

// AppendReferences scans the text for [n] citation markers, where n is the
// 1-based index of a source article, and appends a reference list with one
// entry per distinct marker, ordered by each marker's first appearance in
// the body. Markers that do not resolve to an article are ignored. Text
// without any resolvable marker is returned unchanged.
func AppendReferences(text string, articles []news.Article) string {
	matches := citationMarkerPattern.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return text
	}

	seen := make(map[int]bool)
	ordered := make([]int, 0)
	for _, match := range matches {
		index, err := strconv.Atoi(match[1])
		if err != nil || index < 1 || index > len(articles) {
			continue
		}
		if seen[index] {
			continue
		}
		seen[index] = true
		ordered = append(ordered, index)
	}

	if len(ordered) == 0 {
		return text
	}

	var builder strings.Builder
	builder.WriteString(strings.TrimRight(text, "\n"))
	builder.WriteString("\n\n## References\n")
	for _, index := range ordered {
		article := articles[index-1]
		builder.WriteString(fmt.Sprintf("\n[%d] %s (%s)", index, article.Title, article.Source))
	}

	return builder.String()
}
