package markdown

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/studyforge/studyforge-cli/internal/core/domain"
	"github.com/studyforge/studyforge-cli/internal/core/ports/driven"
)

// Ensure Source implements the interface.
var _ driven.DocumentSource = (*Source)(nil)

// Source loads Markdown files, stripping the formatting down to plain text
// so that unit offsets and passage extraction work on readable prose. The
// document title comes from the first H1 heading when one exists.
type Source struct{}

// New creates a new Markdown source.
func New() *Source {
	return &Source{}
}

// Load reads the file at path and returns the decoded document.
func (s *Source) Load(_ context.Context, path string) (*domain.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	raw := strings.ReplaceAll(string(data), "\r\n", "\n")
	title := extractMarkdownTitle(raw, path)
	content := strings.TrimSpace(stripMarkdown(raw))
	if content == "" {
		return nil, fmt.Errorf("%s: %w", path, domain.ErrEmptyDocument)
	}

	return &domain.Document{
		ID:        uuid.New().String(),
		URI:       filepath.Base(path),
		Title:     title,
		Content:   content,
		WordCount: len(strings.Fields(content)),
		LoadedAt:  time.Now(),
	}, nil
}

// extractMarkdownTitle takes the first H1 heading as the title, falling
// back to the file name.
func extractMarkdownTitle(content, path string) string {
	// Try to find first H1 heading (# Title)
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "# ") {
			return strings.TrimSpace(strings.TrimPrefix(line, "#"))
		}
	}

	// Fall back to filename
	filename := filepath.Base(path)
	ext := filepath.Ext(filename)
	if ext != "" {
		filename = strings.TrimSuffix(filename, ext)
	}
	filename = strings.ReplaceAll(filename, "_", " ")
	filename = strings.ReplaceAll(filename, "-", " ")
	return filename
}

var (
	codeBlock  = regexp.MustCompile("(?s)```[^`]*```")
	inlineCode = regexp.MustCompile("`[^`]+`")
	images     = regexp.MustCompile(`!\[[^\]]*\]\([^)]+\)`)
	links      = regexp.MustCompile(`\[([^\]]+)\]\([^)]+\)`)
	headings   = regexp.MustCompile(`(?m)^#{1,6}\s+`)
	blockquote = regexp.MustCompile(`(?m)^>\s*`)
	hr         = regexp.MustCompile(`(?m)^[-*_]{3,}\s*$`)
)

// stripMarkdown removes common markdown formatting for plain text content.
// This is a simplified implementation that handles common cases.
func stripMarkdown(content string) string {
	content = codeBlock.ReplaceAllString(content, "")
	content = inlineCode.ReplaceAllString(content, "")
	content = images.ReplaceAllString(content, "")

	// Convert links [text](url) to just text
	content = links.ReplaceAllString(content, "$1")

	// Remove heading markers (# ## ### etc)
	content = headings.ReplaceAllString(content, "")

	// Remove bold/italic markers
	content = strings.ReplaceAll(content, "**", "")
	content = strings.ReplaceAll(content, "__", "")
	content = strings.ReplaceAll(content, "*", "")

	// Remove blockquote markers and horizontal rules
	content = blockquote.ReplaceAllString(content, "")
	content = hr.ReplaceAllString(content, "")

	return content
}
