package plaintext

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/studyforge/studyforge-cli/internal/core/domain"
	"github.com/studyforge/studyforge-cli/internal/core/ports/driven"
)

// Ensure Source implements the interface.
var _ driven.DocumentSource = (*Source)(nil)

// Source loads plain text files from the local filesystem into documents.
// Line endings are normalised to "\n" before the core sees the content, so
// every downstream offset refers to the normalised text.
type Source struct{}

// New creates a new plain text source.
func New() *Source {
	return &Source{}
}

// Load reads the file at path and returns the decoded document.
func (s *Source) Load(_ context.Context, path string) (*domain.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	content := normaliseText(string(data))
	if content == "" {
		return nil, fmt.Errorf("%s: %w", path, domain.ErrEmptyDocument)
	}

	return &domain.Document{
		ID:        uuid.New().String(),
		URI:       filepath.Base(path),
		Title:     extractTitle(path),
		Content:   content,
		WordCount: len(strings.Fields(content)),
		LoadedAt:  time.Now(),
	}, nil
}

// normaliseText converts Windows and old Mac line endings to "\n", strips a
// UTF-8 byte order mark, and replaces invalid UTF-8 sequences.
func normaliseText(text string) string {
	text = strings.TrimPrefix(text, "\uFEFF")
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	text = strings.ToValidUTF8(text, "�")
	return strings.TrimSpace(text)
}

// extractTitle extracts a human-readable title from a file path.
func extractTitle(path string) string {
	// Get filename from path
	filename := filepath.Base(path)

	// Remove common extensions for cleaner title
	ext := filepath.Ext(filename)
	if ext != "" {
		filename = strings.TrimSuffix(filename, ext)
	}

	// Replace underscores and dashes with spaces
	filename = strings.ReplaceAll(filename, "_", " ")
	filename = strings.ReplaceAll(filename, "-", " ")

	return filename
}
