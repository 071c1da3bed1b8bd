package normalisers

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/studyforge/studyforge-cli/internal/core/domain"
	"github.com/studyforge/studyforge-cli/internal/core/ports/driven"
	"github.com/studyforge/studyforge-cli/internal/normalisers/markdown"
	"github.com/studyforge/studyforge-cli/internal/normalisers/plaintext"
)

// AutoSource dispatches each load to the format-specific source chosen by
// the file extension.
type AutoSource struct{}

var _ driven.DocumentSource = (*AutoSource)(nil)

// NewAutoSource creates a dispatching document source.
func NewAutoSource() *AutoSource {
	return &AutoSource{}
}

// Load decodes the file at path with the source matching its extension.
func (s *AutoSource) Load(ctx context.Context, path string) (*domain.Document, error) {
	return ForPath(path).Load(ctx, path)
}

// ForPath selects the document source for a file by its extension. Unknown
// extensions fall back to the plain text source, which accepts any file
// that decodes to text.
func ForPath(path string) driven.DocumentSource {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown":
		return markdown.New()
	default:
		return plaintext.New()
	}
}
