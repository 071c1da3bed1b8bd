package driven

import (
	"context"

	"github.com/studyforge/studyforge-cli/internal/core/domain"
)

// DocumentSource loads and normalises a source file into a Document.
// The core never sees raw file bytes; byte-level format decoding lives behind
// this port.
type DocumentSource interface {
	// Load reads the file at path and returns the decoded document.
	// Returns domain.ErrEmptyDocument when the file has no usable text.
	Load(ctx context.Context, path string) (*domain.Document, error)
}
