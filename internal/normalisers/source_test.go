package normalisers

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studyforge/studyforge-cli/internal/normalisers/markdown"
	"github.com/studyforge/studyforge-cli/internal/normalisers/plaintext"
)

func TestForPath(t *testing.T) {
	assert.IsType(t, &markdown.Source{}, ForPath("notes.md"))
	assert.IsType(t, &markdown.Source{}, ForPath("NOTES.MARKDOWN"))
	assert.IsType(t, &plaintext.Source{}, ForPath("book.txt"))
	assert.IsType(t, &plaintext.Source{}, ForPath("no_extension"))
	assert.IsType(t, &plaintext.Source{}, ForPath("data.csv"))
}

func TestAutoSourceLoad(t *testing.T) {
	dir := t.TempDir()
	mdPath := filepath.Join(dir, "plan.md")
	require.NoError(t, os.WriteFile(mdPath, []byte("# Heading Title\n\nbody"), 0600))
	txtPath := filepath.Join(dir, "plain.txt")
	require.NoError(t, os.WriteFile(txtPath, []byte("plain body"), 0600))

	source := NewAutoSource()

	md, err := source.Load(context.Background(), mdPath)
	require.NoError(t, err)
	assert.Equal(t, "Heading Title", md.Title)

	txt, err := source.Load(context.Background(), txtPath)
	require.NoError(t, err)
	assert.Equal(t, "plain", txt.Title)
}
