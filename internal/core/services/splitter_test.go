package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studyforge/studyforge-cli/internal/core/domain"
)

func TestNewSplitterValidation(t *testing.T) {
	tests := []struct {
		name    string
		size    int
		overlap int
		wantErr bool
	}{
		{name: "valid", size: 100, overlap: 10, wantErr: false},
		{name: "zero overlap", size: 100, overlap: 0, wantErr: false},
		{name: "zero size", size: 0, overlap: 0, wantErr: true},
		{name: "negative overlap", size: 100, overlap: -1, wantErr: true},
		{name: "overlap equals size", size: 100, overlap: 100, wantErr: true},
		{name: "overlap exceeds size", size: 100, overlap: 150, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewSplitter(tt.size, tt.overlap, "\n\n")
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, domain.ErrInvalidConfig)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestSplitEmptyText(t *testing.T) {
	s, err := NewSplitter(100, 10, "\n\n")
	require.NoError(t, err)

	_, err = s.Split("")
	assert.ErrorIs(t, err, domain.ErrEmptyDocument)
}

func TestSplitShortTextSingleUnit(t *testing.T) {
	s, err := NewSplitter(100, 10, "\n\n")
	require.NoError(t, err)

	units, err := s.Split("short text")
	require.NoError(t, err)
	require.Len(t, units, 1)
	assert.Equal(t, 0, units[0].Start)
	assert.Equal(t, 10, units[0].End)
	assert.Equal(t, "short text", units[0].Text)
	assert.Equal(t, 0, units[0].Index)
}

func TestSplitParagraphBoundaries(t *testing.T) {
	text := "AAAA BBBB.\n\nCCCC DDDD.\n\nEEEE FFFF."
	s, err := NewSplitter(20, 5, "\n\n")
	require.NoError(t, err)

	units, err := s.Split(text)
	require.NoError(t, err)
	require.Len(t, units, 3)

	// Each cut lands just past a paragraph separator; each next start is
	// clamped back to a word boundary inside the overlap window.
	assert.Equal(t, "AAAA BBBB.\n\n", units[0].Text)
	assert.Equal(t, "BBBB.\n\nCCCC DDDD.\n\n", units[1].Text)
	assert.Equal(t, "DDDD.\n\nEEEE FFFF.", units[2].Text)

	assert.Equal(t, 5, units[1].Start)
	assert.Equal(t, 17, units[2].Start)
}

func TestSplitCoversWholeText(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 80; i++ {
		b.WriteString("The quick brown fox jumps over the lazy dog. ")
		if i%7 == 6 {
			b.WriteString("\n\n")
		}
	}
	text := b.String()

	s, err := NewSplitter(300, 60, "\n\n")
	require.NoError(t, err)

	units, err := s.Split(text)
	require.NoError(t, err)
	require.NotEmpty(t, units)

	assert.Equal(t, 0, units[0].Start)
	assert.Equal(t, len(text), units[len(units)-1].End)
	for i, u := range units {
		assert.Equal(t, i, u.Index)
		assert.Equal(t, u.End-u.Start, len(u.Text))
		assert.Equal(t, text[u.Start:u.End], u.Text)
		assert.LessOrEqual(t, len(u.Text), 300)
		if i > 0 {
			assert.LessOrEqual(t, u.Start, units[i-1].End, "gap between units %d and %d", i-1, i)
			assert.Greater(t, u.Start, units[i-1].Start, "unit starts must strictly advance")
		}
	}
}

func TestSplitZeroOverlapIsContiguous(t *testing.T) {
	text := strings.Repeat("word word word. ", 100)
	s, err := NewSplitter(120, 0, "\n\n")
	require.NoError(t, err)

	units, err := s.Split(text)
	require.NoError(t, err)
	require.Greater(t, len(units), 1)

	for i := 1; i < len(units); i++ {
		assert.Equal(t, units[i-1].End, units[i].Start)
	}
}

func TestSplitHardCutWithoutSeparators(t *testing.T) {
	text := strings.Repeat("x", 100)
	s, err := NewSplitter(30, 0, "\n\n")
	require.NoError(t, err)

	units, err := s.Split(text)
	require.NoError(t, err)
	require.Len(t, units, 4)
	assert.Equal(t, 30, units[0].End)
	assert.Equal(t, 60, units[1].End)
	assert.Equal(t, 90, units[2].End)
	assert.Equal(t, 100, units[3].End)
}

func TestSplitSentenceFallback(t *testing.T) {
	// No paragraph separators, so the cut must land after a sentence end.
	text := "First sentence here. Second sentence follows it. Third sentence is longer still. Fourth one."
	s, err := NewSplitter(60, 0, "\n\n")
	require.NoError(t, err)

	units, err := s.Split(text)
	require.NoError(t, err)
	require.Greater(t, len(units), 1)
	assert.True(t, strings.HasSuffix(units[0].Text, ". "), "expected sentence-boundary cut, got %q", units[0].Text)
}

func TestSplitDeterministic(t *testing.T) {
	text := strings.Repeat("Some sentences appear here. They repeat a lot.\n\n", 40)
	s, err := NewSplitter(200, 40, "\n\n")
	require.NoError(t, err)

	a, err := s.Split(text)
	require.NoError(t, err)
	b, err := s.Split(text)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}
