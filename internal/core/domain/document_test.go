package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseImportance(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Importance
	}{
		{"high", "High", ImportanceHigh},
		{"high lowercase", "high", ImportanceHigh},
		{"critical maps to high", "Critical", ImportanceHigh},
		{"low", "Low", ImportanceLow},
		{"medium", "Medium", ImportanceMedium},
		{"unknown defaults to medium", "somewhat important", ImportanceMedium},
		{"empty defaults to medium", "", ImportanceMedium},
		{"padded", "  High  ", ImportanceHigh},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseImportance(tt.input))
		})
	}
}

func TestImportance_String(t *testing.T) {
	assert.Equal(t, "High", ImportanceHigh.String())
	assert.Equal(t, "Medium", ImportanceMedium.String())
	assert.Equal(t, "Low", ImportanceLow.String())
}

func TestImportance_Ordering(t *testing.T) {
	assert.Greater(t, ImportanceHigh, ImportanceMedium)
	assert.Greater(t, ImportanceMedium, ImportanceLow)
}

func TestNormalizeTitle(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"lowercases", "Memory Management", "memory management"},
		{"strips punctuation", "Goroutines, Channels & Select!", "goroutines channels select"},
		{"collapses whitespace", "  The   Heap  ", "the heap"},
		{"keeps digits", "Chapter 12: IPv6", "chapter 12 ipv6"},
		{"empty", "", ""},
		{"punctuation only", "...---...", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeTitle(tt.input))
		})
	}
}
