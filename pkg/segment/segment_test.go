package segment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWords(t *testing.T) {
	assert.Equal(t, []string{"i", "like", "happy", "friendly", "people"}, Words("I like  HAPPY friendly\tpeople", "en"))
	assert.Empty(t, Words("   ", "en"))
	// Unparseable language codes fall back to the root locale.
	assert.Equal(t, []string{"hello"}, Words("HELLO", "not a tag"))
}

func TestWordsTurkishCasing(t *testing.T) {
	assert.Equal(t, []string{"ı"}, Words("I", "tr"))
	assert.Equal(t, []string{"i"}, Words("I", "en"))
}

func TestSentences(t *testing.T) {
	got, err := Sentences("I like happy people. I hate every ugly terrorist! Do you?")
	require.NoError(t, err)
	assert.Equal(t, []string{
		"I like happy people.",
		"I hate every ugly terrorist!",
		"Do you?",
	}, got)

	got, err = Sentences("   ")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestDropStopwords(t *testing.T) {
	got := DropStopwords([]string{"the", "happy", "and", "terrorist"}, "en")
	assert.Equal(t, []string{"happy", "terrorist"}, got)
}
