// Package segment turns raw text into the word lists the analyzer scores.
// The analyzer itself never tokenizes; these helpers live on the caller side.
package segment

import (
	"strings"
	"sync"

	"github.com/bbalet/stopwords"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/neurosnap/sentences.v1"
	"gopkg.in/neurosnap/sentences.v1/english"
)

var (
	tokenizerOnce sync.Once
	tokenizer     *sentences.DefaultSentenceTokenizer
	tokenizerErr  error
	tokenizerMu   sync.Mutex
)

// Words lowercases text for the given language code and splits it on whitespace.
// Punctuation is kept attached, so "happy!" stays "happy!".
func Words(text, lang string) []string {
	tag, err := language.Parse(lang)
	if err != nil {
		tag = language.Und
	}
	return strings.Fields(cases.Lower(tag).String(text))
}

// Sentences splits text into trimmed, non-empty sentences.
func Sentences(text string) ([]string, error) {
	tokenizerOnce.Do(func() {
		tokenizer, tokenizerErr = english.NewSentenceTokenizer(nil)
	})
	if tokenizerErr != nil {
		return nil, tokenizerErr
	}

	tokenizerMu.Lock()
	raw := tokenizer.Tokenize(text)
	tokenizerMu.Unlock()

	var out []string
	for _, s := range raw {
		trimmed := strings.TrimSpace(s.Text)
		if trimmed == "" {
			continue
		}
		out = append(out, trimmed)
	}
	return out, nil
}

// DropStopwords removes words the stopword list for lang filters out.
// Unknown languages leave words untouched.
func DropStopwords(words []string, lang string) []string {
	out := make([]string, 0, len(words))
	for _, w := range words {
		if strings.TrimSpace(stopwords.CleanString(w, lang, false)) == "" {
			continue
		}
		out = append(out, w)
	}
	return out
}
