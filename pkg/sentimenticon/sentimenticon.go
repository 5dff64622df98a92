// Package sentimenticon scores words and word sequences with the hedonometer lexicon
// of Dodds et al., "Temporal Patterns of Happiness and Information in a Global Social
// Network: Hedonometrics and Twitter" (PLoS ONE, 2011).
//
// Scores range from -1.0 (least happy) to 1.0 (happiest). Words are looked up as given;
// callers lowercase and split text themselves.
package sentimenticon

import (
	"errors"
	"log/slog"

	"gonum.org/v1/gonum/stat"

	"github.com/japaniel/sentimenticon/pkg/lexicon"
)

// Version returns the current version of the package.
func Version() string { return "0.1.0" }

// DefaultMinimumFrequency is the default Config.MinimumFrequency.
const DefaultMinimumFrequency = 1.0e-08

// Config selects and loads the lexicon an Analyzer uses.
type Config struct {
	Language string
	// MinimumFrequency is kept for frequency-based filtering; scoring ignores it.
	// Zero means DefaultMinimumFrequency.
	MinimumFrequency float64
	// Source provides the raw table. nil means lexicon.DirSource{Root: "data"}.
	Source lexicon.Source
	// SkipInvalid skips out-of-range records instead of failing construction.
	SkipInvalid bool
	Logger      *slog.Logger
}

// DefaultConfig returns the English configuration reading from ./data.
func DefaultConfig() Config {
	return Config{
		Language:         "en",
		MinimumFrequency: DefaultMinimumFrequency,
		Source:           lexicon.DirSource{Root: "data"},
	}
}

// Analyzer answers sentiment queries against one immutable lexicon.
// All methods are safe for concurrent use.
type Analyzer struct {
	lex              *lexicon.Lexicon
	minimumFrequency float64
}

// Score is the result of scoring a word sequence.
type Score struct {
	Average float64 `json:"average"`
	Known   int     `json:"known"`
	Total   int     `json:"total"`
}

// New loads the lexicon described by cfg. It fails when the language has no table or
// when a record has an out-of-range average (unless cfg.SkipInvalid is set).
func New(cfg Config) (*Analyzer, error) {
	if cfg.Language == "" {
		cfg.Language = "en"
	}
	if cfg.Source == nil {
		cfg.Source = lexicon.DirSource{Root: "data"}
	}
	lex, err := lexicon.Load(cfg.Source, cfg.Language, lexicon.ParseOptions{
		SkipInvalid: cfg.SkipInvalid,
		Logger:      cfg.Logger,
	})
	if err != nil {
		return nil, err
	}
	return NewFromLexicon(lex, cfg)
}

// NewFromLexicon wraps an already loaded lexicon.
func NewFromLexicon(lex *lexicon.Lexicon, cfg Config) (*Analyzer, error) {
	if lex == nil {
		return nil, errors.New("lexicon is nil")
	}
	if cfg.MinimumFrequency == 0 {
		cfg.MinimumFrequency = DefaultMinimumFrequency
	}
	return &Analyzer{lex: lex, minimumFrequency: cfg.MinimumFrequency}, nil
}

// WordSentiment returns the normalized sentiment of word, or def if the word is unknown.
// The word must already be lowercased.
func (a *Analyzer) WordSentiment(word string, def float64) float64 {
	if e, ok := a.lex.Lookup(word); ok {
		return e.NormalizedAverage
	}
	return def
}

// AverageWordSentiment returns the mean sentiment of words, counting unknown words as 0.0.
// It returns 0.0 for an empty sequence.
func (a *Analyzer) AverageWordSentiment(words []string) float64 {
	return a.Score(words).Average
}

// Score is AverageWordSentiment plus how many of the words the lexicon knows.
func (a *Analyzer) Score(words []string) Score {
	s := Score{Total: len(words)}
	if len(words) == 0 {
		return s
	}
	xs := make([]float64, len(words))
	for i, w := range words {
		if e, ok := a.lex.Lookup(w); ok {
			xs[i] = e.NormalizedAverage
			s.Known++
		}
	}
	s.Average = stat.Mean(xs, nil)
	return s
}

// SentimentObject returns the full lexicon entry for word.
func (a *Analyzer) SentimentObject(word string) (lexicon.Entry, bool) {
	return a.lex.Lookup(word)
}

// Language returns the language code of the loaded lexicon.
func (a *Analyzer) Language() string { return a.lex.Language() }

// MinimumFrequency returns the configured minimum frequency.
func (a *Analyzer) MinimumFrequency() float64 { return a.minimumFrequency }

// Lexicon returns the underlying read-only lexicon.
func (a *Analyzer) Lexicon() *lexicon.Lexicon { return a.lex }
