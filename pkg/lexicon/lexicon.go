package lexicon

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"

	"fortio.org/safecast"
)

// recordFields is the number of tab-separated fields in a data line:
// word, rank, average, std, twitter, google, nyt, lyrics.
const recordFields = 8

// Lexicon maps words to their sentiment entries for one language.
// It is never mutated after Parse returns, so concurrent readers need no locking.
type Lexicon struct {
	language string
	entries  map[string]Entry
}

// ParseOptions controls how Parse treats records.
type ParseOptions struct {
	// SkipInvalid logs and skips records whose average is out of range instead of
	// failing the whole load.
	SkipInvalid bool
	// Logger receives skip warnings. nil means slog.Default().
	Logger *slog.Logger
}

// New builds a lexicon from entries. Later entries overwrite earlier ones with the same word.
func New(language string, entries []Entry) *Lexicon {
	lex := &Lexicon{
		language: language,
		entries:  make(map[string]Entry, len(entries)),
	}
	for _, e := range entries {
		lex.entries[e.Word] = e
	}
	return lex
}

// Parse reads a hedonometer table from r.
//
// Lines that do not have exactly eight tab-separated fields are ignored, as are lines
// whose rank, average or std is missing, unparseable or zero. An average outside 1-9
// aborts the load with ErrOutOfRange unless opts.SkipInvalid is set.
func Parse(r io.Reader, language string, opts ParseOptions) (*Lexicon, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	lex := New(language, nil)
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		parts := strings.Split(strings.TrimSpace(scanner.Text()), "\t")
		if len(parts) != recordFields {
			continue
		}

		rank := ParseInt(parts[1])
		avg := ParseFloat(parts[2])
		std := ParseFloat(parts[3])
		// Zero counts as missing, like an unparseable field.
		if !rank.Valid || rank.V == 0 || !avg.Valid || avg.V == 0 || !std.Valid || std.V == 0 {
			continue
		}
		rankN, err := safecast.Conv[int](rank.V)
		if err != nil {
			continue
		}

		norm, err := Normalize(avg.V)
		if err != nil {
			if opts.SkipInvalid {
				logger.Warn("skipping lexicon record", "language", language, "line", lineNo, "word", parts[0], "error", err)
				continue
			}
			return nil, fmt.Errorf("line %d (%q): %w", lineNo, parts[0], err)
		}

		lex.entries[parts[0]] = Entry{
			Word:              parts[0],
			Rank:              rankN,
			NormalizedAverage: norm,
			Average:           avg.V,
			Std:               std.V,
			Twitter:           ParseInt(parts[4]),
			Google:            ParseInt(parts[5]),
			NYT:               ParseInt(parts[6]),
			Lyrics:            ParseInt(parts[7]),
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read lexicon: %w", err)
	}
	return lex, nil
}

// Load opens the table for language from src and parses it.
func Load(src Source, language string, opts ParseOptions) (*Lexicon, error) {
	if src == nil {
		return nil, errors.New("lexicon source is nil")
	}
	rc, err := src.Open(language)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	lex, err := Parse(rc, language, opts)
	if err != nil {
		return nil, fmt.Errorf("load %s lexicon: %w", language, err)
	}
	return lex, nil
}

// Lookup returns the entry for word.
func (l *Lexicon) Lookup(word string) (Entry, bool) {
	e, ok := l.entries[word]
	return e, ok
}

// Len returns the number of distinct words.
func (l *Lexicon) Len() int { return len(l.entries) }

// Language returns the language code the lexicon was loaded for.
func (l *Lexicon) Language() string { return l.language }

// Words returns all words in lexical order.
func (l *Lexicon) Words() []string {
	words := make([]string, 0, len(l.entries))
	for w := range l.entries {
		words = append(words, w)
	}
	sort.Strings(words)
	return words
}

// Each calls fn for every entry in lexical word order.
func (l *Lexicon) Each(fn func(Entry)) {
	for _, w := range l.Words() {
		fn(l.entries[w])
	}
}
