package lexicon

import (
	"database/sql"
	"fmt"

	"fortio.org/safecast"

	"github.com/japaniel/sentimenticon/pkg/db"
)

// Importer copies a parsed lexicon into the sqlite store.
type Importer struct {
	conn *sql.DB
	lex  *Lexicon
}

// NewImporter creates an importer for lex.
func NewImporter(conn *sql.DB, lex *Lexicon) *Importer {
	return &Importer{conn: conn, lex: lex}
}

// Import upserts every entry in a single transaction and returns the number written.
func (im *Importer) Import() (int, error) {
	tx, err := im.conn.Begin()
	if err != nil {
		return 0, fmt.Errorf("begin import: %w", err)
	}
	defer func() {
		_ = tx.Rollback() // ignored if committed
	}()

	count := 0
	var upsertErr error
	im.lex.Each(func(e Entry) {
		if upsertErr != nil {
			return
		}
		if _, err := db.UpsertLexiconEntry(tx, toRow(im.lex.Language(), e)); err != nil {
			upsertErr = fmt.Errorf("import %q: %w", e.Word, err)
			return
		}
		count++
	})
	if upsertErr != nil {
		return 0, upsertErr
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit import: %w", err)
	}
	return count, nil
}

// LoadFromDB rebuilds the lexicon for language from the sqlite store.
// It returns an error wrapping ErrLanguageNotFound when nothing is stored for language.
func LoadFromDB(conn db.DBExecutor, language string) (*Lexicon, error) {
	rows, err := db.GetLexiconEntries(conn, language)
	if err != nil {
		return nil, fmt.Errorf("query %s lexicon: %w", language, err)
	}
	if len(rows) == 0 {
		return nil, notFound(language, sql.ErrNoRows)
	}

	entries := make([]Entry, 0, len(rows))
	for _, r := range rows {
		rank, err := safecast.Conv[int](r.Rank)
		if err != nil {
			return nil, fmt.Errorf("stored rank for %q: %w", r.Word, err)
		}
		entries = append(entries, Entry{
			Word:              r.Word,
			Rank:              rank,
			NormalizedAverage: r.NormalizedAverage,
			Average:           r.Average,
			Std:               r.Std,
			Twitter:           r.TwitterRank,
			Google:            r.GoogleRank,
			NYT:               r.NYTRank,
			Lyrics:            r.LyricsRank,
		})
	}
	return New(language, entries), nil
}

func toRow(language string, e Entry) db.LexiconEntry {
	return db.LexiconEntry{
		Language:          language,
		Word:              e.Word,
		Rank:              int64(e.Rank),
		NormalizedAverage: e.NormalizedAverage,
		Average:           e.Average,
		Std:               e.Std,
		TwitterRank:       e.Twitter,
		GoogleRank:        e.Google,
		NYTRank:           e.NYT,
		LyricsRank:        e.Lyrics,
	}
}
