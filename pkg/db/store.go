package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// DBExecutor is an interface that allows methods to accept either *sql.DB or *sql.Tx
type DBExecutor interface {
	Exec(query string, args ...interface{}) (sql.Result, error)
	Query(query string, args ...interface{}) (*sql.Rows, error)
	QueryRow(query string, args ...interface{}) *sql.Row
}

// isUniqueConstraintErr returns true when the error indicates a unique/constraint violation
func isUniqueConstraintErr(err error) bool {
	if err == nil {
		return false
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "unique") || strings.Contains(s, "constraint failed")
}

// UpsertLexiconEntry inserts or replaces the entry for (language, word) and returns its id.
func UpsertLexiconEntry(db DBExecutor, e LexiconEntry) (int64, error) {
	word := strings.TrimSpace(e.Word)
	if word == "" {
		return 0, fmt.Errorf("word must be non-empty")
	}
	if strings.TrimSpace(e.Language) == "" {
		return 0, fmt.Errorf("language must be non-empty")
	}

	var id int64
	query := `INSERT INTO lexicon_entries
			  (language, word, rank, normalized_average, average, std, twitter_rank, google_rank, nyt_rank, lyrics_rank)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			  ON CONFLICT(language, word)
			  DO UPDATE SET
			    rank = excluded.rank,
			    normalized_average = excluded.normalized_average,
			    average = excluded.average,
			    std = excluded.std,
			    twitter_rank = excluded.twitter_rank,
			    google_rank = excluded.google_rank,
			    nyt_rank = excluded.nyt_rank,
			    lyrics_rank = excluded.lyrics_rank
			  RETURNING id`

	err := db.QueryRow(query, e.Language, word, e.Rank, e.NormalizedAverage, e.Average, e.Std,
		e.TwitterRank, e.GoogleRank, e.NYTRank, e.LyricsRank).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("upsert lexicon entry: %w", err)
	}
	return id, nil
}

// GetLexiconEntries returns all stored entries for language ordered by word.
func GetLexiconEntries(db DBExecutor, language string) ([]LexiconEntry, error) {
	rows, err := db.Query(`SELECT id, language, word, rank, normalized_average, average, std,
		twitter_rank, google_rank, nyt_rank, lyrics_rank
		FROM lexicon_entries WHERE language = ? ORDER BY word`, language)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []LexiconEntry
	for rows.Next() {
		var e LexiconEntry
		if err := rows.Scan(&e.ID, &e.Language, &e.Word, &e.Rank, &e.NormalizedAverage, &e.Average, &e.Std,
			&e.TwitterRank, &e.GoogleRank, &e.NYTRank, &e.LyricsRank); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// CountLexiconEntries returns the number of stored entries for language.
func CountLexiconEntries(db DBExecutor, language string) (int, error) {
	var n int
	err := db.QueryRow(`SELECT COUNT(*) FROM lexicon_entries WHERE language = ?`, language).Scan(&n)
	return n, err
}

// CreateOrGetDocument returns existing document id or inserts a new document and returns its id.
func CreateOrGetDocument(db DBExecutor, sourceType, title, url, language string) (int64, error) {
	trimmedSourceType := strings.TrimSpace(sourceType)
	if trimmedSourceType == "" {
		return 0, fmt.Errorf("sourceType must be non-empty")
	}
	if language == "" {
		language = "en"
	}

	const maxRetries = 3

	var id int64
	for attempt := 0; attempt < maxRetries; attempt++ {
		err := db.QueryRow(
			`SELECT id FROM documents WHERE IFNULL(url, '') = ? AND IFNULL(title, '') = ?`,
			url, title,
		).Scan(&id)
		if err == nil {
			return id, nil
		}
		if err != sql.ErrNoRows {
			return 0, err
		}

		res, err := db.Exec(
			`INSERT INTO documents (source_type, title, url, language) VALUES (?, ?, ?, ?)`,
			trimmedSourceType, title, url, language,
		)
		if err != nil {
			// Another writer inserted the same document; retry the SELECT.
			if isUniqueConstraintErr(err) {
				continue
			}
			return 0, err
		}
		return res.LastInsertId()
	}

	return 0, fmt.Errorf("could not create or get document after %d retries", maxRetries)
}

// GetDocument returns the document with the given id.
func GetDocument(db DBExecutor, id int64) (Document, error) {
	var d Document
	var title, url sql.NullString
	var addedAt sql.NullTime
	err := db.QueryRow(`SELECT id, source_type, title, url, language, last_processed_sentence, added_at
		FROM documents WHERE id = ?`, id).Scan(&d.ID, &d.SourceType, &title, &url, &d.Language, &d.LastProcessedSentence, &addedAt)
	if err != nil {
		return Document{}, err
	}
	d.Title = title.String
	d.URL = url.String
	d.AddedAt = addedAt.Time
	return d, nil
}

// SaveSentenceScore stores the score of one sentence, replacing an earlier score at the same index.
func SaveSentenceScore(db DBExecutor, s SentenceScore) error {
	if s.DocumentID <= 0 {
		return fmt.Errorf("documentID must be positive")
	}
	if s.SentenceIndex < 0 {
		return fmt.Errorf("sentenceIndex must be non-negative, got %d", s.SentenceIndex)
	}
	_, err := db.Exec(`INSERT INTO sentence_scores (document_id, sentence_index, text, score, known_words, total_words)
	VALUES (?, ?, ?, ?, ?, ?)
	ON CONFLICT(document_id, sentence_index) DO UPDATE SET
	  text = excluded.text,
	  score = excluded.score,
	  known_words = excluded.known_words,
	  total_words = excluded.total_words`,
		s.DocumentID, s.SentenceIndex, strings.TrimSpace(s.Text), s.Score, s.KnownWords, s.TotalWords)
	return err
}

// GetSentenceScores returns the stored sentence scores of a document in sentence order.
func GetSentenceScores(db DBExecutor, documentID int64) ([]SentenceScore, error) {
	rows, err := db.Query(`SELECT id, document_id, sentence_index, text, score, known_words, total_words
		FROM sentence_scores WHERE document_id = ? ORDER BY sentence_index`, documentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []SentenceScore
	for rows.Next() {
		var s SentenceScore
		if err := rows.Scan(&s.ID, &s.DocumentID, &s.SentenceIndex, &s.Text, &s.Score, &s.KnownWords, &s.TotalWords); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// GetDocumentScore returns the mean sentence score of a document and the number of scored sentences.
func GetDocumentScore(db DBExecutor, documentID int64) (float64, int, error) {
	var avg sql.NullFloat64
	var n int
	err := db.QueryRow(`SELECT AVG(score), COUNT(*) FROM sentence_scores WHERE document_id = ?`, documentID).Scan(&avg, &n)
	if err != nil {
		return 0, 0, err
	}
	return avg.Float64, n, nil
}

// GetDocumentProgress returns the last processed sentence index for a document (-1 when none).
func GetDocumentProgress(db DBExecutor, documentID int64) (int, error) {
	var index int
	err := db.QueryRow("SELECT last_processed_sentence FROM documents WHERE id = ?", documentID).Scan(&index)
	if err != nil {
		return 0, err
	}
	return index, nil
}

// UpdateDocumentProgress updates the last processed sentence index.
func UpdateDocumentProgress(db DBExecutor, documentID int64, index int) error {
	_, err := db.Exec("UPDATE documents SET last_processed_sentence = ? WHERE id = ?", index, documentID)
	return err
}
