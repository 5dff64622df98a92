package db

import (
	"database/sql"
	"time"
)

// LexiconEntry is a stored hedonometer record.
type LexiconEntry struct {
	ID                int64
	Language          string
	Word              string
	Rank              int64
	NormalizedAverage float64
	Average           float64
	Std               float64
	TwitterRank       sql.Null[int64]
	GoogleRank        sql.Null[int64]
	NYTRank           sql.Null[int64]
	LyricsRank        sql.Null[int64]
}

// Document is a scored text (article, file, stdin).
type Document struct {
	ID                    int64
	SourceType            string
	Title                 string
	URL                   string
	Language              string
	LastProcessedSentence int
	AddedAt               time.Time
}

// SentenceScore is the average word sentiment of one sentence of a document.
type SentenceScore struct {
	ID            int64
	DocumentID    int64
	SentenceIndex int
	Text          string
	Score         float64
	KnownWords    int
	TotalWords    int
}
