package lexicon

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Likert bounds of the hedonometer happiness average.
const (
	MinAverage = 1.0
	MaxAverage = 9.0
)

// ErrOutOfRange is returned by Normalize when the average is outside [MinAverage, MaxAverage].
var ErrOutOfRange = errors.New("average out of range")

// Entry is one scored word from the hedonometer table.
type Entry struct {
	Word              string
	Rank              int
	NormalizedAverage float64 // -1.0 (least happy) to 1.0 (happiest)
	Average           float64 // raw 1-9 Likert average
	Std               float64

	// Per-corpus frequency ranks. Invalid when the table has no rank ("--").
	Twitter sql.Null[int64]
	Google  sql.Null[int64]
	NYT     sql.Null[int64]
	Lyrics  sql.Null[int64]
}

// Normalize maps a 1-9 Likert average onto -1.0..1.0.
// NaN fails both bound comparisons and is rejected with ErrOutOfRange rather than
// passed through as a NaN score.
func Normalize(avg float64) (float64, error) {
	if !(avg >= MinAverage && avg <= MaxAverage) {
		return 0, fmt.Errorf("%w: %v not in [%.1f, %.1f]", ErrOutOfRange, avg, MinAverage, MaxAverage)
	}
	return ((avg-1)/8)*2 - 1.0, nil
}

// ParseInt parses s as a base-10 integer. The result is invalid when s does not parse.
func ParseInt(s string) sql.Null[int64] {
	v, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return sql.Null[int64]{}
	}
	return sql.Null[int64]{V: v, Valid: true}
}

// ParseFloat parses s as a float64. The result is invalid when s does not parse.
func ParseFloat(s string) sql.Null[float64] {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return sql.Null[float64]{}
	}
	return sql.Null[float64]{V: v, Valid: true}
}
