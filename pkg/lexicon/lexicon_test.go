package lexicon

import (
	"bytes"
	"errors"
	"io/fs"
	"log/slog"
	"math"
	"os"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fixtureLines = 19

func loadFixture(t *testing.T) *Lexicon {
	t.Helper()
	lex, err := Load(DirSource{Root: "testdata"}, "en", ParseOptions{})
	require.NoError(t, err)
	return lex
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{1.0, -1.0},
		{9.0, 1.0},
		{5.0, 0.0},
		{8.30, 0.825},
		{1.30, -0.925},
	}
	for _, tt := range tests {
		got, err := Normalize(tt.in)
		require.NoError(t, err)
		assert.InDelta(t, tt.want, got, 1e-9, "Normalize(%v)", tt.in)
	}
}

func TestNormalizeOutOfRange(t *testing.T) {
	for _, in := range []float64{0.5, 9.5, 0, -3, math.NaN(), math.Inf(1)} {
		_, err := Normalize(in)
		assert.ErrorIs(t, err, ErrOutOfRange, "Normalize(%v)", in)
	}
}

func TestSafeParse(t *testing.T) {
	assert.Equal(t, int64(42), ParseInt(" 42 ").V)
	assert.True(t, ParseInt("42").Valid)
	assert.False(t, ParseInt("--").Valid)
	assert.False(t, ParseInt("4.2").Valid)
	assert.False(t, ParseInt("").Valid)

	assert.InDelta(t, 8.3, ParseFloat("8.30").V, 1e-12)
	assert.True(t, ParseFloat("1").Valid)
	assert.False(t, ParseFloat("happiness_average").Valid)
}

func TestLoadFixture(t *testing.T) {
	lex := loadFixture(t)
	assert.Equal(t, "en", lex.Language())
	assert.Equal(t, fixtureLines, lex.Len())

	happy, ok := lex.Lookup("happy")
	require.True(t, ok)
	assert.Equal(t, 4, happy.Rank)
	assert.InDelta(t, 8.30, happy.Average, 1e-12)
	assert.InDelta(t, 0.9949, happy.Std, 1e-12)
	assert.InDelta(t, 0.825, happy.NormalizedAverage, 1e-9)
	assert.Equal(t, int64(65), happy.Twitter.V)
	assert.True(t, happy.Lyrics.Valid)

	terrorist, ok := lex.Lookup("terrorist")
	require.True(t, ok)
	assert.Less(t, terrorist.NormalizedAverage, 0.0)
	assert.False(t, terrorist.Twitter.Valid, "-- must parse as absent")
	assert.False(t, terrorist.Lyrics.Valid)

	_, ok = lex.Lookup("word")
	assert.False(t, ok, "header line must not become an entry")
}

func TestLoadedEntriesSatisfyNormalization(t *testing.T) {
	lex := loadFixture(t)
	lex.Each(func(e Entry) {
		assert.GreaterOrEqual(t, e.NormalizedAverage, -1.0)
		assert.LessOrEqual(t, e.NormalizedAverage, 1.0)
		assert.InDelta(t, ((e.Average-1)/8)*2-1.0, e.NormalizedAverage, 1e-12, e.Word)
	})
}

func TestParseSkipsNonDataLines(t *testing.T) {
	input := strings.Join([]string{
		"a header with no tabs",
		"too\tfew\tfields",
		"word\thappiness_rank\thappiness_average\thappiness_standard_deviation\ttwitter_rank\tgoogle_rank\tnyt_rank\tlyrics_rank",
		"nine\t1\t2\t3\t4\t5\t6\t7\t8",
		"norank\tx\t5.0\t1.0\t--\t--\t--\t--",
		"noavg\t3\t\t1.0\t--\t--\t--\t--",
		"good\t7\t7.64\t1.10\t76\t172\t256\t103",
	}, "\n")

	lex, err := Parse(strings.NewReader(input), "en", ParseOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"good"}, lex.Words())
}

func TestParseTreatsZeroAsMissing(t *testing.T) {
	input := "zerostd\t10\t5.0\t0\t--\t--\t--\t--\n" +
		"zerorank\t0\t5.0\t1.0\t--\t--\t--\t--\n" +
		"kept\t11\t5.0\t1.0\t--\t--\t--\t--\n"

	lex, err := Parse(strings.NewReader(input), "en", ParseOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"kept"}, lex.Words())
}

func TestParseLaterDuplicateOverwrites(t *testing.T) {
	input := "happy\t4\t8.30\t0.99\t--\t--\t--\t--\n" +
		"happy\t5\t7.00\t1.10\t--\t--\t--\t--\n"

	lex, err := Parse(strings.NewReader(input), "en", ParseOptions{})
	require.NoError(t, err)
	require.Equal(t, 1, lex.Len())
	e, _ := lex.Lookup("happy")
	assert.Equal(t, 5, e.Rank)
	assert.InDelta(t, 7.0, e.Average, 1e-12)
}

func TestParseOutOfRangeFailsFast(t *testing.T) {
	input := "good\t7\t7.64\t1.10\t--\t--\t--\t--\n" +
		"broken\t8\t9.5\t1.10\t--\t--\t--\t--\n"

	lex, err := Parse(strings.NewReader(input), "en", ParseOptions{})
	assert.Nil(t, lex)
	assert.ErrorIs(t, err, ErrOutOfRange)
	assert.Contains(t, err.Error(), "broken")
}

func TestParseOutOfRangeSkipInvalid(t *testing.T) {
	input := "good\t7\t7.64\t1.10\t--\t--\t--\t--\n" +
		"broken\t8\t0.5\t1.10\t--\t--\t--\t--\n"

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	lex, err := Parse(strings.NewReader(input), "en", ParseOptions{SkipInvalid: true, Logger: logger})
	require.NoError(t, err)
	assert.Equal(t, []string{"good"}, lex.Words())
	assert.Contains(t, buf.String(), "broken")
}

func TestLoadMissingLanguage(t *testing.T) {
	_, err := Load(DirSource{Root: "testdata"}, "xx", ParseOptions{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrLanguageNotFound)
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestLoadRejectsPathLikeLanguage(t *testing.T) {
	for _, lang := range []string{"", ".", "..", "../en", "en/../en", `en\x`} {
		_, err := Load(DirSource{Root: "testdata"}, lang, ParseOptions{})
		assert.ErrorIs(t, err, ErrLanguageNotFound, "language %q", lang)
	}
}

func TestFSSource(t *testing.T) {
	data, err := os.ReadFile(DirSource{Root: "testdata"}.Path("en"))
	require.NoError(t, err)

	fsys := fstest.MapFS{
		"en/" + FileName: &fstest.MapFile{Data: data},
	}
	lex, err := Load(FSSource{FS: fsys}, "en", ParseOptions{})
	require.NoError(t, err)
	assert.Equal(t, fixtureLines, lex.Len())

	_, err = Load(FSSource{FS: fsys}, "de", ParseOptions{})
	assert.True(t, errors.Is(err, ErrLanguageNotFound))
}

func TestLoadNilSource(t *testing.T) {
	_, err := Load(nil, "en", ParseOptions{})
	assert.Error(t, err)
}

func TestNewOverwritesDuplicates(t *testing.T) {
	lex := New("en", []Entry{
		{Word: "a", Rank: 1},
		{Word: "b", Rank: 2},
		{Word: "a", Rank: 3},
	})
	assert.Equal(t, 2, lex.Len())
	e, _ := lex.Lookup("a")
	assert.Equal(t, 3, e.Rank)

	var seen []string
	lex.Each(func(e Entry) { seen = append(seen, e.Word) })
	assert.Equal(t, []string{"a", "b"}, seen)
}

func TestSummarize(t *testing.T) {
	lex := loadFixture(t)
	s := Summarize(lex)
	assert.Equal(t, "en", s.Language)
	assert.Equal(t, fixtureLines, s.Words)
	assert.Equal(t, s.Words, s.Positive+s.Negative+s.Neutral)
	assert.Equal(t, 7, s.Negative)
	assert.InDelta(t, 0.875, s.Max, 1e-9)
	assert.InDelta(t, -0.925, s.Min, 1e-9)
	assert.Greater(t, s.StdDev, 0.0)
	assert.GreaterOrEqual(t, s.Median, s.Min)
	assert.LessOrEqual(t, s.Median, s.Max)
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(New("en", nil))
	assert.Equal(t, 0, s.Words)
	assert.Zero(t, s.Mean)
}
