package lexicon

import (
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Stats summarizes the normalized averages of a lexicon.
type Stats struct {
	Language string  `json:"language"`
	Words    int     `json:"words"`
	Positive int     `json:"positive"` // NormalizedAverage > 0
	Negative int     `json:"negative"` // NormalizedAverage < 0
	Neutral  int     `json:"neutral"`
	Mean     float64 `json:"mean"`
	StdDev   float64 `json:"std_dev"`
	Median   float64 `json:"median"`
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
}

// Summarize computes Stats over every entry of lex.
func Summarize(lex *Lexicon) Stats {
	s := Stats{Language: lex.Language(), Words: lex.Len()}
	if lex.Len() == 0 {
		return s
	}

	xs := make([]float64, 0, lex.Len())
	for _, e := range lex.entries {
		xs = append(xs, e.NormalizedAverage)
		switch {
		case e.NormalizedAverage > 0:
			s.Positive++
		case e.NormalizedAverage < 0:
			s.Negative++
		default:
			s.Neutral++
		}
	}
	sort.Float64s(xs)

	s.Mean, s.StdDev = stat.MeanStdDev(xs, nil)
	s.Median = stat.Quantile(0.5, stat.Empirical, xs, nil)
	s.Min = xs[0]
	s.Max = xs[len(xs)-1]
	return s
}
