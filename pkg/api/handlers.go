package api

import (
	"encoding/json"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/japaniel/sentimenticon/pkg/lexicon"
	"github.com/japaniel/sentimenticon/pkg/segment"
	"github.com/japaniel/sentimenticon/pkg/sentimenticon"
)

// maxBodyBytes bounds POST /api/v1/score bodies.
const maxBodyBytes = 1 << 20

// ErrorResponse is the standard error response format
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func writeError(w http.ResponseWriter, status int, message, code string) {
	writeJSON(w, status, ErrorResponse{Error: message, Code: code})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type Handlers struct {
	analyzer *sentimenticon.Analyzer

	statsOnce sync.Once
	stats     lexicon.Stats
}

func NewHandlers(analyzer *sentimenticon.Analyzer) *Handlers {
	return &Handlers{analyzer: analyzer}
}

// HealthResponse is returned by GET /health.
type HealthResponse struct {
	Status   string `json:"status"`
	Language string `json:"language"`
	Words    int    `json:"words"`
	Version  string `json:"version"`
}

// Health handles GET /health
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:   "ok",
		Language: h.analyzer.Language(),
		Words:    h.analyzer.Lexicon().Len(),
		Version:  sentimenticon.Version(),
	})
}

// Stats handles GET /api/v1/stats
func (h *Handlers) Stats(w http.ResponseWriter, r *http.Request) {
	// The lexicon never changes, so the summary is computed once.
	h.statsOnce.Do(func() { h.stats = lexicon.Summarize(h.analyzer.Lexicon()) })
	writeJSON(w, http.StatusOK, h.stats)
}

// WordResponse is returned by GET /api/v1/words/{word}.
type WordResponse struct {
	Word      string  `json:"word"`
	Sentiment float64 `json:"sentiment"`
	Known     bool    `json:"known"`
}

// Word handles GET /api/v1/words/{word}?default=
func (h *Handlers) Word(w http.ResponseWriter, r *http.Request) {
	word, ok := wordParam(w, r)
	if !ok {
		return
	}
	def := 0.0
	if raw := r.URL.Query().Get("default"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		// NaN and infinities have no JSON encoding.
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			writeError(w, http.StatusBadRequest, "default must be a finite number", "INVALID_DEFAULT")
			return
		}
		def = v
	}
	_, known := h.analyzer.SentimentObject(word)
	writeJSON(w, http.StatusOK, WordResponse{
		Word:      word,
		Sentiment: h.analyzer.WordSentiment(word, def),
		Known:     known,
	})
}

// EntryResponse is the full lexicon record of a word. Missing corpus ranks are null.
type EntryResponse struct {
	Word              string  `json:"word"`
	Rank              int     `json:"rank"`
	NormalizedAverage float64 `json:"normalized_average"`
	Average           float64 `json:"average"`
	Std               float64 `json:"std"`
	TwitterRank       *int64  `json:"twitter_rank"`
	GoogleRank        *int64  `json:"google_rank"`
	NYTRank           *int64  `json:"nyt_rank"`
	LyricsRank        *int64  `json:"lyrics_rank"`
}

func newEntryResponse(e lexicon.Entry) EntryResponse {
	rank := func(v int64, valid bool) *int64 {
		if !valid {
			return nil
		}
		return &v
	}
	return EntryResponse{
		Word:              e.Word,
		Rank:              e.Rank,
		NormalizedAverage: e.NormalizedAverage,
		Average:           e.Average,
		Std:               e.Std,
		TwitterRank:       rank(e.Twitter.V, e.Twitter.Valid),
		GoogleRank:        rank(e.Google.V, e.Google.Valid),
		NYTRank:           rank(e.NYT.V, e.NYT.Valid),
		LyricsRank:        rank(e.Lyrics.V, e.Lyrics.Valid),
	}
}

// Entry handles GET /api/v1/words/{word}/entry
func (h *Handlers) Entry(w http.ResponseWriter, r *http.Request) {
	word, ok := wordParam(w, r)
	if !ok {
		return
	}
	e, found := h.analyzer.SentimentObject(word)
	if !found {
		writeError(w, http.StatusNotFound, "word not in lexicon", "UNKNOWN_WORD")
		return
	}
	writeJSON(w, http.StatusOK, newEntryResponse(e))
}

// ScoreRequest carries either pre-split words or raw text.
type ScoreRequest struct {
	Words []string `json:"words"`
	Text  string   `json:"text"`
	// SkipStopwords only applies to Text.
	SkipStopwords bool `json:"skip_stopwords"`
}

// ScoreResponse is returned by POST /api/v1/score.
type ScoreResponse struct {
	sentimenticon.Score
	Words []string `json:"words"`
}

// Score handles POST /api/v1/score
func (h *Handlers) Score(w http.ResponseWriter, r *http.Request) {
	var req ScoreRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", "INVALID_BODY")
		return
	}
	if req.Words != nil && req.Text != "" {
		writeError(w, http.StatusBadRequest, "send either words or text, not both", "AMBIGUOUS_INPUT")
		return
	}

	words := req.Words
	if req.Text != "" {
		words = segment.Words(req.Text, h.analyzer.Language())
		if req.SkipStopwords {
			words = segment.DropStopwords(words, h.analyzer.Language())
		}
	}
	if words == nil {
		words = []string{}
	}

	writeJSON(w, http.StatusOK, ScoreResponse{
		Score: h.analyzer.Score(words),
		Words: words,
	})
}

func wordParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	word, err := url.PathUnescape(chi.URLParam(r, "word"))
	if err != nil || strings.TrimSpace(word) == "" {
		writeError(w, http.StatusBadRequest, "invalid word", "INVALID_WORD")
		return "", false
	}
	return word, true
}
