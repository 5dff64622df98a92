package lexicon

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withDownloadURL(t *testing.T, url string) {
	t.Helper()
	old := DownloadURL
	DownloadURL = url
	t.Cleanup(func() { DownloadURL = old })
}

func TestEnsureLexicon_LocalCache(t *testing.T) {
	path := filepath.Join(t.TempDir(), "en", FileName)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("existing"), 0o644))

	// Any request would fail the test.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected download request %s", r.URL)
	}))
	defer srv.Close()
	withDownloadURL(t, srv.URL)

	require.NoError(t, EnsureLexicon(context.Background(), path))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "existing", string(data))
}

func TestEnsureLexicon_Downloads(t *testing.T) {
	body, err := os.ReadFile(DirSource{Root: "testdata"}.Path("en"))
	require.NoError(t, err)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "sentimenticon-cli", r.Header.Get("User-Agent"))
		w.Write(body)
	}))
	defer srv.Close()
	withDownloadURL(t, srv.URL)

	root := t.TempDir()
	src := DirSource{Root: root}
	require.NoError(t, EnsureLexicon(context.Background(), src.Path("en")))

	lex, err := Load(src, "en", ParseOptions{})
	require.NoError(t, err)
	assert.Equal(t, fixtureLines, lex.Len())
}

func TestEnsureLexicon_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()
	withDownloadURL(t, srv.URL)

	path := filepath.Join(t.TempDir(), "en", FileName)
	err := EnsureLexicon(context.Background(), path)
	require.Error(t, err)
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr), "no partial file should be left behind")
}
