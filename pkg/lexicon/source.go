package lexicon

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// FileName is the name of the hedonometer table inside each language directory
// (supplementary table S1 of Dodds et al., PLoS ONE 6(12): e26752).
const FileName = "journal.pone.0026752.s001.txt"

// ErrLanguageNotFound is returned when no table exists for a language code.
var ErrLanguageNotFound = errors.New("lexicon not found for language")

// Source opens the raw table for a language code.
type Source interface {
	Open(language string) (io.ReadCloser, error)
}

// DirSource reads tables laid out as <Root>/<language>/journal.pone.0026752.s001.txt.
type DirSource struct {
	Root string
}

// Path returns the table location for language.
func (s DirSource) Path(language string) string {
	return filepath.Join(s.Root, language, FileName)
}

func (s DirSource) Open(language string) (io.ReadCloser, error) {
	if !validLanguage(language) {
		return nil, notFound(language, fs.ErrNotExist)
	}
	f, err := os.Open(s.Path(language))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, notFound(language, err)
		}
		return nil, fmt.Errorf("open %s lexicon: %w", language, err)
	}
	return f, nil
}

// FSSource reads the same layout as DirSource from an fs.FS, rooted at the FS root.
type FSSource struct {
	FS fs.FS
}

func (s FSSource) Open(language string) (io.ReadCloser, error) {
	if !validLanguage(language) {
		return nil, notFound(language, fs.ErrNotExist)
	}
	f, err := s.FS.Open(path.Join(language, FileName))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, notFound(language, err)
		}
		return nil, fmt.Errorf("open %s lexicon: %w", language, err)
	}
	return f, nil
}

// notFoundError matches both ErrLanguageNotFound and the underlying fs error.
type notFoundError struct {
	language string
	err      error
}

func (e *notFoundError) Error() string {
	return fmt.Sprintf("%s %q: %v", ErrLanguageNotFound, e.language, e.err)
}

func (e *notFoundError) Is(target error) bool { return target == ErrLanguageNotFound }

func (e *notFoundError) Unwrap() error { return e.err }

func notFound(language string, err error) error {
	return &notFoundError{language: language, err: err}
}

// validLanguage rejects codes that would escape the language directory.
func validLanguage(language string) bool {
	return language != "." && fs.ValidPath(language) && !strings.ContainsAny(language, `/\`)
}
