package main

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-shiori/go-readability"
)

// maxBodySize caps fetched HTML and read files.
const maxBodySize = 10 * 1024 * 1024

// document is text to score plus where it came from.
type document struct {
	SourceType string
	Title      string
	URL        string
	Text       string
}

func isURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// loadDocument reads a local file, "-" for stdin, or fetches an article URL.
func loadDocument(ctx context.Context, in io.Reader, source string) (document, error) {
	switch {
	case isURL(source):
		return fetchArticle(ctx, source)
	case source == "-":
		text, err := readLimited(in)
		if err != nil {
			return document{}, fmt.Errorf("read stdin: %w", err)
		}
		// Identical stdin input maps to the same stored document.
		sum := sha256.Sum256([]byte(text))
		return document{SourceType: "stdin", Title: "stdin", URL: "stdin:" + hex.EncodeToString(sum[:8]), Text: text}, nil
	default:
		f, err := os.Open(source)
		if err != nil {
			return document{}, err
		}
		defer f.Close()
		text, err := readLimited(f)
		if err != nil {
			return document{}, fmt.Errorf("read %s: %w", source, err)
		}
		abs, err := filepath.Abs(source)
		if err != nil {
			abs = source
		}
		return document{SourceType: "file", Title: filepath.Base(source), URL: "file://" + filepath.ToSlash(abs), Text: text}, nil
	}
}

func readLimited(r io.Reader) (string, error) {
	b, err := io.ReadAll(io.LimitReader(r, maxBodySize+1))
	if err != nil {
		return "", err
	}
	if len(b) > maxBodySize {
		return "", fmt.Errorf("input exceeds limit of %d bytes", maxBodySize)
	}
	return string(b), nil
}

// fetchArticle downloads rawURL and extracts the readable article text.
func fetchArticle(ctx context.Context, rawURL string) (document, error) {
	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return document{}, fmt.Errorf("invalid url %q: %w", rawURL, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return document{}, fmt.Errorf("failed to create request: %w", err)
	}
	// Some sites block requests without a browser-like User-Agent.
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return document{}, fmt.Errorf("failed to fetch %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return document{}, fmt.Errorf("fetch %s: got status code %d", rawURL, resp.StatusCode)
	}
	if resp.ContentLength > maxBodySize {
		return document{}, fmt.Errorf("content-length %d exceeds limit of %d bytes", resp.ContentLength, maxBodySize)
	}

	body, err := readLimited(resp.Body)
	if err != nil {
		return document{}, fmt.Errorf("read %s: %w", rawURL, err)
	}

	article, err := readability.FromReader(bytes.NewReader([]byte(body)), parsedURL)
	if err != nil {
		return document{}, fmt.Errorf("failed to extract article: %w", err)
	}
	return document{
		SourceType: "website_article",
		Title:      article.Title,
		URL:        rawURL,
		Text:       article.TextContent,
	}, nil
}
