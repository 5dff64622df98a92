package lexicon

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

// DownloadURL is where EnsureLexicon fetches the English table from when it is missing.
var DownloadURL = "https://journals.plos.org/plosone/article/file?type=supplementary&id=info:doi/10.1371/journal.pone.0026752.s001"

// maxDownloadSize caps the table download; the real file is well under 1 MB.
const maxDownloadSize = 16 * 1024 * 1024

// EnsureLexicon checks if the table exists at path.
// If not, it downloads it from DownloadURL and writes it atomically to path.
func EnsureLexicon(ctx context.Context, path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return err
	}

	slog.Info("lexicon not found, downloading", "path", path, "url", DownloadURL)
	return download(ctx, DownloadURL, path)
}

func download(ctx context.Context, url, destPath string) error {
	ctx, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", "sentimenticon-cli")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("download lexicon: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download failed: %s", resp.Status)
	}
	if resp.ContentLength > maxDownloadSize {
		return fmt.Errorf("lexicon size %d exceeds limit of %d bytes", resp.ContentLength, maxDownloadSize)
	}

	if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
		return fmt.Errorf("create lexicon dir: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(destPath), ".lexicon-*.txt")
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer os.Remove(tmp.Name()) // no-op after a successful rename

	n, err := io.Copy(tmp, io.LimitReader(resp.Body, maxDownloadSize+1))
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("failed to write to file: %w", err)
	}
	if n > maxDownloadSize {
		return fmt.Errorf("lexicon body exceeded maximum size limit of %d bytes", maxDownloadSize)
	}

	return os.Rename(tmp.Name(), destPath)
}
