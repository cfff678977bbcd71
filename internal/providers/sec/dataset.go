package sec

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/seenimoa/insiderscan/internal/infra"
)

// ArchiveName returns the file name of the Form 3/4/5 archive for a quarter.
func ArchiveName(year, quarter int) string {
	return fmt.Sprintf("%dq%d_form345.zip", year, quarter)
}

// ArchiveURL returns the download URL of the Form 3/4/5 archive for a quarter.
func (p *Provider) ArchiveURL(year, quarter int) string {
	return p.datasetURL + "/" + ArchiveName(year, quarter)
}

// DownloadForm345 stores the quarterly archive in destDir and returns its
// path. An archive already present is reused without a request. The body is
// streamed to a temporary file and renamed into place, so an interrupted
// download never leaves a partial archive behind.
func (p *Provider) DownloadForm345(ctx context.Context, year, quarter int, destDir string) (string, error) {
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return "", fmt.Errorf("create dataset dir: %w", err)
	}
	dest := filepath.Join(destDir, ArchiveName(year, quarter))
	if _, err := os.Stat(dest); err == nil {
		p.logger.Debug().Str("path", dest).Msg("archive already downloaded")
		return dest, nil
	}

	if err := p.pacer.Wait(ctx); err != nil {
		return "", err
	}
	url := p.ArchiveURL(year, quarter)
	p.logger.Info().Str("url", url).Msg("downloading insider transaction archive")

	body, _, err := infra.DoGetWith(ctx, p.downloadClient, url, p.headers())
	if err != nil {
		return "", wrapErr("download", err)
	}
	defer body.Close()

	tmp, err := os.CreateTemp(destDir, ".download-*")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	n, err := io.Copy(tmp, body)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return "", wrapErr("download", fmt.Errorf("write %s: %w", dest, err))
	}
	if err := os.Rename(tmp.Name(), dest); err != nil {
		return "", fmt.Errorf("store archive: %w", err)
	}

	p.logger.Info().Str("path", dest).Int64("bytes", n).Msg("archive downloaded")
	return dest, nil
}
