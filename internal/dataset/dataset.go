// Package dataset acquires and reads the quarterly Form 3/4/5 insider
// transaction data sets: download, extraction and the three TSV tables the
// pipeline joins.
package dataset

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/seenimoa/insiderscan/pkg/utils"
)

// LookbackQuarters is how many quarters Latest tries, current one included.
const LookbackQuarters = 8

// ErrNoDataset is returned when no quarter in the lookback window could be acquired.
var ErrNoDataset = errors.New("no insider transaction dataset available")

// Downloader fetches one quarterly archive into a directory and returns its path.
// sec.Provider implements it.
type Downloader interface {
	DownloadForm345(ctx context.Context, year, quarter int, destDir string) (string, error)
}

// Source acquires extracted datasets under a data directory.
type Source struct {
	dl      Downloader
	dataDir string
	logger  zerolog.Logger
}

// NewSource creates a source storing archives and extracted tables in dataDir.
func NewSource(dl Downloader, dataDir string, logger zerolog.Logger) *Source {
	return &Source{
		dl:      dl,
		dataDir: dataDir,
		logger:  logger.With().Str("component", "dataset").Logger(),
	}
}

// Quarter downloads and extracts the dataset for q and returns the extracted directory.
func (s *Source) Quarter(ctx context.Context, q utils.Quarter) (string, error) {
	zipPath, err := s.dl.DownloadForm345(ctx, q.Year, q.Quarter, s.dataDir)
	if err != nil {
		return "", fmt.Errorf("download %s: %w", q, err)
	}
	dir, err := Extract(zipPath, s.dataDir)
	if err != nil {
		return "", fmt.Errorf("extract %s: %w", q, err)
	}
	return dir, nil
}

// Latest walks back from the quarter containing today and returns the first
// dataset that can be acquired. Recent quarters are often not published yet,
// so individual failures are only logged.
func (s *Source) Latest(ctx context.Context, today time.Time) (string, utils.Quarter, error) {
	var lastErr error
	for _, q := range utils.RecentQuarters(today, LookbackQuarters) {
		if err := ctx.Err(); err != nil {
			return "", utils.Quarter{}, err
		}
		dir, err := s.Quarter(ctx, q)
		if err == nil {
			s.logger.Info().Str("quarter", q.String()).Str("dir", dir).Msg("using dataset")
			return dir, q, nil
		}
		s.logger.Debug().Err(err).Str("quarter", q.String()).Msg("dataset unavailable")
		lastErr = err
	}
	return "", utils.Quarter{}, fmt.Errorf("%w: last error: %v", ErrNoDataset, lastErr)
}

// DirName is the directory an archive extracts into: its file name without ".zip".
func DirName(zipPath string) string {
	return strings.TrimSuffix(filepath.Base(zipPath), filepath.Ext(zipPath))
}
