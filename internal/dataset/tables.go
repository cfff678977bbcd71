package dataset

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/seenimoa/insiderscan/pkg/models"
)

// Table file names inside an extracted dataset.
const (
	SubmissionFile  = "SUBMISSION.tsv"
	OwnerFile       = "REPORTINGOWNER.tsv"
	TransactionFile = "NONDERIV_TRANS.tsv"
)

// Row is one TSV line keyed by header name.
type Row map[string]string

// Tables holds the lookup tables of one dataset. Transactions are not held
// in memory; use EachTransaction.
type Tables struct {
	Dir string

	// Submissions maps accession number to its submission row.
	Submissions map[string]Row
	// Owners maps accession number to its reporting owners, in file order.
	Owners map[string][]Row

	SubmissionHeader  []string
	OwnerHeader       []string
	TransactionHeader []string
}

// Load reads the submission and owner tables concurrently and the
// transaction header of the dataset in dir.
func Load(ctx context.Context, dir string) (*Tables, error) {
	t := &Tables{
		Dir:         dir,
		Submissions: make(map[string]Row),
		Owners:      make(map[string][]Row),
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		header, err := eachRow(ctx, filepath.Join(dir, SubmissionFile), func(r Row) error {
			t.Submissions[r[models.ColAccessionNumber]] = r
			return nil
		})
		t.SubmissionHeader = header
		return err
	})
	g.Go(func() error {
		header, err := eachRow(ctx, filepath.Join(dir, OwnerFile), func(r Row) error {
			acc := r[models.ColAccessionNumber]
			t.Owners[acc] = append(t.Owners[acc], r)
			return nil
		})
		t.OwnerHeader = header
		return err
	})
	g.Go(func() error {
		header, err := readHeader(filepath.Join(dir, TransactionFile))
		t.TransactionHeader = header
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return t, nil
}

// EachTransaction streams the transaction table, calling fn once per row.
func (t *Tables) EachTransaction(ctx context.Context, fn func(Row) error) error {
	_, err := eachRow(ctx, filepath.Join(t.Dir, TransactionFile), fn)
	return err
}

// errStop ends iteration early without reporting an error.
var errStop = errors.New("stop")

func readHeader(path string) ([]string, error) {
	header, err := eachRow(context.Background(), path, func(Row) error { return errStop })
	if err != nil && !errors.Is(err, errStop) {
		return nil, err
	}
	return header, nil
}

// eachRow reads a tab-delimited file with a header line. Short rows leave the
// missing columns empty; surplus cells are ignored.
func eachRow(ctx context.Context, path string, fn func(Row) error) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", filepath.Base(path), err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.Comma = '\t'
	r.LazyQuotes = true
	r.FieldsPerRecord = -1
	r.ReuseRecord = true

	header, err := r.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s header: %w", filepath.Base(path), err)
	}
	header = append([]string(nil), header...)
	if len(header) > 0 {
		header[0] = trimBOM(header[0])
	}

	for line := 2; ; line++ {
		if (line-2)%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return header, err
			}
		}
		rec, err := r.Read()
		if err == io.EOF {
			return header, nil
		}
		if err != nil {
			return header, fmt.Errorf("read %s line %d: %w", filepath.Base(path), line, err)
		}
		row := make(Row, len(header))
		for i, col := range header {
			if i < len(rec) {
				row[col] = rec[i]
			} else {
				row[col] = ""
			}
		}
		if err := fn(row); err != nil {
			return header, err
		}
	}
}

func trimBOM(s string) string {
	return strings.TrimPrefix(s, "\ufeff")
}
