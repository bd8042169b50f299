// Package report reads and writes the two-column census CSV: one row per
// category label with its count, e.g. "А,1500".
package report

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"lessonlab/internal/bestiary"
)

// ErrMalformedRow is returned by ReadCensus for rows that do not have
// exactly two columns or whose count is not a non-negative integer.
var ErrMalformedRow = errors.New("report: malformed census row")

// WriteCensus writes the census as label,count rows in sorted label order.
func WriteCensus(w io.Writer, c bestiary.Census) error {
	cw := csv.NewWriter(w)
	for _, letter := range c.Letters() {
		if err := cw.Write([]string{letter, strconv.Itoa(c[letter])}); err != nil {
			return fmt.Errorf("write census row: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush census: %w", err)
	}
	return nil
}

// WriteCensusFile writes the census to path, creating or truncating it.
func WriteCensusFile(path string, c bestiary.Census) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteCensus(f, c); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}

// ReadCensus reads label,count rows and tallies counts per label in a
// single pass. Duplicate labels sum. Malformed rows fail with the
// 1-based row number.
func ReadCensus(r io.Reader) (bestiary.Census, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // validated per row for a better error

	census := make(bestiary.Census)
	for row := 1; ; row++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: %v", ErrMalformedRow, row, err)
		}
		if len(record) != 2 {
			return nil, fmt.Errorf("%w: row %d: want 2 columns, got %d", ErrMalformedRow, row, len(record))
		}
		count, err := strconv.Atoi(record[1])
		if err != nil || count < 0 {
			return nil, fmt.Errorf("%w: row %d: bad count %q", ErrMalformedRow, row, record[1])
		}
		census[record[0]] += count
	}
	return census, nil
}

// ReadCensusFile reads a census CSV from path.
func ReadCensusFile(path string) (bestiary.Census, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadCensus(f)
}
