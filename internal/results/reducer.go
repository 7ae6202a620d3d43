package results

import (
	"cmp"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"slices"
	"strconv"

	"github.com/nvandessel/qharness/internal/sweep"
)

// SummaryHeader is the first line of a summary artifact.
var SummaryHeader = []string{"Angle", "Zeros", "Ones", "Sims", "Probability"}

// ErrMalformedRow marks a data row that cannot be parsed.
var ErrMalformedRow = errors.New("malformed row")

// ParseError reports why one artifact was left out of a summary.
type ParseError struct {
	File string
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d: %v", e.File, e.Line, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.File, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// SummaryRow aggregates one artifact. Probability is the mean of the
// artifact's per-repetition estimates, so every repetition weighs the same
// regardless of how many shots it decided. It is NaN for an artifact with no
// data rows, and NaN if any repetition's estimate was NaN.
type SummaryRow struct {
	Parameter   float64
	Source      string
	Zeros       uint64
	Ones        uint64
	Sims        uint64
	Probability float64
	Rows        int
}

// Reduction is the outcome of reducing a directory.
type Reduction struct {
	Rows []SummaryRow

	// Skipped lists entries that do not match the naming scheme.
	Skipped []string

	// Failures holds one *ParseError per matching artifact that was left out.
	Failures []error
}

// Reduce summarizes every artifact in dir whose name matches naming. Rows
// follow directory listing order unless sortRows is set, in which case they
// are ordered by parameter value. The returned error is non-nil only when
// dir itself cannot be read; per-artifact problems land in Failures.
func Reduce(dir string, naming sweep.Naming, sortRows bool) (*Reduction, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading source directory: %w", err)
	}

	red := &Reduction{}
	for _, entry := range entries {
		name := entry.Name()
		value, perr := naming.Parse(name)
		if perr != nil || !entry.Type().IsRegular() {
			red.Skipped = append(red.Skipped, name)
			continue
		}

		row, rerr := ReduceFile(filepath.Join(dir, name), value)
		if rerr != nil {
			red.Failures = append(red.Failures, rerr)
			continue
		}
		red.Rows = append(red.Rows, row)
	}

	if sortRows {
		slices.SortStableFunc(red.Rows, func(a, b SummaryRow) int {
			return cmp.Compare(a.Parameter, b.Parameter)
		})
	}
	return red, nil
}

// ReduceFile summarizes one artifact. The header line is discarded. Any
// malformed row aborts the whole artifact so that partial sums never reach
// the summary.
func ReduceFile(path string, parameter float64) (SummaryRow, error) {
	row := SummaryRow{Parameter: parameter, Source: filepath.Base(path)}

	f, err := os.Open(path)
	if err != nil {
		return row, &ParseError{File: path, Err: err}
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true
	r.ReuseRecord = true

	if _, err := r.Read(); err != nil {
		if errors.Is(err, io.EOF) {
			row.Probability = math.NaN()
			return row, nil
		}
		return row, &ParseError{File: path, Line: csvLine(err), Err: err}
	}

	var probSum float64
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return row, &ParseError{File: path, Line: csvLine(err), Err: err}
		}

		line, _ := r.FieldPos(0)
		zeros, ones, sims, prob, err := parseArtifactRow(rec)
		if err != nil {
			return row, &ParseError{File: path, Line: line, Err: err}
		}
		row.Zeros += zeros
		row.Ones += ones
		row.Sims += sims
		probSum += prob
		row.Rows++
	}

	if row.Rows == 0 {
		row.Probability = math.NaN()
	} else {
		row.Probability = probSum / float64(row.Rows)
	}
	return row, nil
}

func csvLine(err error) int {
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		return pe.Line
	}
	return 0
}

func parseArtifactRow(rec []string) (zeros, ones, sims uint64, prob float64, err error) {
	if len(rec) != len(ArtifactHeader) {
		return 0, 0, 0, 0, fmt.Errorf("%w: want %d fields, got %d", ErrMalformedRow, len(ArtifactHeader), len(rec))
	}
	if _, err = strconv.Atoi(rec[0]); err != nil {
		return 0, 0, 0, 0, fmt.Errorf("%w: testNo: %v", ErrMalformedRow, err)
	}
	if zeros, err = strconv.ParseUint(rec[1], 10, 64); err != nil {
		return 0, 0, 0, 0, fmt.Errorf("%w: zeros: %v", ErrMalformedRow, err)
	}
	if ones, err = strconv.ParseUint(rec[2], 10, 64); err != nil {
		return 0, 0, 0, 0, fmt.Errorf("%w: ones: %v", ErrMalformedRow, err)
	}
	if sims, err = strconv.ParseUint(rec[3], 10, 64); err != nil {
		return 0, 0, 0, 0, fmt.Errorf("%w: cycles: %v", ErrMalformedRow, err)
	}
	if prob, err = strconv.ParseFloat(rec[4], 64); err != nil {
		return 0, 0, 0, 0, fmt.Errorf("%w: average: %v", ErrMalformedRow, err)
	}
	return zeros, ones, sims, prob, nil
}

// WriteSummary writes rows to path, creating its directory if needed and
// replacing any existing file once every row is written.
func WriteSummary(path string, rows []SummaryRow) (err error) {
	id := filepath.Base(path)
	w, err := Create(filepath.Dir(path), id)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := w.Close(); err == nil {
			err = cerr
		}
	}()

	if err := w.write("writing header", SummaryHeader); err != nil {
		return err
	}
	for _, row := range rows {
		rec := []string{
			FormatFloat(row.Parameter),
			strconv.FormatUint(row.Zeros, 10),
			strconv.FormatUint(row.Ones, 10),
			strconv.FormatUint(row.Sims, 10),
			FormatFloat(row.Probability),
		}
		if err := w.write("appending summary row", rec); err != nil {
			return err
		}
	}
	return nil
}
