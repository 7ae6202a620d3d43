// Package results persists aggregate rows as delimited text artifacts and
// reduces a directory of artifacts into one summary.
package results

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/nvandessel/qharness/internal/trial"
)

// ArtifactHeader is the first line of every per-configuration artifact.
var ArtifactHeader = []string{"testNo", "zeros", "ones", "cycles", "average"}

// ArtifactError reports an I/O failure on one artifact.
type ArtifactError struct {
	ID  string
	Op  string
	Err error
}

func (e *ArtifactError) Error() string {
	return fmt.Sprintf("artifact %s: %s: %v", e.ID, e.Op, e.Err)
}

func (e *ArtifactError) Unwrap() error { return e.Err }

// Writer writes one artifact. Rows go to a temporary file in the artifact
// directory that Close renames into place, so an artifact only appears
// under its identifier once it is complete. It is not safe for concurrent
// use; each artifact has exactly one Writer.
type Writer struct {
	id   string
	path string
	tmp  string
	file *os.File
	buf  *bufio.Writer
	csv  *csv.Writer
	err  error
}

// ErrInvalidIdentifier is returned for identifiers that are not a plain file
// name inside the artifact directory.
var ErrInvalidIdentifier = errors.New("invalid artifact identifier")

// Create creates dir if needed and opens a writer for dir/id. Any existing
// file is replaced when the writer is closed successfully.
func Create(dir, id string) (*Writer, error) {
	if err := validateID(id); err != nil {
		return nil, &ArtifactError{ID: id, Op: "validating identifier", Err: err}
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, &ArtifactError{ID: id, Op: "creating directory", Err: err}
	}

	f, err := os.CreateTemp(dir, "."+id+".*.tmp")
	if err != nil {
		return nil, &ArtifactError{ID: id, Op: "creating file", Err: err}
	}
	if err := f.Chmod(0644); err != nil {
		f.Close()
		os.Remove(f.Name())
		return nil, &ArtifactError{ID: id, Op: "creating file", Err: err}
	}

	buf := bufio.NewWriter(f)
	return &Writer{
		id:   id,
		path: filepath.Join(dir, id),
		tmp:  f.Name(),
		file: f,
		buf:  buf,
		csv:  csv.NewWriter(buf),
	}, nil
}

// validateID rejects identifiers that would resolve outside the artifact
// directory.
func validateID(id string) error {
	switch {
	case id == "", id == ".", id == "..":
		return fmt.Errorf("%w: %q", ErrInvalidIdentifier, id)
	case strings.ContainsRune(id, '\x00'):
		return fmt.Errorf("%w: contains null byte", ErrInvalidIdentifier)
	case strings.ContainsAny(id, `/\`) || filepath.Base(id) != id:
		return fmt.Errorf("%w: %q contains a path separator", ErrInvalidIdentifier, id)
	}
	return nil
}

// Path returns the artifact's file path.
func (w *Writer) Path() string { return w.path }

// WriteHeader writes ArtifactHeader.
func (w *Writer) WriteHeader() error {
	return w.write("writing header", ArtifactHeader)
}

// Append writes one row.
func (w *Writer) Append(row trial.AggregateRow) error {
	return w.write("appending row", []string{
		strconv.Itoa(row.Repetition),
		strconv.FormatUint(row.Zeros, 10),
		strconv.FormatUint(row.Ones, 10),
		strconv.FormatUint(row.Total, 10),
		FormatFloat(row.Probability),
	})
}

func (w *Writer) write(op string, record []string) error {
	if w.err != nil {
		return w.err
	}
	if err := w.csv.Write(record); err != nil {
		w.err = &ArtifactError{ID: w.id, Op: op, Err: err}
	}
	return w.err
}

// Close flushes buffered rows, closes the file and moves it to Path. The
// file is always closed, and the first error encountered while writing,
// flushing, closing or renaming is returned. On error nothing is left
// under the temporary name and any earlier artifact at Path is untouched.
func (w *Writer) Close() error {
	if w.file == nil {
		return w.err
	}
	w.csv.Flush()
	flushErr := w.csv.Error()
	if flushErr == nil {
		flushErr = w.buf.Flush()
	}
	closeErr := w.file.Close()
	w.file = nil

	if w.err == nil {
		if err := errors.Join(flushErr, closeErr); err != nil {
			w.err = &ArtifactError{ID: w.id, Op: "flushing", Err: err}
		}
	}
	if w.err == nil {
		if err := os.Rename(w.tmp, w.path); err != nil {
			w.err = &ArtifactError{ID: w.id, Op: "committing", Err: err}
		}
	}
	if w.err != nil {
		os.Remove(w.tmp)
	}
	return w.err
}

// Discard closes and removes the unfinished artifact without touching Path.
// It is a no-op after Close.
func (w *Writer) Discard() {
	if w.file == nil {
		return
	}
	w.file.Close()
	w.file = nil
	os.Remove(w.tmp)
}

// FormatFloat renders v in its shortest round-trip decimal form. NaN is
// written as "NaN".
func FormatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
