// Package file appends accepted job-fair records to an NDJSON archive on disk.
// Past a size limit the archive is moved aside as a numbered generation
// (events.ndjson.1 is the most recent) and a fresh file is started.
package file

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"

	"github.com/crimson-sun/fairnorm/internal/model"
	"github.com/crimson-sun/fairnorm/internal/output"
)

const (
	defaultBufSize = 64 * 1024
	defaultKeep    = 10
)

// Option configures an Archive.
type Option func(*Archive)

// WithMaxSize starts a new generation once the current one would exceed limit
// bytes. 0 keeps a single ever-growing file.
func WithMaxSize(limit int64) Option {
	return func(a *Archive) { a.limit = limit }
}

// WithKeep sets how many rotated generations survive. Older ones are removed.
func WithKeep(n int) Option {
	return func(a *Archive) {
		if n > 0 {
			a.keep = n
		}
	}
}

// WithBufSize sets the write buffer size.
func WithBufSize(n int) Option {
	return func(a *Archive) { a.bufSize = n }
}

// Archive is an output.Output that appends one record per line. A later run
// extends the same archive.
type Archive struct {
	mu        sync.Mutex
	path      string
	verbosity output.Verbosity
	limit     int64
	keep      int
	bufSize   int

	f       *os.File
	buf     *bufio.Writer
	line    bytes.Buffer
	enc     *json.Encoder
	size    int64 // bytes in the current generation, buffered included
	records int
}

// New opens (or creates) the archive at path.
func New(path string, verbosity output.Verbosity, opts ...Option) (*Archive, error) {
	a := &Archive{
		path:      path,
		verbosity: verbosity,
		keep:      defaultKeep,
		bufSize:   defaultBufSize,
	}
	for _, opt := range opts {
		opt(a)
	}
	a.enc = json.NewEncoder(&a.line)
	a.enc.SetEscapeHTML(false)
	if err := a.open(); err != nil {
		return nil, err
	}
	return a, nil
}

// Write appends rec at the archive's verbosity.
func (a *Archive) Write(_ context.Context, rec model.NormalizedRecord) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.line.Reset()
	if err := a.enc.Encode(output.FormatRecord(rec, a.verbosity)); err != nil {
		return fmt.Errorf("file output: encode %q: %w", rec.EventName, err)
	}
	n := int64(a.line.Len())

	// A generation always takes at least one record, however large.
	if a.limit > 0 && a.size > 0 && a.size+n > a.limit {
		if err := a.rotate(); err != nil {
			return fmt.Errorf("file output: rotate %s: %w", a.path, err)
		}
	}
	if _, err := a.buf.Write(a.line.Bytes()); err != nil {
		return fmt.Errorf("file output: write %s: %w", a.path, err)
	}
	a.size += n
	a.records++
	return nil
}

// Records returns how many records this Archive has written.
func (a *Archive) Records() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.records
}

// Close flushes buffered records and closes the file.
func (a *Archive) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	flushErr := a.buf.Flush()
	closeErr := a.f.Close()
	if flushErr != nil {
		return fmt.Errorf("file output: flush %s: %w", a.path, flushErr)
	}
	return closeErr
}

func (a *Archive) open() error {
	f, err := os.OpenFile(a.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("file output: open %s: %w", a.path, err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return fmt.Errorf("file output: stat %s: %w", a.path, err)
	}
	a.f = f
	a.buf = bufio.NewWriterSize(f, a.bufSize)
	a.size = info.Size()
	return nil
}

// rotate retires the current file as generation 1, shifting older
// generations up by one and dropping the one past keep.
func (a *Archive) rotate() error {
	if err := a.buf.Flush(); err != nil {
		return err
	}
	if err := a.f.Close(); err != nil {
		return err
	}
	if err := os.Remove(generation(a.path, a.keep)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	for i := a.keep - 1; i >= 1; i-- {
		err := os.Rename(generation(a.path, i), generation(a.path, i+1))
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}
	if err := os.Rename(a.path, generation(a.path, 1)); err != nil {
		return err
	}
	return a.open()
}

func generation(path string, n int) string {
	return fmt.Sprintf("%s.%d", path, n)
}
