package source

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"slices"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
)

// File serves the lines of every file matching a glob, files in lexical
// order, one entry per non-empty line. Files are read only as far as the
// requested pages need.
type File struct {
	pattern string

	mu      sync.Mutex
	paths   []string
	next    int
	current *os.File
	scanner *bufio.Scanner
	path    string
	modTime time.Time
	lineNo  int
	lines   []Entry
	done    bool
}

func NewFile(pattern string) (*File, error) {
	paths, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("invalid glob %q: %w", pattern, err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no files match %q", pattern)
	}
	slices.Sort(paths)
	return &File{pattern: pattern, paths: paths}, nil
}

// Paths returns the matched files.
func (f *File) Paths() []string {
	return slices.Clone(f.paths)
}

func (f *File) Fetch(ctx context.Context, offset, count int) ([]Entry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for !f.done && len(f.lines) < offset+count {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := f.readLine(); err != nil {
			return nil, err
		}
	}

	end := min(offset+count, len(f.lines))
	var entries []Entry
	if offset < end {
		entries = slices.Clone(f.lines[offset:end])
	}
	if f.done && end >= len(f.lines) {
		return entries, ErrEndOfData
	}
	return entries, nil
}

// readLine reads one line, moving to the next file as needed.
func (f *File) readLine() error {
	if f.scanner == nil {
		if f.next >= len(f.paths) {
			f.done = true
			return nil
		}
		if err := f.open(f.paths[f.next]); err != nil {
			return err
		}
		f.next++
	}
	if f.scanner.Scan() {
		f.lineNo++
		line := f.scanner.Text()
		if line == "" {
			return nil
		}
		f.lines = append(f.lines, Entry{
			ID:    fmt.Sprintf("%s:%d", f.path, f.lineNo),
			Title: line,
			Time:  f.modTime,
		})
		return nil
	}
	err := f.scanner.Err()
	f.closeCurrent()
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", f.path, err)
	}
	return nil
}

func (f *File) open(path string) error {
	fd, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	info, err := fd.Stat()
	if err != nil {
		fd.Close()
		return fmt.Errorf("failed to stat %s: %w", path, err)
	}
	f.current = fd
	f.scanner = bufio.NewScanner(fd)
	f.scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	f.path = path
	f.modTime = info.ModTime()
	f.lineNo = 0
	return nil
}

func (f *File) closeCurrent() {
	if f.current != nil {
		f.current.Close()
	}
	f.current = nil
	f.scanner = nil
}

func (f *File) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closeCurrent()
	f.done = true
	return nil
}
