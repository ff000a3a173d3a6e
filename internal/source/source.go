// Package source provides the data behind the browser: paged, append-only
// feeds of entries read from generated data, files, commands, HTTP endpoints
// or SQLite databases.
package source

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

var (
	// ErrEndOfData is returned, possibly with a last batch of entries, when a
	// source has nothing left past the returned entries.
	ErrEndOfData = errors.New("end of data")

	ErrUnknownSource = errors.New("unknown source")
)

// Entry is one item of a feed.
type Entry struct {
	ID    string    `json:"id" yaml:"id"`
	Title string    `json:"title" yaml:"title"`
	Body  string    `json:"body,omitempty" yaml:"body,omitempty"`
	Time  time.Time `json:"time,omitzero" yaml:"time,omitempty"`
}

// Source serves entries by position. Entries never move once served.
type Source interface {
	// Fetch returns up to count entries starting at offset. It returns
	// ErrEndOfData, possibly wrapped, once no entry exists past the ones
	// returned.
	Fetch(ctx context.Context, offset, count int) ([]Entry, error)
	Close() error
}

// Options configures Open.
type Options struct {
	// WorkingDir resolves relative paths.
	WorkingDir string
	// HTTPClient is used by http sources, http.DefaultClient when nil.
	HTTPClient *http.Client
	// FollowWait bounds how long a follow source waits for new lines.
	FollowWait time.Duration
}

// Open parses spec and returns the matching source. Supported forms:
//
//	generated[:<delay>]
//	file:<glob>
//	follow:<path>
//	cmd:<command>
//	http:<url>, or a bare http:// or https:// URL
//	sqlite:<path>
func Open(ctx context.Context, spec string, opts Options) (Source, error) {
	kind, arg, _ := strings.Cut(spec, ":")
	if kind == "http" || kind == "https" {
		if strings.HasPrefix(arg, "//") {
			arg = spec
		}
		return NewHTTP(arg, HTTPOptions{Client: opts.HTTPClient})
	}
	switch kind {
	case "generated":
		var delay time.Duration
		if arg != "" {
			d, err := time.ParseDuration(arg)
			if err != nil {
				return nil, fmt.Errorf("invalid generated delay %q: %w", arg, err)
			}
			delay = d
		}
		return NewGenerated(GeneratedOptions{Delay: delay}), nil
	case "file":
		if arg == "" {
			return nil, fmt.Errorf("file source needs a glob")
		}
		return NewFile(resolve(opts.WorkingDir, arg))
	case "follow":
		if arg == "" {
			return nil, fmt.Errorf("follow source needs a path")
		}
		return NewFollow(resolve(opts.WorkingDir, arg), FollowOptions{Wait: opts.FollowWait})
	case "cmd":
		if strings.TrimSpace(arg) == "" {
			return nil, fmt.Errorf("cmd source needs a command")
		}
		return NewCommand(arg, CommandOptions{WorkingDir: opts.WorkingDir}), nil
	case "sqlite":
		if arg == "" {
			return nil, fmt.Errorf("sqlite source needs a path")
		}
		return OpenSQLite(ctx, resolve(opts.WorkingDir, arg))
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownSource, spec)
}

func resolve(dir, path string) string {
	if dir == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(dir, path)
}

// Pager reads a source front to back, one page after the other.
type Pager struct {
	mu     sync.Mutex
	src    Source
	offset int
}

func NewPager(src Source) *Pager {
	return &Pager{src: src}
}

// Next returns the next count entries.
func (p *Pager) Next(ctx context.Context, count int) ([]Entry, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	entries, err := p.src.Fetch(ctx, p.offset, count)
	p.offset += len(entries)
	return entries, err
}

// Offset returns the number of entries read so far.
func (p *Pager) Offset() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.offset
}

// Drain reads up to limit entries, all of them when limit is negative, and
// calls fn for every page.
func (p *Pager) Drain(ctx context.Context, pageSize, limit int, fn func([]Entry) error) error {
	for limit != 0 {
		n := pageSize
		if limit > 0 {
			n = min(n, limit)
		}
		entries, err := p.Next(ctx, n)
		if len(entries) > 0 {
			if ferr := fn(entries); ferr != nil {
				return ferr
			}
		}
		if limit > 0 {
			limit -= len(entries)
		}
		if errors.Is(err, ErrEndOfData) {
			return nil
		}
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			// a live source with nothing new yet
			if ctx.Err() != nil {
				return ctx.Err()
			}
		}
	}
	return nil
}
