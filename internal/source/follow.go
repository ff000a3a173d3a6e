package source

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/nxadm/tail"
	"github.com/tamarack-ui/tamarack/internal/csync"
	"github.com/tamarack-ui/tamarack/internal/log"
)

const defaultFollowWait = 2 * time.Second

type FollowOptions struct {
	// Wait bounds how long a fetch waits for lines that were not written
	// yet. A fetch that times out returns no entries and no error.
	Wait time.Duration
}

// Follow serves the lines of a file as they are written, like tail -f.
// It only ends once closed.
type Follow struct {
	path  string
	wait  time.Duration
	tail  *tail.Tail
	lines *csync.Slice[Entry]

	mu      sync.Mutex
	arrived chan struct{}
	err     error
	done    chan struct{}
}

func NewFollow(path string, opts FollowOptions) (*Follow, error) {
	t, err := tail.TailFile(path, tail.Config{
		Follow:    true,
		ReOpen:    true,
		MustExist: true,
		Location:  &tail.SeekInfo{Offset: 0, Whence: io.SeekStart},
		Logger:    tail.DiscardingLogger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to follow %s: %w", path, err)
	}
	f := &Follow{
		path:    path,
		wait:    opts.Wait,
		tail:    t,
		lines:   csync.NewSlice[Entry](),
		arrived: make(chan struct{}),
		done:    make(chan struct{}),
	}
	if f.wait <= 0 {
		f.wait = defaultFollowWait
	}
	go f.consume()
	return f, nil
}

func (f *Follow) consume() {
	defer log.RecoverPanic("follow", nil)
	defer close(f.done)
	n := 0
	for line := range f.tail.Lines {
		if line.Err != nil {
			slog.Error("Failed to read followed file", "path", f.path, "error", line.Err)
			f.mu.Lock()
			f.err = line.Err
			f.mu.Unlock()
			continue
		}
		n++
		if line.Text == "" {
			continue
		}
		f.lines.Append(Entry{
			ID:    fmt.Sprintf("%s:%d", f.path, n),
			Title: line.Text,
			Time:  line.Time,
		})
		f.signal()
	}
}

// signal wakes every fetch waiting for new lines.
func (f *Follow) signal() {
	f.mu.Lock()
	close(f.arrived)
	f.arrived = make(chan struct{})
	f.mu.Unlock()
}

func (f *Follow) Fetch(ctx context.Context, offset, count int) ([]Entry, error) {
	timer := time.NewTimer(f.wait)
	defer timer.Stop()
	for {
		f.mu.Lock()
		arrived := f.arrived
		err := f.err
		f.err = nil
		f.mu.Unlock()
		if err != nil {
			return nil, fmt.Errorf("failed to follow %s: %w", f.path, err)
		}

		if entries := f.lines.Range(offset, offset+count); len(entries) > 0 {
			return entries, nil
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-f.done:
			return f.lines.Range(offset, offset+count), ErrEndOfData
		case <-timer.C:
			return nil, nil
		case <-arrived:
		}
	}
}

// Len returns the number of lines read so far.
func (f *Follow) Len() int {
	return f.lines.Len()
}

func (f *Follow) Close() error {
	err := f.tail.Stop()
	f.tail.Cleanup()
	return err
}
