package source

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/tamarack-ui/tamarack/internal/csync"
	"github.com/tamarack-ui/tamarack/internal/log"
	"github.com/tamarack-ui/tamarack/internal/shell"
)

const commandLinger = 100 * time.Millisecond

type CommandOptions struct {
	WorkingDir string
	Env        []string
}

// Command runs a shell command once and serves its output lines while it
// is still running. It ends when the command exits.
type Command struct {
	command string
	sh      *shell.Shell
	lines   *csync.Slice[Entry]
	started time.Time

	startOnce sync.Once
	cancel    context.CancelFunc
	done      chan struct{}

	mu      sync.Mutex
	arrived chan struct{}
	partial []byte
	stderr  bytes.Buffer
	runErr  error
}

func NewCommand(command string, opts CommandOptions) *Command {
	return &Command{
		command: command,
		sh: shell.NewShell(shell.Options{
			WorkingDir: opts.WorkingDir,
			Env:        opts.Env,
			BlockFuncs: shell.DefaultBlockFuncs(),
		}),
		lines:   csync.NewSlice[Entry](),
		done:    make(chan struct{}),
		arrived: make(chan struct{}),
	}
}

func (c *Command) start() {
	c.startOnce.Do(func() {
		ctx, cancel := context.WithCancel(context.Background())
		c.cancel = cancel
		c.started = time.Now()
		go c.run(ctx)
	})
}

func (c *Command) run(ctx context.Context) {
	defer log.RecoverPanic("command-source", nil)
	defer close(c.done)

	err := c.sh.Run(ctx, c.command, writerFunc(c.writeStdout), writerFunc(c.writeStderr))

	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.partial) > 0 {
		c.appendLine(string(c.partial))
		c.partial = nil
	}
	c.runErr = err
	if err != nil && !shell.IsInterrupt(err) {
		slog.Warn("Source command failed", "command", c.command, "exit_code", shell.ExitCode(err), "stderr", strings.TrimSpace(c.stderr.String()))
	}
	c.wake()
}

type writerFunc func([]byte) (int, error)

func (w writerFunc) Write(p []byte) (int, error) {
	return w(p)
}

func (c *Command) writeStdout(p []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.partial = append(c.partial, p...)
	for {
		i := bytes.IndexByte(c.partial, '\n')
		if i < 0 {
			break
		}
		c.appendLine(strings.TrimSuffix(string(c.partial[:i]), "\r"))
		c.partial = c.partial[i+1:]
	}
	c.wake()
	return len(p), nil
}

func (c *Command) writeStderr(p []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	// keep the tail of stderr for the log
	if c.stderr.Len() > 4096 {
		c.stderr.Reset()
	}
	return c.stderr.Write(p)
}

// appendLine must be called with mu held.
func (c *Command) appendLine(line string) {
	if line == "" {
		return
	}
	n := c.lines.Len()
	c.lines.Append(Entry{
		ID:    fmt.Sprintf("line-%d", n+1),
		Title: line,
		Time:  c.started,
	})
}

// wake must be called with mu held.
func (c *Command) wake() {
	close(c.arrived)
	c.arrived = make(chan struct{})
}

// Fetch waits for a full page, or returns what is there once some lines
// have been waiting for commandLinger.
func (c *Command) Fetch(ctx context.Context, offset, count int) ([]Entry, error) {
	c.start()
	var linger <-chan time.Time
	for {
		c.mu.Lock()
		arrived := c.arrived
		c.mu.Unlock()

		select {
		case <-c.done:
			entries := c.lines.Range(offset, offset+count)
			if offset+len(entries) < c.lines.Len() {
				return entries, nil
			}
			c.mu.Lock()
			runErr := c.runErr
			c.mu.Unlock()
			if runErr != nil && !shell.IsInterrupt(runErr) {
				return entries, fmt.Errorf("%w: command exited with status %d", ErrEndOfData, shell.ExitCode(runErr))
			}
			return entries, ErrEndOfData
		default:
		}

		available := c.lines.Len()
		if available >= offset+count {
			return c.lines.Range(offset, offset+count), nil
		}
		if available > offset && linger == nil {
			timer := time.NewTimer(commandLinger)
			defer timer.Stop()
			linger = timer.C
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-arrived:
		case <-c.done:
		case <-linger:
			return c.lines.Range(offset, offset+count), nil
		}
	}
}

func (c *Command) Close() error {
	c.startOnce.Do(func() {
		close(c.done)
	})
	if c.cancel != nil {
		c.cancel()
		<-c.done
	}
	return nil
}
