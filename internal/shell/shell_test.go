package shell

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExec(t *testing.T) {
	t.Parallel()

	sh := NewShell(Options{WorkingDir: t.TempDir()})
	stdout, stderr, err := sh.Exec(t.Context(), "echo hello; echo world")
	require.NoError(t, err)
	assert.Equal(t, "hello\nworld\n", stdout)
	assert.Empty(t, stderr)
}

func TestRunStreams(t *testing.T) {
	t.Parallel()

	sh := NewShell(Options{WorkingDir: t.TempDir(), Env: []string{"GREETING=hi"}})
	var out strings.Builder
	err := sh.Run(t.Context(), "for i in 1 2 3; do echo $GREETING $i; done", &out, io.Discard)
	require.NoError(t, err)
	assert.Equal(t, "hi 1\nhi 2\nhi 3\n", out.String())
}

func TestExitCode(t *testing.T) {
	t.Parallel()

	sh := NewShell(Options{WorkingDir: t.TempDir()})
	_, _, err := sh.Exec(t.Context(), "exit 3")
	require.Error(t, err)
	assert.Equal(t, 3, ExitCode(err))
	assert.Equal(t, 0, ExitCode(nil))
	assert.Equal(t, 1, ExitCode(errors.New("other")))
}

func TestParseError(t *testing.T) {
	t.Parallel()

	sh := NewShell(Options{WorkingDir: t.TempDir()})
	_, _, err := sh.Exec(t.Context(), "echo 'unterminated")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "could not parse command")
}

func TestDefaultBlockFuncs(t *testing.T) {
	t.Parallel()

	sh := NewShell(Options{WorkingDir: t.TempDir(), BlockFuncs: DefaultBlockFuncs()})
	_, _, err := sh.Exec(t.Context(), "rm -rf missing-dir")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not allowed")

	_, _, err = sh.Exec(t.Context(), "echo fine")
	require.NoError(t, err)
}

func TestBlockers(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		block BlockFunc
		args  []string
		want  bool
	}{
		{"command match", CommandsBlocker([]string{"rm"}), []string{"rm", "-f", "x"}, true},
		{"command miss", CommandsBlocker([]string{"rm"}), []string{"ls"}, false},
		{"empty args", CommandsBlocker([]string{"rm"}), nil, false},
		{"subcommand match", ArgumentsBlocker("git", []string{"push"}, nil), []string{"git", "push", "origin"}, true},
		{"subcommand miss", ArgumentsBlocker("git", []string{"push"}, nil), []string{"git", "log"}, false},
		{"flags required", ArgumentsBlocker("git", []string{"reset"}, []string{"--hard"}), []string{"git", "reset", "HEAD~1"}, false},
		{"flags match", ArgumentsBlocker("git", []string{"reset"}, []string{"--hard"}), []string{"git", "reset", "--hard", "HEAD~1"}, true},
		{"flag with value", ArgumentsBlocker("npm", []string{"install"}, []string{"--global"}), []string{"npm", "install", "--global=true", "x"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.block(tt.args))
		})
	}
}

func TestIsInterrupt(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(t.Context())
	cancel()
	sh := NewShell(Options{WorkingDir: t.TempDir()})
	_, _, err := sh.Exec(ctx, "sleep 5")
	require.Error(t, err)
	assert.True(t, IsInterrupt(err) || ExitCode(err) != 0)
	assert.True(t, IsInterrupt(context.DeadlineExceeded))
	assert.False(t, IsInterrupt(errors.New("nope")))
}
