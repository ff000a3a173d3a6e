package log

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecoverPanic(t *testing.T) {
	t.Chdir(t.TempDir())

	cleaned := false
	func() {
		defer RecoverPanic("fetch", func() {
			cleaned = true
		})
		panic("boom")
	}()

	assert.True(t, cleaned)
	files, err := filepath.Glob("tamarack-panic-fetch-*.log")
	require.NoError(t, err)
	assert.Len(t, files, 1)
}

func TestRecoverPanicWithoutPanic(t *testing.T) {
	t.Chdir(t.TempDir())

	cleaned := false
	func() {
		defer RecoverPanic("idle", func() {
			cleaned = true
		})
	}()

	assert.False(t, cleaned)
	files, err := filepath.Glob("tamarack-panic-*.log")
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestReportPanic(t *testing.T) {
	t.Chdir(t.TempDir())

	var err error
	func() {
		defer func() {
			if r := recover(); r != nil {
				err = ReportPanic("worker", r)
			}
		}()
		panic("bad input")
	}()

	require.EqualError(t, err, "worker panicked: bad input")
	files, globErr := filepath.Glob("tamarack-panic-worker-*.log")
	require.NoError(t, globErr)
	assert.Len(t, files, 1)
}
