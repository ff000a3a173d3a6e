package log

import (
	"fmt"
	"log/slog"
	"os"
	"runtime/debug"
	"sync"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"
)

var initOnce sync.Once

// Setup sends the default slog logger to a rotated JSON log file.
func Setup(logFile string, debug bool) {
	initOnce.Do(func() {
		logRotator := &lumberjack.Logger{
			Filename:   logFile,
			MaxSize:    10,    // Max size in MB
			MaxBackups: 0,     // Number of backups
			MaxAge:     30,    // Days
			Compress:   false, // Enable compression
		}

		level := slog.LevelInfo
		if debug {
			level = slog.LevelDebug
		}

		logger := slog.NewJSONHandler(logRotator, &slog.HandlerOptions{
			Level:     level,
			AddSource: true,
		})

		slog.SetDefault(slog.New(logger))
	})
}

// RecoverPanic writes a panic, if any, to a timestamped file in the current
// directory and runs cleanup. Call it deferred.
func RecoverPanic(name string, cleanup func()) {
	if r := recover(); r != nil {
		ReportPanic(name, r)
		if cleanup != nil {
			cleanup()
		}
	}
}

// ReportPanic writes the recovered value r and the current stack to a
// timestamped file in the current directory and returns it as an error.
// Call it from the deferred function that recovered.
func ReportPanic(name string, r any) error {
	timestamp := time.Now().Format("20060102-150405")
	filename := fmt.Sprintf("tamarack-panic-%s-%s.log", name, timestamp)

	file, err := os.Create(filename)
	if err == nil {
		defer file.Close()

		fmt.Fprintf(file, "Panic in %s: %v\n\n", name, r)
		fmt.Fprintf(file, "Time: %s\n\n", time.Now().Format(time.RFC3339))
		fmt.Fprintf(file, "Stack Trace:\n%s\n", debug.Stack())
	}
	slog.Error("Recovered from panic", "name", name, "panic", r, "file", filename)
	return fmt.Errorf("%s panicked: %v", name, r)
}
