package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// debugLog is the process-wide operational log. It is nil until Init is
// called, and every logging function is a no-op while it is nil so library
// code can log unconditionally.
var (
	debugMu  sync.Mutex
	debugLog *os.File
	verbose  bool
)

// Init opens (or creates) the debug log file in append mode. When
// verboseMode is set, log lines are echoed to stderr as well.
func Init(path string, verboseMode bool) error {
	debugMu.Lock()
	defer debugMu.Unlock()

	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create log dir: %w", err)
		}
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}

	if debugLog != nil {
		_ = debugLog.Close()
	}
	debugLog = f
	verbose = verboseMode

	writeLine("INFO", "=== starchive started ===")
	return nil
}

// Close flushes and closes the debug log.
func Close() {
	debugMu.Lock()
	defer debugMu.Unlock()
	if debugLog != nil {
		_ = debugLog.Close()
		debugLog = nil
	}
}

// Infof logs an informational message.
func Infof(format string, args ...any) {
	debugMu.Lock()
	defer debugMu.Unlock()
	writeLine("INFO", fmt.Sprintf(format, args...))
}

// Errorf logs an error message.
func Errorf(format string, args ...any) {
	debugMu.Lock()
	defer debugMu.Unlock()
	writeLine("ERROR", fmt.Sprintf(format, args...))
}

// writeLine appends a timestamped line. Callers must hold debugMu.
func writeLine(level, msg string) {
	if debugLog == nil {
		return
	}
	line := fmt.Sprintf("[%s] %s: %s\n", time.Now().Format("2006-01-02 15:04:05"), level, msg)
	_, _ = debugLog.WriteString(line)
	if verbose {
		fmt.Fprint(os.Stderr, line)
	}
}
