package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// FileName is the server log inside the logs directory.
const FileName = "server.log"

// Logger writes timestamped lines for the reference pool server. It can tee
// to a second writer (usually stderr) so `leaguepool serve` stays readable in
// a terminal while the file keeps the full history.
type Logger struct {
	mu   sync.Mutex
	file *os.File
	echo io.Writer
}

// New creates (or reuses) dir/server.log. echo may be nil.
func New(logDir string, echo io.Writer) (*Logger, error) {
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return nil, fmt.Errorf("logging: ensure log dir: %w", err)
	}
	path := filepath.Join(logDir, FileName)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("logging: open log file: %w", err)
	}
	return &Logger{file: f, echo: echo}, nil
}

// Close releases the file handle.
func (l *Logger) Close() error {
	if l == nil || l.file == nil {
		return nil
	}
	return l.file.Close()
}

// Printf writes a single timestamped line.
func (l *Logger) Printf(format string, args ...any) {
	if l == nil {
		return
	}
	line := fmt.Sprintf(format, args...)
	line = strings.TrimRight(line, "\n")
	timestamp := time.Now().Format(time.RFC3339)
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file != nil {
		fmt.Fprintf(l.file, "[%s] %s\n", timestamp, line)
	}
	if l.echo != nil {
		fmt.Fprintf(l.echo, "[%s] %s\n", timestamp, line)
	}
}
