package utils

import (
	"bufio"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"os"

	slogmulti "github.com/samber/slog-multi"
)

const (
	StatusStarted   = "STARTED"
	StatusCompleted = "COMPLETED"
	StatusFailed    = "FAILED"
)

type LogEntry struct {
	Timestamp string `json:"time"`
	Level     string `json:"level"`
	Tool      string `json:"msg"`
	Program   string `json:"PROGRAM"`
	Sample    string `json:"SAMPLE"`
	Status    string `json:"STATUS"`
}

// NewStageLogger returns a logger writing JSON lines to logPath and text lines to console.
// The JSON file is what ParseLogFile reads back on the next run.
func NewStageLogger(logPath string, console io.Writer) (*slog.Logger, io.Closer, error) {
	logFile, err := os.OpenFile(logPath, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		return nil, nil, err
	}
	jsonHandler := slog.NewJSONHandler(logFile, &slog.HandlerOptions{Level: slog.LevelInfo})
	textHandler := slog.NewTextHandler(console, &slog.HandlerOptions{Level: slog.LevelInfo})
	return slog.New(slogmulti.Fanout(jsonHandler, textHandler)), logFile, nil
}

// ParseLogFile reads a JSON stage log. A missing file yields no entries and lines
// that are not JSON objects are skipped.
func ParseLogFile(logFilePath string) ([]LogEntry, error) {
	file, err := os.Open(logFilePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	defer file.Close()

	var entries []LogEntry
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		var entry LogEntry
		if err := json.Unmarshal(scanner.Bytes(), &entry); err != nil {
			continue
		}
		if entry.Program == "" {
			continue
		}
		entries = append(entries, entry)
	}
	if err := scanner.Err(); err != nil {
		return entries, err
	}
	return entries, nil
}

// StageHasCompleted reports whether the latest entry for program and sample is COMPLETED.
func StageHasCompleted(entries []LogEntry, program, sample string) bool {
	completed := false
	for _, e := range entries {
		if e.Program != program || e.Sample != sample {
			continue
		}
		completed = e.Status == StatusCompleted
	}
	return completed
}
