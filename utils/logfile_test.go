package utils

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseLog(t *testing.T) {
	logContent := `{"time":"2025-06-18T21:11:02.572267197+02:00","level":"INFO","msg":"CONSENSUS","PROGRAM":"INITIALISE","SAMPLE":"ALL","STATUS":"STARTED"}
{"time":"2025-06-18T21:11:03.397122518+02:00","level":"INFO","msg":"CONSENSUS","PROGRAM":"CONSENSUS","SAMPLE":"barcode01","STATUS":"STARTED"}
{"time":"2025-06-18T21:11:04.124962114+02:00","level":"INFO","msg":"CONSENSUS","PROGRAM":"CONSENSUS","SAMPLE":"barcode02","STATUS":"STARTED"}
not a json line
{"time":"2025-06-18T21:20:17.308876904+02:00","level":"INFO","msg":"CONSENSUS","PROGRAM":"CONSENSUS","SAMPLE":"barcode01","STATUS":"COMPLETED"}
{"time":"2025-06-18T21:20:17.310433516+02:00","level":"INFO","msg":"CONSENSUS","PROGRAM":"CONSENSUS","SAMPLE":"barcode03","STATUS":"COMPLETED"}
{"time":"2025-06-18T21:23:58.626151562+02:00","level":"ERROR","msg":"CONSENSUS","PROGRAM":"CONSENSUS","SAMPLE":"barcode03","STATUS":"FAILED"}
{"time":"2025-06-18T21:23:58.952009702+02:00","level":"INFO","msg":"no program here"}`

	logFilePath := filepath.Join(t.TempDir(), "test.log")
	if err := os.WriteFile(logFilePath, []byte(logContent), 0644); err != nil {
		t.Fatal(err)
	}

	logEntries, err := ParseLogFile(logFilePath)
	if err != nil {
		t.Fatal(err)
	}
	if len(logEntries) != 6 {
		t.Fatalf("expected 6 entries, got %d", len(logEntries))
	}
	if logEntries[1].Tool != "CONSENSUS" || logEntries[1].Sample != "barcode01" {
		t.Errorf("unexpected entry %+v", logEntries[1])
	}

	tests := []struct {
		program, sample string
		want            bool
	}{
		{"CONSENSUS", "barcode01", true},
		{"CONSENSUS", "barcode02", false},
		{"CONSENSUS", "barcode03", false},
		{"CONSENSUS", "barcode04", false},
		{"INITIALISE", "ALL", false},
	}
	for _, tc := range tests {
		if got := StageHasCompleted(logEntries, tc.program, tc.sample); got != tc.want {
			t.Errorf("StageHasCompleted(%s, %s) = %v, want %v", tc.program, tc.sample, got, tc.want)
		}
	}
}

func TestParseLogMissingFile(t *testing.T) {
	entries, err := ParseLogFile(filepath.Join(t.TempDir(), "absent.log"))
	if err != nil {
		t.Fatalf("missing log should not be an error: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("expected no entries, got %d", len(entries))
	}
}

func TestStageLoggerRoundTrip(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "consensus.log")
	var console bytes.Buffer
	logger, closer, err := NewStageLogger(logPath, &console)
	if err != nil {
		t.Fatal(err)
	}
	logger.Info("CONSENSUS", "PROGRAM", "CONSENSUS", "SAMPLE", "s1", "STATUS", StatusStarted)
	logger.Info("CONSENSUS", "PROGRAM", "CONSENSUS", "SAMPLE", "s1", "STATUS", StatusCompleted)
	if err := closer.Close(); err != nil {
		t.Fatal(err)
	}

	if !strings.Contains(console.String(), "STATUS=COMPLETED") {
		t.Errorf("console output missing status: %q", console.String())
	}
	entries, err := ParseLogFile(logPath)
	if err != nil {
		t.Fatal(err)
	}
	if !StageHasCompleted(entries, "CONSENSUS", "s1") {
		t.Errorf("expected s1 to be completed, entries: %+v", entries)
	}
}
