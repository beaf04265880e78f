package consensus

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestReadReference(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nCoV-2019.reference.fasta")
	content := ">MN908947.3 Severe acute respiratory syndrome coronavirus 2 isolate Wuhan-Hu-1\nattaaaggtt\nTATACCTTCC\n>second\nAAAA\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	ref, err := ReadReference(path)
	if err != nil {
		t.Fatal(err)
	}
	if ref.ID != "MN908947.3" {
		t.Errorf("ID = %q", ref.ID)
	}
	if string(ref.Seq) != "ATTAAAGGTTTATACCTTCC" {
		t.Errorf("Seq = %q", ref.Seq)
	}
}

func TestReadReferenceEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.fasta")
	if err := os.WriteFile(path, nil, 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := ReadReference(path); !errors.Is(err, ErrNoSequence) {
		t.Errorf("err = %v, want ErrNoSequence", err)
	}
}

func TestWriteFasta(t *testing.T) {
	seq := bytes.Repeat([]byte("ACGTN"), 25)
	var buf bytes.Buffer
	if err := WriteFasta(&buf, "barcode07", seq); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.HasPrefix(out, ">barcode07\n") {
		t.Errorf("header wrong: %q", out[:min(len(out), 20)])
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 4 || len(lines[1]) != 60 {
		t.Errorf("expected header plus 60-column lines, got %q", lines)
	}
	if got := strings.Join(lines[1:], ""); got != string(seq) {
		t.Errorf("sequence changed on write")
	}
}

func TestFastaRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "s.ref.fasta")
	if err := WriteFastaFile(path, "s", []byte("ANTTACGN")); err != nil {
		t.Fatal(err)
	}
	ref, err := ReadReference(path)
	if err != nil {
		t.Fatal(err)
	}
	if ref.ID != "s" || string(ref.Seq) != "ANTTACGN" {
		t.Errorf("round trip gave %+v", ref)
	}
}
