package consensus

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/biogo/biogo/alphabet"
	"github.com/biogo/biogo/io/seqio"
	"github.com/biogo/biogo/io/seqio/fasta"
	"github.com/biogo/biogo/seq/linear"
	"github.com/gmaffy/viral-consensus/utils"
)

// Reference is a single named sequence, bases upper-cased.
type Reference struct {
	ID  string
	Seq []byte
}

// ReadReference returns the first record of a FASTA file (plain or gzip).
func ReadReference(path string) (*Reference, error) {
	rc, err := utils.OpenMaybeGzip(path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	ref, n, err := readFirst(rc)
	if err != nil {
		return nil, fmt.Errorf("reference %s: %w", path, err)
	}
	if n > 1 {
		slog.Warn("reference has more than one sequence, using the first", "file", path, "sequences", n, "used", ref.ID)
	}
	return ref, nil
}

func readFirst(r io.Reader) (*Reference, int, error) {
	sc := seqio.NewScanner(fasta.NewReader(r, linear.NewSeq("", nil, alphabet.DNA)))
	var ref *Reference
	n := 0
	for sc.Next() {
		n++
		if ref != nil {
			continue
		}
		s := sc.Seq().(*linear.Seq)
		buf := make([]byte, len(s.Seq))
		for i, l := range s.Seq {
			buf[i] = byte(l)
		}
		ref = &Reference{ID: s.ID, Seq: bytes.ToUpper(buf)}
	}
	if err := sc.Error(); err != nil {
		return nil, n, err
	}
	if ref == nil {
		return nil, 0, ErrNoSequence
	}
	return ref, n, nil
}

// WriteFasta writes one record with no description, 60 bases per line.
func WriteFasta(w io.Writer, id string, seq []byte) error {
	fw := fasta.NewWriter(w, 60)
	s := linear.NewSeq(id, alphabet.BytesToLetters(seq), alphabet.DNA)
	_, err := fw.Write(s)
	return err
}

func WriteFastaFile(path, id string, seq []byte) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteFasta(f, id, seq); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}
