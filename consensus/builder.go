// Package consensus turns a reference genome into a sample consensus: positions
// with too little read depth are masked with N, then SNPs from the sample's VCF
// are written over the remaining bases.
//
// Records are applied strictly in input order. The first record that changes a
// position is kept in a ledger; later records that disagree with the consensus at
// that position must repeat it exactly, otherwise the input is treated as corrupt
// and a *VariantConsistencyError stops the run.
package consensus

import (
	"bytes"
	"io"

	"github.com/gmaffy/viral-consensus/variants"
)

const (
	DefaultMinDepth    = 3
	DefaultMinFraction = 0.8

	Masked byte = 'N'
)

// DepthLookup returns the read depth at a 1-based position, 0 when unknown.
type DepthLookup interface {
	At(pos int) int
}

// RecordSource yields variant records until io.EOF. *variants.Reader implements it.
type RecordSource interface {
	Next() (variants.Record, error)
}

type Outcome int

const (
	Applied Outcome = iota
	SkippedNoCall
	SkippedIndel
	SkippedMasked
	SkippedDuplicate
)

func (o Outcome) String() string {
	switch o {
	case Applied:
		return "applied"
	case SkippedNoCall:
		return "no-call"
	case SkippedIndel:
		return "indel"
	case SkippedMasked:
		return "masked"
	case SkippedDuplicate:
		return "duplicate"
	}
	return "unknown"
}

// Tally counts records by outcome.
type Tally struct {
	Applied   int
	NoCall    int
	Indel     int
	Masked    int
	Duplicate int
}

func (t *Tally) add(o Outcome) {
	switch o {
	case Applied:
		t.Applied++
	case SkippedNoCall:
		t.NoCall++
	case SkippedIndel:
		t.Indel++
	case SkippedMasked:
		t.Masked++
	case SkippedDuplicate:
		t.Duplicate++
	}
}

// Total is the number of records read, applied or not.
func (t Tally) Total() int {
	return t.Applied + t.NoCall + t.Indel + t.Masked + t.Duplicate
}

// Accepted is a variant that was written into the consensus.
type Accepted struct {
	Pos int
	Ref string
	Alt string
}

// Ledger lists accepted variants in the order they were applied.
type Ledger struct {
	entries []Accepted
	byPos   map[int]int
}

func (l *Ledger) add(a Accepted) {
	if l.byPos == nil {
		l.byPos = make(map[int]int)
	}
	if _, ok := l.byPos[a.Pos]; !ok {
		l.byPos[a.Pos] = len(l.entries)
	}
	l.entries = append(l.entries, a)
}

// Lookup returns the first accepted variant at pos.
func (l *Ledger) Lookup(pos int) (Accepted, bool) {
	i, ok := l.byPos[pos]
	if !ok {
		return Accepted{}, false
	}
	return l.entries[i], true
}

func (l *Ledger) Entries() []Accepted {
	out := make([]Accepted, len(l.entries))
	copy(out, l.entries)
	return out
}

func (l *Ledger) Len() int { return len(l.entries) }

// Builder owns the consensus buffer for one sample.
type Builder struct {
	buf    []byte
	ledger Ledger
}

// NewBuilder starts from an upper-cased copy of the reference.
func NewBuilder(ref []byte) *Builder {
	return &Builder{buf: bytes.ToUpper(ref)}
}

func (b *Builder) Len() int { return len(b.buf) }

// Mask sets every position whose depth is below threshold to N and returns how
// many positions were below threshold. Masking twice gives the same buffer.
func (b *Builder) Mask(depth DepthLookup, threshold int) int {
	low := 0
	for i := range b.buf {
		if depth.At(i+1) < threshold {
			b.buf[i] = Masked
			low++
		}
	}
	return low
}

// Apply writes one variant record into the consensus.
func (b *Builder) Apply(rec variants.Record) (Outcome, error) {
	if rec.IsNoCall() {
		return SkippedNoCall, nil
	}
	if !rec.IsSNP() {
		return SkippedIndel, nil
	}
	if rec.Pos < 1 || rec.Pos > len(b.buf) {
		return 0, &PositionError{Pos: rec.Pos, Length: len(b.buf)}
	}

	current := b.buf[rec.Pos-1]
	if rec.Ref[0] == current {
		b.buf[rec.Pos-1] = rec.Alt[0]
		b.ledger.add(Accepted{Pos: rec.Pos, Ref: rec.Ref, Alt: rec.Alt})
		return Applied, nil
	}
	if current == Masked {
		return SkippedMasked, nil
	}

	prev, ok := b.ledger.Lookup(rec.Pos)
	if !ok {
		return 0, &VariantConsistencyError{Pos: rec.Pos, Ref: rec.Ref, Alt: rec.Alt, Consensus: current}
	}
	if prev.Ref != rec.Ref || prev.Alt != rec.Alt {
		return 0, &VariantConsistencyError{Pos: rec.Pos, Ref: rec.Ref, Alt: rec.Alt, Consensus: current, Accepted: &prev}
	}
	return SkippedDuplicate, nil
}

// ApplyRecords applies records in order and stops at the first error.
func (b *Builder) ApplyRecords(recs []variants.Record) (Tally, error) {
	var t Tally
	for _, rec := range recs {
		o, err := b.Apply(rec)
		if err != nil {
			return t, err
		}
		t.add(o)
	}
	return t, nil
}

// ApplyFrom drains src, stopping at the first error.
func (b *Builder) ApplyFrom(src RecordSource) (Tally, error) {
	var t Tally
	for {
		rec, err := src.Next()
		if err == io.EOF {
			return t, nil
		}
		if err != nil {
			return t, err
		}
		o, err := b.Apply(rec)
		if err != nil {
			return t, err
		}
		t.add(o)
	}
}

// Sequence returns a copy of the current buffer.
func (b *Builder) Sequence() []byte {
	out := make([]byte, len(b.buf))
	copy(out, b.buf)
	return out
}

func (b *Builder) Ledger() *Ledger { return &b.ledger }
