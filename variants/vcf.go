package variants

import (
	"fmt"
	"io"
	"strings"

	"github.com/gmaffy/viral-consensus/utils"
	"github.com/vertgenlab/gonomics/fileio"
	"github.com/vertgenlab/gonomics/vcf"
)

// NoCall is the ALT value a caller writes when it has no alternate allele.
const NoCall = "."

// Record is the part of a VCF data line the consensus step needs.
// Alleles are upper-cased; Alt holds the first ALT allele only.
type Record struct {
	Chrom string
	Pos   int
	Ref   string
	Alt   string
}

func (r Record) IsNoCall() bool { return r.Alt == NoCall || r.Alt == "" }

// IsSNP reports a single-base substitution. Indels and MNPs have a longer REF or ALT.
func (r Record) IsSNP() bool {
	return !r.IsNoCall() && len(r.Ref) == 1 && len(r.Alt) == 1
}

func (r Record) String() string {
	return fmt.Sprintf("%s:%d %s>%s", r.Chrom, r.Pos, r.Ref, r.Alt)
}

// FromVcf keeps the fields of a gonomics record that Record carries.
func FromVcf(v vcf.Vcf) Record {
	alt := ""
	if len(v.Alt) > 0 {
		alt = v.Alt[0]
	}
	return Record{
		Chrom: v.Chr,
		Pos:   v.Pos,
		Ref:   strings.ToUpper(v.Ref),
		Alt:   strings.ToUpper(alt),
	}
}

// Reader streams records from a VCF file. Files ending in .gz (gzip or bgzip)
// are decompressed by fileio.
type Reader struct {
	er     *fileio.EasyReader
	path   string
	n      int
	closed bool
}

// Open checks path and consumes the header.
func Open(path string) (r *Reader, err error) {
	if err := utils.CheckFiles(path); err != nil {
		return nil, err
	}
	// gonomics reports malformed input by panicking.
	defer func() {
		if p := recover(); p != nil {
			r, err = nil, fmt.Errorf("vcf %s: %v", path, p)
		}
	}()
	er := fileio.EasyOpen(path)
	vcf.ReadHeader(er)
	return &Reader{er: er, path: path}, nil
}

// Next returns the next record or io.EOF.
func (r *Reader) Next() (rec Record, err error) {
	if r.closed {
		return Record{}, io.EOF
	}
	defer func() {
		if p := recover(); p != nil {
			rec, err = Record{}, fmt.Errorf("vcf %s record %d: %v", r.path, r.n+1, p)
		}
	}()
	v, done := vcf.NextVcf(r.er)
	if done {
		return Record{}, io.EOF
	}
	r.n++
	return FromVcf(v), nil
}

func (r *Reader) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	return r.er.Close()
}

// Records replays in-memory records through the same Next method as Reader.
type Records struct {
	recs []Record
	i    int
}

func NewRecords(recs ...Record) *Records {
	return &Records{recs: recs}
}

func (r *Records) Next() (Record, error) {
	if r.i >= len(r.recs) {
		return Record{}, io.EOF
	}
	r.i++
	return r.recs[r.i-1], nil
}
