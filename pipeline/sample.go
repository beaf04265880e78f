// Package pipeline runs the consensus step for one sample or a whole sequencing run.
package pipeline

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/gmaffy/viral-consensus/consensus"
	"github.com/gmaffy/viral-consensus/coverage"
	"github.com/gmaffy/viral-consensus/variants"
)

// Sample names the input and output files of one sample.
type Sample struct {
	Name      string
	VCF       string
	Depth     string
	Consensus string
	// Masked is the optional depth-masked reference written before variants are applied.
	Masked string
}

// Layout returns the file names the nanopolish workflow uses inside a sample directory.
func Layout(dir, name string) Sample {
	np := filepath.Join(dir, "nanopolish")
	return Sample{
		Name:      name,
		VCF:       filepath.Join(np, name+".nanopolish.filt.rename.vcf.gz"),
		Depth:     filepath.Join(np, name+".ref.depth.txt"),
		Consensus: filepath.Join(np, name+".ref.fasta"),
		Masked:    filepath.Join(dir, "tmp", name+".modified.ref.fasta"),
	}
}

// RunSample builds and writes the consensus of one sample. Nothing is written to
// Consensus when variant application fails.
func RunSample(ref *consensus.Reference, s Sample, o consensus.Options, out io.Writer) (*consensus.Result, error) {
	fmt.Fprintf(out, "output file for sample\n%s\n", s.Name)

	depth, err := coverage.ReadDepth(s.Depth)
	if err != nil {
		return nil, err
	}

	vr, err := variants.Open(s.VCF)
	if err != nil {
		return nil, err
	}
	defer vr.Close()

	if s.Masked != "" {
		o.OnMasked = func(masked []byte) error {
			if err := os.MkdirAll(filepath.Dir(s.Masked), 0755); err != nil {
				return err
			}
			return consensus.WriteFastaFile(s.Masked, s.Name, masked)
		}
	}

	res, err := consensus.Build(ref.Seq, depth, vr, o)
	if err != nil {
		return nil, fmt.Errorf("sample %s: %w", s.Name, err)
	}

	fmt.Fprintln(out, res.Quality)

	if err := os.MkdirAll(filepath.Dir(s.Consensus), 0755); err != nil {
		return nil, err
	}
	if err := consensus.WriteFastaFile(s.Consensus, s.Name, res.Sequence); err != nil {
		return nil, err
	}
	return res, nil
}
