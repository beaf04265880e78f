// Package coverage reads samtools-style depth tables and summarises or plots them.
package coverage

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/gmaffy/viral-consensus/utils"
	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

var ErrEmptyDepth = errors.New("depth table has no rows")

// DepthTable holds the rows of a depth file in file order plus a position index.
// A position seen more than once resolves to its last row.
type DepthTable struct {
	Chrom []string
	Pos   []int
	Depth []int
	index map[int]int
}

// ReadDepth loads a "chrom pos depth" file, plain or gzip.
func ReadDepth(path string) (*DepthTable, error) {
	rc, err := utils.OpenMaybeGzip(path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	d, err := ParseDepth(rc)
	if err != nil {
		return nil, fmt.Errorf("depth file %s: %w", path, err)
	}
	return d, nil
}

// ParseDepth reads three whitespace-separated columns with no header.
func ParseDepth(r io.Reader) (*DepthTable, error) {
	// gota splits on a single delimiter rune, so runs of blanks are folded to one tab first.
	var norm bytes.Buffer
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		if len(fields) != 3 {
			return nil, fmt.Errorf("line %d: expected 3 columns, got %d", lineNo, len(fields))
		}
		if _, err := strconv.Atoi(fields[1]); err != nil {
			return nil, fmt.Errorf("line %d: position %q is not an integer", lineNo, fields[1])
		}
		if n, err := strconv.Atoi(fields[2]); err != nil || n < 0 {
			return nil, fmt.Errorf("line %d: depth %q is not a non-negative integer", lineNo, fields[2])
		}
		norm.WriteString(strings.Join(fields, "\t"))
		norm.WriteByte('\n')
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	d := &DepthTable{index: make(map[int]int)}
	if norm.Len() == 0 {
		return d, nil
	}

	df := dataframe.ReadCSV(&norm,
		dataframe.WithDelimiter('\t'),
		dataframe.HasHeader(false),
		dataframe.Names("chrom", "pos", "depth"),
		dataframe.DetectTypes(false),
		dataframe.NaNValues(nil),
		dataframe.WithTypes(map[string]series.Type{
			"chrom": series.String,
			"pos":   series.Int,
			"depth": series.Int,
		}),
	)
	if df.Err != nil {
		return nil, df.Err
	}

	pos, err := df.Col("pos").Int()
	if err != nil {
		return nil, fmt.Errorf("pos column: %w", err)
	}
	depth, err := df.Col("depth").Int()
	if err != nil {
		return nil, fmt.Errorf("depth column: %w", err)
	}

	d.Chrom = df.Col("chrom").Records()
	d.Pos = pos
	d.Depth = depth
	for i, p := range pos {
		d.index[p] = i
	}
	return d, nil
}

// NewDepthTable builds a table from a position->depth map, mostly for callers that
// already hold depths in memory. Rows are ordered by position.
func NewDepthTable(chrom string, depths map[int]int) *DepthTable {
	d := &DepthTable{index: make(map[int]int, len(depths))}
	positions := make([]int, 0, len(depths))
	for p := range depths {
		positions = append(positions, p)
	}
	sort.Ints(positions)
	for _, p := range positions {
		d.index[p] = len(d.Pos)
		d.Chrom = append(d.Chrom, chrom)
		d.Pos = append(d.Pos, p)
		d.Depth = append(d.Depth, depths[p])
	}
	return d
}

// At returns the depth at a 1-based position, 0 when the position is absent.
func (d *DepthTable) At(pos int) int {
	i, ok := d.index[pos]
	if !ok {
		return 0
	}
	return d.Depth[i]
}

func (d *DepthTable) Len() int { return len(d.Pos) }

// Depths returns the depth column as float64 for the gonum helpers.
func (d *DepthTable) Depths() []float64 {
	out := make([]float64, len(d.Depth))
	for i, v := range d.Depth {
		out[i] = float64(v)
	}
	return out
}
