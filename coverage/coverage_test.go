package coverage

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const depthText = "MN908947.3\t1\t5\nMN908947.3   2  1\n\nMN908947.3\t3\t5\nMN908947.3 4 7\n"

func TestParseDepth(t *testing.T) {
	d, err := ParseDepth(strings.NewReader(depthText))
	if err != nil {
		t.Fatal(err)
	}
	if d.Len() != 4 {
		t.Fatalf("expected 4 rows, got %d", d.Len())
	}
	tests := []struct{ pos, want int }{
		{1, 5}, {2, 1}, {3, 5}, {4, 7}, {5, 0}, {0, 0}, {-3, 0},
	}
	for _, tc := range tests {
		if got := d.At(tc.pos); got != tc.want {
			t.Errorf("At(%d) = %d, want %d", tc.pos, got, tc.want)
		}
	}
	if d.Chrom[1] != "MN908947.3" {
		t.Errorf("chrom = %q", d.Chrom[1])
	}
}

func TestParseDepthDuplicateLastWins(t *testing.T) {
	d, err := ParseDepth(strings.NewReader("a\t10\t3\nb\t10\t9\n"))
	if err != nil {
		t.Fatal(err)
	}
	if got := d.At(10); got != 9 {
		t.Errorf("At(10) = %d, want 9", got)
	}
}

func TestParseDepthErrors(t *testing.T) {
	for _, in := range []string{
		"chr\t1\n",
		"chr\tone\t4\n",
		"chr\t1\tfour\n",
		"chr\t1\t-2\n",
	} {
		if _, err := ParseDepth(strings.NewReader(in)); err == nil {
			t.Errorf("expected error for %q", in)
		}
	}
}

func TestParseDepthErrorLine(t *testing.T) {
	_, err := ParseDepth(strings.NewReader("chr1\t1\t5\nchr1\t2\t1e3\n"))
	if err == nil || !strings.Contains(err.Error(), "line 2") {
		t.Errorf("err = %v, want it to name line 2", err)
	}
}

func TestParseDepthKeepsNAChrom(t *testing.T) {
	d, err := ParseDepth(strings.NewReader("NA\t1\t5\n"))
	if err != nil {
		t.Fatal(err)
	}
	if d.Chrom[0] != "NA" || d.At(1) != 5 {
		t.Errorf("chrom %q depth %d", d.Chrom[0], d.At(1))
	}
}

func TestParseDepthEmpty(t *testing.T) {
	d, err := ParseDepth(strings.NewReader("\n\n"))
	if err != nil {
		t.Fatal(err)
	}
	if d.Len() != 0 || d.At(1) != 0 {
		t.Errorf("expected empty table")
	}
	if _, err := Summarize(d); !errors.Is(err, ErrEmptyDepth) {
		t.Errorf("Summarize error = %v, want ErrEmptyDepth", err)
	}
}

func TestSummarize(t *testing.T) {
	tests := []struct {
		name         string
		depths       map[int]int
		median, mean float64
	}{
		{"odd", map[int]int{1: 5, 2: 1, 3: 9}, 5, 5},
		{"even", map[int]int{1: 5, 2: 1, 3: 5, 4: 7}, 5, 4.5},
		{"even-split", map[int]int{1: 1, 2: 2, 3: 3, 4: 4}, 2.5, 2.5},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s, err := Summarize(NewDepthTable("chr", tc.depths))
			if err != nil {
				t.Fatal(err)
			}
			if s.Median != tc.median || s.Mean != tc.mean {
				t.Errorf("median/mean = %v/%v, want %v/%v", s.Median, s.Mean, tc.median, tc.mean)
			}
			if s.Rows != len(tc.depths) {
				t.Errorf("rows = %d", s.Rows)
			}
		})
	}
}

func TestReport(t *testing.T) {
	var buf bytes.Buffer
	s := Summary{Median: 245, Mean: 243.5}
	if err := s.Report(&buf); err != nil {
		t.Fatal(err)
	}
	want := "median depth of coverage\n245.0\nmean depth of coverage\n243.5\n"
	if buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}
}

func TestFormatDepth(t *testing.T) {
	tests := []struct {
		v    float64
		want string
	}{
		{12, "12.0"}, {0, "0.0"}, {2.5, "2.5"}, {1234.125, "1234.125"},
	}
	for _, tc := range tests {
		if got := formatDepth(tc.v); got != tc.want {
			t.Errorf("formatDepth(%v) = %q, want %q", tc.v, got, tc.want)
		}
	}
}

func TestReadDepthFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "s.ref.depth.txt")
	if err := os.WriteFile(path, []byte(depthText), 0644); err != nil {
		t.Fatal(err)
	}
	d, err := ReadDepth(path)
	if err != nil {
		t.Fatal(err)
	}
	if d.At(4) != 7 {
		t.Errorf("At(4) = %d", d.At(4))
	}
}

func rampTable(n int) *DepthTable {
	depths := make(map[int]int, n)
	for p := 1; p <= n; p++ {
		depths[p] = p % 50
	}
	return NewDepthTable("chr", depths)
}

func TestSplitSegments(t *testing.T) {
	d := rampTable(100)
	segs, err := splitSegments(d, []int{40, 70})
	if err != nil {
		t.Fatal(err)
	}
	if len(segs) != 3 {
		t.Fatalf("expected 3 segments, got %d", len(segs))
	}
	total := 0
	for _, s := range segs {
		total += len(s.pos)
	}
	if total != 100 {
		t.Errorf("segments hold %d rows, want 100", total)
	}
	if segs[0].pos[len(segs[0].pos)-1] != 39 || segs[1].pos[0] != 40 || segs[2].end != 100 {
		t.Errorf("unexpected bounds: %+v", []int{segs[0].pos[len(segs[0].pos)-1], segs[1].pos[0], segs[2].end})
	}

	for _, bad := range [][]int{{0}, {50, 50}, {60, 20}, {100}} {
		if _, err := splitSegments(d, bad); err == nil {
			t.Errorf("expected error for split %v", bad)
		}
	}
}

func TestPlotPDF(t *testing.T) {
	out := filepath.Join(t.TempDir(), "coverage.pdf")
	if err := Plot(rampTable(200), out, PlotOptions{SplitAt: []int{100}, Title: "sample"}); err != nil {
		t.Fatal(err)
	}
	b, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(b, []byte("%PDF")) {
		t.Errorf("output is not a PDF: %q", b[:min(len(b), 16)])
	}
}

func TestPlotHTML(t *testing.T) {
	out := filepath.Join(t.TempDir(), "coverage.html")
	if err := Plot(rampTable(200), out, PlotOptions{SplitAt: []int{100}}); err != nil {
		t.Fatal(err)
	}
	b, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	html := string(b)
	if !strings.Contains(html, "Read depth") {
		t.Error("axis label missing from html")
	}
	for _, series := range []string{"depth 1", "depth 2"} {
		if !strings.Contains(html, series) {
			t.Errorf("series %q missing from html", series)
		}
	}
}

func TestPlotEmpty(t *testing.T) {
	out := filepath.Join(t.TempDir(), "coverage.pdf")
	if err := Plot(NewDepthTable("chr", nil), out, PlotOptions{}); !errors.Is(err, ErrEmptyDepth) {
		t.Errorf("err = %v, want ErrEmptyDepth", err)
	}
}
