package coverage

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// PlotOptions controls the depth-vs-position figure. SplitAt lists genome positions
// where a new panel starts; no split positions gives a single panel.
type PlotOptions struct {
	SplitAt []int
	Title   string
	Width   vg.Length
	// PanelHeight is the height of one panel; the figure grows with the panel count.
	PanelHeight vg.Length
}

const (
	xLabel = "Position along genome"
	yLabel = "Read depth"
)

type segment struct {
	start, end int
	pos        []int
	depth      []float64
}

// Plot draws the depth table to out. The format follows the extension:
// .html renders an interactive page, anything gonum/plot knows (.pdf, .png, .svg, ...)
// renders a static figure.
func Plot(d *DepthTable, out string, o PlotOptions) error {
	if d.Len() == 0 {
		return ErrEmptyDepth
	}
	segs, err := splitSegments(d, o.SplitAt)
	if err != nil {
		return err
	}
	ymax := floats.Max(d.Depths())
	if ymax <= 0 {
		ymax = 1
	}

	format := strings.TrimPrefix(strings.ToLower(filepath.Ext(out)), ".")
	if format == "html" || format == "htm" {
		return plotHTML(segs, ymax, out, o)
	}
	return plotStatic(segs, ymax, out, format, o)
}

func splitSegments(d *DepthTable, splitAt []int) ([]segment, error) {
	end := d.Len()
	for _, p := range d.Pos {
		if p > end {
			end = p
		}
	}

	bounds := []int{0}
	for i, s := range splitAt {
		if s <= bounds[len(bounds)-1] || s >= end {
			return nil, fmt.Errorf("split position %d (index %d) must increase and lie inside (0, %d)", s, i, end)
		}
		bounds = append(bounds, s)
	}
	bounds = append(bounds, end)

	segs := make([]segment, len(bounds)-1)
	for i := range segs {
		segs[i] = segment{start: bounds[i], end: bounds[i+1]}
	}
	for i, p := range d.Pos {
		for j := range segs {
			last := j == len(segs)-1
			if p >= segs[j].start && (p < segs[j].end || last) {
				segs[j].pos = append(segs[j].pos, p)
				segs[j].depth = append(segs[j].depth, float64(d.Depth[i]))
				break
			}
		}
	}
	return segs, nil
}

func plotStatic(segs []segment, ymax float64, out, format string, o PlotOptions) error {
	width, height := o.Width, o.PanelHeight
	if width == 0 {
		width = 12 * vg.Inch
	}
	if height == 0 {
		height = 4 * vg.Inch
	}

	plots := make([][]*plot.Plot, len(segs))
	for i, s := range segs {
		p := plot.New()
		if i == 0 && o.Title != "" {
			p.Title.Text = o.Title
		}
		p.X.Label.Text = xLabel
		p.Y.Label.Text = yLabel

		if len(s.pos) > 0 {
			xys := make(plotter.XYs, len(s.pos))
			for k := range s.pos {
				xys[k].X = float64(s.pos[k])
				xys[k].Y = s.depth[k]
			}
			line, err := plotter.NewLine(xys)
			if err != nil {
				return fmt.Errorf("panel %d: %w", i+1, err)
			}
			line.Color = color.Gray{Y: 211}
			line.Width = vg.Points(1)
			p.Add(line)
		}

		p.X.Min, p.X.Max = float64(s.start), float64(s.end)
		p.Y.Min, p.Y.Max = 0, ymax
		plots[i] = []*plot.Plot{p}
	}

	c, err := draw.NewFormattedCanvas(width, height*vg.Length(len(segs)), format)
	if err != nil {
		return fmt.Errorf("plot format %q: %w", format, err)
	}
	tiles := draw.Tiles{Rows: len(segs), Cols: 1, PadY: vg.Points(12)}
	canvases := plot.Align(plots, tiles, draw.New(c))
	for i := range plots {
		plots[i][0].Draw(canvases[i][0])
	}

	f, err := os.Create(out)
	if err != nil {
		return err
	}
	if _, err := c.WriteTo(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func plotHTML(segs []segment, ymax float64, out string, o PlotOptions) error {
	page := components.NewPage()
	smoothing := false
	for i, s := range segs {
		title := o.Title
		if len(segs) > 1 {
			title = strings.TrimSpace(fmt.Sprintf("%s %d-%d", o.Title, s.start, s.end))
		}
		line := charts.NewLine()
		line.SetGlobalOptions(
			charts.WithInitializationOpts(opts.Initialization{Theme: types.ThemeWesteros, Width: "1200px", Height: "400px"}),
			charts.WithTitleOpts(opts.Title{Title: title}),
			charts.WithYAxisOpts(opts.YAxis{Name: yLabel, Min: 0, Max: ymax}),
			charts.WithXAxisOpts(opts.XAxis{Name: xLabel}),
		)
		yData := make([]opts.LineData, len(s.depth))
		for k, v := range s.depth {
			yData[k] = opts.LineData{Value: v}
		}
		line.SetXAxis(s.pos).
			AddSeries(fmt.Sprintf("depth %d", i+1), yData).
			SetSeriesOptions(charts.WithLineChartOpts(opts.LineChart{Smooth: &smoothing}))
		page.AddCharts(line)
	}

	f, err := os.Create(out)
	if err != nil {
		return err
	}
	if err := page.Render(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
