package charts

import (
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"job-insights/models"
)

const (
	defaultWidth  = 1024
	defaultHeight = 640
	jitterSeed    = 42
)

type renderable interface {
	Render(rp chart.RendererProvider, w io.Writer) error
}

// PNGSurface writes each figure to <Dir>/<name>.png.
type PNGSurface struct {
	Dir    string
	Width  int
	Height int
}

// NewPNGSurface creates a surface writing into dir with the default size.
func NewPNGSurface(dir string) *PNGSurface {
	return &PNGSurface{Dir: dir, Width: defaultWidth, Height: defaultHeight}
}

// Path returns the file a figure with the given name is written to.
func (s *PNGSurface) Path(name string) string {
	return filepath.Join(s.Dir, name+".png")
}

// Show renders fig as a PNG file.
func (s *PNGSurface) Show(fig *models.Figure) error {
	c, err := s.build(fig)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return fmt.Errorf("create chart dir: %w", err)
	}
	f, err := os.Create(s.Path(fig.Name))
	if err != nil {
		return fmt.Errorf("create chart file: %w", err)
	}
	if err := c.Render(chart.PNG, f); err != nil {
		f.Close()
		return fmt.Errorf("render png: %w", err)
	}
	return f.Close()
}

func (s *PNGSurface) build(fig *models.Figure) (renderable, error) {
	switch fig.Kind {
	case models.PieFigure:
		return s.pie(fig)
	case models.BarFigure:
		return s.bars(fig.Title, fig.YLabel, fig.Labels, fig.Values)
	case models.HorizontalBarFigure:
		// Drawn upright: the value axis carries XLabel.
		return s.bars(fig.Title, fig.XLabel, fig.Labels, fig.Values)
	case models.HistogramFigure:
		return s.histogram(fig)
	case models.LineFigure:
		return s.line(fig)
	case models.BoxFigure:
		return s.box(fig)
	case models.StripFigure:
		return s.strip(fig)
	case models.HeatmapFigure:
		return s.heatmap(fig)
	}
	return nil, fmt.Errorf("unsupported figure kind %q", fig.Kind)
}

func (s *PNGSurface) pie(fig *models.Figure) (renderable, error) {
	values := make([]chart.Value, 0, len(fig.Values))
	for i, v := range fig.Values {
		if v > 0 {
			values = append(values, chart.Value{Label: fig.Labels[i], Value: v})
		}
	}
	if len(values) == 0 {
		return nil, ErrNoData
	}
	return &chart.PieChart{
		Title:  fig.Title,
		Width:  s.Height,
		Height: s.Height,
		Values: values,
	}, nil
}

func (s *PNGSurface) bars(title, valueLabel string, labels []string, values []float64) (renderable, error) {
	if len(values) == 0 {
		return nil, ErrNoData
	}
	bars := make([]chart.Value, len(values))
	top := 0.0
	for i, v := range values {
		bars[i] = chart.Value{Label: labels[i], Value: v}
		top = math.Max(top, v)
	}
	if top == 0 {
		top = 1
	}

	barWidth := (s.Width - 120) * 2 / (3 * len(values))
	if barWidth < 4 {
		barWidth = 4
	}
	if barWidth > 60 {
		barWidth = 60
	}
	return &chart.BarChart{
		Title:      title,
		Width:      s.Width,
		Height:     s.Height,
		Background: chart.Style{Padding: chart.Box{Top: 40}},
		BarWidth:   barWidth,
		BarSpacing: barWidth / 2,
		XAxis:      chart.Style{FontSize: 9},
		YAxis: chart.YAxis{
			Name:  valueLabel,
			Range: &chart.ContinuousRange{Min: 0, Max: top * 1.1},
		},
		Bars: bars,
	}, nil
}

// histogram draws the bins as a filled step outline over a continuous
// value axis.
func (s *PNGSurface) histogram(fig *models.Figure) (renderable, error) {
	if len(fig.Bins) == 0 {
		return nil, ErrNoData
	}
	var xs, ys []float64
	top := 0.0
	for _, b := range fig.Bins {
		c := float64(b.Count)
		xs = append(xs, b.Low, b.Low, b.High, b.High)
		ys = append(ys, 0, c, c, 0)
		top = math.Max(top, c)
	}
	if top == 0 {
		top = 1
	}
	lo, hi := fig.Bins[0].Low, fig.Bins[len(fig.Bins)-1].High

	return &chart.Chart{
		Title:  fig.Title,
		Width:  s.Width,
		Height: s.Height,
		XAxis: chart.XAxis{
			Name:  fig.XLabel,
			Range: &chart.ContinuousRange{Min: lo, Max: hi},
		},
		YAxis: chart.YAxis{
			Name:  fig.YLabel,
			Range: &chart.ContinuousRange{Min: 0, Max: top * 1.1},
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				XValues: xs,
				YValues: ys,
				Style: chart.Style{
					StrokeWidth: 1,
					StrokeColor: chart.ColorBlue,
					FillColor:   chart.ColorBlue.WithAlpha(100),
				},
			},
		},
	}, nil
}

// categoryAxis places one tick per label at x = 0..n-1.
func categoryAxis(name string, labels []string) chart.XAxis {
	ticks := make([]chart.Tick, len(labels))
	for i, l := range labels {
		ticks[i] = chart.Tick{Value: float64(i), Label: l}
	}
	return chart.XAxis{
		Name:  name,
		Ticks: ticks,
		Range: &chart.ContinuousRange{Min: -0.5, Max: float64(len(labels)) - 0.5},
	}
}

func valueAxis(name string, lo, hi float64) chart.YAxis {
	if hi <= lo {
		lo, hi = lo-1, hi+1
	}
	pad := (hi - lo) * 0.05
	return chart.YAxis{Name: name, Range: &chart.ContinuousRange{Min: lo - pad, Max: hi + pad}}
}

func bounds(values ...[]float64) (float64, float64, bool) {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, vs := range values {
		for _, v := range vs {
			lo, hi = math.Min(lo, v), math.Max(hi, v)
		}
	}
	return lo, hi, !math.IsInf(lo, 1)
}

func (s *PNGSurface) line(fig *models.Figure) (renderable, error) {
	lo, hi, ok := bounds(fig.Values)
	if !ok {
		return nil, ErrNoData
	}
	xs := make([]float64, len(fig.Values))
	for i := range xs {
		xs[i] = float64(i)
	}
	return &chart.Chart{
		Title:  fig.Title,
		Width:  s.Width,
		Height: s.Height,
		XAxis:  categoryAxis(fig.XLabel, fig.Labels),
		YAxis:  valueAxis(fig.YLabel, lo, hi),
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    fig.YLabel,
				XValues: xs,
				YValues: fig.Values,
				Style:   chart.Style{StrokeWidth: 2, StrokeColor: chart.ColorBlue, DotWidth: 5, DotColor: chart.ColorBlue},
			},
		},
	}, nil
}

func groupLabels(groups []models.Group) ([]string, [][]float64) {
	labels := make([]string, len(groups))
	values := make([][]float64, len(groups))
	for i, g := range groups {
		labels[i], values[i] = g.Label, g.Values
	}
	return labels, values
}

func segment(x0, y0, x1, y1 float64, col drawing.Color) chart.ContinuousSeries {
	return chart.ContinuousSeries{
		XValues: []float64{x0, x1},
		YValues: []float64{y0, y1},
		Style:   chart.Style{StrokeWidth: 1.5, StrokeColor: col},
	}
}

func (s *PNGSurface) box(fig *models.Figure) (renderable, error) {
	labels, values := groupLabels(fig.Groups)
	lo, hi, ok := bounds(values...)
	if !ok {
		return nil, ErrNoData
	}

	var series []chart.Series
	for i, vs := range values {
		if len(vs) == 0 {
			continue
		}
		st := Summarise(vs)
		x := float64(i)
		l, r := x-0.3, x+0.3
		series = append(series,
			chart.ContinuousSeries{
				XValues: []float64{l, r, r, l, l},
				YValues: []float64{st.Q1, st.Q1, st.Q3, st.Q3, st.Q1},
				Style:   chart.Style{StrokeWidth: 1.5, StrokeColor: chart.ColorBlue},
			},
			segment(l, st.Median, r, st.Median, chart.ColorRed),
			segment(x, st.Q3, x, st.HighWhisker, chart.ColorBlack),
			segment(x, st.Q1, x, st.LowWhisker, chart.ColorBlack),
			segment(x-0.15, st.HighWhisker, x+0.15, st.HighWhisker, chart.ColorBlack),
			segment(x-0.15, st.LowWhisker, x+0.15, st.LowWhisker, chart.ColorBlack),
		)
		if len(st.Outliers) > 0 {
			xs := make([]float64, len(st.Outliers))
			for j := range xs {
				xs[j] = x
			}
			series = append(series, chart.ContinuousSeries{
				XValues: xs,
				YValues: st.Outliers,
				Style:   chart.Style{StrokeWidth: chart.Disabled, DotWidth: 3, DotColor: chart.ColorAlternateGray},
			})
		}
	}

	return &chart.Chart{
		Title:  fig.Title,
		Width:  s.Width,
		Height: s.Height,
		XAxis:  categoryAxis(fig.XLabel, labels),
		YAxis:  valueAxis(fig.YLabel, lo, hi),
		Series: series,
	}, nil
}

func (s *PNGSurface) strip(fig *models.Figure) (renderable, error) {
	labels, values := groupLabels(fig.Groups)
	lo, hi, ok := bounds(values...)
	if !ok {
		return nil, ErrNoData
	}

	var series []chart.Series
	for i, vs := range values {
		if len(vs) == 0 {
			continue
		}
		offsets := Jitter(len(vs), 0.2, jitterSeed+int64(i))
		xs := make([]float64, len(vs))
		for j := range xs {
			xs[j] = float64(i) + offsets[j]
		}
		series = append(series, chart.ContinuousSeries{
			Name:    labels[i],
			XValues: xs,
			YValues: vs,
			Style: chart.Style{
				StrokeWidth: chart.Disabled,
				DotWidth:    3,
				DotColor:    chart.GetDefaultColor(i),
			},
		})
	}

	return &chart.Chart{
		Title:  fig.Title,
		Width:  s.Width,
		Height: s.Height,
		XAxis:  categoryAxis(fig.XLabel, labels),
		YAxis:  valueAxis(fig.YLabel, lo, hi),
		Series: series,
	}, nil
}

func (s *PNGSurface) heatmap(fig *models.Figure) (renderable, error) {
	m := fig.Matrix
	if m == nil || len(m.Rows) == 0 || len(m.Cols) == 0 {
		return nil, ErrNoData
	}

	var xs, ys, cells []float64
	var notes []chart.Value2
	for i := range m.Rows {
		for j := range m.Cols {
			v := m.Cells[i][j]
			xs = append(xs, float64(j))
			ys = append(ys, float64(i))
			cells = append(cells, v)
			notes = append(notes, chart.Value2{XValue: float64(j), YValue: float64(i), Label: fmt.Sprintf("%.0f", v)})
		}
	}
	lo, hi, _ := bounds(cells)
	if hi <= lo {
		hi = lo + 1
	}

	yTicks := make([]chart.Tick, len(m.Rows))
	for i, r := range m.Rows {
		yTicks[i] = chart.Tick{Value: float64(i), Label: r}
	}
	cell := math.Min(float64(s.Width-160)/float64(len(m.Cols)), float64(s.Height-120)/float64(len(m.Rows)))

	return &chart.Chart{
		Title:  fig.Title,
		Width:  s.Width,
		Height: s.Height,
		XAxis:  categoryAxis(fig.XLabel, m.Cols),
		YAxis: chart.YAxis{
			Name:  fig.YLabel,
			Ticks: yTicks,
			Range: &chart.ContinuousRange{Min: -0.5, Max: float64(len(m.Rows)) - 0.5},
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				XValues: xs,
				YValues: ys,
				Style: chart.Style{
					StrokeWidth: chart.Disabled,
					DotWidth:    cell / 3,
					DotColorProvider: func(_, _ chart.Range, index int, _, _ float64) drawing.Color {
						return chart.Viridis(cells[index], lo, hi)
					},
				},
			},
			chart.AnnotationSeries{Annotations: notes},
		},
	}, nil
}
