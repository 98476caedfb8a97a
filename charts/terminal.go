package charts

import (
	"fmt"
	"io"
	"math"

	"github.com/dustin/go-humanize"
	"github.com/pterm/pterm"

	"job-insights/models"
)

// TerminalSurface draws figures as pterm bar charts and tables.
type TerminalSurface struct {
	w io.Writer
}

// NewTerminalSurface creates a surface writing to w.
func NewTerminalSurface(w io.Writer) *TerminalSurface {
	return &TerminalSurface{w: w}
}

// Show prints fig.
func (s *TerminalSurface) Show(fig *models.Figure) error {
	var (
		body string
		err  error
	)
	switch fig.Kind {
	case models.PieFigure:
		body, err = shares(fig.Labels, fig.Values)
	case models.BarFigure, models.HorizontalBarFigure, models.LineFigure:
		body, err = hbars(fig.Labels, fig.Values)
	case models.HistogramFigure:
		labels := make([]string, len(fig.Bins))
		values := make([]float64, len(fig.Bins))
		for i, b := range fig.Bins {
			labels[i] = fmt.Sprintf("%s-%s", humanize.Comma(int64(b.Low)), humanize.Comma(int64(b.High)))
			values[i] = float64(b.Count)
		}
		body, err = hbars(labels, values)
	case models.BoxFigure, models.StripFigure:
		body, err = summaryTable(fig.Groups)
	case models.HeatmapFigure:
		body, err = matrixTable(fig.Matrix)
	default:
		return fmt.Errorf("unsupported figure kind %q", fig.Kind)
	}
	if err != nil {
		return err
	}

	header := pterm.Bold.Sprint(fig.Title)
	if axes := axisCaption(fig); axes != "" {
		header += "\n" + pterm.Gray(axes)
	}
	_, err = fmt.Fprintf(s.w, "\n%s\n%s\n", header, body)
	return err
}

// axisCaption names what the printed numbers are and what they are grouped
// by, e.g. "Salary (€) by Level".
func axisCaption(fig *models.Figure) string {
	var value, category string
	switch fig.Kind {
	case models.PieFigure:
		return ""
	case models.HorizontalBarFigure:
		value, category = fig.XLabel, fig.YLabel
	case models.HeatmapFigure:
		if fig.YLabel == "" || fig.XLabel == "" {
			return ""
		}
		return fig.YLabel + " x " + fig.XLabel
	default:
		value, category = fig.YLabel, fig.XLabel
	}
	switch {
	case value != "" && category != "":
		return value + " by " + category
	case value != "":
		return value
	}
	return category
}

func hbars(labels []string, values []float64) (string, error) {
	if len(values) == 0 {
		return "", ErrNoData
	}
	bars := make(pterm.Bars, len(values))
	for i, v := range values {
		bars[i] = pterm.Bar{Label: labels[i], Value: int(math.Round(v))}
	}
	return pterm.DefaultBarChart.WithHorizontal().WithShowValue().WithBars(bars).Srender()
}

func shares(labels []string, values []float64) (string, error) {
	total := 0.0
	for _, v := range values {
		total += v
	}
	if total == 0 {
		return "", ErrNoData
	}
	withPct := make([]string, len(labels))
	for i, l := range labels {
		withPct[i] = fmt.Sprintf("%s (%.1f%%)", l, 100*values[i]/total)
	}
	return hbars(withPct, values)
}

func summaryTable(groups []models.Group) (string, error) {
	if len(groups) == 0 {
		return "", ErrNoData
	}
	data := pterm.TableData{{"group", "n", "min", "q1", "median", "q3", "max", "outliers"}}
	for _, g := range groups {
		st := Summarise(g.Values)
		data = append(data, []string{
			g.Label,
			humanize.Comma(int64(st.N)),
			money(st.Min), money(st.Q1), money(st.Median), money(st.Q3), money(st.Max),
			humanize.Comma(int64(len(st.Outliers))),
		})
	}
	return pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
}

func matrixTable(m *models.Matrix) (string, error) {
	if m == nil || len(m.Rows) == 0 {
		return "", ErrNoData
	}
	header := append([]string{""}, m.Cols...)
	data := pterm.TableData{header}
	for i, r := range m.Rows {
		row := []string{r}
		for _, v := range m.Cells[i] {
			row = append(row, money(v))
		}
		data = append(data, row)
	}
	return pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
}

func money(v float64) string {
	return humanize.Comma(int64(math.Round(v)))
}
