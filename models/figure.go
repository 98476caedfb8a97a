package models

// FigureKind selects how a Figure is drawn.
type FigureKind string

const (
	PieFigure           FigureKind = "pie"
	BarFigure           FigureKind = "bar"
	HorizontalBarFigure FigureKind = "barh"
	HeatmapFigure       FigureKind = "heatmap"
	LineFigure          FigureKind = "line"
	BoxFigure           FigureKind = "box"
	HistogramFigure     FigureKind = "histogram"
	StripFigure         FigureKind = "strip"
)

// Figure is a chart shaped from query results, ready for a display surface.
// Which of the data fields is populated depends on Kind.
type Figure struct {
	Name   string
	Kind   FigureKind
	Title  string
	XLabel string
	YLabel string

	// Pie, bar and line charts.
	Labels []string
	Values []float64

	// Box and strip charts.
	Groups []Group

	// Histogram.
	Bins []Bin

	// Heatmap.
	Matrix *Matrix
}

// Group is a labelled sample of values.
type Group struct {
	Label  string
	Values []float64
}

// Bin is one histogram bucket covering [Low, High).
type Bin struct {
	Low   float64
	High  float64
	Count int
}

// Matrix is a dense row x column grid of values.
type Matrix struct {
	Rows  []string
	Cols  []string
	Cells [][]float64
}
