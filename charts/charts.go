package charts

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"job-insights/models"
	"job-insights/services"
	"job-insights/storage"
	"job-insights/utils"
)

// ErrNoData is returned when a chart query yields nothing to plot.
var ErrNoData = errors.New("charts: no data to plot")

// Surface displays a shaped figure.
type Surface interface {
	Show(fig *models.Figure) error
}

// Renderer runs chart queries against the store and hands the shaped
// figures to a display surface.
type Renderer struct {
	store    storage.Querier
	surface  Surface
	currency string
	logger   *utils.Logger
}

// NewRenderer creates a Renderer. currency labels salary axes.
func NewRenderer(store storage.Querier, surface Surface, currency string, logger *utils.Logger) *Renderer {
	return &Renderer{store: store, surface: surface, currency: currency, logger: logger}
}

func (r *Renderer) salaryLabel(prefix string) string {
	return fmt.Sprintf("%s (%s)", prefix, r.currency)
}

func (r *Renderer) show(fig *models.Figure) error {
	r.logger.Debug("[charts] Rendering %s", fig.Name)
	if err := r.surface.Show(fig); err != nil {
		return fmt.Errorf("charts: %s: %w", fig.Name, err)
	}
	return nil
}

func (r *Renderer) query(ctx context.Context, cols []string, q string, args ...any) (*storage.ResultSet, error) {
	if err := services.RequireColumns(ctx, r.store, cols...); err != nil {
		return nil, err
	}
	rs, err := r.store.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	if rs.Len() == 0 {
		return nil, ErrNoData
	}
	return rs, nil
}

// labelsAndValues splits two-column (label, number) rows. NULL labels are
// skipped; NULL numbers plot as 0.
func labelsAndValues(rs *storage.ResultSet) ([]string, []float64) {
	var labels []string
	var values []float64
	for _, row := range rs.Rows {
		if row[0] == nil {
			continue
		}
		v, _ := storage.AsFloat(row[1])
		labels = append(labels, storage.AsString(row[0]))
		values = append(values, v)
	}
	return labels, values
}

// SeniorityDistribution draws the share of postings per seniority level.
func (r *Renderer) SeniorityDistribution(ctx context.Context) error {
	rs, err := r.query(ctx, []string{models.SeniorityColumn},
		`SELECT seniority_level, COUNT(*) AS job_count FROM jobs GROUP BY seniority_level ORDER BY seniority_level`)
	if err != nil {
		return err
	}
	labels, values := labelsAndValues(rs)
	return r.show(&models.Figure{
		Name:   "seniority-distribution",
		Kind:   models.PieFigure,
		Title:  "Job postings by seniority level",
		Labels: labels,
		Values: values,
	})
}

// SalaryBySeniority draws the average salary per seniority level as bars.
func (r *Renderer) SalaryBySeniority(ctx context.Context) error {
	labels, values, err := r.averageBySeniority(ctx)
	if err != nil {
		return err
	}
	return r.show(&models.Figure{
		Name:   "salary-by-seniority",
		Kind:   models.BarFigure,
		Title:  "Average salary by seniority level",
		XLabel: "Level",
		YLabel: r.salaryLabel("Salary"),
		Labels: labels,
		Values: values,
	})
}

// SalaryHeatmap draws the average salary of every location x seniority pair.
func (r *Renderer) SalaryHeatmap(ctx context.Context) error {
	rs, err := r.query(ctx, []string{models.LocationColumn, models.SeniorityColumn, models.CleanSalaryColumn},
		`SELECT location, seniority_level, AVG(clean_salary) AS avg_salary
		FROM jobs GROUP BY location, seniority_level`)
	if err != nil {
		return err
	}
	m := Pivot(rs)
	if len(m.Rows) == 0 || len(m.Cols) == 0 {
		return ErrNoData
	}
	return r.show(&models.Figure{
		Name:   "salary-heatmap",
		Kind:   models.HeatmapFigure,
		Title:  "Average salary by location and seniority",
		XLabel: "Seniority Level",
		YLabel: "Location",
		Matrix: m,
	})
}

// SalaryDynamics draws the average salary across seniority levels as a line.
func (r *Renderer) SalaryDynamics(ctx context.Context) error {
	labels, values, err := r.averageBySeniority(ctx)
	if err != nil {
		return err
	}
	return r.show(&models.Figure{
		Name:   "salary-dynamics",
		Kind:   models.LineFigure,
		Title:  "Average salary trend across seniority levels",
		XLabel: "Level",
		YLabel: r.salaryLabel("Average salary"),
		Labels: labels,
		Values: values,
	})
}

func (r *Renderer) averageBySeniority(ctx context.Context) ([]string, []float64, error) {
	rs, err := r.query(ctx, []string{models.SeniorityColumn, models.CleanSalaryColumn},
		`SELECT seniority_level, AVG(clean_salary) AS avg_salary
		FROM jobs GROUP BY seniority_level ORDER BY seniority_level`)
	if err != nil {
		return nil, nil, err
	}
	labels, values := labelsAndValues(rs)
	if len(labels) == 0 {
		return nil, nil, ErrNoData
	}
	return labels, values, nil
}

// SalaryBoxBySeniority draws the salary spread per seniority level.
func (r *Renderer) SalaryBoxBySeniority(ctx context.Context) error {
	groups, err := r.salaryBySeniorityGroups(ctx)
	if err != nil {
		return err
	}
	return r.show(&models.Figure{
		Name:   "salary-box-by-seniority",
		Kind:   models.BoxFigure,
		Title:  "Salary spread by seniority level",
		XLabel: "Level",
		YLabel: r.salaryLabel("Salary"),
		Groups: groups,
	})
}

// SalaryStripBySeniority draws every salary as a jittered point per level.
func (r *Renderer) SalaryStripBySeniority(ctx context.Context) error {
	groups, err := r.salaryBySeniorityGroups(ctx)
	if err != nil {
		return err
	}
	return r.show(&models.Figure{
		Name:   "salary-strip-by-seniority",
		Kind:   models.StripFigure,
		Title:  "Salaries by seniority level (scatter)",
		XLabel: "Level",
		YLabel: r.salaryLabel("Salary"),
		Groups: groups,
	})
}

func (r *Renderer) salaryBySeniorityGroups(ctx context.Context) ([]models.Group, error) {
	rs, err := r.query(ctx, []string{models.SeniorityColumn, models.CleanSalaryColumn},
		`SELECT seniority_level, clean_salary FROM jobs`)
	if err != nil {
		return nil, err
	}
	groups := GroupValues(rs, nil)
	if len(groups) == 0 {
		return nil, ErrNoData
	}
	return groups, nil
}

// SalaryHistogram draws the distribution of all known salaries in 30 bins.
func (r *Renderer) SalaryHistogram(ctx context.Context) error {
	rs, err := r.query(ctx, []string{models.CleanSalaryColumn},
		`SELECT clean_salary FROM jobs WHERE clean_salary IS NOT NULL`)
	if err != nil {
		return err
	}
	values := make([]float64, 0, rs.Len())
	for _, v := range rs.Column(0) {
		if f, ok := storage.AsFloat(v); ok {
			values = append(values, f)
		}
	}
	return r.show(&models.Figure{
		Name:   "salary-histogram",
		Kind:   models.HistogramFigure,
		Title:  "Salary distribution",
		XLabel: r.salaryLabel("Salary"),
		YLabel: "Number of postings",
		Bins:   Histogram(values, 30),
	})
}

// LocationCounts draws the topN locations by number of postings.
func (r *Renderer) LocationCounts(ctx context.Context, topN int) error {
	rs, err := r.query(ctx, []string{models.LocationColumn},
		`SELECT location, COUNT(*) AS job_count FROM jobs
		GROUP BY location ORDER BY job_count DESC, location LIMIT ?`, topN)
	if err != nil {
		return err
	}
	labels, values := labelsAndValues(rs)
	return r.show(&models.Figure{
		Name:   "location-counts",
		Kind:   models.HorizontalBarFigure,
		Title:  fmt.Sprintf("Top-%d locations by number of postings", topN),
		XLabel: "Number of postings",
		YLabel: "Location",
		Labels: labels,
		Values: values,
	})
}

// SalaryByLocationTop draws the topN locations by average salary.
func (r *Renderer) SalaryByLocationTop(ctx context.Context, topN int) error {
	rs, err := r.query(ctx, []string{models.LocationColumn, models.CleanSalaryColumn},
		`SELECT location, AVG(clean_salary) AS avg_salary FROM jobs
		GROUP BY location ORDER BY avg_salary DESC NULLS LAST, location LIMIT ?`, topN)
	if err != nil {
		return err
	}
	labels, values := labelsAndValues(rs)
	return r.show(&models.Figure{
		Name:   "salary-by-location-top",
		Kind:   models.HorizontalBarFigure,
		Title:  fmt.Sprintf("Top-%d locations by average salary", topN),
		XLabel: r.salaryLabel("Average salary"),
		YLabel: "Location",
		Labels: labels,
		Values: values,
	})
}

// SalaryBoxByLocationTop draws the salary spread of the topN locations by
// number of postings.
func (r *Renderer) SalaryBoxByLocationTop(ctx context.Context, topN int) error {
	groups, err := r.topLocationGroups(ctx, topN)
	if err != nil {
		return err
	}
	return r.show(&models.Figure{
		Name:   "salary-box-by-location-top",
		Kind:   models.BoxFigure,
		Title:  fmt.Sprintf("Salary spread across top-%d locations", topN),
		XLabel: "Location",
		YLabel: r.salaryLabel("Salary"),
		Groups: groups,
	})
}

// SalaryStripByLocationTop draws every salary of the topN locations by
// number of postings as a jittered point.
func (r *Renderer) SalaryStripByLocationTop(ctx context.Context, topN int) error {
	groups, err := r.topLocationGroups(ctx, topN)
	if err != nil {
		return err
	}
	return r.show(&models.Figure{
		Name:   "salary-strip-by-location-top",
		Kind:   models.StripFigure,
		Title:  fmt.Sprintf("Salaries across top-%d locations (scatter)", topN),
		XLabel: "Location",
		YLabel: r.salaryLabel("Salary"),
		Groups: groups,
	})
}

// TopLocations returns the topN non-NULL locations by number of postings.
func (r *Renderer) TopLocations(ctx context.Context, topN int) ([]string, error) {
	rs, err := r.query(ctx, []string{models.LocationColumn},
		`SELECT location, COUNT(*) AS job_count FROM jobs
		WHERE location IS NOT NULL
		GROUP BY location ORDER BY job_count DESC, location LIMIT ?`, topN)
	if err != nil {
		return nil, err
	}
	labels, _ := labelsAndValues(rs)
	return labels, nil
}

func (r *Renderer) topLocationGroups(ctx context.Context, topN int) ([]models.Group, error) {
	top, err := r.TopLocations(ctx, topN)
	if err != nil {
		return nil, err
	}

	marks := strings.TrimSuffix(strings.Repeat("?, ", len(top)), ", ")
	args := make([]any, len(top))
	for i, loc := range top {
		args[i] = loc
	}
	rs, err := r.query(ctx, []string{models.LocationColumn, models.CleanSalaryColumn},
		`SELECT location, clean_salary FROM jobs WHERE location IN (`+marks+`)`, args...)
	if err != nil {
		return nil, err
	}
	return GroupValues(rs, top), nil
}
