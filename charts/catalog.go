package charts

import (
	"context"
	"errors"
	"fmt"
	"sort"
)

// Chart is one named entry of the chart catalog.
type Chart struct {
	Name        string
	Description string
	Draw        func(r *Renderer, ctx context.Context, topN int) error
}

func fixed(fn func(*Renderer, context.Context) error) func(*Renderer, context.Context, int) error {
	return func(r *Renderer, ctx context.Context, _ int) error { return fn(r, ctx) }
}

// Catalog lists every chart in display order.
var Catalog = []Chart{
	{"seniority-distribution", "Share of postings per seniority level", fixed((*Renderer).SeniorityDistribution)},
	{"salary-by-seniority", "Average salary per seniority level", fixed((*Renderer).SalaryBySeniority)},
	{"salary-heatmap", "Average salary by location and seniority", fixed((*Renderer).SalaryHeatmap)},
	{"salary-dynamics", "Average salary trend across levels", fixed((*Renderer).SalaryDynamics)},
	{"salary-box-by-seniority", "Salary spread per seniority level", fixed((*Renderer).SalaryBoxBySeniority)},
	{"salary-histogram", "Salary distribution in 30 bins", fixed((*Renderer).SalaryHistogram)},
	{"location-counts", "Top locations by number of postings", (*Renderer).LocationCounts},
	{"salary-by-location-top", "Top locations by average salary", (*Renderer).SalaryByLocationTop},
	{"salary-box-by-location-top", "Salary spread across the busiest locations", (*Renderer).SalaryBoxByLocationTop},
	{"salary-strip-by-location-top", "Salary points across the busiest locations", (*Renderer).SalaryStripByLocationTop},
	{"salary-strip-by-seniority", "Salary points per seniority level", fixed((*Renderer).SalaryStripBySeniority)},
}

// Lookup finds a catalog entry by name.
func Lookup(name string) (Chart, error) {
	for _, c := range Catalog {
		if c.Name == name {
			return c, nil
		}
	}
	return Chart{}, fmt.Errorf("charts: unknown chart %q (known: %v)", name, Names())
}

// Names returns the sorted catalog names.
func Names() []string {
	names := make([]string, len(Catalog))
	for i, c := range Catalog {
		names[i] = c.Name
	}
	sort.Strings(names)
	return names
}

// Draw renders the named charts in order. Charts with nothing to plot are
// logged and skipped; any other failure stops the run.
func (r *Renderer) Draw(ctx context.Context, names []string, topN int) (int, error) {
	drawn := 0
	for _, name := range names {
		c, err := Lookup(name)
		if err != nil {
			return drawn, err
		}
		if err := c.Draw(r, ctx, topN); err != nil {
			if errors.Is(err, ErrNoData) {
				r.logger.Warn("[charts] %s: nothing to plot", name)
				continue
			}
			return drawn, err
		}
		drawn++
	}
	return drawn, nil
}

// DrawAll renders the whole catalog.
func (r *Renderer) DrawAll(ctx context.Context, topN int) (int, error) {
	names := make([]string, len(Catalog))
	for i, c := range Catalog {
		names[i] = c.Name
	}
	return r.Draw(ctx, names, topN)
}
