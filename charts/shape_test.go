package charts

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"job-insights/storage"
)

func TestQuantile(t *testing.T) {
	sorted := []float64{1, 2, 3, 4}
	assert.Equal(t, 1.0, Quantile(sorted, 0))
	assert.Equal(t, 2.5, Quantile(sorted, 0.5))
	assert.Equal(t, 1.75, Quantile(sorted, 0.25))
	assert.True(t, math.IsNaN(Quantile(nil, 0.5)))
}

func TestSummariseOutliers(t *testing.T) {
	st := Summarise([]float64{10, 11, 12, 13, 14, 100})
	assert.Equal(t, 6, st.N)
	assert.Equal(t, []float64{100}, st.Outliers)
	assert.Equal(t, 14.0, st.HighWhisker)
	assert.Equal(t, 10.0, st.LowWhisker)
}

func TestHistogram(t *testing.T) {
	bins := Histogram([]float64{0, 1, 2, 3, 4}, 4)
	require.Len(t, bins, 4)
	assert.Equal(t, []int{1, 1, 1, 2}, []int{bins[0].Count, bins[1].Count, bins[2].Count, bins[3].Count})

	single := Histogram([]float64{5, 5}, 3)
	assert.Equal(t, 4.5, single[0].Low)
	assert.Equal(t, 5.5, single[2].High)
	assert.Nil(t, Histogram(nil, 3))
}

func TestPivotSkipsNullKeys(t *testing.T) {
	rs := &storage.ResultSet{
		Columns: []string{"location", "seniority_level", "avg_salary"},
		Rows: [][]any{
			{"Paris", "senior", 75000.0},
			{"Berlin", "junior", 50000.0},
			{nil, "junior", 1.0},
			{"Berlin", "senior", nil},
		},
	}
	m := Pivot(rs)
	assert.Equal(t, []string{"Berlin", "Paris"}, m.Rows)
	assert.Equal(t, []string{"junior", "senior"}, m.Cols)
	assert.Equal(t, [][]float64{{50000, 0}, {0, 75000}}, m.Cells)
}

func TestGroupValuesOrder(t *testing.T) {
	rs := &storage.ResultSet{Rows: [][]any{
		{"b", 1.0}, {"a", int64(2)}, {"b", nil}, {nil, 3.0}, {"c", 4.0},
	}}
	groups := GroupValues(rs, []string{"c", "b", "missing"})
	require.Len(t, groups, 2)
	assert.Equal(t, "c", groups[0].Label)
	assert.Equal(t, []float64{1}, groups[1].Values)

	sorted := GroupValues(rs, nil)
	assert.Equal(t, "a", sorted[0].Label)
	assert.Equal(t, []float64{2}, sorted[0].Values)
}

func TestJitterReproducible(t *testing.T) {
	a := Jitter(5, 0.2, 7)
	assert.Equal(t, a, Jitter(5, 0.2, 7))
	for _, v := range a {
		assert.LessOrEqual(t, math.Abs(v), 0.2)
	}
}
