package charts

import (
	"math"
	"math/rand"
	"sort"

	"job-insights/models"
	"job-insights/storage"
)

// BoxStats is the Tukey summary of one group.
type BoxStats struct {
	Min, Q1, Median, Q3, Max float64
	LowWhisker, HighWhisker  float64
	Outliers                 []float64
	N                        int
}

// Quantile returns the q-quantile of sorted values using linear
// interpolation between closest ranks.
func Quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return math.NaN()
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	frac := pos - float64(lo)
	return sorted[lo] + (sorted[hi]-sorted[lo])*frac
}

// Summarise computes box statistics; whiskers reach the most extreme values
// within 1.5 IQR of the quartiles.
func Summarise(values []float64) BoxStats {
	if len(values) == 0 {
		return BoxStats{}
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	st := BoxStats{
		Min:    sorted[0],
		Max:    sorted[len(sorted)-1],
		Q1:     Quantile(sorted, 0.25),
		Median: Quantile(sorted, 0.5),
		Q3:     Quantile(sorted, 0.75),
		N:      len(sorted),
	}
	iqr := st.Q3 - st.Q1
	lowFence, highFence := st.Q1-1.5*iqr, st.Q3+1.5*iqr

	st.LowWhisker, st.HighWhisker = st.Q1, st.Q3
	for _, v := range sorted {
		if v >= lowFence {
			st.LowWhisker = v
			break
		}
	}
	for i := len(sorted) - 1; i >= 0; i-- {
		if sorted[i] <= highFence {
			st.HighWhisker = sorted[i]
			break
		}
	}
	for _, v := range sorted {
		if v < lowFence || v > highFence {
			st.Outliers = append(st.Outliers, v)
		}
	}
	return st
}

// Histogram splits values into n equal-width bins spanning [min, max]. The
// last bin includes max.
func Histogram(values []float64, n int) []models.Bin {
	if len(values) == 0 || n <= 0 {
		return nil
	}
	lo, hi := values[0], values[0]
	for _, v := range values {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if lo == hi {
		lo, hi = lo-0.5, hi+0.5
	}

	width := (hi - lo) / float64(n)
	bins := make([]models.Bin, n)
	for i := range bins {
		bins[i] = models.Bin{Low: lo + float64(i)*width, High: lo + float64(i+1)*width}
	}
	for _, v := range values {
		i := int((v - lo) / width)
		if i >= n {
			i = n - 1
		}
		bins[i].Count++
	}
	return bins
}

// Pivot turns (row, col, value) result rows into a dense matrix with sorted
// row and column labels. Absent cells are 0. Rows with a NULL key are skipped.
func Pivot(rs *storage.ResultSet) *models.Matrix {
	rowSet := map[string]bool{}
	colSet := map[string]bool{}
	cells := map[[2]string]float64{}
	for _, row := range rs.Rows {
		if row[0] == nil || row[1] == nil {
			continue
		}
		r, c := storage.AsString(row[0]), storage.AsString(row[1])
		rowSet[r], colSet[c] = true, true
		if v, ok := storage.AsFloat(row[2]); ok {
			cells[[2]string{r, c}] = v
		}
	}

	m := &models.Matrix{Rows: sortedKeys(rowSet), Cols: sortedKeys(colSet)}
	m.Cells = make([][]float64, len(m.Rows))
	for i, r := range m.Rows {
		m.Cells[i] = make([]float64, len(m.Cols))
		for j, c := range m.Cols {
			m.Cells[i][j] = cells[[2]string{r, c}]
		}
	}
	return m
}

// GroupValues collects the numeric second column of rs by the first column.
// Groups follow order when given, otherwise sorted label order. NULL labels
// and values are skipped.
func GroupValues(rs *storage.ResultSet, order []string) []models.Group {
	byLabel := map[string][]float64{}
	seen := map[string]bool{}
	for _, row := range rs.Rows {
		if row[0] == nil {
			continue
		}
		label := storage.AsString(row[0])
		seen[label] = true
		if v, ok := storage.AsFloat(row[1]); ok {
			byLabel[label] = append(byLabel[label], v)
		}
	}

	if order == nil {
		order = sortedKeys(seen)
	}
	groups := make([]models.Group, 0, len(order))
	for _, label := range order {
		if !seen[label] {
			continue
		}
		groups = append(groups, models.Group{Label: label, Values: byLabel[label]})
	}
	return groups
}

// Jitter returns n reproducible offsets in [-spread, spread].
func Jitter(n int, spread float64, seed int64) []float64 {
	rng := rand.New(rand.NewSource(seed))
	out := make([]float64, n)
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * spread
	}
	return out
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
