package storage

import (
	"fmt"
	"strconv"
)

// ResultSet is a fully materialised query result.
type ResultSet struct {
	Columns []string
	Rows    [][]any
}

// Len returns the number of rows.
func (rs *ResultSet) Len() int {
	return len(rs.Rows)
}

// Column returns the values of the i-th column.
func (rs *ResultSet) Column(i int) []any {
	out := make([]any, len(rs.Rows))
	for r, row := range rs.Rows {
		out[r] = row[i]
	}
	return out
}

// AsFloat converts a driver value to float64. NULL and non-numeric values
// report false.
func AsFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int64:
		return float64(x), true
	case int:
		return float64(x), true
	case string:
		f, err := strconv.ParseFloat(x, 64)
		return f, err == nil
	}
	return 0, false
}

// AsString renders a driver value as plain text. NULL becomes "".
func AsString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	}
	return fmt.Sprint(v)
}
