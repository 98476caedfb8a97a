package storage

import (
	"fmt"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"job-insights/models"
)

// InferSchema decides the storage kind of every column of df. Integer series
// map to IntegerColumn, float series to RealColumn, everything else to
// TextColumn.
func InferSchema(table string, df dataframe.DataFrame) models.Schema {
	schema := models.Schema{Table: table}
	for _, name := range df.Names() {
		schema.Columns = append(schema.Columns, models.Column{
			Name: name,
			Kind: kindOf(df.Col(name)),
		})
	}
	return schema
}

func kindOf(s series.Series) models.ColumnKind {
	switch s.Type() {
	case series.Int:
		return models.IntegerColumn
	case series.Float:
		return models.RealColumn
	default:
		return models.TextColumn
	}
}

// allMissing reports whether every element of s is NA.
func allMissing(s series.Series) bool {
	for _, na := range s.IsNaN() {
		if !na {
			return false
		}
	}
	return true
}

// tableRows converts df into driver values, one slice per row, following
// the column order and kinds of schema.
func tableRows(df dataframe.DataFrame, schema models.Schema) ([][]any, error) {
	cols := make([]series.Series, len(schema.Columns))
	for i, c := range schema.Columns {
		cols[i] = df.Col(c.Name)
		if cols[i].Err != nil {
			return nil, fmt.Errorf("column %q: %w", c.Name, cols[i].Err)
		}
	}

	rows := make([][]any, df.Nrow())
	for r := range rows {
		row := make([]any, len(cols))
		for i, s := range cols {
			v, err := cellValue(s.Elem(r), schema.Columns[i].Kind)
			if err != nil {
				return nil, fmt.Errorf("row %d column %q: %w", r, schema.Columns[i].Name, err)
			}
			row[i] = v
		}
		rows[r] = row
	}
	return rows, nil
}

func cellValue(e series.Element, kind models.ColumnKind) (any, error) {
	if e.IsNA() {
		return nil, nil
	}
	switch kind {
	case models.IntegerColumn:
		n, err := e.Int()
		if err != nil {
			return nil, err
		}
		return int64(n), nil
	case models.RealColumn:
		return e.Float(), nil
	default:
		return e.String(), nil
	}
}
