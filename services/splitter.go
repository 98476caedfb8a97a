package services

import (
	"context"
	"fmt"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"job-insights/models"
	"job-insights/storage"
	"job-insights/utils"
)

// NullKey labels the sub-table of NULL rows in listings and file names. It
// is not a key of Split.Tables, so a stored "NULL" string stays separate.
const NullKey = "NULL"

// Split is the stored relation partitioned by the distinct values of Column.
// Keys holds the distinct non-NULL values in the order the store returned
// them. Rows whose value is NULL are held in Null.
type Split struct {
	Column string
	Keys   []string
	Tables map[string]dataframe.DataFrame
	Null   *dataframe.DataFrame
}

// Rows returns the total row count over every sub-table.
func (s *Split) Rows() int {
	n := 0
	for _, df := range s.Tables {
		n += df.Nrow()
	}
	if s.Null != nil {
		n += s.Null.Nrow()
	}
	return n
}

// Len returns the number of sub-tables, counting the NULL one.
func (s *Split) Len() int {
	if s.Null != nil {
		return len(s.Keys) + 1
	}
	return len(s.Keys)
}

// Splitter partitions the stored relation into in-memory sub-tables.
type Splitter struct {
	store  storage.Querier
	logger *utils.Logger
}

// NewSplitter creates a Splitter reading from store.
func NewSplitter(store storage.Querier, logger *utils.Logger) *Splitter {
	return &Splitter{store: store, logger: logger}
}

// Split fetches the distinct values of column and loads one sub-table per
// value. The column must exist in the stored relation; values are bound as
// query parameters.
func (s *Splitter) Split(ctx context.Context, column string) (*Split, error) {
	schema, err := s.store.Schema(ctx)
	if err != nil {
		return nil, err
	}
	if !schema.Has(column) {
		return nil, &MissingColumnsError{Columns: []string{column}}
	}

	col := storage.QuoteIdent(column)
	table := storage.QuoteIdent(schema.Table)

	distinct, err := s.store.Query(ctx, fmt.Sprintf("SELECT DISTINCT %s FROM %s", col, table))
	if err != nil {
		return nil, fmt.Errorf("split: distinct %s: %w", column, err)
	}

	split := &Split{Column: column, Tables: make(map[string]dataframe.DataFrame, distinct.Len())}
	for _, v := range distinct.Column(0) {
		var rs *storage.ResultSet
		key := NullKey
		if v == nil {
			rs, err = s.store.Query(ctx, fmt.Sprintf("SELECT * FROM %s WHERE %s IS NULL", table, col))
		} else {
			key = storage.AsString(v)
			rs, err = s.store.Query(ctx, fmt.Sprintf("SELECT * FROM %s WHERE %s = ?", table, col), v)
		}
		if err != nil {
			return nil, fmt.Errorf("split: %s=%s: %w", column, key, err)
		}

		df, err := frameFromResult(rs, schema)
		if err != nil {
			return nil, fmt.Errorf("split: %s=%s: %w", column, key, err)
		}
		if v == nil {
			split.Null = &df
			continue
		}
		split.Keys = append(split.Keys, key)
		split.Tables[key] = df
	}

	s.logger.Info("[splitter] Split %q into %d tables", column, split.Len())
	return split, nil
}

// frameFromResult rebuilds an in-memory table from stored rows, typing each
// column by its stored kind.
func frameFromResult(rs *storage.ResultSet, schema models.Schema) (dataframe.DataFrame, error) {
	cols := make([]series.Series, len(rs.Columns))
	for i, name := range rs.Columns {
		kind := models.TextColumn
		if c, ok := schema.Lookup(name); ok {
			kind = c.Kind
		}

		values := make([]string, rs.Len())
		for r, v := range rs.Column(i) {
			if v == nil {
				values[r] = "NaN"
				continue
			}
			values[r] = storage.AsString(v)
		}
		cols[i] = series.New(values, seriesType(kind), name)
	}

	df := dataframe.New(cols...)
	return df, df.Err
}

func seriesType(kind models.ColumnKind) series.Type {
	switch kind {
	case models.IntegerColumn:
		return series.Int
	case models.RealColumn:
		return series.Float
	default:
		return series.String
	}
}
