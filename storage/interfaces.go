package storage

import (
	"context"

	"github.com/go-gota/gota/dataframe"

	"job-insights/models"
)

// Querier is the read side of the store used by reports, charts and the
// splitter.
type Querier interface {
	Query(ctx context.Context, query string, args ...any) (*ResultSet, error)
	Schema(ctx context.Context) (models.Schema, error)
}

// TableWriter is the interface for exporting an in-memory table.
type TableWriter interface {
	Write(df dataframe.DataFrame) error
	Close() error
}
