package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-gota/gota/dataframe"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"job-insights/models"
	"job-insights/utils"
)

// ErrNoTable is returned when the jobs relation has not been created yet.
var ErrNoTable = errors.New("store: table does not exist")

// Store holds the single connection used for every read and write of a run.
type Store struct {
	db      *sql.DB
	dialect dialect
	logger  *utils.Logger
}

// Open connects to the store. driver is "sqlite3" (dsn is a file path or
// ":memory:") or "postgres" (dsn is a libpq connection string).
func Open(driver, dsn string, logger *utils.Logger) (*Store, error) {
	d, err := dialectFor(driver)
	if err != nil {
		return nil, fmt.Errorf("store: open: %w", err)
	}

	db, err := sql.Open(d.driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("store: open: %w", err)
	}

	// One connection, reused for the whole process.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: ping: %w", err)
	}

	logger.Debug("[store] Connected (%s)", d.driver)
	return &Store{db: db, dialect: d, logger: logger}, nil
}

// Close releases the connection.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Load replaces the jobs relation with the contents of df and returns the
// schema it was created with. A salary column with no values at all is
// dropped before the schema is inferred.
func (s *Store) Load(ctx context.Context, df dataframe.DataFrame, progress func()) (models.Schema, error) {
	if hasColumn(df, models.SalaryColumn) && allMissing(df.Col(models.SalaryColumn)) {
		df = df.Drop([]string{models.SalaryColumn})
		if df.Err != nil {
			return models.Schema{}, fmt.Errorf("store: drop empty salary column: %w", df.Err)
		}
		s.logger.Info("[store] Column 'salary' is completely empty and was dropped")
	}

	schema := InferSchema(models.JobsTable, df)
	rows, err := tableRows(df, schema)
	if err != nil {
		return models.Schema{}, fmt.Errorf("store: convert rows: %w", err)
	}

	if err := s.Recreate(ctx, schema); err != nil {
		return models.Schema{}, err
	}
	if err := s.Insert(ctx, schema, rows, progress); err != nil {
		return models.Schema{}, err
	}

	s.logger.Info("[store] Stored %d rows in table %q (%d columns)", len(rows), schema.Table, len(schema.Columns))
	return schema, nil
}

// Recreate drops the relation if it exists and creates it from schema.
func (s *Store) Recreate(ctx context.Context, schema models.Schema) error {
	if len(schema.Columns) == 0 {
		return fmt.Errorf("store: create %s: no columns", schema.Table)
	}
	if _, err := s.db.ExecContext(ctx, "DROP TABLE IF EXISTS "+QuoteIdent(schema.Table)); err != nil {
		return fmt.Errorf("store: drop %s: %w", schema.Table, err)
	}

	ddl := s.dialect.createTable(schema)
	s.logger.Debug("[store] %s", ddl)
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("store: create %s: %w", schema.Table, err)
	}
	return nil
}

// Insert writes rows one by one, in order, inside a single transaction.
// The first failing row aborts the whole load.
func (s *Store) Insert(ctx context.Context, schema models.Schema, rows [][]any, progress func()) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("store: begin: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, s.dialect.insert(schema))
	if err != nil {
		return fmt.Errorf("store: prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, row := range rows {
		if _, err := stmt.ExecContext(ctx, row...); err != nil {
			return fmt.Errorf("store: insert row %d: %w", i, err)
		}
		if progress != nil {
			progress()
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("store: commit: %w", err)
	}
	return nil
}

// Query runs a read query written with ? placeholders and materialises the
// result. []byte values are returned as strings.
func (s *Store) Query(ctx context.Context, query string, args ...any) (*ResultSet, error) {
	rows, err := s.db.QueryContext(ctx, s.dialect.rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("store: query: %w", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("store: columns: %w", err)
	}

	rs := &ResultSet{Columns: cols}
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("store: scan row: %w", err)
		}
		for i, v := range vals {
			if b, ok := v.([]byte); ok {
				vals[i] = string(b)
			}
		}
		rs.Rows = append(rs.Rows, vals)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: rows: %w", err)
	}
	return rs, nil
}

// Describe lists the columns of the jobs relation in declaration order.
func (s *Store) Describe(ctx context.Context) ([]models.ColumnInfo, error) {
	var query string
	var args []any
	switch s.dialect.driver {
	case "postgres":
		query = `SELECT ordinal_position - 1, column_name, UPPER(data_type), is_nullable = 'NO', column_default, FALSE
			FROM information_schema.columns
			WHERE table_name = $1
			ORDER BY ordinal_position`
		args = []any{models.JobsTable}
	default:
		query = "PRAGMA table_info(" + QuoteIdent(models.JobsTable) + ")"
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("store: describe: %w", err)
	}
	defer rows.Close()

	var infos []models.ColumnInfo
	for rows.Next() {
		var (
			info models.ColumnInfo
			def  sql.NullString
			pk   int
		)
		if s.dialect.driver == "postgres" {
			var pkBool bool
			if err := rows.Scan(&info.CID, &info.Name, &info.Type, &info.NotNull, &def, &pkBool); err != nil {
				return nil, fmt.Errorf("store: describe scan: %w", err)
			}
			if pkBool {
				pk = 1
			}
		} else {
			if err := rows.Scan(&info.CID, &info.Name, &info.Type, &info.NotNull, &def, &pk); err != nil {
				return nil, fmt.Errorf("store: describe scan: %w", err)
			}
		}
		if def.Valid {
			v := def.String
			info.DefaultValue = &v
		}
		info.PrimaryKey = pk > 0
		infos = append(infos, info)
	}
	return infos, rows.Err()
}

// Schema reads the live schema of the jobs relation.
func (s *Store) Schema(ctx context.Context) (models.Schema, error) {
	infos, err := s.Describe(ctx)
	if err != nil {
		return models.Schema{}, err
	}
	if len(infos) == 0 {
		return models.Schema{}, ErrNoTable
	}

	schema := models.Schema{Table: models.JobsTable}
	for _, info := range infos {
		schema.Columns = append(schema.Columns, models.Column{
			Name: info.Name,
			Kind: models.KindFromDeclared(info.Type),
		})
	}
	return schema, nil
}

// Count returns the number of rows in the jobs relation.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+QuoteIdent(models.JobsTable)).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("store: count: %w", err)
	}
	return n, nil
}

func hasColumn(df dataframe.DataFrame, name string) bool {
	for _, n := range df.Names() {
		if n == name {
			return true
		}
	}
	return false
}
