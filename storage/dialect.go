package storage

import (
	"fmt"
	"strconv"
	"strings"

	"job-insights/models"
)

// dialect captures the SQL differences between the supported drivers.
type dialect struct {
	driver      string
	tableSuffix string
	types       map[models.ColumnKind]string
	positional  bool // $1, $2 ... instead of ?
}

var (
	sqliteDialect = dialect{
		driver: "sqlite3",
		// STRICT makes SQLite reject values that do not fit the declared type.
		tableSuffix: " STRICT",
		types: map[models.ColumnKind]string{
			models.IntegerColumn: "INTEGER",
			models.RealColumn:    "REAL",
			models.TextColumn:    "TEXT",
		},
	}

	postgresDialect = dialect{
		driver: "postgres",
		types: map[models.ColumnKind]string{
			models.IntegerColumn: "BIGINT",
			models.RealColumn:    "DOUBLE PRECISION",
			models.TextColumn:    "TEXT",
		},
		positional: true,
	}
)

func dialectFor(driver string) (dialect, error) {
	switch strings.ToLower(driver) {
	case "sqlite3", "sqlite", "":
		return sqliteDialect, nil
	case "postgres", "postgresql":
		return postgresDialect, nil
	}
	return dialect{}, fmt.Errorf("unsupported store driver %q", driver)
}

// rebind rewrites ? placeholders into the dialect's native form. Placeholders
// inside single-quoted literals are left alone.
func (d dialect) rebind(query string) string {
	if !d.positional {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	inQuote := false
	for _, r := range query {
		switch {
		case r == '\'':
			inQuote = !inQuote
			b.WriteRune(r)
		case r == '?' && !inQuote:
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func (d dialect) createTable(schema models.Schema) string {
	defs := make([]string, len(schema.Columns))
	for i, c := range schema.Columns {
		defs[i] = QuoteIdent(c.Name) + " " + d.types[c.Kind]
	}
	return fmt.Sprintf("CREATE TABLE %s (%s)%s",
		QuoteIdent(schema.Table), strings.Join(defs, ", "), d.tableSuffix)
}

func (d dialect) insert(schema models.Schema) string {
	cols := make([]string, len(schema.Columns))
	marks := make([]string, len(schema.Columns))
	for i, c := range schema.Columns {
		cols[i] = QuoteIdent(c.Name)
		marks[i] = "?"
	}
	return d.rebind(fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		QuoteIdent(schema.Table), strings.Join(cols, ", "), strings.Join(marks, ", ")))
}

// QuoteIdent quotes a column or table name for use in SQL.
func QuoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
