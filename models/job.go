package models

import "strings"

// Column names the pipeline depends on.
const (
	JobsTable         = "jobs"
	SalaryColumn      = "salary"
	CleanSalaryColumn = "clean_salary"
	SeniorityColumn   = "seniority_level"
	LocationColumn    = "location"
)

// RequiredColumns must survive column pruning for a dataset to be usable.
var RequiredColumns = []string{SalaryColumn, SeniorityColumn, LocationColumn}

// ColumnKind is the storage type of a column, decided once from a full scan
// of the in-memory data.
type ColumnKind int

const (
	TextColumn ColumnKind = iota
	IntegerColumn
	RealColumn
)

func (k ColumnKind) String() string {
	switch k {
	case IntegerColumn:
		return "integer"
	case RealColumn:
		return "real"
	default:
		return "text"
	}
}

// Column is one field of the stored relation.
type Column struct {
	Name string     `yaml:"name"`
	Kind ColumnKind `yaml:"-"`
}

// Schema is the ordered column set of the stored relation.
type Schema struct {
	Table   string
	Columns []Column
}

// Names returns the column names in order.
func (s Schema) Names() []string {
	names := make([]string, len(s.Columns))
	for i, c := range s.Columns {
		names[i] = c.Name
	}
	return names
}

// Lookup finds a column by exact name.
func (s Schema) Lookup(name string) (Column, bool) {
	for _, c := range s.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}

// Has reports whether the schema contains the named column.
func (s Schema) Has(name string) bool {
	_, ok := s.Lookup(name)
	return ok
}

// Missing returns the subset of names absent from the schema, in input order.
func (s Schema) Missing(names ...string) []string {
	var missing []string
	for _, n := range names {
		if !s.Has(n) {
			missing = append(missing, n)
		}
	}
	return missing
}

// ColumnInfo mirrors one row of a table description (PRAGMA table_info).
type ColumnInfo struct {
	CID          int     `yaml:"cid"`
	Name         string  `yaml:"name"`
	Type         string  `yaml:"type"`
	NotNull      bool    `yaml:"notnull"`
	DefaultValue *string `yaml:"default"`
	PrimaryKey   bool    `yaml:"pk"`
}

// KindFromDeclared maps a declared SQL column type back to a ColumnKind.
func KindFromDeclared(declared string) ColumnKind {
	d := strings.ToUpper(strings.TrimSpace(declared))
	switch {
	case strings.Contains(d, "INT"):
		return IntegerColumn
	case strings.Contains(d, "REAL"), strings.Contains(d, "DOUBLE"), strings.Contains(d, "FLOAT"), strings.Contains(d, "NUMERIC"):
		return RealColumn
	default:
		return TextColumn
	}
}
