package services

import (
	"fmt"
	"strings"
)

// NotFoundError is returned when the input file does not exist.
type NotFoundError struct {
	Path string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("file %s not found", e.Path)
}

// EmptyDatasetError is returned when the input parses to zero rows.
type EmptyDatasetError struct {
	Path string
}

func (e *EmptyDatasetError) Error() string {
	return fmt.Sprintf("file %s is empty, no data loaded", e.Path)
}

// MissingColumnsError lists required columns that are absent.
type MissingColumnsError struct {
	Columns []string
}

func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf("missing required columns: [%s]", strings.Join(e.Columns, ", "))
}

// AllSalariesMissingError is returned when no row yields a salary.
type AllSalariesMissingError struct{}

func (e *AllSalariesMissingError) Error() string {
	return "all salary values are empty after cleaning"
}
