package services

import (
	"errors"
	"path/filepath"
	"testing"
)

func TestLoaderMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nope.csv")

	_, err := NewLoader(newTestLogger()).Load(path)

	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
	if nf.Path != path {
		t.Errorf("path: got %q, want %q", nf.Path, path)
	}
}

func TestLoaderEmptyInputs(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"blank file", ""},
		{"whitespace only", "\n  \n"},
		{"header only", "salary,seniority_level,location\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewLoader(newTestLogger()).Load(writeCSV(t, tt.content))

			var empty *EmptyDatasetError
			if !errors.As(err, &empty) {
				t.Fatalf("expected EmptyDatasetError, got %v", err)
			}
		})
	}
}

func TestLoaderTreatsPlaceholdersAsMissing(t *testing.T) {
	df := loadCSV(t, "salary,notes\n40000,NA\nn/a,\n")

	if df.Nrow() != 2 {
		t.Fatalf("rows: got %d, want 2", df.Nrow())
	}
	for i, na := range df.Col("notes").IsNaN() {
		if !na {
			t.Errorf("notes row %d should be missing", i)
		}
	}
	if !df.Col("salary").Elem(1).IsNA() {
		t.Error("salary row 1 (n/a) should be missing")
	}
}

func TestLoaderStripsByteOrderMark(t *testing.T) {
	df := loadCSV(t, "\ufeffsalary,seniority_level,location\n€50000,Junior,Berlin\n")

	if got := df.Names()[0]; got != "salary" {
		t.Fatalf("first column: got %q, want %q", got, "salary")
	}
	if _, err := NewCleaner(newTestLogger(), 0).Clean(df); err != nil {
		t.Fatalf("clean: %v", err)
	}
}
