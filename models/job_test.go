package models

import "testing"

func TestSchemaMissingPreservesOrder(t *testing.T) {
	s := Schema{Table: JobsTable, Columns: []Column{
		{Name: "title", Kind: TextColumn},
		{Name: "salary", Kind: TextColumn},
	}}

	got := s.Missing(RequiredColumns...)
	want := []string{SeniorityColumn, LocationColumn}
	if len(got) != len(want) {
		t.Fatalf("Missing: got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Missing[%d]: got %q, want %q", i, got[i], want[i])
		}
	}
}

func TestKindFromDeclared(t *testing.T) {
	tests := []struct {
		declared string
		want     ColumnKind
	}{
		{"INTEGER", IntegerColumn},
		{"bigint", IntegerColumn},
		{"REAL", RealColumn},
		{"double precision", RealColumn},
		{"TEXT", TextColumn},
		{"", TextColumn},
	}

	for _, tt := range tests {
		if got := KindFromDeclared(tt.declared); got != tt.want {
			t.Errorf("KindFromDeclared(%q) = %v; want %v", tt.declared, got, tt.want)
		}
	}
}
