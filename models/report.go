package models

// ReportSection is one query-result block of the text report.
type ReportSection struct {
	Title   string   `yaml:"title"`
	Columns []string `yaml:"columns"`
	Rows    [][]any  `yaml:"rows"`
}

// Report is the ordered set of sections written to the output artifact.
type Report struct {
	Sections []ReportSection `yaml:"sections"`
}
