package services

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/pterm/pterm"

	"job-insights/models"
	"job-insights/storage"
	"job-insights/utils"
)

// ReportQuery is one fixed aggregate query of the text report.
type ReportQuery struct {
	Title   string
	SQL     string
	Columns []string // columns that must exist for the query to run
}

// ReportQueries are executed in order; their results form the report.
var ReportQueries = []ReportQuery{
	{
		Title: "Top-5 salaries by location and seniority",
		SQL: `SELECT location, seniority_level, MAX(clean_salary) AS max_salary
			FROM jobs
			GROUP BY location, seniority_level
			ORDER BY max_salary DESC NULLS LAST, location, seniority_level
			LIMIT 5`,
		Columns: []string{models.LocationColumn, models.SeniorityColumn, models.CleanSalaryColumn},
	},
	{
		Title: "Average salary by level",
		SQL: `SELECT seniority_level, AVG(clean_salary) AS avg_salary
			FROM jobs
			GROUP BY seniority_level
			ORDER BY seniority_level`,
		Columns: []string{models.SeniorityColumn, models.CleanSalaryColumn},
	},
	{
		Title: "Job count by location",
		SQL: `SELECT location, COUNT(*) AS job_count
			FROM jobs
			GROUP BY location
			ORDER BY job_count DESC, location
			LIMIT 5`,
		Columns: []string{models.LocationColumn},
	},
}

// ReportService runs the fixed report queries and renders their results.
type ReportService struct {
	store  storage.Querier
	logger *utils.Logger
}

// NewReportService creates a ReportService reading from store.
func NewReportService(store storage.Querier, logger *utils.Logger) *ReportService {
	return &ReportService{store: store, logger: logger}
}

// Generate executes every report query in order.
func (s *ReportService) Generate(ctx context.Context) (*models.Report, error) {
	report := &models.Report{}
	for _, q := range ReportQueries {
		if err := RequireColumns(ctx, s.store, q.Columns...); err != nil {
			return nil, err
		}
		rs, err := s.store.Query(ctx, q.SQL)
		if err != nil {
			return nil, fmt.Errorf("report: %s: %w", q.Title, err)
		}
		report.Sections = append(report.Sections, models.ReportSection{
			Title:   q.Title,
			Columns: rs.Columns,
			Rows:    rs.Rows,
		})
		s.logger.Debug("[report] %s: %d rows", q.Title, rs.Len())
	}
	return report, nil
}

// WriteFile overwrites path with the rendered report.
func (s *ReportService) WriteFile(path string, r *models.Report) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("report: create %s: %w", path, err)
	}
	if err := s.Write(f, r); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("report: close %s: %w", path, err)
	}
	s.logger.Info("[report] Written to %s", path)
	return nil
}

// Write renders the report as text: a header per section and one tuple per
// result row, sections separated by a blank line.
func (s *ReportService) Write(w io.Writer, r *models.Report) error {
	bw := bufio.NewWriter(w)
	for i, sec := range r.Sections {
		if i > 0 {
			bw.WriteString("\n")
		}
		fmt.Fprintf(bw, "--- %s ---\n", sec.Title)
		for _, row := range sec.Rows {
			bw.WriteString(FormatTuple(row))
			bw.WriteString("\n")
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("report: write: %w", err)
	}
	return nil
}

// Print draws the report as terminal tables.
func (s *ReportService) Print(w io.Writer, r *models.Report) error {
	for _, sec := range r.Sections {
		fmt.Fprintf(w, "\n%s\n", pterm.Bold.Sprint(sec.Title))

		data := pterm.TableData{sec.Columns}
		for _, row := range sec.Rows {
			cells := make([]string, len(row))
			for i, v := range row {
				cells[i] = displayValue(v)
			}
			data = append(data, cells)
		}

		out, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
		if err != nil {
			return fmt.Errorf("report: render %s: %w", sec.Title, err)
		}
		fmt.Fprintln(w, out)
	}
	return nil
}

func displayValue(v any) string {
	switch x := v.(type) {
	case nil:
		return "-"
	case float64:
		return humanize.Comma(int64(math.Round(x)))
	case int64:
		return humanize.Comma(x)
	}
	return storage.AsString(v)
}

// FormatTuple renders a result row as a literal tuple, e.g.
// ('Berlin', 'senior', 90000.0). NULL renders as None.
func FormatTuple(row []any) string {
	parts := make([]string, len(row))
	for i, v := range row {
		parts[i] = formatLiteral(v)
	}
	if len(parts) == 1 {
		return "(" + parts[0] + ",)"
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

func formatLiteral(v any) string {
	switch x := v.(type) {
	case nil:
		return "None"
	case string:
		return quoteLiteral(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return formatReal(x)
	case bool:
		if x {
			return "True"
		}
		return "False"
	}
	return fmt.Sprint(v)
}

// formatReal always keeps a decimal point or exponent so reals stay
// distinguishable from integers.
func formatReal(f float64) string {
	switch {
	case math.IsNaN(f):
		return "nan"
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	}
	abs := math.Abs(f)
	if abs != 0 && (abs < 1e-4 || abs >= 1e16) {
		s := strconv.FormatFloat(f, 'e', -1, 64)
		// 1e+16 -> 1e+16, 1.5e-05 -> 1.5e-05
		mant, exp, _ := strings.Cut(s, "e")
		sign := exp[:1]
		digits := strings.TrimLeft(exp[1:], "0")
		if len(digits) < 2 {
			digits = strings.Repeat("0", 2-len(digits)) + digits
		}
		return mant + "e" + sign + digits
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.ContainsAny(s, ".") {
		s += ".0"
	}
	return s
}

func quoteLiteral(s string) string {
	quote := "'"
	if strings.Contains(s, "'") && !strings.Contains(s, `"`) {
		quote = `"`
	}
	var b strings.Builder
	b.WriteString(quote)
	for _, r := range s {
		switch {
		case r == '\\':
			b.WriteString(`\\`)
		case string(r) == quote:
			b.WriteString(`\` + quote)
		case r == '\n':
			b.WriteString(`\n`)
		case r == '\r':
			b.WriteString(`\r`)
		case r == '\t':
			b.WriteString(`\t`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteString(quote)
	return b.String()
}

// RequireColumns fails with *MissingColumnsError when any of cols is absent
// from the stored relation.
func RequireColumns(ctx context.Context, q storage.Querier, cols ...string) error {
	schema, err := q.Schema(ctx)
	if err != nil {
		return err
	}
	if missing := schema.Missing(cols...); len(missing) > 0 {
		return &MissingColumnsError{Columns: missing}
	}
	return nil
}
