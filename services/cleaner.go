package services

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"job-insights/models"
	"job-insights/utils"
)

// DefaultMissingThreshold is the missing-value fraction above which a column
// is dropped.
const DefaultMissingThreshold = 0.9

// salaryNumberRegexp captures a run of digits with optional thousand separators.
var salaryNumberRegexp = regexp.MustCompile(`\d[\d,]*`)

// Cleaner prunes sparse columns and derives clean_salary and a normalised
// seniority_level.
type Cleaner struct {
	logger    *utils.Logger
	threshold float64
	lower     cases.Caser
}

// NewCleaner creates a Cleaner. A non-positive threshold selects
// DefaultMissingThreshold.
func NewCleaner(logger *utils.Logger, threshold float64) *Cleaner {
	if threshold <= 0 {
		threshold = DefaultMissingThreshold
	}
	return &Cleaner{
		logger:    logger,
		threshold: threshold,
		lower:     cases.Lower(language.Und),
	}
}

// Clean runs every cleaning step in order and returns the cleaned table.
func (c *Cleaner) Clean(df dataframe.DataFrame) (dataframe.DataFrame, error) {
	df, dropped := c.PruneSparseColumns(df)
	if len(dropped) > 0 {
		c.logger.Info("[cleaner] Dropped columns with more than %.0f%% missing values: %v", c.threshold*100, dropped)
	}

	if err := requireColumns(df); err != nil {
		return dataframe.DataFrame{}, err
	}

	salaries := c.cleanSalaries(df.Col(models.SalaryColumn))
	if allMissing(salaries) {
		return dataframe.DataFrame{}, &AllSalariesMissingError{}
	}
	df = df.Mutate(salaries)

	df = df.Mutate(c.normaliseSeniority(df.Col(models.SeniorityColumn)))
	if df.Err != nil {
		return dataframe.DataFrame{}, df.Err
	}

	c.logger.Info("[cleaner] Cleaned %d rows, %d columns kept", df.Nrow(), df.Ncol())
	return df, nil
}

// PruneSparseColumns drops every column whose missing fraction is strictly
// greater than the threshold. Remaining columns keep their order.
func (c *Cleaner) PruneSparseColumns(df dataframe.DataFrame) (dataframe.DataFrame, []string) {
	n := df.Nrow()
	if n == 0 {
		return df, nil
	}

	var dropped []string
	for _, name := range df.Names() {
		missing := 0
		for _, na := range df.Col(name).IsNaN() {
			if na {
				missing++
			}
		}
		if float64(missing)/float64(n) > c.threshold {
			dropped = append(dropped, name)
		}
	}

	if len(dropped) == 0 {
		return df, nil
	}
	return df.Drop(dropped), dropped
}

func requireColumns(df dataframe.DataFrame) error {
	present := make(map[string]bool, df.Ncol())
	for _, n := range df.Names() {
		present[n] = true
	}

	var missing []string
	for _, col := range models.RequiredColumns {
		if !present[col] {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return &MissingColumnsError{Columns: missing}
	}
	return nil
}

// ParseSalary averages every number found in raw. Commas inside a number are
// thousand separators. It reports false when raw holds no number or a number
// does not fit in an int64.
func ParseSalary(raw string) (float64, bool) {
	matches := salaryNumberRegexp.FindAllString(raw, -1)
	if len(matches) == 0 {
		return 0, false
	}

	var sum float64
	for _, m := range matches {
		n, err := strconv.ParseInt(strings.ReplaceAll(m, ",", ""), 10, 64)
		if err != nil {
			return 0, false
		}
		sum += float64(n)
	}
	return sum / float64(len(matches)), true
}

// cleanSalaries derives clean_salary. Only text values are parsed; missing
// and numeric cells stay absent.
func (c *Cleaner) cleanSalaries(raw series.Series) series.Series {
	values := make([]string, raw.Len())
	isText := raw.Type() == series.String
	parsed := 0
	for i := range values {
		values[i] = "NaN"
		e := raw.Elem(i)
		if !isText || e.IsNA() {
			continue
		}
		if v, ok := ParseSalary(e.String()); ok {
			values[i] = strconv.FormatFloat(v, 'f', -1, 64)
			parsed++
		}
	}
	c.logger.Debug("[cleaner] Parsed %d/%d salary values", parsed, len(values))
	return series.New(values, series.Float, models.CleanSalaryColumn)
}

// normaliseSeniority trims and lower-cases seniority labels.
func (c *Cleaner) normaliseSeniority(raw series.Series) series.Series {
	values := make([]string, raw.Len())
	for i := range values {
		e := raw.Elem(i)
		if e.IsNA() {
			values[i] = "NaN"
			continue
		}
		values[i] = c.lower.String(strings.TrimSpace(e.String()))
	}
	return series.New(values, series.String, models.SeniorityColumn)
}

func allMissing(s series.Series) bool {
	for _, na := range s.IsNaN() {
		if !na {
			return false
		}
	}
	return true
}
