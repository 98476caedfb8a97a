package services

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/go-gota/gota/dataframe"

	"job-insights/utils"
)

// MissingValues are the cell spellings treated as absent when reading CSV.
var MissingValues = []string{"", "NA", "N/A", "n/a", "NaN", "nan", "null", "NULL", "None", "<nil>"}

var utf8BOM = []byte("\xef\xbb\xbf")

// Loader reads a CSV dataset fully into memory.
type Loader struct {
	logger *utils.Logger
}

// NewLoader creates a Loader with the given logger.
func NewLoader(logger *utils.Logger) *Loader {
	return &Loader{logger: logger}
}

// Load reads the file at path. It fails with *NotFoundError when the path
// does not exist and *EmptyDatasetError when the file holds no data rows.
func (l *Loader) Load(path string) (dataframe.DataFrame, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return dataframe.DataFrame{}, &NotFoundError{Path: path}
	}
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("loader: read %s: %w", path, err)
	}
	data = bytes.TrimPrefix(data, utf8BOM)
	if len(bytes.TrimSpace(data)) == 0 {
		return dataframe.DataFrame{}, &EmptyDatasetError{Path: path}
	}

	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("loader: parse %s: %w", path, err)
	}
	if len(records) < 2 {
		return dataframe.DataFrame{}, &EmptyDatasetError{Path: path}
	}

	df := dataframe.LoadRecords(records,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(true),
		dataframe.NaNValues(MissingValues),
	)
	if df.Err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("loader: parse %s: %w", path, df.Err)
	}
	if df.Nrow() == 0 {
		return dataframe.DataFrame{}, &EmptyDatasetError{Path: path}
	}

	l.logger.Info("[loader] Loaded %d rows x %d columns from %s", df.Nrow(), df.Ncol(), path)
	return df, nil
}
