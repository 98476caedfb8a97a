package services

import (
	"context"
	"errors"
	"testing"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitterPartitionsEveryRow(t *testing.T) {
	s := openTestStore(t)
	df := dataframe.New(
		series.New([]string{"x", "x", "x", "x", "x", "x"}, series.String, "salary"),
		series.New([]string{"junior", "senior", "junior", "lead", "senior", "junior"}, series.String, "seniority_level"),
		series.New([]string{"Berlin", "O'Hare", "Paris", "Berlin", "O'Hare", "Berlin"}, series.String, "location"),
		series.New([]string{"1", "2", "3", "4", "5", "6"}, series.Int, "openings"),
		series.New([]string{"30000", "60000", "NaN", "90000", "65000", "32000"}, series.Float, "clean_salary"),
	)
	_, err := s.Load(context.Background(), df, nil)
	require.NoError(t, err)

	split, err := NewSplitter(s, newTestLogger()).Split(context.Background(), "location")
	require.NoError(t, err)

	require.Len(t, split.Tables, 3)
	assert.ElementsMatch(t, []string{"Berlin", "O'Hare", "Paris"}, split.Keys)
	assert.Equal(t, 6, split.Rows())
	assert.Equal(t, 3, split.Tables["Berlin"].Nrow())
	assert.Equal(t, 2, split.Tables["O'Hare"].Nrow())

	paris := split.Tables["Paris"]
	assert.Equal(t, []string{"salary", "seniority_level", "location", "openings", "clean_salary"}, paris.Names())
	assert.Equal(t, series.Int, paris.Col("openings").Type())
	assert.True(t, paris.Col("clean_salary").Elem(0).IsNA())
}

func TestSplitterNumericAndNullKeys(t *testing.T) {
	s := openTestStore(t)
	df := dataframe.New(
		series.New([]string{"1", "NaN", "1", "2"}, series.Int, "openings"),
		series.New([]string{"a", "b", "c", "d"}, series.String, "title"),
	)
	_, err := s.Load(context.Background(), df, nil)
	require.NoError(t, err)

	split, err := NewSplitter(s, newTestLogger()).Split(context.Background(), "openings")
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"1", "2"}, split.Keys)
	assert.Equal(t, 2, split.Tables["1"].Nrow())
	require.NotNil(t, split.Null)
	assert.Equal(t, 1, split.Null.Nrow())
	assert.Equal(t, 3, split.Len())
	assert.Equal(t, 4, split.Rows())
}

func TestSplitterKeepsNullApartFromNullString(t *testing.T) {
	s := openTestStore(t)
	df := dataframe.New(
		series.New([]string{"NULL", "NaN", "x"}, series.String, "tag"),
		series.New([]string{"a", "b", "c"}, series.String, "title"),
	)
	_, err := s.Load(context.Background(), df, nil)
	require.NoError(t, err)

	split, err := NewSplitter(s, newTestLogger()).Split(context.Background(), "tag")
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"NULL", "x"}, split.Keys)
	assert.Equal(t, "a", split.Tables["NULL"].Col("title").Elem(0).String())
	require.NotNil(t, split.Null)
	assert.Equal(t, "b", split.Null.Col("title").Elem(0).String())
	assert.Equal(t, 3, split.Rows())
}

func TestSplitterUnknownColumn(t *testing.T) {
	s := openTestStore(t)
	loadFixture(t, s)

	_, err := NewSplitter(s, newTestLogger()).Split(context.Background(), "location; DROP TABLE jobs")

	var missing *MissingColumnsError
	require.True(t, errors.As(err, &missing), "got %v", err)

	n, err := s.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 10, n)
}
