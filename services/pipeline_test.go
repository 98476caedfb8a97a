package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"job-insights/storage"
)

type countingProgress struct {
	total, ticks int
	finished     bool
}

func (p *countingProgress) Start(total int) { p.total = total }
func (p *countingProgress) Increment()      { p.ticks++ }
func (p *countingProgress) Finish()         { p.finished = true }

func TestPipelineStoresEveryRow(t *testing.T) {
	s := openTestStore(t)
	reportPath := filepath.Join(t.TempDir(), "job_output.txt")
	progress := &countingProgress{}

	res, err := NewPipeline(s, newTestLogger(), 0).Run(context.Background(), filepath.Join("testdata", "jobs.csv"), reportPath, progress)
	require.NoError(t, err)

	assert.Equal(t, 10, res.Rows)
	assert.Equal(t, 10, progress.total)
	assert.Equal(t, 10, progress.ticks)
	assert.True(t, progress.finished)

	// referral is entirely empty and pruned; remote is exactly 90% empty and kept.
	assert.False(t, res.Schema.Has("referral"))
	assert.True(t, res.Schema.Has("remote"))

	n, err := s.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 10, n)

	rs, err := s.Query(context.Background(), `SELECT clean_salary FROM jobs`)
	require.NoError(t, err)
	for _, v := range rs.Column(0) {
		if v == nil {
			continue
		}
		f, ok := storage.AsFloat(v)
		require.True(t, ok)
		assert.GreaterOrEqual(t, f, 35000.0)
		assert.LessOrEqual(t, f, 95000.0)
	}
}

func TestPipelineIsIdempotent(t *testing.T) {
	s := openTestStore(t)
	reportPath := filepath.Join(t.TempDir(), "job_output.txt")
	p := NewPipeline(s, newTestLogger(), 0)
	csvPath := filepath.Join("testdata", "jobs.csv")

	first, err := p.Run(context.Background(), csvPath, reportPath, nil)
	require.NoError(t, err)
	firstReport, err := os.ReadFile(reportPath)
	require.NoError(t, err)

	second, err := p.Run(context.Background(), csvPath, reportPath, nil)
	require.NoError(t, err)
	secondReport, err := os.ReadFile(reportPath)
	require.NoError(t, err)

	assert.Equal(t, firstReport, secondReport)
	assert.Equal(t, first.Schema, second.Schema)

	n, err := s.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 10, n)
}

func TestPipelineStopsOnMissingFile(t *testing.T) {
	s := openTestStore(t)
	reportPath := filepath.Join(t.TempDir(), "job_output.txt")

	_, err := NewPipeline(s, newTestLogger(), 0).Run(context.Background(), "does-not-exist.csv", reportPath, nil)

	var nf *NotFoundError
	require.True(t, errors.As(err, &nf), "got %v", err)

	_, statErr := os.Stat(reportPath)
	assert.True(t, os.IsNotExist(statErr), "no report should be written")
}
