package services

import (
	"context"

	"job-insights/models"
	"job-insights/storage"
	"job-insights/utils"
)

// Progress receives insert progress while the cleaned table is stored.
type Progress interface {
	Start(total int)
	Increment()
	Finish()
}

// PipelineResult summarises one pipeline run.
type PipelineResult struct {
	Rows   int
	Schema models.Schema
	Report *models.Report
}

// Pipeline runs load -> clean -> store -> report against one store handle.
type Pipeline struct {
	loader  *Loader
	cleaner *Cleaner
	store   *storage.Store
	reports *ReportService
	logger  *utils.Logger
}

// NewPipeline wires the pipeline stages around store.
func NewPipeline(store *storage.Store, logger *utils.Logger, missingThreshold float64) *Pipeline {
	return &Pipeline{
		loader:  NewLoader(logger),
		cleaner: NewCleaner(logger, missingThreshold),
		store:   store,
		reports: NewReportService(store, logger),
		logger:  logger,
	}
}

// Run executes every stage in order. Any failure stops the run.
// progress may be nil.
func (p *Pipeline) Run(ctx context.Context, csvPath, reportPath string, progress Progress) (*PipelineResult, error) {
	raw, err := p.loader.Load(csvPath)
	if err != nil {
		return nil, err
	}

	cleaned, err := p.cleaner.Clean(raw)
	if err != nil {
		return nil, err
	}

	tick := func() {}
	if progress != nil {
		progress.Start(cleaned.Nrow())
		tick = progress.Increment
	}
	schema, err := p.store.Load(ctx, cleaned, tick)
	if progress != nil {
		progress.Finish()
	}
	if err != nil {
		return nil, err
	}

	report, err := p.reports.Generate(ctx)
	if err != nil {
		return nil, err
	}
	if err := p.reports.WriteFile(reportPath, report); err != nil {
		return nil, err
	}

	return &PipelineResult{Rows: cleaned.Nrow(), Schema: schema, Report: report}, nil
}
