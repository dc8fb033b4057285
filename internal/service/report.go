package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/pkordes/diplomatic-drive/internal/domain"
	"github.com/pkordes/diplomatic-drive/internal/metrics"
	"github.com/pkordes/diplomatic-drive/internal/repo"
	"github.com/pkordes/diplomatic-drive/internal/report"
)

// TemplateSource provides the report template workbook.
// report.FileTemplate is the production implementation.
type TemplateSource interface {
	Load() ([]byte, error)
}

// ReportService exports a date range of trips into the office template.
// Each call re-reads the template and the full store; nothing is cached.
type ReportService struct {
	trips    repo.TripRepo
	template TemplateSource
	layout   report.Layout
}

// NewReportService constructs a ReportService.
func NewReportService(trips repo.TripRepo, template TemplateSource, layout report.Layout) *ReportService {
	return &ReportService{trips: trips, template: template, layout: layout}
}

// Export builds the report for rng.
//
// The template is loaded first so a missing template is reported as
// domain.ErrTemplateMissing regardless of the store's contents. When no trip
// falls in range the result is domain.ErrNoRecords.
func (s *ReportService) Export(ctx context.Context, rng domain.ReportRange) (domain.Report, error) {
	start := time.Now()
	rep, err := s.export(ctx, rng)
	metrics.ObserveReportExport(exportResult(err), start, rep.Count, len(rep.Warnings))
	return rep, err
}

func (s *ReportService) export(ctx context.Context, rng domain.ReportRange) (domain.Report, error) {
	if err := rng.Validate(); err != nil {
		return domain.Report{}, fmt.Errorf("service.ReportService.Export: %w", err)
	}

	tmpl, err := s.template.Load()
	if err != nil {
		return domain.Report{}, fmt.Errorf("service.ReportService.Export: %w", err)
	}

	all, err := s.trips.LoadAll(ctx)
	if err != nil {
		return domain.Report{}, fmt.Errorf("service.ReportService.Export: %w", err)
	}

	selected := report.Filter(all, rng)
	if len(selected) == 0 {
		return domain.Report{}, fmt.Errorf("service.ReportService.Export: %w", domain.ErrNoRecords)
	}

	res, err := report.Inject(tmpl, selected, s.layout)
	if err != nil {
		return domain.Report{}, fmt.Errorf("service.ReportService.Export: %w", err)
	}

	return domain.Report{
		Filename: rng.Filename(),
		Body:     res.Body,
		Count:    res.Rows,
		Warnings: res.Warnings,
	}, nil
}

func exportResult(err error) string {
	switch {
	case err == nil:
		return metrics.ResultSuccess
	case errors.Is(err, domain.ErrValidation):
		return metrics.ResultInvalid
	case errors.Is(err, domain.ErrNoRecords):
		return metrics.ResultNoRecords
	case errors.Is(err, domain.ErrTemplateMissing):
		return metrics.ResultNoTemplate
	case errors.Is(err, domain.ErrUnavailable):
		return metrics.ResultUnavailable
	default:
		return metrics.ResultError
	}
}
