package services

import (
	"context"
	"sort"
	"time"

	"propertyinsights/events"
	"propertyinsights/finance"
	"propertyinsights/models"

	"go.uber.org/zap"
)

const (
	StageAggregation = "aggregation"
	StageSummary     = "summary"
)

// StageError records which pipeline stage failed.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string { return e.Stage + ": " + e.Err.Error() }

func (e *StageError) Unwrap() error { return e.Err }

// ReportBuilder runs aggregation, summary generation and the financial model
// for one request.
type ReportBuilder struct {
	aggregator *Aggregator
	summaries  *SummaryGenerator
	publisher  events.Publisher
	now        func() time.Time
	logger     *zap.Logger
}

func NewReportBuilder(aggregator *Aggregator, summaries *SummaryGenerator, publisher events.Publisher, logger *zap.Logger) *ReportBuilder {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &ReportBuilder{
		aggregator: aggregator,
		summaries:  summaries,
		publisher:  publisher,
		now:        time.Now,
		logger:     logger,
	}
}

// Build produces the report tagged id. Errors are *StageError.
func (b *ReportBuilder) Build(ctx context.Context, id int64, postcode string, price float64) (*models.Report, error) {
	rc, err := b.aggregator.Aggregate(ctx, postcode, price)
	if err != nil {
		return nil, &StageError{Stage: StageAggregation, Err: err}
	}

	summary, err := b.summaries.Generate(ctx, rc)
	if err != nil {
		return nil, &StageError{Stage: StageSummary, Err: err}
	}

	report := &models.Report{
		ID:            id,
		Postcode:      postcode,
		PropertyPrice: price,
		GeneratedAt:   b.now().UTC(),
		Context:       rc,
		Summary:       summary.Summary,
		Financials:    finance.BuildModel(finance.InputsFor(price, rc)),
	}
	return report, nil
}

// Announce publishes a report.generated event. Failures are logged only.
func (b *ReportBuilder) Announce(ctx context.Context, report *models.Report) {
	event := models.ReportGeneratedEvent{
		ReportID:      report.ID,
		Postcode:      report.Postcode,
		GeneratedAt:   report.GeneratedAt,
		SummaryLength: len(report.Summary),
	}
	if report.Context != nil {
		for domain := range report.Context.Failures {
			event.FailedDomains = append(event.FailedDomains, domain)
		}
		sort.Strings(event.FailedDomains)
	}
	if err := b.publisher.PublishReportGenerated(ctx, event); err != nil {
		b.logger.Warn("Failed to publish report event", zap.Int64("report_id", report.ID), zap.Error(err))
	}
}
