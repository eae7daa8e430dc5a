package backfill

import (
	"context"
	"fmt"
	"time"
)

// DateIngester ingests every game played on one date.
type DateIngester interface {
	IngestDate(ctx context.Context, date time.Time) error
}

// Runner executes backfill specs against a date ingester.
type Runner struct {
	ingester DateIngester
}

// NewRunner constructs a runner over the given ingester.
func NewRunner(ingester DateIngester) *Runner {
	return &Runner{ingester: ingester}
}

// Run executes the job spec, reporting progress via the Reporter if provided.
// Season jobs derive their date range from the season window; date-range
// jobs use the spec's explicit bounds.
func (r *Runner) Run(ctx context.Context, spec JobSpec, reporter Reporter) error {
	if reporter != nil {
		reporter.OnJobStart(spec)
	}

	start, end := spec.Start, spec.End
	if spec.Type == JobTypeSeason {
		var ok bool
		start, end, ok = SeasonWindow(spec.Season)
		if !ok {
			err := fmt.Errorf("no season window known for %q", spec.Season)
			if reporter != nil {
				reporter.OnJobError(err)
			}
			return err
		}
	}

	dates := enumerateDates(start, end)
	if len(dates) == 0 {
		if reporter != nil {
			reporter.OnProgress("No dates to process", 0, 0)
			reporter.OnJobComplete()
		}
		return nil
	}

	if spec.DryRun {
		if reporter != nil {
			reporter.OnProgress(fmt.Sprintf("Dry-run mode: would process %d dates", len(dates)), 0, len(dates))
			reporter.OnJobComplete()
		}
		return nil
	}

	total := len(dates)
	for idx, date := range dates {
		if err := ctx.Err(); err != nil {
			return err
		}

		if reporter != nil {
			reporter.OnDateStart(date, idx, total)
		}

		if err := r.ingester.IngestDate(ctx, date); err != nil {
			if reporter != nil {
				reporter.OnJobError(err)
			}
			return fmt.Errorf("ingesting %s: %w", date.Format("2006-01-02"), err)
		}

		if reporter != nil {
			reporter.OnProgress(fmt.Sprintf("Processed %s", date.Format("Jan 2, 2006")), idx+1, total)
		}
	}

	if reporter != nil {
		reporter.OnJobComplete()
	}
	return nil
}

func enumerateDates(start, end time.Time) []time.Time {
	if end.Before(start) {
		start, end = end, start
	}

	var dates []time.Time
	current := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	final := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC)

	for !current.After(final) {
		dates = append(dates, current)
		current = current.AddDate(0, 0, 1)
	}

	return dates
}
