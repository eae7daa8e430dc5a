package backfill

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeIngester struct {
	dates  []time.Time
	failOn string
}

func (f *fakeIngester) IngestDate(ctx context.Context, date time.Time) error {
	if f.failOn != "" && date.Format("2006-01-02") == f.failOn {
		return errors.New("fetch blew up")
	}
	f.dates = append(f.dates, date)
	return nil
}

type recordingReporter struct {
	started   bool
	completed bool
	errs      []error
	progress  []string
}

func (r *recordingReporter) OnJobStart(spec JobSpec)                     { r.started = true }
func (r *recordingReporter) OnDateStart(date time.Time, idx, total int) {}
func (r *recordingReporter) OnProgress(msg string, cur, total int)      { r.progress = append(r.progress, msg) }
func (r *recordingReporter) OnJobComplete()                             { r.completed = true }
func (r *recordingReporter) OnJobError(err error)                       { r.errs = append(r.errs, err) }

func TestRunDateRange(t *testing.T) {
	ingester := &fakeIngester{}
	reporter := &recordingReporter{}

	spec := JobSpec{
		Type:  JobTypeDateRange,
		Start: time.Date(2026, time.January, 5, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2026, time.January, 7, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, NewRunner(ingester).Run(context.Background(), spec, reporter))

	require.Len(t, ingester.dates, 3)
	assert.Equal(t, time.Date(2026, time.January, 5, 0, 0, 0, 0, time.UTC), ingester.dates[0])
	assert.Equal(t, time.Date(2026, time.January, 7, 0, 0, 0, 0, time.UTC), ingester.dates[2])
	assert.True(t, reporter.started)
	assert.True(t, reporter.completed)
	assert.Empty(t, reporter.errs)
}

func TestRunSeasonUsesWindow(t *testing.T) {
	ingester := &fakeIngester{}

	spec := JobSpec{Type: JobTypeSeason, Season: "2024-25"}
	require.NoError(t, NewRunner(ingester).Run(context.Background(), spec, nil))

	require.NotEmpty(t, ingester.dates)
	assert.Equal(t, time.Date(2024, time.October, 22, 0, 0, 0, 0, time.UTC), ingester.dates[0])
	assert.Equal(t, time.Date(2025, time.April, 13, 0, 0, 0, 0, time.UTC), ingester.dates[len(ingester.dates)-1])
}

func TestRunUnknownSeason(t *testing.T) {
	reporter := &recordingReporter{}
	spec := JobSpec{Type: JobTypeSeason, Season: "1987-88"}

	err := NewRunner(&fakeIngester{}).Run(context.Background(), spec, reporter)
	require.Error(t, err)
	assert.Len(t, reporter.errs, 1)
	assert.False(t, reporter.completed)
}

func TestRunDryRun(t *testing.T) {
	ingester := &fakeIngester{}
	reporter := &recordingReporter{}

	spec := JobSpec{Type: JobTypeSeason, Season: "2024-25", DryRun: true}
	require.NoError(t, NewRunner(ingester).Run(context.Background(), spec, reporter))

	assert.Empty(t, ingester.dates, "dry run writes nothing")
	assert.True(t, reporter.completed)
}

func TestRunStopsOnIngestError(t *testing.T) {
	ingester := &fakeIngester{failOn: "2026-01-06"}
	reporter := &recordingReporter{}

	spec := JobSpec{
		Type:  JobTypeDateRange,
		Start: time.Date(2026, time.January, 5, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2026, time.January, 8, 0, 0, 0, 0, time.UTC),
	}
	err := NewRunner(ingester).Run(context.Background(), spec, reporter)
	require.Error(t, err)
	assert.Len(t, ingester.dates, 1, "stops at first failing date")
	assert.False(t, reporter.completed)
}
