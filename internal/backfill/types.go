// Package backfill replays historical box scores through the ingestion
// path, one game date at a time.
package backfill

import "time"

// JobType enumerates the supported backfill job variants.
type JobType string

const (
	JobTypeSeason    JobType = "season"
	JobTypeDateRange JobType = "date_range"
)

// JobSpec describes the work to be performed by the runner.
type JobSpec struct {
	Type   JobType
	Season string
	Start  time.Time
	End    time.Time
	DryRun bool
}

// Reporter receives lifecycle callbacks from the runner.
type Reporter interface {
	OnJobStart(spec JobSpec)
	OnDateStart(date time.Time, index int, total int)
	OnProgress(message string, current int, total int)
	OnJobComplete()
	OnJobError(err error)
}

// seasonWindows maps season tokens to regular-season start and end dates.
// Dates outside the window have no games worth fetching.
var seasonWindows = map[string][2]string{
	"2022-23": {"2022-10-18", "2023-04-09"},
	"2023-24": {"2023-10-24", "2024-04-14"},
	"2024-25": {"2024-10-22", "2025-04-13"},
	"2025-26": {"2025-10-21", "2026-04-12"},
}

// SeasonWindow returns the regular-season date range for a season token.
// The second return is false for seasons without a known window.
func SeasonWindow(season string) (time.Time, time.Time, bool) {
	window, ok := seasonWindows[season]
	if !ok {
		return time.Time{}, time.Time{}, false
	}
	start, err1 := time.Parse("2006-01-02", window[0])
	end, err2 := time.Parse("2006-01-02", window[1])
	if err1 != nil || err2 != nil {
		return time.Time{}, time.Time{}, false
	}
	return start, end, true
}
