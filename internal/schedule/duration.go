package schedule

import (
	"math"
	"time"

	"github.com/fieldops-dev/shift-planner/internal/domain"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

// Duration describes the elapsed time of a shift together with its
// day-boundary flags.
type Duration struct {
	Hours       float64
	IsOvernight bool
	Is24h       bool
}

// ComputeDuration combines date with the two wall-clock times and
// returns elapsed hours plus overnight/24h flags.
//
// An end at or before the start means the shift runs into the next day,
// so 24 hours are added before measuring. An end numerically equal to
// the start is therefore a full 24-hour shift, never a zero-length one.
func ComputeDuration(date, start, end string) (Duration, error) {
	startAt, err := parseLocal(date, start)
	if err != nil {
		return Duration{}, domain.Validationf("invalid start time %q: expected HH:mm", start)
	}
	endAt, err := parseLocal(date, end)
	if err != nil {
		return Duration{}, domain.Validationf("invalid end time %q: expected HH:mm", end)
	}

	d := Duration{}
	if !endAt.After(startAt) {
		endAt = endAt.Add(24 * time.Hour)
		d.IsOvernight = true
		if endAt.Sub(startAt) == 24*time.Hour {
			d.Is24h = true
		}
	}

	minutes := endAt.Sub(startAt).Minutes()
	d.Hours = round2(minutes / 60)

	return d, nil
}

func parseLocal(date, clock string) (time.Time, error) {
	return time.ParseInLocation(dateLayout+" "+timeLayout, date+" "+clock, time.Local)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
