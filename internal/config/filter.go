package config

import (
	"slices"
	"strings"
	"time"

	"github.com/markusmobius/go-dateparser"
	"github.com/urfave/cli/v2"

	"github.com/thoughtcast/thoughtcast/internal/timeutil"
)

// FilterConfig restricts listed sessions to those recorded within
// [StartTime, EndTime]. A zero StartTime means no lower bound.
type FilterConfig struct {
	StartTime time.Time
	EndTime   time.Time
	Limit     int
}

// Contains reports whether t lies within the filter's range.
func (f *FilterConfig) Contains(t time.Time) bool {
	if !f.StartTime.IsZero() && t.Before(f.StartTime) {
		return false
	}

	return f.EndTime.IsZero() || !t.After(f.EndTime)
}

// getTimeRange returns the start and end time according to the
// specified time period.
func getTimeRange(period timeutil.Period, now time.Time) (start, end time.Time) {
	start = timeutil.RoundToStart(now)

	end = timeutil.RoundToEnd(now)

	//nolint:exhaustive // other cases covered by default
	switch period {
	case timeutil.PeriodToday:
		return
	case timeutil.PeriodYesterday:
		start = now.AddDate(0, 0, timeutil.Range[period])
		start = timeutil.RoundToStart(start)
		end = timeutil.RoundToEnd(start)

		return
	case timeutil.PeriodAllTime:
		start = time.Time{}
		return
	default:
		start = now.AddDate(0, 0, timeutil.Range[period])
		start = timeutil.RoundToStart(start)
	}

	return
}

// parseDate understands absolute dates as well as relative expressions such
// as "yesterday" or "3 days ago".
func parseDate(s string, now time.Time) (time.Time, error) {
	cfg := &dateparser.Configuration{
		CurrentTime: now,
	}

	dt, err := dateparser.Parse(cfg, s)
	if err != nil {
		return time.Time{}, errInvalidDate.Fmt(s).Wrap(err)
	}

	return dt.Time, nil
}

// Filter builds the session filter from the --period, --start, --end and
// --limit flags.
func Filter(ctx *cli.Context) (*FilterConfig, error) {
	return newFilter(
		ctx.String("period"),
		ctx.String("start"),
		ctx.String("end"),
		ctx.Int("limit"),
		time.Now(),
	)
}

func newFilter(
	periodStr, start, end string,
	limit int,
	now time.Time,
) (*FilterConfig, error) {
	f := &FilterConfig{Limit: limit}

	period := timeutil.Period(strings.TrimSpace(periodStr))

	if period != "" {
		if !slices.Contains(timeutil.PeriodCollection, period) {
			return nil, errInvalidPeriod.Fmt(period)
		}

		f.StartTime, f.EndTime = getTimeRange(period, now)

		return f, nil
	}

	var err error

	if start != "" {
		f.StartTime, err = parseDate(start, now)
		if err != nil {
			return nil, err
		}
	}

	if end != "" {
		f.EndTime, err = parseDate(end, now)
		if err != nil {
			return nil, err
		}
	}

	if !f.StartTime.IsZero() && !f.EndTime.IsZero() &&
		f.StartTime.After(f.EndTime) {
		return nil, errInvalidDateRange
	}

	return f, nil
}
