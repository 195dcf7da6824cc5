package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// DateLayout is the accepted start/end date format; leading zeros are optional.
const DateLayout = "2006-1-2"

// DefaultLookbackDays is the number of calendar days charted when no dates are given.
const DefaultLookbackDays = 30

var (
	// ErrInvalidArgs is returned for a missing ticker or an incomplete date range.
	ErrInvalidArgs = errors.New("invalid arguments")
	// ErrInvalidDate is returned when a date argument cannot be parsed.
	ErrInvalidDate = errors.New("invalid date")
)

// Args are the positional command-line arguments: TICKER [START END].
type Args struct {
	Ticker string
	Start  time.Time
	End    time.Time
	// Relative is true when no dates were given and the range trails the current time.
	Relative bool
}

// ParseArgs parses positional arguments. now anchors the default range.
func ParseArgs(args []string, now time.Time) (Args, error) {
	if len(args) == 0 || strings.TrimSpace(args[0]) == "" {
		return Args{}, fmt.Errorf("%w: ticker is required", ErrInvalidArgs)
	}
	a := Args{Ticker: strings.ToUpper(strings.TrimSpace(args[0]))}

	switch len(args) {
	case 1:
		a.Start, a.End = DefaultRange(now)
		a.Relative = true
		return a, nil
	case 2:
		return Args{}, fmt.Errorf("%w: start date %q given without an end date", ErrInvalidArgs, args[1])
	case 3:
	default:
		return Args{}, fmt.Errorf("%w: expected at most 3 arguments, got %d", ErrInvalidArgs, len(args))
	}

	start, err := ParseDate(args[1])
	if err != nil {
		return Args{}, err
	}
	end, err := ParseDate(args[2])
	if err != nil {
		return Args{}, err
	}
	a.Start, a.End = start, end
	return a, nil
}

// DefaultRange returns [now - 30 days, now]. Days are calendar days, so the start keeps
// now's wall-clock time across a daylight saving change.
func DefaultRange(now time.Time) (start, end time.Time) {
	return now.AddDate(0, 0, -DefaultLookbackDays), now
}

// ParseDate parses a YYYY-M-D date in local time.
func ParseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, strings.TrimSpace(s), time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q: %v", ErrInvalidDate, s, err)
	}
	return t, nil
}
