package calculator

import (
	"errors"
	"math"

	"DailyChart/internal/model"
)

// Summary describes a charted period.
type Summary struct {
	High      float64
	Low       float64
	FirstOpen float64
	LastClose float64
	ChangePct float64
	Bullish   int
	Bearish   int
	Equal     int
}

// PeriodRange scans all bars and returns the highest high and lowest low.
func PeriodRange(bars []model.DailyBar) (high, low float64, err error) {
	if len(bars) == 0 {
		return 0, 0, errors.New("no daily bars provided")
	}
	high = math.Inf(-1)
	low = math.Inf(1)
	for i := range bars {
		if bars[i].High > high {
			high = bars[i].High
		}
		if bars[i].Low < low {
			low = bars[i].Low
		}
	}
	return high, low, nil
}

// Summarize computes the range, the open-to-close change and the status counts of a period.
func Summarize(bars []model.DailyBar) (Summary, error) {
	high, low, err := PeriodRange(bars)
	if err != nil {
		return Summary{}, err
	}
	s := Summary{
		High:      high,
		Low:       low,
		FirstOpen: bars[0].Open,
		LastClose: bars[len(bars)-1].Close,
	}
	if s.FirstOpen != 0 {
		s.ChangePct = (s.LastClose - s.FirstOpen) / s.FirstOpen * 100
	}
	for _, b := range bars {
		switch b.Status {
		case model.Bullish:
			s.Bullish++
		case model.Bearish:
			s.Bearish++
		default:
			s.Equal++
		}
	}
	return s, nil
}
