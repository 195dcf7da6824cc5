package chart

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"DailyChart/internal/calculator"
	"DailyChart/internal/model"
)

const (
	axisDateLayout  = "2006-01-02"
	titleDateLayout = "02/01/2006"
	barSpacing      = 24 * time.Hour
)

const (
	// wickOnlyWidth collapses the body of an Equal day so only its wick is drawn.
	wickOnlyWidth = "1"
	// emptyValue leaves a gap in a series at that axis position.
	emptyValue = "-"
)

// tooltipJS looks up the pre-rendered tooltip for the hovered bar.
const tooltipJS = `function (params) { var tips = %s; var p = Array.isArray(params) ? params[0] : params; return tips[p.dataIndex]; }`

// OutputName is the file name of a ticker's chart.
func OutputName(ticker string) string {
	return ticker + "_dailychart.html"
}

// Title is the chart heading, e.g. "AAPL Candlestick Chart (05/01/2023 - 01/02/2023)".
func Title(s *model.Series) string {
	return fmt.Sprintf("%s Candlestick Chart (%s - %s)",
		s.Ticker, s.Start.Format(titleDateLayout), s.End.Format(titleDateLayout))
}

// Renderer draws a series as an interactive candlestick page.
type Renderer struct {
	Width  int
	Height int
}

// NewRenderer creates a renderer for a chart of width x height pixels.
func NewRenderer(width, height int) *Renderer {
	return &Renderer{Width: width, Height: height}
}

// Build assembles the chart from the derived candle primitives.
func (r *Renderer) Build(s *model.Series) (*charts.Kline, error) {
	summary, err := calculator.Summarize(s.Bars)
	if err != nil {
		return nil, fmt.Errorf("summarize %s: %w", s.Ticker, err)
	}

	candles := DeriveAll(s.Bars)
	dates := make([]string, len(candles))
	bodies := make([]opts.KlineData, len(candles))
	wicks := make([]opts.KlineData, len(candles))
	tips := make([]string, len(candles))
	for i, c := range candles {
		dates[i] = c.Date.Format(axisDateLayout)
		bodies[i], wicks[i] = splitCandle(c)
		tips[i] = tooltipText(dates[i], c.Tooltip)
	}
	tipsJSON, err := json.Marshal(tips)
	if err != nil {
		return nil, fmt.Errorf("encode tooltips: %w", err)
	}

	kline := charts.NewKLine()
	kline.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: OutputName(s.Ticker),
			Width:     fmt.Sprintf("%dpx", r.Width),
			Height:    fmt.Sprintf("%dpx", r.Height),
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    Title(s),
			Subtitle: subtitle(s, summary),
		}),
		charts.WithXAxisOpts(opts.XAxis{
			Type:      "category",
			SplitLine: &opts.SplitLine{Show: opts.Bool(false)},
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Scale:     opts.Bool(true),
			SplitLine: &opts.SplitLine{Show: opts.Bool(false)},
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show:      opts.Bool(true),
			Trigger:   "axis",
			Formatter: opts.FuncOpts(fmt.Sprintf(tooltipJS, tipsJSON)),
		}),
		charts.WithDataZoomOpts(opts.DataZoom{
			Type:  "inside",
			Start: 0,
			End:   100,
		}),
	)

	kline.SetXAxis(dates).
		AddSeries(s.Ticker, bodies,
			charts.WithKlineChartOpts(opts.KlineChart{
				BarWidth: bodyWidthPercent(),
			}),
			charts.WithItemStyleOpts(opts.ItemStyle{
				Color:        Fill(model.Bullish),
				Color0:       Fill(model.Bearish),
				BorderColor:  LineColor,
				BorderColor0: LineColor,
			}),
		).
		AddSeries(s.Ticker+" "+model.Equal.String(), wicks,
			charts.WithKlineChartOpts(opts.KlineChart{
				BarWidth: wickOnlyWidth,
			}),
			charts.WithItemStyleOpts(opts.ItemStyle{
				Color:        LineColor,
				Color0:       LineColor,
				BorderColor:  LineColor,
				BorderColor0: LineColor,
			}),
		)
	return kline, nil
}

// splitCandle places a candle in the body series or, for an Equal day, in the wick-only series.
// The other series gets a gap at the same axis position.
func splitCandle(c Candle) (body, wick opts.KlineData) {
	empty := opts.KlineData{Value: emptyValue}
	if c.Body == nil {
		return empty, opts.KlineData{Value: c.ohlc()}
	}
	return opts.KlineData{Value: c.ohlc()}, empty
}

// Render writes the chart page to w.
func (r *Renderer) Render(w io.Writer, s *model.Series) error {
	kline, err := r.Build(s)
	if err != nil {
		return err
	}
	if err := kline.Render(w); err != nil {
		return fmt.Errorf("render %s chart: %w", s.Ticker, err)
	}
	return nil
}

// WriteFile renders the chart into dir and returns the absolute path of the file.
func (r *Renderer) WriteFile(dir string, s *model.Series) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	path, err := filepath.Abs(filepath.Join(dir, OutputName(s.Ticker)))
	if err != nil {
		return "", fmt.Errorf("resolve output path: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create chart file: %w", err)
	}
	if err := r.Render(f, s); err != nil {
		f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close chart file: %w", err)
	}
	return path, nil
}

// bodyWidthPercent expresses BodyWidth relative to the one-day spacing of the axis.
func bodyWidthPercent() string {
	return strconv.FormatFloat(float64(BodyWidth)/float64(barSpacing)*100, 'f', -1, 64) + "%"
}

func tooltipText(date string, t Tooltip) string {
	return fmt.Sprintf("%s<br/>High: %s<br/>Low: %s<br/>Open: %s<br/>Close: %s",
		date, formatPrice(t.High), formatPrice(t.Low), formatPrice(t.Open), formatPrice(t.Close))
}

func formatPrice(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func subtitle(s *model.Series, sum calculator.Summary) string {
	return fmt.Sprintf("source: %s | high %s low %s | change %+.2f%% | %d bullish, %d bearish, %d equal",
		s.Source, formatPrice(sum.High), formatPrice(sum.Low), sum.ChangePct, sum.Bullish, sum.Bearish, sum.Equal)
}
