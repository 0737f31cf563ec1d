// Package charts renders the dashboard's chart data to PNG images.
package charts

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/wcharczuk/go-chart/v2"

	"github.com/anish-3041/Personal-Finance-Dashboard/internal/core"
)

// ErrNoData is returned when a chart has nothing to draw. go-chart
// panics on empty series, so renderers bail out first.
var ErrNoData = errors.New("no data to render")

type Renderer struct{}

func NewRenderer() *Renderer {
	return &Renderer{}
}

func moneyFormatter(v interface{}) string {
	if f, ok := v.(float64); ok {
		return fmt.Sprintf("%.2f", f)
	}
	return ""
}

// RenderDoughnut draws the expense breakdown as a pie chart.
func (r *Renderer) RenderDoughnut(data core.ChartData) ([]byte, error) {
	if len(data.Series) == 0 || len(data.Series[0].Values) == 0 {
		return nil, ErrNoData
	}

	total := 0.0
	for _, v := range data.Series[0].Values {
		total += v
	}
	if total <= 0 {
		return nil, ErrNoData
	}

	values := make([]chart.Value, len(data.Labels))
	for i, label := range data.Labels {
		amount := data.Series[0].Values[i]
		values[i] = chart.Value{
			Label: fmt.Sprintf("%s: %.2f (%.1f%%)", label, amount, amount/total*100),
			Value: amount,
		}
	}

	pie := chart.PieChart{
		Width:  800,
		Height: 600,
		Values: values,
		Background: chart.Style{
			Padding:   chart.Box{Top: 30, Left: 30, Right: 30, Bottom: 30},
			FillColor: chart.ColorWhite,
		},
	}

	var buffer bytes.Buffer
	if err := pie.Render(chart.PNG, &buffer); err != nil {
		return nil, fmt.Errorf("render doughnut chart: %w", err)
	}
	return buffer.Bytes(), nil
}

// RenderBar draws the income-vs-expense comparison. Income bars are
// green, expense bars red, interleaved per bucket.
func (r *Renderer) RenderBar(data core.ChartData) ([]byte, error) {
	if len(data.Labels) == 0 || len(data.Series) < 2 {
		return nil, ErrNoData
	}

	var bars []chart.Value
	empty := true
	for i, label := range data.Labels {
		income := data.Series[0].Values[i]
		expense := data.Series[1].Values[i]
		if income != 0 || expense != 0 {
			empty = false
		}
		bars = append(bars,
			chart.Value{
				Label: label,
				Value: income,
				Style: chart.Style{
					StrokeColor: chart.ColorGreen,
					FillColor:   chart.ColorGreen.WithAlpha(180),
				},
			},
			chart.Value{
				Label: label,
				Value: expense,
				Style: chart.Style{
					StrokeColor: chart.ColorRed,
					FillColor:   chart.ColorRed.WithAlpha(180),
				},
			})
	}
	if empty {
		return nil, ErrNoData
	}

	graph := chart.BarChart{
		Width:    1200,
		Height:   600,
		BarWidth: 20,
		Background: chart.Style{
			Padding:   chart.Box{Top: 40, Left: 40, Right: 40, Bottom: 40},
			FillColor: chart.ColorWhite,
		},
		YAxis: chart.YAxis{
			ValueFormatter: moneyFormatter,
		},
		Bars: bars,
	}

	var buffer bytes.Buffer
	if err := graph.Render(chart.PNG, &buffer); err != nil {
		return nil, fmt.Errorf("render bar chart: %w", err)
	}
	return buffer.Bytes(), nil
}

// RenderTrend draws the chronological income, expense and balance
// lines. go-chart needs at least two points per line.
func (r *Renderer) RenderTrend(data core.ChartData) ([]byte, error) {
	if len(data.Labels) < 2 || len(data.Series) < 3 {
		return nil, ErrNoData
	}

	xValues := make([]float64, len(data.Labels))
	ticks := make([]chart.Tick, len(data.Labels))
	for i, label := range data.Labels {
		xValues[i] = float64(i)
		ticks[i] = chart.Tick{Value: float64(i), Label: label}
	}

	line := func(s core.Series, color chart.Style) chart.Series {
		return chart.ContinuousSeries{
			Name:    s.Name,
			XValues: xValues,
			YValues: s.Values,
			Style:   color,
		}
	}

	graph := chart.Chart{
		Width:  1200,
		Height: 600,
		Background: chart.Style{
			Padding:   chart.Box{Top: 40, Left: 40, Right: 40, Bottom: 40},
			FillColor: chart.ColorWhite,
		},
		XAxis: chart.XAxis{
			Ticks: ticks,
		},
		YAxis: chart.YAxis{
			ValueFormatter: moneyFormatter,
		},
		Series: []chart.Series{
			line(data.Series[0], chart.Style{StrokeColor: chart.ColorGreen, StrokeWidth: 2}),
			line(data.Series[1], chart.Style{StrokeColor: chart.ColorRed, StrokeWidth: 2}),
			line(data.Series[2], chart.Style{StrokeColor: chart.ColorBlue, StrokeWidth: 3}),
		},
	}
	graph.Elements = []chart.Renderable{
		chart.Legend(&graph),
	}

	var buffer bytes.Buffer
	if err := graph.Render(chart.PNG, &buffer); err != nil {
		return nil, fmt.Errorf("render trend chart: %w", err)
	}
	return buffer.Bytes(), nil
}
