package analysis

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/stockpilot/stockpilot/internal/models"
)

// RenderChart renders the symbol's recent closes and 20-day average as a
// PNG line chart. The bar window comes from the (possibly cached) analysis
// record, so a chart request inside the freshness window costs no feed call.
func (s *Service) RenderChart(ctx context.Context, symbol string) ([]byte, error) {
	record, err := s.Analyze(ctx, symbol)
	if err != nil {
		return nil, err
	}
	return renderPriceChart(record.Symbol, record.ChartData)
}

func renderPriceChart(symbol string, bars []models.PriceBar) ([]byte, error) {
	if len(bars) < 2 {
		return nil, fmt.Errorf("need at least 2 bars to chart %s, got %d", symbol, len(bars))
	}

	xValues := make([]time.Time, len(bars))
	closeY := make([]float64, len(bars))
	smaY := make([]float64, len(bars))

	window := 0.0
	for i, bar := range bars {
		xValues[i] = bar.Date
		closeY[i] = bar.Close

		window += bar.Close
		n := 20
		if i+1 < n {
			n = i + 1
		} else if i >= 20 {
			window -= bars[i-20].Close
		}
		smaY[i] = window / float64(n)
	}

	closeSeries := chart.TimeSeries{
		Name: "Close",
		Style: chart.Style{
			StrokeColor: drawing.ColorFromHex("2563eb"), // blue-600
			StrokeWidth: 2.5,
		},
		XValues: xValues,
		YValues: closeY,
	}

	smaSeries := chart.TimeSeries{
		Name: "20 DMA",
		Style: chart.Style{
			StrokeColor:     drawing.ColorFromHex("9ca3af"), // gray-400
			StrokeWidth:     1.5,
			StrokeDashArray: []float64{5.0, 3.0},
		},
		XValues: xValues,
		YValues: smaY,
	}

	graph := chart.Chart{
		Title:  symbol,
		Width:  900,
		Height: 400,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 10, Right: 20, Bottom: 10},
		},
		XAxis: chart.XAxis{
			TickPosition: chart.TickPositionBetweenTicks,
			ValueFormatter: func(v interface{}) string {
				if t, ok := v.(float64); ok {
					return chart.TimeFromFloat64(t).Format("02 Jan")
				}
				return ""
			},
		},
		YAxis: chart.YAxis{
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf("%.0f", f)
				}
				return ""
			},
		},
		Series: []chart.Series{
			closeSeries,
			smaSeries,
		},
	}

	graph.Elements = []chart.Renderable{
		chart.LegendLeft(&graph),
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("chart render failed: %w", err)
	}

	return buf.Bytes(), nil
}
