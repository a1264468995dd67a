package charts

import (
	"context"
	"log/slog"
	"math"
	"strconv"
	"time"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"salespulse/internal/config"
	"salespulse/internal/dataprocessing"
	apperrors "salespulse/internal/errors"
	"salespulse/internal/exporter"
)

// Fixed chart file names, one PNG per chart.
const (
	ChartRevenueByRegion     = "revenue_by_region.png"
	ChartRevenueByYearRegion = "revenue_by_year_region.png"
	ChartChannelProfit       = "channel_profitability.png"
	ChartMonthlySeasonality  = "monthly_seasonality.png"
	ChartTopProducts         = "top_products_profit.png"
	ChartTopStates           = "top_states_profit.png"
)

// Renderer draws the analysis summaries as PNG charts in the charts
// directory.
type Renderer struct {
	paths     *config.Paths
	formatter *exporter.Formatter
	logger    *slog.Logger
}

// NewRenderer creates a chart renderer.
func NewRenderer(paths *config.Paths, formatter *exporter.Formatter, logger *slog.Logger) *Renderer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Renderer{paths: paths, formatter: formatter, logger: logger}
}

// RenderAll draws every chart for the report.
func (r *Renderer) RenderAll(ctx context.Context, report *dataprocessing.AnalysisReport) error {
	charts := []struct {
		name   string
		render func() error
	}{
		{ChartRevenueByRegion, func() error { return r.renderRevenueByRegion(report.ByMacroRegion) }},
		{ChartRevenueByYearRegion, func() error { return r.renderRevenueByYearRegion(report.ByYearRegion) }},
		{ChartChannelProfit, func() error { return r.renderChannelProfit(report.ByChannel) }},
		{ChartMonthlySeasonality, func() error { return r.renderMonthlySeasonality(report.ByMonth) }},
		{ChartTopProducts, func() error {
			return r.renderProfitRanking(ChartTopProducts, "Top Products by Profit", report.TopProductsByProfit)
		}},
		{ChartTopStates, func() error {
			return r.renderProfitRanking(ChartTopStates, "Top States by Profit", report.TopStatesByProfit)
		}},
	}

	for _, c := range charts {
		if err := c.render(); err != nil {
			return apperrors.NewRenderError("failed to render chart", err).
				WithContext("chart", c.name)
		}
	}

	r.logger.InfoContext(ctx, "charts rendered",
		"charts", len(charts),
		"directory", r.paths.ChartsDir)

	return nil
}

func (r *Renderer) renderRevenueByRegion(groups []dataprocessing.GroupSummary) error {
	p := plot.New()
	p.Title.Text = "Revenue by Region"
	p.Y.Label.Text = "Revenue"
	p.Y.Tick.Marker = currencyTicks{formatter: r.formatter}

	values := make(plotter.Values, len(groups))
	names := make([]string, len(groups))
	for i, g := range groups {
		values[i] = g.Revenue.InexactFloat64()
		names[i] = g.Key
	}

	bars, err := plotter.NewBarChart(values, vg.Points(30))
	if err != nil {
		return err
	}
	bars.LineStyle.Width = 0
	bars.Color = plotutil.Color(0)

	p.Add(bars)
	p.NominalX(names...)

	return p.Save(8*vg.Inch, 5*vg.Inch, r.paths.GetChartPath(ChartRevenueByRegion))
}

func (r *Renderer) renderRevenueByYearRegion(rows []dataprocessing.YearRegionSummary) error {
	p := plot.New()
	p.Title.Text = "Revenue by Year and Region"
	p.Y.Label.Text = "Revenue"
	p.Y.Tick.Marker = currencyTicks{formatter: r.formatter}
	p.Legend.Top = true

	years, regions := yearRegionAxes(rows)
	byKey := make(map[[2]string]float64, len(rows))
	for _, row := range rows {
		byKey[[2]string{strconv.Itoa(row.Year), row.MacroRegion}] = row.Revenue.InexactFloat64()
	}

	width := vg.Points(12)
	for i, year := range years {
		values := make(plotter.Values, len(regions))
		for j, region := range regions {
			values[j] = byKey[[2]string{year, region}]
		}

		bars, err := plotter.NewBarChart(values, width)
		if err != nil {
			return err
		}
		bars.LineStyle.Width = 0
		bars.Color = plotutil.Color(i)
		bars.Offset = width*vg.Length(i) - width*vg.Length(len(years)-1)/2

		p.Add(bars)
		p.Legend.Add(year, bars)
	}
	p.NominalX(regions...)

	return p.Save(9*vg.Inch, 5*vg.Inch, r.paths.GetChartPath(ChartRevenueByYearRegion))
}

func (r *Renderer) renderChannelProfit(groups []dataprocessing.GroupSummary) error {
	p := plot.New()
	p.Title.Text = "Profit Margin by Channel"
	p.Y.Label.Text = "Margin %"

	values := make(plotter.Values, len(groups))
	names := make([]string, len(groups))
	for i, g := range groups {
		if g.MarginPct.Valid {
			values[i] = g.MarginPct.Decimal.InexactFloat64()
		}
		names[i] = g.Key
	}

	bars, err := plotter.NewBarChart(values, vg.Points(40))
	if err != nil {
		return err
	}
	bars.LineStyle.Width = 0
	bars.Color = plotutil.Color(1)

	p.Add(bars)
	p.NominalX(names...)

	return p.Save(7*vg.Inch, 5*vg.Inch, r.paths.GetChartPath(ChartChannelProfit))
}

func (r *Renderer) renderMonthlySeasonality(rows []dataprocessing.MonthSummary) error {
	p := plot.New()
	p.Title.Text = "Monthly Revenue Seasonality"
	p.Y.Label.Text = "Revenue"
	p.Y.Tick.Marker = currencyTicks{formatter: r.formatter}

	pts := make(plotter.XYs, len(rows))
	ticks := make([]plot.Tick, len(rows))
	for i, row := range rows {
		pts[i].X = float64(row.Month)
		pts[i].Y = row.Revenue.InexactFloat64()
		ticks[i] = plot.Tick{
			Value: float64(row.Month),
			Label: time.Month(row.Month).String()[:3],
		}
	}
	p.X.Tick.Marker = plot.ConstantTicks(ticks)

	line, points, err := plotter.NewLinePoints(pts)
	if err != nil {
		return err
	}
	line.Color = plotutil.Color(2)
	points.Shape = draw.CircleGlyph{}
	points.Color = plotutil.Color(2)

	p.Add(line, points)

	return p.Save(8*vg.Inch, 5*vg.Inch, r.paths.GetChartPath(ChartMonthlySeasonality))
}

// renderProfitRanking draws a horizontal bar chart of profit per group,
// largest at the top.
func (r *Renderer) renderProfitRanking(file, title string, groups []dataprocessing.GroupSummary) error {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Profit"
	p.X.Tick.Marker = currencyTicks{formatter: r.formatter}
	p.X.Tick.Label.Rotation = math.Pi / 6
	p.X.Tick.Label.XAlign = draw.XLeft

	// Horizontal bars grow from the bottom of the nominal axis, so the
	// slice is reversed to put the largest value at the top.
	values := make(plotter.Values, len(groups))
	names := make([]string, len(groups))
	for i, g := range groups {
		j := len(groups) - 1 - i
		values[j] = g.Profit.InexactFloat64()
		names[j] = g.Key
	}

	bars, err := plotter.NewBarChart(values, vg.Points(15))
	if err != nil {
		return err
	}
	bars.LineStyle.Width = 0
	bars.Color = plotutil.Color(3)
	bars.Horizontal = true

	p.Add(bars)
	p.NominalY(names...)

	return p.Save(8*vg.Inch, 6*vg.Inch, r.paths.GetChartPath(file))
}

// currencyTicks relabels the default ticks with grouped currency amounts.
type currencyTicks struct {
	formatter *exporter.Formatter
}

func (t currencyTicks) Ticks(min, max float64) []plot.Tick {
	ticks := plot.DefaultTicks{}.Ticks(min, max)
	for i, tick := range ticks {
		if tick.Label == "" {
			continue
		}
		ticks[i].Label = t.formatter.MoneyAxis(tick.Value)
	}
	return ticks
}

// yearRegionAxes returns the distinct years and regions in first-seen
// order. Rows arrive sorted by year then region.
func yearRegionAxes(rows []dataprocessing.YearRegionSummary) (years, regions []string) {
	seenYear := make(map[int]bool)
	seenRegion := make(map[string]bool)
	for _, row := range rows {
		if !seenYear[row.Year] {
			seenYear[row.Year] = true
			years = append(years, strconv.Itoa(row.Year))
		}
		if !seenRegion[row.MacroRegion] {
			seenRegion[row.MacroRegion] = true
			regions = append(regions, row.MacroRegion)
		}
	}
	return years, regions
}
