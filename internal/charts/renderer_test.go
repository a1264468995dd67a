package charts

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salespulse/internal/config"
	"salespulse/internal/dataprocessing"
	"salespulse/internal/exporter"
)

func testRenderer(t *testing.T) (*Renderer, string) {
	t.Helper()
	dir := t.TempDir()
	paths := &config.Paths{ChartsDir: dir}
	return NewRenderer(paths, exporter.NewFormatter("USD"), nil), dir
}

func group(key string, revenue, profit int64, margin string) dataprocessing.GroupSummary {
	g := dataprocessing.GroupSummary{
		Key:     key,
		Revenue: decimal.NewFromInt(revenue),
		Profit:  decimal.NewFromInt(profit),
	}
	if margin != "" {
		g.MarginPct = decimal.NullDecimal{
			Decimal: decimal.RequireFromString(margin),
			Valid:   true,
		}
	}
	return g
}

func requirePNG(t *testing.T, path string) {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Greater(t, len(data), 8)
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, data[:4])
}

func TestRenderer_RenderAll(t *testing.T) {
	r, dir := testRenderer(t)

	report := &dataprocessing.AnalysisReport{
		ByMacroRegion: []dataprocessing.GroupSummary{
			group("West", 600, 60, "10"),
			group("South", 400, 20, "5"),
		},
		ByYearRegion: []dataprocessing.YearRegionSummary{
			{Year: 2017, MacroRegion: "South", Revenue: decimal.NewFromInt(150)},
			{Year: 2017, MacroRegion: "West", Revenue: decimal.NewFromInt(250)},
			{Year: 2018, MacroRegion: "South", Revenue: decimal.NewFromInt(250)},
			{Year: 2018, MacroRegion: "West", Revenue: decimal.NewFromInt(350)},
		},
		ByChannel: []dataprocessing.GroupSummary{
			group("Wholesale", 700, 70, "10"),
			group("Export", 300, 10, ""),
		},
		ByMonth: []dataprocessing.MonthSummary{
			{Month: 1, Revenue: decimal.NewFromInt(100)},
			{Month: 2, Revenue: decimal.NewFromInt(300)},
			{Month: 12, Revenue: decimal.NewFromInt(200)},
		},
		TopProductsByProfit: []dataprocessing.GroupSummary{
			group("Product 7", 640, 60, "9.38"),
			group("Product 3", 500, 40, "8"),
		},
		TopStatesByProfit: []dataprocessing.GroupSummary{
			group("Washington", 640, 60, "9.38"),
		},
	}

	require.NoError(t, r.RenderAll(context.Background(), report))

	for _, name := range []string{
		ChartRevenueByRegion,
		ChartRevenueByYearRegion,
		ChartChannelProfit,
		ChartMonthlySeasonality,
		ChartTopProducts,
		ChartTopStates,
	} {
		requirePNG(t, filepath.Join(dir, name))
	}
}

func TestRenderer_EmptyReport(t *testing.T) {
	r, dir := testRenderer(t)

	require.NoError(t, r.RenderAll(context.Background(), &dataprocessing.AnalysisReport{}))
	requirePNG(t, filepath.Join(dir, ChartRevenueByRegion))
}

func TestCurrencyTicks(t *testing.T) {
	ticks := currencyTicks{formatter: exporter.NewFormatter("USD")}.Ticks(0, 2000000)

	var labeled int
	for _, tick := range ticks {
		if tick.Label == "" {
			continue
		}
		labeled++
		assert.Equal(t, "$", tick.Label[:1])
	}
	assert.Greater(t, labeled, 0)
}

func TestYearRegionAxes(t *testing.T) {
	rows := []dataprocessing.YearRegionSummary{
		{Year: 2017, MacroRegion: "South"},
		{Year: 2017, MacroRegion: "West"},
		{Year: 2018, MacroRegion: "South"},
	}

	years, regions := yearRegionAxes(rows)
	assert.Equal(t, []string{"2017", "2018"}, years)
	assert.Equal(t, []string{"South", "West"}, regions)
}
