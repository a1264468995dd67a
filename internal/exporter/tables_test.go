package exporter

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salespulse/internal/config"
	"salespulse/internal/dataprocessing"
)

func testReport() *dataprocessing.AnalysisReport {
	pct := func(s string) decimal.NullDecimal {
		return decimal.NullDecimal{Decimal: decimal.RequireFromString(s), Valid: true}
	}

	return &dataprocessing.AnalysisReport{
		ByMacroRegion: []dataprocessing.GroupSummary{
			{Key: "West", Revenue: decimal.NewFromInt(600), Profit: decimal.NewFromInt(60), MarginPct: pct("10")},
			{Key: "Unknown", Revenue: decimal.NewFromInt(40), Profit: decimal.Zero},
		},
		ByYearRegion: []dataprocessing.YearRegionSummary{
			{Year: 2017, MacroRegion: "West", Revenue: decimal.NewFromInt(600)},
		},
		ByChannel: []dataprocessing.GroupSummary{
			{Key: "Wholesale", Revenue: decimal.NewFromInt(640), Profit: decimal.NewFromInt(60), MarginPct: pct("9.38")},
		},
		ByMonth: []dataprocessing.MonthSummary{
			{Month: 5, Revenue: decimal.NewFromInt(640)},
		},
		ByProduct: []dataprocessing.GroupSummary{
			{Key: "Product 7", Revenue: decimal.NewFromInt(640), Profit: decimal.NewFromInt(60), MarginPct: pct("9.38")},
		},
		TopProductsByProfit: []dataprocessing.GroupSummary{
			{Key: "Product 7", Revenue: decimal.NewFromInt(640), Profit: decimal.NewFromInt(60), MarginPct: pct("9.38")},
		},
		ByProductAverage: []dataprocessing.ProductAverage{
			{ProductName: "Product 7", MeanProfit: decimal.NewFromInt(30), OrderLines: 2},
		},
		ByYear: []dataprocessing.GroupSummary{
			{Key: "2017", Revenue: decimal.NewFromInt(640), Profit: decimal.NewFromInt(60), MarginPct: pct("9.38")},
		},
		ByState: []dataprocessing.GroupSummary{
			{Key: "Washington", Revenue: decimal.NewFromInt(640), Profit: decimal.NewFromInt(60), MarginPct: pct("9.38")},
		},
		TopStatesByProfit: []dataprocessing.GroupSummary{
			{Key: "Washington", Revenue: decimal.NewFromInt(640), Profit: decimal.NewFromInt(60), MarginPct: pct("9.38")},
		},
		BudgetAttainment: []dataprocessing.BudgetAttainment{
			{ProductName: "Product 7", Revenue: decimal.NewFromInt(640), Budget: decimal.NewFromInt(1000), AttainmentPct: pct("64")},
		},
	}
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	// Strip the UTF-8 BOM the writer adds for Excel.
	content := strings.TrimPrefix(string(data), "\xef\xbb\xbf")

	records, err := csv.NewReader(strings.NewReader(content)).ReadAll()
	require.NoError(t, err)
	return records
}

func TestReportExporter_Export(t *testing.T) {
	dir := t.TempDir()
	paths := &config.Paths{ReportsDir: dir}

	e := NewReportExporter(NewCSVWriter(paths), NewFormatter("USD"), nil)

	require.NoError(t, e.Export(context.Background(), testReport()))

	wantFiles := []string{
		FileRegionalPerformance,
		FileYearRegionRevenue,
		FileChannelProfit,
		FileMonthlySeasonality,
		FileProductPerformance,
		FileTopProducts,
		FileProductAverages,
		FileYearlyPerformance,
		FileStatePerformance,
		FileTopStates,
		FileBudgetAttainment,
	}
	for _, name := range wantFiles {
		assert.FileExists(t, filepath.Join(dir, name))
	}

	records := readCSV(t, filepath.Join(dir, FileRegionalPerformance))
	require.Len(t, records, 3)
	assert.Equal(t, []string{"Region", "Revenue", "Profit", "MarginPct"}, records[0])
	assert.Equal(t, []string{"West", "600.00", "60.00", "10.00"}, records[1])
	// Undefined margin becomes an empty cell, not a zero.
	assert.Equal(t, []string{"Unknown", "40.00", "0.00", ""}, records[2])

	budget := readCSV(t, filepath.Join(dir, FileBudgetAttainment))
	require.Len(t, budget, 2)
	assert.Equal(t, []string{"Product 7", "640.00", "1000.00", "64.00"}, budget[1])
}

func TestCSVWriter_WriteSimpleCSV(t *testing.T) {
	dir := t.TempDir()
	w := NewCSVWriter(&config.Paths{ReportsDir: dir})

	err := w.WriteSimpleCSV("out.csv",
		[]string{"A", "B"},
		[][]string{{"1", "2"}, {"3", "4"}})
	require.NoError(t, err)

	records := readCSV(t, filepath.Join(dir, "out.csv"))
	require.Len(t, records, 3)
	assert.Equal(t, []string{"A", "B"}, records[0])
	assert.Equal(t, []string{"3", "4"}, records[2])
}

func TestCSVWriter_AppendToCSV(t *testing.T) {
	dir := t.TempDir()
	w := NewCSVWriter(&config.Paths{ReportsDir: dir})

	require.NoError(t, w.WriteSimpleCSV("out.csv", []string{"A"}, [][]string{{"1"}}))
	require.NoError(t, w.AppendToCSV("out.csv", [][]string{{"2"}}))

	records := readCSV(t, filepath.Join(dir, "out.csv"))
	require.Len(t, records, 3)
	assert.Equal(t, []string{"2"}, records[2])
}

func TestCSVWriter_AbsolutePathBypassesReportsDir(t *testing.T) {
	dir := t.TempDir()
	w := NewCSVWriter(&config.Paths{ReportsDir: filepath.Join(dir, "unused")})

	target := filepath.Join(dir, "elsewhere", "out.csv")
	require.NoError(t, w.WriteSimpleCSV(target, []string{"A"}, nil))
	assert.FileExists(t, target)
}
