package exporter

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"salespulse/internal/dataprocessing"
	apperrors "salespulse/internal/errors"
)

// Fixed report file names, one CSV per summary table.
const (
	FileRegionalPerformance = "regional_performance.csv"
	FileYearRegionRevenue   = "year_region_revenue.csv"
	FileChannelProfit       = "channel_profitability.csv"
	FileMonthlySeasonality  = "monthly_seasonality.csv"
	FileProductPerformance  = "product_performance.csv"
	FileTopProducts         = "top_products_profit.csv"
	FileProductAverages     = "product_averages.csv"
	FileYearlyPerformance   = "yearly_performance.csv"
	FileStatePerformance    = "state_performance.csv"
	FileTopStates           = "top_states_profit.csv"
	FileBudgetAttainment    = "budget_attainment.csv"
)

// ReportExporter writes every summary of an analysis run as a CSV table
// and prints the headline tables to the console. It holds no business
// logic; summaries are rendered as-is.
type ReportExporter struct {
	writer    *CSVWriter
	formatter *Formatter
	logger    *slog.Logger
}

// NewReportExporter creates a report exporter.
func NewReportExporter(writer *CSVWriter, formatter *Formatter, logger *slog.Logger) *ReportExporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReportExporter{writer: writer, formatter: formatter, logger: logger}
}

// Export writes all summary tables to the reports directory.
func (e *ReportExporter) Export(ctx context.Context, report *dataprocessing.AnalysisReport) error {
	files := []struct {
		name  string
		write func() error
	}{
		{FileRegionalPerformance, func() error { return e.writeGroups(FileRegionalPerformance, "Region", report.ByMacroRegion) }},
		{FileYearRegionRevenue, func() error { return e.writeYearRegion(report.ByYearRegion) }},
		{FileChannelProfit, func() error { return e.writeGroups(FileChannelProfit, "Channel", report.ByChannel) }},
		{FileMonthlySeasonality, func() error { return e.writeMonths(report.ByMonth) }},
		{FileProductPerformance, func() error { return e.writeGroups(FileProductPerformance, "Product", report.ByProduct) }},
		{FileTopProducts, func() error { return e.writeGroups(FileTopProducts, "Product", report.TopProductsByProfit) }},
		{FileProductAverages, func() error { return e.writeProductAverages(report.ByProductAverage) }},
		{FileYearlyPerformance, func() error { return e.writeGroups(FileYearlyPerformance, "Year", report.ByYear) }},
		{FileStatePerformance, func() error { return e.writeGroups(FileStatePerformance, "State", report.ByState) }},
		{FileTopStates, func() error { return e.writeGroups(FileTopStates, "State", report.TopStatesByProfit) }},
		{FileBudgetAttainment, func() error { return e.writeBudgets(report.BudgetAttainment) }},
	}

	for _, f := range files {
		if err := f.write(); err != nil {
			return apperrors.NewStorageError("failed to write summary table", err).
				WithContext("file", f.name)
		}
	}

	e.logger.InfoContext(ctx, "summary tables written",
		"tables", len(files))

	return nil
}

func (e *ReportExporter) writeGroups(file, keyHeader string, groups []dataprocessing.GroupSummary) error {
	records := make([][]string, 0, len(groups))
	for _, g := range groups {
		records = append(records, []string{
			g.Key,
			formatDecimal(g.Revenue),
			formatDecimal(g.Profit),
			formatNullPercent(g.MarginPct),
		})
	}
	return e.writer.WriteSimpleCSV(file,
		[]string{keyHeader, "Revenue", "Profit", "MarginPct"}, records)
}

func (e *ReportExporter) writeYearRegion(rows []dataprocessing.YearRegionSummary) error {
	records := make([][]string, 0, len(rows))
	for _, r := range rows {
		records = append(records, []string{
			strconv.Itoa(r.Year),
			r.MacroRegion,
			formatDecimal(r.Revenue),
		})
	}
	return e.writer.WriteSimpleCSV(FileYearRegionRevenue,
		[]string{"Year", "Region", "Revenue"}, records)
}

func (e *ReportExporter) writeMonths(rows []dataprocessing.MonthSummary) error {
	records := make([][]string, 0, len(rows))
	for _, r := range rows {
		records = append(records, []string{
			strconv.Itoa(r.Month),
			formatDecimal(r.Revenue),
		})
	}
	return e.writer.WriteSimpleCSV(FileMonthlySeasonality,
		[]string{"Month", "Revenue"}, records)
}

func (e *ReportExporter) writeProductAverages(rows []dataprocessing.ProductAverage) error {
	records := make([][]string, 0, len(rows))
	for _, r := range rows {
		records = append(records, []string{
			r.ProductName,
			formatDecimal(r.MeanProfit),
			strconv.Itoa(r.OrderLines),
		})
	}
	return e.writer.WriteSimpleCSV(FileProductAverages,
		[]string{"Product", "MeanProfit", "OrderLines"}, records)
}

func (e *ReportExporter) writeBudgets(rows []dataprocessing.BudgetAttainment) error {
	records := make([][]string, 0, len(rows))
	for _, r := range rows {
		records = append(records, []string{
			r.ProductName,
			formatDecimal(r.Revenue),
			formatDecimal(r.Budget),
			formatNullPercent(r.AttainmentPct),
		})
	}
	return e.writer.WriteSimpleCSV(FileBudgetAttainment,
		[]string{"Product", "Revenue", "Budget", "AttainmentPct"}, records)
}

// PrintSummary prints the headline tables to stdout in aligned columns
// with currency formatting.
func (e *ReportExporter) PrintSummary(report *dataprocessing.AnalysisReport) {
	fmt.Println("\n=== REGIONAL PERFORMANCE ===")
	fmt.Printf("%-12s | %18s | %16s | %8s\n", "Region", "Revenue", "Profit", "Margin")
	fmt.Println("-------------|--------------------|------------------|---------")
	for _, g := range report.ByMacroRegion {
		fmt.Printf("%-12s | %18s | %16s | %8s\n",
			g.Key,
			e.formatter.Money(g.Revenue),
			e.formatter.Money(g.Profit),
			e.formatter.Percent(g.MarginPct))
	}

	fmt.Println("\n=== CHANNEL PROFITABILITY ===")
	fmt.Printf("%-12s | %18s | %16s | %8s\n", "Channel", "Revenue", "Profit", "Margin")
	fmt.Println("-------------|--------------------|------------------|---------")
	for _, g := range report.ByChannel {
		fmt.Printf("%-12s | %18s | %16s | %8s\n",
			g.Key,
			e.formatter.Money(g.Revenue),
			e.formatter.Money(g.Profit),
			e.formatter.Percent(g.MarginPct))
	}

	fmt.Println("\n=== TOP PRODUCTS BY PROFIT ===")
	fmt.Printf("%-32s | %16s | %8s\n", "Product", "Profit", "Margin")
	fmt.Println("---------------------------------|------------------|---------")
	for _, g := range report.TopProductsByProfit {
		fmt.Printf("%-32s | %16s | %8s\n",
			g.Key,
			e.formatter.Money(g.Profit),
			e.formatter.Percent(g.MarginPct))
	}

	fmt.Println("\n=== TOP STATES BY PROFIT ===")
	fmt.Printf("%-20s | %18s | %16s\n", "State", "Revenue", "Profit")
	fmt.Println("---------------------|--------------------|------------------")
	for _, g := range report.TopStatesByProfit {
		fmt.Printf("%-20s | %18s | %16s\n",
			g.Key,
			e.formatter.Money(g.Revenue),
			e.formatter.Money(g.Profit))
	}
}
