// sales-report loads a regional sales workbook, joins its reference
// sheets onto the order lines, derives revenue/profit/margin KPIs and
// writes summary tables and charts for every reporting dimension.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"salespulse/internal/charts"
	"salespulse/internal/config"
	"salespulse/internal/dataprocessing"
	"salespulse/internal/exporter"
	"salespulse/internal/infrastructure"
	"salespulse/pkg/contracts"
)

const defaultWorkbook = "regional_sales_dataset.xlsx"

func main() {
	inputPath := flag.String("input", "", "path to the sales workbook (defaults to data/"+defaultWorkbook+")")
	outputDir := flag.String("out", "", "output directory for reports (defaults to data/reports)")
	topN := flag.Int("top", 0, "number of entries in top-N rankings (defaults to config top_n)")
	unresolved := flag.String("unresolved", "", "policy for unresolved join keys: bucket or drop (defaults to config)")
	noCharts := flag.Bool("no-charts", false, "skip chart rendering")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(contracts.GetFullVersionString())
		return
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Flags override config.
	if *outputDir != "" {
		cfg.Paths.ReportsDir = *outputDir
		cfg.Paths.ChartsDir = filepath.Join(*outputDir, "charts")
	}
	if *topN > 0 {
		cfg.Analysis.TopN = *topN
	}
	if *unresolved != "" {
		cfg.Analysis.Unresolved = config.UnresolvedPolicy(*unresolved)
		if err := cfg.Validate(); err != nil {
			slog.Error("Invalid unresolved policy", "policy", *unresolved, "error", err)
			os.Exit(1)
		}
	}

	paths, err := config.ResolvePaths(cfg.Paths)
	if err != nil {
		slog.Error("Failed to initialize paths", "error", err)
		os.Exit(1)
	}
	if err := paths.EnsureDirectories(); err != nil {
		slog.Error("Failed to create output directories", "error", err)
		os.Exit(1)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Error("Failed to initialize logger", "error", err)
		os.Exit(1)
	}
	defer infrastructure.CloseLogFile()

	ctx := infrastructure.ContextWithRunID(context.Background())
	logger = infrastructure.LoggerWithContext(ctx)

	workbook := *inputPath
	if workbook == "" {
		workbook = filepath.Join(paths.DataDir, defaultWorkbook)
	}
	if !config.FileExists(workbook) {
		logger.ErrorContext(ctx, "Workbook not found",
			"path", workbook,
			"hint", "pass -input or place the workbook in the data directory")
		os.Exit(1)
	}

	start := time.Now()
	logger.InfoContext(ctx, "Loading sales workbook", "path", workbook)

	wb, err := dataprocessing.ParseWorkbook(ctx, workbook)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to parse workbook", "error", err)
		os.Exit(1)
	}
	logger.InfoContext(ctx, "Workbook loaded",
		"orders", len(wb.Orders),
		"customers", len(wb.Customers),
		"products", len(wb.Products),
		"regions", len(wb.Regions))

	if len(wb.Orders) == 0 {
		logger.ErrorContext(ctx, "No order lines found in workbook",
			"path", workbook,
			"hint", "check the Sales Orders sheet")
		os.Exit(1)
	}

	processor := dataprocessing.NewProcessor(logger)
	rows, stats := processor.Enrich(ctx, wb)
	logger.InfoContext(ctx, "Order lines enriched",
		"rows", len(rows),
		"region_misses", stats.RegionMisses,
		"product_misses", stats.ProductMisses,
		"customer_misses", stats.CustomerMisses)

	summarizer := dataprocessing.NewSummarizer(logger, dataprocessing.SummarizerConfig{
		TopN:            cfg.Analysis.TopN,
		Unresolved:      cfg.Analysis.Unresolved,
		UnresolvedLabel: cfg.Analysis.UnresolvedLabel,
	})
	report := summarizer.Summarize(ctx, rows, wb.Budgets)

	formatter := exporter.NewFormatter(cfg.Analysis.CurrencyCode)

	reportExporter := exporter.NewReportExporter(exporter.NewCSVWriter(paths), formatter, logger)
	if err := reportExporter.Export(ctx, report); err != nil {
		logger.ErrorContext(ctx, "Failed to write summary tables", "error", err)
		os.Exit(1)
	}

	if !*noCharts {
		renderer := charts.NewRenderer(paths, formatter, logger)
		if err := renderer.RenderAll(ctx, report); err != nil {
			logger.ErrorContext(ctx, "Failed to render charts", "error", err)
			os.Exit(1)
		}
	}

	logger.InfoContext(ctx, "Analysis complete",
		"reports", paths.ReportsDir,
		"charts", paths.ChartsDir,
		"duration", time.Since(start).Round(time.Millisecond).String())

	reportExporter.PrintSummary(report)
	fmt.Printf("\nReports written to %s\n", paths.ReportsDir)
}
