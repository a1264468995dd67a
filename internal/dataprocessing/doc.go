// Package dataprocessing implements the regional sales analysis pipeline,
// from workbook ingestion to the summary tables the reporters consume.
//
// # Architecture
//
// The package is organized into three main components:
//
// 1. Parser: reads the six named sheets of the sales workbook
// 2. Processor: left-joins reference data and derives calendar/KPI fields
// 3. Summarizer: computes the grouped summaries (region, channel, season, ...)
//
// # Usage
//
//	wb, err := dataprocessing.ParseWorkbook(ctx, "Regional Sales Dataset.xlsx")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	processor := dataprocessing.NewProcessor(logger)
//	enriched, stats := processor.Enrich(ctx, wb)
//
//	summarizer := dataprocessing.NewSummarizer(logger, dataprocessing.SummarizerConfig{})
//	report := summarizer.Summarize(ctx, enriched, wb.Budgets)
//
// # Data Flow
//
//	Workbook → Parser → OrderLines + reference tables → Processor →
//	EnrichedOrderLines → Summarizer → AnalysisReport → exporter/charts
//
// # Error Handling
//
// A missing workbook or missing sheet is fatal and surfaces as an AppError
// of type LOAD. An order line whose foreign key does not resolve is not an
// error: the row is preserved with empty joined fields (left-outer join
// semantics) and counted in the join statistics.
package dataprocessing
