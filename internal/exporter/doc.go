// Package exporter renders the analysis summaries as persisted tables.
//
// This package contains three main components:
//
// CSVWriter: core CSV writing functionality with support for headers and
// UTF-8 BOM for Excel compatibility.
//
// Formatter: locale-aware currency, percentage and count formatting shared
// by the console tables and the chart axis labels.
//
// ReportExporter: writes one CSV file per summary table into the reports
// directory and prints the headline tables to the console.
//
// Example usage:
//
//	writer := exporter.NewCSVWriter(paths)
//	formatter := exporter.NewFormatter("USD")
//	reports := exporter.NewReportExporter(writer, formatter, logger)
//
//	err := reports.Export(ctx, analysis)
package exporter
