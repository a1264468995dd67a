package dataprocessing

import (
	"context"
	"log/slog"
	"sort"
	"strconv"

	"github.com/shopspring/decimal"

	"salespulse/internal/config"
	"salespulse/pkg/contracts/domain"
)

var hundred = decimal.NewFromInt(100)

// Summarizer computes the grouped summaries over enriched order lines.
// Each summary is an independent single pass: group by one or two keys,
// sum revenue and profit, derive margin where revenue is positive.
type Summarizer struct {
	logger          *slog.Logger
	topN            int
	unresolved      config.UnresolvedPolicy
	unresolvedLabel string
}

// SummarizerConfig holds configuration options for the Summarizer.
type SummarizerConfig struct {
	TopN            int                     // size of the "top N by profit" lists
	Unresolved      config.UnresolvedPolicy // bucket or drop unresolved keys
	UnresolvedLabel string                  // bucket label for unresolved keys
}

// DefaultSummarizerConfig returns the configuration used by the CLI when
// nothing is overridden: top 10 lists and a labelled "Unknown" bucket.
func DefaultSummarizerConfig() SummarizerConfig {
	return SummarizerConfig{
		TopN:            10,
		Unresolved:      config.UnresolvedBucket,
		UnresolvedLabel: "Unknown",
	}
}

// NewSummarizer creates a new summarizer with the given configuration.
func NewSummarizer(logger *slog.Logger, cfg SummarizerConfig) *Summarizer {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.TopN <= 0 {
		cfg.TopN = 10
	}
	if cfg.Unresolved == "" {
		cfg.Unresolved = config.UnresolvedBucket
	}
	if cfg.UnresolvedLabel == "" {
		cfg.UnresolvedLabel = "Unknown"
	}

	return &Summarizer{
		logger:          logger,
		topN:            cfg.TopN,
		unresolved:      cfg.Unresolved,
		unresolvedLabel: cfg.UnresolvedLabel,
	}
}

// GroupSummary is one row of a single-key summary table.
type GroupSummary struct {
	Key       string
	Revenue   decimal.Decimal
	Profit    decimal.Decimal
	MarginPct decimal.NullDecimal
}

// YearRegionSummary is one row of the per (year, macro-region) summary.
type YearRegionSummary struct {
	Year        int
	MacroRegion string
	Revenue     decimal.Decimal
}

// MonthSummary is one row of the calendar-month seasonality summary.
type MonthSummary struct {
	Month   int
	Revenue decimal.Decimal
}

// ProductAverage is one row of the per-product average-profit summary.
type ProductAverage struct {
	ProductName string
	MeanProfit  decimal.Decimal
	OrderLines  int
}

// BudgetAttainment compares a product's realized revenue against its
// budgeted amount. Only products present in the budget sheet appear.
type BudgetAttainment struct {
	ProductName   string
	Revenue       decimal.Decimal
	Budget        decimal.Decimal
	AttainmentPct decimal.NullDecimal
}

// AnalysisReport bundles every summary produced by one pipeline run.
type AnalysisReport struct {
	ByMacroRegion       []GroupSummary
	ByYearRegion        []YearRegionSummary
	ByChannel           []GroupSummary
	ByMonth             []MonthSummary
	ByProduct           []GroupSummary
	TopProductsByProfit []GroupSummary
	ByProductAverage    []ProductAverage
	ByYear              []GroupSummary
	ByState             []GroupSummary
	TopStatesByProfit   []GroupSummary
	BudgetAttainment    []BudgetAttainment
}

// Summarize computes all summaries over the enriched rows.
func (s *Summarizer) Summarize(ctx context.Context, rows []domain.EnrichedOrderLine, budgets []domain.Budget) *AnalysisReport {
	report := &AnalysisReport{
		ByMacroRegion:    s.ByMacroRegion(rows),
		ByYearRegion:     s.ByYearRegion(rows),
		ByChannel:        s.ByChannel(rows),
		ByMonth:          s.ByMonth(rows),
		ByProduct:        s.ByProduct(rows),
		ByProductAverage: s.ByProductAverage(rows),
		ByYear:           s.ByYear(rows),
		ByState:          s.ByState(rows),
		BudgetAttainment: s.BudgetAttainmentReport(rows, budgets),
	}
	report.TopProductsByProfit = s.topByProfit(report.ByProduct)
	report.TopStatesByProfit = s.topByProfit(report.ByState)

	s.logger.InfoContext(ctx, "analysis complete",
		"order_lines", len(rows),
		"regions", len(report.ByMacroRegion),
		"channels", len(report.ByChannel),
		"products", len(report.ByProduct),
		"states", len(report.ByState))

	return report
}

// ByMacroRegion sums revenue and profit per US macro-region.
func (s *Summarizer) ByMacroRegion(rows []domain.EnrichedOrderLine) []GroupSummary {
	acc := newAccumulator()
	for _, row := range rows {
		key, ok := s.groupKey(row.MacroRegion, row.MappingMatched)
		if !ok {
			continue
		}
		acc.add(key, row.Revenue, row.Profit)
	}
	return acc.summaries(true)
}

// ByYearRegion sums revenue per (calendar year, macro-region) pair.
func (s *Summarizer) ByYearRegion(rows []domain.EnrichedOrderLine) []YearRegionSummary {
	type yearRegion struct {
		year   int
		region string
	}

	totals := make(map[yearRegion]decimal.Decimal)
	var keys []yearRegion
	for _, row := range rows {
		region, ok := s.groupKey(row.MacroRegion, row.MappingMatched)
		if !ok {
			continue
		}
		k := yearRegion{year: row.Year, region: region}
		if _, seen := totals[k]; !seen {
			keys = append(keys, k)
		}
		totals[k] = totals[k].Add(row.Revenue)
	}

	sort.Slice(keys, func(i, j int) bool {
		if keys[i].year != keys[j].year {
			return keys[i].year < keys[j].year
		}
		return keys[i].region < keys[j].region
	})

	out := make([]YearRegionSummary, 0, len(keys))
	for _, k := range keys {
		out = append(out, YearRegionSummary{
			Year:        k.year,
			MacroRegion: k.region,
			Revenue:     totals[k],
		})
	}
	return out
}

// ByChannel sums revenue and profit per sales channel.
func (s *Summarizer) ByChannel(rows []domain.EnrichedOrderLine) []GroupSummary {
	acc := newAccumulator()
	for _, row := range rows {
		key, ok := s.groupKey(string(row.Channel), row.Channel != "")
		if !ok {
			continue
		}
		acc.add(key, row.Revenue, row.Profit)
	}
	return acc.summaries(true)
}

// ByMonth sums revenue per calendar month number (1-12), across years.
func (s *Summarizer) ByMonth(rows []domain.EnrichedOrderLine) []MonthSummary {
	totals := make(map[int]decimal.Decimal)
	for _, row := range rows {
		totals[row.Month] = totals[row.Month].Add(row.Revenue)
	}

	months := make([]int, 0, len(totals))
	for m := range totals {
		months = append(months, m)
	}
	sort.Ints(months)

	out := make([]MonthSummary, 0, len(months))
	for _, m := range months {
		out = append(out, MonthSummary{Month: m, Revenue: totals[m]})
	}
	return out
}

// ByProduct sums revenue and profit per product name.
func (s *Summarizer) ByProduct(rows []domain.EnrichedOrderLine) []GroupSummary {
	acc := newAccumulator()
	for _, row := range rows {
		key, ok := s.groupKey(row.ProductName, row.ProductMatched)
		if !ok {
			continue
		}
		acc.add(key, row.Revenue, row.Profit)
	}
	return acc.summaries(true)
}

// ByProductAverage computes the mean line profit and line count per product.
func (s *Summarizer) ByProductAverage(rows []domain.EnrichedOrderLine) []ProductAverage {
	acc := newAccumulator()
	for _, row := range rows {
		key, ok := s.groupKey(row.ProductName, row.ProductMatched)
		if !ok {
			continue
		}
		acc.add(key, row.Revenue, row.Profit)
	}

	keys := append([]string(nil), acc.keys...)
	sort.Strings(keys)

	out := make([]ProductAverage, 0, len(keys))
	for _, key := range keys {
		totals := acc.byKey[key]
		out = append(out, ProductAverage{
			ProductName: key,
			MeanProfit:  totals.profit.DivRound(decimal.NewFromInt(int64(totals.count)), 2),
			OrderLines:  totals.count,
		})
	}
	return out
}

// ByYear sums revenue and profit per calendar year.
func (s *Summarizer) ByYear(rows []domain.EnrichedOrderLine) []GroupSummary {
	acc := newAccumulator()
	for _, row := range rows {
		acc.add(strconv.Itoa(row.Year), row.Revenue, row.Profit)
	}

	out := acc.summaries(false)
	sort.SliceStable(out, func(i, j int) bool {
		yi, _ := strconv.Atoi(out[i].Key)
		yj, _ := strconv.Atoi(out[j].Key)
		return yi < yj
	})
	return out
}

// ByState sums revenue and profit per state name.
func (s *Summarizer) ByState(rows []domain.EnrichedOrderLine) []GroupSummary {
	acc := newAccumulator()
	for _, row := range rows {
		key, ok := s.groupKey(row.StateName, row.RegionMatched)
		if !ok {
			continue
		}
		acc.add(key, row.Revenue, row.Profit)
	}
	return acc.summaries(true)
}

// TopProductsByProfit returns the top N products by total profit.
func (s *Summarizer) TopProductsByProfit(rows []domain.EnrichedOrderLine) []GroupSummary {
	return s.topByProfit(s.ByProduct(rows))
}

// TopStatesByProfit returns the top N states by total profit.
func (s *Summarizer) TopStatesByProfit(rows []domain.EnrichedOrderLine) []GroupSummary {
	return s.topByProfit(s.ByState(rows))
}

// BudgetAttainmentReport compares realized product revenue against the
// budget sheet. Products without a budget row are omitted; attainment is
// undefined when the budgeted amount is not positive.
func (s *Summarizer) BudgetAttainmentReport(rows []domain.EnrichedOrderLine, budgets []domain.Budget) []BudgetAttainment {
	if len(budgets) == 0 {
		return nil
	}

	revenue := make(map[string]decimal.Decimal)
	for _, row := range rows {
		if !row.ProductMatched {
			continue
		}
		revenue[row.ProductName] = revenue[row.ProductName].Add(row.Revenue)
	}

	out := make([]BudgetAttainment, 0, len(budgets))
	for _, b := range budgets {
		entry := BudgetAttainment{
			ProductName: b.ProductName,
			Revenue:     revenue[b.ProductName],
			Budget:      b.Amount,
		}
		if b.Amount.IsPositive() {
			entry.AttainmentPct = decimal.NullDecimal{
				Decimal: entry.Revenue.Div(b.Amount).Mul(hundred).Round(2),
				Valid:   true,
			}
		}
		out = append(out, entry)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ProductName < out[j].ProductName
	})
	return out
}

// topByProfit returns the first N groups after a stable descending sort by
// profit. The stable sort keeps first-seen group order for equal profits,
// which makes the truncation deterministic.
func (s *Summarizer) topByProfit(groups []GroupSummary) []GroupSummary {
	top := append([]GroupSummary(nil), groups...)
	sort.SliceStable(top, func(i, j int) bool {
		return top[i].Profit.GreaterThan(top[j].Profit)
	})
	if len(top) > s.topN {
		top = top[:s.topN]
	}
	return top
}

// groupKey resolves the grouping key for a row, applying the unresolved-key
// policy: bucket the row under the configured label, or drop it.
func (s *Summarizer) groupKey(value string, matched bool) (string, bool) {
	if matched && value != "" {
		return value, true
	}
	if s.unresolved == config.UnresolvedDrop {
		return "", false
	}
	return s.unresolvedLabel, true
}

// accumulator groups revenue/profit totals preserving first-seen key order.
type accumulator struct {
	keys  []string
	byKey map[string]*groupTotals
}

type groupTotals struct {
	revenue decimal.Decimal
	profit  decimal.Decimal
	count   int
}

func newAccumulator() *accumulator {
	return &accumulator{byKey: make(map[string]*groupTotals)}
}

func (a *accumulator) add(key string, revenue, profit decimal.Decimal) {
	totals, ok := a.byKey[key]
	if !ok {
		totals = &groupTotals{}
		a.byKey[key] = totals
		a.keys = append(a.keys, key)
	}
	totals.revenue = totals.revenue.Add(revenue)
	totals.profit = totals.profit.Add(profit)
	totals.count++
}

// summaries renders the accumulated groups, optionally sorted by key.
// Without sorting the first-seen input order is preserved.
func (a *accumulator) summaries(sortByKey bool) []GroupSummary {
	keys := append([]string(nil), a.keys...)
	if sortByKey {
		sort.Strings(keys)
	}

	out := make([]GroupSummary, 0, len(keys))
	for _, key := range keys {
		totals := a.byKey[key]
		out = append(out, GroupSummary{
			Key:       key,
			Revenue:   totals.revenue,
			Profit:    totals.profit,
			MarginPct: marginPct(totals.revenue, totals.profit),
		})
	}
	return out
}

// marginPct derives profit/revenue as a percentage rounded to 2 decimals.
// It is undefined (invalid) when revenue is zero or negative, never a
// division fault.
func marginPct(revenue, profit decimal.Decimal) decimal.NullDecimal {
	if !revenue.IsPositive() {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{
		Decimal: profit.Div(revenue).Mul(hundred).Round(2),
		Valid:   true,
	}
}
