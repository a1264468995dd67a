package dataprocessing

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"

	"salespulse/pkg/contracts/domain"
)

// Processor performs the reference joins and per-row KPI derivation.
// Join keys are treated as opaque identifiers: trimmed, then matched
// exactly. Every order line survives the joins (left-outer semantics).
type Processor struct {
	logger *slog.Logger
}

// NewProcessor creates a new processor instance.
func NewProcessor(logger *slog.Logger) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{logger: logger}
}

// JoinStats counts foreign keys that failed to resolve during enrichment.
// A mismatch is observable, never fatal: the affected rows keep empty
// joined fields and flow into their own aggregation bucket downstream.
type JoinStats struct {
	RegionMisses   int
	MappingMisses  int
	ProductMisses  int
	CustomerMisses int
}

// Enrich joins every order line against the reference tables and derives
// the calendar and financial KPI fields. The result has exactly one row
// per input order line, in input order.
func (p *Processor) Enrich(ctx context.Context, wb *Workbook) ([]domain.EnrichedOrderLine, JoinStats) {
	regionsByID := make(map[string]domain.Region, len(wb.Regions))
	for _, r := range wb.Regions {
		regionsByID[strings.TrimSpace(r.ID)] = r
	}
	mappingByState := make(map[string]domain.StateRegion, len(wb.StateRegions))
	for _, m := range wb.StateRegions {
		mappingByState[strings.TrimSpace(m.StateCode)] = m
	}
	productsByID := make(map[string]domain.Product, len(wb.Products))
	for _, pr := range wb.Products {
		productsByID[strings.TrimSpace(pr.ID)] = pr
	}
	customersByID := make(map[string]domain.Customer, len(wb.Customers))
	for _, c := range wb.Customers {
		customersByID[strings.TrimSpace(c.ID)] = c
	}

	var stats JoinStats
	enriched := make([]domain.EnrichedOrderLine, 0, len(wb.Orders))

	for _, order := range wb.Orders {
		row := domain.EnrichedOrderLine{OrderLine: order}

		// Join regions on the delivery region id.
		if region, ok := regionsByID[strings.TrimSpace(order.DeliveryRegionID)]; ok {
			row.RegionMatched = true
			row.CityName = region.Name
			row.StateCode = region.StateCode
			row.StateName = region.StateName

			// Chain the state to macro-region mapping on the state code.
			if mapping, ok := mappingByState[strings.TrimSpace(region.StateCode)]; ok {
				row.MappingMatched = true
				row.MacroRegion = mapping.MacroRegion
			} else {
				stats.MappingMisses++
			}
		} else {
			stats.RegionMisses++
		}

		// Join products on the product id.
		if product, ok := productsByID[strings.TrimSpace(order.ProductID)]; ok {
			row.ProductMatched = true
			row.ProductName = product.Name
		} else {
			stats.ProductMisses++
		}

		// Join customers on the customer id.
		if customer, ok := customersByID[strings.TrimSpace(order.CustomerID)]; ok {
			row.CustomerMatched = true
			row.CustomerName = customer.Name
		} else {
			stats.CustomerMisses++
		}

		deriveCalendar(&row)
		deriveKPIs(&row)

		enriched = append(enriched, row)
	}

	if stats.RegionMisses > 0 || stats.MappingMisses > 0 ||
		stats.ProductMisses > 0 || stats.CustomerMisses > 0 {
		p.logger.WarnContext(ctx, "unresolved foreign keys during enrichment",
			"region_misses", stats.RegionMisses,
			"mapping_misses", stats.MappingMisses,
			"product_misses", stats.ProductMisses,
			"customer_misses", stats.CustomerMisses)
	}

	p.logger.InfoContext(ctx, "enrichment complete",
		"order_lines", len(enriched))

	return enriched, stats
}

// deriveCalendar fills the year, month and quarter fields from OrderDate.
func deriveCalendar(row *domain.EnrichedOrderLine) {
	row.Year = row.OrderDate.Year()
	row.Month = int(row.OrderDate.Month())
	row.Quarter = fmt.Sprintf("%d-Q%d", row.Year, (row.Month-1)/3+1)
}

// deriveKPIs fills the financial fields:
//
//	revenue = line total
//	profit  = (unit price - unit cost) * quantity
//	margin  = profit / revenue when revenue > 0, otherwise undefined
func deriveKPIs(row *domain.EnrichedOrderLine) {
	row.Revenue = row.LineTotal
	row.UnitCost = row.TotalUnitCost
	row.Profit = row.UnitPrice.Sub(row.TotalUnitCost).
		Mul(decimal.NewFromInt(row.Quantity))

	if row.Revenue.IsPositive() {
		row.Margin = decimal.NullDecimal{
			Decimal: row.Profit.Div(row.Revenue),
			Valid:   true,
		}
	}
}
