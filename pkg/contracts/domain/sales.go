// Package domain contains the core domain models shared by every layer:
// the raw workbook records, the enriched order line and the reference
// tables it joins against.
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Channel represents the sales channel of an order line.
type Channel string

const (
	ChannelWholesale   Channel = "Wholesale"
	ChannelDistributor Channel = "Distributor"
	ChannelExport      Channel = "Export"
)

// OrderLine represents a single line item of a sales order as loaded from
// the workbook. One row per line item, immutable once loaded.
type OrderLine struct {
	OrderNumber      string          `json:"order_number"`
	OrderDate        time.Time       `json:"order_date"`
	CustomerID       string          `json:"customer_id"`
	Channel          Channel         `json:"channel"`
	CurrencyCode     string          `json:"currency_code"`
	DeliveryRegionID string          `json:"delivery_region_id"`
	ProductID        string          `json:"product_id"`
	Quantity         int64           `json:"quantity"`
	UnitPrice        decimal.Decimal `json:"unit_price"`
	LineTotal        decimal.Decimal `json:"line_total"`
	TotalUnitCost    decimal.Decimal `json:"total_unit_cost"`
}

// Region represents a delivery region (a city) from the reference sheet.
type Region struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	StateCode string  `json:"state_code"`
	StateName string  `json:"state_name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// StateRegion maps a US state to its macro-region
// (West, South, Midwest or Northeast).
type StateRegion struct {
	StateCode   string `json:"state_code"`
	StateName   string `json:"state_name"`
	MacroRegion string `json:"macro_region"`
}

// Product represents a sellable product from the reference sheet.
type Product struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Customer represents a customer from the reference sheet.
type Customer struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Budget represents a per-product budget amount from the budgets sheet.
type Budget struct {
	ProductName string          `json:"product_name"`
	Amount      decimal.Decimal `json:"amount"`
}

// EnrichedOrderLine is an order line after reference joins and KPI
// derivation. Reference fields come from left-outer joins: when a foreign
// key does not resolve the corresponding Matched flag is false and the
// joined fields stay empty, but the row itself is always preserved.
type EnrichedOrderLine struct {
	OrderLine

	// Joined reference data.
	CityName     string `json:"city_name"`
	StateCode    string `json:"state_code"`
	StateName    string `json:"state_name"`
	MacroRegion  string `json:"macro_region"`
	ProductName  string `json:"product_name"`
	CustomerName string `json:"customer_name"`

	RegionMatched   bool `json:"region_matched"`
	MappingMatched  bool `json:"mapping_matched"`
	ProductMatched  bool `json:"product_matched"`
	CustomerMatched bool `json:"customer_matched"`

	// Calendar fields derived from OrderDate.
	Year    int    `json:"year"`
	Month   int    `json:"month"`
	Quarter string `json:"quarter"`

	// Financial KPIs. Margin is undefined (invalid NullDecimal) when
	// revenue is zero or negative.
	Revenue  decimal.Decimal     `json:"revenue"`
	UnitCost decimal.Decimal     `json:"unit_cost"`
	Profit   decimal.Decimal     `json:"profit"`
	Margin   decimal.NullDecimal `json:"margin"`
}
