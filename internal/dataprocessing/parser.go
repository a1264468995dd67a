package dataprocessing

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	apperrors "salespulse/internal/errors"
	"salespulse/internal/infrastructure"
	"salespulse/pkg/contracts/domain"
)

// Sheet names expected in the sales workbook. Lookup is tolerant of
// surrounding whitespace and letter case but the six tables must exist.
const (
	SheetSalesOrders  = "Sales Orders"
	SheetCustomers    = "Customers"
	SheetProducts     = "Products"
	SheetRegions      = "Regions"
	SheetStateRegions = "State Regions"
	SheetBudgets      = "2017 Budgets"
)

// Workbook holds the six tables loaded from the spreadsheet source.
type Workbook struct {
	Orders       []domain.OrderLine
	Customers    []domain.Customer
	Products     []domain.Product
	Regions      []domain.Region
	StateRegions []domain.StateRegion
	Budgets      []domain.Budget
}

// ParseWorkbook reads the regional sales workbook and extracts all six
// tables. Column order does not matter and extra columns are ignored;
// header names are the only contract. A missing file or missing sheet
// returns a LOAD error and nothing else is attempted.
func ParseWorkbook(ctx context.Context, filePath string) (*Workbook, error) {
	logger := infrastructure.LoggerFromContext(ctx)

	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, apperrors.NewLoadError("failed to open workbook", err).
			WithContext("path", filePath)
	}
	defer f.Close()

	wb := &Workbook{}

	orders, err := parseOrders(f)
	if err != nil {
		return nil, err
	}
	wb.Orders = orders

	customers, err := parseCustomers(f)
	if err != nil {
		return nil, err
	}
	wb.Customers = customers

	products, err := parseProducts(f)
	if err != nil {
		return nil, err
	}
	wb.Products = products

	regions, err := parseRegions(f)
	if err != nil {
		return nil, err
	}
	wb.Regions = regions

	stateRegions, err := parseStateRegions(f)
	if err != nil {
		return nil, err
	}
	wb.StateRegions = stateRegions

	budgets, err := parseBudgets(f)
	if err != nil {
		return nil, err
	}
	wb.Budgets = budgets

	logger.InfoContext(ctx, "workbook loaded",
		"path", filePath,
		"order_lines", len(wb.Orders),
		"customers", len(wb.Customers),
		"products", len(wb.Products),
		"regions", len(wb.Regions),
		"state_regions", len(wb.StateRegions),
		"budgets", len(wb.Budgets))

	return wb, nil
}

// sheetRows finds a sheet by name, tolerating trailing whitespace and case
// differences in the workbook's sheet names, and returns its rows.
func sheetRows(f *excelize.File, name string) ([][]string, error) {
	if rows, err := f.GetRows(name); err == nil {
		return rows, nil
	}

	want := strings.ToLower(strings.TrimSpace(name))
	for _, candidate := range f.GetSheetList() {
		if strings.ToLower(strings.TrimSpace(candidate)) == want {
			return f.GetRows(candidate)
		}
	}

	return nil, apperrors.NewLoadError("required sheet not found", nil).
		WithContext("sheet", name)
}

// columnMap maps normalized header names to column indices. The header row
// is the first row that contains at least one of the required headers.
type columnMap struct {
	cols map[string]int
	row  int
}

// buildColumnMap scans for the header row and records the position of every
// header cell, normalized to lower case with collapsed whitespace.
func buildColumnMap(rows [][]string, required ...string) (*columnMap, *apperrors.AppError) {
	for i, row := range rows {
		cols := make(map[string]int, len(row))
		for j, header := range row {
			key := normalizeHeader(header)
			if key == "" {
				continue
			}
			if _, exists := cols[key]; !exists {
				cols[key] = j
			}
		}

		found := 0
		for _, req := range required {
			if _, ok := cols[req]; ok {
				found++
			}
		}
		if found == len(required) {
			return &columnMap{cols: cols, row: i}, nil
		}
	}

	return nil, apperrors.NewLoadError("could not find header row", nil).
		WithContext("required_columns", required)
}

func normalizeHeader(header string) string {
	return strings.Join(strings.Fields(strings.ToLower(header)), " ")
}

// get returns the trimmed cell under the named header, or "".
func (c *columnMap) get(row []string, header string) string {
	idx, ok := c.cols[header]
	if !ok || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func (c *columnMap) getDecimal(row []string, header string) (decimal.Decimal, bool) {
	raw := c.get(row, header)
	if raw == "" {
		return decimal.Zero, false
	}
	cleaned := strings.NewReplacer(",", "", "$", "", " ", "").Replace(raw)
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

func (c *columnMap) getInt(row []string, header string) (int64, bool) {
	raw := strings.ReplaceAll(c.get(row, header), ",", "")
	if raw == "" {
		return 0, false
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		// Quantities sometimes render as "5.0" in sheet cells.
		fv, ferr := strconv.ParseFloat(raw, 64)
		if ferr != nil {
			return 0, false
		}
		return int64(fv), true
	}
	return v, true
}

func (c *columnMap) getFloat(row []string, header string) float64 {
	raw := strings.ReplaceAll(c.get(row, header), ",", "")
	v, _ := strconv.ParseFloat(raw, 64)
	return v
}

// getDate parses a cell as a date. Cells arrive either as formatted date
// strings or as raw Excel serial numbers depending on the cell style.
func (c *columnMap) getDate(row []string, header string) (time.Time, bool) {
	raw := c.get(row, header)
	if raw == "" {
		return time.Time{}, false
	}

	layouts := []string{
		"2006-01-02",
		"1/2/2006",
		"01-02-06",
		"2006-01-02 15:04:05",
		"1/2/06 15:04",
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}

	if serial, err := strconv.ParseFloat(raw, 64); err == nil {
		if t, err := excelize.ExcelDateToTime(serial, false); err == nil {
			return t, true
		}
	}

	return time.Time{}, false
}

func parseOrders(f *excelize.File) ([]domain.OrderLine, error) {
	rows, err := sheetRows(f, SheetSalesOrders)
	if err != nil {
		return nil, err
	}

	cm, cmErr := buildColumnMap(rows,
		"ordernumber", "orderdate", "order quantity", "unit price", "line total")
	if cmErr != nil {
		return nil, cmErr.WithContext("sheet", SheetSalesOrders)
	}

	orders := make([]domain.OrderLine, 0, len(rows))
	for i := cm.row + 1; i < len(rows); i++ {
		row := rows[i]
		if isEmptyRow(row) {
			continue
		}

		date, ok := cm.getDate(row, "orderdate")
		if !ok {
			continue
		}
		quantity, _ := cm.getInt(row, "order quantity")
		unitPrice, _ := cm.getDecimal(row, "unit price")
		lineTotal, _ := cm.getDecimal(row, "line total")
		unitCost, _ := cm.getDecimal(row, "total unit cost")

		orders = append(orders, domain.OrderLine{
			OrderNumber:      cm.get(row, "ordernumber"),
			OrderDate:        date,
			CustomerID:       cm.get(row, "customer name index"),
			Channel:          domain.Channel(cm.get(row, "channel")),
			CurrencyCode:     cm.get(row, "currency code"),
			DeliveryRegionID: cm.get(row, "delivery region index"),
			ProductID:        cm.get(row, "product description index"),
			Quantity:         quantity,
			UnitPrice:        unitPrice,
			LineTotal:        lineTotal,
			TotalUnitCost:    unitCost,
		})
	}

	return orders, nil
}

func parseCustomers(f *excelize.File) ([]domain.Customer, error) {
	rows, err := sheetRows(f, SheetCustomers)
	if err != nil {
		return nil, err
	}

	cm, cmErr := buildColumnMap(rows, "customer index", "customer names")
	if cmErr != nil {
		return nil, cmErr.WithContext("sheet", SheetCustomers)
	}

	customers := make([]domain.Customer, 0, len(rows))
	for i := cm.row + 1; i < len(rows); i++ {
		row := rows[i]
		id := cm.get(row, "customer index")
		if id == "" {
			continue
		}
		customers = append(customers, domain.Customer{
			ID:   id,
			Name: cm.get(row, "customer names"),
		})
	}

	return customers, nil
}

func parseProducts(f *excelize.File) ([]domain.Product, error) {
	rows, err := sheetRows(f, SheetProducts)
	if err != nil {
		return nil, err
	}

	cm, cmErr := buildColumnMap(rows, "index", "product name")
	if cmErr != nil {
		return nil, cmErr.WithContext("sheet", SheetProducts)
	}

	products := make([]domain.Product, 0, len(rows))
	for i := cm.row + 1; i < len(rows); i++ {
		row := rows[i]
		id := cm.get(row, "index")
		if id == "" {
			continue
		}
		products = append(products, domain.Product{
			ID:   id,
			Name: cm.get(row, "product name"),
		})
	}

	return products, nil
}

func parseRegions(f *excelize.File) ([]domain.Region, error) {
	rows, err := sheetRows(f, SheetRegions)
	if err != nil {
		return nil, err
	}

	cm, cmErr := buildColumnMap(rows, "id", "name", "state_code", "state")
	if cmErr != nil {
		return nil, cmErr.WithContext("sheet", SheetRegions)
	}

	regions := make([]domain.Region, 0, len(rows))
	for i := cm.row + 1; i < len(rows); i++ {
		row := rows[i]
		id := cm.get(row, "id")
		if id == "" {
			continue
		}
		regions = append(regions, domain.Region{
			ID:        id,
			Name:      cm.get(row, "name"),
			StateCode: cm.get(row, "state_code"),
			StateName: cm.get(row, "state"),
			Latitude:  cm.getFloat(row, "latitude"),
			Longitude: cm.getFloat(row, "longitude"),
		})
	}

	return regions, nil
}

func parseStateRegions(f *excelize.File) ([]domain.StateRegion, error) {
	rows, err := sheetRows(f, SheetStateRegions)
	if err != nil {
		return nil, err
	}

	cm, cmErr := buildColumnMap(rows, "state code", "state", "region")
	if cmErr != nil {
		return nil, cmErr.WithContext("sheet", SheetStateRegions)
	}

	mappings := make([]domain.StateRegion, 0, len(rows))
	for i := cm.row + 1; i < len(rows); i++ {
		row := rows[i]
		code := cm.get(row, "state code")
		if code == "" {
			continue
		}
		mappings = append(mappings, domain.StateRegion{
			StateCode:   code,
			StateName:   cm.get(row, "state"),
			MacroRegion: cm.get(row, "region"),
		})
	}

	return mappings, nil
}

func parseBudgets(f *excelize.File) ([]domain.Budget, error) {
	rows, err := sheetRows(f, SheetBudgets)
	if err != nil {
		return nil, err
	}

	cm, cmErr := buildColumnMap(rows, "product name", "2017 budgets")
	if cmErr != nil {
		return nil, cmErr.WithContext("sheet", SheetBudgets)
	}

	budgets := make([]domain.Budget, 0, len(rows))
	for i := cm.row + 1; i < len(rows); i++ {
		row := rows[i]
		name := cm.get(row, "product name")
		if name == "" {
			continue
		}
		amount, ok := cm.getDecimal(row, "2017 budgets")
		if !ok {
			continue
		}
		budgets = append(budgets, domain.Budget{
			ProductName: name,
			Amount:      amount,
		})
	}

	return budgets, nil
}

func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
