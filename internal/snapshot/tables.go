package snapshot

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/andresuchdata/stockguard/internal/domain"
	"github.com/andresuchdata/stockguard/pkg/logger"
	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

// Table names double as file base names (stores.csv, stores.xlsx, ...).
const (
	TableStores    = "stores"
	TableProducts  = "products"
	TableSales     = "sales_history"
	TableHolidays  = "holidays"
	TableWarehouse = "warehouse_inventory"
	TableDistances = "store_distances"
)

// TableNames lists every table a snapshot is built from.
var TableNames = []string{TableStores, TableProducts, TableSales, TableHolidays, TableWarehouse, TableDistances}

var tableColumns = map[string][]string{
	TableStores:    {"store_id", "store_name", "location", "manager", "total_value"},
	TableProducts:  {"product_id", "store_id", "name", "category", "current_stock", "min_threshold", "max_capacity", "price", "last_restocked", "trend", "holiday_impact"},
	TableSales:     {"product_id", "store_id", "date", "units_sold", "revenue"},
	TableHolidays:  {"holiday_name", "date", "impact_multiplier", "affected_categories"},
	TableWarehouse: {"product_name", "available_stock", "warehouse_location"},
	TableDistances: {"store1_id", "store2_id", "distance_km"},
}

// Columns returns the header of a table.
func Columns(table string) []string {
	return tableColumns[table]
}

// rawTable is a header-indexed grid of cells read from a CSV or XLSX file.
type rawTable struct {
	name   string
	header map[string]int
	rows   [][]string
}

func newRawTable(name string, records [][]string) (*rawTable, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("%s: missing header row", name)
	}

	t := &rawTable{name: name, header: make(map[string]int)}
	for i, col := range records[0] {
		t.header[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(col, "\ufeff")))] = i
	}
	for _, col := range tableColumns[name] {
		if _, ok := t.header[col]; !ok {
			return nil, fmt.Errorf("%s: missing column %q", name, col)
		}
	}
	t.rows = records[1:]
	return t, nil
}

func (t *rawTable) get(row []string, col string) string {
	i, ok := t.header[col]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func parseInt(v string) (int, error) {
	if v == "" {
		return 0, nil
	}
	if n, err := strconv.Atoi(v); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || !isFinite(f) {
		return 0, fmt.Errorf("invalid integer %q", v)
	}
	return int(f), nil
}

func parseFloat(v string) (float64, error) {
	if v == "" {
		return 0, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || !isFinite(f) {
		return 0, fmt.Errorf("invalid number %q", v)
	}
	return f, nil
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func parseDecimal(v string) (decimal.Decimal, error) {
	if v == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q", v)
	}
	return d, nil
}

func parseDate(v string) (time.Time, error) {
	if len(v) > len(dateLayout) {
		v = v[:len(dateLayout)]
	}
	d, err := time.Parse(dateLayout, v)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q", v)
	}
	return d, nil
}

// rowErrors collects per-row problems. Bad rows are skipped, not fatal.
type rowErrors struct {
	table string
	count int
}

func (e *rowErrors) skip(rowNum int, err error) {
	e.count++
	logger.Log.Warn().Str("table", e.table).Int("row", rowNum).Err(err).Msg("snapshot: skipping invalid row")
}

func parseStores(t *rawTable) []domain.Store {
	errs := rowErrors{table: t.name}
	out := make([]domain.Store, 0, len(t.rows))
	for i, row := range t.rows {
		id := t.get(row, "store_id")
		if id == "" {
			errs.skip(i+2, fmt.Errorf("empty store_id"))
			continue
		}
		value, err := parseDecimal(t.get(row, "total_value"))
		if err != nil {
			errs.skip(i+2, err)
			continue
		}
		out = append(out, domain.Store{
			ID:         id,
			Name:       t.get(row, "store_name"),
			Location:   t.get(row, "location"),
			Manager:    t.get(row, "manager"),
			TotalValue: value,
		})
	}
	return out
}

func parseProducts(t *rawTable) []domain.ProductLine {
	errs := rowErrors{table: t.name}
	out := make([]domain.ProductLine, 0, len(t.rows))
	for i, row := range t.rows {
		p, err := parseProduct(t, row)
		if err != nil {
			errs.skip(i+2, err)
			continue
		}
		out = append(out, p)
	}
	return out
}

func parseProduct(t *rawTable, row []string) (domain.ProductLine, error) {
	p := domain.ProductLine{
		ProductID:     t.get(row, "product_id"),
		StoreID:       t.get(row, "store_id"),
		Name:          t.get(row, "name"),
		Category:      t.get(row, "category"),
		LastRestocked: t.get(row, "last_restocked"),
		Trend:         domain.ParseTrend(t.get(row, "trend")),
	}
	if p.ProductID == "" || p.StoreID == "" || p.Name == "" {
		return p, fmt.Errorf("product_id, store_id and name are required")
	}

	var err error
	if p.CurrentStock, err = parseInt(t.get(row, "current_stock")); err != nil {
		return p, err
	}
	if p.MinThreshold, err = parseInt(t.get(row, "min_threshold")); err != nil {
		return p, err
	}
	if p.MaxCapacity, err = parseInt(t.get(row, "max_capacity")); err != nil {
		return p, err
	}
	if p.Price, err = parseDecimal(t.get(row, "price")); err != nil {
		return p, err
	}
	if p.HolidayImpact, err = parseFloat(t.get(row, "holiday_impact")); err != nil {
		return p, err
	}

	if p.CurrentStock < 0 || p.MinThreshold < 0 || p.MaxCapacity < 0 {
		return p, fmt.Errorf("negative stock values")
	}
	if p.MinThreshold > p.MaxCapacity {
		return p, fmt.Errorf("min_threshold %d exceeds max_capacity %d", p.MinThreshold, p.MaxCapacity)
	}
	if p.HolidayImpact < 1 {
		p.HolidayImpact = 1
	}
	return p, nil
}

func parseSales(t *rawTable) []domain.SalesRecord {
	errs := rowErrors{table: t.name}
	out := make([]domain.SalesRecord, 0, len(t.rows))
	for i, row := range t.rows {
		date, err := parseDate(t.get(row, "date"))
		if err != nil {
			errs.skip(i+2, err)
			continue
		}
		units, err := parseInt(t.get(row, "units_sold"))
		if err != nil || units < 0 {
			errs.skip(i+2, fmt.Errorf("invalid units_sold %q", t.get(row, "units_sold")))
			continue
		}
		revenue, err := parseDecimal(t.get(row, "revenue"))
		if err != nil {
			errs.skip(i+2, err)
			continue
		}
		out = append(out, domain.SalesRecord{
			ProductID: t.get(row, "product_id"),
			StoreID:   t.get(row, "store_id"),
			Date:      date,
			UnitsSold: units,
			Revenue:   revenue,
		})
	}
	return out
}

func parseHolidays(t *rawTable) []domain.Holiday {
	errs := rowErrors{table: t.name}
	out := make([]domain.Holiday, 0, len(t.rows))
	for i, row := range t.rows {
		date, err := parseDate(t.get(row, "date"))
		if err != nil {
			errs.skip(i+2, err)
			continue
		}
		impact, err := parseFloat(t.get(row, "impact_multiplier"))
		if err != nil {
			errs.skip(i+2, err)
			continue
		}
		out = append(out, domain.Holiday{
			Name:               t.get(row, "holiday_name"),
			Date:               date,
			ImpactMultiplier:   impact,
			AffectedCategories: SplitCategories(t.get(row, "affected_categories")),
		})
	}
	return out
}

// SplitCategories parses a comma separated category list.
func SplitCategories(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func parseWarehouse(t *rawTable) []domain.WarehouseStock {
	errs := rowErrors{table: t.name}
	out := make([]domain.WarehouseStock, 0, len(t.rows))
	for i, row := range t.rows {
		available, err := parseInt(t.get(row, "available_stock"))
		if err != nil || available < 0 {
			errs.skip(i+2, fmt.Errorf("invalid available_stock %q", t.get(row, "available_stock")))
			continue
		}
		out = append(out, domain.WarehouseStock{
			ProductName:    t.get(row, "product_name"),
			AvailableStock: available,
			Location:       t.get(row, "warehouse_location"),
		})
	}
	return out
}

func parseDistances(t *rawTable) []domain.DistanceEdge {
	errs := rowErrors{table: t.name}
	out := make([]domain.DistanceEdge, 0, len(t.rows))
	for i, row := range t.rows {
		km, err := parseFloat(t.get(row, "distance_km"))
		if err != nil || km < 0 {
			errs.skip(i+2, fmt.Errorf("invalid distance_km %q", t.get(row, "distance_km")))
			continue
		}
		out = append(out, domain.DistanceEdge{
			StoreA:     t.get(row, "store1_id"),
			StoreB:     t.get(row, "store2_id"),
			DistanceKm: km,
		})
	}
	return out
}

// assign parses a raw table into the matching field of tables.
func (tables *Tables) assign(t *rawTable) {
	switch t.name {
	case TableStores:
		tables.Stores = parseStores(t)
	case TableProducts:
		tables.Products = parseProducts(t)
	case TableSales:
		tables.Sales = parseSales(t)
	case TableHolidays:
		tables.Holidays = parseHolidays(t)
	case TableWarehouse:
		tables.Warehouse = parseWarehouse(t)
	case TableDistances:
		tables.Distances = parseDistances(t)
	}
}

// Records renders one table back into a header plus rows.
func (tables Tables) Records(table string) [][]string {
	records := [][]string{Columns(table)}
	switch table {
	case TableStores:
		for _, s := range tables.Stores {
			records = append(records, []string{s.ID, s.Name, s.Location, s.Manager, s.TotalValue.String()})
		}
	case TableProducts:
		for _, p := range tables.Products {
			records = append(records, []string{
				p.ProductID, p.StoreID, p.Name, p.Category,
				strconv.Itoa(p.CurrentStock), strconv.Itoa(p.MinThreshold), strconv.Itoa(p.MaxCapacity),
				p.Price.String(), p.LastRestocked, string(p.Trend),
				strconv.FormatFloat(p.HolidayImpact, 'f', -1, 64),
			})
		}
	case TableSales:
		for _, r := range tables.Sales {
			records = append(records, []string{
				r.ProductID, r.StoreID, r.Date.Format(dateLayout),
				strconv.Itoa(r.UnitsSold), r.Revenue.StringFixed(2),
			})
		}
	case TableHolidays:
		for _, h := range tables.Holidays {
			records = append(records, []string{
				h.Name, h.Date.Format(dateLayout),
				strconv.FormatFloat(h.ImpactMultiplier, 'f', -1, 64),
				strings.Join(h.AffectedCategories, ","),
			})
		}
	case TableWarehouse:
		for _, w := range tables.Warehouse {
			records = append(records, []string{w.ProductName, strconv.Itoa(w.AvailableStock), w.Location})
		}
	case TableDistances:
		for _, d := range tables.Distances {
			records = append(records, []string{d.StoreA, d.StoreB, strconv.FormatFloat(d.DistanceKm, 'f', -1, 64)})
		}
	}
	return records
}
