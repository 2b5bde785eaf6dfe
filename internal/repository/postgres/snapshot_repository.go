package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/andresuchdata/stockguard/internal/domain"
	"github.com/andresuchdata/stockguard/internal/snapshot"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

type storeRow struct {
	StoreID    string          `db:"store_id"`
	StoreName  string          `db:"store_name"`
	Location   string          `db:"location"`
	Manager    string          `db:"manager"`
	TotalValue decimal.Decimal `db:"total_value"`
}

type productRow struct {
	ProductID     string          `db:"product_id"`
	StoreID       string          `db:"store_id"`
	Name          string          `db:"name"`
	Category      string          `db:"category"`
	CurrentStock  int             `db:"current_stock"`
	MinThreshold  int             `db:"min_threshold"`
	MaxCapacity   int             `db:"max_capacity"`
	Price         decimal.Decimal `db:"price"`
	LastRestocked string          `db:"last_restocked"`
	Trend         string          `db:"trend"`
	HolidayImpact float64         `db:"holiday_impact"`
}

type salesRow struct {
	ProductID string          `db:"product_id"`
	StoreID   string          `db:"store_id"`
	Date      time.Time       `db:"date"`
	UnitsSold int             `db:"units_sold"`
	Revenue   decimal.Decimal `db:"revenue"`
}

type holidayRow struct {
	HolidayName        string    `db:"holiday_name"`
	Date               time.Time `db:"date"`
	ImpactMultiplier   float64   `db:"impact_multiplier"`
	AffectedCategories string    `db:"affected_categories"`
}

type warehouseRow struct {
	ProductName       string `db:"product_name"`
	AvailableStock    int    `db:"available_stock"`
	WarehouseLocation string `db:"warehouse_location"`
}

type distanceRow struct {
	Store1ID   string  `db:"store1_id"`
	Store2ID   string  `db:"store2_id"`
	DistanceKm float64 `db:"distance_km"`
}

// SnapshotRepository reads and writes the tables a snapshot is built from.
type SnapshotRepository struct {
	db *DB
}

func NewSnapshotRepository(db *DB) *SnapshotRepository {
	return &SnapshotRepository{db: db}
}

var _ snapshot.TableStore = (*SnapshotRepository)(nil)

// LoadTables reads all snapshot tables inside one read-only transaction so
// every table reflects the same point in time.
func (r *SnapshotRepository) LoadTables(ctx context.Context) (snapshot.Tables, error) {
	var t snapshot.Tables
	err := r.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, "SET TRANSACTION ISOLATION LEVEL REPEATABLE READ READ ONLY"); err != nil {
			return fmt.Errorf("set snapshot isolation: %w", err)
		}

		var stores []storeRow
		if err := tx.SelectContext(ctx, &stores, `SELECT store_id, store_name, location, manager, total_value FROM stores ORDER BY store_id`); err != nil {
			return fmt.Errorf("error getting stores: %w", err)
		}
		var products []productRow
		if err := tx.SelectContext(ctx, &products, `
			SELECT product_id, store_id, name, category, current_stock, min_threshold,
			       max_capacity, price, last_restocked, trend, holiday_impact
			FROM products
			ORDER BY store_id, product_id
		`); err != nil {
			return fmt.Errorf("error getting products: %w", err)
		}
		var sales []salesRow
		if err := tx.SelectContext(ctx, &sales, `SELECT product_id, store_id, date, units_sold, revenue FROM sales_history ORDER BY product_id, date`); err != nil {
			return fmt.Errorf("error getting sales history: %w", err)
		}
		var holidays []holidayRow
		if err := tx.SelectContext(ctx, &holidays, `SELECT holiday_name, date, impact_multiplier, affected_categories FROM holidays ORDER BY date`); err != nil {
			return fmt.Errorf("error getting holidays: %w", err)
		}
		var warehouse []warehouseRow
		if err := tx.SelectContext(ctx, &warehouse, `SELECT product_name, available_stock, warehouse_location FROM warehouse_inventory ORDER BY product_name`); err != nil {
			return fmt.Errorf("error getting warehouse inventory: %w", err)
		}
		var distances []distanceRow
		if err := tx.SelectContext(ctx, &distances, `SELECT store1_id, store2_id, distance_km FROM store_distances ORDER BY store1_id, store2_id`); err != nil {
			return fmt.Errorf("error getting store distances: %w", err)
		}

		t = tablesFromRows(stores, products, sales, holidays, warehouse, distances)
		return nil
	})
	return t, err
}

// SaveTables replaces the stored snapshot tables with t.
func (r *SnapshotRepository) SaveTables(ctx context.Context, t snapshot.Tables) error {
	return r.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, `TRUNCATE stores, products, sales_history, holidays, warehouse_inventory, store_distances`); err != nil {
			return fmt.Errorf("failed to truncate snapshot tables: %w", err)
		}

		rows := rowsFromTables(t)
		for _, insert := range []struct {
			table string
			rows  []any
		}{
			{snapshot.TableStores, rows.stores},
			{snapshot.TableProducts, rows.products},
			{snapshot.TableSales, rows.sales},
			{snapshot.TableHolidays, rows.holidays},
			{snapshot.TableWarehouse, rows.warehouse},
			{snapshot.TableDistances, rows.distances},
		} {
			if err := insertRows(ctx, tx, insert.table, insert.rows); err != nil {
				return err
			}
		}
		return nil
	})
}

func insertRows(ctx context.Context, tx *sqlx.Tx, table string, rows []any) error {
	if len(rows) == 0 {
		return nil
	}

	stmt, err := tx.PrepareNamedContext(ctx, buildInsertQuery(table))
	if err != nil {
		return fmt.Errorf("failed to prepare %s insert: %w", table, err)
	}
	defer stmt.Close()

	for _, row := range rows {
		if _, err := stmt.ExecContext(ctx, row); err != nil {
			return fmt.Errorf("failed to insert into %s: %w", table, err)
		}
	}
	return nil
}

// buildInsertQuery returns a named insert for table. Duplicate keys keep the
// first row, matching how snapshots deduplicate.
func buildInsertQuery(table string) string {
	cols := snapshot.Columns(table)
	named := make([]string, len(cols))
	for i, c := range cols {
		named[i] = ":" + c
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) ON CONFLICT DO NOTHING",
		table, strings.Join(cols, ", "), strings.Join(named, ", "))
}

func tablesFromRows(stores []storeRow, products []productRow, sales []salesRow, holidays []holidayRow, warehouse []warehouseRow, distances []distanceRow) snapshot.Tables {
	var t snapshot.Tables
	for _, s := range stores {
		t.Stores = append(t.Stores, domain.Store{
			ID:         s.StoreID,
			Name:       s.StoreName,
			Location:   s.Location,
			Manager:    s.Manager,
			TotalValue: s.TotalValue,
		})
	}
	for _, p := range products {
		impact := p.HolidayImpact
		if impact < 1 {
			impact = 1
		}
		t.Products = append(t.Products, domain.ProductLine{
			StoreID:       p.StoreID,
			ProductID:     p.ProductID,
			Name:          p.Name,
			Category:      p.Category,
			CurrentStock:  p.CurrentStock,
			MinThreshold:  p.MinThreshold,
			MaxCapacity:   p.MaxCapacity,
			Price:         p.Price,
			LastRestocked: p.LastRestocked,
			Trend:         domain.ParseTrend(p.Trend),
			HolidayImpact: impact,
		})
	}
	for _, s := range sales {
		t.Sales = append(t.Sales, domain.SalesRecord{
			ProductID: s.ProductID,
			StoreID:   s.StoreID,
			Date:      s.Date.UTC().Truncate(24 * time.Hour),
			UnitsSold: s.UnitsSold,
			Revenue:   s.Revenue,
		})
	}
	for _, h := range holidays {
		t.Holidays = append(t.Holidays, domain.Holiday{
			Name:               h.HolidayName,
			Date:               h.Date.UTC().Truncate(24 * time.Hour),
			ImpactMultiplier:   h.ImpactMultiplier,
			AffectedCategories: snapshot.SplitCategories(h.AffectedCategories),
		})
	}
	for _, w := range warehouse {
		t.Warehouse = append(t.Warehouse, domain.WarehouseStock{
			ProductName:    w.ProductName,
			AvailableStock: w.AvailableStock,
			Location:       w.WarehouseLocation,
		})
	}
	for _, d := range distances {
		t.Distances = append(t.Distances, domain.DistanceEdge{
			StoreA:     d.Store1ID,
			StoreB:     d.Store2ID,
			DistanceKm: d.DistanceKm,
		})
	}
	return t
}

type tableRows struct {
	stores, products, sales, holidays, warehouse, distances []any
}

func rowsFromTables(t snapshot.Tables) tableRows {
	var r tableRows
	for _, s := range t.Stores {
		r.stores = append(r.stores, storeRow{StoreID: s.ID, StoreName: s.Name, Location: s.Location, Manager: s.Manager, TotalValue: s.TotalValue})
	}
	for _, p := range t.Products {
		r.products = append(r.products, productRow{
			ProductID:     p.ProductID,
			StoreID:       p.StoreID,
			Name:          p.Name,
			Category:      p.Category,
			CurrentStock:  p.CurrentStock,
			MinThreshold:  p.MinThreshold,
			MaxCapacity:   p.MaxCapacity,
			Price:         p.Price,
			LastRestocked: p.LastRestocked,
			Trend:         string(p.Trend),
			HolidayImpact: p.HolidayImpact,
		})
	}
	for _, s := range t.Sales {
		r.sales = append(r.sales, salesRow{ProductID: s.ProductID, StoreID: s.StoreID, Date: s.Date, UnitsSold: s.UnitsSold, Revenue: s.Revenue})
	}
	for _, h := range t.Holidays {
		r.holidays = append(r.holidays, holidayRow{
			HolidayName:        h.Name,
			Date:               h.Date,
			ImpactMultiplier:   h.ImpactMultiplier,
			AffectedCategories: strings.Join(h.AffectedCategories, ","),
		})
	}
	for _, w := range t.Warehouse {
		r.warehouse = append(r.warehouse, warehouseRow{ProductName: w.ProductName, AvailableStock: w.AvailableStock, WarehouseLocation: w.Location})
	}
	for _, d := range t.Distances {
		r.distances = append(r.distances, distanceRow{Store1ID: d.StoreA, Store2ID: d.StoreB, DistanceKm: d.DistanceKm})
	}
	return r
}
