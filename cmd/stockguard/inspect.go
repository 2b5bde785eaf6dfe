package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/andresuchdata/stockguard/internal/app"
	"github.com/andresuchdata/stockguard/internal/config"
	"github.com/andresuchdata/stockguard/internal/engine"
	"github.com/andresuchdata/stockguard/internal/service"
	"github.com/andresuchdata/stockguard/internal/snapshot"
	"github.com/urfave/cli/v2"
)

func newServices(c *cli.Context) (*service.InventoryService, *service.RebalanceService, error) {
	snap, err := loadSnapshot(c)
	if err != nil {
		return nil, nil, err
	}
	cfg := config.Load()
	holder := snapshot.NewStaticHolder(snap)
	eng := engine.New(app.EngineConfig(cfg.Engine))
	return service.NewInventoryService(holder, eng),
		service.NewRebalanceService(holder, eng, nil, nil, cfg.Engine.TopN),
		nil
}

func runForecast(c *cli.Context) error {
	inventory, _, err := newServices(c)
	if err != nil {
		return err
	}

	products, err := inventory.StoreProducts(c.Context, c.String("store"))
	if err != nil {
		return err
	}
	if c.Bool("json") {
		return printJSON(c.App.Writer, products)
	}

	return printTable(c.App.Writer, []string{"PRODUCT", "NAME", "STOCK", "MIN", "MAX", "OUT OF STOCK"}, len(products), func(i int) []string {
		p := products[i]
		return []string{
			p.ProductID,
			p.Name,
			strconv.Itoa(p.CurrentStock),
			strconv.Itoa(p.MinThreshold),
			strconv.Itoa(p.MaxCapacity),
			p.PredictedOutOfStock.Format(time.DateOnly),
		}
	})
}

func runRebalance(c *cli.Context) error {
	_, rebalance, err := newServices(c)
	if err != nil {
		return err
	}

	suggestions, err := rebalance.Suggestions(c.Context, c.Int("limit"))
	if err != nil {
		return err
	}
	if c.Bool("json") {
		return printJSON(c.App.Writer, suggestions)
	}

	return printTable(c.App.Writer, []string{"PRODUCT", "FROM", "TO", "QTY", "KM", "PRIORITY"}, len(suggestions), func(i int) []string {
		s := suggestions[i]
		return []string{
			s.ProductName,
			s.FromStore,
			s.ToStore,
			strconv.FormatFloat(s.TransferQty, 'f', 1, 64),
			strconv.FormatFloat(s.Distance, 'f', 1, 64),
			strconv.FormatFloat(s.Priority, 'f', 3, 64),
		}
	})
}

func runOrders(c *cli.Context) error {
	_, rebalance, err := newServices(c)
	if err != nil {
		return err
	}

	orders, err := rebalance.Orders(c.Context, c.Int("limit"))
	if err != nil {
		return err
	}
	if c.Bool("json") {
		return printJSON(c.App.Writer, orders)
	}

	return printTable(c.App.Writer, []string{"STORE", "PRODUCT", "QTY", "URGENCY", "DELIVERY"}, len(orders), func(i int) []string {
		o := orders[i]
		return []string{
			o.StoreID,
			o.ProductName,
			strconv.Itoa(o.OrderQty),
			string(o.Urgency),
			o.EstimatedDelivery.Format(time.DateTime),
		}
	})
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printTable(w io.Writer, header []string, rows int, row func(i int) []string) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	writeRow(tw, header)
	for i := 0; i < rows; i++ {
		writeRow(tw, row(i))
	}
	return tw.Flush()
}

func writeRow(w io.Writer, cols []string) {
	for i, col := range cols {
		if i > 0 {
			fmt.Fprint(w, "\t")
		}
		fmt.Fprint(w, col)
	}
	fmt.Fprintln(w)
}
