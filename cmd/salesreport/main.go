package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/olekukonko/tablewriter"
	"github.com/shopspring/decimal"

	"github.com/uniqlo-mini/storefront/internal/adapter/storage"
	"github.com/uniqlo-mini/storefront/internal/config"
	"github.com/uniqlo-mini/storefront/internal/core/domain"
	"github.com/uniqlo-mini/storefront/internal/core/service"
)

func main() {
	var (
		fromFlag   = flag.String("from", "", "first day, YYYY-MM-DD (default 30 days ago)")
		toFlag     = flag.String("to", "", "last day, YYYY-MM-DD (default today)")
		customerID = flag.Int64("customer", 0, "also print this customer's order history")
		statuses   = flag.String("status", "", "comma separated status filter for -customer")
	)
	flag.Parse()

	from, to, err := window(*fromFlag, *toFlag, time.Now())
	if err != nil {
		log.Fatalf("invalid window: %v", err)
	}

	cfg := config.Load()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := sql.Open("mysql", cfg.DSN())
	if err != nil {
		log.Fatalf("failed to connect mysql: %v", err)
	}
	defer db.Close()

	mysqlAdapter := storage.NewMySQLAdapter(db)
	reports := service.NewReportService(mysqlAdapter, mysqlAdapter)

	rows, err := reports.Revenue(ctx, from, to)
	if err != nil {
		log.Fatalf("failed to load revenue: %v", err)
	}
	fmt.Printf("Revenue %s to %s\n", from.Format(time.DateOnly), to.AddDate(0, 0, -1).Format(time.DateOnly))
	if err := renderRevenue(os.Stdout, rows); err != nil {
		log.Fatalf("failed to render: %v", err)
	}

	if *customerID > 0 {
		orders, err := reports.CustomerOrders(ctx, *customerID, *statuses)
		if err != nil {
			log.Fatalf("failed to load orders: %v", err)
		}
		progress, err := reports.CustomerTier(ctx, *customerID)
		if err != nil {
			log.Fatalf("failed to load tier: %v", err)
		}
		fmt.Printf("\nCustomer %d: %s, spent %s\n", *customerID, progress.Current, progress.TotalSpent.StringFixed(0))
		if err := renderOrders(os.Stdout, orders); err != nil {
			log.Fatalf("failed to render: %v", err)
		}
	}
}

// window turns inclusive dates into a [from, to) range.
func window(fromStr, toStr string, now time.Time) (time.Time, time.Time, error) {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	from := today.AddDate(0, 0, -30)
	to := today

	if fromStr != "" {
		t, err := time.ParseInLocation(time.DateOnly, fromStr, now.Location())
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		from = t
	}
	if toStr != "" {
		t, err := time.ParseInLocation(time.DateOnly, toStr, now.Location())
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		to = t
	}
	if to.Before(from) {
		return time.Time{}, time.Time{}, fmt.Errorf("to %s is before from %s", toStr, fromStr)
	}
	return from, to.AddDate(0, 0, 1), nil
}

func renderRevenue(w io.Writer, rows []domain.RevenueRow) error {
	table := tablewriter.NewWriter(w)
	table.Header("Status", "Orders", "Revenue")

	var count int64
	total := decimal.Zero
	for _, r := range rows {
		count += r.OrderCount
		total = total.Add(r.Revenue)
		if err := table.Append(string(r.Status), strconv.FormatInt(r.OrderCount, 10), r.Revenue.StringFixed(0)); err != nil {
			return err
		}
	}
	table.Footer("Total", strconv.FormatInt(count, 10), total.StringFixed(0))
	return table.Render()
}

func renderOrders(w io.Writer, orders []domain.Order) error {
	table := tablewriter.NewWriter(w)
	table.Header("Order", "Date", "Status", "Items", "Total")

	for _, o := range orders {
		items := 0
		for _, it := range o.Items {
			items += it.Quantity
		}
		if err := table.Append(
			strconv.FormatInt(o.ID, 10),
			o.OrderDate.Format(time.DateTime),
			string(o.Status),
			strconv.Itoa(items),
			o.TotalAmount.StringFixed(0),
		); err != nil {
			return err
		}
	}
	return table.Render()
}
