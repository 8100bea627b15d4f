// Package report renders the derived-metrics calculations into CSV and
// plain-text files for batch consumption. All numbers come from the service
// layer; this package only formats them.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"go-stocktrack/internal/config"
	"go-stocktrack/internal/model"
	"go-stocktrack/internal/service"

	"github.com/shopspring/decimal"
)

func decimalFromInt(n int) decimal.Decimal {
	return decimal.NewFromInt(int64(n))
}

type Generator struct {
	inventory service.InventoryService
	reports   service.ReportService
	cfg       config.Config
	now       func() time.Time
}

func NewGenerator(inv service.InventoryService, rep service.ReportService, cfg config.Config) *Generator {
	return NewGeneratorWithNow(inv, rep, cfg, time.Now)
}

func NewGeneratorWithNow(inv service.InventoryService, rep service.ReportService, cfg config.Config, now func() time.Time) *Generator {
	return &Generator{inventory: inv, reports: rep, cfg: cfg, now: now}
}

// Generate writes every report into outDir with timestamped filenames and
// returns the paths written.
func (g *Generator) Generate(outDir string) ([]string, error) {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("create reports dir: %w", err)
	}
	stamp := g.now().Format("20060102_150405")

	writers := []struct {
		name  string
		write func(io.Writer) error
	}{
		{fmt.Sprintf("low_stock_report_%s.csv", stamp), g.WriteLowStock},
		{fmt.Sprintf("inventory_value_report_%s.csv", stamp), g.WriteInventoryValue},
		{fmt.Sprintf("transaction_report_%s.csv", stamp), g.WriteTransactions},
		{fmt.Sprintf("sales_trend_report_%s.csv", stamp), g.WriteSalesTrend},
		{fmt.Sprintf("category_performance_report_%s.csv", stamp), g.WriteCategoryPerformance},
		{fmt.Sprintf("reorder_recommendation_report_%s.csv", stamp), g.WriteReorderRecommendations},
		{fmt.Sprintf("summary_report_%s.txt", stamp), g.WriteSummary},
	}

	var paths []string
	for _, w := range writers {
		path := filepath.Join(outDir, w.name)
		f, err := os.Create(path)
		if err != nil {
			return paths, fmt.Errorf("create %s: %w", w.name, err)
		}
		err = w.write(f)
		if closeErr := f.Close(); err == nil {
			err = closeErr
		}
		if err != nil {
			return paths, fmt.Errorf("write %s: %w", w.name, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func (g *Generator) categoryName(names map[string]string, id string) string {
	if name, ok := names[id]; ok {
		return name
	}
	return "Unknown"
}

func (g *Generator) categoryNames() (map[string]string, error) {
	categories, err := g.inventory.GetAllCategories()
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(categories))
	for _, c := range categories {
		names[c.ID] = c.Name
	}
	return names, nil
}

func (g *Generator) WriteLowStock(w io.Writer) error {
	items, err := g.reports.LowStockReport(g.cfg.LowStockThreshold, g.cfg.CriticalThreshold)
	if err != nil {
		return err
	}
	names, err := g.categoryNames()
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Product ID", "Name", "Category", "Current Quantity", "Alert Threshold", "Status"}); err != nil {
		return err
	}
	for _, item := range items {
		p := item.Product
		if err := cw.Write([]string{
			p.ID,
			p.Name,
			g.categoryName(names, p.Category),
			strconv.Itoa(p.Quantity),
			strconv.Itoa(g.cfg.LowStockThreshold),
			string(item.Status),
		}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func (g *Generator) WriteInventoryValue(w io.Writer) error {
	report, err := g.reports.InventoryValuation()
	if err != nil {
		return err
	}
	names, err := g.categoryNames()
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Category", "Product Count", "Total Items", "Total Value ($)", "Average Item Value ($)"}); err != nil {
		return err
	}
	for _, row := range report.Categories {
		if err := cw.Write([]string{
			g.categoryName(names, row.Category),
			strconv.Itoa(row.ProductCount),
			strconv.Itoa(row.ItemCount),
			row.TotalValue.StringFixed(2),
			row.AverageValue.StringFixed(2),
		}); err != nil {
			return err
		}
	}
	if err := cw.Write([]string{"", "", "", "", ""}); err != nil {
		return err
	}
	if err := cw.Write([]string{
		"Total",
		strconv.Itoa(report.ProductCount),
		strconv.Itoa(report.TotalItems),
		report.TotalValue.StringFixed(2),
		report.AveragePerUnit.StringFixed(2),
	}); err != nil {
		return err
	}
	cw.Flush()
	return cw.Error()
}

func (g *Generator) WriteTransactions(w io.Writer) error {
	transactions, err := g.inventory.GetTransactionHistory("")
	if err != nil {
		return err
	}
	products, err := g.inventory.GetAllProducts()
	if err != nil {
		return err
	}
	productNames := make(map[string]string, len(products))
	for _, p := range products {
		productNames[p.ID] = p.Name
	}

	end := g.now()
	start := end.AddDate(0, 0, -g.cfg.UsageWindowDays)
	var recent []model.Transaction
	for _, t := range transactions {
		if t.Timestamp.Before(start) || t.Timestamp.After(end) {
			continue
		}
		recent = append(recent, t)
	}
	sort.Slice(recent, func(i, j int) bool { return recent[i].Timestamp.After(recent[j].Timestamp) })

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Date", "Product ID", "Product Name", "Type", "Quantity", "Note"}); err != nil {
		return err
	}
	for _, t := range recent {
		name, ok := productNames[t.ProductID]
		if !ok {
			name = "Unknown"
		}
		typeStr := "Addition"
		if t.Type == model.TxOut {
			typeStr = "Removal"
		}
		if err := cw.Write([]string{
			t.Timestamp.Format("2006-01-02 15:04"),
			t.ProductID,
			name,
			typeStr,
			strconv.Itoa(t.Quantity),
			t.Note,
		}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func (g *Generator) WriteSalesTrend(w io.Writer) error {
	trend, err := g.reports.SalesTrend(g.cfg.UsageWindowDays)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(append([]string{"Date"}, trend.Products...)); err != nil {
		return err
	}
	for _, day := range trend.Days {
		row := []string{day}
		for _, product := range trend.Products {
			row = append(row, strconv.Itoa(trend.Quantities[day][product]))
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func (g *Generator) WriteCategoryPerformance(w io.Writer) error {
	report, err := g.reports.CategoryPerformance(g.cfg.UsageWindowDays)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Category", "Units Sold", "Revenue", "Average Price"}); err != nil {
		return err
	}
	for _, row := range report.Rows {
		if err := cw.Write([]string{
			row.Category,
			strconv.Itoa(row.Units),
			"$" + row.Revenue.StringFixed(2),
			"$" + row.AveragePrice.StringFixed(2),
		}); err != nil {
			return err
		}
	}
	if err := cw.Write([]string{"", "", "", ""}); err != nil {
		return err
	}
	avg := "0.00"
	if report.TotalUnits > 0 {
		avg = report.TotalRevenue.DivRound(decimalFromInt(report.TotalUnits), 2).StringFixed(2)
	}
	if err := cw.Write([]string{
		"Total",
		strconv.Itoa(report.TotalUnits),
		"$" + report.TotalRevenue.StringFixed(2),
		"$" + avg,
	}); err != nil {
		return err
	}
	cw.Flush()
	return cw.Error()
}

func (g *Generator) WriteReorderRecommendations(w io.Writer) error {
	items, err := g.reports.ReorderRecommendations(g.cfg.LowStockThreshold, g.cfg.UsageWindowDays)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Product ID", "Name", "Current Quantity", "Daily Usage", "Days to Stockout", "Recommended Order Quantity", "Priority"}); err != nil {
		return err
	}
	for _, item := range items {
		if err := cw.Write([]string{
			item.Product.ID,
			item.Product.Name,
			strconv.Itoa(item.Product.Quantity),
			fmt.Sprintf("%.2f", item.DailyUsage),
			strconv.Itoa(item.DaysToStockout),
			strconv.Itoa(item.RecommendedOrder),
			string(item.Priority),
		}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func (g *Generator) WriteSummary(w io.Writer) error {
	summary, err := g.reports.Summary(g.cfg.UsageWindowDays, g.cfg.LowStockThreshold)
	if err != nil {
		return err
	}
	names, err := g.categoryNames()
	if err != nil {
		return err
	}

	fmt.Fprintln(w, "=== INVENTORY SUMMARY REPORT ===")
	fmt.Fprintf(w, "Generated: %s\n\n", summary.GeneratedAt.Format("2006-01-02 15:04:05"))

	fmt.Fprintln(w, "--- INVENTORY OVERVIEW ---")
	fmt.Fprintf(w, "Total Products: %d\n", summary.TotalProducts)
	fmt.Fprintf(w, "Total Categories: %d\n", summary.TotalCategories)
	fmt.Fprintf(w, "Total Inventory Value: $%s\n", summary.TotalValue.StringFixed(2))
	fmt.Fprintf(w, "Low Stock Items: %d\n\n", summary.LowStockCount)

	fmt.Fprintf(w, "--- %d-DAY TRANSACTION SUMMARY ---\n", g.cfg.UsageWindowDays)
	fmt.Fprintf(w, "Total Transactions: %d\n", summary.TransactionCount)
	fmt.Fprintf(w, "Items Added to Inventory: %d\n", summary.ItemsAdded)
	fmt.Fprintf(w, "Items Removed from Inventory: %d\n", summary.ItemsRemoved)
	fmt.Fprintf(w, "Sales Value: $%s\n\n", summary.SalesValue.StringFixed(2))

	fmt.Fprintln(w, "--- TOP CATEGORIES BY SALES ---")
	for i, top := range summary.TopCategories {
		fmt.Fprintf(w, "%d. %s: $%s\n", i+1, g.categoryName(names, top.Category), top.Value.StringFixed(2))
	}
	return nil
}
