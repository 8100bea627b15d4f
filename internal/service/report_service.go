package service

import (
	"sort"
	"time"

	"go-stocktrack/internal/model"
	"go-stocktrack/internal/store"

	"github.com/shopspring/decimal"
)

// StockoutSentinel stands in for "effectively never" when a product has no
// recorded usage; kept at 999 for compatibility with existing reports.
const StockoutSentinel = 999

type StockStatus string

const (
	StockCritical StockStatus = "CRITICAL"
	StockLow      StockStatus = "LOW"
)

type ReorderPriority string

const (
	PriorityHigh   ReorderPriority = "HIGH"
	PriorityMedium ReorderPriority = "MEDIUM"
	PriorityLow    ReorderPriority = "LOW"
)

type CategoryValuation struct {
	Category     string          `json:"category"`
	ProductCount int             `json:"product_count"`
	ItemCount    int             `json:"item_count"`
	TotalValue   decimal.Decimal `json:"total_value"`
	AverageValue decimal.Decimal `json:"average_value"`
}

type ValuationReport struct {
	Categories     []CategoryValuation `json:"categories"`
	ProductCount   int                 `json:"product_count"`
	TotalItems     int                 `json:"total_items"`
	TotalValue     decimal.Decimal     `json:"total_value"`
	AveragePerUnit decimal.Decimal     `json:"average_per_unit"`
}

type LowStockItem struct {
	Product model.Product `json:"product"`
	Status  StockStatus   `json:"status"`
}

type ReorderItem struct {
	Product          model.Product   `json:"product"`
	DailyUsage       float64         `json:"daily_usage"`
	DaysToStockout   int             `json:"days_to_stockout"`
	RecommendedOrder int             `json:"recommended_order"`
	Priority         ReorderPriority `json:"priority"`
}

type CategoryPerformanceRow struct {
	Category     string          `json:"category"`
	Units        int             `json:"units"`
	Revenue      decimal.Decimal `json:"revenue"`
	AveragePrice decimal.Decimal `json:"average_price"`
}

type CategoryPerformanceReport struct {
	Rows         []CategoryPerformanceRow `json:"rows"`
	TotalUnits   int                      `json:"total_units"`
	TotalRevenue decimal.Decimal          `json:"total_revenue"`
}

// StockMovementData aggregates one day of inbound/outbound movement for the
// dashboard chart.
type StockMovementData struct {
	Date     string `json:"date"`
	Inbound  int    `json:"inbound"`
	Outbound int    `json:"outbound"`
}

type DashboardStats struct {
	TotalProducts   int             `json:"total_products"`
	TotalCategories int             `json:"total_categories"`
	LowStockCount   int             `json:"low_stock_count"`
	TotalValuation  decimal.Decimal `json:"total_valuation"`
}

type SalesTrendReport struct {
	Days       []string                  `json:"days"`
	Products   []string                  `json:"products"`
	Quantities map[string]map[string]int `json:"quantities"`
}

type CategorySales struct {
	Category string          `json:"category"`
	Value    decimal.Decimal `json:"value"`
}

type SummaryReport struct {
	GeneratedAt      time.Time       `json:"generated_at"`
	TotalProducts    int             `json:"total_products"`
	TotalCategories  int             `json:"total_categories"`
	TotalValue       decimal.Decimal `json:"total_value"`
	LowStockCount    int             `json:"low_stock_count"`
	TransactionCount int             `json:"transaction_count"`
	ItemsAdded       int             `json:"items_added"`
	ItemsRemoved     int             `json:"items_removed"`
	SalesValue       decimal.Decimal `json:"sales_value"`
	TopCategories    []CategorySales `json:"top_categories"`
}

type ReportService interface {
	InventoryValuation() (*ValuationReport, error)
	LowStockReport(lowThreshold, criticalThreshold int) ([]LowStockItem, error)
	ReorderRecommendations(lowThreshold, windowDays int) ([]ReorderItem, error)
	CategoryPerformance(windowDays int) (*CategoryPerformanceReport, error)
	StockMovement(days int) ([]StockMovementData, error)
	DashboardStats(lowThreshold int) (*DashboardStats, error)
	SalesTrend(windowDays int) (*SalesTrendReport, error)
	Summary(windowDays, lowThreshold int) (*SummaryReport, error)
}

type reportService struct {
	store *store.Store
	now   func() time.Time
}

func NewReportService(st *store.Store) ReportService {
	return NewReportServiceWithNow(st, time.Now)
}

// NewReportServiceWithNow pins the clock, so windowed calculations are
// reproducible in tests and batch runs.
func NewReportServiceWithNow(st *store.Store, now func() time.Time) ReportService {
	return &reportService{store: st, now: now}
}

// StatusFor classifies a quantity against the two thresholds. The zero
// StockStatus means the product is adequately stocked.
func StatusFor(quantity, lowThreshold, criticalThreshold int) StockStatus {
	switch {
	case quantity <= criticalThreshold:
		return StockCritical
	case quantity <= lowThreshold:
		return StockLow
	default:
		return ""
	}
}

// DaysToStockout projects how many whole days of stock remain at the given
// daily usage rate.
func DaysToStockout(quantity int, dailyUsage float64) int {
	if dailyUsage <= 0 {
		return StockoutSentinel
	}
	return int(float64(quantity) / dailyUsage)
}

func PriorityFor(daysToStockout int) ReorderPriority {
	switch {
	case daysToStockout <= 7:
		return PriorityHigh
	case daysToStockout <= 14:
		return PriorityMedium
	default:
		return PriorityLow
	}
}

func (s *reportService) InventoryValuation() (*ValuationReport, error) {
	products, err := s.store.LoadProducts()
	if err != nil {
		return nil, err
	}

	byCategory := map[string]*CategoryValuation{}
	report := &ValuationReport{
		ProductCount: len(products),
		TotalValue:   decimal.Zero,
	}
	for _, p := range products {
		entry, ok := byCategory[p.Category]
		if !ok {
			entry = &CategoryValuation{Category: p.Category, TotalValue: decimal.Zero}
			byCategory[p.Category] = entry
		}
		value := p.Value()
		entry.ProductCount++
		entry.ItemCount += p.Quantity
		entry.TotalValue = entry.TotalValue.Add(value)
		report.TotalItems += p.Quantity
		report.TotalValue = report.TotalValue.Add(value)
	}

	for _, entry := range byCategory {
		if entry.ItemCount > 0 {
			entry.AverageValue = entry.TotalValue.Div(decimal.NewFromInt(int64(entry.ItemCount))).Round(2)
		} else {
			entry.AverageValue = decimal.Zero
		}
		report.Categories = append(report.Categories, *entry)
	}
	sort.Slice(report.Categories, func(i, j int) bool {
		return report.Categories[i].TotalValue.GreaterThan(report.Categories[j].TotalValue)
	})

	if report.TotalItems > 0 {
		report.AveragePerUnit = report.TotalValue.Div(decimal.NewFromInt(int64(report.TotalItems))).Round(2)
	} else {
		report.AveragePerUnit = decimal.Zero
	}
	return report, nil
}

// LowStockReport returns low-stock products sorted lowest quantity first,
// each tiered CRITICAL or LOW.
func (s *reportService) LowStockReport(lowThreshold, criticalThreshold int) ([]LowStockItem, error) {
	products, err := s.store.LoadProducts()
	if err != nil {
		return nil, err
	}
	var items []LowStockItem
	for _, p := range products {
		status := StatusFor(p.Quantity, lowThreshold, criticalThreshold)
		if status == "" {
			continue
		}
		items = append(items, LowStockItem{Product: p, Status: status})
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].Product.Quantity < items[j].Product.Quantity
	})
	return items, nil
}

// removalsSince returns OUT transactions with timestamps inside [start, now].
func (s *reportService) removalsSince(start time.Time) ([]model.Transaction, error) {
	transactions, err := s.store.LoadTransactions()
	if err != nil {
		return nil, err
	}
	end := s.now()
	var removals []model.Transaction
	for _, t := range transactions {
		if t.Type != model.TxOut {
			continue
		}
		if t.Timestamp.Before(start) || t.Timestamp.After(end) {
			continue
		}
		removals = append(removals, t)
	}
	return removals, nil
}

func (s *reportService) ReorderRecommendations(lowThreshold, windowDays int) ([]ReorderItem, error) {
	products, err := s.store.LoadProducts()
	if err != nil {
		return nil, err
	}
	start := s.now().AddDate(0, 0, -windowDays)
	removals, err := s.removalsSince(start)
	if err != nil {
		return nil, err
	}

	removedByProduct := map[string]int{}
	for _, t := range removals {
		removedByProduct[t.ProductID] += t.Quantity
	}

	var items []ReorderItem
	for _, p := range products {
		if p.Quantity > lowThreshold {
			continue
		}
		dailyUsage := float64(removedByProduct[p.ID]) / float64(windowDays)
		days := DaysToStockout(p.Quantity, dailyUsage)
		recommended := int(dailyUsage*float64(windowDays)) - p.Quantity
		if recommended < 0 {
			recommended = 0
		}
		items = append(items, ReorderItem{
			Product:          p,
			DailyUsage:       dailyUsage,
			DaysToStockout:   days,
			RecommendedOrder: recommended,
			Priority:         PriorityFor(days),
		})
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].DaysToStockout < items[j].DaysToStockout
	})
	return items, nil
}

// CategoryPerformance aggregates windowed removals by the product's current
// category; revenue uses the current price, not a historical snapshot.
func (s *reportService) CategoryPerformance(windowDays int) (*CategoryPerformanceReport, error) {
	products, err := s.store.LoadProducts()
	if err != nil {
		return nil, err
	}
	categories, err := s.store.LoadCategories()
	if err != nil {
		return nil, err
	}
	removals, err := s.removalsSince(s.now().AddDate(0, 0, -windowDays))
	if err != nil {
		return nil, err
	}

	productsByID := map[string]model.Product{}
	for _, p := range products {
		productsByID[p.ID] = p
	}
	categoryNames := map[string]string{}
	for _, c := range categories {
		categoryNames[c.ID] = c.Name
	}

	rows := map[string]*CategoryPerformanceRow{}
	report := &CategoryPerformanceReport{TotalRevenue: decimal.Zero}
	for _, t := range removals {
		product, ok := productsByID[t.ProductID]
		if !ok {
			continue
		}
		name, ok := categoryNames[product.Category]
		if !ok {
			name = "Unknown"
		}
		row, ok := rows[name]
		if !ok {
			row = &CategoryPerformanceRow{Category: name, Revenue: decimal.Zero}
			rows[name] = row
		}
		revenue := product.Price.Mul(decimal.NewFromInt(int64(t.Quantity)))
		row.Units += t.Quantity
		row.Revenue = row.Revenue.Add(revenue)
		report.TotalUnits += t.Quantity
		report.TotalRevenue = report.TotalRevenue.Add(revenue)
	}

	for _, row := range rows {
		if row.Units > 0 {
			row.AveragePrice = row.Revenue.Div(decimal.NewFromInt(int64(row.Units))).Round(2)
		} else {
			row.AveragePrice = decimal.Zero
		}
		report.Rows = append(report.Rows, *row)
	}
	sort.Slice(report.Rows, func(i, j int) bool {
		return report.Rows[i].Revenue.GreaterThan(report.Rows[j].Revenue)
	})
	return report, nil
}

func (s *reportService) StockMovement(days int) ([]StockMovementData, error) {
	transactions, err := s.store.LoadTransactions()
	if err != nil {
		return nil, err
	}
	end := s.now()
	start := end.AddDate(0, 0, -days)

	byDay := map[string]*StockMovementData{}
	for _, t := range transactions {
		if t.Timestamp.Before(start) || t.Timestamp.After(end) {
			continue
		}
		day := t.Timestamp.Format("2006-01-02")
		entry, ok := byDay[day]
		if !ok {
			entry = &StockMovementData{Date: day}
			byDay[day] = entry
		}
		if t.Type == model.TxIn {
			entry.Inbound += t.Quantity
		} else {
			entry.Outbound += t.Quantity
		}
	}

	var results []StockMovementData
	for _, entry := range byDay {
		results = append(results, *entry)
	}
	sort.Slice(results, func(i, j int) bool { return results[i].Date < results[j].Date })
	return results, nil
}

func (s *reportService) DashboardStats(lowThreshold int) (*DashboardStats, error) {
	products, err := s.store.LoadProducts()
	if err != nil {
		return nil, err
	}
	categories, err := s.store.LoadCategories()
	if err != nil {
		return nil, err
	}

	stats := &DashboardStats{
		TotalProducts:   len(products),
		TotalCategories: len(categories),
		TotalValuation:  decimal.Zero,
	}
	for _, p := range products {
		if p.Quantity <= lowThreshold {
			stats.LowStockCount++
		}
		stats.TotalValuation = stats.TotalValuation.Add(p.Value())
	}
	return stats, nil
}

func (s *reportService) SalesTrend(windowDays int) (*SalesTrendReport, error) {
	products, err := s.store.LoadProducts()
	if err != nil {
		return nil, err
	}
	removals, err := s.removalsSince(s.now().AddDate(0, 0, -windowDays))
	if err != nil {
		return nil, err
	}

	productNames := map[string]string{}
	for _, p := range products {
		productNames[p.ID] = p.Name
	}

	report := &SalesTrendReport{Quantities: map[string]map[string]int{}}
	seenProducts := map[string]bool{}
	for _, t := range removals {
		name, ok := productNames[t.ProductID]
		if !ok {
			name = "Unknown"
		}
		day := t.Timestamp.Format("2006-01-02")
		if report.Quantities[day] == nil {
			report.Quantities[day] = map[string]int{}
		}
		report.Quantities[day][name] += t.Quantity
		seenProducts[name] = true
	}

	for day := range report.Quantities {
		report.Days = append(report.Days, day)
	}
	sort.Strings(report.Days)
	for name := range seenProducts {
		report.Products = append(report.Products, name)
	}
	sort.Strings(report.Products)
	return report, nil
}

func (s *reportService) Summary(windowDays, lowThreshold int) (*SummaryReport, error) {
	products, err := s.store.LoadProducts()
	if err != nil {
		return nil, err
	}
	categories, err := s.store.LoadCategories()
	if err != nil {
		return nil, err
	}
	transactions, err := s.store.LoadTransactions()
	if err != nil {
		return nil, err
	}

	end := s.now()
	start := end.AddDate(0, 0, -windowDays)

	report := &SummaryReport{
		GeneratedAt:     end,
		TotalProducts:   len(products),
		TotalCategories: len(categories),
		TotalValue:      decimal.Zero,
		SalesValue:      decimal.Zero,
	}

	productsByID := map[string]model.Product{}
	for _, p := range products {
		productsByID[p.ID] = p
		report.TotalValue = report.TotalValue.Add(p.Value())
		if p.Quantity <= lowThreshold {
			report.LowStockCount++
		}
	}

	salesByCategory := map[string]decimal.Decimal{}
	for _, t := range transactions {
		if t.Timestamp.Before(start) || t.Timestamp.After(end) {
			continue
		}
		report.TransactionCount++
		if t.Type == model.TxIn {
			report.ItemsAdded += t.Quantity
			continue
		}
		report.ItemsRemoved += t.Quantity
		product, ok := productsByID[t.ProductID]
		if !ok {
			continue
		}
		value := product.Price.Mul(decimal.NewFromInt(int64(t.Quantity)))
		report.SalesValue = report.SalesValue.Add(value)
		current, ok := salesByCategory[product.Category]
		if !ok {
			current = decimal.Zero
		}
		salesByCategory[product.Category] = current.Add(value)
	}

	for category, value := range salesByCategory {
		report.TopCategories = append(report.TopCategories, CategorySales{Category: category, Value: value})
	}
	sort.Slice(report.TopCategories, func(i, j int) bool {
		return report.TopCategories[i].Value.GreaterThan(report.TopCategories[j].Value)
	})
	if len(report.TopCategories) > 5 {
		report.TopCategories = report.TopCategories[:5]
	}
	return report, nil
}
