package reporting

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/imscloud/ims/internal/domain/models"
)

const (
	// LowStockThreshold is the quantity at or below which an inventory line counts as low stock.
	LowStockThreshold = 5

	lowStockListLimit = 5
	topSellingLimit   = 3
)

var lowStockLimit = decimal.NewFromInt(LowStockThreshold)

// ComputeStats derives the dashboard cards from the raw inventory and sales collections.
// Sales today are those dated on the calendar day of now.
func ComputeStats(inventory []models.InventoryRecord, sales []models.SaleRecord, now time.Time) models.DashboardStats {
	stats := models.DashboardStats{
		LowStockItems:   make([]models.InventoryRecord, 0, lowStockListLimit),
		TopSellingItems: make([]models.TopSellingItem, 0, topSellingLimit),
	}

	for _, item := range inventory {
		stats.TotalValue = stats.TotalValue.Add(item.Total)
		stats.TotalProductQty = stats.TotalProductQty.Add(item.Quantity)

		if item.Quantity.LessThanOrEqual(lowStockLimit) {
			stats.LowStockCount++
			if len(stats.LowStockItems) < lowStockListLimit {
				stats.LowStockItems = append(stats.LowStockItems, item.Clone())
			}
		}
	}

	today := now.Format(models.DateLayout)
	for _, sale := range sales {
		if sale.DateKey() == today {
			stats.SalesToday = stats.SalesToday.Add(sale.Total)
		}
	}

	sold := AggregateByKey(sales, func(s models.SaleRecord) string { return s.ItemName },
		SumField[models.SaleRecord]{Name: fieldQuantity, Value: func(s models.SaleRecord) decimal.Decimal { return s.Quantity }})
	ranked := sold.Sorted(func(x, y *Aggregate) bool {
		return x.Sum(fieldQuantity).GreaterThan(y.Sum(fieldQuantity))
	})
	for _, group := range ranked {
		if len(stats.TopSellingItems) == topSellingLimit {
			break
		}
		stats.TopSellingItems = append(stats.TopSellingItems, models.TopSellingItem{
			ItemName: group.Key,
			Quantity: group.Sum(fieldQuantity),
		})
	}

	return stats
}

// BuildSnapshot converts dashboard figures into the persisted snapshot shape. Amounts are
// stored as Decimal128 so the snapshot stays exact.
func BuildSnapshot(stats models.DashboardStats, now time.Time) (models.DashboardSnapshot, error) {
	top := make([]string, 0, len(stats.TopSellingItems))
	for _, item := range stats.TopSellingItems {
		top = append(top, item.ItemName)
	}

	totalValue, err := toDecimal128(stats.TotalValue)
	if err != nil {
		return models.DashboardSnapshot{}, fmt.Errorf("total value: %w", err)
	}
	totalQty, err := toDecimal128(stats.TotalProductQty)
	if err != nil {
		return models.DashboardSnapshot{}, fmt.Errorf("total quantity: %w", err)
	}
	salesToday, err := toDecimal128(stats.SalesToday)
	if err != nil {
		return models.DashboardSnapshot{}, fmt.Errorf("sales today: %w", err)
	}

	year, month, day := now.Date()
	return models.DashboardSnapshot{
		Date:            time.Date(year, month, day, 0, 0, 0, 0, time.UTC),
		TotalValue:      totalValue,
		TotalProductQty: totalQty,
		LowStockCount:   stats.LowStockCount,
		SalesToday:      salesToday,
		TopSelling:      top,
		CreatedAt:       now.UTC(),
	}, nil
}

func toDecimal128(d decimal.Decimal) (primitive.Decimal128, error) {
	value, err := primitive.ParseDecimal128(d.String())
	if err != nil {
		return primitive.Decimal128{}, fmt.Errorf("convert %s to decimal128: %w", d.String(), err)
	}
	return value, nil
}

// FormatSummary renders dashboard figures as a short plain-text message.
func (f Formatter) FormatSummary(stats models.DashboardStats, now time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Inventory summary (%s)\n", now.Format(models.DateLayout))
	fmt.Fprintf(&b, "Stock value: %s\n", f.Currency(stats.TotalValue))
	fmt.Fprintf(&b, "Units in stock: %s\n", f.Number(stats.TotalProductQty))
	fmt.Fprintf(&b, "Sales today: %s\n", f.Currency(stats.SalesToday))
	fmt.Fprintf(&b, "Low stock lines: %d", stats.LowStockCount)

	if len(stats.TopSellingItems) > 0 {
		b.WriteString("\nTop sellers:")
		for i, item := range stats.TopSellingItems {
			fmt.Fprintf(&b, "\n%d. %s (%s sold)", i+1, item.ItemName, f.Number(item.Quantity))
		}
	}
	return b.String()
}
