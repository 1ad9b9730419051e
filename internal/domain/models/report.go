package models

import (
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ReportType enumerates the supported report kinds.
type ReportType string

const (
	ReportSales    ReportType = "sales"
	ReportPurchase ReportType = "purchase"
	ReportExpenses ReportType = "expenses"
	ReportVendor   ReportType = "vendor"
	ReportItem     ReportType = "item"
)

// Frequency selects the calendar window a report covers around its target date.
type Frequency string

const (
	FrequencyDaily   Frequency = "daily"
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
)

// ReportRequest describes one report generation call.
type ReportRequest struct {
	Type       ReportType `json:"type" validate:"required,oneof=sales purchase expenses vendor item"`
	Frequency  Frequency  `json:"frequency" validate:"required,oneof=daily weekly monthly"`
	TargetDate time.Time  `json:"targetDate"`
	Vendor     string     `json:"vendor,omitempty"`
}

// SummaryStat is one headline figure shown above a report table.
type SummaryStat struct {
	Key      string          `json:"key"`
	Label    string          `json:"label"`
	Value    decimal.Decimal `json:"value"`
	Display  string          `json:"display"`
	Category string          `json:"category"`
}

// ReportDetail carries the typed rows behind a report. Only the slice matching the
// report type is populated.
type ReportDetail struct {
	Sales     []SaleRecord      `json:"sales,omitempty"`
	Purchases []InventoryRecord `json:"purchases,omitempty"`
	Expenses  []ExpenseRecord   `json:"expenses,omitempty"`
	Vendors   []VendorAggregate `json:"vendors,omitempty"`
	Items     []ItemAggregate   `json:"items,omitempty"`
}

// Report is the rendered result of a report request.
type Report struct {
	Type        ReportType    `json:"type"`
	Frequency   Frequency     `json:"frequency"`
	TargetDate  string        `json:"targetDate"`
	Vendor      string        `json:"vendor,omitempty"`
	Title       string        `json:"title"`
	Summary     []SummaryStat `json:"summary"`
	Columns     []string      `json:"columns"`
	Rows        [][]string    `json:"rows"`
	Empty       bool          `json:"empty"`
	Message     string        `json:"message,omitempty"`
	Detail      ReportDetail  `json:"detail"`
	GeneratedAt time.Time     `json:"generatedAt"`
}

// Stat returns the summary figure registered under key.
func (r *Report) Stat(key string) (SummaryStat, bool) {
	if r == nil {
		return SummaryStat{}, false
	}
	for _, stat := range r.Summary {
		if stat.Key == key {
			return stat, true
		}
	}
	return SummaryStat{}, false
}

// DashboardStats holds the roll-up figures of the dashboard cards.
type DashboardStats struct {
	TotalValue      decimal.Decimal   `json:"totalValue"`
	TotalProductQty decimal.Decimal   `json:"totalProductQty"`
	LowStockCount   int               `json:"lowStockCount"`
	LowStockItems   []InventoryRecord `json:"lowStockItems"`
	SalesToday      decimal.Decimal   `json:"salesToday"`
	TopSellingItems []TopSellingItem  `json:"topSellingItems"`
}

// DashboardSnapshot is the dashboard state persisted by the scheduled summary job.
type DashboardSnapshot struct {
	Date            time.Time            `bson:"date" json:"date"`
	TotalValue      primitive.Decimal128 `bson:"total_value" json:"total_value"`
	TotalProductQty primitive.Decimal128 `bson:"total_product_qty" json:"total_product_qty"`
	LowStockCount   int                  `bson:"low_stock_count" json:"low_stock_count"`
	SalesToday      primitive.Decimal128 `bson:"sales_today" json:"sales_today"`
	TopSelling      []string             `bson:"top_selling" json:"top_selling"`
	CreatedAt       time.Time            `bson:"created_at" json:"created_at"`
}
