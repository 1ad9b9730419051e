package models

import (
	"maps"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the calendar-day layout used for record dates across the service.
const DateLayout = "2006-01-02"

// Collection names one of the record sets exposed by a data source.
type Collection string

const (
	CollectionInventory Collection = "inventory"
	CollectionSales     Collection = "sales"
	CollectionExpenses  Collection = "expenses"
)

// Collections lists every collection a data source is expected to serve.
var Collections = []Collection{CollectionInventory, CollectionSales, CollectionExpenses}

// InventoryRecord captures one purchase batch entered on the inventory sheet.
type InventoryRecord struct {
	ID           string            `json:"id"`
	Date         time.Time         `json:"date"`
	Category     string            `json:"category"`
	Vendor       string            `json:"vendor"`
	ItemName     string            `json:"itemName"`
	Brand        string            `json:"brand"`
	Model        string            `json:"model"`
	Quantity     decimal.Decimal   `json:"quantity"`
	UnitPrice    decimal.Decimal   `json:"unitPrice"`
	Total        decimal.Decimal   `json:"total"`
	PaidAmount   decimal.Decimal   `json:"paidAmount"`
	Balance      decimal.Decimal   `json:"balance"`
	PaymentMode  string            `json:"paymentMode"`
	CustomFields map[string]string `json:"customFields,omitempty"`
}

// Clone returns a deep copy of the record.
func (r InventoryRecord) Clone() InventoryRecord {
	out := r
	if r.CustomFields != nil {
		out.CustomFields = maps.Clone(r.CustomFields)
	}
	return out
}

// DateKey returns the record date as YYYY-MM-DD, or an empty string when unknown.
func (r InventoryRecord) DateKey() string { return dateKey(r.Date) }

// SaleRecord captures a sales transaction.
type SaleRecord struct {
	Date         time.Time       `json:"date"`
	CustomerName string          `json:"customerName"`
	ItemName     string          `json:"itemName"`
	Quantity     decimal.Decimal `json:"quantity"`
	UnitPrice    decimal.Decimal `json:"unitPrice"`
	Total        decimal.Decimal `json:"total"`
	PaidAmount   decimal.Decimal `json:"paidAmount"`
	Balance      decimal.Decimal `json:"balance"`
	PaymentMode  string          `json:"paymentMode"`
	SalesUser    string          `json:"salesUser"`
}

// DateKey returns the sale date as YYYY-MM-DD, or an empty string when unknown.
func (r SaleRecord) DateKey() string { return dateKey(r.Date) }

// ExpenseRecord captures operating expenses.
type ExpenseRecord struct {
	Date        time.Time       `json:"date"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	PaymentMode string          `json:"paymentMode"`
}

// DateKey returns the expense date as YYYY-MM-DD, or an empty string when unknown.
func (r ExpenseRecord) DateKey() string { return dateKey(r.Date) }

func dateKey(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DateLayout)
}
