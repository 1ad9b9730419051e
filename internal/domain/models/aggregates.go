package models

import "github.com/shopspring/decimal"

// VendorAggregate summarises purchases made from one vendor.
type VendorAggregate struct {
	VendorName  string          `json:"vendorName"`
	ItemCount   decimal.Decimal `json:"itemCount"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	TotalPaid   decimal.Decimal `json:"totalPaid"`
}

// ItemAggregate summarises sales of one item.
type ItemAggregate struct {
	ItemName     string          `json:"itemName"`
	QuantitySold decimal.Decimal `json:"quantitySold"`
	Revenue      decimal.Decimal `json:"revenue"`
}

// StockBatch is a copy of an inventory record carrying the quantity left after sales.
type StockBatch struct {
	InventoryRecord
	Remaining decimal.Decimal `json:"remaining"`
}

// StockWarning flags a sale whose item name matched batches of several distinct items.
type StockWarning struct {
	SaleItem     string   `json:"saleItem"`
	MatchedNames []string `json:"matchedNames"`
}

// StockProjection is the available stock view after replaying sales against inventory.
type StockProjection struct {
	Batches  []StockBatch   `json:"batches"`
	Warnings []StockWarning `json:"warnings,omitempty"`
}

// TopSellingItem is one entry of the dashboard best-seller list.
type TopSellingItem struct {
	ItemName string          `json:"itemName"`
	Quantity decimal.Decimal `json:"quantity"`
}

// MonthlyTotal is one bar of the per-user monthly sales chart.
type MonthlyTotal struct {
	Label string          `json:"label"`
	Year  int             `json:"year"`
	Month int             `json:"month"`
	Total decimal.Decimal `json:"total"`
}

// TrendPoint is the summed amount of one calendar day.
type TrendPoint struct {
	Date  string          `json:"date"`
	Total decimal.Decimal `json:"total"`
}
