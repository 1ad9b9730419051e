package reporting

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/imscloud/ims/internal/domain/fields"
	"github.com/imscloud/ims/internal/domain/models"
)

// NoRecordsMessage is attached to reports without rows.
const NoRecordsMessage = "No Records Found"

const (
	fieldQuantity = "quantity"
	fieldTotal    = "total"
	fieldPaid     = "paid"
)

// Category tags used by the presentation layer to colour summary cards.
const (
	CategoryBlue   = "blue"
	CategoryOrange = "orange"
	CategoryGreen  = "green"
	CategoryRed    = "red"
)

var reportColumns = map[models.ReportType][]string{
	models.ReportSales:    {"Date", "Customer", "Item", "Qty", "Price", "Total", "Mode"},
	models.ReportPurchase: {"Date", "Vendor", "Item", "Qty", "Total", "Balance"},
	models.ReportExpenses: {"Date", "Title", "Desc", "Amount", "Mode"},
	models.ReportVendor:   {"Vendor Name", "Items Qty", "Total Amount", "Amount Paid"},
	models.ReportItem:     {"Item Name", "Qty Sold", "Revenue Generated"},
}

var reportLabels = map[models.ReportType]string{
	models.ReportSales:    "Sales Report",
	models.ReportPurchase: "Purchase Report",
	models.ReportExpenses: "Expense Report",
	models.ReportVendor:   "Vendor Report",
	models.ReportItem:     "Item Report",
}

var frequencyLabels = map[models.Frequency]string{
	models.FrequencyDaily:   "Daily",
	models.FrequencyWeekly:  "Weekly",
	models.FrequencyMonthly: "Monthly",
}

// ParseReportType validates a report type name.
func ParseReportType(value string) (models.ReportType, error) {
	t := models.ReportType(strings.ToLower(strings.TrimSpace(value)))
	if _, ok := reportColumns[t]; !ok {
		return "", unsupportedType(value)
	}
	return t, nil
}

// Dataset is the set of collections a report is computed from.
type Dataset struct {
	Inventory []models.InventoryRecord
	Sales     []models.SaleRecord
	Expenses  []models.ExpenseRecord
}

// BuildReport filters, aggregates and renders a report from already fetched collections.
// The request must have been validated.
func BuildReport(req models.ReportRequest, data Dataset, f Formatter) *models.Report {
	return renderReport(req, filterDataset(req, data), f)
}

// filterDataset keeps the records inside the requested window. A vendor drill-down also
// restricts purchases to that vendor.
func filterDataset(req models.ReportRequest, data Dataset) Dataset {
	var out Dataset
	switch req.Type {
	case models.ReportSales, models.ReportItem:
		out.Sales = FilterByDate(data.Sales, saleDate, req.Frequency, req.TargetDate)
	case models.ReportExpenses:
		out.Expenses = FilterByDate(data.Expenses, expenseDate, req.Frequency, req.TargetDate)
	case models.ReportPurchase:
		out.Inventory = FilterByDate(data.Inventory, inventoryDate, req.Frequency, req.TargetDate)
	case models.ReportVendor:
		inventory := data.Inventory
		if vendor := strings.TrimSpace(req.Vendor); vendor != "" {
			inventory = make([]models.InventoryRecord, 0, len(data.Inventory))
			for _, record := range data.Inventory {
				if record.Vendor == vendor {
					inventory = append(inventory, record)
				}
			}
		}
		out.Inventory = FilterByDate(inventory, inventoryDate, req.Frequency, req.TargetDate)
	}
	return out
}

// renderReport aggregates filtered records and lays out summary, columns and rows.
func renderReport(req models.ReportRequest, data Dataset, f Formatter) *models.Report {
	vendor := strings.TrimSpace(req.Vendor)
	layout := req.Type
	if req.Type == models.ReportVendor && vendor != "" {
		layout = models.ReportPurchase
	}

	report := &models.Report{
		Type:       req.Type,
		Frequency:  req.Frequency,
		TargetDate: req.TargetDate.Format(models.DateLayout),
		Title:      reportTitle(req, vendor),
		Columns:    append([]string(nil), reportColumns[layout]...),
		Rows:       [][]string{},
	}
	if req.Type == models.ReportVendor {
		report.Vendor = vendor
	}

	switch layout {
	case models.ReportSales:
		report.Detail.Sales = data.Sales
		report.Summary = salesSummary(data.Sales, f)
		for _, s := range data.Sales {
			report.Rows = append(report.Rows, []string{
				orPlaceholder(s.DateKey()), orPlaceholder(s.CustomerName), orPlaceholder(s.ItemName),
				s.Quantity.String(), s.UnitPrice.String(), s.Total.String(), orPlaceholder(s.PaymentMode),
			})
		}
	case models.ReportPurchase:
		report.Detail.Purchases = data.Inventory
		report.Summary = purchaseSummary(data.Inventory, f)
		for _, p := range data.Inventory {
			report.Rows = append(report.Rows, []string{
				orPlaceholder(p.DateKey()), orPlaceholder(p.Vendor), orPlaceholder(p.ItemName),
				p.Quantity.String(), p.Total.String(), p.Balance.String(),
			})
		}
	case models.ReportExpenses:
		report.Detail.Expenses = data.Expenses
		report.Summary = expenseSummary(data.Expenses, f)
		for _, e := range data.Expenses {
			report.Rows = append(report.Rows, []string{
				orPlaceholder(e.DateKey()), orPlaceholder(e.Title), orPlaceholder(e.Description),
				e.Amount.String(), orPlaceholder(e.PaymentMode),
			})
		}
	case models.ReportVendor:
		vendors := VendorAggregates(data.Inventory)
		report.Detail.Vendors = vendors
		report.Summary = vendorSummary(vendors, f)
		for _, v := range vendors {
			report.Rows = append(report.Rows, []string{
				v.VendorName, v.ItemCount.String(), f.Currency(v.TotalAmount), f.Currency(v.TotalPaid),
			})
		}
	case models.ReportItem:
		items := ItemAggregates(data.Sales)
		report.Detail.Items = items
		report.Summary = itemSummary(items, f)
		for _, it := range items {
			report.Rows = append(report.Rows, []string{
				it.ItemName, it.QuantitySold.String(), f.Currency(it.Revenue),
			})
		}
	}

	if len(report.Rows) == 0 {
		report.Empty = true
		report.Message = NoRecordsMessage
	}
	return report
}

// VendorAggregates groups purchases by vendor, ordered by vendor name.
func VendorAggregates(purchases []models.InventoryRecord) []models.VendorAggregate {
	groups := AggregateByKey(purchases, func(p models.InventoryRecord) string { return p.Vendor },
		SumField[models.InventoryRecord]{Name: fieldQuantity, Value: func(p models.InventoryRecord) decimal.Decimal { return p.Quantity }},
		SumField[models.InventoryRecord]{Name: fieldTotal, Value: func(p models.InventoryRecord) decimal.Decimal { return p.Total }},
		SumField[models.InventoryRecord]{Name: fieldPaid, Value: func(p models.InventoryRecord) decimal.Decimal { return p.PaidAmount }},
	)
	sorted := groups.Sorted(func(x, y *Aggregate) bool {
		return strings.ToLower(x.Key) < strings.ToLower(y.Key)
	})

	out := make([]models.VendorAggregate, 0, len(sorted))
	for _, g := range sorted {
		out = append(out, models.VendorAggregate{
			VendorName:  g.Key,
			ItemCount:   g.Sum(fieldQuantity),
			TotalAmount: g.Sum(fieldTotal),
			TotalPaid:   g.Sum(fieldPaid),
		})
	}
	return out
}

// ItemAggregates groups sales by item name, highest revenue first.
func ItemAggregates(sales []models.SaleRecord) []models.ItemAggregate {
	groups := AggregateByKey(sales, func(s models.SaleRecord) string { return s.ItemName },
		SumField[models.SaleRecord]{Name: fieldQuantity, Value: func(s models.SaleRecord) decimal.Decimal { return s.Quantity }},
		SumField[models.SaleRecord]{Name: fieldTotal, Value: func(s models.SaleRecord) decimal.Decimal { return s.Total }},
	)
	sorted := groups.Sorted(func(x, y *Aggregate) bool {
		return x.Sum(fieldTotal).GreaterThan(y.Sum(fieldTotal))
	})

	out := make([]models.ItemAggregate, 0, len(sorted))
	for _, g := range sorted {
		out = append(out, models.ItemAggregate{
			ItemName:     g.Key,
			QuantitySold: g.Sum(fieldQuantity),
			Revenue:      g.Sum(fieldTotal),
		})
	}
	return out
}

func salesSummary(sales []models.SaleRecord, f Formatter) []models.SummaryStat {
	var total, cash decimal.Decimal
	for _, s := range sales {
		total = total.Add(s.Total)
		if strings.EqualFold(strings.TrimSpace(s.PaymentMode), "cash") {
			cash = cash.Add(s.Total)
		}
	}
	return []models.SummaryStat{
		moneyStat("totalSales", "Total Sales", total, CategoryBlue, f),
		countStat("transactions", "Transactions", len(sales), CategoryOrange),
		moneyStat("cashSales", "Cash Sales", cash, CategoryGreen, f),
	}
}

func purchaseSummary(purchases []models.InventoryRecord, f Formatter) []models.SummaryStat {
	var total, balance decimal.Decimal
	for _, p := range purchases {
		total = total.Add(p.Total)
		balance = balance.Add(p.Balance)
	}
	return []models.SummaryStat{
		moneyStat("totalPurchases", "Total Purchases", total, CategoryBlue, f),
		countStat("itemsPurchased", "Items Purchased", len(purchases), CategoryOrange),
		moneyStat("unpaidBalance", "Unpaid Balance", balance, CategoryRed, f),
	}
}

func expenseSummary(expenses []models.ExpenseRecord, f Formatter) []models.SummaryStat {
	var total decimal.Decimal
	for _, e := range expenses {
		total = total.Add(e.Amount)
	}
	return []models.SummaryStat{
		moneyStat("totalExpenses", "Total Expenses", total, CategoryRed, f),
		countStat("count", "Count", len(expenses), CategoryOrange),
	}
}

func vendorSummary(vendors []models.VendorAggregate, f Formatter) []models.SummaryStat {
	var total decimal.Decimal
	for _, v := range vendors {
		total = total.Add(v.TotalAmount)
	}
	return []models.SummaryStat{
		moneyStat("totalPurchased", "Total Purchased", total, CategoryBlue, f),
		countStat("activeVendors", "Active Vendors", len(vendors), CategoryGreen),
	}
}

func itemSummary(items []models.ItemAggregate, f Formatter) []models.SummaryStat {
	var revenue, units decimal.Decimal
	for _, it := range items {
		revenue = revenue.Add(it.Revenue)
		units = units.Add(it.QuantitySold)
	}
	return []models.SummaryStat{
		moneyStat("totalRevenue", "Total Revenue", revenue, CategoryBlue, f),
		{Key: "unitsSold", Label: "Units Sold", Value: units, Display: f.Number(units), Category: CategoryOrange},
	}
}

func moneyStat(key, label string, value decimal.Decimal, category string, f Formatter) models.SummaryStat {
	return models.SummaryStat{Key: key, Label: label, Value: value, Display: f.Currency(value), Category: category}
}

func countStat(key, label string, count int, category string) models.SummaryStat {
	value := decimal.NewFromInt(int64(count))
	return models.SummaryStat{Key: key, Label: label, Value: value, Display: value.String(), Category: category}
}

func reportTitle(req models.ReportRequest, vendor string) string {
	if req.Type == models.ReportVendor && vendor != "" {
		return vendor + " " + reportLabels[req.Type]
	}
	return frequencyLabels[req.Frequency] + " " + reportLabels[req.Type]
}

func orPlaceholder(value string) string {
	if strings.TrimSpace(value) == "" {
		return fields.Placeholder
	}
	return value
}
