package fields

import "github.com/imscloud/ims/internal/domain/models"

// DecodeInventory converts raw inventory rows into typed records.
func DecodeInventory(rows []Row) []models.InventoryRecord {
	out := make([]models.InventoryRecord, 0, len(rows))
	for _, row := range rows {
		r := Resolve(row)
		record := models.InventoryRecord{
			ID:          r.Text(ID),
			Date:        r.Date(Date),
			Category:    r.Text(Category),
			Vendor:      r.Text(Vendor),
			ItemName:    r.Text(ItemName),
			Brand:       r.Text(Brand),
			Model:       r.Text(Model),
			Quantity:    r.Number(Quantity),
			UnitPrice:   r.Number(UnitPrice),
			Total:       r.Number(Total),
			PaidAmount:  r.Number(Paid),
			Balance:     r.Number(Balance),
			PaymentMode: r.Text(PaymentMode),
		}
		record.CustomFields = r.Remaining()
		out = append(out, record)
	}
	return out
}

// DecodeSales converts raw sales rows into typed records.
func DecodeSales(rows []Row) []models.SaleRecord {
	out := make([]models.SaleRecord, 0, len(rows))
	for _, row := range rows {
		r := Resolve(row)
		out = append(out, models.SaleRecord{
			Date:         r.Date(Date),
			CustomerName: r.Text(Customer),
			ItemName:     r.Text(ItemName),
			Quantity:     r.Number(Quantity),
			UnitPrice:    r.Number(UnitPrice),
			Total:        r.Number(Total),
			PaidAmount:   r.Number(Paid),
			Balance:      r.Number(Balance),
			PaymentMode:  r.Text(PaymentMode),
			SalesUser:    r.Text(SalesUser),
		})
	}
	return out
}

// DecodeExpenses converts raw expense rows into typed records.
func DecodeExpenses(rows []Row) []models.ExpenseRecord {
	out := make([]models.ExpenseRecord, 0, len(rows))
	for _, row := range rows {
		r := Resolve(row)
		out = append(out, models.ExpenseRecord{
			Date:        r.Date(Date),
			Title:       r.Text(Title),
			Description: r.Text(Description),
			Amount:      r.Number(Amount),
			PaymentMode: r.Text(PaymentMode),
		})
	}
	return out
}
