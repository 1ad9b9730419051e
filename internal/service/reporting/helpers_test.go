package reporting

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/shopspring/decimal"

	"github.com/imscloud/ims/internal/domain/models"
)

func day(value string) time.Time {
	t, err := time.Parse(models.DateLayout, value)
	if err != nil {
		panic(err)
	}
	return t
}

func dec(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}

func sale(date, item string, qty, total int64, mode string) models.SaleRecord {
	s := models.SaleRecord{ItemName: item, Quantity: dec(qty), Total: dec(total), PaymentMode: mode}
	if date != "" {
		s.Date = day(date)
	}
	return s
}

func purchase(date, vendor, item string, qty, total, paid int64) models.InventoryRecord {
	p := models.InventoryRecord{
		Vendor:     vendor,
		ItemName:   item,
		Quantity:   dec(qty),
		Total:      dec(total),
		PaidAmount: dec(paid),
		Balance:    dec(total - paid),
	}
	if date != "" {
		p.Date = day(date)
	}
	return p
}

type stubSource struct {
	inventory []models.InventoryRecord
	sales     []models.SaleRecord
	expenses  []models.ExpenseRecord
	err       error
	calls     atomic.Int32
}

func (s *stubSource) FetchInventory(context.Context) ([]models.InventoryRecord, error) {
	s.calls.Add(1)
	return s.inventory, s.err
}

func (s *stubSource) FetchSales(context.Context) ([]models.SaleRecord, error) {
	s.calls.Add(1)
	return s.sales, s.err
}

func (s *stubSource) FetchExpenses(context.Context) ([]models.ExpenseRecord, error) {
	s.calls.Add(1)
	return s.expenses, s.err
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}
