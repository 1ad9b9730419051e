package reporting

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/imscloud/ims/internal/domain/models"
)

func TestVendorNames(t *testing.T) {
	inventory := []models.InventoryRecord{
		purchase("", "interwood", "Chair", 1, 1, 1),
		purchase("", "Acme", "Desk", 1, 1, 1),
		purchase("", "", "Lamp", 1, 1, 1),
		purchase("", "Acme", "Lamp", 1, 1, 1),
		purchase("", "Brightline", "Lamp", 1, 1, 1),
	}
	require.Equal(t, []string{"Acme", "Brightline", "interwood"}, VendorNames(inventory))
	require.Empty(t, VendorNames(nil))
}

func TestMonthlySalesByUser(t *testing.T) {
	withUser := func(s models.SaleRecord, user string) models.SaleRecord {
		s.SalesUser = user
		return s
	}
	sales := []models.SaleRecord{
		withUser(sale("2026-02-10", "Chair", 1, 100, ""), "Admin"),
		withUser(sale("2026-02-20", "Desk", 1, 50, ""), "admin "),
		withUser(sale("2026-03-01", "Desk", 1, 70, ""), "other"),
		withUser(sale("2025-12-31", "Lamp", 1, 30, ""), "admin"),
		withUser(sale("", "Lamp", 1, 99, ""), "admin"),
	}

	got := MonthlySalesByUser(sales, "admin", 2026)

	require.Len(t, got, 13)
	require.Equal(t, "Dec 2025", got[0].Label)
	require.True(t, got[0].Total.Equal(dec(30)))
	require.Equal(t, "Jan 2026", got[1].Label)
	require.True(t, got[1].Total.IsZero())
	require.Equal(t, "Feb 2026", got[2].Label)
	require.True(t, got[2].Total.Equal(dec(150)))
	require.True(t, got[3].Total.IsZero())
	require.Equal(t, "Dec 2026", got[12].Label)
}

func TestDailyTrendWindows(t *testing.T) {
	sales := []models.SaleRecord{
		sale("2026-02-20", "Chair", 1, 100, ""),
		sale("2026-02-20", "Desk", 1, 50, ""),
		sale("2026-02-14", "Desk", 1, 10, ""),
		sale("2026-02-12", "Desk", 1, 5, ""),
		sale("2026-02-01", "Lamp", 1, 7, ""),
		sale("2026-01-31", "Lamp", 1, 3, ""),
		sale("2026-02-21", "Lamp", 1, 1000, ""),
		sale("", "Lamp", 1, 1, ""),
	}
	total := func(s models.SaleRecord) decimal.Decimal { return s.Total }
	now := time.Date(2026, 2, 20, 15, 0, 0, 0, time.UTC)

	dayPoints := DailyTrend(sales, saleDate, total, WindowDay, now)
	require.Len(t, dayPoints, 1)
	require.Equal(t, "2026-02-20", dayPoints[0].Date)
	require.True(t, dayPoints[0].Total.Equal(dec(150)))

	week := DailyTrend(sales, saleDate, total, WindowWeek, now)
	require.Len(t, week, 2)
	require.Equal(t, "2026-02-14", week[0].Date)
	require.Equal(t, "2026-02-20", week[1].Date)

	month := DailyTrend(sales, saleDate, total, WindowMonth, now)
	dates := make([]string, 0, len(month))
	for _, p := range month {
		dates = append(dates, p.Date)
	}
	require.Equal(t, []string{"2026-02-01", "2026-02-12", "2026-02-14", "2026-02-20"}, dates)
}

func TestParseTrendWindowAndCollection(t *testing.T) {
	w, err := ParseTrendWindow("")
	require.NoError(t, err)
	require.Equal(t, WindowMonth, w)

	_, err = ParseTrendWindow("year")
	require.ErrorIs(t, err, ErrUnsupportedWindow)

	c, err := ParseCollection("Sales")
	require.NoError(t, err)
	require.Equal(t, models.CollectionSales, c)

	_, err = ParseCollection("banners")
	require.ErrorIs(t, err, ErrUnsupportedCollection)
}
