package reporting

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/imscloud/ims/internal/domain/fields"
	"github.com/imscloud/ims/internal/domain/models"
)

// TrendWindow selects how far back a daily trend reaches.
type TrendWindow string

const (
	WindowDay   TrendWindow = "day"
	WindowWeek  TrendWindow = "week"
	WindowMonth TrendWindow = "month"
)

// ParseTrendWindow validates a window name. Empty selects WindowMonth.
func ParseTrendWindow(value string) (TrendWindow, error) {
	switch w := TrendWindow(strings.ToLower(strings.TrimSpace(value))); w {
	case "":
		return WindowMonth, nil
	case WindowDay, WindowWeek, WindowMonth:
		return w, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedWindow, value)
	}
}

// ParseCollection validates a collection name.
func ParseCollection(value string) (models.Collection, error) {
	c := models.Collection(strings.ToLower(strings.TrimSpace(value)))
	for _, known := range models.Collections {
		if c == known {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedCollection, value)
}

var monthNames = [...]string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

// VendorNames returns the distinct non-empty vendor names, sorted case-insensitively.
func VendorNames(inventory []models.InventoryRecord) []string {
	seen := make(map[string]struct{})
	names := make([]string, 0)
	for _, record := range inventory {
		name := strings.TrimSpace(record.Vendor)
		if name == "" || name == fields.Placeholder {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	sort.SliceStable(names, func(i, j int) bool {
		return strings.ToLower(names[i]) < strings.ToLower(names[j])
	})
	return names
}

// MonthlySalesByUser buckets the sales of user per calendar month. All twelve months of
// year are present; months of other years the user sold in are added as extra buckets.
// Buckets are chronological. Undated sales are skipped.
func MonthlySalesByUser(sales []models.SaleRecord, user string, year int) []models.MonthlyTotal {
	type bucket struct{ year, month int }
	totals := make(map[bucket]decimal.Decimal)
	for m := 1; m <= 12; m++ {
		totals[bucket{year, m}] = decimal.Zero
	}

	user = strings.TrimSpace(user)
	for _, sale := range sales {
		if !strings.EqualFold(strings.TrimSpace(sale.SalesUser), user) || sale.Date.IsZero() {
			continue
		}
		key := bucket{sale.Date.Year(), int(sale.Date.Month())}
		totals[key] = totals[key].Add(sale.Total)
	}

	keys := make([]bucket, 0, len(totals))
	for k := range totals {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].year != keys[j].year {
			return keys[i].year < keys[j].year
		}
		return keys[i].month < keys[j].month
	})

	out := make([]models.MonthlyTotal, 0, len(keys))
	for _, k := range keys {
		out = append(out, models.MonthlyTotal{
			Label: fmt.Sprintf("%s %d", monthNames[k.month-1], k.year),
			Year:  k.year,
			Month: k.month,
			Total: totals[k],
		})
	}
	return out
}

// DailyTrend sums amountOf per calendar day for the records inside window, ending on the
// day of now. Days without records are omitted.
func DailyTrend[T any](records []T, dateOf func(T) time.Time, amountOf func(T) decimal.Decimal, window TrendWindow, now time.Time) []models.TrendPoint {
	today := fields.Midnight(now)
	var from time.Time
	switch window {
	case WindowDay:
		from = today
	case WindowWeek:
		from = today.AddDate(0, 0, -7)
	default:
		from = time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)
	}

	totals := make(map[time.Time]decimal.Decimal)
	for _, record := range records {
		d := dateOf(record)
		if d.IsZero() {
			continue
		}
		day := fields.Midnight(d)
		if day.Before(from) || day.After(today) {
			continue
		}
		totals[day] = totals[day].Add(amountOf(record))
	}

	days := make([]time.Time, 0, len(totals))
	for day := range totals {
		days = append(days, day)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	out := make([]models.TrendPoint, 0, len(days))
	for _, day := range days {
		out = append(out, models.TrendPoint{Date: day.Format(models.DateLayout), Total: totals[day]})
	}
	return out
}
