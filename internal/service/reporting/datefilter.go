package reporting

import (
	"fmt"
	"strings"
	"time"

	"github.com/imscloud/ims/internal/domain/fields"
	"github.com/imscloud/ims/internal/domain/models"
)

// ParseFrequency validates a frequency name.
func ParseFrequency(value string) (models.Frequency, error) {
	switch f := models.Frequency(strings.ToLower(strings.TrimSpace(value))); f {
	case models.FrequencyDaily, models.FrequencyWeekly, models.FrequencyMonthly:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFrequency, value)
	}
}

// Matches reports whether recordDate falls in the same daily, ISO-weekly or monthly window
// as target. Both dates are compared as calendar days; a zero record date never matches.
func Matches(recordDate time.Time, frequency models.Frequency, target time.Time) bool {
	if recordDate.IsZero() || target.IsZero() {
		return false
	}

	day := fields.Midnight(recordDate)
	ref := fields.Midnight(target)

	switch frequency {
	case models.FrequencyDaily:
		return day.Equal(ref)
	case models.FrequencyWeekly:
		year, week := day.ISOWeek()
		refYear, refWeek := ref.ISOWeek()
		return year == refYear && week == refWeek
	case models.FrequencyMonthly:
		return day.Year() == ref.Year() && day.Month() == ref.Month()
	default:
		return false
	}
}

// FilterByDate returns the records whose date matches target for the given frequency,
// in their original order.
func FilterByDate[T any](records []T, dateOf func(T) time.Time, frequency models.Frequency, target time.Time) []T {
	out := make([]T, 0, len(records))
	for _, record := range records {
		if Matches(dateOf(record), frequency, target) {
			out = append(out, record)
		}
	}
	return out
}

func saleDate(r models.SaleRecord) time.Time           { return r.Date }
func inventoryDate(r models.InventoryRecord) time.Time { return r.Date }
func expenseDate(r models.ExpenseRecord) time.Time     { return r.Date }
