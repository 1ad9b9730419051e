// Package fields resolves logical record attributes from raw source rows.
//
// Data sources name the same column differently: the spreadsheet uses headers such as
// "Item Name" while the web endpoint and the local mock use short keys such as "item".
// Each logical field lists its candidate keys in preference order and a row is resolved
// once, when it enters the service.
package fields

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/imscloud/ims/internal/domain/models"
)

// Placeholder is returned by String when no candidate key holds a value.
const Placeholder = "-"

// Row is one raw record as returned by a data source.
type Row map[string]any

// Field names a logical attribute and the keys it may be stored under, normalized key first.
type Field struct {
	Name string
	Keys []string
}

var (
	ID          = Field{Name: "id", Keys: []string{"id", "ID", "Id"}}
	Date        = Field{Name: "date", Keys: []string{"date", "Date"}}
	Category    = Field{Name: "category", Keys: []string{"category", "Category"}}
	Vendor      = Field{Name: "vendor", Keys: []string{"vendor", "Vendor"}}
	ItemName    = Field{Name: "itemName", Keys: []string{"item", "itemName", "item name", "Item Name", "name"}}
	Brand       = Field{Name: "brand", Keys: []string{"brand", "Brand"}}
	Model       = Field{Name: "model", Keys: []string{"model", "Model"}}
	Quantity    = Field{Name: "quantity", Keys: []string{"qty", "quantity", "Quantity"}}
	UnitPrice   = Field{Name: "unitPrice", Keys: []string{"price", "unitPrice", "Unit Price", "Price"}}
	Total       = Field{Name: "total", Keys: []string{"total", "Total", "Total Amount"}}
	Paid        = Field{Name: "paidAmount", Keys: []string{"paid", "paidAmount", "Paid", "Amount Paid"}}
	Balance     = Field{Name: "balance", Keys: []string{"balance", "Balance"}}
	PaymentMode = Field{Name: "paymentMode", Keys: []string{"mode", "paymentMode", "Mode", "Payment Mode"}}
	Customer    = Field{Name: "customerName", Keys: []string{"customer", "customerName", "Customer Name", "Customer"}}
	SalesUser   = Field{Name: "salesUser", Keys: []string{"user", "salesUser", "Sales User", "User"}}
	Title       = Field{Name: "title", Keys: []string{"title", "Title", "category", "Category"}}
	Description = Field{Name: "description", Keys: []string{"description", "desc", "Description"}}
	Amount      = Field{Name: "amount", Keys: []string{"amount", "Amount"}}
)

// sheetEpoch is day zero of spreadsheet date serials.
var sheetEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

// Slash layouts with day and month both numeric are left out: their order depends on the
// sheet locale.
var dateLayouts = []string{
	models.DateLayout,
	"2006/01/02",
	"2 Jan 2006",
	"Jan 2, 2006",
}

// Resolver reads logical fields from a single row and remembers which keys were consumed.
type Resolver struct {
	row  Row
	used map[string]struct{}
}

// Resolve wraps a row for field lookups.
func Resolve(row Row) *Resolver {
	return &Resolver{row: row, used: make(map[string]struct{})}
}

func (r *Resolver) lookup(f Field) (any, bool) {
	for _, key := range f.Keys {
		r.used[key] = struct{}{}
	}
	for _, key := range f.Keys {
		value, ok := r.row[key]
		if !ok || value == nil {
			continue
		}
		if s, isString := value.(string); isString && strings.TrimSpace(s) == "" {
			continue
		}
		return value, true
	}
	return nil, false
}

// Text returns the first present candidate as a trimmed string, or "" when none is set.
func (r *Resolver) Text(f Field) string {
	value, ok := r.lookup(f)
	if !ok {
		return ""
	}
	return FormatValue(value)
}

// String is Text with the display placeholder as default.
func (r *Resolver) String(f Field) string {
	if text := r.Text(f); text != "" {
		return text
	}
	return Placeholder
}

// Number returns the first present candidate as a decimal. Missing or non-numeric values are zero.
func (r *Resolver) Number(f Field) decimal.Decimal {
	value, ok := r.lookup(f)
	if !ok {
		return decimal.Zero
	}
	return ParseNumber(value)
}

// Date returns the calendar day of the first present candidate, or the zero time.
func (r *Resolver) Date(f Field) time.Time {
	value, ok := r.lookup(f)
	if !ok {
		return time.Time{}
	}
	return ParseDate(value)
}

// Remaining returns the non-blank values of keys no lookup has consumed yet.
func (r *Resolver) Remaining() map[string]string {
	var out map[string]string
	for key, value := range r.row {
		if _, consumed := r.used[key]; consumed || value == nil {
			continue
		}
		text := FormatValue(value)
		if text == "" {
			continue
		}
		if out == nil {
			out = make(map[string]string)
		}
		out[key] = text
	}
	return out
}

// FormatValue renders a raw cell value as text.
func FormatValue(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case json.Number:
		return v.String()
	case time.Time:
		if v.IsZero() {
			return ""
		}
		return v.Format(models.DateLayout)
	default:
		return strings.TrimSpace(fmt.Sprint(v))
	}
}

// ParseNumber coerces a raw cell value into a decimal, falling back to zero.
func ParseNumber(value any) decimal.Decimal {
	switch v := value.(type) {
	case nil:
		return decimal.Zero
	case decimal.Decimal:
		return v
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return decimal.Zero
		}
		return decimal.NewFromFloat(v)
	case float32:
		return ParseNumber(float64(v))
	case int:
		return decimal.NewFromInt(int64(v))
	case int64:
		return decimal.NewFromInt(v)
	case int32:
		return decimal.NewFromInt(int64(v))
	case bool:
		return decimal.Zero
	case json.Number:
		return parseNumberString(v.String())
	case string:
		return parseNumberString(v)
	default:
		return parseNumberString(fmt.Sprint(v))
	}
}

func parseNumberString(s string) decimal.Decimal {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, " ", "")
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// ParseDate extracts the calendar day of a raw cell value. Time-of-day and zone are dropped;
// anything unparseable yields the zero time.
func ParseDate(value any) time.Time {
	switch v := value.(type) {
	case time.Time:
		if v.IsZero() {
			return time.Time{}
		}
		return Midnight(v)
	case float64:
		return fromSerial(v)
	case int:
		return fromSerial(float64(v))
	case int64:
		return fromSerial(float64(v))
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return time.Time{}
		}
		return fromSerial(f)
	case string:
		return parseDateString(v)
	default:
		return parseDateString(FormatValue(value))
	}
}

// fromSerial converts a spreadsheet date serial (days since 1899-12-30, fraction is time of day).
func fromSerial(serial float64) time.Time {
	if math.IsNaN(serial) || math.IsInf(serial, 0) || serial < 1 || serial > 2958465 {
		return time.Time{}
	}
	return sheetEpoch.AddDate(0, 0, int(math.Floor(serial)))
}

func parseDateString(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	if len(s) > 10 && (s[10] == 'T' || s[10] == ' ') {
		if t, err := time.Parse(models.DateLayout, s[:10]); err == nil {
			return t
		}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return Midnight(t)
		}
	}
	return time.Time{}
}

// Midnight returns the calendar day of t as midnight UTC.
func Midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
