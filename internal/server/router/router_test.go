package router

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/imscloud/ims/internal/domain/models"
	"github.com/imscloud/ims/internal/server/handlers"
	"github.com/imscloud/ims/internal/service/reporting"
	"github.com/imscloud/ims/internal/service/whatsapp"
)

type fakeSource struct {
	inventory []models.InventoryRecord
	sales     []models.SaleRecord
	err       error
}

func (f *fakeSource) FetchInventory(context.Context) ([]models.InventoryRecord, error) {
	return f.inventory, f.err
}

func (f *fakeSource) FetchSales(context.Context) ([]models.SaleRecord, error) {
	return f.sales, f.err
}

func (f *fakeSource) FetchExpenses(context.Context) ([]models.ExpenseRecord, error) {
	return nil, f.err
}

type fakeCache struct{ calls int }

func (f *fakeCache) Invalidate(context.Context) error {
	f.calls++
	return nil
}

type fakeMessenger struct{ sent []models.OutboundMessageRequest }

func (f *fakeMessenger) SendOutbound(_ context.Context, req models.OutboundMessageRequest) error {
	if req.To == "" {
		return whatsapp.ErrEmptyMessage
	}
	f.sent = append(f.sent, req)
	return nil
}

func date(s string) time.Time {
	t, _ := time.Parse(models.DateLayout, s)
	return t
}

func newTestEngine(src *fakeSource, cache handlers.CacheInvalidator, messenger whatsapp.MessagingService) *gin.Engine {
	svc := reporting.NewService(src, nil, reporting.Options{
		CurrencySymbol: "Rs.",
		Location:       time.UTC,
		Now:            func() time.Time { return time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC) },
	})
	h := Handlers{Reports: handlers.NewReportHandler(svc, cache, nil)}
	if messenger != nil {
		h.Notify = handlers.NewNotifyHandler(messenger, nil)
	}
	return New(h, gin.TestMode, nil)
}

func demoSource() *fakeSource {
	return &fakeSource{
		inventory: []models.InventoryRecord{
			{Date: date("2026-02-01"), Vendor: "Acme", ItemName: "Chair", Quantity: decimal.NewFromInt(10), Total: decimal.NewFromInt(1000)},
			{Date: date("2026-02-03"), Vendor: "Brightline", ItemName: "Lamp", Quantity: decimal.NewFromInt(3), Total: decimal.NewFromInt(90)},
		},
		sales: []models.SaleRecord{
			{Date: date("2026-02-10"), ItemName: "Chair", Quantity: decimal.NewFromInt(4), Total: decimal.NewFromInt(600), PaymentMode: "Cash", SalesUser: "admin"},
			{Date: date("2026-01-15"), ItemName: "Lamp", Quantity: decimal.NewFromInt(1), Total: decimal.NewFromInt(40), SalesUser: "admin"},
		},
	}
}

func do(t *testing.T, engine *gin.Engine, method, target string, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec
}

func TestHealthzSetsRequestID(t *testing.T) {
	engine := newTestEngine(demoSource(), nil, nil)

	rec := do(t, engine, http.MethodGet, "/healthz", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotEmpty(t, rec.Header().Get(HeaderRequestID))

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(HeaderRequestID, "abc-123")
	rec = httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	require.Equal(t, "abc-123", rec.Header().Get(HeaderRequestID))
}

func TestReportEndpoint(t *testing.T) {
	engine := newTestEngine(demoSource(), nil, nil)

	rec := do(t, engine, http.MethodGet, "/api/reports?type=sales&frequency=monthly&date=2026-02-01", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var report models.Report
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	require.Equal(t, "Monthly Sales Report", report.Title)
	require.Len(t, report.Rows, 1)
	stat, ok := report.Stat("totalSales")
	require.True(t, ok)
	require.Equal(t, "Rs. 600", stat.Display)
}

func TestReportEndpointValidation(t *testing.T) {
	engine := newTestEngine(demoSource(), nil, nil)

	for _, target := range []string{
		"/api/reports?type=sales&frequency=monthly",
		"/api/reports?type=banners&frequency=monthly&date=2026-02-01",
		"/api/reports?type=sales&frequency=yearly&date=2026-02-01",
		"/api/reports?type=sales&frequency=monthly&date=01/02/2026",
	} {
		rec := do(t, engine, http.MethodGet, target, "")
		require.Equal(t, http.StatusBadRequest, rec.Code, target)
		require.Contains(t, rec.Body.String(), `"error"`)
	}
}

func TestReportEndpointSourceFailure(t *testing.T) {
	engine := newTestEngine(&fakeSource{err: errors.New("sheet unavailable")}, nil, nil)

	rec := do(t, engine, http.MethodGet, "/api/reports?type=vendor&frequency=monthly&date=2026-02-01", "")
	require.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestExportEndpoint(t *testing.T) {
	engine := newTestEngine(demoSource(), nil, nil)

	rec := do(t, engine, http.MethodGet, "/api/reports/export?type=vendor&frequency=monthly&date=2026-02-01", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	require.Contains(t, rec.Header().Get("Content-Disposition"), "vendor-monthly-2026-02-01.csv")

	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\r\n")
	require.Equal(t, "# Report: Monthly Vendor Report", lines[0])

	var data []string
	for _, line := range lines {
		if !strings.HasPrefix(line, "#") {
			data = append(data, line)
		}
	}
	records, err := csv.NewReader(strings.NewReader(strings.Join(data, "\n"))).ReadAll()
	require.NoError(t, err)
	require.Equal(t, []string{"Vendor Name", "Items Qty", "Total Amount", "Amount Paid"}, records[0])
	require.Equal(t, []string{"Acme", "10", "Rs. 1,000", "Rs. 0"}, records[1])
	require.Len(t, records, 3)
}

func TestDashboardStockAndVendors(t *testing.T) {
	engine := newTestEngine(demoSource(), nil, nil)

	rec := do(t, engine, http.MethodGet, "/api/dashboard", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var stats models.DashboardStats
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	require.Equal(t, 1, stats.LowStockCount)
	require.True(t, stats.SalesToday.Equal(decimal.NewFromInt(600)))

	rec = do(t, engine, http.MethodGet, "/api/stock", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var projection models.StockProjection
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &projection))
	require.Len(t, projection.Batches, 2)
	require.True(t, projection.Batches[0].Remaining.Equal(decimal.NewFromInt(6)))
	require.True(t, projection.Batches[1].Remaining.Equal(decimal.NewFromInt(2)))

	rec = do(t, engine, http.MethodGet, "/api/vendors", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"vendors":["Acme","Brightline"]}`, rec.Body.String())
}

func TestTrendEndpoints(t *testing.T) {
	engine := newTestEngine(demoSource(), nil, nil)

	rec := do(t, engine, http.MethodGet, "/api/trends/monthly?user=ADMIN&year=2026", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var monthly struct {
		Months []models.MonthlyTotal `json:"months"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &monthly))
	require.Len(t, monthly.Months, 12)
	require.True(t, monthly.Months[0].Total.Equal(decimal.NewFromInt(40)))
	require.True(t, monthly.Months[1].Total.Equal(decimal.NewFromInt(600)))

	require.Equal(t, http.StatusBadRequest, do(t, engine, http.MethodGet, "/api/trends/monthly", "").Code)
	require.Equal(t, http.StatusBadRequest, do(t, engine, http.MethodGet, "/api/trends/monthly?user=a&year=x", "").Code)

	rec = do(t, engine, http.MethodGet, "/api/trends/daily?collection=sales&window=week", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var daily struct {
		Points []models.TrendPoint `json:"points"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &daily))
	require.Len(t, daily.Points, 1)
	require.Equal(t, "2026-02-10", daily.Points[0].Date)

	require.Equal(t, http.StatusBadRequest, do(t, engine, http.MethodGet, "/api/trends/daily?window=year", "").Code)
	require.Equal(t, http.StatusBadRequest, do(t, engine, http.MethodGet, "/api/trends/daily?collection=banners", "").Code)
}

func TestCacheInvalidate(t *testing.T) {
	cache := &fakeCache{}
	engine := newTestEngine(demoSource(), cache, nil)
	require.Equal(t, http.StatusNoContent, do(t, engine, http.MethodPost, "/api/cache/invalidate", "").Code)
	require.Equal(t, 1, cache.calls)

	engine = newTestEngine(demoSource(), nil, nil)
	require.Equal(t, http.StatusNotImplemented, do(t, engine, http.MethodPost, "/api/cache/invalidate", "").Code)
}

func TestNotifyEndpoint(t *testing.T) {
	messenger := &fakeMessenger{}
	engine := newTestEngine(demoSource(), nil, messenger)

	rec := do(t, engine, http.MethodPost, "/api/notify", `{"to":"923000","message":"Stock check"}`)
	require.Equal(t, http.StatusAccepted, rec.Code)
	require.Len(t, messenger.sent, 1)

	rec = do(t, engine, http.MethodPost, "/api/notify", `{"message":"x"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	engine = newTestEngine(demoSource(), nil, nil)
	require.Equal(t, http.StatusNotFound, do(t, engine, http.MethodPost, "/api/notify", `{}`).Code)
}
