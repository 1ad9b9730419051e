package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/imscloud/ims/internal/domain/models"
	"github.com/imscloud/ims/internal/service/reporting"
)

var (
	errInvalidDate  = errors.New("date must use the YYYY-MM-DD layout")
	errMissingUser  = errors.New("user is required")
	errInvalidYear  = errors.New("year must be a number")
	errCacheMissing = errors.New("cache is not configured")
)

// ReportService is the reporting surface served over HTTP.
type ReportService interface {
	GenerateReport(ctx context.Context, req models.ReportRequest) (*models.Report, error)
	Dashboard(ctx context.Context) (models.DashboardStats, error)
	AvailableStock(ctx context.Context) (models.StockProjection, error)
	Vendors(ctx context.Context) ([]string, error)
	MonthlySales(ctx context.Context, user string, year int) ([]models.MonthlyTotal, error)
	DailyTrend(ctx context.Context, collection models.Collection, window reporting.TrendWindow) ([]models.TrendPoint, error)
}

// CacheInvalidator drops cached source rows.
type CacheInvalidator interface {
	Invalidate(ctx context.Context) error
}

// ReportHandler serves reports, dashboard figures and chart series.
type ReportHandler struct {
	svc    ReportService
	cache  CacheInvalidator
	logger *zap.Logger
}

// NewReportHandler constructs the HTTP handler adapter. cache may be nil.
func NewReportHandler(svc ReportService, cache CacheInvalidator, logger *zap.Logger) *ReportHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportHandler{svc: svc, cache: cache, logger: logger}
}

// Report renders a report as JSON.
func (h *ReportHandler) Report(c *gin.Context) {
	report, ok := h.generate(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, report)
}

// Export renders a report as a CSV download.
func (h *ReportHandler) Export(c *gin.Context) {
	report, ok := h.generate(c)
	if !ok {
		return
	}

	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", reportFilename(report)))
	c.Status(http.StatusOK)
	if err := writeReportCSV(c.Writer, report); err != nil {
		h.logger.Error("failed writing report csv", zap.Error(err))
	}
}

func (h *ReportHandler) generate(c *gin.Context) (*models.Report, bool) {
	req, err := parseReportRequest(c)
	if err != nil {
		h.fail(c, err)
		return nil, false
	}
	report, err := h.svc.GenerateReport(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err)
		return nil, false
	}
	return report, true
}

func parseReportRequest(c *gin.Context) (models.ReportRequest, error) {
	req := models.ReportRequest{
		Type:      models.ReportType(strings.ToLower(strings.TrimSpace(c.Query("type")))),
		Frequency: models.Frequency(strings.ToLower(strings.TrimSpace(c.Query("frequency")))),
		Vendor:    strings.TrimSpace(c.Query("vendor")),
	}
	if raw := strings.TrimSpace(c.Query("date")); raw != "" {
		target, err := time.Parse(models.DateLayout, raw)
		if err != nil {
			return req, errInvalidDate
		}
		req.TargetDate = target
	}
	return req, nil
}

// Dashboard returns the dashboard cards.
func (h *ReportHandler) Dashboard(c *gin.Context) {
	stats, err := h.svc.Dashboard(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// Stock returns the projected available stock.
func (h *ReportHandler) Stock(c *gin.Context) {
	projection, err := h.svc.AvailableStock(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, projection)
}

// Vendors returns the vendor picker values.
func (h *ReportHandler) Vendors(c *gin.Context) {
	vendors, err := h.svc.Vendors(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"vendors": vendors})
}

// MonthlyTrend returns the monthly sales chart of a sales user.
func (h *ReportHandler) MonthlyTrend(c *gin.Context) {
	user := strings.TrimSpace(c.Query("user"))
	if user == "" {
		h.fail(c, errMissingUser)
		return
	}
	var year int
	if raw := c.Query("year"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			h.fail(c, errInvalidYear)
			return
		}
		year = parsed
	}

	points, err := h.svc.MonthlySales(c.Request.Context(), user, year)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user, "months": points})
}

// DailyTrend returns the per-day series of a collection.
func (h *ReportHandler) DailyTrend(c *gin.Context) {
	collection, err := reporting.ParseCollection(c.DefaultQuery("collection", string(models.CollectionSales)))
	if err != nil {
		h.fail(c, err)
		return
	}
	window, err := reporting.ParseTrendWindow(c.Query("window"))
	if err != nil {
		h.fail(c, err)
		return
	}

	points, err := h.svc.DailyTrend(c.Request.Context(), collection, window)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"collection": collection, "window": window, "points": points})
}

// InvalidateCache forces the next requests to reload source data.
func (h *ReportHandler) InvalidateCache(c *gin.Context) {
	if h.cache == nil {
		h.fail(c, errCacheMissing)
		return
	}
	if err := h.cache.Invalidate(c.Request.Context()); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ReportHandler) fail(c *gin.Context, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
	} else {
		h.logger.Debug("request rejected", zap.String("path", c.FullPath()), zap.Error(err))
	}
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}

func statusFor(err error) int {
	switch {
	case reporting.IsValidationError(err),
		errors.Is(err, errInvalidDate),
		errors.Is(err, errMissingUser),
		errors.Is(err, errInvalidYear):
		return http.StatusBadRequest
	case errors.Is(err, errCacheMissing):
		return http.StatusNotImplemented
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusBadGateway
	}
}
