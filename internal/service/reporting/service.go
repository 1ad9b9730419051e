package reporting

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/imscloud/ims/internal/domain/models"
)

var (
	// ErrMissingTargetDate is returned when a report request has no target date.
	ErrMissingTargetDate = errors.New("target date is required")
	// ErrUnsupportedReportType is returned for report types outside the known set.
	ErrUnsupportedReportType = errors.New("unsupported report type")
	// ErrUnsupportedFrequency is returned for frequencies other than daily, weekly or monthly.
	ErrUnsupportedFrequency = errors.New("unsupported frequency")
	// ErrUnsupportedWindow is returned for trend windows other than day, week or month.
	ErrUnsupportedWindow = errors.New("unsupported trend window")
	// ErrUnsupportedCollection is returned when a collection name is unknown.
	ErrUnsupportedCollection = errors.New("unsupported collection")
)

// IsValidationError reports whether err was caused by a malformed request rather than by
// the data source.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrMissingTargetDate) ||
		errors.Is(err, ErrUnsupportedReportType) ||
		errors.Is(err, ErrUnsupportedFrequency) ||
		errors.Is(err, ErrUnsupportedWindow) ||
		errors.Is(err, ErrUnsupportedCollection)
}

func unsupportedType(value string) error {
	return fmt.Errorf("%w: %q", ErrUnsupportedReportType, value)
}

// Source provides the three record collections already decoded.
type Source interface {
	FetchInventory(ctx context.Context) ([]models.InventoryRecord, error)
	FetchSales(ctx context.Context) ([]models.SaleRecord, error)
	FetchExpenses(ctx context.Context) ([]models.ExpenseRecord, error)
}

// Options tunes presentation and matching. Zero values select the defaults.
type Options struct {
	CurrencySymbol string
	MatchPolicy    MatchPolicy
	Location       *time.Location
	Now            func() time.Time
}

// Service answers report, dashboard, stock and trend queries over a Source.
type Service struct {
	source    Source
	logger    *zap.Logger
	formatter Formatter
	policy    MatchPolicy
	location  *time.Location
	now       func() time.Time
	validate  *validator.Validate
}

// NewService wires a new reporting service instance.
func NewService(source Source, logger *zap.Logger, opts Options) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	symbol := opts.CurrencySymbol
	if symbol == "" {
		symbol = DefaultCurrencySymbol
	}
	policy := opts.MatchPolicy
	if policy == "" {
		policy = MatchLoose
	}
	location := opts.Location
	if location == nil {
		location = time.Local
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	return &Service{
		source:    source,
		logger:    logger,
		formatter: NewFormatter(symbol),
		policy:    policy,
		location:  location,
		now:       now,
		validate:  validator.New(),
	}
}

// Formatter returns the formatter used for display values.
func (s *Service) Formatter() Formatter {
	return s.formatter
}

// Now returns the current time in the configured location.
func (s *Service) Now() time.Time {
	return s.now().In(s.location)
}

type stage string

const (
	stageIdle        stage = "idle"
	stageFetching    stage = "fetching"
	stageFiltering   stage = "filtering"
	stageAggregating stage = "aggregating"
	stageRendered    stage = "rendered"
)

// reportRun tracks the progress of a single GenerateReport call.
type reportRun struct {
	id     string
	stage  stage
	start  time.Time
	logger *zap.Logger
}

func newReportRun(logger *zap.Logger, req models.ReportRequest) *reportRun {
	id := uuid.NewString()
	return &reportRun{
		id:    id,
		stage: stageIdle,
		start: time.Now(),
		logger: logger.With(
			zap.String("run_id", id),
			zap.String("type", string(req.Type)),
			zap.String("frequency", string(req.Frequency)),
		),
	}
}

func (r *reportRun) advance(next stage) {
	r.logger.Debug("report stage",
		zap.String("from", string(r.stage)),
		zap.String("to", string(next)),
		zap.Duration("elapsed", time.Since(r.start)),
	)
	r.stage = next
}

// GenerateReport validates req, fetches the collection it needs and renders the report.
// Invalid requests fail before any fetch.
func (s *Service) GenerateReport(ctx context.Context, req models.ReportRequest) (*models.Report, error) {
	if err := s.validateRequest(req); err != nil {
		return nil, err
	}

	run := newReportRun(s.logger, req)
	run.advance(stageFetching)
	data, err := s.fetchFor(ctx, req.Type)
	if err != nil {
		return nil, err
	}

	run.advance(stageFiltering)
	filtered := filterDataset(req, data)

	run.advance(stageAggregating)
	report := renderReport(req, filtered, s.formatter)
	report.GeneratedAt = s.Now()

	run.advance(stageRendered)
	run.logger.Info("report generated", zap.Int("rows", len(report.Rows)), zap.Bool("empty", report.Empty))
	return report, nil
}

func (s *Service) validateRequest(req models.ReportRequest) error {
	if req.TargetDate.IsZero() {
		return ErrMissingTargetDate
	}
	err := s.validate.Struct(req)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("validate report request: %w", err)
	}
	for _, fe := range fieldErrs {
		switch fe.StructField() {
		case "Type":
			return unsupportedType(string(req.Type))
		case "Frequency":
			return fmt.Errorf("%w: %q", ErrUnsupportedFrequency, req.Frequency)
		}
	}
	return fmt.Errorf("validate report request: %w", err)
}

func (s *Service) fetchFor(ctx context.Context, reportType models.ReportType) (Dataset, error) {
	var data Dataset
	var err error
	switch reportType {
	case models.ReportSales, models.ReportItem:
		data.Sales, err = s.fetchSales(ctx)
	case models.ReportPurchase, models.ReportVendor:
		data.Inventory, err = s.fetchInventory(ctx)
	case models.ReportExpenses:
		data.Expenses, err = s.fetchExpenses(ctx)
	default:
		err = unsupportedType(string(reportType))
	}
	return data, err
}

func (s *Service) fetchInventory(ctx context.Context) ([]models.InventoryRecord, error) {
	records, err := s.source.FetchInventory(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch inventory: %w", err)
	}
	return records, nil
}

func (s *Service) fetchSales(ctx context.Context) ([]models.SaleRecord, error) {
	records, err := s.source.FetchSales(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch sales: %w", err)
	}
	return records, nil
}

func (s *Service) fetchExpenses(ctx context.Context) ([]models.ExpenseRecord, error) {
	records, err := s.source.FetchExpenses(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch expenses: %w", err)
	}
	return records, nil
}

// loadInventoryAndSales fetches both collections concurrently.
func (s *Service) loadInventoryAndSales(ctx context.Context) ([]models.InventoryRecord, []models.SaleRecord, error) {
	var inventory []models.InventoryRecord
	var sales []models.SaleRecord

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		inventory, err = s.fetchInventory(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		sales, err = s.fetchSales(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return inventory, sales, nil
}

// Dashboard computes the dashboard cards for the current day.
func (s *Service) Dashboard(ctx context.Context) (models.DashboardStats, error) {
	inventory, sales, err := s.loadInventoryAndSales(ctx)
	if err != nil {
		return models.DashboardStats{}, err
	}
	return ComputeStats(inventory, sales, s.Now()), nil
}

// AvailableStock replays all sales against the inventory and returns what is left.
func (s *Service) AvailableStock(ctx context.Context) (models.StockProjection, error) {
	inventory, sales, err := s.loadInventoryAndSales(ctx)
	if err != nil {
		return models.StockProjection{}, err
	}

	projection := ProjectStock(inventory, sales, s.policy)
	for _, w := range projection.Warnings {
		s.logger.Warn("sale matched several stock items",
			zap.String("sale_item", w.SaleItem),
			zap.Strings("matched", w.MatchedNames),
			zap.String("policy", string(s.policy)),
		)
	}
	return projection, nil
}

// Vendors lists the distinct vendor names found in the inventory.
func (s *Service) Vendors(ctx context.Context) ([]string, error) {
	inventory, err := s.fetchInventory(ctx)
	if err != nil {
		return nil, err
	}
	return VendorNames(inventory), nil
}

// MonthlySales returns the monthly sales chart of one sales user. A zero year selects
// the current year.
func (s *Service) MonthlySales(ctx context.Context, user string, year int) ([]models.MonthlyTotal, error) {
	sales, err := s.fetchSales(ctx)
	if err != nil {
		return nil, err
	}
	if year == 0 {
		year = s.Now().Year()
	}
	return MonthlySalesByUser(sales, user, year), nil
}

// DailyTrend returns per-day totals of a collection over window.
func (s *Service) DailyTrend(ctx context.Context, collection models.Collection, window TrendWindow) ([]models.TrendPoint, error) {
	now := s.Now()
	switch collection {
	case models.CollectionSales:
		sales, err := s.fetchSales(ctx)
		if err != nil {
			return nil, err
		}
		return DailyTrend(sales, saleDate, func(r models.SaleRecord) decimal.Decimal { return r.Total }, window, now), nil
	case models.CollectionInventory:
		inventory, err := s.fetchInventory(ctx)
		if err != nil {
			return nil, err
		}
		return DailyTrend(inventory, inventoryDate, func(r models.InventoryRecord) decimal.Decimal { return r.Total }, window, now), nil
	case models.CollectionExpenses:
		expenses, err := s.fetchExpenses(ctx)
		if err != nil {
			return nil, err
		}
		return DailyTrend(expenses, expenseDate, func(r models.ExpenseRecord) decimal.Decimal { return r.Amount }, window, now), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedCollection, collection)
	}
}

// DailySummary is the payload of the scheduled end-of-day job.
type DailySummary struct {
	Stats    models.DashboardStats
	Snapshot models.DashboardSnapshot
	Message  string
}

// BuildDailySummary computes the dashboard and renders it for storage and messaging.
func (s *Service) BuildDailySummary(ctx context.Context) (*DailySummary, error) {
	stats, err := s.Dashboard(ctx)
	if err != nil {
		return nil, fmt.Errorf("compute dashboard: %w", err)
	}
	now := s.Now()
	snapshot, err := BuildSnapshot(stats, now)
	if err != nil {
		return nil, fmt.Errorf("build snapshot: %w", err)
	}
	return &DailySummary{
		Stats:    stats,
		Snapshot: snapshot,
		Message:  s.formatter.FormatSummary(stats, now),
	}, nil
}
