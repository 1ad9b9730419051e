package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/imscloud/ims/internal/domain/models"
	"github.com/imscloud/ims/internal/service/reporting"
)

const jobTimeout = 2 * time.Minute

// SummaryBuilder produces the end-of-day dashboard summary.
type SummaryBuilder interface {
	BuildDailySummary(ctx context.Context) (*reporting.DailySummary, error)
}

// SnapshotStore persists dashboard snapshots.
type SnapshotStore interface {
	SaveDashboardSnapshot(ctx context.Context, snapshot models.DashboardSnapshot) error
}

// Messenger delivers the summary text.
type Messenger interface {
	SendOutbound(ctx context.Context, req models.OutboundMessageRequest) error
}

// Config selects when the summary runs and who receives it.
type Config struct {
	Schedule  string
	Location  *time.Location
	Recipient string
}

// Scheduler manages scheduled tasks.
type Scheduler struct {
	cron      *cron.Cron
	cfg       Config
	summaries SummaryBuilder
	store     SnapshotStore
	messenger Messenger
	logger    *zap.Logger
}

// NewScheduler creates a new scheduler instance. store and messenger are optional.
func NewScheduler(cfg Config, summaries SummaryBuilder, store SnapshotStore, messenger Messenger, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Location == nil {
		cfg.Location = time.Local
	}

	// Standard 5-field parser: minute, hour, day of month, month, day of week.
	c := cron.New(cron.WithLocation(cfg.Location))

	return &Scheduler{
		cron:      c,
		cfg:       cfg,
		summaries: summaries,
		store:     store,
		messenger: messenger,
		logger:    logger,
	}
}

// Start registers the daily summary job and starts the scheduler.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.cfg.Schedule, s.runDailySummary); err != nil {
		return fmt.Errorf("schedule daily summary %q: %w", s.cfg.Schedule, err)
	}

	s.logger.Info("starting scheduler",
		zap.String("schedule", s.cfg.Schedule),
		zap.String("timezone", s.cfg.Location.String()),
	)
	s.cron.Start()
	return nil
}

// Stop stops the scheduler and waits for a running job to finish.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	<-s.cron.Stop().Done()
}

func (s *Scheduler) runDailySummary() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	if err := s.RunDailySummary(ctx); err != nil {
		s.logger.Error("daily summary failed", zap.Error(err))
	}
}

// RunDailySummary computes the dashboard, stores its snapshot and sends the summary
// text. Storage and delivery failures are logged and do not stop each other.
func (s *Scheduler) RunDailySummary(ctx context.Context) error {
	s.logger.Info("generating daily summary")

	summary, err := s.summaries.BuildDailySummary(ctx)
	if err != nil {
		return err
	}

	if s.store != nil {
		if err := s.store.SaveDashboardSnapshot(ctx, summary.Snapshot); err != nil {
			s.logger.Error("failed to store dashboard snapshot", zap.Error(err))
		} else {
			s.logger.Info("dashboard snapshot stored", zap.Time("date", summary.Snapshot.Date))
		}
	}

	if s.messenger != nil && s.cfg.Recipient != "" {
		req := models.OutboundMessageRequest{To: s.cfg.Recipient, Message: summary.Message}
		if err := s.messenger.SendOutbound(ctx, req); err != nil {
			s.logger.Error("failed to send daily summary", zap.Error(err))
		} else {
			s.logger.Info("daily summary sent")
		}
	}

	return nil
}
