package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/example/genius/internal/metrics"
	"github.com/example/genius/internal/spaced_repetition"
	"github.com/example/genius/pkg/models"
	"github.com/go-co-op/gocron"
	"go.uber.org/zap"
)

// HistoryStore provides the review histories to schedule
type HistoryStore interface {
	History(ctx context.Context, factID string) ([]models.ReviewRecord, error)
	FactIDs(ctx context.Context) ([]string, error)
}

// ScheduleStore persists computed schedules
type ScheduleStore interface {
	Upsert(ctx context.Context, s *models.FactSchedule) error
}

// Scheduler periodically recomputes the due date of every fact
type Scheduler struct {
	scheduler *gocron.Scheduler
	engine    *spaced_repetition.Engine
	reviews   HistoryStore
	schedules ScheduleStore
	clock     Clock
	metrics   *metrics.Metrics
	log       *zap.Logger
	every     time.Duration

	mu     sync.Mutex
	cancel context.CancelFunc
}

// Options configures a Scheduler. Zero fields get defaults.
type Options struct {
	Every   time.Duration
	Clock   Clock
	Metrics *metrics.Metrics
	Logger  *zap.Logger
}

// New creates a new scheduler instance
func New(engine *spaced_repetition.Engine, reviews HistoryStore, schedules ScheduleStore, opts Options) *Scheduler {
	if opts.Every <= 0 {
		opts.Every = time.Hour
	}
	if opts.Clock == nil {
		opts.Clock = SystemClock{}
	}
	if opts.Metrics == nil {
		opts.Metrics = metrics.New()
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Scheduler{
		engine:    engine,
		reviews:   reviews,
		schedules: schedules,
		clock:     opts.Clock,
		metrics:   opts.Metrics,
		log:       opts.Logger,
		every:     opts.Every,
	}
}

// Start runs RescheduleAll now and then every configured period until Stop
// is called. Once ctx is done, passes return early without error logs.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		return fmt.Errorf("scheduler already started")
	}

	ctx, cancel := context.WithCancel(ctx)
	s.scheduler = gocron.NewScheduler(time.UTC)
	_, err := s.scheduler.Every(s.every).SingletonMode().Do(func() {
		if _, err := s.RescheduleAll(ctx); err != nil && ctx.Err() == nil {
			s.log.Error("Rescheduling pass failed", zap.Error(err))
		}
	})
	if err != nil {
		cancel()
		return fmt.Errorf("failed to schedule rescheduling job: %w", err)
	}
	s.cancel = cancel

	// Start the scheduler in a non-blocking manner
	s.scheduler.StartAsync()
	s.log.Info("Scheduler started", zap.Duration("every", s.every))
	return nil
}

// Stop terminates all scheduled tasks
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel == nil {
		return
	}
	s.cancel()
	s.cancel = nil
	s.scheduler.Stop()
	s.log.Info("Scheduler stopped")
}

// Result summarizes one rescheduling pass
type Result struct {
	Facts       int
	Rescheduled int
	Failed      int
}

// RescheduleAll recomputes the schedule of every fact with a history.
// A failing fact is logged and skipped; only failing to list facts aborts.
func (s *Scheduler) RescheduleAll(ctx context.Context) (Result, error) {
	start := time.Now()
	s.metrics.RescheduleRuns.Inc()
	defer func() { s.metrics.RescheduleDuration.Observe(time.Since(start).Seconds()) }()

	ids, err := s.reviews.FactIDs(ctx)
	if err != nil {
		s.metrics.RescheduleErrors.WithLabelValues("list").Inc()
		return Result{}, err
	}

	res := Result{Facts: len(ids)}
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		if _, err := s.Reschedule(ctx, id); err != nil {
			res.Failed++
			s.log.Warn("Error rescheduling fact", zap.String("fact_id", id), zap.Error(err))
			continue
		}
		res.Rescheduled++
	}

	s.log.Info("Rescheduling pass finished",
		zap.Int("facts", res.Facts),
		zap.Int("rescheduled", res.Rescheduled),
		zap.Int("failed", res.Failed),
		zap.Duration("took", time.Since(start)))
	return res, nil
}

// Reschedule recomputes and stores the schedule of one fact
func (s *Scheduler) Reschedule(ctx context.Context, factID string) (*models.FactSchedule, error) {
	history, err := s.reviews.History(ctx, factID)
	if err != nil {
		s.metrics.RescheduleErrors.WithLabelValues("history").Inc()
		return nil, err
	}

	now := s.clock.Now()
	plan, err := PlanFor(s.engine, history, now)
	if err != nil {
		s.metrics.RescheduleErrors.WithLabelValues("plan").Inc()
		return nil, err
	}

	schedule := &models.FactSchedule{
		FactID:           factID,
		RepetitionCount:  plan.RepetitionCount,
		PredictedQuality: plan.PredictedQuality,
		NextReviewAt:     plan.NextReviewAt,
		UpdatedAt:        now,
	}
	if err := s.schedules.Upsert(ctx, schedule); err != nil {
		s.metrics.RescheduleErrors.WithLabelValues("store").Inc()
		return nil, err
	}

	s.metrics.FactsRescheduled.Inc()
	s.metrics.PredictedQuality.Observe(plan.PredictedQuality)
	s.log.Debug("Fact rescheduled",
		zap.String("fact_id", factID),
		zap.Int("repetition_count", plan.RepetitionCount),
		zap.Float64("predicted_quality", plan.PredictedQuality),
		zap.Time("next_review_at", plan.NextReviewAt))
	return schedule, nil
}
