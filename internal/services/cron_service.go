package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

const checkoutSweepJob = "checkout_sweep"

// CronService manages scheduled background jobs
type CronService struct {
	cron      *cron.Cron
	sweepSvc  *CheckoutSweepService
	sweepSpec string
	timeout   time.Duration
	logger    *logrus.Logger

	mu        sync.Mutex
	jobIDs    map[string]cron.EntryID
	lastSweep *SweepResult
	lastError string
}

// NewCronService creates a new CronService. sweepSpec uses the six-field
// format with seconds.
func NewCronService(sweepSvc *CheckoutSweepService, sweepSpec string, logger *logrus.Logger) *CronService {
	c := cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))

	return &CronService{
		cron:      c,
		sweepSvc:  sweepSvc,
		sweepSpec: sweepSpec,
		timeout:   50 * time.Second,
		logger:    logger,
		jobIDs:    make(map[string]cron.EntryID),
	}
}

// Start starts all cron jobs
func (s *CronService) Start() error {
	s.logger.Info("Starting cron service...")

	id, err := s.cron.AddFunc(s.sweepSpec, s.checkoutSweepJob)
	if err != nil {
		return fmt.Errorf("failed to schedule checkout sweep job: %w", err)
	}
	s.mu.Lock()
	s.jobIDs[checkoutSweepJob] = id
	s.mu.Unlock()
	s.logger.WithField("spec", s.sweepSpec).Info("Scheduled: checkout sweep")

	s.cron.Start()
	s.logger.Info("Cron service started")
	return nil
}

// Stop stops all cron jobs and waits for running ones
func (s *CronService) Stop() {
	s.logger.Info("Stopping cron service...")
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("Cron service stopped")
}

func (s *CronService) checkoutSweepJob() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	if _, err := s.runCheckoutSweep(ctx); err != nil {
		s.logger.WithError(err).Error("[CRON] Checkout sweep failed")
	}
}

func (s *CronService) runCheckoutSweep(ctx context.Context) (*SweepResult, error) {
	result, err := s.sweepSvc.Run(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.lastError = err.Error()
		return nil, err
	}
	s.lastSweep = result
	s.lastError = ""

	if result.Expired > 0 {
		s.logger.WithFields(logrus.Fields{
			"expired":  result.Expired,
			"archived": result.Archived,
			"blocked":  result.Blocked,
			"failed":   result.Failed,
			"duration": result.Duration.String(),
		}).Info("[CRON] Checkout sweep finished")
	}
	return result, nil
}

// RunCheckoutSweepNow runs the checkout sweep immediately
func (s *CronService) RunCheckoutSweepNow(ctx context.Context) (*SweepResult, error) {
	s.logger.Info("[MANUAL] Running checkout sweep now...")
	return s.runCheckoutSweep(ctx)
}

// GetJobStatus returns the status of scheduled jobs
func (s *CronService) GetJobStatus() map[string]interface{} {
	s.mu.Lock()
	defer s.mu.Unlock()

	jobs := make([]map[string]interface{}, 0, len(s.jobIDs))
	for name, id := range s.jobIDs {
		entry := s.cron.Entry(id)
		jobs = append(jobs, map[string]interface{}{
			"name":     name,
			"id":       id,
			"next_run": entry.Next,
			"prev_run": entry.Prev,
		})
	}

	status := map[string]interface{}{
		"running":   len(jobs) > 0,
		"job_count": len(jobs),
		"jobs":      jobs,
	}
	if s.lastSweep != nil {
		status["last_sweep"] = s.lastSweep
	}
	if s.lastError != "" {
		status["last_error"] = s.lastError
	}
	return status
}
