package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/branchpulse/branchpulse/internal/config"
	"github.com/branchpulse/branchpulse/internal/service/insights"
	"github.com/branchpulse/branchpulse/pkg/clients/webhook"
)

// Scheduler runs the recurring analytics digest job.
type Scheduler struct {
	cron     *cron.Cron
	insights *insights.Service
	webhook  webhook.Client
	cfg      config.DigestConfig
	logger   *zap.Logger
}

// NewScheduler creates a new scheduler instance.
func NewScheduler(cfg config.DigestConfig, insightsSvc *insights.Service, webhookClient webhook.Client, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}

	// robfig/cron/v3 default parser is standard 5-field cron.
	c := cron.New()

	return &Scheduler{
		cron:     c,
		insights: insightsSvc,
		webhook:  webhookClient,
		cfg:      cfg,
		logger:   logger,
	}
}

// Start registers the digest job and starts the cron loop.
func (s *Scheduler) Start() {
	if s.webhook == nil || s.cfg.WebhookURL == "" {
		s.logger.Info("digest webhook not configured, scheduler idle")
		return
	}

	s.logger.Info("starting scheduler", zap.String("schedule", s.cfg.CronSchedule))

	if _, err := s.cron.AddFunc(s.cfg.CronSchedule, s.sendDigest); err != nil {
		s.logger.Error("failed to schedule digest job", zap.Error(err))
		return
	}

	s.cron.Start()
}

// Stop stops the scheduler.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	s.cron.Stop()
}

func (s *Scheduler) sendDigest() {
	s.logger.Info("generating analytics digest")
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	digest, err := s.insights.Digest(ctx, time.Now())
	if err != nil {
		s.logger.Error("failed to compute digest", zap.Error(err))
		return
	}

	if err := s.webhook.SendDigest(ctx, digest); err != nil {
		s.logger.Error("failed to deliver digest", zap.Error(err))
		return
	}

	s.logger.Info("digest delivered",
		zap.Int("visits", digest.Stats.TotalVisits),
		zap.Int("top_agents", len(digest.TopAgents)))
}
