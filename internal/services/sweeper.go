package services

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"

	"auction-marketplace/internal/domain"
	"auction-marketplace/pkg/logger"
)

// CronPhaseSweeper runs the lifecycle sweep on a fixed interval. When several
// instances share the deployment, only the elected leader executes the sweep.
type CronPhaseSweeper struct {
	cron       *cron.Cron
	lifecycle  *AuctionLifecycle
	leader     domain.LeaderElection
	instanceID string
	log        logger.Logger
}

func NewCronPhaseSweeper(
	lifecycle *AuctionLifecycle,
	leader domain.LeaderElection,
	instanceID string,
	log logger.Logger,
) *CronPhaseSweeper {
	return &CronPhaseSweeper{
		cron:       cron.New(cron.WithSeconds()),
		lifecycle:  lifecycle,
		leader:     leader,
		instanceID: instanceID,
		log:        log,
	}
}

func (s *CronPhaseSweeper) Start(ctx context.Context, interval string) error {
	s.log.Info("Starting phase sweeper", "interval", interval)

	_, err := s.cron.AddFunc(fmt.Sprintf("@every %s", interval), func() {
		s.runSweep(ctx)
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	return nil
}

func (s *CronPhaseSweeper) Stop() error {
	s.log.Info("Stopping phase sweeper")
	s.cron.Stop()
	return nil
}

func (s *CronPhaseSweeper) runSweep(ctx context.Context) {
	isLeader, err := s.leader.IsLeader(ctx, s.instanceID)
	if err != nil {
		s.log.Error("Failed to check sweep leadership", "error", err)
		return
	}
	if !isLeader {
		return
	}

	count, err := s.lifecycle.SweepPhases(ctx)
	if err != nil {
		// Partial failures are already isolated per item inside the sweep.
		s.log.Error("Phase sweep reported failures", "transitioned", count, "error", err)
		return
	}
	if count > 0 {
		s.log.Info("Phase sweep completed", "transitioned", count)
	}
}
