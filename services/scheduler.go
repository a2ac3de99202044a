package services

import (
	"context"
	"os"
	"time"

	appContext "github.com/alphabatem/common/context"
	"github.com/go-co-op/gocron"
	log "github.com/sirupsen/logrus"
)

const (
	SCHEDULER_SVC = "scheduler_svc"

	defaultRollupAt = "02:00"
	rollupTimeout   = 10 * time.Minute
)

// RollupRunner rebuilds the stored stats of every user with sessions.
type RollupRunner interface {
	RefreshAllRollups(ctx context.Context) (int, error)
}

// SchedulerService refreshes the stats rollups once a day.
type SchedulerService struct {
	appContext.DefaultService

	scheduler *gocron.Scheduler
	runner    RollupRunner
	at        string
}

func (svc SchedulerService) Id() string {
	return SCHEDULER_SVC
}

func (svc *SchedulerService) Configure(ctx *appContext.Context) error {
	loc, err := loadAppLocation()
	if err != nil {
		return err
	}

	svc.at = os.Getenv("STATS_ROLLUP_AT")
	if svc.at == "" {
		svc.at = defaultRollupAt
	}
	svc.scheduler = gocron.NewScheduler(loc)

	return svc.DefaultService.Configure(ctx)
}

func (svc *SchedulerService) Start() error {
	svc.runner = svc.Service(STATS_SVC).(*StatsService)

	if _, err := svc.scheduler.Every(1).Day().At(svc.at).Do(svc.RunRollups); err != nil {
		return err
	}
	svc.scheduler.StartAsync()

	log.WithField("at", svc.at).Info("Stats rollup scheduled")
	return nil
}

func (svc *SchedulerService) Shutdown() {
	if svc.scheduler != nil {
		svc.scheduler.Stop()
	}
}

// RunRollups refreshes every rollup and records the outcome.
func (svc *SchedulerService) RunRollups() {
	ctx, cancel := context.WithTimeout(context.Background(), rollupTimeout)
	defer cancel()

	start := time.Now()
	refreshed, err := svc.runner.RefreshAllRollups(ctx)
	fields := log.Fields{
		"users":    refreshed,
		"duration": time.Since(start).String(),
	}
	if err != nil {
		recordRollupRun("error", refreshed)
		log.WithFields(fields).WithError(err).Error("Stats rollup finished with errors")
		return
	}

	recordRollupRun("ok", refreshed)
	log.WithFields(fields).Info("Stats rollup finished")
}
