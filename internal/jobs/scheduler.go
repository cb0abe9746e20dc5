package jobs

import (
	"quizmart/internal/service"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Scheduler runs the background sweeps. The only job in this core is the
// recharge expiry sweep; it only narrows still-pending transactions, so it
// can never race a gateway callback into a double credit.
type Scheduler struct {
	cron     *cron.Cron
	recharge *service.RechargeService
}

func NewScheduler(recharge *service.RechargeService) *Scheduler {
	return &Scheduler{cron: cron.New(), recharge: recharge}
}

func (s *Scheduler) Start() {
	s.cron.AddFunc("*/10 * * * *", func() {
		if _, err := s.recharge.ExpireStale(); err != nil {
			logrus.WithError(err).Error("recharge expiry sweep failed")
		}
	})
	s.cron.Start()
	logrus.Info("scheduler started")
}

func (s *Scheduler) Stop() {
	s.cron.Stop()
}
