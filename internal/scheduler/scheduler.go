// Package scheduler runs the periodic settlement sweep.
package scheduler

import (
	"log"

	"github.com/robfig/cron/v3"

	"github.com/jinyang756/jijinjiaoyizhongduan/internal/service"
)

// Scheduler owns the cron instance driving the settlement sweep.
type Scheduler struct {
	cron       *cron.Cron
	settlement *service.SettlementService
}

// New creates a scheduler around the settlement service.
func New(settlement *service.SettlementService) *Scheduler {
	return &Scheduler{
		cron:       cron.New(),
		settlement: settlement,
	}
}

// Start registers the sweep at the given cron spec and starts the
// scheduler. An empty spec disables scheduling entirely; the sweep is
// still reachable through the manual settlement endpoint.
func (s *Scheduler) Start(spec string) error {
	if spec == "" {
		log.Println("Settlement scheduler disabled (no cron spec configured)")
		return nil
	}

	_, err := s.cron.AddFunc(spec, s.runSweep)
	if err != nil {
		return err
	}

	s.cron.Start()
	log.Printf("Settlement scheduler started with spec %q", spec)
	return nil
}

// Stop halts the scheduler, waiting for a running sweep to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

func (s *Scheduler) runSweep() {
	result, err := s.settlement.ProcessSettlement()
	if err != nil {
		log.Printf("Settlement sweep failed: %v", err)
		return
	}
	if result.Confirmed > 0 || result.Completed > 0 {
		log.Printf("Settlement sweep: confirmed %d, completed %d, settled %.2f",
			result.Confirmed, result.Completed, result.Settled)
	}
}
