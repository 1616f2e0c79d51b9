// Package schedule runs named jobs on cron expressions.
package schedule

import (
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Scheduler wraps a cron runner with structured logging around each job.
type Scheduler struct {
	cron *cron.Cron
	log  zerolog.Logger
}

func New(log zerolog.Logger) *Scheduler {
	return &Scheduler{cron: cron.New(), log: log}
}

// Every registers fn to run on the given standard five-field cron
// expression.
func (s *Scheduler) Every(spec, name string, fn func()) error {
	log := s.log.With().Str("job", name).Str("spec", spec).Logger()

	_, err := s.cron.AddFunc(spec, func() {
		log.Info().Msg("Scheduled job starting")
		fn()
		log.Info().Msg("Scheduled job finished")
	})
	if err != nil {
		return fmt.Errorf("Every: register job %q: %w", name, err)
	}

	log.Info().Msg("Scheduled job registered")
	return nil
}

// Start begins running registered jobs in the background.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop halts scheduling and waits for any running job to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}
