package jobs

import (
	"fmt"
	"log/slog"

	"stateflow/internal/core/application/usecases/commands"
)

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	automaticTransitionJob *AutomaticTransitionJob
}

// NewJobManager creates a new job manager with all required jobs.
// Takes command handlers as dependencies to wire up the job execution.
func NewJobManager(
	sweepHandler commands.RunAutomaticTransitionsCommandHandler,
	sweepSchedule string,
	logger *slog.Logger,
) *JobManager {
	return &JobManager{
		automaticTransitionJob: NewAutomaticTransitionJob(sweepHandler, sweepSchedule, logger),
	}
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	if err := jm.automaticTransitionJob.Start(); err != nil {
		return fmt.Errorf("failed to start automatic transition job: %w", err)
	}

	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	jm.automaticTransitionJob.Stop()
}
