package jobs

import (
	"context"
	"log/slog"

	"stateflow/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// AutomaticTransitionJob runs the automatic transition sweep on a cron
// schedule. Each run finds entities whose time in their current state
// exceeds the state's automatic rule expiry and moves them with the
// system actor.
type AutomaticTransitionJob struct {
	handler  commands.RunAutomaticTransitionsCommandHandler
	schedule string
	cron     *cron.Cron
	logger   *slog.Logger
}

// NewAutomaticTransitionJob creates the sweep job. The schedule is a
// six-field cron expression with seconds.
func NewAutomaticTransitionJob(
	handler commands.RunAutomaticTransitionsCommandHandler,
	schedule string,
	logger *slog.Logger,
) *AutomaticTransitionJob {
	return &AutomaticTransitionJob{
		handler:  handler,
		schedule: schedule,
		cron:     cron.New(cron.WithSeconds()),
		logger:   logger.With("component", "automatic_transition_job"),
	}
}

// Start begins running the sweep on the configured schedule.
func (j *AutomaticTransitionJob) Start() error {
	_, err := j.cron.AddFunc(j.schedule, func() {
		ctx := context.Background()
		cmd := commands.NewRunAutomaticTransitionsCommand()

		if err := j.handler.Handle(ctx, cmd); err != nil {
			j.logger.ErrorContext(ctx, "Automatic transition sweep failed", "error", err)
		}
	})

	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Automatic transition job started", "schedule", j.schedule)
	return nil
}

// Stop stops the sweep job.
func (j *AutomaticTransitionJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Automatic transition job stopped")
}
