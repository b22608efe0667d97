// Package jobs provides scheduled background tasks for the workflow engine.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3
// to handle the periodic operations the engine needs.
//
// # Available Jobs
//
// 1. AutomaticTransitionJob - Sweeps entities whose state has an expired
// automatic outgoing rule and applies the due transitions with the
// system actor.
//
// # Usage
//
// Jobs are managed through JobManager which provides a unified interface:
//
//	// Create job manager with required handlers
//	jobManager := jobs.NewJobManager(sweepHandler, schedule, logger)
//
//	// Start all jobs
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//
//	// Stop all jobs when shutting down
//	defer jobManager.StopAll()
//
// # Scheduling
//
// The sweep schedule is configurable; the default "0 * * * * *" runs it
// at the top of every minute. Expiry windows are rule configuration, so
// a finer schedule only tightens how soon after expiry a transition
// fires, not which transitions fire.
//
// # Error Handling
//
// The sweep handler absorbs per-entity failures itself and leaves them
// for the next run; the job only logs failures of the sweep as a whole.
package jobs
