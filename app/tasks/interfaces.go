package tasks

import (
	"context"

	"github.com/lysyi3m/thinkers-table/app/signup"
)

// TaskSchedulerInterface defines the interface for task scheduling operations.
// Used by the main application to run the signup probe and history pruning
// in the background.
//
//	scheduler := NewScheduler(prober, signupState, loadRepo, opts)
//	scheduler.Start()
//	defer scheduler.Stop()
type TaskSchedulerInterface interface {
	Start()
	Stop()
	EnqueueTask(task TaskInterface) error
}

// SignupProber is satisfied by *signup.Prober.
type SignupProber interface {
	URL() string
	Run(ctx context.Context) (signup.Status, error)
}
