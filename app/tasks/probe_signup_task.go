package tasks

import (
	"context"
	"log/slog"
	"time"

	"github.com/lysyi3m/thinkers-table/app/signup"
)

// ProbeSignupTask checks the signup embed once and publishes the outcome.
// Failures are recorded as unavailable and never retried; the next probe
// comes from the scheduler tick.
type ProbeSignupTask struct {
	Task
	prober SignupProber
	state  *signup.State
}

func NewProbeSignupTask(prober SignupProber, state *signup.State) *ProbeSignupTask {
	task := NewTask(TaskTypeProbeSignup)
	task.MaxRetries = 0

	return &ProbeSignupTask{
		Task:   task,
		prober: prober,
		state:  state,
	}
}

func (t *ProbeSignupTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	status, err := t.prober.Run(ctx)
	t.state.Set(status, time.Now())

	if err != nil {
		slog.Warn("Signup embed unavailable, serving alternative form", "error", err)
		return nil
	}

	slog.Info("Task completed",
		"type", string(t.GetType()),
		"status", status.String(),
		"duration", t.GetDuration())

	return nil
}
