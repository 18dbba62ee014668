package tasks

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/lysyi3m/thinkers-table/app/database"
	"github.com/lysyi3m/thinkers-table/app/signup"
)

var _ TaskSchedulerInterface = (*Scheduler)(nil)

var ErrSignupNotConfigured = errors.New("signup embed URL is not configured")

const (
	queueSize     = 32
	taskTimeout   = time.Minute
	maxRetryDelay = 30 * time.Second
)

type Options struct {
	Interval      time.Duration
	WorkerCount   int
	ProbeInterval time.Duration
	LoadRetention time.Duration
}

type Scheduler struct {
	prober        SignupProber
	signupState   *signup.State
	loadRepo      database.LoadRepository
	interval      time.Duration
	probeInterval time.Duration
	loadRetention time.Duration
	workerCount   int
	ctx           context.Context
	cancel        context.CancelFunc
	wg            sync.WaitGroup
	taskQueue     chan TaskInterface
}

func NewScheduler(prober SignupProber, signupState *signup.State,
	loadRepo database.LoadRepository, opts Options) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())

	return &Scheduler{
		prober:        prober,
		signupState:   signupState,
		loadRepo:      loadRepo,
		interval:      opts.Interval,
		probeInterval: opts.ProbeInterval,
		loadRetention: opts.LoadRetention,
		workerCount:   max(opts.WorkerCount, 1),
		ctx:           ctx,
		cancel:        cancel,
		taskQueue:     make(chan TaskInterface, queueSize),
	}
}

func (s *Scheduler) Start() {
	for i := 0; i < s.workerCount; i++ {
		s.wg.Add(1)
		go s.worker(i)
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		s.enqueueStartupTasks()

		for {
			select {
			case <-s.ctx.Done():
				return
			case <-ticker.C:
				s.enqueueTasks(time.Now())
			}
		}
	}()
}

func (s *Scheduler) Stop() {
	s.cancel()
	s.wg.Wait()
}

func (s *Scheduler) EnqueueTask(task TaskInterface) error {
	select {
	case s.taskQueue <- task:
		return nil
	case <-s.ctx.Done():
		return s.ctx.Err()
	default:
		return fmt.Errorf("task queue is full")
	}
}

// EnqueueProbe schedules an immediate signup probe.
func (s *Scheduler) EnqueueProbe() error {
	if s.prober.URL() == "" {
		return ErrSignupNotConfigured
	}
	return s.EnqueueTask(NewProbeSignupTask(s.prober, s.signupState))
}

func (s *Scheduler) enqueueStartupTasks() {
	if s.prober.URL() == "" {
		slog.Info("Signup embed URL not set, serving alternative form without probing")
		return
	}

	if err := s.EnqueueProbe(); err != nil {
		slog.Warn("Failed to enqueue ProbeSignupTask", "error", err)
	}
}

func (s *Scheduler) enqueueTasks(now time.Time) {
	if s.probeDue(now) {
		if err := s.EnqueueProbe(); err != nil {
			slog.Warn("Failed to enqueue ProbeSignupTask", "error", err)
		}
	} else {
		slog.Debug("Signup probe not due yet", "checked_at", s.signupState.CheckedAt())
	}

	if s.loadRepo != nil {
		if err := s.EnqueueTask(NewPruneLoadsTask(s.loadRetention, s.loadRepo)); err != nil {
			slog.Warn("Failed to enqueue PruneLoadsTask", "error", err)
		}
	}
}

func (s *Scheduler) probeDue(now time.Time) bool {
	if s.prober.URL() == "" {
		return false
	}
	checkedAt := s.signupState.CheckedAt()
	return checkedAt.IsZero() || now.Sub(checkedAt) >= s.probeInterval
}

func (s *Scheduler) worker(id int) {
	defer s.wg.Done()

	for {
		select {
		case task := <-s.taskQueue:
			s.executeTask(id, task)

		case <-s.ctx.Done():
			return
		}
	}
}

func (s *Scheduler) executeTask(workerID int, task TaskInterface) {
	task.Start()

	taskCtx, cancel := context.WithTimeout(s.ctx, taskTimeout)
	defer cancel()

	err := task.Execute(taskCtx)

	if err != nil {
		slog.Error("Worker task execution failed", "worker_id", workerID, "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "error", err)

		if task.CanRetry() {
			task.IncrementRetryCount()
			retryDelay := retryDelay(task.GetRetryCount())

			slog.Warn("Task retry scheduled", "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "max_retries", task.GetMaxRetries(), "delay", retryDelay.String())

			go func() {
				select {
				case <-s.ctx.Done():
					slog.Debug("Scheduler stopped, skipping task retry", "type", string(task.GetType()), "id", task.GetID())
				case <-time.After(retryDelay):
					if retryErr := s.EnqueueTask(task); retryErr != nil {
						slog.Error("Failed to re-enqueue task for retry", "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "error", retryErr)
					}
				}
			}()
		} else {
			slog.Error("Task failed after maximum retries", "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "max_retries", task.GetMaxRetries(), "last_error", err)
		}
	}
}

// retryDelay doubles from one second per attempt, capped at maxRetryDelay.
func retryDelay(attempt int) time.Duration {
	if attempt > 6 {
		return maxRetryDelay
	}
	return min(time.Duration(1<<uint(attempt-1))*time.Second, maxRetryDelay)
}
