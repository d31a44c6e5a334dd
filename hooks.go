package loom

import (
	"log/slog"
	"time"
)

// TaskStatus captures the lifecycle state of a task. A task is pending until
// its first resolution attempt, resolving while on the active resolution
// chain, and done once its result is memoized. Failed attempts roll back to
// pending so the task stays resolvable.
type TaskStatus string

const (
	StatusPending   TaskStatus = "pending"
	StatusResolving TaskStatus = "resolving"
	StatusDone      TaskStatus = "done"
)

// TaskInfo provides identifying information about a task.
type TaskInfo struct {
	ID           TaskID
	Name         string
	Dependencies []TaskID
}

// TaskMetrics captures timings for one resolution attempt.
type TaskMetrics struct {
	StartedAt   time.Time
	CompletedAt time.Time
	Duration    time.Duration
	Status      TaskStatus
}

// Event is passed to hook callbacks to describe resolution progress. Value
// is the task's output on OnResolve (nil for side-effect-only tasks); Err is
// set on OnError.
type Event struct {
	Task    TaskInfo
	Metrics TaskMetrics
	Value   any
	Err     error
}

// HookFunc is invoked for lifecycle notifications.
type HookFunc func(Event)

// Hooks aggregates optional lifecycle callbacks. OnStart fires when a work
// function is about to have its arguments resolved, OnResolve when it
// produced a result, OnError when resolution failed. Memoized fast-path
// reads fire no hooks: hooks observe work, not lookups.
type Hooks struct {
	OnStart   HookFunc
	OnResolve HookFunc
	OnError   HookFunc
}

// Merge combines two hook sets, running the receiver first.
func (h Hooks) Merge(other Hooks) Hooks {
	return Hooks{
		OnStart:   chainHooks(h.OnStart, other.OnStart),
		OnResolve: chainHooks(h.OnResolve, other.OnResolve),
		OnError:   chainHooks(h.OnError, other.OnError),
	}
}

func (h Hooks) invoke(hook HookFunc, event Event) {
	if hook != nil {
		hook(event)
	}
}

func chainHooks(first, second HookFunc) HookFunc {
	switch {
	case first == nil:
		return second
	case second == nil:
		return first
	default:
		return func(event Event) {
			first(event)
			second(event)
		}
	}
}

// SlogHooks returns hooks that emit structured logs for every resolution. A
// nil logger uses slog.Default.
func SlogHooks(logger *slog.Logger) Hooks {
	if logger == nil {
		logger = slog.Default()
	}
	return Hooks{
		OnStart: func(event Event) {
			logger.Debug("resolving task",
				slog.Int("task", int(event.Task.ID)),
				slog.String("name", event.Task.Name),
			)
		},
		OnResolve: func(event Event) {
			logger.Debug("task resolved",
				slog.Int("task", int(event.Task.ID)),
				slog.String("name", event.Task.Name),
				slog.Duration("duration", event.Metrics.Duration),
			)
		},
		OnError: func(event Event) {
			logger.Error("task resolution failed",
				slog.Int("task", int(event.Task.ID)),
				slog.String("name", event.Task.Name),
				slog.Any("error", event.Err),
			)
		},
	}
}
