package loom

import (
	"fmt"
	"time"
)

// now is overridden in tests to provide deterministic timings.
var now = time.Now

// TaskID identifies a registered task. Identifiers are dense, zero-based,
// assigned in registration order, and stable for the Scheduler's lifetime.
type TaskID int

type task struct {
	id      TaskID
	name    string
	deps    []TaskID
	run     func(*Scheduler) (result, error)
	result  result
	status  TaskStatus
	metrics TaskMetrics
	hooks   Hooks
}

// Scheduler is an append-only registry of tasks plus the engine that
// resolves them.
//
// A Scheduler is not safe for concurrent use. Resolution is plain recursion
// on the caller's stack, and the in-progress marker guards a single active
// resolution chain, not cross-goroutine access.
type Scheduler struct {
	tasks []*task
	hooks Hooks

	// active is the chain of tasks currently being resolved, outermost
	// first. Reported in cycle errors.
	active []TaskID
}

// SchedulerOption configures a Scheduler at construction.
type SchedulerOption func(*Scheduler)

// WithHooks registers hooks invoked for every task in the scheduler.
func WithHooks(h Hooks) SchedulerOption {
	return func(s *Scheduler) {
		s.hooks = s.hooks.Merge(h)
	}
}

// New constructs an empty Scheduler.
func New(opts ...SchedulerOption) *Scheduler {
	s := &Scheduler{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Len reports the number of registered tasks.
func (s *Scheduler) Len() int {
	return len(s.tasks)
}

// Status reports the lifecycle state of a task, or the empty string for an
// unknown id.
func (s *Scheduler) Status(id TaskID) TaskStatus {
	if id < 0 || int(id) >= len(s.tasks) {
		return ""
	}
	return s.tasks[id].status
}

// Metrics returns timing metrics for a task's most recent resolution
// attempt, if there has been one.
func (s *Scheduler) Metrics(id TaskID) (TaskMetrics, bool) {
	if id < 0 || int(id) >= len(s.tasks) {
		return TaskMetrics{}, false
	}
	t := s.tasks[id]
	if t.metrics.StartedAt.IsZero() {
		return TaskMetrics{}, false
	}
	return t.metrics, true
}

// Name returns the task's name, or the empty string for an unknown id.
func (s *Scheduler) Name(id TaskID) string {
	if id < 0 || int(id) >= len(s.tasks) {
		return ""
	}
	return s.tasks[id].name
}

type taskConfig struct {
	name  string
	hooks Hooks
}

// TaskOption configures task registration.
type TaskOption func(*taskConfig)

// WithName assigns a human-readable name used in hook events and DOT output.
// Unnamed tasks default to "task-<id>".
func WithName(name string) TaskOption {
	return func(cfg *taskConfig) {
		cfg.name = name
	}
}

// WithTaskHooks attaches lifecycle hooks to a single task.
func WithTaskHooks(h Hooks) TaskOption {
	return func(cfg *taskConfig) {
		cfg.hooks = cfg.hooks.Merge(h)
	}
}

func (s *Scheduler) add(run func(*Scheduler) (result, error), deps []TaskID, opts []TaskOption) TaskID {
	cfg := taskConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}

	id := TaskID(len(s.tasks))
	if cfg.name == "" {
		cfg.name = fmt.Sprintf("task-%d", id)
	}

	s.tasks = append(s.tasks, &task{
		id:     id,
		name:   cfg.name,
		deps:   deps,
		run:    run,
		status: StatusPending,
		hooks:  cfg.hooks,
	})
	return id
}

func depsOf(ids ...func() (TaskID, bool)) []TaskID {
	var deps []TaskID
	for _, f := range ids {
		if id, ok := f(); ok {
			deps = append(deps, id)
		}
	}
	return deps
}

// Add registers a zero-input task producing a value. The task is stored
// unexecuted; a nil fn registers a record whose resolution fails with
// ErrMissingWork.
func Add[R any](s *Scheduler, fn func() R, opts ...TaskOption) TaskID {
	if fn == nil {
		return s.add(nil, nil, opts)
	}
	return s.add(func(*Scheduler) (result, error) {
		return hold(fn()), nil
	}, nil, opts)
}

// Add1 registers a one-input task producing a value.
func Add1[A, R any](s *Scheduler, fn func(A) R, in Input[A], opts ...TaskOption) TaskID {
	if fn == nil {
		return s.add(nil, depsOf(in.dep), opts)
	}
	return s.add(func(sc *Scheduler) (result, error) {
		a, err := in.resolve(sc)
		if err != nil {
			return result{}, err
		}
		return hold(fn(a)), nil
	}, depsOf(in.dep), opts)
}

// Add2 registers a two-input task producing a value. Slot in0 is resolved
// strictly before in1, so side effects of dependency resolution are observed
// left to right.
func Add2[A, B, R any](s *Scheduler, fn func(A, B) R, in0 Input[A], in1 Input[B], opts ...TaskOption) TaskID {
	if fn == nil {
		return s.add(nil, depsOf(in0.dep, in1.dep), opts)
	}
	return s.add(func(sc *Scheduler) (result, error) {
		a, err := in0.resolve(sc)
		if err != nil {
			return result{}, err
		}
		b, err := in1.resolve(sc)
		if err != nil {
			return result{}, err
		}
		return hold(fn(a, b)), nil
	}, depsOf(in0.dep, in1.dep), opts)
}

// AddEffect registers a zero-input task executed for its side effects only.
// Its memoized result stays empty, so typed reads of it fail; the task still
// transitions to StatusDone and never re-runs.
func AddEffect(s *Scheduler, fn func(), opts ...TaskOption) TaskID {
	if fn == nil {
		return s.add(nil, nil, opts)
	}
	return s.add(func(*Scheduler) (result, error) {
		fn()
		return result{}, nil
	}, nil, opts)
}

// AddEffect1 registers a one-input side-effect-only task.
func AddEffect1[A any](s *Scheduler, fn func(A), in Input[A], opts ...TaskOption) TaskID {
	if fn == nil {
		return s.add(nil, depsOf(in.dep), opts)
	}
	return s.add(func(sc *Scheduler) (result, error) {
		a, err := in.resolve(sc)
		if err != nil {
			return result{}, err
		}
		fn(a)
		return result{}, nil
	}, depsOf(in.dep), opts)
}

// AddEffect2 registers a two-input side-effect-only task. Slots resolve left
// to right, as in Add2.
func AddEffect2[A, B any](s *Scheduler, fn func(A, B), in0 Input[A], in1 Input[B], opts ...TaskOption) TaskID {
	if fn == nil {
		return s.add(nil, depsOf(in0.dep, in1.dep), opts)
	}
	return s.add(func(sc *Scheduler) (result, error) {
		a, err := in0.resolve(sc)
		if err != nil {
			return result{}, err
		}
		b, err := in1.resolve(sc)
		if err != nil {
			return result{}, err
		}
		fn(a, b)
		return result{}, nil
	}, depsOf(in0.dep, in1.dep), opts)
}
