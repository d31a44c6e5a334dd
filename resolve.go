package loom

import (
	"errors"
	"fmt"
	"reflect"
	"slices"
	"strings"
)

var (
	// ErrTaskOutOfRange indicates a task id does not map to a registered task.
	ErrTaskOutOfRange = errors.New("loom: task id out of range")
	// ErrCyclicDependency indicates resolution re-entered a task already on
	// the active resolution chain.
	ErrCyclicDependency = errors.New("loom: cyclic dependency")
	// ErrTypeMismatch indicates a typed read did not match the concrete type
	// a task produced.
	ErrTypeMismatch = errors.New("loom: result type mismatch")
	// ErrMissingWork indicates a task record has no work function.
	ErrMissingWork = errors.New("loom: task has no work function")
)

// TypeError reports a failed typed extraction: the task whose result was
// read, the type requested, and the type actually produced (nil when the
// task produced no value).
type TypeError struct {
	Task      TaskID
	Requested reflect.Type
	Actual    reflect.Type
}

func (e *TypeError) Error() string {
	if e.Actual == nil {
		return fmt.Sprintf("%v: task %d produced no value, requested %v", ErrTypeMismatch, e.Task, e.Requested)
	}
	return fmt.Sprintf("%v: task %d produced %v, requested %v", ErrTypeMismatch, e.Task, e.Actual, e.Requested)
}

func (e *TypeError) Unwrap() error { return ErrTypeMismatch }

// CycleError reports the resolution path that closed a cycle. Path holds the
// active chain from its outermost task to the repeated one.
type CycleError struct {
	Path []TaskID
}

func (e *CycleError) Error() string {
	parts := make([]string, len(e.Path))
	for i, id := range e.Path {
		parts[i] = fmt.Sprintf("%d", id)
	}
	return fmt.Sprintf("%v: %s", ErrCyclicDependency, strings.Join(parts, " -> "))
}

func (e *CycleError) Unwrap() error { return ErrCyclicDependency }

// resolve returns the task's memoized result, computing it first if needed.
// Dependencies are resolved by direct recursion; the Resolving status marks
// the active chain so a revisit is reported as a cycle rather than recursing
// forever. The marker is rolled back on every failure path, so a failed
// chain leaves the scheduler in a state where unrelated tasks (and retries
// against the same ids) behave as if the failed call never happened, except
// for tasks that already completed.
func (s *Scheduler) resolve(id TaskID) (result, error) {
	if id < 0 || int(id) >= len(s.tasks) {
		return result{}, fmt.Errorf("%w: %d (have %d tasks)", ErrTaskOutOfRange, id, len(s.tasks))
	}
	t := s.tasks[id]

	switch t.status {
	case StatusDone:
		return t.result, nil
	case StatusResolving:
		cycleStart := slices.Index(s.active, id)
		return result{}, &CycleError{Path: append(slices.Clone(s.active[cycleStart:]), id)}
	}

	t.status = StatusResolving
	s.active = append(s.active, id)
	defer func() {
		s.active = s.active[:len(s.active)-1]
		if t.status == StatusResolving {
			t.status = StatusPending
		}
	}()

	hooks := s.hooks.Merge(t.hooks)
	t.metrics = TaskMetrics{StartedAt: now(), Status: StatusResolving}
	hooks.invoke(hooks.OnStart, Event{Task: s.info(t), Metrics: t.metrics})

	if t.run == nil {
		err := fmt.Errorf("%w: task %d", ErrMissingWork, id)
		s.fail(t, hooks, err)
		return result{}, err
	}

	res, err := t.run(s)
	if err != nil {
		s.fail(t, hooks, err)
		return result{}, err
	}

	t.result = res
	t.status = StatusDone
	t.metrics.CompletedAt = now()
	t.metrics.Duration = t.metrics.CompletedAt.Sub(t.metrics.StartedAt)
	t.metrics.Status = StatusDone
	var value any
	if res.set {
		value = res.value
	}
	hooks.invoke(hooks.OnResolve, Event{Task: s.info(t), Metrics: t.metrics, Value: value})
	return t.result, nil
}

func (s *Scheduler) fail(t *task, hooks Hooks, err error) {
	t.metrics.CompletedAt = now()
	t.metrics.Duration = t.metrics.CompletedAt.Sub(t.metrics.StartedAt)
	t.metrics.Status = StatusPending
	hooks.invoke(hooks.OnError, Event{Task: s.info(t), Metrics: t.metrics, Err: err})
}

func (s *Scheduler) info(t *task) TaskInfo {
	return TaskInfo{
		ID:           t.id,
		Name:         t.name,
		Dependencies: slices.Clone(t.deps),
	}
}

// Get resolves the task and returns its result as T. The stored value's
// concrete type must match T exactly; otherwise Get fails with a TypeError
// wrapping ErrTypeMismatch. Repeated calls return the memoized value without
// re-invoking the work function.
func Get[T any](s *Scheduler, id TaskID) (T, error) {
	res, err := s.resolve(id)
	if err != nil {
		var zero T
		return zero, err
	}
	v, ok := as[T](res)
	if !ok {
		var zero T
		return zero, &TypeError{Task: id, Requested: reflect.TypeFor[T](), Actual: res.typeOf()}
	}
	return v, nil
}

// RunAll eagerly resolves every task in registration order, skipping those
// already done. It stops at the first error; tasks completed before the
// failure stay done, and the rest remain individually resolvable.
func (s *Scheduler) RunAll() error {
	for id := range s.tasks {
		if s.tasks[id].status == StatusDone {
			continue
		}
		if _, err := s.resolve(TaskID(id)); err != nil {
			return err
		}
	}
	return nil
}
