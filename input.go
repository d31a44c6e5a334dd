package loom

import "reflect"

// Input describes one argument slot of a task: either a literal value
// captured at registration or a future reference to another task's result.
// Which of the two it is becomes fixed at construction.
type Input[T any] struct {
	future bool
	task   TaskID
	value  T
}

// Lit binds a literal value. The value is captured by copy and is never
// re-evaluated.
func Lit[T any](value T) Input[T] {
	return Input[T]{value: value}
}

// FutureOf binds the eventual result of the task identified by id, read back
// as T. Construction is pure metadata: the id is not range-checked here, so
// forward references to not-yet-registered tasks are permitted and only
// become errors if still unresolvable when actually resolved.
func FutureOf[T any](id TaskID) Input[T] {
	return Input[T]{future: true, task: id}
}

// dep reports the referenced task, if any. Used for dependency metadata only.
func (in Input[T]) dep() (TaskID, bool) {
	return in.task, in.future
}

// resolve produces the slot's value. Literals return immediately; future
// references recurse into the scheduler and extract the referenced result as
// T, reporting a TypeError when the produced type differs.
func (in Input[T]) resolve(s *Scheduler) (T, error) {
	if !in.future {
		return in.value, nil
	}
	res, err := s.resolve(in.task)
	if err != nil {
		var zero T
		return zero, err
	}
	v, ok := as[T](res)
	if !ok {
		var zero T
		return zero, &TypeError{Task: in.task, Requested: reflect.TypeFor[T](), Actual: res.typeOf()}
	}
	return v, nil
}
