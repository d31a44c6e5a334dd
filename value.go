package loom

import "reflect"

// result transports one task output of any concrete type. It starts empty
// and is replaced wholesale exactly once, when the owning task finishes;
// side-effect-only tasks leave it empty forever.
type result struct {
	value any
	set   bool
}

func hold(value any) result {
	return result{value: value, set: true}
}

func (r result) empty() bool {
	return !r.set
}

// typeOf reports the dynamic type of the held value, or nil when empty.
func (r result) typeOf() reflect.Type {
	if !r.set {
		return nil
	}
	return reflect.TypeOf(r.value)
}

// as extracts the held value as T. The dynamic type must match T exactly for
// concrete T (an int result is not readable as float64, nor float32 as
// float64); an interface T succeeds for any held value implementing it. An
// empty result never extracts.
func as[T any](r result) (T, bool) {
	if !r.set {
		var zero T
		return zero, false
	}
	v, ok := r.value.(T)
	return v, ok
}
