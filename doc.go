// Package loom provides lazy, memoized evaluation of dependent tasks. Tasks
// are registered with literal arguments or future references to other tasks'
// eventual results, and nothing runs until a result is requested (or the
// whole schedule is forced with RunAll). Each work function executes at most
// once; dependency cycles on the active resolution path are detected and
// reported. Resolution is synchronous, single-threaded recursion: a
// Scheduler must not be shared between goroutines without external locking.
package loom
