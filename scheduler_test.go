package loom

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistrationAssignsDenseIDs(t *testing.T) {
	s := New()

	id0 := Add(s, func() int { return 1 })
	id1 := Add1(s, func(x int) int { return x }, FutureOf[int](id0))
	id2 := Add2(s, func(x, y int) int { return x + y }, Lit(1), Lit(2))

	assert.Equal(t, TaskID(0), id0)
	assert.Equal(t, TaskID(1), id1)
	assert.Equal(t, TaskID(2), id2)
	assert.Equal(t, 3, s.Len())
}

func TestRegistrationNeverExecutes(t *testing.T) {
	s := New()

	ran := false
	Add(s, func() int {
		ran = true
		return 1
	})

	assert.False(t, ran)
	assert.Equal(t, StatusPending, s.Status(0))
}

func TestTaskNames(t *testing.T) {
	s := New()

	id0 := Add(s, func() int { return 1 })
	id1 := Add(s, func() int { return 2 }, WithName("producer"))

	assert.Equal(t, "task-0", s.Name(id0))
	assert.Equal(t, "producer", s.Name(id1))
	assert.Equal(t, "", s.Name(TaskID(99)))
}

func TestStatusUnknownTask(t *testing.T) {
	s := New()

	assert.Equal(t, TaskStatus(""), s.Status(TaskID(0)))
	assert.Equal(t, TaskStatus(""), s.Status(TaskID(-1)))
}

func TestMetricsAbsentBeforeResolution(t *testing.T) {
	s := New()

	id := Add(s, func() int { return 1 })

	_, ok := s.Metrics(id)
	assert.False(t, ok)
}

func TestForwardReferenceRegistration(t *testing.T) {
	s := New()

	// Reference a task that does not exist yet. Construction is pure
	// metadata, so this must not fail; it only matters at resolution time.
	id0 := Add1(s, func(x int) int { return x * 2 }, FutureOf[int](1))
	id1 := Add(s, func() int { return 21 })

	v, err := Get[int](s, id0)
	require.NoError(t, err)
	assert.Equal(t, 42, v)
	assert.Equal(t, TaskID(1), id1)
}

func TestForwardReferenceNeverRegistered(t *testing.T) {
	s := New()

	id := Add1(s, func(x int) int { return x }, FutureOf[int](7))

	_, err := Get[int](s, id)
	require.ErrorIs(t, err, ErrTaskOutOfRange)
}
