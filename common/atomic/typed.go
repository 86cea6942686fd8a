package atomic

import (
	"sync/atomic"

	"github.com/weirlab/flume/common"
)

// TypedValue holds a T atomically. The zero value is empty and loads
// T's zero value.
type TypedValue[T any] struct {
	value atomic.Pointer[T]
}

func (t *TypedValue[T]) Load() T {
	if stored := t.value.Load(); stored != nil {
		return *stored
	}
	return common.DefaultValue[T]()
}

func (t *TypedValue[T]) Store(value T) {
	t.value.Store(&value)
}

func (t *TypedValue[T]) Swap(value T) T {
	if previous := t.value.Swap(&value); previous != nil {
		return *previous
	}
	return common.DefaultValue[T]()
}
