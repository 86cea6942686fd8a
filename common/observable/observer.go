// Package observable fans one source out to many subscribers.
package observable

import (
	"context"
	"errors"
	"io"
	"sync"

	"github.com/weirlab/flume/common"
	E "github.com/weirlab/flume/common/exceptions"
	"github.com/weirlab/flume/common/stream"
	"github.com/weirlab/flume/common/x/list"
)

var ErrObserverClosed = E.New("observable: observer closed")

// Observer pulls a source in a background loop and emits every item to
// all current subscribers. Subscribers that fall behind drop items
// rather than slow the loop down.
type Observer[T any] struct {
	source    stream.Source[T]
	size      int
	cancel    context.CancelFunc
	done      chan struct{}
	access    sync.Mutex
	listeners list.List[*Subscriber[T]]
	closed    bool
	err       error
}

func NewObserver[T any](source stream.Source[T], size int) *Observer[T] {
	ctx, cancel := context.WithCancel(context.Background())
	observer := &Observer[T]{
		source: source,
		size:   size,
		cancel: cancel,
		done:   make(chan struct{}),
	}
	go observer.loop(ctx)
	return observer
}

func (o *Observer[T]) loop(ctx context.Context) {
	defer close(o.done)
	for {
		item, err := o.source.Next(ctx)
		if err != nil {
			o.access.Lock()
			o.closed = true
			if !errors.Is(err, io.EOF) && !errors.Is(err, context.Canceled) {
				o.err = err
			}
			for element := o.listeners.Front(); element != nil; element = element.Next() {
				element.Value.Close()
			}
			o.listeners.Init()
			o.access.Unlock()
			return
		}
		o.access.Lock()
		for element := o.listeners.Front(); element != nil; element = element.Next() {
			element.Value.Emit(item)
		}
		o.access.Unlock()
	}
}

func (o *Observer[T]) Subscribe() (subscription Subscription[T], done <-chan struct{}, err error) {
	o.access.Lock()
	defer o.access.Unlock()
	if o.closed {
		return nil, nil, ErrObserverClosed
	}
	subscriber := NewSubscriber[T](o.size)
	o.listeners.PushBack(subscriber)
	subscription, done = subscriber.Subscription()
	return
}

func (o *Observer[T]) UnSubscribe(subscription Subscription[T]) {
	o.access.Lock()
	defer o.access.Unlock()
	for element := o.listeners.Front(); element != nil; element = element.Next() {
		current, _ := element.Value.Subscription()
		if current == subscription {
			o.listeners.Remove(element)
			element.Value.Close()
			return
		}
	}
}

// Err reports why the loop stopped. It is nil while the loop runs and
// after a clean end.
func (o *Observer[T]) Err() error {
	o.access.Lock()
	defer o.access.Unlock()
	return o.err
}

func (o *Observer[T]) Done() <-chan struct{} {
	return o.done
}

func (o *Observer[T]) Close() error {
	o.cancel()
	// Unblocks a loop stuck in a read the cancellation cannot reach.
	err := common.Close(o.source)
	<-o.done
	return err
}
