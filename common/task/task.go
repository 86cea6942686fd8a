package task

import (
	"context"
	"sync"

	"github.com/weirlab/flume/common"
	E "github.com/weirlab/flume/common/exceptions"
)

type taskItem struct {
	name string
	run  func(ctx context.Context) error
}

// Group runs tasks concurrently; the first failure cancels the shared
// context.
type Group struct {
	tasks    []taskItem
	cleanup  func()
	fastFail bool
}

func (g *Group) Append(name string, run func(ctx context.Context) error) {
	g.tasks = append(g.tasks, taskItem{name: name, run: run})
}

func (g *Group) Append0(run func(ctx context.Context) error) {
	g.tasks = append(g.tasks, taskItem{run: run})
}

func (g *Group) Cleanup(cleanup func()) {
	g.cleanup = cleanup
}

// FastFail makes Run return on the first failure instead of waiting
// for the remaining tasks to notice the cancellation.
func (g *Group) FastFail() {
	g.fastFail = true
}

func (g *Group) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		access sync.Mutex
		errs   []error
	)
	firstErr := make(chan error, 1)
	done := make(chan struct{})

	var wg sync.WaitGroup
	wg.Add(len(g.tasks))
	for _, task := range g.tasks {
		currentTask := task
		go func() {
			defer wg.Done()
			err := currentTask.run(ctx)
			if err != nil {
				if !common.Done(ctx) {
					if currentTask.name != "" {
						err = E.Cause(err, currentTask.name)
					}
					access.Lock()
					errs = append(errs, err)
					access.Unlock()
					select {
					case firstErr <- err:
					default:
					}
				}
				cancel()
			}
		}()
	}
	go func() {
		wg.Wait()
		close(done)
	}()

	var retErr error
	if g.fastFail {
		select {
		case retErr = <-firstErr:
		case <-done:
		}
	} else {
		<-done
	}
	if g.cleanup != nil {
		g.cleanup()
	}
	if retErr != nil {
		return retErr
	}
	access.Lock()
	defer access.Unlock()
	if len(errs) == 0 {
		return ctx.Err()
	}
	return E.Errors(errs...)
}
