package transcription

import (
	"context"
	"errors"
	"sync"
)

// ErrWorkerClosed is returned when work is submitted after Close.
var ErrWorkerClosed = errors.New("inference worker closed")

// Worker is a fixed pool of goroutines reserved for CPU-bound inference so
// long model runs never occupy the goroutines streaming other jobs' tools.
type Worker struct {
	tasks     chan func()
	closing   chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup
}

// NewWorker starts size inference goroutines. Sizes below one become one.
func NewWorker(size int) *Worker {
	if size < 1 {
		size = 1
	}
	w := &Worker{
		tasks:   make(chan func()),
		closing: make(chan struct{}),
	}
	w.wg.Add(size)
	for i := 0; i < size; i++ {
		go w.loop()
	}
	return w
}

func (w *Worker) loop() {
	defer w.wg.Done()
	for {
		select {
		case <-w.closing:
			return
		case task := <-w.tasks:
			task()
		}
	}
}

// Do runs fn on the pool and waits for it. If ctx ends before a worker picks
// fn up, fn never runs and the context error is returned.
func (w *Worker) Do(ctx context.Context, fn func(context.Context) error) error {
	done := make(chan error, 1)
	task := func() {
		if err := ctx.Err(); err != nil {
			done <- err
			return
		}
		done <- fn(ctx)
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-w.closing:
		return ErrWorkerClosed
	case w.tasks <- task:
	}
	return <-done
}

// Close stops the pool after in-flight tasks finish.
func (w *Worker) Close() {
	w.closeOnce.Do(func() { close(w.closing) })
	w.wg.Wait()
}
