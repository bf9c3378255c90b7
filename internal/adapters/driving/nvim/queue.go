package nvim

import (
	"sync"

	"github.com/custodia-labs/quill/internal/core/domain"
)

// queue runs jobs one at a time in arrival order, so a keystroke is always
// applied before a completion request sent after it.
type queue struct {
	mu     sync.Mutex
	closed bool
	jobs   chan func()
	done   chan struct{}
}

func newQueue(size int) *queue {
	q := &queue{
		jobs: make(chan func(), size),
		done: make(chan struct{}),
	}
	go q.work()
	return q
}

func (q *queue) work() {
	defer close(q.done)
	for job := range q.jobs {
		job()
	}
}

// push enqueues job. It blocks while the queue is full and fails once the
// queue is closed.
func (q *queue) push(job func()) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return domain.ErrClosed
	}
	q.jobs <- job
	return nil
}

// do enqueues job and waits for its result.
func (q *queue) do(job func() error) error {
	result := make(chan error, 1)
	if err := q.push(func() { result <- job() }); err != nil {
		return err
	}
	return <-result
}

// close stops accepting jobs and waits for queued ones to finish.
func (q *queue) close() {
	q.mu.Lock()
	if !q.closed {
		q.closed = true
		close(q.jobs)
	}
	q.mu.Unlock()
	<-q.done
}
