// Package queue is an in-memory outbox for mail that could not be
// delivered on the first attempt.
package queue

import (
	"sync"
	"time"
)

// PendingMail is a message waiting to be retried.
type PendingMail struct {
	To         string
	Subject    string
	Body       string
	RetryAt    time.Time
	RetryCount int
	MaxRetries int
}

type Queue struct {
	items []*PendingMail
	mu    sync.Mutex
}

func NewQueue() *Queue {
	return &Queue{
		items: make([]*PendingMail, 0),
	}
}

func (q *Queue) Enqueue(m *PendingMail) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.items = append(q.items, m)
}

// Dequeue removes and returns the first message whose retry time has
// passed, or nil if none is due.
func (q *Queue) Dequeue() *PendingMail {
	q.mu.Lock()
	defer q.mu.Unlock()

	now := time.Now()
	for i, m := range q.items {
		if !m.RetryAt.After(now) {
			q.items = append(q.items[:i], q.items[i+1:]...)
			return m
		}
	}
	return nil
}

func (q *Queue) Size() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}
