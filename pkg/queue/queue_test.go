package queue

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDequeueReturnsDueMail(t *testing.T) {
	q := NewQueue()
	q.Enqueue(&PendingMail{To: "a@example.org", RetryAt: time.Now().Add(-time.Second)})

	m := q.Dequeue()
	assert.NotNil(t, m)
	assert.Equal(t, "a@example.org", m.To)
	assert.Equal(t, 0, q.Size())
}

func TestDequeueSkipsFutureMail(t *testing.T) {
	q := NewQueue()
	q.Enqueue(&PendingMail{To: "a@example.org", RetryAt: time.Now().Add(time.Hour)})

	assert.Nil(t, q.Dequeue())
	assert.Equal(t, 1, q.Size())
}

func TestDequeuePicksFirstDue(t *testing.T) {
	q := NewQueue()
	q.Enqueue(&PendingMail{To: "later@example.org", RetryAt: time.Now().Add(time.Hour)})
	q.Enqueue(&PendingMail{To: "now@example.org", RetryAt: time.Now().Add(-time.Second)})

	m := q.Dequeue()
	assert.NotNil(t, m)
	assert.Equal(t, "now@example.org", m.To)
	assert.Equal(t, 1, q.Size())
}
