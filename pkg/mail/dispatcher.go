package mail

import (
	"log"
	"time"

	"libmanager/pkg/circuitbreaker"
	"libmanager/pkg/queue"
)

const defaultMaxRetries = 5

// Dispatcher wraps a Sender with a circuit breaker and a retry queue.
// Send never blocks the caller on delivery problems: a failed or
// breaker-rejected message is queued with backoff and retried by Run.
type Dispatcher struct {
	sender  Sender
	breaker *circuitbreaker.CircuitBreaker
	pending *queue.Queue
}

func NewDispatcher(sender Sender) *Dispatcher {
	return &Dispatcher{
		sender:  sender,
		breaker: circuitbreaker.New(3, 30*time.Second),
		pending: queue.NewQueue(),
	}
}

func (d *Dispatcher) Send(to, subject, body string) error {
	d.deliver(&queue.PendingMail{
		To:         to,
		Subject:    subject,
		Body:       body,
		MaxRetries: defaultMaxRetries,
	})
	return nil
}

func (d *Dispatcher) deliver(m *queue.PendingMail) {
	if !d.breaker.Allow() {
		d.requeue(m)
		return
	}
	if err := d.sender.Send(m.To, m.Subject, m.Body); err != nil {
		d.breaker.Failure()
		d.requeue(m)
		return
	}
	d.breaker.Success()
}

func (d *Dispatcher) requeue(m *queue.PendingMail) {
	m.RetryCount++
	if m.RetryCount > m.MaxRetries {
		log.Printf("Dropping mail to %s after %d attempts", m.To, m.MaxRetries)
		return
	}
	m.RetryAt = time.Now().Add(backoff(m.RetryCount))
	d.pending.Enqueue(m)
}

// Run drains the retry queue until stop is closed. Start it once from
// main.
func (d *Dispatcher) Run(stop <-chan struct{}) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			for m := d.pending.Dequeue(); m != nil; m = d.pending.Dequeue() {
				d.deliver(m)
			}
		}
	}
}

// Pending returns the number of messages waiting for a retry.
func (d *Dispatcher) Pending() int {
	return d.pending.Size()
}

func backoff(attempt int) time.Duration {
	return time.Duration(1<<uint(attempt-1)) * time.Second
}
