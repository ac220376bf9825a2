package console

import "sync"

// mailbox is an unbounded FIFO of messages with a single consumer. put never
// blocks; the consumer waits on wake and takes everything queued with drain.
type mailbox struct {
	mu    sync.Mutex
	queue []Msg

	// wake holds at most one token. A token is always present while the
	// queue is non-empty and the consumer has not drained it yet.
	wake chan struct{}
}

func newMailbox() *mailbox {
	return &mailbox{wake: make(chan struct{}, 1)}
}

func (m *mailbox) put(msg Msg) {
	m.mu.Lock()
	m.queue = append(m.queue, msg)
	m.mu.Unlock()

	select {
	case m.wake <- struct{}{}:
	default:
	}
}

// drain removes and returns every queued message in arrival order.
func (m *mailbox) drain() []Msg {
	m.mu.Lock()
	queued := m.queue
	m.queue = nil
	m.mu.Unlock()
	return queued
}

func (m *mailbox) len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.queue)
}
