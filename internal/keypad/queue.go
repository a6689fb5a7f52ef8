// internal/keypad/queue.go
package keypad

import "sync"

// Queue is a Scanner fed by key-press events (terminal keyboard).
// Each pushed key reads as held for one scan and released on the next,
// so the entry latch sees a press followed by a release.
type Queue struct {
	mu       sync.Mutex
	keys     []Key
	released bool
}

// NewQueue returns an empty queue scanner.
func NewQueue() *Queue {
	return &Queue{released: true}
}

// Push queues one key press.
func (q *Queue) Push(k Key) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.keys = append(q.keys, k)
}

// Scan returns the next queued key, with a NoKey between presses.
func (q *Queue) Scan() Key {
	q.mu.Lock()
	defer q.mu.Unlock()

	if !q.released || len(q.keys) == 0 {
		q.released = true
		return NoKey
	}

	k := q.keys[0]
	q.keys = q.keys[1:]
	q.released = false
	return k
}

// Reset drops presses typed before now.
func (q *Queue) Reset() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.keys = nil
	q.released = true
}

// Close drops queued keys.
func (q *Queue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.keys = nil
	return nil
}
