package batch

import "sync"

// Queue is the FIFO of videos waiting to be extracted. The caller fills it
// before a run; the runner consumes it. Mutations fail with ErrQueueBusy
// while a run is in progress.
type Queue struct {
	mu    sync.Mutex
	items []string
	busy  bool
}

// Enqueue appends videos in order. Duplicates are kept.
func (q *Queue) Enqueue(videos ...string) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.busy {
		return ErrQueueBusy
	}
	q.items = append(q.items, videos...)
	return nil
}

// Remove deletes the first occurrence of video and reports whether it was
// queued.
func (q *Queue) Remove(video string) (bool, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.busy {
		return false, ErrQueueBusy
	}
	for i, v := range q.items {
		if v == video {
			q.items = append(q.items[:i], q.items[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

// Clear empties the queue.
func (q *Queue) Clear() error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.busy {
		return ErrQueueBusy
	}
	q.items = nil
	return nil
}

// Items returns a copy of the queued videos in order.
func (q *Queue) Items() []string {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]string(nil), q.items...)
}

// Len returns the number of queued videos.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

func (q *Queue) dequeue() (string, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) == 0 {
		return "", false
	}
	v := q.items[0]
	q.items = q.items[1:]
	return v, true
}

func (q *Queue) setBusy(busy bool) {
	q.mu.Lock()
	q.busy = busy
	q.mu.Unlock()
}
