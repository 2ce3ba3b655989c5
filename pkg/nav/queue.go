package nav

const minQueueCap = 8

// Queue is a double-ended queue of actions backed by a ring buffer.
// The queue owns the actions it holds: an action leaves it only through
// PopFront or Clear.
type Queue struct {
	buf  []*Action
	head int
	n    int
}

// Len returns the number of queued actions.
func (q *Queue) Len() int {
	return q.n
}

// Front returns the head action, or nil if the queue is empty.
func (q *Queue) Front() *Action {
	if q.n == 0 {
		return nil
	}
	return q.buf[q.head]
}

// At returns the i-th action from the front, or nil if out of range.
func (q *Queue) At(i int) *Action {
	if i < 0 || i >= q.n {
		return nil
	}
	return q.buf[(q.head+i)%len(q.buf)]
}

// PushBack appends an action at the tail.
func (q *Queue) PushBack(a *Action) {
	if q.n == 0 {
		q.reset()
		q.buf[0] = a
		q.n = 1
		return
	}
	q.grow()
	q.buf[(q.head+q.n)%len(q.buf)] = a
	q.n++
}

// PushFront inserts an action before the current head.
func (q *Queue) PushFront(a *Action) {
	if q.n == 0 {
		q.reset()
		q.buf[0] = a
		q.n = 1
		return
	}
	q.grow()
	q.head = (q.head - 1 + len(q.buf)) % len(q.buf)
	q.buf[q.head] = a
	q.n++
}

// PopFront removes and returns the head action, or nil if empty.
func (q *Queue) PopFront() *Action {
	if q.n == 0 {
		return nil
	}
	a := q.buf[q.head]
	q.buf[q.head] = nil
	q.head = (q.head + 1) % len(q.buf)
	q.n--
	if q.n == 0 {
		q.head = 0
	}
	return a
}

// Clear drops every queued action. Clearing an empty queue is a no-op.
func (q *Queue) Clear() {
	for i := range q.buf {
		q.buf[i] = nil
	}
	q.head = 0
	q.n = 0
}

// Actions returns the queued actions in order.
func (q *Queue) Actions() []*Action {
	out := make([]*Action, 0, q.n)
	for i := 0; i < q.n; i++ {
		out = append(out, q.At(i))
	}
	return out
}

func (q *Queue) reset() {
	if q.buf == nil {
		q.buf = make([]*Action, minQueueCap)
	}
	q.head = 0
}

// grow doubles the buffer when full, unrolling it so head lands at index 0.
func (q *Queue) grow() {
	if q.n < len(q.buf) {
		return
	}
	buf := make([]*Action, len(q.buf)*2)
	for i := 0; i < q.n; i++ {
		buf[i] = q.buf[(q.head+i)%len(q.buf)]
	}
	q.buf = buf
	q.head = 0
}
