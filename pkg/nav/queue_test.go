package nav

import "testing"

func forwardOf(mm float64) *Action {
	return &Action{Params: Forward{DistanceMM: mm}}
}

func distances(q *Queue) []float64 {
	var out []float64
	for _, a := range q.Actions() {
		out = append(out, a.Params.(Forward).DistanceMM)
	}
	return out
}

func equalFloats(a, b []float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestQueue_PushBackKeepsOrder(t *testing.T) {
	var q Queue
	var want []float64
	for i := 1; i <= 20; i++ {
		q.PushBack(forwardOf(float64(i)))
		want = append(want, float64(i))
	}
	if got := distances(&q); !equalFloats(got, want) {
		t.Errorf("order = %v, want %v", got, want)
	}
	if q.Len() != 20 {
		t.Errorf("Len() = %d, want 20", q.Len())
	}
}

func TestQueue_PushFrontReversesOrder(t *testing.T) {
	var q Queue
	var want []float64
	for i := 1; i <= 20; i++ {
		q.PushFront(forwardOf(float64(i)))
		want = append([]float64{float64(i)}, want...)
	}
	if got := distances(&q); !equalFloats(got, want) {
		t.Errorf("order = %v, want %v", got, want)
	}
}

func TestQueue_Mixed(t *testing.T) {
	var q Queue
	q.PushFront(forwardOf(2)) // empty queue
	q.PushBack(forwardOf(3))
	q.PushFront(forwardOf(1))
	q.PushBack(forwardOf(4))

	if got, want := distances(&q), []float64{1, 2, 3, 4}; !equalFloats(got, want) {
		t.Errorf("order = %v, want %v", got, want)
	}
	if q.Front().Params.(Forward).DistanceMM != 1 {
		t.Errorf("Front() = %v, want 1", q.Front())
	}
	if q.At(3).Params.(Forward).DistanceMM != 4 {
		t.Errorf("At(3) = %v, want 4", q.At(3))
	}
	if q.At(4) != nil || q.At(-1) != nil {
		t.Error("At out of range should return nil")
	}
}

func TestQueue_PopFrontToEmpty(t *testing.T) {
	var q Queue
	if q.PopFront() != nil {
		t.Fatal("PopFront on empty queue should return nil")
	}
	for i := 1; i <= 3; i++ {
		q.PushBack(forwardOf(float64(i)))
	}
	for i := 1; i <= 3; i++ {
		a := q.PopFront()
		if a == nil || a.Params.(Forward).DistanceMM != float64(i) {
			t.Fatalf("PopFront #%d = %v", i, a)
		}
		if q.Len() != 3-i {
			t.Errorf("Len() = %d, want %d", q.Len(), 3-i)
		}
	}
	if q.Front() != nil {
		t.Error("Front() on drained queue should be nil")
	}

	q.PushFront(forwardOf(9))
	if q.Len() != 1 || q.Front().Params.(Forward).DistanceMM != 9 {
		t.Errorf("reuse after drain failed: len=%d front=%v", q.Len(), q.Front())
	}
}

func TestQueue_WrapAround(t *testing.T) {
	var q Queue
	// rotate the ring so head sits mid-buffer before growing
	for i := 0; i < 5; i++ {
		q.PushBack(forwardOf(0))
	}
	for i := 0; i < 5; i++ {
		q.PopFront()
	}
	for i := 1; i <= 12; i++ {
		q.PushBack(forwardOf(float64(i)))
	}
	q.PushFront(forwardOf(0))

	want := []float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}
	if got := distances(&q); !equalFloats(got, want) {
		t.Errorf("order = %v, want %v", got, want)
	}
	if q.Len() != len(q.Actions()) {
		t.Errorf("Len() = %d, linked = %d", q.Len(), len(q.Actions()))
	}
}

func TestQueue_Clear(t *testing.T) {
	var q Queue
	q.Clear() // no-op on empty
	if q.Len() != 0 {
		t.Fatalf("Len() = %d after clearing empty queue", q.Len())
	}

	for i := 0; i < 10; i++ {
		q.PushBack(forwardOf(float64(i)))
	}
	q.Clear()
	if q.Len() != 0 || q.Front() != nil || len(q.Actions()) != 0 {
		t.Errorf("queue not empty after Clear: len=%d", q.Len())
	}
	for _, slot := range q.buf {
		if slot != nil {
			t.Fatal("Clear left a reference in the buffer")
		}
	}

	q.PushBack(forwardOf(7))
	if q.Len() != 1 {
		t.Errorf("Len() = %d after reuse, want 1", q.Len())
	}
}
