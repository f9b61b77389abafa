package stream

// window is a fixed capacity FIFO ring: pushing into a full window evicts
// the oldest entry.
type window[T any] struct {
	buf   []T
	start int
	size  int
}

func newWindow[T any](capacity int) *window[T] {
	if capacity < 1 {
		capacity = 1
	}
	return &window[T]{buf: make([]T, capacity)}
}

func (w *window[T]) push(v T) {
	if w.size < len(w.buf) {
		w.buf[(w.start+w.size)%len(w.buf)] = v
		w.size++
		return
	}
	w.buf[w.start] = v
	w.start = (w.start + 1) % len(w.buf)
}

func (w *window[T]) len() int {
	return w.size
}

// values returns a copy, oldest first.
func (w *window[T]) values() []T {
	out := make([]T, w.size)
	for i := 0; i < w.size; i++ {
		out[i] = w.buf[(w.start+i)%len(w.buf)]
	}
	return out
}
