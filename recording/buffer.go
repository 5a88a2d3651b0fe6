package recording

import "sync"

// Buffer is the growable sample buffer shared by the capture loop and the
// control layer. It has its own lock; the capture loop appends while also
// holding the State lock so no frame lands after a transition.
type Buffer struct {
	samples []float32
	mu      sync.Mutex
}

// Append adds normalised samples to the end of the buffer.
func (b *Buffer) Append(samples []float32) {
	b.mu.Lock()
	b.samples = append(b.samples, samples...)
	b.mu.Unlock()
}

// Drain returns every buffered sample and empties the buffer.
func (b *Buffer) Drain() []float32 {
	b.mu.Lock()
	defer b.mu.Unlock()

	s := b.samples
	b.samples = nil

	return s
}

// Tail returns a copy of the most recent n samples (fewer if the buffer is
// shorter).
func (b *Buffer) Tail(n int) []float32 {
	b.mu.Lock()
	defer b.mu.Unlock()

	if n > len(b.samples) {
		n = len(b.samples)
	}

	out := make([]float32, n)
	copy(out, b.samples[len(b.samples)-n:])

	return out
}

// Len reports the number of buffered samples.
func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	return len(b.samples)
}

// Reset discards all buffered samples.
func (b *Buffer) Reset() {
	b.mu.Lock()
	b.samples = nil
	b.mu.Unlock()
}
