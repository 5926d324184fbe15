package backoff

import "time"

// Backoff duplica la espera en cada Next, acotada por Max; Reset vuelve a
// Min. No es seguro para uso concurrente: cada worker lleva el suyo.
type Backoff struct {
	Min time.Duration
	Max time.Duration

	next time.Duration
}

func (b *Backoff) Next() time.Duration {
	if b.next < b.Min {
		b.next = b.Min
	}
	d := b.next
	b.next *= 2
	if b.next > b.Max {
		b.next = b.Max
	}
	return d
}

func (b *Backoff) Reset() {
	b.next = 0
}
