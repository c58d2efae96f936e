package sieve

// combiner holds the latest value of three streams and a has-value flag
// for each. It emits only once every flag is set and then on every update.
type combiner[A, B, C, R any] struct {
	a     A
	b     B
	c     C
	hasA  bool
	hasB  bool
	hasC  bool
	merge func(A, B, C) R
	emit  func(R)
}

func (m *combiner[A, B, C, R]) setA(v A) {
	m.a, m.hasA = v, true
	m.update()
}

func (m *combiner[A, B, C, R]) setB(v B) {
	m.b, m.hasB = v, true
	m.update()
}

func (m *combiner[A, B, C, R]) setC(v C) {
	m.c, m.hasC = v, true
	m.update()
}

func (m *combiner[A, B, C, R]) update() {
	if !m.hasA || !m.hasB || !m.hasC {
		return
	}
	m.emit(m.merge(m.a, m.b, m.c))
}

// Combine3 merges three streams with combine-latest semantics. Every
// emission from any of them produces one merged value built from the most
// recent value of each; nothing is emitted until all three have emitted.
// Changes are never coalesced.
//
// The returned stream is cold: each subscriber gets its own state and its
// own upstream subscriptions, released together by Unsubscribe.
func Combine3[A, B, C, R any](a Stream[A], b Stream[B], c Stream[C], merge func(A, B, C) R) Stream[R] {
	return StreamFunc[R](func(fn func(R)) Subscription {
		m := &combiner[A, B, C, R]{merge: merge, emit: fn}
		return subscriptions{
			a.Subscribe(m.setA),
			b.Subscribe(m.setB),
			c.Subscribe(m.setC),
		}
	})
}

// Filters builds the composite filter stream from the three criteria.
// Seeded inputs make the first emission the all-defaults filter.
//
// Example:
//
//	name := sieve.NewInput("name", "")
//	color := sieve.NewInput("color", "")
//	minProgress := sieve.NewInput("min_progress", 0.0)
//	filters := sieve.Filters(name, color, minProgress)
func Filters(name, color Stream[string], minProgress Stream[float64]) Stream[Filter] {
	return Combine3(name, color, minProgress, func(n, c string, p float64) Filter {
		return Filter{Name: n, Color: c, MinProgress: p}
	})
}
