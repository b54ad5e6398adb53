package camera

// unboundedQueue adapts an unbounded producer side to a single
// consumer channel, per spec.md §4.1's "single unbounded inbound
// command queue" — a plain buffered chan Command would impose an
// artificial cap, so incoming commands are held in a growable slice
// and forwarded in order as the consumer drains them. Cancellation:
// closing in causes the pump goroutine to drain what's buffered, then
// close out, which is the Actor's select-else-branch shutdown path.
type unboundedQueue struct {
	in  chan Command
	out chan Command
}

func newUnboundedQueue() *unboundedQueue {
	q := &unboundedQueue{
		in:  make(chan Command),
		out: make(chan Command),
	}
	go q.pump()
	return q
}

func (q *unboundedQueue) pump() {
	defer close(q.out)

	var buf []Command
	for {
		if len(buf) == 0 {
			cmd, ok := <-q.in
			if !ok {
				return
			}
			buf = append(buf, cmd)
			continue
		}

		select {
		case cmd, ok := <-q.in:
			if !ok {
				// Drain what's buffered before closing out.
				for _, c := range buf {
					q.out <- c
				}
				return
			}
			buf = append(buf, cmd)
		case q.out <- buf[0]:
			buf = buf[1:]
		}
	}
}
