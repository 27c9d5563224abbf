package mars

import "corewar/point"

// Warrior is a loaded Redcode program: its image already lives in the
// core (placement.go writes it there once, at round setup); what
// round-to-round state a Warrior keeps is its display label, the offset
// it was placed at, and its process queue.
type Warrior struct {
	ID     int
	Label  string
	Origin point.Point

	queue processQueue
}

// Alive reports whether this warrior still has at least one live process.
func (w *Warrior) Alive() bool { return w.queue.Len() > 0 }

// processQueue is the FIFO of program counters spec.md §3 describes. Built
// as a plain slice with head/tail append/pop rather than container/list,
// matching the teacher's preference for concrete slice-backed state (e.g.
// mem.Bus's fixed array) over standard-library container types.
type processQueue struct {
	points []point.Point
}

func (q *processQueue) Len() int { return len(q.points) }

// PopFront removes and returns the head of the queue. Callers must check
// Len() > 0 first.
func (q *processQueue) PopFront() point.Point {
	p := q.points[0]
	q.points = q.points[1:]
	return p
}

// PushBack appends to the tail, honoring maxProcesses per spec.md §3 ("a
// warrior with queue length max_processes silently discards further SPL
// children"). Returns false if the push was dropped.
func (q *processQueue) PushBack(p point.Point, maxProcesses int) bool {
	if len(q.points) >= maxProcesses {
		return false
	}
	q.points = append(q.points, p)
	return true
}

// Snapshot returns a defensive copy of the queue contents, in FIFO order.
func (q *processQueue) Snapshot() []point.Point {
	out := make([]point.Point, len(q.points))
	copy(out, q.points)
	return out
}

// setFront replaces the program counter of the next process to run,
// without altering queue order. Used by Round.SetPC (REPL use, per
// spec.md §6).
func (q *processQueue) setFront(p point.Point) {
	if len(q.points) > 0 {
		q.points[0] = p
	}
}
