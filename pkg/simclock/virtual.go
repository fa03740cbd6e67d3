package simclock

import (
	"container/heap"
	"sync"
	"time"
)

// event is a scheduled callback on the virtual timeline.
type event struct {
	at   time.Time
	seq  uint64
	name string
	run  func()
}

// eventQueue implements heap.Interface ordered by (at, seq).
type eventQueue []*event

func (q eventQueue) Len() int { return len(q) }

func (q eventQueue) Less(i, j int) bool {
	if q[i].at.Equal(q[j].at) {
		return q[i].seq < q[j].seq
	}
	return q[i].at.Before(q[j].at)
}

func (q eventQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *eventQueue) Push(x any) { *q = append(*q, x.(*event)) }

func (q *eventQueue) Pop() any {
	old := *q
	n := len(old)
	x := old[n-1]
	*q = old[:n-1]
	return x
}

// Virtual is a deterministic discrete-event Clock.
// Time only moves when Advance or RunUntilIdle is called, and callbacks
// scheduled for the same instant run in scheduling order.
// Virtual은 결정론적인 이산 사건 시계입니다. 테스트와 헤드리스 실행에 사용됩니다.
type Virtual struct {
	mu  sync.Mutex
	now time.Time
	seq uint64
	q   eventQueue
}

// NewVirtual creates a virtual clock starting at start.
func NewVirtual(start time.Time) *Virtual {
	v := &Virtual{now: start}
	heap.Init(&v.q)
	return v
}

// Now returns the current virtual time.
func (v *Virtual) Now() time.Time {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.now
}

// AfterFunc schedules fn at Now()+d. Negative delays are treated as zero.
func (v *Virtual) AfterFunc(d time.Duration, name string, fn func()) {
	if d < 0 {
		d = 0
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	v.seq++
	heap.Push(&v.q, &event{at: v.now.Add(d), seq: v.seq, name: name, run: fn})
}

// Pending returns the number of scheduled callbacks.
func (v *Virtual) Pending() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.q.Len()
}

// Advance moves time forward by d, running every callback due on the way,
// including callbacks scheduled by callbacks. It returns how many ran.
// Advance는 d만큼 시간을 진행시키며 그 사이의 모든 콜백을 실행합니다.
func (v *Virtual) Advance(d time.Duration) int {
	v.mu.Lock()
	end := v.now.Add(d)
	v.mu.Unlock()

	ran := 0
	for v.step(end, true) {
		ran++
	}

	v.mu.Lock()
	if v.now.Before(end) {
		v.now = end
	}
	v.mu.Unlock()
	return ran
}

// RunUntilIdle runs callbacks in time order until none remain or limit
// callbacks have run. It reports whether the queue drained.
func (v *Virtual) RunUntilIdle(limit int) bool {
	for i := 0; i < limit; i++ {
		if !v.step(time.Time{}, false) {
			return true
		}
	}
	return v.Pending() == 0
}

// step pops and runs the next callback. The clock lock is released while
// the callback runs so it can schedule further callbacks.
func (v *Virtual) step(end time.Time, bounded bool) bool {
	v.mu.Lock()
	if v.q.Len() == 0 {
		v.mu.Unlock()
		return false
	}
	next := v.q[0]
	if bounded && next.at.After(end) {
		v.mu.Unlock()
		return false
	}
	heap.Pop(&v.q)
	if next.at.After(v.now) {
		v.now = next.at
	}
	v.mu.Unlock()

	next.run()
	return true
}
