// Package simclock provides the single time source every component of the
// simulation schedules against.
// 시뮬레이션의 모든 구성 요소가 사용하는 단일 시간 소스를 제공합니다.
package simclock

import (
	"sync"
	"time"
)

// Clock issues delayed one-shot callbacks.
// Clock은 지연된 일회성 콜백을 발행합니다.
type Clock interface {
	Now() time.Time
	// AfterFunc runs fn once d has elapsed. name is used for diagnostics only.
	AfterFunc(d time.Duration, name string, fn func())
}

// Real is a Clock backed by the wall clock.
// Callbacks run on their own goroutines; callers must serialize them.
type Real struct {
	mu      sync.Mutex
	timers  map[*time.Timer]struct{}
	stopped bool
}

// NewReal creates a wall-clock Clock.
func NewReal() *Real {
	return &Real{timers: make(map[*time.Timer]struct{})}
}

// Now returns the wall-clock time.
func (r *Real) Now() time.Time {
	return time.Now()
}

// AfterFunc schedules fn on the wall clock.
func (r *Real) AfterFunc(d time.Duration, name string, fn func()) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.stopped {
		return
	}

	var t *time.Timer
	t = time.AfterFunc(d, func() {
		r.mu.Lock()
		_, live := r.timers[t]
		delete(r.timers, t)
		r.mu.Unlock()
		if live {
			fn()
		}
	})
	r.timers[t] = struct{}{}
}

// Stop cancels every pending callback and rejects new ones.
// Stop은 대기 중인 모든 콜백을 취소합니다.
func (r *Real) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stopped = true
	for t := range r.timers {
		t.Stop()
	}
	r.timers = make(map[*time.Timer]struct{})
}
