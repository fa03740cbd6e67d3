package main

import (
	"log/slog"
	"sort"
	"sync"
	"time"

	"go-elevator-bank/pkg/elevator"
)

// hallPanel tracks the lit hall buttons of one session.
// Acknowledge runs under the bank's lock, so nothing here calls back into the bank.
// 층별 호출 버튼 상태를 관리합니다.
type hallPanel struct {
	mu      sync.Mutex
	waiting map[int]*hallButton
	session *ElevatorSession
}

func newHallPanel(s *ElevatorSession) *hallPanel {
	return &hallPanel{
		waiting: make(map[int]*hallButton),
		session: s,
	}
}

// hallButton is the handle of one press. It stays lit from the moment the
// bank accepts the call until a car arrives.
type hallButton struct {
	panel *hallPanel
	floor int
	done  bool
}

func (p *hallPanel) button(floor int) *hallButton {
	return &hallButton{panel: p, floor: floor}
}

// arm lights the button unless a car already served it during submission.
func (p *hallPanel) arm(b *hallButton) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !b.done {
		p.waiting[b.floor] = b
	}
}

func (p *hallPanel) waitingFloors() []int {
	p.mu.Lock()
	defer p.mu.Unlock()
	floors := make([]int, 0, len(p.waiting))
	for f := range p.waiting {
		floors = append(floors, f)
	}
	sort.Ints(floors)
	return floors
}

func (b *hallButton) Waiting(floor int) bool {
	b.panel.mu.Lock()
	defer b.panel.mu.Unlock()
	return b.panel.waiting[floor] != nil
}

func (b *hallButton) Acknowledge(a elevator.Arrival) {
	p := b.panel
	p.mu.Lock()
	b.done = true
	if p.waiting[b.floor] == b {
		delete(p.waiting, b.floor)
	}
	p.mu.Unlock()

	p.notify(a)
}

// virtualButton stands in for generated calls: it never blocks a press.
type virtualButton struct {
	panel *hallPanel
}

func (p *hallPanel) virtual(int) elevator.Acknowledger {
	return virtualButton{panel: p}
}

func (v virtualButton) Acknowledge(a elevator.Arrival) {
	v.panel.notify(a)
}

func (p *hallPanel) notify(a elevator.Arrival) {
	slog.Debug("Hall call answered", "floor", a.Floor, "elevator", a.ElevatorID, "wait", a.WaitTime)
	p.session.writeJSON(ServerMessage{
		Type: "ack",
		Payload: map[string]interface{}{
			"callId":   a.CallID,
			"floor":    a.Floor,
			"elevator": a.ElevatorID,
			"waitMs":   float64(a.WaitTime) / float64(time.Millisecond),
		},
	})
}
