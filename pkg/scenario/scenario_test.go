package scenario

import (
	"testing"
	"time"

	"go-elevator-bank/pkg/elevator"
	"go-elevator-bank/pkg/simclock"
)

var epoch = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

type fakeBank struct {
	clock    *simclock.Virtual
	floors   map[int]int
	calls    []int
	requests [][2]int
	at       []time.Duration
}

func (f *fakeBank) SubmitExternalCall(floor int, _ elevator.Acknowledger) error {
	f.calls = append(f.calls, floor)
	f.at = append(f.at, f.clock.Now().Sub(epoch))
	return nil
}

func (f *fakeBank) SubmitInternalRequest(id, floor int) error {
	f.requests = append(f.requests, [2]int{id, floor})
	f.at = append(f.at, f.clock.Now().Sub(epoch))
	return nil
}

func (f *fakeBank) Snapshot() []elevator.CarState {
	var out []elevator.CarState
	for id := 1; id <= 3; id++ {
		out = append(out, elevator.CarState{ID: id, Floor: f.floors[id]})
	}
	return out
}

func TestGenerator_Complex(t *testing.T) {
	clock := simclock.NewVirtual(epoch)
	bank := &fakeBank{clock: clock, floors: map[int]int{1: 0, 2: 4, 3: 9}}
	g := New(bank, clock, 10, 3, 42)

	g.Complex()
	clock.Advance(10 * time.Second)

	if len(bank.calls) != 8 || len(bank.requests) != 5 {
		t.Fatalf("Expected 8 calls and 5 requests, got %d and %d", len(bank.calls), len(bank.requests))
	}
	for _, f := range bank.calls {
		if f < 0 || f >= 10 {
			t.Errorf("Call floor %d out of range", f)
		}
	}
	for _, r := range bank.requests {
		if r[0] < 1 || r[0] > 3 {
			t.Errorf("Request for unknown car %d", r[0])
		}
		if r[1] == bank.floors[r[0]] {
			t.Errorf("Request for car %d targets its own floor %d", r[0], r[1])
		}
	}

	// Last call fires at 6s + 2*500ms.
	if last := bank.at[len(bank.at)-1]; last != 7*time.Second {
		t.Errorf("Expected last request at 7s, got %v", last)
	}
}

func TestGenerator_Deterministic(t *testing.T) {
	run := func() []int {
		clock := simclock.NewVirtual(epoch)
		bank := &fakeBank{clock: clock, floors: map[int]int{}}
		New(bank, clock, 10, 3, 7).RandomCalls(20, 0)
		clock.Advance(time.Minute)
		return bank.calls
	}

	a, b := run(), run()
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("Same seed produced different streams: %v vs %v", a, b)
		}
	}
}

type countingAck struct{ n int }

func (c *countingAck) Acknowledge(elevator.Arrival) { c.n++ }

func TestGenerator_DrivesBank(t *testing.T) {
	clock := simclock.NewVirtual(epoch)
	bank, err := elevator.New(elevator.Config{
		Floors:         10,
		Elevators:      5,
		TravelPerFloor: time.Second,
		Dwell:          2 * time.Second,
	}, clock)
	if err != nil {
		t.Fatalf("Failed to create bank: %v", err)
	}

	acks := &countingAck{}
	g := New(bank, clock, 10, 5, 1)
	g.NewAck = func(int) elevator.Acknowledger { return acks }
	g.Complex()

	clock.Advance(5 * time.Minute)

	s := bank.Stats()
	if s.TotalCalls != 8 || s.CompletedCalls != 8 || s.QueueLength != 0 {
		t.Errorf("Expected all 8 calls completed, got %+v", s)
	}
	if acks.n != 8 {
		t.Errorf("Expected 8 acknowledgments, got %d", acks.n)
	}
	for _, c := range bank.Snapshot() {
		if !c.IsIdle() {
			t.Errorf("Car %d still busy: %+v", c.ID, c)
		}
	}
}
