package elevator

import (
	"errors"
	"testing"
)

func TestCarState_AddDestination(t *testing.T) {
	s := CarState{ID: 1, Floor: 2, Phase: PhaseIdle}

	if err := s.AddDestination(2); !errors.Is(err, ErrAlreadyAtFloor) {
		t.Errorf("Expected ErrAlreadyAtFloor, got %v", err)
	}
	if len(s.Destinations) != 0 {
		t.Errorf("Rejected floor changed state: %v", s.Destinations)
	}

	if err := s.AddDestination(5); err != nil {
		t.Fatalf("Failed to add valid destination: %v", err)
	}
	if err := s.AddDestination(5); !errors.Is(err, ErrAlreadyQueued) {
		t.Errorf("Expected ErrAlreadyQueued, got %v", err)
	}
	if !s.HasDestination(5) || len(s.Destinations) != 1 {
		t.Errorf("Expected exactly one destination 5, got %v", s.Destinations)
	}

	s.RemoveDestination(5)
	if s.HasDestination(5) {
		t.Error("Destination 5 not removed")
	}
}

func TestCarState_DestinationListSorted(t *testing.T) {
	s := CarState{Floor: 0}
	for _, f := range []int{7, 3, 9, 1} {
		if err := s.AddDestination(f); err != nil {
			t.Fatalf("AddDestination(%d): %v", f, err)
		}
	}
	got := s.DestinationList()
	want := []int{1, 3, 7, 9}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Expected %v, got %v", want, got)
		}
	}
}

func TestCarState_Farthest(t *testing.T) {
	s := CarState{Floor: 4, Destinations: map[int]bool{1: true, 2: true, 6: true, 9: true}}

	if f, ok := s.farthest(DirUp); !ok || f != 9 {
		t.Errorf("Expected farthest up 9, got %d (ok=%v)", f, ok)
	}
	if f, ok := s.farthest(DirDown); !ok || f != 1 {
		t.Errorf("Expected farthest down 1, got %d (ok=%v)", f, ok)
	}
	if _, ok := s.farthest(DirNone); ok {
		t.Error("Expected no farthest destination without a direction")
	}
}

func TestCallQueue_RemoveAtKeepsOrder(t *testing.T) {
	var q CallQueue
	for i, f := range []int{3, 6, 1, 8} {
		q.Push(&Call{ID: uint64(i + 1), Floor: f})
	}

	if c := q.RemoveAt(1); c.Floor != 6 {
		t.Errorf("Expected to remove floor 6, got %d", c.Floor)
	}
	got := q.Floors()
	want := []int{3, 1, 8}
	if len(got) != len(want) {
		t.Fatalf("Expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Expected %v, got %v", want, got)
		}
	}
}
