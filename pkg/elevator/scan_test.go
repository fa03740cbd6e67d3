package elevator

import (
	"errors"
	"testing"
)

func TestNextStop_SCAN(t *testing.T) {
	tests := []struct {
		name    string
		floor   int
		bias    Direction
		dests   []int
		want    Stop
		wantOK  bool
		wantErr error
	}{
		{"empty", 4, DirUp, nil, Stop{}, false, nil},
		{"up nearest ascending", 4, DirUp, []int{2, 5, 8}, Stop{5, DirUp}, true, nil},
		{"up exhausted reverses", 9, DirUp, []int{2, 5, 8}, Stop{8, DirDown}, true, nil},
		{"down nearest descending", 4, DirDown, []int{2, 5, 8}, Stop{2, DirDown}, true, nil},
		{"down exhausted reverses", 0, DirDown, []int{2, 5, 8}, Stop{2, DirUp}, true, nil},
		{"idle nearest", 4, DirNone, []int{1, 6, 9}, Stop{6, DirUp}, true, nil},
		{"idle tie goes lower", 5, DirNone, []int{7, 3}, Stop{3, DirDown}, true, nil},
		{"current floor is a defect", 4, DirUp, []int{4, 6}, Stop{}, false, ErrInvariant},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok, err := NextStop(tt.floor, tt.bias, tt.dests)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Expected error %v, got %v", tt.wantErr, err)
			}
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("Expected %v (ok=%v), got %v (ok=%v)", tt.want, tt.wantOK, got, ok)
			}
		})
	}
}

func TestNextStop_DoesNotMutate(t *testing.T) {
	dests := []int{8, 2, 5}
	if _, _, err := NextStop(4, DirUp, dests); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if dests[0] != 8 || dests[1] != 2 || dests[2] != 5 {
		t.Errorf("Input was reordered: %v", dests)
	}
}

func TestNextStop_FullSweep(t *testing.T) {
	// Serving the chosen stop each time from floor 4 with bias up must
	// sweep up first and then come back down.
	floor, bias := 4, DirUp
	pending := map[int]bool{2: true, 5: true, 8: true, 1: true}
	var visited []int

	for len(pending) > 0 {
		var dests []int
		for f := range pending {
			dests = append(dests, f)
		}
		stop, ok, err := NextStop(floor, bias, dests)
		if err != nil || !ok {
			t.Fatalf("Unexpected result ok=%v err=%v", ok, err)
		}
		visited = append(visited, stop.Floor)
		delete(pending, stop.Floor)
		floor, bias = stop.Floor, stop.Direction
	}

	want := []int{5, 8, 2, 1}
	for i := range want {
		if visited[i] != want[i] {
			t.Fatalf("Expected sweep %v, got %v", want, visited)
		}
	}
}
