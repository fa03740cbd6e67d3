package elevator

import "fmt"

// Stop is the scheduler's choice for the next leg.
type Stop struct {
	Floor     int
	Direction Direction
}

// NextStop implements the direction-biased sweep (simplified SCAN).
//  1. With a bias, the nearest destination further along the bias wins.
//  2. When the bias is exhausted, the sweep reverses from the nearest
//     destination the other way and the direction flips.
//  3. Without a bias, the nearest destination wins, ties to the lower floor.
//
// ok is false when there are no destinations. A destination equal to floor
// breaks the destination invariant and is reported as ErrInvariant instead
// of being swept around. NextStop never mutates its input.
// NextStop은 방향 우선 스윕(SCAN) 알고리즘으로 다음 정차 층을 선택합니다.
func NextStop(floor int, bias Direction, destinations []int) (Stop, bool, error) {
	if len(destinations) == 0 {
		return Stop{}, false, nil
	}
	for _, f := range destinations {
		if f == floor {
			return Stop{}, false, fmt.Errorf("%w: floor %d", ErrInvariant, floor)
		}
	}

	switch bias {
	case DirUp:
		if f, ok := nearestAbove(floor, destinations); ok {
			return Stop{Floor: f, Direction: DirUp}, true, nil
		}
		// Reverse sweep starts at the highest floor below
		f, _ := nearestBelow(floor, destinations)
		return Stop{Floor: f, Direction: DirDown}, true, nil

	case DirDown:
		if f, ok := nearestBelow(floor, destinations); ok {
			return Stop{Floor: f, Direction: DirDown}, true, nil
		}
		f, _ := nearestAbove(floor, destinations)
		return Stop{Floor: f, Direction: DirUp}, true, nil
	}

	// No committed bias: nearest call
	target := destinations[0]
	for _, f := range destinations[1:] {
		d, best := abs(f-floor), abs(target-floor)
		if d < best || (d == best && f < target) {
			target = f
		}
	}
	return Stop{Floor: target, Direction: directionTo(floor, target)}, true, nil
}

func nearestAbove(floor int, dests []int) (int, bool) {
	target, found := 0, false
	for _, f := range dests {
		if f > floor && (!found || f < target) {
			target, found = f, true
		}
	}
	return target, found
}

func nearestBelow(floor int, dests []int) (int, bool) {
	target, found := 0, false
	for _, f := range dests {
		if f < floor && (!found || f > target) {
			target, found = f, true
		}
	}
	return target, found
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
