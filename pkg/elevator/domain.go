package elevator

import (
	"errors"
	"sort"
	"time"
)

// --- Domain Entities & Value Objects ---

// Direction indicates the vertical movement vector of the committed leg.
// Direction은 현재 확정된 구간의 수직 이동 방향을 나타냅니다.
type Direction string

const (
	DirUp   Direction = "up"
	DirDown Direction = "down"
	DirNone Direction = "idle"
)

// directionTo returns the direction of travel from one floor to another.
func directionTo(from, to int) Direction {
	switch {
	case to > from:
		return DirUp
	case to < from:
		return DirDown
	default:
		return DirNone
	}
}

// Phase is the state machine position of a car.
// Phase는 엘리베이터 상태 머신의 현재 위치입니다.
type Phase string

const (
	PhaseIdle    Phase = "idle"
	PhaseMoving  Phase = "moving"
	PhaseArrived Phase = "arrived" // 도착 후 정차(dwell) 중
)

var (
	ErrAlreadyAtFloor  = errors.New("already at floor")
	ErrAlreadyQueued   = errors.New("already queued")
	ErrFloorOutOfRange = errors.New("floor out of range")
	ErrUnknownElevator = errors.New("unknown elevator")
	ErrCallPending     = errors.New("call already pending")
	ErrInvariant       = errors.New("destination set contains current floor")
)

// CarState is the per-car record shared by the dispatcher and the state
// machine. It is exported so renderers can receive deep copies of it.
// CarState는 디스패처와 상태 머신이 공유하는 엘리베이터별 상태 레코드입니다.
type CarState struct {
	ID        int
	Floor     int // 도착 시에만 갱신됨 (이동 중에는 출발 층)
	Direction Direction
	Phase     Phase
	Target    int // 이동 중인 구간의 목표 층

	Destinations map[int]bool // 목적지 층 집합 (내부 + 배정된 외부 호출)

	// Monotonic counters
	TraveledDistance int
	CompletedCalls   int
	TotalWaitTime    time.Duration
}

// IsIdle reports whether the car is at rest with nothing in flight.
func (s *CarState) IsIdle() bool {
	return s.Phase == PhaseIdle
}

// Busy is true while a leg is in flight or a dwell is pending re-dispatch.
func (s *CarState) Busy() bool {
	return s.Phase != PhaseIdle
}

// HasDestination reports whether floor is a pending destination.
func (s *CarState) HasDestination(floor int) bool {
	return s.Destinations[floor]
}

// AddDestination merges floor into the destination set.
// The current floor and duplicates are rejected without changing state.
func (s *CarState) AddDestination(floor int) error {
	if floor == s.Floor {
		return ErrAlreadyAtFloor
	}
	if s.Destinations[floor] {
		return ErrAlreadyQueued
	}
	if s.Destinations == nil {
		s.Destinations = make(map[int]bool)
	}
	s.Destinations[floor] = true
	return nil
}

// RemoveDestination drops floor from the destination set.
func (s *CarState) RemoveDestination(floor int) {
	delete(s.Destinations, floor)
}

// DestinationList returns the pending destinations in ascending order.
func (s *CarState) DestinationList() []int {
	floors := make([]int, 0, len(s.Destinations))
	for f := range s.Destinations {
		floors = append(floors, f)
	}
	sort.Ints(floors)
	return floors
}

// farthest returns the farthest pending destination in dir, if any.
func (s *CarState) farthest(dir Direction) (int, bool) {
	best, found := 0, false
	for f := range s.Destinations {
		switch dir {
		case DirUp:
			if f > s.Floor && (!found || f > best) {
				best, found = f, true
			}
		case DirDown:
			if f < s.Floor && (!found || f < best) {
				best, found = f, true
			}
		}
	}
	return best, found
}

// Origin tells where a call came from.
type Origin int

const (
	OriginExternal Origin = iota // 층 호출 (Hall call)
	OriginInternal               // 카 내부 호출 (Car call)
)

func (o Origin) String() string {
	return [...]string{"external", "internal"}[o]
}

// Arrival is passed to an Acknowledger when its call has been served.
type Arrival struct {
	CallID     uint64
	ElevatorID int
	Floor      int
	WaitTime   time.Duration
}

// Acknowledger is the optional handle attached to an external call so the
// request source can be notified once the call is served.
// Acknowledger는 외부 호출의 요청원에게 도착을 알리기 위한 선택적 핸들입니다.
type Acknowledger interface {
	Acknowledge(a Arrival)
}

// WaitReporter is an optional capability of an Acknowledger. A handle that
// reports an outstanding call for the floor causes new submissions to be
// ignored.
type WaitReporter interface {
	Waiting(floor int) bool
}

// Call is a movement request.
// Call은 이동 요청입니다.
type Call struct {
	ID         uint64
	Floor      int
	Origin     Origin
	Ack        Acknowledger // 외부 호출 전용, nil 허용
	Timestamp  time.Time    // 외부 호출 전용, 대기 시간 계산용
	ElevatorID int          // 내부 호출 전용
}
