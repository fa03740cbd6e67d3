package elevator

import "time"

// EventType represents the category of a bank event.
// EventType는 이벤트의 카테고리를 나타냅니다.
type EventType string

const (
	EventMoving   EventType = "ElevatorMoving"
	EventArrived  EventType = "ElevatorArrived"
	EventIdle     EventType = "ElevatorIdle"
	EventStats    EventType = "StatsUpdated"
	EventQueued   EventType = "CallQueued"
	EventAssigned EventType = "CallAssigned"
	EventRejected EventType = "RequestRejected"
)

// Event carries a state change to the presentation layer.
// Event는 표시 계층으로 전달되는 상태 변화 정보를 담고 있습니다.
type Event struct {
	Type      EventType
	Payload   interface{}
	Timestamp time.Time
}

// MovingPayload is carried by EventMoving.
type MovingPayload struct {
	ElevatorID int
	Direction  Direction
	FromFloor  int
	ToFloor    int
}

// ArrivedPayload is carried by EventArrived.
type ArrivedPayload struct {
	ElevatorID int
	Floor      int
}

// IdlePayload is carried by EventIdle.
type IdlePayload struct {
	ElevatorID int
	Floor      int
}

// QueuedPayload is carried by EventQueued.
type QueuedPayload struct {
	CallID uint64
	Floor  int
}

// AssignedPayload is carried by EventAssigned.
type AssignedPayload struct {
	CallID     uint64
	ElevatorID int
	Floor      int
	Rule       string
}

// RejectedPayload is carried by EventRejected.
type RejectedPayload struct {
	ElevatorID int // 0 for external calls
	Floor      int
	Reason     string
}
