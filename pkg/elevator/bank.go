// Package elevator implements the dispatch and scheduling engine of a
// multi-car elevator bank.
// 이 패키지는 여러 대의 엘리베이터를 관리하는 이벤트 기반 배차/스케줄링 엔진을 구현합니다.
// 호출 배정, SCAN 방식의 목적지 스케줄링, 엘리베이터 상태 머신을 포함합니다.
package elevator

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"go-elevator-bank/pkg/simclock"

	"github.com/tiendc/go-deepcopy"
)

const defaultEventBuffer = 1000

// Config holds immutable configuration parameters.
// Config는 시스템 시작 시 설정되며, 런타임 중에 변경되지 않습니다.
type Config struct {
	Floors         int           // 전체 층 수 (0 ~ Floors-1)
	Elevators      int           // 엘리베이터 대수 (ID 1 ~ Elevators)
	TravelPerFloor time.Duration // 한 층 이동 시간
	Dwell          time.Duration // 도착 후 정차 시간
	EventBuffer    int           // 이벤트 채널 버퍼 크기
}

// Bank is the simulation context: it owns every car, the call queue and
// the global stats. All mutation happens inside the bank's lock, so event
// handlers run to completion without interleaving under any clock.
// Bank는 시뮬레이션 컨텍스트입니다. 모든 상태 변경은 Mutex로 보호되며,
// 변경 사항은 Event 채널로 전파됩니다.
type Bank struct {
	mu     sync.Mutex
	Config Config
	clock  simclock.Clock

	// --- State (가변 상태) ---
	cars        []*car
	queue       CallQueue
	stats       Stats
	nextCallID  uint64
	passPending bool // 대기열 처리 패스가 예약되었는지 여부

	// --- Observability ---
	logger            *slog.Logger
	eventCh           chan Event
	droppedEventCount uint64
}

// New initializes a bank with every car idle at floor 0.
// 잘못된 설정이 감지되면 즉시 에러를 반환합니다 (Fail Fast).
func New(config Config, clock simclock.Clock) (*Bank, error) {
	if config.Floors < 2 {
		return nil, fmt.Errorf("invalid config: Floors (%d) < 2", config.Floors)
	}
	if config.Elevators < 1 {
		return nil, fmt.Errorf("invalid config: Elevators (%d) < 1", config.Elevators)
	}
	if config.TravelPerFloor < 0 || config.Dwell < 0 {
		return nil, fmt.Errorf("invalid config: negative duration (travel %v, dwell %v)",
			config.TravelPerFloor, config.Dwell)
	}
	if clock == nil {
		return nil, fmt.Errorf("invalid config: nil clock")
	}
	if config.EventBuffer <= 0 {
		config.EventBuffer = defaultEventBuffer
	}

	b := &Bank{
		Config:  config,
		clock:   clock,
		eventCh: make(chan Event, config.EventBuffer),
		logger:  slog.Default().With("component", "bank"),
	}
	for id := 1; id <= config.Elevators; id++ {
		b.cars = append(b.cars, newCar(id))
	}

	b.logger.Info("Elevator bank initialized",
		"floors", config.Floors,
		"elevators", config.Elevators,
		"travel_per_floor", config.TravelPerFloor,
		"dwell", config.Dwell,
	)
	return b, nil
}

// SubmitExternalCall enqueues a floor call and tries to assign it at once.
// A handle that already waits on this floor makes the call a logged no-op
// returning ErrCallPending.
// SubmitExternalCall은 층 호출을 대기열에 넣고 즉시 배정을 시도합니다.
func (b *Bank) SubmitExternalCall(floor int, ack Acknowledger) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.validFloor(floor) {
		b.logger.Warn("External call rejected: floor out of range",
			"floor", floor, "max", b.Config.Floors-1)
		b.publishEvent(EventRejected, RejectedPayload{Floor: floor, Reason: ErrFloorOutOfRange.Error()})
		return fmt.Errorf("%w: %d", ErrFloorOutOfRange, floor)
	}
	if w, ok := ack.(WaitReporter); ok && w.Waiting(floor) {
		b.logger.Info("External call ignored: already waiting", "floor", floor)
		return ErrCallPending
	}

	b.nextCallID++
	call := &Call{
		ID:        b.nextCallID,
		Floor:     floor,
		Origin:    OriginExternal,
		Ack:       ack,
		Timestamp: b.clock.Now(),
	}
	b.queue.Push(call)
	b.stats.TotalCalls++

	b.logger.Info("Call requested at floor", "floor", floor, "call", call.ID)
	b.publishEvent(EventQueued, QueuedPayload{CallID: call.ID, Floor: floor})
	b.publishStats()

	b.processQueue()
	return nil
}

// SubmitInternalRequest merges a cabin request into the car's destinations.
// An idle car starts moving immediately; a busy car picks the floor up at
// its next decision point without diverting the leg in flight.
// SubmitInternalRequest는 카 내부 요청을 해당 엘리베이터의 목적지에 추가합니다.
func (b *Bank) SubmitInternalRequest(elevatorID, floor int) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	c := b.car(elevatorID)
	if c == nil {
		b.logger.Warn("Internal request rejected: unknown elevator", "elevator", elevatorID)
		return fmt.Errorf("%w: %d", ErrUnknownElevator, elevatorID)
	}
	if !b.validFloor(floor) {
		c.logger.Warn("Internal request rejected: floor out of range", "floor", floor)
		b.publishEvent(EventRejected, RejectedPayload{
			ElevatorID: elevatorID, Floor: floor, Reason: ErrFloorOutOfRange.Error(),
		})
		return fmt.Errorf("%w: %d", ErrFloorOutOfRange, floor)
	}

	if err := c.AddDestination(floor); err != nil {
		c.logger.Info("Internal request rejected", "floor", floor, "reason", err)
		b.publishEvent(EventRejected, RejectedPayload{
			ElevatorID: elevatorID, Floor: floor, Reason: err.Error(),
		})
		return fmt.Errorf("elevator %d floor %d: %w", elevatorID, floor, err)
	}
	c.logger.Info("Internal request", "floor", floor)

	if c.IsIdle() {
		b.startNext(c)
	}
	return nil
}

// Events returns the read-only channel for state change notifications.
// Events는 상태 변경 알림을 위한 읽기 전용 채널을 반환합니다.
func (b *Bank) Events() <-chan Event {
	return b.eventCh
}

// DroppedEventCount returns diagnostic metric for channel health.
func (b *Bank) DroppedEventCount() uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.droppedEventCount
}

// Snapshot returns deep copies of every car, ordered by id.
// Snapshot은 모든 엘리베이터 상태의 깊은 복사본을 반환합니다.
func (b *Bank) Snapshot() []CarState {
	b.mu.Lock()
	defer b.mu.Unlock()

	states := make([]CarState, len(b.cars))
	for i, c := range b.cars {
		states[i] = c.CarState
	}
	var out []CarState
	if err := deepcopy.Copy(&out, &states); err != nil {
		b.logger.Error("Snapshot copy failed", "error", err)
		return nil
	}
	return out
}

// Stats returns the global stats.
func (b *Bank) Stats() Stats {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.currentStats()
}

// QueuedFloors returns the floors of unassigned calls in queue order.
func (b *Bank) QueuedFloors() []int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.queue.Floors()
}

// Now returns the simulation time.
func (b *Bank) Now() time.Time {
	return b.clock.Now()
}

// schedule wraps fn so it runs to completion under the bank's lock.
func (b *Bank) schedule(d time.Duration, name string, fn func()) {
	b.clock.AfterFunc(d, name, func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		fn()
	})
}

func (b *Bank) currentStats() Stats {
	s := b.stats
	s.QueueLength = b.queue.Len()
	return s
}

func (b *Bank) publishStats() {
	b.publishEvent(EventStats, b.currentStats().payload())
}

// publishEvent sends an event to the channel without blocking logic.
// 채널이 가득 차면 이벤트를 버리고 메트릭을 증가시킵니다 (System Stability).
func (b *Bank) publishEvent(eventType EventType, payload interface{}) {
	event := Event{
		Type:      eventType,
		Payload:   payload,
		Timestamp: b.clock.Now(),
	}

	select {
	case b.eventCh <- event:
	default:
		b.droppedEventCount++
		// Log rarely to avoid disk I/O flooding
		if b.droppedEventCount%100 == 1 {
			b.logger.Error("Event Channel Saturated", "dropped", b.droppedEventCount, "type", eventType)
		}
	}
}

func (b *Bank) validFloor(floor int) bool {
	return floor >= 0 && floor < b.Config.Floors
}

func (b *Bank) car(id int) *car {
	if id < 1 || id > len(b.cars) {
		return nil
	}
	return b.cars[id-1]
}
