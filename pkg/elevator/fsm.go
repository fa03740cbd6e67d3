package elevator

import (
	"errors"
	"log/slog"
	"time"
)

// car is a CarState plus the bookkeeping only the state machine needs.
type car struct {
	CarState

	calls  map[int][]*Call // 목적지 층별로 배정된 외부 호출
	leg    uint64          // 타이머 세대 번호, 오래된 타이머 이벤트 무시용
	logger *slog.Logger
}

func newCar(id int) *car {
	return &car{
		CarState: CarState{
			ID:           id,
			Direction:    DirNone,
			Phase:        PhaseIdle,
			Destinations: make(map[int]bool),
		},
		calls:  make(map[int][]*Call),
		logger: slog.Default().With("elevator", id),
	}
}

// --- Queue processing ---

// processQueue scans the queue in insertion order and makes at most one
// assignment. After an assignment the next pass is scheduled on the clock
// so the remaining calls are retried without batching them into one step.
// processQueue는 대기열을 순서대로 검사하여 패스당 최대 하나의 호출만 배정합니다.
func (b *Bank) processQueue() {
	b.passPending = false

	for i := 0; i < b.queue.Len(); i++ {
		call := b.queue.At(i)
		c, rule := assign(call, b.cars)
		if c == nil {
			continue
		}
		b.queue.RemoveAt(i)
		b.commit(c, call, rule)
		b.publishStats()
		b.requestPass()
		return
	}

	if b.queue.Len() > 0 {
		b.logger.Debug("Calls left queued", "queue", b.queue.Floors())
	}
}

// requestPass schedules a queue pass unless one is already pending.
func (b *Bank) requestPass() {
	if b.passPending || b.queue.Len() == 0 {
		return
	}
	b.passPending = true
	b.schedule(0, "process-queue", b.processQueue)
}

// commit hands an assigned call to its car.
func (b *Bank) commit(c *car, call *Call, rule Rule) {
	c.logger.Info("Call assigned", "floor", call.Floor, "call", call.ID, "rule", rule)
	b.publishEvent(EventAssigned, AssignedPayload{
		CallID:     call.ID,
		ElevatorID: c.ID,
		Floor:      call.Floor,
		Rule:       rule.String(),
	})

	if rule == RuleAtFloor {
		// Served in place: no leg. An idle car opens a dwell, a dwelling
		// car keeps the dwell it already has.
		wasIdle := c.IsIdle()
		c.calls[call.Floor] = append(c.calls[call.Floor], call)
		b.arrive(c, call.Floor)
		if wasIdle {
			b.startDwell(c)
		}
		return
	}

	if err := c.AddDestination(call.Floor); err != nil && !errors.Is(err, ErrAlreadyQueued) {
		// The dispatcher never hands a car a call for the floor it stands on.
		c.logger.Error("Assigned call rejected by car", "floor", call.Floor, "error", err)
	}
	c.calls[call.Floor] = append(c.calls[call.Floor], call)

	if c.IsIdle() {
		b.startNext(c)
	}
}

// --- State machine ---

// startNext asks the scan scheduler for the next stop and begins the leg.
// It reports false when there is nowhere to go.
// startNext는 SCAN 스케줄러에 다음 정차 층을 묻고 이동을 시작합니다.
func (b *Bank) startNext(c *car) bool {
	for {
		stop, ok, err := NextStop(c.Floor, c.Direction, c.DestinationList())
		if err != nil {
			// Internal defect: never sweep around it. Drop the floor and
			// settle the calls waiting on it where the car stands.
			c.logger.Error("Scheduler invariant violated", "floor", c.Floor, "error", err)
			c.RemoveDestination(c.Floor)
			b.fulfil(c, c.Floor)
			continue
		}
		if !ok {
			return false
		}
		b.beginLeg(c, stop)
		return true
	}
}

// beginLeg: idle|arrived -> moving
func (b *Bank) beginLeg(c *car, stop Stop) {
	from := c.Floor
	distance := abs(stop.Floor - from)
	duration := time.Duration(distance) * b.Config.TravelPerFloor

	if c.Direction != stop.Direction && c.Direction != DirNone {
		c.logger.Info("🧭 Direction Changed", "new_dir", stop.Direction, "target", stop.Floor)
	}
	c.Phase = PhaseMoving
	c.Direction = stop.Direction
	c.Target = stop.Floor
	c.leg++
	leg := c.leg

	c.logger.Info("🚅 Moving", "dir", stop.Direction, "from", from, "to", stop.Floor, "duration", duration)
	b.publishEvent(EventMoving, MovingPayload{
		ElevatorID: c.ID,
		Direction:  stop.Direction,
		FromFloor:  from,
		ToFloor:    stop.Floor,
	})

	b.schedule(duration, "travel", func() { b.handleTravelDone(c, leg, stop.Floor) })
}

// handleTravelDone: moving -> arrived
func (b *Bank) handleTravelDone(c *car, leg uint64, target int) {
	if c.leg != leg || c.Phase != PhaseMoving {
		c.logger.Debug("Stale travel timer ignored", "leg", leg)
		return
	}

	c.TraveledDistance += abs(target - c.Floor)
	c.Floor = target
	c.RemoveDestination(target)
	b.arrive(c, target)
	b.startDwell(c)
}

// arrive settles every call waiting on floor and reports the arrival.
// arrive는 도착 처리(호출 완료, 통계 갱신, 이벤트 게시)를 담당합니다.
func (b *Bank) arrive(c *car, floor int) {
	c.Phase = PhaseArrived
	c.CompletedCalls++
	served := b.fulfil(c, floor)

	c.logger.Info("Arrived at floor", "floor", floor, "served", served)
	b.publishEvent(EventArrived, ArrivedPayload{ElevatorID: c.ID, Floor: floor})
	if served > 0 {
		b.publishStats()
	}
}

// fulfil accounts and acknowledges the external calls attached to floor.
// Acknowledgers run under the bank's lock and must not call back into it.
func (b *Bank) fulfil(c *car, floor int) int {
	calls := c.calls[floor]
	delete(c.calls, floor)

	now := b.clock.Now()
	for _, call := range calls {
		wait := now.Sub(call.Timestamp)
		c.TotalWaitTime += wait
		b.stats.recordWait(wait)
		if call.Ack != nil {
			call.Ack.Acknowledge(Arrival{
				CallID:     call.ID,
				ElevatorID: c.ID,
				Floor:      floor,
				WaitTime:   wait,
			})
		}
	}
	return len(calls)
}

func (b *Bank) startDwell(c *car) {
	c.leg++
	leg := c.leg
	b.schedule(b.Config.Dwell, "dwell", func() { b.handleDwellDone(c, leg) })
}

// handleDwellDone: arrived -> moving | idle
func (b *Bank) handleDwellDone(c *car, leg uint64) {
	if c.leg != leg || c.Phase != PhaseArrived {
		c.logger.Debug("Stale dwell timer ignored", "leg", leg)
		return
	}

	if b.startNext(c) {
		return
	}

	c.Phase = PhaseIdle
	c.Direction = DirNone
	c.logger.Info("💤 Idle", "floor", c.Floor)
	b.publishEvent(EventIdle, IdlePayload{ElevatorID: c.ID, Floor: c.Floor})

	// Give stranded calls a chance at the freed car.
	b.processQueue()
}
