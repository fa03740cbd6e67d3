// Package scenario generates request traffic against an elevator bank.
// 엘리베이터 뱅크에 대한 무작위 요청 시나리오를 생성합니다.
package scenario

import (
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"go-elevator-bank/pkg/elevator"
	"go-elevator-bank/pkg/simclock"
)

// DefaultSpacing is the gap between two generated requests.
const DefaultSpacing = 500 * time.Millisecond

// Target is the part of the bank a scenario drives.
type Target interface {
	SubmitExternalCall(floor int, ack elevator.Acknowledger) error
	SubmitInternalRequest(elevatorID, floor int) error
	Snapshot() []elevator.CarState
}

// Generator schedules requests on the simulation clock.
type Generator struct {
	bank   Target
	clock  simclock.Clock
	floors int
	cars   int

	Spacing time.Duration
	// NewAck, when set, supplies the handle for each generated call.
	NewAck func(floor int) elevator.Acknowledger

	mu     sync.Mutex
	rng    *rand.Rand
	logger *slog.Logger
}

// New creates a generator. The same seed yields the same request stream.
func New(bank Target, clock simclock.Clock, floors, cars int, seed uint64) *Generator {
	return &Generator{
		bank:    bank,
		clock:   clock,
		floors:  floors,
		cars:    cars,
		Spacing: DefaultSpacing,
		rng:     rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		logger:  slog.Default().With("component", "scenario"),
	}
}

// RandomCalls schedules n external calls at random floors, one every
// Spacing, starting after offset.
func (g *Generator) RandomCalls(n int, offset time.Duration) {
	for i := 0; i < n; i++ {
		floor := g.intn(g.floors)
		g.clock.AfterFunc(offset+time.Duration(i)*g.Spacing, "scenario-call", func() {
			var ack elevator.Acknowledger
			if g.NewAck != nil {
				ack = g.NewAck(floor)
			}
			if err := g.bank.SubmitExternalCall(floor, ack); err != nil {
				g.logger.Debug("Generated call skipped", "floor", floor, "error", err)
			}
		})
	}
}

// InternalRequests schedules n cabin requests for random cars, one every
// Spacing, starting after offset. The floor is drawn when the request
// fires so it never equals the car's floor at that moment.
func (g *Generator) InternalRequests(n int, offset time.Duration) {
	for i := 0; i < n; i++ {
		id := g.intn(g.cars) + 1
		g.clock.AfterFunc(offset+time.Duration(i)*g.Spacing, "scenario-request", func() {
			current := g.currentFloor(id)
			floor := g.intn(g.floors)
			for floor == current {
				floor = g.intn(g.floors)
			}
			if err := g.bank.SubmitInternalRequest(id, floor); err != nil {
				g.logger.Debug("Generated request skipped", "elevator", id, "floor", floor, "error", err)
			}
		})
	}
}

// Complex runs the mixed scenario: five calls, five cabin requests after
// three seconds, then three more calls after six seconds.
func (g *Generator) Complex() {
	g.RandomCalls(5, 0)
	g.InternalRequests(5, 3*time.Second)
	g.RandomCalls(3, 6*time.Second)
}

func (g *Generator) intn(n int) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.rng.IntN(n)
}

func (g *Generator) currentFloor(id int) int {
	for _, s := range g.bank.Snapshot() {
		if s.ID == id {
			return s.Floor
		}
	}
	return -1
}
