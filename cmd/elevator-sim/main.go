// Command elevator-sim runs a scenario against the bank on a virtual clock
// and prints the resulting stats.
// 가상 시계 위에서 시나리오를 실행하고 결과 통계를 출력합니다.
package main

import (
	"flag"
	"log"
	"log/slog"
	"os"
	"time"

	"go-elevator-bank/pkg/config"
	"go-elevator-bank/pkg/elevator"
	"go-elevator-bank/pkg/scenario"
	"go-elevator-bank/pkg/simclock"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const step = 100 * time.Millisecond

func main() {
	configPath := flag.String("config", "elevator.yaml", "path to YAML config")
	kind := flag.String("scenario", "complex", "scenario to run: random | internal | complex")
	count := flag.Int("count", 5, "requests for the random and internal scenarios")
	seed := flag.Uint64("seed", 1, "random seed")
	limit := flag.Duration("limit", 10*time.Minute, "simulated time limit")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal(err)
	}
	level, _ := cfg.SlogLevel()
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	clock := simclock.NewVirtual(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	bank, err := elevator.New(cfg.ElevatorConfig(), clock)
	if err != nil {
		log.Fatal(err)
	}

	g := scenario.New(bank, clock, cfg.Bank.Floors, cfg.Bank.Elevators, *seed)
	switch *kind {
	case "random":
		g.RandomCalls(*count, 0)
	case "internal":
		g.InternalRequests(*count, 0)
	case "complex":
		g.Complex()
	default:
		log.Fatalf("unknown scenario %q", *kind)
	}

	start := clock.Now()
	events := 0
	for clock.Now().Sub(start) < *limit {
		clock.Advance(step)
		events += drain(bank)
		if clock.Pending() == 0 && allIdle(bank) {
			break
		}
	}
	elapsed := clock.Now().Sub(start)
	if clock.Pending() > 0 {
		slog.Warn("⚠️ Simulation hit its time limit", "limit", *limit, "pending", clock.Pending())
	}

	report(bank, elapsed, events)
}

func drain(bank *elevator.Bank) int {
	n := 0
	for {
		select {
		case e := <-bank.Events():
			slog.Debug("Event", "type", e.Type, "payload", e.Payload, "at", e.Timestamp.Format("15:04:05.000"))
			n++
		default:
			return n
		}
	}
}

func allIdle(bank *elevator.Bank) bool {
	for _, c := range bank.Snapshot() {
		if !c.IsIdle() {
			return false
		}
	}
	return bank.Stats().QueueLength == 0
}

func report(bank *elevator.Bank, elapsed time.Duration, events int) {
	p := message.NewPrinter(language.English)
	s := bank.Stats()

	p.Printf("Simulated time:   %v\n", elapsed)
	p.Printf("Events:           %d (dropped %d)\n", events, bank.DroppedEventCount())
	p.Printf("Calls:            %d total, %d completed, %d queued\n", s.TotalCalls, s.CompletedCalls, s.QueueLength)
	p.Printf("Average wait:     %.1f ms\n", s.AvgWaitTimeMs())
	for _, c := range bank.Snapshot() {
		p.Printf("Car %d: floor %d, %d stops, %d floors traveled\n",
			c.ID, c.Floor, c.CompletedCalls, c.TraveledDistance)
	}
}
