package main

import (
	"embed"
	"encoding/json"
	"flag"
	"io/fs"
	"log"
	"log/slog"
	"net/http"
	"os"
	"sync"
	"time"

	"go-elevator-bank/pkg/config"
	"go-elevator-bank/pkg/elevator"
	"go-elevator-bank/pkg/scenario"
	"go-elevator-bank/pkg/simclock"

	"github.com/gorilla/websocket"
)

//go:embed static/*
var staticFiles embed.FS

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for development
	},
}

// Message types
// 메시지 타입 정의
type ClientMessage struct {
	Action   string      `json:"action"`
	Config   *BankConfig `json:"config,omitempty"`
	Floor    int         `json:"floor"`
	Elevator int         `json:"elevator,omitempty"`
	Scenario string      `json:"scenario,omitempty"` // random | internal | complex
	Count    int         `json:"count,omitempty"`
}

type BankConfig struct {
	Floors         int     `json:"floors"`
	Elevators      int     `json:"elevators"`
	TravelPerFloor float64 `json:"travelPerFloor"` // seconds
	Dwell          float64 `json:"dwell"`          // seconds
}

type ServerMessage struct {
	Type      string         `json:"type"`
	EventType string         `json:"eventType,omitempty"`
	Payload   interface{}    `json:"payload,omitempty"`
	Timestamp string         `json:"timestamp,omitempty"`
	Floors    int            `json:"floors,omitempty"`
	Elevators []ElevatorView `json:"elevators,omitempty"`
	Stats     *StatsView     `json:"stats,omitempty"`
	Queue     []int          `json:"queue,omitempty"`
	Waiting   []int          `json:"waiting,omitempty"`
}

type ElevatorView struct {
	ID               int     `json:"id"`
	Floor            int     `json:"floor"`
	Direction        string  `json:"direction"`
	Status           string  `json:"status"`
	Target           int     `json:"target"`
	Destinations     []int   `json:"destinations"`
	CompletedCalls   int     `json:"completedCalls"`
	TraveledDistance int     `json:"traveledDistance"`
	TotalWaitMs      float64 `json:"totalWaitMs"`
}

type StatsView struct {
	TotalCalls     int     `json:"totalCalls"`
	CompletedCalls int     `json:"completedCalls"`
	AvgWaitTimeMs  float64 `json:"avgWaitTimeMs"`
	QueueLength    int     `json:"queueLength"`
}

// ElevatorSession manages a WebSocket connection with a bank instance
// ElevatorSession은 엘리베이터 뱅크 인스턴스와의 WebSocket 연결을 관리합니다.
type ElevatorSession struct {
	conn     *websocket.Conn
	defaults config.BankConfig

	mu    sync.Mutex // guards bank, clock, panel, stop
	bank  *elevator.Bank
	clock *simclock.Real
	panel *hallPanel
	stop  chan struct{}

	writeMu sync.Mutex
}

func NewElevatorSession(conn *websocket.Conn, defaults config.BankConfig) *ElevatorSession {
	return &ElevatorSession{
		conn:     conn,
		defaults: defaults,
	}
}

func (s *ElevatorSession) HandleMessages() {
	slog.Info("Session started", "remote_addr", s.conn.RemoteAddr())
	defer func() {
		s.shutdown()
		_ = s.conn.Close()
		slog.Info("Session ended", "remote_addr", s.conn.RemoteAddr())
	}()

	for {
		_, message, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				slog.Error("WebSocket read error", "error", err)
			}
			return
		}

		var msg ClientMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			slog.Warn("Failed to parse message", "error", err)
			continue
		}

		s.handleAction(msg)
	}
}

func (s *ElevatorSession) handleAction(msg ClientMessage) {
	slog.Debug("Action received", "action", msg.Action, "payload", msg)

	switch msg.Action {
	case "init", "reset":
		s.initBank(msg.Config)
	case "call":
		bank, panel := s.current()
		if bank == nil {
			return
		}
		btn := panel.button(msg.Floor)
		if err := bank.SubmitExternalCall(msg.Floor, btn); err != nil {
			slog.Warn("Failed to submit call via WS", "floor", msg.Floor, "error", err)
		} else {
			panel.arm(btn)
		}
		s.sendState()
	case "request":
		bank, _ := s.current()
		if bank == nil {
			return
		}
		if err := bank.SubmitInternalRequest(msg.Elevator, msg.Floor); err != nil {
			// Error is already logged in the bank, but warning here for WS context is okay
			slog.Warn("Failed to submit request via WS", "elevator", msg.Elevator, "floor", msg.Floor, "error", err)
		}
		s.sendState()
	case "simulate":
		s.simulate(msg.Scenario, msg.Count)
	case "stop":
		s.shutdown()
	case "getState":
		s.sendState()
	}
}

func (s *ElevatorSession) initBank(cfg *BankConfig) {
	bc := s.defaults
	if cfg != nil {
		if cfg.Floors > 0 {
			bc.Floors = cfg.Floors
		}
		if cfg.Elevators > 0 {
			bc.Elevators = cfg.Elevators
		}
		if cfg.TravelPerFloor > 0 {
			bc.TravelPerFloor = time.Duration(cfg.TravelPerFloor * float64(time.Second))
		}
		if cfg.Dwell > 0 {
			bc.Dwell = time.Duration(cfg.Dwell * float64(time.Second))
		}
	}

	// Stop existing bank if any
	s.shutdown()

	clock := simclock.NewReal()
	bank, err := elevator.New(elevator.Config{
		Floors:         bc.Floors,
		Elevators:      bc.Elevators,
		TravelPerFloor: bc.TravelPerFloor,
		Dwell:          bc.Dwell,
		EventBuffer:    bc.EventBuffer,
	}, clock)
	if err != nil {
		slog.Error("Failed to initialize bank", "error", err)
		return
	}

	stop := make(chan struct{})
	s.mu.Lock()
	s.bank = bank
	s.clock = clock
	s.panel = newHallPanel(s)
	s.stop = stop
	s.mu.Unlock()

	// Subscribe to events
	// 이벤트 구독
	go s.eventListener(bank, stop)

	slog.Info("Bank initialized", "floors", bc.Floors, "elevators", bc.Elevators)

	// Send initial state
	s.sendState()
}

func (s *ElevatorSession) simulate(kind string, count int) {
	s.mu.Lock()
	bank, clock, panel := s.bank, s.clock, s.panel
	s.mu.Unlock()
	if bank == nil {
		return
	}
	if count <= 0 {
		count = 5
	}

	g := scenario.New(bank, clock, bank.Config.Floors, bank.Config.Elevators, uint64(time.Now().UnixNano()))
	g.NewAck = panel.virtual
	switch kind {
	case "internal":
		g.InternalRequests(count, 0)
	case "complex":
		g.Complex()
	default:
		g.RandomCalls(count, 0)
	}
	slog.Info("Scenario started", "scenario", kind, "count", count)
}

func (s *ElevatorSession) shutdown() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.clock != nil {
		s.clock.Stop()
	}
	if s.stop != nil {
		close(s.stop)
	}
	s.bank, s.clock, s.panel, s.stop = nil, nil, nil, nil
}

func (s *ElevatorSession) current() (*elevator.Bank, *hallPanel) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bank, s.panel
}

func (s *ElevatorSession) eventListener(bank *elevator.Bank, stop <-chan struct{}) {
	eventCh := bank.Events()
	for {
		select {
		case <-stop:
			return
		case event := <-eventCh:
			s.sendEvent(event)
			if event.Type != elevator.EventQueued && event.Type != elevator.EventAssigned {
				s.sendState()
			}
		}
	}
}

func (s *ElevatorSession) sendState() {
	bank, panel := s.current()
	if bank == nil {
		return
	}

	snapshot := bank.Snapshot()
	stats := bank.Stats()

	views := make([]ElevatorView, 0, len(snapshot))
	for _, c := range snapshot {
		status := string(c.Phase)
		views = append(views, ElevatorView{
			ID:               c.ID,
			Floor:            c.Floor,
			Direction:        string(c.Direction),
			Status:           status,
			Target:           c.Target,
			Destinations:     c.DestinationList(),
			CompletedCalls:   c.CompletedCalls,
			TraveledDistance: c.TraveledDistance,
			TotalWaitMs:      float64(c.TotalWaitTime) / float64(time.Millisecond),
		})
	}

	msg := ServerMessage{
		Type:      "state",
		Floors:    bank.Config.Floors,
		Elevators: views,
		Stats: &StatsView{
			TotalCalls:     stats.TotalCalls,
			CompletedCalls: stats.CompletedCalls,
			AvgWaitTimeMs:  stats.AvgWaitTimeMs(),
			QueueLength:    stats.QueueLength,
		},
		Queue:   bank.QueuedFloors(),
		Waiting: panel.waitingFloors(),
	}

	s.writeJSON(msg)
}

func (s *ElevatorSession) sendEvent(event elevator.Event) {
	msg := ServerMessage{
		Type:      "event",
		EventType: string(event.Type),
		Payload:   event.Payload,
		Timestamp: event.Timestamp.Format("15:04:05"),
	}

	s.writeJSON(msg)
}

// writeJSON serializes writers; gorilla connections allow one at a time.
func (s *ElevatorSession) writeJSON(msg ServerMessage) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if err := s.conn.WriteJSON(msg); err != nil {
		slog.Error("Failed to write JSON message", "error", err)
	}
}

func handleWebSocket(defaults config.BankConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			slog.Error("WebSocket upgrade failed", "error", err)
			return
		}

		session := NewElevatorSession(conn, defaults)
		session.HandleMessages()
	}
}

func main() {
	configPath := flag.String("config", "elevator.yaml", "path to YAML config")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal(err)
	}
	level, _ := cfg.SlogLevel()
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	// Serve static files from embedded filesystem
	staticFS, err := fs.Sub(staticFiles, "static")
	if err != nil {
		log.Fatal(err)
	}

	http.Handle("/", http.FileServer(http.FS(staticFS)))
	http.HandleFunc("/ws", handleWebSocket(cfg.Bank))

	addr := ":" + cfg.Port
	slog.Info("Starting elevator web server", "addr", addr)
	slog.Info("Open http://localhost:" + cfg.Port + " in your browser")

	if err := http.ListenAndServe(addr, nil); err != nil {
		log.Fatal(err)
	}
}
