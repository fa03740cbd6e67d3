package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("missing.yaml")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Port != "8080" || cfg.Bank.Floors != 10 || cfg.Bank.Elevators != 5 {
		t.Errorf("Unexpected defaults %+v", cfg)
	}
	if cfg.Bank.TravelPerFloor != time.Second || cfg.Bank.Dwell != 2*time.Second {
		t.Errorf("Unexpected default timings %+v", cfg.Bank)
	}
}

func TestLoad_FileThenEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	yamlFile := filepath.Join(dir, "bank.yaml")
	content := "port: \"9090\"\nlogLevel: debug\nbank:\n  floors: 20\n  elevators: 3\n  travelPerFloor: 500ms\n  dwell: 1s\n"
	if err := os.WriteFile(yamlFile, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("ELEVATOR_DWELL=3s\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("ELEVATOR_CARS", "4")
	// godotenv writes straight into the process environment.
	t.Cleanup(func() { os.Unsetenv("ELEVATOR_DWELL") })

	cfg, err := Load(yamlFile)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Port != "9090" || cfg.Bank.Floors != 20 {
		t.Errorf("YAML values not applied: %+v", cfg)
	}
	if cfg.Bank.TravelPerFloor != 500*time.Millisecond {
		t.Errorf("Expected travel 500ms, got %v", cfg.Bank.TravelPerFloor)
	}
	if cfg.Bank.Elevators != 4 {
		t.Errorf("Expected env override to 4 cars, got %d", cfg.Bank.Elevators)
	}
	if cfg.Bank.Dwell != 3*time.Second {
		t.Errorf("Expected .env dwell 3s, got %v", cfg.Bank.Dwell)
	}
	if level, _ := cfg.SlogLevel(); level != slog.LevelDebug {
		t.Errorf("Expected debug level, got %v", level)
	}

	ec := cfg.ElevatorConfig()
	if ec.Floors != 20 || ec.Elevators != 4 || ec.Dwell != 3*time.Second {
		t.Errorf("Unexpected elevator config %+v", ec)
	}
}

func TestLoad_Invalid(t *testing.T) {
	t.Chdir(t.TempDir())

	t.Setenv("ELEVATOR_FLOORS", "ten")
	if _, err := Load(""); err == nil {
		t.Error("Expected error for non-numeric floors")
	}

	t.Setenv("ELEVATOR_FLOORS", "1")
	if _, err := Load(""); err == nil {
		t.Error("Expected error for a single floor")
	}

	t.Setenv("ELEVATOR_FLOORS", "10")
	t.Setenv("ELEVATOR_DWELL", "soon")
	if _, err := Load(""); err == nil {
		t.Error("Expected error for malformed duration")
	}

	t.Setenv("ELEVATOR_DWELL", "")
	t.Setenv("LOG_LEVEL", "chatty")
	if _, err := Load(""); err == nil {
		t.Error("Expected error for unknown log level")
	}
}
