// Package config loads the simulator settings from an optional YAML file,
// an optional .env file and the process environment, in that order.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"go-elevator-bank/pkg/elevator"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// AppConfig is the full runtime configuration.
type AppConfig struct {
	Port     string     `yaml:"port"`
	LogLevel string     `yaml:"logLevel"`
	Bank     BankConfig `yaml:"bank"`
}

// BankConfig mirrors elevator.Config in file form.
type BankConfig struct {
	Floors         int           `yaml:"floors"`
	Elevators      int           `yaml:"elevators"`
	TravelPerFloor time.Duration `yaml:"travelPerFloor"`
	Dwell          time.Duration `yaml:"dwell"`
	EventBuffer    int           `yaml:"eventBuffer"`
}

// Default returns the stock ten-floor, five-car bank.
func Default() *AppConfig {
	return &AppConfig{
		Port:     "8080",
		LogLevel: "info",
		Bank: BankConfig{
			Floors:         10,
			Elevators:      5,
			TravelPerFloor: time.Second,
			Dwell:          2 * time.Second,
			EventBuffer:    1000,
		},
	}
}

// Load builds the configuration. Missing files are not an error; malformed
// files and values are.
func Load(path string) (*AppConfig, error) {
	cfg := Default()

	if path != "" {
		if err := cfg.readFile(path); err != nil {
			return nil, err
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	if err := cfg.applyEnv(os.Getenv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *AppConfig) readFile(path string) error {
	file, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		slog.Debug("Config file not found, using defaults", "path", path)
		return nil
	}
	if err != nil {
		return fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	if err := yaml.NewDecoder(file).Decode(c); err != nil {
		return fmt.Errorf("decode config %s: %w", path, err)
	}
	return nil
}

// applyEnv overrides fields from environment variables.
func (c *AppConfig) applyEnv(getenv func(string) string) error {
	if v := getenv("PORT"); v != "" {
		c.Port = v
	}
	if v := getenv("LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}

	ints := []struct {
		key string
		dst *int
	}{
		{"ELEVATOR_FLOORS", &c.Bank.Floors},
		{"ELEVATOR_CARS", &c.Bank.Elevators},
		{"ELEVATOR_EVENT_BUFFER", &c.Bank.EventBuffer},
	}
	for _, e := range ints {
		v := getenv(e.key)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", e.key, err)
		}
		*e.dst = n
	}

	durations := []struct {
		key string
		dst *time.Duration
	}{
		{"ELEVATOR_TRAVEL_PER_FLOOR", &c.Bank.TravelPerFloor},
		{"ELEVATOR_DWELL", &c.Bank.Dwell},
	}
	for _, e := range durations {
		v := getenv(e.key)
		if v == "" {
			continue
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s: %w", e.key, err)
		}
		*e.dst = d
	}
	return nil
}

// Validate rejects configurations the bank cannot run with.
func (c *AppConfig) Validate() error {
	if c.Port == "" {
		return errors.New("invalid config: empty port")
	}
	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	if c.Bank.Floors < 2 {
		return fmt.Errorf("invalid config: floors (%d) < 2", c.Bank.Floors)
	}
	if c.Bank.Elevators < 1 {
		return fmt.Errorf("invalid config: elevators (%d) < 1", c.Bank.Elevators)
	}
	if c.Bank.TravelPerFloor < 0 || c.Bank.Dwell < 0 {
		return errors.New("invalid config: negative duration")
	}
	return nil
}

// SlogLevel parses LogLevel.
func (c *AppConfig) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(c.LogLevel))); err != nil {
		return 0, fmt.Errorf("invalid config: log level %q", c.LogLevel)
	}
	return level, nil
}

// ElevatorConfig converts the bank section for elevator.New.
func (c *AppConfig) ElevatorConfig() elevator.Config {
	return elevator.Config{
		Floors:         c.Bank.Floors,
		Elevators:      c.Bank.Elevators,
		TravelPerFloor: c.Bank.TravelPerFloor,
		Dwell:          c.Bank.Dwell,
		EventBuffer:    c.Bank.EventBuffer,
	}
}
