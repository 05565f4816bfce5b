package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/lox/pokertable/internal/game"
)

// Config is the contents of a table configuration file.
type Config struct {
	Tables     []TableConfig     `hcl:"table,block"`
	Simulation *SimulationConfig `hcl:"simulation,block"`
}

// TableConfig describes one table and the players seated at it.
type TableConfig struct {
	Name          string       `hcl:"name,label"`
	SmallBlind    int          `hcl:"small_blind,optional"`
	BigBlind      int          `hcl:"big_blind,optional"`
	BurnCards     bool         `hcl:"burn_cards,optional"`
	ActionTimeout string       `hcl:"action_timeout,optional"`
	Seats         []SeatConfig `hcl:"seat,block"`
}

// SeatConfig places a named player at a seat index with a starting stack.
type SeatConfig struct {
	Name  string `hcl:"name,label"`
	Index int    `hcl:"index"`
	Chips int    `hcl:"chips,optional"`
}

// SimulationConfig controls the self-play simulator.
type SimulationConfig struct {
	Hands   int    `hcl:"hands,optional"`
	Seed    int64  `hcl:"seed,optional"`
	Workers int    `hcl:"workers,optional"`
	Policy  string `hcl:"policy,optional"`
}

const (
	DefaultSmallBlind    = 5
	DefaultBigBlind      = 10
	DefaultChips         = 1000
	DefaultActionTimeout = "30s"
	DefaultHands         = 1000
	DefaultWorkers       = 4
	DefaultPolicy        = "random"
)

// Default returns the configuration used when no file is present.
func Default() *Config {
	cfg := &Config{
		Tables: []TableConfig{{
			Name: "main",
			Seats: []SeatConfig{
				{Name: "alice", Index: 0},
				{Name: "bob", Index: 3},
				{Name: "carol", Index: 6},
			},
		}},
	}
	cfg.applyDefaults()
	return cfg
}

// Load reads an HCL configuration file. A missing file yields Default().
func Load(filename string) (*Config, error) {
	if _, err := os.Stat(filename); errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var cfg Config
	diags = gohcl.DecodeBody(file.Body, nil, &cfg)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	cfg.applyDefaults()
	return &cfg, nil
}

// Parse decodes configuration from HCL source held in memory.
func Parse(src []byte, filename string) (*Config, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL: %s", diags.Error())
	}

	var cfg Config
	if diags := gohcl.DecodeBody(file.Body, nil, &cfg); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}
	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	for i := range c.Tables {
		t := &c.Tables[i]
		if t.SmallBlind == 0 {
			t.SmallBlind = DefaultSmallBlind
		}
		if t.BigBlind == 0 {
			t.BigBlind = 2 * t.SmallBlind
		}
		if t.ActionTimeout == "" {
			t.ActionTimeout = DefaultActionTimeout
		}
		for j := range t.Seats {
			if t.Seats[j].Chips == 0 {
				t.Seats[j].Chips = DefaultChips
			}
		}
	}

	if c.Simulation == nil {
		c.Simulation = &SimulationConfig{}
	}
	if c.Simulation.Hands == 0 {
		c.Simulation.Hands = DefaultHands
	}
	if c.Simulation.Workers == 0 {
		c.Simulation.Workers = DefaultWorkers
	}
	if c.Simulation.Policy == "" {
		c.Simulation.Policy = DefaultPolicy
	}
}

// Validate checks the configuration for values the engine would reject.
func (c *Config) Validate() error {
	if len(c.Tables) == 0 {
		return fmt.Errorf("at least one table must be configured")
	}

	names := make(map[string]bool)
	for _, t := range c.Tables {
		if names[t.Name] {
			return fmt.Errorf("table %s: defined more than once", t.Name)
		}
		names[t.Name] = true

		if err := t.Validate(); err != nil {
			return err
		}
	}

	if s := c.Simulation; s != nil {
		if s.Hands < 0 {
			return fmt.Errorf("simulation: hands must not be negative")
		}
		if s.Workers < 1 {
			return fmt.Errorf("simulation: workers must be at least 1")
		}
		if !validPolicies[s.Policy] {
			return fmt.Errorf("simulation: invalid policy %s", s.Policy)
		}
	}
	return nil
}

var validPolicies = map[string]bool{
	"random":     true,
	"calling":    true,
	"aggressive": true,
}

// Validate checks a single table.
func (t TableConfig) Validate() error {
	if t.SmallBlind <= 0 {
		return fmt.Errorf("table %s: small blind must be positive", t.Name)
	}
	if t.BigBlind < t.SmallBlind {
		return fmt.Errorf("table %s: big blind must not be less than small blind", t.Name)
	}
	if _, err := t.Timeout(); err != nil {
		return fmt.Errorf("table %s: %w", t.Name, err)
	}

	used := make(map[int]string)
	for _, s := range t.Seats {
		if s.Index < 0 || s.Index >= game.MaxSeats {
			return fmt.Errorf("table %s: seat %s index %d must be between 0 and %d", t.Name, s.Name, s.Index, game.MaxSeats-1)
		}
		if other, ok := used[s.Index]; ok {
			return fmt.Errorf("table %s: seats %s and %s share index %d", t.Name, other, s.Name, s.Index)
		}
		used[s.Index] = s.Name
		if s.Chips < 0 {
			return fmt.Errorf("table %s: seat %s has negative chips", t.Name, s.Name)
		}
	}
	return nil
}

// Timeout parses the action timeout. Zero disables the action clock.
func (t TableConfig) Timeout() (time.Duration, error) {
	d, err := time.ParseDuration(t.ActionTimeout)
	if err != nil {
		return 0, fmt.Errorf("invalid action timeout %q: %w", t.ActionTimeout, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("action timeout %s must not be negative", d)
	}
	return d, nil
}

// Options returns the engine options for the table.
func (t TableConfig) Options() []game.TableOption {
	return []game.TableOption{
		game.WithBlinds(t.SmallBlind, t.BigBlind),
		game.WithBurnCards(t.BurnCards),
	}
}

// NewTable builds a table and seats its configured players.
func (t TableConfig) NewTable(opts ...game.TableOption) (*game.Table, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	table := game.NewTable(append(t.Options(), opts...)...)
	for _, s := range t.Seats {
		if err := table.Sit(s.Index, s.Name, s.Chips); err != nil {
			return nil, fmt.Errorf("table %s: seat %s: %w", t.Name, s.Name, err)
		}
	}
	return table, nil
}

// Table returns the table configuration with the given name.
func (c *Config) Table(name string) *TableConfig {
	for i := range c.Tables {
		if c.Tables[i].Name == name {
			return &c.Tables[i]
		}
	}
	return nil
}
