package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/roach88/pulsenet/internal/engine"
)

// Scenario defines one network and the behaviour expected of it.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Network is the network text. Exactly one of Network and NetworkFile
	// is set; LoadScenario reads NetworkFile into Network.
	Network     string `yaml:"network,omitempty"`
	NetworkFile string `yaml:"network_file,omitempty"`

	// Presses is the horizon for the pulse count in Expect.
	Presses int64 `yaml:"presses,omitempty"`

	// TracePresses is the number of presses recorded in the trace.
	// Defaults to 1.
	TracePresses int64 `yaml:"trace_presses,omitempty"`

	// MaxPresses bounds every period search. Zero means unbounded.
	MaxPresses int64 `yaml:"max_presses,omitempty"`

	Expect     *CountExpect    `yaml:"expect,omitempty"`
	Periods    []PeriodExpect  `yaml:"periods,omitempty"`
	Combined   *CombinedExpect `yaml:"combined,omitempty"`
	Components [][]string      `yaml:"components,omitempty"`

	// ExpectError is a runtime error code (e.g. QUOTA_EXCEEDED) the
	// scenario must fail with.
	ExpectError string `yaml:"expect_error,omitempty"`

	Assertions []Assertion `yaml:"assertions,omitempty"`
}

// CountExpect checks the pulse count after Scenario.Presses presses.
// Nil fields are not checked.
type CountExpect struct {
	Low     *int64 `yaml:"low,omitempty"`
	High    *int64 `yaml:"high,omitempty"`
	Product *int64 `yaml:"product,omitempty"`
}

// PeriodExpect checks one period search.
type PeriodExpect struct {
	Entry string `yaml:"entry"`

	// Members overrides the component containing Entry.
	Members []string `yaml:"members,omitempty"`

	Presses     int64  `yaml:"presses"`
	CycleStart  *int64 `yaml:"cycle_start,omitempty"`
	CycleLength *int64 `yaml:"cycle_length,omitempty"`

	// Emissions is the number of presses during which pulses escaped.
	Emissions *int `yaml:"emissions,omitempty"`
}

// CombinedExpect checks the combined period over several entries.
type CombinedExpect struct {
	// Entries defaults to the broadcaster targets.
	Entries []string `yaml:"entries,omitempty"`
	Answer  int64    `yaml:"answer"`
	Coprime *bool    `yaml:"coprime,omitempty"`
	Aligned *bool    `yaml:"aligned,omitempty"`
}

// Assertion validates the pulse trace or the state after it.
type Assertion struct {
	// Type is one of trace_contains, trace_order, trace_count, final_state.
	Type string `yaml:"type"`

	// Pulse is "from -level-> to" (trace_contains, trace_count).
	Pulse string `yaml:"pulse,omitempty"`

	// Press restricts trace_contains to one press. Zero matches any.
	Press int64 `yaml:"press,omitempty"`

	// Pulses is the expected delivery order (trace_order).
	Pulses []string `yaml:"pulses,omitempty"`

	// Count is the expected number of deliveries (trace_count).
	Count int `yaml:"count,omitempty"`

	// Module is the module inspected by final_state.
	Module string `yaml:"module,omitempty"`

	// On is the expected flip-flop bit (final_state).
	On *bool `yaml:"on,omitempty"`

	// Memory maps conjunction inputs to "low" or "high" (final_state).
	Memory map[string]string `yaml:"memory,omitempty"`
}

// Assertion type constants.
const (
	AssertTraceContains = "trace_contains"
	AssertTraceOrder    = "trace_order"
	AssertTraceCount    = "trace_count"
	AssertFinalState    = "final_state"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	s, err := ParseScenario(data)
	if err != nil {
		return nil, err
	}

	if s.NetworkFile != "" {
		if s.Network != "" {
			return nil, fmt.Errorf("invalid scenario: network and network_file are mutually exclusive")
		}
		netPath := s.NetworkFile
		if !filepath.IsAbs(netPath) {
			netPath = filepath.Join(filepath.Dir(path), netPath)
		}
		text, err := os.ReadFile(netPath)
		if err != nil {
			return nil, fmt.Errorf("invalid scenario: network file: %w", err)
		}
		s.Network = string(text)
	}

	if err := validateScenario(s); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return s, nil
}

// ParseScenario decodes scenario YAML without resolving network_file.
func ParseScenario(data []byte) (*Scenario, error) {
	var s Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // reject typos like "assertion:"
	if err := decoder.Decode(&s); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	return &s, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if s.Network == "" {
		return fmt.Errorf("network or network_file is required")
	}
	if s.Presses < 0 {
		return fmt.Errorf("presses must be non-negative")
	}
	if s.TracePresses < 0 {
		return fmt.Errorf("trace_presses must be non-negative")
	}
	if s.MaxPresses < 0 {
		return fmt.Errorf("max_presses must be non-negative")
	}
	if s.Expect != nil && s.Presses == 0 {
		return fmt.Errorf("expect requires presses")
	}

	switch engine.RuntimeErrorCode(s.ExpectError) {
	case "", engine.ErrCodeMissingMemory, engine.ErrCodeUnknownModule, engine.ErrCodeQuotaExceeded:
	default:
		return fmt.Errorf("expect_error: unknown error code %q", s.ExpectError)
	}

	for i, p := range s.Periods {
		if p.Entry == "" {
			return fmt.Errorf("periods[%d]: entry is required", i)
		}
		if p.Presses < 1 && s.ExpectError == "" {
			return fmt.Errorf("periods[%d]: presses must be at least 1", i)
		}
	}

	for i := range s.Assertions {
		if err := validateAssertion(i, &s.Assertions[i]); err != nil {
			return err
		}
	}
	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	switch a.Type {
	case "":
		return fmt.Errorf("assertions[%d]: type is required", index)

	case AssertTraceContains:
		if _, err := parsePulse(a.Pulse); err != nil {
			return fmt.Errorf("assertions[%d]: %w", index, err)
		}

	case AssertTraceCount:
		if _, err := parsePulse(a.Pulse); err != nil {
			return fmt.Errorf("assertions[%d]: %w", index, err)
		}
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative", index)
		}

	case AssertTraceOrder:
		if len(a.Pulses) < 2 {
			return fmt.Errorf("assertions[%d]: trace_order needs at least 2 pulses", index)
		}
		for _, p := range a.Pulses {
			if _, err := parsePulse(p); err != nil {
				return fmt.Errorf("assertions[%d]: %w", index, err)
			}
		}

	case AssertFinalState:
		if a.Module == "" {
			return fmt.Errorf("assertions[%d]: final_state requires module", index)
		}
		if a.On == nil && len(a.Memory) == 0 {
			return fmt.Errorf("assertions[%d]: final_state requires on or memory", index)
		}
		for in, lvl := range a.Memory {
			if lvl != "low" && lvl != "high" {
				return fmt.Errorf("assertions[%d]: memory[%s]: level must be low or high, got %q", index, in, lvl)
			}
		}

	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}
