package circuit

import "fmt"

// Kind distinguishes the two stateful module kinds.
type Kind int

const (
	// FlipFlop toggles on low pulses and ignores high pulses.
	FlipFlop Kind = iota + 1
	// Conjunction remembers the last level from every input and emits low
	// only when all remembered levels are high.
	Conjunction
)

// Kind markers used in the network text.
const (
	FlipFlopMarker    = '%'
	ConjunctionMarker = '&'
)

// BroadcasterName is the name of the pseudo-module that starts every press.
const BroadcasterName = "broadcaster"

func (k Kind) String() string {
	switch k {
	case FlipFlop:
		return "flipflop"
	case Conjunction:
		return "conjunction"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Marker returns the single-character prefix for k in the network text.
func (k Kind) Marker() rune {
	if k == FlipFlop {
		return FlipFlopMarker
	}
	return ConjunctionMarker
}

// Level is a pulse level.
type Level bool

const (
	Low  Level = false
	High Level = true
)

func (l Level) String() string {
	if l {
		return "high"
	}
	return "low"
}

// Pulse is one leveled signal travelling from one module to another.
type Pulse struct {
	From  string `json:"from"`
	Level Level  `json:"level"`
	To    string `json:"to"`
}

func (p Pulse) String() string {
	return fmt.Sprintf("%s -%s-> %s", p.From, p.Level, p.To)
}

// Module is the static description of one stateful module.
type Module struct {
	Name    string
	Kind    Kind
	Outputs []string // destinations, in declaration order
	Inputs  []string // modules listing Name as an output, in declaration order
}

// Declaration is one parsed module line before input inversion.
type Declaration struct {
	Name    string
	Kind    Kind
	Outputs []string
}

// MarshalText encodes l as "low" or "high".
func (l Level) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// UnmarshalText decodes "low" or "high".
func (l *Level) UnmarshalText(b []byte) error {
	switch string(b) {
	case "low":
		*l = Low
	case "high":
		*l = High
	default:
		return fmt.Errorf("invalid pulse level %q", string(b))
	}
	return nil
}
