package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/roach88/pulsenet/internal/circuit"
)

// marshalJSON encodes v as compact JSON TEXT with HTML escaping disabled,
// so module names are stored as written.
func marshalJSON(v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	// Encoder adds a trailing newline, remove it
	return strings.TrimSpace(buf.String()), nil
}

func marshalMembers(members []string) (string, error) {
	if members == nil {
		members = []string{}
	}
	s, err := marshalJSON(members)
	if err != nil {
		return "", fmt.Errorf("marshal members: %w", err)
	}
	return s, nil
}

func unmarshalMembers(data string) ([]string, error) {
	members := []string{}
	if err := json.Unmarshal([]byte(data), &members); err != nil {
		return nil, fmt.Errorf("unmarshal members: %w", err)
	}
	return members, nil
}

func marshalPulses(pulses []circuit.Pulse) (string, error) {
	if pulses == nil {
		pulses = []circuit.Pulse{}
	}
	s, err := marshalJSON(pulses)
	if err != nil {
		return "", fmt.Errorf("marshal pulses: %w", err)
	}
	return s, nil
}

func unmarshalPulses(data string) ([]circuit.Pulse, error) {
	pulses := []circuit.Pulse{}
	if err := json.Unmarshal([]byte(data), &pulses); err != nil {
		return nil, fmt.Errorf("unmarshal pulses: %w", err)
	}
	return pulses, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
