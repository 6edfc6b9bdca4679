package store

import (
	"errors"

	"github.com/roach88/pulsenet/internal/period"
)

// Mode identifies which simulation produced a run.
type Mode string

const (
	// ModeCount is a fixed-horizon pulse count.
	ModeCount Mode = "count"
	// ModePeriod is a period combination over entry subsystems.
	ModePeriod Mode = "period"
)

// ErrRunNotFound is returned when no run has the requested ID.
var ErrRunNotFound = errors.New("run not found")

// Run is one recorded simulation.
type Run struct {
	ID          string `json:"id"`
	Seq         int64  `json:"seq"`
	Mode        Mode   `json:"mode"`
	Fingerprint string `json:"fingerprint"`
	Network     string `json:"-"` // canonical network text
	Presses     int64  `json:"presses"`
	Low         int64  `json:"low"`
	High        int64  `json:"high"`
	Answer      int64  `json:"answer"`
	Coprime     bool   `json:"coprime"`
	Aligned     bool   `json:"aligned"`
}

// PeriodRecord is one subsystem of a period run.
type PeriodRecord struct {
	RunID       string            `json:"run_id"`
	Position    int               `json:"position"`
	Entry       string            `json:"entry"`
	Members     []string          `json:"members"`
	Bits        int               `json:"bits"`
	Presses     int64             `json:"presses"`
	CycleStart  int64             `json:"cycle_start"`
	CycleLength int64             `json:"cycle_length"`
	Emissions   []period.Emission `json:"emissions"`
}
