package harness

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/roach88/pulsenet/internal/circuit"
	"github.com/roach88/pulsenet/internal/engine"
	"github.com/roach88/pulsenet/internal/period"
	"github.com/roach88/pulsenet/internal/sim"
	"github.com/roach88/pulsenet/internal/store"
	"github.com/roach88/pulsenet/internal/testutil"
	"github.com/roach88/pulsenet/internal/topology"
)

// Harness executes one scenario against an in-memory store.
type Harness struct {
	scenario *Scenario
	graph    *circuit.Graph
	store    *store.Store
	clock    *testutil.DeterministicClock
	ids      *testutil.SequentialIDs
	result   *Result

	// errMatched is set once the scenario's expected error occurred.
	errMatched bool
}

// errStop ends a scenario early after an expected or mismatched error.
var errStop = errors.New("scenario stopped")

// Run executes a scenario and returns the result.
//
// Expectation mismatches are recorded in the result; the returned error is
// reserved for scenarios that cannot run at all (invalid scenario, network
// that does not parse, unexpected runtime error, store failure).
func Run(scenario *Scenario) (*Result, error) {
	if err := validateScenario(scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	g, err := circuit.Parse(scenario.Network)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
	}

	st, err := store.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}
	defer st.Close()

	h := &Harness{
		scenario: scenario,
		graph:    g,
		store:    st,
		clock:    testutil.NewDeterministicClock(),
		ids:      testutil.NewSequentialIDs(scenario.Name),
		result:   NewResult(),
	}
	if err := h.execute(context.Background()); err != nil && !errors.Is(err, errStop) {
		return nil, err
	}
	if scenario.ExpectError != "" && !h.errMatched {
		h.result.AddError(fmt.Sprintf("expected error %s, got none", scenario.ExpectError))
	}
	return h.result, nil
}

func (h *Harness) execute(ctx context.Context) error {
	steps := []func(context.Context) error{
		h.runTrace,
		h.runCount,
		h.runComponents,
		h.runPeriods,
		h.runCombined,
	}
	for _, step := range steps {
		if err := step(ctx); err != nil {
			return err
		}
	}
	return nil
}

// check classifies a stage error against the scenario's expect_error.
func (h *Harness) check(stage string, err error) error {
	want := h.scenario.ExpectError
	var re *engine.RuntimeError
	if want == "" || !errors.As(err, &re) {
		return fmt.Errorf("%s: %w", stage, err)
	}
	if string(re.Code) == want {
		h.errMatched = true
	} else {
		h.result.AddError(fmt.Sprintf("%s: expected error %s, got %v", stage, want, err))
	}
	return errStop
}

func (h *Harness) runTrace(ctx context.Context) error {
	n := h.scenario.TracePresses
	if n == 0 {
		n = 1
	}
	eng := engine.New(h.graph,
		engine.WithClock(h.clock),
		engine.WithObserver(func(d engine.Delivery) {
			h.result.Trace = append(h.result.Trace, d)
		}),
	)
	if _, err := eng.Run(ctx, n); err != nil {
		return h.check("trace", err)
	}
	for _, msg := range EvaluateAssertions(h.result.Trace, eng.State(), h.scenario.Assertions) {
		h.result.AddError(msg)
	}
	return nil
}

func (h *Harness) runCount(ctx context.Context) error {
	if h.scenario.Presses == 0 {
		return nil
	}
	counts, err := sim.CountPulses(ctx, h.graph, h.scenario.Presses)
	if err != nil {
		return h.check("count", err)
	}
	h.result.Counts = &counts

	if exp := h.scenario.Expect; exp != nil {
		expectInt(h.result, "expect.low", exp.Low, counts.Low)
		expectInt(h.result, "expect.high", exp.High, counts.High)
		expectInt(h.result, "expect.product", exp.Product, counts.Product())
	}

	run, err := h.store.WriteCountRun(ctx, h.ids.Generate(), h.graph, h.scenario.Presses, counts)
	if err != nil {
		return err
	}
	return h.replay(ctx, run.ID)
}

func (h *Harness) runComponents(context.Context) error {
	comps := topology.Components(h.graph)
	h.result.Components = make([][]string, len(comps))
	for i, c := range comps {
		h.result.Components[i] = sorted(c)
	}
	if h.scenario.Components == nil {
		return nil
	}

	want := make([][]string, len(h.scenario.Components))
	for i, c := range h.scenario.Components {
		want[i] = sorted(c)
	}
	if !slices.EqualFunc(want, h.result.Components, func(a, b []string) bool { return slices.Equal(a, b) }) {
		h.result.AddError(fmt.Sprintf("components: expected %v, got %v", want, h.result.Components))
	}
	return nil
}

func (h *Harness) periodOptions() []period.Option {
	return []period.Option{period.WithMaxPresses(h.scenario.MaxPresses)}
}

func (h *Harness) runPeriods(ctx context.Context) error {
	for i, exp := range h.scenario.Periods {
		var (
			res *period.Result
			err error
		)
		if len(exp.Members) > 0 {
			res, err = period.Find(ctx, h.graph, exp.Entry, exp.Members, h.periodOptions()...)
		} else {
			res, err = period.ForEntry(ctx, h.graph, topology.Components(h.graph), exp.Entry, h.periodOptions()...)
		}
		if err != nil {
			return h.check(fmt.Sprintf("periods[%d]", i), err)
		}
		h.result.Periods = append(h.result.Periods, res)

		label := fmt.Sprintf("periods[%d] (%s)", i, exp.Entry)
		expectInt(h.result, label+".presses", &exp.Presses, res.Presses)
		expectInt(h.result, label+".cycle_start", exp.CycleStart, res.CycleStart)
		expectInt(h.result, label+".cycle_length", exp.CycleLength, res.CycleLength)
		if exp.Emissions != nil && *exp.Emissions != len(res.Emissions) {
			h.result.AddError(fmt.Sprintf("%s.emissions: expected %d, got %d", label, *exp.Emissions, len(res.Emissions)))
		}
	}
	return nil
}

func (h *Harness) runCombined(ctx context.Context) error {
	exp := h.scenario.Combined
	if exp == nil {
		return nil
	}
	rep, err := sim.CombinedPeriod(ctx, h.graph, exp.Entries, h.periodOptions()...)
	if err != nil {
		return h.check("combined", err)
	}
	h.result.Combined = rep

	expectInt(h.result, "combined.answer", &exp.Answer, rep.Answer)
	expectBool(h.result, "combined.coprime", exp.Coprime, rep.Combination.Coprime)
	expectBool(h.result, "combined.aligned", exp.Aligned, rep.Aligned)

	run, err := h.store.WritePeriodRun(ctx, h.ids.Generate(), h.graph, rep)
	if err != nil {
		return err
	}
	return h.replay(ctx, run.ID, h.periodOptions()...)
}

// replay re-simulates a recorded run and flags any divergence.
func (h *Harness) replay(ctx context.Context, id string, opts ...period.Option) error {
	h.result.RunIDs = append(h.result.RunIDs, id)
	rr, err := h.store.Replay(ctx, id, opts...)
	if err != nil {
		return fmt.Errorf("replay %s: %w", id, err)
	}
	if !rr.Match {
		h.result.AddError(fmt.Sprintf("replay %s: stored answer %d, replayed %d", id, rr.Run.Answer, rr.Answer))
	}
	return nil
}

func expectInt(r *Result, field string, want *int64, got int64) {
	if want != nil && *want != got {
		r.AddError(fmt.Sprintf("%s: expected %d, got %d", field, *want, got))
	}
}

func expectBool(r *Result, field string, want *bool, got bool) {
	if want != nil && *want != got {
		r.AddError(fmt.Sprintf("%s: expected %t, got %t", field, *want, got))
	}
}

func sorted(names []string) []string {
	out := slices.Clone(names)
	slices.Sort(out)
	return out
}
