package stats

import (
	"math"
	"testing"

	"github.com/nixlim/prof-top/internal/trace"
)

func complete(name string, durMicros float64) trace.Event {
	return trace.Event{Name: name, Phase: trace.PhaseComplete, Duration: durMicros}
}

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestCompute_BasicAggregation(t *testing.T) {
	events := []trace.Event{
		complete("opA", 5000),
		complete("opB", 20000),
	}

	rep := NewCalculator(0, 0).Compute(events)

	if len(rep.TopOps) != 2 {
		t.Fatalf("expected 2 ranked ops, got %d", len(rep.TopOps))
	}

	// opB has the larger total and must rank first.
	if rep.TopOps[0].Name != "opB" {
		t.Errorf("expected opB first, got %s", rep.TopOps[0].Name)
	}
	if !approx(rep.TopOps[0].AvgMS, 20.0) {
		t.Errorf("expected opB avg 20.0ms, got %f", rep.TopOps[0].AvgMS)
	}
	if rep.TopOps[1].Name != "opA" || rep.TopOps[1].Count != 1 {
		t.Errorf("expected opA count 1, got %s count %d", rep.TopOps[1].Name, rep.TopOps[1].Count)
	}
	if !approx(rep.TopOps[1].AvgMS, 5.0) {
		t.Errorf("expected opA avg 5.0ms, got %f", rep.TopOps[1].AvgMS)
	}
}

func TestCompute_CountAvgMaxTotal(t *testing.T) {
	events := []trace.Event{
		complete("conv", 1000),
		complete("conv", 3000),
		complete("conv", 2000),
	}

	rep := NewCalculator(0, 0).Compute(events)

	if len(rep.TopOps) != 1 {
		t.Fatalf("expected 1 op, got %d", len(rep.TopOps))
	}
	op := rep.TopOps[0]
	if op.Count != 3 {
		t.Errorf("expected count 3, got %d", op.Count)
	}
	if !approx(op.AvgMS, 2.0) {
		t.Errorf("expected avg 2.0, got %f", op.AvgMS)
	}
	if !approx(op.MaxMS, 3.0) {
		t.Errorf("expected max 3.0, got %f", op.MaxMS)
	}
	if !approx(op.TotalMS, 6.0) {
		t.Errorf("expected total 6.0, got %f", op.TotalMS)
	}
}

func TestCompute_NonCompletePhasesIgnored(t *testing.T) {
	events := []trace.Event{
		{Name: "begin", Phase: trace.PhaseDurationBegin, Duration: 9000},
		{Name: "end", Phase: trace.PhaseDurationEnd, Duration: 9000},
		{Name: "meta", Phase: trace.PhaseMetadata},
		{Name: "counter", Phase: trace.PhaseCounter, Duration: 500},
	}

	rep := NewCalculator(0, 0).Compute(events)

	if len(rep.TopOps) != 0 {
		t.Errorf("expected no ranked ops, got %d", len(rep.TopOps))
	}
	if len(rep.Bottlenecks) != 0 {
		t.Errorf("expected no bottlenecks, got %d", len(rep.Bottlenecks))
	}
	if rep.CompleteEvents != 0 {
		t.Errorf("expected 0 complete events, got %d", rep.CompleteEvents)
	}
	if rep.TotalEvents != 4 {
		t.Errorf("expected 4 total events, got %d", rep.TotalEvents)
	}
}

func TestCompute_ThresholdIsStrict(t *testing.T) {
	events := []trace.Event{
		complete("at_threshold", 10000),    // avg exactly 10.0ms
		complete("above_threshold", 10001), // avg 10.001ms
	}

	rep := NewCalculator(0, 0).Compute(events)

	if len(rep.Bottlenecks) != 1 {
		t.Fatalf("expected 1 bottleneck, got %d", len(rep.Bottlenecks))
	}
	if rep.Bottlenecks[0].Name != "above_threshold" {
		t.Errorf("expected above_threshold flagged, got %s", rep.Bottlenecks[0].Name)
	}
}

func TestCompute_BottleneckRanking(t *testing.T) {
	events := []trace.Event{
		complete("slow", 15000),
		complete("slower", 40000),
		complete("fast", 1000),
	}

	rep := NewCalculator(0, 0).Compute(events)

	if len(rep.Bottlenecks) != 2 {
		t.Fatalf("expected 2 bottlenecks, got %d", len(rep.Bottlenecks))
	}
	if rep.Bottlenecks[0].Name != "slower" || rep.Bottlenecks[1].Name != "slow" {
		t.Errorf("expected [slower slow], got [%s %s]",
			rep.Bottlenecks[0].Name, rep.Bottlenecks[1].Name)
	}
}

func TestCompute_TiesKeepFileOrder(t *testing.T) {
	events := []trace.Event{
		complete("second_seen", 0), // placed later in the file below
		complete("first_seen", 12000),
		complete("second_seen", 12000),
	}
	// first_seen and second_seen both total 12.0ms; second_seen
	// appeared first in the file and must keep its slot.
	rep := NewCalculator(0, 0).Compute(events)

	if rep.TopOps[0].Name != "second_seen" {
		t.Errorf("expected second_seen first on tie, got %s", rep.TopOps[0].Name)
	}
	if rep.TopOps[1].Name != "first_seen" {
		t.Errorf("expected first_seen second on tie, got %s", rep.TopOps[1].Name)
	}
}

func TestCompute_TopNTruncation(t *testing.T) {
	var events []trace.Event
	for i := 0; i < 25; i++ {
		events = append(events, complete(string(rune('a'+i)), float64((i+1)*1000)))
	}

	rep := NewCalculator(20, 0).Compute(events)

	if len(rep.TopOps) != 20 {
		t.Errorf("expected 20 ranked ops, got %d", len(rep.TopOps))
	}
	if rep.DistinctOps != 25 {
		t.Errorf("expected 25 distinct ops, got %d", rep.DistinctOps)
	}
}

func TestCompute_MissingFieldsDefault(t *testing.T) {
	events := []trace.Event{
		{Phase: trace.PhaseComplete}, // no name, no dur
	}

	rep := NewCalculator(0, 0).Compute(events)

	if len(rep.TopOps) != 1 {
		t.Fatalf("expected 1 op, got %d", len(rep.TopOps))
	}
	op := rep.TopOps[0]
	if op.Name != "unknown" {
		t.Errorf("expected placeholder name unknown, got %q", op.Name)
	}
	if !approx(op.TotalMS, 0.0) {
		t.Errorf("expected 0.0ms total, got %f", op.TotalMS)
	}
}

func TestCompute_MemoryEventCount(t *testing.T) {
	events := []trace.Event{
		{Name: "[memory]", Phase: trace.PhaseInstant},
		complete("Memory Allocation", 100),
		complete("aten::mm", 100),
		{Name: "GPU MEMORY dump", Phase: trace.PhaseCounter},
	}

	rep := NewCalculator(0, 0).Compute(events)

	if rep.MemoryEvents != 3 {
		t.Errorf("expected 3 memory events, got %d", rep.MemoryEvents)
	}
}

func TestCompute_Idempotent(t *testing.T) {
	events := []trace.Event{
		complete("opA", 5000),
		complete("opB", 20000),
		{Name: "meta", Phase: trace.PhaseMetadata},
	}

	calc := NewCalculator(0, 0)
	first := calc.Compute(events)
	second := calc.Compute(events)

	if len(first.TopOps) != len(second.TopOps) {
		t.Fatalf("rank length differs across runs: %d vs %d", len(first.TopOps), len(second.TopOps))
	}
	for i := range first.TopOps {
		if first.TopOps[i] != second.TopOps[i] {
			t.Errorf("rank %d differs across runs: %+v vs %+v", i, first.TopOps[i], second.TopOps[i])
		}
	}
}
