// Package stats computes per-operation timing statistics from trace
// events. All functions are pure computations with no side effects.
package stats

import (
	"sort"
	"strings"

	"github.com/nixlim/prof-top/internal/trace"
)

const (
	// DefaultTopN is how many ranked operations the report keeps.
	DefaultTopN = 20

	// DefaultThresholdMS is the mean duration above which an operation
	// is flagged as a bottleneck.
	DefaultThresholdMS = 10.0
)

// unknownName stands in for events that carry no name field.
const unknownName = "unknown"

// Calculator aggregates complete-event durations by operation name.
type Calculator struct {
	topN        int
	thresholdMS float64
}

// NewCalculator creates a Calculator. Non-positive topN or thresholdMS
// fall back to the defaults.
func NewCalculator(topN int, thresholdMS float64) *Calculator {
	if topN <= 0 {
		topN = DefaultTopN
	}
	if thresholdMS <= 0 {
		thresholdMS = DefaultThresholdMS
	}
	return &Calculator{topN: topN, thresholdMS: thresholdMS}
}

// opAccum collects the durations of one name in file order.
type opAccum struct {
	name      string
	durations []float64
}

// Compute runs one aggregation pass over the events. Only complete
// events ("X" phase) contribute durations; all phases count toward the
// memory-event total. Durations arrive in microseconds and are
// converted to milliseconds. Rank ties preserve the order in which a
// name first appeared in the file.
func (c *Calculator) Compute(events []trace.Event) Report {
	byName := make(map[string]*opAccum)
	var order []*opAccum

	rep := Report{TotalEvents: len(events)}

	for _, e := range events {
		if strings.Contains(strings.ToLower(e.Name), "memory") {
			rep.MemoryEvents++
		}

		if e.Phase != trace.PhaseComplete {
			continue
		}
		rep.CompleteEvents++

		name := e.Name
		if name == "" {
			name = unknownName
		}

		acc, ok := byName[name]
		if !ok {
			acc = &opAccum{name: name}
			byName[name] = acc
			order = append(order, acc)
		}
		acc.durations = append(acc.durations, e.Duration/1000.0)
	}

	ops := make([]OpStats, 0, len(order))
	for _, acc := range order {
		var total, max float64
		for _, d := range acc.durations {
			total += d
			if d > max {
				max = d
			}
		}
		count := len(acc.durations)
		ops = append(ops, OpStats{
			Name:    acc.name,
			Count:   count,
			AvgMS:   total / float64(count),
			MaxMS:   max,
			TotalMS: total,
		})
	}

	rep.DistinctOps = len(ops)
	rep.Bottlenecks = c.findBottlenecks(ops)

	sort.SliceStable(ops, func(i, j int) bool {
		return ops[i].TotalMS > ops[j].TotalMS
	})
	if len(ops) > c.topN {
		ops = ops[:c.topN]
	}
	rep.TopOps = ops

	return rep
}

// findBottlenecks selects operations with a mean strictly above the
// threshold, ranked by mean descending with insertion-order ties.
func (c *Calculator) findBottlenecks(ops []OpStats) []Bottleneck {
	var flagged []Bottleneck
	for _, op := range ops {
		if op.AvgMS > c.thresholdMS {
			flagged = append(flagged, Bottleneck{Name: op.Name, AvgMS: op.AvgMS})
		}
	}
	sort.SliceStable(flagged, func(i, j int) bool {
		return flagged[i].AvgMS > flagged[j].AvgMS
	})
	return flagged
}
