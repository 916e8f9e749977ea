package stats

// OpStats holds the aggregate timing of one named operation. All
// durations are in milliseconds.
type OpStats struct {
	Name    string
	Count   int
	AvgMS   float64
	MaxMS   float64
	TotalMS float64
}

// Bottleneck flags an operation whose mean duration exceeds the
// configured threshold.
type Bottleneck struct {
	Name  string
	AvgMS float64
}

// Report is the full output of one aggregation pass over a trace.
type Report struct {
	// TopOps is ranked by total duration descending and truncated to
	// the calculator's TopN. DistinctOps is the count before
	// truncation.
	TopOps      []OpStats
	DistinctOps int

	// Bottlenecks is ranked by average duration descending.
	Bottlenecks []Bottleneck

	// MemoryEvents counts events of any phase whose name mentions
	// memory.
	MemoryEvents int

	TotalEvents    int
	CompleteEvents int
}
