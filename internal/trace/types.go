// Package trace models the Chrome Trace Event Format files emitted by
// ML training profilers and provides loading and discovery of trace
// files on disk.
//
// Format reference:
// https://docs.google.com/document/d/1CvAClvFfyA5R-PhYUmn5OOQtYMH4h6I0nSsKchNAySU
package trace

// Phase tags for trace events. Only complete events carry a duration
// this tool can aggregate.
const (
	PhaseComplete      = "X"
	PhaseDurationBegin = "B"
	PhaseDurationEnd   = "E"
	PhaseInstant       = "i"
	PhaseCounter       = "C"
	PhaseMetadata      = "M"
)

// Event is a single entry of the traceEvents sequence. Profilers attach
// many more keys than these; unrecognized keys are ignored on decode.
// Timestamp and Duration are in microseconds.
type Event struct {
	Name      string         `json:"name,omitempty"`
	Category  string         `json:"cat,omitempty"`
	Phase     string         `json:"ph,omitempty"`
	Timestamp float64        `json:"ts,omitempty"`
	Duration  float64        `json:"dur,omitempty"`
	ProcessID int            `json:"pid,omitempty"`
	ThreadID  int            `json:"tid,omitempty"`
	Args      map[string]any `json:"args,omitempty"`
}

// File is the top-level trace document. Metadata keys such as
// displayTimeUnit or otherData are decoded where cheap and otherwise
// dropped; the aggregator only consumes TraceEvents.
type File struct {
	TraceEvents     []Event        `json:"traceEvents"`
	DisplayTimeUnit string         `json:"displayTimeUnit,omitempty"`
	OtherData       map[string]any `json:"otherData,omitempty"`
}
