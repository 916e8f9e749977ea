// Package report renders aggregated trace statistics as the plain-text
// performance report written to standard output and shown in watch
// mode.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nixlim/prof-top/internal/stats"
)

var (
	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("69"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))
)

// Renderer writes performance reports. The threshold is only used for
// the no-bottlenecks message; the ranking itself is already computed.
type Renderer struct {
	thresholdMS float64
}

// NewRenderer creates a Renderer for the given bottleneck threshold.
func NewRenderer(thresholdMS float64) *Renderer {
	return &Renderer{thresholdMS: thresholdMS}
}

// Render writes the full report for one analyzed trace file. Output is
// deterministic for a given report: rerunning on the same trace yields
// byte-identical content.
func (r *Renderer) Render(w io.Writer, tracePath string, rep stats.Report) {
	fmt.Fprintf(w, "Analyzing trace file: %s\n", tracePath)

	r.renderRanking(w, rep)
	r.renderBottlenecks(w, rep)
	r.renderMemory(w, rep)
	r.renderRecommendations(w)
}

func (r *Renderer) renderRanking(w io.Writer, rep stats.Report) {
	fmt.Fprintf(w, "\n%s\n", sectionStyle.Render("=== Performance Analysis ==="))
	fmt.Fprintf(w, "%-40s %-8s %-12s %-12s %-12s\n",
		"Event Name", "Count", "Avg (ms)", "Max (ms)", "Total (ms)")
	fmt.Fprintln(w, strings.Repeat("-", 90))

	for _, op := range rep.TopOps {
		fmt.Fprintf(w, "%-40s %-8d %-12.2f %-12.2f %-12.2f\n",
			op.Name, op.Count, op.AvgMS, op.MaxMS, op.TotalMS)
	}

	if rep.DistinctOps > len(rep.TopOps) {
		fmt.Fprintln(w, dimStyle.Render(fmt.Sprintf(
			"(showing top %d of %d distinct operations)", len(rep.TopOps), rep.DistinctOps)))
	}
}

func (r *Renderer) renderBottlenecks(w io.Writer, rep stats.Report) {
	fmt.Fprintf(w, "\n%s\n", sectionStyle.Render("=== Potential Bottlenecks ==="))

	if len(rep.Bottlenecks) == 0 {
		fmt.Fprintf(w, "No obvious bottlenecks found (all events <%gms average)\n", r.thresholdMS)
		return
	}
	for _, b := range rep.Bottlenecks {
		fmt.Fprintf(w, "- %s: %.2fms average\n", b.Name, b.AvgMS)
	}
}

func (r *Renderer) renderMemory(w io.Writer, rep stats.Report) {
	if rep.MemoryEvents == 0 {
		return
	}
	fmt.Fprintf(w, "\n%s\n", sectionStyle.Render("=== Memory Events ==="))
	fmt.Fprintf(w, "Found %d memory-related events\n", rep.MemoryEvents)
}

func (r *Renderer) renderRecommendations(w io.Writer) {
	fmt.Fprintf(w, "\n%s\n", sectionStyle.Render("=== Recommendations ==="))
	fmt.Fprintln(w, "1. Visualize the trace in TensorBoard, chrome://tracing or Perfetto")
	fmt.Fprintln(w, "2. Look for:")
	fmt.Fprintln(w, "   - Long-running operations in forward/backward pass")
	fmt.Fprintln(w, "   - Memory allocation patterns")
	fmt.Fprintln(w, "   - GPU utilization gaps")
	fmt.Fprintln(w, "   - Data loading bottlenecks")
}
