// prof-top analyzes JSON trace files produced by ML training profilers
// and prints per-operation timing statistics with bottleneck flags.
//
// Usage:
//
//	prof-top --trace_file ./profiler/trace.json
//	prof-top --profiler_dir ./profiler/ml-1m-l200/model_dir/
//	prof-top --profiler_dir ./profiler/ --watch
//	prof-top --history 10
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nixlim/prof-top/internal/config"
	"github.com/nixlim/prof-top/internal/report"
	"github.com/nixlim/prof-top/internal/stats"
	"github.com/nixlim/prof-top/internal/storage"
	"github.com/nixlim/prof-top/internal/trace"
	"github.com/nixlim/prof-top/internal/tui"
)

func main() {
	traceFile := flag.String("trace_file", "", "Path to a specific trace file to analyze")
	profilerDir := flag.String("profiler_dir", "", "Directory containing profiler traces; the newest .json file is analyzed")
	configPath := flag.String("config", "", "Path to the config file (default ~/.config/prof-top/config.toml)")
	topN := flag.Int("top", 0, "Number of ranked operations to show (default from config, 20)")
	thresholdMS := flag.Float64("threshold_ms", 0, "Bottleneck threshold in milliseconds (default from config, 10)")
	watchFlag := flag.Bool("watch", false, "Keep watching profiler_dir and refresh when a new trace appears")
	historyN := flag.Int("history", 0, "List the N most recent recorded runs and exit")
	flag.Parse()

	if *historyN == 0 && *traceFile == "" && *profilerDir == "" {
		fmt.Println("Either --trace_file or --profiler_dir must be provided")
		os.Exit(2)
	}

	loadResult, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "prof-top: config error: %v\n", err)
		os.Exit(1)
	}
	cfg := loadResult.Config

	for _, w := range loadResult.Warnings {
		fmt.Fprintf(os.Stderr, "prof-top: config warning: %s\n", w)
	}

	if *topN > 0 {
		cfg.Report.TopEvents = *topN
	}
	if *thresholdMS > 0 {
		cfg.Report.BottleneckThresholdMS = *thresholdMS
	}

	if *historyN > 0 {
		listHistory(cfg, *historyN)
		return
	}

	calc := stats.NewCalculator(cfg.Report.TopEvents, cfg.Report.BottleneckThresholdMS)
	renderer := report.NewRenderer(cfg.Report.BottleneckThresholdMS)

	if *watchFlag {
		if *profilerDir == "" {
			fmt.Println("--watch requires --profiler_dir")
			os.Exit(2)
		}
		runWatch(cfg, *profilerDir, calc, renderer)
		return
	}

	runOnce(cfg, *traceFile, *profilerDir, calc, renderer)
}

func loadConfig(path string) (*config.LoadResult, error) {
	if path != "" {
		return config.LoadFrom(path)
	}
	return config.Load()
}

// runOnce performs the single-pass analysis. Handled input failures
// print a one-line diagnostic and end the run without a report.
func runOnce(cfg config.Config, traceFile, profilerDir string, calc *stats.Calculator, renderer *report.Renderer) {
	path := traceFile
	if path == "" {
		latest, err := trace.Latest(profilerDir)
		if err != nil {
			switch {
			case errors.Is(err, trace.ErrNotFound):
				fmt.Printf("Profiler directory %s does not exist!\n", profilerDir)
			case errors.Is(err, trace.ErrNoTraces):
				fmt.Printf("No trace files found in %s\n", profilerDir)
			default:
				fmt.Printf("Failed to scan %s: %v\n", profilerDir, err)
			}
			return
		}
		path = latest
	}

	f, err := trace.Load(path)
	if err != nil {
		switch {
		case errors.Is(err, trace.ErrNotFound):
			fmt.Printf("Trace file %s does not exist!\n", path)
		case errors.Is(err, trace.ErrMalformed):
			fmt.Printf("Failed to parse trace file: %v\n", err)
		default:
			fmt.Printf("Failed to read trace file: %v\n", err)
		}
		return
	}

	rep := calc.Compute(f.TraceEvents)
	renderer.Render(os.Stdout, path, rep)

	recordRun(cfg, path, rep)
}

// recordRun appends the run to the sqlite history when configured.
// History is best effort and never fails the analysis.
func recordRun(cfg config.Config, path string, rep stats.Report) {
	store := storage.NewStore(cfg.Storage)
	if store == nil {
		return
	}
	defer func() { _ = store.Close() }()

	if _, err := store.RecordRun(path, time.Now(), rep); err != nil {
		fmt.Fprintf(os.Stderr, "prof-top: recording run history: %v\n", err)
	}
}

func listHistory(cfg config.Config, limit int) {
	store := storage.NewStore(cfg.Storage)
	if store == nil {
		fmt.Println("Run history is not configured (set storage.db_path in the config)")
		return
	}
	defer func() { _ = store.Close() }()

	runs, err := store.RecentRuns(limit)
	if err != nil {
		fmt.Printf("Failed to read run history: %v\n", err)
		return
	}
	if len(runs) == 0 {
		fmt.Println("No recorded runs")
		return
	}

	fmt.Printf("%-20s %-10s %-10s %-12s %s\n", "Analyzed At", "Events", "Ops", "Bottlenecks", "Trace")
	for _, r := range runs {
		fmt.Printf("%-20s %-10d %-10d %-12d %s\n",
			r.AnalyzedAt.Local().Format("2006-01-02 15:04:05"),
			r.TotalEvents, r.DistinctOps, r.Bottlenecks, r.TracePath)
	}
}

func runWatch(cfg config.Config, dir string, calc *stats.Calculator, renderer *report.Renderer) {
	analyzer := &dirAnalyzer{dir: dir, calc: calc, renderer: renderer}

	model := tui.NewModel(dir,
		tui.WithAnalyzer(analyzer),
		tui.WithRefreshRate(time.Duration(cfg.Watch.RefreshRateMS)*time.Millisecond),
	)

	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "prof-top: %v\n", err)
		os.Exit(1)
	}
}
