package main

import (
	"os"
	"strings"
	"time"

	"github.com/nixlim/prof-top/internal/report"
	"github.com/nixlim/prof-top/internal/stats"
	"github.com/nixlim/prof-top/internal/trace"
)

// dirAnalyzer adapts discovery, aggregation and rendering to the watch
// loop's Analyzer interface. Watch mode does not write run history;
// only one-shot analyses are recorded.
type dirAnalyzer struct {
	dir      string
	calc     *stats.Calculator
	renderer *report.Renderer
}

func (a *dirAnalyzer) Latest() (string, time.Time, error) {
	path, err := trace.Latest(a.dir)
	if err != nil {
		return "", time.Time{}, err
	}
	info, err := os.Stat(path)
	if err != nil {
		return "", time.Time{}, err
	}
	return path, info.ModTime(), nil
}

func (a *dirAnalyzer) Render(path string) (string, error) {
	f, err := trace.Load(path)
	if err != nil {
		return "", err
	}

	rep := a.calc.Compute(f.TraceEvents)

	var sb strings.Builder
	a.renderer.Render(&sb, path, rep)

	return sb.String(), nil
}
