package trace

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLatest_PicksNewestTrace(t *testing.T) {
	dir := t.TempDir()
	older := writeFile(t, dir, "a.json", `{"traceEvents": []}`)
	newer := writeFile(t, dir, "b.json", `{"traceEvents": []}`)

	// Push the timestamps apart explicitly; filesystem resolution is
	// too coarse to rely on write order.
	now := time.Now()
	if err := os.Chtimes(older, now.Add(-time.Hour), now.Add(-time.Hour)); err != nil {
		t.Fatalf("chtimes: %v", err)
	}
	if err := os.Chtimes(newer, now, now); err != nil {
		t.Fatalf("chtimes: %v", err)
	}

	got, err := Latest(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != newer {
		t.Errorf("expected %s, got %s", newer, got)
	}
}

func TestLatest_IgnoresNonJSONAndDirs(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "notes.txt", "not a trace")
	if err := os.Mkdir(filepath.Join(dir, "nested.json"), 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	want := writeFile(t, dir, "trace.json", `{"traceEvents": []}`)

	got, err := Latest(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != want {
		t.Errorf("expected %s, got %s", want, got)
	}
}

func TestLatest_EmptyDirectory(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "readme.md", "no traces here")

	_, err := Latest(dir)
	if !errors.Is(err, ErrNoTraces) {
		t.Errorf("expected ErrNoTraces, got %v", err)
	}
}

func TestLatest_MissingDirectory(t *testing.T) {
	_, err := Latest(filepath.Join(t.TempDir(), "absent"))
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
