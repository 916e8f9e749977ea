package storage

import (
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/nixlim/prof-top/internal/config"
)

// NewStore opens the history store described by cfg. An empty db_path
// disables history; an unopenable database degrades to no history
// rather than failing the analysis.
func NewStore(cfg config.StorageConfig) *Store {
	if cfg.DBPath == "" {
		return nil
	}

	dbPath := expandTilde(cfg.DBPath)

	store, err := Open(dbPath, cfg.RetentionDays)
	if err != nil {
		log.Printf("WARNING: run history unavailable (%v), continuing without it", err)
		return nil
	}
	return store
}

func expandTilde(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}
