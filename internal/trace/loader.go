package trace

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// Sentinel errors for the loader and discovery. Callers match them with
// errors.Is to pick the right one-line diagnostic.
var (
	ErrNotFound  = errors.New("path does not exist")
	ErrMalformed = errors.New("malformed trace file")
	ErrNoTraces  = errors.New("no trace files found")
)

// Load reads the whole trace file into memory and decodes it. The file
// must exist and parse as JSON; there is no streaming fallback for
// traces larger than memory.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("%w: reading %s: %v", ErrMalformed, path, err)
	}

	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%w: parsing %s: %v", ErrMalformed, path, err)
	}

	return &f, nil
}
