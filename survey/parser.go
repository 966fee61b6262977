package survey

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// WalkExport is the on-disk JSON format written by the acquisition app after
// a guided walk-through: the ordered sample list plus an optional embedded
// layout.
type WalkExport struct {
	Device    string             `json:"device,omitempty"`
	StartedAt int64              `json:"startedAt,omitempty"`
	Samples   []CalibrationPoint `json:"samples"`
	Layout    *Layout            `json:"layout,omitempty"`
}

// ParseWalkFile reads and parses a walk export JSON file.
func ParseWalkFile(path string) (*WalkExport, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}
	export, err := ParseWalkJSON(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return export, nil
}

// ParseWalkJSON parses walk export JSON data and validates its structure.
// Sample-level normalization (signal clamping, heading wrap) happens later
// in NewSnapshot; this only rejects exports the engine can't use at all.
func ParseWalkJSON(data []byte) (*WalkExport, error) {
	var export WalkExport
	if err := json.Unmarshal(data, &export); err != nil {
		return nil, fmt.Errorf("parsing JSON: %w", err)
	}
	if export.Samples == nil {
		return nil, fmt.Errorf("export has no samples field")
	}
	return &export, nil
}

// Snapshot validates the export's samples into an immutable snapshot.
func (e *WalkExport) Snapshot() (*Snapshot, error) {
	return NewSnapshot(e.Samples)
}

// FindWalkExports globs WalkExport-*.json files under dir, sorted by name so
// repeated runs see the same order.
func FindWalkExports(dir string) ([]string, error) {
	pattern := filepath.Join(dir, "WalkExport-*.json")
	files, err := filepath.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("globbing walk exports: %w", err)
	}
	sort.Strings(files)
	return files, nil
}

// DeviceFromFilename extracts the device name from a WalkExport filename,
// e.g. "WalkExport-kitchen-tablet-20260801.json" -> "kitchen-tablet".
func DeviceFromFilename(path string) string {
	base := filepath.Base(path)
	base = strings.TrimPrefix(base, "WalkExport-")
	base = strings.TrimSuffix(base, ".json")
	// Drop a trailing timestamp segment if present.
	if idx := strings.LastIndex(base, "-2"); idx > 0 && len(base)-idx >= 8 {
		allDigits := true
		for _, c := range base[idx+1:] {
			if c < '0' || c > '9' {
				allDigits = false
				break
			}
		}
		if allDigits {
			base = base[:idx]
		}
	}
	return base
}

// MergeExports concatenates the samples of several exports in file order and
// returns the first embedded layout found, if any. Used when a walk was
// captured across multiple sessions.
func MergeExports(exports []*WalkExport) ([]CalibrationPoint, *Layout) {
	var samples []CalibrationPoint
	var layout *Layout
	for _, e := range exports {
		samples = append(samples, e.Samples...)
		if layout == nil && e.Layout != nil {
			layout = e.Layout
		}
	}
	return samples, layout
}
