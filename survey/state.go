package survey

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"
)

// WalkStatus summarizes one device's in-progress or completed walk.
type WalkStatus struct {
	Device      string    `json:"device"`
	SampleCount int       `json:"sampleCount"`
	LastSample  time.Time `json:"lastSample"`
	Completed   bool      `json:"completed"`
}

// StateTracker accumulates calibration samples arriving from acquisition
// devices and caches the latest analysis result for the HTTP endpoints.
// The engine itself stays pure; the tracker owns all mutability and
// re-invocation timing.
type StateTracker struct {
	mu        sync.RWMutex
	samples   map[string][]CalibrationPoint // per device, walk order
	completed map[string]bool
	lastSeen  map[string]time.Time
	layout    *Layout
	result    *AnalysisResult
	cfg       EngineConfig
	cachePath string // path to .walk-cache.json; empty disables persistence
}

// NewStateTracker creates a tracker with the given engine configuration.
func NewStateTracker(cfg EngineConfig) *StateTracker {
	return &StateTracker{
		samples:   make(map[string][]CalibrationPoint),
		completed: make(map[string]bool),
		lastSeen:  make(map[string]time.Time),
		cfg:       cfg.withDefaults(),
	}
}

// NewStateTrackerWithCache creates a tracker that persists accumulated
// samples to the given cache file. If the file exists, its samples are
// loaded on creation so a daemon restart doesn't lose the walk.
func NewStateTrackerWithCache(cfg EngineConfig, cachePath string) *StateTracker {
	st := NewStateTracker(cfg)
	st.cachePath = cachePath
	if cachePath != "" {
		if err := st.loadCache(); err != nil {
			log.Printf("[State] Could not load walk cache: %v", err)
		}
	}
	return st
}

// SetLayout replaces the explicit layout and invalidates the cached result.
func (st *StateTracker) SetLayout(layout *Layout) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.layout = layout
	st.result = nil
}

// AddSample appends one sample from a device. Invalid samples are dropped
// with a log line rather than poisoning the accumulated walk.
func (st *StateTracker) AddSample(device string, p CalibrationPoint) {
	if _, err := NewSnapshot([]CalibrationPoint{p}); err != nil {
		log.Printf("[State] Dropping invalid sample from %s: %v", device, err)
		return
	}

	st.mu.Lock()
	defer st.mu.Unlock()
	st.samples[device] = append(st.samples[device], p)
	st.lastSeen[device] = time.Now()
	st.completed[device] = false
	st.result = nil
}

// CompleteWalk marks a device's walk finished, recomputes the analysis, and
// persists the cache. Returns the fresh result.
func (st *StateTracker) CompleteWalk(device string) *AnalysisResult {
	st.mu.Lock()
	st.completed[device] = true
	st.mu.Unlock()

	result := st.Recompute()

	if err := st.saveCache(); err != nil {
		log.Printf("[State] Could not persist walk cache: %v", err)
	}
	return result
}

// ResetDevice discards a device's accumulated samples.
func (st *StateTracker) ResetDevice(device string) {
	st.mu.Lock()
	defer st.mu.Unlock()
	delete(st.samples, device)
	delete(st.completed, device)
	delete(st.lastSeen, device)
	st.result = nil
}

// HasSamples reports whether any samples have been accumulated.
func (st *StateTracker) HasSamples() bool {
	st.mu.RLock()
	defer st.mu.RUnlock()
	for _, s := range st.samples {
		if len(s) > 0 {
			return true
		}
	}
	return false
}

// Statuses returns the per-device walk status.
func (st *StateTracker) Statuses() []WalkStatus {
	st.mu.RLock()
	defer st.mu.RUnlock()

	var out []WalkStatus
	for device, samples := range st.samples {
		out = append(out, WalkStatus{
			Device:      device,
			SampleCount: len(samples),
			LastSample:  st.lastSeen[device],
			Completed:   st.completed[device],
		})
	}
	return out
}

// snapshotLocked builds the combined snapshot across devices, in device name
// order so the result is independent of message arrival interleaving.
func (st *StateTracker) snapshotLocked() (*Snapshot, error) {
	var devices []string
	for device := range st.samples {
		devices = append(devices, device)
	}
	sort.Strings(devices)

	var all []CalibrationPoint
	for _, device := range devices {
		all = append(all, st.samples[device]...)
	}
	return NewSnapshot(all)
}

// Recompute runs the engine over the current accumulated samples and caches
// the result. Tracker-level validation means the snapshot should never fail;
// if it somehow does, the previous result is kept.
func (st *StateTracker) Recompute() *AnalysisResult {
	st.mu.Lock()
	defer st.mu.Unlock()

	snap, err := st.snapshotLocked()
	if err != nil {
		log.Printf("[State] Recompute skipped: %v", err)
		return st.result
	}

	st.result = Analyze(snap, st.layout, st.cfg)
	return st.result
}

// Result returns the cached analysis, recomputing it first when samples
// arrived since the last run.
func (st *StateTracker) Result() *AnalysisResult {
	st.mu.RLock()
	cached := st.result
	st.mu.RUnlock()

	if cached != nil {
		return cached
	}
	return st.Recompute()
}

// walkCache is the persisted tracker state.
type walkCache struct {
	Samples   map[string][]CalibrationPoint `json:"samples"`
	Completed map[string]bool               `json:"completed"`
	SavedAt   int64                         `json:"savedAt"`
}

func (st *StateTracker) saveCache() error {
	if st.cachePath == "" {
		return nil
	}

	st.mu.RLock()
	cache := walkCache{
		Samples:   st.samples,
		Completed: st.completed,
		SavedAt:   time.Now().Unix(),
	}
	data, err := json.MarshalIndent(cache, "", "  ")
	st.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("marshaling walk cache: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(st.cachePath), 0755); err != nil {
		return fmt.Errorf("creating cache directory: %w", err)
	}
	if err := os.WriteFile(st.cachePath, data, 0644); err != nil {
		return fmt.Errorf("writing walk cache: %w", err)
	}
	return nil
}

func (st *StateTracker) loadCache() error {
	data, err := os.ReadFile(st.cachePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading walk cache: %w", err)
	}

	var cache walkCache
	if err := json.Unmarshal(data, &cache); err != nil {
		return fmt.Errorf("parsing walk cache: %w", err)
	}

	st.mu.Lock()
	defer st.mu.Unlock()
	if cache.Samples != nil {
		st.samples = cache.Samples
	}
	if cache.Completed != nil {
		st.completed = cache.Completed
	}
	return nil
}
