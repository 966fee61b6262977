package survey

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStateTracker_AccumulateAndAnalyze(t *testing.T) {
	st := NewStateTracker(DefaultEngineConfig())
	assert.False(t, st.HasSamples())

	st.AddSample("tablet", walkSample("Living Room", 1, 1, 1, 0.9))
	st.AddSample("tablet", walkSample("Bedroom", 1, 1, 5, 0.3))
	require.True(t, st.HasSamples())

	result := st.Result()
	require.NotNil(t, result)
	assert.Equal(t, 2, result.Coverage.TotalRooms)
	assert.Equal(t, 1, result.Coverage.WeakAreas)
}

func TestStateTracker_DropsInvalidSamples(t *testing.T) {
	st := NewStateTracker(DefaultEngineConfig())
	st.AddSample("tablet", CalibrationPoint{Name: "Void", Floor: 0, Signal: 0.5})
	assert.False(t, st.HasSamples(), "a sample with floor 0 must be dropped")
}

func TestStateTracker_ResultCachedUntilNewSample(t *testing.T) {
	st := NewStateTracker(DefaultEngineConfig())
	st.AddSample("tablet", walkSample("Living Room", 1, 1, 1, 0.9))

	first := st.Result()
	assert.Same(t, first, st.Result(), "unchanged tracker returns the cached result")

	st.AddSample("tablet", walkSample("Bedroom", 1, 1, 5, 0.3))
	second := st.Result()
	assert.NotSame(t, first, second)
	assert.Equal(t, 2, second.Coverage.TotalRooms)
}

func TestStateTracker_DeviceOrderIndependent(t *testing.T) {
	a := NewStateTracker(DefaultEngineConfig())
	a.AddSample("alpha", walkSample("Living Room", 1, 1, 1, 0.9))
	a.AddSample("beta", walkSample("Bedroom", 1, 1, 5, 0.3))

	b := NewStateTracker(DefaultEngineConfig())
	b.AddSample("beta", walkSample("Bedroom", 1, 1, 5, 0.3))
	b.AddSample("alpha", walkSample("Living Room", 1, 1, 1, 0.9))

	assert.Equal(t, a.Result().Rooms, b.Result().Rooms)
	assert.Equal(t, a.Result().Coverage, b.Result().Coverage)
}

func TestStateTracker_SetLayoutInvalidates(t *testing.T) {
	st := NewStateTracker(DefaultEngineConfig())
	st.AddSample("tablet", CalibrationPoint{Name: "Study", Floor: 1, Signal: 0.6})

	heuristic := st.Result().Rooms[0]
	assert.False(t, heuristic.ExplicitLayout)

	st.SetLayout(&Layout{Rooms: []LayoutRoom{{
		Name: "Study", Floor: 1, Position: Point{X: 7, Y: 2}, Size: Point{X: 3, Y: 3},
	}}})

	placed := st.Result().Rooms[0]
	assert.True(t, placed.ExplicitLayout)
	assert.Equal(t, Point{X: 7, Y: 2}, placed.Position)
}

func TestStateTracker_Statuses(t *testing.T) {
	st := NewStateTracker(DefaultEngineConfig())
	st.AddSample("tablet", walkSample("Living Room", 1, 1, 1, 0.9))
	st.AddSample("tablet", walkSample("Kitchen", 1, 5, 1, 0.6))
	st.CompleteWalk("tablet")

	statuses := st.Statuses()
	require.Len(t, statuses, 1)
	assert.Equal(t, "tablet", statuses[0].Device)
	assert.Equal(t, 2, statuses[0].SampleCount)
	assert.True(t, statuses[0].Completed)
	assert.False(t, statuses[0].LastSample.IsZero())
}

func TestStateTracker_ResetDevice(t *testing.T) {
	st := NewStateTracker(DefaultEngineConfig())
	st.AddSample("tablet", walkSample("Living Room", 1, 1, 1, 0.9))
	st.ResetDevice("tablet")

	assert.False(t, st.HasSamples())
	assert.Empty(t, st.Statuses())
	assert.Equal(t, 0, st.Result().Coverage.TotalRooms)
}

func TestStateTracker_CachePersistsAcrossRestart(t *testing.T) {
	cachePath := filepath.Join(t.TempDir(), ".walk-cache.json")

	st := NewStateTrackerWithCache(DefaultEngineConfig(), cachePath)
	st.AddSample("tablet", walkSample("Living Room", 1, 1, 1, 0.9))
	st.AddSample("tablet", walkSample("Bedroom", 1, 1, 5, 0.3))
	result := st.CompleteWalk("tablet")
	require.NotNil(t, result)
	require.FileExists(t, cachePath)

	restarted := NewStateTrackerWithCache(DefaultEngineConfig(), cachePath)
	require.True(t, restarted.HasSamples(), "restart must reload the persisted walk")

	reloaded := restarted.Result()
	assert.Equal(t, result.Rooms, reloaded.Rooms)
	assert.Equal(t, result.Coverage, reloaded.Coverage)

	statuses := restarted.Statuses()
	require.Len(t, statuses, 1)
	assert.True(t, statuses[0].Completed)
}

func TestStateTracker_MissingCacheIsFine(t *testing.T) {
	st := NewStateTrackerWithCache(DefaultEngineConfig(), filepath.Join(t.TempDir(), "absent.json"))
	assert.False(t, st.HasSamples())
}
