package survey

import (
	"testing"
)

func TestNewSnapshot_ClampsSignal(t *testing.T) {
	snap, err := NewSnapshot([]CalibrationPoint{
		{ID: "a", Name: "Living Room", Floor: 1, Signal: 1.7},
		{ID: "b", Name: "Kitchen", Floor: 1, Signal: -0.2},
	})
	if err != nil {
		t.Fatalf("NewSnapshot: %v", err)
	}

	points := snap.Points()
	if points[0].Signal != 1.0 {
		t.Errorf("Signal = %g, want clamped to 1.0", points[0].Signal)
	}
	if points[1].Signal != 0.0 {
		t.Errorf("Signal = %g, want clamped to 0.0", points[1].Signal)
	}
}

func TestNewSnapshot_NormalizesHeading(t *testing.T) {
	snap, err := NewSnapshot([]CalibrationPoint{
		{ID: "a", Name: "Hall", Floor: 1, Signal: 0.5, Heading: -90},
		{ID: "b", Name: "Hall", Floor: 1, Signal: 0.5, Heading: 370},
	})
	if err != nil {
		t.Fatalf("NewSnapshot: %v", err)
	}

	points := snap.Points()
	if points[0].Heading != 270 {
		t.Errorf("Heading = %g, want 270", points[0].Heading)
	}
	if points[1].Heading != 10 {
		t.Errorf("Heading = %g, want 10", points[1].Heading)
	}
}

func TestNewSnapshot_RejectsBadFloor(t *testing.T) {
	_, err := NewSnapshot([]CalibrationPoint{
		{ID: "a", Name: "Basement", Floor: 0, Signal: 0.5},
	})
	if err == nil {
		t.Fatal("expected error for floor 0, got nil")
	}
}

func TestNewSnapshot_RejectsNegativeSteps(t *testing.T) {
	_, err := NewSnapshot([]CalibrationPoint{
		{ID: "a", Name: "Hall", Floor: 1, Signal: 0.5, StepCount: -3},
	})
	if err == nil {
		t.Fatal("expected error for negative stepCount, got nil")
	}
}

func TestNewSnapshot_RejectsMissingName(t *testing.T) {
	_, err := NewSnapshot([]CalibrationPoint{
		{ID: "a", Floor: 1, Signal: 0.5},
	})
	if err == nil {
		t.Fatal("expected error for empty name, got nil")
	}
}

func TestSnapshot_EmptyIsValid(t *testing.T) {
	snap, err := NewSnapshot(nil)
	if err != nil {
		t.Fatalf("NewSnapshot(nil): %v", err)
	}
	if snap.Len() != 0 {
		t.Errorf("Len = %d, want 0", snap.Len())
	}
	if floors := snap.Floors(); len(floors) != 0 {
		t.Errorf("Floors = %v, want empty", floors)
	}
}

func TestSnapshot_PointsAreCopies(t *testing.T) {
	pos := Point{X: 1, Y: 2}
	snap := MustSnapshot([]CalibrationPoint{
		{ID: "a", Name: "Office", Floor: 1, Signal: 0.5, Position: &pos},
	})

	// Mutating the original position must not affect the snapshot.
	pos.X = 99
	if got := snap.Points()[0].Position.X; got != 1 {
		t.Errorf("Position.X = %g after external mutation, want 1", got)
	}

	// Mutating a returned copy must not affect subsequent reads.
	snap.Points()[0].Position.X = 77
	if got := snap.Points()[0].Position.X; got != 1 {
		t.Errorf("Position.X = %g after copy mutation, want 1", got)
	}
}

func TestSnapshot_Floors(t *testing.T) {
	snap := MustSnapshot([]CalibrationPoint{
		{ID: "a", Name: "Attic", Floor: 3, Signal: 0.5},
		{ID: "b", Name: "Hall", Floor: 1, Signal: 0.5},
		{ID: "c", Name: "Landing", Floor: 3, Signal: 0.5},
	})

	floors := snap.Floors()
	if len(floors) != 2 || floors[0] != 1 || floors[1] != 3 {
		t.Errorf("Floors = %v, want [1 3]", floors)
	}
}
