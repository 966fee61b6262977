package survey

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfig_FillsDefaults(t *testing.T) {
	path := writeTempFile(t, "config.yaml", `
mqtt:
  broker: tcp://localhost:1883
  publishPrefix: home/wifi
engine:
  maxExtenders: 5
httpPort: 9090
`)

	config, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if config.MQTT.Broker != "tcp://localhost:1883" {
		t.Errorf("Broker = %q", config.MQTT.Broker)
	}
	if config.HTTPPort != 9090 {
		t.Errorf("HTTPPort = %d, want 9090", config.HTTPPort)
	}
	if config.Engine.MaxExtenders != 5 {
		t.Errorf("MaxExtenders = %d, want the explicit 5", config.Engine.MaxExtenders)
	}
	// Unset tunables pick up the documented defaults.
	if config.Engine.WeakThreshold != 0.4 || config.Engine.KernelBaseRadius != 2.0 {
		t.Errorf("defaults not filled: %+v", config.Engine)
	}
}

func TestLoadConfig_Missing(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil || !strings.Contains(err.Error(), "not found") {
		t.Errorf("err = %v, want a not-found error", err)
	}
}

func TestLoadConfig_RejectsBadThresholds(t *testing.T) {
	path := writeTempFile(t, "config.yaml", `
engine:
  weakThreshold: 0.8
  strongThreshold: 0.5
`)
	_, err := LoadConfig(path)
	if err == nil || !strings.Contains(err.Error(), "weakThreshold") {
		t.Errorf("err = %v, want a threshold ordering error", err)
	}
}

func TestLoadConfig_RejectsBadKernelShape(t *testing.T) {
	path := writeTempFile(t, "config.yaml", `
engine:
  kernelPlateau: 0.9
  kernelFalloff: 0.5
`)
	_, err := LoadConfig(path)
	if err == nil || !strings.Contains(err.Error(), "kernel") {
		t.Errorf("err = %v, want a kernel shape error", err)
	}
}

func TestSaveConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	original := &Config{
		MQTT:     MQTTConfig{Broker: "tcp://broker:1883", PublishPrefix: "wavescout"},
		Engine:   DefaultEngineConfig(),
		HTTPPort: 8080,
	}
	if err := SaveConfig(path, original); err != nil {
		t.Fatal(err)
	}

	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if *loaded != *original {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", loaded, original)
	}
}

func TestLoadLayout(t *testing.T) {
	path := writeTempFile(t, "layout.yaml", `
rooms:
  - roomId: lr-1
    name: Living Room
    floor: 1
    position: {x: 2, y: 3}
    size: {x: 4, y: 5}
`)

	layout, err := LoadLayout(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(layout.Rooms) != 1 {
		t.Fatalf("len(Rooms) = %d, want 1", len(layout.Rooms))
	}
	r := layout.Rooms[0]
	if r.RoomID != "lr-1" || r.Floor != 1 || r.Position != (Point{X: 2, Y: 3}) {
		t.Errorf("room = %+v", r)
	}
}

func TestLoadLayout_MissingIsNotAnError(t *testing.T) {
	layout, err := LoadLayout(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("err = %v, want nil for a missing layout", err)
	}
	if layout != nil {
		t.Errorf("layout = %+v, want nil", layout)
	}
}

func TestLoadLayout_RequiresNameAndFloor(t *testing.T) {
	path := writeTempFile(t, "layout.yaml", `
rooms:
  - name: ""
    floor: 1
`)
	if _, err := LoadLayout(path); err == nil {
		t.Error("expected an error for a nameless layout room")
	}

	path = writeTempFile(t, "layout2.yaml", `
rooms:
  - name: Basement
    floor: 0
`)
	if _, err := LoadLayout(path); err == nil {
		t.Error("expected an error for floor 0")
	}
}
