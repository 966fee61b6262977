package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/kwv/wavescout/survey"
)

// AppOptions carries the parsed CLI flags.
type AppOptions struct {
	ConfigFile string
	DataDir    string
	LayoutFile string
	OutputDir  string
	Format     string // raster, vector, or both
	HTTPPort   int
	MqttMode   bool
	HTTPMode   bool
}

// App encapsulates the application state and dependencies.
type App struct {
	Options      AppOptions
	Config       *survey.Config
	Layout       *survey.Layout
	StateTracker *survey.StateTracker
	MQTTClient   *survey.MQTTClient
	Publisher    *survey.Publisher
}

// NewApp creates an App from CLI options, loading the config file when it
// exists and falling back to defaults when it doesn't.
func NewApp(opts AppOptions) *App {
	a := &App{Options: opts}

	config, err := survey.LoadConfig(opts.ConfigFile)
	if err != nil {
		log.Printf("Using default configuration: %v", err)
		config = &survey.Config{Engine: survey.DefaultEngineConfig()}
	}
	a.Config = config

	layoutPath := opts.LayoutFile
	if layoutPath == "" {
		layoutPath = config.LayoutFile
	}
	if layoutPath != "" {
		layout, err := survey.LoadLayout(layoutPath)
		if err != nil {
			log.Fatalf("Error loading layout: %v", err)
		}
		if layout == nil {
			log.Printf("Layout file %s not found; using heuristic room placement", layoutPath)
		}
		a.Layout = layout
	}

	return a
}

// loadExports reads all walk exports under the data dir and merges them
// into one snapshot plus any embedded layout.
func (a *App) loadExports() (*survey.Snapshot, *survey.Layout, error) {
	files, err := survey.FindWalkExports(a.Options.DataDir)
	if err != nil {
		return nil, nil, err
	}
	if len(files) == 0 {
		return nil, nil, fmt.Errorf("no WalkExport-*.json files found in %s", a.Options.DataDir)
	}

	var exports []*survey.WalkExport
	for _, file := range files {
		export, err := survey.ParseWalkFile(file)
		if err != nil {
			log.Printf("Skipping %s: %v", file, err)
			continue
		}
		log.Printf("Loaded %d samples from %s (device %s)",
			len(export.Samples), filepath.Base(file), survey.DeviceFromFilename(file))
		exports = append(exports, export)
	}
	if len(exports) == 0 {
		return nil, nil, fmt.Errorf("no parseable walk exports in %s", a.Options.DataDir)
	}

	samples, embedded := survey.MergeExports(exports)
	snap, err := survey.NewSnapshot(samples)
	if err != nil {
		return nil, nil, fmt.Errorf("validating samples: %w", err)
	}

	layout := a.Layout
	if layout == nil {
		layout = embedded
	}
	return snap, layout, nil
}

// RunAnalyze performs a one-shot analysis of the walk exports in the data
// dir and prints the results.
func (a *App) RunAnalyze() {
	snap, layout, err := a.loadExports()
	if err != nil {
		log.Fatalf("Error loading walk exports: %v", err)
	}

	result := survey.Analyze(snap, layout, a.Config.Engine)
	printResult(result)
}

// RunRender analyzes the walk exports and writes per-floor heatmap and/or
// floor plan images to the output dir.
func (a *App) RunRender() {
	snap, layout, err := a.loadExports()
	if err != nil {
		log.Fatalf("Error loading walk exports: %v", err)
	}

	result := survey.Analyze(snap, layout, a.Config.Engine)
	if len(result.Rooms) == 0 {
		log.Fatal("No rooms resolved; nothing to render")
	}

	outDir := a.Options.OutputDir
	if err := os.MkdirAll(outDir, 0755); err != nil {
		log.Fatalf("Error creating output dir: %v", err)
	}

	for _, floor := range result.Floors() {
		if a.Options.Format == "raster" || a.Options.Format == "both" {
			path := filepath.Join(outDir, fmt.Sprintf("heatmap-floor%d.png", floor))
			if err := writeHeatmap(result, floor, path); err != nil {
				log.Printf("Error rendering %s: %v", path, err)
			} else {
				fmt.Printf("Wrote %s\n", path)
			}
		}
		if a.Options.Format == "vector" || a.Options.Format == "both" {
			path := filepath.Join(outDir, fmt.Sprintf("floorplan-floor%d.svg", floor))
			if err := writeFloorPlan(result, floor, path); err != nil {
				log.Printf("Error rendering %s: %v", path, err)
			} else {
				fmt.Printf("Wrote %s\n", path)
			}
		}
	}

	printResult(result)
}

func writeHeatmap(result *survey.AnalysisResult, floor int, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return survey.NewHeatmapRenderer(result, floor).RenderPNG(f)
}

func writeFloorPlan(result *survey.AnalysisResult, floor int, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return survey.NewPlanRenderer(result, floor).RenderToSVG(f)
}

// RunService starts MQTT and/or HTTP service mode and blocks until SIGINT
// or SIGTERM.
func (a *App) RunService() {
	a.StateTracker = survey.NewStateTrackerWithCache(a.Config.Engine, ".walk-cache.json")
	if a.Layout != nil {
		a.StateTracker.SetLayout(a.Layout)
	}

	if a.Options.MqttMode {
		client, err := survey.InitMQTT(a.Config, a.onSample, a.onWalkComplete)
		if err != nil {
			log.Fatalf("Error initializing MQTT: %v", err)
		}
		a.MQTTClient = client
		if client != nil {
			a.Publisher = survey.NewPublisher(client.Client())
		}
	}

	if a.Options.HTTPMode {
		port := a.Options.HTTPPort
		if port == 0 {
			port = a.Config.HTTPPort
		}
		if port == 0 {
			port = 8080
		}

		server := &http.Server{
			Addr:         fmt.Sprintf(":%d", port),
			Handler:      newHTTPServer(a.StateTracker),
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		}
		go func() {
			log.Printf("[HTTP] Listening on :%d", port)
			if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Fatalf("HTTP server error: %v", err)
			}
		}()
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	log.Println("Shutting down...")

	if a.MQTTClient != nil {
		a.MQTTClient.Disconnect()
	}
}

func (a *App) onSample(device string, sample survey.CalibrationPoint, err error) {
	if err != nil {
		log.Printf("[MQTT] Bad sample from %s: %v", device, err)
		return
	}
	a.StateTracker.AddSample(device, sample)
}

func (a *App) onWalkComplete(device string) {
	result := a.StateTracker.CompleteWalk(device)
	if result == nil {
		return
	}
	log.Printf("Analysis complete: %d rooms, health %.2f (%s)",
		result.Coverage.TotalRooms, result.Health.Value, result.Health.Label)

	if a.Publisher != nil {
		if err := a.Publisher.PublishResult(result); err != nil {
			log.Printf("[MQTT] Could not publish result: %v", err)
		}
	}
}

// printResult writes a human-readable summary to stdout.
func printResult(result *survey.AnalysisResult) {
	fmt.Printf("\n=== Coverage ===\n")
	fmt.Printf("Rooms: %d  well covered: %d  weak: %d  mean signal: %.0f%%\n",
		result.Coverage.TotalRooms, result.Coverage.WellCoveredRooms,
		result.Coverage.WeakAreas, result.Coverage.CoveragePercentage*100)
	fmt.Printf("Health: %.2f (%s)\n", result.Health.Value, result.Health.Label)

	if result.Router != nil {
		fmt.Printf("\n=== Router ===\n")
		fmt.Printf("%s (floor %d, score %.2f)\n", result.Router.Room, result.Router.Floor, result.Router.Score)
		fmt.Printf("  %s\n", result.Router.Reasoning)
	}

	if len(result.Extenders) > 0 {
		fmt.Printf("\n=== Extenders ===\n")
		for _, e := range result.Extenders {
			fmt.Printf("%d. %s (floor %d): %s\n", e.Priority, e.TargetRoom, e.Floor, e.Reasoning)
		}
	}
	fmt.Println()
}
