package main

import (
	"flag"
	"fmt"
)

// Version is set at build time via -ldflags
var Version = "dev"

var (
	configFile = flag.String("config", "config.yaml", "Path to configuration file")
	dataDir    = flag.String("data-dir", ".", "Directory containing WalkExport-*.json files")
	layoutFile = flag.String("layout", "", "Path to explicit room layout YAML (overrides config)")
	analyze    = flag.Bool("analyze", false, "Analyze walk exports and print recommendations")
	render     = flag.Bool("render", false, "Render heatmaps/floor plans from walk exports and exit")
	outputDir  = flag.String("output-dir", ".", "Output directory for --render mode")
	format     = flag.String("format", "raster", "Render format: raster, vector, or both")
	mqttMode   = flag.Bool("mqtt", false, "Run MQTT service mode for live walk ingestion")
	httpMode   = flag.Bool("http", false, "Enable HTTP server for analysis and heatmap endpoints")
	httpPort   = flag.Int("http-port", 8080, "HTTP server port")
)

func main() {
	flag.Parse()
	fmt.Printf("wavescout version: %s\n", Version)

	opts := AppOptions{
		ConfigFile: *configFile,
		DataDir:    *dataDir,
		LayoutFile: *layoutFile,
		OutputDir:  *outputDir,
		Format:     *format,
		HTTPPort:   *httpPort,
		MqttMode:   *mqttMode,
		HTTPMode:   *httpMode,
	}
	app := NewApp(opts)

	switch {
	case *analyze:
		app.RunAnalyze()
	case *render:
		app.RunRender()
	case *mqttMode || *httpMode:
		app.RunService()
	default:
		fmt.Println("Use --analyze to analyze walk exports and print recommendations")
		fmt.Println("Use --render to write per-floor heatmaps and floor plans")
		fmt.Println("Use --mqtt to ingest live walk samples over MQTT")
		fmt.Println("Use --http to serve analysis results and heatmaps over HTTP")
		fmt.Println("Use --mqtt --http to run both together")
		fmt.Println("\nConfiguration:")
		fmt.Println("  config.yaml - engine tunables, MQTT settings, layout path")
		fmt.Println("  .walk-cache.json - accumulated samples (service mode)")
	}
}
