package main

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/kwv/wavescout/survey"
)

// newHTTPServer creates an HTTP server with all endpoints.
func newHTTPServer(tracker *survey.StateTracker) http.Handler {
	mux := http.NewServeMux()

	// Health check endpoint
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		status := struct {
			Status     string    `json:"status"`
			Timestamp  time.Time `json:"timestamp"`
			HasSamples bool      `json:"hasSamples"`
		}{
			Status:     "ok",
			Timestamp:  time.Now(),
			HasSamples: tracker.HasSamples(),
		}
		if err := json.NewEncoder(w).Encode(status); err != nil {
			log.Printf("Error encoding health status: %v", err)
		}
	})

	// Full analysis result
	mux.HandleFunc("/api/analysis", func(w http.ResponseWriter, r *http.Request) {
		result := tracker.Result()
		writeJSON(w, result)
	})

	// Coverage statistics only
	mux.HandleFunc("/api/coverage", func(w http.ResponseWriter, r *http.Request) {
		result := tracker.Result()
		writeJSON(w, result.Coverage)
	})

	// Per-device walk progress
	mux.HandleFunc("/api/walks", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, tracker.Statuses())
	})

	// GeoJSON overlay for one floor: /api/geojson?floor=1
	mux.HandleFunc("/api/geojson", func(w http.ResponseWriter, r *http.Request) {
		floor, ok := floorParam(w, r)
		if !ok {
			return
		}
		result := tracker.Result()

		fc := survey.ResultToFeatureCollection(result, floor)
		if grid, ok := result.Heatmap(floor, 80); ok {
			contours := survey.ExtractContours(grid, survey.DefaultContourLevels(result.Config()))
			for _, f := range survey.ContoursToFeatureCollection(contours, floor).Features {
				fc.AddFeature(f)
			}
		}
		writeJSON(w, fc)
	})

	// Rendered images carry the floor in the filename (/heatmap-1.png,
	// /floorplan-1.svg), so they dispatch from the root handler.
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasPrefix(r.URL.Path, "/heatmap-"):
			serveHeatmap(w, r, tracker)
		case strings.HasPrefix(r.URL.Path, "/floorplan-"):
			serveFloorPlan(w, r, tracker)
		default:
			http.NotFound(w, r)
		}
	})

	return mux
}

func serveHeatmap(w http.ResponseWriter, r *http.Request, tracker *survey.StateTracker) {
	floor, ok := floorFromPath(r.URL.Path, "/heatmap-", ".png")
	if !ok {
		http.Error(w, "Bad heatmap path, expected /heatmap-<floor>.png", http.StatusBadRequest)
		return
	}
	result := tracker.Result()
	if result == nil || len(result.Rooms) == 0 {
		http.Error(w, "No samples available", http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	if err := survey.NewHeatmapRenderer(result, floor).RenderPNG(w); err != nil {
		log.Printf("Error rendering heatmap for floor %d: %v", floor, err)
		http.Error(w, err.Error(), http.StatusNotFound)
	}
}

func serveFloorPlan(w http.ResponseWriter, r *http.Request, tracker *survey.StateTracker) {
	floor, ok := floorFromPath(r.URL.Path, "/floorplan-", ".svg")
	if !ok {
		http.Error(w, "Bad floor plan path, expected /floorplan-<floor>.svg", http.StatusBadRequest)
		return
	}
	result := tracker.Result()
	if result == nil || len(result.Rooms) == 0 {
		http.Error(w, "No samples available", http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "image/svg+xml")
	if err := survey.NewPlanRenderer(result, floor).RenderToSVG(w); err != nil {
		log.Printf("Error rendering floor plan for floor %d: %v", floor, err)
		http.Error(w, err.Error(), http.StatusNotFound)
	}
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Error encoding JSON response: %v", err)
	}
}

func floorParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := r.URL.Query().Get("floor")
	if raw == "" {
		return 1, true
	}
	floor, err := strconv.Atoi(raw)
	if err != nil || floor < 1 {
		http.Error(w, "floor must be a positive integer", http.StatusBadRequest)
		return 0, false
	}
	return floor, true
}

func floorFromPath(path, prefix, suffix string) (int, bool) {
	raw := strings.TrimSuffix(strings.TrimPrefix(path, prefix), suffix)
	floor, err := strconv.Atoi(raw)
	if err != nil || floor < 1 {
		return 0, false
	}
	return floor, true
}
