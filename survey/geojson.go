package survey

import "encoding/json"

// GeometryType represents the GeoJSON geometry type
type GeometryType string

const (
	GeometryPoint           GeometryType = "Point"
	GeometryLineString      GeometryType = "LineString"
	GeometryPolygon         GeometryType = "Polygon"
	GeometryMultiLineString GeometryType = "MultiLineString"
)

// Geometry represents a GeoJSON geometry object
type Geometry struct {
	Type        GeometryType    `json:"type"`
	Coordinates json.RawMessage `json:"coordinates"`
}

// Feature represents a GeoJSON feature with geometry and properties
type Feature struct {
	Type       string                 `json:"type"`
	Geometry   *Geometry              `json:"geometry"`
	Properties map[string]interface{} `json:"properties"`
	ID         interface{}            `json:"id,omitempty"`
}

// FeatureCollection represents a GeoJSON FeatureCollection
type FeatureCollection struct {
	Type     string     `json:"type"`
	Features []*Feature `json:"features"`
}

// NewFeatureCollection creates a new empty FeatureCollection
func NewFeatureCollection() *FeatureCollection {
	return &FeatureCollection{
		Type:     "FeatureCollection",
		Features: make([]*Feature, 0),
	}
}

// AddFeature appends a feature to the collection
func (fc *FeatureCollection) AddFeature(f *Feature) {
	fc.Features = append(fc.Features, f)
}

// NewFeature creates a Feature with the given geometry and properties
func NewFeature(geom *Geometry, props map[string]interface{}) *Feature {
	if props == nil {
		props = make(map[string]interface{})
	}
	return &Feature{
		Type:       "Feature",
		Geometry:   geom,
		Properties: props,
	}
}

// PointGeometry converts a survey Point to a GeoJSON Point geometry.
// Coordinates are in floor-plane meters (x, y).
func PointGeometry(p Point) *Geometry {
	coordsJSON, _ := json.Marshal([2]float64{p.X, p.Y})
	return &Geometry{
		Type:        GeometryPoint,
		Coordinates: coordsJSON,
	}
}

// LineGeometry converts a point path to a GeoJSON LineString geometry.
func LineGeometry(path []Point) *Geometry {
	coords := make([][2]float64, len(path))
	for i, p := range path {
		coords[i] = [2]float64{p.X, p.Y}
	}
	coordsJSON, _ := json.Marshal(coords)
	return &Geometry{
		Type:        GeometryLineString,
		Coordinates: coordsJSON,
	}
}

// RoomPolygon converts a room's center+size rectangle to a GeoJSON Polygon.
func RoomPolygon(r Room) *Geometry {
	hw := r.Size.X / 2
	hh := r.Size.Y / 2
	ring := [][2]float64{
		{r.Position.X - hw, r.Position.Y - hh},
		{r.Position.X + hw, r.Position.Y - hh},
		{r.Position.X + hw, r.Position.Y + hh},
		{r.Position.X - hw, r.Position.Y + hh},
		{r.Position.X - hw, r.Position.Y - hh},
	}
	coordsJSON, _ := json.Marshal([][][2]float64{ring})
	return &Geometry{
		Type:        GeometryPolygon,
		Coordinates: coordsJSON,
	}
}

// ResultToFeatureCollection exports an analysis result as GeoJSON for map
// overlays: room rectangles with signal properties, the router pick, and
// extender placements.
func ResultToFeatureCollection(result *AnalysisResult, floor int) *FeatureCollection {
	fc := NewFeatureCollection()
	if result == nil {
		return fc
	}

	for _, r := range RoomsOnFloor(result.Rooms, floor) {
		fc.AddFeature(NewFeature(RoomPolygon(r), map[string]interface{}{
			"kind":           "room",
			"name":           r.Name,
			"type":           string(r.Type),
			"signal":         r.Signal,
			"explicitLayout": r.ExplicitLayout,
		}))
	}

	if result.Router != nil && result.Router.Floor == floor {
		for _, r := range RoomsOnFloor(result.Rooms, floor) {
			if r.Name == result.Router.Room {
				fc.AddFeature(NewFeature(PointGeometry(r.Position), map[string]interface{}{
					"kind":      "router",
					"room":      result.Router.Room,
					"score":     result.Router.Score,
					"reasoning": result.Router.Reasoning,
				}))
				break
			}
		}
	}

	for _, e := range result.Extenders {
		if e.Floor != floor {
			continue
		}
		fc.AddFeature(NewFeature(PointGeometry(e.Position), map[string]interface{}{
			"kind":        "extender",
			"targetRoom":  e.TargetRoom,
			"improvement": e.SignalImprovement,
			"priority":    e.Priority,
		}))
	}

	return fc
}
