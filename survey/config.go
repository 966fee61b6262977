package survey

// EngineConfig holds every tunable of the analysis engine. Distances are in
// meters, signals in [0, 1]. Zero values are replaced by the documented
// defaults; see DefaultEngineConfig.
type EngineConfig struct {
	WeakThreshold   float64 `yaml:"weakThreshold" json:"weakThreshold"`     // rooms below are weak areas (default 0.4)
	StrongThreshold float64 `yaml:"strongThreshold" json:"strongThreshold"` // rooms at/above are well covered (default 0.7)

	FloorHeight float64 `yaml:"floorHeight" json:"floorHeight"` // vertical offset per floor (default 3.0)
	FloorExtent float64 `yaml:"floorExtent" json:"floorExtent"` // side of the heuristic placement square (default 10.0)

	// Kernel radius = KernelBaseRadius + KernelRadiusScale * signal, so a
	// stronger sample reaches further. The kernel is flat out to
	// KernelPlateau*radius and decays linearly to zero at KernelFalloff*radius.
	KernelBaseRadius  float64 `yaml:"kernelBaseRadius" json:"kernelBaseRadius"`   // default 2.0
	KernelRadiusScale float64 `yaml:"kernelRadiusScale" json:"kernelRadiusScale"` // default 4.0
	KernelPlateau     float64 `yaml:"kernelPlateau" json:"kernelPlateau"`         // default 0.4
	KernelFalloff     float64 `yaml:"kernelFalloff" json:"kernelFalloff"`         // default 0.7

	AdjacencySameFloor  float64 `yaml:"adjacencySameFloor" json:"adjacencySameFloor"`   // threshold A (default 6.0)
	AdjacencyCrossFloor float64 `yaml:"adjacencyCrossFloor" json:"adjacencyCrossFloor"` // threshold B (default 3.0)

	MaxExtenders     int     `yaml:"maxExtenders" json:"maxExtenders"`         // cap on recommendations (default 3)
	ExtenderStrength float64 `yaml:"extenderStrength" json:"extenderStrength"` // assumed extender signal (default 0.8)

	// Router score weights. Centrality and breadth dominate the measured
	// signal: the measured value reflects the existing, differently placed
	// source, not the candidate transmitter.
	RouterSignalWeight     float64 `yaml:"routerSignalWeight" json:"routerSignalWeight"`         // default 0.2
	RouterCentralityWeight float64 `yaml:"routerCentralityWeight" json:"routerCentralityWeight"` // default 0.4
	RouterBreadthWeight    float64 `yaml:"routerBreadthWeight" json:"routerBreadthWeight"`       // default 0.4
}

// DefaultEngineConfig returns the documented defaults for all tunables.
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		WeakThreshold:          0.4,
		StrongThreshold:        0.7,
		FloorHeight:            3.0,
		FloorExtent:            10.0,
		KernelBaseRadius:       2.0,
		KernelRadiusScale:      4.0,
		KernelPlateau:          0.4,
		KernelFalloff:          0.7,
		AdjacencySameFloor:     6.0,
		AdjacencyCrossFloor:    3.0,
		MaxExtenders:           3,
		ExtenderStrength:       0.8,
		RouterSignalWeight:     0.2,
		RouterCentralityWeight: 0.4,
		RouterBreadthWeight:    0.4,
	}
}

// withDefaults fills zero-valued fields with the defaults, so a partially
// specified YAML config behaves predictably.
func (c EngineConfig) withDefaults() EngineConfig {
	def := DefaultEngineConfig()
	if c.WeakThreshold == 0 {
		c.WeakThreshold = def.WeakThreshold
	}
	if c.StrongThreshold == 0 {
		c.StrongThreshold = def.StrongThreshold
	}
	if c.FloorHeight == 0 {
		c.FloorHeight = def.FloorHeight
	}
	if c.FloorExtent == 0 {
		c.FloorExtent = def.FloorExtent
	}
	if c.KernelBaseRadius == 0 {
		c.KernelBaseRadius = def.KernelBaseRadius
	}
	if c.KernelRadiusScale == 0 {
		c.KernelRadiusScale = def.KernelRadiusScale
	}
	if c.KernelPlateau == 0 {
		c.KernelPlateau = def.KernelPlateau
	}
	if c.KernelFalloff == 0 {
		c.KernelFalloff = def.KernelFalloff
	}
	if c.AdjacencySameFloor == 0 {
		c.AdjacencySameFloor = def.AdjacencySameFloor
	}
	if c.AdjacencyCrossFloor == 0 {
		c.AdjacencyCrossFloor = def.AdjacencyCrossFloor
	}
	if c.MaxExtenders == 0 {
		c.MaxExtenders = def.MaxExtenders
	}
	if c.ExtenderStrength == 0 {
		c.ExtenderStrength = def.ExtenderStrength
	}
	if c.RouterSignalWeight == 0 && c.RouterCentralityWeight == 0 && c.RouterBreadthWeight == 0 {
		c.RouterSignalWeight = def.RouterSignalWeight
		c.RouterCentralityWeight = def.RouterCentralityWeight
		c.RouterBreadthWeight = def.RouterBreadthWeight
	}
	return c
}

// MQTTConfig holds MQTT connection settings for the live acquisition feed.
type MQTTConfig struct {
	Broker        string `yaml:"broker" json:"broker"`
	PublishPrefix string `yaml:"publishPrefix" json:"publishPrefix"`
	ClientID      string `yaml:"clientId" json:"clientId"`
	Username      string `yaml:"username,omitempty" json:"username,omitempty"`
	Password      string `yaml:"password,omitempty" json:"password,omitempty"`
}

// Config represents the full configuration file.
type Config struct {
	MQTT       MQTTConfig   `yaml:"mqtt,omitempty" json:"mqtt,omitempty"`
	Engine     EngineConfig `yaml:"engine,omitempty" json:"engine,omitempty"`
	LayoutFile string       `yaml:"layoutFile,omitempty" json:"layoutFile,omitempty"` // optional explicit layout YAML
	HTTPPort   int          `yaml:"httpPort,omitempty" json:"httpPort,omitempty"`
}
