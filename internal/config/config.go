// Package config handles posetool configuration loading and management.
package config

// Config holds all posetool settings.
type Config struct {
	Brush       BrushConfig       `yaml:"brush"`
	Symmetry    SymmetryConfig    `yaml:"symmetry"`
	Performance PerformanceConfig `yaml:"performance"`
	Logging     LoggingConfig     `yaml:"logging"`
}

// BrushConfig holds the pose brush settings. Enumerations are stored by name.
type BrushConfig struct {
	Origin                  string       `yaml:"origin"` // topology, face_sets, face_sets_fk
	Deform                  string       `yaml:"deform"` // rotate_twist, scale_translate, squash_stretch
	Segments                int          `yaml:"segments"`
	Offset                  float32      `yaml:"offset"`
	SmoothIterations        int          `yaml:"smooth_iterations"`
	Anchored                bool         `yaml:"anchored"`
	LockRotation            bool         `yaml:"lock_rotation"`
	Target                  string       `yaml:"target"` // geometry, cloth_sim
	ConnectedOnly           bool         `yaml:"connected_only"`
	DisconnectedDistanceMax float32      `yaml:"disconnected_distance_max"`
	Curve                   string       `yaml:"curve"`
	CurvePoints             [][2]float32 `yaml:"curve_points,omitempty"` // custom curve only
	Strength                float32      `yaml:"strength"`
	Radius                  float32      `yaml:"radius"`
	AutomaskFaceSets        bool         `yaml:"automask_face_sets"`
	AutomaskTopology        bool         `yaml:"automask_topology"`
}

// AxesConfig enables a setting per axis.
type AxesConfig struct {
	X bool `yaml:"x"`
	Y bool `yaml:"y"`
	Z bool `yaml:"z"`
}

// SymmetryConfig holds mirror settings.
type SymmetryConfig struct {
	X             bool       `yaml:"x"`
	Y             bool       `yaml:"y"`
	Z             bool       `yaml:"z"`
	Clip          AxesConfig `yaml:"clip"`
	ClipTolerance float32    `yaml:"clip_tolerance"`
	Lock          AxesConfig `yaml:"lock"`
}

// PerformanceConfig holds parallelism settings.
type PerformanceConfig struct {
	Workers  int `yaml:"workers"`   // 0 uses GOMAXPROCS
	LeafSize int `yaml:"leaf_size"` // vertices per partition leaf
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Brush: BrushConfig{
			Origin:                  "topology",
			Deform:                  "rotate_twist",
			Segments:                1,
			SmoothIterations:        4,
			Target:                  "geometry",
			DisconnectedDistanceMax: 0.1,
			Curve:                   "smooth",
			Strength:                1,
			Radius:                  0.5,
		},
		Symmetry: SymmetryConfig{
			ClipTolerance: 0.001,
		},
		Performance: PerformanceConfig{
			Workers:  0,
			LeafSize: 128,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
