package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"gopkg.in/yaml.v3"

	"github.com/OCharnyshevich/voxel-world/internal/storage"
	"github.com/OCharnyshevich/voxel-world/pkg/world/block"
	"github.com/OCharnyshevich/voxel-world/pkg/world/gen"
	"github.com/OCharnyshevich/voxel-world/pkg/world/noise"
	"github.com/OCharnyshevich/voxel-world/pkg/world/visibility"
)

// Storage backends.
const (
	BackendRegion  = storage.BackendRegion
	BackendLevelDB = storage.BackendLevelDB
)

// Noise algorithms.
const (
	NoisePerlin      = "perlin"
	NoiseOpenSimplex = "opensimplex"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid config")

// Config holds the world generator configuration.
type Config struct {
	Seed    int64         `json:"seed" yaml:"seed"`
	Noise   NoiseConfig   `json:"noise" yaml:"noise"`
	Terrain TerrainConfig `json:"terrain" yaml:"terrain"`
	World   WorldConfig   `json:"world" yaml:"world"`
	Camera  CameraConfig  `json:"camera" yaml:"camera"`
	Storage StorageConfig `json:"storage" yaml:"storage"`
	Log     LogConfig     `json:"log" yaml:"log"`
}

// NoiseConfig shapes the shared height field. Only the perlin field tiles.
type NoiseConfig struct {
	Algorithm string  `json:"algorithm" yaml:"algorithm"`
	Size      int     `json:"size" yaml:"size"`
	Frequency float32 `json:"frequency" yaml:"frequency"`
	Octaves   int     `json:"octaves" yaml:"octaves"`
}

// TerrainConfig controls block classification and decoration. A zero
// SandBand is derived from WaterLevel.
type TerrainConfig struct {
	WaterLevel       int    `json:"water_level" yaml:"water_level"`
	SandBand         [2]int `json:"sand_band" yaml:"sand_band"`
	StoneBand        [2]int `json:"stone_band" yaml:"stone_band"`
	MaxTreesPerChunk int    `json:"max_trees_per_chunk" yaml:"max_trees_per_chunk"`
	TreeAttempts     int    `json:"tree_attempts" yaml:"tree_attempts"`
}

// WorldConfig sets how much of the world is generated and how many workers
// share the work.
type WorldConfig struct {
	Radius  int `json:"radius" yaml:"radius"`
	Workers int `json:"workers" yaml:"workers"`
}

// CameraConfig is the viewpoint used for the visibility pass.
type CameraConfig struct {
	Eye         [3]float32 `json:"eye" yaml:"eye"`
	Forward     [3]float32 `json:"forward" yaml:"forward"`
	Right       [3]float32 `json:"right" yaml:"right"`
	FovYDegrees float32    `json:"fovy_degrees" yaml:"fovy_degrees"`
	Aspect      float32    `json:"aspect" yaml:"aspect"`
	ZNear       float32    `json:"znear" yaml:"znear"`
	ZFar        float32    `json:"zfar" yaml:"zfar"`
}

// StorageConfig selects where and how chunks are persisted. An empty Dir
// disables persistence.
type StorageConfig struct {
	Dir     string `json:"dir" yaml:"dir"`
	Backend string `json:"backend" yaml:"backend"`
	SaveAll bool   `json:"save_all" yaml:"save_all"`
}

// LogConfig sets the minimum log level: debug, info, warn or error.
type LogConfig struct {
	Level string `json:"level" yaml:"level"`
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	g := gen.DefaultConfig(1234)
	return &Config{
		Seed: g.Seed,
		Noise: NoiseConfig{
			Algorithm: NoisePerlin,
			Size:      512,
			Frequency: 1.0 / 64,
			Octaves:   4,
		},
		Terrain: TerrainConfig{
			WaterLevel:       g.WaterLevel,
			StoneBand:        block.StoneBand,
			MaxTreesPerChunk: g.MaxTreesPerChunk,
			TreeAttempts:     g.TreeAttempts,
		},
		World: WorldConfig{
			Radius:  4,
			Workers: 4,
		},
		Camera: CameraConfig{
			Eye:         [3]float32{8, 40, 8},
			Forward:     [3]float32{0, 0, -1},
			Right:       [3]float32{1, 0, 0},
			FovYDegrees: 45,
			Aspect:      16.0 / 9.0,
			ZNear:       0.1,
			ZFar:        100,
		},
		Storage: StorageConfig{
			Backend: BackendRegion,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads path over Default and validates the result. Files ending in
// .yaml or .yml are parsed as YAML, anything else as JSON.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := Default()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, cfg)
	default:
		err = json.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks ranges and cross-field constraints.
func (c *Config) Validate() error {
	switch c.Noise.Algorithm {
	case NoisePerlin, NoiseOpenSimplex:
	default:
		return invalid(fmt.Sprintf("noise.algorithm %q must be %q or %q", c.Noise.Algorithm, NoisePerlin, NoiseOpenSimplex))
	}
	if c.Noise.Size <= 0 {
		return invalid("noise.size must be positive")
	}
	if c.Noise.Frequency <= 0 {
		return invalid("noise.frequency must be positive")
	}
	if c.Noise.Octaves <= 0 {
		return invalid("noise.octaves must be positive")
	}
	if c.Terrain.WaterLevel < 0 {
		return invalid("terrain.water_level cannot be negative")
	}
	if c.Terrain.SandBand != [2]int{} && c.Terrain.SandBand[0] >= c.Terrain.SandBand[1] {
		return invalid("terrain.sand_band must be an increasing pair")
	}
	if c.Terrain.StoneBand[0] >= c.Terrain.StoneBand[1] {
		return invalid("terrain.stone_band must be an increasing pair")
	}
	if c.Terrain.MaxTreesPerChunk < 0 || c.Terrain.TreeAttempts < 0 {
		return invalid("terrain tree limits cannot be negative")
	}
	if c.World.Radius < 0 {
		return invalid("world.radius cannot be negative")
	}
	if c.World.Workers <= 0 {
		return invalid("world.workers must be positive")
	}
	if mgl32.Vec3(c.Camera.Forward).Len() == 0 || mgl32.Vec3(c.Camera.Right).Len() == 0 {
		return invalid("camera.forward and camera.right must be non-zero")
	}
	if c.Camera.FovYDegrees <= 0 || c.Camera.FovYDegrees >= 180 {
		return invalid("camera.fovy_degrees must be in (0, 180)")
	}
	if c.Camera.Aspect <= 0 {
		return invalid("camera.aspect must be positive")
	}
	if c.Camera.ZNear < 0 || c.Camera.ZFar <= c.Camera.ZNear {
		return invalid("camera.zfar must exceed camera.znear")
	}
	switch c.Storage.Backend {
	case BackendRegion, BackendLevelDB:
	default:
		return invalid(fmt.Sprintf("storage.backend %q must be %q or %q", c.Storage.Backend, BackendRegion, BackendLevelDB))
	}
	if _, err := c.SlogLevel(); err != nil {
		return invalid(fmt.Sprintf("log.level %q is not a level", c.Log.Level))
	}
	return nil
}

func invalid(msg string) error {
	return fmt.Errorf("%s: %w", msg, ErrInvalid)
}

// Merge applies file-loaded values into cfg, except for fields whose flags
// were set explicitly on the command line. Sections without a flag are
// always taken from the file.
func Merge(cfg *Config, fromFile *Config, explicitFlags map[string]bool) {
	if !explicitFlags["seed"] {
		cfg.Seed = fromFile.Seed
	}
	if !explicitFlags["radius"] {
		cfg.World.Radius = fromFile.World.Radius
	}
	if !explicitFlags["workers"] {
		cfg.World.Workers = fromFile.World.Workers
	}
	if !explicitFlags["water-level"] {
		cfg.Terrain.WaterLevel = fromFile.Terrain.WaterLevel
	}
	if !explicitFlags["storage-dir"] {
		cfg.Storage.Dir = fromFile.Storage.Dir
	}
	if !explicitFlags["backend"] {
		cfg.Storage.Backend = fromFile.Storage.Backend
	}
	if !explicitFlags["save-all"] {
		cfg.Storage.SaveAll = fromFile.Storage.SaveAll
	}
	if !explicitFlags["log-level"] {
		cfg.Log.Level = fromFile.Log.Level
	}

	cfg.Noise = fromFile.Noise
	waterLevel := cfg.Terrain.WaterLevel
	cfg.Terrain = fromFile.Terrain
	cfg.Terrain.WaterLevel = waterLevel
	cfg.Camera = fromFile.Camera
}

// NoiseField builds the height field described by the noise section.
func (c *Config) NoiseField() *noise.Data {
	n := c.Noise
	if n.Algorithm == NoiseOpenSimplex {
		return noise.CreateSimplexNoiseData(c.Seed, n.Size, n.Size, n.Frequency, n.Octaves)
	}
	return noise.CreateNoiseData(noise.NewPermutation(c.Seed), n.Size, n.Size, n.Frequency, n.Octaves)
}

// GenConfig converts the terrain section into generator settings.
func (c *Config) GenConfig() gen.Config {
	strata := block.DefaultStrata(c.Terrain.WaterLevel)
	if c.Terrain.SandBand != [2]int{} {
		strata.Sand = c.Terrain.SandBand
	}
	strata.Stone = c.Terrain.StoneBand

	return gen.Config{
		Seed:             c.Seed,
		WaterLevel:       c.Terrain.WaterLevel,
		Strata:           strata,
		MaxTreesPerChunk: c.Terrain.MaxTreesPerChunk,
		TreeAttempts:     c.Terrain.TreeAttempts,
	}
}

// ViewCamera converts the camera section into culling parameters.
func (c *Config) ViewCamera() visibility.Camera {
	return visibility.Camera{
		Eye:     mgl32.Vec3(c.Camera.Eye),
		Forward: mgl32.Vec3(c.Camera.Forward),
		Right:   mgl32.Vec3(c.Camera.Right),
		FovY:    mgl32.DegToRad(c.Camera.FovYDegrees),
		Aspect:  c.Camera.Aspect,
		ZNear:   c.Camera.ZNear,
		ZFar:    c.Camera.ZFar,
	}
}

// SlogLevel parses the log level.
func (c *Config) SlogLevel() (slog.Level, error) {
	var l slog.Level
	err := l.UnmarshalText([]byte(c.Log.Level))
	return l, err
}
