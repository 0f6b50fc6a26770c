// Package worldcfg loads the tunable parameters of a rect2d.World from a
// YAML scene document, the way a level or scene file would be authored for
// this engine.
package worldcfg

import (
	"fmt"

	"github.com/hexfault/rect2d/vector2"
	"gopkg.in/yaml.v3"
)

// Config is the decoded, ready-to-use form of a world scene document.
type Config struct {
	Gravity        vector2.Vector2
	Substeps       int
	Workers        int
	SpatialGrid    SpatialGridConfig
	MaterialPreset map[string]float64
}

// SpatialGridConfig describes the broad-phase hash grid, or is zero-valued
// if the scene document omits it (callers fall back to brute-force
// BroadPhase in that case).
type SpatialGridConfig struct {
	Enabled  bool
	CellSize float64
	NumCells int
}

// sceneConfig mirrors the on-disk YAML layout. Field names are lowercase
// to match the way a scene author would hand-write the document.
type sceneConfig struct {
	Gravity struct {
		X float64 `yaml:"x"`
		Y float64 `yaml:"y"`
	} `yaml:"gravity"`
	Substeps    int `yaml:"substeps"`
	Workers     int `yaml:"workers"`
	SpatialGrid *struct {
		CellSize float64 `yaml:"cell_size"`
		NumCells int     `yaml:"num_cells"`
	} `yaml:"spatial_grid"`
	Materials map[string]float64 `yaml:"materials"` // name -> compliance
}

// Load parses a world scene document and returns its resolved Config.
func Load(data []byte) (*Config, error) {
	var scene sceneConfig
	if err := yaml.Unmarshal(data, &scene); err != nil {
		return nil, fmt.Errorf("worldcfg: yaml %w", err)
	}

	if scene.Substeps <= 0 {
		return nil, fmt.Errorf("worldcfg: substeps must be positive, got %d", scene.Substeps)
	}

	cfg := &Config{
		Gravity:        vector2.New(scene.Gravity.X, scene.Gravity.Y),
		Substeps:       scene.Substeps,
		Workers:        scene.Workers,
		MaterialPreset: scene.Materials,
	}

	if scene.SpatialGrid != nil {
		if scene.SpatialGrid.CellSize <= 0 {
			return nil, fmt.Errorf("worldcfg: spatial_grid.cell_size must be positive, got %f", scene.SpatialGrid.CellSize)
		}
		if scene.SpatialGrid.NumCells <= 0 {
			return nil, fmt.Errorf("worldcfg: spatial_grid.num_cells must be positive, got %d", scene.SpatialGrid.NumCells)
		}
		cfg.SpatialGrid = SpatialGridConfig{
			Enabled:  true,
			CellSize: scene.SpatialGrid.CellSize,
			NumCells: scene.SpatialGrid.NumCells,
		}
	}

	return cfg, nil
}
