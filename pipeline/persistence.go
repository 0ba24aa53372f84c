// SPDX-License-Identifier: Unlicense OR MIT

package pipeline

import (
	"fmt"
	"os"

	"dropcutter.dev/toolpath/gcompute"
	"dropcutter.dev/toolpath/geo"
	"dropcutter.dev/toolpath/grid"
	"dropcutter.dev/toolpath/heightmap"
	"dropcutter.dev/toolpath/partition"
	"dropcutter.dev/toolpath/stock"
)

func partitionStage(dev gcompute.Device, g *grid.Grid, mesh geo.Mesh) error {
	if err := partition.Run(dev, g, mesh); err != nil {
		return fmt.Errorf("pipeline: partition: %w", err)
	}
	return nil
}

// heightmapStage reuses cfg.HeightMapPath when its shape matches g, else
// recomputes and (if a path was supplied) persists the result (spec §4.8,
// §7 cache mismatch).
func heightmapStage(dev gcompute.Device, g grid.Grid, mesh geo.Mesh, cfg Config, progress Progress) (heightmap.HeightMap, error) {
	if cfg.HeightMapPath != "" {
		if f, err := os.Open(cfg.HeightMapPath); err == nil {
			h, matched, err := heightmap.Load(f, g.Segments, g.Rows)
			f.Close()
			if err != nil {
				return heightmap.HeightMap{}, fmt.Errorf("pipeline: load height map: %w", err)
			}
			if matched {
				progress.Stage("height map: reused from cache")
				return h, nil
			}
			progress.Notice("height map cache %s shape mismatch, recomputing", cfg.HeightMapPath)
		}
	}

	progress.Stage("height map: generating")
	h, err := heightmap.Generate(dev, g, mesh)
	if err != nil {
		return heightmap.HeightMap{}, fmt.Errorf("pipeline: generate height map: %w", err)
	}
	if cfg.HeightMapPath != "" {
		if f, err := os.Create(cfg.HeightMapPath); err == nil {
			if err := heightmap.Save(f, h); err != nil {
				f.Close()
				return heightmap.HeightMap{}, fmt.Errorf("pipeline: save height map: %w", err)
			}
			f.Close()
		}
	}
	return h, nil
}

// stockStage reuses cfg.RestMapPath when its shape matches g, else starts
// flat at z=0 (spec §4.8, §7 cache mismatch).
func stockStage(g grid.Grid, cfg Config, progress Progress) (stock.StockMap, error) {
	if cfg.RestMapPath != "" {
		if f, err := os.Open(cfg.RestMapPath); err == nil {
			s, matched, err := stock.Load(f, g.Segments, g.Rows)
			f.Close()
			if err != nil {
				return stock.StockMap{}, fmt.Errorf("pipeline: load stock map: %w", err)
			}
			if matched {
				progress.Stage("stock map: reused from cache")
				return s, nil
			}
			progress.Notice("stock map cache %s shape mismatch, recomputing", cfg.RestMapPath)
		}
	}
	return stock.New(g.Segments, g.Rows), nil
}

// saveStockMap persists s to cfg.RestMapPath once the rest-milling loop
// has converged, mirroring heightmapStage's cache save, so a later run's
// --restmap flag has a file to load (spec §4.8).
func saveStockMap(s stock.StockMap, cfg Config, progress Progress) error {
	if cfg.RestMapPath == "" {
		return nil
	}
	f, err := os.Create(cfg.RestMapPath)
	if err != nil {
		return fmt.Errorf("pipeline: save stock map: %w", err)
	}
	defer f.Close()
	if err := stock.Save(f, s); err != nil {
		return fmt.Errorf("pipeline: save stock map: %w", err)
	}
	progress.Stage(fmt.Sprintf("stock map: saved to %s", cfg.RestMapPath))
	return nil
}
