// SPDX-License-Identifier: Unlicense OR MIT

package pipeline

import (
	"fmt"
	"os"

	"dropcutter.dev/toolpath/gcompute"
	"dropcutter.dev/toolpath/geo"
	"dropcutter.dev/toolpath/grid"
	"dropcutter.dev/toolpath/offset"
	"dropcutter.dev/toolpath/pathplan"
	"dropcutter.dev/toolpath/stlio"
	"dropcutter.dev/toolpath/tool"
)

// Run executes the full pipeline (spec §2's dataflow) against cfg,
// reporting stages and notices to progress. It returns an error
// describing the first failure (spec §7); on success the G-code file at
// cfg.Output has been written in full.
func Run(cfg Config, progress Progress) error {
	if err := Validate(cfg); err != nil {
		return err
	}
	if progress == nil {
		progress = noProgress{}
	}

	progress.Stage("decode")
	mesh, err := decodeMesh(cfg.Input)
	if err != nil {
		return err
	}

	progress.Stage("normalize")
	mesh.Normalize()

	progress.Stage("grid")
	g := grid.Derive(mesh.Bounds(), cfg.Resolution, cfg.Diameter, cfg.StepoverPct)

	dev, err := gcompute.NewDevice(false)
	if err != nil {
		return fmt.Errorf("pipeline: gpu device: %w", err)
	}
	defer dev.Release()
	progress.Stage(fmt.Sprintf("compute backend: %s", dev.Name()))

	progress.Stage("partition")
	if err := partitionStage(dev, &g, mesh); err != nil {
		return err
	}

	h, err := heightmapStage(dev, g, mesh, cfg, progress)
	if err != nil {
		return err
	}

	s, err := stockStage(g, cfg, progress)
	if err != nil {
		return err
	}

	t := tool.New(cfg.Tool, cfg.Diameter, g.Scale, cfg.Angle)

	if cfg.Debug {
		progress.Stage("debug: writing tool/height-map artifacts")
		if err := writeDebugSetup(t, h, g); err != nil {
			return err
		}
	}

	stepdown := cfg.Stepdown
	if stepdown == 0 {
		stepdown = g.Bounds.P2.Z - g.Bounds.P1.Z
		if stepdown <= 0 {
			stepdown = 1
		}
	}

	out, err := os.Create(cfg.Output)
	if err != nil {
		return fmt.Errorf("pipeline: create %s: %w", cfg.Output, err)
	}
	defer out.Close()

	gw, err := pathplan.NewWriter(out)
	if err != nil {
		return fmt.Errorf("pipeline: write header: %w", err)
	}

	progress.Stage("rest-milling loop")
	layerIdx := 0
	iterations, err := offset.Run(h, s, g, t, stepdown, cfg.StepoverPct, func(i int, layer offset.Layer) error {
		islands := pathplan.Islands(layer, g, cfg.Diameter)
		if cfg.Debug {
			if err := writeDebugLayer(i, g, layer); err != nil {
				return err
			}
		}
		layerIdx = i
		if len(islands) == 0 {
			return nil
		}
		return gw.EmitIslands(islands, cfg.Diameter)
	})
	if err != nil {
		return fmt.Errorf("pipeline: rest-milling loop (layer %d): %w", layerIdx, err)
	}
	if err := gw.Flush(); err != nil {
		return fmt.Errorf("pipeline: flush output: %w", err)
	}

	if err := saveStockMap(s, cfg, progress); err != nil {
		return err
	}
	if cfg.Debug {
		if err := writeDebugRestMap(s); err != nil {
			return err
		}
	}

	progress.Stage(fmt.Sprintf("done: %d layers", iterations))
	return nil
}

func decodeMesh(path string) (geo.Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return geo.Mesh{}, fmt.Errorf("pipeline: open %s: %w", path, err)
	}
	defer f.Close()
	mesh, err := stlio.Decode(f)
	if err != nil {
		return geo.Mesh{}, fmt.Errorf("pipeline: decode %s: %w", path, err)
	}
	return mesh, nil
}
