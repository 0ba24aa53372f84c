// SPDX-License-Identifier: Unlicense OR MIT

package pipeline

import (
	"fmt"
	"os"

	"dropcutter.dev/toolpath/geo"
	"dropcutter.dev/toolpath/grid"
	"dropcutter.dev/toolpath/heightmap"
	"dropcutter.dev/toolpath/offset"
	"dropcutter.dev/toolpath/stlio"
	"dropcutter.dev/toolpath/stock"
	"dropcutter.dev/toolpath/tool"
)

// writeDebugSetup emits the --debug artifacts that depend only on the
// height map and tool, computed once before the rest-milling loop starts
// (spec §6: tool.xyz, pcl.xyz, heightmap.stl, height.map).
func writeDebugSetup(t tool.Tool, h heightmap.HeightMap, g grid.Grid) error {
	if err := writeXYZFile("tool.xyz", t.XYZPoints()); err != nil {
		return err
	}

	pts := make([]geo.Point3, 0, h.Segments*h.Rows)
	for i := 0; i < h.Segments; i++ {
		for j := 0; j < h.Rows; j++ {
			pts = append(pts, h.Point(g, i, j))
		}
	}
	if err := writeXYZFile("pcl.xyz", pts); err != nil {
		return err
	}

	if err := writeFile("heightmap.stl", func(f *os.File) error {
		return stlio.EncodeHeightMapSTL(f, h.Segments, h.Rows, func(i, j int) geo.Point3 {
			return h.Point(g, i, j)
		})
	}); err != nil {
		return err
	}

	return writeFile("height.map", func(f *os.File) error {
		return heightmap.Save(f, h)
	})
}

// writeDebugRestMap emits the final stock map as a --debug artifact (spec
// §6: rest.map), once the rest-milling loop has converged.
func writeDebugRestMap(s stock.StockMap) error {
	return writeFile("rest.map", func(f *os.File) error {
		return stock.Save(f, s)
	})
}

func writeDebugLayer(i int, g grid.Grid, layer offset.Layer) error {
	var pts []geo.Point3
	for ci := 0; ci < layer.NumCols; ci++ {
		for ri := 0; ri < layer.NumRows; ri++ {
			z := layer.At(ci, ri)
			if z != z {
				continue
			}
			p := g.Point(layer.Column(ci), layer.Row(ri))
			p.Z = z
			pts = append(pts, p)
		}
	}
	return writeXYZFile(fmt.Sprintf("layer%d.xyz", i), pts)
}

func writeXYZFile(name string, pts []geo.Point3) error {
	return writeFile(name, func(f *os.File) error {
		return stlio.WriteXYZ(f, pts)
	})
}

func writeFile(name string, encode func(f *os.File) error) error {
	f, err := os.Create(name)
	if err != nil {
		return fmt.Errorf("pipeline: debug artifact: %w", err)
	}
	defer f.Close()
	if err := encode(f); err != nil {
		return fmt.Errorf("pipeline: debug artifact %s: %w", name, err)
	}
	return nil
}
