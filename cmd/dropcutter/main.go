// SPDX-License-Identifier: Unlicense OR MIT

// Command dropcutter converts a binary STL mesh into G-code for 3-axis
// milling (spec §1).
package main

import (
	"flag"
	"fmt"
	"os"

	"dropcutter.dev/toolpath/pipeline"
	"dropcutter.dev/toolpath/tool"
)

var (
	input      = flag.String("input", "", "input STL file (required)")
	output     = flag.String("output", "", "output G-code file (required)")
	diameter   = flag.Float64("diameter", 0, "cutter diameter in mm (required)")
	toolShape  = flag.String("tool", "ball", "cutter shape: endmill, ball, or vbit")
	angle      = flag.Float64("angle", 0, "v-bit included angle in degrees, 1-180 (required for -tool=vbit)")
	stepover   = flag.Float64("stepover", 100, "stepover as a percent of diameter, 1-100")
	resolution = flag.Float64("resolution", 0.05, "grid sampling pitch in mm, 0.001-1.0")
	stepdown   = flag.Float64("stepdown", 0, "max depth per pass in mm (0 = full z-range, single pass)")
	heightmap  = flag.String("heightmap", "", "reuse a serialized height map if its shape matches (optional)")
	restmap    = flag.String("restmap", "", "reuse a serialized stock map if its shape matches (optional)")
	debug      = flag.Bool("debug", false, "write auxiliary artifacts: tool.xyz, pcl.xyz, layerN.xyz, heightmap.stl, height.map, rest.map")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s -input mesh.stl -output out.nc -diameter 6 [flags]\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(2)
	}
	flag.Parse()

	kind, err := parseToolKind(*toolShape)
	if err != nil {
		fmt.Fprintf(os.Stderr, "dropcutter: %v\n\n", err)
		flag.Usage()
	}

	cfg := pipeline.Config{
		Input:         *input,
		Output:        *output,
		Diameter:      float32(*diameter),
		Tool:          kind,
		Angle:         float32(*angle),
		StepoverPct:   float32(*stepover),
		Resolution:    float32(*resolution),
		Stepdown:      float32(*stepdown),
		HeightMapPath: *heightmap,
		RestMapPath:   *restmap,
		Debug:         *debug,
	}

	if err := pipeline.Run(cfg, pipeline.NewStderrProgress(os.Stderr)); err != nil {
		fmt.Fprintf(os.Stderr, "dropcutter: %v\n", err)
		os.Exit(1)
	}
}

func parseToolKind(s string) (tool.Kind, error) {
	switch s {
	case "endmill":
		return tool.Endmill, nil
	case "ball":
		return tool.Ball, nil
	case "vbit":
		return tool.Vbit, nil
	default:
		return 0, fmt.Errorf("invalid -tool %q: must be endmill, ball, or vbit", s)
	}
}
