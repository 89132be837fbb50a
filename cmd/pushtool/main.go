// pushtool is a CLI utility for generating, inspecting and clipping
// terrain tile meshes against a push region.
package main

import (
	"flag"
	"fmt"
	"math"
	"os"

	"go.uber.org/zap"

	"github.com/mapfault/terrapush/internal/config"
	"github.com/mapfault/terrapush/internal/logger"
	"github.com/mapfault/terrapush/internal/meshfile"
	"github.com/mapfault/terrapush/pkg/geodetic"
	"github.com/mapfault/terrapush/pkg/tile"
)

func main() {
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	// flag.Parse stops at the first positional argument, so global
	// flags come before the subcommand.
	args := flag.Args()
	if len(args) < 1 {
		printUsage()
		os.Exit(1)
	}

	command := args[0]
	args = args[1:]

	switch command {
	case "gen":
		cmdGen(cfg, args)
	case "info":
		cmdInfo(args)
	case "clip":
		cmdClip(cfg, args)
	case "planes":
		cmdPlanes(cfg, args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`pushtool - terrain tile push region utility

Usage:
  pushtool [flags] <command> [arguments]

Commands:
  gen <west,south,east,north> <out.tpmf>  Generate a grid tile over degree bounds
  info <tile.tpmf>                        Show tile mesh information
  clip <in.tpmf> <out.tpmf>               Slice a tile along the region boundaries
  planes <tile.tpmf>                      Show the slicing planes for a tile

Flags:
  -config <path>      Config file
  -region <w,s,e,n>   Push region bounds in degrees
  -geojson <path>     GeoJSON file bounding the push region
  -outer              Bounds describe the outer blend rectangle
  -divisions <n>      Grid divisions for gen
  -debug              Debug logging
  -logfile <path>     Log to a rotating file

Examples:
  pushtool gen 100,30,101,31 tile.tpmf
  pushtool -region 100.3,30.3,100.7,30.7 clip tile.tpmf clipped.tpmf
  pushtool -geojson site.geojson planes tile.tpmf`)
}

func cmdGen(cfg *config.Config, args []string) {
	if len(args) < 2 {
		fmt.Fprintln(os.Stderr, "Usage: pushtool gen <west,south,east,north> <out.tpmf>")
		os.Exit(1)
	}

	bounds, err := config.ParseBounds(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid bounds: %v\n", err)
		os.Exit(1)
	}
	rect := geodetic.RectangleFromDegrees(bounds[0], bounds[1], bounds[2], bounds[3])
	if !rect.IsValid() {
		fmt.Fprintln(os.Stderr, "Invalid bounds: east must exceed west and north must exceed south")
		os.Exit(1)
	}

	var height tile.HeightFunc
	if cfg.Gen.Amplitude != 0 {
		amp := cfg.Gen.Amplitude
		height = func(u, v float64) float64 {
			return amp * math.Sin(math.Pi*u) * math.Sin(math.Pi*v)
		}
	}

	m := tile.GridMesh(rect, cfg.Gen.Divisions, height, geodetic.WGS84)
	if err := meshfile.WriteFile(args[1], m); err != nil {
		logger.Error("failed to write tile", zap.Error(err))
		os.Exit(1)
	}

	logger.Info("generated tile",
		zap.String("path", args[1]),
		zap.String("rectangle", rect.String()),
		zap.Int("vertices", m.VertexCount()),
		zap.Int("triangles", m.TriangleCount()))
}

func cmdInfo(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: pushtool info <tile.tpmf>")
		os.Exit(1)
	}

	m, err := meshfile.ReadFile(args[0])
	if err != nil {
		logger.Error("failed to read tile", zap.Error(err))
		os.Exit(1)
	}

	var min, max float32
	if m.VertexCount() > 0 {
		min, max = m.Vertex(0)[tile.OffsetHeight], m.Vertex(0)[tile.OffsetHeight]
		for i := 1; i < m.VertexCount(); i++ {
			h := m.Vertex(i)[tile.OffsetHeight]
			if h < min {
				min = h
			}
			if h > max {
				max = h
			}
		}
	}

	fmt.Printf("Tile:       %s\n", args[0])
	fmt.Printf("Rectangle:  %s degrees\n", m.Rectangle.String())
	fmt.Printf("Center:     (%.2f, %.2f, %.2f)\n", m.Center.X, m.Center.Y, m.Center.Z)
	fmt.Printf("Vertices:   %d\n", m.VertexCount())
	fmt.Printf("Triangles:  %d\n", m.TriangleCount())
	fmt.Printf("Indices:    %d-bit\n", m.Indices.Bits())
	fmt.Printf("Heights:    %.2f to %.2f m\n", min, max)
}

func cmdClip(cfg *config.Config, args []string) {
	if len(args) < 2 {
		fmt.Fprintln(os.Stderr, "Usage: pushtool clip <in.tpmf> <out.tpmf>")
		os.Exit(1)
	}

	region, err := cfg.Region.Region()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Region error: %v\n", err)
		os.Exit(1)
	}

	m, err := meshfile.ReadFile(args[0])
	if err != nil {
		logger.Error("failed to read tile", zap.Error(err))
		os.Exit(1)
	}

	out, err := region.Apply(m, geodetic.WGS84)
	if err != nil {
		logger.Error("failed to clip tile", zap.Error(err))
		os.Exit(1)
	}

	if err := meshfile.WriteFile(args[1], out); err != nil {
		logger.Error("failed to write tile", zap.Error(err))
		os.Exit(1)
	}

	logger.Info("clipped tile",
		zap.String("in", args[0]),
		zap.String("out", args[1]),
		zap.Bool("changed", out != m),
		zap.Int("triangles_before", m.TriangleCount()),
		zap.Int("triangles_after", out.TriangleCount()),
		zap.Int("vertices_before", m.VertexCount()),
		zap.Int("vertices_after", out.VertexCount()))
}

func cmdPlanes(cfg *config.Config, args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: pushtool planes <tile.tpmf>")
		os.Exit(1)
	}

	region, err := cfg.Region.Region()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Region error: %v\n", err)
		os.Exit(1)
	}

	m, err := meshfile.ReadFile(args[0])
	if err != nil {
		logger.Error("failed to read tile", zap.Error(err))
		os.Exit(1)
	}

	names := []string{
		"inner west", "inner east", "inner north", "inner south",
		"outer west", "outer east", "outer north", "outer south",
	}
	planes := region.Boundaries().SlicingPlanes(m.Rectangle)

	fmt.Printf("Tile:   %s degrees\n", m.Rectangle.String())
	fmt.Println()
	for i, p := range planes {
		axis := "u"
		if p.Normal.Y != 0 {
			axis = "v"
		}
		crosses := " "
		if p.CrossesTile() {
			crosses = "x"
		}
		fmt.Printf("  [%s] %-12s %s = %+.6f\n", crosses, names[i], axis, -p.Distance)
	}
}
