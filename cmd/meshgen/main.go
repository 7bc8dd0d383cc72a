// Command meshgen writes a generated surface as VTK polydata, for feeding
// delaunayconform.
package main

import (
	"flag"
	"math"
	"math/rand"

	"github.com/golang/geo/r3"
	"go.uber.org/zap"

	"github.com/tjim/conform/meshgen"
	"github.com/tjim/conform/meshio"
	"github.com/tjim/conform/quadedge"
)

var (
	kind   = flag.String("kind", "grid", "grid, ngon or ellipse")
	out    = flag.String("out", "mesh.vtk", "output file")
	n      = flag.Int("n", 16, "cells per side for grid, sides for ngon and ellipse")
	jitter = flag.Float64("jitter", 0.4, "grid point jitter, at most 0.5")
	aspect = flag.Float64("aspect", 0.3, "ellipse aspect ratio")
	bump   = flag.Float64("bump", 0, "height of a sinusoidal bump applied to grids")
	size   = flag.Float64("size", 1, "scale factor applied to every coordinate")
	seed   = flag.Int64("seed", 1, "random seed")
)

func main() {
	flag.Parse()
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()
	log := logger.Sugar()

	var pts []r3.Vector
	var cells [][]int
	switch *kind {
	case "grid":
		pts, cells = meshgen.Grid(*n, *n, *jitter, rand.New(rand.NewSource(*seed)))
		if *bump != 0 {
			pts = meshgen.Lift(pts, func(x, y float64) float64 {
				return *bump * math.Sin(x) * math.Cos(y)
			})
		}
	case "ngon":
		pts, cells = meshgen.Ngon(*n, 1)
	case "ellipse":
		pts, cells = meshgen.Ellipse(*n, 1, *aspect)
	default:
		log.Fatalf("unknown kind %q", *kind)
	}

	if *size <= 0 {
		log.Fatalf("size must be positive, got %v", *size)
	}
	if *size != 1 {
		pts = meshgen.Scale(pts, r3.Vector{X: *size, Y: *size, Z: *size})
	}

	m, err := quadedge.NewMesh(pts, cells)
	if err != nil {
		log.Fatal(err)
	}
	if err := meshio.WriteVTKFile(*out, m, *kind); err != nil {
		log.Fatal(err)
	}
	log.Infow("wrote mesh", "file", *out, "kind", *kind, "points", m.NumVertices(), "triangles", m.NumFaces())
}
