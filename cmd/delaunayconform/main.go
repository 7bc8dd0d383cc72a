// Command delaunayconform flips the edges of a triangulated VTK surface until
// every interior edge is locally Delaunay.
package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/tjim/conform/delaunay"
	"github.com/tjim/conform/meshio"
	"github.com/tjim/conform/render"
)

var (
	in      = flag.String("in", "", "input VTK polydata file")
	out     = flag.String("out", "", "output VTK polydata file")
	svgFile = flag.String("svg", "", "also draw the result as SVG to this file")
	pngFile = flag.String("png", "", "also draw the result as PNG to this file")
	pdfFile = flag.String("pdf", "", "also draw the result as PDF to this file")
	order   = flag.String("order", "fifo", "edge evaluation order: fifo or worst")
	verbose = flag.Bool("v", false, "log every flip")
)

func main() {
	flag.Parse()
	if *in == "" || *out == "" {
		fmt.Fprintln(os.Stderr, "usage: delaunayconform -in input.vtk -out output.vtk")
		flag.PrintDefaults()
		os.Exit(2)
	}

	var log *zap.Logger
	var err error
	if *verbose {
		log, err = zap.NewDevelopment()
	} else {
		log, err = zap.NewProduction()
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer log.Sync()

	o, err := delaunay.ParseOrder(*order)
	if err != nil {
		log.Fatal("bad -order", zap.Error(err))
	}

	mesh, err := meshio.ReadVTKFile(*in)
	if err != nil {
		log.Fatal("reading input", zap.String("file", *in), zap.Error(err))
	}

	filter := delaunay.NewFilter(delaunay.WithOrder(o), delaunay.WithLogger(log))
	if _, err := filter.Run(mesh); err != nil {
		log.Fatal("delaunay conforming", zap.String("file", *in), zap.Error(err))
	}

	if err := meshio.WriteVTKFile(*out, mesh, "delaunay conforming mesh"); err != nil {
		log.Fatal("writing output", zap.String("file", *out), zap.Error(err))
	}
	if *svgFile != "" {
		f, err := os.Create(*svgFile)
		if err != nil {
			log.Fatal("creating svg", zap.Error(err))
		}
		render.SVG(f, mesh, nil)
		if err := f.Close(); err != nil {
			log.Fatal("writing svg", zap.Error(err))
		}
	}
	if *pngFile != "" {
		if err := render.PNG(*pngFile, mesh, nil); err != nil {
			log.Fatal("writing png", zap.Error(err))
		}
	}
	if *pdfFile != "" {
		if err := render.PDF(*pdfFile, mesh); err != nil {
			log.Fatal("writing pdf", zap.Error(err))
		}
	}

	fmt.Println("Input:", *in)
	fmt.Println("Output:", *out)
	fmt.Println("Number of Edge flipped performed:", filter.NumberOfEdgeFlips())
}
