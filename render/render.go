// Package render draws the XY projection of a mesh as SVG, PNG or PDF.
// Interior edges are dashed, boundary edges solid.
package render

import (
	"image"
	"image/color"
	"io"
	"math"

	svg "github.com/ajstarks/svgo/float"
	"github.com/llgcode/draw2d"
	"github.com/llgcode/draw2d/draw2dimg"
	"github.com/llgcode/draw2d/draw2dkit"
	"github.com/llgcode/draw2d/draw2dpdf"

	"github.com/tjim/conform/quadedge"
)

type Options struct {
	Width, Height float64 // document size; mm for PDF, pixels otherwise
	Margin        float64
	Border        bool
	Vertices      bool
}

var DefaultOptions = Options{Width: 1100, Height: 850, Margin: 25, Border: true}

var (
	interiorStyle = "stroke:#000;stroke-width:1;stroke-dasharray:4"
	boundaryStyle = "stroke:#000;stroke-width:1"
	vertexStyle   = "fill:#00f;stroke:none"
)

// viewport maps mesh coordinates into the document, Y up.
type viewport struct {
	scale, ox, oy float64
	left, bottom  float64
}

func newViewport(m *quadedge.Mesh, opt *Options) viewport {
	small, big := m.BoundingBox()
	width := big.X - small.X
	height := big.Y - small.Y
	scale := 1.0
	switch {
	case width > 0 && height > 0:
		scale = math.Min((opt.Width-2*opt.Margin)/width, (opt.Height-2*opt.Margin)/height)
	case width > 0:
		scale = (opt.Width - 2*opt.Margin) / width
	case height > 0:
		scale = (opt.Height - 2*opt.Margin) / height
	}
	return viewport{scale: scale, ox: small.X, oy: small.Y, left: opt.Margin, bottom: opt.Height - opt.Margin}
}

func (v viewport) point(m *quadedge.Mesh, id quadedge.VertexID) (x, y float64) {
	p := m.Position(id)
	return v.left + (p.X-v.ox)*v.scale, v.bottom - (p.Y-v.oy)*v.scale
}

// SVG writes m to w. A nil opt uses DefaultOptions.
func SVG(w io.Writer, m *quadedge.Mesh, opt *Options) {
	if opt == nil {
		opt = &DefaultOptions
	}
	v := newViewport(m, opt)
	s := svg.New(w)
	s.Start(opt.Width, opt.Height)
	if opt.Border {
		s.Rect(0, 0, opt.Width, opt.Height, "stroke:black; fill:none")
	}
	for _, e := range m.Edges() {
		x1, y1 := v.point(m, m.Org(e))
		x2, y2 := v.point(m, m.Dest(e))
		if m.IsInterior(e) {
			s.Line(x1, y1, x2, y2, interiorStyle)
		} else {
			s.Line(x1, y1, x2, y2, boundaryStyle)
		}
	}
	if opt.Vertices {
		for id := 0; id < m.NumVertices(); id++ {
			x, y := v.point(m, quadedge.VertexID(id))
			s.Circle(x, y, 3, vertexStyle)
		}
	}
	s.End()
}

// PNG writes m to the named file. A nil opt uses DefaultOptions.
func PNG(path string, m *quadedge.Mesh, opt *Options) error {
	if opt == nil {
		opt = &DefaultOptions
	}
	dest := image.NewRGBA(image.Rect(0, 0, int(opt.Width), int(opt.Height)))
	gc := draw2dimg.NewGraphicContext(dest)
	gc.SetFillColor(color.White)
	draw2dkit.Rectangle(gc, 0, 0, opt.Width, opt.Height)
	gc.Fill()
	draw(gc, m, opt)
	return draw2dimg.SaveToPngFile(path, dest)
}

// PDF writes m to the named file on a landscape A4 page.
func PDF(path string, m *quadedge.Mesh) error {
	opt := &Options{Width: 297, Height: 210, Margin: 10}
	dest := draw2dpdf.NewPdf("L", "mm", "A4")
	gc := draw2dpdf.NewGraphicContext(dest)
	draw(gc, m, opt)
	return draw2dpdf.SaveToPdfFile(path, dest)
}

func draw(gc draw2d.GraphicContext, m *quadedge.Mesh, opt *Options) {
	v := newViewport(m, opt)
	black := color.RGBA{0x00, 0x00, 0x00, 0xff}
	gc.SetStrokeColor(black)
	gc.SetLineWidth(math.Max(0.1, opt.Width/1000))
	if opt.Border {
		draw2dkit.Rectangle(gc, 0, 0, opt.Width, opt.Height)
		gc.Stroke()
	}
	for _, e := range m.Edges() {
		if m.IsInterior(e) {
			gc.SetLineDash([]float64{4, 4}, 0)
		} else {
			gc.SetLineDash(nil, 0)
		}
		x1, y1 := v.point(m, m.Org(e))
		x2, y2 := v.point(m, m.Dest(e))
		gc.MoveTo(x1, y1)
		gc.LineTo(x2, y2)
		gc.Stroke()
	}
	if opt.Vertices {
		gc.SetFillColor(color.RGBA{0x00, 0x00, 0xff, 0xff})
		for id := 0; id < m.NumVertices(); id++ {
			x, y := v.point(m, quadedge.VertexID(id))
			draw2dkit.Circle(gc, x, y, 3*opt.Width/1100)
			gc.Fill()
		}
	}
}
