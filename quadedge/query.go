package quadedge

import (
	"fmt"
	"math"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
)

// Edges returns the canonical handle of every undirected primal edge.
func (m *Mesh) Edges() []Edge {
	edges := make([]Edge, m.NumEdges())
	for q := range edges {
		edges[q] = Edge(q << 2)
	}
	return edges
}

// IncidentFaces returns the number of faces bordering e: 1 on the boundary,
// 2 in the interior.
func (m *Mesh) IncidentFaces(e Edge) int {
	n := 0
	if m.Left(e) != NoFace {
		n++
	}
	if m.Right(e) != NoFace {
		n++
	}
	return n
}

func (m *Mesh) IsInterior(e Edge) bool {
	return m.IncidentFaces(e) == 2
}

func (m *Mesh) IsBoundary(e Edge) bool {
	return m.IncidentFaces(e) == 1
}

func (m *Mesh) InteriorEdges() []Edge {
	var edges []Edge
	for _, e := range m.Edges() {
		if m.IsInterior(e) {
			edges = append(edges, e)
		}
	}
	return edges
}

func (m *Mesh) BoundaryEdges() []Edge {
	var edges []Edge
	for _, e := range m.Edges() {
		if m.IsBoundary(e) {
			edges = append(edges, e)
		}
	}
	return edges
}

// FaceSize returns the number of sides of f, or 0 for NoFace.
func (m *Mesh) FaceSize(f FaceID) int {
	if f == NoFace {
		return 0
	}
	e0 := m.faces[f].edge
	n := 0
	for e := e0; ; {
		n++
		if e = m.Lnext(e); e == e0 || n > len(m.next) {
			break
		}
	}
	return n
}

// FaceVertices returns the vertices of f in counter-clockwise order.
func (m *Mesh) FaceVertices(f FaceID) []VertexID {
	e0 := m.faces[f].edge
	var vs []VertexID
	for e := e0; ; {
		vs = append(vs, m.Org(e))
		if e = m.Lnext(e); e == e0 || len(vs) > len(m.next) {
			break
		}
	}
	return vs
}

// Apexes returns the vertices opposite e in the triangles on its left and right.
func (m *Mesh) Apexes(e Edge) (left, right VertexID, err error) {
	if !m.IsInterior(e) || m.FaceSize(m.Left(e)) != 3 || m.FaceSize(m.Right(e)) != 3 {
		return 0, 0, errors.Wrapf(ErrInvalidTopology, "edge %s does not separate two triangles", m.EdgeString(e))
	}
	return m.Dest(m.Lnext(e)), m.Dest(m.Lnext(e.Sym())), nil
}

// Polygons returns the vertex loop of every face, indexed by face id.
func (m *Mesh) Polygons() [][]VertexID {
	polys := make([][]VertexID, len(m.faces))
	for f := range m.faces {
		polys[f] = m.FaceVertices(FaceID(f))
	}
	return polys
}

// Triangles returns every face as a vertex triple, indexed by face id.
func (m *Mesh) Triangles() ([][3]VertexID, error) {
	tris := make([][3]VertexID, len(m.faces))
	for f := range m.faces {
		vs := m.FaceVertices(FaceID(f))
		if len(vs) != 3 {
			return nil, errors.Wrapf(ErrInvalidTopology, "face %d has %d vertices", f, len(vs))
		}
		copy(tris[f][:], vs)
	}
	return tris, nil
}

func (m *Mesh) Positions() []r3.Vector {
	ps := make([]r3.Vector, len(m.vertices))
	for i, v := range m.vertices {
		ps[i] = v.pos
	}
	return ps
}

// Clone returns a deep copy of m. Edge, vertex and face handles are valid in
// both meshes.
func (m *Mesh) Clone() *Mesh {
	return &Mesh{
		next:     append([]Edge(nil), m.next...),
		data:     append([]int32(nil), m.data...),
		vertices: append([]vertex(nil), m.vertices...),
		faces:    append([]face(nil), m.faces...),
	}
}

func (m *Mesh) BoundingBox() (small, big r3.Vector) {
	if len(m.vertices) == 0 {
		return
	}
	small = r3.Vector{X: math.Inf(1), Y: math.Inf(1), Z: math.Inf(1)}
	big = r3.Vector{X: math.Inf(-1), Y: math.Inf(-1), Z: math.Inf(-1)}
	for _, v := range m.vertices {
		small.X, big.X = math.Min(small.X, v.pos.X), math.Max(big.X, v.pos.X)
		small.Y, big.Y = math.Min(small.Y, v.pos.Y), math.Max(big.Y, v.pos.Y)
		small.Z, big.Z = math.Min(small.Z, v.pos.Z), math.Max(big.Z, v.pos.Z)
	}
	return
}

// EdgeString formats a primal edge as "org->dest".
func (m *Mesh) EdgeString(e Edge) string {
	return fmt.Sprintf("%d->%d", m.Org(e), m.Dest(e))
}
