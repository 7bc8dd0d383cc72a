package quadedge

import (
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
)

/* Quad Edge data structure from section 4.1 of

   Primitives for the Manipulation of General Subdivisions and the Computation of Voronoi Diagrams
   Leonidas Guibas and Jorge Stolfi
   ACM Transactions on Graphics, Vol. 4, No. 2, April 1985, Pages 74-123.

   Edge records live in flat arenas and are addressed by integer handles, so a
   relinked mesh never holds a dangling reference.
*/

type (
	VertexID int32
	FaceID   int32
)

// NoFace marks the hole on the far side of a boundary edge.
const NoFace FaceID = -1

// Edge is a directed edge handle: quad<<2 | rot.
// Even rotations are primal (vertex to vertex), odd rotations are dual (face to face).
type Edge int32

// NoEdge is the zero value for "no edge".
const NoEdge Edge = -1

var (
	// ErrInvalidTopology is returned for input that is not an oriented
	// 2-manifold made of polygons.
	ErrInvalidTopology = errors.New("invalid input topology")
	// ErrDegenerateFlip is returned when flipping an edge would produce a
	// degenerate or non-manifold result.
	ErrDegenerateFlip = errors.New("degenerate flip rejected")
)

// Primitive algebraic operations
func (e Edge) Rot() Edge {
	return e&^3 | (e+1)&3
}

// Derived algebraic operations
func (e Edge) InvRot() Edge {
	return e&^3 | (e+3)&3
}

func (e Edge) Sym() Edge {
	return e ^ 2
}

// Canonical returns the rot 0 edge of e's quad.
func (e Edge) Canonical() Edge {
	return e &^ 3
}

// Quad returns the index of the quad record holding e.
func (e Edge) Quad() int {
	return int(e >> 2)
}

// IsPrimal reports whether e connects vertices rather than faces.
func (e Edge) IsPrimal() bool {
	return e&1 == 0
}

type vertex struct {
	pos r3.Vector
}

type face struct {
	edge Edge // any edge with this face on its left
}

// Mesh is a quad-edge subdivision of an oriented surface. Faces on the far side
// of boundary edges are not stored; they read as NoFace.
type Mesh struct {
	next     []Edge  // Onext, four entries per quad
	data     []int32 // Org: vertex id on primal edges, face id on dual edges
	vertices []vertex
	faces    []face
}

func (m *Mesh) Onext(e Edge) Edge {
	return m.next[e]
}

func (m *Mesh) Oprev(e Edge) Edge {
	return m.Onext(e.Rot()).Rot()
}

func (m *Mesh) Dnext(e Edge) Edge {
	return m.Onext(e.Sym()).Sym()
}

func (m *Mesh) Dprev(e Edge) Edge {
	return m.Onext(e.InvRot()).InvRot()
}

func (m *Mesh) Lnext(e Edge) Edge {
	return m.Onext(e.InvRot()).Rot()
}

func (m *Mesh) Lprev(e Edge) Edge {
	return m.Onext(e).Sym()
}

func (m *Mesh) Rnext(e Edge) Edge {
	return m.Onext(e.Rot()).InvRot()
}

func (m *Mesh) Rprev(e Edge) Edge {
	return m.Onext(e.Sym())
}

// Getters for the data attached to a primal edge.
func (m *Mesh) Org(e Edge) VertexID {
	return VertexID(m.data[e])
}

func (m *Mesh) Dest(e Edge) VertexID {
	return VertexID(m.data[e.Sym()])
}

func (m *Mesh) Left(e Edge) FaceID {
	return FaceID(m.data[e.InvRot()])
}

func (m *Mesh) Right(e Edge) FaceID {
	return FaceID(m.data[e.Rot()])
}

func (m *Mesh) setOrg(e Edge, v VertexID) {
	m.data[e] = int32(v)
}

func (m *Mesh) setDest(e Edge, v VertexID) {
	m.data[e.Sym()] = int32(v)
}

// setLeft makes f the left face of every edge in e's left ring.
func (m *Mesh) setLeft(e Edge, f FaceID) {
	e1 := e
	for {
		m.data[e1.InvRot()] = int32(f)
		e1 = m.Lnext(e1)
		if e1 == e {
			break
		}
	}
	if f != NoFace {
		m.faces[f].edge = e
	}
}

// Basic topological operators, p. 96
func (m *Mesh) makeEdge() Edge {
	e := Edge(len(m.next))
	m.next = append(m.next, e, e+3, e+2, e+1)
	m.data = append(m.data, 0, int32(NoFace), 0, int32(NoFace))
	return e
}

func (m *Mesh) splice(a, b Edge) {
	alpha := m.Onext(a).Rot()
	beta := m.Onext(b).Rot()
	m.next[a], m.next[b] = m.Onext(b), m.Onext(a)
	m.next[alpha], m.next[beta] = m.Onext(beta), m.Onext(alpha)
}

func (m *Mesh) NumVertices() int {
	return len(m.vertices)
}

func (m *Mesh) NumFaces() int {
	return len(m.faces)
}

// NumEdges returns the number of undirected primal edges.
func (m *Mesh) NumEdges() int {
	return len(m.next) / 4
}

func (m *Mesh) Position(v VertexID) r3.Vector {
	return m.vertices[v].pos
}

// FaceEdge returns an edge that has f on its left.
func (m *Mesh) FaceEdge(f FaceID) Edge {
	return m.faces[f].edge
}
