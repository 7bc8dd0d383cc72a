package quadedge

import (
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
)

// NewMesh builds a quad-edge mesh from a point list and polygonal cells given as
// counter-clockwise loops of point indices.
//
// Every undirected edge may be used at most once in each direction, so edges
// shared by more than two cells and cells with inconsistent orientation are
// rejected with ErrInvalidTopology.
func NewMesh(points []r3.Vector, cells [][]int) (*Mesh, error) {
	m := &Mesh{
		vertices: make([]vertex, len(points)),
		faces:    make([]face, 0, len(cells)),
	}
	for i, p := range points {
		m.vertices[i].pos = p
	}

	edges := make(map[[2]VertexID]Edge)
	assigned := make(map[Edge]bool)
	for ci, cell := range cells {
		n := len(cell)
		if n < 3 {
			return nil, errors.Wrapf(ErrInvalidTopology, "cell %d has %d vertices", ci, n)
		}
		for i, v := range cell {
			if v < 0 || v >= len(points) {
				return nil, errors.Wrapf(ErrInvalidTopology, "cell %d references point %d of %d", ci, v, len(points))
			}
			for _, w := range cell[:i] {
				if w == v {
					return nil, errors.Wrapf(ErrInvalidTopology, "cell %d repeats point %d", ci, v)
				}
			}
		}

		f := FaceID(len(m.faces))
		m.faces = append(m.faces, face{})
		ring := make([]Edge, n)
		for i := range cell {
			u, v := VertexID(cell[i]), VertexID(cell[(i+1)%n])
			k := [2]VertexID{u, v}
			if v < u {
				k = [2]VertexID{v, u}
			}
			e, ok := edges[k]
			if !ok {
				e = m.makeEdge()
				m.setOrg(e, u)
				m.setDest(e, v)
				edges[k] = e
			}
			if m.Org(e) != u {
				e = e.Sym()
			}
			if m.Left(e) != NoFace {
				return nil, errors.Wrapf(ErrInvalidTopology,
					"edge %d->%d of cell %d is already used by cell %d", u, v, ci, m.Left(e))
			}
			m.data[e.InvRot()] = int32(f)
			ring[i] = e
		}
		// Around the origin of ring[i], the next edge counter-clockwise runs back
		// along the previous side of the cell.
		for i, e := range ring {
			m.next[e] = ring[(i+n-1)%n].Sym()
			assigned[e] = true
		}
		m.faces[f].edge = ring[0]
	}

	if err := m.closeBoundaryRings(assigned); err != nil {
		return nil, err
	}
	m.linkDual()
	return m, nil
}

// closeBoundaryRings links the open fans around each boundary vertex into a
// single Onext ring. A fan starts at an outgoing edge with a hole on its right
// and ends at one with a hole on its left.
func (m *Mesh) closeBoundaryRings(assigned map[Edge]bool) error {
	starts := make([][]Edge, len(m.vertices))
	for q := 0; q < m.NumEdges(); q++ {
		e := Edge(q << 2)
		for _, h := range [2]Edge{e, e.Sym()} {
			if m.Left(h) == NoFace {
				starts[m.Dest(h)] = append(starts[m.Dest(h)], h.Sym())
			}
		}
	}

	limit := len(m.next)
	for v, fans := range starts {
		if len(fans) == 0 {
			continue
		}
		ends := make([]Edge, len(fans))
		for i, r := range fans {
			x := r
			for steps := 0; m.Left(x) != NoFace; steps++ {
				if steps > limit {
					return errors.Wrapf(ErrInvalidTopology, "vertex %d has an unterminated fan", v)
				}
				x = m.next[x]
			}
			ends[i] = x
		}
		for i, l := range ends {
			if assigned[l] {
				return errors.Wrapf(ErrInvalidTopology, "vertex %d has overlapping fans", v)
			}
			m.next[l] = fans[(i+1)%len(fans)]
			assigned[l] = true
		}
	}

	for q := 0; q < m.NumEdges(); q++ {
		e := Edge(q << 2)
		if !assigned[e] || !assigned[e.Sym()] {
			return errors.Wrapf(ErrInvalidTopology, "edge %s is not part of a closed vertex ring", m.EdgeString(e))
		}
	}
	return nil
}

// linkDual derives the dual Onext rings from the primal ones:
// e.Rot().Onext() == e.Oprev().InvRot().
func (m *Mesh) linkDual() {
	oprev := make([]Edge, len(m.next))
	for q := 0; q < m.NumEdges(); q++ {
		e := Edge(q << 2)
		for _, h := range [2]Edge{e, e.Sym()} {
			oprev[m.next[h]] = h
		}
	}
	for q := 0; q < m.NumEdges(); q++ {
		e := Edge(q << 2)
		for _, h := range [2]Edge{e, e.Sym()} {
			m.next[h.Rot()] = oprev[h].InvRot()
		}
	}
}
