package quadedge

import (
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
)

// Flip replaces the interior edge e, shared by the triangles on its left and
// right, with the other diagonal of the quadrilateral they form. The edge handle
// survives the flip: afterwards e runs from the old right apex to the old left
// apex. Both faces keep their ids.
//
// Flip fails with ErrDegenerateFlip, leaving the mesh untouched, when e is not
// shared by two triangles, when the apexes are already adjacent, or when either
// new triangle would have zero or inverted area.
func (m *Mesh) Flip(e Edge) error {
	if err := m.checkFlip(e); err != nil {
		return err
	}
	fl, fr := m.Left(e), m.Right(e)

	// Swap, Guibas & Stolfi p. 104
	a := m.Oprev(e)
	b := m.Oprev(e.Sym())
	m.splice(e, a)
	m.splice(e.Sym(), b)
	m.splice(e, m.Lnext(a))
	m.splice(e.Sym(), m.Lnext(b))
	m.setOrg(e, m.Dest(a))
	m.setDest(e, m.Dest(b))

	m.setLeft(e, fl)
	m.setLeft(e.Sym(), fr)
	return nil
}

func (m *Mesh) checkFlip(e Edge) error {
	if !e.IsPrimal() {
		return errors.Wrapf(ErrDegenerateFlip, "edge %d is a dual edge", e)
	}
	if !m.IsInterior(e) {
		return errors.Wrapf(ErrDegenerateFlip, "edge %s is on the boundary", m.EdgeString(e))
	}
	if m.FaceSize(m.Left(e)) != 3 || m.FaceSize(m.Right(e)) != 3 {
		return errors.Wrapf(ErrDegenerateFlip, "edge %s does not separate two triangles", m.EdgeString(e))
	}

	left, right := m.Dest(m.Lnext(e)), m.Dest(m.Lnext(e.Sym()))
	if left == right {
		return errors.Wrapf(ErrDegenerateFlip, "edge %s has a single apex %d", m.EdgeString(e), left)
	}
	start := m.Lprev(e.Sym()) // leaves the right apex
	for x := start; ; {
		if m.Dest(x) == left {
			return errors.Wrapf(ErrDegenerateFlip, "apexes %d and %d of edge %s are already adjacent",
				right, left, m.EdgeString(e))
		}
		if x = m.Onext(x); x == start {
			break
		}
	}

	pa, pc := m.Position(m.Org(e)), m.Position(m.Dest(e))
	pd, pb := m.Position(left), m.Position(right)
	n := normal(pa, pc, pd).Add(normal(pc, pa, pb))
	if normal(pb, pd, pa).Dot(n) <= 0 || normal(pd, pb, pc).Dot(n) <= 0 {
		return errors.Wrapf(ErrDegenerateFlip, "flipping edge %s to %d->%d folds the surface",
			m.EdgeString(e), right, left)
	}
	return nil
}

// normal returns the area-weighted normal of the counter-clockwise triangle abc.
func normal(a, b, c r3.Vector) r3.Vector {
	return b.Sub(a).Cross(c.Sub(a))
}
