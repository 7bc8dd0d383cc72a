package delaunay

import (
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"

	"github.com/tjim/conform/quadedge"
)

// ErrPredicatePrecondition is returned when the criterion is evaluated on an
// edge that is not shared by two proper triangles.
var ErrPredicatePrecondition = errors.New("delaunay predicate precondition violated")

// cocircularTolerance is the largest negative sine still treated as a tie.
// Exact ties evaluate to zero; the slack absorbs rounding on cocircular points
// with irrational coordinates, which could otherwise flip back and forth.
const cocircularTolerance = 1e-12

// OppositeAngleSine returns sin(angle_b + angle_d) for the edge (a, c) seen from
// the apexes b and d of its two triangles. The edge is locally Delaunay iff the
// result is not negative, i.e. angle_b + angle_d <= pi.
//
// Only cross and dot products are used: each apex contributes |u x v| and u.v,
// which are sin and cos of the subtended angle scaled by |u||v|.
func OppositeAngleSine(a, b, c, d r3.Vector) (float64, error) {
	sinB, cosB, lenB := subtended(a, c, b)
	sinD, cosD, lenD := subtended(a, c, d)
	if sinB == 0 || sinD == 0 {
		return 0, errors.Wrapf(ErrPredicatePrecondition, "degenerate triangle on edge %v-%v", a, c)
	}
	return (sinB*cosD + cosB*sinD) / (lenB * lenD), nil
}

func subtended(a, c, apex r3.Vector) (sin, cos, scale float64) {
	u, v := a.Sub(apex), c.Sub(apex)
	return u.Cross(v).Norm(), u.Dot(v), u.Norm() * v.Norm()
}

// IsLocallyDelaunay reports whether the interior edge e satisfies the local
// Delaunay criterion. Cocircular quadrilaterals count as Delaunay.
func IsLocallyDelaunay(m *quadedge.Mesh, e quadedge.Edge) (bool, error) {
	sine, err := conformity(m, e)
	if err != nil {
		return false, err
	}
	return conforms(sine), nil
}

func conforms(sine float64) bool {
	return sine >= -cocircularTolerance
}

func conformity(m *quadedge.Mesh, e quadedge.Edge) (float64, error) {
	if !e.IsPrimal() {
		return 0, errors.Wrapf(ErrPredicatePrecondition, "edge %d is a dual edge", e)
	}
	left, right, err := m.Apexes(e)
	if err != nil {
		return 0, errors.Wrap(ErrPredicatePrecondition, err.Error())
	}
	sine, err := OppositeAngleSine(m.Position(m.Org(e)), m.Position(right), m.Position(m.Dest(e)), m.Position(left))
	if err != nil {
		return 0, errors.WithMessagef(err, "edge %s", m.EdgeString(e))
	}
	return sine, nil
}

// NonConforming returns the interior edges whose opposite angles sum to more
// than pi by a sine margin larger than tol.
func NonConforming(m *quadedge.Mesh, tol float64) ([]quadedge.Edge, error) {
	var bad []quadedge.Edge
	for _, e := range m.InteriorEdges() {
		sine, err := conformity(m, e)
		if err != nil {
			return nil, err
		}
		if sine < -tol {
			bad = append(bad, e)
		}
	}
	return bad, nil
}
