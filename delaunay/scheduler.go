package delaunay

import (
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/tjim/conform/quadedge"
)

// scheduler drives one mesh to the Delaunay fixed point. It is seeded with all
// interior edges, drains its worklist, and converges when the worklist is empty.
//
// A flip can only break the criterion on the four edges bordering the two new
// triangles, so only those are re-queued. Ties are never flipped and every flip
// strictly improves the triangulation, so draining terminates.
type scheduler struct {
	m     *quadedge.Mesh
	work  worklist
	order Order
	log   *zap.Logger
	flips int
}

func newScheduler(m *quadedge.Mesh, order Order, log *zap.Logger) *scheduler {
	s := &scheduler{m: m, order: order, log: log}
	switch order {
	case OrderWorstFirst:
		s.work = newWorstFirst(m.NumEdges())
	default:
		s.work = newFIFO(m.NumEdges())
	}
	return s
}

func (s *scheduler) seed() (int, error) {
	n := 0
	for _, e := range s.m.InteriorEdges() {
		if err := s.enqueue(e); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}

func (s *scheduler) enqueue(e quadedge.Edge) error {
	e = e.Canonical()
	if !s.m.IsInterior(e) {
		return nil
	}
	var priority float64
	if s.order == OrderWorstFirst {
		sine, err := conformity(s.m, e)
		if err != nil {
			return err
		}
		priority = sine
	}
	s.work.push(e, priority)
	return nil
}

func (s *scheduler) drain() error {
	for s.work.len() > 0 {
		e := s.work.pop()
		if !s.m.IsInterior(e) {
			continue
		}
		sine, err := conformity(s.m, e)
		if err != nil {
			return errors.WithMessagef(err, "after %d flips", s.flips)
		}
		if conforms(sine) {
			continue
		}

		org, dest := s.m.Org(e), s.m.Dest(e)
		if err := s.m.Flip(e); err != nil {
			return errors.WithMessagef(err, "after %d flips", s.flips)
		}
		s.flips++
		if ce := s.log.Check(zap.DebugLevel, "flipped edge"); ce != nil {
			ce.Write(
				zap.Int32("edge", int32(e)),
				zap.Int32("org", int32(org)),
				zap.Int32("dest", int32(dest)),
				zap.Int32("right", int32(s.m.Org(e))),
				zap.Int32("left", int32(s.m.Dest(e))),
				zap.Float64("sine", sine),
			)
		}

		for _, n := range [4]quadedge.Edge{
			s.m.Lnext(e), s.m.Lprev(e),
			s.m.Lnext(e.Sym()), s.m.Lprev(e.Sym()),
		} {
			if err := s.enqueue(n); err != nil {
				return errors.WithMessagef(err, "after %d flips", s.flips)
			}
		}
	}
	return nil
}
