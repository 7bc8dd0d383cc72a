// Package delaunay makes triangulated surfaces locally Delaunay by edge flips.
//
// A Filter validates a quadedge.Mesh, seeds a worklist with every interior edge
// and flips non-conforming edges until none is left. The mesh is modified in
// place. A Filter is not safe for concurrent use, and a mesh must not be shared
// with other goroutines while a Filter runs on it.
package delaunay

import (
	"fmt"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/tjim/conform/quadedge"
)

var (
	// ErrInvalidInputTopology is returned by Run, before any mutation, for
	// meshes with non-triangular faces or edges with no face.
	ErrInvalidInputTopology = quadedge.ErrInvalidTopology
	// ErrDegenerateFlipRejected aborts a run whose flip would fold the surface
	// or create a non-manifold edge. The mesh is left partially flipped.
	ErrDegenerateFlipRejected = quadedge.ErrDegenerateFlip
)

// Order selects the order in which candidate edges are evaluated.
type Order int

const (
	// OrderFIFO evaluates candidates first in, first out.
	OrderFIFO Order = iota
	// OrderWorstFirst evaluates the candidate with the largest opposite angle sum first.
	OrderWorstFirst
)

func (o Order) String() string {
	switch o {
	case OrderFIFO:
		return "fifo"
	case OrderWorstFirst:
		return "worst"
	default:
		return fmt.Sprintf("Order(%d)", int(o))
	}
}

// ParseOrder parses the names returned by Order.String.
func ParseOrder(s string) (Order, error) {
	switch s {
	case "fifo":
		return OrderFIFO, nil
	case "worst":
		return OrderWorstFirst, nil
	}
	return 0, errors.Errorf("unknown order %q", s)
}

type Option func(*Filter)

func WithLogger(log *zap.Logger) Option {
	return func(f *Filter) {
		f.log = log
	}
}

func WithOrder(o Order) Option {
	return func(f *Filter) {
		f.order = o
	}
}

type Filter struct {
	log   *zap.Logger
	order Order
	flips int
}

func NewFilter(opts ...Option) *Filter {
	f := &Filter{log: zap.NewNop()}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Run flips edges of m until every interior edge is locally Delaunay and
// returns m. Invalid input is rejected before m is touched; any later failure
// aborts the run and leaves m in an unspecified, but manifold, state. Callers
// that need the input back on failure should run on m.Clone().
func (f *Filter) Run(m *quadedge.Mesh) (*quadedge.Mesh, error) {
	f.flips = 0
	if err := Validate(m); err != nil {
		return nil, err
	}

	s := newScheduler(m, f.order, f.log)
	seeded, err := s.seed()
	if err == nil {
		err = s.drain()
	}
	f.flips = s.flips
	if err != nil {
		f.log.Error("delaunay conforming failed", zap.Int("flips", f.flips), zap.Error(err))
		return nil, err
	}
	f.log.Info("mesh is delaunay conforming",
		zap.Stringer("order", f.order),
		zap.Int("interior_edges", seeded),
		zap.Int("flips", f.flips),
	)
	return m, nil
}

// NumberOfEdgeFlips returns the number of flips performed by the most recent Run.
func (f *Filter) NumberOfEdgeFlips() int {
	return f.flips
}

// Validate checks that every face of m is a triangle and every edge borders
// one or two faces.
func Validate(m *quadedge.Mesh) error {
	for f := 0; f < m.NumFaces(); f++ {
		if n := m.FaceSize(quadedge.FaceID(f)); n != 3 {
			return errors.Wrapf(ErrInvalidInputTopology, "face %d has %d vertices", f, n)
		}
	}
	for _, e := range m.Edges() {
		if n := m.IncidentFaces(e); n < 1 || n > 2 {
			return errors.Wrapf(ErrInvalidInputTopology, "edge %s has %d incident faces", m.EdgeString(e), n)
		}
	}
	return nil
}
