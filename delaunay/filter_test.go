package delaunay

import (
	"math"
	"math/rand"
	"reflect"
	"sort"
	"testing"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"

	"github.com/tjim/conform/meshgen"
	"github.com/tjim/conform/quadedge"
)

func newMesh(t *testing.T, pts []r3.Vector, cells [][]int) *quadedge.Mesh {
	t.Helper()
	m, err := quadedge.NewMesh(pts, cells)
	if err != nil {
		t.Fatal(err)
	}
	return m
}

// trapezoid is A(0,0) B(3,0) C(3,1) D(0.5,1) split along A-C.
func trapezoid(t *testing.T) *quadedge.Mesh {
	pts := []r3.Vector{{X: 0, Y: 0}, {X: 3, Y: 0}, {X: 3, Y: 1}, {X: 0.5, Y: 1}}
	return newMesh(t, pts, [][]int{{0, 1, 2}, {0, 2, 3}})
}

func triangleSet(t *testing.T, m *quadedge.Mesh) [][3]quadedge.VertexID {
	t.Helper()
	tris, err := m.Triangles()
	if err != nil {
		t.Fatal(err)
	}
	for i, tri := range tris {
		for tri[0] > tri[1] || tri[0] > tri[2] {
			tri = [3]quadedge.VertexID{tri[1], tri[2], tri[0]}
		}
		tris[i] = tri
	}
	sort.Slice(tris, func(i, j int) bool {
		for k := 0; k < 3; k++ {
			if tris[i][k] != tris[j][k] {
				return tris[i][k] < tris[j][k]
			}
		}
		return false
	})
	return tris
}

func boundarySet(m *quadedge.Mesh) map[[2]quadedge.VertexID]bool {
	set := make(map[[2]quadedge.VertexID]bool)
	for _, e := range m.BoundaryEdges() {
		u, v := m.Org(e), m.Dest(e)
		if v < u {
			u, v = v, u
		}
		set[[2]quadedge.VertexID{u, v}] = true
	}
	return set
}

func TestOppositeAngleSine(t *testing.T) {
	h := math.Sqrt(3) / 2
	tests := []struct {
		name       string
		a, b, c, d r3.Vector
		want       float64
	}{
		{"square", r3.Vector{}, r3.Vector{X: 1}, r3.Vector{X: 1, Y: 1}, r3.Vector{Y: 1}, 0},
		{"rectangle", r3.Vector{}, r3.Vector{X: 3}, r3.Vector{X: 3, Y: 1}, r3.Vector{Y: 1}, 0},
		{"long diagonal", r3.Vector{}, r3.Vector{X: 2, Y: -1}, r3.Vector{X: 4}, r3.Vector{X: 2, Y: 1}, -0.96},
		{"short diagonal", r3.Vector{X: 2, Y: -1}, r3.Vector{X: 4}, r3.Vector{X: 2, Y: 1}, r3.Vector{}, 0.96},
		{"equilateral", r3.Vector{}, r3.Vector{X: 0.5, Y: -h}, r3.Vector{X: 1}, r3.Vector{X: 0.5, Y: h}, h},
		{"folded", r3.Vector{}, r3.Vector{X: 0.5, Y: -h}, r3.Vector{X: 1}, r3.Vector{X: 0.5, Z: h}, h},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := OppositeAngleSine(tt.a, tt.b, tt.c, tt.d)
			if err != nil {
				t.Fatal(err)
			}
			if math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestOppositeAngleSineExactTie(t *testing.T) {
	got, err := OppositeAngleSine(r3.Vector{}, r3.Vector{X: 3}, r3.Vector{X: 3, Y: 1}, r3.Vector{Y: 1})
	if err != nil {
		t.Fatal(err)
	}
	if got != 0 {
		t.Errorf("cocircular sine = %v, want exactly 0", got)
	}
}

func TestOppositeAngleSineDegenerate(t *testing.T) {
	_, err := OppositeAngleSine(r3.Vector{}, r3.Vector{X: 1}, r3.Vector{X: 2}, r3.Vector{X: 1, Y: 1})
	if !errors.Is(err, ErrPredicatePrecondition) {
		t.Errorf("got %v, want ErrPredicatePrecondition", err)
	}
}

func TestIsLocallyDelaunay(t *testing.T) {
	m := trapezoid(t)
	e := m.InteriorEdges()[0]
	ok, err := IsLocallyDelaunay(m, e)
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Fatalf("diagonal %s reported Delaunay", m.EdgeString(e))
	}
	if err := m.Flip(e); err != nil {
		t.Fatal(err)
	}
	if ok, err := IsLocallyDelaunay(m, e); err != nil || !ok {
		t.Errorf("flipped diagonal %s: %v, %v", m.EdgeString(e), ok, err)
	}
	if _, err := IsLocallyDelaunay(m, m.BoundaryEdges()[0]); !errors.Is(err, ErrPredicatePrecondition) {
		t.Errorf("boundary edge: got %v", err)
	}
}

func TestRunOneFlip(t *testing.T) {
	m := trapezoid(t)
	f := NewFilter()
	out, err := f.Run(m)
	if err != nil {
		t.Fatal(err)
	}
	if out != m {
		t.Errorf("Run returned a different mesh")
	}
	if n := f.NumberOfEdgeFlips(); n != 1 {
		t.Errorf("got %d flips, want 1", n)
	}
	want := [][3]quadedge.VertexID{{0, 1, 3}, {1, 2, 3}}
	if got := triangleSet(t, m); !reflect.DeepEqual(got, want) {
		t.Errorf("triangles = %v, want %v", got, want)
	}

	if _, err := f.Run(m); err != nil {
		t.Fatal(err)
	}
	if n := f.NumberOfEdgeFlips(); n != 0 {
		t.Errorf("second run: got %d flips, want 0", n)
	}
}

func TestRunCocircularTie(t *testing.T) {
	// A 3x1 rectangle: the diagonal A-C subtends two right angles.
	pts := []r3.Vector{{X: 0, Y: 0}, {X: 3, Y: 0}, {X: 3, Y: 1}, {X: 0, Y: 1}}
	m := newMesh(t, pts, [][]int{{0, 1, 2}, {0, 2, 3}})
	before := triangleSet(t, m)
	f := NewFilter()
	if _, err := f.Run(m); err != nil {
		t.Fatal(err)
	}
	if n := f.NumberOfEdgeFlips(); n != 0 {
		t.Errorf("got %d flips, want 0", n)
	}
	if after := triangleSet(t, m); !reflect.DeepEqual(before, after) {
		t.Errorf("triangles changed: %v -> %v", before, after)
	}
}

func TestCocircularTolerance(t *testing.T) {
	if !conforms(-cocircularTolerance) {
		t.Errorf("sine %v at the tolerance does not conform", -cocircularTolerance)
	}
	if conforms(-2 * cocircularTolerance) {
		t.Errorf("sine %v beyond the tolerance conforms", -2*cocircularTolerance)
	}

	tests := []struct {
		name  string
		shift float64
		flips int
	}{
		{"within tolerance", 1e-13, 0},
		{"beyond tolerance", 1e-3, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// The 3x1 rectangle with D pulled inside the circle through A, B, C.
			pts := []r3.Vector{{X: 0, Y: 0}, {X: 3, Y: 0}, {X: 3, Y: 1}, {X: tt.shift, Y: 1}}
			sine, err := OppositeAngleSine(pts[0], pts[1], pts[2], pts[3])
			if err != nil {
				t.Fatal(err)
			}
			if sine >= 0 {
				t.Fatalf("sine = %v, want negative", sine)
			}
			m := newMesh(t, pts, [][]int{{0, 1, 2}, {0, 2, 3}})
			f := NewFilter()
			if _, err := f.Run(m); err != nil {
				t.Fatal(err)
			}
			if n := f.NumberOfEdgeFlips(); n != tt.flips {
				t.Errorf("sine %v: got %d flips, want %d", sine, n, tt.flips)
			}
		})
	}
}

func TestRunRegularPolygon(t *testing.T) {
	pts, cells := meshgen.Ngon(12, 1)
	m := newMesh(t, pts, cells)
	f := NewFilter()
	if _, err := f.Run(m); err != nil {
		t.Fatal(err)
	}
	if n := f.NumberOfEdgeFlips(); n != 0 {
		t.Errorf("got %d flips on a cocircular fan, want 0", n)
	}
}

func TestRunSingleTriangle(t *testing.T) {
	m := newMesh(t, []r3.Vector{{}, {X: 1}, {Y: 1}}, [][]int{{0, 1, 2}})
	f := NewFilter()
	if _, err := f.Run(m); err != nil {
		t.Fatal(err)
	}
	if n := f.NumberOfEdgeFlips(); n != 0 {
		t.Errorf("got %d flips, want 0", n)
	}
	if got := triangleSet(t, m); !reflect.DeepEqual(got, [][3]quadedge.VertexID{{0, 1, 2}}) {
		t.Errorf("triangles = %v", got)
	}
}

func TestRunRejectsQuad(t *testing.T) {
	pts := []r3.Vector{{}, {X: 1}, {X: 1, Y: 1}, {Y: 1}, {X: 2}}
	m := newMesh(t, pts, [][]int{{0, 1, 2, 3}, {1, 4, 2}})
	before := m.Polygons()

	f := NewFilter()
	f.flips = 7
	out, err := f.Run(m)
	if !errors.Is(err, ErrInvalidInputTopology) {
		t.Fatalf("got %v, want ErrInvalidInputTopology", err)
	}
	if out != nil {
		t.Errorf("Run returned a mesh on failure")
	}
	if n := f.NumberOfEdgeFlips(); n != 0 {
		t.Errorf("got %d flips, want 0", n)
	}
	if after := m.Polygons(); !reflect.DeepEqual(before, after) {
		t.Errorf("mesh changed: %v -> %v", before, after)
	}
}

func TestRunDegenerateFlip(t *testing.T) {
	// Flattened tetrahedron: edge 0-1 subtends nearly straight angles at both
	// apexes, which are already joined by edge 2-3.
	pts := []r3.Vector{{X: -1}, {X: 1}, {Y: -0.1, Z: 0.05}, {Y: 0.1, Z: 0.05}}
	m := newMesh(t, pts, [][]int{{0, 1, 2}, {0, 3, 1}, {0, 2, 3}, {1, 3, 2}})
	_, err := NewFilter().Run(m)
	if !errors.Is(err, ErrDegenerateFlipRejected) {
		t.Errorf("got %v, want ErrDegenerateFlipRejected", err)
	}
}

func TestRunPredicatePrecondition(t *testing.T) {
	pts := []r3.Vector{{}, {X: 1}, {X: 2}, {X: 1, Y: 1}}
	m := newMesh(t, pts, [][]int{{0, 1, 2}, {0, 2, 3}})
	_, err := NewFilter().Run(m)
	if !errors.Is(err, ErrPredicatePrecondition) {
		t.Errorf("got %v, want ErrPredicatePrecondition", err)
	}
}

// checkConforming runs f on m and checks the fixed point, idempotence,
// geometry and boundary properties.
func checkConforming(t *testing.T, f *Filter, m *quadedge.Mesh) int {
	t.Helper()
	positions := m.Positions()
	boundary := boundarySet(m)
	faces, edges := m.NumFaces(), m.NumEdges()

	if _, err := f.Run(m); err != nil {
		t.Fatal(err)
	}
	flips := f.NumberOfEdgeFlips()

	if err := Validate(m); err != nil {
		t.Errorf("output is invalid: %v", err)
	}
	bad, err := NonConforming(m, 1e-9)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range bad {
		t.Errorf("edge %s is not locally Delaunay", m.EdgeString(e))
	}
	if !reflect.DeepEqual(positions, m.Positions()) {
		t.Errorf("vertex positions changed")
	}
	if !reflect.DeepEqual(boundary, boundarySet(m)) {
		t.Errorf("boundary edges changed")
	}
	if m.NumFaces() != faces || m.NumEdges() != edges {
		t.Errorf("faces %d -> %d, edges %d -> %d", faces, m.NumFaces(), edges, m.NumEdges())
	}

	if _, err := f.Run(m); err != nil {
		t.Fatal(err)
	}
	if n := f.NumberOfEdgeFlips(); n != 0 {
		t.Errorf("second run: got %d flips, want 0", n)
	}
	return flips
}

func TestRunGrid(t *testing.T) {
	for _, order := range []Order{OrderFIFO, OrderWorstFirst} {
		for seed := int64(1); seed <= 3; seed++ {
			t.Run(order.String(), func(t *testing.T) {
				pts, cells := meshgen.Grid(12, 12, 0.5, rand.New(rand.NewSource(seed)))
				m := newMesh(t, pts, cells)
				f := NewFilter(WithOrder(order), WithLogger(zaptest.NewLogger(t, zaptest.Level(zap.InfoLevel))))
				if flips := checkConforming(t, f, m); flips == 0 {
					t.Errorf("seed %d: no flips on a jittered grid", seed)
				}
			})
		}
	}
}

func TestRunEllipse(t *testing.T) {
	for _, order := range []Order{OrderFIFO, OrderWorstFirst} {
		t.Run(order.String(), func(t *testing.T) {
			pts, cells := meshgen.Ellipse(16, 1, 0.3)
			m := newMesh(t, pts, cells)
			if flips := checkConforming(t, NewFilter(WithOrder(order)), m); flips == 0 {
				t.Errorf("no flips on an elliptic fan")
			}
		})
	}
}

func TestRunLiftedGrid(t *testing.T) {
	pts, cells := meshgen.Grid(10, 10, 0.4, rand.New(rand.NewSource(42)))
	pts = meshgen.Lift(pts, func(x, y float64) float64 {
		return 0.1 * math.Sin(x) * math.Cos(y)
	})
	m := newMesh(t, pts, cells)
	checkConforming(t, NewFilter(), m)
}

func TestRunLogsFlips(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	f := NewFilter(WithLogger(zap.New(core)))
	if _, err := f.Run(trapezoid(t)); err != nil {
		t.Fatal(err)
	}
	flips := logs.FilterMessage("flipped edge").All()
	if len(flips) != 1 {
		t.Fatalf("got %d flip records, want 1", len(flips))
	}
	for _, key := range []string{"edge", "org", "dest", "left", "right", "sine"} {
		if _, ok := flips[0].ContextMap()[key]; !ok {
			t.Errorf("flip record has no %q field: %v", key, flips[0].ContextMap())
		}
	}
	summary := logs.FilterMessage("mesh is delaunay conforming").All()
	if len(summary) != 1 {
		t.Fatalf("got %d summary records", len(summary))
	}
	if got := summary[0].ContextMap()["flips"]; got != int64(1) {
		t.Errorf("summary flips = %v", got)
	}
}

func TestParseOrder(t *testing.T) {
	for _, o := range []Order{OrderFIFO, OrderWorstFirst} {
		got, err := ParseOrder(o.String())
		if err != nil || got != o {
			t.Errorf("ParseOrder(%q) = %v, %v", o.String(), got, err)
		}
	}
	if _, err := ParseOrder("lifo"); err == nil {
		t.Errorf("ParseOrder(lifo) succeeded")
	}
}
