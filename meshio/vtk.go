// Package meshio reads and writes legacy VTK ASCII POLYDATA files.
package meshio

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"

	"github.com/tjim/conform/quadedge"
)

const vtkHeader = "# vtk DataFile Version 2.0"

var ErrFormat = errors.New("malformed vtk file")

// ReadVTK parses the POINTS and POLYGONS sections of a legacy VTK polydata
// file. VERTICES, LINES and TRIANGLE_STRIPS are skipped; attribute data ends
// the read.
func ReadVTK(r io.Reader) ([]r3.Vector, [][]int, error) {
	br := bufio.NewReader(r)
	header, err := br.ReadString('\n')
	if err != nil || !strings.HasPrefix(strings.TrimSpace(header), "# vtk DataFile") {
		return nil, nil, errors.Wrap(ErrFormat, "missing header")
	}
	if _, err := br.ReadString('\n'); err != nil { // title
		return nil, nil, errors.Wrap(ErrFormat, "missing title")
	}

	s := &scanner{sc: bufio.NewScanner(br)}
	s.sc.Split(bufio.ScanWords)
	if kind := s.word(); kind != "ASCII" {
		return nil, nil, errors.Wrapf(ErrFormat, "unsupported encoding %q", kind)
	}
	if s.word() != "DATASET" || s.word() != "POLYDATA" {
		return nil, nil, errors.Wrap(ErrFormat, "dataset is not POLYDATA")
	}

	var (
		points []r3.Vector
		cells  [][]int
	)
sections:
	for s.err == nil {
		section := s.word()
		switch section {
		case "":
			break sections
		case "POINTS":
			n := s.int()
			s.word() // data type
			points = make([]r3.Vector, 0, n)
			for i := 0; i < n && s.err == nil; i++ {
				points = append(points, r3.Vector{X: s.float(), Y: s.float(), Z: s.float()})
			}
		case "POLYGONS":
			n := s.int()
			s.int() // total size
			cells = make([][]int, 0, n)
			for i := 0; i < n && s.err == nil; i++ {
				cell := make([]int, s.int())
				for j := range cell {
					cell[j] = s.int()
				}
				cells = append(cells, cell)
			}
		case "VERTICES", "LINES", "TRIANGLE_STRIPS":
			s.int()
			size := s.int()
			for i := 0; i < size && s.err == nil; i++ {
				s.int()
			}
		case "POINT_DATA", "CELL_DATA", "METADATA", "FIELD":
			break sections
		default:
			return nil, nil, errors.Wrapf(ErrFormat, "unknown section %q", section)
		}
	}
	if s.err != nil {
		return nil, nil, s.err
	}
	return points, cells, nil
}

type scanner struct {
	sc  *bufio.Scanner
	err error
}

// word returns the next token, or "" at the end of input or after an error.
func (s *scanner) word() string {
	if s.err != nil || !s.sc.Scan() {
		if s.err == nil {
			s.err = s.sc.Err()
		}
		return ""
	}
	return s.sc.Text()
}

func (s *scanner) int() int {
	w := s.word()
	if s.err != nil {
		return 0
	}
	n, err := strconv.Atoi(w)
	if err != nil || n < 0 {
		s.err = errors.Wrapf(ErrFormat, "expected count or index, got %q", w)
		return 0
	}
	return n
}

func (s *scanner) float() float64 {
	w := s.word()
	if s.err != nil {
		return 0
	}
	f, err := strconv.ParseFloat(w, 64)
	if err != nil {
		s.err = errors.Wrapf(ErrFormat, "expected number, got %q", w)
	}
	return f
}

// WriteVTK writes the vertices and faces of m as legacy VTK polydata.
func WriteVTK(w io.Writer, m *quadedge.Mesh, title string) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, vtkHeader)
	fmt.Fprintln(bw, strings.ReplaceAll(title, "\n", " "))
	fmt.Fprintln(bw, "ASCII")
	fmt.Fprintln(bw, "DATASET POLYDATA")

	pts := m.Positions()
	fmt.Fprintf(bw, "POINTS %d double\n", len(pts))
	for _, p := range pts {
		fmt.Fprintf(bw, "%s %s %s\n", formatFloat(p.X), formatFloat(p.Y), formatFloat(p.Z))
	}

	polys := m.Polygons()
	size := 0
	for _, p := range polys {
		size += len(p) + 1
	}
	fmt.Fprintf(bw, "POLYGONS %d %d\n", len(polys), size)
	for _, p := range polys {
		fmt.Fprint(bw, len(p))
		for _, v := range p {
			fmt.Fprintf(bw, " %d", v)
		}
		fmt.Fprintln(bw)
	}
	return bw.Flush()
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// ReadVTKFile reads a mesh from the named file.
func ReadVTKFile(path string) (*quadedge.Mesh, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	pts, cells, err := ReadVTK(file)
	if err != nil {
		return nil, errors.WithMessage(err, path)
	}
	m, err := quadedge.NewMesh(pts, cells)
	if err != nil {
		return nil, errors.WithMessage(err, path)
	}
	return m, nil
}

// WriteVTKFile writes m to the named file, replacing it.
func WriteVTKFile(path string, m *quadedge.Mesh, title string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteVTK(file, m, title); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
