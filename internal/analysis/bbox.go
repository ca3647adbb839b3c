package analysis

import (
	"math"

	"github.com/custodia-labs/dwg-dashboard/internal/core/domain"
)

// ComputeBoundingBox returns the extents of the drawing.
//
// The parser's precise extents are used when present and valid. Otherwise
// the box is built from LINE endpoints and polyline vertices on the XY plane
// (z is 0). A drawing with no usable points yields the all-zero box.
func ComputeBoundingBox(d *domain.Drawing) (domain.BoundingBox, error) {
	if err := checkDrawing(d); err != nil {
		return domain.BoundingBox{}, err
	}

	if validExtents(d.Extents) {
		return domain.NewBoundingBox(d.Extents.Min, d.Extents.Max), nil
	}
	if d.Extents != nil {
		log().Debug("ignoring invalid parser extents",
			"min", d.Extents.Min, "max", d.Extents.Max)
	}

	acc := newExtentAccumulator()
	for _, e := range d.Entities {
		switch v := e.(type) {
		case *domain.Line:
			acc.add(v.Start.XY())
			acc.add(v.End.XY())
		case *domain.Polyline:
			for _, p := range v.Vertices {
				acc.add(p)
			}
		}
	}

	if acc.empty() {
		return domain.BoundingBox{}, nil
	}
	return domain.NewBoundingBox(
		domain.Point3{acc.minX, acc.minY, 0},
		domain.Point3{acc.maxX, acc.maxY, 0},
	), nil
}

func validExtents(ext *domain.Extents) bool {
	if ext == nil {
		return false
	}
	for i := 0; i < 3; i++ {
		if !finite(ext.Min[i], ext.Max[i]) || ext.Min[i] > ext.Max[i] {
			return false
		}
	}
	return true
}

// extentAccumulator grows a 2D min/max pair point by point
type extentAccumulator struct {
	minX, minY float64
	maxX, maxY float64
}

func newExtentAccumulator() *extentAccumulator {
	return &extentAccumulator{
		minX: math.Inf(1),
		minY: math.Inf(1),
		maxX: math.Inf(-1),
		maxY: math.Inf(-1),
	}
}

func (a *extentAccumulator) add(p domain.Point2) {
	if !finite(p[0], p[1]) {
		return
	}
	a.minX = math.Min(a.minX, p[0])
	a.minY = math.Min(a.minY, p[1])
	a.maxX = math.Max(a.maxX, p[0])
	a.maxY = math.Max(a.maxY, p[1])
}

func (a *extentAccumulator) empty() bool {
	return a.minX > a.maxX
}
