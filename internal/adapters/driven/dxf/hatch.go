package dxf

import (
	"math"

	"github.com/custodia-labs/dwg-dashboard/internal/core/domain"
)

// Boundary path type flags (group 92)
const (
	pathExternal  = 1
	pathPolyline  = 2
	pathOutermost = 16
)

// Edge types of non-polyline boundary paths (group 72)
const (
	edgeLine     = 1
	edgeCircular = 2
	edgeElliptic = 3
	edgeSpline   = 4
)

type hatchPhase int

const (
	hatchHeader hatchPhase = iota
	hatchPaths
	hatchTrailer
)

// hatchEdge is one edge of an edge-defined boundary path
type hatchEdge struct {
	kind       int
	start, end domain.Point2 // line: endpoints; arc: start is the center
	radius     float64
	startAngle float64
	endAngle   float64
	ccw        bool
}

// hatchLoop is one boundary path
type hatchLoop struct {
	flags    int
	vertices []domain.Point2
	bulges   []float64
	edges    []*hatchEdge
}

func (l *hatchLoop) polyline() bool {
	return l.flags&pathPolyline != 0
}

func (l *hatchLoop) external() bool {
	return l.flags&(pathExternal|pathOutermost) != 0
}

// hatchDecoder reads HATCH boundary paths. The same group codes mean
// different things before, inside and after the boundary data, so the
// decoder tracks which part of the entity it is in.
type hatchDecoder struct {
	pattern string
	solid   bool
	phase   hatchPhase
	loops   []*hatchLoop
}

func (d *hatchDecoder) apply(t tag) error {
	switch t.code {
	case 75, 76, 98:
		d.phase = hatchTrailer
		return nil
	}

	switch d.phase {
	case hatchHeader:
		return d.applyHeader(t)
	case hatchPaths:
		return d.applyPath(t)
	}
	return nil
}

func (d *hatchDecoder) applyHeader(t tag) error {
	switch t.code {
	case 2:
		d.pattern = t.str()
	case 70:
		v, err := t.int()
		if err != nil {
			return err
		}
		d.solid = v == 1
	case 91:
		d.phase = hatchPaths
	}
	return nil
}

func (d *hatchDecoder) applyPath(t tag) error {
	if t.code == 92 {
		flags, err := t.int()
		if err != nil {
			return err
		}
		d.loops = append(d.loops, &hatchLoop{flags: flags})
		return nil
	}
	if len(d.loops) == 0 {
		return nil
	}

	loop := d.loops[len(d.loops)-1]
	if loop.polyline() {
		return applyPolylinePath(loop, t)
	}
	return applyEdgePath(loop, t)
}

func applyPolylinePath(loop *hatchLoop, t tag) error {
	switch t.code {
	case 10:
		x, err := t.float()
		if err != nil {
			return err
		}
		loop.vertices = append(loop.vertices, domain.Point2{x, 0})
		loop.bulges = append(loop.bulges, 0)
	case 20:
		y, err := t.float()
		if err != nil {
			return err
		}
		if n := len(loop.vertices); n > 0 {
			loop.vertices[n-1][1] = y
		}
	case 42:
		b, err := t.float()
		if err != nil {
			return err
		}
		if n := len(loop.bulges); n > 0 {
			loop.bulges[n-1] = b
		}
	}
	return nil
}

func applyEdgePath(loop *hatchLoop, t tag) error {
	if t.code == 72 {
		kind, err := t.int()
		if err != nil {
			return err
		}
		loop.edges = append(loop.edges, &hatchEdge{kind: kind, ccw: true})
		return nil
	}
	if len(loop.edges) == 0 {
		return nil
	}

	edge := loop.edges[len(loop.edges)-1]
	if edge.kind != edgeLine && edge.kind != edgeCircular {
		return nil
	}

	var err error
	switch t.code {
	case 10:
		edge.start[0], err = t.float()
	case 20:
		edge.start[1], err = t.float()
	case 11:
		edge.end[0], err = t.float()
	case 21:
		edge.end[1], err = t.float()
	case 40:
		edge.radius, err = t.float()
	case 50:
		edge.startAngle, err = t.float()
	case 51:
		edge.endAngle, err = t.float()
	case 73:
		var v int
		v, err = t.int()
		edge.ccw = v != 0
	}
	return err
}

func (d *hatchDecoder) build(base domain.EntityBase) domain.Entity {
	return &domain.Hatch{
		EntityBase: base,
		Pattern:    d.pattern,
		Solid:      d.solid,
		Area:       d.area(),
	}
}

// area sums external loops and subtracts the others, clamped at zero. When
// no loop is flagged external every loop is added. Returns nil when there
// are no loops or a loop uses edges whose area is not computed.
func (d *hatchDecoder) area() *float64 {
	if len(d.loops) == 0 {
		return nil
	}

	anyExternal := false
	for _, l := range d.loops {
		if l.external() {
			anyExternal = true
			break
		}
	}

	var total float64
	for _, l := range d.loops {
		a, ok := l.area()
		if !ok {
			return nil
		}
		if !anyExternal || l.external() {
			total += a
		} else {
			total -= a
		}
	}
	total = math.Max(total, 0)
	return &total
}

// area returns the unsigned area enclosed by the loop
func (l *hatchLoop) area() (float64, bool) {
	if l.polyline() {
		return math.Abs(bulgedArea(l.vertices, l.bulges)), true
	}

	// Green's theorem: the enclosed area is half the sum of x dy - y dx
	// over every edge, so edges can be integrated independently.
	var twice float64
	for _, e := range l.edges {
		switch e.kind {
		case edgeLine:
			twice += e.start[0]*e.end[1] - e.end[0]*e.start[1]
		case edgeCircular:
			twice += arcIntegral(e)
		default:
			return 0, false
		}
	}
	return math.Abs(twice) / 2, true
}

// bulgedArea is the signed area of a closed polyline whose segments may be
// circular arcs. A bulge is tan(sweep/4); positive bulges turn
// counter-clockwise.
func bulgedArea(vertices []domain.Point2, bulges []float64) float64 {
	n := len(vertices)
	if n < 2 {
		return 0
	}

	var twice, segments float64
	for i := 0; i < n; i++ {
		p, q := vertices[i], vertices[(i+1)%n]
		twice += p[0]*q[1] - q[0]*p[1]

		b := bulges[i]
		if b == 0 {
			continue
		}
		chord := math.Hypot(q[0]-p[0], q[1]-p[1])
		sweep := 4 * math.Atan(math.Abs(b))
		r := chord / (2 * math.Sin(sweep/2))
		seg := r * r * (sweep - math.Sin(sweep)) / 2
		segments += math.Copysign(seg, b)
	}
	return twice/2 + segments
}

// arcIntegral is the integral of x dy - y dx along a circular arc edge.
// Clockwise edges store mirrored angles, so they are negated before use.
func arcIntegral(e *hatchEdge) float64 {
	a1 := e.startAngle * math.Pi / 180
	a2 := e.endAngle * math.Pi / 180
	if e.ccw {
		for a2 <= a1 {
			a2 += 2 * math.Pi
		}
	} else {
		a1, a2 = -a1, -a2
		for a2 >= a1 {
			a2 -= 2 * math.Pi
		}
	}

	cx, cy, r := e.start[0], e.start[1], e.radius
	return r*r*(a2-a1) +
		r*cx*(math.Sin(a2)-math.Sin(a1)) -
		r*cy*(math.Cos(a2)-math.Cos(a1))
}

// boundaryPoints returns the loop vertices and edge endpoints for the extents
func (d *hatchDecoder) boundaryPoints() []domain.Point3 {
	var pts []domain.Point3
	for _, l := range d.loops {
		for _, v := range l.vertices {
			pts = append(pts, domain.Point3{v[0], v[1], 0})
		}
		for _, e := range l.edges {
			switch e.kind {
			case edgeLine:
				pts = append(pts, domain.Point3{e.start[0], e.start[1], 0}, domain.Point3{e.end[0], e.end[1], 0})
			case edgeCircular:
				pts = append(pts,
					domain.Point3{e.start[0] - e.radius, e.start[1] - e.radius, 0},
					domain.Point3{e.start[0] + e.radius, e.start[1] + e.radius, 0},
				)
			}
		}
	}
	return pts
}
