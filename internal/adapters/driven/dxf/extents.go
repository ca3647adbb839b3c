package dxf

import (
	"math"

	"github.com/custodia-labs/dwg-dashboard/internal/core/domain"
)

// extents accumulates the exact bounds of all model space geometry
type extents struct {
	min, max domain.Point3
	empty    bool
}

func newExtents() *extents {
	return &extents{
		min:   domain.Point3{math.Inf(1), math.Inf(1), math.Inf(1)},
		max:   domain.Point3{math.Inf(-1), math.Inf(-1), math.Inf(-1)},
		empty: true,
	}
}

func (x *extents) add(pts ...domain.Point3) {
	for _, p := range pts {
		if math.IsNaN(p[0]+p[1]+p[2]) || math.IsInf(p[0]+p[1]+p[2], 0) {
			continue
		}
		for i := 0; i < 3; i++ {
			x.min[i] = math.Min(x.min[i], p[i])
			x.max[i] = math.Max(x.max[i], p[i])
		}
		x.empty = false
	}
}

func (x *extents) addEntity(e domain.Entity) {
	switch v := e.(type) {
	case *domain.Line:
		x.add(v.Start, v.End)
	case *domain.Polyline:
		for _, p := range v.Vertices {
			x.add(domain.Point3{p[0], p[1], v.Elevation})
		}
	case *domain.Circle:
		c, r := v.Center, math.Abs(v.Radius)
		x.add(
			domain.Point3{c[0] - r, c[1] - r, c[2]},
			domain.Point3{c[0] + r, c[1] + r, c[2]},
		)
	case *domain.Arc:
		x.add(arcPoints(v)...)
	case *domain.Text:
		x.add(v.Insert)
	case *domain.MText:
		x.add(v.Insert)
	case *domain.Dimension:
		for _, p := range []*domain.Point3{v.DefPoint, v.TextMidpoint, v.DefPoint2, v.DefPoint3} {
			if p != nil {
				x.add(*p)
			}
		}
	}
}

// arcPoints returns the arc endpoints plus every quadrant point the arc
// passes through, which together bound the arc exactly
func arcPoints(a *domain.Arc) []domain.Point3 {
	start := normalizeAngle(a.StartAngle)
	end := normalizeAngle(a.EndAngle)
	if end <= start {
		end += 360
	}

	at := func(deg float64) domain.Point3 {
		rad := deg * math.Pi / 180
		return domain.Point3{
			a.Center[0] + a.Radius*math.Cos(rad),
			a.Center[1] + a.Radius*math.Sin(rad),
			a.Center[2],
		}
	}

	pts := []domain.Point3{at(start), at(end)}
	for q := 0.0; q < 720; q += 90 {
		if q > start && q < end {
			pts = append(pts, at(q))
		}
	}
	return pts
}

func normalizeAngle(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	return deg
}

func (x *extents) result() *domain.Extents {
	if x.empty {
		return nil
	}
	return &domain.Extents{Min: x.min, Max: x.max}
}
