package analysis

import (
	"math"

	"github.com/custodia-labs/dwg-dashboard/internal/core/domain"
)

// distance2D is the Euclidean distance between two points on the XY plane
func distance2D(a, b domain.Point2) float64 {
	return math.Hypot(b[0]-a[0], b[1]-a[1])
}

// ringLength sums the edges i -> (i+1) mod n, so the closing edge from the
// last vertex back to the first is always included.
func ringLength(pts []domain.Point2) float64 {
	n := len(pts)
	if n < 2 {
		return 0
	}
	var total float64
	for i := 0; i < n; i++ {
		total += distance2D(pts[i], pts[(i+1)%n])
	}
	return total
}

// ShoelaceArea returns the unsigned area of the simple polygon described by pts.
// Winding direction does not matter.
func ShoelaceArea(pts []domain.Point2) float64 {
	n := len(pts)
	if n < 3 {
		return 0
	}
	var sum float64
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		sum += pts[i][0]*pts[j][1] - pts[j][0]*pts[i][1]
	}
	return math.Abs(sum) / 2
}

// round4 rounds to four decimal places
func round4(v float64) float64 {
	return math.Round(v*1e4) / 1e4
}

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
