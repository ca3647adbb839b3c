package analysis

import (
	"github.com/custodia-labs/dwg-dashboard/internal/core/domain"
)

// layerTotals accumulates unrounded figures for one layer
type layerTotals struct {
	count  int
	length float64
	area   float64
}

// AggregateLayers returns one LayerStats per layer table entry, in table order.
// Layers without entities are included with zero counts. Layers referenced by
// entities but missing from the table follow the table rows, in the order they
// were first seen, flagged Unknown.
func AggregateLayers(d *domain.Drawing) ([]domain.LayerStats, error) {
	if err := checkDrawing(d); err != nil {
		return nil, err
	}

	totals := make(map[string]*layerTotals)
	var seen []string

	for _, e := range d.Entities {
		name := e.Layer()
		t, ok := totals[name]
		if !ok {
			t = &layerTotals{}
			totals[name] = t
			seen = append(seen, name)
		}
		t.count++

		var length, area float64
		switch v := e.(type) {
		case *domain.Line:
			length = distance2D(v.Start.XY(), v.End.XY())
		case *domain.Polyline:
			length = ringLength(v.Vertices)
			if v.Closed {
				area = ShoelaceArea(v.Vertices)
			}
		case *domain.Hatch:
			if v.Area == nil {
				log().Debug("hatch area unavailable", "layer", name)
				continue
			}
			area = *v.Area
		}

		// NaN or Inf coordinates would poison the whole layer total
		if !finite(length, area) {
			log().Warn("skipping non-finite geometry", "type", e.Type(), "layer", name)
			continue
		}
		t.length += length
		t.area += area
	}

	stats := make([]domain.LayerStats, 0, len(d.Layers))
	inTable := make(map[string]bool, len(d.Layers))
	for _, l := range d.Layers {
		inTable[l.Name] = true
		stats = append(stats, layerRow(l.Name, l.Color, !l.Off, totals[l.Name]))
	}

	for _, name := range seen {
		if inTable[name] {
			continue
		}
		row := layerRow(name, 0, true, totals[name])
		row.Unknown = true
		stats = append(stats, row)
	}

	return stats, nil
}

func layerRow(name string, color int, visible bool, t *layerTotals) domain.LayerStats {
	row := domain.LayerStats{
		Name:      name,
		Color:     color,
		ColorName: domain.ColorName(color),
		Visible:   visible,
	}
	if t != nil {
		row.EntityCount = t.count
		row.LineLength = round4(t.length)
		row.ClosedArea = round4(t.area)
	}
	return row
}
