package analysis

import (
	"errors"
	"fmt"

	"github.com/custodia-labs/dwg-dashboard/internal/core/domain"
)

var errUnsupported = errors.New("unsupported entity type")

// ExtractPreview projects the renderable entities of a drawing onto 2D
// records for client-side drawing. Only LINE, LWPOLYLINE, CIRCLE, ARC, TEXT
// and MTEXT are projected; other types and malformed entities are omitted,
// so the result may hold fewer entities than the drawing.
func ExtractPreview(d *domain.Drawing) (*domain.PreviewGeometry, error) {
	if err := checkDrawing(d); err != nil {
		return nil, err
	}

	box, err := ComputeBoundingBox(d)
	if err != nil {
		return nil, err
	}

	entities := make([]domain.PreviewEntity, 0, len(d.Entities))
	for i, e := range d.Entities {
		data, err := project(e)
		if errors.Is(err, errUnsupported) {
			continue
		}
		if err != nil {
			log().Warn("skipping preview entity",
				"index", i, "type", e.Type(), "layer", e.Layer(), "error", err)
			continue
		}
		entities = append(entities, domain.PreviewEntity{
			Type:  e.Type(),
			Layer: e.Layer(),
			Color: e.ColorIndex(),
			Data:  data,
		})
	}

	return &domain.PreviewGeometry{
		BoundingBox: box,
		Entities:    entities,
	}, nil
}

func project(e domain.Entity) (domain.PreviewData, error) {
	switch v := e.(type) {
	case *domain.Line:
		if !finitePoints(v.Start.XY(), v.End.XY()) {
			return nil, errors.New("non-finite endpoint")
		}
		return domain.LineData{Start: v.Start.XY(), End: v.End.XY()}, nil

	case *domain.Polyline:
		if len(v.Vertices) == 0 {
			return nil, errors.New("polyline has no vertices")
		}
		if !finitePoints(v.Vertices...) {
			return nil, errors.New("non-finite vertex")
		}
		points := make([]domain.Point2, len(v.Vertices))
		copy(points, v.Vertices)
		return domain.PolylineData{Points: points, Closed: v.Closed}, nil

	case *domain.Circle:
		if err := checkRadius(v.Center, v.Radius); err != nil {
			return nil, err
		}
		return domain.CircleData{Center: v.Center.XY(), Radius: v.Radius}, nil

	case *domain.Arc:
		if err := checkRadius(v.Center, v.Radius); err != nil {
			return nil, err
		}
		if !finite(v.StartAngle, v.EndAngle) {
			return nil, errors.New("non-finite angle")
		}
		return domain.ArcData{
			Center:     v.Center.XY(),
			Radius:     v.Radius,
			StartAngle: v.StartAngle,
			EndAngle:   v.EndAngle,
		}, nil

	case *domain.Text:
		return textData(v.Insert, v.Value, v.Height, v.Rotation)

	case *domain.MText:
		return textData(v.Insert, v.Value, v.CharHeight, v.Rotation)

	default:
		return nil, errUnsupported
	}
}

func textData(insert domain.Point3, value string, height float64, rotation *float64) (domain.PreviewData, error) {
	if !finitePoints(insert.XY()) || !finite(height) {
		return nil, errors.New("non-finite text placement")
	}
	data := domain.TextData{
		Position: insert.XY(),
		Text:     value,
		Height:   height,
	}
	if rotation != nil && finite(*rotation) {
		data.Rotation = *rotation
	}
	return data, nil
}

func checkRadius(center domain.Point3, radius float64) error {
	if !finitePoints(center.XY()) {
		return errors.New("non-finite center")
	}
	if !finite(radius) || radius < 0 {
		return fmt.Errorf("invalid radius %v", radius)
	}
	return nil
}

func finitePoints(pts ...domain.Point2) bool {
	for _, p := range pts {
		if !finite(p[0], p[1]) {
			return false
		}
	}
	return true
}
