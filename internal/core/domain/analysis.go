package domain

import (
	"encoding/json"
	"fmt"
)

// LayerStats summarizes the entities on one layer
type LayerStats struct {
	Name        string  `json:"name"`
	Color       int     `json:"color"`
	ColorName   string  `json:"color_name"`
	Visible     bool    `json:"visible"`
	EntityCount int     `json:"entity_count"`
	LineLength  float64 `json:"line_length"`
	ClosedArea  float64 `json:"closed_area"`
	// Unknown is set for layers referenced by entities but missing from the layer table
	Unknown bool `json:"unknown,omitempty"`
}

// BoundingBox is the axis-aligned extent of a drawing
type BoundingBox struct {
	MinX   float64 `json:"min_x"`
	MinY   float64 `json:"min_y"`
	MinZ   float64 `json:"min_z"`
	MaxX   float64 `json:"max_x"`
	MaxY   float64 `json:"max_y"`
	MaxZ   float64 `json:"max_z"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Depth  float64 `json:"depth"`
}

// NewBoundingBox builds a box from min/max corners and fills in the derived sizes
func NewBoundingBox(min, max Point3) BoundingBox {
	return BoundingBox{
		MinX:   min[0],
		MinY:   min[1],
		MinZ:   min[2],
		MaxX:   max[0],
		MaxY:   max[1],
		MaxZ:   max[2],
		Width:  max[0] - min[0],
		Height: max[1] - min[1],
		Depth:  max[2] - min[2],
	}
}

// Contains reports whether the point lies inside the box on x and y (inclusive)
func (b BoundingBox) Contains(p Point2) bool {
	return p[0] >= b.MinX && p[0] <= b.MaxX && p[1] >= b.MinY && p[1] <= b.MaxY
}

// DimensionRecord is a dimension annotation read from a drawing
type DimensionRecord struct {
	Type              string  `json:"type"`
	SubType           string  `json:"sub_type"`
	Layer             string  `json:"layer"`
	Text              string  `json:"text"`
	ActualMeasurement float64 `json:"actual_measurement"`
	DimStyle          string  `json:"dimstyle"`
	DefPoint          *Point3 `json:"defpoint,omitempty"`
	TextMidpoint      *Point3 `json:"text_midpoint,omitempty"`
}

// Measurements aggregates drawing-wide figures
type Measurements struct {
	TotalEntities   int               `json:"total_entities"`
	BoundingBox     BoundingBox       `json:"bounding_box"`
	TotalLineLength float64           `json:"total_line_length"`
	TotalClosedArea float64           `json:"total_closed_area"`
	Dimensions      []DimensionRecord `json:"dimensions"`
}

// PreviewData is the kind-specific geometry of a preview entity.
// Implementations: LineData, PolylineData, CircleData, ArcData, TextData.
type PreviewData interface {
	isPreviewData()
}

// LineData is the preview payload of a LINE
type LineData struct {
	Start Point2 `json:"start"`
	End   Point2 `json:"end"`
}

// PolylineData is the preview payload of a LWPOLYLINE
type PolylineData struct {
	Points []Point2 `json:"points"`
	Closed bool     `json:"closed"`
}

// CircleData is the preview payload of a CIRCLE
type CircleData struct {
	Center Point2  `json:"center"`
	Radius float64 `json:"radius"`
}

// ArcData is the preview payload of an ARC
type ArcData struct {
	Center     Point2  `json:"center"`
	Radius     float64 `json:"radius"`
	StartAngle float64 `json:"start_angle"`
	EndAngle   float64 `json:"end_angle"`
}

// TextData is the preview payload of TEXT and MTEXT
type TextData struct {
	Position Point2  `json:"position"`
	Text     string  `json:"text"`
	Height   float64 `json:"height"`
	Rotation float64 `json:"rotation"`
}

func (LineData) isPreviewData() {}
func (PolylineData) isPreviewData() {}
func (CircleData) isPreviewData() {}
func (ArcData) isPreviewData() {}
func (TextData) isPreviewData() {}

// PreviewEntity is one renderable entity of the 2D preview
type PreviewEntity struct {
	Type  string      `json:"type"`
	Layer string      `json:"layer"`
	Color int         `json:"color"`
	Data  PreviewData `json:"data"`
}

// UnmarshalJSON decodes Data into the payload type matching Type
func (e *PreviewEntity) UnmarshalJSON(b []byte) error {
	var raw struct {
		Type  string          `json:"type"`
		Layer string          `json:"layer"`
		Color int             `json:"color"`
		Data  json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	var data PreviewData
	var err error
	switch raw.Type {
	case EntityLine:
		data, err = decodeData[LineData](raw.Data)
	case EntityPolyline:
		data, err = decodeData[PolylineData](raw.Data)
	case EntityCircle:
		data, err = decodeData[CircleData](raw.Data)
	case EntityArc:
		data, err = decodeData[ArcData](raw.Data)
	case EntityText, EntityMText:
		data, err = decodeData[TextData](raw.Data)
	default:
		return fmt.Errorf("unknown preview entity type %q", raw.Type)
	}
	if err != nil {
		return err
	}

	*e = PreviewEntity{Type: raw.Type, Layer: raw.Layer, Color: raw.Color, Data: data}
	return nil
}

func decodeData[T PreviewData](b json.RawMessage) (PreviewData, error) {
	var v T
	if err := json.Unmarshal(b, &v); err != nil {
		return nil, err
	}
	return v, nil
}

// PreviewGeometry is the full 2D preview of a drawing
type PreviewGeometry struct {
	BoundingBox BoundingBox     `json:"bounding_box"`
	Entities    []PreviewEntity `json:"entities"`
}
