package analysis

import (
	"errors"
	"fmt"

	"github.com/custodia-labs/dwg-dashboard/internal/core/domain"
)

var errMissingMeasurement = errors.New("dimension has no measurement")

// ExtractMeasurements combines layer totals, the bounding box and every
// readable DIMENSION entity. A dimension whose measurement cannot be
// determined is dropped; the rest of the extraction continues.
func ExtractMeasurements(d *domain.Drawing) (*domain.Measurements, error) {
	if err := checkDrawing(d); err != nil {
		return nil, err
	}

	box, err := ComputeBoundingBox(d)
	if err != nil {
		return nil, err
	}

	layers, err := AggregateLayers(d)
	if err != nil {
		return nil, err
	}

	var totalLength, totalArea float64
	for _, l := range layers {
		totalLength += l.LineLength
		totalArea += l.ClosedArea
	}

	dims := make([]domain.DimensionRecord, 0)
	for i, e := range d.Entities {
		dim, ok := e.(*domain.Dimension)
		if !ok {
			continue
		}
		rec, err := dimensionRecord(dim)
		if err != nil {
			log().Warn("skipping dimension", "index", i, "layer", dim.Layer(), "error", err)
			continue
		}
		dims = append(dims, rec)
	}

	return &domain.Measurements{
		TotalEntities:   len(d.Entities),
		BoundingBox:     box,
		TotalLineLength: round4(totalLength),
		TotalClosedArea: round4(totalArea),
		Dimensions:      dims,
	}, nil
}

func dimensionRecord(dim *domain.Dimension) (domain.DimensionRecord, error) {
	value, err := actualMeasurement(dim)
	if err != nil {
		return domain.DimensionRecord{}, err
	}

	rec := domain.DimensionRecord{
		Type:              dim.Type(),
		SubType:           dim.SubTypeName(),
		Layer:             dim.Layer(),
		Text:              dim.Text,
		ActualMeasurement: value,
		DimStyle:          dim.Style,
	}
	if dim.DefPoint != nil {
		p := *dim.DefPoint
		rec.DefPoint = &p
	}
	if dim.TextMidpoint != nil {
		p := *dim.TextMidpoint
		rec.TextMidpoint = &p
	}
	return rec, nil
}

// actualMeasurement prefers the stored measurement (group 42). Linear and
// aligned dimensions without one fall back to the distance between their
// two definition points.
func actualMeasurement(dim *domain.Dimension) (float64, error) {
	if dim.Measurement != nil {
		if !finite(*dim.Measurement) {
			return 0, fmt.Errorf("non-finite measurement %v", *dim.Measurement)
		}
		return *dim.Measurement, nil
	}

	switch dim.DimType & 0x07 {
	case domain.DimLinear, domain.DimAligned:
		if dim.DefPoint2 != nil && dim.DefPoint3 != nil {
			return distance2D(dim.DefPoint2.XY(), dim.DefPoint3.XY()), nil
		}
	}
	return 0, errMissingMeasurement
}
