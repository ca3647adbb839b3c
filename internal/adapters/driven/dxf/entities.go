package dxf

import (
	"math"
	"strings"

	"github.com/custodia-labs/dwg-dashboard/internal/core/domain"
)

const (
	defaultLayer    = "0"
	defaultDimStyle = "Standard"
)

// decoder collects the type-specific groups of one entity
type decoder interface {
	apply(t tag) error
	build(base domain.EntityBase) domain.Entity
}

// boundsReporter is implemented by decoders holding geometry that is not
// kept on the resulting entity but still counts towards the extents
type boundsReporter interface {
	boundaryPoints() []domain.Point3
}

var decoders = map[string]func() decoder{
	domain.EntityLine:      func() decoder { return &lineDecoder{} },
	domain.EntityPolyline:  func() decoder { return &polylineDecoder{} },
	domain.EntityCircle:    func() decoder { return &circleDecoder{} },
	domain.EntityArc:       func() decoder { return &arcDecoder{} },
	domain.EntityText:      func() decoder { return &textDecoder{} },
	domain.EntityMText:     func() decoder { return &mtextDecoder{} },
	domain.EntityHatch:     func() decoder { return &hatchDecoder{} },
	domain.EntityDimension: func() decoder { return &dimensionDecoder{} },
}

// subEntities belong to the entity before them and are not listed on their own
var subEntities = map[string]bool{
	"VERTEX": true,
	"SEQEND": true,
	"ATTRIB": true,
}

// pending is the entity currently being read from the ENTITIES section
type pending struct {
	kind  string
	base  domain.EntityBase
	paper bool
	dec   decoder
}

func newPending(kind string) *pending {
	p := &pending{
		kind: kind,
		base: domain.EntityBase{LayerName: defaultLayer},
	}
	if newDec, ok := decoders[kind]; ok {
		p.dec = newDec()
	}
	return p
}

func (p *pending) apply(t tag) error {
	switch t.code {
	case 8:
		p.base.LayerName = t.str()
		return nil
	case 62:
		c, err := t.int()
		if err != nil {
			return err
		}
		p.base.Color = &c
		return nil
	case 67:
		v, err := t.int()
		if err != nil {
			return err
		}
		p.paper = v == 1
		return nil
	}
	if p.dec == nil {
		return nil
	}
	return p.dec.apply(t)
}

func (p *pending) entity() domain.Entity {
	if p.dec == nil {
		return &domain.OtherEntity{EntityBase: p.base, Kind: p.kind}
	}
	return p.dec.build(p.base)
}

type lineDecoder struct {
	start, end domain.Point3
}

func (d *lineDecoder) apply(t tag) error {
	if ok, err := coord(&d.start, t, 10); ok {
		return err
	}
	_, err := coord(&d.end, t, 11)
	return err
}

func (d *lineDecoder) build(base domain.EntityBase) domain.Entity {
	return &domain.Line{EntityBase: base, Start: d.start, End: d.end}
}

type polylineDecoder struct {
	vertices  []domain.Point2
	flags     int
	elevation float64
}

func (d *polylineDecoder) apply(t tag) error {
	var err error
	switch t.code {
	case 10:
		var x float64
		if x, err = t.float(); err == nil {
			d.vertices = append(d.vertices, domain.Point2{x, 0})
		}
	case 20:
		var y float64
		if y, err = t.float(); err == nil && len(d.vertices) > 0 {
			d.vertices[len(d.vertices)-1][1] = y
		}
	case 38:
		d.elevation, err = t.float()
	case 70:
		d.flags, err = t.int()
	}
	return err
}

func (d *polylineDecoder) build(base domain.EntityBase) domain.Entity {
	return &domain.Polyline{
		EntityBase: base,
		Vertices:   d.vertices,
		Closed:     d.flags&1 != 0,
		Elevation:  d.elevation,
	}
}

type circleDecoder struct {
	center domain.Point3
	radius float64
}

func (d *circleDecoder) apply(t tag) error {
	if ok, err := coord(&d.center, t, 10); ok {
		return err
	}
	if t.code == 40 {
		var err error
		d.radius, err = t.float()
		return err
	}
	return nil
}

func (d *circleDecoder) build(base domain.EntityBase) domain.Entity {
	return &domain.Circle{EntityBase: base, Center: d.center, Radius: d.radius}
}

type arcDecoder struct {
	circleDecoder
	startAngle, endAngle float64
}

func (d *arcDecoder) apply(t tag) error {
	var err error
	switch t.code {
	case 50:
		d.startAngle, err = t.float()
	case 51:
		d.endAngle, err = t.float()
	default:
		err = d.circleDecoder.apply(t)
	}
	return err
}

func (d *arcDecoder) build(base domain.EntityBase) domain.Entity {
	return &domain.Arc{
		EntityBase: base,
		Center:     d.center,
		Radius:     d.radius,
		StartAngle: d.startAngle,
		EndAngle:   d.endAngle,
	}
}

type textDecoder struct {
	insert   domain.Point3
	value    string
	height   float64
	rotation *float64
}

func (d *textDecoder) apply(t tag) error {
	if ok, err := coord(&d.insert, t, 10); ok {
		return err
	}
	var err error
	switch t.code {
	case 1:
		d.value = t.value
	case 40:
		d.height, err = t.float()
	case 50:
		d.rotation, err = floatPtr(t)
	}
	return err
}

func (d *textDecoder) build(base domain.EntityBase) domain.Entity {
	return &domain.Text{
		EntityBase: base,
		Insert:     d.insert,
		Value:      d.value,
		Height:     d.height,
		Rotation:   d.rotation,
	}
}

// mtextDecoder reads MTEXT, whose content may be split over any number of
// group 3 chunks followed by a final group 1
type mtextDecoder struct {
	insert     domain.Point3
	chunks     []string
	last       string
	charHeight float64
	rotation   *float64
	direction  *domain.Point3
}

func (d *mtextDecoder) apply(t tag) error {
	if ok, err := coord(&d.insert, t, 10); ok {
		return err
	}
	if ok, err := optCoord(&d.direction, t, 11); ok {
		return err
	}
	var err error
	switch t.code {
	case 1:
		d.last = t.value
	case 3:
		d.chunks = append(d.chunks, t.value)
	case 40:
		d.charHeight, err = t.float()
	case 50:
		d.rotation, err = floatPtr(t)
	}
	return err
}

func (d *mtextDecoder) build(base domain.EntityBase) domain.Entity {
	rotation := d.rotation
	// The text direction vector, when present, overrides the rotation angle
	if d.direction != nil && (d.direction[0] != 0 || d.direction[1] != 0) {
		deg := math.Atan2(d.direction[1], d.direction[0]) * 180 / math.Pi
		rotation = &deg
	}
	return &domain.MText{
		EntityBase: base,
		Insert:     d.insert,
		Value:      strings.Join(d.chunks, "") + d.last,
		CharHeight: d.charHeight,
		Rotation:   rotation,
	}
}

type dimensionDecoder struct {
	dim domain.Dimension
}

func (d *dimensionDecoder) apply(t tag) error {
	if ok, err := optCoord(&d.dim.DefPoint, t, 10); ok {
		return err
	}
	if ok, err := optCoord(&d.dim.TextMidpoint, t, 11); ok {
		return err
	}
	if ok, err := optCoord(&d.dim.DefPoint2, t, 13); ok {
		return err
	}
	if ok, err := optCoord(&d.dim.DefPoint3, t, 14); ok {
		return err
	}

	var err error
	switch t.code {
	case 1:
		d.dim.Text = t.value
	case 3:
		d.dim.Style = t.str()
	case 42:
		d.dim.Measurement, err = floatPtr(t)
	case 70:
		d.dim.DimType, err = t.int()
	}
	return err
}

func (d *dimensionDecoder) build(base domain.EntityBase) domain.Entity {
	dim := d.dim
	dim.EntityBase = base
	if dim.Style == "" {
		dim.Style = defaultDimStyle
	}
	return &dim
}
