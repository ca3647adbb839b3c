package domain

// DefaultColorIndex is the ACI value used when an entity carries no color ("White/Black")
const DefaultColorIndex = 7

// Entity type names as they appear in DXF files
const (
	EntityLine      = "LINE"
	EntityPolyline  = "LWPOLYLINE"
	EntityCircle    = "CIRCLE"
	EntityArc       = "ARC"
	EntityText      = "TEXT"
	EntityMText     = "MTEXT"
	EntityHatch     = "HATCH"
	EntityDimension = "DIMENSION"
)

// Point2 is a 2D coordinate. It serializes as [x, y].
type Point2 [2]float64

// X returns the x coordinate
func (p Point2) X() float64 { return p[0] }

// Y returns the y coordinate
func (p Point2) Y() float64 { return p[1] }

// Point3 is a 3D coordinate. It serializes as [x, y, z].
type Point3 [3]float64

// XY drops the z coordinate
func (p Point3) XY() Point2 { return Point2{p[0], p[1]} }

// Extents is an axis-aligned min/max pair as reported by a parser
type Extents struct {
	Min Point3
	Max Point3
}

// Drawing is a parsed CAD document: the modelspace entities and the layer table.
// It is treated as an immutable snapshot by everything that reads it.
type Drawing struct {
	// Version is the $ACADVER header value, if known
	Version  string
	Entities []Entity
	Layers   []Layer

	// Extents is the parser's precise extents over all entities.
	// Nil when the parser did not compute it.
	Extents *Extents
}

// Layer is an entry of the drawing's layer table
type Layer struct {
	Name  string
	Color int
	Off   bool
}

// Entity is one modelspace entity. The set of implementations is closed;
// use a type switch over the concrete pointer types.
type Entity interface {
	// Type returns the DXF entity type name
	Type() string
	// Layer returns the name of the layer the entity is on
	Layer() string
	// ColorIndex returns the ACI color, DefaultColorIndex when unset
	ColorIndex() int

	isEntity()
}

// EntityBase holds the attributes shared by every entity
type EntityBase struct {
	LayerName string
	Color     *int
}

// Layer returns the layer name
func (b EntityBase) Layer() string { return b.LayerName }

// ColorIndex returns the entity color or DefaultColorIndex
func (b EntityBase) ColorIndex() int {
	if b.Color == nil {
		return DefaultColorIndex
	}
	return *b.Color
}

func (EntityBase) isEntity() {}

// Line is a straight segment
type Line struct {
	EntityBase
	Start Point3
	End   Point3
}

// Polyline is a lightweight polyline (LWPOLYLINE)
type Polyline struct {
	EntityBase
	Vertices  []Point2
	Closed    bool
	Elevation float64
}

// Circle is a full circle
type Circle struct {
	EntityBase
	Center Point3
	Radius float64
}

// Arc is a circular arc; angles are in degrees, counter-clockwise
type Arc struct {
	EntityBase
	Center     Point3
	Radius     float64
	StartAngle float64
	EndAngle   float64
}

// Text is a single-line text entity
type Text struct {
	EntityBase
	Insert   Point3
	Value    string
	Height   float64
	Rotation *float64
}

// MText is a multi-line text entity
type MText struct {
	EntityBase
	Insert     Point3
	Value      string
	CharHeight float64
	Rotation   *float64
}

// Hatch is a filled region. Area is nil when the boundary could not be measured.
type Hatch struct {
	EntityBase
	Pattern string
	Solid   bool
	Area    *float64
}

// Dimension is a dimension annotation. Which points are present depends on
// the dimension sub-type.
type Dimension struct {
	EntityBase
	DimType      int
	Text         string
	Measurement  *float64
	Style        string
	DefPoint     *Point3
	TextMidpoint *Point3
	DefPoint2    *Point3
	DefPoint3    *Point3
}

// OtherEntity is any entity type not modelled above
type OtherEntity struct {
	EntityBase
	Kind string
}

func (*Line) Type() string { return EntityLine }
func (*Polyline) Type() string { return EntityPolyline }
func (*Circle) Type() string { return EntityCircle }
func (*Arc) Type() string { return EntityArc }
func (*Text) Type() string { return EntityText }
func (*MText) Type() string { return EntityMText }
func (*Hatch) Type() string { return EntityHatch }
func (*Dimension) Type() string { return EntityDimension }
func (e *OtherEntity) Type() string { return e.Kind }

// Dimension sub-types, the low three bits of group code 70
const (
	DimLinear    = 0
	DimAligned   = 1
	DimAngular   = 2
	DimDiameter  = 3
	DimRadius    = 4
	DimAngular3P = 5
	DimOrdinate  = 6
)

// SubTypeName returns a readable name for the dimension sub-type
func (d *Dimension) SubTypeName() string {
	switch d.DimType & 0x07 {
	case DimLinear:
		return "linear"
	case DimAligned:
		return "aligned"
	case DimAngular:
		return "angular"
	case DimDiameter:
		return "diameter"
	case DimRadius:
		return "radius"
	case DimAngular3P:
		return "angular3p"
	case DimOrdinate:
		return "ordinate"
	default:
		return "unknown"
	}
}
