package temporal

import (
	"math"
	"strconv"
)

// Domain identifies the value domain of a temporal value.
type Domain uint8

const (
	DomainBool Domain = iota + 1
	DomainInt
	DomainFloat
	DomainText
	DomainPoint
)

func (d Domain) String() string {
	switch d {
	case DomainBool:
		return "bool"
	case DomainInt:
		return "int"
	case DomainFloat:
		return "float"
	case DomainText:
		return "text"
	case DomainPoint:
		return "point"
	default:
		return "unknown"
	}
}

// LinearCapable reports whether values of the domain can be interpolated
// linearly. Integers, booleans and text are step or discrete only.
func (d Domain) LinearCapable() bool {
	return d == DomainFloat || d == DomainPoint
}

// Value is the closed set of base values a temporal object can carry.
type Value interface {
	Domain() Domain
	Equal(other Value) bool
	String() string
}

type Bool bool

func (v Bool) Domain() Domain { return DomainBool }

func (v Bool) Equal(other Value) bool {
	o, ok := other.(Bool)

	return ok && o == v
}

func (v Bool) String() string {
	if v {
		return "t"
	}

	return "f"
}

type Int int64

func (v Int) Domain() Domain { return DomainInt }

func (v Int) Equal(other Value) bool {
	o, ok := other.(Int)

	return ok && o == v
}

func (v Int) String() string {
	return strconv.FormatInt(int64(v), 10)
}

type Float float64

func (v Float) Domain() Domain { return DomainFloat }

func (v Float) Equal(other Value) bool {
	o, ok := other.(Float)

	return ok && o == v
}

func (v Float) String() string {
	return strconv.FormatFloat(float64(v), 'g', -1, 64)
}

type Text string

func (v Text) Domain() Domain { return DomainText }

func (v Text) Equal(other Value) bool {
	o, ok := other.(Text)

	return ok && o == v
}

func (v Text) String() string {
	return strconv.Quote(string(v))
}

// Point is a planar position. Geodetic interpretation is up to the Metric
// used to measure it.
type Point struct {
	X float64
	Y float64
}

func (v Point) Domain() Domain { return DomainPoint }

func (v Point) Equal(other Value) bool {
	o, ok := other.(Point)

	return ok && o == v
}

func (v Point) String() string {
	return "POINT(" + strconv.FormatFloat(v.X, 'g', -1, 64) + " " +
		strconv.FormatFloat(v.Y, 'g', -1, 64) + ")"
}

func (v Point) Add(o Point) Point {
	return Point{X: v.X + o.X, Y: v.Y + o.Y}
}

func (v Point) Sub(o Point) Point {
	return Point{X: v.X - o.X, Y: v.Y - o.Y}
}

func (v Point) Scale(f float64) Point {
	return Point{X: v.X * f, Y: v.Y * f}
}

// Metric measures the distance between two points. Geodetic projections
// plug in here; the library itself only ships the planar metric.
type Metric interface {
	Distance(a, b Point) float64
}

// PlanarMetric is the straight-line euclidean metric.
type PlanarMetric struct{}

func (PlanarMetric) Distance(a, b Point) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y

	return math.Sqrt(dx*dx + dy*dy)
}

// domainOf returns the domain of the type parameter without an instance.
func domainOf[V Value]() Domain {
	var zero V

	return zero.Domain()
}

// compareValue orders two values of the same domain: booleans false first,
// numbers and text naturally, points lexicographically by (X, Y).
func compareValue(a, b Value) int {
	switch x := a.(type) {
	case Bool:
		y, _ := b.(Bool)

		switch {
		case x == y:
			return 0
		case !bool(x):
			return -1
		default:
			return 1
		}
	case Int:
		y, _ := b.(Int)

		switch {
		case x < y:
			return -1
		case x > y:
			return 1
		default:
			return 0
		}
	case Float:
		y, _ := b.(Float)

		switch {
		case x < y:
			return -1
		case x > y:
			return 1
		default:
			return 0
		}
	case Text:
		y, _ := b.(Text)

		switch {
		case x < y:
			return -1
		case x > y:
			return 1
		default:
			return 0
		}
	case Point:
		y, _ := b.(Point)

		switch {
		case x.X < y.X:
			return -1
		case x.X > y.X:
			return 1
		case x.Y < y.Y:
			return -1
		case x.Y > y.Y:
			return 1
		default:
			return 0
		}
	default:
		return 0
	}
}

// numericValue extracts a float64 from numeric domains.
func numericValue(v Value) (float64, bool) {
	switch x := v.(type) {
	case Int:
		return float64(x), true
	case Float:
		return float64(x), true
	default:
		return 0, false
	}
}
