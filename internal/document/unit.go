package document

import (
	"fmt"
	"strconv"
	"strings"
)

// UnitType is the measure a Unit value is expressed in. The zero value
// marks an unset unit.
type UnitType int

const (
	UnitNone UnitType = iota
	Point
	Centimeter
	Millimeter
	Inch
	Pica
)

// Unit is a length.
type Unit struct {
	Value float64
	Type  UnitType
}

func Pt(v float64) Unit { return Unit{v, Point} }
func Cm(v float64) Unit { return Unit{v, Centimeter} }
func Mm(v float64) Unit { return Unit{v, Millimeter} }
func In(v float64) Unit { return Unit{v, Inch} }

// IsSet reports whether the unit carries a value.
func (u Unit) IsSet() bool { return u.Type != UnitNone }

// Points converts the unit to points. An unset unit is zero.
func (u Unit) Points() float64 {
	switch u.Type {
	case Point:
		return u.Value
	case Centimeter:
		return u.Value * 72 / 2.54
	case Millimeter:
		return u.Value * 72 / 25.4
	case Inch:
		return u.Value * 72
	case Pica:
		return u.Value * 12
	}
	return 0
}

// Centimeters converts the unit to centimeters.
func (u Unit) Centimeters() float64 {
	if u.Type == Centimeter {
		return u.Value
	}
	return u.Points() * 2.54 / 72
}

func (u Unit) String() string {
	suffix := map[UnitType]string{Point: "pt", Centimeter: "cm", Millimeter: "mm", Inch: "in", Pica: "pc"}[u.Type]
	if suffix == "" {
		return "unset"
	}
	return strconv.FormatFloat(u.Value, 'f', -1, 64) + suffix
}

var unitSuffixes = []struct {
	suffix string
	typ    UnitType
}{
	{"cm", Centimeter},
	{"mm", Millimeter},
	{"in", Inch},
	{"pt", Point},
	{"pc", Pica},
}

// ParseUnit parses "12", "12pt", "2.5cm", "10mm", "1in" or "3pc". A bare
// number is in points.
func ParseUnit(s string) (Unit, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	typ := Point
	for _, us := range unitSuffixes {
		if strings.HasSuffix(v, us.suffix) {
			v = strings.TrimSpace(strings.TrimSuffix(v, us.suffix))
			typ = us.typ
			break
		}
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return Unit{}, fmt.Errorf("invalid unit %q", s)
	}
	return Unit{f, typ}, nil
}
