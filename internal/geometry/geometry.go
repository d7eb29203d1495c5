// File: internal/geometry/geometry.go
package geometry

import (
	"errors"
	"fmt"
)

// The normalized coordinate space is resolution independent: both axes run
// from 0 to 1000 and are mapped linearly onto device pixels at action time.
const (
	SpaceMin = 0.0
	SpaceMax = 1000.0
)

// ErrInvalidBox reports a target descriptor that matches none of the accepted
// shapes. The message doubles as the guidance surfaced back to the model.
var ErrInvalidBox = errors.New("box must be [x,y], [x1,y1,x2,y2], or [[x1,y1],[x2,y2]]")

// Region is an axis-aligned box in the normalized space. The constructors in
// this package guarantee X1 <= X2 and Y1 <= Y2 with every value clamped into
// [0,1000]. A point target is a degenerate region with X1 == X2, Y1 == Y2.
type Region struct {
	X1, Y1, X2, Y2 float64
}

// IsPoint reports whether the region is degenerate.
func (r Region) IsPoint() bool { return r.X1 == r.X2 && r.Y1 == r.Y2 }

// Center returns the arithmetic midpoint of the region. For a point region
// this is the point itself.
func (r Region) Center() (cx, cy float64) {
	return (r.X1 + r.X2) / 2.0, (r.Y1 + r.Y2) / 2.0
}

// ParseRegion parses a target descriptor decoded from tool-call arguments.
// Models deliver targets in one of three shapes, tried in this order:
//
//	[x, y]                point target (preferred)
//	[x1, y1, x2, y2]      flat bounding box
//	[[x1, y1], [x2, y2]]  legacy pair-of-pairs bounding box
//
// Coordinates are clamped into [0,1000] and reordered so the returned region
// is always well formed, whatever the model hallucinated. Anything that is
// not one of the shapes above yields ErrInvalidBox.
func ParseRegion(descriptor any) (Region, error) {
	seq, ok := descriptor.([]any)
	if !ok {
		return Region{}, ErrInvalidBox
	}

	switch len(seq) {
	case 2:
		// Point target, unless the elements are themselves pairs.
		if x, y, ok := numberPair(seq[0], seq[1]); ok {
			x, y = clamp(x), clamp(y)
			return Region{X1: x, Y1: y, X2: x, Y2: y}, nil
		}
		return parseLegacyPairs(seq)
	case 4:
		vals := make([]float64, 4)
		for i, v := range seq {
			n, ok := asNumber(v)
			if !ok {
				return Region{}, ErrInvalidBox
			}
			vals[i] = n
		}
		return newRegion(vals[0], vals[1], vals[2], vals[3]), nil
	default:
		return Region{}, ErrInvalidBox
	}
}

// parseLegacyPairs handles the [[x1,y1],[x2,y2]] shape.
func parseLegacyPairs(seq []any) (Region, error) {
	p1, ok1 := seq[0].([]any)
	p2, ok2 := seq[1].([]any)
	if !ok1 || !ok2 || len(p1) != 2 || len(p2) != 2 {
		return Region{}, ErrInvalidBox
	}
	x1, y1, ok1 := numberPair(p1[0], p1[1])
	x2, y2, ok2 := numberPair(p2[0], p2[1])
	if !ok1 || !ok2 {
		return Region{}, ErrInvalidBox
	}
	return newRegion(x1, y1, x2, y2), nil
}

// newRegion clamps and orders the corner coordinates.
func newRegion(x1, y1, x2, y2 float64) Region {
	x1, y1, x2, y2 = clamp(x1), clamp(y1), clamp(x2), clamp(y2)
	if x1 > x2 {
		x1, x2 = x2, x1
	}
	if y1 > y2 {
		y1, y2 = y2, y1
	}
	return Region{X1: x1, Y1: y1, X2: x2, Y2: y2}
}

// ToPixels maps a normalized point onto a device pixel plane of the given
// dimensions. Rounding is left to the capability surface.
func ToPixels(cx, cy float64, width, height int) (px, py float64) {
	return cx / SpaceMax * float64(width), cy / SpaceMax * float64(height)
}

func clamp(v float64) float64 {
	return max(SpaceMin, min(SpaceMax, v))
}

func numberPair(a, b any) (x, y float64, ok bool) {
	x, okA := asNumber(a)
	y, okB := asNumber(b)
	return x, y, okA && okB
}

// asNumber accepts the numeric representations a decoded JSON argument blob
// can carry.
func asNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case interface{ Float64() (float64, error) }: // json.Number
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

// String implements fmt.Stringer for log fields.
func (r Region) String() string {
	return fmt.Sprintf("[%.1f,%.1f,%.1f,%.1f]", r.X1, r.Y1, r.X2, r.Y2)
}
