package shape

import (
	"fmt"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Record is the structured, serializable form of a Shape.
type Record struct {
	Type       Kind           `json:"type" yaml:"type"`
	Position   [3]float64     `json:"position" yaml:"position"`
	Params     map[string]any `json:"params" yaml:"params"`
	IsNegative bool           `json:"is_negative" yaml:"is_negative"`
	Confidence float64        `json:"confidence" yaml:"confidence"`
}

func array(v v3.Vec) [3]float64 {
	return [3]float64{v.X, v.Y, v.Z}
}

// ToRecord converts a shape to its record form.
func ToRecord(s Shape) Record {
	r := Record{
		Type:       s.Kind(),
		Position:   array(s.Position()),
		IsNegative: s.Negative(),
		Confidence: s.Confidence(),
	}
	switch v := s.(type) {
	case Box:
		r.Params = map[string]any{
			"dimensions": array(v.Dimensions),
			"rotation":   array(v.Rotation),
		}
	case RoundedBox:
		r.Params = map[string]any{
			"dimensions":    array(v.Dimensions),
			"corner_radius": v.CornerRadius,
			"rotation":      array(v.Rotation),
		}
	case Cylinder:
		r.Params = map[string]any{
			"radius": v.Radius,
			"height": v.Height,
			"axis":   array(v.Axis),
		}
	case Sphere:
		r.Params = map[string]any{
			"radius": v.Radius,
		}
	default:
		panic(fmt.Sprintf("shape: unknown shape type %T", s))
	}
	return r
}

// ToRecords converts every shape, preserving order. The result is never nil.
func ToRecords(shapes []Shape) []Record {
	records := make([]Record, 0, len(shapes))
	for _, s := range shapes {
		records = append(records, ToRecord(s))
	}
	return records
}
