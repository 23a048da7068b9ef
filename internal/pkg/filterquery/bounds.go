package filterquery

import (
	"errors"
	"math"
)

// Bounds describes the search controls: the price slider range and step and
// the property types a listing may carry.
type Bounds struct {
	MinPrice      float64  `json:"min_price"`
	MaxPrice      float64  `json:"max_price"`
	Step          float64  `json:"step"`
	PropertyTypes []string `json:"property_types"`
}

func DefaultBounds() Bounds {
	return Bounds{
		MinPrice:      0,
		MaxPrice:      3000,
		Step:          50,
		PropertyTypes: []string{"apartment", "studio", "room", "house", "shared"},
	}
}

func (b Bounds) Validate() error {
	if b.MaxPrice <= b.MinPrice {
		return errors.New("filter bounds: max price must be greater than min price")
	}
	if b.Step <= 0 {
		return errors.New("filter bounds: step must be positive")
	}
	if len(b.PropertyTypes) == 0 {
		return errors.New("filter bounds: at least one property type is required")
	}
	return nil
}

// AllowsType reports whether t is one of the configured property types.
func (b Bounds) AllowsType(t string) bool {
	for _, allowed := range b.PropertyTypes {
		if allowed == t {
			return true
		}
	}
	return false
}

func (b Bounds) clamp(v float64) float64 {
	return math.Min(math.Max(v, b.MinPrice), b.MaxPrice)
}

// quantize snaps v to the nearest step counted from MinPrice.
func (b Bounds) quantize(v float64) float64 {
	steps := math.Round((v - b.MinPrice) / b.Step)
	return b.clamp(b.MinPrice + steps*b.Step)
}
