package models

import (
	"encoding/json"
	"fmt"
)

// ============================================================
// Array encoding
// ============================================================

func (p Point) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]float64{p.X, p.Y})
}

func (p *Point) UnmarshalJSON(data []byte) error {
	var arr []float64
	if err := json.Unmarshal(data, &arr); err != nil {
		return fmt.Errorf("point: %w", err)
	}
	if len(arr) != 2 {
		return fmt.Errorf("point: expected 2 components, got %d", len(arr))
	}
	p.X, p.Y = arr[0], arr[1]
	return nil
}

func (v Vec3) MarshalJSON() ([]byte, error) {
	return json.Marshal([3]float64{v.X, v.Y, v.Z})
}

func (v *Vec3) UnmarshalJSON(data []byte) error {
	var arr []float64
	if err := json.Unmarshal(data, &arr); err != nil {
		return fmt.Errorf("vec3: %w", err)
	}
	if len(arr) != 3 {
		return fmt.Errorf("vec3: expected 3 components, got %d", len(arr))
	}
	v.X, v.Y, v.Z = arr[0], arr[1], arr[2]
	return nil
}
