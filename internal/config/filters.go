package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"student-housing/internal/pkg/filterquery"
)

type filtersFile struct {
	Price struct {
		Min  float64 `yaml:"min"`
		Max  float64 `yaml:"max"`
		Step float64 `yaml:"step"`
	} `yaml:"price"`
	PropertyTypes []string `yaml:"property_types"`
}

// LoadFilterBounds reads the search control bounds. A missing file yields the
// built-in defaults so a bare checkout still starts.
func LoadFilterBounds(path string) (filterquery.Bounds, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return filterquery.DefaultBounds(), nil
	}
	if err != nil {
		return filterquery.Bounds{}, err
	}
	return parseFilterBounds(data)
}

func parseFilterBounds(data []byte) (filterquery.Bounds, error) {
	var file filtersFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return filterquery.Bounds{}, fmt.Errorf("failed to parse filters file: %w", err)
	}

	bounds := filterquery.DefaultBounds()
	if file.Price.Max > 0 {
		bounds.MinPrice = file.Price.Min
		bounds.MaxPrice = file.Price.Max
	}
	if file.Price.Step > 0 {
		bounds.Step = file.Price.Step
	}
	if len(file.PropertyTypes) > 0 {
		bounds.PropertyTypes = file.PropertyTypes
	}

	if err := bounds.Validate(); err != nil {
		return filterquery.Bounds{}, err
	}
	return bounds, nil
}
