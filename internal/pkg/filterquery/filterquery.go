// Package filterquery turns search control state into a canonical
// domain.FilterOptions and back into URL query parameters.
//
// The canonical form of an unset bedroom or bathroom minimum is nil. It is
// encoded by omitting the parameter; the "any" sentinel is accepted when
// decoding but never produced, so Decode(Encode(x)) == x for every
// normalized x.
package filterquery

import (
	"errors"
	"fmt"
	"math"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"student-housing/internal/domain"
)

const (
	ParamSearch   = "search"
	ParamTypes    = "types"
	ParamMinPrice = "minPrice"
	ParamMaxPrice = "maxPrice"
	ParamBeds     = "beds"
	ParamBaths    = "baths"

	anySentinel = "any"
)

var ErrInvalidFilter = errors.New("invalid filter")

type ParseError struct {
	Param string
	Value string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid value %q for filter parameter %s", e.Value, e.Param)
}

func (e *ParseError) Unwrap() error {
	return ErrInvalidFilter
}

// Default returns the filter that matches every listing within bounds.
func Default(b Bounds) domain.FilterOptions {
	return domain.FilterOptions{PriceRange: [2]float64{b.MinPrice, b.MaxPrice}}
}

// Normalize clamps and quantizes the price range, canonicalizes the type set
// and rejects values the controls could never produce.
func Normalize(opts domain.FilterOptions, b Bounds) (domain.FilterOptions, error) {
	out := domain.FilterOptions{
		Search:    strings.TrimSpace(opts.Search),
		Bedrooms:  opts.Bedrooms,
		Bathrooms: opts.Bathrooms,
	}

	lo, hi := opts.PriceRange[0], opts.PriceRange[1]
	if !isFinite(lo) {
		return domain.FilterOptions{}, &ParseError{Param: ParamMinPrice, Value: formatFloat(lo)}
	}
	if !isFinite(hi) {
		return domain.FilterOptions{}, &ParseError{Param: ParamMaxPrice, Value: formatFloat(hi)}
	}
	lo, hi = b.quantize(lo), b.quantize(hi)
	if lo > hi {
		lo, hi = hi, lo
	}
	out.PriceRange = [2]float64{lo, hi}

	types, err := normalizeTypes(opts.PropertyTypes, b)
	if err != nil {
		return domain.FilterOptions{}, err
	}
	out.PropertyTypes = types

	if out.Bedrooms != nil && *out.Bedrooms < 0 {
		return domain.FilterOptions{}, &ParseError{Param: ParamBeds, Value: strconv.Itoa(*out.Bedrooms)}
	}
	if out.Bathrooms != nil && *out.Bathrooms < 0 {
		return domain.FilterOptions{}, &ParseError{Param: ParamBaths, Value: strconv.Itoa(*out.Bathrooms)}
	}

	return out, nil
}

func normalizeTypes(types []string, b Bounds) ([]string, error) {
	seen := make(map[string]struct{}, len(types))
	var out []string
	for _, t := range types {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if !b.AllowsType(t) {
			return nil, &ParseError{Param: ParamTypes, Value: t}
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	sort.Strings(out)
	return out, nil
}

// Encode renders a filter as URL query parameters. Price bounds are always
// present; empty search, empty type sets and unset minimums are omitted.
func Encode(opts domain.FilterOptions) url.Values {
	values := url.Values{}
	if opts.Search != "" {
		values.Set(ParamSearch, opts.Search)
	}
	if len(opts.PropertyTypes) > 0 {
		values.Set(ParamTypes, strings.Join(opts.PropertyTypes, ","))
	}
	values.Set(ParamMinPrice, formatFloat(opts.PriceRange[0]))
	values.Set(ParamMaxPrice, formatFloat(opts.PriceRange[1]))
	if opts.Bedrooms != nil {
		values.Set(ParamBeds, strconv.Itoa(*opts.Bedrooms))
	}
	if opts.Bathrooms != nil {
		values.Set(ParamBaths, strconv.Itoa(*opts.Bathrooms))
	}
	return values
}

// Decode parses URL query parameters into a normalized filter. Malformed
// numbers are reported as *ParseError rather than coerced.
func Decode(values url.Values, b Bounds) (domain.FilterOptions, error) {
	opts := domain.FilterOptions{
		Search:     values.Get(ParamSearch),
		PriceRange: [2]float64{b.MinPrice, b.MaxPrice},
	}

	if raw := values.Get(ParamTypes); raw != "" {
		opts.PropertyTypes = strings.Split(raw, ",")
	}

	var err error
	if opts.PriceRange[0], err = decodePrice(values, ParamMinPrice, b.MinPrice); err != nil {
		return domain.FilterOptions{}, err
	}
	if opts.PriceRange[1], err = decodePrice(values, ParamMaxPrice, b.MaxPrice); err != nil {
		return domain.FilterOptions{}, err
	}
	if opts.Bedrooms, err = decodeMinimum(values, ParamBeds); err != nil {
		return domain.FilterOptions{}, err
	}
	if opts.Bathrooms, err = decodeMinimum(values, ParamBaths); err != nil {
		return domain.FilterOptions{}, err
	}

	return Normalize(opts, b)
}

func decodePrice(values url.Values, param string, fallback float64) (float64, error) {
	raw := strings.TrimSpace(values.Get(param))
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || !isFinite(v) {
		return 0, &ParseError{Param: param, Value: raw}
	}
	return v, nil
}

func decodeMinimum(values url.Values, param string) (*int, error) {
	raw := strings.TrimSpace(values.Get(param))
	if raw == "" || strings.EqualFold(raw, anySentinel) {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, &ParseError{Param: param, Value: raw}
	}
	return &v, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
