// params.go maps typed search parameters onto the BODIK query grammar.
//
// The external API's parameter names (maxResults, municipalityCode, ...)
// are the compatibility boundary with a service outside our control, so
// encoding preserves them exactly. Everything arriving from a tool call
// is validated here before any request is built.

package bodik

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"
)

// apinamePattern matches dataset identifiers as published in the BODIK
// catalogue. It doubles as an injection guard: apiname becomes a URL
// path segment.
var apinamePattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]*$`)

// ValidateAPIName checks that apiname is present and safe to place in a
// request path.
func ValidateAPIName(apiname string) error {
	if apiname == "" {
		return fmt.Errorf("%w: apiname is required", ErrValidation)
	}
	if !apinamePattern.MatchString(apiname) {
		return fmt.Errorf("%w: invalid apiname %q", ErrValidation, apiname)
	}
	return nil
}

// SearchParams holds the supported GET search filters. All fields are
// optional; Lat/Lon are pointers because 0 is a valid coordinate.
type SearchParams struct {
	SelectType       string
	MaxResults       int
	StartIndex       int
	Lat              *float64
	Lon              *float64
	Distance         int // metres from (Lat, Lon)
	MunicipalityCode string
	MunicipalityName string
	Name             string

	// Filters carries additional attribute-equality pairs passed
	// through verbatim, since each dataset defines its own fields.
	Filters map[string]string
}

// Validate checks ranges and cross-field constraints.
func (p SearchParams) Validate() error {
	if p.MaxResults < 0 {
		return fmt.Errorf("%w: maxResults must not be negative, got %d", ErrValidation, p.MaxResults)
	}
	if p.StartIndex < 0 {
		return fmt.Errorf("%w: startIndex must not be negative, got %d", ErrValidation, p.StartIndex)
	}
	if p.Distance < 0 {
		return fmt.Errorf("%w: distance must not be negative, got %d", ErrValidation, p.Distance)
	}
	if p.Lat != nil && (*p.Lat < -90 || *p.Lat > 90) {
		return fmt.Errorf("%w: lat must be between -90 and 90, got %v", ErrValidation, *p.Lat)
	}
	if p.Lon != nil && (*p.Lon < -180 || *p.Lon > 180) {
		return fmt.Errorf("%w: lon must be between -180 and 180, got %v", ErrValidation, *p.Lon)
	}
	if (p.Lat == nil) != (p.Lon == nil) {
		return fmt.Errorf("%w: lat and lon must be provided together", ErrValidation)
	}
	if p.Distance > 0 && p.Lat == nil {
		return fmt.Errorf("%w: distance requires lat and lon", ErrValidation)
	}
	return nil
}

// Values encodes the parameters as BODIK query parameters.
func (p SearchParams) Values() (url.Values, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	q := url.Values{}
	if p.SelectType != "" {
		q.Set("select_type", p.SelectType)
	}
	if p.MaxResults > 0 {
		q.Set("maxResults", strconv.Itoa(p.MaxResults))
	}
	if p.StartIndex > 0 {
		q.Set("startIndex", strconv.Itoa(p.StartIndex))
	}
	if p.Lat != nil {
		q.Set("lat", strconv.FormatFloat(*p.Lat, 'f', -1, 64))
		q.Set("lon", strconv.FormatFloat(*p.Lon, 'f', -1, 64))
	}
	if p.Distance > 0 {
		q.Set("distance", strconv.Itoa(p.Distance))
	}
	if p.MunicipalityCode != "" {
		q.Set("municipalityCode", p.MunicipalityCode)
	}
	if p.MunicipalityName != "" {
		q.Set("municipalityName", p.MunicipalityName)
	}
	if p.Name != "" {
		q.Set("name", p.Name)
	}
	for k, v := range p.Filters {
		if k == "" {
			return nil, fmt.Errorf("%w: filter key must not be empty", ErrValidation)
		}
		q.Set(k, v)
	}
	return q, nil
}
