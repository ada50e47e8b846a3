// Package transform reshapes decoded BODIK search responses into the
// formats the search tools return: a flat records list, CSV text, and a
// GeoJSON FeatureCollection. Every function is a pure mapping over its
// input; a transformation either fully succeeds or the call fails, with
// no partial output.
//
// BODIK search responses nest a FeatureCollection-like object under
// "resultsets", whose "features" each carry "properties" (the record
// attributes) and "geometry" (the location).
package transform

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Features extracts the feature list from a decoded search response.
// Responses without resultsets (or with an empty feature list) yield an
// empty slice, never an error: an empty search result is not a failure.
func Features(result any) []map[string]any {
	root, ok := result.(map[string]any)
	if !ok {
		return nil
	}
	resultsets, ok := root["resultsets"].(map[string]any)
	if !ok {
		return nil
	}
	raw, ok := resultsets["features"].([]any)
	if !ok {
		return nil
	}
	features := make([]map[string]any, 0, len(raw))
	for _, f := range raw {
		if m, ok := f.(map[string]any); ok {
			features = append(features, m)
		}
	}
	return features
}

// Records returns the properties of each feature in the response,
// discarding geometry and wrapper metadata. A feature without
// properties yields an empty record so the count always matches the
// feature count.
func Records(result any) []map[string]any {
	features := Features(result)
	records := make([]map[string]any, 0, len(features))
	for _, f := range features {
		props, ok := f["properties"].(map[string]any)
		if !ok {
			props = map[string]any{}
		}
		records = append(records, props)
	}
	return records
}

// CSV flattens records into CSV text: a header row holding the sorted
// union of all property keys, then one row per record. A record missing
// a key renders an empty cell in that column.
func CSV(records []map[string]any) (string, error) {
	if len(records) == 0 {
		return "", nil
	}

	seen := make(map[string]bool)
	var header []string
	for _, r := range records {
		for k := range r {
			if !seen[k] {
				seen[k] = true
				header = append(header, k)
			}
		}
	}
	sort.Strings(header)

	var b strings.Builder
	w := csv.NewWriter(&b)
	if err := w.Write(header); err != nil {
		return "", fmt.Errorf("writing csv header: %w", err)
	}
	row := make([]string, len(header))
	for _, r := range records {
		for i, k := range header {
			v, ok := r[k]
			if !ok {
				row[i] = ""
				continue
			}
			cell, err := formatCell(v)
			if err != nil {
				return "", err
			}
			row[i] = cell
		}
		if err := w.Write(row); err != nil {
			return "", fmt.Errorf("writing csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("flushing csv: %w", err)
	}
	return b.String(), nil
}

// formatCell renders one property value as CSV cell text. Nested
// structures are serialized as compact JSON rather than Go syntax.
func formatCell(v any) (string, error) {
	switch t := v.(type) {
	case nil:
		return "", nil
	case string:
		return t, nil
	case bool:
		return strconv.FormatBool(t), nil
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), nil
	case json.Number:
		return t.String(), nil
	default:
		data, err := json.Marshal(t)
		if err != nil {
			return "", fmt.Errorf("encoding csv cell: %w", err)
		}
		return string(data), nil
	}
}

// FeatureCollection wraps the response's geometry + properties pairs in
// a standard GeoJSON FeatureCollection envelope. Coordinate data passes
// through unchanged; every output feature carries both a geometry and a
// properties key even when the source feature omitted one.
func FeatureCollection(result any) map[string]any {
	features := Features(result)
	out := make([]any, 0, len(features))
	for _, f := range features {
		var geometry any = f["geometry"]
		props, ok := f["properties"].(map[string]any)
		if !ok {
			props = map[string]any{}
		}
		out = append(out, map[string]any{
			"type":       "Feature",
			"geometry":   geometry,
			"properties": props,
		})
	}
	return map[string]any{
		"type":     "FeatureCollection",
		"features": out,
	}
}
