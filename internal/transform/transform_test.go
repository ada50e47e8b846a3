package transform

import (
	"encoding/json"
	"strings"
	"testing"
)

// decode parses a JSON literal the way the BODIK client does, so tests
// exercise the same generic shapes the transforms see in production.
func decode(t *testing.T, raw string) any {
	t.Helper()
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		t.Fatalf("decoding fixture: %v", err)
	}
	return v
}

const searchResponse = `{
	"totalCount": 3,
	"resultsets": {
		"type": "FeatureCollection",
		"features": [
			{
				"type": "Feature",
				"geometry": {"type": "Point", "coordinates": [130.4017, 33.5902]},
				"properties": {"name": "市役所前AED", "address": "福岡市中央区天神1", "floor": "1F"}
			},
			{
				"type": "Feature",
				"geometry": {"type": "Point", "coordinates": [130.4105, 33.5898]},
				"properties": {"name": "公民館AED", "address": "福岡市博多区博多駅前2"}
			},
			{
				"type": "Feature",
				"geometry": null,
				"properties": {"name": "移動式AED", "available": true, "count": 2}
			}
		]
	}
}`

func TestRecords(t *testing.T) {
	records := Records(decode(t, searchResponse))

	if len(records) != 3 {
		t.Fatalf("Records() returned %d records, want 3", len(records))
	}
	if records[0]["name"] != "市役所前AED" {
		t.Errorf("records[0][name] = %v, want 市役所前AED", records[0]["name"])
	}
	for i, r := range records {
		if _, ok := r["geometry"]; ok {
			t.Errorf("records[%d] contains geometry, want properties only", i)
		}
		if _, ok := r["type"]; ok {
			t.Errorf("records[%d] contains feature wrapper keys", i)
		}
	}
}

func TestRecords_DegenerateShapes(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want int
	}{
		{"no resultsets", `{"message":"ok"}`, 0},
		{"empty features", `{"resultsets":{"features":[]}}`, 0},
		{"resultsets not object", `{"resultsets":[1,2]}`, 0},
		{"feature without properties", `{"resultsets":{"features":[{"geometry":null}]}}`, 1},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Records(decode(t, tc.raw)); len(got) != tc.want {
				t.Errorf("Records() returned %d records, want %d", len(got), tc.want)
			}
		})
	}
}

func TestCSV(t *testing.T) {
	records := Records(decode(t, searchResponse))
	out, err := CSV(records)
	if err != nil {
		t.Fatalf("CSV() unexpected error: %v", err)
	}

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("CSV() produced %d lines, want header + 3 rows:\n%s", len(lines), out)
	}

	// Header is the sorted union of every key seen across the records.
	if lines[0] != "address,available,count,floor,name" {
		t.Errorf("CSV() header = %q, want sorted key union", lines[0])
	}

	// A record missing a key renders an empty cell, never a shifted column.
	if lines[2] != "福岡市博多区博多駅前2,,,,公民館AED" {
		t.Errorf("CSV() row 2 = %q, want empty cells for missing keys", lines[2])
	}
	if lines[3] != ",true,2,,移動式AED" {
		t.Errorf("CSV() row 3 = %q, want bool/number cells rendered plainly", lines[3])
	}
}

func TestCSV_Empty(t *testing.T) {
	out, err := CSV(nil)
	if err != nil {
		t.Fatalf("CSV(nil) unexpected error: %v", err)
	}
	if out != "" {
		t.Errorf("CSV(nil) = %q, want empty string", out)
	}
}

func TestCSV_NestedValue(t *testing.T) {
	out, err := CSV([]map[string]any{
		{"name": "x", "tags": []any{"a", "b"}},
	})
	if err != nil {
		t.Fatalf("CSV() unexpected error: %v", err)
	}
	if !strings.Contains(out, `"[""a"",""b""]"`) {
		t.Errorf("CSV() = %q, want nested value serialized as JSON", out)
	}
}

func TestFeatureCollection(t *testing.T) {
	fc := FeatureCollection(decode(t, searchResponse))

	if fc["type"] != "FeatureCollection" {
		t.Errorf("type = %v, want FeatureCollection", fc["type"])
	}
	features, ok := fc["features"].([]any)
	if !ok {
		t.Fatalf("features is %T, want []any", fc["features"])
	}
	if len(features) != 3 {
		t.Fatalf("len(features) = %d, want 3", len(features))
	}

	for i, f := range features {
		feat, ok := f.(map[string]any)
		if !ok {
			t.Fatalf("features[%d] is %T, want object", i, f)
		}
		if feat["type"] != "Feature" {
			t.Errorf("features[%d].type = %v, want Feature", i, feat["type"])
		}
		if _, ok := feat["geometry"]; !ok {
			t.Errorf("features[%d] missing geometry key", i)
		}
		if _, ok := feat["properties"]; !ok {
			t.Errorf("features[%d] missing properties key", i)
		}
	}

	// Coordinates pass through unchanged.
	first := features[0].(map[string]any)
	geom := first["geometry"].(map[string]any)
	coords := geom["coordinates"].([]any)
	if coords[0] != 130.4017 || coords[1] != 33.5902 {
		t.Errorf("coordinates = %v, want [130.4017 33.5902]", coords)
	}
}

func TestFeatureCollection_Empty(t *testing.T) {
	fc := FeatureCollection(decode(t, `{"resultsets":{"features":[]}}`))
	features, ok := fc["features"].([]any)
	if !ok || len(features) != 0 {
		t.Errorf("features = %v, want empty array", fc["features"])
	}
}
