// tools_search.go implements the MCP search tools and their output
// variants (raw passthrough, records-only, CSV, GeoJSON).
//
// The four GET variants run the identical upstream request and differ
// only in how the response is reshaped, so they share parameter
// extraction and delegate reshaping to internal/transform. This keeps
// the "format-only difference" property true by construction.

package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/bodik-jp/bodik-mcp/internal/bodik"
	"github.com/bodik-jp/bodik-mcp/internal/transform"
)

// searchParamsFromRequest maps tool arguments onto the typed search
// parameter bag. Argument names mirror the BODIK query keys.
func searchParamsFromRequest(req mcp.CallToolRequest) bodik.SearchParams {
	p := bodik.SearchParams{
		SelectType:       getString(req, "select_type", ""),
		MaxResults:       getInt(req, "maxResults", 0),
		StartIndex:       getInt(req, "startIndex", 0),
		Distance:         getInt(req, "distance", 0),
		MunicipalityCode: getString(req, "municipalityCode", ""),
		MunicipalityName: getString(req, "municipalityName", ""),
		Name:             getString(req, "name", ""),
		Filters:          getStringMap(req, "filters"),
	}
	if lat, ok := getFloat(req, "lat"); ok {
		p.Lat = &lat
	}
	if lon, ok := getFloat(req, "lon"); ok {
		p.Lon = &lon
	}
	return p
}

// runSearchGet extracts parameters and performs the upstream GET search
// shared by the passthrough, records, CSV and GeoJSON tools.
func (h *handlers) runSearchGet(ctx context.Context, req mcp.CallToolRequest) (any, *mcp.CallToolResult) {
	apiname, err := req.RequireString("apiname")
	if err != nil {
		return nil, validationError("apiname is required")
	}

	result, err := h.client.SearchGET(ctx, apiname, searchParamsFromRequest(req))
	if err != nil {
		return nil, toolError(err)
	}
	return result, nil
}

// searchGet handles search_get tool calls.
func (h *handlers) searchGet(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, errResult := h.runSearchGet(ctx, req)
	if errResult != nil {
		return errResult, nil
	}
	return jsonResult(result)
}

// searchPost handles search_post tool calls.
func (h *handlers) searchPost(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	apiname, err := req.RequireString("apiname")
	if err != nil {
		return validationError("apiname is required"), nil //nolint:nilerr
	}

	result, err := h.client.SearchPOST(ctx, apiname, getObject(req, "conditions"))
	if err != nil {
		return toolError(err), nil
	}
	return jsonResult(result)
}

// searchGetRecords handles search_get_records tool calls.
func (h *handlers) searchGetRecords(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, errResult := h.runSearchGet(ctx, req)
	if errResult != nil {
		return errResult, nil
	}
	return jsonResult(map[string]any{"records": transform.Records(result)})
}

// searchGetCSV handles search_get_csv tool calls.
func (h *handlers) searchGetCSV(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, errResult := h.runSearchGet(ctx, req)
	if errResult != nil {
		return errResult, nil
	}

	csvText, err := transform.CSV(transform.Records(result))
	if err != nil {
		return toolError(err), nil
	}
	return mcp.NewToolResultText(csvText), nil
}

// searchGetGeoJSON handles search_get_geojson tool calls.
func (h *handlers) searchGetGeoJSON(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, errResult := h.runSearchGet(ctx, req)
	if errResult != nil {
		return errResult, nil
	}
	return jsonResult(transform.FeatureCollection(result))
}
