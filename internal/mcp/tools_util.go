// tools_util.go provides helper functions for MCP tool parameter
// extraction and result shaping.
//
// Separated to centralise the boilerplate of extracting typed
// parameters from MCP's generic argument map. Optional parameters use
// permissive extraction (return default on error) because LLMs
// frequently omit them or send them in unexpected formats; required
// parameters are the job of the handlers, which fail with a validation
// error before any network call.

package mcp

import (
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/bodik-jp/bodik-mcp/internal/bodik"
)

// getString extracts a string parameter, returning the provided default
// if the parameter is missing or not a string.
func getString(req mcp.CallToolRequest, name, def string) string {
	if v, err := req.RequireString(name); err == nil {
		return v
	}
	return def
}

// getInt extracts an integer parameter. JSON numbers decode as float64,
// so the value is asserted as float64 and truncated.
func getInt(req mcp.CallToolRequest, name string, def int) int {
	args, ok := req.Params.Arguments.(map[string]any)
	if !ok {
		return def
	}
	if v, ok := args[name].(float64); ok {
		return int(v)
	}
	return def
}

// getFloat extracts a number parameter, reporting whether it was
// present. Used for coordinates, where zero is a valid value and
// presence matters.
func getFloat(req mcp.CallToolRequest, name string) (float64, bool) {
	args, ok := req.Params.Arguments.(map[string]any)
	if !ok {
		return 0, false
	}
	v, ok := args[name].(float64)
	return v, ok
}

// getObject extracts an object parameter as a generic map. Returns nil
// when absent or not an object.
func getObject(req mcp.CallToolRequest, name string) map[string]any {
	args, ok := req.Params.Arguments.(map[string]any)
	if !ok {
		return nil
	}
	obj, ok := args[name].(map[string]any)
	if !ok {
		return nil
	}
	return obj
}

// getStringMap extracts an object parameter whose values are rendered
// as strings. Scalar values of any JSON type are accepted, since LLMs
// routinely send numbers where the query grammar wants text.
func getStringMap(req mcp.CallToolRequest, name string) map[string]string {
	obj := getObject(req, name)
	if obj == nil {
		return nil
	}
	out := make(map[string]string, len(obj))
	for k, v := range obj {
		switch t := v.(type) {
		case string:
			out[k] = t
		case float64:
			out[k] = trimFloat(t)
		case bool:
			out[k] = fmt.Sprintf("%t", t)
		case nil:
			out[k] = ""
		default:
			data, err := json.Marshal(t)
			if err != nil {
				continue
			}
			out[k] = string(data)
		}
	}
	return out
}

// trimFloat formats a JSON number without a trailing ".000000" so that
// integer-valued filters encode as integers.
func trimFloat(f float64) string {
	if f == float64(int64(f)) {
		return fmt.Sprintf("%d", int64(f))
	}
	return fmt.Sprintf("%v", f)
}

// jsonResult serialises any value as pretty-printed JSON and wraps it
// in an MCP text result. LLMs parse structured output more reliably
// when it is formatted for readability.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

// toolError maps a client/transform error onto an MCP error result.
// bodik errors already carry their failure class as a message prefix
// (validation/transport/upstream), so the text passes through.
func toolError(err error) *mcp.CallToolResult {
	return mcp.NewToolResultError(err.Error())
}

// validationError produces a validation-class error result for failures
// detected at the tool boundary, before the client is involved.
func validationError(msg string) *mcp.CallToolResult {
	return mcp.NewToolResultError(fmt.Sprintf("%s: %s", bodik.ErrValidation, msg))
}
