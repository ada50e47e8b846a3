// tools_datasets.go implements MCP tools for catalogue discovery:
// dataset names, publishing organizations, and dataset configuration.
//
// Separated from tools_search.go because these tools take at most one
// simple parameter and pass responses through unreshaped, while the
// search tools share a parameter bag and a transformation pipeline.

package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
)

// listAPINames handles list_apinames tool calls.
func (h *handlers) listAPINames(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	datasets, err := h.client.ListDatasets(ctx)
	if err != nil {
		return toolError(err), nil
	}
	return jsonResult(datasets)
}

// listOrganizations handles list_organizations tool calls.
func (h *handlers) listOrganizations(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	apiname, err := req.RequireString("apiname")
	if err != nil {
		return validationError("apiname is required"), nil //nolint:nilerr
	}

	orgs, err := h.client.DatasetOrganizations(ctx, apiname)
	if err != nil {
		return toolError(err), nil
	}
	return jsonResult(orgs)
}

// listAllOrganizations handles list_all_organizations tool calls.
func (h *handlers) listAllOrganizations(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	orgs, err := h.client.Organizations(ctx)
	if err != nil {
		return toolError(err), nil
	}
	return jsonResult(orgs)
}

// findOrganization handles find_organization tool calls.
func (h *handlers) findOrganization(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	q, err := req.RequireString("q")
	if err != nil {
		return validationError("q is required"), nil //nolint:nilerr
	}

	orgs, err := h.client.FindOrganizations(ctx, q)
	if err != nil {
		return toolError(err), nil
	}
	return jsonResult(orgs)
}

// getConfig handles get_config tool calls.
func (h *handlers) getConfig(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	apiname, err := req.RequireString("apiname")
	if err != nil {
		return validationError("apiname is required"), nil //nolint:nilerr
	}

	cfg, err := h.client.Config(ctx, apiname)
	if err != nil {
		return toolError(err), nil
	}
	return jsonResult(cfg)
}
