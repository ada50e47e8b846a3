// Package mcp implements the Model Context Protocol server, exposing
// BODIK open-data operations to LLMs. This enables AI assistants to
// discover datasets, inspect their schemas, and run parameterized
// searches through a standardised protocol.
package mcp

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/bodik-jp/bodik-mcp/internal/bodik"
	"github.com/bodik-jp/bodik-mcp/internal/config"
	"github.com/bodik-jp/bodik-mcp/internal/version"
)

// Serve starts the MCP server over stdio, enabling LLM integration.
// Uses stdio transport for compatibility with Claude Desktop and other
// MCP clients.
func Serve(cfg *config.Config) error {
	s, logger := newServer(cfg)

	logger.Info("bodik MCP server ready",
		"version", version.Short(), "transport", "stdio", "base_url", cfg.BaseURL)

	err := server.ServeStdio(s)
	if errors.Is(err, context.Canceled) {
		logger.Info("server stopped")
		return nil
	}
	return err
}

// ServeHTTP starts the MCP server over the streamable HTTP transport on
// addr, for deployments where stdio is not an option. The MCP endpoint
// is mounted at /mcp next to a plain /health route.
func ServeHTTP(cfg *config.Config, addr string) error {
	s, logger := newServer(cfg)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Handle("/mcp", server.NewStreamableHTTPServer(s))

	logger.Info("bodik MCP server ready",
		"version", version.Short(), "transport", "http", "addr", addr, "base_url", cfg.BaseURL)

	return http.ListenAndServe(addr, r)
}

// newServer wires the BODIK client and tool handlers into an MCP
// server. Logging goes to stderr; stdout is reserved for MCP JSON-RPC
// messages.
func newServer(cfg *config.Config) (*server.MCPServer, *slog.Logger) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	h := &handlers{client: bodik.New(cfg.BaseURL, cfg.Timeout, logger)}

	s := server.NewMCPServer(
		"bodik-mcp",
		version.Short(),
		server.WithToolCapabilities(true),
	)
	registerTools(s, h)
	return s, logger
}

// handlers provides MCP request handlers with access to the BODIK API
// client. The client is immutable, so concurrent invocations share no
// mutable state.
type handlers struct {
	client *bodik.Client
}

// searchOptions appends the parameters shared by every GET search tool.
// Names follow the BODIK query grammar exactly so assistants can reuse
// the upstream API documentation verbatim.
func searchOptions(opts ...mcp.ToolOption) []mcp.ToolOption {
	return append(opts,
		mcp.WithString("select_type", mcp.Description("Result shape selector (e.g. 'data')")),
		mcp.WithNumber("maxResults", mcp.Description("Maximum number of records to return")),
		mcp.WithNumber("startIndex", mcp.Description("Pagination offset (0-based)")),
		mcp.WithNumber("lat", mcp.Description("Latitude of the search centre")),
		mcp.WithNumber("lon", mcp.Description("Longitude of the search centre")),
		mcp.WithNumber("distance", mcp.Description("Radius in metres around lat/lon")),
		mcp.WithString("municipalityCode", mcp.Description("Filter by municipality code")),
		mcp.WithString("municipalityName", mcp.Description("Filter by municipality name (e.g. '福岡市')")),
		mcp.WithString("name", mcp.Description("Filter by facility/record name")),
		mcp.WithObject("filters", mcp.Description("Additional attribute equality filters, passed through as query parameters")),
	)
}

// registerTools exposes BODIK operations as MCP tools for LLM
// invocation.
func registerTools(s *server.MCPServer, h *handlers) {
	// Dataset catalogue
	s.AddTool(
		mcp.NewTool("list_apinames",
			mcp.WithDescription("List all available BODIK dataset API names with descriptions (GET /api/list). Use this first to find the dataset to search."),
		),
		h.listAPINames,
	)

	// Organizations publishing a specific dataset
	s.AddTool(
		mcp.NewTool("list_organizations",
			mcp.WithDescription("List organizations that publish a dataset (GET /{apiname}/organization)"),
			mcp.WithString("apiname", mcp.Required(), mcp.Description("Dataset API name")),
		),
		h.listOrganizations,
	)

	// All organizations
	s.AddTool(
		mcp.NewTool("list_all_organizations",
			mcp.WithDescription("List all organizations publishing to BODIK with their codes (GET /organization)"),
		),
		h.listAllOrganizations,
	)

	// Organization lookup by name
	s.AddTool(
		mcp.NewTool("find_organization",
			mcp.WithDescription("Find organizations by partial name match, to resolve a municipality name to its code"),
			mcp.WithString("q", mcp.Required(), mcp.Description("Organization name to search for (e.g. '福岡市', '新宿区')")),
		),
		h.findOrganization,
	)

	// Dataset schema/configuration
	s.AddTool(
		mcp.NewTool("get_config",
			mcp.WithDescription("Get dataset configuration and field schema (GET /config/{apiname}). Recommended before searching, to learn the dataset's field names."),
			mcp.WithString("apiname", mcp.Required(), mcp.Description("Dataset API name")),
		),
		h.getConfig,
	)

	// GET search, raw passthrough
	s.AddTool(
		mcp.NewTool("search_get",
			searchOptions(
				mcp.WithDescription("Search a dataset with query parameters (GET /{apiname}) and return the raw JSON response"),
				mcp.WithString("apiname", mcp.Required(), mcp.Description("Dataset API name")),
			)...,
		),
		h.searchGet,
	)

	// POST search with filter grammar
	s.AddTool(
		mcp.NewTool("search_post",
			mcp.WithDescription("Advanced dataset search (POST /api/{apiname}) with a JSON filter body. Conditions map field names to values or operator objects like {\"gte\":1000,\"lte\":2000}, combinable with {\"and\":[...]} / {\"or\":[...]}"),
			mcp.WithString("apiname", mcp.Required(), mcp.Description("Dataset API name")),
			mcp.WithObject("conditions", mcp.Description("Filter conditions; empty matches everything")),
		),
		h.searchPost,
	)

	// GET search, records only
	s.AddTool(
		mcp.NewTool("search_get_records",
			searchOptions(
				mcp.WithDescription("Search a dataset (GET) and return only the flattened record properties, without geometry or wrapper metadata"),
				mcp.WithString("apiname", mcp.Required(), mcp.Description("Dataset API name")),
			)...,
		),
		h.searchGetRecords,
	)

	// GET search, CSV
	s.AddTool(
		mcp.NewTool("search_get_csv",
			searchOptions(
				mcp.WithDescription("Search a dataset (GET) and return the records as CSV text (header row + one row per record)"),
				mcp.WithString("apiname", mcp.Required(), mcp.Description("Dataset API name")),
			)...,
		),
		h.searchGetCSV,
	)

	// GET search, GeoJSON
	s.AddTool(
		mcp.NewTool("search_get_geojson",
			searchOptions(
				mcp.WithDescription("Search a dataset (GET) and return the result as a GeoJSON FeatureCollection"),
				mcp.WithString("apiname", mcp.Required(), mcp.Description("Dataset API name")),
			)...,
		),
		h.searchGetGeoJSON,
	)
}
