// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes journal tools for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/craigeley/journal-companion-sub002/internal/frontmatter"
	"github.com/craigeley/journal-companion-sub002/internal/vault"
)

// Server wraps the MCP server with journal tools.
type Server struct {
	mcp *server.MCPServer
	mgr *vault.Manager
}

// New creates a new MCP server with all journal tools registered.
func New(mgr *vault.Manager) *Server {
	s := &Server{mgr: mgr}

	s.mcp = server.NewMCPServer(
		"Journal",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("search_entries",
		mcp.WithDescription("Full-text search through journal entry bodies, places, and tags."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search query string")),
	), s.searchEntries)

	s.mcp.AddTool(mcp.NewTool("read_entry",
		mcp.WithDescription("Read the full content of a journal entry by its id (YYYYMMDDHHmm)."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Entry id, e.g. 202501151430")),
	), s.readEntry)

	s.mcp.AddTool(mcp.NewTool("create_entry",
		mcp.WithDescription("Create a new journal entry. Content MUST follow the canonical entry "+
			"format (YAML frontmatter with a quoted ISO-8601 date_created, optional tags, place, "+
			"people, and a Markdown body with [[wikilinks]]). Read the contract first via the "+
			"get_entry_contract tool or the journal://entry-format resource. The entry's file "+
			"path is derived from date_created; do not supply one."),
		mcp.WithString("content", mcp.Required(), mcp.Description("Markdown content following the entry format contract")),
	), s.createEntry)

	s.mcp.AddTool(mcp.NewTool("get_entry_contract",
		mcp.WithDescription("Returns the canonical journal entry format contract. "+
			"Call this before creating entries to ensure correct structure."),
	), s.getEntryContract)

	s.mcp.AddTool(mcp.NewTool("list_entries",
		mcp.WithDescription("List journal entries, newest first, with optional tag filter."),
		mcp.WithString("tag", mcp.Description("Optional tag to filter by")),
	), s.listEntries)

	s.mcp.AddTool(mcp.NewTool("get_backlinks",
		mcp.WithDescription("Find all entries that reference the given place or person name."),
		mcp.WithString("target", mcp.Required(), mcp.Description("Place or person name to find references to")),
	), s.getBacklinks)

	s.mcp.AddTool(mcp.NewTool("resolve_links",
		mcp.WithDescription("Parse [[wikilinks]] in a piece of text and resolve each against the "+
			"known places and people, including alias matches."),
		mcp.WithString("text", mcp.Required(), mcp.Description("Text containing [[...]] references")),
	), s.resolveLinks)

	// Resource: entry format contract.
	s.mcp.AddResource(
		mcp.NewResource("journal://entry-format", "Entry Format Contract",
			mcp.WithResourceDescription("Canonical Markdown entry format that all journal entries must follow."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readEntryFormatResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func (s *Server) searchEntries(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	results, err := s.mgr.Search(ctx, query, 20)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(results, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) readEntry(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	detail, err := s.mgr.GetEntry(ctx, id)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("not found: %s", id)), nil
	}
	return mcp.NewToolResultText(detail.Raw), nil
}

func (s *Server) createEntry(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	content, err := req.RequireString("content")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	entry, err := frontmatter.ParseEntry("entry.md", content)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid entry format: %v (see get_entry_contract)", err)), nil
	}
	entry.ID = "" // derived from date_created

	detail, err := s.mgr.CreateEntry(ctx, entry)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("created: %s (%s)", detail.Entry.ID, detail.Path)), nil
}

func (s *Server) listEntries(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	tag := ""
	if t, err := req.RequireString("tag"); err == nil {
		tag = t
	}

	rows, _, err := s.mgr.ListEntries(ctx, 100, 0, tag, "")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var lines []string
	for _, r := range rows {
		line := r.ID + "  " + r.DateCreated.Format("2006-01-02 15:04")
		if r.Place != "" {
			line += "  @ " + r.Place
		}
		lines = append(lines, line)
	}
	if len(lines) == 0 {
		return mcp.NewToolResultText("no entries"), nil
	}
	return mcp.NewToolResultText(strings.Join(lines, "\n")), nil
}

func (s *Server) getEntryContract(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(EntryFormatContract), nil
}

func (s *Server) readEntryFormatResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "journal://entry-format",
			MIMEType: "text/markdown",
			Text:     EntryFormatContract,
		},
	}, nil
}

func (s *Server) getBacklinks(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	target, err := req.RequireString("target")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	bl, err := s.mgr.Backlinks(ctx, target)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(bl) == 0 {
		return mcp.NewToolResultText("no backlinks found"), nil
	}
	return mcp.NewToolResultText(strings.Join(bl, "\n")), nil
}

func (s *Server) resolveLinks(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := req.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	links := s.mgr.ResolveLinks(text)
	out, _ := json.MarshalIndent(links, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}
