package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/uiactl/uiactl/internal/engine"
	"github.com/uiactl/uiactl/internal/model"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"
)

// mcpServer wraps the MCP server with the engine and tree cache.
type mcpServer struct {
	eng   *engine.Engine
	cache *treeCache
	mcp   *mcpserver.MCPServer
	close func()
}

// MCPConfig holds MCP server configuration.
type MCPConfig struct {
	Transport string
	Port      int
	CacheTTL  time.Duration
}

// newMCPServer creates and configures an MCP server with all uiactl tools.
func newMCPServer(cfg MCPConfig) (*mcpServer, error) {
	eng, closeEng, err := newEngine()
	if err != nil {
		return nil, err
	}

	s := &mcpServer{
		eng:   eng,
		cache: newTreeCache(cfg.CacheTTL),
		close: closeEng,
	}

	s.mcp = mcpserver.NewMCPServer(
		"uiactl",
		"1.0.0",
	)

	s.registerTools()
	return s, nil
}

// serve starts the MCP server with the configured transport and blocks
// until the context is cancelled or the transport fails.
func (s *mcpServer) serve(ctx context.Context, cfg MCPConfig) error {
	defer s.close()

	switch cfg.Transport {
	case "stdio":
		return mcpserver.ServeStdio(s.mcp)
	case "streamable-http":
		httpServer := mcpserver.NewStreamableHTTPServer(s.mcp)
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			return httpServer.Start(fmt.Sprintf(":%d", cfg.Port))
		})
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return httpServer.Shutdown(shutdownCtx)
		})
		return g.Wait()
	default:
		return fmt.Errorf("unsupported transport: %s (use stdio or streamable-http)", cfg.Transport)
	}
}

// queryArgs are the element-addressing arguments shared by most tools.
func queryArgs() []mcp.ToolOption {
	return []mcp.ToolOption{
		mcp.WithString("name", mcp.Description("Exact element name (case-insensitive)")),
		mcp.WithString("name_contains", mcp.Description("Substring element name match (case-insensitive)")),
		mcp.WithString("name_regex", mcp.Description("Regular-expression element name match")),
		mcp.WithString("control_types", mcp.Description("Control types, comma-separated (e.g. \"button\", \"edit,combobox\")")),
		mcp.WithString("automation_id", mcp.Description("Exact automation id")),
		mcp.WithString("class_name", mcp.Description("Exact class name")),
		mcp.WithString("parent_id", mcp.Description("Scope to descendants of this element id")),
		mcp.WithString("window", mcp.Description("Scope to this window handle (decimal or 0x hex)")),
		mcp.WithNumber("depth", mcp.Description("Max traversal depth below the scope root (omit for unlimited, 0 = root only)")),
		mcp.WithBoolean("depth_exact", mcp.Description("Match only at exactly depth, not up to it")),
		mcp.WithNumber("found_index", mcp.Description("Pick the Nth match, 1-based")),
		mcp.WithBoolean("prominent", mcp.Description("Order matches by bounding-box area, largest first")),
	}
}

func tool(name, description string, extra ...mcp.ToolOption) mcp.Tool {
	opts := []mcp.ToolOption{mcp.WithDescription(description)}
	opts = append(opts, queryArgs()...)
	opts = append(opts, extra...)
	return mcp.NewTool(name, opts...)
}

func (s *mcpServer) registerTools() {
	s.mcp.AddTool(
		tool("find_elements",
			"Search the accessibility tree for UI elements matching a query. Returns element snapshots with ids, names, control types, bounds, monitor-relative clickable points, and supported patterns. Element ids stay valid across calls until the element disappears."),
		s.stepHandler("find", false),
	)

	s.mcp.AddTool(
		tool("get_tree",
			"Read the nested accessibility tree under a window or a previously discovered element. Use depth to bound the read; two reads of an unchanged UI return identical trees."),
		s.handleTree,
	)

	s.mcp.AddTool(
		tool("click_element",
			"Find exactly one element matching the query and click it. The target window is brought to the foreground first and the click is verified to land in it.",
			mcp.WithString("button", mcp.Description("Mouse button: left, right, middle")),
			mcp.WithBoolean("double", mcp.Description("Double-click")),
			mcp.WithString("modifiers", mcp.Description("Held modifier keys, comma-separated (shift, ctrl, alt, win)")),
		),
		s.stepHandler("click", true),
	)

	s.mcp.AddTool(
		tool("type_text",
			"Find exactly one element, focus it by clicking, then type text and/or press a key combo (e.g. 'enter', 'ctrl+s'). Elements exposing a value setter get the text set atomically.",
			mcp.WithString("text", mcp.Description("Text to type")),
			mcp.WithString("key", mcp.Description("Key combo pressed after the text")),
			mcp.WithNumber("delay_ms", mcp.Description("Delay between keystrokes in ms")),
		),
		s.stepHandler("type", true),
	)

	s.mcp.AddTool(
		tool("select_element",
			"Find exactly one element and select it via its selection capability (list items, tabs, tree items), falling back to a coordinate click."),
		s.stepHandler("select", true),
	)

	s.mcp.AddTool(
		tool("invoke_pattern",
			"Perform a capability action on one element: invoke, toggle, set-value, select, expand, collapse, scroll-into-view, scroll, set-range, move, resize. Address the element by id or by a query resolving to a single element.",
			mcp.WithString("op", mcp.Description("The action to perform"), mcp.Required()),
			mcp.WithString("id", mcp.Description("Element id to act on (instead of a query)")),
			mcp.WithString("value", mcp.Description("Value for set-value")),
			mcp.WithNumber("number", mcp.Description("Value for set-range")),
			mcp.WithString("direction", mcp.Description("Scroll direction: up, down, left, right")),
			mcp.WithNumber("amount", mcp.Description("Scroll steps (default 3)")),
			mcp.WithNumber("x", mcp.Description("Target x for move/resize")),
			mcp.WithNumber("y", mcp.Description("Target y for move/resize")),
			mcp.WithNumber("width", mcp.Description("Target width for move/resize")),
			mcp.WithNumber("height", mcp.Description("Target height for move/resize")),
		),
		s.stepHandler("action", true),
	)

	s.mcp.AddTool(
		tool("wait_for_element",
			"Poll until an element matching the query appears or the timeout elapses. timeout_ms 0 performs exactly one attempt. On timeout the last scan is included.",
			mcp.WithNumber("timeout_ms", mcp.Description("Max milliseconds to wait")),
		),
		s.stepHandler("wait", false),
	)

	s.mcp.AddTool(
		mcp.NewTool("resolve_element",
			mcp.WithDescription("Re-resolve a previously discovered element id and return a fresh snapshot. A vanished element reports element_not_found, never a different element."),
			mcp.WithString("id", mcp.Description("The element id"), mcp.Required()),
		),
		s.stepHandler("resolve", false),
	)

	s.mcp.AddTool(
		mcp.NewTool("list_monitors",
			mcp.WithDescription("List all monitors with their virtual-screen bounds. Element coordinates are reported relative to one of these monitors."),
		),
		s.handleMonitors,
	)
}

// stepHandler adapts a named engine operation to an MCP tool handler.
// Write operations invalidate the tree cache on success.
func (s *mcpServer) stepHandler(action string, write bool) mcpserver.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		res := executeStep(ctx, s.eng, action, request.GetArguments())
		if write && res.OK {
			s.cache.invalidateAll()
		}
		return toolResult(res), nil
	}
}

func (s *mcpServer) handleTree(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	q, err := queryFromParams(request.GetArguments())
	if err != nil {
		return toolResult(stepFailure("tree", model.ErrInvalidParameter, err.Error())), nil
	}
	if cached, ok := s.cache.get(q); ok {
		return toolResult(cached), nil
	}
	res := s.eng.GetTree(ctx, q)
	s.cache.put(q, res)
	return toolResult(res), nil
}

func (s *mcpServer) handleMonitors(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	monitors, err := s.eng.Topology()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	b, merr := yaml.Marshal(monitors)
	if merr != nil {
		return mcp.NewToolResultError(merr.Error()), nil
	}
	return mcp.NewToolResultText(string(b)), nil
}

// toolResult serializes a Result to YAML for the MCP response. Failures use
// the error result form so agents can branch on them.
func toolResult(res model.Result) *mcp.CallToolResult {
	b, err := yaml.Marshal(res)
	if err != nil {
		b = []byte(fmt.Sprintf("ok: %v\naction: %s\nerror: %s", res.OK, res.Action, res.Error))
	}
	if !res.OK {
		return mcp.NewToolResultError(string(b))
	}
	return mcp.NewToolResultText(string(b))
}
