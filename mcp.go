package hwpread

import (
	"context"
	"encoding/json"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/hazyhaar/hwpread/kit"
	"github.com/hazyhaar/hwpread/render"
)

// RegisterMCP registers the document tools on an MCP server.
func (p *Pipeline) RegisterMCP(srv *mcp.Server) {
	p.registerInspectTool(srv)
	p.registerExtractTool(srv)
	p.registerMarkdownTool(srv)
	p.registerJSONTool(srv)
}

// instrument wraps a tool endpoint with the standard middleware chain.
func (p *Pipeline) instrument(name string, ep kit.Endpoint) kit.Endpoint {
	return kit.Chain(p.logToolCalls(name))(ep)
}

// logToolCalls logs every invocation with the transport details the serve
// command attaches to the request context.
func (p *Pipeline) logToolCalls(name string) kit.Middleware {
	return func(next kit.Endpoint) kit.Endpoint {
		return func(ctx context.Context, req any) (any, error) {
			start := time.Now()
			resp, err := next(ctx, req)

			attrs := []any{
				"tool", name,
				"transport", kit.GetTransport(ctx),
				"duration_ms", time.Since(start).Milliseconds(),
			}
			if id := kit.GetRequestID(ctx); id != "" {
				attrs = append(attrs, "request_id", id)
			}
			if addr := kit.GetRemoteAddr(ctx); addr != "" {
				attrs = append(attrs, "remote_addr", addr)
			}
			if err != nil {
				p.logger.Warn("tool call failed", append(attrs, "error", err)...)
			} else {
				p.logger.Debug("tool call", attrs...)
			}
			return resp, err
		}
	}
}

func inputSchema(properties map[string]any, required []string) map[string]any {
	s := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		s["required"] = required
	}
	return s
}

// --- inspect ---

type inspectReq struct {
	Path string `json:"path"`
}

func (p *Pipeline) registerInspectTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "hwpread_inspect",
		Description: "Summarize an HWP document: title, author, version, section/paragraph/table counts.",
		InputSchema: inputSchema(map[string]any{
			"path": map[string]any{"type": "string", "description": "HWP file path"},
		}, []string{"path"}),
	}

	endpoint := func(ctx context.Context, req any) (any, error) {
		r := req.(*inspectReq)
		return p.Inspect(ctx, r.Path)
	}

	decode := func(req *mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		var r inspectReq
		if err := json.Unmarshal(req.Params.Arguments, &r); err != nil {
			return nil, err
		}
		return &kit.MCPDecodeResult{Request: &r}, nil
	}

	kit.RegisterMCPTool(srv, tool, p.instrument(tool.Name, endpoint), decode)
}

// --- extract ---

type extractReq struct {
	Path string `json:"path"`
}

func (p *Pipeline) registerExtractTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "hwpread_extract",
		Description: "Extract the full structured document model from an HWP file.",
		InputSchema: inputSchema(map[string]any{
			"path": map[string]any{"type": "string", "description": "HWP file path"},
		}, []string{"path"}),
	}

	endpoint := func(ctx context.Context, req any) (any, error) {
		r := req.(*extractReq)
		return p.Extract(ctx, r.Path)
	}

	decode := func(req *mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		var r extractReq
		if err := json.Unmarshal(req.Params.Arguments, &r); err != nil {
			return nil, err
		}
		return &kit.MCPDecodeResult{Request: &r}, nil
	}

	kit.RegisterMCPTool(srv, tool, p.instrument(tool.Name, endpoint), decode)
}

// --- markdown ---

type markdownReq struct {
	Path   string `json:"path"`
	Format string `json:"format"`
}

func (p *Pipeline) registerMarkdownTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "hwpread_markdown",
		Description: "Convert an HWP document to markdown (format: semantic-markdown or plain).",
		InputSchema: inputSchema(map[string]any{
			"path":   map[string]any{"type": "string", "description": "HWP file path"},
			"format": map[string]any{"type": "string", "description": "semantic-markdown (default) or plain"},
		}, []string{"path"}),
	}

	endpoint := func(ctx context.Context, req any) (any, error) {
		r := req.(*markdownReq)
		md, err := p.Markdown(ctx, r.Path, render.MarkdownFormat(r.Format))
		if err != nil {
			return nil, err
		}
		return map[string]any{"markdown": md}, nil
	}

	decode := func(req *mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		var r markdownReq
		if err := json.Unmarshal(req.Params.Arguments, &r); err != nil {
			return nil, err
		}
		return &kit.MCPDecodeResult{Request: &r}, nil
	}

	kit.RegisterMCPTool(srv, tool, p.instrument(tool.Name, endpoint), decode)
}

// --- json ---

type jsonReq struct {
	Path   string `json:"path"`
	Pretty bool   `json:"pretty"`
}

func (p *Pipeline) registerJSONTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "hwpread_json",
		Description: "Serialize an HWP document's structure as JSON.",
		InputSchema: inputSchema(map[string]any{
			"path":   map[string]any{"type": "string", "description": "HWP file path"},
			"pretty": map[string]any{"type": "boolean", "description": "Indent the output"},
		}, []string{"path"}),
	}

	endpoint := func(ctx context.Context, req any) (any, error) {
		r := req.(*jsonReq)
		data, err := p.JSON(ctx, r.Path, r.Pretty)
		if err != nil {
			return nil, err
		}
		return map[string]any{"json": string(data)}, nil
	}

	decode := func(req *mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		var r jsonReq
		if err := json.Unmarshal(req.Params.Arguments, &r); err != nil {
			return nil, err
		}
		return &kit.MCPDecodeResult{Request: &r}, nil
	}

	kit.RegisterMCPTool(srv, tool, p.instrument(tool.Name, endpoint), decode)
}
