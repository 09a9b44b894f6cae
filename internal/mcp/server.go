package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"
)

// ToolHandler handles a tool call.
type ToolHandler func(ctx context.Context, args map[string]interface{}) (string, error)

// ResourceReader resolves a resource URI to its content and MIME type.
type ResourceReader func(ctx context.Context, uri string) (text string, mimeType string, err error)

// ResourceLister enumerates the currently available resources.
type ResourceLister func(ctx context.Context) ([]Resource, error)

// Tool is an MCP tool definition.
type Tool struct {
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	InputSchema json.RawMessage `json:"inputSchema"`
}

// Resource is an MCP resource descriptor.
type Resource struct {
	URI         string `json:"uri"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	MimeType    string `json:"mimeType,omitempty"`
}

// Prompt is an MCP prompt definition.
type Prompt struct {
	Name        string           `json:"name"`
	Description string           `json:"description,omitempty"`
	Arguments   []PromptArgument `json:"arguments,omitempty"`
}

// PromptArgument describes one prompt input.
type PromptArgument struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Required    bool   `json:"required,omitempty"`
}

// PromptRenderer renders a prompt's message text from its arguments.
type PromptRenderer func(ctx context.Context, args map[string]string) (string, error)

// Server is a single-threaded MCP server over a Transport. Each request
// is handled to completion before the next is read.
type Server struct {
	transport      *Transport
	tools          map[string]Tool
	handlers       map[string]ToolHandler
	prompts        map[string]Prompt
	renderers      map[string]PromptRenderer
	toolOrder      []string
	promptOrder    []string
	resourceLister ResourceLister
	resourceReader ResourceReader
	serverInfo     ServerInfo
	instructions   string
	mu             sync.RWMutex
}

// ServerInfo identifies the server to clients.
type ServerInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// Capability structs advertised from initialize.
type (
	ToolsCapability     struct{}
	ResourcesCapability struct{}
	PromptsCapability   struct{}
)

// Capabilities lists what the server supports.
type Capabilities struct {
	Tools     *ToolsCapability     `json:"tools,omitempty"`
	Resources *ResourcesCapability `json:"resources,omitempty"`
	Prompts   *PromptsCapability   `json:"prompts,omitempty"`
}

type initializeResult struct {
	ProtocolVersion string       `json:"protocolVersion"`
	Capabilities    Capabilities `json:"capabilities"`
	ServerInfo      ServerInfo   `json:"serverInfo"`
	Instructions    string       `json:"instructions,omitempty"`
}

type toolsListResult struct {
	Tools []Tool `json:"tools"`
}

type toolsCallParams struct {
	Name      string                 `json:"name"`
	Arguments map[string]interface{} `json:"arguments,omitempty"`
}

// TextContent is one text block of a tool result.
type TextContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type toolsCallResult struct {
	Content []TextContent `json:"content"`
	IsError bool          `json:"isError,omitempty"`
}

type resourcesListResult struct {
	Resources []Resource `json:"resources"`
}

type resourcesReadParams struct {
	URI string `json:"uri"`
}

type resourceContents struct {
	URI      string `json:"uri"`
	MimeType string `json:"mimeType,omitempty"`
	Text     string `json:"text"`
}

type resourcesReadResult struct {
	Contents []resourceContents `json:"contents"`
}

type promptsListResult struct {
	Prompts []Prompt `json:"prompts"`
}

type promptsGetParams struct {
	Name      string            `json:"name"`
	Arguments map[string]string `json:"arguments,omitempty"`
}

type promptMessage struct {
	Role    string      `json:"role"`
	Content TextContent `json:"content"`
}

type promptsGetResult struct {
	Description string          `json:"description,omitempty"`
	Messages    []promptMessage `json:"messages"`
}

// NewServer creates a server reading requests from reader and writing
// responses to writer.
func NewServer(reader io.Reader, writer io.Writer) *Server {
	return &Server{
		transport: NewTransport(reader, writer),
		tools:     make(map[string]Tool),
		handlers:  make(map[string]ToolHandler),
		prompts:   make(map[string]Prompt),
		renderers: make(map[string]PromptRenderer),
	}
}

// SetServerInfo sets the server identification info.
func (s *Server) SetServerInfo(name, version string) {
	s.serverInfo = ServerInfo{Name: name, Version: version}
}

// SetInstructions sets the server instructions (required by some clients).
func (s *Server) SetInstructions(instructions string) {
	s.instructions = instructions
}

// RegisterTool registers a tool with its handler. Registration order is
// preserved in tools/list.
func (s *Server) RegisterTool(tool Tool, handler ToolHandler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.tools[tool.Name]; !exists {
		s.toolOrder = append(s.toolOrder, tool.Name)
	}
	s.tools[tool.Name] = tool
	s.handlers[tool.Name] = handler
}

// RegisterResources installs the resource lister and reader.
func (s *Server) RegisterResources(lister ResourceLister, reader ResourceReader) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resourceLister = lister
	s.resourceReader = reader
}

// RegisterPrompt registers a prompt with its renderer.
func (s *Server) RegisterPrompt(prompt Prompt, renderer PromptRenderer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.prompts[prompt.Name]; !exists {
		s.promptOrder = append(s.promptOrder, prompt.Name)
	}
	s.prompts[prompt.Name] = prompt
	s.renderers[prompt.Name] = renderer
}

// HandleOne reads and handles a single request.
func (s *Server) HandleOne(ctx context.Context) error {
	req, err := s.transport.ReadRequest()
	if err != nil {
		if rpcErr, ok := IsJSONRPCError(err); ok {
			return s.transport.WriteError(nil, rpcErr.Code, rpcErr.Message)
		}
		return err
	}
	return s.handleRequest(ctx, req)
}

func (s *Server) handleRequest(ctx context.Context, req *Request) error {
	switch req.Method {
	case "initialize":
		return s.handleInitialize(req)
	case "initialized", "notifications/initialized":
		// Notification, no response.
		return nil
	case "tools/list":
		return s.handleToolsList(req)
	case "tools/call":
		return s.handleToolsCall(ctx, req)
	case "resources/list":
		return s.handleResourcesList(ctx, req)
	case "resources/read":
		return s.handleResourcesRead(ctx, req)
	case "prompts/list":
		return s.handlePromptsList(req)
	case "prompts/get":
		return s.handlePromptsGet(ctx, req)
	default:
		return s.sendError(req.ID, MethodNotFound, "Method not found: "+req.Method)
	}
}

func (s *Server) handleInitialize(req *Request) error {
	caps := Capabilities{Tools: &ToolsCapability{}}
	s.mu.RLock()
	if s.resourceLister != nil {
		caps.Resources = &ResourcesCapability{}
	}
	if len(s.prompts) > 0 {
		caps.Prompts = &PromptsCapability{}
	}
	s.mu.RUnlock()

	return s.sendResult(req.ID, initializeResult{
		ProtocolVersion: "2024-11-05",
		Capabilities:    caps,
		ServerInfo:      s.serverInfo,
		Instructions:    s.instructions,
	})
}

func (s *Server) handleToolsList(req *Request) error {
	s.mu.RLock()
	tools := make([]Tool, 0, len(s.toolOrder))
	for _, name := range s.toolOrder {
		tools = append(tools, s.tools[name])
	}
	s.mu.RUnlock()

	return s.sendResult(req.ID, toolsListResult{Tools: tools})
}

func (s *Server) handleToolsCall(ctx context.Context, req *Request) error {
	var params toolsCallParams
	if req.Params != nil {
		if err := json.Unmarshal(req.Params, &params); err != nil {
			return s.sendError(req.ID, InvalidParams, "Invalid params: "+err.Error())
		}
	}

	s.mu.RLock()
	handler, ok := s.handlers[params.Name]
	s.mu.RUnlock()
	if !ok {
		// Unknown tool is a content error, not a JSON-RPC error.
		return s.sendToolResult(req.ID, fmt.Sprintf("Tool not found: %s", params.Name), true)
	}

	output, err := handler(ctx, params.Arguments)
	if err != nil {
		return s.sendToolResult(req.ID, "Error: "+err.Error(), true)
	}
	return s.sendToolResult(req.ID, output, false)
}

func (s *Server) handleResourcesList(ctx context.Context, req *Request) error {
	s.mu.RLock()
	lister := s.resourceLister
	s.mu.RUnlock()
	if lister == nil {
		return s.sendResult(req.ID, resourcesListResult{Resources: []Resource{}})
	}

	resources, err := lister(ctx)
	if err != nil {
		return s.sendError(req.ID, InternalError, "Failed to list resources: "+err.Error())
	}
	if resources == nil {
		resources = []Resource{}
	}
	return s.sendResult(req.ID, resourcesListResult{Resources: resources})
}

func (s *Server) handleResourcesRead(ctx context.Context, req *Request) error {
	var params resourcesReadParams
	if req.Params != nil {
		if err := json.Unmarshal(req.Params, &params); err != nil {
			return s.sendError(req.ID, InvalidParams, "Invalid params: "+err.Error())
		}
	}
	if params.URI == "" {
		return s.sendError(req.ID, InvalidParams, "Missing resource URI")
	}

	s.mu.RLock()
	reader := s.resourceReader
	s.mu.RUnlock()
	if reader == nil {
		return s.sendError(req.ID, MethodNotFound, "Resources not supported")
	}

	text, mimeType, err := reader(ctx, params.URI)
	if err != nil {
		return s.sendError(req.ID, InvalidParams, "Failed to read resource: "+err.Error())
	}
	return s.sendResult(req.ID, resourcesReadResult{
		Contents: []resourceContents{{URI: params.URI, MimeType: mimeType, Text: text}},
	})
}

func (s *Server) handlePromptsList(req *Request) error {
	s.mu.RLock()
	prompts := make([]Prompt, 0, len(s.promptOrder))
	for _, name := range s.promptOrder {
		prompts = append(prompts, s.prompts[name])
	}
	s.mu.RUnlock()

	return s.sendResult(req.ID, promptsListResult{Prompts: prompts})
}

func (s *Server) handlePromptsGet(ctx context.Context, req *Request) error {
	var params promptsGetParams
	if req.Params != nil {
		if err := json.Unmarshal(req.Params, &params); err != nil {
			return s.sendError(req.ID, InvalidParams, "Invalid params: "+err.Error())
		}
	}

	s.mu.RLock()
	prompt, ok := s.prompts[params.Name]
	renderer := s.renderers[params.Name]
	s.mu.RUnlock()
	if !ok {
		return s.sendError(req.ID, InvalidParams, "Prompt not found: "+params.Name)
	}

	text, err := renderer(ctx, params.Arguments)
	if err != nil {
		return s.sendError(req.ID, InternalError, "Failed to render prompt: "+err.Error())
	}
	return s.sendResult(req.ID, promptsGetResult{
		Description: prompt.Description,
		Messages: []promptMessage{
			{Role: "user", Content: TextContent{Type: "text", Text: text}},
		},
	})
}

func (s *Server) sendResult(id json.RawMessage, result interface{}) error {
	resultJSON, err := json.Marshal(result)
	if err != nil {
		return s.sendError(id, InternalError, "Failed to marshal result: "+err.Error())
	}
	return s.transport.WriteResponse(&Response{
		JSONRPC: "2.0",
		ID:      id,
		Result:  resultJSON,
	})
}

func (s *Server) sendToolResult(id json.RawMessage, text string, isError bool) error {
	return s.sendResult(id, toolsCallResult{
		Content: []TextContent{{Type: "text", Text: text}},
		IsError: isError,
	})
}

func (s *Server) sendError(id json.RawMessage, code int, message string) error {
	return s.transport.WriteResponse(&Response{
		JSONRPC: "2.0",
		ID:      id,
		Error:   &Error{Code: code, Message: message},
	})
}

// Serve runs the request loop until EOF or context cancellation.
func (s *Server) Serve(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
			err := s.HandleOne(ctx)
			if err == io.EOF {
				return nil
			}
			if err != nil {
				fmt.Fprintf(os.Stderr, "mcp server error: %v\n", err)
			}
		}
	}
}

// ServeWithSignalHandler runs the server with graceful shutdown on
// SIGINT/SIGTERM.
func (s *Server) ServeWithSignalHandler() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	return s.Serve(ctx)
}
