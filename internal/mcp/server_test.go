package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func newTestServer(input string) (*Server, *bytes.Buffer) {
	var output bytes.Buffer
	server := NewServer(strings.NewReader(input), &output)
	server.SetServerInfo("tddflow", "1.0.0")
	return server, &output
}

func handleOne(t *testing.T, server *Server) {
	t.Helper()
	if err := server.HandleOne(context.Background()); err != nil {
		t.Fatalf("HandleOne() error = %v", err)
	}
}

func decodeResponse(t *testing.T, output *bytes.Buffer) *Response {
	t.Helper()
	var resp Response
	if err := json.Unmarshal(output.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	return &resp
}

func TestServerInitialize(t *testing.T) {
	input := `{"jsonrpc":"2.0","id":1,"method":"initialize","params":{"protocolVersion":"2024-11-05","capabilities":{},"clientInfo":{"name":"test","version":"1.0"}}}
`
	server, output := newTestServer(input)
	handleOne(t, server)

	resp := decodeResponse(t, output)
	if resp.Error != nil {
		t.Fatalf("expected success, got error: %v", resp.Error)
	}

	var result initializeResult
	if err := json.Unmarshal(resp.Result, &result); err != nil {
		t.Fatalf("failed to parse result: %v", err)
	}
	if result.ServerInfo.Name != "tddflow" {
		t.Errorf("ServerInfo.Name = %v, want tddflow", result.ServerInfo.Name)
	}
	if result.ProtocolVersion != "2024-11-05" {
		t.Errorf("ProtocolVersion = %v, want 2024-11-05", result.ProtocolVersion)
	}
	if result.Capabilities.Tools == nil {
		t.Error("expected tools capability")
	}
	if result.Capabilities.Resources != nil {
		t.Error("expected no resources capability without a lister")
	}
}

func TestServerInitializeAdvertisesResources(t *testing.T) {
	input := `{"jsonrpc":"2.0","id":1,"method":"initialize"}
`
	server, output := newTestServer(input)
	server.RegisterResources(
		func(ctx context.Context) ([]Resource, error) { return nil, nil },
		func(ctx context.Context, uri string) (string, string, error) { return "", "", nil },
	)
	handleOne(t, server)

	var result initializeResult
	resp := decodeResponse(t, output)
	if err := json.Unmarshal(resp.Result, &result); err != nil {
		t.Fatalf("failed to parse result: %v", err)
	}
	if result.Capabilities.Resources == nil {
		t.Error("expected resources capability")
	}
}

func TestServerInitializedNotification(t *testing.T) {
	input := `{"jsonrpc":"2.0","method":"notifications/initialized"}
`
	server, output := newTestServer(input)
	handleOne(t, server)
	if output.Len() != 0 {
		t.Errorf("notification should produce no response, got %q", output.String())
	}
}

func TestServerToolsListPreservesOrder(t *testing.T) {
	input := `{"jsonrpc":"2.0","id":2,"method":"tools/list"}
`
	server, output := newTestServer(input)
	names := []string{"generate_test_cases", "generate_implementation", "run_tests"}
	for _, name := range names {
		server.RegisterTool(Tool{
			Name:        name,
			InputSchema: json.RawMessage(`{"type":"object"}`),
		}, func(ctx context.Context, args map[string]interface{}) (string, error) {
			return "", nil
		})
	}
	handleOne(t, server)

	resp := decodeResponse(t, output)
	var result toolsListResult
	if err := json.Unmarshal(resp.Result, &result); err != nil {
		t.Fatalf("failed to parse result: %v", err)
	}
	if len(result.Tools) != len(names) {
		t.Fatalf("len(Tools) = %d, want %d", len(result.Tools), len(names))
	}
	for i, tool := range result.Tools {
		if tool.Name != names[i] {
			t.Errorf("Tools[%d].Name = %v, want %v", i, tool.Name, names[i])
		}
	}
}

func TestServerToolsCall(t *testing.T) {
	input := `{"jsonrpc":"2.0","id":3,"method":"tools/call","params":{"name":"echo","arguments":{"text":"hello"}}}
`
	server, output := newTestServer(input)
	server.RegisterTool(Tool{
		Name:        "echo",
		InputSchema: json.RawMessage(`{"type":"object"}`),
	}, func(ctx context.Context, args map[string]interface{}) (string, error) {
		text, _ := args["text"].(string)
		return text, nil
	})
	handleOne(t, server)

	resp := decodeResponse(t, output)
	var result toolsCallResult
	if err := json.Unmarshal(resp.Result, &result); err != nil {
		t.Fatalf("failed to parse result: %v", err)
	}
	if result.IsError {
		t.Error("expected IsError = false")
	}
	if len(result.Content) != 1 || result.Content[0].Text != "hello" {
		t.Errorf("Content = %+v, want single 'hello' block", result.Content)
	}
}

func TestServerToolsCallError(t *testing.T) {
	input := `{"jsonrpc":"2.0","id":4,"method":"tools/call","params":{"name":"boom"}}
`
	server, output := newTestServer(input)
	server.RegisterTool(Tool{
		Name:        "boom",
		InputSchema: json.RawMessage(`{"type":"object"}`),
	}, func(ctx context.Context, args map[string]interface{}) (string, error) {
		return "", errors.New("it broke")
	})
	handleOne(t, server)

	resp := decodeResponse(t, output)
	var result toolsCallResult
	if err := json.Unmarshal(resp.Result, &result); err != nil {
		t.Fatalf("failed to parse result: %v", err)
	}
	if !result.IsError {
		t.Error("expected IsError = true")
	}
	if !strings.Contains(result.Content[0].Text, "it broke") {
		t.Errorf("Content = %q, want error message", result.Content[0].Text)
	}
}

func TestServerToolNotFound(t *testing.T) {
	input := `{"jsonrpc":"2.0","id":5,"method":"tools/call","params":{"name":"missing"}}
`
	server, output := newTestServer(input)
	handleOne(t, server)

	resp := decodeResponse(t, output)
	if resp.Error != nil {
		t.Fatalf("unknown tool should be a content error, got JSON-RPC error: %v", resp.Error)
	}
	var result toolsCallResult
	if err := json.Unmarshal(resp.Result, &result); err != nil {
		t.Fatalf("failed to parse result: %v", err)
	}
	if !result.IsError {
		t.Error("expected IsError = true")
	}
	if !strings.Contains(result.Content[0].Text, "missing") {
		t.Errorf("Content = %q, want tool name", result.Content[0].Text)
	}
}

func TestServerMethodNotFound(t *testing.T) {
	input := `{"jsonrpc":"2.0","id":6,"method":"bogus/method"}
`
	server, output := newTestServer(input)
	handleOne(t, server)

	resp := decodeResponse(t, output)
	if resp.Error == nil {
		t.Fatal("expected JSON-RPC error")
	}
	if resp.Error.Code != MethodNotFound {
		t.Errorf("Error.Code = %d, want %d", resp.Error.Code, MethodNotFound)
	}
}

func TestServerResourcesListAndRead(t *testing.T) {
	input := `{"jsonrpc":"2.0","id":7,"method":"resources/list"}
{"jsonrpc":"2.0","id":8,"method":"resources/read","params":{"uri":"tddflow://projects/default/features"}}
`
	server, output := newTestServer(input)
	server.RegisterResources(
		func(ctx context.Context) ([]Resource, error) {
			return []Resource{{URI: "tddflow://projects/default/features", Name: "default/features", MimeType: "application/json"}}, nil
		},
		func(ctx context.Context, uri string) (string, string, error) {
			if uri != "tddflow://projects/default/features" {
				return "", "", errors.New("unknown uri")
			}
			return `[{"id":"feature-1"}]`, "application/json", nil
		},
	)

	handleOne(t, server)
	listResp := decodeResponse(t, output)
	output.Reset()
	handleOne(t, server)
	readResp := decodeResponse(t, output)

	var listResult resourcesListResult
	if err := json.Unmarshal(listResp.Result, &listResult); err != nil {
		t.Fatalf("failed to parse list result: %v", err)
	}
	if len(listResult.Resources) != 1 || listResult.Resources[0].URI != "tddflow://projects/default/features" {
		t.Fatalf("Resources = %+v, want single features resource", listResult.Resources)
	}

	var readResult resourcesReadResult
	if err := json.Unmarshal(readResp.Result, &readResult); err != nil {
		t.Fatalf("failed to parse read result: %v", err)
	}
	if len(readResult.Contents) != 1 || !strings.Contains(readResult.Contents[0].Text, "feature-1") {
		t.Errorf("Contents = %+v, want feature-1 record", readResult.Contents)
	}
	if readResult.Contents[0].MimeType != "application/json" {
		t.Errorf("MimeType = %v, want application/json", readResult.Contents[0].MimeType)
	}
}

func TestServerPromptsListAndGet(t *testing.T) {
	input := `{"jsonrpc":"2.0","id":9,"method":"prompts/list"}
{"jsonrpc":"2.0","id":10,"method":"prompts/get","params":{"name":"tdd_cycle","arguments":{"requirements":"parse dates"}}}
`
	server, output := newTestServer(input)
	server.RegisterPrompt(Prompt{
		Name:        "tdd_cycle",
		Description: "Guide one red-green-refactor cycle",
		Arguments: []PromptArgument{
			{Name: "requirements", Required: true},
		},
	}, func(ctx context.Context, args map[string]string) (string, error) {
		return "Requirement: " + args["requirements"], nil
	})

	handleOne(t, server)
	listResp := decodeResponse(t, output)
	output.Reset()
	handleOne(t, server)
	getResp := decodeResponse(t, output)

	var listResult promptsListResult
	if err := json.Unmarshal(listResp.Result, &listResult); err != nil {
		t.Fatalf("failed to parse list result: %v", err)
	}
	if len(listResult.Prompts) != 1 || listResult.Prompts[0].Name != "tdd_cycle" {
		t.Fatalf("Prompts = %+v, want tdd_cycle", listResult.Prompts)
	}

	var getResult promptsGetResult
	if err := json.Unmarshal(getResp.Result, &getResult); err != nil {
		t.Fatalf("failed to parse get result: %v", err)
	}
	if len(getResult.Messages) != 1 {
		t.Fatalf("len(Messages) = %d, want 1", len(getResult.Messages))
	}
	if !strings.Contains(getResult.Messages[0].Content.Text, "parse dates") {
		t.Errorf("Messages[0] = %q, want interpolated requirement", getResult.Messages[0].Content.Text)
	}
}
