package mcpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/tddworks/tddflow/internal/tddflow/i18n"
)

func TestBuildServerHandshakeAndToolsList(t *testing.T) {
	h := newTestHandler(t, i18n.LocaleEN)

	input := strings.NewReader(
		`{"jsonrpc":"2.0","id":1,"method":"initialize","params":{"protocolVersion":"2024-11-05"}}` + "\n" +
			`{"jsonrpc":"2.0","id":2,"method":"tools/list"}` + "\n")
	var output bytes.Buffer
	server := h.BuildServer(input, &output)

	ctx := context.Background()
	if err := server.HandleOne(ctx); err != nil {
		t.Fatalf("initialize error = %v", err)
	}

	var initResp struct {
		Result struct {
			ProtocolVersion string `json:"protocolVersion"`
			ServerInfo      struct {
				Name    string `json:"name"`
				Version string `json:"version"`
			} `json:"serverInfo"`
			Instructions string `json:"instructions"`
		} `json:"result"`
	}
	if err := json.Unmarshal(output.Bytes(), &initResp); err != nil {
		t.Fatalf("decode initialize response: %v\n%s", err, output.String())
	}
	if initResp.Result.ServerInfo.Name != ServerName {
		t.Errorf("serverInfo.name = %q, want %q", initResp.Result.ServerInfo.Name, ServerName)
	}
	if initResp.Result.ServerInfo.Version != ServerVersion {
		t.Errorf("serverInfo.version = %q", initResp.Result.ServerInfo.Version)
	}
	if initResp.Result.Instructions == "" {
		t.Error("initialize response missing instructions")
	}

	output.Reset()
	if err := server.HandleOne(ctx); err != nil {
		t.Fatalf("tools/list error = %v", err)
	}

	var listResp struct {
		Result struct {
			Tools []struct {
				Name string `json:"name"`
			} `json:"tools"`
		} `json:"result"`
	}
	if err := json.Unmarshal(output.Bytes(), &listResp); err != nil {
		t.Fatalf("decode tools/list response: %v\n%s", err, output.String())
	}
	if len(listResp.Result.Tools) != 15 {
		t.Errorf("tools/list returned %d tools, want the legacy 15", len(listResp.Result.Tools))
	}
}

func TestBuildServerSimplifiedSurface(t *testing.T) {
	h := newTestHandler(t, i18n.LocaleEN)
	h.cfg.UseNewTools = true

	input := strings.NewReader(`{"jsonrpc":"2.0","id":1,"method":"tools/list"}` + "\n")
	var output bytes.Buffer
	server := h.BuildServer(input, &output)

	if err := server.HandleOne(context.Background()); err != nil {
		t.Fatalf("tools/list error = %v", err)
	}

	var listResp struct {
		Result struct {
			Tools []struct {
				Name string `json:"name"`
			} `json:"tools"`
		} `json:"result"`
	}
	if err := json.Unmarshal(output.Bytes(), &listResp); err != nil {
		t.Fatalf("decode tools/list response: %v\n%s", err, output.String())
	}
	want := []string{"tdd", "feature", "track"}
	if len(listResp.Result.Tools) != len(want) {
		t.Fatalf("tools = %+v, want %v", listResp.Result.Tools, want)
	}
	for i, tool := range listResp.Result.Tools {
		if tool.Name != want[i] {
			t.Errorf("tools[%d].Name = %q, want %q", i, tool.Name, want[i])
		}
	}
}

func TestBuildServerToolCall(t *testing.T) {
	h := newTestHandler(t, i18n.LocaleEN)

	input := strings.NewReader(`{"jsonrpc":"2.0","id":7,"method":"tools/call","params":{"name":"create_feature","arguments":{"name":"billing"}}}` + "\n")
	var output bytes.Buffer
	server := h.BuildServer(input, &output)

	if err := server.HandleOne(context.Background()); err != nil {
		t.Fatalf("tools/call error = %v", err)
	}

	var callResp struct {
		Result struct {
			Content []struct {
				Type string `json:"type"`
				Text string `json:"text"`
			} `json:"content"`
			IsError bool `json:"isError"`
		} `json:"result"`
	}
	if err := json.Unmarshal(output.Bytes(), &callResp); err != nil {
		t.Fatalf("decode tools/call response: %v\n%s", err, output.String())
	}
	if callResp.Result.IsError {
		t.Fatalf("tools/call failed: %+v", callResp.Result.Content)
	}
	if len(callResp.Result.Content) != 1 || !strings.Contains(callResp.Result.Content[0].Text, "feat-") {
		t.Errorf("content = %+v, want feature ID", callResp.Result.Content)
	}
}
