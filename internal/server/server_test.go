package server

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"github.com/ironsheep/docscan-mcp/internal/config"
	"github.com/ironsheep/docscan-mcp/internal/logging"
)

// newTestServer returns a server with default settings and a silent logger.
func newTestServer(t *testing.T, options ...Option) *Server {
	t.Helper()
	s, err := New(options...)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return s
}

func TestNew(t *testing.T) {
	s := newTestServer(t)
	if s.cache == nil {
		t.Fatal("New() did not initialize cache")
	}
	if s.cfg == nil || s.log == nil || s.validate == nil {
		t.Fatal("New() did not apply defaults")
	}
	if s.cfg.CannyLow != config.Default().CannyLow {
		t.Errorf("default config not used: CannyLow %d", s.cfg.CannyLow)
	}
}

func TestNew_Options(t *testing.T) {
	cfg := config.Default()
	cfg.OCRLanguage = "deu"
	logger := logging.Discard()
	v := validator.New()

	s := newTestServer(t, WithConfig(cfg), WithLogger(logger), WithValidator(v))

	if s.cfg != cfg {
		t.Error("WithConfig not applied")
	}
	if s.log != logger {
		t.Error("WithLogger not applied")
	}
	if s.validate != v {
		t.Error("WithValidator not applied")
	}
}

func TestNew_NilConfig(t *testing.T) {
	if _, err := New(WithConfig(nil)); err == nil {
		t.Error("New should reject a nil config")
	}
}

func TestNewValidator_Odd(t *testing.T) {
	v, err := NewValidator()
	if err != nil {
		t.Fatalf("NewValidator failed: %v", err)
	}

	type kernel struct {
		Size int `validate:"odd"`
	}

	tests := []struct {
		size  int
		valid bool
	}{
		{1, true},
		{5, true},
		{11, true},
		{0, false},
		{4, false},
		{-3, true},
	}

	for _, tt := range tests {
		err := v.Struct(kernel{Size: tt.size})
		if (err == nil) != tt.valid {
			t.Errorf("size %d: got err %v, want valid=%v", tt.size, err, tt.valid)
		}
	}
}

func TestMCPRequest_Unmarshal(t *testing.T) {
	tests := []struct {
		name       string
		json       string
		wantID     interface{}
		wantMethod string
	}{
		{
			"string id",
			`{"jsonrpc":"2.0","id":"test-1","method":"tools/list"}`,
			"test-1",
			"tools/list",
		},
		{
			"number id",
			`{"jsonrpc":"2.0","id":42,"method":"ping"}`,
			float64(42), // JSON numbers decode as float64
			"ping",
		},
		{
			"null id",
			`{"jsonrpc":"2.0","id":null,"method":"initialize"}`,
			nil,
			"initialize",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req MCPRequest
			if err := json.Unmarshal([]byte(tt.json), &req); err != nil {
				t.Fatalf("Failed to unmarshal: %v", err)
			}

			if req.ID != tt.wantID {
				t.Errorf("ID: got %v (%T), want %v (%T)", req.ID, req.ID, tt.wantID, tt.wantID)
			}
			if req.Method != tt.wantMethod {
				t.Errorf("Method: got %s, want %s", req.Method, tt.wantMethod)
			}
			if req.JSONRPC != "2.0" {
				t.Errorf("JSONRPC: got %s, want 2.0", req.JSONRPC)
			}
		})
	}
}

func TestMCPResponse_WithError(t *testing.T) {
	resp := MCPResponse{
		JSONRPC: "2.0",
		ID:      1,
		Error: &MCPError{
			Code:    -32601,
			Message: "Method not found",
		},
	}

	data, err := json.Marshal(resp)
	if err != nil {
		t.Fatalf("Failed to marshal: %v", err)
	}
	if strings.Contains(string(data), `"result"`) {
		t.Errorf("error response should omit result: %s", data)
	}

	var decoded MCPResponse
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Failed to unmarshal: %v", err)
	}
	if decoded.Error == nil || decoded.Error.Code != -32601 {
		t.Errorf("Error: got %+v, want code -32601", decoded.Error)
	}
}

func TestHandleRequest_Initialize(t *testing.T) {
	s := newTestServer(t)
	resp := s.handleRequest(&MCPRequest{JSONRPC: "2.0", ID: "init-1", Method: "initialize"})

	if resp == nil || resp.Error != nil {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if resp.ID != "init-1" {
		t.Errorf("ID: got %v, want init-1", resp.ID)
	}

	result, ok := resp.Result.(map[string]interface{})
	if !ok {
		t.Fatal("Result should be a map")
	}
	if result["protocolVersion"] != "2024-11-05" {
		t.Errorf("protocolVersion: got %v", result["protocolVersion"])
	}

	serverInfo, ok := result["serverInfo"].(map[string]interface{})
	if !ok {
		t.Fatal("serverInfo should be a map")
	}
	if serverInfo["name"] != "docscan-mcp" {
		t.Errorf("serverInfo.name: got %v", serverInfo["name"])
	}
	if serverInfo["version"] != Version {
		t.Errorf("serverInfo.version: got %v", serverInfo["version"])
	}
}

func TestHandleRequest_Ping(t *testing.T) {
	s := newTestServer(t)
	resp := s.handleRequest(&MCPRequest{JSONRPC: "2.0", ID: "ping-1", Method: "ping"})

	if resp == nil || resp.Error != nil {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if resp.ID != "ping-1" {
		t.Errorf("ID: got %v, want ping-1", resp.ID)
	}
}

func TestHandleRequest_NotificationsInitialized(t *testing.T) {
	s := newTestServer(t)
	resp := s.handleRequest(&MCPRequest{JSONRPC: "2.0", Method: "notifications/initialized"})

	// Notifications don't get responses
	if resp != nil {
		t.Error("notifications/initialized should return nil response")
	}
}

func TestHandleRequest_MethodNotFound(t *testing.T) {
	s := newTestServer(t)
	resp := s.handleRequest(&MCPRequest{JSONRPC: "2.0", ID: 1, Method: "nonexistent/method"})

	if resp == nil || resp.Error == nil {
		t.Fatal("Expected error for unknown method")
	}
	if resp.Error.Code != -32601 {
		t.Errorf("Error code: got %d, want -32601", resp.Error.Code)
	}
}

// runLines feeds input to Run and returns the decoded response lines.
func runLines(t *testing.T, s *Server, input string) []MCPResponse {
	t.Helper()

	var out bytes.Buffer
	s.in = strings.NewReader(input)
	s.out = &out

	if err := s.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	var resps []MCPResponse
	sc := bufio.NewScanner(&out)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		var r MCPResponse
		if err := json.Unmarshal(sc.Bytes(), &r); err != nil {
			t.Fatalf("bad response line %q: %v", sc.Text(), err)
		}
		resps = append(resps, r)
	}
	return resps
}

func TestRun(t *testing.T) {
	s := newTestServer(t)
	input := strings.Join([]string{
		`{"jsonrpc":"2.0","id":1,"method":"initialize"}`,
		`{"jsonrpc":"2.0","method":"notifications/initialized"}`,
		``,
		`{"jsonrpc":"2.0","id":2,"method":"tools/list"}`,
		`{"jsonrpc":"2.0","id":3,"method":"ping"}`,
	}, "\n")

	resps := runLines(t, s, input)

	if len(resps) != 3 {
		t.Fatalf("got %d responses, want 3", len(resps))
	}
	for i, want := range []float64{1, 2, 3} {
		if resps[i].ID != want {
			t.Errorf("response %d: ID %v, want %v", i, resps[i].ID, want)
		}
		if resps[i].Error != nil {
			t.Errorf("response %d: unexpected error %+v", i, resps[i].Error)
		}
	}
}

func TestRun_ParseError(t *testing.T) {
	s := newTestServer(t)
	resps := runLines(t, s, "{not json}\n"+`{"jsonrpc":"2.0","id":7,"method":"ping"}`)

	if len(resps) != 2 {
		t.Fatalf("got %d responses, want 2", len(resps))
	}
	if resps[0].Error == nil || resps[0].Error.Code != -32700 {
		t.Errorf("first response: got %+v, want parse error", resps[0].Error)
	}
	if resps[1].ID != float64(7) || resps[1].Error != nil {
		t.Errorf("server should keep serving after a parse error, got %+v", resps[1])
	}
}

func TestRun_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	s := newTestServer(t, WithIO(strings.NewReader(`{"jsonrpc":"2.0","id":1,"method":"ping"}`), &out))

	if err := s.Run(ctx); err != context.Canceled {
		t.Errorf("got %v, want context.Canceled", err)
	}
	if out.Len() != 0 {
		t.Errorf("no responses expected after cancellation, got %q", out.String())
	}
}

func TestRun_LogsToolCalls(t *testing.T) {
	var logs bytes.Buffer
	logger, err := logging.New(logging.Options{Level: "info", Stderr: &logs})
	if err != nil {
		t.Fatalf("logging.New failed: %v", err)
	}

	s := newTestServer(t, WithLogger(logger))
	input := `{"jsonrpc":"2.0","id":1,"method":"tools/call","params":{"name":"image_order_corners","arguments":{"points":[{"x":0,"y":0},{"x":10,"y":0},{"x":10,"y":10},{"x":0,"y":10}]}}}` + "\n" +
		`{"jsonrpc":"2.0","id":2,"method":"tools/call","params":{"name":"image_load","arguments":{"path":"/nonexistent/page.png"}}}`

	resps := runLines(t, s, input)
	if len(resps) != 2 {
		t.Fatalf("got %d responses, want 2", len(resps))
	}

	text := logs.String()
	for _, want := range []string{"call_id:", "tool:image_order_corners", "tool call", "WARN", "tool call failed"} {
		if !strings.Contains(text, want) {
			t.Errorf("log output missing %q:\n%s", want, text)
		}
	}
}

func TestRun_DebugLogsMethods(t *testing.T) {
	var logs bytes.Buffer
	logger, err := logging.New(logging.Options{Level: "debug", Stderr: &logs})
	if err != nil {
		t.Fatalf("logging.New failed: %v", err)
	}
	if logger.GetLevel() != logrus.DebugLevel {
		t.Fatalf("level: got %v, want debug", logger.GetLevel())
	}

	s := newTestServer(t, WithLogger(logger))
	runLines(t, s, `{"jsonrpc":"2.0","id":1,"method":"ping"}`)

	if !strings.Contains(logs.String(), "method:ping") {
		t.Errorf("debug log should name the method:\n%s", logs.String())
	}
}
