package server

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"github.com/ironsheep/docscan-mcp/internal/config"
	"github.com/ironsheep/docscan-mcp/internal/imaging"
	"github.com/ironsheep/docscan-mcp/internal/logging"
)

// Name and Version are reported in the initialize handshake.
const (
	Name    = "docscan-mcp"
	Version = "0.1.0"
)

// Server handles MCP protocol communication
type Server struct {
	cache    *imaging.ImageCache
	cfg      *config.Config
	log      *logrus.Logger
	validate *validator.Validate
	in       io.Reader
	out      io.Writer
}

// Option configures a Server.
type Option func(*Server) error

// MCPRequest represents an incoming JSON-RPC request
type MCPRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      interface{}     `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// MCPResponse represents an outgoing JSON-RPC response
type MCPResponse struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      interface{} `json:"id"`
	Result  interface{} `json:"result,omitempty"`
	Error   *MCPError   `json:"error,omitempty"`
}

// MCPError represents a JSON-RPC error
type MCPError struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// JSON-RPC error codes used by the server.
const (
	codeParseError     = -32700
	codeMethodNotFound = -32601
	codeInvalidParams  = -32602
	codeToolFailed     = -32000
)

// New creates a server. Without options it uses the built-in configuration,
// a logger that discards everything and stdio for transport.
func New(options ...Option) (*Server, error) {
	s := &Server{
		cache: imaging.NewImageCache(),
		in:    os.Stdin,
		out:   os.Stdout,
	}

	for _, option := range options {
		if err := option(s); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}

	if s.cfg == nil {
		s.cfg = config.Default()
	}
	if s.log == nil {
		s.log = logging.Discard()
	}
	if s.validate == nil {
		v, err := NewValidator()
		if err != nil {
			return nil, err
		}
		s.validate = v
	}

	return s, nil
}

// WithConfig sets the scanner and OCR settings.
func WithConfig(cfg *config.Config) Option {
	return func(s *Server) error {
		if cfg == nil {
			return fmt.Errorf("config is nil")
		}
		s.cfg = cfg
		return nil
	}
}

// WithLogger sets the logger. It must not write to the output stream.
func WithLogger(logger *logrus.Logger) Option {
	return func(s *Server) error {
		s.log = logger
		return nil
	}
}

// WithValidator sets the argument validator. It must know the "odd" tag;
// see NewValidator.
func WithValidator(v *validator.Validate) Option {
	return func(s *Server) error {
		s.validate = v
		return nil
	}
}

// WithIO replaces stdin and stdout as the transport.
func WithIO(in io.Reader, out io.Writer) Option {
	return func(s *Server) error {
		s.in = in
		s.out = out
		return nil
	}
}

// NewValidator returns a validator with the custom tags used by tool
// arguments registered.
func NewValidator() (*validator.Validate, error) {
	v := validator.New()
	err := v.RegisterValidation("odd", func(fl validator.FieldLevel) bool {
		return fl.Field().Int()%2 != 0
	})
	if err != nil {
		return nil, fmt.Errorf("failed to register odd validator: %w", err)
	}
	return v, nil
}

// Run serves newline-delimited JSON-RPC requests until the input ends or ctx
// is cancelled.
func (s *Server) Run(ctx context.Context) error {
	scanner := bufio.NewScanner(s.in)
	// Large requests carry point lists; responses carry base64 images.
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 1024*1024)

	encoder := json.NewEncoder(s.out)

	s.log.WithField("version", Version).Info("server started")

	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}

		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var req MCPRequest
		var resp *MCPResponse
		if err := json.Unmarshal(line, &req); err != nil {
			s.log.WithError(err).Warn("failed to parse request")
			resp = s.errorResponse(nil, codeParseError, "Parse error", err.Error())
		} else {
			resp = s.handleRequest(&req)
		}

		if resp != nil {
			if err := encoder.Encode(resp); err != nil {
				s.log.WithError(err).Error("failed to encode response")
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("scanner error: %w", err)
	}

	s.log.Info("input closed, shutting down")
	return nil
}

// handleRequest routes requests to appropriate handlers
func (s *Server) handleRequest(req *MCPRequest) *MCPResponse {
	s.log.WithField("method", req.Method).Debug("request")

	switch req.Method {
	case "initialize":
		return s.handleInitialize(req)
	case "notifications/initialized":
		// Client acknowledgment, no response needed
		return nil
	case "tools/list":
		return s.handleToolsList(req)
	case "tools/call":
		return s.handleToolsCall(req)
	case "ping":
		return &MCPResponse{
			JSONRPC: "2.0",
			ID:      req.ID,
			Result:  map[string]interface{}{},
		}
	default:
		return &MCPResponse{
			JSONRPC: "2.0",
			ID:      req.ID,
			Error: &MCPError{
				Code:    codeMethodNotFound,
				Message: fmt.Sprintf("Method not found: %s", req.Method),
			},
		}
	}
}

// handleInitialize responds to the initialize request
func (s *Server) handleInitialize(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"protocolVersion": "2024-11-05",
			"capabilities": map[string]interface{}{
				"tools": map[string]interface{}{},
			},
			"serverInfo": map[string]interface{}{
				"name":    Name,
				"version": Version,
			},
		},
	}
}
