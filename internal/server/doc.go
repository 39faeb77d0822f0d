// Package server implements the MCP (Model Context Protocol) server for the
// document scanner tools.
//
// The server speaks JSON-RPC 2.0 over newline-delimited stdio:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Logs go to stderr through the logrus logger passed with WithLogger.
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
// Basic Image Operations:
//   - image_load: Load image and get width, height, channels and format
//   - image_sample_color: Get color at pixel
//   - image_crop: Extract a region of interest
//   - image_resize: Resize, optionally keeping the aspect ratio
//   - image_rotate: Rotate clockwise about the centre
//
// Filters:
//   - image_blur: Gaussian blur
//   - image_grayscale: Grayscale conversion
//   - image_edge_detect: Canny edge detection
//   - image_threshold: Binary or inverse-binary threshold
//
// Contours:
//   - image_detect_contours: Count and outline dark objects
//   - image_find_document: Locate a page and order its corners
//
// Rectification:
//   - image_order_corners: Order four points clockwise from top-left
//   - image_rectify: Four-point perspective transform
//   - image_scan_document: Full scan, with optional threshold and OCR
//
// # Arguments
//
// Arguments are decoded over a struct holding the defaults and checked with
// go-playground/validator tags. Each call is logged with a random call_id,
// the tool name and its duration.
//
// # Error Handling
//
// Tool errors are returned as JSON-RPC error responses:
//   - -32602: arguments that fail to decode or validate, unknown tools, and
//     point lists that are not exactly four finite points
//   - -32000: any other failure, such as a missing file or no page found
//
// The error's data field carries the Go error string.
//
// # Usage
//
//	srv, err := server.New(server.WithConfig(cfg), server.WithLogger(logger))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := srv.Run(ctx); err != nil {
//	    log.Fatal(err)
//	}
package server
