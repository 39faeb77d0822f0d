package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

func pathProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Absolute path to the image file",
	}
}

func pointsProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "array",
		"description": "Exactly four corner points in any order",
		"minItems":    4,
		"maxItems":    4,
		"items": map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"x": map[string]interface{}{"type": "number"},
				"y": map[string]interface{}{"type": "number"},
			},
			"required": []string{"x", "y"},
		},
	}
}

func pathOnlySchema() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"path": pathProperty(),
		},
		"required": []string{"path"},
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Basic Image Operations
		{
			Name:        "image_load",
			Description: "Load an image file and return its width, height, channel count, format and file size. The image is cached for subsequent operations.",
			InputSchema: pathOnlySchema(),
		},
		{
			Name:        "image_sample_color",
			Description: "Get the color of the pixel at (x, y) as RGB, hex and HSL.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"x": map[string]interface{}{
						"type":        "integer",
						"description": "X coordinate (column, 0-based)",
					},
					"y": map[string]interface{}{
						"type":        "integer",
						"description": "Y coordinate (row, 0-based)",
					},
				},
				"required": []string{"path", "x", "y"},
			},
		},
		{
			Name:        "image_crop",
			Description: "Extract a rectangular region of interest and return it as base64-encoded PNG.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"x1": map[string]interface{}{
						"type":        "integer",
						"description": "Left edge X coordinate (0-based)",
					},
					"y1": map[string]interface{}{
						"type":        "integer",
						"description": "Top edge Y coordinate (0-based)",
					},
					"x2": map[string]interface{}{
						"type":        "integer",
						"description": "Right edge X coordinate (exclusive)",
					},
					"y2": map[string]interface{}{
						"type":        "integer",
						"description": "Bottom edge Y coordinate (exclusive)",
					},
				},
				"required": []string{"path", "x1", "y1", "x2", "y2"},
			},
		},
		{
			Name:        "image_resize",
			Description: "Resize an image with Lanczos resampling. Set one of width or height to 0 to keep the aspect ratio.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"width": map[string]interface{}{
						"type":        "integer",
						"description": "Target width in pixels, or 0 to derive it from height",
					},
					"height": map[string]interface{}{
						"type":        "integer",
						"description": "Target height in pixels, or 0 to derive it from width",
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_rotate",
			Description: "Rotate an image clockwise about its centre. The canvas keeps its size, so corners may be clipped.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"degrees": map[string]interface{}{
						"type":        "number",
						"description": "Clockwise angle in degrees; negative rotates counter-clockwise",
					},
				},
				"required": []string{"path", "degrees"},
			},
		},

		// Filters
		{
			Name:        "image_blur",
			Description: "Smooth an image with a Gaussian kernel to reduce high-frequency noise.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"kernel_size": map[string]interface{}{
						"type":        "integer",
						"description": "Odd kernel size in pixels. Default 5",
						"default":     5,
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_grayscale",
			Description: "Convert an image to grayscale.",
			InputSchema: pathOnlySchema(),
		},
		{
			Name:        "image_edge_detect",
			Description: "Detect edges using the Canny algorithm and return the edge map as PNG.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"threshold_low": map[string]interface{}{
						"type":        "integer",
						"description": "Lower hysteresis threshold. Default 50",
						"default":     50,
					},
					"threshold_high": map[string]interface{}{
						"type":        "integer",
						"description": "Upper hysteresis threshold. Default 150",
						"default":     150,
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_threshold",
			Description: "Binarize an image by luminance. Pixels at or above level become white; invert swaps black and white.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"level": map[string]interface{}{
						"type":        "integer",
						"description": "Threshold level 0-255. Default 127",
						"default":     127,
					},
					"invert": map[string]interface{}{
						"type":        "boolean",
						"description": "Inverse-binary output. Default false",
						"default":     false,
					},
				},
				"required": []string{"path"},
			},
		},

		// Contours
		{
			Name:        "image_detect_contours",
			Description: "Find dark objects on a light background: inverse threshold, trace each object's outer contour, and return the count, the contours and an annotated image.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"level": map[string]interface{}{
						"type":        "integer",
						"description": "Threshold level 0-255. Default 127",
						"default":     127,
					},
					"min_pixels": map[string]interface{}{
						"type":        "integer",
						"description": "Ignore objects smaller than this many pixels. Default 20",
						"default":     20,
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_find_document",
			Description: "Locate a sheet of paper in a photo: the largest contour that simplifies to four corners. Returns the ordered corners, the rectified size and the photo with the page outlined.",
			InputSchema: pathOnlySchema(),
		},

		// Rectification
		{
			Name:        "image_order_corners",
			Description: "Order four points as top-left, top-right, bottom-right, bottom-left and report the size of the rectangle they rectify to.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"points": pointsProperty(),
				},
				"required": []string{"points"},
			},
		},
		{
			Name:        "image_rectify",
			Description: "Apply a four-point perspective transform: map the quadrilateral given by four points onto an upright rectangle and return it as PNG.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":   pathProperty(),
					"points": pointsProperty(),
				},
				"required": []string{"path", "points"},
			},
		},
		{
			Name:        "image_scan_document",
			Description: "Turn a photo of a page into a top-down scan: find the page, rectify it, convert to grayscale and optionally threshold and OCR it.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"threshold": map[string]interface{}{
						"type":        "boolean",
						"description": "Apply an adaptive threshold for a black and white scan. Default false",
						"default":     false,
					},
					"ocr": map[string]interface{}{
						"type":        "boolean",
						"description": "Run OCR on the scanned page. Default false",
						"default":     false,
					},
					"language": map[string]interface{}{
						"type":        "string",
						"description": "Tesseract language code. Defaults to the server's configured language",
					},
				},
				"required": []string{"path"},
			},
		},
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
