package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ironsheep/docscan-mcp/internal/detection"
	"github.com/ironsheep/docscan-mcp/internal/imaging"
	"github.com/ironsheep/docscan-mcp/internal/logging"
	"github.com/ironsheep/docscan-mcp/internal/ocr"
	"github.com/ironsheep/docscan-mcp/internal/rectify"
	"github.com/ironsheep/docscan-mcp/internal/scanner"
)

// errInvalidArgs marks argument decoding and validation failures so they are
// reported as JSON-RPC invalid params rather than tool failures.
var errInvalidArgs = errors.New("invalid arguments")

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "image_load", "image_rectify").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Bad arguments, including a point list that is not four finite points,
// return code -32602. Any other tool failure returns code -32000.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, codeInvalidParams, "Invalid params", err.Error())
	}

	entry := s.log.WithFields(logging.Fields{
		"call_id": uuid.NewString(),
		"tool":    params.Name,
	})
	start := time.Now()

	result, err := s.executeTool(params.Name, params.Arguments)

	entry = entry.WithField("duration", time.Since(start).Round(time.Microsecond))
	if err != nil {
		entry.WithError(err).Warn("tool call failed")
		if isInvalidParams(err) {
			return s.errorResponse(req.ID, codeInvalidParams, "Invalid params", err.Error())
		}
		return s.errorResponse(req.ID, codeToolFailed, "Tool execution failed", err.Error())
	}
	entry.Info("tool call")

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

func isInvalidParams(err error) bool {
	return errors.Is(err, errInvalidArgs) || errors.Is(err, rectify.ErrInvalidInput)
}

// executeTool dispatches tool execution to the appropriate handler function.
//
// Each tool handler:
//  1. Decodes arguments over a struct pre-filled with defaults
//  2. Validates them against the struct's validate tags
//  3. Loads the image from the cache
//  4. Calls the imaging, detection, rectify or scanner function
//  5. Returns the result, with images as base64 PNG
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// Basic Image Operations
	case "image_load":
		return s.handleImageLoad(args)
	case "image_sample_color":
		return s.handleImageSampleColor(args)
	case "image_crop":
		return s.handleImageCrop(args)
	case "image_resize":
		return s.handleImageResize(args)
	case "image_rotate":
		return s.handleImageRotate(args)

	// Filters
	case "image_blur":
		return s.handleImageBlur(args)
	case "image_grayscale":
		return s.handleImageGrayscale(args)
	case "image_edge_detect":
		return s.handleImageEdgeDetect(args)
	case "image_threshold":
		return s.handleImageThreshold(args)

	// Contours
	case "image_detect_contours":
		return s.handleImageDetectContours(args)
	case "image_find_document":
		return s.handleImageFindDocument(args)

	// Rectification
	case "image_order_corners":
		return s.handleImageOrderCorners(args)
	case "image_rectify":
		return s.handleImageRectify(args)
	case "image_scan_document":
		return s.handleImageScanDocument(args)

	default:
		return nil, fmt.Errorf("%w: unknown tool: %s", errInvalidArgs, name)
	}
}

// bind decodes args into dst and validates the result. Fields missing from
// args keep the values dst already holds.
func (s *Server) bind(args json.RawMessage, dst interface{}) error {
	if len(args) > 0 && string(args) != "null" {
		if err := json.Unmarshal(args, dst); err != nil {
			return fmt.Errorf("%w: %w", errInvalidArgs, err)
		}
	}
	if err := s.validate.Struct(dst); err != nil {
		return fmt.Errorf("%w: %w", errInvalidArgs, err)
	}
	return nil
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// On marshal failure it returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// === Basic Image Operation Handlers ===

type pathArgs struct {
	Path string `json:"path" validate:"required"`
}

func (s *Server) handleImageLoad(args json.RawMessage) (interface{}, error) {
	var a pathArgs
	if err := s.bind(args, &a); err != nil {
		return nil, err
	}
	return imaging.LoadImageInfo(s.cache, a.Path)
}

type imageSampleColorArgs struct {
	Path string `json:"path" validate:"required"`
	X    int    `json:"x" validate:"min=0"`
	Y    int    `json:"y" validate:"min=0"`
}

func (s *Server) handleImageSampleColor(args json.RawMessage) (interface{}, error) {
	var a imageSampleColorArgs
	if err := s.bind(args, &a); err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	return imaging.SampleColor(img, a.X, a.Y)
}

type imageCropArgs struct {
	Path string `json:"path" validate:"required"`
	X1   int    `json:"x1" validate:"min=0"`
	Y1   int    `json:"y1" validate:"min=0"`
	X2   int    `json:"x2" validate:"gtfield=X1"`
	Y2   int    `json:"y2" validate:"gtfield=Y1"`
}

func (s *Server) handleImageCrop(args json.RawMessage) (interface{}, error) {
	var a imageCropArgs
	if err := s.bind(args, &a); err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	out, err := imaging.Crop(img, imaging.Region{X1: a.X1, Y1: a.Y1, X2: a.X2, Y2: a.Y2})
	if err != nil {
		return nil, err
	}
	return imaging.EncodePNG(out)
}

type imageResizeArgs struct {
	Path   string `json:"path" validate:"required"`
	Width  int    `json:"width" validate:"min=0"`
	Height int    `json:"height" validate:"min=0"`
}

func (s *Server) handleImageResize(args json.RawMessage) (interface{}, error) {
	var a imageResizeArgs
	if err := s.bind(args, &a); err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	out, err := imaging.Resize(img, a.Width, a.Height)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errInvalidArgs, err)
	}
	return imaging.EncodePNG(out)
}

type imageRotateArgs struct {
	Path    string  `json:"path" validate:"required"`
	Degrees float64 `json:"degrees"`
}

func (s *Server) handleImageRotate(args json.RawMessage) (interface{}, error) {
	var a imageRotateArgs
	if err := s.bind(args, &a); err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	return imaging.EncodePNG(imaging.Rotate(img, a.Degrees))
}

// === Filter Handlers ===

type imageBlurArgs struct {
	Path       string `json:"path" validate:"required"`
	KernelSize int    `json:"kernel_size" validate:"min=1,max=101,odd"`
}

func (s *Server) handleImageBlur(args json.RawMessage) (interface{}, error) {
	a := imageBlurArgs{KernelSize: 5}
	if err := s.bind(args, &a); err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	out, err := imaging.GaussianBlur(img, a.KernelSize)
	if err != nil {
		return nil, err
	}
	return imaging.EncodePNG(out)
}

func (s *Server) handleImageGrayscale(args json.RawMessage) (interface{}, error) {
	var a pathArgs
	if err := s.bind(args, &a); err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	return imaging.EncodePNG(imaging.Grayscale(img))
}

type imageEdgeDetectArgs struct {
	Path          string `json:"path" validate:"required"`
	ThresholdLow  int    `json:"threshold_low" validate:"min=0,ltefield=ThresholdHigh"`
	ThresholdHigh int    `json:"threshold_high" validate:"min=0,max=1020"`
}

func (s *Server) handleImageEdgeDetect(args json.RawMessage) (interface{}, error) {
	a := imageEdgeDetectArgs{ThresholdLow: 50, ThresholdHigh: 150}
	if err := s.bind(args, &a); err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	return imaging.EncodePNG(imaging.Canny(img, a.ThresholdLow, a.ThresholdHigh))
}

type imageThresholdArgs struct {
	Path   string `json:"path" validate:"required"`
	Level  int    `json:"level" validate:"min=0,max=255"`
	Invert bool   `json:"invert"`
}

func (s *Server) handleImageThreshold(args json.RawMessage) (interface{}, error) {
	a := imageThresholdArgs{Level: 127}
	if err := s.bind(args, &a); err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	return imaging.EncodePNG(imaging.Threshold(imaging.Grayscale(img), uint8(a.Level), a.Invert))
}

// === Contour Handlers ===

type imageDetectContoursArgs struct {
	Path      string `json:"path" validate:"required"`
	Level     int    `json:"level" validate:"min=0,max=255"`
	MinPixels int    `json:"min_pixels" validate:"min=1"`
}

// ContoursResult is the response of image_detect_contours.
type ContoursResult struct {
	Count    int                  `json:"count"`
	Contours []detection.Contour  `json:"contours"`
	Image    *imaging.ImageResult `json:"image"`
}

func (s *Server) handleImageDetectContours(args json.RawMessage) (interface{}, error) {
	a := imageDetectContoursArgs{Level: 127, MinPixels: 20}
	if err := s.bind(args, &a); err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}

	objs := detection.DetectObjects(img, uint8(a.Level), a.MinPixels)
	encoded, err := imaging.EncodePNG(objs.Annotated)
	if err != nil {
		return nil, err
	}
	return &ContoursResult{
		Count:    len(objs.Contours),
		Contours: objs.Contours,
		Image:    encoded,
	}, nil
}

// DocumentResult is the response of image_find_document.
type DocumentResult struct {
	Corners rectify.OrderedQuad `json:"corners"`
	Size    rectify.Size        `json:"size"`

	// Image is the input with the page outlined.
	Image *imaging.ImageResult `json:"image"`
}

func (s *Server) handleImageFindDocument(args json.RawMessage) (interface{}, error) {
	var a pathArgs
	if err := s.bind(args, &a); err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}

	res, err := scanner.Detect(img, s.cfg.ScanOptions())
	if err != nil {
		return nil, err
	}
	encoded, err := imaging.EncodePNG(res.Outline)
	if err != nil {
		return nil, err
	}
	return &DocumentResult{Corners: res.Corners, Size: res.Size, Image: encoded}, nil
}

// === Rectification Handlers ===

type imageOrderCornersArgs struct {
	Points []rectify.Point `json:"points" validate:"required"`
}

// CornersResult is the response of image_order_corners.
type CornersResult struct {
	Corners rectify.OrderedQuad `json:"corners"`
	Size    rectify.Size        `json:"size"`
}

func (s *Server) handleImageOrderCorners(args json.RawMessage) (interface{}, error) {
	var a imageOrderCornersArgs
	if err := s.bind(args, &a); err != nil {
		return nil, err
	}
	q, err := rectify.OrderCorners(a.Points)
	if err != nil {
		return nil, err
	}
	return &CornersResult{Corners: q, Size: rectify.EstimateSize(q)}, nil
}

type imageRectifyArgs struct {
	Path   string          `json:"path" validate:"required"`
	Points []rectify.Point `json:"points" validate:"required"`
}

// RectifyResult is the response of image_rectify.
type RectifyResult struct {
	Corners rectify.OrderedQuad  `json:"corners"`
	Image   *imaging.ImageResult `json:"image"`
}

func (s *Server) handleImageRectify(args json.RawMessage) (interface{}, error) {
	var a imageRectifyArgs
	if err := s.bind(args, &a); err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}

	warped, q, err := rectify.FourPointTransform(img, a.Points)
	if err != nil {
		return nil, err
	}
	encoded, err := imaging.EncodePNG(warped)
	if err != nil {
		return nil, err
	}
	return &RectifyResult{Corners: q, Image: encoded}, nil
}

type imageScanDocumentArgs struct {
	Path      string `json:"path" validate:"required"`
	Threshold bool   `json:"threshold"`
	OCR       bool   `json:"ocr"`
	Language  string `json:"language"`
}

// ScanResult is the response of image_scan_document.
type ScanResult struct {
	Corners rectify.OrderedQuad `json:"corners"`
	Size    rectify.Size        `json:"size"`

	// Image is the scanned page: grayscale, or black and white when
	// thresholding was requested.
	Image *imaging.ImageResult `json:"image"`

	// Text is set when OCR was requested.
	Text *ocr.OCRResult `json:"text,omitempty"`
}

func (s *Server) handleImageScanDocument(args json.RawMessage) (interface{}, error) {
	var a imageScanDocumentArgs
	if err := s.bind(args, &a); err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}

	opts := s.cfg.ScanOptions()
	opts.Threshold = a.Threshold
	res, err := scanner.Scan(img, opts)
	if err != nil {
		return nil, err
	}

	encoded, err := imaging.EncodePNG(res.Scanned)
	if err != nil {
		return nil, err
	}
	out := &ScanResult{Corners: res.Corners, Size: res.Size, Image: encoded}

	if a.OCR {
		lang := a.Language
		if lang == "" {
			lang = s.cfg.OCRLanguage
		}
		out.Text, err = ocr.Recognize(res.Scanned, lang)
		if err != nil {
			return nil, fmt.Errorf("ocr: %w", err)
		}
	}
	return out, nil
}
