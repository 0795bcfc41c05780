package server

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/ironsheep/pixel-editor/internal/codec"
	"github.com/ironsheep/pixel-editor/internal/editor"
	"github.com/ironsheep/pixel-editor/internal/imaging"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "image_decode", "image_crop").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// paramError marks a failure caused by the caller's arguments rather than by
// the operation itself.
type paramError struct {
	err error
}

func (e *paramError) Error() string { return e.err.Error() }
func (e *paramError) Unwrap() error { return e.err }

func invalidParams(format string, args ...interface{}) error {
	return &paramError{err: fmt.Errorf(format, args...)}
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Malformed arguments, unknown tools and unknown sessions return code -32602.
// Operations that run but fail return code -32000.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		var pe *paramError
		if errors.As(err, &pe) || errors.Is(err, ErrUnknownSession) {
			s.logger.Debug("tool rejected", zap.String("tool", params.Name), zap.Error(err))
			return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
		}
		s.logger.Info("tool failed", zap.String("tool", params.Name), zap.Error(err))
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

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

// executeTool dispatches tool execution to the appropriate handler function.
//
// Each tool handler:
//  1. Unmarshals arguments from JSON
//  2. Applies default values for optional parameters
//  3. Runs the operation while holding the session lock
//  4. Returns the result or error
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// Sessions
	case "session_open":
		return s.handleSessionOpen(args)
	case "session_close":
		return s.handleSessionClose(args)

	// Input / output
	case "image_decode":
		return s.handleImageDecode(args)
	case "image_load_raw":
		return s.handleImageLoadRaw(args)
	case "image_encode":
		return s.handleImageEncode(args)
	case "image_info":
		return s.handleImageInfo(args)

	// Geometry
	case "image_crop":
		return s.handleImageCrop(args)
	case "image_scale":
		return s.handleImageScale(args)

	// Color
	case "image_grayscale":
		return s.handleImageGrayscale(args)
	case "image_posterize":
		return s.handleImagePosterize(args)
	case "image_is_dark":
		return s.handleImageIsDark(args)
	case "image_make_opaque":
		return s.handleImageMakeOpaque(args)

	// Snapshots
	case "snapshot_save":
		return s.handleSnapshotSave(args)
	case "snapshot_restore":
		return s.handleSnapshotRestore(args)
	case "snapshot_clear":
		return s.handleSnapshotClear(args)

	// Inspection
	case "image_sample_color":
		return s.handleImageSampleColor(args)
	case "image_preview":
		return s.handleImagePreview(args)

	default:
		return nil, invalidParams("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	resp := &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
		},
	}
	if data != "" {
		resp.Error.Data = data
	}
	return resp
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// Panics are suppressed; on marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// decodeArgs unmarshals tool arguments. Missing arguments decode as {}.
func decodeArgs(args json.RawMessage, v interface{}) error {
	if len(bytes.TrimSpace(args)) == 0 {
		args = json.RawMessage("{}")
	}
	if err := json.Unmarshal(args, v); err != nil {
		return &paramError{err: err}
	}
	return nil
}

func decodeBase64(field, data string) ([]byte, error) {
	b, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return nil, invalidParams("%s: %v", field, err)
	}
	return b, nil
}

type sessionArgs struct {
	SessionID string `json:"session_id"`
}

// ImageInfoResult describes the state of a session after an operation.
type ImageInfoResult struct {
	SessionID   string `json:"session_id"`
	Width       uint32 `json:"width"`
	Height      uint32 `json:"height"`
	HasAlpha    bool   `json:"has_alpha"`
	IsGrayscale bool   `json:"is_grayscale"`
	HasSnapshot bool   `json:"has_snapshot"`
}

func infoResult(id string, sess *editor.Session) *ImageInfoResult {
	return &ImageInfoResult{
		SessionID:   id,
		Width:       sess.Width(),
		Height:      sess.Height(),
		HasAlpha:    sess.HasAlpha(),
		IsGrayscale: sess.IsGrayscale(),
		HasSnapshot: sess.HasSnapshot(),
	}
}

// withInfo runs op on the session and reports the resulting state.
func (s *Server) withInfo(args json.RawMessage, op func(*editor.Session) error) (interface{}, error) {
	var a sessionArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	return s.sessions.With(a.SessionID, func(sess *editor.Session) (interface{}, error) {
		if err := op(sess); err != nil {
			return nil, err
		}
		return infoResult(a.SessionID, sess), nil
	})
}

// === Session Handlers ===

func (s *Server) handleSessionOpen(args json.RawMessage) (interface{}, error) {
	var a struct{}
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	id := s.sessions.Open()
	s.logger.Debug("session opened", zap.String("session", id), zap.Int("open", s.sessions.Len()))
	return map[string]interface{}{"session_id": id}, nil
}

func (s *Server) handleSessionClose(args json.RawMessage) (interface{}, error) {
	var a sessionArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if err := s.sessions.Close(a.SessionID); err != nil {
		return nil, err
	}
	s.logger.Debug("session closed", zap.String("session", a.SessionID))
	return map[string]interface{}{"session_id": a.SessionID, "closed": true}, nil
}

// === Input / Output Handlers ===

type imageDecodeArgs struct {
	sessionArgs
	Data string `json:"data"`
	Path string `json:"path"`
}

func (s *Server) handleImageDecode(args json.RawMessage) (interface{}, error) {
	var a imageDecodeArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}

	var data []byte
	switch {
	case a.Data != "" && a.Path != "":
		return nil, invalidParams("give either data or path, not both")
	case a.Data != "":
		b, err := decodeBase64("data", a.Data)
		if err != nil {
			return nil, err
		}
		data = b
	case a.Path != "":
		b, err := os.ReadFile(a.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to open image: %w", err)
		}
		data = b
	default:
		return nil, invalidParams("data or path is required")
	}

	return s.sessions.With(a.SessionID, func(sess *editor.Session) (interface{}, error) {
		if err := sess.Decode(data); err != nil {
			return nil, err
		}
		return infoResult(a.SessionID, sess), nil
	})
}

type imageLoadRawArgs struct {
	sessionArgs
	Data   string `json:"data"`
	Width  uint32 `json:"width"`
	Height uint32 `json:"height"`
}

func (s *Server) handleImageLoadRaw(args json.RawMessage) (interface{}, error) {
	var a imageLoadRawArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	buf, err := decodeBase64("data", a.Data)
	if err != nil {
		return nil, err
	}
	return s.sessions.With(a.SessionID, func(sess *editor.Session) (interface{}, error) {
		if err := sess.LoadRaw(buf, a.Width, a.Height); err != nil {
			return nil, err
		}
		return infoResult(a.SessionID, sess), nil
	})
}

type imageEncodeArgs struct {
	sessionArgs
	Format string `json:"format"`
	Path   string `json:"path"`
}

// EncodeResult carries an encoded image, inline or as the path written.
type EncodeResult struct {
	Format   string `json:"format"`
	MimeType string `json:"mime_type"`
	Size     int    `json:"size"`
	Data     string `json:"data,omitempty"`
	Path     string `json:"path,omitempty"`
}

func (s *Server) handleImageEncode(args json.RawMessage) (interface{}, error) {
	var a imageEncodeArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	format, err := codec.ParseFormat(a.Format)
	if err != nil {
		return nil, &paramError{err: err}
	}

	out, err := s.sessions.With(a.SessionID, func(sess *editor.Session) (interface{}, error) {
		return sess.Encode(format)
	})
	if err != nil {
		return nil, err
	}
	data := out.([]byte)

	result := &EncodeResult{
		Format:   format.String(),
		MimeType: format.MimeType(),
		Size:     len(data),
	}
	if a.Path != "" {
		if filepath.Ext(a.Path) == "" {
			a.Path += format.Extension()
		}
		if err := os.WriteFile(a.Path, data, 0o644); err != nil {
			return nil, fmt.Errorf("failed to write image: %w", err)
		}
		result.Path = a.Path
		return result, nil
	}
	result.Data = base64.StdEncoding.EncodeToString(data)
	return result, nil
}

func (s *Server) handleImageInfo(args json.RawMessage) (interface{}, error) {
	return s.withInfo(args, func(*editor.Session) error { return nil })
}

// === Geometry Handlers ===

type imageCropArgs struct {
	sessionArgs
	X      uint32 `json:"x"`
	Y      uint32 `json:"y"`
	Width  uint32 `json:"width"`
	Height uint32 `json:"height"`
}

func (s *Server) handleImageCrop(args json.RawMessage) (interface{}, error) {
	var a imageCropArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	return s.withInfo(args, func(sess *editor.Session) error {
		return sess.Crop(a.X, a.Y, a.Width, a.Height)
	})
}

type imageScaleArgs struct {
	sessionArgs
	Width  uint32 `json:"width"`
	Height uint32 `json:"height"`
	Mode   string `json:"mode"`
}

func (s *Server) handleImageScale(args json.RawMessage) (interface{}, error) {
	var a imageScaleArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Mode == "" {
		a.Mode = "bilinear"
	}
	mode, err := imaging.ParseScaleMode(a.Mode)
	if err != nil {
		return nil, &paramError{err: err}
	}
	return s.withInfo(args, func(sess *editor.Session) error {
		return sess.Scale(a.Width, a.Height, mode)
	})
}

// === Color Handlers ===

type imageGrayscaleArgs struct {
	sessionArgs
	Mode string `json:"mode"`
}

func (s *Server) handleImageGrayscale(args json.RawMessage) (interface{}, error) {
	var a imageGrayscaleArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Mode == "" {
		a.Mode = "luminance"
	}
	mode, err := imaging.ParseGrayscaleMode(a.Mode)
	if err != nil {
		return nil, &paramError{err: err}
	}
	return s.withInfo(args, func(sess *editor.Session) error {
		return sess.Grayscale(mode)
	})
}

type imagePosterizeArgs struct {
	sessionArgs
	Levels uint8 `json:"levels"`
	Red    uint8 `json:"red"`
	Green  uint8 `json:"green"`
	Blue   uint8 `json:"blue"`
	Dither bool  `json:"dither"`
}

func (s *Server) handleImagePosterize(args json.RawMessage) (interface{}, error) {
	var a imagePosterizeArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	for _, ch := range []*uint8{&a.Red, &a.Green, &a.Blue} {
		if *ch == 0 {
			*ch = a.Levels
		}
	}
	if a.Red < 2 || a.Green < 2 || a.Blue < 2 {
		return nil, &paramError{err: fmt.Errorf("%w: got %d,%d,%d", editor.ErrTooFewLevels, a.Red, a.Green, a.Blue)}
	}
	return s.withInfo(args, func(sess *editor.Session) error {
		return sess.Posterize(a.Dither, a.Red, a.Green, a.Blue)
	})
}

type imageIsDarkArgs struct {
	sessionArgs
	Seed           *uint8 `json:"seed"`
	DarkThreshold  *uint8 `json:"dark_threshold"`
	AlphaThreshold *uint8 `json:"alpha_threshold"`
}

func (s *Server) handleImageIsDark(args json.RawMessage) (interface{}, error) {
	var a imageIsDarkArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	seed, dark, alpha := uint8(255), uint8(192), uint8(64)
	if a.Seed != nil {
		seed = *a.Seed
	}
	if a.DarkThreshold != nil {
		dark = *a.DarkThreshold
	}
	if a.AlphaThreshold != nil {
		alpha = *a.AlphaThreshold
	}
	return s.sessions.With(a.SessionID, func(sess *editor.Session) (interface{}, error) {
		return map[string]interface{}{
			"session_id": a.SessionID,
			"is_dark":    sess.IsDark(seed, dark, alpha),
		}, nil
	})
}

func (s *Server) handleImageMakeOpaque(args json.RawMessage) (interface{}, error) {
	return s.withInfo(args, func(sess *editor.Session) error {
		sess.MakeOpaque()
		return nil
	})
}

// === Snapshot Handlers ===

func (s *Server) handleSnapshotSave(args json.RawMessage) (interface{}, error) {
	return s.withInfo(args, func(sess *editor.Session) error {
		sess.SnapshotSave()
		return nil
	})
}

func (s *Server) handleSnapshotRestore(args json.RawMessage) (interface{}, error) {
	return s.withInfo(args, func(sess *editor.Session) error {
		return sess.SnapshotRestore()
	})
}

func (s *Server) handleSnapshotClear(args json.RawMessage) (interface{}, error) {
	return s.withInfo(args, func(sess *editor.Session) error {
		sess.SnapshotClear()
		return nil
	})
}

// === Inspection Handlers ===

type imageSampleColorArgs struct {
	sessionArgs
	X uint32 `json:"x"`
	Y uint32 `json:"y"`
}

func (s *Server) handleImageSampleColor(args json.RawMessage) (interface{}, error) {
	var a imageSampleColorArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	return s.sessions.With(a.SessionID, func(sess *editor.Session) (interface{}, error) {
		if sess.Info().IsEmpty() {
			return nil, editor.ErrNoImage
		}
		return imaging.SampleColor(sess.Info(), sess.Pixels(), a.X, a.Y)
	})
}

type imagePreviewArgs struct {
	sessionArgs
	MaxSize int `json:"max_size"`
}

func (s *Server) handleImagePreview(args json.RawMessage) (interface{}, error) {
	var a imagePreviewArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.MaxSize == 0 {
		a.MaxSize = s.cfg.PreviewSize
	}
	if a.MaxSize < 1 || a.MaxSize > maxPreviewSize {
		return nil, invalidParams("max_size must be 1-%d, got %d", maxPreviewSize, a.MaxSize)
	}
	return s.sessions.With(a.SessionID, func(sess *editor.Session) (interface{}, error) {
		if sess.Info().IsEmpty() {
			return nil, editor.ErrNoImage
		}
		return renderPreview(sess.Info(), sess.Pixels(), a.MaxSize)
	})
}
