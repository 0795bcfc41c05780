package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

var sessionIDProperty = map[string]interface{}{
	"type":        "string",
	"description": "Session ID returned by session_open",
}

// sessionTool builds the schema of a tool that acts on one session. The
// session_id property is added and required.
func sessionTool(name, description string, props map[string]interface{}, required ...string) Tool {
	properties := map[string]interface{}{"session_id": sessionIDProperty}
	for k, v := range props {
		properties[k] = v
	}
	return Tool{
		Name:        name,
		Description: description,
		InputSchema: map[string]interface{}{
			"type":       "object",
			"properties": properties,
			"required":   append([]string{"session_id"}, required...),
		},
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Sessions
		{
			Name:        "session_open",
			Description: "Open a new editing session holding one image and at most one snapshot. Returns the session_id used by every other tool.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
			},
		},
		sessionTool("session_close",
			"Close a session and free its image and snapshot.",
			nil),

		// Input / output
		sessionTool("image_decode",
			"Replace the session image by decoding a QOI or JPEG file. Provide either base64 data or a file path. Discards any snapshot.",
			map[string]interface{}{
				"data": map[string]interface{}{
					"type":        "string",
					"description": "Base64-encoded file contents",
				},
				"path": map[string]interface{}{
					"type":        "string",
					"description": "Absolute path to the image file",
				},
			}),
		sessionTool("image_load_raw",
			"Replace the session image with raw RGBA8 pixels (row-major, 4 bytes per pixel). Discards any snapshot.",
			map[string]interface{}{
				"data": map[string]interface{}{
					"type":        "string",
					"description": "Base64-encoded pixel buffer of at least width*height*4 bytes",
				},
				"width": map[string]interface{}{
					"type":        "integer",
					"description": "Image width in pixels",
					"minimum":     1,
				},
				"height": map[string]interface{}{
					"type":        "integer",
					"description": "Image height in pixels",
					"minimum":     1,
				},
			}, "data", "width", "height"),
		sessionTool("image_encode",
			"Encode the session image as QOI, JPEG or PNG. Returns base64 data, or writes the file when path is given.",
			map[string]interface{}{
				"format": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"qoi", "jpeg", "png"},
					"description": "Output format",
				},
				"path": map[string]interface{}{
					"type":        "string",
					"description": "Optional absolute path to write instead of returning data. A path without an extension gets the format's extension (.qoi, .jpg, .png)",
				},
			}, "format"),
		sessionTool("image_info",
			"Get the width, height, alpha and grayscale flags of the session image.",
			nil),

		// Geometry
		sessionTool("image_crop",
			"Crop the session image to a rectangle that must lie inside it.",
			map[string]interface{}{
				"x": map[string]interface{}{
					"type":        "integer",
					"description": "Left edge X coordinate (0-based)",
				},
				"y": map[string]interface{}{
					"type":        "integer",
					"description": "Top edge Y coordinate (0-based)",
				},
				"width": map[string]interface{}{
					"type":        "integer",
					"description": "Width of the region",
					"minimum":     1,
				},
				"height": map[string]interface{}{
					"type":        "integer",
					"description": "Height of the region",
					"minimum":     1,
				},
			}, "x", "y", "width", "height"),
		sessionTool("image_scale",
			"Resize the session image. Bilinear and bicubic switch to box averaging when both sides shrink.",
			map[string]interface{}{
				"width": map[string]interface{}{
					"type":        "integer",
					"description": "New width in pixels",
					"minimum":     1,
				},
				"height": map[string]interface{}{
					"type":        "integer",
					"description": "New height in pixels",
					"minimum":     1,
				},
				"mode": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"nearest", "bilinear", "bicubic"},
					"description": "Sampling mode. Default bilinear",
					"default":     "bilinear",
				},
			}, "width", "height"),

		// Color
		sessionTool("image_grayscale",
			"Convert the session image to grayscale in place. Alpha is kept.",
			map[string]interface{}{
				"mode": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"average", "brightness", "luminance"},
					"description": "Conversion formula. Default luminance",
					"default":     "luminance",
				},
			}),
		sessionTool("image_posterize",
			"Reduce each color channel to a number of levels, optionally with Floyd-Steinberg dithering.",
			map[string]interface{}{
				"levels": map[string]interface{}{
					"type":        "integer",
					"description": "Levels for any channel not given explicitly",
					"minimum":     2,
					"maximum":     255,
				},
				"red": map[string]interface{}{
					"type":        "integer",
					"description": "Red levels (2-255)",
				},
				"green": map[string]interface{}{
					"type":        "integer",
					"description": "Green levels (2-255)",
				},
				"blue": map[string]interface{}{
					"type":        "integer",
					"description": "Blue levels (2-255)",
				},
				"dither": map[string]interface{}{
					"type":        "boolean",
					"description": "Apply error diffusion. Default false",
					"default":     false,
				},
			}),
		sessionTool("image_is_dark",
			"Report whether the visible pixels of the session image are predominantly dark.",
			map[string]interface{}{
				"seed": map[string]interface{}{
					"type":        "integer",
					"description": "Starting luminance sum (0-255). Default 255",
					"default":     255,
				},
				"dark_threshold": map[string]interface{}{
					"type":        "integer",
					"description": "Per-pixel luminance considered dark (0-255). Default 192",
					"default":     192,
				},
				"alpha_threshold": map[string]interface{}{
					"type":        "integer",
					"description": "Pixels with alpha at or below this are ignored (0-255). Default 64",
					"default":     64,
				},
			}),
		sessionTool("image_make_opaque",
			"Flatten a translucent image onto white (dark images) or black (light images).",
			nil),

		// Snapshots
		sessionTool("snapshot_save",
			"Save a copy of the session image, replacing any earlier snapshot.",
			nil),
		sessionTool("snapshot_restore",
			"Replace the session image with the saved snapshot. The snapshot is kept.",
			nil),
		sessionTool("snapshot_clear",
			"Discard the saved snapshot.",
			nil),

		// Inspection
		sessionTool("image_sample_color",
			"Get the exact color value at a specific pixel coordinate.",
			map[string]interface{}{
				"x": map[string]interface{}{
					"type":        "integer",
					"description": "X coordinate (0-based, from left)",
				},
				"y": map[string]interface{}{
					"type":        "integer",
					"description": "Y coordinate (0-based, from top)",
				},
			}, "x", "y"),
		sessionTool("image_preview",
			"Render a PNG thumbnail of the session image without modifying it.",
			map[string]interface{}{
				"max_size": map[string]interface{}{
					"type":        "integer",
					"description": "Longest side of the thumbnail in pixels. Defaults to the server setting",
				},
			}),
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
