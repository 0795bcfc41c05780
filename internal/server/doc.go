// Package server implements the MCP (Model Context Protocol) server that
// exposes pixel-editor sessions.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Sessions
//
// Every editing tool acts on a session opened with session_open. A session
// holds one image and at most one snapshot; it lives until session_close.
// Calls against the same session are serialized.
//
// # Available Tools
//
// Sessions:
//   - session_open, session_close
//
// Input / output (binary data travels as base64):
//   - image_decode: QOI or JPEG bytes, or a file path
//   - image_load_raw: raw RGBA8 pixels
//   - image_encode: QOI, JPEG or PNG, inline or written to a path
//   - image_info: dimensions and flags
//
// Editing:
//   - image_crop, image_scale
//   - image_grayscale, image_posterize, image_make_opaque
//   - snapshot_save, snapshot_restore, snapshot_clear
//
// Inspection:
//   - image_is_dark, image_sample_color, image_preview
//
// # Error Handling
//
// Tool errors are returned as JSON-RPC error responses:
//   - -32602: malformed arguments, unknown tool or unknown session
//   - -32000: the operation ran and failed (bad geometry, undecodable data)
//
// The data field carries the Go error string.
//
// # Usage
//
//	srv := server.New(server.WithConfig(cfg), server.WithLogger(logger))
//	if err := srv.Run(); err != nil {
//	    logger.Fatal("server error", zap.Error(err))
//	}
package server
