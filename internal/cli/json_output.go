// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// json_output.go - JSON output for scripting and editor integrations.

package cli

import (
	"encoding/json"
	"io"
	"time"

	"github.com/jeranaias/chatcompose/internal/typeahead"
)

// JSONResponse is the envelope of every --json output.
type JSONResponse struct {
	// Success indicates whether the command completed successfully
	Success bool `json:"success"`

	// Data contains the command-specific response data
	Data interface{} `json:"data"`

	// Error contains the error message if Success is false, null otherwise
	Error *string `json:"error"`

	// Timestamp is when the response was generated (RFC 3339, UTC)
	Timestamp string `json:"timestamp"`

	// Command is the command that was executed
	Command string `json:"command,omitempty"`
}

// NewJSONResponse creates a successful response.
func NewJSONResponse(command string, data interface{}) *JSONResponse {
	return &JSONResponse{
		Success:   true,
		Data:      data,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Command:   command,
	}
}

// NewJSONErrorResponse creates an error response.
func NewJSONErrorResponse(command string, err error) *JSONResponse {
	errStr := err.Error()
	return &JSONResponse{
		Success:   false,
		Error:     &errStr,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Command:   command,
	}
}

// Print writes the response to w, indented.
func (r *JSONResponse) Print(w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(r)
}

// =============================================================================
// RESPONSE DATA
// =============================================================================

// CompleteData is the output of the complete command.
type CompleteData struct {
	// Field is the compose input completed: message, recipient or topic.
	Field       string           `json:"field"`
	Mode        typeahead.Mode   `json:"mode"`
	Token       string           `json:"token"`
	Tip         string           `json:"tip,omitempty"`
	Suggestions []typeahead.Item `json:"suggestions"`
	Applied     *AppliedData     `json:"applied,omitempty"`
}

// AppliedData is the text after accepting a suggestion.
type AppliedData struct {
	Index    int      `json:"index"`
	Text     string   `json:"text"`
	Cursor   int      `json:"cursor"`
	Warnings []string `json:"warnings,omitempty"`
	// HighlightStart and HighlightEnd mark placeholder text, if any.
	HighlightStart *int `json:"highlight_start,omitempty"`
	HighlightEnd   *int `json:"highlight_end,omitempty"`
	// TimePicker is set when the suggestion asks for a time instead.
	TimePicker string `json:"time_picker,omitempty"`
	// Recipients is the direct message recipient list after the pick.
	Recipients []int `json:"recipients,omitempty"`
	// NewTopic is set when the picked topic does not exist yet.
	NewTopic bool `json:"new_topic,omitempty"`
}

// ConfigData is the output of config path.
type ConfigData struct {
	ConfigPath    string `json:"config_path"`
	WorkspacePath string `json:"workspace_path"`
	DatabasePath  string `json:"database_path"`
	LogFile       string `json:"log_file"`
}
