// Package main provides a TCP query server for sqlrunner.
package main

import (
	"encoding/json"
)

// Request represents a SQL query from the client.
type Request struct {
	Query string `json:"query"`
}

// Response represents the server's response to a query.
type Response struct {
	Success bool            `json:"success"`
	Error   string          `json:"error,omitempty"`
	Type    string          `json:"type,omitempty"` // "query", "exec", "script", or "auth"
	Result  json.RawMessage `json:"result,omitempty"`
}

// QueryResponse contains tabular query results.
type QueryResponse struct {
	Columns     []string   `json:"columns"`
	Data        [][]string `json:"data"`
	RecordsRead int        `json:"records_read"`
	Truncated   bool       `json:"truncated,omitempty"`
	TimeMs      float64    `json:"time_ms"`
}

// ExecResponse contains non-query statement results.
type ExecResponse struct {
	RowsAffected int64   `json:"rows_affected"`
	TimeMs       float64 `json:"time_ms"`
}

// ScriptResponse summarizes a multi-statement line.
type ScriptResponse struct {
	Statements int      `json:"statements"`
	Failed     int      `json:"failed"`
	Summaries  []string `json:"summaries"`
}

// AuthResponse contains the outcome of an AUTH command.
type AuthResponse struct {
	Authenticated bool   `json:"authenticated"`
	Identity      string `json:"identity,omitempty"`
	ExpiresIn     int    `json:"expires_in,omitempty"`
}

// EncodeResponse serializes a Response to JSON with a newline.
func EncodeResponse(resp Response) ([]byte, error) {
	data, err := json.Marshal(resp)
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// DecodeRequest parses a JSON request from a byte slice.
func DecodeRequest(data []byte) (Request, error) {
	var req Request
	err := json.Unmarshal(data, &req)
	return req, err
}
