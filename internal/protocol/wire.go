package protocol

import (
	"encoding/json"
	"errors"
	"fmt"
)

// UnknownID is used in error responses when no id could be parsed out of a
// malformed line.
const UnknownID = "unknown"

var ErrEmptyCommand = errors.New("empty command")

// DecodeRequest parses one protocol line. On failure the returned request
// still carries a best-effort id so the caller can answer it.
func DecodeRequest(line []byte) (Request, error) {
	var req Request
	if err := json.Unmarshal(line, &req); err != nil {
		return Request{ID: ExtractID(line)}, fmt.Errorf("malformed command line: %w", err)
	}
	if req.ID == "" {
		req.ID = UnknownID
	}
	if req.Command == "" {
		return req, ErrEmptyCommand
	}
	return req, nil
}

// ExtractID pulls just the id field out of a line that may otherwise be
// garbage. Falls back to UnknownID.
func ExtractID(line []byte) string {
	var probe struct {
		ID json.RawMessage `json:"id"`
	}
	if err := json.Unmarshal(line, &probe); err != nil || len(probe.ID) == 0 {
		return UnknownID
	}
	var s string
	if err := json.Unmarshal(probe.ID, &s); err == nil && s != "" {
		return s
	}
	// Numeric ids come back verbatim.
	var n json.Number
	if err := json.Unmarshal(probe.ID, &n); err == nil {
		return n.String()
	}
	return UnknownID
}

// DecodePayload unmarshals a command payload into dst. A nil payload is
// treated as an empty object so optional-payload commands decode cleanly.
func DecodePayload(raw json.RawMessage, dst any) error {
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("invalid payload: %w", err)
	}
	return nil
}

// OK builds a success response.
func OK(id string, payload any) Response {
	return Response{ID: id, Success: true, Payload: payload}
}

// Fail builds an error response.
func Fail(id string, err error) Response {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	return Response{ID: id, Success: false, Error: msg}
}
