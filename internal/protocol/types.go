// Package protocol defines the newline-delimited JSON command protocol
// spoken with the controlling process, plus the shared wire types produced
// by the capture pipeline.
package protocol

import "encoding/json"

// --- WIRE ENVELOPE ---

// Request is one command line from the controller.
type Request struct {
	ID      string          `json:"id"`
	Command string          `json:"command"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Response answers exactly one Request, matched by ID.
type Response struct {
	ID      string `json:"id"`
	Success bool   `json:"success"`
	Payload any    `json:"payload,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Event is an out-of-band notification, not tied to any request id.
type Event struct {
	Event   string `json:"event"`
	Payload any    `json:"payload"`
}

// EventCursorUpdate is pushed whenever the resolved cursor shape changes.
const EventCursorUpdate = "cursorUpdate"

// CursorUpdatePayload carries the new cursor shape tag.
type CursorUpdatePayload struct {
	Cursor string `json:"cursor"`
}

// --- COMMANDS ---

const (
	CmdListSources        = "listSources"
	CmdStartSession       = "startSession"
	CmdStopSession        = "stopSession"
	CmdConfigureCamera    = "configureCamera"
	CmdConfigureAudio     = "configureAudio"
	CmdCheckPermissions   = "checkPermissions"
	CmdRequestPermissions = "requestPermissions"
	CmdPing               = "ping"
)

// Capture modes accepted by startSession.
const (
	ModeDisplay = "display"
	ModeWindow  = "window"
	ModeRegion  = "region"
)

// Camera aspect formats.
const (
	CameraFormatSquare = "square"
	CameraFormatWide   = "wide"
)

// --- GEOMETRY & SOURCES ---

// Rect is a rectangle in logical (point) coordinates.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Resolution is a physical pixel size.
type Resolution struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

type DisplayInfo struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Bounds      Rect    `json:"bounds"`
	ScaleFactor float64 `json:"scaleFactor"`
	Primary     bool    `json:"primary"`
}

type WindowInfo struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	AppName  string `json:"appName,omitempty"`
	Bounds   Rect   `json:"bounds"`
	OwnerPID int    `json:"ownerPid,omitempty"`
}

type DeviceInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// --- POINTER EVENTS ---

// Pointer event kinds recorded on the session timeline.
const (
	PointerMove  = "move"
	PointerDown  = "down"
	PointerUp    = "up"
	PointerWheel = "wheel"
)

// PointerEvent is one entry of the session's normalized event timeline.
// Coordinates are fractions of the capture target, time is seconds since
// the primary lane's anchor.
type PointerEvent struct {
	Kind                string  `json:"kind"`
	NormalizedX         float64 `json:"normalizedX"`
	NormalizedY         float64 `json:"normalizedY"`
	RelativeTimeSeconds float64 `json:"relativeTimeSeconds"`
	Button              string  `json:"button,omitempty"`
	ScrollDeltaX        float64 `json:"scrollDeltaX,omitempty"`
	ScrollDeltaY        float64 `json:"scrollDeltaY,omitempty"`
	Cursor              string  `json:"cursor,omitempty"`
}

// --- PERMISSIONS ---

// Permission states for prompt-based devices.
const (
	PermissionGranted = "granted"
	PermissionDenied  = "denied"
	PermissionPrompt  = "prompt"
	PermissionUnknown = "unknown"
)

type PermissionsStatus struct {
	ScreenRecording bool   `json:"screenRecording"`
	Camera          string `json:"camera"`
	Microphone      string `json:"microphone"`
	Accessibility   bool   `json:"accessibility"`
}
