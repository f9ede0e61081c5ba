package protocol

// --- COMMAND PAYLOADS ---

type StartSessionRequest struct {
	Mode                string `json:"mode"`
	DisplayID           string `json:"displayId,omitempty"`
	WindowID            string `json:"windowId,omitempty"`
	Region              *Rect  `json:"region,omitempty"`
	CameraSourceID      string `json:"cameraSourceId,omitempty"`
	AudioSourceID       string `json:"audioSourceId,omitempty"`
	CameraWidth         int    `json:"cameraWidth,omitempty"`
	CameraHeight        int    `json:"cameraHeight,omitempty"`
	CameraFormat        string `json:"cameraFormat,omitempty"`
	FrameRate           int    `json:"frameRate,omitempty"`
	OutputPath          string `json:"outputPath,omitempty"`
	ShowCursor          *bool  `json:"showCursor,omitempty"`
	ExcludedWindowID    string `json:"excludedWindowId,omitempty"`
	ExcludedWindowTitle string `json:"excludedWindowTitle,omitempty"`
}

type StartSessionResponse struct {
	SessionID  string `json:"sessionId"`
	OutputPath string `json:"outputPath"`
}

type StopSessionRequest struct {
	SessionID string `json:"sessionId"`
}

type StopSessionResponse struct {
	Recording RecordingInfo  `json:"recording"`
	Events    []PointerEvent `json:"events"`
}

// RecordingInfo is the final metadata assembled after both lanes finish.
type RecordingInfo struct {
	Status     string     `json:"status"`
	OutputPath string     `json:"outputPath"`
	Duration   float64    `json:"duration"`
	Screen     *TrackInfo `json:"screen,omitempty"`
	Camera     *TrackInfo `json:"camera"`
}

// TrackInfo describes one finished media file.
type TrackInfo struct {
	Path       string     `json:"path"`
	SizeBytes  int64      `json:"sizeBytes"`
	Resolution Resolution `json:"resolution"`
	FPS        int        `json:"fps,omitempty"`
	Frames     int64      `json:"frames"`
}

// Recording status values.
const (
	StatusCompleted = "completed"
	StatusError     = "error"
)

// ConfigureCameraRequest binds (or, with an empty id, releases) the camera
// adapter. Width/height/format are required together with the id.
type ConfigureCameraRequest struct {
	SourceID string `json:"sourceId,omitempty"`
	Width    int    `json:"width,omitempty"`
	Height   int    `json:"height,omitempty"`
	Format   string `json:"format,omitempty"`
}

type ConfigureAudioRequest struct {
	SourceID string `json:"sourceId,omitempty"`
}

type ListSourcesRequest struct {
	ExcludedWindowID    string `json:"excludedWindowId,omitempty"`
	ExcludedWindowTitle string `json:"excludedWindowTitle,omitempty"`
}

type ListSourcesResponse struct {
	Displays []DisplayInfo `json:"displays"`
	Windows  []WindowInfo  `json:"windows"`
	Cameras  []DeviceInfo  `json:"cameras"`
	Audio    []DeviceInfo  `json:"audio"`
}

type PingResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}
