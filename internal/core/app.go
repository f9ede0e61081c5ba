// Package core glues the command transport to the session orchestrator:
// one line in, one response out, with out-of-band cursor events interleaved
// through the same locked writer.
package core

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/levskiy0/skreenme-capture-kit/internal/config"
	"github.com/levskiy0/skreenme-capture-kit/internal/protocol"
	"github.com/levskiy0/skreenme-capture-kit/internal/sources"
)

// SessionService is the command surface the dispatcher drives.
type SessionService interface {
	Start(protocol.StartSessionRequest) (protocol.StartSessionResponse, error)
	Stop(sessionID string) (protocol.StopSessionResponse, error)
	ConfigureCamera(protocol.ConfigureCameraRequest) error
	ConfigureAudio(protocol.ConfigureAudioRequest) error
}

// LineWriter serializes JSON lines onto one output stream. Responses and
// out-of-band events share it, so interleaving is always line-atomic.
type LineWriter struct {
	mu  sync.Mutex
	out io.Writer
}

func NewLineWriter(out io.Writer) *LineWriter {
	return &LineWriter{out: out}
}

func (w *LineWriter) write(v any) {
	data, err := json.Marshal(v)
	if err != nil {
		slog.Error("marshal output line", "error", err)
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	_, _ = w.out.Write(append(data, '\n'))
}

func (w *LineWriter) WriteResponse(resp protocol.Response) { w.write(resp) }

// EmitCursor pushes the out-of-band cursorUpdate event.
func (w *LineWriter) EmitCursor(shape string) {
	w.write(protocol.Event{
		Event:   protocol.EventCursorUpdate,
		Payload: protocol.CursorUpdatePayload{Cursor: shape},
	})
}

// App runs the newline-delimited command loop.
type App struct {
	svc      SessionService
	provider sources.Provider
	in       io.Reader
	writer   *LineWriter
}

// New wires the production app: real adapters, ffmpeg lanes, platform
// sources, reading stdin and writing stdout.
func New(cfg *config.Config) *App {
	writer := NewLineWriter(os.Stdout)
	provider := sources.NewProvider()
	orch := newOrchestrator(cfg, provider, writer.EmitCursor)
	return &App{svc: orch, provider: provider, in: os.Stdin, writer: writer}
}

// NewWithDeps is the test seam.
func NewWithDeps(svc SessionService, provider sources.Provider, in io.Reader, out io.Writer) *App {
	return &App{svc: svc, provider: provider, in: in, writer: NewLineWriter(out)}
}

// Run processes command lines until EOF or context cancellation. A bad
// line never terminates the loop.
func (a *App) Run(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		if f, ok := a.in.(*os.File); ok {
			_ = f.Close()
		}
	}()

	scanner := bufio.NewScanner(a.in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		a.writer.WriteResponse(a.Dispatch(line))
	}
	if err := scanner.Err(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("read command stream: %w", err)
	}
	return nil
}

// Dispatch handles one command line and builds its response.
func (a *App) Dispatch(line []byte) protocol.Response {
	req, err := protocol.DecodeRequest(line)
	if err != nil {
		return protocol.Fail(req.ID, err)
	}

	switch req.Command {
	case protocol.CmdPing:
		return protocol.OK(req.ID, protocol.PingResponse{Status: "ok", Version: config.AppVersion})

	case protocol.CmdListSources:
		var p protocol.ListSourcesRequest
		if err := protocol.DecodePayload(req.Payload, &p); err != nil {
			return protocol.Fail(req.ID, err)
		}
		snap, err := a.provider.Snapshot(sources.WindowFilter{
			ExcludedID:    p.ExcludedWindowID,
			ExcludedTitle: p.ExcludedWindowTitle,
		})
		if err != nil {
			return protocol.Fail(req.ID, err)
		}
		return protocol.OK(req.ID, protocol.ListSourcesResponse{
			Displays: orEmptyDisplays(snap.Displays),
			Windows:  orEmptyWindows(snap.Windows),
			Cameras:  orEmptyDevices(snap.Cameras),
			Audio:    orEmptyDevices(snap.Microphones),
		})

	case protocol.CmdStartSession:
		var p protocol.StartSessionRequest
		if err := protocol.DecodePayload(req.Payload, &p); err != nil {
			return protocol.Fail(req.ID, err)
		}
		resp, err := a.svc.Start(p)
		if err != nil {
			return protocol.Fail(req.ID, err)
		}
		return protocol.OK(req.ID, resp)

	case protocol.CmdStopSession:
		var p protocol.StopSessionRequest
		if err := protocol.DecodePayload(req.Payload, &p); err != nil {
			return protocol.Fail(req.ID, err)
		}
		resp, err := a.svc.Stop(p.SessionID)
		if err != nil {
			return protocol.Fail(req.ID, err)
		}
		return protocol.OK(req.ID, resp)

	case protocol.CmdConfigureCamera:
		var p protocol.ConfigureCameraRequest
		if err := protocol.DecodePayload(req.Payload, &p); err != nil {
			return protocol.Fail(req.ID, err)
		}
		if err := a.svc.ConfigureCamera(p); err != nil {
			return protocol.Fail(req.ID, err)
		}
		return protocol.OK(req.ID, struct{}{})

	case protocol.CmdConfigureAudio:
		var p protocol.ConfigureAudioRequest
		if err := protocol.DecodePayload(req.Payload, &p); err != nil {
			return protocol.Fail(req.ID, err)
		}
		if err := a.svc.ConfigureAudio(p); err != nil {
			return protocol.Fail(req.ID, err)
		}
		return protocol.OK(req.ID, struct{}{})

	case protocol.CmdCheckPermissions:
		return protocol.OK(req.ID, a.provider.CheckPermissions())

	case protocol.CmdRequestPermissions:
		return protocol.OK(req.ID, a.provider.RequestPermissions())

	default:
		return protocol.Fail(req.ID, fmt.Errorf("unknown command %q", req.Command))
	}
}

func orEmptyDisplays(in []protocol.DisplayInfo) []protocol.DisplayInfo {
	if in == nil {
		return []protocol.DisplayInfo{}
	}
	return in
}

func orEmptyWindows(in []protocol.WindowInfo) []protocol.WindowInfo {
	if in == nil {
		return []protocol.WindowInfo{}
	}
	return in
}

func orEmptyDevices(in []protocol.DeviceInfo) []protocol.DeviceInfo {
	if in == nil {
		return []protocol.DeviceInfo{}
	}
	return in
}
