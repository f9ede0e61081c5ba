package capture

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gen2brain/malgo"

	"github.com/levskiy0/skreenme-capture-kit/internal/config"
)

// MalgoMicrophone captures one input device as s16le PCM through malgo.
// The device callback copies samples out (the malgo buffer is volatile) and
// drops on a full queue so the audio driver never blocks on the consumer.
type MalgoMicrophone struct {
	mu     sync.Mutex
	ctx    *malgo.AllocatedContext
	device *malgo.Device
	bound  string

	dataChan chan AudioChunk
	stopChan chan struct{}
	wg       sync.WaitGroup
}

func NewMicrophone() *MalgoMicrophone {
	return &MalgoMicrophone{}
}

func (m *MalgoMicrophone) Start(desc MicrophoneDescriptor, onChunk func(AudioChunk)) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.device != nil && m.bound == desc.DeviceID {
		return nil
	}
	m.stopLocked()

	if m.ctx == nil {
		ctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, func(string) {})
		if err != nil {
			return fmt.Errorf("audio context init: %w", err)
		}
		m.ctx = ctx
	}

	deviceConfig := malgo.DefaultDeviceConfig(malgo.Capture)
	deviceConfig.Capture.Format = malgo.FormatS16
	deviceConfig.Capture.Channels = config.Channels
	deviceConfig.SampleRate = config.SampleRate
	deviceConfig.Alsa.NoMMap = 1

	if desc.DeviceID != "" && desc.DeviceID != "default" {
		infos, err := m.ctx.Devices(malgo.Capture)
		if err != nil {
			return fmt.Errorf("enumerate audio devices: %w", err)
		}
		found := false
		for i := range infos {
			if infos[i].Name() == desc.DeviceID {
				deviceConfig.Capture.DeviceID = infos[i].ID.Pointer()
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("%w: audio device %q", ErrDeviceNotFound, desc.DeviceID)
		}
	}

	m.dataChan = make(chan AudioChunk, config.AudioQueueDepth)
	m.stopChan = make(chan struct{})
	dataChan := m.dataChan

	onRecv := func(pOutput, pInput []byte, frameCount uint32) {
		if frameCount == 0 {
			return
		}
		packet := make([]byte, len(pInput))
		copy(packet, pInput)

		select {
		case dataChan <- AudioChunk{Data: packet, TS: time.Now()}:
		default:
			// Full queue: drop rather than stall the driver callback.
		}
	}

	device, err := malgo.InitDevice(m.ctx.Context, deviceConfig, malgo.DeviceCallbacks{Data: onRecv})
	if err != nil {
		return fmt.Errorf("audio device init: %w", err)
	}
	if err := device.Start(); err != nil {
		device.Uninit()
		return fmt.Errorf("audio device start: %w", err)
	}

	m.device = device
	m.bound = desc.DeviceID

	stopChan := m.stopChan
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		for {
			select {
			case <-stopChan:
				return
			case chunk := <-dataChan:
				onChunk(chunk)
			}
		}
	}()

	slog.Debug("microphone started", "device", desc.DeviceID)
	return nil
}

func (m *MalgoMicrophone) Stop() {
	m.mu.Lock()
	m.stopLocked()
	m.mu.Unlock()
	m.wg.Wait()
}

func (m *MalgoMicrophone) stopLocked() {
	if m.device != nil {
		m.device.Uninit()
		m.device = nil
	}
	if m.stopChan != nil {
		close(m.stopChan)
		m.stopChan = nil
	}
	m.bound = ""
}

func (m *MalgoMicrophone) BoundDevice() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.bound
}

// Close releases the malgo context. The adapter is unusable afterwards.
func (m *MalgoMicrophone) Close() {
	m.Stop()
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ctx != nil {
		_ = m.ctx.Uninit()
		m.ctx.Free()
		m.ctx = nil
	}
}
