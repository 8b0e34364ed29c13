package audio

import (
	"sync"
	"time"
)

const (
	fakeFrameSize     = 1024
	fakeBytesPerFrame = 2 // 16-bit mono
)

// FakeContext feeds canned PCM instead of touching real hardware. With
// realtime set, Start paces chunks at the configured sample rate and keeps
// emitting silence after the PCM runs out; otherwise chunks are only
// delivered through Emit.
type FakeContext struct {
	pcm      []byte
	realtime bool
	startErr error
}

func NewFakeContext(pcm []byte, realtime bool) *FakeContext {
	return &FakeContext{pcm: pcm, realtime: realtime}
}

// FailStartWith makes every capture's Start return err, for exercising the
// acquisition failure path.
func (f *FakeContext) FailStartWith(err error) {
	f.startErr = err
}

func (f *FakeContext) Devices() ([]DeviceInfo, error) {
	return []DeviceInfo{{ID: "fake", Name: "fake microphone"}}, nil
}

func (f *FakeContext) Close() {}

func (f *FakeContext) NewCapture(_ *DeviceInfo, config CaptureConfig) (CaptureDevice, error) {
	return &FakeCapture{
		pcm:      f.pcm,
		realtime: f.realtime,
		rate:     config.SampleRate,
		startErr: f.startErr,
	}, nil
}

type FakeCapture struct {
	pcm      []byte
	realtime bool
	rate     uint32
	startErr error

	mu       sync.Mutex
	cb       DataCallback
	running  bool
	stopCh   chan struct{}
	feedDone chan struct{}
}

func (f *FakeCapture) SetCallback(cb DataCallback) {
	f.mu.Lock()
	f.cb = cb
	f.mu.Unlock()
}

func (f *FakeCapture) ClearCallback() {
	f.mu.Lock()
	f.cb = nil
	f.mu.Unlock()
}

func (f *FakeCapture) DeviceName() string { return "fake microphone" }

// Emit delivers one chunk to the registered callback, as if the hardware
// produced it. No-op while the capture is stopped.
func (f *FakeCapture) Emit(data []byte) {
	f.mu.Lock()
	cb := f.cb
	running := f.running
	f.mu.Unlock()
	if cb == nil || !running {
		return
	}
	cb(data, uint32(len(data)/fakeBytesPerFrame))
}

// Running reports whether the capture stream is open, so tests can assert
// the stream was released.
func (f *FakeCapture) Running() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.running
}

func (f *FakeCapture) Start() error {
	if f.startErr != nil {
		return ClassifyAcquisition(f.startErr)
	}
	f.mu.Lock()
	f.running = true
	f.stopCh = make(chan struct{})
	f.feedDone = make(chan struct{})
	stopCh := f.stopCh
	feedDone := f.feedDone
	f.mu.Unlock()

	if !f.realtime {
		close(feedDone)
		return nil
	}

	chunkBytes := fakeFrameSize * fakeBytesPerFrame
	interval := time.Duration(fakeFrameSize) * time.Second / time.Duration(f.rate)
	go func() {
		defer close(feedDone)
		pos := 0
		silence := make([]byte, chunkBytes)
		for {
			select {
			case <-stopCh:
				return
			case <-time.After(interval):
			}

			f.mu.Lock()
			cb := f.cb
			f.mu.Unlock()
			if cb == nil {
				continue
			}

			if pos < len(f.pcm) {
				end := min(pos+chunkBytes, len(f.pcm))
				chunk := make([]byte, end-pos)
				copy(chunk, f.pcm[pos:end])
				cb(chunk, uint32(len(chunk)/fakeBytesPerFrame))
				pos = end
			} else {
				cb(silence, fakeFrameSize)
			}
		}
	}()
	return nil
}

func (f *FakeCapture) Stop() {
	f.mu.Lock()
	running := f.running
	f.running = false
	stopCh := f.stopCh
	feedDone := f.feedDone
	f.mu.Unlock()
	if !running {
		return
	}
	select {
	case <-stopCh:
	default:
		close(stopCh)
	}
	<-feedDone
}

func (f *FakeCapture) Close() {
	f.Stop()
}
