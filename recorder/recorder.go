// Package recorder owns the recording lifecycle: Idle → Recording ⇄ Paused →
// Stopped → (reset) → Idle. The controller is the only writer of session
// state; the capture stream and the elapsed-time ticker live and die with it.
package recorder

import (
	"context"
	"encoding/binary"
	"math"
	"sync"
	"time"

	"voicenote/audio"
	"voicenote/transcriber"
)

type State int

const (
	Idle State = iota
	Recording
	Paused
	Stopped
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Recording:
		return "recording"
	case Paused:
		return "paused"
	case Stopped:
		return "stopped"
	}
	return "unknown"
}

// DefaultMediaType is the declared container type of the result blob. The
// host recording format may differ; callers that know better override it via
// Config.MediaType.
const DefaultMediaType = "audio/wav"

type Config struct {
	// MediaType declares the result blob's container type. Defaults to
	// DefaultMediaType.
	MediaType string
	Sink      EventSink
	Clock     Clock
}

// Session is a snapshot of the controller's state. Blob is a copy; mutating
// it does not touch the sealed result.
type Session struct {
	State          State
	ElapsedSeconds int
	Blob           []byte
	Transcript     string
}

// Controller drives one capture device through the recording lifecycle.
// Misuse (calling an operation from the wrong state) is a silent no-op, per
// the lifecycle contract; only capture acquisition can fail.
type Controller struct {
	capture audio.CaptureDevice
	provide transcriber.Transcriber
	cfg     Config

	mu         sync.Mutex
	state      State
	elapsed    int
	chunks     [][]byte
	blob       []byte
	transcript string
	seq        uint64 // generation; bumped on Reset to drop stale transcripts
	tickStop   chan struct{}
	ticker     Ticker
	cancel     context.CancelFunc
	closed     bool

	transcribeWG sync.WaitGroup
}

func New(capture audio.CaptureDevice, provide transcriber.Transcriber, cfg Config) *Controller {
	if cfg.MediaType == "" {
		cfg.MediaType = DefaultMediaType
	}
	if cfg.Sink == nil {
		cfg.Sink = NopSink{}
	}
	if cfg.Clock == nil {
		cfg.Clock = systemClock{}
	}
	return &Controller{
		capture: capture,
		provide: provide,
		cfg:     cfg,
		state:   Idle,
	}
}

// Start acquires the capture stream and begins recording. Valid only from
// Idle (no-op otherwise). On acquisition failure nothing is committed: state
// stays Idle, no chunks, one RecordingFailed event, and the wrapped
// audio.ErrPermissionDenied / audio.ErrDeviceUnavailable is returned for
// logging.
func (c *Controller) Start() error {
	c.mu.Lock()
	if c.state != Idle || c.closed {
		c.mu.Unlock()
		return nil
	}
	c.mu.Unlock()

	c.capture.SetCallback(c.onChunk)
	if err := c.capture.Start(); err != nil {
		c.capture.ClearCallback()
		c.cfg.Sink.RecordingFailed(err)
		return err
	}

	c.mu.Lock()
	c.state = Recording
	c.tickStop = make(chan struct{})
	c.ticker = c.cfg.Clock.NewTicker(time.Second)
	go c.runTicker(c.ticker, c.tickStop)
	c.mu.Unlock()

	c.cfg.Sink.RecordingStarted(c.capture.DeviceName())
	return nil
}

// Pause suspends chunk accumulation and the counter. Valid only from
// Recording.
func (c *Controller) Pause() {
	c.mu.Lock()
	if c.state != Recording {
		c.mu.Unlock()
		return
	}
	c.state = Paused
	c.mu.Unlock()
	c.cfg.Sink.RecordingPaused()
}

// Resume restarts accumulation and the counter. Valid only from Paused.
func (c *Controller) Resume() {
	c.mu.Lock()
	if c.state != Paused {
		c.mu.Unlock()
		return
	}
	c.state = Recording
	c.mu.Unlock()
	c.cfg.Sink.RecordingResumed()
}

// Stop seals the recording: halts accumulation and the counter, releases the
// capture stream so the microphone indicator turns off, concatenates the
// chunks into the result blob, and hands the blob to the transcription
// provider. Valid from Recording or Paused.
func (c *Controller) Stop() {
	c.mu.Lock()
	if c.state != Recording && c.state != Paused {
		c.mu.Unlock()
		return
	}
	c.state = Stopped
	c.stopTickerLocked()

	total := 0
	for _, chunk := range c.chunks {
		total += len(chunk)
	}
	blob := make([]byte, 0, total)
	for _, chunk := range c.chunks {
		blob = append(blob, chunk...)
	}
	c.blob = blob
	elapsed := c.elapsed
	seq := c.seq

	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	c.transcribeWG.Add(1)
	c.mu.Unlock()

	c.capture.Stop()
	c.capture.ClearCallback()
	c.cfg.Sink.RecordingStopped(elapsed)

	go c.transcribe(ctx, blob, seq)
}

func (c *Controller) transcribe(ctx context.Context, blob []byte, seq uint64) {
	defer c.transcribeWG.Done()
	text, err := c.provide.Transcribe(ctx, blob, c.cfg.MediaType)

	c.mu.Lock()
	stale := c.seq != seq || c.state != Stopped
	if !stale && err == nil {
		c.transcript = text
	}
	c.mu.Unlock()
	if stale || ctx.Err() != nil {
		return
	}
	if err != nil {
		c.cfg.Sink.TranscriptFailed(err)
		return
	}
	c.cfg.Sink.TranscriptReady(text)
}

// Reset clears the session back to Idle defaults. Valid from Idle or Stopped
// only; a no-op while Recording or Paused. A pending transcription for the
// old session is cancelled and its result discarded.
func (c *Controller) Reset() {
	c.mu.Lock()
	if c.state != Idle && c.state != Stopped {
		c.mu.Unlock()
		return
	}
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.seq++
	c.state = Idle
	c.elapsed = 0
	c.chunks = nil
	c.blob = nil
	c.transcript = ""
	c.mu.Unlock()
}

// Close tears the controller down: cancels the ticker and any pending
// transcription, and releases the capture stream if a recording is in
// flight. Safe on every exit path, idempotent.
func (c *Controller) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	capturing := c.state == Recording || c.state == Paused
	c.state = Stopped
	c.stopTickerLocked()
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.mu.Unlock()

	if capturing {
		c.capture.Stop()
		c.capture.ClearCallback()
	}
	c.transcribeWG.Wait()
}

// onChunk runs on the capture backend's delivery goroutine. Chunks are
// copied before storing; arrival order is capture order.
func (c *Controller) onChunk(data []byte, _ uint32) {
	c.mu.Lock()
	if c.state != Recording || len(data) == 0 {
		c.mu.Unlock()
		return
	}
	buf := make([]byte, len(data))
	copy(buf, data)
	c.chunks = append(c.chunks, buf)
	c.mu.Unlock()

	c.cfg.Sink.AudioLevel(rms(data))
}

func rms(data []byte) float64 {
	if len(data) < 2 {
		return 0
	}
	var sumSquares float64
	for i := 0; i+1 < len(data); i += 2 {
		sample := int16(binary.LittleEndian.Uint16(data[i:]))
		normalized := float64(sample) / 32768.0
		sumSquares += normalized * normalized
	}
	return math.Sqrt(sumSquares / float64(len(data)/2))
}

func (c *Controller) runTicker(t Ticker, stop chan struct{}) {
	for {
		select {
		case <-stop:
			return
		case <-t.C():
			c.mu.Lock()
			if c.state != Recording {
				c.mu.Unlock()
				continue
			}
			c.elapsed++
			n := c.elapsed
			c.mu.Unlock()
			c.cfg.Sink.Tick(n)
		}
	}
}

// stopTickerLocked stops the counter goroutine. Caller holds c.mu.
func (c *Controller) stopTickerLocked() {
	if c.tickStop != nil {
		close(c.tickStop)
		c.tickStop = nil
	}
	if c.ticker != nil {
		c.ticker.Stop()
		c.ticker = nil
	}
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Controller) Elapsed() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.elapsed
}

// Blob returns a copy of the sealed result blob, nil before Stop.
func (c *Controller) Blob() []byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.blob == nil {
		return nil
	}
	out := make([]byte, len(c.blob))
	copy(out, c.blob)
	return out
}

func (c *Controller) Transcript() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.transcript
}

func (c *Controller) MediaType() string {
	return c.cfg.MediaType
}

func (c *Controller) Session() Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := Session{
		State:          c.state,
		ElapsedSeconds: c.elapsed,
		Transcript:     c.transcript,
	}
	if c.blob != nil {
		s.Blob = make([]byte, len(c.blob))
		copy(s.Blob, c.blob)
	}
	return s
}
