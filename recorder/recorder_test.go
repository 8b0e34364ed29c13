package recorder

import (
	"bytes"
	"errors"
	"sync"
	"testing"
	"time"

	"voicenote/audio"
	"voicenote/transcriber"
)

type fakeTicker struct {
	ch      chan time.Time
	stopped bool
}

func (f *fakeTicker) C() <-chan time.Time { return f.ch }
func (f *fakeTicker) Stop()               { f.stopped = true }

type fakeClock struct {
	mu  sync.Mutex
	cur *fakeTicker
}

func (f *fakeClock) NewTicker(time.Duration) Ticker {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cur = &fakeTicker{ch: make(chan time.Time)}
	return f.cur
}

// Tick delivers one counter tick and returns once the controller has
// received it. Ticks are processed in order, so a later observed event
// implies all earlier ticks were applied.
func (f *fakeClock) Tick() {
	f.mu.Lock()
	t := f.cur
	f.mu.Unlock()
	t.ch <- time.Now()
}

type testSink struct {
	started chan string
	failed  chan error
	paused  chan struct{}
	resumed chan struct{}
	stopped chan int
	ready   chan string
	tfailed chan error
	ticks   chan int
	levels  chan float64
}

func newTestSink() *testSink {
	return &testSink{
		started: make(chan string, 16),
		failed:  make(chan error, 16),
		paused:  make(chan struct{}, 16),
		resumed: make(chan struct{}, 16),
		stopped: make(chan int, 16),
		ready:   make(chan string, 16),
		tfailed: make(chan error, 16),
		ticks:   make(chan int, 64),
		levels:  make(chan float64, 64),
	}
}

func (s *testSink) RecordingStarted(device string) { s.started <- device }
func (s *testSink) RecordingFailed(err error)      { s.failed <- err }
func (s *testSink) RecordingPaused()               { s.paused <- struct{}{} }
func (s *testSink) RecordingResumed()              { s.resumed <- struct{}{} }
func (s *testSink) RecordingStopped(elapsed int)   { s.stopped <- elapsed }
func (s *testSink) TranscriptReady(text string)    { s.ready <- text }
func (s *testSink) TranscriptFailed(err error)     { s.tfailed <- err }
func (s *testSink) Tick(elapsed int)               { s.ticks <- elapsed }
func (s *testSink) AudioLevel(level float64)       { s.levels <- level }

func waitInt(t *testing.T, ch chan int, want int) {
	t.Helper()
	select {
	case got := <-ch:
		if got != want {
			t.Fatalf("got %d, want %d", got, want)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("timeout waiting for %d", want)
	}
}

func waitText(t *testing.T, ch chan string) string {
	t.Helper()
	select {
	case got := <-ch:
		return got
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for event")
		return ""
	}
}

type harness struct {
	ctrl    *Controller
	capture *audio.FakeCapture
	clock   *fakeClock
	sink    *testSink
}

func newHarness(t *testing.T, provide transcriber.Transcriber) *harness {
	t.Helper()
	return newHarnessCtx(t, audio.NewFakeContext(nil, false), provide)
}

func newHarnessCtx(t *testing.T, fctx *audio.FakeContext, provide transcriber.Transcriber) *harness {
	t.Helper()
	capture, err := fctx.NewCapture(nil, audio.CaptureConfig{SampleRate: 16000, Channels: 1})
	if err != nil {
		t.Fatal(err)
	}
	clock := &fakeClock{}
	sink := newTestSink()
	ctrl := New(capture, provide, Config{Sink: sink, Clock: clock})
	t.Cleanup(ctrl.Close)
	return &harness{
		ctrl:    ctrl,
		capture: capture.(*audio.FakeCapture),
		clock:   clock,
		sink:    sink,
	}
}

func TestStartTransitionsToRecording(t *testing.T) {
	h := newHarness(t, transcriber.NewFake("ok", nil))

	if err := h.ctrl.Start(); err != nil {
		t.Fatal(err)
	}
	if got := h.ctrl.State(); got != Recording {
		t.Fatalf("state = %v, want Recording", got)
	}
	if dev := waitText(t, h.sink.started); dev != "fake microphone" {
		t.Errorf("device = %q", dev)
	}
	if !h.capture.Running() {
		t.Error("capture stream not started")
	}
}

func TestStartFromNonIdleIsNoOp(t *testing.T) {
	h := newHarness(t, transcriber.NewFake("ok", nil))
	h.ctrl.Start()
	<-h.sink.started

	if err := h.ctrl.Start(); err != nil {
		t.Fatal(err)
	}
	select {
	case <-h.sink.started:
		t.Fatal("second Start emitted an event")
	default:
	}
}

func TestStartFailureLeavesIdle(t *testing.T) {
	fctx := audio.NewFakeContext(nil, false)
	fctx.FailStartWith(errors.New("pulse record: access denied"))
	h := newHarnessCtx(t, fctx, transcriber.NewFake("ok", nil))

	err := h.ctrl.Start()
	if !errors.Is(err, audio.ErrPermissionDenied) {
		t.Fatalf("err = %v, want ErrPermissionDenied", err)
	}
	if got := h.ctrl.State(); got != Idle {
		t.Fatalf("state = %v, want Idle", got)
	}
	select {
	case got := <-h.sink.failed:
		if !errors.Is(got, audio.ErrPermissionDenied) {
			t.Errorf("failure event = %v", got)
		}
	case <-time.After(time.Second):
		t.Fatal("no failure notification")
	}
	if h.ctrl.Blob() != nil {
		t.Error("partial state committed on failed start")
	}
}

func TestDeviceUnavailable(t *testing.T) {
	fctx := audio.NewFakeContext(nil, false)
	fctx.FailStartWith(errors.New("no capture device"))
	h := newHarnessCtx(t, fctx, transcriber.NewFake("ok", nil))

	err := h.ctrl.Start()
	if !errors.Is(err, audio.ErrDeviceUnavailable) {
		t.Fatalf("err = %v, want ErrDeviceUnavailable", err)
	}
}

func TestTickIncrementsOnlyWhileRecording(t *testing.T) {
	h := newHarness(t, transcriber.NewFake("ok", nil))
	h.ctrl.Start()

	h.clock.Tick()
	waitInt(t, h.sink.ticks, 1)

	h.ctrl.Pause()
	<-h.sink.paused
	h.clock.Tick()
	h.clock.Tick()
	h.clock.Tick() // frozen while paused

	h.ctrl.Resume()
	<-h.sink.resumed
	h.clock.Tick()
	// Ticks are processed in order: seeing 2 proves the paused ticks did
	// not increment.
	waitInt(t, h.sink.ticks, 2)

	if got := h.ctrl.Elapsed(); got != 2 {
		t.Fatalf("elapsed = %d, want 2", got)
	}
}

func TestChunksOnlyDuringRecordingIntervals(t *testing.T) {
	h := newHarness(t, transcriber.NewFake("ok", nil))
	h.ctrl.Start()

	h.capture.Emit([]byte{1, 1})
	h.ctrl.Pause()
	h.capture.Emit([]byte{2, 2}) // dropped
	h.ctrl.Resume()
	h.capture.Emit([]byte{3, 3})
	h.ctrl.Stop()

	want := []byte{1, 1, 3, 3}
	if got := h.ctrl.Blob(); !bytes.Equal(got, want) {
		t.Fatalf("blob = %v, want %v", got, want)
	}
}

func TestBlobIsOrderedConcatenation(t *testing.T) {
	h := newHarness(t, transcriber.NewFake("ok", nil))
	h.ctrl.Start()

	chunks := [][]byte{{1, 2}, {3, 4, 5, 6}, {7, 8}}
	var want []byte
	for _, chunk := range chunks {
		h.capture.Emit(chunk)
		want = append(want, chunk...)
	}
	h.ctrl.Stop()

	got := h.ctrl.Blob()
	if !bytes.Equal(got, want) {
		t.Fatalf("blob = %v, want %v", got, want)
	}

	// The returned slice is a copy; mutating it must not touch the seal.
	got[0] = 99
	if again := h.ctrl.Blob(); !bytes.Equal(again, want) {
		t.Error("result blob mutated through accessor")
	}
}

func TestStopSealsAndTranscribes(t *testing.T) {
	h := newHarness(t, transcriber.NewFake("hello from the fake", nil))
	h.ctrl.Start()
	h.capture.Emit([]byte{1, 2, 3, 4})

	h.clock.Tick()
	waitInt(t, h.sink.ticks, 1)
	h.ctrl.Stop()

	waitInt(t, h.sink.stopped, 1)
	if h.capture.Running() {
		t.Error("capture stream not released on stop")
	}
	if got := h.ctrl.State(); got != Stopped {
		t.Fatalf("state = %v, want Stopped", got)
	}

	if text := waitText(t, h.sink.ready); text != "hello from the fake" {
		t.Errorf("transcript event = %q", text)
	}
	if got := h.ctrl.Transcript(); got != "hello from the fake" {
		t.Errorf("transcript = %q", got)
	}
}

func TestFiveTickScenario(t *testing.T) {
	h := newHarness(t, transcriber.NewFake("scenario text", nil))
	h.ctrl.Start()

	for i := 1; i <= 5; i++ {
		h.clock.Tick()
		waitInt(t, h.sink.ticks, i)
	}
	h.capture.Emit([]byte{10, 20, 30, 40})
	h.ctrl.Stop()

	if got := h.ctrl.Elapsed(); got != 5 {
		t.Fatalf("elapsed = %d, want 5", got)
	}
	if len(h.ctrl.Blob()) == 0 {
		t.Fatal("result blob empty")
	}
	waitText(t, h.sink.ready)
}

func TestLifecycleMisuseIsNoOp(t *testing.T) {
	h := newHarness(t, transcriber.NewFake("ok", nil))

	h.ctrl.Pause()  // idle
	h.ctrl.Resume() // idle
	h.ctrl.Stop()   // idle
	if got := h.ctrl.State(); got != Idle {
		t.Fatalf("state = %v, want Idle", got)
	}

	h.ctrl.Start()
	h.ctrl.Resume() // recording, not paused
	if got := h.ctrl.State(); got != Recording {
		t.Fatalf("state = %v, want Recording", got)
	}

	select {
	case <-h.sink.paused:
		t.Error("pause event from invalid transition")
	case <-h.sink.resumed:
		t.Error("resume event from invalid transition")
	case <-h.sink.stopped:
		t.Error("stop event from invalid transition")
	default:
	}
}

func TestStopFromPaused(t *testing.T) {
	h := newHarness(t, transcriber.NewFake("ok", nil))
	h.ctrl.Start()
	h.capture.Emit([]byte{5, 5})
	h.ctrl.Pause()
	h.ctrl.Stop()

	if got := h.ctrl.State(); got != Stopped {
		t.Fatalf("state = %v, want Stopped", got)
	}
	if got := h.ctrl.Blob(); !bytes.Equal(got, []byte{5, 5}) {
		t.Fatalf("blob = %v", got)
	}
}

func TestResetFromStopped(t *testing.T) {
	h := newHarness(t, transcriber.NewFake("ok", nil))
	h.ctrl.Start()
	h.capture.Emit([]byte{1, 2})
	h.clock.Tick()
	waitInt(t, h.sink.ticks, 1)
	h.ctrl.Stop()
	waitText(t, h.sink.ready)

	h.ctrl.Reset()

	s := h.ctrl.Session()
	if s.State != Idle || s.ElapsedSeconds != 0 || s.Blob != nil || s.Transcript != "" {
		t.Fatalf("session not reset: %+v", s)
	}
}

func TestResetWhileRecordingIsNoOp(t *testing.T) {
	h := newHarness(t, transcriber.NewFake("ok", nil))
	h.ctrl.Start()
	h.capture.Emit([]byte{1, 2})

	h.ctrl.Reset()
	if got := h.ctrl.State(); got != Recording {
		t.Fatalf("state = %v, want Recording", got)
	}

	h.ctrl.Pause()
	h.ctrl.Reset() // paused is not resettable either
	if got := h.ctrl.State(); got != Paused {
		t.Fatalf("state = %v, want Paused", got)
	}
}

func TestResetDiscardsPendingTranscript(t *testing.T) {
	slow := transcriber.NewFake("too late", nil)
	slow.SetDelay(50 * time.Millisecond)
	h := newHarness(t, slow)

	h.ctrl.Start()
	h.capture.Emit([]byte{1, 2})
	h.ctrl.Stop()
	h.ctrl.Reset() // cancels the pending placeholder task

	select {
	case text := <-h.sink.ready:
		t.Fatalf("stale transcript delivered: %q", text)
	case <-time.After(150 * time.Millisecond):
	}
	if got := h.ctrl.Transcript(); got != "" {
		t.Errorf("transcript = %q, want empty", got)
	}
}

func TestTranscriptFailureNotified(t *testing.T) {
	h := newHarness(t, transcriber.NewFake("", errors.New("backend down")))
	h.ctrl.Start()
	h.capture.Emit([]byte{1, 2})
	h.ctrl.Stop()

	select {
	case err := <-h.sink.tfailed:
		if err == nil {
			t.Fatal("nil error event")
		}
	case <-time.After(time.Second):
		t.Fatal("no transcript failure notification")
	}
}

func TestCloseWhileRecordingReleasesCapture(t *testing.T) {
	h := newHarness(t, transcriber.NewFake("ok", nil))
	h.ctrl.Start()
	h.capture.Emit([]byte{1, 2})

	h.ctrl.Close()
	if h.capture.Running() {
		t.Error("capture stream still open after Close")
	}
	h.ctrl.Close() // idempotent
}

func TestAudioLevelEvents(t *testing.T) {
	h := newHarness(t, transcriber.NewFake("ok", nil))
	h.ctrl.Start()

	// Full-scale square wave: RMS near 1.0.
	loud := []byte{0xFF, 0x7F, 0xFF, 0x7F}
	h.capture.Emit(loud)
	select {
	case level := <-h.sink.levels:
		if level < 0.9 {
			t.Errorf("level = %v, want near 1.0", level)
		}
	case <-time.After(time.Second):
		t.Fatal("no audio level event")
	}
}
