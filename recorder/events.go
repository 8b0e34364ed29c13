package recorder

// EventSink abstracts the display layer so the Bubble Tea TUI and the Fyne
// GUI can receive the same lifecycle events. Calls arrive from controller
// goroutines; sinks must not call back into the controller while handling
// one.
type EventSink interface {
	RecordingStarted(device string)
	RecordingFailed(err error)
	RecordingPaused()
	RecordingResumed()
	// RecordingStopped fires when the blob is sealed and the recording has
	// been handed to the transcription provider.
	RecordingStopped(elapsedSeconds int)
	TranscriptReady(text string)
	TranscriptFailed(err error)
	Tick(elapsedSeconds int)
	AudioLevel(level float64)
}

// NopSink discards every event. Embed it to implement only part of the
// interface.
type NopSink struct{}

func (NopSink) RecordingStarted(string) {}
func (NopSink) RecordingFailed(error)   {}
func (NopSink) RecordingPaused()        {}
func (NopSink) RecordingResumed()       {}
func (NopSink) RecordingStopped(int)    {}
func (NopSink) TranscriptReady(string)  {}
func (NopSink) TranscriptFailed(error)  {}
func (NopSink) Tick(int)                {}
func (NopSink) AudioLevel(float64)      {}
