package main

import (
	"sync"

	"voicenote/beep"
	"voicenote/log"
	"voicenote/recorder"
)

// appSink receives controller events and fans them out to the diagnostics
// log, the beeper, and the TUI. It also keeps the per-session tallies the
// shutdown path reports.
type appSink struct {
	mu             sync.Mutex
	recordings     int
	lastTranscript string

	// transcriptCh, when set, gets one token per finished transcription
	// attempt. Used by the headless test driver to sequence commands.
	transcriptCh chan struct{}
}

func (s *appSink) signalTranscript() {
	s.mu.Lock()
	ch := s.transcriptCh
	s.mu.Unlock()
	if ch != nil {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

func (s *appSink) Recordings() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.recordings
}

func (s *appSink) LastTranscript() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastTranscript
}

func (s *appSink) RecordingStarted(device string) {
	log.Info("recording_start: " + device)
	go beep.PlayStart()
	tuiSend(RecordingStartMsg{Device: device})
}

func (s *appSink) RecordingFailed(err error) {
	log.Errorf("recording failed: %v", err)
	go beep.PlayError()
	tuiSend(RecordingFailedMsg{Err: err})
}

func (s *appSink) RecordingPaused() {
	log.Info("recording_paused")
	tuiSend(RecordingPausedMsg{})
}

func (s *appSink) RecordingResumed() {
	log.Info("recording_resumed")
	tuiSend(RecordingResumedMsg{})
}

func (s *appSink) RecordingStopped(elapsedSeconds int) {
	s.mu.Lock()
	s.recordings++
	s.mu.Unlock()
	log.Info("recording_stop")
	go beep.PlayEnd()
	tuiSend(RecordingStopMsg{Elapsed: elapsedSeconds})
}

func (s *appSink) TranscriptReady(text string) {
	s.mu.Lock()
	s.lastTranscript = text
	s.mu.Unlock()
	log.TranscriptText(text)
	tuiSend(TranscriptMsg{Text: text})
	s.signalTranscript()
}

func (s *appSink) TranscriptFailed(err error) {
	log.Errorf("transcription error: %v", err)
	tuiSend(TranscriptErrMsg{Err: err})
	s.signalTranscript()
}

func (s *appSink) Tick(elapsedSeconds int) {
	tuiSend(TimerTickMsg{Elapsed: elapsedSeconds})
}

func (s *appSink) AudioLevel(level float64) {
	tuiSend(AudioLevelMsg{Level: level})
}

// fanoutSink forwards every event to each member, in order.
type fanoutSink []recorder.EventSink

func (f fanoutSink) RecordingStarted(device string) {
	for _, s := range f {
		s.RecordingStarted(device)
	}
}

func (f fanoutSink) RecordingFailed(err error) {
	for _, s := range f {
		s.RecordingFailed(err)
	}
}

func (f fanoutSink) RecordingPaused() {
	for _, s := range f {
		s.RecordingPaused()
	}
}

func (f fanoutSink) RecordingResumed() {
	for _, s := range f {
		s.RecordingResumed()
	}
}

func (f fanoutSink) RecordingStopped(elapsedSeconds int) {
	for _, s := range f {
		s.RecordingStopped(elapsedSeconds)
	}
}

func (f fanoutSink) TranscriptReady(text string) {
	for _, s := range f {
		s.TranscriptReady(text)
	}
}

func (f fanoutSink) TranscriptFailed(err error) {
	for _, s := range f {
		s.TranscriptFailed(err)
	}
}

func (f fanoutSink) Tick(elapsedSeconds int) {
	for _, s := range f {
		s.Tick(elapsedSeconds)
	}
}

func (f fanoutSink) AudioLevel(level float64) {
	for _, s := range f {
		s.AudioLevel(level)
	}
}
