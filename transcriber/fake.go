package transcriber

import (
	"context"
	"fmt"
	"time"
)

type FakeTranscriber struct {
	text  string
	err   error
	delay time.Duration

	// LastAudio and LastMediaType record the most recent call for assertions.
	LastAudio     []byte
	LastMediaType string
}

func NewFake(text string, err error) *FakeTranscriber {
	return &FakeTranscriber{text: text, err: err}
}

func (f *FakeTranscriber) SetDelay(d time.Duration) { f.delay = d }

func (f *FakeTranscriber) Name() string { return "fake" }

func (f *FakeTranscriber) Transcribe(ctx context.Context, audio []byte, mediaType string) (string, error) {
	f.LastAudio = audio
	f.LastMediaType = mediaType
	if f.delay > 0 {
		timer := time.NewTimer(f.delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-timer.C:
		}
	} else if err := ctx.Err(); err != nil {
		return "", err
	}
	if f.err != nil {
		return "", fmt.Errorf("fake transcriber error: %w", f.err)
	}
	return f.text, nil
}
