// Package transcriber defines the transcription provider contract. The
// controller only ever sees this interface, so a real speech-to-text backend
// can replace the canned provider without touching the recording state
// machine.
package transcriber

import "context"

type Transcriber interface {
	Name() string
	// Transcribe turns a finished recording into text. audio is the raw
	// result blob, mediaType its declared container type. Blocks until the
	// provider finishes or ctx is cancelled.
	Transcribe(ctx context.Context, audio []byte, mediaType string) (string, error)
}

// New returns the default provider: the canned one. There is no environment
// selection yet because no real backend exists.
func New() Transcriber {
	return NewCanned()
}
