package transcriber

import (
	"context"
	"math/rand/v2"
	"time"
)

const cannedDelay = 2 * time.Second

// SampleTexts are the fixed transcripts the canned provider picks from.
var SampleTexts = []string{
	"This is a sample transcription of your voice recording.",
	"Hello, this is a test of the voice recording feature.",
	"The quick brown fox jumps over the lazy dog.",
}

// Canned simulates a transcription backend: a fixed processing delay, then
// one of SampleTexts chosen uniformly at random. The audio content is
// ignored on purpose.
type Canned struct {
	delay time.Duration
	pick  func(n int) int
}

func NewCanned() *Canned {
	return &Canned{delay: cannedDelay, pick: rand.IntN}
}

func (c *Canned) Name() string { return "canned" }

func (c *Canned) Transcribe(ctx context.Context, _ []byte, _ string) (string, error) {
	timer := time.NewTimer(c.delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case <-timer.C:
	}
	return SampleTexts[c.pick(len(SampleTexts))], nil
}
