package transcriber

import (
	"context"
	"errors"
	"slices"
	"testing"
	"time"
)

func TestCannedReturnsSampleText(t *testing.T) {
	c := NewCanned()
	c.delay = time.Millisecond
	for i := 0; i < 10; i++ {
		text, err := c.Transcribe(context.Background(), []byte{1, 2}, "audio/wav")
		if err != nil {
			t.Fatal(err)
		}
		if !slices.Contains(SampleTexts, text) {
			t.Fatalf("got %q, not one of the sample texts", text)
		}
	}
}

func TestCannedCoversAllSamples(t *testing.T) {
	c := NewCanned()
	c.delay = 0
	seen := make(map[string]bool)
	for i := range SampleTexts {
		c.pick = func(int) int { return i }
		text, err := c.Transcribe(context.Background(), nil, "audio/wav")
		if err != nil {
			t.Fatal(err)
		}
		seen[text] = true
	}
	if len(seen) != len(SampleTexts) {
		t.Errorf("got %d distinct texts, want %d", len(seen), len(SampleTexts))
	}
}

func TestCannedHonorsCancel(t *testing.T) {
	c := NewCanned() // full 2s delay; cancel must win
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.Transcribe(ctx, nil, "audio/wav")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

func TestFakeRecordsCall(t *testing.T) {
	f := NewFake("hello", nil)
	text, err := f.Transcribe(context.Background(), []byte{9, 9}, "audio/webm")
	if err != nil {
		t.Fatal(err)
	}
	if text != "hello" {
		t.Errorf("text = %q", text)
	}
	if f.LastMediaType != "audio/webm" || len(f.LastAudio) != 2 {
		t.Errorf("call not recorded: %q %v", f.LastMediaType, f.LastAudio)
	}
}

func TestFakeError(t *testing.T) {
	sentinel := errors.New("boom")
	f := NewFake("", sentinel)
	_, err := f.Transcribe(context.Background(), nil, "audio/wav")
	if !errors.Is(err, sentinel) {
		t.Fatalf("err = %v, want wrapped sentinel", err)
	}
}
