package main

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"voicenote/audio"
	"voicenote/beep"
	"voicenote/hotkey"
	"voicenote/log"
	"voicenote/recorder"
	"voicenote/transcriber"
	"voicenote/wav"
)

// runTestMode drives the controller headlessly from stdin commands, against
// a fake capture device that feeds a canned tone. One command per line:
// START, PAUSE, RESUME, STOP, RESET, SAVE, COPY, KEY (hotkey toggle),
// WAIT (blocks until the next transcription attempt finishes),
// SLEEP <ms>, QUIT.
func runTestMode(provider transcriber.Transcriber, mediaType, outDir string) {
	beep.Disable()

	sink.transcriptCh = make(chan struct{}, 1)

	fakeCtx := audio.NewFakeContext(testTonePCM(2*time.Second), true)
	capture, err := fakeCtx.NewCapture(nil, audio.CaptureConfig{
		SampleRate: wav.SampleRate,
		Channels:   wav.Channels,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating capture: %v\n", err)
		os.Exit(1)
	}
	defer capture.Close()

	ctrl := recorder.New(capture, provider, recorder.Config{
		MediaType: mediaType,
		Sink:      sink,
	})
	defer ctrl.Close()

	// Fake hotkey so KEY goes through the same toggle path as the real one.
	hk := hotkey.NewFake()
	toggled := make(chan struct{}, 1)
	go func() {
		for range hk.Keydown() {
			switch ctrl.State() {
			case recorder.Idle:
				ctrl.Start()
			case recorder.Recording, recorder.Paused:
				stopRecording(ctrl, capture.DeviceName())
			case recorder.Stopped:
				ctrl.Reset()
				ctrl.Start()
			}
			toggled <- struct{}{}
		}
	}()

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		cmd := strings.TrimSpace(scanner.Text())
		switch cmd {
		case "", "#":
		case "START":
			ctrl.Start()
		case "PAUSE":
			ctrl.Pause()
		case "RESUME":
			ctrl.Resume()
		case "STOP":
			stopRecording(ctrl, capture.DeviceName())
		case "RESET":
			ctrl.Reset()
		case "SAVE":
			saveRecording(ctrl, outDir)
		case "COPY":
			copyTranscript(ctrl)
		case "KEY":
			hk.SimKeydown()
			<-toggled
		case "WAIT":
			<-sink.transcriptCh
		case "QUIT":
			ctrl.Close()
			log.SessionEnd(sink.Recordings())
			log.Close()
			os.Exit(0)
		default:
			if strings.HasPrefix(cmd, "SLEEP ") {
				if ms, err := strconv.Atoi(cmd[6:]); err == nil {
					time.Sleep(time.Duration(ms) * time.Millisecond)
				}
			}
		}
	}
	os.Exit(0)
}

// testTonePCM generates a 440 Hz mono tone so the fake capture has signal
// above the silence floor.
func testTonePCM(d time.Duration) []byte {
	frames := int(float64(wav.SampleRate) * d.Seconds())
	pcm := make([]byte, frames*2)
	for i := 0; i < frames; i++ {
		sample := int16(0.3 * 32767 * math.Sin(2*math.Pi*440*float64(i)/float64(wav.SampleRate)))
		binary.LittleEndian.PutUint16(pcm[i*2:], uint16(sample))
	}
	return pcm
}
