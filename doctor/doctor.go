// Package doctor runs interactive system diagnostics for the recorder.
package doctor

import (
	"fmt"
	"os"
	"sync/atomic"
	"time"

	"voicenote/audio"
	"voicenote/clipboard"
	"voicenote/export"
	"voicenote/wav"
)

// Run executes diagnostic checks and returns an exit code (0=all pass,
// 1=any fail).
func Run(outDir string) int {
	resetTerminal()
	setupInterruptHandler()

	fmt.Println("voicenote doctor - system diagnostics")
	fmt.Println("=====================================")

	allPass := true

	if !checkMicrophone() {
		allPass = false
	}
	if !checkClipboard() {
		allPass = false
	}
	if !checkOutputDir(outDir) {
		allPass = false
	}

	fmt.Println()
	if allPass {
		fmt.Println("All checks passed!")
		return 0
	}
	fmt.Println("Some checks failed. See details above.")
	return 1
}

func checkMicrophone() bool {
	fmt.Println()
	fmt.Println("[1/3] Microphone capture")

	ctx, err := audio.NewContext()
	if err != nil {
		fmt.Printf("  FAIL: audio context: %v\n", err)
		return false
	}
	defer ctx.Close()

	devices, err := ctx.Devices()
	if err != nil {
		fmt.Printf("  FAIL: device enumeration: %v\n", err)
		return false
	}
	for _, d := range devices {
		suffix := ""
		if audio.IsBluetooth(d.Name) {
			suffix = " (bluetooth)"
		}
		fmt.Printf("  found: %s%s\n", d.Name, suffix)
	}

	capture, err := ctx.NewCapture(nil, audio.CaptureConfig{
		SampleRate: wav.SampleRate,
		Channels:   wav.Channels,
	})
	if err != nil {
		fmt.Printf("  FAIL: capture init: %v\n", err)
		return false
	}
	defer capture.Close()

	var chunks atomic.Int64
	capture.SetCallback(func(data []byte, _ uint32) {
		if len(data) > 0 {
			chunks.Add(1)
		}
	})
	if err := capture.Start(); err != nil {
		fmt.Printf("  FAIL: capture start: %v\n", err)
		return false
	}
	fmt.Println("  recording 1 second of audio...")
	time.Sleep(time.Second)
	capture.Stop()
	capture.ClearCallback()

	if chunks.Load() == 0 {
		fmt.Println("  FAIL: no audio chunks received")
		return false
	}
	fmt.Printf("  PASS: %d chunks received from %s\n", chunks.Load(), capture.DeviceName())
	return true
}

func checkClipboard() bool {
	fmt.Println()
	fmt.Println("[2/3] Clipboard round-trip")

	sentinel := fmt.Sprintf("voicenote-doctor-%d", time.Now().UnixNano())
	prev, _ := clipboard.Read()
	if err := clipboard.Copy(sentinel); err != nil {
		fmt.Printf("  FAIL: copy: %v\n", err)
		return false
	}
	got, err := clipboard.Read()
	if err != nil {
		fmt.Printf("  FAIL: read: %v\n", err)
		return false
	}
	if prev != "" {
		clipboard.Copy(prev)
	}
	if got != sentinel {
		fmt.Printf("  FAIL: read back %q\n", got)
		return false
	}
	fmt.Println("  PASS: clipboard works")
	return true
}

func checkOutputDir(outDir string) bool {
	fmt.Println()
	fmt.Println("[3/3] Output directory")

	path, err := export.Save(outDir, wav.Encode(make([]byte, 32)), "audio/wav", time.Now())
	if err != nil {
		fmt.Printf("  FAIL: %v\n", err)
		return false
	}
	os.Remove(path)
	fmt.Printf("  PASS: %s is writable\n", outDir)
	return true
}
