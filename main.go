package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"
	"sync"
	"time"

	"voicenote/audio"
	"voicenote/beep"
	"voicenote/clipboard"
	"voicenote/doctor"
	"voicenote/export"
	"voicenote/hotkey"
	"voicenote/log"
	"voicenote/recorder"
	"voicenote/shutdown"
	"voicenote/transcriber"
	"voicenote/wav"
)

var version = "dev"

// command is one user intent, regardless of which front end produced it
// (TUI key, GUI button, global hotkey, test driver).
type command int

const (
	cmdStart command = iota
	cmdPauseResume
	cmdStop
	cmdReset
	cmdSave
	cmdCopy
	cmdToggle
	cmdQuit
)

var commands = make(chan command, 8)

func push(c command) {
	select {
	case commands <- c:
	default:
	}
}

var sink = &appSink{}
var shutdownOnce sync.Once

func gracefulShutdown() {
	shutdownOnce.Do(func() {
		if n := sink.Recordings(); n > 0 {
			log.SessionEnd(n)
		}
		log.Close()
		tuiMu.Lock()
		p := tuiProgram
		tuiMu.Unlock()
		if p != nil {
			p.Quit()
		}
		guiQuit()
		os.Exit(0)
	})
}

func run() {
	setupFlag := flag.Bool("setup", false, "Select microphone device (otherwise uses system default)")
	deviceFlag := flag.String("device", "", "Use named microphone device")
	outDirFlag := flag.String("outdir", ".", "Directory for saved recordings")
	mediaTypeFlag := flag.String("mediatype", recorder.DefaultMediaType, "Declared media type of saved recordings")
	tuiFlag := flag.Bool("tui", true, "Run with terminal UI")
	logPathFlag := flag.String("logpath", "", "log directory path (default: OS-specific location, use ./ for current dir)")
	versionFlag := flag.Bool("version", false, "Print version and exit")
	doctorFlag := flag.Bool("doctor", false, "Run system diagnostics and exit")
	testFlag := flag.Bool("test", false, "Test mode (headless, stdin-driven)")
	crashFlag := flag.Bool("crash", false, "Trigger synthetic panic for testing crash logging")
	hotkeyFlag := flag.Bool("hotkey", true, "Register global record hotkey (Ctrl+Shift+Space)")
	flag.Parse()

	logPath, err := log.ResolveDir(*logPathFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to resolve log directory: %v\n", err)
		os.Exit(1)
	}
	log.SetDir(logPath)

	if err := log.EnsureDir(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not create log directory: %v\n", err)
	}

	crashPath := filepath.Join(log.Dir(), "crash_log.txt")
	crashFile, err := os.OpenFile(crashPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err == nil {
		fmt.Fprintf(crashFile, "\n=== Session %s [pid=%d] ===\n", time.Now().Format("2006-01-02 15:04:05"), os.Getpid())
		debug.SetCrashOutput(crashFile, debug.CrashOptions{})
	}

	if *crashFlag {
		panic("TEST CRASH: synthetic panic to verify crash logging")
	}

	if *versionFlag {
		fmt.Printf("voicenote %s\n", version)
		os.Exit(0)
	}

	if *doctorFlag {
		os.Exit(doctor.Run(*outDirFlag))
	}

	if err := log.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not init logging: %v\n", err)
	}

	provider := transcriber.New()
	log.SessionStart(provider.Name(), *mediaTypeFlag)

	if *testFlag {
		runTestMode(provider, *mediaTypeFlag, *outDirFlag)
		return
	}

	ctx, err := audio.NewContext()
	if err != nil {
		log.Errorf("audio context init error: %v", err)
		fmt.Printf("Error initializing audio context: %v\n", err)
		os.Exit(1)
	}
	defer ctx.Close()

	var selectedDevice *audio.DeviceInfo
	if *deviceFlag != "" {
		if devices, err := ctx.Devices(); err == nil {
			for i := range devices {
				if devices[i].Name == *deviceFlag {
					selectedDevice = &devices[i]
					break
				}
			}
		}
	} else if *setupFlag {
		selectedDevice, err = selectDevice(ctx)
		if err != nil {
			log.Warnf("device selection failed: %v", err)
			fmt.Printf("Warning: device selection failed: %v\n", err)
			fmt.Println("Falling back to default device")
			selectedDevice = nil
		}
	}

	capture, err := ctx.NewCapture(selectedDevice, audio.CaptureConfig{
		SampleRate: wav.SampleRate,
		Channels:   wav.Channels,
	})
	if err != nil {
		log.Errorf("capture device init error: %v", err)
		fmt.Printf("Error initializing capture device: %v\n", err)
		os.Exit(1)
	}
	defer capture.Close()

	var ctrlSink recorder.EventSink = sink
	if g := guiEventSink(); g != nil {
		ctrlSink = fanoutSink{sink, g}
	}

	ctrl := recorder.New(capture, provider, recorder.Config{
		MediaType: *mediaTypeFlag,
		Sink:      ctrlSink,
	})
	defer ctrl.Close()

	if *tuiFlag && !guiMode {
		tuiMu.Lock()
		tuiProgram = NewTUIProgram(commands)
		tuiMu.Unlock()

		go func() {
			if _, err := tuiProgram.Run(); err != nil {
				log.Errorf("TUI error: %v", err)
				os.Exit(1)
			}
			gracefulShutdown()
		}()

		<-tuiReady
	} else {
		tuiReadyOnce.Do(func() { close(tuiReady) })
	}

	sigChan := make(chan os.Signal, 1)
	shutdown.Notify(sigChan)
	go func() {
		<-sigChan
		gracefulShutdown()
	}()

	go beep.Init()

	if *hotkeyFlag {
		hk := hotkey.New()
		if err := hk.Register(); err != nil {
			log.Errorf("hotkey register error: %v", err)
			fmt.Fprintf(os.Stderr, "Warning: hotkey unavailable: %v\n", err)
		} else {
			defer hk.Unregister()
			go func() {
				for range hk.Keydown() {
					push(cmdToggle)
				}
			}()
		}
	}

	for cmd := range commands {
		switch cmd {
		case cmdStart:
			ctrl.Start()
		case cmdPauseResume:
			if ctrl.State() == recorder.Recording {
				ctrl.Pause()
			} else {
				ctrl.Resume()
			}
		case cmdStop:
			stopRecording(ctrl, capture.DeviceName())
		case cmdReset:
			ctrl.Reset()
			guiSessionReset()
			tuiSend(ToastMsg{Text: "new session"})
		case cmdSave:
			saveRecording(ctrl, *outDirFlag)
		case cmdCopy:
			copyTranscript(ctrl)
		case cmdToggle:
			switch ctrl.State() {
			case recorder.Idle:
				ctrl.Start()
			case recorder.Recording, recorder.Paused:
				stopRecording(ctrl, capture.DeviceName())
			case recorder.Stopped:
				ctrl.Reset()
				guiSessionReset()
				ctrl.Start()
			}
		case cmdQuit:
			gracefulShutdown()
		}
	}
}

func stopRecording(ctrl *recorder.Controller, device string) {
	ctrl.Stop()
	if ctrl.State() != recorder.Stopped {
		return
	}
	blob := ctrl.Blob()
	log.RecordingSummary(ctrl.Elapsed(), float64(len(blob))/1024, ctrl.MediaType(), device)
}

// saveRecording writes the sealed blob to disk. A blob declared as WAV is
// raw PCM internally and gets its container header here.
func saveRecording(ctrl *recorder.Controller, dir string) {
	blob := ctrl.Blob()
	if len(blob) == 0 {
		tuiSend(ToastMsg{Text: "error: nothing to save"})
		return
	}
	data := blob
	if export.ExtensionFor(ctrl.MediaType()) == "wav" {
		data = wav.Encode(blob)
	}
	path, err := export.Save(dir, data, ctrl.MediaType(), time.Now())
	if err != nil {
		log.Errorf("save error: %v", err)
		tuiSend(ToastMsg{Text: "error: " + err.Error()})
		return
	}
	log.Info("saved: " + path)
	tuiSend(ToastMsg{Text: "saved " + filepath.Base(path)})
	guiNotifySaved(path)
}

func copyTranscript(ctrl *recorder.Controller) {
	text := ctrl.Transcript()
	if text == "" {
		tuiSend(ToastMsg{Text: "error: no transcript to copy"})
		return
	}
	if err := clipboard.Copy(text); err != nil {
		log.Errorf("clipboard error: %v", err)
		tuiSend(ToastMsg{Text: "error: " + err.Error()})
		return
	}
	log.Info("transcript_copied")
	tuiSend(ToastMsg{Text: fmt.Sprintf("copied %d characters", len(text))})
	guiNotifyCopied(len(text))
}
