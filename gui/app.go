//go:build gui

package gui

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"voicenote/recorder"
)

// Actions are the controls main wires into the window. Each runs on the Fyne
// event goroutine; implementations must not block.
type Actions struct {
	Start       func()
	PauseResume func()
	Stop        func()
	Reset       func()
	Save        func()
	Copy        func()
	Quit        func()
}

type App struct {
	fyneApp fyne.App
	window  fyne.Window
	actions Actions
	onReady func()

	timer      *widget.Label
	status     *widget.Label
	level      *widget.ProgressBar
	transcript *widget.Entry

	recordBtn *widget.Button
	pauseBtn  *widget.Button
	stopBtn   *widget.Button
	resetBtn  *widget.Button
	saveBtn   *widget.Button
	copyBtn   *widget.Button

	paused bool
}

func NewApp(actions Actions, onReady func()) *App {
	return &App{actions: actions, onReady: onReady}
}

func Run(a *App) error {
	a.fyneApp = app.NewWithID("io.voicenote.gui")
	a.fyneApp.Settings().SetTheme(&darkTheme{})
	a.window = a.fyneApp.NewWindow("voicenote")

	a.timer = widget.NewLabel("00:00")
	a.timer.TextStyle = fyne.TextStyle{Monospace: true}
	a.status = widget.NewLabel("idle")
	a.level = widget.NewProgressBar()
	a.transcript = widget.NewMultiLineEntry()
	a.transcript.Wrapping = fyne.TextWrapWord
	a.transcript.SetPlaceHolder("Transcript appears here after you stop.")

	a.recordBtn = widget.NewButton("Record", func() { a.actions.Start() })
	a.pauseBtn = widget.NewButton("Pause", func() { a.actions.PauseResume() })
	a.stopBtn = widget.NewButton("Stop", func() { a.actions.Stop() })
	a.resetBtn = widget.NewButton("Reset", func() { a.actions.Reset() })
	a.saveBtn = widget.NewButton("Save", func() { a.actions.Save() })
	a.copyBtn = widget.NewButton("Copy", func() { a.actions.Copy() })
	a.applyIdle()

	controls := container.NewHBox(a.recordBtn, a.pauseBtn, a.stopBtn, a.resetBtn)
	outputs := container.NewHBox(a.saveBtn, a.copyBtn)
	header := container.NewHBox(a.status, widget.NewSeparator(), a.timer)

	a.window.SetContent(container.NewVBox(
		header,
		a.level,
		controls,
		a.transcript,
		outputs,
	))
	a.window.Resize(fyne.NewSize(420, 320))
	a.window.SetCloseIntercept(func() {
		if a.actions.Quit != nil {
			a.actions.Quit()
		}
		a.fyneApp.Quit()
	})

	go a.onReady()

	a.window.ShowAndRun()
	return nil
}

func (a *App) Quit() {
	if a.fyneApp != nil {
		fyne.Do(func() { a.fyneApp.Quit() })
	}
}

func (a *App) notify(title, body string) {
	a.fyneApp.SendNotification(fyne.NewNotification(title, body))
}

// Button enable/disable per lifecycle state. Callers run inside fyne.Do.
func (a *App) applyIdle() {
	a.recordBtn.Enable()
	a.pauseBtn.Disable()
	a.stopBtn.Disable()
	a.resetBtn.Disable()
	a.saveBtn.Disable()
	a.copyBtn.Disable()
}

func (a *App) applyRecording() {
	a.recordBtn.Disable()
	a.pauseBtn.Enable()
	a.stopBtn.Enable()
	a.resetBtn.Disable()
	a.saveBtn.Disable()
	a.copyBtn.Disable()
}

func (a *App) applyStopped(hasTranscript bool) {
	a.recordBtn.Disable()
	a.pauseBtn.Disable()
	a.stopBtn.Disable()
	a.resetBtn.Enable()
	a.saveBtn.Enable()
	if hasTranscript {
		a.copyBtn.Enable()
	} else {
		a.copyBtn.Disable()
	}
}

// recorder.EventSink implementation. Events arrive on controller goroutines;
// every widget touch goes through fyne.Do.

func (a *App) RecordingStarted(device string) {
	fyne.Do(func() {
		a.paused = false
		a.status.SetText("recording · " + device)
		a.timer.SetText(recorder.FormatDuration(0))
		a.transcript.SetText("")
		a.pauseBtn.SetText("Pause")
		a.applyRecording()
	})
}

func (a *App) RecordingFailed(err error) {
	fyne.Do(func() {
		a.status.SetText("idle")
		a.applyIdle()
	})
	a.notify("Recording failed", err.Error())
}

func (a *App) RecordingPaused() {
	fyne.Do(func() {
		a.paused = true
		a.status.SetText("paused")
		a.pauseBtn.SetText("Resume")
		a.level.SetValue(0)
	})
}

func (a *App) RecordingResumed() {
	fyne.Do(func() {
		a.paused = false
		a.status.SetText("recording")
		a.pauseBtn.SetText("Pause")
	})
}

func (a *App) RecordingStopped(elapsedSeconds int) {
	fyne.Do(func() {
		a.status.SetText("stopped · transcribing...")
		a.timer.SetText(recorder.FormatDuration(elapsedSeconds))
		a.level.SetValue(0)
		a.applyStopped(false)
	})
}

func (a *App) TranscriptReady(text string) {
	fyne.Do(func() {
		a.status.SetText("stopped")
		a.transcript.SetText(text)
		a.copyBtn.Enable()
	})
	a.notify("Transcript ready", text)
}

func (a *App) TranscriptFailed(err error) {
	fyne.Do(func() {
		a.status.SetText("stopped · transcription failed")
	})
	a.notify("Transcription failed", err.Error())
}

func (a *App) Tick(elapsedSeconds int) {
	fyne.Do(func() {
		a.timer.SetText(recorder.FormatDuration(elapsedSeconds))
	})
}

func (a *App) AudioLevel(level float64) {
	fyne.Do(func() {
		if a.paused {
			return
		}
		if level > 1 {
			level = 1
		}
		a.level.SetValue(level)
	})
}

// SessionReset returns the window to its initial state after the host resets
// the controller.
func (a *App) SessionReset() {
	fyne.Do(func() {
		a.paused = false
		a.status.SetText("idle")
		a.timer.SetText(recorder.FormatDuration(0))
		a.transcript.SetText("")
		a.level.SetValue(0)
		a.pauseBtn.SetText("Pause")
		a.applyIdle()
	})
}

// Saved shows where the recording landed.
func (a *App) Saved(path string) {
	a.notify("Recording saved", path)
}

// Copied confirms the transcript reached the clipboard.
func (a *App) Copied(chars int) {
	a.notify("Transcript copied", fmt.Sprintf("%d characters", chars))
}
