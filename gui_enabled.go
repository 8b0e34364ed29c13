//go:build gui

package main

import (
	"runtime"

	"voicenote/gui"
	"voicenote/recorder"
)

var guiApp *gui.App
var guiMode bool

func initGUI() {
	guiMode = true
	runtime.LockOSThread()

	guiApp = gui.NewApp(gui.Actions{
		Start:       func() { push(cmdStart) },
		PauseResume: func() { push(cmdPauseResume) },
		Stop:        func() { push(cmdStop) },
		Reset:       func() { push(cmdReset) },
		Save:        func() { push(cmdSave) },
		Copy:        func() { push(cmdCopy) },
		Quit:        func() { go gracefulShutdown() },
	}, func() {
		run()
	})
	if err := gui.Run(guiApp); err != nil {
		panic(err)
	}
}

func guiEventSink() recorder.EventSink {
	if guiApp != nil {
		return guiApp
	}
	return nil
}

func guiSessionReset() {
	if guiApp != nil {
		guiApp.SessionReset()
	}
}

func guiNotifySaved(path string) {
	if guiApp != nil {
		guiApp.Saved(path)
	}
}

func guiNotifyCopied(chars int) {
	if guiApp != nil {
		guiApp.Copied(chars)
	}
}

func guiQuit() {
	if guiApp != nil {
		guiApp.Quit()
	}
}
