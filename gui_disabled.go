//go:build !gui

package main

import "voicenote/recorder"

var guiMode bool

func initGUI() {
	panic("voicenote: built without GUI support (rebuild with -tags gui)")
}

func guiEventSink() recorder.EventSink { return nil }

func guiSessionReset() {}

func guiNotifySaved(string) {}

func guiNotifyCopied(int) {}

func guiQuit() {}
