package export

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestFilename(t *testing.T) {
	ts := time.Date(2025, 3, 14, 15, 9, 26, 0, time.UTC)
	got := Filename(ts, "audio/wav")
	want := "recording-2025-03-14T15-09-26Z.wav"
	if got != want {
		t.Errorf("Filename = %q, want %q", got, want)
	}
	if strings.ContainsRune(got, ':') {
		t.Error("filename contains a colon")
	}
}

func TestExtensionFor(t *testing.T) {
	cases := map[string]string{
		"audio/wav":      "wav",
		"audio/x-wav":    "wav",
		"audio/webm":     "webm",
		"audio/ogg":      "ogg",
		"audio/mpeg":     "mp3",
		"audio/flac":     "flac",
		"audio/aac":      "aac",
		"video/mp4":      "bin",
		"":               "bin",
	}
	for mediaType, want := range cases {
		if got := ExtensionFor(mediaType); got != want {
			t.Errorf("ExtensionFor(%q) = %q, want %q", mediaType, got, want)
		}
	}
}

func TestSave(t *testing.T) {
	dir := t.TempDir()
	blob := []byte{1, 2, 3}
	ts := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

	path, err := Save(dir, blob, "audio/wav", ts)
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Dir(path) != dir {
		t.Errorf("saved outside target dir: %s", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != string(blob) {
		t.Error("blob not written verbatim")
	}
}

func TestSaveEmptyBlob(t *testing.T) {
	if _, err := Save(t.TempDir(), nil, "audio/wav", time.Now()); err == nil {
		t.Fatal("expected error for empty blob")
	}
}
