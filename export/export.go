// Package export turns a sealed recording into an on-demand download file.
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ExtensionFor maps a declared media type to a file extension. Unknown
// audio/* types fall back to their subtype so a host-reported container
// still yields a usable name.
func ExtensionFor(mediaType string) string {
	switch mediaType {
	case "audio/wav", "audio/x-wav", "audio/wave":
		return "wav"
	case "audio/webm":
		return "webm"
	case "audio/ogg":
		return "ogg"
	case "audio/mpeg":
		return "mp3"
	case "audio/flac":
		return "flac"
	}
	if rest, ok := strings.CutPrefix(mediaType, "audio/"); ok && rest != "" {
		return rest
	}
	return "bin"
}

// Filename builds the download name: recording-<ISO 8601 timestamp with
// colons replaced by hyphens>.<ext>.
func Filename(ts time.Time, mediaType string) string {
	stamp := strings.ReplaceAll(ts.Format(time.RFC3339), ":", "-")
	return "recording-" + stamp + "." + ExtensionFor(mediaType)
}

// Save writes blob into dir under a timestamped name and returns the full
// path.
func Save(dir string, blob []byte, mediaType string, ts time.Time) (string, error) {
	if len(blob) == 0 {
		return "", fmt.Errorf("nothing to save")
	}
	path := filepath.Join(dir, Filename(ts, mediaType))
	if err := os.WriteFile(path, blob, 0644); err != nil {
		return "", fmt.Errorf("writing recording: %w", err)
	}
	return path, nil
}
