package recorder

import "fmt"

// FormatDuration renders elapsed seconds as MM:SS, both fields zero-padded.
// Minutes grow without bound; there is no hour rollover.
func FormatDuration(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}
