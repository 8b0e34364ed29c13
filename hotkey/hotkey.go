// Package hotkey registers the global record toggle (Ctrl+Shift+Space).
package hotkey

type Hotkey interface {
	Register() error
	Unregister()
	Keydown() <-chan struct{}
	Keyup() <-chan struct{}
}
