package app

import "github.com/atotto/clipboard"

// SystemClipboard writes to the desktop clipboard.
type SystemClipboard struct{}

func (SystemClipboard) WriteAll(text string) error {
	return clipboard.WriteAll(text)
}

// Available reports whether a clipboard utility was found on this system.
func (SystemClipboard) Available() bool {
	return !clipboard.Unsupported
}
