package ui

import "time"

// tickMsg refreshes the status display.
type tickMsg time.Time

// DoneMsg tells the UI that playback has finished, with the playback
// error if any.
type DoneMsg struct {
	Err error
}
