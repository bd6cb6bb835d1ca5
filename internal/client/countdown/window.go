// Package countdown derives the advisory edit window of a feedback record
// and keeps it fresh once per second while the record is rendered.
//
// The window is advisory: it decides whether an edit control is offered,
// not whether the server will accept the edit.
package countdown

import (
	"fmt"
	"time"
)

// EditWindow is how long after creation a record stays editable.
const EditWindow = 15 * time.Minute

// ExpiredLabel is shown once the window has closed.
const ExpiredLabel = "Edit window expired"

// Window is the derived edit state of one record at one instant.
type Window struct {
	Editable  bool
	Remaining time.Duration
	Label     string
}

// Compute returns the window of a record created at createdAt as seen at now.
// Remaining is truncated to whole milliseconds; the record is editable iff
// that value is positive.
func Compute(createdAt, now time.Time) Window {
	diffMs := EditWindow.Milliseconds() - now.Sub(createdAt).Milliseconds()
	if diffMs <= 0 {
		return Window{Label: ExpiredLabel}
	}

	minutes := diffMs / 60000
	seconds := (diffMs % 60000) / 1000

	return Window{
		Editable:  true,
		Remaining: time.Duration(diffMs) * time.Millisecond,
		Label:     fmt.Sprintf("%dm %ds left to edit", minutes, seconds),
	}
}

// Deadline is the instant the record stops being editable.
func Deadline(createdAt time.Time) time.Time {
	return createdAt.Add(EditWindow)
}
