package views

import (
	"slices"
	"time"

	"github.com/dmitrijs2005/feedbackhub/internal/client/models"
)

// Screen is a mounted view. Commands lists the REPL commands it offers.
type Screen interface {
	Name() string
	Render() string
	Commands() []string
	Close()
}

// Offers reports whether s accepts cmd.
func Offers(s Screen, cmd string) bool {
	return s != nil && slices.Contains(s.Commands(), cmd)
}

const timeLayout = "2006-01-02 15:04"

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "unknown"
	}
	return t.Local().Format(timeLayout)
}

func categoryBadge(c models.Category) string {
	return Styles.Badge.Render("[" + string(c) + "]")
}
