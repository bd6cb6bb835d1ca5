package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/dmitrijs2005/feedbackhub/internal/client/countdown"
)

// notifyContext is a test seam for signal.NotifyContext.
var notifyContext = signal.NotifyContext

// Watch streams the edit countdown of record id until the window expires or
// the user presses Ctrl-C.
func (a *App) Watch(ctx context.Context, id string) error {
	rec, ok := a.feedback.Record(id)
	if !ok {
		a.println(errorLine("No feedback with id " + id))
		return nil
	}

	ctx, stop := notifyContext(ctx, os.Interrupt)
	defer stop()

	t := countdown.Start(ctx, rec.CreatedAt, countdown.Options{Clock: a.clock, Interval: a.config.TickInterval})
	defer t.Stop()

	fmt.Fprintf(a.out, "%s (Ctrl-C to stop)\n", rec.Title)
	for w := range t.Updates() {
		fmt.Fprintf(a.out, "\r%-30s", w.Label)
		if !w.Editable {
			break
		}
	}
	fmt.Fprintln(a.out)
	return nil
}
