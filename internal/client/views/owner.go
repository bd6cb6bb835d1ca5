package views

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/feedbackhub/internal/client/countdown"
	"github.com/dmitrijs2005/feedbackhub/internal/client/models"
	"github.com/dmitrijs2005/feedbackhub/internal/client/services"
)

// OwnerView is the USER dashboard: the actor's own records with a live edit
// countdown per record.
type OwnerView struct {
	fc     *services.FeedbackController
	user   models.User
	clock  countdown.Clock
	timers *countdown.Group
	cancel context.CancelFunc
}

// NewOwnerView mounts the dashboard. onTick, if not nil, receives every
// countdown update.
func NewOwnerView(ctx context.Context, fc *services.FeedbackController, user models.User, opts countdown.Options, onTick func(id string, w countdown.Window)) *OwnerView {
	ctx, cancel := context.WithCancel(ctx)
	if opts.Clock == nil {
		opts.Clock = countdown.SystemClock
	}
	v := &OwnerView{
		fc:     fc,
		user:   user,
		clock:  opts.Clock,
		timers: countdown.NewGroup(ctx, opts, onTick),
		cancel: cancel,
	}
	v.Sync()
	return v
}

func (v *OwnerView) Name() string { return "dashboard" }

func (v *OwnerView) Commands() []string {
	return []string{"list", "refresh", "new", "edit", "delete", "watch"}
}

// Sync starts a countdown for each listed record and stops the ones whose
// record is gone. Call it after every refresh.
func (v *OwnerView) Sync() {
	recs := v.fc.Records()
	m := make(map[string]time.Time, len(recs))
	for _, r := range recs {
		m[r.ID] = r.CreatedAt
	}
	v.timers.Sync(m)
}

// Window is the latest countdown of record id.
func (v *OwnerView) Window(id string) countdown.Window {
	if w, ok := v.timers.Window(id); ok {
		return w
	}
	if r, ok := v.fc.Record(id); ok {
		return countdown.Compute(r.CreatedAt, v.clock.Now())
	}
	return countdown.Window{Label: countdown.ExpiredLabel}
}

// CanEdit reports whether the edit control is offered for id.
func (v *OwnerView) CanEdit(id string) bool {
	return v.Window(id).Editable
}

func (v *OwnerView) Render() string {
	header := Styles.Title.Render("My Feedback") + "\n" +
		Styles.Subtitle.Render(fmt.Sprintf("Welcome, %s", v.user.Name))

	success, failure := v.fc.Notices()

	var body string
	switch recs := v.fc.Records(); {
	case !v.fc.Loaded() && failure == "":
		body = Styles.Muted.Render("Loading...")
	case len(recs) == 0:
		body = EmptyState("No Feedback Yet", "Submit your first feedback to get started!")
	default:
		cards := make([]string, 0, len(recs))
		for _, r := range recs {
			cards = append(cards, v.card(r))
		}
		body = strings.Join(cards, "\n")
	}

	return join(header, Notices(success, failure), v.formError(), body)
}

func (v *OwnerView) card(r models.FeedbackRecord) string {
	w := v.Window(r.ID)

	status := Styles.Muted.Render(w.Label)
	actions := "[delete]"
	if w.Editable {
		status = Styles.Warning.Render(w.Label)
		actions = "[edit] [delete]"
	}

	lines := []string{
		categoryBadge(r.Category) + " " + Styles.Bold.Render(r.Title) + " " + Styles.Muted.Render("("+r.ID+")"),
		r.Description,
		Styles.Muted.Render("Created "+formatTime(r.CreatedAt)) + "  " + status + "  " + Styles.Muted.Render(actions),
	}
	return Styles.Card.Render(strings.Join(lines, "\n"))
}

func (v *OwnerView) formError() string {
	f := v.fc.Form()
	if !f.Open() || f.Error == "" {
		return ""
	}
	return Styles.Error.Render(f.Error)
}

// Close stops every countdown of the view.
func (v *OwnerView) Close() {
	v.timers.Close()
	v.cancel()
}
