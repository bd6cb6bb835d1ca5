package views

import (
	"fmt"
	"strings"

	"github.com/dmitrijs2005/feedbackhub/internal/client/models"
	"github.com/dmitrijs2005/feedbackhub/internal/client/services"
)

// AdminView is the read-only ADMIN console over every user's feedback.
type AdminView struct {
	fc   *services.FeedbackController
	user models.User
}

func NewAdminView(fc *services.FeedbackController, user models.User) *AdminView {
	return &AdminView{fc: fc, user: user}
}

func (v *AdminView) Name() string { return "admin" }

func (v *AdminView) Commands() []string {
	return []string{"list", "refresh", "filter", "stats"}
}

// StatsLine renders the aggregate counts over the unfiltered list.
func (v *AdminView) StatsLine() string {
	s := v.fc.Stats()
	cells := []string{
		stat("Total", s.Total),
		stat("Bug", s.Bug),
		stat("Feature", s.Feature),
		stat("Improvement", s.Improvement),
		stat("General", s.General),
	}
	return strings.Join(cells, "   ")
}

func stat(label string, n int) string {
	return Styles.Muted.Render(label+":") + " " + Styles.Bold.Render(fmt.Sprint(n))
}

func (v *AdminView) Render() string {
	header := Styles.Title.Render("Admin Dashboard") + "\n" +
		Styles.Subtitle.Render(fmt.Sprintf("Signed in as %s", v.user.Name))

	success, failure := v.fc.Notices()
	filter := v.fc.Filter()

	var body string
	switch recs := v.fc.Visible(); {
	case !v.fc.Loaded() && failure == "":
		body = Styles.Muted.Render("Loading...")
	case len(recs) == 0 && filter == models.FilterAll:
		body = EmptyState("No feedback has been submitted yet.", "")
	case len(recs) == 0:
		body = EmptyState(fmt.Sprintf("No feedback in the %q category.", filter), "")
	default:
		cards := make([]string, 0, len(recs))
		for _, r := range recs {
			cards = append(cards, adminCard(r))
		}
		body = strings.Join(cards, "\n")
	}

	filterLine := Styles.Muted.Render("Filter: ") + Styles.Bold.Render(filter)
	return join(header, Notices(success, failure), v.StatsLine()+"\n"+filterLine, body)
}

func adminCard(r models.FeedbackRecord) string {
	owner := "Unknown user"
	if r.Owner != nil && (r.Owner.Name != "" || r.Owner.Email != "") {
		owner = strings.TrimSpace(r.Owner.Name + " <" + r.Owner.Email + ">")
	}

	lines := []string{
		categoryBadge(r.Category) + " " + Styles.Bold.Render(r.Title) + " " + Styles.Muted.Render("("+r.ID+")"),
		r.Description,
		Styles.Muted.Render("by " + owner + " · " + formatTime(r.CreatedAt)),
	}
	return Styles.Card.Render(strings.Join(lines, "\n"))
}

func (v *AdminView) Close() {}
