package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/feedbackhub/internal/client/models"
	"github.com/dmitrijs2005/feedbackhub/internal/client/services"
	"github.com/dmitrijs2005/feedbackhub/internal/client/views"
)

const editWindowReminder = "Remember: You can only edit feedback within 15 minutes of submission!"

func successLine(msg string) string { return views.Styles.Success.Render("✓ " + msg) }
func errorLine(msg string) string   { return views.Styles.Error.Render("✗ " + msg) }

// Go navigates to path through the route guard.
func (a *App) Go(ctx context.Context, path string) error {
	if _, err := a.router.Navigate(path); err != nil {
		return err
	}
	a.routeChanged.Store(true)
	return nil
}

// List reloads the feedback of the current screen and renders it.
func (a *App) List(ctx context.Context) error {
	_ = a.load(ctx)
	a.render()
	return nil
}

// New prompts for a new record until it is accepted or the user gives up.
func (a *App) New(ctx context.Context) error {
	a.feedback.OpenCreate()
	for {
		in, err := a.promptInput(a.feedback.Form().Input)
		if err != nil {
			a.feedback.CloseForm()
			return err
		}

		res := a.feedback.Create(ctx, in)
		if res.Kind == services.ResultOk {
			a.afterMutation()
			return nil
		}

		a.println(errorLine(res.Message))
		if !a.canRetry() || !Confirm(a.reader, "Try again?", a.out) {
			a.feedback.CloseForm()
			return nil
		}
	}
}

// Edit updates record id while its edit window is open.
func (a *App) Edit(ctx context.Context, id string) error {
	ov, ok := a.screen().(*views.OwnerView)
	if !ok {
		return errors.New("edit is only available on the dashboard")
	}
	if !ov.CanEdit(id) {
		if _, found := a.feedback.Record(id); !found {
			a.println(errorLine("No feedback with id " + id))
			return nil
		}
		a.println(errorLine("Edit window expired"))
		return nil
	}

	form, err := a.feedback.OpenEdit(id)
	if err != nil {
		a.println(errorLine(err.Error()))
		return nil
	}
	a.println(views.Styles.Warning.Render(editWindowReminder))

	for {
		in, err := a.promptInput(form.Input)
		if err != nil {
			a.feedback.CloseForm()
			return err
		}

		res := a.feedback.Update(ctx, id, in)
		switch res.Kind {
		case services.ResultOk, services.ResultEditWindowExpired:
			a.afterMutation()
			return nil
		}

		a.println(errorLine(res.Message))
		if !a.canRetry() || !Confirm(a.reader, "Try again?", a.out) {
			a.feedback.CloseForm()
			return nil
		}
		form = a.feedback.Form()
	}
}

// Delete removes record id after confirmation.
func (a *App) Delete(ctx context.Context, id string) error {
	confirm := func(prompt string) bool { return Confirm(a.reader, prompt, a.out) }
	if _, err := a.feedback.Delete(ctx, id, confirm); err != nil {
		a.log.Debug(ctx, "delete failed", "id", id, "error", err)
	}
	a.afterMutation()
	return nil
}

// Filter narrows the admin list to a category, or "all".
func (a *App) Filter(ctx context.Context, arg string) error {
	if err := a.feedback.SetFilter(arg); err != nil {
		a.println(errorLine(fmt.Sprintf("Unknown category %q; use one of %v or all", arg, models.Categories)))
		return nil
	}
	a.render()
	return nil
}

// Stats prints the per-category counts of the admin list.
func (a *App) Stats(ctx context.Context) error {
	av, ok := a.screen().(*views.AdminView)
	if !ok {
		return errors.New("stats are only available on the admin dashboard")
	}
	a.println(av.StatsLine())
	return nil
}

// canRetry reports whether a rejected submit may be offered again. A
// rejected token closes the form and ends the session.
func (a *App) canRetry() bool {
	return a.feedback.Form().Open() && a.isLoggedIn() && !a.routeChanged.Load()
}

func (a *App) afterMutation() {
	if ov, ok := a.screen().(*views.OwnerView); ok {
		ov.Sync()
	}
	if !a.routeChanged.Load() {
		a.render()
	}
}

// promptInput asks for each field, offering cur as the default.
func (a *App) promptInput(cur models.FeedbackInput) (models.FeedbackInput, error) {
	title, err := GetTextWithDefault(a.reader, "Title", cur.Title, a.out)
	if err != nil {
		return cur, err
	}

	desc, err := GetMultilineWithDefault(a.reader, "Description", cur.Description, a.out)
	if err != nil {
		return cur, err
	}

	cat, err := GetTextWithDefault(a.reader, fmt.Sprintf("Category %v", models.Categories), string(cur.Category), a.out)
	if err != nil {
		return cur, err
	}
	category := models.Category(cat)
	if c, ok := models.ParseCategory(cat); ok {
		category = c
	}

	return models.FeedbackInput{Title: title, Description: desc, Category: category}, nil
}
