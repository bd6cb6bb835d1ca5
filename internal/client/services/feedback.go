// Package services holds the application services behind the CLI views.
//
// FeedbackController owns the feedback list of the current view and every
// mutation of it. Each successful mutation re-fetches the whole list from the
// server before success is reported; the server decides whether an update
// still falls inside the edit window.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/dmitrijs2005/feedbackhub/internal/client/client"
	"github.com/dmitrijs2005/feedbackhub/internal/client/countdown"
	"github.com/dmitrijs2005/feedbackhub/internal/client/models"
	"github.com/dmitrijs2005/feedbackhub/internal/logging"
)

var (
	ErrNotFound         = errors.New("feedback not found")
	ErrEditWindowClosed = errors.New("edit window expired")
	ErrUnknownFilter    = errors.New("unknown filter")
)

// User-facing messages.
const (
	MsgCreated      = "Feedback submitted successfully!"
	MsgUpdated      = "Feedback updated successfully!"
	MsgDeleted      = "Feedback deleted successfully!"
	MsgLoadFailed   = "Failed to load feedback"
	MsgCreateFailed = "Failed to create feedback"
	MsgUpdateFailed = "Failed to update feedback"
	MsgDeleteFailed = "Failed to delete feedback"
	MsgConfirmDel   = "Are you sure you want to delete this feedback?"
)

// ConfirmFunc asks the actor to confirm a destructive action.
type ConfirmFunc func(prompt string) bool

// Option configures a FeedbackController.
type Option func(*FeedbackController)

func WithClock(c countdown.Clock) Option {
	return func(fc *FeedbackController) { fc.clock = c }
}

func WithLogger(l logging.Logger) Option {
	return func(fc *FeedbackController) { fc.log = l }
}

// WithUnauthorized registers fn to run when the server rejects the bearer
// token. The session store's Invalidate is the usual target.
func WithUnauthorized(fn func(ctx context.Context) error) Option {
	return func(fc *FeedbackController) { fc.onUnauthorized = fn }
}

// FeedbackController is safe for concurrent use. Mutations are serialized.
type FeedbackController struct {
	api            client.FeedbackAPI
	clock          countdown.Clock
	log            logging.Logger
	onUnauthorized func(ctx context.Context) error

	opMu sync.Mutex

	mu      sync.RWMutex
	records []models.FeedbackRecord
	loaded  bool
	filter  string
	form    Form
	success *Notice
	failure *Notice
}

func NewFeedbackController(api client.FeedbackAPI, opts ...Option) *FeedbackController {
	fc := &FeedbackController{
		api:    api,
		clock:  countdown.SystemClock,
		log:    logging.NewNoop(),
		filter: models.FilterAll,
	}
	for _, o := range opts {
		o(fc)
	}
	return fc
}

// Refresh replaces the list with the server's. On failure the last list is
// kept and a page-level error is shown until the next successful refresh.
func (fc *FeedbackController) Refresh(ctx context.Context) error {
	fc.opMu.Lock()
	defer fc.opMu.Unlock()
	return fc.refresh(ctx)
}

func (fc *FeedbackController) refresh(ctx context.Context) error {
	list, err := fc.api.ListFeedback(ctx)
	if err != nil {
		fc.log.Error(ctx, "list feedback", "error", err)
		fc.checkUnauthorized(ctx, err)
		fc.mu.Lock()
		fc.failure = newNotice(MsgLoadFailed, fc.clock.Now(), 0)
		fc.mu.Unlock()
		return fmt.Errorf("refresh: %w", err)
	}

	fc.mu.Lock()
	fc.records = list
	fc.loaded = true
	if fc.failure != nil && fc.failure.Text == MsgLoadFailed {
		fc.failure = nil
	}
	fc.mu.Unlock()

	fc.log.Debug(ctx, "feedback refreshed", "count", len(list))
	return nil
}

// Create submits a new record. Validation failures and server rejections
// leave the form open with the message set inline; a rejected token closes it.
func (fc *FeedbackController) Create(ctx context.Context, in models.FeedbackInput) Result {
	fc.opMu.Lock()
	defer fc.opMu.Unlock()

	in = in.Normalize()
	if err := in.Validate(); err != nil {
		return fc.formError(in, err.Error())
	}

	rec, err := fc.api.CreateFeedback(ctx, in)
	if err != nil {
		fc.log.Warn(ctx, "create feedback", "error", err)
		msg := client.MessageOf(err, MsgCreateFailed)
		if fc.checkUnauthorized(ctx, err) {
			return fc.abandonForm(msg)
		}
		return fc.formError(in, msg)
	}

	fc.afterMutation(ctx, MsgCreated)
	fc.log.Info(ctx, "feedback created", "id", rec.ID)
	return Ok(rec)
}

// Update submits changes to an existing record. The local countdown is not
// consulted: only the server decides whether the edit window is still open.
func (fc *FeedbackController) Update(ctx context.Context, id string, in models.FeedbackInput) Result {
	fc.opMu.Lock()
	defer fc.opMu.Unlock()

	in = in.Normalize()
	if err := in.Validate(); err != nil {
		return fc.formError(in, err.Error())
	}

	rec, err := fc.api.UpdateFeedback(ctx, id, in)
	if err != nil {
		msg := client.MessageOf(err, MsgUpdateFailed)
		if fc.checkUnauthorized(ctx, err) {
			return fc.abandonForm(msg)
		}

		if client.IsEditWindowExpired(err) {
			fc.log.Info(ctx, "update rejected, edit window expired", "id", id)
			fc.mu.Lock()
			fc.form = Form{}
			fc.failure = newNotice(msg, fc.clock.Now(), ErrorNoticeTTL)
			fc.mu.Unlock()
			_ = fc.refresh(ctx)
			return EditWindowExpired(msg)
		}

		fc.log.Warn(ctx, "update feedback", "id", id, "error", err)
		return fc.formError(in, msg)
	}

	fc.afterMutation(ctx, MsgUpdated)
	fc.log.Info(ctx, "feedback updated", "id", id)
	return Ok(rec)
}

// Delete removes a record after confirm returns true. It reports whether the
// record was deleted; a declined confirmation is (false, nil).
func (fc *FeedbackController) Delete(ctx context.Context, id string, confirm ConfirmFunc) (bool, error) {
	if confirm == nil || !confirm(MsgConfirmDel) {
		return false, nil
	}

	fc.opMu.Lock()
	defer fc.opMu.Unlock()

	if err := fc.api.DeleteFeedback(ctx, id); err != nil {
		fc.log.Warn(ctx, "delete feedback", "id", id, "error", err)
		fc.checkUnauthorized(ctx, err)
		fc.mu.Lock()
		fc.failure = newNotice(client.MessageOf(err, MsgDeleteFailed), fc.clock.Now(), ErrorNoticeTTL)
		fc.mu.Unlock()
		return false, fmt.Errorf("delete %s: %w", id, err)
	}

	fc.afterMutation(ctx, MsgDeleted)
	fc.log.Info(ctx, "feedback deleted", "id", id)
	return true, nil
}

// afterMutation re-fetches the list, then closes the form and shows msg.
func (fc *FeedbackController) afterMutation(ctx context.Context, msg string) {
	_ = fc.refresh(ctx)

	fc.mu.Lock()
	fc.form = Form{}
	fc.success = newNotice(msg, fc.clock.Now(), SuccessNoticeTTL)
	fc.mu.Unlock()
}

func (fc *FeedbackController) formError(in models.FeedbackInput, msg string) Result {
	fc.mu.Lock()
	fc.form.Input = in
	fc.form.Error = msg
	fc.mu.Unlock()
	return ValidationError(msg)
}

// abandonForm closes the form after the session was rejected; the
// submission cannot be retried without signing in again.
func (fc *FeedbackController) abandonForm(msg string) Result {
	fc.mu.Lock()
	fc.form = Form{}
	fc.mu.Unlock()
	return ValidationError(msg)
}

// checkUnauthorized reports whether err is a rejected token and, if so,
// runs the unauthorized hook.
func (fc *FeedbackController) checkUnauthorized(ctx context.Context, err error) bool {
	if !errors.Is(err, client.ErrUnauthorized) {
		return false
	}
	if fc.onUnauthorized != nil {
		if ierr := fc.onUnauthorized(ctx); ierr != nil {
			fc.log.Error(ctx, "invalidate session", "error", ierr)
		}
	}
	return true
}

// OpenCreate opens an empty form with the default category.
func (fc *FeedbackController) OpenCreate() {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	fc.form = Form{Mode: FormCreate, Input: models.FeedbackInput{Category: models.CategoryGeneral}}
}

// OpenEdit opens the form pre-filled from record id. It is refused once the
// record's local countdown has expired.
func (fc *FeedbackController) OpenEdit(id string) (Form, error) {
	fc.mu.Lock()
	defer fc.mu.Unlock()

	rec, ok := fc.findLocked(id)
	if !ok {
		return Form{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if !countdown.Compute(rec.CreatedAt, fc.clock.Now()).Editable {
		return Form{}, fmt.Errorf("%s: %w", id, ErrEditWindowClosed)
	}

	fc.form = Form{Mode: FormEdit, EditingID: id, Input: models.InputFromRecord(rec)}
	return fc.form, nil
}

func (fc *FeedbackController) CloseForm() {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	fc.form = Form{}
}

func (fc *FeedbackController) Form() Form {
	fc.mu.RLock()
	defer fc.mu.RUnlock()
	return fc.form
}

// Records returns a copy of the full list.
func (fc *FeedbackController) Records() []models.FeedbackRecord {
	fc.mu.RLock()
	defer fc.mu.RUnlock()
	return append([]models.FeedbackRecord(nil), fc.records...)
}

// Record looks up one record of the current list.
func (fc *FeedbackController) Record(id string) (models.FeedbackRecord, bool) {
	fc.mu.RLock()
	defer fc.mu.RUnlock()
	return fc.findLocked(id)
}

func (fc *FeedbackController) findLocked(id string) (models.FeedbackRecord, bool) {
	for _, r := range fc.records {
		if r.ID == id {
			return r, true
		}
	}
	return models.FeedbackRecord{}, false
}

// Loaded reports whether at least one refresh has succeeded.
func (fc *FeedbackController) Loaded() bool {
	fc.mu.RLock()
	defer fc.mu.RUnlock()
	return fc.loaded
}

// Window is the local edit window of record id at the controller's clock.
func (fc *FeedbackController) Window(id string) (countdown.Window, error) {
	rec, ok := fc.Record(id)
	if !ok {
		return countdown.Window{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return countdown.Compute(rec.CreatedAt, fc.clock.Now()), nil
}

// Stats counts the full, unfiltered list.
func (fc *FeedbackController) Stats() models.Stats {
	fc.mu.RLock()
	defer fc.mu.RUnlock()
	return models.ComputeStats(fc.records)
}

// SetFilter selects a category (case-insensitive) or "all".
func (fc *FeedbackController) SetFilter(f string) error {
	canon := models.FilterAll
	if f = strings.TrimSpace(f); f != "" && !strings.EqualFold(f, models.FilterAll) {
		c, ok := models.ParseCategory(f)
		if !ok {
			return fmt.Errorf("%w: %q", ErrUnknownFilter, f)
		}
		canon = string(c)
	}

	fc.mu.Lock()
	fc.filter = canon
	fc.mu.Unlock()
	return nil
}

func (fc *FeedbackController) Filter() string {
	fc.mu.RLock()
	defer fc.mu.RUnlock()
	return fc.filter
}

// Visible is the list after the category filter.
func (fc *FeedbackController) Visible() []models.FeedbackRecord {
	fc.mu.RLock()
	defer fc.mu.RUnlock()
	return models.FilterByCategory(fc.records, fc.filter)
}

// Notices returns the success and error messages active now; either may be
// empty.
func (fc *FeedbackController) Notices() (success, failure string) {
	now := fc.clock.Now()
	fc.mu.RLock()
	defer fc.mu.RUnlock()
	if fc.success.Active(now) {
		success = fc.success.Text
	}
	if fc.failure.Active(now) {
		failure = fc.failure.Text
	}
	return success, failure
}

// Reset drops the list and all transient state, e.g. on logout.
func (fc *FeedbackController) Reset() {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	fc.records = nil
	fc.loaded = false
	fc.filter = models.FilterAll
	fc.form = Form{}
	fc.success = nil
	fc.failure = nil
}
