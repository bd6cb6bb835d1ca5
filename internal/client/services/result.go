package services

import "github.com/dmitrijs2005/feedbackhub/internal/client/models"

// ResultKind tags the outcome of a create or update.
type ResultKind int

const (
	ResultOk ResultKind = iota
	// ResultValidationError covers client-side validation and any
	// server rejection other than an expired edit window. The form stays
	// open.
	ResultValidationError
	// ResultEditWindowExpired is the server refusing an update because the
	// record is older than the edit window. The form is closed.
	ResultEditWindowExpired
)

func (k ResultKind) String() string {
	switch k {
	case ResultOk:
		return "ok"
	case ResultValidationError:
		return "validation-error"
	case ResultEditWindowExpired:
		return "edit-window-expired"
	default:
		return "unknown"
	}
}

// Result is the tagged outcome of Create and Update. Record is set only for
// ResultOk, Message only for the failure variants.
type Result struct {
	Kind    ResultKind
	Record  *models.FeedbackRecord
	Message string
}

func Ok(rec *models.FeedbackRecord) Result {
	return Result{Kind: ResultOk, Record: rec}
}

func ValidationError(msg string) Result {
	return Result{Kind: ResultValidationError, Message: msg}
}

func EditWindowExpired(msg string) Result {
	return Result{Kind: ResultEditWindowExpired, Message: msg}
}
