package services

import "github.com/dmitrijs2005/feedbackhub/internal/client/models"

type FormMode int

const (
	FormClosed FormMode = iota
	FormCreate
	FormEdit
)

// Form is the state of the create/edit form. Error is the inline message of
// the last failed submit.
type Form struct {
	Mode      FormMode
	EditingID string
	Input     models.FeedbackInput
	Error     string
}

func (f Form) Open() bool { return f.Mode != FormClosed }
