package models

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

const (
	TitleMaxLen       = 100
	DescriptionMaxLen = 1000
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// FeedbackInput is the body of POST /feedback and PUT /feedback/{id}.
type FeedbackInput struct {
	Title       string   `json:"title" validate:"required,max=100"`
	Description string   `json:"description" validate:"required,max=1000"`
	Category    Category `json:"category" validate:"required,oneof=General Bug Feature Improvement"`
}

// InputFromRecord pre-fills an edit form from an existing record.
func InputFromRecord(r FeedbackRecord) FeedbackInput {
	return FeedbackInput{Title: r.Title, Description: r.Description, Category: r.Category}
}

// Normalize trims surrounding whitespace and defaults the category to General.
func (in FeedbackInput) Normalize() FeedbackInput {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	if in.Category == "" {
		in.Category = CategoryGeneral
	}
	return in
}

// Validate checks the input and returns an error whose message is fit to be
// shown inline on the form.
func (in FeedbackInput) Validate() error {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fieldMessage(fe))
	}
	return errors.New(strings.Join(msgs, "; "))
}

func fieldMessage(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(fe.Param(), " ", ", "))
	default:
		return field + " is invalid"
	}
}
