package client

import (
	"context"
	"time"

	"github.com/dmitrijs2005/feedbackhub/internal/client/models"
)

// AuthResult is the successful outcome of /login or /register.
type AuthResult struct {
	Token string
	User  models.User
	// ServerTime is taken from the response Date header; zero if absent.
	ServerTime time.Time
}

// AuthAPI is the authentication backend.
type AuthAPI interface {
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	Register(ctx context.Context, name, email, password string) (*AuthResult, error)
}

// FeedbackAPI is the feedback backend. Every call is authenticated with the
// current bearer token.
type FeedbackAPI interface {
	ListFeedback(ctx context.Context) ([]models.FeedbackRecord, error)
	CreateFeedback(ctx context.Context, in models.FeedbackInput) (*models.FeedbackRecord, error)
	UpdateFeedback(ctx context.Context, id string, in models.FeedbackInput) (*models.FeedbackRecord, error)
	DeleteFeedback(ctx context.Context, id string) error
}

// Client is the full API surface used by the CLI.
type Client interface {
	AuthAPI
	FeedbackAPI
}
