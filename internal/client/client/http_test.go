package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/feedbackhub/internal/client/models"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *HTTPClient {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	c, err := NewHTTPClient(srv.URL + "/")
	require.NoError(t, err)
	return c
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestNewHTTPClient_RejectsBadScheme(t *testing.T) {
	_, err := NewHTTPClient("ftp://example.org")
	require.Error(t, err)

	_, err = NewHTTPClient("://bad")
	require.Error(t, err)
}

func TestLogin_Success(t *testing.T) {
	serverTime := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/login", r.URL.Path)
		assert.Empty(t, r.Header.Get("Authorization"), "login must not carry a token")

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "ann@example.org", body["email"])
		assert.Equal(t, "pw", body["password"])
		_, hasName := body["name"]
		assert.False(t, hasName)

		w.Header().Set("Date", serverTime.Format(http.TimeFormat))
		writeJSON(w, http.StatusOK, map[string]any{
			"token": "tok",
			"user":  map[string]string{"id": "u1", "name": "Ann", "email": "ann@example.org", "role": "admin"},
		})
	})
	c.SetTokenSource(func() string { return "stale" })

	res, err := c.Login(context.Background(), "ann@example.org", "pw")
	require.NoError(t, err)
	assert.Equal(t, "tok", res.Token)
	assert.Equal(t, models.User{ID: "u1", Name: "Ann", Email: "ann@example.org", Role: models.RoleAdmin}, res.User)
	assert.True(t, res.ServerTime.Equal(serverTime))
}

func TestLogin_BadCredentials(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Invalid email or password"})
	})

	_, err := c.Login(context.Background(), "a", "b")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.Equal(t, "Invalid email or password", MessageOf(err, "Login failed"))
}

func TestLogin_EmptyTokenIsError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"user": map[string]string{"id": "u1"}})
	})

	_, err := c.Login(context.Background(), "a", "b")
	require.Error(t, err)
}

func TestRegister_SendsName(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/register", r.URL.Path)
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Bob", body["name"])
		writeJSON(w, http.StatusCreated, map[string]any{
			"token": "t2",
			"user":  map[string]string{"id": "u2", "name": "Bob", "email": "bob@example.org", "role": "USER"},
		})
	})

	res, err := c.Register(context.Background(), "Bob", "bob@example.org", "pw")
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, res.User.Role)
	assert.Equal(t, "t2", res.Token)
}

func TestListFeedback_AttachesBearerAndRequestID(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/feedback", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		_, err := uuid.Parse(r.Header.Get("X-Request-ID"))
		assert.NoError(t, err)

		writeJSON(w, http.StatusOK, []map[string]any{
			{"_id": "f1", "title": "t", "description": "d", "category": "Bug", "createdAt": "2025-03-01T10:00:00Z"},
		})
	})
	c.SetTokenSource(func() string { return "tok" })

	list, err := c.ListFeedback(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "f1", list[0].ID)
	assert.Equal(t, models.CategoryBug, list[0].Category)
}

func TestListFeedback_NullBodyIsEmptyList(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, nil)
	})

	list, err := c.ListFeedback(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}

func TestCreateFeedback_ValidationError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Title is required"})
	})

	_, err := c.CreateFeedback(context.Background(), models.FeedbackInput{})
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.False(t, IsEditWindowExpired(err))
	assert.NotErrorIs(t, err, ErrUnauthorized)
}

func TestUpdateFeedback_EditWindowExpired(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/feedback/f%2F1", r.URL.EscapedPath())
		writeJSON(w, http.StatusForbidden, map[string]any{
			"message":           "Edit window has expired. Feedback can only be edited within 15 minutes of creation.",
			"editWindowExpired": true,
		})
	})

	_, err := c.UpdateFeedback(context.Background(), "f/1", models.FeedbackInput{Title: "x"})
	require.Error(t, err)
	assert.True(t, IsEditWindowExpired(err))
	assert.Contains(t, MessageOf(err, ""), "Edit window has expired")
}

func TestUpdateFeedback_Success(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var in models.FeedbackInput
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		writeJSON(w, http.StatusOK, map[string]any{
			"_id": "f1", "title": in.Title, "description": in.Description, "category": in.Category,
			"createdAt": "2025-03-01T10:00:00Z",
		})
	})

	rec, err := c.UpdateFeedback(context.Background(), "f1", models.FeedbackInput{Title: "new", Description: "d", Category: models.CategoryFeature})
	require.NoError(t, err)
	assert.Equal(t, "new", rec.Title)
	assert.Equal(t, models.CategoryFeature, rec.Category)
}

func TestDeleteFeedback(t *testing.T) {
	t.Run("no content", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodDelete, r.Method)
			w.WriteHeader(http.StatusNoContent)
		})
		require.NoError(t, c.DeleteFeedback(context.Background(), "f1"))
	})

	t.Run("json ack", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]string{"message": "Feedback deleted"})
		})
		require.NoError(t, c.DeleteFeedback(context.Background(), "f1"))
	})

	t.Run("not found", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusNotFound, map[string]string{"message": "Feedback not found"})
		})
		err := c.DeleteFeedback(context.Background(), "f1")
		require.Error(t, err)
		assert.Equal(t, "Feedback not found", MessageOf(err, "Failed to delete feedback"))
	})
}

func TestErrors_PlainTextAndUnavailable(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = io.WriteString(w, "upstream down\n")
	})

	_, err := c.ListFeedback(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Equal(t, "upstream down", MessageOf(err, "x"))
}

func TestErrors_EmptyBodyFallsBack(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := c.ListFeedback(context.Background())
	require.Error(t, err)
	assert.Equal(t, "Failed to load feedback", MessageOf(err, "Failed to load feedback"))
}

func TestTransportFailureIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c, err := NewHTTPClient(url)
	require.NoError(t, err)

	_, err = c.ListFeedback(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestCancelledContextIsReturnedAsIs(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.ListFeedback(ctx)
	require.ErrorIs(t, err, context.Canceled)
}

func TestWithTimeout(t *testing.T) {
	c, err := NewHTTPClient("http://localhost", WithHTTPClient(&http.Client{}), WithTimeout(3*time.Second))
	require.NoError(t, err)
	assert.Equal(t, 3*time.Second, c.http.Timeout)
}

func TestWithTimeout_LeavesSharedClientAlone(t *testing.T) {
	shared := &http.Client{}

	c, err := NewHTTPClient("http://localhost", WithHTTPClient(shared), WithTimeout(2*time.Second))
	require.NoError(t, err)
	assert.Equal(t, 2*time.Second, c.http.Timeout)
	assert.Zero(t, shared.Timeout)
	assert.NotSame(t, shared, c.http)

	c, err = NewHTTPClient("http://localhost", WithTimeout(2*time.Second), WithHTTPClient(shared))
	require.NoError(t, err)
	assert.Equal(t, 2*time.Second, c.http.Timeout, "option order must not matter")
	assert.Zero(t, shared.Timeout)
}

func TestErrors_LongPlainTextKeepsValidUTF8(t *testing.T) {
	body := strings.Repeat("a", maxErrorBody-1) + "ошибка"
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = io.WriteString(w, body)
	})

	_, err := c.ListFeedback(context.Background())
	require.Error(t, err)
	msg := MessageOf(err, "")
	assert.True(t, utf8.ValidString(msg))
	assert.Equal(t, strings.Repeat("a", maxErrorBody-1), msg)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 5))
	assert.Equal(t, "ab", truncate("abc", 2))
	assert.Equal(t, "a", truncate("aé", 2))
	assert.Equal(t, "aé", truncate("aé", 3))
	assert.Equal(t, "", truncate("é", 1))
}
