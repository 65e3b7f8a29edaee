package testutil

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	"filevault/internal/app/system/auth"
	"filevault/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NewTestUser returns a user suitable for injecting into request contexts.
// The record is not persisted; persist it yourself if a store lookup is
// part of the test.
func NewTestUser(email string) *models.User {
	return &models.User{
		ID:        primitive.NewObjectID(),
		Email:     email,
		FullName:  "Test User",
		CreatedAt: time.Now().UTC(),
		IsActive:  true,
	}
}

// NewRequest creates an HTTP request for testing.
func NewRequest(method, target string, body io.Reader) *http.Request {
	return httptest.NewRequest(method, target, body)
}

// NewAuthenticatedRequest creates an HTTP request with a user in context,
// bypassing the token middleware.
func NewAuthenticatedRequest(method, target string, body io.Reader, user *models.User) *http.Request {
	req := httptest.NewRequest(method, target, body)
	return auth.WithTestUser(req, user)
}

// ResponseRecorder wraps httptest.ResponseRecorder with helper methods.
type ResponseRecorder struct {
	*httptest.ResponseRecorder
}

// NewRecorder creates a new ResponseRecorder.
func NewRecorder() *ResponseRecorder {
	return &ResponseRecorder{httptest.NewRecorder()}
}

// AssertStatus checks the response status code.
func (r *ResponseRecorder) AssertStatus(t interface{ Errorf(string, ...any) }, expected int) {
	if r.Code != expected {
		t.Errorf("status code: got %d, want %d", r.Code, expected)
	}
}

// AssertContains checks if the response body contains the expected string.
func (r *ResponseRecorder) AssertContains(t interface{ Errorf(string, ...any) }, expected string) {
	body := r.Body.String()
	if !strings.Contains(body, expected) {
		t.Errorf("response body does not contain %q", expected)
	}
}
