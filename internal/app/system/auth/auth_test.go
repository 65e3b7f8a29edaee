package auth_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	userstore "filevault/internal/app/store/users"
	auth "filevault/internal/app/system/auth"
	"filevault/internal/testutil"
	"go.uber.org/zap"
)

const testSecret = "test-secret-0123456789"

func TestTokenAuth_IssueAndVerify(t *testing.T) {
	a := auth.New(nil, testSecret, 30*time.Minute, zap.NewNop())

	token, err := a.IssueToken("user@example.com")
	if err != nil {
		t.Fatalf("IssueToken() error = %v", err)
	}

	email, err := a.VerifyToken(token)
	if err != nil {
		t.Fatalf("VerifyToken() error = %v", err)
	}
	if email != "user@example.com" {
		t.Errorf("VerifyToken() subject = %q, want %q", email, "user@example.com")
	}
}

func TestTokenAuth_VerifyExpired(t *testing.T) {
	// Zero is replaced by the default, so use the smallest expiry and wait
	// it out.
	a := auth.New(nil, testSecret, time.Nanosecond, zap.NewNop())

	token, err := a.IssueToken("user@example.com")
	if err != nil {
		t.Fatalf("IssueToken() error = %v", err)
	}

	time.Sleep(10 * time.Millisecond)

	if _, err := a.VerifyToken(token); err == nil {
		t.Error("VerifyToken() accepted an expired token")
	}
}

func TestTokenAuth_VerifyWrongSecret(t *testing.T) {
	issuer := auth.New(nil, testSecret, 30*time.Minute, zap.NewNop())
	verifier := auth.New(nil, "a-different-secret", 30*time.Minute, zap.NewNop())

	token, err := issuer.IssueToken("user@example.com")
	if err != nil {
		t.Fatalf("IssueToken() error = %v", err)
	}

	if _, err := verifier.VerifyToken(token); err == nil {
		t.Error("VerifyToken() accepted a token signed with another key")
	}
}

func TestTokenAuth_VerifyGarbage(t *testing.T) {
	a := auth.New(nil, testSecret, 30*time.Minute, zap.NewNop())
	if _, err := a.VerifyToken("not.a.token"); err == nil {
		t.Error("VerifyToken() accepted garbage")
	}
}

func TestRequireAuth(t *testing.T) {
	db := testutil.SetupTestDB(t)
	users := userstore.New(db)
	a := auth.New(users, testSecret, 30*time.Minute, zap.NewNop())

	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := users.Create(ctx, userstore.CreateInput{
		Email:        "auth@example.com",
		FullName:     "Auth User",
		PasswordHash: "$2a$12$fakehash",
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	handler := a.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := auth.CurrentUser(r)
		if !ok {
			t.Error("CurrentUser() not set inside protected handler")
			return
		}
		if user.ID != created.ID {
			t.Errorf("CurrentUser() ID = %v, want %v", user.ID, created.ID)
		}
		w.WriteHeader(http.StatusOK)
	}))

	token, err := a.IssueToken("auth@example.com")
	if err != nil {
		t.Fatalf("IssueToken() error = %v", err)
	}

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"valid token", "Bearer " + token, http.StatusOK},
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic " + token, http.StatusUnauthorized},
		{"malformed token", "Bearer garbage", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
			if tt.want == http.StatusUnauthorized {
				if rec.Header().Get("WWW-Authenticate") != "Bearer" {
					t.Error("missing WWW-Authenticate header on 401")
				}
				var body map[string]string
				if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
					t.Fatalf("decoding 401 body: %v", err)
				}
				if body["error"] != "Could not validate credentials" {
					t.Errorf("401 error = %q", body["error"])
				}
			}
		})
	}
}

func TestRequireAuth_UnknownSubject(t *testing.T) {
	db := testutil.SetupTestDB(t)
	users := userstore.New(db)
	a := auth.New(users, testSecret, 30*time.Minute, zap.NewNop())

	// Token is valid but no account backs it (for example the user was
	// deleted after issuance).
	token, err := a.IssueToken("ghost@example.com")
	if err != nil {
		t.Fatalf("IssueToken() error = %v", err)
	}

	handler := a.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not run for an unknown subject")
	}))

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}
