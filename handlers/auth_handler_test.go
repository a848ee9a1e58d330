package handlers

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestRegisterAndLogin(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodPost, "/api/auth/register", "", CredentialsRequest{Email: "  Ana@Example.com ", Password: "secret123"})
	requireStatus(t, w, http.StatusCreated)

	var registered struct {
		Message string `json:"message"`
		Token   string `json:"token"`
		User    struct {
			ID           string `json:"id"`
			Email        string `json:"email"`
			PasswordHash string `json:"passwordHash"`
		} `json:"user"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &registered); err != nil {
		t.Fatalf("failed to decode: %v", err)
	}
	if registered.Message != "User registered successfully." {
		t.Errorf("unexpected message %q", registered.Message)
	}
	if registered.User.Email != "ana@example.com" {
		t.Errorf("expected normalized email, got %q", registered.User.Email)
	}
	if registered.User.PasswordHash != "" {
		t.Error("password hash leaked into response")
	}
	if registered.Token == "" {
		t.Fatal("expected token")
	}

	w = env.do(http.MethodPost, "/api/auth/login", "", CredentialsRequest{Email: "ANA@example.com", Password: "secret123"})
	requireStatus(t, w, http.StatusOK)

	var loggedIn struct {
		Message string `json:"message"`
		Token   string `json:"token"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &loggedIn); err != nil {
		t.Fatalf("failed to decode: %v", err)
	}
	if loggedIn.Message != "Login successful." || loggedIn.Token == "" {
		t.Errorf("unexpected login response %s", w.Body.String())
	}

	w = env.do(http.MethodGet, "/api/me", loggedIn.Token, nil)
	requireStatus(t, w, http.StatusOK)
	var me struct {
		User struct {
			ID string `json:"id"`
		} `json:"user"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &me); err != nil {
		t.Fatalf("failed to decode: %v", err)
	}
	if me.User.ID != registered.User.ID {
		t.Errorf("expected user %s, got %s", registered.User.ID, me.User.ID)
	}
}

func TestRegisterErrors(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "taken@example.com")

	tests := []struct {
		name    string
		req     CredentialsRequest
		status  int
		message string
	}{
		{"duplicate", CredentialsRequest{Email: "Taken@example.com", Password: "secret123"}, http.StatusConflict, "Email already in use."},
		{"missing fields", CredentialsRequest{Email: "", Password: ""}, http.StatusBadRequest, "Email and password are required."},
		{"invalid email", CredentialsRequest{Email: "not-an-email", Password: "secret123"}, http.StatusBadRequest, "Please enter a valid email address."},
		{"short password", CredentialsRequest{Email: "new@example.com", Password: "abc"}, http.StatusBadRequest, "Password must be at least 6 characters long."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(http.MethodPost, "/api/auth/register", "", tt.req)
			requireStatus(t, w, tt.status)

			var body struct {
				Error string `json:"error"`
			}
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
				t.Fatalf("failed to decode: %v", err)
			}
			if body.Error != tt.message {
				t.Errorf("expected %q, got %q", tt.message, body.Error)
			}
		})
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "user@example.com")

	for _, req := range []CredentialsRequest{
		{Email: "user@example.com", Password: "wrong-password"},
		{Email: "nobody@example.com", Password: "secret123"},
	} {
		w := env.do(http.MethodPost, "/api/auth/login", "", req)
		requireStatus(t, w, http.StatusUnauthorized)
		if got := w.Body.String(); got != `{"error":"Invalid email or password."}` {
			t.Errorf("unexpected body %s", got)
		}
	}
}

func TestAuthMiddleware(t *testing.T) {
	env := newTestEnv(t)

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"userId": "6f1c1d9e-4a1b-4f7e-9a51-2d0b5f9c8e11",
		"email":  "old@example.com",
		"iat":    time.Now().Add(-2 * time.Hour).Unix(),
		"exp":    time.Now().Add(-time.Hour).Unix(),
	})
	expiredToken, err := expired.SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("failed to sign: %v", err)
	}

	tests := []struct {
		name   string
		header string
		want   string
	}{
		{"missing", "", "Unauthorized. No token provided or malformed token."},
		{"malformed", "Token abc", "Unauthorized. No token provided or malformed token."},
		{"expired", "Bearer " + expiredToken, "Unauthorized. Token has expired."},
		{"garbage", "Bearer not.a.jwt", "Unauthorized. Invalid token."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := newRequest(http.MethodGet, "/api/me", tt.header)
			w := serve(env, req)
			requireStatus(t, w, http.StatusUnauthorized)

			var body struct {
				Error string `json:"error"`
			}
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
				t.Fatalf("failed to decode: %v", err)
			}
			if body.Error != tt.want {
				t.Errorf("expected %q, got %q", tt.want, body.Error)
			}
		})
	}
}
