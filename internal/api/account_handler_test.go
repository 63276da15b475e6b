package api

import (
	"net/http"
	"testing"
)

const registerPayload = `{
	"first_name": "Ada",
	"last_name": "Lovelace",
	"username": "ada1815",
	"email": "ada@example.com",
	"password": "correct-horse-battery"
}`

func TestRegisterLoginRefreshFlow(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/v1/register", registerPayload, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = env.do(t, http.MethodPost, "/api/v1/login", `{"username": "ada1815", "password": "correct-horse-battery"}`, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	access, _ := body["access_token"].(string)
	refresh, _ := body["refresh_token"].(string)
	if access == "" || refresh == "" {
		t.Fatalf("expected both tokens, got %v", body)
	}

	// The access token must open the protected routes.
	claims, err := env.tokens.ValidateAccessToken(access)
	if err != nil {
		t.Fatalf("access token failed validation: %v", err)
	}
	if claims.UserID == "" {
		t.Fatalf("expected a user id in the claims")
	}

	rec = env.do(t, http.MethodPost, "/api/v1/refresh", `{"refresh_token": "`+refresh+`"}`, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	body = decodeBody(t, rec)
	if body["access_token"] == "" {
		t.Fatalf("expected a fresh access token, got %v", body)
	}
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/v1/register", registerPayload, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = env.do(t, http.MethodPost, "/api/v1/login", `{"username": "ada1815", "password": "wrong"}`, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}

	rec = env.do(t, http.MethodPost, "/api/v1/login", `{"username": "nobody", "password": "whatever"}`, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for unknown user, got %d", rec.Code)
	}
}

func TestRegisterDoesNotRevealTakenUsernames(t *testing.T) {
	env := newTestEnv(t)

	if rec := env.do(t, http.MethodPost, "/api/v1/register", registerPayload, nil); rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	rec := env.do(t, http.MethodPost, "/api/v1/register", registerPayload, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["error"] != "invalid credentials" {
		t.Fatalf("expected an opaque message, got %v", body["error"])
	}
}

func TestRegisterValidation(t *testing.T) {
	env := newTestEnv(t)

	cases := []string{
		`{"first_name": "Ada", "last_name": "L", "username": "ab", "email": "ada@example.com", "password": "long-enough-pass"}`,
		`{"first_name": "Ada", "last_name": "L", "username": "ada1815", "email": "not-an-email", "password": "long-enough-pass"}`,
		`{"first_name": "Ada", "last_name": "L", "username": "ada1815", "email": "ada@example.com", "password": "short"}`,
	}
	for _, payload := range cases {
		rec := env.do(t, http.MethodPost, "/api/v1/register", payload, nil)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("payload %s: expected 400, got %d", payload, rec.Code)
		}
	}
}
