package middleware

import (
	"context"
	"errors"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/mathieu-neron/vixtube/internal/apperror"
)

const testSecret = "test-secret-please-ignore"

func authApp(a *Auth, optional bool) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	mw := a.Required()
	if optional {
		mw = a.Optional()
	}
	app.Get("/me", func(c fiber.Ctx) error {
		return c.SendString(ActorID(c) + "|" + Username(c))
	}, mw)
	return app
}

func doGet(t *testing.T, app *fiber.App, token string) (int, string) {
	t.Helper()
	req := httptest.NewRequest(fiber.MethodGet, "/me", nil)
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	body, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, string(body)
}

func TestAuthRequired(t *testing.T) {
	a := NewAuth(testSecret, nil)
	app := authApp(a, false)
	actor := uuid.NewString()

	good, err := a.Issue(actor, "alice", time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	expired, _ := a.Issue(actor, "alice", -time.Minute)
	foreign, _ := NewAuth("other-secret", nil).Issue(actor, "alice", time.Hour)
	notUUID, _ := a.Issue("alice", "alice", time.Hour)

	tests := []struct {
		name   string
		token  string
		status int
	}{
		{"valid", good, fiber.StatusOK},
		{"missing", "", fiber.StatusUnauthorized},
		{"garbage", "not.a.jwt", fiber.StatusUnauthorized},
		{"expired", expired, fiber.StatusUnauthorized},
		{"wrong secret", foreign, fiber.StatusUnauthorized},
		{"subject not uuid", notUUID, fiber.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := doGet(t, app, tt.token)
			if status != tt.status {
				t.Fatalf("status = %d, want %d (%s)", status, tt.status, body)
			}
			if tt.status == fiber.StatusOK && body != actor+"|alice" {
				t.Errorf("body = %q", body)
			}
		})
	}
}

func TestAuthRejectsNoneAlgorithm(t *testing.T) {
	a := NewAuth(testSecret, nil)
	claims := Claims{RegisteredClaims: jwt.RegisteredClaims{
		Subject:   uuid.NewString(),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := a.Verify(raw); err == nil {
		t.Fatal("unsigned token must be rejected")
	}
}

func TestAuthOptional(t *testing.T) {
	a := NewAuth(testSecret, nil)
	app := authApp(a, true)

	status, body := doGet(t, app, "")
	if status != fiber.StatusOK || body != "|" {
		t.Fatalf("anonymous: %d %q", status, body)
	}
	status, _ = doGet(t, app, "not.a.jwt")
	if status != fiber.StatusUnauthorized {
		t.Fatalf("bad token on optional route: %d", status)
	}
}

func TestAuthTouchesUser(t *testing.T) {
	var touched []string
	a := NewAuth(testSecret, func(ctx context.Context, id, username string) error {
		touched = append(touched, id+":"+username)
		return nil
	})
	actor := uuid.NewString()
	token, _ := a.Issue(actor, "bob", time.Hour)

	if status, _ := doGet(t, authApp(a, false), token); status != fiber.StatusOK {
		t.Fatalf("status %d", status)
	}
	if len(touched) != 1 || touched[0] != actor+":bob" {
		t.Errorf("touched = %v", touched)
	}

	failing := NewAuth(testSecret, func(ctx context.Context, id, username string) error {
		return apperror.Wrap(apperror.Internal, errors.New("db down"), "Failed to load user")
	})
	if status, _ := doGet(t, authApp(failing, false), token); status != fiber.StatusInternalServerError {
		t.Errorf("touch failure should surface as 500, got %d", status)
	}
}
