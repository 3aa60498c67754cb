package middleware

import (
	"errors"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v3"

	"github.com/mathieu-neron/vixtube/internal/apperror"
	"github.com/mathieu-neron/vixtube/internal/model"
)

func TestErrorHandlerMapsKinds(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
		msg    string
	}{
		{"invalid", apperror.Invalid("Invalid videoId format"), 400, "INVALID_ARGUMENT", "Invalid videoId format"},
		{"not found", apperror.NotFoundf("Video not found"), 404, "NOT_FOUND", "Video not found"},
		{"forbidden", apperror.Forbidden("You are not allowed to delete this video"), 403, "FORBIDDEN", "You are not allowed to delete this video"},
		{"conflict", apperror.New(apperror.Conflict, "retry"), 409, "CONFLICT", "retry"},
		{"unavailable", apperror.Wrap(apperror.Unavailable, errors.New("x"), "AI service is temporarily unavailable"), 503, "UNAVAILABLE", "AI service is temporarily unavailable"},
		{"plain error", errors.New("pq: connection reset"), 500, "INTERNAL_ERROR", "Internal server error"},
		{"fiber error", fiber.ErrMethodNotAllowed, 405, "METHOD_NOT_ALLOWED", "Method Not Allowed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
			app.Get("/", func(c fiber.Ctx) error { return tt.err })

			resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/", nil))
			if err != nil {
				t.Fatal(err)
			}
			body, _ := io.ReadAll(resp.Body)
			var env model.APIError
			if err := json.Unmarshal(body, &env); err != nil {
				t.Fatalf("decode %q: %v", body, err)
			}
			if resp.StatusCode != tt.status || env.StatusCode != tt.status {
				t.Errorf("status = %d/%d, want %d", resp.StatusCode, env.StatusCode, tt.status)
			}
			if env.Code != tt.code || env.Message != tt.msg || env.Success {
				t.Errorf("envelope = %+v", env)
			}
		})
	}
}

func TestSuccessEnvelope(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c fiber.Ctx) error {
		return Success(c, fiber.StatusCreated, fiber.Map{"id": "x"}, "Created")
	})
	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/", nil))
	if err != nil {
		t.Fatal(err)
	}
	var env struct {
		StatusCode int               `json:"statusCode"`
		Data       map[string]string `json:"data"`
		Message    string            `json:"message"`
		Success    bool              `json:"success"`
	}
	body, _ := io.ReadAll(resp.Body)
	if err := json.Unmarshal(body, &env); err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 201 || env.StatusCode != 201 || !env.Success || env.Data["id"] != "x" || env.Message != "Created" {
		t.Errorf("unexpected %d %+v", resp.StatusCode, env)
	}
}

func TestParseOrigins(t *testing.T) {
	if got := parseOrigins(""); len(got) != 1 || got[0] != "*" {
		t.Errorf("empty = %v", got)
	}
	got := parseOrigins(" https://a.example , ,https://b.example")
	if len(got) != 2 || got[0] != "https://a.example" || got[1] != "https://b.example" {
		t.Errorf("list = %v", got)
	}
}
