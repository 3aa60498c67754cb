package middleware

import (
	"testing"

	"github.com/mathieu-neron/vixtube/internal/apperror"
	"github.com/mathieu-neron/vixtube/internal/model"
)

func TestValidateUUID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"valid", "3f1c1a52-7f38-4c2e-9b7c-2f0d7a1e5b10", "3f1c1a52-7f38-4c2e-9b7c-2f0d7a1e5b10", false},
		{"uppercase normalized", "3F1C1A52-7F38-4C2E-9B7C-2F0D7A1E5B10", "3f1c1a52-7f38-4c2e-9b7c-2f0d7a1e5b10", false},
		{"trims whitespace", "  3f1c1a52-7f38-4c2e-9b7c-2f0d7a1e5b10 ", "3f1c1a52-7f38-4c2e-9b7c-2f0d7a1e5b10", false},
		{"empty", "", "", true},
		{"nil uuid", "00000000-0000-0000-0000-000000000000", "", true},
		{"not a uuid", "dQw4w9WgXcQ", "", true},
		{"sql injection", "a'; DROP--", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ValidateUUID(tt.input, "videoId")
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got none")
				}
				if apperror.KindOf(err) != apperror.InvalidArgument {
					t.Errorf("kind = %v, want InvalidArgument", apperror.KindOf(err))
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestClampPage(t *testing.T) {
	tests := []struct {
		page, limit         int
		wantPage, wantLimit int
	}{
		{1, 10, 1, 10},
		{0, 0, DefaultPage, DefaultLimit},
		{-3, 5, DefaultPage, 5},
		{4, 1000, 4, MaxLimit},
	}
	for _, tt := range tests {
		p, l := ClampPage(tt.page, tt.limit)
		if p != tt.wantPage || l != tt.wantLimit {
			t.Errorf("ClampPage(%d, %d) = (%d, %d), want (%d, %d)", tt.page, tt.limit, p, l, tt.wantPage, tt.wantLimit)
		}
	}
}

func TestValidateStruct(t *testing.T) {
	tests := []struct {
		name    string
		input   any
		wantMsg string
	}{
		{"ok", &model.ContentRequest{Content: "hello"}, ""},
		{"missing content", &model.ContentRequest{}, "content is required"},
		{"playlist name too long", &model.PlaylistRequest{Name: string(make([]byte, 101))}, "name must be at most 100 characters"},
		{"bad video id", &model.VideoOverviewRequest{VideoID: "nope"}, "Invalid videoId format"},
		{"no interests", &model.RecommendationsRequest{}, "interests is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStruct(tt.input)
			if tt.wantMsg == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected error, got none")
			}
			if got := apperror.MessageOf(err); got != tt.wantMsg {
				t.Errorf("message = %q, want %q", got, tt.wantMsg)
			}
		})
	}
}
