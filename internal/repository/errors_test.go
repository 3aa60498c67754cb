package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/mathieu-neron/vixtube/internal/apperror"
)

func TestTranslate(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want apperror.Kind
	}{
		{"no rows", pgx.ErrNoRows, apperror.NotFound},
		{"unique", &pgconn.PgError{Code: uniqueViolation}, apperror.Conflict},
		{"foreign key", &pgconn.PgError{Code: foreignKeyViolation}, apperror.NotFound},
		{"check", &pgconn.PgError{Code: checkViolation}, apperror.InvalidArgument},
		{"serialization", &pgconn.PgError{Code: serializationFailure}, apperror.Conflict},
		{"deadlock", &pgconn.PgError{Code: deadlockDetected}, apperror.Conflict},
		{"wrapped deadlock", fmt.Errorf("commit reaction tx: %w", &pgconn.PgError{Code: deadlockDetected}), apperror.Conflict},
		{"other", errors.New("conn reset"), apperror.Internal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := apperror.KindOf(translate(tt.err, "Video")); got != tt.want {
				t.Errorf("translate kind = %v, want %v", got, tt.want)
			}
		})
	}
	if translate(nil, "Video") != nil {
		t.Error("nil must stay nil")
	}
	if msg := apperror.MessageOf(translate(pgx.ErrNoRows, "Playlist")); msg != "Playlist not found" {
		t.Errorf("message = %q", msg)
	}
}

func TestEscapeLike(t *testing.T) {
	tests := map[string]string{
		"plain":   "plain",
		"50%":     `50\%`,
		"a_b":     `a\_b`,
		`back\sl`: `back\\sl`,
	}
	for in, want := range tests {
		if got := escapeLike(in); got != want {
			t.Errorf("escapeLike(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestPageOffset(t *testing.T) {
	if got := pageOffset(1, 10); got != 0 {
		t.Errorf("page 1 offset = %d", got)
	}
	if got := pageOffset(3, 10); got != 20 {
		t.Errorf("page 3 offset = %d", got)
	}
	if got := pageOffset(0, 10); got != 0 {
		t.Errorf("page 0 offset = %d", got)
	}
}
