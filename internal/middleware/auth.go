package middleware

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	localActorID  = "actorID"
	localUsername = "username"
)

// Claims are the bearer token claims. Subject carries the actor UUID.
type Claims struct {
	Username string `json:"username,omitempty"`
	jwt.RegisteredClaims
}

// TouchFunc is called once per authenticated request with the verified
// actor, so the user row exists before any handler runs.
type TouchFunc func(ctx context.Context, actorID, username string) error

// Auth verifies HS256 bearer tokens.
type Auth struct {
	secret []byte
	touch  TouchFunc
}

func NewAuth(secret string, touch TouchFunc) *Auth {
	return &Auth{secret: []byte(secret), touch: touch}
}

// Required rejects requests without a valid token with 401.
func (a *Auth) Required() fiber.Handler {
	return func(c fiber.Ctx) error {
		raw, ok := bearerToken(c)
		if !ok {
			return ErrorResponse(c, fiber.StatusUnauthorized, "UNAUTHENTICATED", "Missing bearer token")
		}
		claims, err := a.Verify(raw)
		if err != nil {
			return ErrorResponse(c, fiber.StatusUnauthorized, "UNAUTHENTICATED", "Invalid or expired token")
		}
		if err := a.accept(c, claims); err != nil {
			return AppError(c, err)
		}
		return c.Next()
	}
}

// Optional attaches the actor when a valid token is present and otherwise
// lets the request through anonymously. A malformed token is still a 401.
func (a *Auth) Optional() fiber.Handler {
	return func(c fiber.Ctx) error {
		raw, ok := bearerToken(c)
		if !ok {
			return c.Next()
		}
		claims, err := a.Verify(raw)
		if err != nil {
			return ErrorResponse(c, fiber.StatusUnauthorized, "UNAUTHENTICATED", "Invalid or expired token")
		}
		if err := a.accept(c, claims); err != nil {
			return AppError(c, err)
		}
		return c.Next()
	}
}

// Verify parses and validates a token, returning its claims.
func (a *Auth) Verify(raw string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(raw, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return a.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}
	id, err := uuid.Parse(claims.Subject)
	if err != nil || id == uuid.Nil {
		return nil, errors.New("token subject is not a user id")
	}
	claims.Subject = id.String()
	return claims, nil
}

// Issue signs a token for actorID. Used by the token command and tests.
func (a *Auth) Issue(actorID, username string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   actorID,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
}

func (a *Auth) accept(c fiber.Ctx, claims *Claims) error {
	if a.touch != nil {
		if err := a.touch(c.Context(), claims.Subject, claims.Username); err != nil {
			return err
		}
	}
	c.Locals(localActorID, claims.Subject)
	c.Locals(localUsername, claims.Username)
	return nil
}

// ActorID returns the authenticated actor, or "" for anonymous requests.
func ActorID(c fiber.Ctx) string {
	id, _ := c.Locals(localActorID).(string)
	return id
}

// Username returns the username claim of the authenticated actor.
func Username(c fiber.Ctx) string {
	name, _ := c.Locals(localUsername).(string)
	return name
}

func bearerToken(c fiber.Ctx) (string, bool) {
	h := c.Get(fiber.HeaderAuthorization)
	scheme, token, ok := strings.Cut(h, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
