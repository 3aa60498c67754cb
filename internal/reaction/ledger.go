// Package reaction keeps at most one reaction per (subject, actor, kind) and
// exposes toggle operations over it. Likes, dislikes, subscriptions and saved
// videos are all reactions; they differ only in their SubjectType and Kind.
package reaction

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/mathieu-neron/vixtube/internal/apperror"
)

// Reaction is one actor's stance toward one subject.
type Reaction struct {
	ID          uuid.UUID   `json:"id"`
	SubjectType SubjectType `json:"subjectType"`
	SubjectID   uuid.UUID   `json:"subjectId"`
	ActorID     uuid.UUID   `json:"actorId"`
	Kind        Kind        `json:"kind"`
	CreatedAt   time.Time   `json:"createdAt"`
}

// Key addresses every reaction an actor holds on a subject.
type Key struct {
	SubjectType SubjectType
	SubjectID   uuid.UUID
	ActorID     uuid.UUID
}

// ActorQuery selects an actor's reactions on one subject type, newest first.
type ActorQuery struct {
	ActorID     uuid.UUID
	SubjectType SubjectType
	Kinds       []Kind
	Limit       int
	Offset      int
}

// Store persists reactions. Insert and Delete must each be a single atomic
// conditional write; Atomic groups several of them into one unit.
type Store interface {
	// Atomic runs fn against a store bound to a single transaction.
	Atomic(ctx context.Context, fn func(tx Store) error) error
	// Insert creates r unless a reaction with the same kind or exclusive group
	// already exists. It reports whether a row was written.
	Insert(ctx context.Context, r Reaction) (bool, error)
	// Delete removes the listed kinds for key and returns the kinds removed.
	Delete(ctx context.Context, key Key, kinds []Kind) ([]Kind, error)
	Count(ctx context.Context, t SubjectType, subjectID uuid.UUID, kind Kind) (int64, error)
	Kinds(ctx context.Context, key Key) ([]Kind, error)
	ListByActor(ctx context.Context, q ActorQuery) ([]Reaction, int64, error)
}

// Owner is the public profile attached to a resolved subject.
type Owner struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	FullName string    `json:"fullName,omitempty"`
	Avatar   string    `json:"avatar,omitempty"`
}

// Subject is a display summary of a reacted-to entity.
type Subject struct {
	ID          uuid.UUID   `json:"id"`
	Type        SubjectType `json:"type"`
	Title       string      `json:"title,omitempty"`
	Description string      `json:"description,omitempty"`
	Thumbnail   string      `json:"thumbnail,omitempty"`
	Duration    float64     `json:"duration,omitempty"`
	Views       int64       `json:"views,omitempty"`
	Owner       *Owner      `json:"owner,omitempty"`
	CreatedAt   time.Time   `json:"createdAt"`
}

// SubjectResolver is the subject store as seen by the ledger.
type SubjectResolver interface {
	Exists(ctx context.Context, t SubjectType, id uuid.UUID) (bool, error)
	Resolve(ctx context.Context, t SubjectType, ids []uuid.UUID) (map[uuid.UUID]Subject, error)
}

// ToggleResult reports the state after a toggle.
type ToggleResult struct {
	Active  bool   `json:"active"`
	Kind    Kind   `json:"kind"`
	Cleared []Kind `json:"cleared,omitempty"`
}

// Status lists the kinds an actor currently holds on a subject.
type Status struct {
	Kinds []Kind `json:"kinds"`
}

func (s Status) Has(k Kind) bool {
	return slices.Contains(s.Kinds, k)
}

// State collapses the like/dislike group into a single value.
func (s Status) State() State {
	switch {
	case s.Has(KindLike):
		return StateLiked
	case s.Has(KindDislike):
		return StateDisliked
	default:
		return StateNone
	}
}

// Entry is a reaction with its subject resolved. Subject is nil when the
// subject was deleted after the reaction was recorded.
type Entry struct {
	Reaction
	Subject *Subject `json:"subject"`
}

// Page is one page of an actor's reactions.
type Page struct {
	Items      []Entry `json:"items"`
	Total      int64   `json:"total"`
	Page       int     `json:"page"`
	PageSize   int     `json:"pageSize"`
	TotalPages int     `json:"totalPages"`
}

// Ledger is the reaction ledger.
type Ledger struct {
	store    Store
	subjects SubjectResolver
	now      func() time.Time
	newID    func() uuid.UUID
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithClock overrides the creation timestamp source.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) { l.now = now }
}

func NewLedger(store Store, subjects SubjectResolver, opts ...Option) *Ledger {
	l := &Ledger{
		store:    store,
		subjects: subjects,
		now:      time.Now,
		newID:    uuid.New,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Toggle flips kind for the actor on the subject. Selecting a kind clears any
// other kind of its exclusive group. A Conflict error means a concurrent
// toggle by the same actor won the write; retrying converges.
func (l *Ledger) Toggle(ctx context.Context, t SubjectType, subjectID, actorID string, kind Kind) (*ToggleResult, error) {
	if !t.Valid() {
		return nil, apperror.Invalid("unknown subject type %q", t)
	}
	if !t.Supports(kind) {
		return nil, apperror.Invalid("kind %q is not valid for %s", kind, t)
	}
	key, err := parseKey(t, subjectID, actorID)
	if err != nil {
		return nil, err
	}
	if t == SubjectChannel && key.SubjectID == key.ActorID {
		return nil, apperror.Invalid("You cannot subscribe to yourself")
	}

	exists, err := l.subjects.Exists(ctx, t, key.SubjectID)
	if err != nil {
		return nil, fmt.Errorf("check %s exists: %w", t, err)
	}
	if !exists {
		return nil, apperror.NotFoundf("%s not found", subjectLabel(t))
	}

	res := &ToggleResult{Kind: kind}
	err = l.store.Atomic(ctx, func(tx Store) error {
		if siblings := Siblings(t, kind); len(siblings) > 0 {
			cleared, err := tx.Delete(ctx, key, siblings)
			if err != nil {
				return err
			}
			res.Cleared = cleared
		}

		removed, err := tx.Delete(ctx, key, []Kind{kind})
		if err != nil {
			return err
		}
		if len(removed) > 0 {
			res.Active = false
			return nil
		}

		inserted, err := tx.Insert(ctx, Reaction{
			ID:          l.newID(),
			SubjectType: t,
			SubjectID:   key.SubjectID,
			ActorID:     key.ActorID,
			Kind:        kind,
			CreatedAt:   l.now().UTC(),
		})
		if err != nil {
			return err
		}
		if !inserted {
			return apperror.New(apperror.Conflict, "concurrent %s %s toggle, retry", t, kind)
		}
		res.Active = true
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// Count returns how many actors hold kind on the subject.
func (l *Ledger) Count(ctx context.Context, t SubjectType, subjectID string, kind Kind) (int64, error) {
	if !t.Supports(kind) {
		return 0, apperror.Invalid("kind %q is not valid for %s", kind, t)
	}
	id, err := parseID(string(t)+" id", subjectID)
	if err != nil {
		return 0, err
	}
	return l.store.Count(ctx, t, id, kind)
}

// Status returns the kinds the actor holds on the subject.
func (l *Ledger) Status(ctx context.Context, t SubjectType, subjectID, actorID string) (*Status, error) {
	if !t.Valid() {
		return nil, apperror.Invalid("unknown subject type %q", t)
	}
	key, err := parseKey(t, subjectID, actorID)
	if err != nil {
		return nil, err
	}
	kinds, err := l.store.Kinds(ctx, key)
	if err != nil {
		return nil, err
	}
	slices.Sort(kinds)
	if kinds == nil {
		kinds = []Kind{}
	}
	return &Status{Kinds: kinds}, nil
}

// ListForActor pages through every reaction the actor holds on t.
func (l *Ledger) ListForActor(ctx context.Context, actorID string, t SubjectType, page, pageSize int) (*Page, error) {
	return l.list(ctx, actorID, t, nil, page, pageSize)
}

// ListForActorKind is ListForActor restricted to one kind.
func (l *Ledger) ListForActorKind(ctx context.Context, actorID string, t SubjectType, kind Kind, page, pageSize int) (*Page, error) {
	if !t.Supports(kind) {
		return nil, apperror.Invalid("kind %q is not valid for %s", kind, t)
	}
	return l.list(ctx, actorID, t, []Kind{kind}, page, pageSize)
}

func (l *Ledger) list(ctx context.Context, actorID string, t SubjectType, kinds []Kind, page, pageSize int) (*Page, error) {
	if !t.Valid() {
		return nil, apperror.Invalid("unknown subject type %q", t)
	}
	if page < 1 {
		return nil, apperror.Invalid("page must be at least 1")
	}
	if pageSize < 1 {
		return nil, apperror.Invalid("pageSize must be at least 1")
	}
	actor, err := parseID("actor id", actorID)
	if err != nil {
		return nil, err
	}

	rows, total, err := l.store.ListByActor(ctx, ActorQuery{
		ActorID:     actor,
		SubjectType: t,
		Kinds:       kinds,
		Limit:       pageSize,
		Offset:      (page - 1) * pageSize,
	})
	if err != nil {
		return nil, err
	}

	out := &Page{
		Items:      make([]Entry, 0, len(rows)),
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: int((total + int64(pageSize) - 1) / int64(pageSize)),
	}
	if len(rows) == 0 {
		return out, nil
	}

	ids := make([]uuid.UUID, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.SubjectID)
	}
	resolved, err := l.subjects.Resolve(ctx, t, ids)
	if err != nil {
		return nil, fmt.Errorf("resolve %s subjects: %w", t, err)
	}
	for _, r := range rows {
		e := Entry{Reaction: r}
		if s, ok := resolved[r.SubjectID]; ok {
			e.Subject = &s
		}
		out.Items = append(out.Items, e)
	}
	return out, nil
}

func parseKey(t SubjectType, subjectID, actorID string) (Key, error) {
	sid, err := parseID(string(t)+" id", subjectID)
	if err != nil {
		return Key{}, err
	}
	aid, err := parseID("actor id", actorID)
	if err != nil {
		return Key{}, err
	}
	return Key{SubjectType: t, SubjectID: sid, ActorID: aid}, nil
}

func parseID(field, raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil || id == uuid.Nil {
		return uuid.Nil, apperror.Invalid("Invalid %s format", field)
	}
	return id, nil
}

func subjectLabel(t SubjectType) string {
	switch t {
	case SubjectVideo:
		return "Video"
	case SubjectComment:
		return "Comment"
	case SubjectTweet:
		return "Tweet"
	case SubjectChannel:
		return "Channel"
	}
	return string(t)
}
