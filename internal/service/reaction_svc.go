package service

import (
	"context"
	"errors"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/mathieu-neron/vixtube/internal/apperror"
	"github.com/mathieu-neron/vixtube/internal/metrics"
	"github.com/mathieu-neron/vixtube/internal/reaction"
)

// ReactionService puts the count cache and metrics in front of the ledger.
type ReactionService struct {
	ledger *reaction.Ledger
	cache  *CacheService
	log    zerolog.Logger
}

func NewReactionService(ledger *reaction.Ledger, cache *CacheService, log zerolog.Logger) *ReactionService {
	return &ReactionService{
		ledger: ledger,
		cache:  cache,
		log:    log.With().Str("component", "reactions").Logger(),
	}
}

// Toggle flips kind and invalidates the subject's cached counts.
func (s *ReactionService) Toggle(ctx context.Context, t reaction.SubjectType, subjectID, actorID string, kind reaction.Kind) (*reaction.ToggleResult, error) {
	res, err := s.ledger.Toggle(ctx, t, subjectID, actorID, kind)
	if err != nil {
		if errors.Is(err, apperror.ErrConflict) {
			metrics.ReactionConflicts.WithLabelValues(string(t), string(kind)).Inc()
			s.log.Debug().Str("subject_type", string(t)).Str("kind", string(kind)).Msg("toggle lost a concurrent race")
		}
		return nil, err
	}

	if s.cache != nil {
		s.cache.InvalidateCounts(ctx, t, subjectID)
	}
	metrics.ReactionToggles.WithLabelValues(string(t), string(kind), strconv.FormatBool(res.Active)).Inc()
	return res, nil
}

// Count is cache-aside over the ledger count. A recomputed value is only
// cached if no toggle invalidated the subject while it was being read.
func (s *ReactionService) Count(ctx context.Context, t reaction.SubjectType, subjectID string, kind reaction.Kind) (int64, error) {
	var gen string
	if s.cache != nil {
		n, g, ok := s.cache.GetCount(ctx, t, subjectID, kind)
		if ok {
			return n, nil
		}
		gen = g
	}
	n, err := s.ledger.Count(ctx, t, subjectID, kind)
	if err != nil {
		return 0, err
	}
	if s.cache != nil {
		s.cache.SetCount(ctx, t, subjectID, kind, gen, n)
	}
	return n, nil
}

func (s *ReactionService) Status(ctx context.Context, t reaction.SubjectType, subjectID, actorID string) (*reaction.Status, error) {
	return s.ledger.Status(ctx, t, subjectID, actorID)
}

func (s *ReactionService) ListForActor(ctx context.Context, actorID string, t reaction.SubjectType, page, pageSize int) (*reaction.Page, error) {
	return s.ledger.ListForActor(ctx, actorID, t, page, pageSize)
}

func (s *ReactionService) ListForActorKind(ctx context.Context, actorID string, t reaction.SubjectType, kind reaction.Kind, page, pageSize int) (*reaction.Page, error) {
	return s.ledger.ListForActorKind(ctx, actorID, t, kind, page, pageSize)
}

// Invalidate drops cached counts of a subject that was deleted.
func (s *ReactionService) Invalidate(ctx context.Context, t reaction.SubjectType, subjectID string) {
	if s.cache != nil {
		s.cache.InvalidateCounts(ctx, t, subjectID)
	}
}
