package service

import (
	"context"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/mathieu-neron/vixtube/internal/apperror"
	"github.com/mathieu-neron/vixtube/internal/model"
	"github.com/mathieu-neron/vixtube/internal/reaction"
)

// maxFanOut bounds concurrent ledger reads when decorating a page.
const maxFanOut = 8

type TweetService struct {
	repo      TweetStore
	users     UserStore
	reactions *ReactionService
}

func NewTweetService(repo TweetStore, users UserStore, reactions *ReactionService) *TweetService {
	return &TweetService{repo: repo, users: users, reactions: reactions}
}

func (s *TweetService) Create(ctx context.Context, actorID, content string) (*model.Tweet, error) {
	return s.repo.Create(ctx, uuid.NewString(), actorID, content)
}

// ListByUser pages a user's tweets with like counts and the caller's like state.
func (s *TweetService) ListByUser(ctx context.Context, userID, actorID string, page, limit int) (model.PageResult[model.Tweet], error) {
	if _, err := uuid.Parse(userID); err != nil {
		return model.PageResult[model.Tweet]{}, apperror.Invalid("Invalid userId format")
	}
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return model.PageResult[model.Tweet]{}, err
	}
	return s.list(ctx, userID, actorID, page, limit)
}

// ListAll pages every tweet, newest first.
func (s *TweetService) ListAll(ctx context.Context, actorID string, page, limit int) (model.PageResult[model.Tweet], error) {
	return s.list(ctx, "", actorID, page, limit)
}

func (s *TweetService) list(ctx context.Context, ownerID, actorID string, page, limit int) (model.PageResult[model.Tweet], error) {
	tweets, total, err := s.repo.List(ctx, ownerID, page, limit)
	if err != nil {
		return model.PageResult[model.Tweet]{}, err
	}
	if err := s.decorate(ctx, tweets, actorID); err != nil {
		return model.PageResult[model.Tweet]{}, err
	}
	return model.NewPageResult(tweets, total, page, limit), nil
}

func (s *TweetService) decorate(ctx context.Context, tweets []model.Tweet, actorID string) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxFanOut)
	for i := range tweets {
		t := &tweets[i]
		g.Go(func() error {
			n, err := s.reactions.Count(gctx, reaction.SubjectTweet, t.ID, reaction.KindLike)
			if err != nil {
				return err
			}
			t.LikesCount = n
			if actorID == "" {
				return nil
			}
			st, err := s.reactions.Status(gctx, reaction.SubjectTweet, t.ID, actorID)
			if err != nil {
				return err
			}
			t.IsLiked = st.Has(reaction.KindLike)
			return nil
		})
	}
	return g.Wait()
}

func (s *TweetService) Update(ctx context.Context, tweetID, actorID, content string) (*model.Tweet, error) {
	if err := s.requireOwner(ctx, tweetID, actorID, "update"); err != nil {
		return nil, err
	}
	return s.repo.Update(ctx, tweetID, content)
}

func (s *TweetService) Delete(ctx context.Context, tweetID, actorID string) error {
	if err := s.requireOwner(ctx, tweetID, actorID, "delete"); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, tweetID); err != nil {
		return err
	}
	s.reactions.Invalidate(ctx, reaction.SubjectTweet, tweetID)
	return nil
}

func (s *TweetService) requireOwner(ctx context.Context, tweetID, actorID, action string) error {
	t, err := s.repo.FindByID(ctx, tweetID)
	if err != nil {
		return err
	}
	if t.OwnerID != actorID {
		return apperror.Forbidden("You are not allowed to %s this tweet", action)
	}
	return nil
}
