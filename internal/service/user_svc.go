package service

import (
	"context"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/mathieu-neron/vixtube/internal/apperror"
	"github.com/mathieu-neron/vixtube/internal/model"
)

const searchLimit = 20

type UserService struct {
	repo      UserStore
	videos    VideoStore
	reactions ReactionTotals
}

func NewUserService(repo UserStore, videos VideoStore, reactions ReactionTotals) *UserService {
	return &UserService{repo: repo, videos: videos, reactions: reactions}
}

// Touch provisions the user named by verified token claims.
func (s *UserService) Touch(ctx context.Context, userID, username string) error {
	if username == "" {
		username = "user_" + strings.ReplaceAll(userID, "-", "")[:12]
	}
	return s.repo.Touch(ctx, userID, username)
}

// Get returns the public view of a user. Email is only shown to its owner.
func (s *UserService) Get(ctx context.Context, userID string) (*model.User, error) {
	u, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	u.Email = ""
	return u, nil
}

// Me returns the caller's own account.
func (s *UserService) Me(ctx context.Context, actorID string) (*model.User, error) {
	return s.repo.FindByID(ctx, actorID)
}

// GetStats returns aggregate platform statistics.
func (s *UserService) GetStats(ctx context.Context) (*model.StatsResponse, error) {
	var (
		stats  *model.StatsResponse
		totals map[string]int64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		stats, err = s.repo.GetStats(gctx)
		return err
	})
	g.Go(func() (err error) {
		totals, err = s.reactions.CountByKind(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	stats.Reactions = totals
	return stats, nil
}

// Search matches videos and users. kind is "all", "videos" or "users".
func (s *UserService) Search(ctx context.Context, q, kind string) (*model.SearchResponse, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return nil, apperror.Invalid("Search query is required")
	}
	if kind == "" {
		kind = "all"
	}
	if kind != "all" && kind != "videos" && kind != "users" {
		return nil, apperror.Invalid("type must be one of all, videos, users")
	}

	resp := &model.SearchResponse{Videos: []model.Video{}, Users: []model.Owner{}}
	g, gctx := errgroup.WithContext(ctx)
	if kind != "users" {
		g.Go(func() error {
			videos, err := s.videos.Search(gctx, q, searchLimit)
			resp.Videos = videos
			return err
		})
	}
	if kind != "videos" {
		g.Go(func() error {
			users, err := s.repo.Search(gctx, q, searchLimit)
			resp.Users = users
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return resp, nil
}
