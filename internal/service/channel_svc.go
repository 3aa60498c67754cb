package service

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/mathieu-neron/vixtube/internal/model"
	"github.com/mathieu-neron/vixtube/internal/reaction"
)

// ChannelService builds channel profiles. Every user is a channel.
type ChannelService struct {
	users     UserStore
	reactions *ReactionService
}

func NewChannelService(users UserStore, reactions *ReactionService) *ChannelService {
	return &ChannelService{users: users, reactions: reactions}
}

func (s *ChannelService) ProfileByUsername(ctx context.Context, username, actorID string) (*model.ChannelProfile, error) {
	u, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	return s.profile(ctx, u, actorID)
}

func (s *ChannelService) ProfileByID(ctx context.Context, channelID, actorID string) (*model.ChannelProfile, error) {
	u, err := s.users.FindByID(ctx, channelID)
	if err != nil {
		return nil, err
	}
	return s.profile(ctx, u, actorID)
}

func (s *ChannelService) profile(ctx context.Context, u *model.User, actorID string) (*model.ChannelProfile, error) {
	p := &model.ChannelProfile{User: *u}
	p.Email = ""

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := s.reactions.Count(gctx, reaction.SubjectChannel, u.ID, reaction.KindSubscribed)
		p.SubscribersCount = n
		return err
	})
	g.Go(func() error {
		page, err := s.reactions.ListForActorKind(gctx, u.ID, reaction.SubjectChannel, reaction.KindSubscribed, 1, 1)
		if err != nil {
			return err
		}
		p.ChannelsSubscribedToCount = page.Total
		return nil
	})
	if actorID != "" && actorID != u.ID {
		g.Go(func() error {
			st, err := s.reactions.Status(gctx, reaction.SubjectChannel, u.ID, actorID)
			if err != nil {
				return err
			}
			p.IsSubscribed = st.Has(reaction.KindSubscribed)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return p, nil
}
