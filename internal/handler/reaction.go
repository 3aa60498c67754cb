package handler

import (
	"fmt"

	"github.com/gofiber/fiber/v3"

	"github.com/mathieu-neron/vixtube/internal/middleware"
	"github.com/mathieu-neron/vixtube/internal/reaction"
	"github.com/mathieu-neron/vixtube/internal/service"
)

// ReactionHandler exposes the reaction ledger: likes, dislikes,
// subscriptions and saved videos.
type ReactionHandler struct {
	svc *service.ReactionService
}

func NewReactionHandler(svc *service.ReactionService) *ReactionHandler {
	return &ReactionHandler{svc: svc}
}

type toggleResponse struct {
	*reaction.ToggleResult
	Count int64 `json:"count"`
}

// ToggleVideoLike handles POST /likes/toggle/v/:videoId
func (h *ReactionHandler) ToggleVideoLike(c fiber.Ctx) error {
	return h.toggle(c, reaction.SubjectVideo, "videoId", reaction.KindLike)
}

// ToggleVideoDislike handles POST /likes/toggle/v/:videoId/dislike
func (h *ReactionHandler) ToggleVideoDislike(c fiber.Ctx) error {
	return h.toggle(c, reaction.SubjectVideo, "videoId", reaction.KindDislike)
}

// ToggleCommentLike handles POST /likes/toggle/c/:commentId
func (h *ReactionHandler) ToggleCommentLike(c fiber.Ctx) error {
	return h.toggle(c, reaction.SubjectComment, "commentId", reaction.KindLike)
}

// ToggleTweetLike handles POST /likes/toggle/t/:tweetId
func (h *ReactionHandler) ToggleTweetLike(c fiber.Ctx) error {
	return h.toggle(c, reaction.SubjectTweet, "tweetId", reaction.KindLike)
}

// ToggleSubscription handles POST /subscriptions/c/:channelId
func (h *ReactionHandler) ToggleSubscription(c fiber.Ctx) error {
	return h.toggle(c, reaction.SubjectChannel, "channelId", reaction.KindSubscribed)
}

// ToggleSaved handles POST /users/save/:videoId
func (h *ReactionHandler) ToggleSaved(c fiber.Ctx) error {
	return h.toggle(c, reaction.SubjectVideo, "videoId", reaction.KindSaved)
}

// Toggle handles POST /reactions/:subjectType/:subjectId/:kind
func (h *ReactionHandler) Toggle(c fiber.Ctx) error {
	t, err := reaction.ParseSubjectType(c.Params("subjectType"))
	if err != nil {
		return middleware.AppError(c, err)
	}
	kind, err := reaction.ParseKind(t, c.Params("kind"))
	if err != nil {
		return middleware.AppError(c, err)
	}
	return h.toggle(c, t, "subjectId", kind)
}

func (h *ReactionHandler) toggle(c fiber.Ctx, t reaction.SubjectType, param string, kind reaction.Kind) error {
	subjectID, err := middleware.ValidateUUID(c.Params(param), param)
	if err != nil {
		return middleware.AppError(c, err)
	}
	res, err := h.svc.Toggle(c.Context(), t, subjectID, middleware.ActorID(c), kind)
	if err != nil {
		return middleware.AppError(c, err)
	}
	n, err := h.svc.Count(c.Context(), t, subjectID, kind)
	if err != nil {
		return middleware.AppError(c, err)
	}
	return middleware.Success(c, fiber.StatusOK, toggleResponse{ToggleResult: res, Count: n}, toggleMessage(t, kind, res.Active))
}

func toggleMessage(t reaction.SubjectType, kind reaction.Kind, active bool) string {
	switch kind {
	case reaction.KindSubscribed:
		if active {
			return "Subscribed successfully"
		}
		return "Unsubscribed successfully"
	case reaction.KindSaved:
		if active {
			return "Video saved"
		}
		return "Video removed from saved"
	case reaction.KindDislike:
		if active {
			return "Video disliked"
		}
		return "Dislike removed"
	}
	noun := subjectNouns[t]
	if active {
		return fmt.Sprintf("%s liked", noun)
	}
	return fmt.Sprintf("%s unliked", noun)
}

var subjectNouns = map[reaction.SubjectType]string{
	reaction.SubjectVideo:   "Video",
	reaction.SubjectComment: "Comment",
	reaction.SubjectTweet:   "Tweet",
	reaction.SubjectChannel: "Channel",
}

// LikedVideos handles GET /likes/videos
func (h *ReactionHandler) LikedVideos(c fiber.Ctx) error {
	return h.listMine(c, reaction.SubjectVideo, reaction.KindLike, "Liked videos fetched successfully")
}

// SavedVideos handles GET /users/saved-videos
func (h *ReactionHandler) SavedVideos(c fiber.Ctx) error {
	return h.listMine(c, reaction.SubjectVideo, reaction.KindSaved, "Saved videos fetched successfully")
}

func (h *ReactionHandler) listMine(c fiber.Ctx, t reaction.SubjectType, kind reaction.Kind, msg string) error {
	page, limit := middleware.ParsePage(c)
	res, err := h.svc.ListForActorKind(c.Context(), middleware.ActorID(c), t, kind, page, limit)
	if err != nil {
		return middleware.AppError(c, err)
	}
	return middleware.Success(c, fiber.StatusOK, res, msg)
}

// SubscribedChannels handles GET /subscriptions/u/:subscriberId
func (h *ReactionHandler) SubscribedChannels(c fiber.Ctx) error {
	subscriberID, err := middleware.ValidateUUID(c.Params("subscriberId"), "subscriberId")
	if err != nil {
		return middleware.AppError(c, err)
	}
	page, limit := middleware.ParsePage(c)
	res, err := h.svc.ListForActorKind(c.Context(), subscriberID, reaction.SubjectChannel, reaction.KindSubscribed, page, limit)
	if err != nil {
		return middleware.AppError(c, err)
	}
	return middleware.Success(c, fiber.StatusOK, res, "Subscribed channels fetched successfully")
}

// SubscriberCount handles GET /subscriptions/c/:channelId/count
func (h *ReactionHandler) SubscriberCount(c fiber.Ctx) error {
	channelID, err := middleware.ValidateUUID(c.Params("channelId"), "channelId")
	if err != nil {
		return middleware.AppError(c, err)
	}
	n, err := h.svc.Count(c.Context(), reaction.SubjectChannel, channelID, reaction.KindSubscribed)
	if err != nil {
		return middleware.AppError(c, err)
	}
	return middleware.Success(c, fiber.StatusOK, fiber.Map{"channelId": channelID, "subscribersCount": n},
		"Subscriber count fetched successfully")
}

// VideoLikeStatus handles GET /likes/status/v/:videoId
func (h *ReactionHandler) VideoLikeStatus(c fiber.Ctx) error {
	videoID, err := middleware.ValidateUUID(c.Params("videoId"), "videoId")
	if err != nil {
		return middleware.AppError(c, err)
	}
	st, err := h.svc.Status(c.Context(), reaction.SubjectVideo, videoID, middleware.ActorID(c))
	if err != nil {
		return middleware.AppError(c, err)
	}
	return middleware.Success(c, fiber.StatusOK, fiber.Map{
		"state":      st.State(),
		"isLiked":    st.Has(reaction.KindLike),
		"isDisliked": st.Has(reaction.KindDislike),
	}, "Like status fetched successfully")
}

// SavedStatus handles GET /users/saved/check/:videoId
func (h *ReactionHandler) SavedStatus(c fiber.Ctx) error {
	videoID, err := middleware.ValidateUUID(c.Params("videoId"), "videoId")
	if err != nil {
		return middleware.AppError(c, err)
	}
	st, err := h.svc.Status(c.Context(), reaction.SubjectVideo, videoID, middleware.ActorID(c))
	if err != nil {
		return middleware.AppError(c, err)
	}
	return middleware.Success(c, fiber.StatusOK, fiber.Map{"isSaved": st.Has(reaction.KindSaved)}, "Saved status fetched successfully")
}

// Mine handles GET /reactions/:subjectType/mine?kind=
func (h *ReactionHandler) Mine(c fiber.Ctx) error {
	t, err := reaction.ParseSubjectType(c.Params("subjectType"))
	if err != nil {
		return middleware.AppError(c, err)
	}
	page, limit := middleware.ParsePage(c)

	var res *reaction.Page
	if rawKind := fiber.Query[string](c, "kind"); rawKind != "" {
		var kind reaction.Kind
		if kind, err = reaction.ParseKind(t, rawKind); err != nil {
			return middleware.AppError(c, err)
		}
		res, err = h.svc.ListForActorKind(c.Context(), middleware.ActorID(c), t, kind, page, limit)
	} else {
		res, err = h.svc.ListForActor(c.Context(), middleware.ActorID(c), t, page, limit)
	}
	if err != nil {
		return middleware.AppError(c, err)
	}
	return middleware.Success(c, fiber.StatusOK, res, "Reactions fetched successfully")
}

// Status handles GET /reactions/:subjectType/:subjectId/status
func (h *ReactionHandler) Status(c fiber.Ctx) error {
	t, err := reaction.ParseSubjectType(c.Params("subjectType"))
	if err != nil {
		return middleware.AppError(c, err)
	}
	subjectID, err := middleware.ValidateUUID(c.Params("subjectId"), "subjectId")
	if err != nil {
		return middleware.AppError(c, err)
	}
	st, err := h.svc.Status(c.Context(), t, subjectID, middleware.ActorID(c))
	if err != nil {
		return middleware.AppError(c, err)
	}
	return middleware.Success(c, fiber.StatusOK, st, "Reaction status fetched successfully")
}

// Count handles GET /reactions/:subjectType/:subjectId/count?kind=
func (h *ReactionHandler) Count(c fiber.Ctx) error {
	t, err := reaction.ParseSubjectType(c.Params("subjectType"))
	if err != nil {
		return middleware.AppError(c, err)
	}
	subjectID, err := middleware.ValidateUUID(c.Params("subjectId"), "subjectId")
	if err != nil {
		return middleware.AppError(c, err)
	}
	rawKind := fiber.Query[string](c, "kind")
	if rawKind == "" {
		rawKind = string(t.Kinds()[0])
	}
	kind, err := reaction.ParseKind(t, rawKind)
	if err != nil {
		return middleware.AppError(c, err)
	}
	n, err := h.svc.Count(c.Context(), t, subjectID, kind)
	if err != nil {
		return middleware.AppError(c, err)
	}
	return middleware.Success(c, fiber.StatusOK, fiber.Map{
		"subjectType": t,
		"subjectId":   subjectID,
		"kind":        kind,
		"count":       n,
	}, "Count fetched successfully")
}
