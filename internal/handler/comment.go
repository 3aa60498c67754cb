package handler

import (
	"github.com/gofiber/fiber/v3"

	"github.com/mathieu-neron/vixtube/internal/middleware"
	"github.com/mathieu-neron/vixtube/internal/model"
	"github.com/mathieu-neron/vixtube/internal/service"
)

type CommentHandler struct {
	svc *service.CommentService
}

func NewCommentHandler(svc *service.CommentService) *CommentHandler {
	return &CommentHandler{svc: svc}
}

// ListForVideo handles GET /comments/:videoId
func (h *CommentHandler) ListForVideo(c fiber.Ctx) error {
	videoID, err := middleware.ValidateUUID(c.Params("videoId"), "videoId")
	if err != nil {
		return middleware.AppError(c, err)
	}
	page, limit := middleware.ParsePage(c)
	res, err := h.svc.ListForVideo(c.Context(), videoID, page, limit)
	if err != nil {
		return middleware.AppError(c, err)
	}
	return middleware.Success(c, fiber.StatusOK, res, "Comments fetched successfully")
}

// ListForTweet handles GET /comments/t/:tweetId
func (h *CommentHandler) ListForTweet(c fiber.Ctx) error {
	tweetID, err := middleware.ValidateUUID(c.Params("tweetId"), "tweetId")
	if err != nil {
		return middleware.AppError(c, err)
	}
	page, limit := middleware.ParsePage(c)
	res, err := h.svc.ListForTweet(c.Context(), tweetID, page, limit)
	if err != nil {
		return middleware.AppError(c, err)
	}
	return middleware.Success(c, fiber.StatusOK, res, "Comments fetched successfully")
}

// AddToVideo handles POST /comments/:videoId
func (h *CommentHandler) AddToVideo(c fiber.Ctx) error {
	videoID, err := middleware.ValidateUUID(c.Params("videoId"), "videoId")
	if err != nil {
		return middleware.AppError(c, err)
	}
	var req model.ContentRequest
	if err := middleware.BindJSON(c, &req); err != nil {
		return middleware.AppError(c, err)
	}
	cm, err := h.svc.AddToVideo(c.Context(), videoID, middleware.ActorID(c), req.Content)
	if err != nil {
		return middleware.AppError(c, err)
	}
	return middleware.Success(c, fiber.StatusCreated, cm, "Comment added successfully")
}

// AddToTweet handles POST /comments/t/:tweetId
func (h *CommentHandler) AddToTweet(c fiber.Ctx) error {
	tweetID, err := middleware.ValidateUUID(c.Params("tweetId"), "tweetId")
	if err != nil {
		return middleware.AppError(c, err)
	}
	var req model.ContentRequest
	if err := middleware.BindJSON(c, &req); err != nil {
		return middleware.AppError(c, err)
	}
	cm, err := h.svc.AddToTweet(c.Context(), tweetID, middleware.ActorID(c), req.Content)
	if err != nil {
		return middleware.AppError(c, err)
	}
	return middleware.Success(c, fiber.StatusCreated, cm, "Comment added successfully")
}

// Update handles PATCH /comments/c/:commentId
func (h *CommentHandler) Update(c fiber.Ctx) error {
	commentID, err := middleware.ValidateUUID(c.Params("commentId"), "commentId")
	if err != nil {
		return middleware.AppError(c, err)
	}
	var req model.ContentRequest
	if err := middleware.BindJSON(c, &req); err != nil {
		return middleware.AppError(c, err)
	}
	cm, err := h.svc.Update(c.Context(), commentID, middleware.ActorID(c), req.Content)
	if err != nil {
		return middleware.AppError(c, err)
	}
	return middleware.Success(c, fiber.StatusOK, cm, "Comment updated successfully")
}

// Delete handles DELETE /comments/c/:commentId
func (h *CommentHandler) Delete(c fiber.Ctx) error {
	commentID, err := middleware.ValidateUUID(c.Params("commentId"), "commentId")
	if err != nil {
		return middleware.AppError(c, err)
	}
	if err := h.svc.Delete(c.Context(), commentID, middleware.ActorID(c)); err != nil {
		return middleware.AppError(c, err)
	}
	return middleware.Success(c, fiber.StatusOK, fiber.Map{}, "Comment deleted successfully")
}
