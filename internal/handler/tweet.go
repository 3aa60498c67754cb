package handler

import (
	"github.com/gofiber/fiber/v3"

	"github.com/mathieu-neron/vixtube/internal/middleware"
	"github.com/mathieu-neron/vixtube/internal/model"
	"github.com/mathieu-neron/vixtube/internal/service"
)

type TweetHandler struct {
	svc *service.TweetService
}

func NewTweetHandler(svc *service.TweetService) *TweetHandler {
	return &TweetHandler{svc: svc}
}

// Create handles POST /tweets
func (h *TweetHandler) Create(c fiber.Ctx) error {
	var req model.ContentRequest
	if err := middleware.BindJSON(c, &req); err != nil {
		return middleware.AppError(c, err)
	}
	t, err := h.svc.Create(c.Context(), middleware.ActorID(c), req.Content)
	if err != nil {
		return middleware.AppError(c, err)
	}
	return middleware.Success(c, fiber.StatusCreated, t, "Tweet created successfully")
}

// ListAll handles GET /tweets
func (h *TweetHandler) ListAll(c fiber.Ctx) error {
	page, limit := middleware.ParsePage(c)
	res, err := h.svc.ListAll(c.Context(), middleware.ActorID(c), page, limit)
	if err != nil {
		return middleware.AppError(c, err)
	}
	return middleware.Success(c, fiber.StatusOK, res, "Tweets fetched successfully")
}

// ListByUser handles GET /tweets/user/:userId
func (h *TweetHandler) ListByUser(c fiber.Ctx) error {
	page, limit := middleware.ParsePage(c)
	res, err := h.svc.ListByUser(c.Context(), c.Params("userId"), middleware.ActorID(c), page, limit)
	if err != nil {
		return middleware.AppError(c, err)
	}
	return middleware.Success(c, fiber.StatusOK, res, "User tweets fetched successfully")
}

// Update handles PATCH /tweets/:tweetId
func (h *TweetHandler) Update(c fiber.Ctx) error {
	tweetID, err := middleware.ValidateUUID(c.Params("tweetId"), "tweetId")
	if err != nil {
		return middleware.AppError(c, err)
	}
	var req model.ContentRequest
	if err := middleware.BindJSON(c, &req); err != nil {
		return middleware.AppError(c, err)
	}
	t, err := h.svc.Update(c.Context(), tweetID, middleware.ActorID(c), req.Content)
	if err != nil {
		return middleware.AppError(c, err)
	}
	return middleware.Success(c, fiber.StatusOK, t, "Tweet updated successfully")
}

// Delete handles DELETE /tweets/:tweetId
func (h *TweetHandler) Delete(c fiber.Ctx) error {
	tweetID, err := middleware.ValidateUUID(c.Params("tweetId"), "tweetId")
	if err != nil {
		return middleware.AppError(c, err)
	}
	if err := h.svc.Delete(c.Context(), tweetID, middleware.ActorID(c)); err != nil {
		return middleware.AppError(c, err)
	}
	return middleware.Success(c, fiber.StatusOK, fiber.Map{}, "Tweet deleted successfully")
}
