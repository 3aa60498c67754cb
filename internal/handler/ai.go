package handler

import (
	"github.com/gofiber/fiber/v3"

	"github.com/mathieu-neron/vixtube/internal/middleware"
	"github.com/mathieu-neron/vixtube/internal/model"
	"github.com/mathieu-neron/vixtube/internal/service"
)

type AIHandler struct {
	svc *service.AIService
}

func NewAIHandler(svc *service.AIService) *AIHandler {
	return &AIHandler{svc: svc}
}

// Chat handles POST /ai/chat
func (h *AIHandler) Chat(c fiber.Ctx) error {
	var req model.ChatRequest
	if err := middleware.BindJSON(c, &req); err != nil {
		return middleware.AppError(c, err)
	}
	return h.respond(c, func() (*model.AIReply, error) { return h.svc.Chat(c.Context(), req.Message) })
}

// VideoOverview handles POST /ai/video-overview
func (h *AIHandler) VideoOverview(c fiber.Ctx) error {
	var req model.VideoOverviewRequest
	if err := middleware.BindJSON(c, &req); err != nil {
		return middleware.AppError(c, err)
	}
	return h.respond(c, func() (*model.AIReply, error) { return h.svc.VideoOverview(c.Context(), req.VideoID) })
}

// Recommendations handles POST /ai/recommendations
func (h *AIHandler) Recommendations(c fiber.Ctx) error {
	var req model.RecommendationsRequest
	if err := middleware.BindJSON(c, &req); err != nil {
		return middleware.AppError(c, err)
	}
	return h.respond(c, func() (*model.AIReply, error) { return h.svc.Recommendations(c.Context(), req.Interests) })
}

// WriteTweet handles POST /ai/write-tweet
func (h *AIHandler) WriteTweet(c fiber.Ctx) error {
	var req model.WriteTweetRequest
	if err := middleware.BindJSON(c, &req); err != nil {
		return middleware.AppError(c, err)
	}
	return h.respond(c, func() (*model.AIReply, error) {
		return h.svc.WriteTweet(c.Context(), req.VideoTitle, req.Context)
	})
}

// ImproveTweet handles POST /ai/improve-tweet
func (h *AIHandler) ImproveTweet(c fiber.Ctx) error {
	var req model.ImproveTweetRequest
	if err := middleware.BindJSON(c, &req); err != nil {
		return middleware.AppError(c, err)
	}
	return h.respond(c, func() (*model.AIReply, error) { return h.svc.ImproveTweet(c.Context(), req.Tweet) })
}

// Titles handles POST /ai/titles
func (h *AIHandler) Titles(c fiber.Ctx) error {
	var req model.TitlesRequest
	if err := middleware.BindJSON(c, &req); err != nil {
		return middleware.AppError(c, err)
	}
	return h.respond(c, func() (*model.AIReply, error) { return h.svc.Titles(c.Context(), req.Topic) })
}

func (h *AIHandler) respond(c fiber.Ctx, fn func() (*model.AIReply, error)) error {
	reply, err := fn()
	if err != nil {
		return middleware.AppError(c, err)
	}
	return middleware.Success(c, fiber.StatusOK, reply, "AI response generated successfully")
}
