package handler

import (
	"github.com/gofiber/fiber/v3"

	"github.com/mathieu-neron/vixtube/internal/middleware"
	"github.com/mathieu-neron/vixtube/internal/model"
	"github.com/mathieu-neron/vixtube/internal/service"
)

type VideoHandler struct {
	svc *service.VideoService
}

func NewVideoHandler(svc *service.VideoService) *VideoHandler {
	return &VideoHandler{svc: svc}
}

func videoQuery(c fiber.Ctx) model.VideoQuery {
	page, limit := middleware.ParsePage(c)
	return model.VideoQuery{
		Query:    fiber.Query[string](c, "query"),
		SortBy:   fiber.Query[string](c, "sortBy"),
		SortType: fiber.Query[string](c, "sortType"),
		OwnerID:  fiber.Query[string](c, "userId"),
		Page:     page,
		Limit:    limit,
	}
}

// List handles GET /videos
func (h *VideoHandler) List(c fiber.Ctx) error {
	res, err := h.svc.List(c.Context(), videoQuery(c))
	if err != nil {
		return middleware.AppError(c, err)
	}
	return middleware.Success(c, fiber.StatusOK, res, "Videos fetched successfully")
}

// ListMine handles GET /videos/mine
func (h *VideoHandler) ListMine(c fiber.Ctx) error {
	res, err := h.svc.ListMine(c.Context(), middleware.ActorID(c), videoQuery(c))
	if err != nil {
		return middleware.AppError(c, err)
	}
	return middleware.Success(c, fiber.StatusOK, res, "Videos fetched successfully")
}

// Publish handles POST /videos
func (h *VideoHandler) Publish(c fiber.Ctx) error {
	var req model.PublishVideoRequest
	if err := middleware.BindJSON(c, &req); err != nil {
		return middleware.AppError(c, err)
	}
	v, err := h.svc.Publish(c.Context(), middleware.ActorID(c), req)
	if err != nil {
		return middleware.AppError(c, err)
	}
	return middleware.Success(c, fiber.StatusCreated, v, "Video published successfully")
}

// Get handles GET /videos/:videoId
func (h *VideoHandler) Get(c fiber.Ctx) error {
	videoID, err := middleware.ValidateUUID(c.Params("videoId"), "videoId")
	if err != nil {
		return middleware.AppError(c, err)
	}
	v, err := h.svc.Get(c.Context(), videoID, middleware.ActorID(c))
	if err != nil {
		return middleware.AppError(c, err)
	}
	return middleware.Success(c, fiber.StatusOK, v, "Video fetched successfully")
}

// Update handles PATCH /videos/:videoId
func (h *VideoHandler) Update(c fiber.Ctx) error {
	videoID, err := middleware.ValidateUUID(c.Params("videoId"), "videoId")
	if err != nil {
		return middleware.AppError(c, err)
	}
	var req model.UpdateVideoRequest
	if err := middleware.BindJSON(c, &req); err != nil {
		return middleware.AppError(c, err)
	}
	v, err := h.svc.Update(c.Context(), videoID, middleware.ActorID(c), req)
	if err != nil {
		return middleware.AppError(c, err)
	}
	return middleware.Success(c, fiber.StatusOK, v, "Video updated successfully")
}

// Delete handles DELETE /videos/:videoId
func (h *VideoHandler) Delete(c fiber.Ctx) error {
	videoID, err := middleware.ValidateUUID(c.Params("videoId"), "videoId")
	if err != nil {
		return middleware.AppError(c, err)
	}
	if err := h.svc.Delete(c.Context(), videoID, middleware.ActorID(c)); err != nil {
		return middleware.AppError(c, err)
	}
	return middleware.Success(c, fiber.StatusOK, fiber.Map{}, "Video deleted successfully")
}

// TogglePublish handles PATCH /videos/toggle/publish/:videoId
func (h *VideoHandler) TogglePublish(c fiber.Ctx) error {
	videoID, err := middleware.ValidateUUID(c.Params("videoId"), "videoId")
	if err != nil {
		return middleware.AppError(c, err)
	}
	published, err := h.svc.TogglePublish(c.Context(), videoID, middleware.ActorID(c))
	if err != nil {
		return middleware.AppError(c, err)
	}
	return middleware.Success(c, fiber.StatusOK, fiber.Map{"isPublished": published}, "Publish status toggled successfully")
}
