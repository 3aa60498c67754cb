package handler

import (
	"github.com/gofiber/fiber/v3"

	"github.com/mathieu-neron/vixtube/internal/middleware"
	"github.com/mathieu-neron/vixtube/internal/service"
)

// UserHandler serves accounts, watch history, platform stats and search.
type UserHandler struct {
	svc     *service.UserService
	history *service.HistoryService
}

func NewUserHandler(svc *service.UserService, history *service.HistoryService) *UserHandler {
	return &UserHandler{svc: svc, history: history}
}

// Me handles GET /users/me
func (h *UserHandler) Me(c fiber.Ctx) error {
	u, err := h.svc.Me(c.Context(), middleware.ActorID(c))
	if err != nil {
		return middleware.AppError(c, err)
	}
	return middleware.Success(c, fiber.StatusOK, u, "Current user fetched successfully")
}

// GetByID handles GET /users/:userId
func (h *UserHandler) GetByID(c fiber.Ctx) error {
	userID, err := middleware.ValidateUUID(c.Params("userId"), "userId")
	if err != nil {
		return middleware.AppError(c, err)
	}
	u, err := h.svc.Get(c.Context(), userID)
	if err != nil {
		return middleware.AppError(c, err)
	}
	return middleware.Success(c, fiber.StatusOK, u, "User fetched successfully")
}

// AddToWatchHistory handles POST /users/watch-history/:videoId
func (h *UserHandler) AddToWatchHistory(c fiber.Ctx) error {
	videoID, err := middleware.ValidateUUID(c.Params("videoId"), "videoId")
	if err != nil {
		return middleware.AppError(c, err)
	}
	if err := h.history.Add(c.Context(), middleware.ActorID(c), videoID); err != nil {
		return middleware.AppError(c, err)
	}
	return middleware.Success(c, fiber.StatusOK, fiber.Map{}, "Video added to watch history")
}

// WatchHistory handles GET /users/watch-history
func (h *UserHandler) WatchHistory(c fiber.Ctx) error {
	page, limit := middleware.ParsePage(c)
	res, err := h.history.List(c.Context(), middleware.ActorID(c), page, limit)
	if err != nil {
		return middleware.AppError(c, err)
	}
	return middleware.Success(c, fiber.StatusOK, res, "Watch history fetched successfully")
}

// Stats handles GET /stats
func (h *UserHandler) Stats(c fiber.Ctx) error {
	stats, err := h.svc.GetStats(c.Context())
	if err != nil {
		return middleware.AppError(c, err)
	}
	return middleware.Success(c, fiber.StatusOK, stats, "Stats fetched successfully")
}

// Search handles GET /search?q=&type=
func (h *UserHandler) Search(c fiber.Ctx) error {
	res, err := h.svc.Search(c.Context(), fiber.Query[string](c, "q"), fiber.Query[string](c, "type"))
	if err != nil {
		return middleware.AppError(c, err)
	}
	return middleware.Success(c, fiber.StatusOK, res, "Search results fetched successfully")
}
