package handler

import (
	"strings"

	"github.com/gofiber/fiber/v3"

	"github.com/mathieu-neron/vixtube/internal/apperror"
	"github.com/mathieu-neron/vixtube/internal/middleware"
	"github.com/mathieu-neron/vixtube/internal/service"
)

type ChannelHandler struct {
	svc *service.ChannelService
}

func NewChannelHandler(svc *service.ChannelService) *ChannelHandler {
	return &ChannelHandler{svc: svc}
}

// GetByUsername handles GET /channels/:username
func (h *ChannelHandler) GetByUsername(c fiber.Ctx) error {
	username := strings.ToLower(strings.TrimSpace(c.Params("username")))
	if username == "" {
		return middleware.AppError(c, apperror.Invalid("username is required"))
	}
	p, err := h.svc.ProfileByUsername(c.Context(), username, middleware.ActorID(c))
	if err != nil {
		return middleware.AppError(c, err)
	}
	return middleware.Success(c, fiber.StatusOK, p, "Channel fetched successfully")
}

// GetByID handles GET /channels/id/:channelId
func (h *ChannelHandler) GetByID(c fiber.Ctx) error {
	channelID, err := middleware.ValidateUUID(c.Params("channelId"), "channelId")
	if err != nil {
		return middleware.AppError(c, err)
	}
	p, err := h.svc.ProfileByID(c.Context(), channelID, middleware.ActorID(c))
	if err != nil {
		return middleware.AppError(c, err)
	}
	return middleware.Success(c, fiber.StatusOK, p, "Channel fetched successfully")
}
