package handler

import (
	"github.com/gofiber/fiber/v3"

	"github.com/mathieu-neron/vixtube/internal/middleware"
	"github.com/mathieu-neron/vixtube/internal/model"
	"github.com/mathieu-neron/vixtube/internal/service"
)

type PlaylistHandler struct {
	svc *service.PlaylistService
}

func NewPlaylistHandler(svc *service.PlaylistService) *PlaylistHandler {
	return &PlaylistHandler{svc: svc}
}

// Create handles POST /playlists
func (h *PlaylistHandler) Create(c fiber.Ctx) error {
	var req model.PlaylistRequest
	if err := middleware.BindJSON(c, &req); err != nil {
		return middleware.AppError(c, err)
	}
	p, err := h.svc.Create(c.Context(), middleware.ActorID(c), req)
	if err != nil {
		return middleware.AppError(c, err)
	}
	return middleware.Success(c, fiber.StatusCreated, p, "Playlist created successfully")
}

// ListByUser handles GET /playlists/user/:userId
func (h *PlaylistHandler) ListByUser(c fiber.Ctx) error {
	res, err := h.svc.ListByUser(c.Context(), c.Params("userId"))
	if err != nil {
		return middleware.AppError(c, err)
	}
	return middleware.Success(c, fiber.StatusOK, res, "User playlists fetched successfully")
}

// Get handles GET /playlists/:playlistId
func (h *PlaylistHandler) Get(c fiber.Ctx) error {
	playlistID, err := middleware.ValidateUUID(c.Params("playlistId"), "playlistId")
	if err != nil {
		return middleware.AppError(c, err)
	}
	p, err := h.svc.Get(c.Context(), playlistID)
	if err != nil {
		return middleware.AppError(c, err)
	}
	return middleware.Success(c, fiber.StatusOK, p, "Playlist fetched successfully")
}

// AddVideo handles PATCH /playlists/add/:videoId/:playlistId
func (h *PlaylistHandler) AddVideo(c fiber.Ctx) error {
	playlistID, videoID, err := playlistVideoParams(c)
	if err != nil {
		return middleware.AppError(c, err)
	}
	p, err := h.svc.AddVideo(c.Context(), playlistID, videoID, middleware.ActorID(c))
	if err != nil {
		return middleware.AppError(c, err)
	}
	return middleware.Success(c, fiber.StatusOK, p, "Video added to playlist successfully")
}

// RemoveVideo handles PATCH /playlists/remove/:videoId/:playlistId
func (h *PlaylistHandler) RemoveVideo(c fiber.Ctx) error {
	playlistID, videoID, err := playlistVideoParams(c)
	if err != nil {
		return middleware.AppError(c, err)
	}
	p, err := h.svc.RemoveVideo(c.Context(), playlistID, videoID, middleware.ActorID(c))
	if err != nil {
		return middleware.AppError(c, err)
	}
	return middleware.Success(c, fiber.StatusOK, p, "Video removed from playlist successfully")
}

func playlistVideoParams(c fiber.Ctx) (playlistID, videoID string, err error) {
	if playlistID, err = middleware.ValidateUUID(c.Params("playlistId"), "playlistId"); err != nil {
		return "", "", err
	}
	if videoID, err = middleware.ValidateUUID(c.Params("videoId"), "videoId"); err != nil {
		return "", "", err
	}
	return playlistID, videoID, nil
}

// Update handles PATCH /playlists/:playlistId
func (h *PlaylistHandler) Update(c fiber.Ctx) error {
	playlistID, err := middleware.ValidateUUID(c.Params("playlistId"), "playlistId")
	if err != nil {
		return middleware.AppError(c, err)
	}
	var req model.PlaylistUpdateRequest
	if err := middleware.BindJSON(c, &req); err != nil {
		return middleware.AppError(c, err)
	}
	p, err := h.svc.Update(c.Context(), playlistID, middleware.ActorID(c), req)
	if err != nil {
		return middleware.AppError(c, err)
	}
	return middleware.Success(c, fiber.StatusOK, p, "Playlist updated successfully")
}

// Delete handles DELETE /playlists/:playlistId
func (h *PlaylistHandler) Delete(c fiber.Ctx) error {
	playlistID, err := middleware.ValidateUUID(c.Params("playlistId"), "playlistId")
	if err != nil {
		return middleware.AppError(c, err)
	}
	if err := h.svc.Delete(c.Context(), playlistID, middleware.ActorID(c)); err != nil {
		return middleware.AppError(c, err)
	}
	return middleware.Success(c, fiber.StatusOK, fiber.Map{}, "Playlist deleted successfully")
}
