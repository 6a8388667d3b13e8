package handler

import (
	"github.com/gofiber/fiber/v3"

	"github.com/krishnakireeti-2k7/youtube-analytics-tool/internal/middleware"
	"github.com/krishnakireeti-2k7/youtube-analytics-tool/internal/model"
	"github.com/krishnakireeti-2k7/youtube-analytics-tool/internal/service"
)

type ChannelHandler struct {
	svc *service.AnalyticsService
}

func NewChannelHandler(svc *service.AnalyticsService) *ChannelHandler {
	return &ChannelHandler{svc: svc}
}

// Search handles GET /api/channels/search?q=
func (h *ChannelHandler) Search(c fiber.Ctx) error {
	raw := c.Query("q")
	if raw == "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, middleware.CodeMissingParam, "q is required")
	}
	query, errMsg := middleware.ValidateChannelQuery(raw)
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, middleware.CodeInvalidParam, errMsg)
	}

	candidates, err := h.svc.SearchChannels(c.Context(), query)
	if err != nil {
		return serviceError(c, err, "search channels")
	}

	return c.JSON(model.SearchResponse{Query: query, Candidates: candidates})
}

// History handles GET /api/channels/:channelId/history?limit=
func (h *ChannelHandler) History(c fiber.Ctx) error {
	channelID, errMsg := middleware.ValidateChannelID(c.Params("channelId"))
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, middleware.CodeInvalidParam, errMsg)
	}
	limit := middleware.ValidateLimit(fiber.Query[int](c, "limit", 0), service.DefaultHistoryLimit, service.MaxHistoryLimit)

	snapshots, err := h.svc.History(c.Context(), channelID, limit)
	if err != nil {
		return serviceError(c, err, "fetch history")
	}

	return c.JSON(model.HistoryResponse{ChannelID: channelID, Snapshots: snapshots})
}
