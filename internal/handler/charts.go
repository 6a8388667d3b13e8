package handler

import (
	"slices"

	"github.com/gofiber/fiber/v3"

	"github.com/krishnakireeti-2k7/youtube-analytics-tool/internal/middleware"
	"github.com/krishnakireeti-2k7/youtube-analytics-tool/internal/service"
)

type ChartHandler struct {
	svc *service.AnalyticsService
}

func NewChartHandler(svc *service.AnalyticsService) *ChartHandler {
	return &ChartHandler{svc: svc}
}

// Chart handles GET /api/channels/:channelId/charts/:kind?scope=
// Serves a single chart as PNG.
func (h *ChartHandler) Chart(c fiber.Ctx) error {
	channelID, errMsg := middleware.ValidateChannelID(c.Params("channelId"))
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, middleware.CodeInvalidParam, errMsg)
	}
	kind, errMsg := middleware.ValidateChartKind(c.Params("kind"))
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, middleware.CodeInvalidParam, errMsg)
	}
	if !slices.Contains(service.ChartKinds, kind) {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, middleware.CodeInvalidParam, "Unknown chart kind")
	}
	scope, errMsg := middleware.ValidateScope(c.Query("scope"))
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, middleware.CodeInvalidParam, errMsg)
	}

	charts, err := h.svc.RenderCharts(c.Context(), channelID, scope)
	if err != nil {
		return serviceError(c, err, "render chart")
	}

	png, ok := charts[kind]
	if !ok {
		return middleware.ErrorResponse(c, fiber.StatusNotFound, middleware.CodeNotFound, "No uploads in selected scope")
	}

	c.Set(fiber.HeaderContentType, "image/png")
	c.Set(fiber.HeaderCacheControl, "public, max-age=300")
	return c.Send(png)
}
