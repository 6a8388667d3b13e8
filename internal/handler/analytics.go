package handler

import (
	"github.com/gofiber/fiber/v3"

	"github.com/krishnakireeti-2k7/youtube-analytics-tool/internal/middleware"
	"github.com/krishnakireeti-2k7/youtube-analytics-tool/internal/model"
	"github.com/krishnakireeti-2k7/youtube-analytics-tool/internal/service"
)

type AnalyticsHandler struct {
	svc *service.AnalyticsService
}

func NewAnalyticsHandler(svc *service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{svc: svc}
}

// Analyze handles GET /analytics?channel=&scope=&auto_select=&include_charts=
func (h *AnalyticsHandler) Analyze(c fiber.Ctx) error {
	raw := c.Query("channel")
	if raw == "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, middleware.CodeMissingParam, "channel is required")
	}
	query, errMsg := middleware.ValidateChannelQuery(raw)
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, middleware.CodeInvalidParam, errMsg)
	}
	scope, errMsg := middleware.ValidateScope(c.Query("scope"))
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, middleware.CodeInvalidParam, errMsg)
	}

	resp, err := h.svc.AnalyzeQuery(c.Context(), service.AnalyzeRequest{
		Query:         query,
		Scope:         scope,
		AutoSelect:    fiber.Query[bool](c, "auto_select", true),
		IncludeCharts: fiber.Query[bool](c, "include_charts", false),
	})
	if err != nil {
		return serviceError(c, err, "analyze channel")
	}

	observeAnalysis(resp)
	return c.JSON(resp)
}

// AnalyzeChannel handles GET /api/channels/:channelId/analytics
func (h *AnalyticsHandler) AnalyzeChannel(c fiber.Ctx) error {
	channelID, errMsg := middleware.ValidateChannelID(c.Params("channelId"))
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, middleware.CodeInvalidParam, errMsg)
	}
	scope, errMsg := middleware.ValidateScope(c.Query("scope"))
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, middleware.CodeInvalidParam, errMsg)
	}

	resp, err := h.svc.AnalyzeChannel(c.Context(), channelID, scope, fiber.Query[bool](c, "include_charts", false))
	if err != nil {
		return serviceError(c, err, "analyze channel")
	}

	observeAnalysis(resp)
	return c.JSON(resp)
}

func observeAnalysis(resp *model.AnalyticsResponse) {
	if Metrics.AnalysesTotal == nil {
		return
	}
	outcome := "ambiguous"
	if resp.Analytics != nil {
		outcome = string(resp.Analytics.Outcome)
	}
	Metrics.AnalysesTotal.WithLabelValues(outcome).Inc()
}
