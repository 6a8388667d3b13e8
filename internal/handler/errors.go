package handler

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v3"
	"github.com/rs/zerolog/log"

	"github.com/krishnakireeti-2k7/youtube-analytics-tool/internal/middleware"
	"github.com/krishnakireeti-2k7/youtube-analytics-tool/internal/service"
	"github.com/krishnakireeti-2k7/youtube-analytics-tool/internal/youtube"
)

// serviceError maps analytics service errors onto the API error envelope.
func serviceError(c fiber.Ctx, err error, op string) error {
	switch {
	case errors.Is(err, service.ErrChannelNotFound):
		return middleware.ErrorResponse(c, fiber.StatusNotFound, middleware.CodeNotFound, "Channel not found")
	case errors.Is(err, youtube.ErrQuotaExceeded):
		log.Error().Err(err).Str("op", op).Msg("youtube quota exhausted")
		return middleware.ErrorResponse(c, fiber.StatusServiceUnavailable, middleware.CodeUpstreamError, "YouTube API quota exceeded, try again later")
	case errors.Is(err, service.ErrUpstream):
		log.Error().Err(err).Str("op", op).Msg("upstream failure")
		return middleware.ErrorResponse(c, fiber.StatusBadGateway, middleware.CodeUpstreamError, "Failed to reach YouTube")
	case errors.Is(err, context.DeadlineExceeded):
		return middleware.ErrorResponse(c, fiber.StatusGatewayTimeout, middleware.CodeUpstreamError, "Request timed out")
	default:
		log.Error().Err(err).Str("op", op).Msg("request failed")
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, middleware.CodeInternalError, "Failed to "+op)
	}
}
