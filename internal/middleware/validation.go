package middleware

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/gofiber/fiber/v3"
)

// Error codes used in API error envelopes.
const (
	CodeMissingParam  = "MISSING_PARAM"
	CodeInvalidParam  = "INVALID_PARAM"
	CodeNotFound      = "NOT_FOUND"
	CodeUpstreamError = "UPSTREAM_ERROR"
	CodeRateLimited   = "RATE_LIMITED"
	CodeInternalError = "INTERNAL_ERROR"
)

// Input limits.
const (
	MaxChannelQueryLen = 100 // runes
	MaxChannelIDLen    = 64
	MaxScopeLen        = 16
)

var (
	// channelIDRe matches YouTube channel IDs: alphanumeric, dash, underscore.
	channelIDRe = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)
	// chartKindRe matches chart kind names.
	chartKindRe = regexp.MustCompile(`^[a-z_]+$`)
)

// ErrorResponse is a helper that returns a standard API error response.
func ErrorResponse(c fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"error": fiber.Map{
			"code":    code,
			"message": message,
		},
	})
}

// ValidateChannelQuery checks a free-text channel query.
func ValidateChannelQuery(q string) (string, string) {
	q = strings.TrimSpace(q)
	if q == "" {
		return "", "channel is required"
	}
	if utf8.RuneCountInString(q) > MaxChannelQueryLen {
		return "", "channel must be at most 100 characters"
	}
	return q, ""
}

// ValidateChannelID checks that a channel ID is well-formed.
func ValidateChannelID(id string) (string, string) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", "channelId is required"
	}
	if len(id) > MaxChannelIDLen {
		return "", "channelId must be at most 64 characters"
	}
	if !channelIDRe.MatchString(id) {
		return "", "channelId contains invalid characters"
	}
	return id, ""
}

// ValidateScope bounds the raw scope token. Unrecognized tokens are not an
// error here: they resolve to lifetime downstream.
func ValidateScope(scope string) (string, string) {
	scope = strings.TrimSpace(scope)
	if len(scope) > MaxScopeLen {
		return "", "scope must be at most 16 characters"
	}
	return scope, ""
}

// ValidateChartKind checks the chart kind path segment.
func ValidateChartKind(kind string) (string, string) {
	kind = strings.TrimSpace(strings.ToLower(kind))
	if kind == "" {
		return "", "kind is required"
	}
	if !chartKindRe.MatchString(kind) {
		return "", "kind contains invalid characters"
	}
	return kind, ""
}

// ValidateLimit clamps a list limit to [1, max], using def when unset.
func ValidateLimit(limit, def, max int) int {
	if limit <= 0 {
		return def
	}
	if limit > max {
		return max
	}
	return limit
}
