package handler

import "time"

// Export for testing
type HostResponse = hostResponse
type RuleResponse = ruleResponse
type UserResponse = userResponse
type AnalyticsResponse = analyticsResponse
type ClientConfigResponse = clientConfigResponse

var WriteServiceError = writeServiceError

// SetUserHandlerClock replaces the clock used for remember-me expiry.
func SetUserHandlerClock(h *UserHandler, now func() time.Time) {
	h.now = now
}
