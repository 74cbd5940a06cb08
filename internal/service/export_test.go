package service

import "time"

// Export for testing
var NewAPIKey = newAPIKey

const (
	KeyDefaultAction      = keyDefaultAction
	KeyEnableAnalytics    = keyEnableAnalytics
	FallbackDefaultAction = fallbackDefaultAction
)

// SetClientClock replaces the clock used by a ClientService built with
// NewClientService.
func SetClientClock(svc ClientService, now func() time.Time) {
	svc.(*clientService).now = now
}
