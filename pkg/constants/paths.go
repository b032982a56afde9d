package constants

// Health and readiness paths (same shape across nextalk services).
const (
	PathHealth = "/health"
	PathReady  = "/ready"
)
