package models

// Health status constants
const (
	StatusHealthy  = "healthy"
	StatusDegraded = "degraded"
)

// Metadata represents generic metadata
type Metadata map[string]interface{}
