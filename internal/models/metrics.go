package models

import "time"

// SystemMetrics represents process level counters captured from instrumentation.
type SystemMetrics struct {
	CacheHitRatio            float64   `json:"cacheHitRatio"`
	CacheHits                uint64    `json:"cacheHits"`
	CacheMisses              uint64    `json:"cacheMisses"`
	RequestsTotal            uint64    `json:"requestsTotal"`
	AverageRequestDurationMs float64   `json:"averageRequestDurationMs"`
	ApplicationsCreated      uint64    `json:"applicationsCreated"`
	ApplicationsSubmitted    uint64    `json:"applicationsSubmitted"`
	AttachmentDeleteFailures uint64    `json:"attachmentDeleteFailures"`
	Goroutines               int       `json:"goroutines"`
	GeneratedAt              time.Time `json:"generatedAt"`
}
