package models

import "time"

// SystemMetrics is a lightweight snapshot of the process instrumentation.
type SystemMetrics struct {
	CacheHitRatio            float64   `json:"cache_hit_ratio"`
	CacheHits                uint64    `json:"cache_hits"`
	CacheMisses              uint64    `json:"cache_misses"`
	RequestsTotal            uint64    `json:"requests_total"`
	AverageRequestDurationMs float64   `json:"avg_request_duration_ms"`
	BookingsCreated          uint64    `json:"bookings_created"`
	ReviewsCreated           uint64    `json:"reviews_created"`
	Goroutines               int       `json:"goroutines"`
	GeneratedAt              time.Time `json:"generated_at"`
}

// DashboardStats summarises the marketplace for the admin console.
type DashboardStats struct {
	Users            int            `json:"users"`
	Coaches          int            `json:"coaches"`
	Lessons          int            `json:"lessons"`
	Bookings         int            `json:"bookings"`
	BookingsByStatus map[string]int `json:"bookings_by_status"`
	Reviews          int            `json:"reviews"`
	OpenInquiries    int            `json:"open_inquiries"`
	System           SystemMetrics  `json:"system"`
}
