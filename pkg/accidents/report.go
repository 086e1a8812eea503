package accidents

import (
	"time"
)

const (
	// reports expire 2 hours after creation. process-wide constant, not user settable.
	ReportTTL = 2 * time.Hour

	verifyUpvoteThreshold   = 3
	removeDownvoteThreshold = 5
)

type Severity string

const (
	SeverityMinor    Severity = "minor"
	SeverityModerate Severity = "moderate"
	SeveritySevere   Severity = "severe"
	SeverityFatal    Severity = "fatal"
)

// severityWeight maps a severity to its risk weight. unrecognized severities are
// stored as-is but weighted with the 1.10 default downstream.
func severityWeight(s Severity) float64 {
	switch s {
	case SeverityMinor:
		return 1.05
	case SeverityModerate:
		return 1.15
	case SeveritySevere:
		return 1.30
	case SeverityFatal:
		return 1.50
	default:
		return 1.10
	}
}

type Report struct {
	ID          string    `json:"id"`
	Timestamp   time.Time `json:"timestamp"`
	Lat         float64   `json:"latitude"`
	Lon         float64   `json:"longitude"`
	Severity    Severity  `json:"severity"`
	Description string    `json:"description"`
	ReporterID  string    `json:"reporter_id,omitempty"`
	Upvotes     int       `json:"upvotes"`
	Downvotes   int       `json:"downvotes"`
	Verified    bool      `json:"verified"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// Expired reports whether the report is outside [timestamp, expiresAt) at instant now.
func (r Report) Expired(now time.Time) bool {
	return !now.Before(r.ExpiresAt)
}

// NearbyReport is a report annotated with its distance to a query point.
type NearbyReport struct {
	Report
	DistanceKM float64 `json:"distance_km"`
}

// RouteReport is a report annotated with its distance to the first matching route leg.
type RouteReport struct {
	Report
	DistanceFromRouteKM float64 `json:"distance_from_route_km"`
}

type VoteType string

const (
	VoteUp   VoteType = "up"
	VoteDown VoteType = "down"
)

type Statistics struct {
	TotalActive int              `json:"total_active"`
	Verified    int              `json:"verified"`
	BySeverity  map[Severity]int `json:"by_severity"`
	AvgUpvotes  float64          `json:"avg_upvotes"`
	MostRecent  *Report          `json:"most_recent,omitempty"`
}
