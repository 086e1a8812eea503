package accidents

import (
	"github.com/lintang-b-s/saferoutes/pkg/util"
)

// Stats summarizes the active set for the dashboard endpoint.
func (r *Registry) Stats() (Statistics, error) {
	active, err := r.evictExpired()
	if err != nil {
		return Statistics{}, err
	}

	stats := Statistics{
		TotalActive: len(active),
		BySeverity: map[Severity]int{
			SeverityMinor:    0,
			SeverityModerate: 0,
			SeveritySevere:   0,
			SeverityFatal:    0,
		},
	}

	totalUpvotes := 0
	for _, rep := range active {
		if rep.Verified {
			stats.Verified++
		}
		if _, known := stats.BySeverity[rep.Severity]; known {
			stats.BySeverity[rep.Severity]++
		}
		totalUpvotes += rep.Upvotes
	}

	if len(active) > 0 {
		stats.AvgUpvotes = util.RoundFloat(float64(totalUpvotes)/float64(len(active)), 1)
		last := active[len(active)-1]
		stats.MostRecent = &last
	}
	return stats, nil
}
