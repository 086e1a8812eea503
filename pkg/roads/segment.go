package roads

import (
	"github.com/lintang-b-s/saferoutes/pkg/geo"
)

// Segment is a static piece of road with a pre-computed baseline risk score on a
// 0-100 scale. segments are read-only to the risk engine, it only ever looks
// them up.
type Segment struct {
	ID       string  `json:"segment_id"`
	RoadName string  `json:"road_name"`
	StartLat float64 `json:"start_lat"`
	StartLon float64 `json:"start_lon"`
	EndLat   float64 `json:"end_lat"`
	EndLon   float64 `json:"end_lon"`
	BaseRisk float64 `json:"base_risk"`
}

func (s Segment) Midpoint() geo.Coordinate {
	return geo.NewCoordinate((s.StartLat+s.EndLat)/2.0, (s.StartLon+s.EndLon)/2.0)
}

// Store holds the segment table in memory.
type Store struct {
	segments []Segment
}

func NewStore(segments []Segment) *Store {
	return &Store{segments: segments}
}

func (s *Store) Len() int {
	return len(s.segments)
}

// NearestToPoint returns the segment whose midpoint is haversine-closest to p.
// this is a deliberate linear scan: the table holds tens to low hundreds of
// segments per city, so O(segments) per leg is fine and a spatial index would be
// premature. revisit if a deployment ever loads a full road network here.
func (s *Store) NearestToPoint(p geo.Coordinate) (Segment, bool) {
	if len(s.segments) == 0 {
		return Segment{}, false
	}

	best := 0
	bestDist := geo.CalculateHaversineDistance(p.Lat, p.Lon,
		s.segments[0].Midpoint().Lat, s.segments[0].Midpoint().Lon)
	for i := 1; i < len(s.segments); i++ {
		mid := s.segments[i].Midpoint()
		d := geo.CalculateHaversineDistance(p.Lat, p.Lon, mid.Lat, mid.Lon)
		if d < bestDist {
			best = i
			bestDist = d
		}
	}
	return s.segments[best], true
}
