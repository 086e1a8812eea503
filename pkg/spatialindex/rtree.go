package spatialindex

import (
	"sync"

	"github.com/golang/geo/s1"
	"github.com/golang/geo/s2"
	"github.com/tidwall/rtree"
)

const earthRadiusKM = 6371.0

// AccidentIndex is an r-tree over live accident report locations. it serves as a
// coarse bounding-box prefilter for radius queries, the registry still applies the
// exact haversine filter on the candidates it returns.
type AccidentIndex struct {
	mu sync.RWMutex
	tr *rtree.RTreeG[string]

	// point per id so Delete can reproduce the inserted rect
	points map[string][2]float64
}

func NewAccidentIndex() *AccidentIndex {
	var tr rtree.RTreeG[string]
	return &AccidentIndex{
		tr:     &tr,
		points: make(map[string][2]float64),
	}
}

func (idx *AccidentIndex) Insert(id string, lat, lon float64) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	pt := [2]float64{lon, lat}
	idx.tr.Insert(pt, pt, id)
	idx.points[id] = pt
}

func (idx *AccidentIndex) Delete(id string) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	pt, ok := idx.points[id]
	if !ok {
		return
	}
	idx.tr.Delete(pt, pt, id)
	delete(idx.points, id)
}

func (idx *AccidentIndex) Len() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.points)
}

// SearchWithinRadius returns ids of all indexed reports whose location falls inside
// the bounding rect of a spherical cap centered at (qLat, qLon) with the given
// radius in km. callers must still filter by exact distance.
func (idx *AccidentIndex) SearchWithinRadius(qLat, qLon, radiusKM float64) []string {
	rect := capBoundingRect(qLat, qLon, radiusKM)

	lo := [2]float64{s1.Angle(rect.Lng.Lo).Degrees(), s1.Angle(rect.Lat.Lo).Degrees()}
	hi := [2]float64{s1.Angle(rect.Lng.Hi).Degrees(), s1.Angle(rect.Lat.Hi).Degrees()}

	idx.mu.RLock()
	defer idx.mu.RUnlock()

	results := make([]string, 0, 8)
	idx.tr.Search(lo, hi, func(min, max [2]float64, id string) bool {
		results = append(results, id)
		return true
	})
	return results
}

func capBoundingRect(lat, lon, radiusKM float64) s2.Rect {
	angle := s1.Angle(radiusKM / earthRadiusKM)
	cap := s2.CapFromCenterAngle(s2.PointFromLatLng(s2.LatLngFromDegrees(lat, lon)), angle)
	return cap.RectBound()
}
