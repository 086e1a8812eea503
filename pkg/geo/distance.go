package geo

import (
	"math"

	"github.com/lintang-b-s/saferoutes/pkg/util"
)

type Coordinate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

func (c Coordinate) GetLat() float64 {
	return c.Lat
}

func (c Coordinate) GetLon() float64 {
	return c.Lon
}

func NewCoordinate(lat, lon float64) Coordinate {
	return Coordinate{
		Lat: lat,
		Lon: lon,
	}
}

func NewCoordinates(lat, lon []float64) []Coordinate {
	coords := make([]Coordinate, len(lat))
	for i := range lat {
		coords[i] = NewCoordinate(lat[i], lon[i])
	}
	return coords
}

const (
	earthRadiusKM = 6371.0
)

func havFunction(angleRad float64) float64 {
	return (1 - math.Cos(angleRad)) / 2.0
}

// CalculateHaversineDistance. calculate haversine distance in km
func CalculateHaversineDistance(latOne, longOne, latTwo, longTwo float64) float64 {
	latOne = util.DegreeToRadians(latOne)
	longOne = util.DegreeToRadians(longOne)
	latTwo = util.DegreeToRadians(latTwo)
	longTwo = util.DegreeToRadians(longTwo)

	a := havFunction(latOne-latTwo) + math.Cos(latOne)*math.Cos(latTwo)*havFunction(longOne-longTwo)
	c := 2.0 * math.Asin(math.Sqrt(a))
	return earthRadiusKM * c
}

// PointToSegmentDistance. minimum distance in km from point p to the segment [segStart, segEnd].
// the projection runs in the unprojected lat/lon plane (no spherical correction), only the
// final distance from p to the clamped closest point uses haversine. consumers of the
// accident buffer queries depend on this exact convention.
func PointToSegmentDistance(p, segStart, segEnd Coordinate) float64 {
	dLat := p.Lat - segStart.Lat
	dLon := p.Lon - segStart.Lon

	sLat := segEnd.Lat - segStart.Lat
	sLon := segEnd.Lon - segStart.Lon

	if sLat == 0 && sLon == 0 {
		// degenerate segment
		return CalculateHaversineDistance(p.Lat, p.Lon, segStart.Lat, segStart.Lon)
	}

	t := (dLat*sLat + dLon*sLon) / (sLat*sLat + sLon*sLon)
	t = math.Max(0, math.Min(1, t))

	closestLat := segStart.Lat + t*sLat
	closestLon := segStart.Lon + t*sLon

	return CalculateHaversineDistance(p.Lat, p.Lon, closestLat, closestLon)
}

// Midpoint. arithmetic midpoint of a route leg. fine for city-scale legs, the
// risk aggregator matches road segments by midpoint using this same convention.
func Midpoint(a, b Coordinate) Coordinate {
	return NewCoordinate((a.Lat+b.Lat)/2.0, (a.Lon+b.Lon)/2.0)
}

// PolylineDistance. total haversine distance in km over consecutive coordinate pairs.
func PolylineDistance(coords []Coordinate) float64 {
	total := 0.0
	for i := 0; i < len(coords)-1; i++ {
		total += CalculateHaversineDistance(coords[i].Lat, coords[i].Lon,
			coords[i+1].Lat, coords[i+1].Lon)
	}
	return total
}

func radToDeg(r float64) float64 {
	return 180.0 * r / math.Pi
}

// GetDestinationPoint returns the destination point given the starting point, bearing and distance
// dist in km
func GetDestinationPoint(lat1, lon1 float64, bearing float64, dist float64) (float64, float64) {

	dr := dist / earthRadiusKM

	bearing = util.DegreeToRadians(bearing)

	lat1 = util.DegreeToRadians(lat1)
	lon1 = util.DegreeToRadians(lon1)

	lat2Part1 := math.Sin(lat1) * math.Cos(dr)
	lat2Part2 := math.Cos(lat1) * math.Sin(dr) * math.Cos(bearing)

	lat2 := math.Asin(lat2Part1 + lat2Part2)

	lon2Part1 := math.Sin(bearing) * math.Sin(dr) * math.Cos(lat1)
	lon2Part2 := math.Cos(dr) - (math.Sin(lat1) * math.Sin(lat2))

	lon2 := lon1 + math.Atan2(lon2Part1, lon2Part2)

	return radToDeg(lat2), normalizeLongitude(radToDeg(lon2))
}

// normalizeLongitude. long in degree
func normalizeLongitude(long float64) float64 {
	return math.Mod((long+540), 360) - 180.0
}
