package routegen

import (
	"math/rand"

	"github.com/lintang-b-s/saferoutes/pkg/geo"
)

// Style tags the shape of a generated route.
type Style string

const (
	StyleDirect  Style = "direct"
	StyleHighway Style = "highway"
	StyleScenic  Style = "scenic"
)

// Styles lists the shapes the planner generates, in presentation order.
var Styles = []struct {
	Style Style
	Name  string
}{
	{StyleDirect, "Direct Route"},
	{StyleHighway, "Via Highway"},
	{StyleScenic, "Scenic Route"},
}

const (
	highwayJitterDeg = 0.01
	scenicOffsetDeg  = 0.015
)

// Generator produces parametric polylines between two points. this is a stand-in
// for real road-graph routing: the curves never consult road topology, they only
// give the risk engine plausibly distinct geometries to score. point counts per
// style are part of the contract - historical scores were computed on 4 interior
// points for direct and highway and 6 for scenic, comparisons depend on them.
type Generator struct {
	rng *rand.Rand
}

// NewGenerator builds a generator seeded from src. pass a fixed-seed source in
// tests to pin highway jitter.
func NewGenerator(src rand.Source) *Generator {
	return &Generator{rng: rand.New(src)}
}

// Generate returns the waypoints for one route style, origin first, destination
// last. unknown styles fall back to direct.
func (g *Generator) Generate(start, end geo.Coordinate, style Style) []geo.Coordinate {
	switch style {
	case StyleHighway:
		mid := geo.NewCoordinate(
			(start.Lat+end.Lat)/2+g.jitter(),
			(start.Lon+end.Lon)/2+g.jitter(),
		)
		return viaMidpoint(start, mid, end, 3)
	case StyleScenic:
		mid := geo.NewCoordinate(
			(start.Lat+end.Lat)/2+scenicOffsetDeg,
			(start.Lon+end.Lon)/2-scenicOffsetDeg,
		)
		return viaMidpoint(start, mid, end, 4)
	default:
		waypoints := []geo.Coordinate{start}
		for i := 1; i < 5; i++ {
			t := float64(i) / 5
			waypoints = append(waypoints, lerp(start, end, t))
		}
		return append(waypoints, end)
	}
}

func (g *Generator) jitter() float64 {
	return (g.rng.Float64()*2 - 1) * highwayJitterDeg
}

// viaMidpoint interpolates start->mid and mid->end with steps-1 points per half
// plus the midpoint itself.
func viaMidpoint(start, mid, end geo.Coordinate, steps int) []geo.Coordinate {
	waypoints := []geo.Coordinate{start}
	for i := 1; i < steps; i++ {
		waypoints = append(waypoints, lerp(start, mid, float64(i)/float64(steps)))
	}
	waypoints = append(waypoints, mid)
	for i := 1; i < steps; i++ {
		waypoints = append(waypoints, lerp(mid, end, float64(i)/float64(steps)))
	}
	return append(waypoints, end)
}

func lerp(a, b geo.Coordinate, t float64) geo.Coordinate {
	return geo.NewCoordinate(a.Lat+(b.Lat-a.Lat)*t, a.Lon+(b.Lon-a.Lon)*t)
}
