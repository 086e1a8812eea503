// Package cities holds the named-location table used to resolve
// human-readable place names into coordinates.
package cities

import (
	"sort"
	"sync"

	"github.com/lintang-b-s/saferoutes/pkg/geo"
)

type Location struct {
	Name string  `json:"name"`
	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lon"`
}

// mumbai is the default table. NewGazetteer copies it, so callers can
// override locations from config without touching the defaults.
var mumbai = map[string][2]float64{
	"Bandra":        {19.0596, 72.8295},
	"Andheri":       {19.1136, 72.8697},
	"Powai":         {19.1197, 72.9067},
	"Worli":         {19.0176, 72.8125},
	"Marine Drive":  {18.9432, 72.8236},
	"BKC":           {19.0653, 72.8684},
	"Goregaon":      {19.1663, 72.8526},
	"Thane":         {19.1972, 73.0032},
	"Navi Mumbai":   {19.0330, 73.0297},
	"Malad":         {19.1867, 72.8483},
	"Borivali":      {19.2304, 72.8571},
	"Dadar":         {19.0176, 72.8479},
	"Churchgate":    {18.9322, 72.8264},
	"CST":           {18.9398, 72.8355},
	"Lower Parel":   {18.9968, 72.8265},
	"Kurla":         {19.0728, 72.8987},
	"Ghatkopar":     {19.0860, 72.9081},
	"Mulund":        {19.1726, 72.9586},
	"Juhu":          {19.0969, 72.8265},
	"Nariman Point": {18.9256, 72.8235},
}

// Gazetteer resolves location names to coordinates.
type Gazetteer struct {
	mu        sync.RWMutex
	locations map[string][2]float64
}

func NewGazetteer() *Gazetteer {
	locations := make(map[string][2]float64, len(mumbai))
	for name, c := range mumbai {
		locations[name] = c
	}
	return &Gazetteer{locations: locations}
}

// Add registers or overrides a named location.
func (g *Gazetteer) Add(name string, lat, lon float64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.locations[name] = [2]float64{lat, lon}
}

// Resolve looks up a location by name.
func (g *Gazetteer) Resolve(name string) (geo.Coordinate, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	c, ok := g.locations[name]
	if !ok {
		return geo.Coordinate{}, false
	}
	return geo.NewCoordinate(c[0], c[1]), true
}

// All returns every known location sorted by name.
func (g *Gazetteer) All() []Location {
	g.mu.RLock()
	defer g.mu.RUnlock()

	out := make([]Location, 0, len(g.locations))
	for name, c := range g.locations {
		out = append(out, Location{Name: name, Lat: c[0], Lon: c[1]})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
