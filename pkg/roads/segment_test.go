package roads

import (
	"math"
	"strings"
	"testing"

	"github.com/lintang-b-s/saferoutes/pkg/geo"
)

func TestNearestToPoint(t *testing.T) {
	store := NewStore([]Segment{
		{ID: "seg_1", RoadName: "Western Express Highway", StartLat: 19.10, StartLon: 72.86, EndLat: 19.12, EndLon: 72.87, BaseRisk: 72},
		{ID: "seg_2", RoadName: "Marine Drive", StartLat: 18.93, StartLon: 72.82, EndLat: 18.95, EndLon: 72.83, BaseRisk: 25},
	})

	seg, ok := store.NearestToPoint(geo.NewCoordinate(19.11, 72.865))
	if !ok || seg.ID != "seg_1" {
		t.Fatalf("expected seg_1, got %+v ok=%v", seg, ok)
	}

	seg, ok = store.NearestToPoint(geo.NewCoordinate(18.94, 72.825))
	if !ok || seg.ID != "seg_2" {
		t.Fatalf("expected seg_2, got %+v ok=%v", seg, ok)
	}
}

func TestNearestToPointEmptyStore(t *testing.T) {
	store := NewStore(nil)
	if _, ok := store.NearestToPoint(geo.NewCoordinate(19, 72)); ok {
		t.Fatal("empty store must report no segment")
	}
}

func TestParseCSV(t *testing.T) {
	in := strings.Join([]string{
		"segment_id,road_name,start_lat,start_lon,end_lat,end_lon,base_risk",
		"seg_1,LBS Marg,19.0728,72.8987,19.0828,72.9087,55.5",
		"seg_2,Linking Road,19.0596,72.8295,19.0696,72.8395,30",
	}, "\n")

	segments, err := ParseCSV(strings.NewReader(in))
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if len(segments) != 2 {
		t.Fatalf("expected 2 segments, got %d", len(segments))
	}
	if segments[0].RoadName != "LBS Marg" || segments[0].BaseRisk != 55.5 {
		t.Errorf("bad first segment: %+v", segments[0])
	}
	mid := segments[1].Midpoint()
	if math.Abs(mid.Lat-19.0646) > 1e-9 || math.Abs(mid.Lon-72.8345) > 1e-9 {
		t.Errorf("bad midpoint: %+v", mid)
	}
}

func TestParseCSVBadRow(t *testing.T) {
	in := "segment_id,road_name,start_lat,start_lon,end_lat,end_lon,base_risk\nseg_1,LBS Marg,not_a_number,72.8987,19.0828,72.9087,55.5"
	if _, err := ParseCSV(strings.NewReader(in)); err == nil {
		t.Fatal("expected parse error")
	}
}
