package roads

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"

	"github.com/lintang-b-s/saferoutes/pkg/util"
)

// LoadCSV reads a segment table. expected header:
// segment_id,road_name,start_lat,start_lon,end_lat,end_lon,base_risk
func LoadCSV(path string) ([]Segment, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, util.WrapErrorf(err, util.ErrInternalServerError, "roads: open %s", path)
	}
	defer f.Close()
	return ParseCSV(f)
}

func ParseCSV(r io.Reader) ([]Segment, error) {
	cr := csv.NewReader(r)
	records, err := cr.ReadAll()
	if err != nil {
		return nil, util.WrapErrorf(err, util.ErrBadParamInput, "roads: parse csv")
	}
	if len(records) == 0 {
		return nil, nil
	}

	segments := make([]Segment, 0, len(records)-1)
	for i, rec := range records[1:] { // skip header
		if len(rec) != 7 {
			return nil, util.WrapErrorf(nil, util.ErrBadParamInput, "roads: row %d has %d columns, want 7", i+2, len(rec))
		}
		seg := Segment{ID: rec[0], RoadName: rec[1]}
		fields := []*float64{&seg.StartLat, &seg.StartLon, &seg.EndLat, &seg.EndLon, &seg.BaseRisk}
		for j, dst := range fields {
			v, err := strconv.ParseFloat(rec[j+2], 64)
			if err != nil {
				return nil, util.WrapErrorf(err, util.ErrBadParamInput, "roads: row %d column %d", i+2, j+3)
			}
			*dst = v
		}
		segments = append(segments, seg)
	}
	return segments, nil
}
