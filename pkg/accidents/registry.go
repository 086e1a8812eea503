package accidents

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/lintang-b-s/saferoutes/pkg/geo"
	"github.com/lintang-b-s/saferoutes/pkg/spatialindex"
	"github.com/lintang-b-s/saferoutes/pkg/util"
	"go.uber.org/zap"
)

// Registry owns the live accident reports. expiry is lazy: every read of the
// active set evicts expired reports first, so the staleness bound equals the TTL
// no matter how often anyone reads. within one process a write is visible to the
// next read (the repository serializes), but two voters racing on the same id can
// still lose an increment to each other (last writer wins) - accepted for a
// crowdsourced signal.
type Registry struct {
	log   *zap.Logger
	repo  Repository
	index *spatialindex.AccidentIndex

	routeBufferKM float64
	now           func() time.Time

	mu     sync.Mutex
	lastID string
}

// NewRegistry builds a registry on top of repo. routeBufferKM is the buffer used by
// ImpactMultiplier when matching reports to a route. the spatial index is rebuilt
// from the repository so persistent deployments survive restarts.
func NewRegistry(repo Repository, routeBufferKM float64, log *zap.Logger) (*Registry, error) {
	r := &Registry{
		log:           log,
		repo:          repo,
		index:         spatialindex.NewAccidentIndex(),
		routeBufferKM: routeBufferKM,
		now:           time.Now,
	}

	existing, err := repo.List()
	if err != nil {
		return nil, util.WrapErrorf(err, util.ErrInternalServerError, "accidents: rebuild index")
	}
	for _, rep := range existing {
		r.index.Insert(rep.ID, rep.Lat, rep.Lon)
	}
	return r, nil
}

// Report creates a new accident report. coordinates are rounded to 6 decimal
// places (~0.11m) on ingestion, votes start at zero, expiry is timestamp + TTL.
// coordinate validation is the HTTP boundary's job, not the registry's.
func (r *Registry) Report(lat, lon float64, severity Severity, description, reporterID string) (Report, error) {
	if _, err := r.evictExpired(); err != nil {
		return Report{}, err
	}

	now := r.now()
	rep := Report{
		ID:          r.nextID(now),
		Timestamp:   now,
		Lat:         util.RoundFloat(lat, 6),
		Lon:         util.RoundFloat(lon, 6),
		Severity:    severity,
		Description: description,
		ReporterID:  reporterID,
		Verified:    false,
		ExpiresAt:   now.Add(ReportTTL),
	}

	if err := r.repo.Upsert(rep); err != nil {
		return Report{}, util.WrapErrorf(err, util.ErrInternalServerError, "accidents: persist report")
	}
	r.index.Insert(rep.ID, rep.Lat, rep.Lon)

	r.log.Info("accident reported",
		zap.String("id", rep.ID),
		zap.String("severity", string(rep.Severity)),
		zap.Float64("lat", rep.Lat),
		zap.Float64("lon", rep.Lon))
	return rep, nil
}

// ListActive returns all non-expired reports in insertion order, evicting expired
// ones as a side effect.
func (r *Registry) ListActive() ([]Report, error) {
	return r.evictExpired()
}

// FindNear returns active reports within radiusKM of (lat, lon), each annotated
// with its haversine distance, sorted ascending. ties keep insertion order. the
// r-tree only prefilters candidates, the haversine check decides membership.
func (r *Registry) FindNear(lat, lon, radiusKM float64) ([]NearbyReport, error) {
	active, err := r.evictExpired()
	if err != nil {
		return nil, err
	}

	candidates := make(map[string]struct{})
	for _, id := range r.index.SearchWithinRadius(lat, lon, radiusKM) {
		candidates[id] = struct{}{}
	}

	nearby := make([]NearbyReport, 0)
	for _, rep := range active {
		if _, ok := candidates[rep.ID]; !ok {
			continue
		}
		d := geo.CalculateHaversineDistance(lat, lon, rep.Lat, rep.Lon)
		if d <= radiusKM {
			nearby = append(nearby, NearbyReport{Report: rep, DistanceKM: util.RoundFloat(d, 2)})
		}
	}

	sort.SliceStable(nearby, func(i, j int) bool {
		return nearby[i].DistanceKM < nearby[j].DistanceKM
	})
	return nearby, nil
}

// FindOnRoute returns active reports within bufferKM of any route leg. for each
// report legs are checked in traversal order and the first matching leg wins -
// the annotation is that leg's distance, not the minimum over all legs.
func (r *Registry) FindOnRoute(waypoints []geo.Coordinate, bufferKM float64) ([]RouteReport, error) {
	active, err := r.evictExpired()
	if err != nil {
		return nil, err
	}

	onRoute := make([]RouteReport, 0)
	for _, rep := range active {
		p := geo.NewCoordinate(rep.Lat, rep.Lon)
		for i := 0; i < len(waypoints)-1; i++ {
			d := geo.PointToSegmentDistance(p, waypoints[i], waypoints[i+1])
			if d <= bufferKM {
				onRoute = append(onRoute, RouteReport{
					Report:              rep,
					DistanceFromRouteKM: util.RoundFloat(d, 2),
				})
				break
			}
		}
	}
	return onRoute, nil
}

// Vote applies an up or down vote. three upvotes verify a report for good, five
// downvotes remove it entirely (the vote still succeeds). returns false when the
// id is unknown.
func (r *Registry) Vote(id string, vote VoteType) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rep, ok, err := r.repo.Get(id)
	if err != nil {
		return false, util.WrapErrorf(err, util.ErrInternalServerError, "accidents: load report %s", id)
	}
	if !ok || rep.Expired(r.now()) {
		return false, nil
	}

	switch vote {
	case VoteUp:
		rep.Upvotes++
		if rep.Upvotes >= verifyUpvoteThreshold {
			rep.Verified = true // monotonic, never reset
		}
	case VoteDown:
		rep.Downvotes++
	default:
		return false, util.WrapErrorf(nil, util.ErrBadParamInput, "accidents: unknown vote type %q", vote)
	}

	if rep.Downvotes >= removeDownvoteThreshold {
		if err := r.repo.Delete(id); err != nil {
			return false, util.WrapErrorf(err, util.ErrInternalServerError, "accidents: remove downvoted report %s", id)
		}
		r.index.Delete(id)
		r.log.Info("accident removed by downvotes", zap.String("id", id))
		return true, nil
	}

	if err := r.repo.Upsert(rep); err != nil {
		return false, util.WrapErrorf(err, util.ErrInternalServerError, "accidents: persist vote on %s", id)
	}
	return true, nil
}

// Delete removes a report. an empty requesterID is a privileged call; otherwise
// the requester must own the report. unknown id and ownership mismatch are both
// reported as false so callers cannot probe for existence.
func (r *Registry) Delete(id, requesterID string) (bool, error) {
	rep, ok, err := r.repo.Get(id)
	if err != nil {
		return false, util.WrapErrorf(err, util.ErrInternalServerError, "accidents: load report %s", id)
	}
	if !ok {
		return false, nil
	}
	if requesterID != "" && rep.ReporterID != requesterID {
		return false, nil
	}

	if err := r.repo.Delete(id); err != nil {
		return false, util.WrapErrorf(err, util.ErrInternalServerError, "accidents: delete report %s", id)
	}
	r.index.Delete(id)
	return true, nil
}

func (r *Registry) evictExpired() ([]Report, error) {
	all, err := r.repo.List()
	if err != nil {
		return nil, util.WrapErrorf(err, util.ErrInternalServerError, "accidents: list reports")
	}

	now := r.now()
	active := make([]Report, 0, len(all))
	for _, rep := range all {
		if rep.Expired(now) {
			if err := r.repo.Delete(rep.ID); err != nil {
				return nil, util.WrapErrorf(err, util.ErrInternalServerError, "accidents: evict %s", rep.ID)
			}
			r.index.Delete(rep.ID)
			continue
		}
		active = append(active, rep)
	}
	return active, nil
}

func (r *Registry) nextID(now time.Time) string {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := formatID(now)
	for id == r.lastID {
		now = now.Add(time.Microsecond)
		id = formatID(now)
	}
	r.lastID = id
	return id
}

func formatID(t time.Time) string {
	return fmt.Sprintf("acc_%s_%06d", t.Format("20060102_150405"), t.Nanosecond()/1000)
}
