package accidents

import (
	"fmt"
	"testing"
	"time"

	"github.com/lintang-b-s/saferoutes/pkg/geo"
	"go.uber.org/zap"
)

func newTestRegistry(t *testing.T) (*Registry, *time.Time) {
	t.Helper()
	reg, err := NewRegistry(NewMemoryRepository(), 0.5, zap.NewNop())
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	now := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	reg.now = func() time.Time { return now }
	return reg, &now
}

func TestReportRoundsCoordinates(t *testing.T) {
	reg, _ := newTestRegistry(t)

	rep, err := reg.Report(19.05961234567, 72.82951234567, SeverityModerate, "", "")
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if rep.Lat != 19.059612 || rep.Lon != 72.829512 {
		t.Errorf("coordinates not rounded to 6 decimals: %v, %v", rep.Lat, rep.Lon)
	}
	if rep.Verified || rep.Upvotes != 0 || rep.Downvotes != 0 {
		t.Error("fresh report should be unverified with zero votes")
	}
	if !rep.ExpiresAt.Equal(rep.Timestamp.Add(ReportTTL)) {
		t.Error("expiresAt must equal timestamp + TTL")
	}
}

func TestReportIDsUnique(t *testing.T) {
	reg, _ := newTestRegistry(t)

	seen := make(map[string]struct{})
	for i := 0; i < 10; i++ {
		rep, err := reg.Report(19.05, 72.82, SeverityMinor, "", "")
		if err != nil {
			t.Fatalf("err: %v", err)
		}
		if _, dup := seen[rep.ID]; dup {
			t.Fatalf("duplicate id %s under a frozen clock", rep.ID)
		}
		seen[rep.ID] = struct{}{}
	}
}

func TestLazyExpiry(t *testing.T) {
	reg, now := newTestRegistry(t)
	t0 := *now

	rep, err := reg.Report(19.05, 72.82, SeverityModerate, "", "")
	if err != nil {
		t.Fatalf("err: %v", err)
	}

	*now = t0.Add(119 * time.Minute)
	active, err := reg.ListActive()
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if len(active) != 1 || active[0].ID != rep.ID {
		t.Fatalf("report should still be active at t0+119min, got %v", active)
	}

	*now = t0.Add(121 * time.Minute)
	active, err = reg.ListActive()
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if len(active) != 0 {
		t.Fatalf("report should be evicted at t0+121min, got %v", active)
	}

	// eviction is a hard removal: voting on it must miss
	ok, err := reg.Vote(rep.ID, VoteUp)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if ok {
		t.Error("vote on an evicted report should return not-found")
	}
}

func TestVoteVerifyThreshold(t *testing.T) {
	reg, _ := newTestRegistry(t)
	rep, _ := reg.Report(19.05, 72.82, SeveritySevere, "", "")

	for i := 1; i <= 2; i++ {
		if ok, _ := reg.Vote(rep.ID, VoteUp); !ok {
			t.Fatal("vote should succeed")
		}
		got, _, _ := reg.repo.Get(rep.ID)
		if got.Verified {
			t.Fatalf("verified after only %d upvotes", i)
		}
	}

	reg.Vote(rep.ID, VoteUp)
	got, _, _ := reg.repo.Get(rep.ID)
	if !got.Verified {
		t.Fatal("3 upvotes must verify")
	}

	// idempotent, never reverts
	reg.Vote(rep.ID, VoteUp)
	got, _, _ = reg.repo.Get(rep.ID)
	if !got.Verified || got.Upvotes != 4 {
		t.Fatalf("4th upvote should keep verified=true, got %+v", got)
	}
}

func TestVoteDownvoteRemoval(t *testing.T) {
	reg, _ := newTestRegistry(t)
	rep, _ := reg.Report(19.05, 72.82, SeverityMinor, "", "")

	for i := 0; i < 5; i++ {
		ok, err := reg.Vote(rep.ID, VoteDown)
		if err != nil {
			t.Fatalf("err: %v", err)
		}
		if !ok {
			t.Fatalf("downvote %d should succeed", i+1)
		}
	}

	active, _ := reg.ListActive()
	if len(active) != 0 {
		t.Fatal("report should be removed after 5 downvotes")
	}

	ok, _ := reg.Vote(rep.ID, VoteDown)
	if ok {
		t.Error("6th downvote should return not-found")
	}
}

func TestVoteUnknownID(t *testing.T) {
	reg, _ := newTestRegistry(t)
	ok, err := reg.Vote("acc_never_existed", VoteUp)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if ok {
		t.Error("vote on unknown id should return false")
	}
}

func TestDeleteOwnership(t *testing.T) {
	reg, _ := newTestRegistry(t)
	rep, _ := reg.Report(19.05, 72.82, SeverityModerate, "", "user-1")

	if ok, _ := reg.Delete(rep.ID, "user-2"); ok {
		t.Fatal("non-owner delete must be rejected")
	}
	if ok, _ := reg.Delete(rep.ID, "user-1"); !ok {
		t.Fatal("owner delete must succeed")
	}

	// admin (no requester) can always delete
	rep2, _ := reg.Report(19.06, 72.83, SeverityModerate, "", "user-1")
	if ok, _ := reg.Delete(rep2.ID, ""); !ok {
		t.Fatal("privileged delete must succeed")
	}

	if ok, _ := reg.Delete("acc_never_existed", ""); ok {
		t.Fatal("delete of unknown id must return false")
	}
}

func TestFindNearSortedWithStableTies(t *testing.T) {
	reg, _ := newTestRegistry(t)

	far, _ := reg.Report(19.10, 72.82, SeverityMinor, "", "")
	tieA, _ := reg.Report(19.0596, 72.8295, SeverityMinor, "", "")
	tieB, _ := reg.Report(19.0596, 72.8295, SeverityMinor, "", "")
	reg.Report(28.63, 77.21, SeverityFatal, "", "") // delhi, out of range

	nearby, err := reg.FindNear(19.0596, 72.8295, 10.0)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if len(nearby) != 3 {
		t.Fatalf("expected 3 nearby reports, got %d", len(nearby))
	}
	if nearby[0].ID != tieA.ID || nearby[1].ID != tieB.ID {
		t.Errorf("equal distances should keep insertion order: %s, %s", nearby[0].ID, nearby[1].ID)
	}
	if nearby[2].ID != far.ID {
		t.Errorf("farther report should sort last, got %s", nearby[2].ID)
	}
	if nearby[2].DistanceKM <= 0 {
		t.Error("distance annotation missing")
	}
}

func TestFindOnRouteFirstMatchWins(t *testing.T) {
	reg, _ := newTestRegistry(t)

	// report sits within the buffer of leg 0, and leg 1 passes almost exactly
	// through it. first-match semantics mean the leg 0 distance is reported.
	reg.Report(19.020, 72.804, SeverityModerate, "", "")

	waypoints := []geo.Coordinate{
		geo.NewCoordinate(19.00, 72.80),
		geo.NewCoordinate(19.04, 72.80),
		geo.NewCoordinate(19.019, 72.8041),
	}

	onRoute, err := reg.FindOnRoute(waypoints, 0.5)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if len(onRoute) != 1 {
		t.Fatalf("expected 1 match, got %d", len(onRoute))
	}

	legDist := geo.PointToSegmentDistance(
		geo.NewCoordinate(19.020, 72.804),
		waypoints[0], waypoints[1])
	want := fmt.Sprintf("%.2f", legDist)
	got := fmt.Sprintf("%.2f", onRoute[0].DistanceFromRouteKM)
	if got != want {
		t.Errorf("annotation must come from the first matching leg: got %s, want %s", got, want)
	}
}

func TestFindOnRouteOutsideBuffer(t *testing.T) {
	reg, _ := newTestRegistry(t)
	reg.Report(19.20, 72.95, SeverityFatal, "", "")

	waypoints := []geo.Coordinate{
		geo.NewCoordinate(19.00, 72.80),
		geo.NewCoordinate(19.04, 72.80),
	}
	onRoute, err := reg.FindOnRoute(waypoints, 0.5)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if len(onRoute) != 0 {
		t.Fatalf("report outside buffer must not match, got %v", onRoute)
	}
}
