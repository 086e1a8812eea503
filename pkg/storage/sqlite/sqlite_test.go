package sqlite

import (
	"testing"
	"time"

	"github.com/lintang-b-s/saferoutes/pkg/accidents"
	"github.com/lintang-b-s/saferoutes/pkg/history"
)

func setupTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(":memory:")
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestAccidentUpsertAndGet(t *testing.T) {
	repo := NewAccidentRepository(setupTestDB(t))

	now := time.Date(2025, 8, 15, 10, 0, 0, 0, time.UTC)
	rep := accidents.Report{
		ID:          "acc_20250815_100000_000001",
		Timestamp:   now,
		Lat:         19.0596,
		Lon:         72.8295,
		Severity:    accidents.SeveritySevere,
		Description: "multi vehicle pileup",
		ReporterID:  "user-1",
		ExpiresAt:   now.Add(2 * time.Hour),
	}
	if err := repo.Upsert(rep); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	got, ok, err := repo.Get(rep.ID)
	if err != nil || !ok {
		t.Fatalf("Get = ok %v, err %v", ok, err)
	}
	if got.Severity != accidents.SeveritySevere || got.Lat != 19.0596 {
		t.Errorf("wrong report back: %+v", got)
	}
	if !got.ExpiresAt.Equal(rep.ExpiresAt) {
		t.Errorf("expires_at = %v, want %v", got.ExpiresAt, rep.ExpiresAt)
	}

	_, ok, err = repo.Get("missing")
	if err != nil || ok {
		t.Fatalf("Get missing = ok %v, err %v, want false, nil", ok, err)
	}
}

func TestAccidentListPreservesInsertionOrder(t *testing.T) {
	repo := NewAccidentRepository(setupTestDB(t))

	now := time.Now().UTC()
	ids := []string{"acc_a", "acc_b", "acc_c"}
	for _, id := range ids {
		err := repo.Upsert(accidents.Report{
			ID:        id,
			Timestamp: now,
			Severity:  accidents.SeverityMinor,
			ExpiresAt: now.Add(time.Hour),
		})
		if err != nil {
			t.Fatalf("Upsert %s: %v", id, err)
		}
	}

	// vote updates must not reorder
	first, _, _ := repo.Get("acc_a")
	first.Upvotes = 3
	first.Verified = true
	if err := repo.Upsert(first); err != nil {
		t.Fatalf("update Upsert: %v", err)
	}

	list, err := repo.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("got %d reports, want 3", len(list))
	}
	for i, id := range ids {
		if list[i].ID != id {
			t.Errorf("list[%d] = %s, want %s", i, list[i].ID, id)
		}
	}
	if !list[0].Verified || list[0].Upvotes != 3 {
		t.Errorf("update lost: %+v", list[0])
	}
}

func TestAccidentDelete(t *testing.T) {
	repo := NewAccidentRepository(setupTestDB(t))

	now := time.Now().UTC()
	repo.Upsert(accidents.Report{ID: "acc_x", Timestamp: now, ExpiresAt: now.Add(time.Hour)})

	if err := repo.Delete("acc_x"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, ok, _ := repo.Get("acc_x"); ok {
		t.Error("report still present after delete")
	}
	// deleting a missing id is a no-op
	if err := repo.Delete("acc_x"); err != nil {
		t.Fatalf("second Delete: %v", err)
	}
}

func TestHistoryRoundTrip(t *testing.T) {
	repo := NewHistoryRepository(setupTestDB(t))

	base := time.Date(2025, 8, 15, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		err := repo.Insert(history.Entry{
			ID:        time.Duration(i).String() + "-id",
			Timestamp: base.Add(time.Duration(i) * time.Minute),
			Start:     "Bandra",
			End:       "Andheri",
			Chosen: history.ChosenRoute{
				Name:       "Direct Route",
				RiskScore:  40 + float64(i),
				RiskLevel:  "medium",
				DistanceKM: 12.5,
				TimeMin:    25,
			},
			AllRoutesCount: 3,
			Weather:        "Clear",
		})
		if err != nil {
			t.Fatalf("Insert: %v", err)
		}
	}

	list, err := repo.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("got %d entries, want 3", len(list))
	}
	if list[0].Chosen.RiskScore != 42 {
		t.Errorf("most recent first violated: %+v", list[0])
	}
}

func TestHistoryTrimDeleteClear(t *testing.T) {
	repo := NewHistoryRepository(setupTestDB(t))

	base := time.Date(2025, 8, 15, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		repo.Insert(history.Entry{
			ID:        string(rune('a' + i)),
			Timestamp: base.Add(time.Duration(i) * time.Minute),
			Start:     "Dadar",
			End:       "Colaba",
		})
	}

	if err := repo.TrimTo(3); err != nil {
		t.Fatalf("TrimTo: %v", err)
	}
	list, _ := repo.List()
	if len(list) != 3 {
		t.Fatalf("after trim got %d entries, want 3", len(list))
	}
	// the newest three survive
	if list[0].ID != "e" || list[2].ID != "c" {
		t.Errorf("wrong survivors: %s..%s", list[0].ID, list[2].ID)
	}

	ok, err := repo.Delete("e")
	if err != nil || !ok {
		t.Fatalf("Delete = %v, %v, want true, nil", ok, err)
	}
	ok, _ = repo.Delete("e")
	if ok {
		t.Error("second delete reported true")
	}

	if err := repo.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	list, _ = repo.List()
	if len(list) != 0 {
		t.Errorf("after clear got %d entries, want 0", len(list))
	}
}
