package sqlite

import (
	"database/sql"
	"errors"
	"time"

	"github.com/lintang-b-s/saferoutes/pkg/accidents"
)

// AccidentRepository implements accidents.Repository on the shared DB.
// List preserves insertion order through the seq column, which upserts
// never change.
type AccidentRepository struct {
	db *sql.DB
}

func NewAccidentRepository(s *DB) *AccidentRepository {
	return &AccidentRepository{db: s.db}
}

func (r *AccidentRepository) List() ([]accidents.Report, error) {
	rows, err := r.db.Query(`
		SELECT id, timestamp, latitude, longitude, severity, description,
		       reporter_id, upvotes, downvotes, verified, expires_at
		FROM accident_reports ORDER BY seq ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]accidents.Report, 0)
	for rows.Next() {
		rep, err := scanReport(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rep)
	}
	return out, rows.Err()
}

func (r *AccidentRepository) Get(id string) (accidents.Report, bool, error) {
	row := r.db.QueryRow(`
		SELECT id, timestamp, latitude, longitude, severity, description,
		       reporter_id, upvotes, downvotes, verified, expires_at
		FROM accident_reports WHERE id = ?`, id)
	rep, err := scanReport(row)
	if errors.Is(err, sql.ErrNoRows) {
		return accidents.Report{}, false, nil
	}
	if err != nil {
		return accidents.Report{}, false, err
	}
	return rep, true, nil
}

func (r *AccidentRepository) Upsert(rep accidents.Report) error {
	_, err := r.db.Exec(`
		INSERT INTO accident_reports
			(id, seq, timestamp, latitude, longitude, severity, description,
			 reporter_id, upvotes, downvotes, verified, expires_at)
		VALUES (?, (SELECT IFNULL(MAX(seq), 0) + 1 FROM accident_reports),
			?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			upvotes = excluded.upvotes,
			downvotes = excluded.downvotes,
			verified = excluded.verified,
			severity = excluded.severity,
			description = excluded.description`,
		rep.ID, rep.Timestamp.UTC().Format(time.RFC3339Nano), rep.Lat, rep.Lon,
		string(rep.Severity), rep.Description, rep.ReporterID,
		rep.Upvotes, rep.Downvotes, boolToInt(rep.Verified),
		rep.ExpiresAt.UTC().Format(time.RFC3339Nano))
	return err
}

func (r *AccidentRepository) Delete(id string) error {
	_, err := r.db.Exec(`DELETE FROM accident_reports WHERE id = ?`, id)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanReport(row rowScanner) (accidents.Report, error) {
	var (
		rep       accidents.Report
		severity  string
		ts, exp   string
		verified  int
	)
	err := row.Scan(&rep.ID, &ts, &rep.Lat, &rep.Lon, &severity,
		&rep.Description, &rep.ReporterID, &rep.Upvotes, &rep.Downvotes,
		&verified, &exp)
	if err != nil {
		return accidents.Report{}, err
	}
	rep.Severity = accidents.Severity(severity)
	rep.Verified = verified != 0
	if rep.Timestamp, err = time.Parse(time.RFC3339Nano, ts); err != nil {
		return accidents.Report{}, err
	}
	if rep.ExpiresAt, err = time.Parse(time.RFC3339Nano, exp); err != nil {
		return accidents.Report{}, err
	}
	return rep, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

var _ accidents.Repository = (*AccidentRepository)(nil)
