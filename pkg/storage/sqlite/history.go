package sqlite

import (
	"database/sql"
	"time"

	"github.com/lintang-b-s/saferoutes/pkg/history"
)

// HistoryRepository implements history.Repository on the shared DB.
type HistoryRepository struct {
	db *sql.DB
}

func NewHistoryRepository(s *DB) *HistoryRepository {
	return &HistoryRepository{db: s.db}
}

func (r *HistoryRepository) List() ([]history.Entry, error) {
	rows, err := r.db.Query(`
		SELECT id, timestamp, start_name, end_name, route_name, risk_score,
		       risk_level, distance_km, time_minutes, routes_count, weather
		FROM route_history ORDER BY timestamp DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]history.Entry, 0)
	for rows.Next() {
		var (
			e  history.Entry
			ts string
		)
		err := rows.Scan(&e.ID, &ts, &e.Start, &e.End, &e.Chosen.Name,
			&e.Chosen.RiskScore, &e.Chosen.RiskLevel, &e.Chosen.DistanceKM,
			&e.Chosen.TimeMin, &e.AllRoutesCount, &e.Weather)
		if err != nil {
			return nil, err
		}
		if e.Timestamp, err = time.Parse(time.RFC3339Nano, ts); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *HistoryRepository) Insert(e history.Entry) error {
	_, err := r.db.Exec(`
		INSERT INTO route_history
			(id, timestamp, start_name, end_name, route_name, risk_score,
			 risk_level, distance_km, time_minutes, routes_count, weather)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.Timestamp.UTC().Format(time.RFC3339Nano), e.Start, e.End,
		e.Chosen.Name, e.Chosen.RiskScore, e.Chosen.RiskLevel,
		e.Chosen.DistanceKM, e.Chosen.TimeMin, e.AllRoutesCount, e.Weather)
	return err
}

func (r *HistoryRepository) Delete(id string) (bool, error) {
	res, err := r.db.Exec(`DELETE FROM route_history WHERE id = ?`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *HistoryRepository) Clear() error {
	_, err := r.db.Exec(`DELETE FROM route_history`)
	return err
}

func (r *HistoryRepository) TrimTo(n int) error {
	_, err := r.db.Exec(`
		DELETE FROM route_history WHERE id NOT IN (
			SELECT id FROM route_history ORDER BY timestamp DESC, id DESC LIMIT ?
		)`, n)
	return err
}

var _ history.Repository = (*HistoryRepository)(nil)
