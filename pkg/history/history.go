package history

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/lintang-b-s/saferoutes/pkg/util"
)

const maxEntries = 100

// ChosenRoute is the subset of a scored route worth remembering.
type ChosenRoute struct {
	Name       string  `json:"name"`
	RiskScore  float64 `json:"risk_score"`
	RiskLevel  string  `json:"risk_level"`
	DistanceKM float64 `json:"distance_km"`
	TimeMin    int     `json:"time_minutes"`
}

type Entry struct {
	ID             string      `json:"id"`
	Timestamp      time.Time   `json:"timestamp"`
	Start          string      `json:"start"`
	End            string      `json:"end"`
	Chosen         ChosenRoute `json:"chosen_route"`
	AllRoutesCount int         `json:"all_routes_count"`
	Weather        string      `json:"weather"`
}

// PairStats summarizes past searches of one start->end pair.
type PairStats struct {
	Count        int     `json:"count"`
	LastSearched string  `json:"last_searched,omitempty"`
	AvgRiskScore float64 `json:"avg_risk_score"`
	MinRiskScore float64 `json:"min_risk_score"`
	MaxRiskScore float64 `json:"max_risk_score"`
	Recent       []Entry `json:"recent_searches,omitempty"`
}

// PopularRoute is a start->end pair ranked by search count.
type PopularRoute struct {
	Start        string  `json:"start"`
	End          string  `json:"end"`
	Count        int     `json:"count"`
	LastSearched string  `json:"last_searched"`
	AvgRisk      float64 `json:"avg_risk"`
}

// Repository persists history entries, most recent first.
type Repository interface {
	List() ([]Entry, error)
	Insert(e Entry) error
	Delete(id string) (bool, error)
	Clear() error
	TrimTo(n int) error
}

// Manager records route searches. only the most recent 100 entries are kept.
type Manager struct {
	repo Repository
	now  func() time.Time

	mu     sync.Mutex
	lastID string
}

func NewManager(repo Repository) *Manager {
	return &Manager{
		repo: repo,
		now:  time.Now,
	}
}

func (m *Manager) AddSearch(start, end string, chosen ChosenRoute, routeCount int, weather string) (Entry, error) {
	now := m.now()
	e := Entry{
		ID:             m.nextID(now),
		Timestamp:      now,
		Start:          start,
		End:            end,
		Chosen:         chosen,
		AllRoutesCount: routeCount,
		Weather:        weather,
	}

	if err := m.repo.Insert(e); err != nil {
		return Entry{}, util.WrapErrorf(err, util.ErrInternalServerError, "history: insert")
	}
	if err := m.repo.TrimTo(maxEntries); err != nil {
		return Entry{}, util.WrapErrorf(err, util.ErrInternalServerError, "history: trim")
	}
	return e, nil
}

// Recent returns up to limit entries, most recent first.
func (m *Manager) Recent(limit int) ([]Entry, error) {
	all, err := m.repo.List()
	if err != nil {
		return nil, util.WrapErrorf(err, util.ErrInternalServerError, "history: list")
	}
	if limit > 0 && len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

func (m *Manager) All() ([]Entry, error) {
	return m.Recent(0)
}

// StatsFor aggregates past searches of one route pair.
func (m *Manager) StatsFor(start, end string) (PairStats, error) {
	all, err := m.repo.List()
	if err != nil {
		return PairStats{}, util.WrapErrorf(err, util.ErrInternalServerError, "history: list")
	}

	matched := make([]Entry, 0)
	for _, e := range all {
		if e.Start == start && e.End == end {
			matched = append(matched, e)
		}
	}
	if len(matched) == 0 {
		return PairStats{}, nil
	}

	stats := PairStats{
		Count:        len(matched),
		LastSearched: matched[0].Timestamp.Format(time.RFC3339),
		MinRiskScore: matched[0].Chosen.RiskScore,
		MaxRiskScore: matched[0].Chosen.RiskScore,
	}
	sum := 0.0
	for _, e := range matched {
		s := e.Chosen.RiskScore
		sum += s
		if s < stats.MinRiskScore {
			stats.MinRiskScore = s
		}
		if s > stats.MaxRiskScore {
			stats.MaxRiskScore = s
		}
	}
	stats.AvgRiskScore = util.RoundFloat(sum/float64(len(matched)), 2)
	if len(matched) > 5 {
		matched = matched[:5]
	}
	stats.Recent = matched
	return stats, nil
}

// Popular returns the most searched pairs, ranked by count.
func (m *Manager) Popular(limit int) ([]PopularRoute, error) {
	all, err := m.repo.List()
	if err != nil {
		return nil, util.WrapErrorf(err, util.ErrInternalServerError, "history: list")
	}

	type acc struct {
		route     PopularRoute
		totalRisk float64
	}
	byPair := make(map[string]*acc)
	order := make([]string, 0)
	for _, e := range all {
		key := e.Start + "\x00" + e.End
		a, ok := byPair[key]
		if !ok {
			a = &acc{route: PopularRoute{
				Start:        e.Start,
				End:          e.End,
				LastSearched: e.Timestamp.Format(time.RFC3339),
			}}
			byPair[key] = a
			order = append(order, key)
		}
		a.route.Count++
		a.totalRisk += e.Chosen.RiskScore
	}

	popular := make([]PopularRoute, 0, len(byPair))
	for _, key := range order {
		a := byPair[key]
		a.route.AvgRisk = util.RoundFloat(a.totalRisk/float64(a.route.Count), 2)
		popular = append(popular, a.route)
	}
	sort.SliceStable(popular, func(i, j int) bool {
		return popular[i].Count > popular[j].Count
	})
	if limit > 0 && len(popular) > limit {
		popular = popular[:limit]
	}
	return popular, nil
}

func (m *Manager) Delete(id string) (bool, error) {
	ok, err := m.repo.Delete(id)
	if err != nil {
		return false, util.WrapErrorf(err, util.ErrInternalServerError, "history: delete")
	}
	return ok, nil
}

func (m *Manager) Clear() error {
	if err := m.repo.Clear(); err != nil {
		return util.WrapErrorf(err, util.ErrInternalServerError, "history: clear")
	}
	return nil
}

func (m *Manager) nextID(now time.Time) string {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := formatID(now)
	for id == m.lastID {
		now = now.Add(time.Microsecond)
		id = formatID(now)
	}
	m.lastID = id
	return id
}

func formatID(t time.Time) string {
	return fmt.Sprintf("rh_%s_%06d", t.Format("20060102_150405"), t.Nanosecond()/1000)
}
