package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/riskibarqy/match-reports/internal/domain/shot"
	"github.com/riskibarqy/match-reports/internal/domain/teamstats"
)

// MatchRepository keeps records in process; used when no database is
// configured and in tests.
type MatchRepository struct {
	mu      sync.RWMutex
	matches map[string]teamstats.MatchRecord
	runs    map[string]string
	order   []string
}

func NewMatchRepository() *MatchRepository {
	return &MatchRepository{
		matches: make(map[string]teamstats.MatchRecord),
		runs:    make(map[string]string),
	}
}

func (r *MatchRepository) AppendMatch(_ context.Context, runID string, record teamstats.MatchRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := record.Key.String()
	if _, exists := r.matches[key]; exists {
		return nil
	}
	r.matches[key] = cloneMatch(record)
	r.runs[key] = runID
	r.order = append(r.order, key)

	return nil
}

func (r *MatchRepository) ExistsMatch(_ context.Context, key teamstats.Key) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, exists := r.matches[key.String()]
	return exists, nil
}

func (r *MatchRepository) ListByTeam(_ context.Context, team string) ([]teamstats.TeamStatRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	team = strings.TrimSpace(team)
	out := make([]teamstats.TeamStatRecord, 0)
	for _, key := range r.order {
		for _, item := range r.matches[key].Teams() {
			if item.Team == team {
				out = append(out, cloneTeam(item))
			}
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].MatchDate.Before(out[j].MatchDate)
	})

	return out, nil
}

// RunID returns the run that stored the match with key.
func (r *MatchRepository) RunID(key teamstats.Key) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	runID, ok := r.runs[key.String()]
	return runID, ok
}

// Shots returns the stored shots of every match in insertion order.
func (r *MatchRepository) Shots() []shot.Event {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]shot.Event, 0)
	for _, key := range r.order {
		out = append(out, r.matches[key].Shots...)
	}
	return out
}

func cloneMatch(record teamstats.MatchRecord) teamstats.MatchRecord {
	out := record
	out.Home = cloneTeam(record.Home)
	out.Away = cloneTeam(record.Away)
	out.Shots = append([]shot.Event(nil), record.Shots...)
	return out
}

func cloneTeam(item teamstats.TeamStatRecord) teamstats.TeamStatRecord {
	out := item
	if item.Stats != nil {
		out.Stats = make(map[string]float64, len(item.Stats))
		for k, v := range item.Stats {
			out.Stats[k] = v
		}
	}
	if item.Text != nil {
		out.Text = make(map[string]string, len(item.Text))
		for k, v := range item.Text {
			out.Text[k] = v
		}
	}
	return out
}
