package memory

import (
	"context"
	"testing"
	"time"

	"github.com/riskibarqy/match-reports/internal/domain/shot"
	"github.com/riskibarqy/match-reports/internal/domain/teamstats"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func matchRecord(date time.Time, home, away string, goals float64) teamstats.MatchRecord {
	return teamstats.MatchRecord{
		Key:    teamstats.Key{MatchDate: date, Home: home, Away: away},
		Source: home + ".pdf",
		Home: teamstats.TeamStatRecord{
			Team: home, Opponent: away, MatchDate: date,
			Stats: map[string]float64{"goals": goals},
		},
		Away: teamstats.TeamStatRecord{
			Team: away, Opponent: home, MatchDate: date,
			Stats: map[string]float64{"goals": 0},
		},
		Shots: []shot.Event{{Team: home, Goal: goals > 0, Target: shot.TargetOnTarget}},
	}
}

func TestMatchRepositoryAppendAndList(t *testing.T) {
	ctx := context.Background()
	repo := NewMatchRepository()
	late := time.Date(2024, 10, 1, 0, 0, 0, 0, time.UTC)
	early := time.Date(2024, 9, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, repo.AppendMatch(ctx, "run-1", matchRecord(late, "A", "B", 2)))
	require.NoError(t, repo.AppendMatch(ctx, "run-1", matchRecord(early, "C", "A", 1)))

	exists, err := repo.ExistsMatch(ctx, teamstats.Key{MatchDate: late, Home: "A", Away: "B"})
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.ExistsMatch(ctx, teamstats.Key{MatchDate: late, Home: "B", Away: "A"})
	require.NoError(t, err)
	assert.False(t, exists)

	items, err := repo.ListByTeam(ctx, "A")
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, early, items[0].MatchDate)
	assert.Equal(t, "C", items[0].Opponent)
	assert.Equal(t, 2.0, items[1].Value("goals"))

	assert.Len(t, repo.Shots(), 2)
}

func TestMatchRepositoryNeverRewrites(t *testing.T) {
	ctx := context.Background()
	repo := NewMatchRepository()
	date := time.Date(2024, 9, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, repo.AppendMatch(ctx, "run-1", matchRecord(date, "A", "B", 2)))
	require.NoError(t, repo.AppendMatch(ctx, "run-2", matchRecord(date, "A", "B", 5)))

	items, err := repo.ListByTeam(ctx, "A")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 2.0, items[0].Value("goals"))

	runID, ok := repo.RunID(teamstats.Key{MatchDate: date, Home: "A", Away: "B"})
	assert.True(t, ok)
	assert.Equal(t, "run-1", runID)
}

func TestMatchRepositoryCopiesOnWrite(t *testing.T) {
	ctx := context.Background()
	repo := NewMatchRepository()
	date := time.Date(2024, 9, 1, 0, 0, 0, 0, time.UTC)
	record := matchRecord(date, "A", "B", 2)

	require.NoError(t, repo.AppendMatch(ctx, "run-1", record))
	record.Home.Stats["goals"] = 9

	items, err := repo.ListByTeam(ctx, "A")
	require.NoError(t, err)
	assert.Equal(t, 2.0, items[0].Value("goals"))
}
