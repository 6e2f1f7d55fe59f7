package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/match-reports/internal/domain/teamstats"
	qb "github.com/riskibarqy/match-reports/internal/platform/querybuilder"
)

const (
	teamMatchStatsTable = "team_match_stats"
	shotEventsTable     = "shot_events"
	shotInsertChunk     = 500
)

type MatchRepository struct {
	db *sqlx.DB
}

func NewMatchRepository(db *sqlx.DB) *MatchRepository {
	return &MatchRepository{db: db}
}

// AppendMatch inserts both team rows and the match shots in one transaction.
// A match whose rows already exist is left untouched.
func (r *MatchRepository) AppendMatch(ctx context.Context, runID string, record teamstats.MatchRecord) error {
	statRows := make([]any, 0, 2)
	for idx, item := range record.Teams() {
		row, err := newTeamMatchStatsInsertModel(runID, record.Source, idx == 0, item)
		if err != nil {
			return fmt.Errorf("encode team stats team=%s: %w", item.Team, err)
		}
		statRows = append(statRows, row)
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx append match: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query, args, err := qb.InsertModels(teamMatchStatsTable, statRows,
		"ON CONFLICT (match_date, team_name, opponent_team_name) DO NOTHING")
	if err != nil {
		return fmt.Errorf("build insert team stats query: %w", err)
	}
	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("insert team stats match=%s: %w", record.Key.String(), err)
	}
	inserted, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("read inserted team stats rows: %w", err)
	}
	if inserted == 0 {
		return nil
	}

	for start := 0; start < len(record.Shots); start += shotInsertChunk {
		end := min(start+shotInsertChunk, len(record.Shots))
		rows := make([]any, 0, end-start)
		for _, item := range record.Shots[start:end] {
			rows = append(rows, newShotEventInsertModel(runID, item))
		}
		query, args, err := qb.InsertModels(shotEventsTable, rows, "")
		if err != nil {
			return fmt.Errorf("build insert shot events query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insert shot events match=%s: %w", record.Key.String(), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit append match tx: %w", err)
	}

	return nil
}

func (r *MatchRepository) ExistsMatch(ctx context.Context, key teamstats.Key) (bool, error) {
	query, args, err := qb.Select("1").
		From(teamMatchStatsTable).
		Where(
			qb.Eq("match_date", key.MatchDate),
			qb.Eq("team_name", key.Home),
			qb.Eq("opponent_team_name", key.Away),
		).
		Limit(1).
		ToSQL()
	if err != nil {
		return false, fmt.Errorf("build exists match query: %w", err)
	}

	var found int
	if err := r.db.GetContext(ctx, &found, query, args...); err != nil {
		if isNotFound(err) {
			return false, nil
		}
		return false, fmt.Errorf("exists match=%s: %w", key.String(), err)
	}

	return true, nil
}

func (r *MatchRepository) ListByTeam(ctx context.Context, team string) ([]teamstats.TeamStatRecord, error) {
	query, args, err := qb.Select(
		"team_name",
		"opponent_team_name",
		"match_date",
		"competition",
		"stats",
		"COALESCE(text_stats::text, '{}') AS text_stats",
	).From(teamMatchStatsTable).
		Where(qb.Eq("team_name", strings.TrimSpace(team))).
		OrderBy("match_date", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list team stats query: %w", err)
	}

	var rows []teamMatchStatsRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list team stats team=%s: %w", team, err)
	}

	out := make([]teamstats.TeamStatRecord, 0, len(rows))
	for _, row := range rows {
		item, err := row.toDomain()
		if err != nil {
			return nil, fmt.Errorf("decode team stats team=%s date=%s: %w", row.TeamName, row.MatchDate.Format("2006-01-02"), err)
		}
		out = append(out, item)
	}

	return out, nil
}
