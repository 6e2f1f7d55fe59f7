package postgres

import (
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/match-reports/internal/domain/shot"
	"github.com/riskibarqy/match-reports/internal/domain/teamstats"
)

type teamMatchStatsInsertModel struct {
	RunID        string    `db:"run_id"`
	Source       string    `db:"source"`
	MatchDate    time.Time `db:"match_date"`
	TeamName     string    `db:"team_name"`
	OpponentName string    `db:"opponent_team_name"`
	Competition  string    `db:"competition"`
	IsHome       bool      `db:"is_home"`
	Stats        string    `db:"stats"`
	TextStats    *string   `db:"text_stats"`
}

func newTeamMatchStatsInsertModel(runID, source string, home bool, item teamstats.TeamStatRecord) (teamMatchStatsInsertModel, error) {
	stats := item.Stats
	if stats == nil {
		stats = map[string]float64{}
	}
	encoded, err := sonic.MarshalString(stats)
	if err != nil {
		return teamMatchStatsInsertModel{}, err
	}

	var text *string
	if len(item.Text) > 0 {
		raw, err := sonic.MarshalString(item.Text)
		if err != nil {
			return teamMatchStatsInsertModel{}, err
		}
		text = &raw
	}

	return teamMatchStatsInsertModel{
		RunID:        runID,
		Source:       source,
		MatchDate:    item.MatchDate,
		TeamName:     item.Team,
		OpponentName: item.Opponent,
		Competition:  item.Competition,
		IsHome:       home,
		Stats:        encoded,
		TextStats:    text,
	}, nil
}

type teamMatchStatsRow struct {
	TeamName     string    `db:"team_name"`
	OpponentName string    `db:"opponent_team_name"`
	MatchDate    time.Time `db:"match_date"`
	Competition  string    `db:"competition"`
	Stats        string    `db:"stats"`
	TextStats    string    `db:"text_stats"`
}

func (r teamMatchStatsRow) toDomain() (teamstats.TeamStatRecord, error) {
	stats := make(map[string]float64)
	if err := sonic.UnmarshalString(r.Stats, &stats); err != nil {
		return teamstats.TeamStatRecord{}, err
	}
	var text map[string]string
	if r.TextStats != "" && r.TextStats != "{}" {
		if err := sonic.UnmarshalString(r.TextStats, &text); err != nil {
			return teamstats.TeamStatRecord{}, err
		}
	}

	return teamstats.TeamStatRecord{
		Team:        r.TeamName,
		Opponent:    r.OpponentName,
		MatchDate:   r.MatchDate.UTC(),
		Competition: r.Competition,
		Stats:       stats,
		Text:        text,
	}, nil
}

type shotEventInsertModel struct {
	RunID        string    `db:"run_id"`
	MatchDate    time.Time `db:"match_date"`
	TeamName     string    `db:"team_name"`
	OpponentName string    `db:"opponent_team_name"`
	Map          string    `db:"map"`
	RawX         float64   `db:"raw_x"`
	RawY         float64   `db:"raw_y"`
	Length       float64   `db:"length_translated"`
	Width        float64   `db:"width_translated"`
	Target       string    `db:"target"`
	Goal         bool      `db:"goal"`
	Backline     int       `db:"backline_num"`
	OppBackline  int       `db:"opp_backline_num"`
}

func newShotEventInsertModel(runID string, item shot.Event) shotEventInsertModel {
	return shotEventInsertModel{
		RunID:        runID,
		MatchDate:    item.MatchDate,
		TeamName:     item.Team,
		OpponentName: item.Opponent,
		Map:          string(item.Map),
		RawX:         item.Raw.X,
		RawY:         item.Raw.Y,
		Length:       item.Length,
		Width:        item.Width,
		Target:       string(item.Target),
		Goal:         item.Goal,
		Backline:     item.Backline,
		OppBackline:  item.OppBackline,
	}
}
