package teamstats

import (
	"time"

	"github.com/riskibarqy/match-reports/internal/domain/shot"
)

// TeamStatRecord is one team's aggregate statistics for one match. Stats
// always carries every published column of the layout schema.
type TeamStatRecord struct {
	Team        string             `json:"team_name"`
	Opponent    string             `json:"opponent_team_name"`
	MatchDate   time.Time          `json:"match_date"`
	Competition string             `json:"competition"`
	Stats       map[string]float64 `json:"stats"`
	Text        map[string]string  `json:"text,omitempty"`
}

// Value returns the numeric value of column, 0 when absent.
func (r TeamStatRecord) Value(column string) float64 {
	return r.Stats[column]
}

type Key struct {
	MatchDate time.Time `json:"match_date"`
	Home      string    `json:"home"`
	Away      string    `json:"away"`
}

func (k Key) String() string {
	return k.MatchDate.Format("2006-01-02") + "|" + k.Home + "|" + k.Away
}

type MatchRecord struct {
	Key    Key            `json:"key"`
	Source string         `json:"source"`
	Home   TeamStatRecord `json:"home"`
	Away   TeamStatRecord `json:"away"`
	Shots  []shot.Event   `json:"shots"`
}

// Teams returns both stat records in home, away order.
func (m MatchRecord) Teams() []TeamStatRecord {
	return []TeamStatRecord{m.Home, m.Away}
}

// ShotsBy returns the shots taken by team.
func (m MatchRecord) ShotsBy(team string) []shot.Event {
	out := make([]shot.Event, 0, len(m.Shots))
	for _, item := range m.Shots {
		if item.Team == team {
			out = append(out, item)
		}
	}
	return out
}
