package usecase

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/riskibarqy/match-reports/internal/domain/shot"
	"github.com/riskibarqy/match-reports/internal/domain/teamstats"
	"github.com/riskibarqy/match-reports/internal/extract"
	"github.com/riskibarqy/match-reports/internal/layout"
	"github.com/riskibarqy/match-reports/internal/statline"
)

// TeamShots are the events read from one team's shot page.
type TeamShots struct {
	Header extract.ShotHeader
	Events []shot.Event
}

// MatchInput is everything one report contributes to a MatchRecord.
type MatchInput struct {
	Source       string
	Competition  string
	Header       extract.StatsHeader
	Table        statline.Table
	Shots        []TeamShots
	HomeBackline int
	AwayBackline int
}

type AssemblyDiagnostics struct {
	// OutOfEnvelope counts field-map events outside the pitch tolerance.
	OutOfEnvelope int
	// UnmatchedTeams are shot page teams missing from the stats header; they
	// are attributed by page order.
	UnmatchedTeams []string
	TextColumns    []string
}

// AssembleMatch builds both team records with the full published column set
// and attaches shot events with opponent, date and backline context.
func AssembleMatch(input MatchInput, l layout.Layout) (teamstats.MatchRecord, AssemblyDiagnostics, error) {
	var diag AssemblyDiagnostics

	home := strings.TrimSpace(input.Header.Home)
	away := strings.TrimSpace(input.Header.Away)
	if home == "" || away == "" {
		return teamstats.MatchRecord{}, diag, fmt.Errorf("%w: both team names are required", ErrInvalidInput)
	}
	if input.Header.MatchDate.IsZero() {
		return teamstats.MatchRecord{}, diag, fmt.Errorf("%w: match date is required", ErrInvalidInput)
	}

	columns := l.PublishedColumns()
	if len(columns) == 0 {
		return teamstats.MatchRecord{}, diag, fmt.Errorf("%w: layout %q publishes no stat columns", ErrInvalidInput, l.Version)
	}

	homeRecord := newTeamRecord(home, away, input, columns)
	awayRecord := newTeamRecord(away, home, input, columns)
	diag.TextColumns = fillStats(&homeRecord, input.Table.Team1, columns)
	for _, col := range fillStats(&awayRecord, input.Table.Team2, columns) {
		if !containsString(diag.TextColumns, col) {
			diag.TextColumns = append(diag.TextColumns, col)
		}
	}

	record := teamstats.MatchRecord{
		Key:    teamstats.Key{MatchDate: input.Header.MatchDate, Home: home, Away: away},
		Source: input.Source,
		Home:   homeRecord,
		Away:   awayRecord,
	}

	for idx, page := range input.Shots {
		team := strings.TrimSpace(page.Header.Team)
		isHome := team == home
		if !isHome && team != away {
			diag.UnmatchedTeams = append(diag.UnmatchedTeams, team)
			isHome = idx == 0
			if isHome {
				team = home
			} else {
				team = away
			}
		}
		opponent, backline, oppBackline := away, input.HomeBackline, input.AwayBackline
		if !isHome {
			opponent, backline, oppBackline = home, input.AwayBackline, input.HomeBackline
		}
		date := page.Header.MatchDate
		if date.IsZero() {
			date = input.Header.MatchDate
		}

		for _, event := range page.Events {
			event.Team = team
			event.Opponent = opponent
			event.MatchDate = date
			event.Backline = backline
			event.OppBackline = oppBackline
			if event.Map == shot.MapOrigin && !extract.InPitch(l.Pitch, event.Length, event.Width) {
				diag.OutOfEnvelope++
			}
			record.Shots = append(record.Shots, event)
		}
	}

	return record, diag, nil
}

func newTeamRecord(team, opponent string, input MatchInput, columns []string) teamstats.TeamStatRecord {
	stats := make(map[string]float64, len(columns))
	for _, col := range columns {
		stats[col] = 0
	}
	return teamstats.TeamStatRecord{
		Team:        team,
		Opponent:    opponent,
		MatchDate:   input.Header.MatchDate,
		Competition: input.Competition,
		Stats:       stats,
	}
}

// fillStats copies published values into record and returns the columns
// whose value was not numeric.
func fillStats(record *teamstats.TeamStatRecord, values map[string]string, columns []string) []string {
	var text []string
	for _, col := range columns {
		raw, ok := values[col]
		if !ok {
			continue
		}
		if v, ok := ParseStatValue(raw); ok {
			record.Stats[col] = v
			continue
		}
		if record.Text == nil {
			record.Text = make(map[string]string)
		}
		record.Text[col] = raw
		text = append(text, col)
	}
	return text
}

// ParseStatValue coerces "55%", "1,234" or "1.53" to a float.
func ParseStatValue(raw string) (float64, bool) {
	value := strings.TrimSpace(raw)
	value = strings.TrimSuffix(value, "%")
	value = strings.ReplaceAll(value, ",", "")
	if value == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func containsString(items []string, target string) bool {
	for _, item := range items {
		if item == target {
			return true
		}
	}
	return false
}

// matchDateOrZero keeps zero dates out of logs.
func matchDateOrZero(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}
