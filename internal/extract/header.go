package extract

import (
	"regexp"
	"strings"
	"time"

	crerr "github.com/cockroachdb/errors"
)

var (
	parenPattern     = regexp.MustCompile(`\((.*?)\)`)
	scoreSplit       = regexp.MustCompile(`\d\s+`)
	positionPattern  = regexp.MustCompile(`[A-Z]{2,}`)
	matchDateLayouts = []string{"02-01-2006", "2-1-2006", "02-01-06"}
)

// ShotHeader is the header of one team's shot page.
type ShotHeader struct {
	Team      string
	MatchDate time.Time
}

// ParseShotHeader reports whether cell is a shot page header, i.e. one of its
// lines equals marker. The first line is the team name and the last
// parenthetical is the match date.
func ParseShotHeader(cell, marker string) (ShotHeader, bool, error) {
	lines := strings.Split(cell, "\n")
	found := false
	for _, line := range lines {
		if strings.TrimSpace(line) == marker {
			found = true
			break
		}
	}
	if !found {
		return ShotHeader{}, false, nil
	}

	groups := parenPattern.FindAllStringSubmatch(cell, -1)
	if len(groups) == 0 {
		return ShotHeader{}, true, crerr.Newf("shot header %q: no match date", lines[0])
	}
	date, err := ParseMatchDate(groups[len(groups)-1][1])
	if err != nil {
		return ShotHeader{}, true, err
	}
	return ShotHeader{Team: strings.TrimSpace(lines[0]), MatchDate: date}, true, nil
}

// StatsHeader is the header of the team-stats page.
type StatsHeader struct {
	Home      string
	Away      string
	MatchDate time.Time
}

// ParseStatsHeader reads "TEAM STATS <home> <g> <g> <away>" from the second
// line of cell and the match date from its first parenthetical.
func ParseStatsHeader(cell string) (StatsHeader, error) {
	lines := strings.Split(cell, "\n")
	if len(lines) < 2 {
		return StatsHeader{}, crerr.Newf("stats header: want 2 lines, got %d", len(lines))
	}
	names := scoreSplit.Split(lines[1], -1)
	home := strings.TrimSpace(strings.Replace(names[0], "TEAM STATS ", "", 1))
	away := strings.TrimSpace(names[len(names)-1])
	if home == "" || away == "" || len(names) < 2 {
		return StatsHeader{}, crerr.Newf("stats header %q: team names not found", lines[1])
	}

	group := parenPattern.FindStringSubmatch(cell)
	if group == nil {
		return StatsHeader{}, crerr.Newf("stats header %q: no match date", lines[1])
	}
	date, err := ParseMatchDate(group[1])
	if err != nil {
		return StatsHeader{}, err
	}
	return StatsHeader{Home: home, Away: away, MatchDate: date}, nil
}

// ParseMatchDate parses a day-first date such as "21.09.2024".
func ParseMatchDate(raw string) (time.Time, error) {
	value := strings.ReplaceAll(strings.TrimSpace(raw), ".", "-")
	for _, layout := range matchDateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, crerr.Newf("parse match date %q", raw)
}

// ParseCompetition returns the competition name: the last ". "-separated
// part of the last line of the cover cell.
func ParseCompetition(cell string) string {
	lines := strings.Split(strings.TrimRight(cell, "\n"), "\n")
	last := lines[len(lines)-1]
	parts := strings.Split(last, ". ")
	return strings.TrimSpace(parts[len(parts)-1])
}
