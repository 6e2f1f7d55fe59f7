package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/riskibarqy/match-reports/internal/domain/page"
	"github.com/riskibarqy/match-reports/internal/domain/teamstats"
)

type fakeDocument struct {
	source string
	pages  []page.Page
	closed *atomic.Int32
}

func (d *fakeDocument) Source() string { return d.source }
func (d *fakeDocument) PageCount() int { return len(d.pages) }
func (d *fakeDocument) Page(idx int) (page.Page, error) {
	if idx < 0 || idx >= len(d.pages) {
		return page.Page{}, fmt.Errorf("page %d out of range", idx)
	}
	return d.pages[idx], nil
}
func (d *fakeDocument) Close() error {
	if d.closed != nil {
		d.closed.Add(1)
	}
	return nil
}

type fakeProvider struct {
	mu     sync.Mutex
	docs   map[string][]page.Page
	panics map[string]bool
	stalls map[string]time.Duration
	opened atomic.Int32
	closed atomic.Int32
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{
		docs:   make(map[string][]page.Page),
		panics: make(map[string]bool),
		stalls: make(map[string]time.Duration),
	}
}

func (p *fakeProvider) Open(_ context.Context, path string) (page.Document, error) {
	p.mu.Lock()
	pages, ok := p.docs[path]
	panicking := p.panics[path]
	stall := p.stalls[path]
	p.mu.Unlock()

	if panicking {
		panic("renderer crashed on " + path)
	}
	if stall > 0 {
		time.Sleep(stall)
	}
	if !ok {
		return nil, fmt.Errorf("open %s: no such report", path)
	}
	p.opened.Add(1)
	return &fakeDocument{source: path, pages: pages, closed: &p.closed}, nil
}

type reportFixture struct {
	home, away  string
	date        string
	noMarker    bool
	noGlyph     bool
	statsBody   string
	competition string
}

func defaultFixture(home, away string) reportFixture {
	return reportFixture{
		home:        home,
		away:        away,
		date:        "21.09.2024",
		competition: "United States. NCAA D1 Big Ten",
		statsBody: strings.Join([]string{
			"Total",
			"Goals 2 1 xG 1.53 0.87",
			"Shots / on target 12/6 50% 9/4 44%",
			"Possession, % 55% 45%",
			"Offsides 3 1",
			"Fouls 10 12",
			"Dribbles / successful 10/5 50% 8/2 25%",
		}, "\n"),
	}
}

func curve(x0, x1, y0, y1 float64, points int) page.Primitive {
	return page.Primitive{Kind: page.KindCurve, X0: x0, X1: x1, Y0: y0, Y1: y1, PointCount: points}
}

func rect(x0, x1, y0, y1 float64) page.Primitive {
	return page.Primitive{Kind: page.KindRect, X0: x0, X1: x1, Y0: y0, Y1: y1}
}

func (f reportFixture) shotPage(team, opponent string) page.Page {
	marker := "SHOTS"
	if f.noMarker {
		marker = "PASSES"
	}
	primitives := []page.Primitive{
		curve(100, 108, 400, 408, 5), // field-map goal
		curve(200, 210, 650, 655, 5), // goal-mouth goal, on target
		rect(200, 206, 430, 436),     // field-map blocked
	}
	if !f.noGlyph {
		primitives = append([]page.Primitive{curve(20, 520, 150, 450, 40)}, primitives...)
	}
	return page.Page{
		Primitives: primitives,
		TextCells: []string{
			fmt.Sprintf("%s\n%s\n%s - %s (Big Ten) (%s)", team, marker, team, opponent, f.date),
		},
	}
}

func (f reportFixture) pages() []page.Page {
	pages := make([]page.Page, 16)
	for i := range pages {
		pages[i].Number = i + 1
	}

	pages[0].TextCells = []string{"Wyscout", f.home + " - " + f.away + "\n" + f.competition}

	var lineup strings.Builder
	home := []string{"GK", "RB", "RCB", "LCB", "LB", "DMF", "RCMF", "LCMF", "RW", "LW", "CF"}
	away := []string{"GK", "RCB", "CB", "LCB", "RWB", "LWB", "DMF", "AMF", "RAMF", "LAMF", "CF"}
	for i := range home {
		fmt.Fprintf(&lineup, "%d A. Player %s %d B. Player %s\n", i+1, home[i], i+1, away[i])
	}
	pages[1].TextCells = []string{"", "", lineup.String()}

	pages[4].TextCells = []string{
		fmt.Sprintf("Match report (%s)\nTEAM STATS %s 2 1 %s", f.date, f.home, f.away),
		f.statsBody,
	}

	pages[12] = f.shotPage(f.home, f.away)
	pages[12].Number = 13
	pages[13] = f.shotPage(f.away, f.home)
	pages[13].Number = 14
	return pages
}

type recordingSink struct {
	mu      sync.Mutex
	runIDs  []string
	records []teamstats.MatchRecord
	fail    error
	calls   int
}

func (s *recordingSink) AppendMatch(_ context.Context, runID string, record teamstats.MatchRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.fail != nil {
		return s.fail
	}
	s.runIDs = append(s.runIDs, runID)
	s.records = append(s.records, record)
	return nil
}

type fixedIDs struct{ id string }

func (g fixedIDs) NewID() (string, error) { return g.id, nil }
