package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	crerr "github.com/cockroachdb/errors"

	"github.com/riskibarqy/match-reports/internal/domain/page"
	"github.com/riskibarqy/match-reports/internal/domain/shot"
	"github.com/riskibarqy/match-reports/internal/domain/teamstats"
	"github.com/riskibarqy/match-reports/internal/extract"
	"github.com/riskibarqy/match-reports/internal/layout"
	"github.com/riskibarqy/match-reports/internal/platform/id"
	"github.com/riskibarqy/match-reports/internal/platform/logging"
	"github.com/riskibarqy/match-reports/internal/platform/resilience"
	"github.com/riskibarqy/match-reports/internal/statline"
)

// RecordSink receives every successfully assembled match of a batch.
type RecordSink interface {
	AppendMatch(ctx context.Context, runID string, record teamstats.MatchRecord) error
}

type ReportConfig struct {
	FileTimeout time.Duration
	Workers     int
	// SkipExisting drops matches the repository already holds.
	SkipExisting bool
	// SinkBreaker makes a sink that keeps failing fail fast until its
	// cooldown has passed.
	SinkBreaker resilience.BreakerConfig
}

type ReportService struct {
	provider page.Provider
	layout   layout.Layout
	parser   statline.Parser
	repo     teamstats.Repository
	sinks    []RecordSink
	breakers []*resilience.Breaker
	ids      id.Generator
	cfg      ReportConfig
	logger   *logging.Logger
}

// NewReportService wires the pipeline. repo may be nil; when set it is also
// used as a sink, written after every other sink.
func NewReportService(
	provider page.Provider,
	l layout.Layout,
	repo teamstats.Repository,
	sinks []RecordSink,
	ids id.Generator,
	cfg ReportConfig,
	logger *logging.Logger,
) (*ReportService, error) {
	if provider == nil {
		return nil, fmt.Errorf("%w: page provider is required", ErrDependencyUnavailable)
	}
	if err := l.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	parser, err := statline.NewParser(l.Stats)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if cfg.FileTimeout <= 0 {
		cfg.FileTimeout = 30 * time.Second
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if ids == nil {
		ids = id.NewRunIDGenerator()
	}
	if logger == nil {
		logger = logging.Default()
	}

	// The repository commits last so a failing file sink leaves it untouched.
	allSinks := make([]RecordSink, 0, len(sinks)+1)
	for _, sink := range sinks {
		if sink != nil {
			allSinks = append(allSinks, sink)
		}
	}
	if repo != nil {
		allSinks = append(allSinks, repo)
	}

	breakers := make([]*resilience.Breaker, len(allSinks))
	for i := range allSinks {
		breakers[i] = resilience.NewBreaker(cfg.SinkBreaker)
	}

	return &ReportService{
		provider: provider,
		layout:   l,
		parser:   parser,
		repo:     repo,
		sinks:    allSinks,
		breakers: breakers,
		ids:      ids,
		cfg:      cfg,
		logger:   logger,
	}, nil
}

func (s *ReportService) Layout() layout.Layout {
	return s.layout
}

// PageDiagnostics describes the shot extraction of one shot page.
type PageDiagnostics struct {
	Page        int                                  `json:"page"`
	Team        string                               `json:"team"`
	Calibration extract.FieldCalibration             `json:"calibration"`
	Policies    map[shot.Map]extract.ShotDiagnostics `json:"policies"`
}

// FileDiagnostics collects every non-fatal observation for one report.
type FileDiagnostics struct {
	Source      string                `json:"source"`
	ShotPages   []PageDiagnostics     `json:"shot_pages"`
	Table       []statline.Diagnostic `json:"-"`
	TableIssues []string              `json:"table_issues,omitempty"`
	LineupIssue string                `json:"lineup_issue,omitempty"`
	Assembly    AssemblyDiagnostics   `json:"assembly"`
}

// Ambiguities counts calibration and tokenizer edge cases.
func (d FileDiagnostics) Ambiguities() int {
	n := 0
	for _, p := range d.ShotPages {
		if p.Calibration.Ambiguous() {
			n++
		}
	}
	for _, item := range d.Table {
		if crerr.Is(item.Err, extract.ErrParseAmbiguity) {
			n++
		}
	}
	return n
}

// ProcessFile extracts one report. ErrShotMapNotFound and
// ErrCalibrationNotFound are fatal for the file; everything else is recorded
// in the diagnostics.
func (s *ReportService) ProcessFile(ctx context.Context, path string) (teamstats.MatchRecord, FileDiagnostics, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ReportService.ProcessFile")
	defer span.End()

	diag := FileDiagnostics{Source: path}
	if strings.TrimSpace(path) == "" {
		return teamstats.MatchRecord{}, diag, fmt.Errorf("%w: report path is required", ErrInvalidInput)
	}

	doc, err := s.provider.Open(ctx, path)
	if err != nil {
		return teamstats.MatchRecord{}, diag, fmt.Errorf("open report: %w", err)
	}
	defer func() {
		if closeErr := doc.Close(); closeErr != nil {
			s.logger.WarnContext(ctx, "close report failed", "file", path, "error", closeErr)
		}
	}()
	diag.Source = doc.Source()

	pages := s.layout.Pages
	competition := ""
	if cover, err := doc.Page(pages.CompetitionPage); err == nil {
		competition = extract.ParseCompetition(cover.Cell(pages.CompetitionCell))
	}

	var homeBackline, awayBackline int
	if sheet, err := doc.Page(pages.LineupPage); err != nil {
		diag.LineupIssue = err.Error()
	} else if lineups, err := extract.ParseLineups(sheet.Cell(pages.LineupCell), pages.StarterCount); err != nil {
		diag.LineupIssue = err.Error()
	} else {
		homeBackline = extract.Backline(lineups.Home, pages.BacklineTag)
		awayBackline = extract.Backline(lineups.Away, pages.BacklineTag)
	}

	if err := ctx.Err(); err != nil {
		return teamstats.MatchRecord{}, diag, err
	}

	shotPages, err := s.locateShotPages(doc)
	if err != nil {
		return teamstats.MatchRecord{}, diag, err
	}
	teamShots := make([]TeamShots, 0, len(shotPages))
	for _, located := range shotPages {
		shots, pageDiag, err := s.extractPageShots(located)
		diag.ShotPages = append(diag.ShotPages, pageDiag)
		if err != nil {
			return teamstats.MatchRecord{}, diag, err
		}
		teamShots = append(teamShots, shots)
	}

	if err := ctx.Err(); err != nil {
		return teamstats.MatchRecord{}, diag, err
	}

	statsPage, err := doc.Page(pages.StatsPage)
	if err != nil {
		return teamstats.MatchRecord{}, diag, fmt.Errorf("read stats page: %w", err)
	}
	header, err := extract.ParseStatsHeader(statsPage.Cell(pages.StatsHeaderCell))
	if err != nil {
		return teamstats.MatchRecord{}, diag, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	table := s.parser.ParseTable(statsPage.Cell(pages.StatsBodyCell))
	diag.Table = table.Diagnostics
	for _, item := range table.Diagnostics {
		diag.TableIssues = append(diag.TableIssues, fmt.Sprintf("line %d: %v", item.Line, item.Err))
	}

	record, assembly, err := AssembleMatch(MatchInput{
		Source:       diag.Source,
		Competition:  competition,
		Header:       header,
		Table:        table,
		Shots:        teamShots,
		HomeBackline: homeBackline,
		AwayBackline: awayBackline,
	}, s.layout)
	diag.Assembly = assembly
	if err != nil {
		return teamstats.MatchRecord{}, diag, err
	}
	return record, diag, nil
}

type locatedShotPage struct {
	index  int
	page   page.Page
	header extract.ShotHeader
}

// locateShotPages finds the first page in the scan range carrying the shot
// marker; the second team's map is on the following page.
func (s *ReportService) locateShotPages(doc page.Document) ([]locatedShotPage, error) {
	pages := s.layout.Pages
	last := pages.ShotScanTo
	if last >= doc.PageCount() {
		last = doc.PageCount() - 1
	}
	for idx := pages.ShotScanFrom; idx <= last; idx++ {
		first, header, ok, err := s.readShotPage(doc, idx)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		second, secondHeader, ok, err := s.readShotPage(doc, idx+1)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, crerr.Wrapf(extract.ErrShotMapNotFound, "second team shot page %d", idx+2)
		}
		return []locatedShotPage{
			{index: idx, page: first, header: header},
			{index: idx + 1, page: second, header: secondHeader},
		}, nil
	}
	return nil, crerr.Wrapf(extract.ErrShotMapNotFound, "no %q marker on pages %d-%d",
		pages.ShotMarker, pages.ShotScanFrom+1, pages.ShotScanTo+1)
}

func (s *ReportService) readShotPage(doc page.Document, idx int) (page.Page, extract.ShotHeader, bool, error) {
	if idx < 0 || idx >= doc.PageCount() {
		return page.Page{}, extract.ShotHeader{}, false, nil
	}
	pg, err := doc.Page(idx)
	if err != nil {
		return page.Page{}, extract.ShotHeader{}, false, fmt.Errorf("read page %d: %w", idx+1, err)
	}
	header, ok, err := extract.ParseShotHeader(pg.Cell(s.layout.Pages.ShotHeaderCell), s.layout.Pages.ShotMarker)
	if err != nil {
		return page.Page{}, extract.ShotHeader{}, false, fmt.Errorf("%w: page %d: %v", ErrInvalidInput, idx+1, err)
	}
	return pg, header, ok, nil
}

func (s *ReportService) extractPageShots(located locatedShotPage) (TeamShots, PageDiagnostics, error) {
	diag := PageDiagnostics{
		Page:     located.index + 1,
		Team:     located.header.Team,
		Policies: make(map[shot.Map]extract.ShotDiagnostics, len(s.layout.Policies)),
	}
	curves := located.page.Curves()
	cal, err := extract.Calibrate(curves, s.layout.Calibration, s.layout.Pitch)
	diag.Calibration = cal
	if err != nil {
		return TeamShots{}, diag, crerr.Wrapf(err, "page %d", located.index+1)
	}
	normalizer := extract.NewNormalizer(cal, s.layout.Pitch)

	rects := located.page.Rects()
	out := TeamShots{Header: located.header}
	for _, policy := range s.layout.Policies {
		raw, policyDiag := extract.ExtractShots(curves, rects, policy)
		diag.Policies[policy.Map] = policyDiag
		for _, item := range raw {
			length, width := normalizer.Normalize(item.Centroid)
			out.Events = append(out.Events, shot.Event{
				Map:    item.Map,
				Raw:    item.Centroid,
				Length: length,
				Width:  width,
				Target: item.Target,
				Goal:   item.Goal,
			})
		}
	}
	return out, diag, nil
}
