package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/match-reports/internal/domain/shot"
	"github.com/riskibarqy/match-reports/internal/extract"
	"github.com/riskibarqy/match-reports/internal/layout"
	"github.com/riskibarqy/match-reports/internal/platform/logging"
)

func newTestService(t *testing.T, provider *fakeProvider, cfg ReportConfig, sinks ...RecordSink) *ReportService {
	t.Helper()
	service, err := NewReportService(provider, layout.Default(), nil, sinks, fixedIDs{id: "run-1"}, cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("new report service: %v", err)
	}
	return service
}

func TestNewReportService_Validation(t *testing.T) {
	t.Parallel()

	if _, err := NewReportService(nil, layout.Default(), nil, nil, nil, ReportConfig{}, nil); !errors.Is(err, ErrDependencyUnavailable) {
		t.Fatalf("expected ErrDependencyUnavailable, got %v", err)
	}

	broken := layout.Default()
	broken.Pitch.Length = 0
	if _, err := NewReportService(newFakeProvider(), broken, nil, nil, nil, ReportConfig{}, nil); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestReportService_LayoutReturnsEffectiveTable(t *testing.T) {
	t.Parallel()

	custom := layout.Default()
	custom.Pitch.Length = 110
	service, err := NewReportService(newFakeProvider(), custom, nil, nil, fixedIDs{id: "run-1"}, ReportConfig{}, logging.NewNop())
	require.NoError(t, err)

	want, err := custom.Encode()
	require.NoError(t, err)
	got, err := service.Layout().Encode()
	require.NoError(t, err)
	assert.Equal(t, string(want), string(got))
}

func TestReportService_ProcessFile_ExtractsMatch(t *testing.T) {
	t.Parallel()

	provider := newFakeProvider()
	provider.docs["a.json"] = defaultFixture("Northwestern Wildcats", "Indiana Hoosiers").pages()
	service := newTestService(t, provider, ReportConfig{})

	record, diag, err := service.ProcessFile(context.Background(), "a.json")
	require.NoError(t, err)

	assert.Equal(t, "Northwestern Wildcats", record.Key.Home)
	assert.Equal(t, "Indiana Hoosiers", record.Key.Away)
	assert.Equal(t, time.Date(2024, 9, 21, 0, 0, 0, 0, time.UTC), record.Key.MatchDate)
	assert.Equal(t, "a.json", record.Source)

	assert.Equal(t, "Indiana Hoosiers", record.Home.Opponent)
	assert.Equal(t, "Northwestern Wildcats", record.Away.Opponent)
	assert.Equal(t, "NCAA D1 Big Ten", record.Home.Competition)
	assert.Equal(t, 12.0, record.Home.Value("shots"))
	assert.Equal(t, 50.0, record.Home.Value("shots_on_target_pct"))
	assert.Equal(t, 44.0, record.Away.Value("shots_on_target_pct"))
	assert.Equal(t, 55.0, record.Home.Value("possession_pct"))
	assert.Equal(t, 0.87, record.Away.Value("xg"))
	assert.Equal(t, 0.0, record.Home.Value("fouls"), "lines after the stop label are ignored")
	assert.Len(t, record.Home.Stats, len(layout.Default().PublishedColumns()))

	require.Len(t, record.Shots, 6)
	homeShots := record.ShotsBy("Northwestern Wildcats")
	require.Len(t, homeShots, 3)
	assert.Equal(t, shot.MapOrigin, homeShots[0].Map)
	assert.True(t, homeShots[0].Goal)
	assert.Equal(t, shot.TargetOffTarget, homeShots[0].Target)
	assert.InDelta(t, 60-(404-286.74831)*0.2, homeShots[0].Length, 1e-9)
	assert.Equal(t, shot.TargetBlocked, homeShots[1].Target)
	assert.Equal(t, shot.MapGoalMouth, homeShots[2].Map)
	assert.Equal(t, shot.TargetOnTarget, homeShots[2].Target)
	assert.Equal(t, 4, homeShots[0].Backline)
	assert.Equal(t, 5, homeShots[0].OppBackline)
	assert.Equal(t, "Indiana Hoosiers", homeShots[0].Opponent)

	awayShots := record.ShotsBy("Indiana Hoosiers")
	require.Len(t, awayShots, 3)
	assert.Equal(t, 5, awayShots[0].Backline)

	require.Len(t, diag.ShotPages, 2)
	assert.Equal(t, 13, diag.ShotPages[0].Page)
	assert.Equal(t, 1, diag.ShotPages[0].Calibration.Candidates)
	assert.Equal(t, 0, diag.Assembly.OutOfEnvelope)
	assert.Empty(t, diag.LineupIssue)
	assert.Equal(t, int32(1), provider.closed.Load())
}

func TestReportService_ProcessFile_ShotMapNotFound(t *testing.T) {
	t.Parallel()

	fixture := defaultFixture("Home", "Away")
	fixture.noMarker = true
	provider := newFakeProvider()
	provider.docs["b.json"] = fixture.pages()
	service := newTestService(t, provider, ReportConfig{})

	_, _, err := service.ProcessFile(context.Background(), "b.json")
	if !errors.Is(err, extract.ErrShotMapNotFound) {
		t.Fatalf("expected ErrShotMapNotFound, got %v", err)
	}
	if provider.closed.Load() != 1 {
		t.Fatalf("document must be closed on failure")
	}
}

func TestReportService_ProcessFile_CalibrationNotFound(t *testing.T) {
	t.Parallel()

	fixture := defaultFixture("Home", "Away")
	fixture.noGlyph = true
	provider := newFakeProvider()
	provider.docs["c.json"] = fixture.pages()
	service := newTestService(t, provider, ReportConfig{})

	_, diag, err := service.ProcessFile(context.Background(), "c.json")
	if !errors.Is(err, extract.ErrCalibrationNotFound) {
		t.Fatalf("expected ErrCalibrationNotFound, got %v", err)
	}
	if len(diag.ShotPages) != 1 {
		t.Fatalf("expected diagnostics for the failing page, got %d", len(diag.ShotPages))
	}
}

func TestReportService_ProcessFile_TableIssuesAreDiagnostics(t *testing.T) {
	t.Parallel()

	fixture := defaultFixture("Home", "Away")
	fixture.statsBody = "Goals 2 1\nThrow-ins 20 18\nOffsides / won 0 0\nDribbles / successful 10/5 50% 8/2 25%"
	provider := newFakeProvider()
	provider.docs["d.json"] = fixture.pages()
	service := newTestService(t, provider, ReportConfig{})

	record, diag, err := service.ProcessFile(context.Background(), "d.json")
	require.NoError(t, err)
	assert.Equal(t, 2.0, record.Home.Value("goals"))
	assert.Len(t, diag.TableIssues, 2)
}

func TestReportService_ProcessFile_RequiresPath(t *testing.T) {
	t.Parallel()

	service := newTestService(t, newFakeProvider(), ReportConfig{})
	if _, _, err := service.ProcessFile(context.Background(), " "); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}
