// Package csvfile appends extracted matches to the shot and team-stat CSV
// artifacts. Files are append-only; the header is written once and checked
// on every later append.
package csvfile

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"sync"

	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/match-reports/internal/domain/shot"
	"github.com/riskibarqy/match-reports/internal/domain/teamstats"
	"github.com/valyala/bytebufferpool"
)

var ErrHeaderMismatch = crerr.New("csv header mismatch")

const dateLayout = "2006-01-02"

var shotColumns = []string{
	"team_name",
	"length",
	"width",
	"target",
	"goal",
	"length_translated",
	"width_translated",
	"matchdate",
	"opponent_team_name",
	"backline_num",
	"opp_backline_num",
	"map",
}

var statPrefixColumns = []string{"team_name", "opponent_team_name", "match_date", "competition"}

type Writer struct {
	mu          sync.Mutex
	shotsPath   string
	statsPath   string
	statColumns []string
	statsHeader []string
}

// NewWriter creates dir when missing. columns are the published stat columns
// in schema order.
func NewWriter(dir, shotsFile, statsFile string, columns []string) (*Writer, error) {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return nil, fmt.Errorf("output dir cannot be empty")
	}
	if strings.TrimSpace(shotsFile) == "" || strings.TrimSpace(statsFile) == "" {
		return nil, fmt.Errorf("shots and stats file names are required")
	}
	if len(columns) == 0 {
		return nil, fmt.Errorf("stat columns cannot be empty")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir %s: %w", dir, err)
	}

	header := make([]string, 0, len(statPrefixColumns)+len(columns))
	header = append(header, statPrefixColumns...)
	header = append(header, columns...)

	return &Writer{
		shotsPath:   filepath.Join(dir, shotsFile),
		statsPath:   filepath.Join(dir, statsFile),
		statColumns: slices.Clone(columns),
		statsHeader: header,
	}, nil
}

func (w *Writer) ShotsPath() string { return w.shotsPath }

func (w *Writer) StatsPath() string { return w.statsPath }

// AppendMatch writes the match shots and both team rows. The stats file is
// written last so a row there implies its shots are already on disk.
func (w *Writer) AppendMatch(ctx context.Context, _ string, record teamstats.MatchRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if _, err := checkHeader(w.shotsPath, shotColumns); err != nil {
		return err
	}
	if _, err := checkHeader(w.statsPath, w.statsHeader); err != nil {
		return err
	}

	shotRows := make([][]string, 0, len(record.Shots))
	for _, item := range record.Shots {
		shotRows = append(shotRows, shotRow(item))
	}
	if err := appendRows(w.shotsPath, shotColumns, shotRows); err != nil {
		return fmt.Errorf("append shots match=%s: %w", record.Key.String(), err)
	}

	statRows := make([][]string, 0, 2)
	for _, item := range record.Teams() {
		statRows = append(statRows, w.statRow(item))
	}
	if err := appendRows(w.statsPath, w.statsHeader, statRows); err != nil {
		return fmt.Errorf("append team stats match=%s: %w", record.Key.String(), err)
	}

	return nil
}

func (w *Writer) statRow(item teamstats.TeamStatRecord) []string {
	row := make([]string, 0, len(w.statsHeader))
	row = append(row, item.Team, item.Opponent, formatDate(item), item.Competition)
	for _, column := range w.statColumns {
		if text, ok := item.Text[column]; ok {
			row = append(row, text)
			continue
		}
		row = append(row, formatFloat(item.Value(column)))
	}
	return row
}

func shotRow(item shot.Event) []string {
	matchDate := ""
	if !item.MatchDate.IsZero() {
		matchDate = item.MatchDate.Format(dateLayout)
	}
	return []string{
		item.Team,
		formatFloat(item.Raw.Y),
		formatFloat(item.Raw.X),
		string(item.Target),
		strconv.FormatBool(item.Goal),
		formatFloat(item.Length),
		formatFloat(item.Width),
		matchDate,
		item.Opponent,
		strconv.Itoa(item.Backline),
		strconv.Itoa(item.OppBackline),
		string(item.Map),
	}
}

func appendRows(path string, header []string, rows [][]string) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	writeHeader, err := readHeader(f, path, header)
	if err != nil {
		return err
	}
	if !writeHeader && len(rows) == 0 {
		return nil
	}

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	cw := csv.NewWriter(buf)
	if writeHeader {
		if err := cw.Write(header); err != nil {
			return err
		}
	}
	if err := cw.WriteAll(rows); err != nil {
		return err
	}

	if _, err := f.Seek(0, io.SeekEnd); err != nil {
		return err
	}
	if _, err := f.Write(buf.B); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Sync()
}

// checkHeader reports whether path is missing or empty, failing when it
// already starts with a different header.
func checkHeader(path string, header []string) (bool, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return true, nil
	}
	if err != nil {
		return false, err
	}
	defer f.Close()
	return readHeader(f, path, header)
}

func readHeader(r io.Reader, path string, header []string) (bool, error) {
	existing, err := csv.NewReader(r).Read()
	switch {
	case err == io.EOF:
		return true, nil
	case err != nil:
		return false, fmt.Errorf("read header %s: %w", path, err)
	case !slices.Equal(existing, header):
		return false, crerr.Wrapf(ErrHeaderMismatch, "%s has %d columns, expected %d", path, len(existing), len(header))
	}
	return false, nil
}

func formatDate(item teamstats.TeamStatRecord) string {
	if item.MatchDate.IsZero() {
		return ""
	}
	return item.MatchDate.Format(dateLayout)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
