package usecase

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/sourcegraph/conc/panics"

	"github.com/riskibarqy/match-reports/internal/domain/teamstats"
)

const (
	fileStatusSuccess = "success"
	fileStatusFailed  = "failed"
	fileStatusSkipped = "skipped"
)

type FileResult struct {
	Index       int                   `json:"index"`
	Path        string                `json:"path"`
	Status      string                `json:"status"`
	Message     string                `json:"message,omitempty"`
	DurationMs  int64                 `json:"duration_ms"`
	Shots       int                   `json:"shots"`
	Record      teamstats.MatchRecord `json:"-"`
	Diagnostics FileDiagnostics       `json:"diagnostics"`
	Err         error                 `json:"-"`
}

type BatchResult struct {
	RunID        string       `json:"run_id"`
	FileCount    int          `json:"file_count"`
	SuccessCount int          `json:"success_count"`
	FailedCount  int          `json:"failed_count"`
	SkippedCount int          `json:"skipped_count"`
	WorkerCount  int          `json:"worker_count"`
	Files        []FileResult `json:"files"`
}

// Records returns the successfully extracted matches in listing order.
func (r BatchResult) Records() []teamstats.MatchRecord {
	out := make([]teamstats.MatchRecord, 0, r.SuccessCount)
	for _, file := range r.Files {
		if file.Status == fileStatusSuccess {
			out = append(out, file.Record)
		}
	}
	return out
}

// Summary is a one-line description for logs and CLI output.
func (r BatchResult) Summary() string {
	return fmt.Sprintf("run %s: %d files, %d extracted, %d skipped, %d failed",
		r.RunID, r.FileCount, r.SuccessCount, r.SkippedCount, r.FailedCount)
}

// ProcessBatch extracts every path and writes the successful records to all
// sinks in listing order. A failing, panicking or stalled file is recorded
// and skipped; it never discards the results of other files.
func (s *ReportService) ProcessBatch(ctx context.Context, paths []string) (BatchResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ReportService.ProcessBatch")
	defer span.End()

	runID, err := s.ids.NewID()
	if err != nil {
		return BatchResult{}, fmt.Errorf("create run id: %w", err)
	}

	workerCount := s.cfg.Workers
	if workerCount > len(paths) {
		workerCount = len(paths)
	}
	if workerCount <= 0 {
		workerCount = 1
	}
	result := BatchResult{
		RunID:       runID,
		FileCount:   len(paths),
		WorkerCount: workerCount,
		Files:       make([]FileResult, 0, len(paths)),
	}
	if len(paths) == 0 {
		return result, nil
	}

	logger := s.logger.With("run_id", runID)
	logger.InfoContext(ctx, "batch started", "files", len(paths), "workers", workerCount, "layout", s.layout.Version)

	if workerCount == 1 {
		for idx, path := range paths {
			result.Files = append(result.Files, s.runFile(ctx, idx, path))
		}
	} else {
		files, err := s.runPool(ctx, paths, workerCount)
		if err != nil {
			return BatchResult{}, err
		}
		result.Files = files
	}

	seen := make(map[string]int, len(result.Files))
	for i := range result.Files {
		file := &result.Files[i]
		if file.Status == fileStatusSuccess {
			s.commit(ctx, runID, file, seen)
		}
		switch file.Status {
		case fileStatusSuccess:
			result.SuccessCount++
			logger.InfoContext(ctx, "report extracted",
				"file", file.Path,
				"match", file.Record.Key.String(),
				"match_date", matchDateOrZero(file.Record.Key.MatchDate),
				"shots", file.Shots,
				"ambiguities", file.Diagnostics.Ambiguities(),
				"out_of_envelope", file.Diagnostics.Assembly.OutOfEnvelope,
				"duration_ms", file.DurationMs,
			)
		case fileStatusSkipped:
			result.SkippedCount++
			logger.InfoContext(ctx, "report skipped", "file", file.Path, "reason", file.Message)
		default:
			result.FailedCount++
			logger.ErrorContext(ctx, "report failed", "file", file.Path, "error", file.Err)
		}
	}

	logger.InfoContext(ctx, "batch finished",
		"success", result.SuccessCount,
		"skipped", result.SkippedCount,
		"failed", result.FailedCount,
	)
	return result, nil
}

func (s *ReportService) runPool(ctx context.Context, paths []string, workerCount int) ([]FileResult, error) {
	pool, err := ants.NewPool(workerCount)
	if err != nil {
		return nil, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	results := make(chan FileResult, len(paths))
	var workers sync.WaitGroup
	for idx, path := range paths {
		idx, path := idx, path
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()
			results <- s.runFile(ctx, idx, path)
		}); err != nil {
			workers.Done()
			workers.Wait()
			return nil, fmt.Errorf("submit file to worker pool: %w", err)
		}
	}

	workers.Wait()
	close(results)

	files := make([]FileResult, 0, len(paths))
	for row := range results {
		files = append(files, row)
	}
	sort.Slice(files, func(i, j int) bool {
		return files[i].Index < files[j].Index
	})
	return files, nil
}

// runFile processes one path under its own timeout. ProcessFile runs in its
// own goroutine so a stalled provider cannot hold the batch past the timeout.
// On timeout that goroutine keeps running until ProcessFile returns; done is
// buffered so it can still send and exit once nobody is receiving.
func (s *ReportService) runFile(ctx context.Context, idx int, path string) FileResult {
	start := time.Now()
	row := FileResult{Index: idx, Path: path}

	fileCtx, cancel := context.WithTimeout(ctx, s.cfg.FileTimeout)
	defer cancel()

	type outcome struct {
		record teamstats.MatchRecord
		diag   FileDiagnostics
		err    error
	}
	done := make(chan outcome, 1)
	go func() {
		var out outcome
		var catcher panics.Catcher
		catcher.Try(func() {
			out.record, out.diag, out.err = s.ProcessFile(fileCtx, path)
		})
		if recovered := catcher.Recovered(); recovered != nil {
			out.err = fmt.Errorf("panic while processing report: %w", recovered.AsError())
		}
		done <- out
	}()

	var out outcome
	select {
	case out = <-done:
	case <-fileCtx.Done():
		out.err = fileCtx.Err()
	}
	if errors.Is(out.err, context.DeadlineExceeded) {
		out.err = fmt.Errorf("%w after %s: %v", ErrFileTimeout, s.cfg.FileTimeout, out.err)
	}

	row.DurationMs = time.Since(start).Milliseconds()
	row.Diagnostics = out.diag
	if out.err != nil {
		row.Status = fileStatusFailed
		row.Err = out.err
		row.Message = out.err.Error()
		return row
	}

	if s.cfg.SkipExisting && s.repo != nil {
		exists, err := s.repo.ExistsMatch(ctx, out.record.Key)
		if err != nil {
			row.Status = fileStatusFailed
			row.Err = fmt.Errorf("check existing match: %w", err)
			row.Message = row.Err.Error()
			return row
		}
		if exists {
			row.Status = fileStatusSkipped
			row.Message = "match already stored: " + out.record.Key.String()
			return row
		}
	}

	row.Status = fileStatusSuccess
	row.Record = out.record
	row.Shots = len(out.record.Shots)
	return row
}

// commit writes one record to every sink. It runs on the batch goroutine only,
// so sinks see a single writer in listing order.
func (s *ReportService) commit(ctx context.Context, runID string, file *FileResult, seen map[string]int) {
	key := file.Record.Key.String()
	if prev, dup := seen[key]; dup {
		file.Status = fileStatusSkipped
		file.Message = fmt.Sprintf("duplicate of file %d", prev)
		return
	}
	seen[key] = file.Index

	for i, sink := range s.sinks {
		breaker := s.breakers[i]
		err := breaker.Allow()
		if err == nil {
			err = sink.AppendMatch(ctx, runID, file.Record)
			breaker.Record(err)
		}
		if err != nil {
			file.Status = fileStatusFailed
			file.Err = fmt.Errorf("write record: %w", err)
			file.Message = file.Err.Error()
			return
		}
	}
}

// ListReports lists report files in dir in name order, skipping dot-files
// and directories.
func ListReports(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	out := make([]string, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}
		out = append(out, filepath.Join(dir, name))
	}
	return out, nil
}
