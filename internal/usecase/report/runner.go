package report

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/bkyoung/diffcover/internal/coverage"
	"github.com/bkyoung/diffcover/internal/diff"
	"github.com/bkyoung/diffcover/internal/domain"
	"github.com/bkyoung/diffcover/internal/store"
)

// DiffSource supplies the raw diff text and ref metadata for a comparison.
// Implementations surface a domain.DiffSourceError when the underlying tool
// reports anything on its error channel.
type DiffSource interface {
	Diff(ctx context.Context, baseRef string) (string, error)
	CurrentBranch(ctx context.Context) (string, error)
	ResolveSHA(ctx context.Context, ref string) (string, error)
}

// RunRecorder persists a summary row for each completed run.
type RunRecorder interface {
	SaveRun(ctx context.Context, run store.Run) error
}

// Logger receives structured run events.
type Logger interface {
	LogInfo(ctx context.Context, message string, fields map[string]interface{})
	LogWarning(ctx context.Context, message string, fields map[string]interface{})
}

// Request describes one diff-coverage invocation.
type Request struct {
	CoveragePath string
	BaseRef      string
	TargetRef    string // label for the history record; autodetected when empty
	HTMLPath     string // when set, the HTML rendering is written here
	FailUnder    int    // 0 disables the threshold check
	Repository   string
}

// Runner owns the per-run pipeline state: fetch diff, read coverage, parse
// both, correlate, render, record. Built once per invocation and passed to
// its collaborators by reference; nothing is shared across runs.
type Runner struct {
	Diff     DiffSource
	Store    RunRecorder // optional
	Logger   Logger
	Out      io.Writer
	ReadFile func(path string) ([]byte, error)
	Now      func() time.Time
}

// Run executes the full pipeline and writes the console report to Out.
// A BelowThresholdError is returned after the report is written when the
// aggregate percentage misses the fail-under threshold.
func (r *Runner) Run(ctx context.Context, req Request) (domain.Report, error) {
	readFile := r.ReadFile
	if readFile == nil {
		readFile = os.ReadFile
	}

	diffText, err := r.Diff.Diff(ctx, req.BaseRef)
	if err != nil {
		return domain.Report{}, err
	}

	covText, err := readFile(req.CoveragePath)
	if err != nil {
		return domain.Report{}, fmt.Errorf("read coverage report %s: %w", req.CoveragePath, err)
	}

	patch, err := diff.Parse(diffText)
	if err != nil {
		return domain.Report{}, fmt.Errorf("parse diff: %w", err)
	}

	fileCoverage, err := coverage.Parse(string(covText))
	if err != nil {
		return domain.Report{}, fmt.Errorf("parse coverage report %s: %w", req.CoveragePath, err)
	}

	rep := Compute(patch, fileCoverage)
	r.logSkippedFiles(ctx, patch, fileCoverage)

	if _, err := io.WriteString(r.Out, Render(rep, FormatConsole)); err != nil {
		return domain.Report{}, fmt.Errorf("write console report: %w", err)
	}

	if req.HTMLPath != "" {
		if err := r.writeHTML(ctx, rep, req.HTMLPath); err != nil {
			return domain.Report{}, err
		}
	}

	r.recordRun(ctx, req, rep)

	if req.FailUnder > 0 && rep.Total.Percent < req.FailUnder {
		return rep, &domain.BelowThresholdError{Percent: rep.Total.Percent, Threshold: req.FailUnder}
	}
	return rep, nil
}

func (r *Runner) writeHTML(ctx context.Context, rep domain.Report, path string) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create report dir: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(Render(rep, FormatHTML)), 0o644); err != nil {
		return fmt.Errorf("write html report: %w", err)
	}
	if r.Logger != nil {
		r.Logger.LogInfo(ctx, "html report written", map[string]interface{}{
			"path": path,
		})
	}
	return nil
}

// logSkippedFiles notes diffed files that had no usable coverage data. Not an
// error: coverage tools only instrument what they can see.
func (r *Runner) logSkippedFiles(ctx context.Context, patch diff.Patch, fileCoverage map[string]domain.FileCoverage) {
	if r.Logger == nil {
		return
	}
	for _, fd := range patch.Files {
		if _, ok := fileCoverage[fd.Path]; !ok {
			r.Logger.LogInfo(ctx, "no coverage data for diffed file", map[string]interface{}{
				"file": fd.Path,
			})
		}
	}
}

// recordRun appends a history row. Failures here never fail the run: the
// report is the product, the history is convenience.
func (r *Runner) recordRun(ctx context.Context, req Request, rep domain.Report) {
	if r.Store == nil {
		return
	}

	now := time.Now
	if r.Now != nil {
		now = r.Now
	}

	targetRef := req.TargetRef
	if targetRef == "" {
		if branch, err := r.Diff.CurrentBranch(ctx); err == nil {
			targetRef = branch
		} else {
			targetRef = "HEAD"
		}
	}

	run := store.Run{
		Timestamp:    now(),
		Repository:   req.Repository,
		BaseRef:      req.BaseRef,
		TargetRef:    targetRef,
		TotalLines:   rep.Total.Total,
		MissingLines: rep.Total.Missing,
		Percent:      rep.Total.Percent,
	}
	if sha, err := r.Diff.ResolveSHA(ctx, req.BaseRef); err == nil {
		run.BaseSHA = sha
	}
	if sha, err := r.Diff.ResolveSHA(ctx, "HEAD"); err == nil {
		run.HeadSHA = sha
	}

	if err := r.Store.SaveRun(ctx, run); err != nil {
		if r.Logger != nil {
			r.Logger.LogWarning(ctx, "failed to record run history", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}
}
