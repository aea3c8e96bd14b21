package council

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/clinsight/diagteam/internal/analysis"
	"github.com/clinsight/diagteam/internal/record"
)

type ProgressFn func(stage, message string)

type Config struct {
	// TaskTimeout bounds each analysis task; zero disables the bound.
	TaskTimeout time.Duration
}

// Pipeline runs the full report flow: field extraction, four-way concurrent
// first stage, join, synthesis.
type Pipeline struct {
	analyzer analysis.Analyzer
	cfg      Config
}

func NewPipeline(az analysis.Analyzer, cfg Config) *Pipeline {
	return &Pipeline{analyzer: az, cfg: cfg}
}

func (p *Pipeline) Run(ctx context.Context, reportText string) (Result, error) {
	return p.runWithProgress(ctx, reportText, nil)
}

func (p *Pipeline) RunWithProgress(ctx context.Context, reportText string, progress ProgressFn) (Result, error) {
	return p.runWithProgress(ctx, reportText, progress)
}

func (p *Pipeline) runWithProgress(ctx context.Context, reportText string, progress ProgressFn) (Result, error) {
	res := Result{Metadata: Metadata{StartedAt: time.Now(), Model: p.modelName()}}
	if strings.TrimSpace(reportText) == "" {
		return res, errors.New("report text is empty")
	}
	if len(reportText) > MaxReportChars {
		reportText = reportText[:MaxReportChars]
		res.Metadata.InputTruncated = true
	}

	emit(progress, "extract", "Extracting patient fields...")
	res.Record = record.Extract(reportText)
	res.Metadata.StagesExecuted = append(res.Metadata.StagesExecuted, "extract")

	emit(progress, "dispatch", "Running specialist analyses...")
	summaries, err := Dispatch(ctx, p.analyzer, FirstStageTasks(reportText), p.cfg.TaskTimeout)
	if err != nil {
		return res, &StageError{Stage: "dispatch", Err: err}
	}
	res.Summaries = summaries
	res.Metadata.StagesExecuted = append(res.Metadata.StagesExecuted, "dispatch")

	emit(progress, "synthesis", "Synthesizing team diagnosis...")
	synthesis, err := Synthesize(ctx, p.analyzer, summaries[RoleCardiology], summaries[RolePsychology], summaries[RolePulmonology])
	if err != nil {
		return res, &StageError{Stage: "synthesis", Err: err}
	}
	res.Synthesis = synthesis
	res.Metadata.StagesExecuted = append(res.Metadata.StagesExecuted, "synthesis")

	res.Metadata.CompletedAt = time.Now()
	res.Metadata.DurationMS = res.Metadata.CompletedAt.Sub(res.Metadata.StartedAt).Milliseconds()
	return res, nil
}

func (p *Pipeline) modelName() string {
	if n, ok := p.analyzer.(interface{ ModelName() string }); ok {
		return n.ModelName()
	}
	return analysis.DefaultModel
}

func emit(progress ProgressFn, stage, message string) {
	if progress != nil {
		progress(stage, message)
	}
}
