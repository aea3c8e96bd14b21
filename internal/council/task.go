package council

import (
	"context"
	"fmt"

	"github.com/clinsight/diagteam/internal/analysis"
)

// analysisFeatures is the fixed feature request every task submits.
var analysisFeatures = analysis.Features{Entities: true, Keywords: true}

// Task is one role-labeled unit of work: analyze the stored input, summarize
// the ranked terms. Behavior is identical across roles.
type Task struct {
	Role  Role
	Input string
}

// Run submits the input to the analysis capability and summarizes the result.
// Any capability error propagates; a task never silently produces an empty
// summary.
func (t Task) Run(ctx context.Context, az analysis.Analyzer) (string, error) {
	res, err := az.Analyze(ctx, t.Input, analysisFeatures)
	if err != nil {
		return "", fmt.Errorf("%s analysis: %w", t.Role, err)
	}
	return analysis.Summarize(res), nil
}

// FirstStageTasks builds the standard four-member batch over one report.
func FirstStageTasks(reportText string) []Task {
	return []Task{
		{Role: RoleCardiology, Input: reportText},
		{Role: RolePsychology, Input: reportText},
		{Role: RolePulmonology, Input: reportText},
		{Role: RoleGeneral, Input: reportText},
	}
}
