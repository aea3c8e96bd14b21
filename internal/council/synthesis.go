package council

import (
	"context"
	"fmt"

	"github.com/clinsight/diagteam/internal/analysis"
)

const synthesisInputFormat = "Cardiologist Summary:\n%s\n\nPsychologist Summary:\n%s\n\nPulmonologist Summary:\n%s\n"

// BuildSynthesisInput concatenates the three specialist summaries under their
// fixed headers. The layout is a contract: splitting the output on the
// headers must reconstruct the inputs verbatim.
func BuildSynthesisInput(cardiology, psychology, pulmonology string) string {
	return fmt.Sprintf(synthesisInputFormat, cardiology, psychology, pulmonology)
}

// Synthesize runs the second-stage analysis over the combined specialist
// summaries. It is a hard data dependency: callers must hold all three
// summaries before invoking it, which in this pipeline means after the
// dispatcher join.
func Synthesize(ctx context.Context, az analysis.Analyzer, cardiology, psychology, pulmonology string) (string, error) {
	t := Task{Role: RoleTeam, Input: BuildSynthesisInput(cardiology, psychology, pulmonology)}
	return t.Run(ctx, az)
}
