// Package council orchestrates the diagnostic team: role-labeled analysis
// tasks fanned out over the same report, a join, and a second-stage synthesis
// over three of the first-stage summaries.
package council

import (
	"errors"
	"fmt"
	"time"

	"github.com/clinsight/diagteam/internal/record"
)

// Role labels a unit of concurrent work. Roles are purely nominal: every
// task runs the same analysis, the role only names the result.
type Role string

const (
	RoleCardiology  Role = "Cardiologist"
	RolePsychology  Role = "Psychologist"
	RolePulmonology Role = "Pulmonologist"
	RoleGeneral     Role = "General"

	// RoleTeam labels the second-stage synthesis over the three specialist
	// summaries.
	RoleTeam Role = "MultidisciplinaryTeam"
)

// MaxReportChars caps the input document; longer reports are truncated and
// flagged in metadata.
const MaxReportChars = 100000

type Metadata struct {
	Model          string    `json:"model"`
	StagesExecuted []string  `json:"stages_executed"`
	InputTruncated bool      `json:"input_truncated"`
	StartedAt      time.Time `json:"started_at"`
	CompletedAt    time.Time `json:"completed_at"`
	DurationMS     int64     `json:"duration_ms"`
}

// Result is the immutable outcome of one full pipeline run.
type Result struct {
	Record    *record.Record
	Summaries map[Role]string
	Synthesis string
	Metadata  Metadata
}

// ResultEnvelope is the JSON form of Result, written once alongside the
// rendered outputs so reports can be rebuilt without re-running analysis.
type ResultEnvelope struct {
	PatientFields []record.Field  `json:"patient_fields"`
	Summaries     map[Role]string `json:"summaries"`
	Synthesis     string          `json:"synthesis"`
	Metadata      Metadata        `json:"metadata"`
}

func (r Result) Envelope() ResultEnvelope {
	return ResultEnvelope{
		PatientFields: r.Record.Fields(),
		Summaries:     r.Summaries,
		Synthesis:     r.Synthesis,
		Metadata:      r.Metadata,
	}
}

func (e ResultEnvelope) Result() Result {
	return Result{
		Record:    record.FromFields(e.PatientFields),
		Summaries: e.Summaries,
		Synthesis: e.Synthesis,
		Metadata:  e.Metadata,
	}
}

// StageError tags a pipeline failure with the stage that produced it.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string { return fmt.Sprintf("%s: %v", e.Stage, e.Err) }
func (e *StageError) Unwrap() error { return e.Err }

func StageNameFromError(err error) string {
	var se *StageError
	if errors.As(err, &se) {
		return se.Stage
	}
	return "pipeline"
}
