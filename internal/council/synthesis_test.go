package council

import (
	"context"
	"strings"
	"testing"
)

func TestBuildSynthesisInputReconstructable(t *testing.T) {
	cardio := "heart findings\nsecond line"
	psych := "mood findings"
	pulmo := "lung findings"
	input := BuildSynthesisInput(cardio, psych, pulmo)

	rest, ok := strings.CutPrefix(input, "Cardiologist Summary:\n")
	if !ok {
		t.Fatalf("missing cardiologist header: %q", input)
	}
	gotCardio, rest, ok := strings.Cut(rest, "\n\nPsychologist Summary:\n")
	if !ok {
		t.Fatalf("missing psychologist header: %q", input)
	}
	gotPsych, gotPulmo, ok := strings.Cut(rest, "\n\nPulmonologist Summary:\n")
	if !ok {
		t.Fatalf("missing pulmonologist header: %q", input)
	}
	gotPulmo = strings.TrimSuffix(gotPulmo, "\n")

	if gotCardio != cardio || gotPsych != psych || gotPulmo != pulmo {
		t.Fatalf("sections do not reconstruct inputs: %q / %q / %q", gotCardio, gotPsych, gotPulmo)
	}
}

func TestSynthesizeCombinesAllThreeSummaries(t *testing.T) {
	az := &fakeAnalyzer{}

	out, err := Synthesize(context.Background(), az, "cardio-sum", "psych-sum", "pulmo-sum")
	if err != nil {
		t.Fatalf("synthesize failed: %v", err)
	}
	if out == "" {
		t.Fatal("empty synthesis")
	}
	if len(az.calls) != 1 {
		t.Fatalf("got %d capability calls, want 1", len(az.calls))
	}
	sent := az.calls[0]
	for _, want := range []string{"cardio-sum", "psych-sum", "pulmo-sum", "Cardiologist Summary:", "Psychologist Summary:", "Pulmonologist Summary:"} {
		if !strings.Contains(sent, want) {
			t.Fatalf("synthesis input missing %q: %q", want, sent)
		}
	}
}
