package analysis

import (
	"fmt"
	"sort"
	"strings"
)

const (
	summaryLimit = 5

	summaryPreamble = "Based on the analysis of the medical report, the following clinical indicators are most relevant:\n\n"
	summaryClosing  = "\nThese keywords suggest a combination of physiological and psychological components that should be reviewed by a multidisciplinary medical team."
)

// noiseTerms are generic labels the capability tends to echo back from the
// prompt; they carry no clinical signal and are dropped regardless of score.
var noiseTerms = map[string]struct{}{
	"keywords":                       {},
	"analysis of the medical report": {},
}

// Summarize turns a raw ranked keyword list into the fixed narrative summary:
// preamble, up to five bullets ordered by relevance descending (ties keep
// input order), closing sentence. Pure and total; an empty input yields the
// preamble and closing with no bullets.
func Summarize(res Result) string {
	kept := make([]Keyword, 0, len(res.Keywords))
	for _, k := range res.Keywords {
		if _, noisy := noiseTerms[strings.ToLower(k.Term)]; noisy {
			continue
		}
		kept = append(kept, k)
	}
	sort.SliceStable(kept, func(i, j int) bool { return kept[i].Relevance > kept[j].Relevance })
	if len(kept) > summaryLimit {
		kept = kept[:summaryLimit]
	}

	var b strings.Builder
	b.WriteString(summaryPreamble)
	for _, k := range kept {
		fmt.Fprintf(&b, "- %s (relevance score: %.2f)\n", k.Term, k.Relevance)
	}
	b.WriteString(summaryClosing)
	return b.String()
}
