// render-report rebuilds the text and PDF outputs from a saved result
// envelope JSON, without calling the analysis capability.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/clinsight/diagteam/internal/council"
	"github.com/clinsight/diagteam/internal/report"
)

func main() {
	inputPath := flag.String("input", "", "Path to a saved result envelope JSON")
	outputPath := flag.String("output", "", "Path to write the rebuilt text report (defaults to stdout)")
	pdfOutputPath := flag.String("pdf-output", "", "Optional path to write the rebuilt PDF")
	flag.Parse()

	if *inputPath == "" {
		log.Fatal("missing required -input")
	}

	in, err := os.ReadFile(*inputPath)
	if err != nil {
		log.Fatalf("read input: %v", err)
	}

	var env council.ResultEnvelope
	if err := json.Unmarshal(in, &env); err != nil {
		log.Fatalf("decode input JSON: %v", err)
	}
	result := env.Result()

	finalText := report.BuildText(result.Record, result.Synthesis)
	if *outputPath == "" {
		fmt.Print(finalText)
	} else if err := report.WriteFileAtomic(*outputPath, []byte(finalText), 0o644); err != nil {
		log.Fatalf("write text report: %v", err)
	}

	if *pdfOutputPath != "" {
		markdown := report.BuildMarkdown(result.Record, result.Synthesis)
		pdf, err := report.NewChromiumPDFRenderer().Render(context.Background(), markdown)
		if err != nil {
			log.Fatalf("render pdf: %v", err)
		}
		if err := report.WriteFileAtomic(*pdfOutputPath, pdf, 0o644); err != nil {
			log.Fatalf("write pdf report: %v", err)
		}
	}
}
